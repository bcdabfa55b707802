package modelregistry

import (
	"fmt"
	"strings"

	"github.com/google/jsonschema-go/jsonschema"
)

// ModelDefinition registers one named domain model: its declared shape
// (used to drive the C2 walk and returned verbatim by SchemaOf) plus
// whatever is needed to recognize it has been registered.
type ModelDefinition struct {
	Name   string
	Schema *jsonschema.Schema
}

// Registry resolves a model name to its declared Schema and deserializes
// raw bytes into a generic Node tree. It is the concrete implementation of
// the "Model Registry" external capability described in spec §4.9: callers
// plug in their own model definitions, the engine never hardcodes one.
type Registry struct {
	models map[string]ModelDefinition
}

// NewRegistry returns an empty Registry. Callers register models with
// Register before any Deserialize/SchemaOf call.
func NewRegistry() *Registry {
	return &Registry{models: map[string]ModelDefinition{}}
}

// Register adds or replaces a model definition by name.
func (r *Registry) Register(def ModelDefinition) {
	r.models[def.Name] = def
}

// SchemaOf returns the declared schema for a registered model. C2 walks this
// schema to decide which fields must be present on both sides, independent
// of what either document actually contains.
func (r *Registry) SchemaOf(modelName string) (*jsonschema.Schema, error) {
	def, ok := r.models[modelName]
	if !ok {
		return nil, fmt.Errorf("modelregistry: unresolved model %q", modelName)
	}
	return def.Schema, nil
}

// Deserialize turns raw bytes into a generic Node tree for the named model,
// inferring XML vs JSON from contentType (falling back to sniffing the first
// non-space byte when contentType is empty or unrecognized).
func (r *Registry) Deserialize(modelName string, data []byte, contentType string) (*Node, error) {
	if _, ok := r.models[modelName]; !ok {
		return nil, fmt.Errorf("modelregistry: unresolved model %q", modelName)
	}

	switch detectFormat(data, contentType) {
	case formatXML:
		return decodeXML(data, modelName, false)
	default:
		return decodeJSON(data, modelName)
	}
}

// DeserializeXMLNamespaceAware behaves like Deserialize but additionally
// honors the ignore_xml_namespaces rules-document toggle (spec §4.7,
// "Configuration applied per job"); JSON payloads are unaffected.
func (r *Registry) DeserializeXMLNamespaceAware(modelName string, data []byte, contentType string, ignoreXMLNamespaces bool) (*Node, error) {
	if _, ok := r.models[modelName]; !ok {
		return nil, fmt.Errorf("modelregistry: unresolved model %q", modelName)
	}
	if detectFormat(data, contentType) == formatXML {
		return decodeXML(data, modelName, ignoreXMLNamespaces)
	}
	return decodeJSON(data, modelName)
}

type format int

const (
	formatJSON format = iota
	formatXML
)

func detectFormat(data []byte, contentType string) format {
	ct := strings.ToLower(contentType)
	if strings.Contains(ct, "xml") {
		return formatXML
	}
	if strings.Contains(ct, "json") {
		return formatJSON
	}

	for _, b := range data {
		switch b {
		case ' ', '\t', '\n', '\r':
			continue
		case '<':
			return formatXML
		default:
			return formatJSON
		}
	}
	return formatJSON
}
