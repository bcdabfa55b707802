// Package diffengine implements the structural diff (C2): a schema-driven
// parallel walk of two deserialized document trees that produces a flat
// list of pipeline.Difference values honoring the compiled rule set from
// internal/ruleengine.
package diffengine

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/google/jsonschema-go/jsonschema"

	"github.com/tayzer/compareengine/internal/modelregistry"
	"github.com/tayzer/compareengine/internal/pipeline"
	"github.com/tayzer/compareengine/internal/ruleengine"
)

// defaultMaxOneSidedDepth bounds the recursive descent used to enumerate
// descendants of a one-sided-null object (spec §4.2 step 4, "up to a
// bounded depth to keep output finite").
const defaultMaxOneSidedDepth = 8

// discriminatorFieldNames are the conventional tagged-variant marker fields
// checked before descending into an object (spec §9 "Polymorphic models").
var discriminatorFieldNames = []string{"$type", "Type", "Kind", "DiscriminatorType"}

// Walker performs one structural comparison between two document trees of
// the same declared schema.
type Walker struct {
	Rules          *ruleengine.CompiledRules
	MaxOneSidedDepth int
	Logger         *slog.Logger
}

// NewWalker returns a Walker bound to a compiled rule set.
func NewWalker(rules *ruleengine.CompiledRules) *Walker {
	return &Walker{
		Rules:            rules,
		MaxOneSidedDepth: defaultMaxOneSidedDepth,
		Logger:           slog.Default().With("component", "diffengine"),
	}
}

// Compare walks schema-declared fields of a and b, rooted at rootType, and
// returns every Difference found. The walk never panics on malformed input
// trees; missing fields are simply treated as null.
func (w *Walker) Compare(schema *jsonschema.Schema, rootType string, a, b *modelregistry.Node) []pipeline.Difference {
	out := make([]pipeline.Difference, 0)
	visited := newVisitedChain()
	w.walkObject("", schema, rootType, a, b, visited, &out)
	return out
}

func (w *Walker) depth() int {
	if w.MaxOneSidedDepth <= 0 {
		return defaultMaxOneSidedDepth
	}
	return w.MaxOneSidedDepth
}

// walkObject compares the declared properties of schema between a and b. It
// first checks for a tagged-variant discriminator mismatch (spec §9): if one
// is found the mismatch is reported once and the subtree is not descended.
func (w *Walker) walkObject(path string, schema *jsonschema.Schema, parentType string, a, b *modelregistry.Node, visited *visitedChain, out *[]pipeline.Difference) {
	if schema == nil {
		return
	}
	if a.IsNullOrMissing() && b.IsNullOrMissing() {
		return
	}

	if discPath, expected, actual, ok := discriminatorMismatch(path, a, b); ok {
		*out = append(*out, pipeline.Difference{
			PropertyPath:  discPath,
			ExpectedValue: expected,
			ActualValue:   actual,
			ParentType:    parentType,
		})
		return
	}

	if a.IsNullOrMissing() != b.IsNullOrMissing() {
		presentIsA := !a.IsNullOrMissing()
		present := a
		if !presentIsA {
			present = b
		}
		w.emitOneSidedDescendants(path, schema, present, presentIsA, parentType, w.depth(), out)
		return
	}

	if visited.has(a, b) {
		return
	}
	visited.push(a, b)
	defer visited.pop(a, b)

	names := make([]string, 0, len(schema.Properties))
	for name := range schema.Properties {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		propSchema := schema.Properties[name]
		childPath := joinPath(path, name)

		match := w.Rules.Match(childPath, parentType)
		if match.Ignore {
			continue
		}

		af := a.Field(name)
		bf := b.Field(name)
		w.walkValue(childPath, propSchema, name, parentType, af, bf, match, visited, out)
	}
}

func (w *Walker) walkValue(path string, schema *jsonschema.Schema, fieldName, parentType string, a, b *modelregistry.Node, match ruleengine.MatchResult, visited *visitedChain, out *[]pipeline.Difference) {
	if schema == nil {
		w.compareScalar(path, parentType, a, b, out)
		return
	}

	switch schema.Type {
	case "object":
		w.walkObject(path, schema, fieldName, a, b, visited, out)
	case "array":
		w.walkArray(path, schema.Items, fieldName, parentType, a, b, match, visited, out)
	default:
		w.compareScalar(path, parentType, a, b, out)
	}
}

func (w *Walker) compareScalar(path, parentType string, a, b *modelregistry.Node, out *[]pipeline.Difference) {
	if a.IsNullOrMissing() && b.IsNullOrMissing() {
		return
	}
	if a.IsNullOrMissing() != b.IsNullOrMissing() {
		*out = append(*out, pipeline.Difference{
			PropertyPath:  path,
			ExpectedValue: rawRepr(a),
			ActualValue:   rawRepr(b),
			ParentType:    parentType,
			KindHint:      pipeline.KindHintNullDiff,
		})
		return
	}

	if scalarsEqual(a.Scalar, b.Scalar, w.Rules.CaseInsensitive()) {
		return
	}

	*out = append(*out, pipeline.Difference{
		PropertyPath:  path,
		ExpectedValue: a.Scalar,
		ActualValue:   b.Scalar,
		ParentType:    parentType,
	})
}

// discriminatorMismatch checks a small set of conventional tagged-variant
// marker fields. If both sides declare one and the values differ, it
// reports a single difference at that field instead of letting the caller
// descend into two differently shaped variants.
func discriminatorMismatch(path string, a, b *modelregistry.Node) (string, any, any, bool) {
	if a.IsNullOrMissing() || b.IsNullOrMissing() {
		return "", nil, nil, false
	}
	for _, name := range discriminatorFieldNames {
		af, bf := a.Field(name), b.Field(name)
		if af == nil || bf == nil || af.Kind != modelregistry.KindScalar || bf.Kind != modelregistry.KindScalar {
			continue
		}
		if fmt.Sprint(af.Scalar) != fmt.Sprint(bf.Scalar) {
			return joinPath(path, name), af.Scalar, bf.Scalar, true
		}
	}
	return "", nil, nil, false
}

func joinPath(parent, name string) string {
	if parent == "" {
		return name
	}
	return parent + "." + name
}
