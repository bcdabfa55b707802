package modelregistry

import (
	"encoding/json"
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/tetratelabs/wazero/api"
)

// readSchemaFromMemory decodes a schema export's packed result: the high 32
// bits of the returned uint64 are the byte offset into the module's linear
// memory, the low 32 bits are the byte length of a UTF-8 JSON document
// describing a jsonschema.Schema. This is the same pointer-packing
// convention used by WASM string-return ABIs generally; plug-in authors are
// expected to encode their schema export this way.
func readSchemaFromMemory(mod api.Module, packed uint64) (*jsonschema.Schema, error) {
	offset := uint32(packed >> 32)
	length := uint32(packed)

	raw, ok := mod.Memory().Read(offset, length)
	if !ok {
		return nil, fmt.Errorf("modelregistry: schema export returned out-of-bounds memory range")
	}

	var schema jsonschema.Schema
	if err := json.Unmarshal(raw, &schema); err != nil {
		return nil, fmt.Errorf("modelregistry: decode schema json: %w", err)
	}
	return &schema, nil
}
