package modelregistry

import (
	"context"
	"fmt"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/imports/wasi_snapshot_preview1"
)

// WASMSchemaSource describes a WASM module that, when asked for an exported
// function named ExportFunc, returns a JSON-encoded jsonschema.Schema for a
// plug-in model whose shape isn't known at compile time (spec §4.9's
// "Registry... accepts them as plug-ins" / §9's "capability set"). The
// default registry carries no WASM runtime: RegisterWASMSchema must be
// called explicitly to opt a process into it.
type WASMSchemaSource struct {
	ModelName  string
	WASMBytes  []byte
	ExportFunc string // defaults to "schema_json" when empty
}

// RegisterWASMSchema compiles and instantiates src.WASMBytes under a fresh
// wazero runtime, invokes its schema export, and registers the resulting
// schema under src.ModelName. The runtime is closed before returning: this
// call only extracts the declared schema, it does not keep the module
// resident for later Deserialize calls (C2 only needs the Schema to drive
// its walk; deserialization itself stays in Go).
func (r *Registry) RegisterWASMSchema(ctx context.Context, src WASMSchemaSource) error {
	exportFunc := src.ExportFunc
	if exportFunc == "" {
		exportFunc = "schema_json"
	}

	runtime := wazero.NewRuntime(ctx)
	defer runtime.Close(ctx)

	if _, err := wasi_snapshot_preview1.Instantiate(ctx, runtime); err != nil {
		return fmt.Errorf("modelregistry: instantiate wasi for %q: %w", src.ModelName, err)
	}

	compiled, err := runtime.CompileModule(ctx, src.WASMBytes)
	if err != nil {
		return fmt.Errorf("modelregistry: compile wasm module for %q: %w", src.ModelName, err)
	}

	mod, err := runtime.InstantiateModule(ctx, compiled, wazero.NewModuleConfig())
	if err != nil {
		return fmt.Errorf("modelregistry: instantiate wasm module for %q: %w", src.ModelName, err)
	}

	fn := mod.ExportedFunction(exportFunc)
	if fn == nil {
		return fmt.Errorf("modelregistry: wasm module for %q has no export %q", src.ModelName, exportFunc)
	}

	results, err := fn.Call(ctx)
	if err != nil {
		return fmt.Errorf("modelregistry: calling %q for %q: %w", exportFunc, src.ModelName, err)
	}
	if len(results) == 0 {
		return fmt.Errorf("modelregistry: %q returned no schema pointer for %q", exportFunc, src.ModelName)
	}

	schema, err := readSchemaFromMemory(mod, results[0])
	if err != nil {
		return fmt.Errorf("modelregistry: reading schema for %q: %w", src.ModelName, err)
	}

	r.Register(ModelDefinition{Name: src.ModelName, Schema: schema})
	return nil
}
