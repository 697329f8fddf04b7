// Package wasmhost adapts WASM guest modules into capability providers.
//
// Guest functions follow a packed pointer ABI: the host allocates guest
// memory through the module's "allocate" export, writes the JSON input
// payload, and passes (ptr<<32)|len as a single u64. The guest returns its
// JSON output the same way.
package wasmhost

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"github.com/tetratelabs/wazero/imports/wasi_snapshot_preview1"

	"github.com/capwire-dev/capwire/capability"
)

// Executor owns the WASM runtime guest modules run in.
type Executor struct {
	runtime wazero.Runtime
}

// NewExecutor creates a new executor with the given options.
func NewExecutor(ctx context.Context, opts ...Option) (*Executor, error) {
	var cfg executorConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	runtimeConfig := wazero.NewRuntimeConfig()
	if cfg.cache != nil {
		runtimeConfig = runtimeConfig.WithCompilationCache(cfg.cache)
	}

	rt := wazero.NewRuntimeWithConfig(ctx, runtimeConfig)
	wasi_snapshot_preview1.MustInstantiate(ctx, rt)

	e := &Executor{runtime: rt}
	if cfg.logger != nil {
		if err := e.registerLogging(ctx, cfg.logger); err != nil {
			_ = rt.Close(ctx)
			return nil, fmt.Errorf("failed to register host functions: %w", err)
		}
	}

	return e, nil
}

// Close releases resources held by the executor and all loaded modules.
func (e *Executor) Close(ctx context.Context) error {
	return e.runtime.Close(ctx)
}

// Module represents an instantiated WASM guest module.
type Module struct {
	module api.Module
	// Guest calls mutate shared guest memory, so they are serialized.
	mu sync.Mutex
}

// Load instantiates a WASM module from its binary.
func (e *Executor) Load(ctx context.Context, wasmBytes []byte) (*Module, error) {
	mod, err := e.runtime.Instantiate(ctx, wasmBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to instantiate module: %w", err)
	}

	if init := mod.ExportedFunction("_initialize"); init != nil {
		if _, err := init.Call(ctx); err != nil {
			_ = mod.Close(ctx)
			return nil, fmt.Errorf("failed to call _initialize: %w", err)
		}
	}

	return &Module{module: mod}, nil
}

// Close releases the module instance.
func (m *Module) Close(ctx context.Context) error {
	return m.module.Close(ctx)
}

// Provider adapts one exported guest function into a capability provider.
// The export is resolved lazily, at first Compute.
func (m *Module) Provider(export string) capability.Provider {
	return &wasmProvider{module: m, export: export}
}

type wasmProvider struct {
	module *Module
	export string
}

// Compute marshals input to JSON, invokes the guest export, and unmarshals
// the guest's JSON output. A guest returning no payload yields a nil output.
func (p *wasmProvider) Compute(ctx context.Context, input any) (any, error) {
	data, err := json.Marshal(input)
	if err != nil {
		return nil, fmt.Errorf("input is not JSON-encodable: %w", err)
	}

	packed, err := p.module.callRaw(ctx, p.export, data)
	if err != nil {
		return nil, err
	}

	var out any
	if err := p.module.unmarshalPacked(packed, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// callRaw invokes a guest function with raw bytes.
func (m *Module) callRaw(ctx context.Context, name string, input []byte) (uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	fn := m.module.ExportedFunction(name)
	if fn == nil {
		return 0, fmt.Errorf("function %q not exported by module", name)
	}

	var ptr uint64
	var length uint64
	if len(input) > 0 {
		allocate := m.module.ExportedFunction("allocate")
		if allocate == nil {
			return 0, fmt.Errorf("function 'allocate' not exported")
		}
		res, err := allocate.Call(ctx, uint64(len(input)))
		if err != nil {
			return 0, fmt.Errorf("allocate failed: %w", err)
		}
		ptr = res[0]
		length = uint64(len(input))

		//nolint:gosec // WASM pointers are 32-bit
		if !m.module.Memory().Write(uint32(ptr), input) {
			return 0, fmt.Errorf("failed to write input to guest memory")
		}
	}

	packedInput := (ptr << 32) | length

	res, err := fn.Call(ctx, packedInput)
	if err != nil {
		return 0, fmt.Errorf("guest call %q failed: %w", name, err)
	}
	if len(res) == 0 {
		return 0, nil
	}
	return res[0], nil
}

// unmarshalPacked reads JSON from a packed ptr+len and unmarshals it.
func (m *Module) unmarshalPacked(packed uint64, v any) error {
	//nolint:gosec // WASM pointers are 32-bit
	ptr := uint32(packed >> 32)
	//nolint:gosec // WASM lengths are 32-bit
	length := uint32(packed)

	if length == 0 {
		return nil
	}

	data, ok := m.module.Memory().Read(ptr, length)
	if !ok {
		return fmt.Errorf("failed to read result from guest memory")
	}

	return json.Unmarshal(data, v)
}
