// Package luahost adapts Lua-scripted functions into capability providers.
//
// Scripted providers receive their input payload as a JSON string and return
// a JSON string (or nothing). This keeps the Lua surface free of host
// bindings: any JSON-encodable payload can cross the boundary.
package luahost

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/Shopify/go-lua"
)

// Provider runs a named Lua function as a capability provider.
// Each provider owns one lua.State; Compute calls are serialized because the
// state is not goroutine-safe.
type Provider struct {
	state *lua.State
	fn    string
	mu    sync.Mutex
}

// NewProvider compiles script and binds the global function named fn.
func NewProvider(script, fn string) (*Provider, error) {
	state := lua.NewState()
	lua.OpenLibraries(state)

	if err := lua.DoString(state, script); err != nil {
		return nil, fmt.Errorf("load lua script: %w", err)
	}

	state.Global(fn)
	isFunction := state.IsFunction(-1)
	state.Pop(1)
	if !isFunction {
		return nil, fmt.Errorf("lua script does not define function %q", fn)
	}

	return &Provider{state: state, fn: fn}, nil
}

// Compute invokes the bound Lua function with the JSON-encoded input and
// decodes the JSON string it returns. Returning nil or an empty string from
// Lua yields a nil output.
func (p *Provider) Compute(ctx context.Context, input any) (any, error) {
	data, err := json.Marshal(input)
	if err != nil {
		return nil, fmt.Errorf("input is not JSON-encodable: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	// Restore the stack on every exit path, including failed calls that
	// leave an error value behind.
	base := p.state.Top()
	defer p.state.SetTop(base)

	p.state.Global(p.fn)
	p.state.PushString(string(data))
	if err := p.state.ProtectedCall(1, 1, 0); err != nil {
		return nil, fmt.Errorf("lua function %q: %w", p.fn, err)
	}

	if p.state.IsNil(-1) {
		return nil, nil
	}

	raw, ok := p.state.ToString(-1)
	if !ok {
		return nil, fmt.Errorf("lua function %q must return a JSON string", p.fn)
	}
	if raw == "" {
		return nil, nil
	}

	var out any
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, fmt.Errorf("lua function %q returned invalid JSON: %w", p.fn, err)
	}
	return out, nil
}
