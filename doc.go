// Package capwire is an in-process framework for pluggable computation
// providers. Independent providers register under capability tags
// (e.g. "geometry/area"), and callers dispatch tagged inputs to them without
// knowing concrete provider types.
//
// The building blocks live in their own packages:
//
//   - capability: tags, the Provider contract, and the error taxonomy
//   - registry: the tag-to-provider binding store
//   - dispatch: the routing layer with middleware, logging, and metrics
//   - schema: JSON schemas for input payloads and their validation
//   - manifest: provider bundle declarations, parsing, and installation
//   - wasmhost, luahost: WASM and Lua provider adapters
//
// The root package offers a Host facade wiring these together for the
// common case.
package capwire
