package ssa

import (
	"fmt"
	"sort"
)

// Module owns every function (defined, declared-only, or extern) in
// a compilation session and resolves calls between them by name.
type Module struct {
	functions map[string]*Function
}

// NewModule returns an empty module.
func NewModule() *Module {
	return &Module{functions: map[string]*Function{}}
}

// Lookup returns the function registered under name, if any.
func (m *Module) Lookup(name string) (*Function, bool) {
	fn, ok := m.functions[name]
	return fn, ok
}

// Functions returns every registered function, sorted by name, for
// introspection and IR dumping.
func (m *Module) Functions() []*Function {
	names := make([]string, 0, len(m.functions))
	for name := range m.functions {
		names = append(names, name)
	}
	sort.Strings(names)
	out := make([]*Function, len(names))
	for i, name := range names {
		out[i] = m.functions[name]
	}
	return out
}

// EraseFunction removes name from the module, used to discard a
// half-built function after a codegen failure.
func (m *Module) EraseFunction(name string) {
	delete(m.functions, name)
}

// DeclarePrototype registers a prototype, or returns the existing
// function of that name if its arity matches (a repeated `extern`
// naming a function already declared, or already defined, with the
// same parameter count is accepted silently — only an arity mismatch,
// or a second body for an already-defined function, is an error).
func (m *Module) DeclarePrototype(name string, params []string) (*Function, error) {
	if existing, ok := m.functions[name]; ok {
		if len(existing.Params) != len(params) {
			return nil, &RedefinitionError{Name: name, Message: fmt.Sprintf("expected %d argument(s), declaration has %d", len(existing.Params), len(params))}
		}
		return existing, nil
	}
	fn := &Function{Name: name, Params: params, module: m}
	m.functions[name] = fn
	return fn, nil
}

// RegisterExtern registers a Go-native function under name. It is an
// error to register an extern over a name that already has a
// different arity, or that already carries a body.
func (m *Module) RegisterExtern(name string, arity int, impl ExternFunc) error {
	if existing, ok := m.functions[name]; ok {
		if existing.HasBody {
			return &RedefinitionError{Name: name, Message: "already defined"}
		}
		if len(existing.Params) != arity {
			return &RedefinitionError{Name: name, Message: fmt.Sprintf("expected %d argument(s), extern has %d", len(existing.Params), arity)}
		}
		existing.Extern = impl
		return nil
	}
	params := make([]string, arity)
	for i := range params {
		params[i] = fmt.Sprintf("arg%d", i)
	}
	m.functions[name] = &Function{Name: name, Params: params, Extern: impl, module: m}
	return nil
}

// BeginFunction marks fn as having a body and returns a Builder
// positioned at its (newly created) entry block. It is an error to
// call BeginFunction twice for the same function.
func (m *Module) BeginFunction(fn *Function) (*Builder, error) {
	if fn.HasBody {
		return nil, &RedefinitionError{Name: fn.Name, Message: "already defined"}
	}
	fn.HasBody = true
	fn.module = m
	entry := fn.newBlock("entry")
	fn.Entry = entry
	b := &Builder{fn: fn, cur: entry}
	return b, nil
}

// JIT resolves name to a callable: a direct wrapper for an extern, or
// a compiled closure (cached after the first call) for a defined
// function, running memory-to-register promotion first.
func (m *Module) JIT(name string) (CompiledFunc, error) {
	fn, ok := m.functions[name]
	if !ok {
		return nil, fmt.Errorf("unknown function: %s", name)
	}
	if fn.Extern != nil {
		impl := fn.Extern
		return CompiledFunc(impl), nil
	}
	if !fn.HasBody {
		return nil, fmt.Errorf("function '%s' has no body", name)
	}
	if fn.compiled != nil {
		return fn.compiled, nil
	}
	if err := Verify(fn); err != nil {
		return nil, err
	}
	RunMem2Reg(fn)
	fn.compiled = compileFunction(fn)
	return fn.compiled, nil
}
