package container

import (
	"fmt"
	"reflect"
	"runtime"
)

// ── Auto-injection ────────────────────────────────────────────────────────────

// Callable pairs a function with binding names for its leading parameters.
// Build one with Keyed; the zero value is not callable.
type Callable struct {
	fn    any
	names []string
}

// Keyed wraps fn so Resolve satisfies its leading parameters by binding
// name instead of by declared type. Names map to parameters by position; an
// empty name falls back to type resolution for that position.
//
//	c.Resolve(container.Keyed(func(db *sql.DB, cfg *Config) { ... }, "db", "config"))
func Keyed(fn any, names ...string) Callable {
	return Callable{fn: fn, names: names}
}

// Resolve inspects target's parameters, resolves each from the container,
// invokes it, and returns its results. The target must be a function or a
// Keyed Callable; anything else fails with ErrNotCallable.
//
// Parameters resolve by declared type (is-a over the store), or by name for
// positions covered by Keyed. A parameter of type *Container receives the
// resolving view directly. Extra arguments fill the trailing parameters as
// given; with a variadic target they spill into the variadic tail, which is
// never container-resolved.
//
// If any parameter cannot be satisfied, the target is not invoked and the
// error is an UnresolvedDependencyError wrapping the cause.
func (c *Container) Resolve(target any, extra ...any) ([]any, error) {
	fn := target
	var names []string
	if callable, ok := target.(Callable); ok {
		fn, names = callable.fn, callable.names
	}
	fv := reflect.ValueOf(fn)
	if !fv.IsValid() || fv.Kind() != reflect.Func {
		return nil, ErrNotCallable
	}
	ft := fv.Type()

	fixed := ft.NumIn()
	if ft.IsVariadic() {
		fixed--
	}
	// Extras land in the variadic tail when there is one; otherwise they
	// occupy the trailing fixed parameters.
	inject := fixed
	if !ft.IsVariadic() {
		inject = fixed - len(extra)
		if inject < 0 {
			return nil, fmt.Errorf("container: %s takes %d parameters, got %d extra arguments",
				callableName(fv), ft.NumIn(), len(extra))
		}
	}

	args := make([]reflect.Value, 0, inject+len(extra))
	for i := 0; i < inject; i++ {
		name := ""
		if i < len(names) {
			name = names[i]
		}
		arg, err := c.resolveParam(fv, i, ft.In(i), name)
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
	}
	for j, e := range extra {
		slot := inject + j
		var st reflect.Type
		if slot < fixed {
			st = ft.In(slot)
		} else {
			st = ft.In(ft.NumIn() - 1).Elem()
		}
		ev := reflect.ValueOf(e)
		if !ev.IsValid() {
			if !canBeNil(st) {
				return nil, fmt.Errorf("container: nil extra argument for %s parameter of %s",
					st, callableName(fv))
			}
			ev = reflect.Zero(st)
		} else if !ev.Type().AssignableTo(st) {
			return nil, fmt.Errorf("container: extra argument %T is not assignable to %s parameter of %s",
				e, st, callableName(fv))
		}
		args = append(args, ev)
	}

	outs := fv.Call(args)
	results := make([]any, len(outs))
	for i, o := range outs {
		results[i] = o.Interface()
	}
	return results, nil
}

// MustResolve is Resolve for wiring code; it panics on any failure.
func (c *Container) MustResolve(target any, extra ...any) []any {
	results, err := c.Resolve(target, extra...)
	if err != nil {
		panic(err)
	}
	return results
}

// resolveParam satisfies one parameter: by name when given, else by the
// declared type, then runs matching resolve hooks on the result.
func (c *Container) resolveParam(fv reflect.Value, idx int, pt reflect.Type, name string) (reflect.Value, error) {
	if pt == containerType {
		return reflect.ValueOf(c), nil
	}

	k := bindingKey{typ: pt}
	if name != "" {
		k = bindingKey{name: name}
	}
	out, err := c.makeKey(k)
	if err != nil {
		return reflect.Value{}, UnresolvedDependencyError{
			Callable: callableName(fv),
			Param:    idx,
			Key:      k.public(),
			Err:      err,
		}
	}

	co := c.core
	co.mu.RLock()
	hooks := co.hooksFor(phaseResolve, k, reflect.TypeOf(out))
	co.mu.RUnlock()
	if len(hooks) > 0 {
		scoped := c.scoped(k)
		for _, h := range hooks {
			out = h.fn(out, scoped)
		}
	}

	rv := reflect.ValueOf(out)
	if !rv.IsValid() {
		if !canBeNil(pt) {
			return reflect.Value{}, UnresolvedDependencyError{
				Callable: callableName(fv),
				Param:    idx,
				Key:      k.public(),
				Err:      fmt.Errorf("resolved nil for non-nilable %s", pt),
			}
		}
		return reflect.Zero(pt), nil
	}
	if !rv.Type().AssignableTo(pt) {
		return reflect.Value{}, UnresolvedDependencyError{
			Callable: callableName(fv),
			Param:    idx,
			Key:      k.public(),
			Err:      fmt.Errorf("resolved %T, want %s", out, pt),
		}
	}
	return rv, nil
}

var containerType = reflect.TypeOf((*Container)(nil))

// callableName reports the target's identity for error messages: the
// runtime symbol when available, the signature otherwise.
func callableName(fv reflect.Value) string {
	if f := runtime.FuncForPC(fv.Pointer()); f != nil && f.Name() != "" {
		return f.Name()
	}
	return fv.Type().String()
}

func canBeNil(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Chan, reflect.Func, reflect.Interface, reflect.Map,
		reflect.Pointer, reflect.Slice, reflect.UnsafePointer:
		return true
	}
	return false
}
