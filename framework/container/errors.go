package container

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// ErrNotCallable is returned by Resolve when the target is not a function or
// a Callable wrapping one.
var ErrNotCallable = errors.New("container: resolve target is not callable")

var (
	errNilKey     = errors.New("container: binding key is nil")
	errNilFactory = errors.New("container: factory is nil")
)

// DuplicateBindingError is returned by Bind in strict mode when the key is
// already bound. The store is left untouched.
type DuplicateBindingError struct {
	Key any // string name or reflect.Type
}

func (e DuplicateBindingError) Error() string {
	return fmt.Sprintf("container: %s is already bound", renderKey(e.Key))
}

// UnresolvedKeyError is returned by Make when no binding matches the
// requested name or type.
type UnresolvedKeyError struct {
	Key any // string name or reflect.Type
}

func (e UnresolvedKeyError) Error() string {
	return fmt.Sprintf("container: no binding found for %s", renderKey(e.Key))
}

// UnresolvedDependencyError is returned by Resolve when a parameter of the
// target callable cannot be satisfied. It wraps the underlying resolution
// failure; the callable is never invoked.
type UnresolvedDependencyError struct {
	Callable string // callable identity, best effort
	Param    int    // zero-based parameter position
	Key      any    // the binding key the parameter resolved against
	Err      error
}

func (e UnresolvedDependencyError) Error() string {
	return fmt.Sprintf("container: cannot inject parameter %d (%s) of %s: %v",
		e.Param, renderKey(e.Key), e.Callable, e.Err)
}

func (e UnresolvedDependencyError) Unwrap() error { return e.Err }

// CyclicDependencyError is returned when a resolution revisits a key already
// on the current resolution chain, or when the chain grows past the depth
// bound. Chain lists the keys in resolution order, ending with the key that
// closed the cycle.
type CyclicDependencyError struct {
	Chain []string
}

func (e CyclicDependencyError) Error() string {
	return "container: cyclic dependency: " + strings.Join(e.Chain, " -> ")
}

// renderKey formats a binding key for error messages: names are quoted,
// types print as Go types.
func renderKey(key any) string {
	switch k := key.(type) {
	case string:
		return strconv.Quote(k)
	case reflect.Type:
		return k.String()
	case nil:
		return "<nil>"
	default:
		return fmt.Sprintf("%T", key)
	}
}
