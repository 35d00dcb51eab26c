package container

import (
	"fmt"
	"reflect"
	"sync"
)

// ── Binding types ─────────────────────────────────────────────────────────────

// Factory is a function that builds a concrete value from the container.
// Factories may return an error instead of panicking.
type Factory func(c *Container) (any, error)

// bindingKind records how a stored value produces its concrete on Make.
type bindingKind uint8

const (
	// rawValue is returned as stored.
	rawValue bindingKind = iota
	// factoryFunc is a Factory invoked with a resolution-scoped container.
	factoryFunc
	// constructorFunc is any other function with one result, or two where
	// the second is an error. Its parameters are auto-injected.
	constructorFunc
)

// binding is one entry of the registration store. Entries keep their
// registration order; overwriting a key keeps its original position.
type binding struct {
	key   bindingKey
	kind  bindingKind
	value any

	// provides is the type the binding can satisfy in typed lookups:
	// the runtime type for raw values, the declared first result for
	// constructors, nil for opaque factories.
	provides reflect.Type
}

// Binding is the public key/value view returned by All and Collect.
type Binding struct {
	Key   any // string name or reflect.Type
	Value any
}

// ── Keys ──────────────────────────────────────────────────────────────────────

// bindingKey is the normalized identifier: exactly one of name or typ is set.
type bindingKey struct {
	name string
	typ  reflect.Type
}

// public returns the key the way the API handed it in: a string name or a
// reflect.Type.
func (k bindingKey) public() any {
	if k.typ != nil {
		return k.typ
	}
	return k.name
}

func (k bindingKey) String() string { return renderKey(k.public()) }

// keyFor normalizes a public identifier. Strings are names; a reflect.Type
// is used as is; any other value keys by its runtime type, with the
// (*Iface)(nil) idiom unwrapping to the interface type itself.
func keyFor(key any) (bindingKey, error) {
	switch k := key.(type) {
	case string:
		return bindingKey{name: k}, nil
	case reflect.Type:
		if k == nil {
			return bindingKey{}, errNilKey
		}
		return bindingKey{typ: k}, nil
	default:
		t := reflect.TypeOf(key)
		if t == nil {
			return bindingKey{}, errNilKey
		}
		if t.Kind() == reflect.Ptr && t.Elem().Kind() == reflect.Interface {
			t = t.Elem()
		}
		return bindingKey{typ: t}, nil
	}
}

// Contract returns the reflect.Type key for T. It is the ergonomic spelling
// of the (*Iface)(nil) idiom:
//
//	c.Bind(container.Contract[Mailer](), NewSMTPMailer)
//	m, err := container.Make[Mailer](c, container.Contract[Mailer]())
func Contract[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// ── Container ─────────────────────────────────────────────────────────────────

// Container is the IoC container — mirrors Laravel's Illuminate\Container\Container.
//
// It supports:
//   - Bind / BindFactory / Instance under string names or reflect.Type keys
//   - Make (error returning) and the generic Make / MustMake helpers
//   - Collect (wildcard key patterns and is-a type scans)
//   - OnBind / OnMake / OnResolve hook chains
//   - Resolve (reflective parameter injection for arbitrary callables)
//   - Contextual binding (when A needs B, give it C)
//
// Duplicate handling is fixed at construction: the default container
// overwrites in place, WithoutOverride drops duplicates silently, and
// WithStrict rejects them with DuplicateBindingError.
//
// A Container value is a view handle. Factories, constructors and hooks
// receive a view scoped to the resolution in flight; all views share the
// same registration state and differ only in the chain used for cycle
// detection, so resolutions on sibling goroutines never interfere.
type Container struct {
	core *core

	// chain is the resolution path that led to this view, outermost first.
	chain []bindingKey
}

// core holds the state shared by every view of one container.
type core struct {
	mu sync.RWMutex

	// duplicate policy, fixed at construction
	strict   bool
	override bool

	// entries in registration order, index for exact-key lookup
	entries []*binding
	index   map[bindingKey]*binding

	// hook chains per phase, in registration order
	hooks [hookPhases][]hookEntry

	// contextual: when[consumer][dependency] = factory
	contextual map[bindingKey]map[bindingKey]Factory
}

// maxChainDepth bounds the resolution chain so factories that mint fresh
// keys on every level still terminate with CyclicDependencyError.
const maxChainDepth = 32

// Option configures a Container at construction time.
type Option func(*Container)

// WithStrict makes duplicate keys an error: Bind on an existing key returns
// DuplicateBindingError and leaves the store untouched.
func WithStrict() Option {
	return func(c *Container) { c.core.strict = true }
}

// WithoutOverride makes duplicate keys a silent no-op: the first binding
// wins, later ones are dropped without firing hooks. WithStrict takes
// precedence when both are set.
func WithoutOverride() Option {
	return func(c *Container) { c.core.override = false }
}

// New creates an empty container. By default duplicate keys overwrite the
// existing binding in place.
func New(opts ...Option) *Container {
	c := &Container{
		core: &core{
			override:   true,
			index:      make(map[bindingKey]*binding),
			contextual: make(map[bindingKey]map[bindingKey]Factory),
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	// Bind the container to itself — like Laravel's $app->instance()
	_ = c.Instance("container", c)
	return c
}

// scoped returns a view whose chain is this view's chain plus k. The chain
// slice is copied so sibling resolutions never alias each other.
func (c *Container) scoped(k bindingKey) *Container {
	chain := make([]bindingKey, len(c.chain)+1)
	copy(chain, c.chain)
	chain[len(c.chain)] = k
	return &Container{core: c.core, chain: chain}
}

// ── Registration ──────────────────────────────────────────────────────────────

// Bind registers value under key, classifying it by shape: a Factory is
// stored as a factory, any other function with one result (or two where the
// second is an error) as a constructor, everything else as a raw value.
//
//	// Laravel: $app->bind(Mailer::class, SMTPMailer::class)
//	c.Bind(container.Contract[Mailer](), NewSMTPMailer)
//	c.Bind("request", req)
//
// The error is non-nil only under the strict policy, when key is already
// bound.
func (c *Container) Bind(key, value any) error {
	k, err := keyFor(key)
	if err != nil {
		return err
	}
	kind, provides := classify(value)
	return c.bind(k, kind, value, provides)
}

// BindFactory registers factory under key without shape inspection. Unlike
// Bind, the function itself is the binding: Make invokes it with a
// resolution-scoped container and returns its value.
func (c *Container) BindFactory(key any, factory Factory) error {
	k, err := keyFor(key)
	if err != nil {
		return err
	}
	if factory == nil {
		return errNilFactory
	}
	return c.bind(k, factoryFunc, factory, nil)
}

// Instance registers value as a raw binding even when it is a function.
// Make returns it as stored.
//
//	// Laravel: $app->instance('config', $config)
//	c.Instance("config", cfg)
func (c *Container) Instance(key, value any) error {
	k, err := keyFor(key)
	if err != nil {
		return err
	}
	return c.bind(k, rawValue, value, reflect.TypeOf(value))
}

// bind applies the duplicate policy, stores the entry, and fires matching
// bind hooks. A hook replacement is stored back under the binding's
// original classification.
func (c *Container) bind(k bindingKey, kind bindingKind, value any, provides reflect.Type) error {
	co := c.core
	co.mu.Lock()
	if existing, ok := co.index[k]; ok {
		if co.strict {
			co.mu.Unlock()
			return DuplicateBindingError{Key: k.public()}
		}
		if !co.override {
			co.mu.Unlock()
			return nil
		}
		existing.kind, existing.value, existing.provides = kind, value, provides
	} else {
		b := &binding{key: k, kind: kind, value: value, provides: provides}
		co.index[k] = b
		co.entries = append(co.entries, b)
	}
	hooks := co.hooksFor(phaseBind, k, provides)
	co.mu.Unlock()

	if len(hooks) == 0 {
		return nil
	}
	replaced := value
	for _, h := range hooks {
		replaced = h.fn(replaced, c)
	}
	co.mu.Lock()
	if b, ok := co.index[k]; ok {
		b.value = replaced
		if b.kind == rawValue {
			b.provides = reflect.TypeOf(replaced)
		}
	}
	co.mu.Unlock()
	return nil
}

// Has reports whether key is bound, without resolving anything.
func (c *Container) Has(key any) bool {
	k, err := keyFor(key)
	if err != nil {
		return false
	}
	c.core.mu.RLock()
	defer c.core.mu.RUnlock()
	_, ok := c.core.index[k]
	return ok
}

// All returns a snapshot of every binding in registration order. Values are
// returned as stored; nothing is resolved.
func (c *Container) All() []Binding {
	c.core.mu.RLock()
	defer c.core.mu.RUnlock()
	out := make([]Binding, 0, len(c.core.entries))
	for _, b := range c.core.entries {
		out = append(out, Binding{Key: b.key.public(), Value: b.value})
	}
	return out
}

// Forget removes the binding for key, if any. Hooks registered against the
// key stay in place and apply again if the key is rebound.
func (c *Container) Forget(key any) {
	k, err := keyFor(key)
	if err != nil {
		return
	}
	co := c.core
	co.mu.Lock()
	defer co.mu.Unlock()
	if _, ok := co.index[k]; !ok {
		return
	}
	delete(co.index, k)
	for i, b := range co.entries {
		if b.key == k {
			co.entries = append(co.entries[:i], co.entries[i+1:]...)
			break
		}
	}
}

// Flush resets the container to its pristine state: bindings, hooks and
// contextual rules are all dropped. The duplicate policy is kept. Useful
// for test isolation.
func (c *Container) Flush() {
	co := c.core
	co.mu.Lock()
	co.entries = nil
	co.index = make(map[bindingKey]*binding)
	co.hooks = [hookPhases][]hookEntry{}
	co.contextual = make(map[bindingKey]map[bindingKey]Factory)
	co.mu.Unlock()
	_ = c.Instance("container", c)
}

// ── Resolution ────────────────────────────────────────────────────────────────

// Make resolves key to a concrete value: raw values are returned as stored,
// factories are invoked, constructors are invoked with their parameters
// auto-injected. A reflect.Type key without an exact entry falls back to an
// is-a scan over the store in registration order.
//
//	// Laravel: $app->make('mailer')
//	m, err := c.Make("mailer")
func (c *Container) Make(key any) (any, error) {
	k, err := keyFor(key)
	if err != nil {
		return nil, err
	}
	return c.makeKey(k)
}

// MustMake is Make for wiring code where a miss is a programming error.
// It panics instead of returning one.
func (c *Container) MustMake(key any) any {
	v, err := c.Make(key)
	if err != nil {
		panic(err)
	}
	return v
}

func (c *Container) makeKey(k bindingKey) (any, error) {
	// A contextual rule for the consumer currently being built shadows the
	// store for this one dependency.
	if len(c.chain) > 0 {
		if f, ok := c.core.contextualFor(c.chain[len(c.chain)-1], k); ok {
			return c.construct(k, factoryFunc, f)
		}
	}

	co := c.core
	co.mu.RLock()
	b, ok := co.index[k]
	if !ok && k.typ != nil {
		for _, e := range co.entries {
			if e.provides != nil && typeSatisfies(e.provides, k.typ) {
				b, ok = e, true
				break
			}
		}
	}
	var kind bindingKind
	var value any
	if ok {
		kind, value = b.kind, b.value
	}
	co.mu.RUnlock()

	if !ok {
		return nil, UnresolvedKeyError{Key: k.public()}
	}
	return c.construct(k, kind, value)
}

// construct produces the concrete for k and runs its make hooks. Hooks see
// a view with k on the chain, so a hook that re-requests the key it is
// wrapping trips the cycle guard instead of recursing forever.
func (c *Container) construct(k bindingKey, kind bindingKind, value any) (any, error) {
	out, err := c.build(k, kind, value)
	if err != nil {
		return nil, err
	}

	co := c.core
	co.mu.RLock()
	hooks := co.hooksFor(phaseMake, k, reflect.TypeOf(out))
	co.mu.RUnlock()
	if len(hooks) > 0 {
		scoped := c.scoped(k)
		for _, h := range hooks {
			out = h.fn(out, scoped)
		}
	}
	return out, nil
}

// build runs the producing side of a resolution: the cycle guard plus the
// factory or constructor invocation. Hooks are not fired here.
func (c *Container) build(k bindingKey, kind bindingKind, value any) (any, error) {
	for _, seen := range c.chain {
		if seen == k {
			return nil, cycleError(c.chain, k)
		}
	}
	if len(c.chain) >= maxChainDepth {
		return nil, cycleError(c.chain, k)
	}

	switch kind {
	case factoryFunc:
		return value.(Factory)(c.scoped(k))
	case constructorFunc:
		results, err := c.scoped(k).Resolve(value)
		if err != nil {
			return nil, err
		}
		if len(results) == 2 {
			if e, ok := results[1].(error); ok && e != nil {
				return nil, e
			}
		}
		return results[0], nil
	default:
		return value, nil
	}
}

// redo resolves key against the current store from the parent resolution
// frame, without firing make hooks. It is the escape hatch for factories
// that replace their own binding mid-flight (deferred providers): the
// replacement is built as a continuation of the frame already on the chain.
func (c *Container) redo(key any) (any, error) {
	k, err := keyFor(key)
	if err != nil {
		return nil, err
	}
	parent := &Container{core: c.core}
	if n := len(c.chain); n > 0 {
		parent.chain = c.chain[:n-1]
	}

	c.core.mu.RLock()
	b, ok := c.core.index[k]
	var kind bindingKind
	var value any
	if ok {
		kind, value = b.kind, b.value
	}
	c.core.mu.RUnlock()

	if !ok {
		return nil, UnresolvedKeyError{Key: k.public()}
	}
	return parent.build(k, kind, value)
}

func cycleError(chain []bindingKey, k bindingKey) CyclicDependencyError {
	rendered := make([]string, 0, len(chain)+1)
	for _, link := range chain {
		rendered = append(rendered, link.String())
	}
	return CyclicDependencyError{Chain: append(rendered, k.String())}
}

// ── Reflect helpers ───────────────────────────────────────────────────────────

var errType = reflect.TypeOf((*error)(nil)).Elem()

// classify decides how Bind stores a value: explicit Factory, constructor
// shape, or raw.
func classify(value any) (bindingKind, reflect.Type) {
	if _, ok := value.(Factory); ok {
		return factoryFunc, nil
	}
	t := reflect.TypeOf(value)
	if t != nil && t.Kind() == reflect.Func {
		if out, ok := constructorResult(t); ok {
			return constructorFunc, out
		}
	}
	return rawValue, t
}

// constructorResult reports whether t has a constructor shape and returns
// the type it produces. func() error is not a constructor.
func constructorResult(t reflect.Type) (reflect.Type, bool) {
	switch t.NumOut() {
	case 1:
		if t.Out(0) == errType {
			return nil, false
		}
		return t.Out(0), true
	case 2:
		if t.Out(1) == errType && t.Out(0) != errType {
			return t.Out(0), true
		}
	}
	return nil, false
}

// typeSatisfies reports whether a value of type got can stand in for want:
// identical types, or got implementing the want interface.
func typeSatisfies(got, want reflect.Type) bool {
	if got == nil || want == nil {
		return false
	}
	return got.AssignableTo(want)
}

// ── Generics helpers ──────────────────────────────────────────────────────────

// Make resolves key and asserts the result to T.
//
//	mailer, err := container.Make[Mailer](c, "mailer")
func Make[T any](c *Container, key any) (T, error) {
	var zero T
	v, err := c.Make(key)
	if err != nil {
		return zero, err
	}
	t, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("container: %s resolved to %T, want %s",
			renderKey(key), v, reflect.TypeOf((*T)(nil)).Elem())
	}
	return t, nil
}

// MustMake is the generic Make for wiring code; it panics on any failure.
//
//	router := container.MustMake[*routing.Router](c, "router")
func MustMake[T any](c *Container, key any) T {
	t, err := Make[T](c, key)
	if err != nil {
		panic(err)
	}
	return t
}
