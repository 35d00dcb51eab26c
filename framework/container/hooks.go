package container

import "reflect"

// ── Hooks ─────────────────────────────────────────────────────────────────────

// Hook observes or replaces a value at one phase of the container
// lifecycle. Whatever it returns is used in place of value; return value
// unchanged to observe only. The container handle is a view scoped to the
// resolution in flight, so a hook re-requesting the key it is wrapping gets
// CyclicDependencyError instead of unbounded recursion.
type Hook func(value any, c *Container) any

// hookPhase selects which lifecycle event a hook chain fires on.
type hookPhase uint8

const (
	// phaseBind fires after a binding is stored. The hook sees the stored
	// value (for factories and constructors, the function itself) and its
	// replacement is written back to the store.
	phaseBind hookPhase = iota
	// phaseMake fires after a concrete is produced. The replacement only
	// affects the value returned from that Make.
	phaseMake
	// phaseResolve fires after Resolve satisfies one parameter, before the
	// callable is invoked.
	phaseResolve

	hookPhases = 3
)

// hookEntry is one registered hook: a target key plus the function. Name
// targets match their exact key; type targets match any value whose type
// satisfies them.
type hookEntry struct {
	key bindingKey
	fn  Hook
}

// OnBind registers a hook that fires whenever a binding matching target is
// stored. Replacing the value rewrites the store entry in place.
//
//	c.OnBind("mailer", func(v any, c *container.Container) any {
//	    return wrapMailer(v)
//	})
func (c *Container) OnBind(target any, fn Hook) {
	c.on(phaseBind, target, fn)
}

// OnMake registers a hook that fires whenever a matching key is resolved.
// The replacement affects only the value handed back by that Make; the
// store entry is untouched.
func (c *Container) OnMake(target any, fn Hook) {
	c.on(phaseMake, target, fn)
}

// OnResolve registers a hook that fires each time Resolve satisfies a
// parameter matching target, after that parameter's own make hooks.
func (c *Container) OnResolve(target any, fn Hook) {
	c.on(phaseResolve, target, fn)
}

func (c *Container) on(phase hookPhase, target any, fn Hook) {
	k, err := keyFor(target)
	if err != nil || fn == nil {
		return
	}
	co := c.core
	co.mu.Lock()
	defer co.mu.Unlock()
	co.hooks[phase] = append(co.hooks[phase], hookEntry{key: k, fn: fn})
}

// hooksFor collects the phase's hooks matching either the key's exact name
// or the value type, in registration order. Callers hold mu.
func (co *core) hooksFor(phase hookPhase, k bindingKey, valueType reflect.Type) []hookEntry {
	var out []hookEntry
	for _, h := range co.hooks[phase] {
		if h.key.typ == nil {
			if k.typ == nil && h.key.name == k.name {
				out = append(out, h)
			}
		} else if typeSatisfies(valueType, h.key.typ) {
			out = append(out, h)
		}
	}
	return out
}
