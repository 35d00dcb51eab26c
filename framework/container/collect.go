package container

import (
	"reflect"
	"strings"
)

// ── Collect ───────────────────────────────────────────────────────────────────

// Collect gathers bindings in bulk, in registration order, without
// resolving or firing hooks. Values come back exactly as stored.
//
// A string pattern with a single * matches name keys by prefix and suffix:
//
//	c.Collect("*ExceptionHook")   // every name ending in ExceptionHook
//	c.Collect("report.*")         // every name starting with report.
//	c.Collect("job.*.handler")    // prefix and suffix around one gap
//
// A string without * is an exact name lookup; two or more * match nothing.
// Any other pattern is treated as a type key and gathers every binding
// whose provided type satisfies it, interface targets included.
//
//	c.Collect(container.Contract[ExceptionHook]())
func (c *Container) Collect(pattern any) []Binding {
	if s, ok := pattern.(string); ok {
		return c.collectNamed(s)
	}
	k, err := keyFor(pattern)
	if err != nil {
		return nil
	}
	return c.collectTyped(k.typ)
}

func (c *Container) collectNamed(pattern string) []Binding {
	co := c.core
	co.mu.RLock()
	defer co.mu.RUnlock()

	switch strings.Count(pattern, "*") {
	case 0:
		if b, ok := co.index[bindingKey{name: pattern}]; ok {
			return []Binding{{Key: b.key.public(), Value: b.value}}
		}
		return nil
	case 1:
		star := strings.IndexByte(pattern, '*')
		prefix, suffix := pattern[:star], pattern[star+1:]
		var out []Binding
		for _, b := range co.entries {
			if b.key.typ != nil {
				continue
			}
			name := b.key.name
			// the prefix and suffix must not overlap inside the name
			if len(name) < len(prefix)+len(suffix) {
				continue
			}
			if strings.HasPrefix(name, prefix) && strings.HasSuffix(name, suffix) {
				out = append(out, Binding{Key: name, Value: b.value})
			}
		}
		return out
	default:
		return nil
	}
}

func (c *Container) collectTyped(t reflect.Type) []Binding {
	co := c.core
	co.mu.RLock()
	defer co.mu.RUnlock()

	var out []Binding
	for _, b := range co.entries {
		if b.provides != nil && typeSatisfies(b.provides, t) {
			out = append(out, Binding{Key: b.key.public(), Value: b.value})
		}
	}
	return out
}
