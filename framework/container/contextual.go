package container

// ── Contextual binding ────────────────────────────────────────────────────────

// ContextualBuilder implements the fluent contextual binding API. A rule
// registered for a consumer shadows the store whenever that consumer is the
// key currently being built, for that one dependency.
//
//	// Laravel: $app->when(PhotoController::class)->needs(Filesystem::class)->give(...)
//	c.When("photo.controller").Needs(container.Contract[Filesystem]()).Give(
//	    func(c *container.Container) (any, error) { return s3.New(), nil },
//	)
type ContextualBuilder struct {
	container *Container
	consumer  bindingKey
	needs     bindingKey
	haveNeeds bool
}

// When starts a contextual binding chain for the given consumer key. The
// rule matches when the consumer is resolved under exactly this key.
func (c *Container) When(consumer any) *ContextualBuilder {
	k, _ := keyFor(consumer)
	return &ContextualBuilder{container: c, consumer: k}
}

// Needs specifies the dependency key the consumer resolves differently.
func (b *ContextualBuilder) Needs(key any) *ContextualBuilder {
	k, err := keyFor(key)
	if err != nil {
		return b
	}
	b.needs, b.haveNeeds = k, true
	return b
}

// Give provides the factory used when the consumer resolves the dependency.
// Without a preceding Needs this is a no-op.
func (b *ContextualBuilder) Give(factory Factory) {
	if !b.haveNeeds || factory == nil {
		return
	}
	co := b.container.core
	co.mu.Lock()
	defer co.mu.Unlock()
	if _, ok := co.contextual[b.consumer]; !ok {
		co.contextual[b.consumer] = make(map[bindingKey]Factory)
	}
	co.contextual[b.consumer][b.needs] = factory
}

// GiveValue is a shorthand for Give when the value is a simple scalar or
// pre-built instance (no factory logic needed).
//
//	// Laravel: ->give('/tmp/photos')
//	c.When("photo.controller").Needs("storagePath").GiveValue("/tmp/photos")
func (b *ContextualBuilder) GiveValue(value any) {
	b.Give(func(_ *Container) (any, error) { return value, nil })
}

// contextualFor returns the factory a consumer key substitutes for a
// dependency key, if such a rule exists.
func (co *core) contextualFor(consumer, dependency bindingKey) (Factory, bool) {
	co.mu.RLock()
	defer co.mu.RUnlock()
	if m, ok := co.contextual[consumer]; ok {
		if f, ok := m[dependency]; ok {
			return f, true
		}
	}
	return nil, false
}
