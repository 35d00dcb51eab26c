// Package container provides a Laravel-flavoured IoC (Inversion of Control)
// container and Service Provider system for Go.
//
// # Overview
//
// The container is an ordered key/value store of bindings with a resolution
// layer on top. Keys are string names or reflect.Type values; bindings are
// raw values, factories, or constructors whose parameters are auto-injected.
// Lifecycle hooks observe (and may replace) values as they are bound, made,
// and injected.
//
// It mirrors the public API of Laravel's Illuminate\Container\Container where
// Go's type system allows, with reflective parameter injection standing in
// for PHP's constructor autowiring.
//
// # Container Lifecycle
//
//  1. Create: c := container.New()            — or New(container.WithStrict())
//  2. Register providers: registry.Register(&MyProvider{})
//  3. Boot: registry.Boot()                   — safe to resolve everything after this
//  4. Serve requests
//
// # Bindings
//
//	// Raw value under a name
//	// Laravel: $app->instance('config', $config)
//	c.Instance("config", cfg)
//
//	// Factory — invoked on every Make()
//	c.BindFactory("request.id", func(c *container.Container) (any, error) {
//	    return uuid.NewString(), nil
//	})
//
//	// Constructor under a type key — parameters auto-injected
//	// Laravel: $app->bind(Mailer::class, SMTPMailer::class)
//	c.Bind(container.Contract[Mailer](), NewSMTPMailer)
//
// Bind classifies by shape: a container.Factory is a factory, any other
// function returning (T) or (T, error) is a constructor, everything else is
// a raw value. Instance pins raw storage for values that happen to be
// functions.
//
// Duplicate keys follow the policy fixed at New: overwrite in place by
// default, first-one-wins under WithoutOverride, DuplicateBindingError
// under WithStrict.
//
// # Resolving
//
//	// Untyped
//	// Laravel: $app->make('mailer')
//	raw, err := c.Make("mailer")
//
//	// By type — exact entry or is-a scan in registration order
//	m, err := c.Make(container.Contract[Mailer]())
//
//	// Generic (no type assertion required)
//	mailer, err := container.Make[Mailer](c, "mailer")
//	router := container.MustMake[*Router](c, "router")
//
// # Bulk access
//
//	c.Collect("*ExceptionHook")                      // wildcard over names
//	c.Collect(container.Contract[ExceptionHook]())   // every is-a match
//	c.All()                                          // full snapshot, stored order
//
// Collect and All return values as stored and never invoke factories.
//
// # Hooks
//
//	c.OnBind("mailer", func(v any, c *container.Container) any { ... })
//	c.OnMake(container.Contract[Mailer](), func(v any, c *container.Container) any { ... })
//	c.OnResolve("db", func(v any, c *container.Container) any { ... })
//
// A name target fires on exactly that key; a type target fires on any value
// whose type satisfies it. Hooks chain in registration order, each feeding
// the next.
//
// # Injection
//
//	// Parameters resolved by declared type; extras fill the tail
//	results, err := c.Resolve(func(m Mailer, w io.Writer) error { ... }, buf)
//
//	// Names for positions that should resolve by binding name
//	results, err := c.Resolve(container.Keyed(handler, "db", "config"))
//
// # Contextual Binding
//
//	// Laravel: $app->when(PhotoController::class)
//	//              ->needs(Filesystem::class)
//	//              ->give(fn() => new S3Filesystem)
//	c.When("photo.controller").
//	    Needs(container.Contract[Filesystem]()).
//	    Give(func(c *container.Container) (any, error) { return &S3Filesystem{}, nil })
//
// # Service Providers
//
//	type AppServiceProvider struct{ container.BaseProvider }
//
//	func (p *AppServiceProvider) Register(app *container.Container) {
//	    app.BindFactory("mailer", func(c *container.Container) (any, error) {
//	        cfg, err := container.Make[*config.Config](c, "config")
//	        if err != nil {
//	            return nil, err
//	        }
//	        return mail.NewSMTP(cfg), nil
//	    })
//	}
//
//	func (p *AppServiceProvider) Boot(app *container.Container) {
//	    // safe to resolve other bindings here
//	}
//
//	registry := container.NewProviderRegistry(c)
//	registry.Register(&AppServiceProvider{})
//	registry.Boot()
//
// # Deferred Providers
//
//	type HeavyProvider struct{ container.BaseProvider }
//
//	func (p *HeavyProvider) IsDeferred() bool   { return true }
//	func (p *HeavyProvider) Provides() []string { return []string{"heavy"} }
//	func (p *HeavyProvider) Register(app *container.Container) {
//	    app.Instance("heavy", heavySetup()) // only runs on first app.Make("heavy")
//	}
package container
