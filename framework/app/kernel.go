package app

import (
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/armature-go/armature/framework/config"
	"github.com/armature-go/armature/framework/container"
	gohttp "github.com/armature-go/armature/framework/http"
	"github.com/armature-go/armature/framework/providers"
	"github.com/armature-go/armature/framework/routing"
)

// Application is the top-level application container.
// It embeds the IoC Container and ProviderRegistry so user code can
// call app.Bind(), app.Make(), app.Register() directly —
// exactly like $app in Laravel's bootstrap/app.php.
type Application struct {
	*container.Container
	Providers *container.ProviderRegistry

	// ID distinguishes this process in log output when several instances
	// run behind one load balancer.
	ID string
}

// New creates and bootstraps the application.
//
// The configuration is read before the container exists: the container's
// strict and override policies are fixed at construction and come from the
// CONTAINER_* keys.
func New(envFiles ...string) *Application {
	cfg := config.Load(envFiles...)

	var opts []container.Option
	if cfg.Container.Strict {
		opts = append(opts, container.WithStrict())
	}
	if !cfg.Container.Override {
		opts = append(opts, container.WithoutOverride())
	}

	c := container.New(opts...)
	registry := container.NewProviderRegistry(c)

	app := &Application{
		Container: c,
		Providers: registry,
		ID:        uuid.NewString(),
	}
	_ = c.Instance("app.id", app.ID)

	// Register framework core providers (same order as Laravel)
	registry.Register(&providers.ConfigServiceProvider{Config: cfg, EnvFiles: envFiles})
	registry.Register(&providers.LoggingServiceProvider{})
	registry.Register(&providers.RoutingServiceProvider{})

	app.Log().Info("application bootstrapped",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("instance", app.ID),
	)
	return app
}

// Register adds a ServiceProvider to the application.
func (a *Application) Register(provider container.ServiceProvider) {
	a.Providers.Register(provider)
}

// Boot runs the Boot() phase on all providers.
func (a *Application) Boot() {
	a.Providers.Boot()
}

// Config resolves *config.Config from the container.
func (a *Application) Config() *config.Config {
	return container.MustMake[*config.Config](a.Container, "config")
}

// Log resolves the application logger from the container.
func (a *Application) Log() *zap.Logger {
	return container.MustMake[*zap.Logger](a.Container, "log")
}

// Router resolves *routing.Router from the container.
func (a *Application) Router() *routing.Router {
	return container.MustMake[*routing.Router](a.Container, "router")
}

// Run boots the application (if needed) and starts the HTTP server.
func (a *Application) Run() {
	if !a.Providers.Booted() {
		a.Boot()
	}
	cfg := a.Config()
	log := a.Log()
	addr := ":" + cfg.App.Port

	log.Info("application running",
		zap.String("app", cfg.App.Name),
		zap.String("addr", addr),
		zap.String("env", cfg.App.Env),
		zap.String("instance", a.ID),
	)
	if err := http.ListenAndServe(addr, a.Router()); err != nil {
		log.Fatal("server error", zap.Error(err))
	}
}

// Environment returns APP_ENV value.
func (a *Application) Environment() string { return a.Config().App.Env }
func (a *Application) IsLocal() bool       { return a.Environment() == "local" }
func (a *Application) IsProduction() bool  { return a.Environment() == "production" }
func (a *Application) IsTesting() bool     { return a.Environment() == "testing" }
func (a *Application) IsDebug() bool       { return a.Config().App.Debug }
func (a *Application) Version() string     { return "0.1.0" }

// Controller is an embeddable base for HTTP controllers.
type Controller struct{}

func (c *Controller) Request(r *http.Request) *gohttp.Request {
	return gohttp.NewRequest(r)
}
func (c *Controller) Response(w http.ResponseWriter) *gohttp.Response {
	return gohttp.NewResponse(w)
}
