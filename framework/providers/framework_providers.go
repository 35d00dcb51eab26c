package providers

import (
	"go.uber.org/zap"

	"github.com/armature-go/armature/framework/config"
	"github.com/armature-go/armature/framework/container"
	"github.com/armature-go/armature/framework/logging"
	"github.com/armature-go/armature/framework/routing"
)

// ── ConfigServiceProvider ─────────────────────────────────────────────────────

// ConfigServiceProvider loads the application configuration from .env and
// binds it into the container as "config".
//
// Bound abstracts:
//   - "config"  → *config.Config
//
// A pre-loaded Config takes precedence over EnvFiles; the kernel uses that to
// bind the configuration it already read for the container policies.
//
// Laravel equivalent:
//
//	// Illuminate\Foundation\Bootstrap\LoadConfiguration
//	$app->singleton('config', fn() => new Repository($items));
type ConfigServiceProvider struct {
	container.BaseProvider
	Config   *config.Config
	EnvFiles []string
}

func (p *ConfigServiceProvider) Register(app *container.Container) {
	cfg := p.Config
	if cfg == nil {
		cfg = config.Load(p.EnvFiles...)
	}
	_ = app.Instance("config", cfg)
}

// ── LoggingServiceProvider ────────────────────────────────────────────────────

// LoggingServiceProvider builds the zap logger from the Log section of the
// bound configuration and binds it as "log". Registered after
// ConfigServiceProvider; without a bound config it falls back to console
// defaults.
//
// Bound abstracts:
//   - "log"  → *zap.Logger
//
// Laravel equivalent:
//
//	// Illuminate\Log\LogServiceProvider
//	$app->singleton('log', fn($app) => new LogManager($app));
type LoggingServiceProvider struct {
	container.BaseProvider
}

func (p *LoggingServiceProvider) Register(app *container.Container) {
	logCfg := config.LogConfig{}
	if cfg, err := container.Make[*config.Config](app, "config"); err == nil {
		logCfg = cfg.Log
	}
	_ = app.Instance("log", logging.New(logCfg))
}

// ── RoutingServiceProvider ────────────────────────────────────────────────────

// RoutingServiceProvider registers the HTTP router, wired to the container so
// Action handlers can pull their dependencies, and to the bound logger when
// one is present.
//
// Bound abstracts:
//   - "router"  → *routing.Router
//
// Laravel equivalent:
//
//	// Illuminate\Routing\RoutingServiceProvider
//	$app->singleton('router', fn($app) => new Router($app['events'], $app));
type RoutingServiceProvider struct {
	container.BaseProvider
}

func (p *RoutingServiceProvider) Register(app *container.Container) {
	opts := []routing.Option{routing.WithContainer(app)}
	if log, err := container.Make[*zap.Logger](app, "log"); err == nil {
		opts = append(opts, routing.WithLogger(log))
	}
	_ = app.Instance("router", routing.New(opts...))
}
