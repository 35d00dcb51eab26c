package routing

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/armature-go/armature/framework/container"
	gohttp "github.com/armature-go/armature/framework/http"
)

// Router wraps chi.Router with Laravel-style helpers. Routers built with
// WithContainer can register Action handlers whose dependencies are resolved
// out of the container on every request.
type Router struct {
	mux chi.Router
	app *container.Container
	log *zap.Logger
}

// Option configures a Router.
type Option func(*Router)

// WithContainer enables Action dispatch backed by the given container.
func WithContainer(app *container.Container) Option {
	return func(r *Router) { r.app = app }
}

// WithLogger switches request logging from chi's line format to structured
// zap output, and gives failed Action dispatches somewhere to report.
func WithLogger(log *zap.Logger) Option {
	return func(r *Router) { r.log = log }
}

// New creates a Router with sane defaults (Logger, Recoverer, RealIP).
func New(opts ...Option) *Router {
	r := &Router{}
	for _, opt := range opts {
		opt(r)
	}

	mux := chi.NewRouter()
	if r.log != nil {
		mux.Use(RequestLogger(r.log))
	} else {
		mux.Use(middleware.Logger)
	}
	mux.Use(middleware.Recoverer)
	mux.Use(middleware.RealIP)

	r.mux = mux
	return r
}

// sub builds a child Router sharing this Router's container and logger.
func (r *Router) sub(mx chi.Router) *Router {
	return &Router{mux: mx, app: r.app, log: r.log}
}

// ── HTTP verbs ───────────────────────────────────────────────────────────────

func (r *Router) Get(pattern string, h http.HandlerFunc)    { r.mux.Get(pattern, h) }
func (r *Router) Post(pattern string, h http.HandlerFunc)   { r.mux.Post(pattern, h) }
func (r *Router) Put(pattern string, h http.HandlerFunc)    { r.mux.Put(pattern, h) }
func (r *Router) Patch(pattern string, h http.HandlerFunc)  { r.mux.Patch(pattern, h) }
func (r *Router) Delete(pattern string, h http.HandlerFunc) { r.mux.Delete(pattern, h) }

// Any registers a handler for all common HTTP methods.
func (r *Router) Any(pattern string, h http.HandlerFunc) {
	for _, m := range []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS", "HEAD"} {
		r.mux.Method(m, pattern, h)
	}
}

// ── Container dispatch ───────────────────────────────────────────────────────

// Action registers a handler whose leading parameters are resolved out of the
// container on every request. The request and response wrappers arrive as the
// trailing two parameters, so a handler asks for exactly what it needs:
//
//	r.Action("GET", "/users/{id}", func(repo *UserRepo, req *gohttp.Request, res *gohttp.Response) {
//	    res.Success(repo.Find(req.RouteParam("id")))
//	})
//
// action may also be a container.Keyed callable to pull named bindings. A
// resolution failure never invokes the handler; the client gets a 500.
//
// Laravel: controller method injection.
func (r *Router) Action(method, pattern string, action any) {
	r.mux.Method(strings.ToUpper(method), pattern, r.dispatch(action))
}

func (r *Router) dispatch(action any) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		res := gohttp.NewResponse(w)
		if r.app == nil {
			res.ServerError("router has no container")
			return
		}
		if _, err := r.app.Resolve(action, gohttp.NewRequest(req), res); err != nil {
			if r.log != nil {
				r.log.Error("action dispatch failed",
					zap.String("method", req.Method),
					zap.String("path", req.URL.Path),
					zap.Error(err),
				)
			}
			res.ServerError()
		}
	}
}

// ── Groups & Prefixes ────────────────────────────────────────────────────────

// Group creates an inline group — Laravel: Route::group([], fn)
func (r *Router) Group(fn func(r *Router)) {
	r.mux.Group(func(mx chi.Router) {
		fn(r.sub(mx))
	})
}

// Prefix creates a sub-router with a URL prefix — Laravel: Route::prefix('/api')
func (r *Router) Prefix(pattern string, fn func(r *Router)) {
	r.mux.Route(pattern, func(mx chi.Router) {
		fn(r.sub(mx))
	})
}

// ── Middleware ───────────────────────────────────────────────────────────────

// Middleware adds one or more middleware to the router.
func (r *Router) Middleware(mw ...func(http.Handler) http.Handler) {
	r.mux.Use(mw...)
}

// RequestLogger returns middleware that logs each request through zap.
func RequestLogger(log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, req.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, req)
			log.Info("request",
				zap.String("method", req.Method),
				zap.String("path", req.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("took", time.Since(start)),
				zap.String("remote", req.RemoteAddr),
			)
		})
	}
}

// ── Named / Resource routes ──────────────────────────────────────────────────

// ResourceController receives the standard RESTful routes for a resource.
//
//	GET    /photos           → c.Index
//	POST   /photos           → c.Store
//	GET    /photos/{id}      → c.Show
//	PUT    /photos/{id}      → c.Update
//	DELETE /photos/{id}      → c.Destroy
type ResourceController interface {
	Index(w http.ResponseWriter, r *http.Request)
	Store(w http.ResponseWriter, r *http.Request)
	Show(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Destroy(w http.ResponseWriter, r *http.Request)
}

func (r *Router) Resource(pattern string, c ResourceController) {
	r.mux.Get(pattern, c.Index)
	r.mux.Post(pattern, c.Store)
	r.mux.Get(pattern+"/{id}", c.Show)
	r.mux.Put(pattern+"/{id}", c.Update)
	r.mux.Patch(pattern+"/{id}", c.Update)
	r.mux.Delete(pattern+"/{id}", c.Destroy)
}

// ── Static files ─────────────────────────────────────────────────────────────

// Static serves a filesystem at the given prefix.
// e.g. router.Static("/public", "./public")
func (r *Router) Static(prefix, dir string) {
	fs := http.StripPrefix(prefix, http.FileServer(http.Dir(dir)))
	r.mux.Get(prefix+"/*", func(w http.ResponseWriter, req *http.Request) {
		fs.ServeHTTP(w, req)
	})
}

// ── Params ───────────────────────────────────────────────────────────────────

// Param extracts a URL param — equivalent to $request->route('id')
func Param(r *http.Request, key string) string {
	return chi.URLParam(r, key)
}

// ── Serve ────────────────────────────────────────────────────────────────────

// ServeHTTP implements http.Handler so Router can be passed to http.ListenAndServe.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

// Handler returns the underlying http.Handler (for testing etc.).
func (r *Router) Handler() http.Handler {
	return r.mux
}
