package routing_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/armature-go/armature/framework/container"
	gohttp "github.com/armature-go/armature/framework/http"
	"github.com/armature-go/armature/framework/routing"
)

// ── stubs ────────────────────────────────────────────────────────────────────

type greeter struct {
	prefix string
}

func (g *greeter) greet(name string) string { return g.prefix + name }

type missingService struct{}

// ── helpers ──────────────────────────────────────────────────────────────────

func okHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func do(t *testing.T, router *routing.Router, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

// ── HTTP verbs ───────────────────────────────────────────────────────────────

func TestRouter_Verbs(t *testing.T) {
	tests := []struct {
		method   string
		register func(r *routing.Router)
		path     string
	}{
		{http.MethodGet, func(r *routing.Router) { r.Get("/hello", okHandler) }, "/hello"},
		{http.MethodPost, func(r *routing.Router) { r.Post("/users", okHandler) }, "/users"},
		{http.MethodPut, func(r *routing.Router) { r.Put("/users/{id}", okHandler) }, "/users/1"},
		{http.MethodPatch, func(r *routing.Router) { r.Patch("/users/{id}", okHandler) }, "/users/1"},
		{http.MethodDelete, func(r *routing.Router) { r.Delete("/users/{id}", okHandler) }, "/users/1"},
	}

	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			r := routing.New()
			tt.register(r)
			rr := do(t, r, tt.method, tt.path)
			assert.Equal(t, http.StatusOK, rr.Code)
		})
	}
}

func TestRouter_Any(t *testing.T) {
	r := routing.New()
	r.Any("/ping", okHandler)

	for _, method := range []string{"GET", "POST", "PUT", "PATCH", "DELETE"} {
		rr := do(t, r, method, "/ping")
		assert.Equal(t, http.StatusOK, rr.Code, "ANY %s /ping", method)
	}
}

func TestRouter_NotFound(t *testing.T) {
	r := routing.New()
	rr := do(t, r, http.MethodGet, "/not-registered")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

// ── Route params ─────────────────────────────────────────────────────────────

func TestRouter_Param(t *testing.T) {
	r := routing.New()
	r.Get("/users/{id}", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(routing.Param(req, "id")))
	})

	rr := do(t, r, http.MethodGet, "/users/42")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "42", rr.Body.String())
}

// ── Container dispatch ───────────────────────────────────────────────────────

func TestRouter_Action_InjectsService(t *testing.T) {
	app := container.New()
	require.NoError(t, app.Instance("greeter", &greeter{prefix: "Hello, "}))

	r := routing.New(routing.WithContainer(app))
	r.Action("GET", "/greet/{name}", func(g *greeter, req *gohttp.Request, res *gohttp.Response) {
		res.Success(g.greet(req.RouteParam("name")))
	})

	rr := do(t, r, http.MethodGet, "/greet/World")
	require.Equal(t, http.StatusOK, rr.Code)

	var body struct {
		Data string `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
	assert.Equal(t, "Hello, World", body.Data)
}

func TestRouter_Action_KeyedCallable(t *testing.T) {
	app := container.New()
	require.NoError(t, app.Instance("formal", &greeter{prefix: "Dear "}))
	require.NoError(t, app.Instance("casual", &greeter{prefix: "Hey "}))

	r := routing.New(routing.WithContainer(app))
	r.Action("GET", "/hi/{name}", container.Keyed(
		func(g *greeter, req *gohttp.Request, res *gohttp.Response) {
			res.Success(g.greet(req.RouteParam("name")))
		},
		"casual",
	))

	rr := do(t, r, http.MethodGet, "/hi/Ada")
	require.Equal(t, http.StatusOK, rr.Code)

	var body struct {
		Data string `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
	assert.Equal(t, "Hey Ada", body.Data)
}

func TestRouter_Action_UnresolvedDependency_Returns500(t *testing.T) {
	app := container.New()
	invoked := false

	r := routing.New(routing.WithContainer(app))
	r.Action("GET", "/broken", func(m *missingService, req *gohttp.Request, res *gohttp.Response) {
		invoked = true
	})

	rr := do(t, r, http.MethodGet, "/broken")
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.False(t, invoked, "handler must not run when a dependency is unresolved")
}

func TestRouter_Action_WithoutContainer_Returns500(t *testing.T) {
	r := routing.New()
	r.Action("GET", "/orphan", func(req *gohttp.Request, res *gohttp.Response) {
		res.Success("reached")
	})

	rr := do(t, r, http.MethodGet, "/orphan")
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}

// ── Request logging ──────────────────────────────────────────────────────────

func TestRouter_RequestLogger(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)

	r := routing.New(routing.WithLogger(zap.New(core)))
	r.Get("/ping", okHandler)

	do(t, r, http.MethodGet, "/ping")

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "request", entries[0].Message)

	fields := entries[0].ContextMap()
	assert.Equal(t, "GET", fields["method"])
	assert.Equal(t, "/ping", fields["path"])
	assert.Equal(t, int64(http.StatusOK), fields["status"])
}

// ── Prefix / Group ───────────────────────────────────────────────────────────

func TestRouter_Prefix(t *testing.T) {
	r := routing.New()
	r.Prefix("/api/v1", func(api *routing.Router) {
		api.Get("/users", okHandler)
	})

	assert.Equal(t, http.StatusOK, do(t, r, http.MethodGet, "/api/v1/users").Code)
	assert.Equal(t, http.StatusNotFound, do(t, r, http.MethodGet, "/users").Code)
}

func TestRouter_Prefix_KeepsContainer(t *testing.T) {
	app := container.New()
	require.NoError(t, app.Instance("greeter", &greeter{prefix: "Hi "}))

	r := routing.New(routing.WithContainer(app))
	r.Prefix("/api", func(api *routing.Router) {
		api.Action("GET", "/greet", func(g *greeter, req *gohttp.Request, res *gohttp.Response) {
			res.Success(g.greet("there"))
		})
	})

	assert.Equal(t, http.StatusOK, do(t, r, http.MethodGet, "/api/greet").Code)
}

func TestRouter_Group_Middleware(t *testing.T) {
	called := false
	mw := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			called = true
			next.ServeHTTP(w, r)
		})
	}

	r := routing.New()
	r.Group(func(g *routing.Router) {
		g.Middleware(mw)
		g.Get("/protected", okHandler)
	})

	do(t, r, http.MethodGet, "/protected")
	assert.True(t, called, "expected middleware to be called")
}

// ── Resource routes ──────────────────────────────────────────────────────────

type stubController struct{}

func (s *stubController) Index(w http.ResponseWriter, r *http.Request)   { w.WriteHeader(200) }
func (s *stubController) Store(w http.ResponseWriter, r *http.Request)   { w.WriteHeader(201) }
func (s *stubController) Show(w http.ResponseWriter, r *http.Request)    { w.WriteHeader(200) }
func (s *stubController) Update(w http.ResponseWriter, r *http.Request)  { w.WriteHeader(200) }
func (s *stubController) Destroy(w http.ResponseWriter, r *http.Request) { w.WriteHeader(204) }

func TestRouter_Resource(t *testing.T) {
	r := routing.New()
	r.Resource("/photos", &stubController{})

	tests := []struct {
		method string
		path   string
		want   int
	}{
		{"GET", "/photos", 200},
		{"POST", "/photos", 201},
		{"GET", "/photos/1", 200},
		{"PUT", "/photos/1", 200},
		{"PATCH", "/photos/1", 200},
		{"DELETE", "/photos/1", 204},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, do(t, r, tt.method, tt.path).Code)
		})
	}
}

// ── Handler() returns http.Handler ───────────────────────────────────────────

func TestRouter_HandlerInterface(t *testing.T) {
	r := routing.New()
	r.Get("/ping", okHandler)
	var _ http.Handler = r.Handler()
}
