package main

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/armature-go/armature/framework/app"
	gohttp "github.com/armature-go/armature/framework/http"
	"github.com/armature-go/armature/framework/http/validation"
	"github.com/armature-go/armature/framework/routing"
)

// User is the demo resource.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// MemoryUsers is a toy in-memory store the demo routes pull out of the
// container.
type MemoryUsers struct {
	users []User
}

func NewMemoryUsers() *MemoryUsers {
	return &MemoryUsers{users: []User{
		{ID: "1", Name: "Alice", Email: "alice@example.com"},
		{ID: "2", Name: "Bob", Email: "bob@example.com"},
	}}
}

func (m *MemoryUsers) All() []User { return m.users }

func (m *MemoryUsers) Find(id string) (User, bool) {
	for _, u := range m.users {
		if u.ID == id {
			return u, true
		}
	}
	return User{}, false
}

func (m *MemoryUsers) Add(u User) { m.users = append(m.users, u) }

func main() {
	application := app.New() // loads .env automatically

	// Services live in the container; Action handlers below ask for them by
	// parameter type.
	_ = application.Instance("users", NewMemoryUsers())

	r := application.Router()

	// ── Basic routes ─────────────────────────────────────────────────────────

	r.Get("/", func(w http.ResponseWriter, req *http.Request) {
		res := gohttp.NewResponse(w)
		res.Success(map[string]any{"message": "Welcome to Armature!"})
	})

	// ── Route prefix (like Route::prefix('api')) ──────────────────────────────

	r.Prefix("/api/v1", func(api *routing.Router) {

		// GET /api/v1/users — the store is injected from the container
		api.Action("GET", "/users", func(repo *MemoryUsers, req *gohttp.Request, res *gohttp.Response) {
			res.Success(repo.All())
		})

		// GET /api/v1/users/{id}
		api.Action("GET", "/users/{id}", func(repo *MemoryUsers, req *gohttp.Request, res *gohttp.Response) {
			user, ok := repo.Find(req.RouteParam("id"))
			if !ok {
				res.NotFound()
				return
			}
			res.Success(user)
		})

		// POST /api/v1/users
		api.Action("POST", "/users", func(repo *MemoryUsers, req *gohttp.Request, res *gohttp.Response) {

			// 1. Decode JSON body into a struct
			var body struct {
				Name  string `json:"name"`
				Email string `json:"email"`
				Age   string `json:"age"`
			}
			if err := req.Decode(&body); err != nil {
				res.Error(http.StatusBadRequest, err.Error())
				return
			}

			// 2. Validate — Laravel-style rules
			v := validation.Make(map[string]string{
				"name":  body.Name,
				"email": body.Email,
				"age":   body.Age,
			}, validation.Rules{
				"name":  "required|min:2|max:100",
				"email": "required|email",
				"age":   "required|integer|gte:18",
			})

			if v.Fails() {
				// 3. Return 422 {"errors": {"field": ["msg"]}}
				res.ValidationError(v.Errors())
				return
			}

			// 4. Store and return 201 created
			user := User{ID: uuid.NewString(), Name: body.Name, Email: body.Email}
			repo.Add(user)
			res.Created(user)
		})
	})

	// ── Auth group with middleware ─────────────────────────────────────────────

	r.Group(func(protected *routing.Router) {
		protected.Middleware(AuthMiddleware)

		protected.Get("/profile", func(w http.ResponseWriter, req *http.Request) {
			res := gohttp.NewResponse(w)
			res.Success(map[string]any{"user": "authenticated"})
		})
	})

	application.Run()
}

// AuthMiddleware is an example JWT/token guard.
func AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req := gohttp.NewRequest(r)
		res := gohttp.NewResponse(w)

		if req.BearerToken() == "" {
			res.Unauthorized()
			return
		}
		next.ServeHTTP(w, r)
	})
}
