package container_test

import (
	"errors"
	"testing"

	"github.com/armature-go/armature/framework/container"
)

// ── stub dependencies ─────────────────────────────────────────────────────────

type fakeDB struct{ dsn string }

type userRepo struct{ db *fakeDB }

func newUserRepo(db *fakeDB) *userRepo { return &userRepo{db: db} }

// ── Parameter resolution ──────────────────────────────────────────────────────

func TestResolve_ByDeclaredType(t *testing.T) {
	c := container.New()
	c.Instance("db.main", &fakeDB{dsn: "pg://main"})

	results, err := c.Resolve(func(db *fakeDB) string { return db.dsn })
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if results[0] != "pg://main" {
		t.Errorf("result: got %v, want pg://main", results[0])
	}
}

func TestResolve_InterfaceParameter_IsAMatch(t *testing.T) {
	c := container.New()
	c.Instance("mail", &logMailer{})

	results, err := c.Resolve(func(m Mailer) error { return m.Send("ops@example.com", "hi") })
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if results[0] != nil {
		t.Errorf("Send error: got %v, want nil", results[0])
	}
}

func TestResolve_MixedTypeAndName_TypeFirst(t *testing.T) {
	c := container.New()
	c.Instance("db.main", &fakeDB{dsn: "pg://main"})
	c.Instance("b", "named-value")

	fn := func(a *fakeDB, b string) string { return a.dsn + "|" + b }
	results, err := c.Resolve(container.Keyed(fn, "", "b"))
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if results[0] != "pg://main|named-value" {
		t.Errorf("result: got %v", results[0])
	}
}

func TestResolve_MixedTypeAndName_NameFirst(t *testing.T) {
	c := container.New()
	c.Instance("db.main", &fakeDB{dsn: "pg://main"})
	c.Instance("b", "named-value")

	fn := func(b string, a *fakeDB) string { return a.dsn + "|" + b }
	results, err := c.Resolve(container.Keyed(fn, "b"))
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if results[0] != "pg://main|named-value" {
		t.Errorf("result: got %v", results[0])
	}
}

func TestResolve_ContainerParameter_GetsResolvingView(t *testing.T) {
	c := container.New()

	results, err := c.Resolve(func(c *container.Container) bool { return c != nil })
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if results[0] != true {
		t.Error("*Container parameter should be injected directly")
	}
}

// ── Failure modes ─────────────────────────────────────────────────────────────

func TestResolve_UnboundName_CallableNeverInvoked(t *testing.T) {
	c := container.New()

	invoked := 0
	fn := func(db *fakeDB) { invoked++ }
	_, err := c.Resolve(container.Keyed(fn, "nope"))

	var dep container.UnresolvedDependencyError
	if !errors.As(err, &dep) {
		t.Fatalf("error type: got %T, want UnresolvedDependencyError", err)
	}
	if dep.Param != 0 || dep.Key != "nope" {
		t.Errorf("error context: param %d key %v, want 0/'nope'", dep.Param, dep.Key)
	}
	var missing container.UnresolvedKeyError
	if !errors.As(err, &missing) {
		t.Error("should wrap the underlying UnresolvedKeyError")
	}
	if invoked != 0 {
		t.Errorf("callable invoked %d times, want 0", invoked)
	}
}

func TestResolve_UnboundType_Fails(t *testing.T) {
	c := container.New()

	type unregistered struct{}
	_, err := c.Resolve(func(u *unregistered) {})
	var dep container.UnresolvedDependencyError
	if !errors.As(err, &dep) {
		t.Fatalf("error type: got %T, want UnresolvedDependencyError", err)
	}
}

func TestResolve_NonFunction_NotCallable(t *testing.T) {
	c := container.New()

	if _, err := c.Resolve(42); !errors.Is(err, container.ErrNotCallable) {
		t.Errorf("got %v, want ErrNotCallable", err)
	}
	if _, err := c.Resolve(nil); !errors.Is(err, container.ErrNotCallable) {
		t.Errorf("nil target: got %v, want ErrNotCallable", err)
	}
}

func TestResolve_TooManyExtras_Fails(t *testing.T) {
	c := container.New()

	_, err := c.Resolve(func(s string) {}, "one", "two")
	if err == nil {
		t.Error("surplus extras on a non-variadic target should fail")
	}
}

func TestMustResolve_PanicsOnFailure(t *testing.T) {
	c := container.New()

	defer func() {
		if recover() == nil {
			t.Error("MustResolve should panic when resolution fails")
		}
	}()
	c.MustResolve(func(db *fakeDB) {})
}

// ── Extra arguments ───────────────────────────────────────────────────────────

func TestResolve_ExtrasFillTrailingParameters(t *testing.T) {
	c := container.New()
	c.Instance("db.main", &fakeDB{dsn: "pg://main"})

	fn := func(db *fakeDB, label string, n int) string {
		if db == nil {
			t.Error("db should still be injected")
		}
		return label
	}
	results, err := c.Resolve(fn, "batch", 7)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if results[0] != "batch" {
		t.Errorf("result: got %v, want batch", results[0])
	}
}

func TestResolve_ExtrasSpillIntoVariadicTail(t *testing.T) {
	c := container.New()
	c.Instance("db.main", &fakeDB{dsn: "pg://main"})

	fn := func(db *fakeDB, parts ...string) int { return len(parts) }
	results, err := c.Resolve(fn, "a", "b", "c")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if results[0] != 3 {
		t.Errorf("variadic length: got %v, want 3", results[0])
	}
}

func TestResolve_VariadicTailNeverContainerResolved(t *testing.T) {
	c := container.New()
	c.Instance("db.main", &fakeDB{})
	// note: no string bindings anywhere

	fn := func(db *fakeDB, parts ...string) int { return len(parts) }
	results, err := c.Resolve(fn)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if results[0] != 0 {
		t.Errorf("variadic tail: got %v elements, want 0", results[0])
	}
}

func TestResolve_ExtraTypeMismatch_Fails(t *testing.T) {
	c := container.New()

	_, err := c.Resolve(func(n int) {}, "not-an-int")
	if err == nil {
		t.Error("mismatched extra should fail")
	}
}

// ── Results ───────────────────────────────────────────────────────────────────

func TestResolve_ReturnsAllResultsInOrder(t *testing.T) {
	c := container.New()

	boom := errors.New("boom")
	results, err := c.Resolve(func() (string, int, error) { return "x", 2, boom })
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("results: got %d, want 3", len(results))
	}
	if results[0] != "x" || results[1] != 2 {
		t.Errorf("results: got %v", results)
	}
	if results[2] != error(boom) {
		t.Errorf("error result should pass through, got %v", results[2])
	}
}

// ── Constructor injection via Make ────────────────────────────────────────────

func TestMake_ConstructorParametersAutoInjected(t *testing.T) {
	c := container.New()
	c.Instance("db.main", &fakeDB{dsn: "pg://main"})
	c.Bind("repo.users", newUserRepo)

	repo, err := container.Make[*userRepo](c, "repo.users")
	if err != nil {
		t.Fatalf("Make: %v", err)
	}
	if repo.db.dsn != "pg://main" {
		t.Errorf("injected db: got %q, want pg://main", repo.db.dsn)
	}
}

func TestMake_ConstructorMissingDependency_Surfaces(t *testing.T) {
	c := container.New()
	c.Bind("repo.users", newUserRepo) // *fakeDB never bound

	_, err := c.Make("repo.users")
	var dep container.UnresolvedDependencyError
	if !errors.As(err, &dep) {
		t.Fatalf("error type: got %T, want UnresolvedDependencyError", err)
	}
}

func TestMake_ConstructorCycle_Detected(t *testing.T) {
	c := container.New()

	type svcA struct{}
	type svcB struct{}
	c.Bind(container.Contract[*svcA](), func(b *svcB) *svcA { return &svcA{} })
	c.Bind(container.Contract[*svcB](), func(a *svcA) *svcB { return &svcB{} })

	_, err := c.Make(container.Contract[*svcA]())
	var cyclic container.CyclicDependencyError
	if !errors.As(err, &cyclic) {
		t.Fatalf("error: got %v, want a wrapped CyclicDependencyError", err)
	}
}
