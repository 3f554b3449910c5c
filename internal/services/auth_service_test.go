package services_test

import (
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // pure-Go SQLite driver

	"craftbazaar/internal/apperr"
	"craftbazaar/internal/repos"
	"craftbazaar/internal/services"
)

// openSeeded returns an in-memory database carrying the demo seed data:
// accounts a-admin / a-mira / a-odisha-crafts (password "Passw0rd!") and the
// demo catalog.
func openSeeded(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func newAuth(db *sqlx.DB) *services.AuthService {
	return services.NewAuthService(repos.NewUserRepo(db), "test-secret", time.Hour)
}

func TestRegisterDuplicateEmailConflicts(t *testing.T) {
	db := openSeeded(t)
	svc := newAuth(db)

	in := services.RegisterInput{Name: "Asha", Email: "asha@example.test", Password: "Str0ng!pass", Phone: ""}
	if _, _, err := svc.Register(in); err != nil {
		t.Fatal(err)
	}
	_, _, err := svc.Register(in)
	if !apperr.Is(err, apperr.Conflict) {
		t.Fatalf("want Conflict for duplicate email, got %v", err)
	}

	// Case-insensitive: the LOWER(email) index catches shouting variants too.
	in.Email = "ASHA@EXAMPLE.TEST"
	_, _, err = svc.Register(in)
	if !apperr.Is(err, apperr.Conflict) {
		t.Fatalf("want Conflict for case-variant email, got %v", err)
	}
}

func TestLoginBadCredentials(t *testing.T) {
	db := openSeeded(t)
	svc := newAuth(db)

	if _, _, err := svc.Login("mira@craftbazaar.test", "wrong-password"); !apperr.Is(err, apperr.Unauthenticated) {
		t.Fatalf("want Unauthenticated for bad password, got %v", err)
	}
	if _, _, err := svc.Login("nobody@craftbazaar.test", "Passw0rd!"); !apperr.Is(err, apperr.Unauthenticated) {
		t.Fatalf("want Unauthenticated for unknown email, got %v", err)
	}

	a, token, err := svc.Login("mira@craftbazaar.test", "Passw0rd!")
	if err != nil {
		t.Fatal(err)
	}
	if token == "" || a.ID != "a-mira" {
		t.Fatalf("bad login result: account=%+v token=%q", a, token)
	}
}

func TestLoginPendingSellerRefused(t *testing.T) {
	db := openSeeded(t)
	svc := newAuth(db)

	in := services.SellerRegisterInput{
		RegisterInput: services.RegisterInput{Name: "Weaver", Email: "weaver@example.test", Password: "Str0ng!pass"},
		BusinessName:  "Weaver Studio",
	}
	a, token, err := svc.RegisterSeller(in)
	if err != nil {
		t.Fatal(err)
	}
	if a.IsApproved {
		t.Fatal("fresh seller must start unapproved")
	}
	if token == "" {
		t.Fatal("registration should still return a token")
	}

	_, _, err = svc.Login("weaver@example.test", "Str0ng!pass")
	if !apperr.Is(err, apperr.Forbidden) {
		t.Fatalf("want Forbidden for pending seller, got %v", err)
	}
}

func TestLoginDeactivatedAccountRefused(t *testing.T) {
	db := openSeeded(t)
	svc := newAuth(db)

	if err := svc.Users.Deactivate("a-mira"); err != nil {
		t.Fatal(err)
	}
	_, _, err := svc.Login("mira@craftbazaar.test", "Passw0rd!")
	if !apperr.Is(err, apperr.Forbidden) {
		t.Fatalf("want Forbidden for deactivated account, got %v", err)
	}
}

func TestResolveStaleToken(t *testing.T) {
	db := openSeeded(t)
	svc := newAuth(db)

	if _, err := svc.Resolve("not-a-token"); !apperr.Is(err, apperr.Unauthenticated) {
		t.Fatal("garbage token should be Unauthenticated")
	}

	_, token, err := svc.Login("mira@craftbazaar.test", "Passw0rd!")
	if err != nil {
		t.Fatal(err)
	}
	a, err := svc.Resolve(token)
	if err != nil {
		t.Fatal(err)
	}
	if a.ID != "a-mira" {
		t.Fatalf("resolved wrong account: %+v", a)
	}

	// A token for a deleted account must stop working.
	if _, err := db.Exec(`DELETE FROM users WHERE id='a-mira'`); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Resolve(token); !apperr.Is(err, apperr.Unauthenticated) {
		t.Fatalf("want Unauthenticated for deleted account, got %v", err)
	}
}
