package service

import (
	"context"
	"errors"
	"testing"

	"posts-service/internal/domain"
)

func TestValidateCredentials(t *testing.T) {
	cases := []struct {
		email    string
		password string
		ok       bool
	}{
		{"user@example.com", "secret123", true},
		{"bad", "secret123", false},
		{"user@example", "secret123", false},
		{"user@example.com", "short", false},
	}
	for i, c := range cases {
		err := ValidateCredentials(c.email, c.password)
		if c.ok && err != nil {
			t.Fatalf("case %d expected ok, got err: %v", i, err)
		}
		if !c.ok && !errors.Is(err, domain.ErrInvalidInput) {
			t.Fatalf("case %d expected ErrInvalidInput, got %v", i, err)
		}
	}
}

func TestRegisterAndAuthenticate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	user, err := f.users.Register(ctx, " A@X.com ", "password123")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.Email != "a@x.com" || user.PasswordHash != "" || user.ID == 0 {
		t.Fatalf("unexpected user %+v", user)
	}

	if _, err := f.users.Register(ctx, "a@x.com", "password456"); !errors.Is(err, ErrUserAlreadyExists) {
		t.Fatalf("expected ErrUserAlreadyExists, got %v", err)
	}

	for _, email := range []string{"a@x.com", "A@x.COM"} {
		got, err := f.users.Authenticate(ctx, email, "password123")
		if err != nil {
			t.Fatalf("authenticate %s: %v", email, err)
		}
		if got.ID != user.ID || got.PasswordHash != "" {
			t.Fatalf("unexpected authenticated user %+v", got)
		}
	}

	for _, c := range [][2]string{{"a@x.com", "wrong-password"}, {"nobody@x.com", "password123"}, {"", ""}} {
		if _, err := f.users.Authenticate(ctx, c[0], c[1]); !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("%v: expected ErrInvalidCredentials, got %v", c, err)
		}
	}

	if _, err := f.users.GetByID(ctx, user.ID+1); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestGuardIdentify(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.register(t, "a@x.com")

	token, _, err := f.tokens.Issue(a.ID)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	actor, err := f.guard.Identify(ctx, token)
	if err != nil {
		t.Fatalf("identify: %v", err)
	}
	if actor.ID != a.ID {
		t.Fatalf("expected actor %d, got %d", a.ID, actor.ID)
	}

	if _, err := f.guard.Identify(ctx, "garbage"); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}

	if _, err := f.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, a.ID); err != nil {
		t.Fatalf("delete user: %v", err)
	}
	_, err = f.guard.Identify(ctx, token)
	if !errors.Is(err, domain.ErrUserNotFound) || !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestGuardRequireOwner(t *testing.T) {
	g := NewGuard(nil, nil)
	if err := g.RequireOwner(1, 1); err != nil {
		t.Fatalf("expected owner to pass, got %v", err)
	}
	if err := g.RequireOwner(1, 2); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}
