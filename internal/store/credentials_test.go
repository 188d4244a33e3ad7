package store

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/ayush/movie-reviews/internal/apperr"
	"github.com/ayush/movie-reviews/internal/models"
)

type memUsers struct {
	byUsername map[string]*models.User
}

func newMemUsers() *memUsers {
	return &memUsers{byUsername: map[string]*models.User{}}
}

func (m *memUsers) Insert(_ context.Context, u *models.User) error {
	if _, ok := m.byUsername[u.Username]; ok {
		return apperr.Conflict("A user with that username already exists.")
	}
	u.ID = "u-" + u.Username
	cp := *u
	m.byUsername[u.Username] = &cp
	return nil
}

func (m *memUsers) FindByUsername(_ context.Context, username string) (*models.User, error) {
	if u, ok := m.byUsername[username]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, apperr.NotFound("user not found")
}

func TestCredentialsRegisterHashesPassword(t *testing.T) {
	users := newMemUsers()
	creds := NewCredentials(users, bcrypt.MinCost)

	u, err := creds.Register(context.Background(), "Alice", "alice", "s3cret")
	if err != nil {
		t.Fatalf("Register() unexpected error: %v", err)
	}
	if u.ID == "" {
		t.Fatalf("expected user id to be set")
	}
	stored := users.byUsername["alice"]
	if stored.Password == "s3cret" {
		t.Fatalf("password stored in clear text")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("s3cret")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
}

func TestCredentialsDuplicateUsername(t *testing.T) {
	users := newMemUsers()
	creds := NewCredentials(users, bcrypt.MinCost)
	ctx := context.Background()

	if _, err := creds.Register(ctx, "Alice", "alice", "first"); err != nil {
		t.Fatalf("Register() unexpected error: %v", err)
	}
	original := users.byUsername["alice"].Password

	_, err := creds.Register(ctx, "Impostor", "alice", "second")
	if !apperr.Is(err, apperr.KindConflict) {
		t.Fatalf("Register() error = %v, want conflict", err)
	}
	if users.byUsername["alice"].Password != original || users.byUsername["alice"].Name != "Alice" {
		t.Fatalf("original record changed after conflicting signup")
	}
}

func TestCredentialsVerify(t *testing.T) {
	creds := NewCredentials(newMemUsers(), bcrypt.MinCost)
	ctx := context.Background()
	if _, err := creds.Register(ctx, "Bob", "bob", "hunter2"); err != nil {
		t.Fatalf("Register() unexpected error: %v", err)
	}

	u, err := creds.Verify(ctx, "bob", "hunter2")
	if err != nil {
		t.Fatalf("Verify() unexpected error: %v", err)
	}
	if u.Username != "bob" {
		t.Fatalf("Verify() username = %q, want bob", u.Username)
	}

	if _, err := creds.Verify(ctx, "bob", "wrong"); !apperr.Is(err, apperr.KindUnauthorized) {
		t.Fatalf("Verify() wrong password error = %v, want unauthorized", err)
	}
	if _, err := creds.Verify(ctx, "nobody", "hunter2"); !apperr.Is(err, apperr.KindUnauthorized) {
		t.Fatalf("Verify() unknown user error = %v, want unauthorized", err)
	}
}

func TestCredentialsRegisterPasswordTooLong(t *testing.T) {
	users := newMemUsers()
	creds := NewCredentials(users, bcrypt.MinCost)

	_, err := creds.Register(context.Background(), "Alice", "alice", strings.Repeat("a", 73))
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("Register() error = %v, want validation", err)
	}
	if apperr.Status(err) != http.StatusBadRequest {
		t.Fatalf("Status() = %d, want 400", apperr.Status(err))
	}
	if _, ok := users.byUsername["alice"]; ok {
		t.Fatalf("user stored despite rejected password")
	}

	if _, err := creds.Register(context.Background(), "Alice", "alice", strings.Repeat("a", 72)); err != nil {
		t.Fatalf("Register() 72-byte password unexpected error: %v", err)
	}
}
