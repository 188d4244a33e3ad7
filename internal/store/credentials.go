package store

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"

	"github.com/ayush/movie-reviews/internal/apperr"
	"github.com/ayush/movie-reviews/internal/models"
)

// UserBackend persists user records. MongoUsers and PostgresUsers implement it.
type UserBackend interface {
	Insert(ctx context.Context, user *models.User) error
	FindByUsername(ctx context.Context, username string) (*models.User, error)
}

// Credentials is the credential store: it hashes passwords on the way in
// and verifies them on the way out, whatever backend holds the records.
type Credentials struct {
	users     UserBackend
	cost      int
	dummyHash []byte
}

// NewCredentials wraps a backend. A cost of 0 means bcrypt.DefaultCost.
func NewCredentials(users UserBackend, cost int) *Credentials {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	// Compared against when the user does not exist so that lookups for
	// unknown usernames take as long as real ones.
	dummy, _ := bcrypt.GenerateFromPassword([]byte("not-a-real-password"), cost)
	return &Credentials{users: users, cost: cost, dummyHash: dummy}
}

// Register creates a user with a bcrypt-hashed password.
func (c *Credentials) Register(ctx context.Context, name, username, password string) (*models.User, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), c.cost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return nil, apperr.Validation("password must be at most 72 bytes")
	}
	if err != nil {
		return nil, apperr.Storage("hash password", err)
	}
	user := &models.User{Name: name, Username: username, Password: string(hashed)}
	if err := c.users.Insert(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Verify returns the user when the password matches its stored hash. An
// unknown username and a wrong password produce the same error.
func (c *Credentials) Verify(ctx context.Context, username, password string) (*models.User, error) {
	user, err := c.users.FindByUsername(ctx, username)
	if err != nil {
		if !apperr.Is(err, apperr.KindNotFound) {
			return nil, err
		}
		_ = bcrypt.CompareHashAndPassword(c.dummyHash, []byte(password))
		return nil, apperr.Unauthorized("Authentication failed.")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, apperr.Unauthorized("Authentication failed.")
	}
	return user, nil
}
