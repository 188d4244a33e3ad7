package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ayush/movie-reviews/internal/apperr"
	"github.com/ayush/movie-reviews/internal/models"
)

const pgUniqueViolation = "23505"

// PostgresUsers keeps user records in PostgreSQL. It is used instead of
// MongoUsers when a POSTGRES_DSN is configured.
type PostgresUsers struct {
	pool *pgxpool.Pool
}

func NewPostgresUsers(pool *pgxpool.Pool) *PostgresUsers {
	return &PostgresUsers{pool: pool}
}

// Migrate creates the users table if it doesn't exist.
func (s *PostgresUsers) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS users (
			id         UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			name       VARCHAR(255) NOT NULL DEFAULT '',
			username   VARCHAR(255) UNIQUE NOT NULL,
			password   VARCHAR(255) NOT NULL,
			created_at TIMESTAMPTZ  DEFAULT NOW()
		)
	`)
	if err != nil {
		return fmt.Errorf("postgres migrate users: %w", err)
	}
	return nil
}

func (s *PostgresUsers) Insert(ctx context.Context, user *models.User) error {
	err := s.pool.QueryRow(ctx,
		`INSERT INTO users (name, username, password)
		 VALUES ($1, $2, $3)
		 RETURNING id::text`,
		user.Name, user.Username, user.Password,
	).Scan(&user.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return apperr.Conflict("A user with that username already exists.")
		}
		return apperr.Storage("create user", fmt.Errorf("postgres insert: %w", err))
	}
	return nil
}

func (s *PostgresUsers) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	var u models.User
	err := s.pool.QueryRow(ctx,
		`SELECT id::text, name, username, password FROM users WHERE username = $1`, username,
	).Scan(&u.ID, &u.Name, &u.Username, &u.Password)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("user not found")
		}
		return nil, apperr.Storage("find user", fmt.Errorf("postgres select: %w", err))
	}
	return &u, nil
}
