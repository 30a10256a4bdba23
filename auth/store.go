package auth

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// pgUniqueViolation is the PostgreSQL error code for unique constraint violations.
const pgUniqueViolation = "23505"

// Sentinel errors returned by UserStore implementations. The service layer
// maps these onto API error types.
var (
	ErrUserNotFound  = errors.New("user not found")
	ErrUsernameTaken = errors.New("username already taken")
)

// UserStore is the credential store collaborator. Uniqueness of usernames is
// enforced by the store (a unique index in the PostgreSQL implementation);
// callers treat a violation as a normal, recoverable error.
type UserStore interface {
	FindByUsername(ctx context.Context, username string) (*User, error)
	Create(ctx context.Context, username, passwordHash string) (*User, error)
}

// PGUserStore is the PostgreSQL-backed UserStore.
type PGUserStore struct {
	db *pgxpool.Pool
}

// NewPGUserStore creates a PGUserStore on the given pool.
func NewPGUserStore(db *pgxpool.Pool) *PGUserStore {
	return &PGUserStore{db: db}
}

// FindByUsername returns the user with the given username, or ErrUserNotFound.
func (s *PGUserStore) FindByUsername(ctx context.Context, username string) (*User, error) {
	query := `SELECT id, username, password, created_at FROM users WHERE username = $1`

	var user User
	err := s.db.QueryRow(ctx, query, username).Scan(
		&user.ID,
		&user.Username,
		&user.HashedPassword,
		&user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// Create inserts a new user record and returns it with its assigned id.
// A duplicate username surfaces as ErrUsernameTaken.
func (s *PGUserStore) Create(ctx context.Context, username, passwordHash string) (*User, error) {
	query := `INSERT INTO users (username, password)
	          VALUES ($1, $2)
	          RETURNING id, created_at`

	user := &User{
		Username:       username,
		HashedPassword: passwordHash,
	}
	err := s.db.QueryRow(ctx, query, username, passwordHash).Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return nil, ErrUsernameTaken
		}
		return nil, err
	}
	return user, nil
}
