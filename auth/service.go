package auth

import (
	"context"
	"errors"
	"log"

	"github.com/vyshnavipusrala/backend/apperror"
	"github.com/vyshnavipusrala/backend/config"
)

// AuthService orchestrates registration and login over the credential store,
// the password hasher, and the token codec.
type AuthService struct {
	store UserStore
	codec *TokenCodec
	cfg   config.AuthConfig
}

// NewAuthService creates a new AuthService.
func NewAuthService(store UserStore, codec *TokenCodec, cfg config.AuthConfig) *AuthService {
	return &AuthService{
		store: store,
		codec: codec,
		cfg:   cfg,
	}
}

// LoginResult carries the issued session token alongside the authenticated
// user. The handler decides how the token is transported (cookie).
type LoginResult struct {
	Token string
	User  *User
}

// Register creates a new user with a bcrypt-hashed password.
// A duplicate username is a validation failure, not a fault: the first user
// remains unchanged and the caller gets a 400.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*User, error) {
	hashedPassword, err := HashPassword(req.Password, s.cfg.BcryptCost)
	if err != nil {
		return nil, apperror.NewInternalError("failed to hash password", err)
	}

	user, err := s.store.Create(ctx, req.Username, hashedPassword)
	if err != nil {
		if errors.Is(err, ErrUsernameTaken) {
			return nil, apperror.NewValidationError("username already taken", nil)
		}
		return nil, apperror.NewDatabaseError("failed to create user", err)
	}
	return user, nil
}

// Login authenticates a user and issues a session token.
// An unknown username and a wrong password produce the identical
// "wrong credentials" outcome so a caller cannot probe which usernames exist.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	user, err := s.store.FindByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, apperror.NewValidationError("wrong credentials", nil)
		}
		log.Printf("database error looking up user during login: %v", err)
		return nil, apperror.NewDatabaseError("failed to get user", err)
	}

	if !CheckPassword(req.Password, user.HashedPassword) {
		return nil, apperror.NewValidationError("wrong credentials", nil)
	}

	token, err := s.codec.Issue(user.Username, user.ID)
	if err != nil {
		// Signing should not normally fail; it indicates secret misconfiguration.
		return nil, apperror.NewInternalError("failed to sign token", err)
	}

	return &LoginResult{Token: token, User: user}, nil
}
