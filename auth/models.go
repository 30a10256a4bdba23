// Package auth is responsible for authentication and authorization logic:
// user registration, login, session-token issuance and verification, and the
// middleware gate protecting mutating routes.
package auth

import "time"

// User represents a user in the system.
// The json:"-" tag on HashedPassword keeps the stored hash out of every API
// response.
type User struct {
	ID             int64     `json:"id"`
	Username       string    `json:"username"`
	HashedPassword string    `json:"-"`
	CreatedAt      time.Time `json:"created_at"`
}
