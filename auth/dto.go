// This file defines the request/response payloads of the auth endpoints.
package auth

// RegisterRequest represents the registration request payload.
type RegisterRequest struct {
	Username string `json:"username" example:"newuser"`
	Password string `json:"password" example:"strongpassword123"`
}

// LoginRequest represents the login request payload.
type LoginRequest struct {
	Username string `json:"username" example:"newuser"`
	Password string `json:"password" example:"strongpassword123"`
}

// LoginResponse is returned on successful login. The session token itself
// travels in the `token` cookie, not in the body.
type LoginResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}
