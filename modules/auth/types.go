package auth

import (
	"github.com/example/task-tracker/domain/identity"
)

// SignInRequest represents a sign-in request.
type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignUpRequest represents a sign-up request.
type SignUpRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// AuthResponse represents a successful sign-in or sign-up response.
type AuthResponse struct {
	Success bool          `json:"success"`
	User    identity.User `json:"user"`
	Token   string        `json:"token"`
}

// ValidateTokenRequest represents a token validation request.
type ValidateTokenRequest struct {
	Token string `json:"token"`
}

// ValidateTokenResponse represents a token validation response.
type ValidateTokenResponse struct {
	Valid  bool   `json:"valid"`
	UserID string `json:"user_id,omitempty"`
	Email  string `json:"email,omitempty"`
	Error  string `json:"error,omitempty"`
}
