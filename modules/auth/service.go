package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/example/task-tracker/domain/identity"
	"github.com/jaevor/go-nanoid"
)

// ErrEmailRequired is returned when a sign-in or sign-up request carries no email.
var ErrEmailRequired = errors.New("email is required")

// userIDSuffixLen is the length of the random numeric suffix appended to
// derived user ids.
const userIDSuffixLen = 6

// AuthService issues identity tokens. Credentials are accepted as-is: no
// accounts are stored and no passwords are checked. The only contract is the
// signed token in the response.
type AuthService struct {
	jwt       *JWTManager
	newSuffix func() string
}

// NewAuthService creates a new AuthService.
func NewAuthService(jwt *JWTManager) (*AuthService, error) {
	suffix, err := nanoid.CustomASCII("0123456789", userIDSuffixLen)
	if err != nil {
		return nil, fmt.Errorf("failed to create id generator: %w", err)
	}
	return &AuthService{
		jwt:       jwt,
		newSuffix: suffix,
	}, nil
}

// SignIn accepts any credentials and returns a derived user plus a signed token.
func (s *AuthService) SignIn(_ context.Context, email, _ string) (*identity.User, string, error) {
	return s.issue(email, "")
}

// SignUp accepts any credentials and returns a derived user plus a signed token.
func (s *AuthService) SignUp(_ context.Context, email, _, name string) (*identity.User, string, error) {
	return s.issue(email, name)
}

func (s *AuthService) issue(email, name string) (*identity.User, string, error) {
	if email == "" {
		return nil, "", ErrEmailRequired
	}

	localPart := email
	if at := strings.Index(email, "@"); at >= 0 {
		localPart = email[:at]
	}
	if name == "" {
		name = localPart
	}

	user := &identity.User{
		ID:    localPart + "-" + s.newSuffix(),
		Email: email,
		Name:  name,
	}

	token, err := s.jwt.Generate(user.ID, user.Email)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}

	return user, token, nil
}

// ValidateToken verifies an access token and returns the caller's claims.
func (s *AuthService) ValidateToken(_ context.Context, token string) (*identity.Claims, error) {
	claims, err := s.jwt.Validate(token)
	if err != nil {
		return nil, err
	}

	return &identity.Claims{
		UserID: claims.Subject,
		Email:  claims.Email,
	}, nil
}
