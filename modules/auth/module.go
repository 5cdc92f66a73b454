package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// AuthModule provides token issuance and verification services.
type AuthModule struct {
	service *AuthService
}

// Compile-time interface checks.
var _ mono.Module = (*AuthModule)(nil)
var _ mono.ServiceProviderModule = (*AuthModule)(nil)
var _ mono.HealthCheckableModule = (*AuthModule)(nil)

// NewModule creates a new AuthModule.
func NewModule() *AuthModule {
	return &AuthModule{}
}

// Name returns the module name.
func (m *AuthModule) Name() string {
	return "auth"
}

// Start initializes the auth module.
func (m *AuthModule) Start(_ context.Context) error {
	jwtConfig := loadJWTConfig()
	jwtManager := NewJWTManager(jwtConfig)

	service, err := NewAuthService(jwtManager)
	if err != nil {
		return fmt.Errorf("failed to create auth service: %w", err)
	}
	m.service = service

	log.Printf("[auth] Module started (token TTL: %s)", jwtConfig.TokenDuration)
	return nil
}

// Stop shuts down the module.
func (m *AuthModule) Stop(_ context.Context) error {
	log.Println("[auth] Module stopped")
	return nil
}

// Health returns the health status of the module.
func (m *AuthModule) Health(_ context.Context) mono.HealthStatus {
	if m.service == nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: "service not initialized",
		}
	}
	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
	}
}

// RegisterServices registers request-reply services in the service container.
func (m *AuthModule) RegisterServices(container mono.ServiceContainer) error {
	if err := helper.RegisterTypedRequestReplyService(
		container, "signin", json.Unmarshal, json.Marshal, m.handleSignIn,
	); err != nil {
		return fmt.Errorf("failed to register signin service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "signup", json.Unmarshal, json.Marshal, m.handleSignUp,
	); err != nil {
		return fmt.Errorf("failed to register signup service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "validate-token", json.Unmarshal, json.Marshal, m.handleValidateToken,
	); err != nil {
		return fmt.Errorf("failed to register validate-token service: %w", err)
	}

	log.Printf("[auth] Registered services: signin, signup, validate-token")
	return nil
}

// handleSignIn handles sign-in requests.
func (m *AuthModule) handleSignIn(ctx context.Context, req SignInRequest, _ *mono.Msg) (AuthResponse, error) {
	user, token, err := m.service.SignIn(ctx, req.Email, req.Password)
	if err != nil {
		return AuthResponse{}, err
	}

	return AuthResponse{
		Success: true,
		User:    *user,
		Token:   token,
	}, nil
}

// handleSignUp handles sign-up requests.
func (m *AuthModule) handleSignUp(ctx context.Context, req SignUpRequest, _ *mono.Msg) (AuthResponse, error) {
	user, token, err := m.service.SignUp(ctx, req.Email, req.Password, req.Name)
	if err != nil {
		return AuthResponse{}, err
	}

	return AuthResponse{
		Success: true,
		User:    *user,
		Token:   token,
	}, nil
}

// handleValidateToken handles token validation. Verification failures are
// reported in the response body, not as errors, so callers can distinguish
// an invalid token from a transport failure.
func (m *AuthModule) handleValidateToken(ctx context.Context, req ValidateTokenRequest, _ *mono.Msg) (ValidateTokenResponse, error) {
	claims, err := m.service.ValidateToken(ctx, req.Token)
	if err != nil {
		errMsg := "invalid token"
		if errors.Is(err, ErrExpiredToken) {
			errMsg = "token expired"
		}
		return ValidateTokenResponse{
			Valid: false,
			Error: errMsg,
		}, nil
	}

	return ValidateTokenResponse{
		Valid:  true,
		UserID: claims.UserID,
		Email:  claims.Email,
	}, nil
}

// loadJWTConfig loads JWT configuration from environment variables.
func loadJWTConfig() JWTConfig {
	config := DefaultJWTConfig()

	if secret := os.Getenv("JWT_SECRET_KEY"); secret != "" {
		config.SecretKey = secret
	}

	if issuer := os.Getenv("JWT_ISSUER"); issuer != "" {
		config.Issuer = issuer
	}

	if ttl := os.Getenv("JWT_TOKEN_TTL"); ttl != "" {
		if d, err := time.ParseDuration(ttl); err == nil {
			config.TokenDuration = d
		} else {
			log.Printf("[auth] Invalid JWT_TOKEN_TTL %q, using default %s", ttl, config.TokenDuration)
		}
	}

	return config
}
