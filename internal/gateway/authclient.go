// Package gateway implements the API gateway: per-IP rate limiting, bearer
// token authentication backed by a short-TTL cache, and reverse proxying to
// the backing services.
package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// ErrTokenRejected is returned when the auth service refuses a token.
var ErrTokenRejected = errors.New("token rejected by auth service")

// Identity is the validated user behind a bearer token, as reported by the
// auth service's validate endpoint.
type Identity struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// AuthClient asks the auth service whether a bearer token is valid.
type AuthClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewAuthClient creates a validation client with the given request timeout.
func NewAuthClient(baseURL string, timeout time.Duration) *AuthClient {
	return &AuthClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Validate presents the token to the auth service. Returns ErrTokenRejected
// when the service answers 401/403; any other non-200 is an upstream error.
func (c *AuthClient) Validate(ctx context.Context, token string) (*Identity, error) {
	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodGet,
		c.baseURL+"/api/auth/validate",
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to build validation request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("auth service unreachable: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch resp.StatusCode {
	case http.StatusOK:
		var identity Identity
		if err := json.NewDecoder(resp.Body).Decode(&identity); err != nil {
			return nil, fmt.Errorf("failed to decode validation response: %w", err)
		}
		return &identity, nil
	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, ErrTokenRejected
	default:
		return nil, fmt.Errorf("auth service returned status %d", resp.StatusCode)
	}
}
