// Package auth wraps the remote authentication oracle.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bankapp/transfer_service/pkg/logger"
)

// ErrUnavailable marks transport-level failures talking to the auth service:
// connection refused, timeout, non-200 status, malformed body. It is distinct
// from a definite "not authenticated" answer.
var ErrUnavailable = errors.New("auth service unavailable")

// Gateway is an HTTP client for the auth oracle. No retries are performed at
// this layer; callers decide.
type Gateway struct {
	client *http.Client
	base   *url.URL
	log    *logger.Logger
}

// NewGateway constructs a gateway for the given base URL.
func NewGateway(client *http.Client, baseURL string, log *logger.Logger) (*Gateway, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, fmt.Errorf("auth base URL required")
	}
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse auth base URL: %w", err)
	}
	if client == nil {
		client = &http.Client{Timeout: 5 * time.Second}
	}
	if log == nil {
		log = logger.NewDefault("auth-gateway")
	}
	return &Gateway{client: client, base: parsed, log: log}, nil
}

// IsAuthenticated asks the oracle whether the current caller is logged in.
func (g *Gateway) IsAuthenticated(ctx context.Context) (bool, error) {
	body, err := g.get(ctx, "/auth/isLogged")
	if err != nil {
		return false, err
	}

	var logged bool
	if err := json.Unmarshal(body, &logged); err != nil {
		return false, fmt.Errorf("%w: decode isLogged response: %v", ErrUnavailable, err)
	}
	return logged, nil
}

// CurrentUser asks the oracle for the current caller's username.
func (g *Gateway) CurrentUser(ctx context.Context) (string, error) {
	body, err := g.get(ctx, "/auth/loggedUser")
	if err != nil {
		return "", err
	}

	user := strings.TrimSpace(strings.Trim(strings.TrimSpace(string(body)), `"`))
	if user == "" {
		return "", fmt.Errorf("%w: empty loggedUser response", ErrUnavailable)
	}
	return user, nil
}

// Register registers a user with the auth service. Used by test-data seeding;
// best effort from the caller's point of view.
func (g *Gateway) Register(ctx context.Context, fullName, phone, username, password string) error {
	endpoint := g.resolve("/auth/register")
	q := endpoint.Query()
	q.Set("fullName", fullName)
	q.Set("phone", phone)
	q.Set("username", username)
	q.Set("password", password)
	endpoint.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint.String(), nil)
	if err != nil {
		return fmt.Errorf("build register request: %w", err)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: register: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: register status %d", ErrUnavailable, resp.StatusCode)
	}
	return nil
}

func (g *Gateway) get(ctx context.Context, path string) ([]byte, error) {
	endpoint := g.resolve(path)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build auth request: %w", err)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d from %s", ErrUnavailable, resp.StatusCode, path)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", ErrUnavailable, err)
	}
	return body, nil
}

func (g *Gateway) resolve(path string) url.URL {
	endpoint := *g.base
	endpoint.Path = strings.TrimRight(endpoint.Path, "/") + path
	return endpoint
}
