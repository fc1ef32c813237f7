package authclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/jrsteele09/library-session/identity"
	apperrors "github.com/jrsteele09/library-session/internal/errors"
)

// LoginPath is the library API endpoint exchanging credentials for a token.
const LoginPath = "/auth/login"

// Credentials are the email/password pair typed into the login form.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Result is a successful authentication: the opaque token and the profile
// it belongs to.
type Result struct {
	Token    string
	Identity identity.Identity
}

// Authenticator exchanges credentials for a token and user profile.
type Authenticator interface {
	Authenticate(ctx context.Context, creds Credentials) (Result, error)
}

// LoginResponse is the wire shape of a successful login.
type LoginResponse struct {
	Token       string `json:"token"`
	UserID      string `json:"userId"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	Role        string `json:"role"`
}

// ErrorResponse is the wire shape of a failed login.
type ErrorResponse struct {
	Message string `json:"message"`
}

// ServiceError is a non-success reply from the library API.
type ServiceError struct {
	StatusCode int
	Message    string
}

func (e *ServiceError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("auth service returned %d", e.StatusCode)
	}
	return fmt.Sprintf("auth service returned %d: %s", e.StatusCode, e.Message)
}

// HTTPClient calls the library API over HTTP.
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

var _ Authenticator = (*HTTPClient)(nil)

// HTTPClientOption defines a function type to modify the HTTPClient instance.
type HTTPClientOption func(*HTTPClient)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(c *http.Client) HTTPClientOption {
	return func(hc *HTTPClient) {
		hc.httpClient = c
	}
}

// WithTimeout sets the request timeout of the default client.
func WithTimeout(d time.Duration) HTTPClientOption {
	return func(hc *HTTPClient) {
		hc.httpClient.Timeout = d
	}
}

func NewHTTPClient(baseURL string, options ...HTTPClientOption) (*HTTPClient, error) {
	if baseURL == "" {
		return nil, errors.New("[NewHTTPClient] baseURL is required")
	}
	c := &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range options {
		opt(c)
	}
	return c, nil
}

func (c *HTTPClient) Authenticate(ctx context.Context, creds Credentials) (Result, error) {
	body, err := json.Marshal(creds)
	if err != nil {
		return Result{}, apperrors.Wrapf(err, "[Authenticate] marshal")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+LoginPath, bytes.NewReader(body))
	if err != nil {
		return Result{}, apperrors.Wrapf(err, "[Authenticate] new request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("[Authenticate] %w: %v", apperrors.ErrAuthServiceUnavailable, err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return Result{}, apperrors.Wrapf(err, "[Authenticate] read body")
	}

	if resp.StatusCode == http.StatusUnauthorized {
		return Result{}, apperrors.ErrInvalidCredentials
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var errResp ErrorResponse
		_ = json.Unmarshal(payload, &errResp)
		return Result{}, &ServiceError{StatusCode: resp.StatusCode, Message: errResp.Message}
	}

	var lr LoginResponse
	if err := json.Unmarshal(payload, &lr); err != nil {
		return Result{}, apperrors.Wrapf(err, "[Authenticate] decode response")
	}
	if lr.Token == "" || lr.UserID == "" {
		return Result{}, errors.New("[Authenticate] response missing token or userId")
	}

	return Result{
		Token: lr.Token,
		Identity: identity.Identity{
			ID:          lr.UserID,
			Email:       lr.Email,
			DisplayName: lr.DisplayName,
			Role:        identity.Role(lr.Role),
		},
	}, nil
}
