// Package identity talks to the external identity provider that issues the
// bearer tokens the Culinary Companion API accepts.
package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

var (
	// ErrInvalidCredentials is returned when the provider rejects an email/password pair
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrEmailExists is returned when signing up with an email that is already registered
	ErrEmailExists = errors.New("an account with this email already exists")
	// ErrNotConfigured is returned when no provider API key is configured
	ErrNotConfigured = errors.New("identity provider is not configured (set CULINARY_IDENTITY_API_KEY)")
)

// Credential is what a successful sign-in yields
type Credential struct {
	Token    string
	Username string // the account email
}

// Provider signs users in and out
type Provider interface {
	SignIn(ctx context.Context, email, password string) (*Credential, error)
	SignUp(ctx context.Context, email, password string) (*Credential, error)
	SignOut(ctx context.Context) error
}

// Toolkit is a Provider backed by the Identity Toolkit REST API
type Toolkit struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewToolkit creates a Toolkit provider
func NewToolkit(baseURL, apiKey string) *Toolkit {
	return &Toolkit{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// SetHTTPClient sets a custom HTTP client
func (t *Toolkit) SetHTTPClient(httpClient *http.Client) {
	t.httpClient = httpClient
}

type passwordRequest struct {
	Email             string `json:"email"`
	Password          string `json:"password"`
	ReturnSecureToken bool   `json:"returnSecureToken"`
}

type tokenResponse struct {
	IDToken string `json:"idToken"`
	Email   string `json:"email"`
}

type errorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// SignIn exchanges an email and password for an ID token
func (t *Toolkit) SignIn(ctx context.Context, email, password string) (*Credential, error) {
	return t.exchange(ctx, "accounts:signInWithPassword", email, password)
}

// SignUp registers a new account and returns its first ID token
func (t *Toolkit) SignUp(ctx context.Context, email, password string) (*Credential, error) {
	return t.exchange(ctx, "accounts:signUp", email, password)
}

// SignOut is local for this provider: ID tokens are bearer tokens and
// forgetting them is all there is to do.
func (t *Toolkit) SignOut(ctx context.Context) error {
	return ctx.Err()
}

func (t *Toolkit) exchange(ctx context.Context, method, email, password string) (*Credential, error) {
	if t.apiKey == "" {
		return nil, ErrNotConfigured
	}

	jsonData, err := json.Marshal(passwordRequest{
		Email:             email,
		Password:          password,
		ReturnSecureToken: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/%s?key=%s", t.baseURL, method, url.QueryEscape(t.apiKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, providerError(resp.StatusCode, body)
	}

	var tokenResp tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tokenResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if tokenResp.IDToken == "" {
		return nil, fmt.Errorf("identity provider returned no token")
	}

	username := tokenResp.Email
	if username == "" {
		username = email
	}
	return &Credential{Token: tokenResp.IDToken, Username: username}, nil
}

// providerError maps the provider's error codes onto sentinel errors
func providerError(status int, body []byte) error {
	var errResp errorResponse
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error.Message != "" {
		code := errResp.Error.Message
		// Messages look like "WEAK_PASSWORD : Password should be at least 6 characters"
		if i := strings.Index(code, " "); i > 0 {
			code = code[:i]
		}
		switch code {
		case "EMAIL_NOT_FOUND", "INVALID_PASSWORD", "INVALID_LOGIN_CREDENTIALS", "USER_DISABLED":
			return ErrInvalidCredentials
		case "EMAIL_EXISTS":
			return ErrEmailExists
		}
		return fmt.Errorf("identity provider error (status %d): %s", status, errResp.Error.Message)
	}
	return fmt.Errorf("identity provider error (status %d): %s", status, strings.TrimSpace(string(body)))
}
