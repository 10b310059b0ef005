// Package session owns the CLI's belief about who is signed in.
//
// A Manager restores the session from the token store, validates it against
// the API, and supplies the bearer token to its API client through a single
// authorizer. Memory and the token store are always updated together, so a
// later invocation never resurrects an identity this one discarded.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/culinarycompanion/culinary/internal/cli/client"
	"github.com/culinarycompanion/culinary/internal/cli/tokenstore"
	"github.com/rs/zerolog"
)

var (
	// ErrInvalidCredential is returned by Login when username or token is empty
	ErrInvalidCredential = errors.New("username and token are required")
	// ErrSuperseded is returned by Login when a Logout or another Login
	// replaced the token while it was being validated
	ErrSuperseded = errors.New("session changed during validation")
)

// Status is the authentication status of a session
type Status int

const (
	// StatusUnknown means bootstrap has not resolved yet
	StatusUnknown Status = iota
	// StatusAuthenticated means a token was validated by the backend
	StatusAuthenticated
	// StatusUnauthenticated means there is no usable credential
	StatusUnauthenticated
)

func (s Status) String() string {
	switch s {
	case StatusAuthenticated:
		return "authenticated"
	case StatusUnauthenticated:
		return "unauthenticated"
	default:
		return "unknown"
	}
}

// MarshalText encodes the status by name in JSON and YAML output
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Session is a snapshot of the current identity. Empty strings mean null.
type Session struct {
	Status   Status `json:"status" yaml:"status"`
	Username string `json:"username,omitempty" yaml:"username,omitempty"`
	FullName string `json:"fullName,omitempty" yaml:"fullName,omitempty"`
}

// IsAuthenticated reports whether the session is authenticated
func (s Session) IsAuthenticated() bool {
	return s.Status == StatusAuthenticated
}

// SignOuter ends the session at the identity provider
type SignOuter interface {
	SignOut(ctx context.Context) error
}

// Navigator sends the user to the login entry point
type Navigator interface {
	RedirectToLogin()
}

// NavigatorFunc adapts a function to Navigator
type NavigatorFunc func()

func (f NavigatorFunc) RedirectToLogin() { f() }

// Manager holds the session state. It is safe for concurrent use.
type Manager struct {
	api       *client.Client
	store     tokenstore.Store
	signOut   SignOuter
	navigator Navigator
	log       zerolog.Logger

	// commit serializes store writes with the memory change they belong to
	commit sync.Mutex

	mu      sync.RWMutex
	token   string
	current Session

	resolved    chan struct{}
	resolveOnce sync.Once
}

// Option configures a Manager
type Option func(*Manager)

// WithSignOuter sets the identity provider sign-out called by Logout
func WithSignOuter(s SignOuter) Option {
	return func(m *Manager) { m.signOut = s }
}

// WithNavigator sets where Logout sends the user
func WithNavigator(n Navigator) Option {
	return func(m *Manager) { m.navigator = n }
}

// WithLogger sets the logger
func WithLogger(l zerolog.Logger) Option {
	return func(m *Manager) { m.log = l }
}

// NewManager creates a Manager and installs its token as api's authorizer.
// The manager should be the only writer of api's authorizer.
func NewManager(api *client.Client, store tokenstore.Store, opts ...Option) *Manager {
	m := &Manager{
		api:      api,
		store:    store,
		log:      zerolog.Nop(),
		resolved: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(m)
	}
	api.SetAuthorizer(m.bearerToken)
	return m
}

// API returns the client the manager authorizes
func (m *Manager) API() *client.Client {
	return m.api
}

func (m *Manager) bearerToken() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token
}

// Current returns the session without waiting for bootstrap
func (m *Manager) Current() Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// Await blocks until the status is no longer unknown
func (m *Manager) Await(ctx context.Context) (Session, error) {
	select {
	case <-m.resolved:
		return m.Current(), nil
	case <-ctx.Done():
		return Session{Status: StatusUnknown}, ctx.Err()
	}
}

func (m *Manager) resolve() {
	m.resolveOnce.Do(func() { close(m.resolved) })
}

// Login validates token by fetching username's profile. On success the
// session is authenticated and persisted; on any failure Logout runs and the
// cause is returned. If a Logout or another Login changes the token while
// validation is in flight, Login returns ErrSuperseded and leaves the newer
// state untouched.
func (m *Manager) Login(ctx context.Context, username, token string) error {
	if username == "" || token == "" {
		m.Logout(ctx)
		return ErrInvalidCredential
	}

	m.mu.Lock()
	previous := m.token
	m.token = token
	m.mu.Unlock()

	user, err := m.api.GetUser(ctx, username)
	if err != nil && ctx.Err() != nil {
		// Interrupted rather than rejected: keep the stored credential and
		// whatever session was there before
		m.mu.Lock()
		if m.token == token {
			m.token = previous
		}
		m.mu.Unlock()
		return fmt.Errorf("session validation interrupted: %w", ctx.Err())
	}
	if err != nil && !m.holds(token) {
		return ErrSuperseded
	}
	if err != nil {
		m.log.Debug().Err(err).Str("username", username).Msg("session validation failed")
		m.Logout(ctx)
		return fmt.Errorf("failed to validate session: %w", err)
	}

	next := Session{
		Status:   StatusAuthenticated,
		Username: user.Name(),
		FullName: user.FullName,
	}
	if next.Username == "" {
		next.Username = username
	}

	m.commit.Lock()
	if !m.holds(token) {
		m.commit.Unlock()
		m.log.Debug().Str("username", next.Username).Msg("session validation superseded")
		return ErrSuperseded
	}
	if err := m.persist(token, next); err != nil {
		m.commit.Unlock()
		m.log.Warn().Err(err).Msg("failed to persist session")
		m.Logout(ctx)
		return fmt.Errorf("failed to save session: %w", err)
	}
	m.mu.Lock()
	m.current = next
	m.mu.Unlock()
	m.commit.Unlock()
	m.resolve()

	m.log.Debug().Str("username", next.Username).Msg("session authenticated")
	return nil
}

// holds reports whether token is still the current token
func (m *Manager) holds(token string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token == token
}

func (m *Manager) persist(token string, s Session) error {
	values := []struct{ key, value string }{
		{tokenstore.KeyToken, token},
		{tokenstore.KeyUsername, s.Username},
		{tokenstore.KeyFullName, s.FullName},
		{tokenstore.KeyIsAuth, "true"},
	}
	for _, kv := range values {
		if err := m.store.Set(kv.key, kv.value); err != nil {
			return err
		}
	}
	return nil
}

// Logout signs out at the identity provider, forgets the session in memory
// and in the store, and redirects to login. It never fails and may be called
// any number of times.
func (m *Manager) Logout(ctx context.Context) {
	if m.signOut != nil {
		if err := m.signOut.SignOut(ctx); err != nil {
			m.log.Debug().Err(err).Msg("identity provider sign-out failed")
		}
	}

	m.reset()

	if m.navigator != nil {
		m.navigator.RedirectToLogin()
	}
}

// reset clears memory and store to unauthenticated
func (m *Manager) reset() {
	m.commit.Lock()
	defer m.commit.Unlock()

	m.mu.Lock()
	m.token = ""
	m.current = Session{Status: StatusUnauthenticated}
	m.mu.Unlock()

	if err := tokenstore.Clear(m.store); err != nil {
		m.log.Warn().Err(err).Msg("failed to clear stored credentials")
	}
	m.resolve()
}

// Bootstrap restores the session from the store. Without a stored token the
// session becomes unauthenticated with no network call and no redirect;
// otherwise the stored credential is replayed through Login.
func (m *Manager) Bootstrap(ctx context.Context) error {
	token, ok, err := m.store.Get(tokenstore.KeyToken)
	if err != nil {
		m.log.Warn().Err(err).Msg("failed to read stored token")
	}
	if err != nil || !ok || token == "" {
		m.reset()
		return nil
	}

	username, _, err := m.store.Get(tokenstore.KeyUsername)
	if err != nil {
		m.log.Warn().Err(err).Msg("failed to read stored username")
	}
	return m.Login(ctx, username, token)
}

// Start runs Bootstrap in the background. Callers wait with Await.
func (m *Manager) Start(ctx context.Context) {
	go func() {
		if err := m.Bootstrap(ctx); err != nil {
			m.log.Debug().Err(err).Msg("stored session is no longer valid")
		}
	}()
}
