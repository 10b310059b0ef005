// Package gate keeps protected commands from running without an
// authenticated session.
package gate

import (
	"context"
	"errors"

	"github.com/culinarycompanion/culinary/internal/cli/session"
	"github.com/spf13/cobra"
)

// ErrNotAuthenticated is returned instead of running a protected command
var ErrNotAuthenticated = errors.New("not authenticated. Please run 'culinary login' first")

// Decision is what the gate does for a given session
type Decision int

const (
	// Placeholder shows neutral output while the session is unknown
	Placeholder Decision = iota
	// Render runs the protected command
	Render
	// Redirect sends the user to login without running the command
	Redirect
)

// Decide maps a session snapshot to a gate decision
func Decide(s session.Session) Decision {
	switch s.Status {
	case session.StatusAuthenticated:
		return Render
	case session.StatusUnauthenticated:
		return Redirect
	default:
		return Placeholder
	}
}

// Source provides the session the gate checks
type Source interface {
	Current() session.Session
	Await(ctx context.Context) (session.Session, error)
}

// RunFunc matches cobra's RunE
type RunFunc func(cmd *cobra.Command, args []string) error

// Gate wraps protected commands
type Gate struct {
	source      func() Source
	navigator   session.Navigator
	placeholder func(cmd *cobra.Command)
}

// Option configures a Gate
type Option func(*Gate)

// WithPlaceholder sets what is shown while the session is still unknown
func WithPlaceholder(fn func(cmd *cobra.Command)) Option {
	return func(g *Gate) { g.placeholder = fn }
}

// New creates a gate. source is resolved lazily on every run so the gate can
// be attached to commands before the session manager exists.
func New(source func() Source, navigator session.Navigator, opts ...Option) *Gate {
	g := &Gate{source: source, navigator: navigator}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Wrap returns run guarded by the gate. run receives its original arguments
// unchanged and is never called unless the session is authenticated.
func (g *Gate) Wrap(run RunFunc) RunFunc {
	return func(cmd *cobra.Command, args []string) error {
		src := g.source()
		if src == nil {
			g.redirect()
			return ErrNotAuthenticated
		}

		s := src.Current()
		if Decide(s) == Placeholder {
			if g.placeholder != nil {
				g.placeholder(cmd)
			}
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			var err error
			s, err = src.Await(ctx)
			if err != nil {
				return err
			}
		}

		switch Decide(s) {
		case Render:
			return run(cmd, args)
		case Redirect:
			g.redirect()
			return ErrNotAuthenticated
		default:
			return ErrNotAuthenticated
		}
	}
}

func (g *Gate) redirect() {
	if g.navigator != nil {
		g.navigator.RedirectToLogin()
	}
}
