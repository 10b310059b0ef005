package gate

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/culinarycompanion/culinary/internal/cli/session"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSource resolves to final once release is closed
type fakeSource struct {
	current session.Session
	final   session.Session
	release chan struct{}
}

func (f *fakeSource) Current() session.Session { return f.current }

func (f *fakeSource) Await(ctx context.Context) (session.Session, error) {
	if f.current.Status != session.StatusUnknown {
		return f.current, nil
	}
	select {
	case <-f.release:
		return f.final, nil
	case <-ctx.Done():
		return session.Session{}, ctx.Err()
	}
}

func resolved(s session.Session) *fakeSource {
	return &fakeSource{current: s}
}

type recorder struct {
	runs      int
	args      []string
	redirects int
	shown     int
}

func (r *recorder) gate(src Source) *Gate {
	return New(
		func() Source { return src },
		session.NavigatorFunc(func() { r.redirects++ }),
		WithPlaceholder(func(*cobra.Command) { r.shown++ }),
	)
}

func (r *recorder) run(cmd *cobra.Command, args []string) error {
	r.runs++
	r.args = args
	return nil
}

func command(ctx context.Context) *cobra.Command {
	cmd := &cobra.Command{Use: "test"}
	cmd.SetContext(ctx)
	return cmd
}

func TestDecide(t *testing.T) {
	assert.Equal(t, Placeholder, Decide(session.Session{Status: session.StatusUnknown}))
	assert.Equal(t, Render, Decide(session.Session{Status: session.StatusAuthenticated, Username: "a@b.com"}))
	assert.Equal(t, Redirect, Decide(session.Session{Status: session.StatusUnauthenticated}))
}

func TestWrap_Authenticated(t *testing.T) {
	r := &recorder{}
	src := resolved(session.Session{Status: session.StatusAuthenticated, Username: "a@b.com"})

	err := r.gate(src).Wrap(r.run)(command(context.Background()), []string{"42", "--x"})
	require.NoError(t, err)

	assert.Equal(t, 1, r.runs)
	assert.Equal(t, []string{"42", "--x"}, r.args, "arguments are passed unchanged")
	assert.Zero(t, r.redirects)
	assert.Zero(t, r.shown, "no placeholder once resolved")
}

func TestWrap_PropagatesCommandError(t *testing.T) {
	src := resolved(session.Session{Status: session.StatusAuthenticated})
	boom := errors.New("boom")

	g := New(func() Source { return src }, nil)
	err := g.Wrap(func(*cobra.Command, []string) error { return boom })(command(context.Background()), nil)
	assert.ErrorIs(t, err, boom)
}

func TestWrap_UnauthenticatedNeverRuns(t *testing.T) {
	r := &recorder{}
	src := resolved(session.Session{Status: session.StatusUnauthenticated})
	wrapped := r.gate(src).Wrap(r.run)

	for i := 0; i < 5; i++ {
		err := wrapped(command(context.Background()), nil)
		assert.ErrorIs(t, err, ErrNotAuthenticated)
	}

	assert.Zero(t, r.runs)
	assert.Equal(t, 5, r.redirects)
}

func TestWrap_WaitsForBootstrap(t *testing.T) {
	r := &recorder{}
	src := &fakeSource{
		current: session.Session{Status: session.StatusUnknown},
		final:   session.Session{Status: session.StatusAuthenticated},
		release: make(chan struct{}),
	}

	done := make(chan error, 1)
	go func() {
		done <- r.gate(src).Wrap(r.run)(command(context.Background()), nil)
	}()

	select {
	case <-done:
		t.Fatal("gate returned before the session resolved")
	case <-time.After(20 * time.Millisecond):
	}

	close(src.release)
	require.NoError(t, <-done)
	assert.Equal(t, 1, r.runs)
	assert.Equal(t, 1, r.shown)
}

func TestWrap_BootstrapResolvesUnauthenticated(t *testing.T) {
	r := &recorder{}
	src := &fakeSource{
		current: session.Session{Status: session.StatusUnknown},
		final:   session.Session{Status: session.StatusUnauthenticated},
		release: make(chan struct{}),
	}
	close(src.release)

	err := r.gate(src).Wrap(r.run)(command(context.Background()), nil)
	assert.ErrorIs(t, err, ErrNotAuthenticated)
	assert.Zero(t, r.runs)
	assert.Equal(t, 1, r.redirects)
	assert.Equal(t, 1, r.shown)
}

func TestWrap_CancelledWhileUnknown(t *testing.T) {
	r := &recorder{}
	src := &fakeSource{
		current: session.Session{Status: session.StatusUnknown},
		release: make(chan struct{}),
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := r.gate(src).Wrap(r.run)(command(ctx), nil)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, r.runs)
	assert.Zero(t, r.redirects, "no redirect until the session resolves")
}

func TestWrap_NilContext(t *testing.T) {
	r := &recorder{}
	src := &fakeSource{
		current: session.Session{Status: session.StatusUnknown},
		final:   session.Session{Status: session.StatusAuthenticated},
		release: make(chan struct{}),
	}
	close(src.release)

	err := r.gate(src).Wrap(r.run)(&cobra.Command{}, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, r.runs)
}

func TestWrap_NoSource(t *testing.T) {
	r := &recorder{}
	g := New(func() Source { return nil }, session.NavigatorFunc(func() { r.redirects++ }))

	err := g.Wrap(r.run)(command(context.Background()), nil)
	assert.ErrorIs(t, err, ErrNotAuthenticated)
	assert.Zero(t, r.runs)
	assert.Equal(t, 1, r.redirects)
}
