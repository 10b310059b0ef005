package commands

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"
	"syscall"

	"github.com/culinarycompanion/culinary/internal/cli/client"
	"github.com/culinarycompanion/culinary/internal/cli/form"
	"github.com/culinarycompanion/culinary/internal/cli/gate"
	"github.com/culinarycompanion/culinary/internal/cli/identity"
	"github.com/culinarycompanion/culinary/internal/cli/output"
	"github.com/culinarycompanion/culinary/internal/cli/session"
	"github.com/culinarycompanion/culinary/internal/cli/tokenstore"
	"github.com/culinarycompanion/culinary/internal/config"
	"github.com/culinarycompanion/culinary/internal/logger"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// Annotation marking commands that require a signed-in user
const annotationAuth = "culinary/auth"

// Deps lets callers replace the pieces the CLI would otherwise build from
// configuration. Zero values select the production implementation.
type Deps struct {
	Config       *config.Config
	Store        tokenstore.Store
	Identity     identity.Provider
	HTTPClient   *http.Client
	Prompter     form.Prompter
	Interactive  func() bool
	ReadPassword func(prompt string) (string, error)
	Version      string
}

// Flags holds the global flag values
type Flags struct {
	APIURL   string
	Output   string
	LogLevel string
}

// App is shared by every command of one invocation
type App struct {
	deps  Deps
	Flags Flags

	Config   *config.Config
	Log      zerolog.Logger
	Store    tokenstore.Store
	API      *client.Client
	Identity identity.Provider
	Session  *session.Manager
	Printer  *output.Printer
	Prompter form.Prompter

	gate      *gate.Gate
	hintOnce  sync.Once
	errOut    io.Writer
	bootstrap bool
}

// NewApp creates an App. Dependencies are resolved in Setup.
func NewApp(deps Deps) *App {
	if deps.Version == "" {
		deps.Version = "dev"
	}
	a := &App{deps: deps, errOut: os.Stderr, Log: zerolog.Nop()}
	a.gate = gate.New(a.source, session.NavigatorFunc(a.redirectToLogin),
		gate.WithPlaceholder(func(cmd *cobra.Command) {
			a.Log.Debug().Str("command", cmd.CommandPath()).Msg("Waiting for session")
		}))
	return a
}

// Version returns the CLI version
func (a *App) Version() string {
	return a.deps.Version
}

// Setup loads configuration and wires the client, store, identity
// provider and session manager for cmd. Protected commands also start
// restoring the stored session.
func (a *App) Setup(cmd *cobra.Command) error {
	a.errOut = cmd.ErrOrStderr()

	cfg := a.deps.Config
	if cfg == nil {
		loaded, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}
	if a.Flags.APIURL != "" {
		cfg.API.URL = a.Flags.APIURL
	}
	if a.Flags.LogLevel != "" {
		cfg.Logging.Level = a.Flags.LogLevel
	}
	a.Config = cfg

	logger.InitWithWriter(cfg.Logging.Level, cfg.Logging.Format, a.errOut)
	a.Log = logger.GetLogger()

	format, err := output.ParseFormat(a.Flags.Output)
	if err != nil {
		return err
	}
	a.Printer = output.New(cmd.OutOrStdout(), format)

	store, err := a.tokenStore(cfg)
	if err != nil {
		return err
	}
	a.Store = store

	a.API = client.New(cfg.API.URL,
		client.WithTimeout(cfg.API.Timeout),
		client.WithUserAgent("culinary-cli/"+a.deps.Version))
	if a.deps.HTTPClient != nil {
		a.API.SetHTTPClient(a.deps.HTTPClient)
	}

	a.Identity = a.deps.Identity
	if a.Identity == nil {
		toolkit := identity.NewToolkit(cfg.Identity.URL, cfg.Identity.APIKey)
		if a.deps.HTTPClient != nil {
			toolkit.SetHTTPClient(a.deps.HTTPClient)
		}
		a.Identity = toolkit
	}

	a.Prompter = a.deps.Prompter
	if a.Prompter == nil {
		a.Prompter = form.Interactive{}
	}

	a.Session = session.NewManager(a.API, a.Store,
		session.WithSignOuter(a.Identity),
		session.WithNavigator(session.NavigatorFunc(a.redirectToLogin)),
		session.WithLogger(a.Log))

	if cmd.Annotations[annotationAuth] == "required" {
		a.bootstrap = true
		a.Session.Start(cmd.Context())
	}

	a.Log.Debug().
		Str("api_url", cfg.API.URL).
		Str("store", cfg.Store.Backend).
		Bool("bootstrap", a.bootstrap).
		Msg("CLI initialized")
	return nil
}

func (a *App) tokenStore(cfg *config.Config) (tokenstore.Store, error) {
	if a.deps.Store != nil {
		return a.deps.Store, nil
	}

	switch cfg.Store.Backend {
	case config.StoreFile:
		path := cfg.Store.Path
		if path == "" {
			p, err := tokenstore.DefaultPath()
			if err != nil {
				return nil, err
			}
			path = p
		}
		return tokenstore.NewFile(path), nil
	default:
		return tokenstore.NewKeyring(tokenstore.DefaultService), nil
	}
}

// source feeds the gate. It stays nil until Setup has run.
func (a *App) source() gate.Source {
	if a.Session == nil {
		return nil
	}
	return a.Session
}

// redirectToLogin prints the sign-in hint once per invocation
func (a *App) redirectToLogin() {
	a.hintOnce.Do(func() {
		fmt.Fprintln(a.errOut, "→ Run 'culinary login' to sign in")
	})
}

// Protected marks cmd as requiring a signed-in user and gates its RunE
func (a *App) Protected(cmd *cobra.Command) *cobra.Command {
	if cmd.Annotations == nil {
		cmd.Annotations = map[string]string{}
	}
	cmd.Annotations[annotationAuth] = "required"
	if cmd.RunE != nil {
		cmd.RunE = a.gate.Wrap(cmd.RunE)
	}
	for _, sub := range cmd.Commands() {
		a.Protected(sub)
	}
	return cmd
}

// Username is the signed-in user. Only valid inside protected commands.
func (a *App) Username() string {
	return a.Session.Current().Username
}

func (a *App) interactive() bool {
	if a.deps.Interactive != nil {
		return a.deps.Interactive()
	}
	return term.IsTerminal(int(syscall.Stdin))
}

func (a *App) readPassword(prompt string) (string, error) {
	if a.deps.ReadPassword != nil {
		return a.deps.ReadPassword(prompt)
	}
	fmt.Fprint(a.errOut, prompt)
	b, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(a.errOut)
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return string(b), nil
}

// printf writes human-readable progress unless structured output was requested
func (a *App) printf(cmd *cobra.Command, format string, args ...any) {
	if a.Printer != nil && a.Printer.Structured() {
		return
	}
	fmt.Fprintf(cmd.OutOrStdout(), format, args...)
}
