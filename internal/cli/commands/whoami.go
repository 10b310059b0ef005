package commands

import (
	"time"

	"github.com/culinarycompanion/culinary/internal/cli/output"
	"github.com/culinarycompanion/culinary/internal/cli/tokenstore"
	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/cobra"
)

type whoami struct {
	Username     string     `json:"username" yaml:"username"`
	FullName     string     `json:"fullName" yaml:"fullName"`
	Status       string     `json:"status" yaml:"status"`
	TokenExpires *time.Time `json:"tokenExpires,omitempty" yaml:"tokenExpires,omitempty"`
}

func (w whoami) Table() *output.Table {
	t := &output.Table{Headers: []string{"FIELD", "VALUE"}}
	t.AddRow("Username", w.Username)
	t.AddRow("Full name", w.FullName)
	t.AddRow("Status", w.Status)
	if w.TokenExpires != nil {
		t.AddRow("Token expires", w.TokenExpires.Local().Format(time.RFC1123))
	}
	return t
}

// NewWhoamiCmd creates the whoami command
func NewWhoamiCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		RunE: func(cmd *cobra.Command, args []string) error {
			current := app.Session.Current()
			result := whoami{
				Username: current.Username,
				FullName: current.FullName,
				Status:   current.Status.String(),
			}

			token, ok, err := app.Store.Get(tokenstore.KeyToken)
			if err == nil && ok {
				result.TokenExpires = tokenExpiry(token)
			}

			return app.Printer.Print(result)
		},
	}
}

// tokenExpiry reads the exp claim without verifying the signature. The
// backend is the authority on validity; this is informational only.
func tokenExpiry(token string) *time.Time {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return nil
	}
	return &exp.Time
}
