package app

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/adamwoolhether/teamcity/client"
)

// NewAuthCommand creates the command checking that the configured login
// is accepted.
func NewAuthCommand(opts *GlobalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "auth",
		Short: "Log in and report whether the server accepted it",
		Long: `Log in as guest, or with HTTP basic auth when --user is set, and report
the outcome. Exits with status 2 when the server rejects the login.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.connect(cmd.Context())
			if err != nil {
				return err
			}

			if s.authErr == nil {
				color.New(color.FgGreen).Fprintf(opts.stdout, "%s auth accepted by %s\n", s.mode, s.BaseURL())
				return nil
			}

			var statusErr *client.UnexpectedStatusError
			if !errors.As(s.authErr, &statusErr) {
				return fmt.Errorf("%s auth: %w", s.mode, s.authErr)
			}

			color.New(color.FgYellow, color.Bold).Fprintf(opts.stderr, "%s auth rejected by %s: %d %s\n",
				s.mode, s.BaseURL(), statusErr.StatusCode, http.StatusText(statusErr.StatusCode))

			return errStatus
		},
	}
}
