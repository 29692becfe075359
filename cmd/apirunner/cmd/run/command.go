// Package run provides the run command, which executes one request profile.
package run

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agentstation/apirunner/cmd/application"
	"github.com/agentstation/apirunner/internal/cmd/cmdutil"
	"github.com/agentstation/apirunner/internal/cmd/output"
	"github.com/agentstation/apirunner/pkg/profile"
)

// NewCommand creates the run command.
func NewCommand(app application.Application) *cobra.Command {
	var failOnError bool

	cmd := &cobra.Command{
		Use:     "run [profile.yaml]",
		GroupID: "core",
		Short:   "Execute a request profile",
		Long: `Run resolves a request profile (base URL, path, query, headers, auth)
into a single HTTP call and prints the normalized response.

Without an argument the current profile, the one used last, is run again.
HTTP and network failures are part of the response, not command errors,
unless --fail is given.`,
		Example: `  apirunner run contacts.yaml
  apirunner run contacts.yaml -o json
  apirunner run --fail`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := app.Client()
			if err != nil {
				return err
			}

			var p profile.Profile
			if len(args) == 1 {
				if p, err = profile.Load(args[0]); err != nil {
					return err
				}
			} else if p, err = client.CurrentProfile(cmd.Context()); err != nil {
				return fmt.Errorf("no profile given and no current profile: %w", err)
			}

			resp, err := client.Run(cmd.Context(), p)
			if err != nil {
				return err
			}

			table := output.Response(resp)
			if err := cmdutil.Write(cmd, app, resp, &table); err != nil {
				return err
			}
			if failOnError && !resp.OK {
				return fmt.Errorf("call failed: %d %s", resp.Status, resp.StatusText)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&failOnError, "fail", false, "Exit non-zero when the call does not succeed")

	return cmd
}
