// Package profile provides commands to inspect, validate and select
// request profiles.
package profile

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agentstation/apirunner/cmd/application"
	"github.com/agentstation/apirunner/internal/cmd/cmdutil"
	"github.com/agentstation/apirunner/internal/cmd/emoji"
	"github.com/agentstation/apirunner/internal/cmd/output"
	"github.com/agentstation/apirunner/pkg/profile"
	"github.com/agentstation/apirunner/pkg/proxy"
)

// NewCommand creates the profile command and its subcommands.
func NewCommand(app application.Application) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "profile",
		Aliases: []string{"profiles"},
		GroupID: "management",
		Short:   "Inspect and select request profiles",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(newCurrentCommand(app))
	cmd.AddCommand(newUseCommand(app))
	cmd.AddCommand(newValidateCommand(app))

	return cmd
}

func newCurrentCommand(app application.Application) *cobra.Command {
	return &cobra.Command{
		Use:   "current",
		Short: "Show the current profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := app.Client()
			if err != nil {
				return err
			}
			p, err := client.CurrentProfile(cmd.Context())
			if err != nil {
				return err
			}
			return cmdutil.Write(cmd, app, p, nil)
		},
	}
}

func newUseCommand(app application.Application) *cobra.Command {
	return &cobra.Command{
		Use:   "use <profile.yaml>",
		Short: "Make a profile the current profile without running it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := app.Client()
			if err != nil {
				return err
			}
			p, err := profile.Load(args[0])
			if err != nil {
				return err
			}
			if err := client.SetCurrentProfile(cmd.Context(), p); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Current profile set from %s\n", emoji.Success, args[0])
			return nil
		},
	}
}

// newValidateCommand checks a profile and prints the request it resolves
// to, with credentials redacted.
func newValidateCommand(app application.Application) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <profile.yaml>",
		Short: "Validate a profile and show the resolved request",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := profile.Load(args[0])
			if err != nil {
				return err
			}
			req := profile.ToRequest(p)
			resolved := map[string]any{
				"method":  req.Method,
				"url":     proxy.RedactURL(req.URL),
				"auth":    p.Auth.Type.String(),
				"headers": len(req.Headers),
			}
			table := output.Data{
				Headers: []string{"Method", "URL", "Auth", "Headers"},
				Rows: [][]string{{
					req.Method, proxy.RedactURL(req.URL), p.Auth.Type.String(), fmt.Sprint(len(req.Headers)),
				}},
			}
			return cmdutil.Write(cmd, app, resolved, &table)
		},
	}
}
