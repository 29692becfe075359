// Package export provides commands that turn request profiles into other
// tools' formats.
package export

import (
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/agentstation/apirunner/cmd/application"
	"github.com/agentstation/apirunner/internal/cmd/output"
	"github.com/agentstation/apirunner/pkg/export"
	"github.com/agentstation/apirunner/pkg/profile"
)

// NewCommand creates the export command and its subcommands.
func NewCommand(app application.Application) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "export",
		GroupID: "management",
		Short:   "Export request profiles",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(newN8NCommand(app))

	return cmd
}

func newN8NCommand(app application.Application) *cobra.Command {
	var (
		name   string
		redact bool
	)

	cmd := &cobra.Command{
		Use:   "n8n <profile.yaml>...",
		Short: "Export profiles as n8n HTTP Request nodes",
		Long: `Export writes one n8n HTTP Request node for a single profile, or a
workflow holding one node per profile when several are given. The
result is always JSON so it can be pasted into the n8n editor.`,
		Example: `  apirunner export n8n contacts.yaml
  apirunner export n8n list.yaml detail.yaml --name "Contacts sync" --redact`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			profiles := make([]profile.Profile, 0, len(args))
			for _, path := range args {
				p, err := profile.Load(path)
				if err != nil {
					return err
				}
				if p.Name == "" {
					p.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
				}
				profiles = append(profiles, p)
			}

			var opts []export.Option
			if redact {
				opts = append(opts, export.WithRedactedSecrets())
			}

			app.Logger().Debug().Int("profiles", len(profiles)).Bool("redact", redact).Msg("Exporting n8n")

			formatter := output.NewFormatter(output.FormatJSON)
			if len(profiles) == 1 {
				return formatter.Format(cmd.OutOrStdout(), export.N8NNode(profiles[0], opts...))
			}
			if name == "" {
				name = "apirunner export"
			}
			return formatter.Format(cmd.OutOrStdout(), export.N8NWorkflow(name, profiles, opts...))
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Workflow name when exporting several profiles")
	cmd.Flags().BoolVar(&redact, "redact", false, "Replace API keys and tokens with a placeholder")

	return cmd
}
