// Package dataset provides commands to build, list, show and delete
// datasets.
package dataset

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agentstation/apirunner/cmd/application"
	"github.com/agentstation/apirunner/internal/cmd/cmdutil"
	"github.com/agentstation/apirunner/internal/cmd/emoji"
	"github.com/agentstation/apirunner/internal/cmd/output"
	"github.com/agentstation/apirunner/pkg/dataset"
	"github.com/agentstation/apirunner/pkg/logging"
	"github.com/agentstation/apirunner/pkg/profile"
)

// NewCommand creates the dataset command and its subcommands.
func NewCommand(app application.Application) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "dataset",
		Aliases: []string{"datasets", "ds"},
		GroupID: "core",
		Short:   "Build and manage datasets",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(newBuildCommand(app))
	cmd.AddCommand(newListCommand(app))
	cmd.AddCommand(newShowCommand(app))
	cmd.AddCommand(newDeleteCommand(app))

	return cmd
}

type buildFlags struct {
	arrayPath   string
	maxItems    int
	detail      string
	idPath      string
	idVar       string
	concurrency int
	rate        float64
	save        string
}

func newBuildCommand(app application.Application) *cobra.Command {
	flags := &buildFlags{}

	cmd := &cobra.Command{
		Use:   "build <list.yaml>",
		Short: "Build a dataset from a list call and optional detail calls",
		Long: `Build runs the list profile, extracts the array at --array-path and keeps
the first --max-items entries. With --detail, each entry's id (read at
--id-path) is substituted for {id} in the detail profile's path and the
detail response becomes the row. Failed detail calls become error rows;
a failed list call fails the command.`,
		Example: `  apirunner dataset build contacts.yaml --array-path results
  apirunner dataset build list.yaml --array-path data.items --max-items 50 \
    --detail detail.yaml --id-path id --save contacts`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(cmd, app, args[0], flags)
		},
	}

	cmd.Flags().StringVar(&flags.arrayPath, "array-path", "", "Dot path or JSONPath of the array in the list response")
	cmd.Flags().IntVar(&flags.maxItems, "max-items", 0, "Maximum list items to keep (default 20)")
	cmd.Flags().StringVar(&flags.detail, "detail", "", "Detail profile file; its path may contain {id}")
	cmd.Flags().StringVar(&flags.idPath, "id-path", "id", "Dot path of the id inside each list item")
	cmd.Flags().StringVar(&flags.idVar, "id-var", "id", "Placeholder name substituted in the detail path")
	cmd.Flags().IntVar(&flags.concurrency, "concurrency", 0, "Detail calls in flight (default 1, sequential)")
	cmd.Flags().Float64Var(&flags.rate, "rate", 0, "Maximum detail calls per second (0 for no limit)")
	cmd.Flags().StringVar(&flags.save, "save", "", "Save the dataset under this name")

	return cmd
}

func runBuild(cmd *cobra.Command, app application.Application, listPath string, flags *buildFlags) error {
	client, err := app.Client()
	if err != nil {
		return err
	}

	list, err := profile.Load(listPath)
	if err != nil {
		return err
	}

	opts := []dataset.Option{
		dataset.WithMaxItems(flags.maxItems),
		dataset.WithConcurrency(flags.concurrency),
		dataset.WithRateLimit(flags.rate),
	}
	if flags.detail != "" {
		detail, err := profile.Load(flags.detail)
		if err != nil {
			return err
		}
		opts = append(opts, dataset.WithDetail(detail, flags.idPath, flags.idVar))
	}

	ctx := logging.WithOperation(cmd.Context(), "dataset.build")
	if flags.save != "" {
		ctx = logging.WithDataset(ctx, flags.save)
	}

	ds, err := client.BuildDataset(ctx, list, flags.arrayPath, opts...)
	if err != nil {
		return err
	}

	if flags.save != "" {
		if err := client.SaveDataset(ctx, flags.save, ds); err != nil {
			return err
		}
	}

	table := output.DatasetRows(ds)
	if err := cmdutil.Write(cmd, app, ds, &table); err != nil {
		return err
	}

	if !cmdutil.IsStructured(app) {
		if n := ds.Errors(); n > 0 {
			fmt.Fprintf(cmd.ErrOrStderr(), "%s %d of %d rows failed\n", emoji.Warning, n, ds.Count)
		}
		if flags.save != "" {
			fmt.Fprintf(cmd.ErrOrStderr(), "%s Saved dataset %q (%d rows)\n", emoji.Success, flags.save, ds.Count)
		}
	}
	return nil
}

func newListCommand(app application.Application) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List saved datasets",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := app.Client()
			if err != nil {
				return err
			}
			names, err := client.ListDatasets(cmd.Context())
			if err != nil {
				return err
			}
			table := output.DatasetNames(names)
			return cmdutil.Write(cmd, app, names, &table)
		},
	}
}

func newShowCommand(app application.Application) *cobra.Command {
	return &cobra.Command{
		Use:   "show <name>",
		Short: "Show a saved dataset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := app.Client()
			if err != nil {
				return err
			}
			ds, err := client.LoadDataset(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			table := output.DatasetRows(ds)
			return cmdutil.Write(cmd, app, ds, &table)
		},
	}
}

func newDeleteCommand(app application.Application) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <name>",
		Aliases: []string{"rm"},
		Short:   "Delete a saved dataset",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := app.Client()
			if err != nil {
				return err
			}
			if _, err := client.LoadDataset(cmd.Context(), args[0]); err != nil {
				return err
			}
			if err := client.DeleteDataset(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Deleted dataset %q\n", emoji.Success, args[0])
			return nil
		},
	}
}
