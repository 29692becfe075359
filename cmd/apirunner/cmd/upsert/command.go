// Package upsert provides commands to plan and execute idempotent contact
// upserts against the CRM.
package upsert

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/agentstation/apirunner/cmd/application"
	"github.com/agentstation/apirunner/internal/cmd/cmdutil"
	"github.com/agentstation/apirunner/internal/cmd/emoji"
	"github.com/agentstation/apirunner/internal/cmd/output"
	"github.com/agentstation/apirunner/internal/codec"
	"github.com/agentstation/apirunner/pkg/constants"
	"github.com/agentstation/apirunner/pkg/errors"
	"github.com/agentstation/apirunner/pkg/hubspot"
	"github.com/agentstation/apirunner/pkg/mapping"
	"github.com/agentstation/apirunner/pkg/profile"
)

// NewCommand creates the upsert command and its subcommands.
func NewCommand(app application.Application) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "upsert",
		GroupID: "core",
		Short:   "Plan and execute contact upserts",
		Long: `Upsert maps an external record onto contact properties, searches the CRM
by email and decides whether to create, update or leave the contact alone.

The base profile supplies the API base URL and credentials. Without
--base the public API is used with the token from HUBSPOT_TOKEN.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(newPlanCommand(app))
	cmd.AddCommand(newExecuteCommand(app))

	return cmd
}

type planFlags struct {
	base       string
	rules      string
	record     string
	properties string
	out        string
	execute    bool
	dryRun     bool
}

func newPlanCommand(app application.Application) *cobra.Command {
	flags := &planFlags{}

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Plan an upsert for one record",
		Example: `  apirunner upsert plan --rules rules.yaml --record lead.json
  apirunner upsert plan --properties '{"email":"a@b.com","firstname":"Ada"}' --out plan.json
  cat lead.json | apirunner upsert plan --rules rules.yaml --record - --execute`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPlan(cmd, app, flags)
		},
	}

	cmd.Flags().StringVar(&flags.base, "base", "", "Base profile file (base URL and auth)")
	cmd.Flags().StringVar(&flags.rules, "rules", "", "Mapping rules file")
	cmd.Flags().StringVar(&flags.record, "record", "", "External record JSON file, - for stdin")
	cmd.Flags().StringVar(&flags.properties, "properties", "", "Contact properties as inline JSON")
	cmd.Flags().StringVar(&flags.out, "out", "", "Write the plan to this file for a later execute")
	cmd.Flags().BoolVar(&flags.execute, "execute", false, "Execute the plan right away")
	cmd.Flags().BoolVar(&flags.dryRun, "dry-run", false, "With --execute, describe the write without performing it")
	cmd.MarkFlagsMutuallyExclusive("record", "properties")
	cmd.MarkFlagsOneRequired("record", "properties")

	return cmd
}

func runPlan(cmd *cobra.Command, app application.Application, flags *planFlags) error {
	client, err := app.Client()
	if err != nil {
		return err
	}
	base, err := BaseProfile(flags.base, app.HubSpotToken())
	if err != nil {
		return err
	}

	var plan hubspot.Plan
	if flags.record != "" {
		var rules []mapping.Rule
		if flags.rules != "" {
			if rules, err = mapping.LoadRules(flags.rules); err != nil {
				return err
			}
		}
		record, err := cmdutil.ReadJSON(cmd, flags.record)
		if err != nil {
			return err
		}
		plan, err = client.Planner().PlanUpsertFromJSON(cmd.Context(), base, record, rules)
		if err != nil {
			return err
		}
	} else {
		var properties map[string]any
		if err := json.Unmarshal([]byte(flags.properties), &properties); err != nil {
			return &errors.ValidationError{Field: "properties", Message: "must be a JSON object", Err: err}
		}
		if plan, err = client.PlanUpsert(cmd.Context(), base, properties); err != nil {
			return err
		}
	}

	if flags.out != "" {
		if err := writePlan(flags.out, plan); err != nil {
			return err
		}
	}

	if flags.execute {
		return execute(cmd, app, base, plan, flags.dryRun)
	}

	table := output.Plan(plan)
	return cmdutil.Write(cmd, app, plan, &table)
}

type executeFlags struct {
	base   string
	plan   string
	dryRun bool
}

func newExecuteCommand(app application.Application) *cobra.Command {
	flags := &executeFlags{}

	cmd := &cobra.Command{
		Use:   "execute",
		Short: "Execute a saved upsert plan",
		Example: `  apirunner upsert execute --plan plan.json --dry-run
  apirunner upsert execute --plan plan.json --base hubspot.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			base, err := BaseProfile(flags.base, app.HubSpotToken())
			if err != nil {
				return err
			}
			var plan hubspot.Plan
			if err := codec.DecodeFile(flags.plan, &plan); err != nil {
				return err
			}
			return execute(cmd, app, base, plan, flags.dryRun)
		},
	}

	cmd.Flags().StringVar(&flags.base, "base", "", "Base profile file (base URL and auth)")
	cmd.Flags().StringVar(&flags.plan, "plan", "", "Plan file written by upsert plan --out")
	cmd.Flags().BoolVar(&flags.dryRun, "dry-run", false, "Describe the write without performing it")
	_ = cmd.MarkFlagRequired("plan")

	return cmd
}

func execute(cmd *cobra.Command, app application.Application, base profile.Profile, plan hubspot.Plan, dryRun bool) error {
	client, err := app.Client()
	if err != nil {
		return err
	}
	resp, err := client.ExecuteUpsert(cmd.Context(), base, plan, dryRun)
	if err != nil {
		return err
	}

	if !cmdutil.IsStructured(app) {
		symbol := emoji.Success
		switch {
		case dryRun:
			symbol = emoji.DryRun
		case !resp.OK:
			symbol = emoji.Error
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "%s %s %s\n", symbol, plan.Action, resp.StatusText)
	}

	table := output.Response(resp)
	if err := cmdutil.Write(cmd, app, resp, &table); err != nil {
		return err
	}
	if !resp.OK {
		return fmt.Errorf("upsert %s failed: %d %s", plan.Action, resp.Status, resp.StatusText)
	}
	return nil
}

// BaseProfile loads the base profile at path and fills in token when the
// profile has no credentials. Without a path the public API is used, which
// needs a token.
func BaseProfile(path, token string) (profile.Profile, error) {
	if path == "" {
		if token == "" {
			return profile.Profile{}, errors.NewValidationError("base", nil, "--base is required when HUBSPOT_TOKEN is not set")
		}
		return hubspot.BaseProfile(token), nil
	}
	base, err := profile.Load(path)
	if err != nil {
		return profile.Profile{}, err
	}
	return hubspot.WithToken(base, token), nil
}

func writePlan(path string, plan hubspot.Plan) error {
	data, err := codec.Encode(plan, codec.FormatFromPath(path))
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, constants.FilePermissions); err != nil {
		return errors.WrapIO("write", path, err)
	}
	return nil
}
