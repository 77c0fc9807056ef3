package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ahrav/go-accord/internal/domain"
	"github.com/ahrav/go-accord/internal/llm/configuration"
	"github.com/ahrav/go-accord/internal/worker"
)

func newResolveCommand() *cobra.Command {
	var configPath string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "resolve <evaluations.json>",
		Short: "Resolve conflicts between two judges' scored evaluations",
		Long: `Resolve scoring conflicts between the primary and secondary judge.
The input file holds a JSON array of plan evaluations; plans scored by
both judges are analyzed for per-criterion disagreements, resolved by
severity, and summarized in a consensus report. Critical conflicts are
escalated for human review instead of being auto-resolved.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cfg, err := configuration.Load(ctx, configPath)
			if err != nil {
				return fmt.Errorf("loading configuration: %w", err)
			}

			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading evaluations file: %w", err)
			}
			var evaluations []domain.PlanEvaluation
			if err := json.Unmarshal(data, &evaluations); err != nil {
				return fmt.Errorf("parsing evaluations file: %w", err)
			}
			if len(evaluations) == 0 {
				return domain.ErrEmptyEvaluations
			}

			engine := worker.InitializeEngine(cfg)
			conflicts := engine.AnalyzeConflicts(evaluations)
			resolutions, escalations := engine.ResolveConflicts(conflicts)

			if asJSON {
				out, err := json.MarshalIndent(map[string]any{
					"conflicts":   conflicts,
					"resolutions": resolutions,
					"escalations": escalations,
				}, "", "  ")
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(out))
				return nil
			}

			fmt.Fprintln(cmd.OutOrStdout(), engine.GenerateReport(conflicts, resolutions))
			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "Path to YAML configuration file")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit raw analysis as JSON instead of the report")

	return cmd
}
