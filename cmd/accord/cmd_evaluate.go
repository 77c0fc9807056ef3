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

func newEvaluateCommand() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "evaluate <input.json>",
		Short: "Evaluate a batch of plans against both judges with fallback",
		Long: `Evaluate a batch of plans against the primary judge, falling back to
the secondary judge per plan. The input file holds a JSON object with
"plans" (name/content pairs) and an optional "audit_context" string.

Plans neither judge can serve are reported as NA outcomes; the run only
fails outright when no judge endpoint is reachable at all.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cfg, err := configuration.Load(ctx, configPath)
			if err != nil {
				return fmt.Errorf("loading configuration: %w", err)
			}

			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading input file: %w", err)
			}
			var input domain.EvaluationInput
			if err := json.Unmarshal(data, &input); err != nil {
				return fmt.Errorf("parsing input file: %w", err)
			}

			manager, err := worker.InitializeManager(cfg)
			if err != nil {
				return err
			}

			result, err := manager.ExecuteWithFallback(ctx, input)
			if err != nil {
				return err
			}

			out, err := json.MarshalIndent(result, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))

			if result.PartialEvaluation {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: %d of %d plans returned NA\n",
					result.NACount, len(result.Outcomes))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "Path to YAML configuration file")

	return cmd
}
