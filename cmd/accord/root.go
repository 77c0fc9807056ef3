package main

import (
	"log/slog"

	"github.com/spf13/cobra"
)

var version = "dev"

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "accord",
		Short: "Accord - dual-judge LLM evaluation with consensus resolution",
		Long: `Accord evaluates accessibility-remediation plans with two independent
LLM judges, reconciles their disagreements by severity, and reports the
consensus. Judge outages degrade to NA outcomes instead of failing batches.`,
		Version:      version,
		SilenceUsage: true,
	}

	debugLogging := cmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
	cmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		if *debugLogging {
			slog.SetLogLoggerLevel(slog.LevelDebug)
		}
	}

	cmd.AddCommand(newWorkerCommand())
	cmd.AddCommand(newEvaluateCommand())
	cmd.AddCommand(newResolveCommand())

	return cmd
}

func execute() error {
	return newRootCommand().Execute()
}
