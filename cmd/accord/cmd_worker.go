package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.temporal.io/sdk/client"
	sdkworker "go.temporal.io/sdk/worker"

	"github.com/ahrav/go-accord/internal/llm/configuration"
	"github.com/ahrav/go-accord/internal/worker"
	"github.com/ahrav/go-accord/pkg/events"
)

func newWorkerCommand() *cobra.Command {
	var configPath string
	var hostPort string
	var namespace string

	cmd := &cobra.Command{
		Use:   "worker",
		Short: "Start a Temporal worker serving consensus evaluation workflows",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cfg, err := configuration.Load(ctx, configPath)
			if err != nil {
				return fmt.Errorf("loading configuration: %w", err)
			}

			manager, err := worker.InitializeManager(cfg)
			if err != nil {
				return err
			}
			engine := worker.InitializeEngine(cfg)

			c, err := client.Dial(client.Options{
				HostPort:  hostPort,
				Namespace: namespace,
			})
			if err != nil {
				return fmt.Errorf("connecting to Temporal: %w", err)
			}
			defer c.Close()

			w := sdkworker.New(c, worker.TaskQueue, sdkworker.Options{})
			worker.RegisterAll(w, manager, engine, events.NewNoOpEventSink())

			return w.Run(sdkworker.InterruptCh())
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "Path to YAML configuration file")
	cmd.Flags().StringVar(&hostPort, "temporal-address", client.DefaultHostPort, "Temporal server address")
	cmd.Flags().StringVar(&namespace, "temporal-namespace", client.DefaultNamespace, "Temporal namespace")

	return cmd
}
