// Package worker provides initialization and registration utilities for
// Temporal workers. Initialization logic lives here so the activity packages
// stay focused on pure activity logic.
package worker

import (
	"fmt"

	"github.com/ahrav/go-accord/internal/consensus"
	"github.com/ahrav/go-accord/internal/llm"
	"github.com/ahrav/go-accord/internal/llm/configuration"
	"github.com/ahrav/go-accord/internal/llm/providers"
	"github.com/ahrav/go-accord/internal/resilience"
)

// TaskQueue is the Temporal task queue both the worker and workflow starters use.
const TaskQueue = "accord-evaluation"

// InitializeManager builds the resilience manager with concrete judge
// clients from provider configuration. Returns the manager for dependency
// injection rather than setting global state.
func InitializeManager(cfg *configuration.Config) (*resilience.Manager, error) {
	if cfg == nil {
		cfg = configuration.DefaultConfig()
	}

	primary, secondary, err := providers.NewJudgeClients(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize judge clients: %w", err)
	}

	return resilience.NewManager(cfg, primary, secondary), nil
}

// InitializeManagerWithClients builds the resilience manager around caller
// supplied judge clients. Used by tests and embedded callers that stub the
// judge endpoints.
func InitializeManagerWithClients(cfg *configuration.Config, primary, secondary llm.Client) *resilience.Manager {
	if cfg == nil {
		cfg = configuration.DefaultConfig()
	}
	return resilience.NewManager(cfg, primary, secondary)
}

// InitializeEngine builds the consensus engine with the configured judge
// reliability weights.
func InitializeEngine(cfg *configuration.Config) *consensus.Engine {
	if cfg == nil {
		cfg = configuration.DefaultConfig()
	}
	return consensus.NewEngine(cfg.Judges.PrimaryAccuracy, cfg.Judges.SecondaryAccuracy)
}
