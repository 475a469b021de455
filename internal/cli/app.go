package cli

import (
	"fmt"
	"log/slog"

	"github.com/gradtrack/gradtrack/internal/agent"
	"github.com/gradtrack/gradtrack/internal/config"
	"github.com/gradtrack/gradtrack/internal/memory"
	"github.com/gradtrack/gradtrack/internal/provider"
	"github.com/gradtrack/gradtrack/internal/store"
	"github.com/gradtrack/gradtrack/internal/tools"
)

// embeddingDim matches text-embedding-3-small.
const embeddingDim = 1536

// app bundles the wired services shared by serve and chat.
type app struct {
	cfg      *config.Config
	store    *store.Store
	registry *tools.Registry
	memory   *memory.Service
	provider provider.LLMProvider
	agent    *agent.Agent
}

// buildApp wires config, store, tools, memory and the agent. A missing
// LLM provider is not fatal: the agent degrades to rule-based intent
// resolution and template responses.
func buildApp(cfg *config.Config, logger *slog.Logger) (*app, error) {
	if err := config.EnsureDir(cfg.Paths.DataDir); err != nil {
		return nil, fmt.Errorf("data dir: %w", err)
	}
	st, err := store.Open(cfg.Paths.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	registry := tools.NewRegistry()
	registry.Register(tools.NewApplicationDatabaseTool(st))
	registry.Register(tools.NewProgramResearchTool())
	registry.Register(tools.NewEssayAnalyzerTool())
	registry.Register(tools.NewCalendarTodoTool(st))
	registry.Register(tools.NewProgramRecommenderTool(st))

	mem := memory.NewService(
		memory.NewSQLiteVecStore(st.DB(), embeddingDim),
		provider.ResolveEmbedder(cfg),
	)

	prov, provErr := provider.Resolve(cfg)
	if provErr != nil {
		logger.Warn("no LLM provider configured, running in offline mode", "error", provErr)
		prov = nil
	}

	ag := agent.New(agent.Options{
		Provider: prov,
		Registry: registry,
		Store:    st,
		Memory:   mem,
		Resolver: agent.NewIntentResolver(prov, registry, agent.ResolverOptions{
			Temperature: cfg.Model.DecisionTemperature,
			MaxTokens:   cfg.Model.DecisionMaxTokens,
			Logger:      logger,
		}),
		MaxTokens:   cfg.Model.MaxTokens,
		Temperature: cfg.Model.Temperature,
		RecallLimit: cfg.Memory.RecallLimit,
		HistorySize: cfg.Agent.HistoryMessages,
		Logger:      logger,
	})

	return &app{
		cfg:      cfg,
		store:    st,
		registry: registry,
		memory:   mem,
		provider: prov,
		agent:    ag,
	}, nil
}

func (a *app) Close() error {
	return a.store.Close()
}
