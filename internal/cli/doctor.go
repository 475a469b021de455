package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/gradtrack/gradtrack/internal/config"
	"github.com/gradtrack/gradtrack/internal/provider"
	"github.com/gradtrack/gradtrack/internal/store"
	"github.com/spf13/cobra"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Run config and setup diagnostics",
	RunE:  runDoctor,
}

type doctorCheck struct {
	name    string
	status  string // PASS, WARN, FAIL
	message string
}

func runDoctor(cmd *cobra.Command, args []string) error {
	printHeader("GradTrack Doctor")

	var checks []doctorCheck
	add := func(name, status, message string) {
		checks = append(checks, doctorCheck{name, status, message})
	}

	path, err := config.ConfigPath()
	if err != nil {
		add("config", "FAIL", err.Error())
	} else if _, statErr := os.Stat(path); statErr == nil {
		add("config", "PASS", "found "+path)
	} else {
		add("config", "WARN", "no config file at "+path+" (using defaults)")
	}

	cfg, err := config.Load()
	if err != nil {
		add("config load", "FAIL", err.Error())
		cfg = config.DefaultConfig()
	}

	if err := config.EnsureDir(cfg.Paths.DataDir); err != nil {
		add("data dir", "FAIL", err.Error())
	} else {
		add("data dir", "PASS", cfg.Paths.DataDir)
	}

	if st, err := store.Open(cfg.Paths.DBPath); err != nil {
		add("database", "FAIL", err.Error())
	} else {
		if stats, err := st.ApplicationStats(context.Background()); err != nil {
			add("database", "FAIL", "schema check: "+err.Error())
		} else {
			add("database", "PASS", fmt.Sprintf("%s (%d applications)", cfg.Paths.DBPath, stats.Total))
		}
		st.Close()
	}

	if _, err := provider.Resolve(cfg); err != nil {
		add("llm provider", "WARN", fmt.Sprintf("%v: agent will use rule-based fallback", err))
	} else {
		add("llm provider", "PASS", cfg.Model.Name)
	}

	if provider.ResolveEmbedder(cfg) == nil {
		add("embeddings", "WARN", "no OpenAI key: memory recall uses keyword search")
	} else {
		add("embeddings", "PASS", cfg.Memory.EmbeddingModel)
	}

	failures := 0
	for _, c := range checks {
		symbol := color.GreenString("[PASS]")
		switch c.status {
		case "WARN":
			symbol = color.YellowString("[WARN]")
		case "FAIL":
			symbol = color.RedString("[FAIL]")
			failures++
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s: %s\n", symbol, c.name, c.message)
	}

	if failures > 0 {
		return fmt.Errorf("doctor found %d failing check(s)", failures)
	}
	return nil
}
