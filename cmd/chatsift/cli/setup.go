package cli

import (
	"fmt"

	"github.com/sifthq/chatsift/internal/audit"
	"github.com/sifthq/chatsift/internal/blockrules"
	"github.com/sifthq/chatsift/internal/config"
	"github.com/sifthq/chatsift/internal/filter"
	"github.com/sifthq/chatsift/internal/sift"
)

// loadConfig reads the rule file named by --config, or falls back to the
// block-nothing defaults.
func loadConfig() (*config.Config, error) {
	if cfgFile == "" {
		return config.DefaultConfig(), nil
	}
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

// buildEngines constructs the rule engines from the config. The substring
// engine always exists (it backs the dashboard's pattern view); the chain
// engine is the Rego engine when one is configured.
func buildEngines(cfg *config.Config) (blockrules.Engine, *blockrules.SubstringEngine, error) {
	var substr *blockrules.SubstringEngine
	var err error
	if cfg.RulePath != "" {
		substr, err = blockrules.NewSubstringEngine(cfg.RulePath)
		if err != nil {
			return nil, nil, fmt.Errorf("creating rule engine: %w", err)
		}
	} else {
		substr = blockrules.NewSubstringEngineFromRules(cfg.RuleFile)
	}

	if cfg.RegoPolicy != "" {
		rego, err := blockrules.NewRegoEngine(cfg.RegoPolicy)
		if err != nil {
			return nil, nil, fmt.Errorf("creating rego engine: %w", err)
		}
		return rego, substr, nil
	}

	return substr, substr, nil
}

// buildSiftEngine wires the full record pipeline: parse, blocklist,
// optional audit, wrapped in the response-level engine.
func buildSiftEngine(cfg *config.Config, engine blockrules.Engine, store audit.Store) *sift.Engine {
	chain := filter.BuildChain(filter.ChainConfig{
		Engine:     engine,
		AuditStore: store,
		TextFields: cfg.TextFields,
		Logger:     logger,
	})
	return sift.NewEngine(chain, cfg.FeedMarkers, logger)
}
