package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sifthq/chatsift/internal/blockrules"
	"github.com/sifthq/chatsift/internal/feed"
	"github.com/sifthq/chatsift/internal/sift"
	"gopkg.in/yaml.v3"
)

// Config is the runtime configuration for ChatSift.
type Config struct {
	RuleFile      *blockrules.RuleFile
	RulePath      string
	FeedMarkers   []string
	TextFields    []string
	LogDir        string
	DashboardAddr string
	RegoPolicy    string
}

// Load reads a rule YAML file and produces a runtime Config.
func Load(path string) (*Config, error) {
	rf, err := blockrules.LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return fromRules(rf, path)
}

// LoadBytes parses YAML data and produces a runtime Config.
func LoadBytes(data []byte) (*Config, error) {
	rf, err := blockrules.LoadBytes(data)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return fromRules(rf, "")
}

func fromRules(rf *blockrules.RuleFile, path string) (*Config, error) {
	cfg := &Config{
		RuleFile:   rf,
		RulePath:   path,
		RegoPolicy: expandHome(rf.Settings.RegoPolicy),
	}

	// Feed markers
	cfg.FeedMarkers = rf.Settings.FeedMarkers
	if len(cfg.FeedMarkers) == 0 {
		cfg.FeedMarkers = sift.DefaultFeedMarkers
	}

	// Text field candidates
	cfg.TextFields = rf.Settings.TextFields
	if len(cfg.TextFields) == 0 {
		cfg.TextFields = feed.DefaultTextFields
	}

	// Log directory
	cfg.LogDir = rf.Settings.LogDir
	if cfg.LogDir == "" {
		cfg.LogDir = DefaultLogDir()
	}
	cfg.LogDir = expandHome(cfg.LogDir)

	// Dashboard address
	cfg.DashboardAddr = rf.Settings.DashboardAddr
	if cfg.DashboardAddr == "" {
		cfg.DashboardAddr = DefaultDashboardAddr
	}

	return cfg, nil
}

func expandHome(path string) string {
	if len(path) > 1 && path[0] == '~' && path[1] == '/' {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

// DefaultConfig returns a config with defaults for when no rule file is
// given: nothing blocked, feed detection and logging still active.
func DefaultConfig() *Config {
	return &Config{
		RuleFile: &blockrules.RuleFile{
			Version: 1,
		},
		FeedMarkers:   sift.DefaultFeedMarkers,
		TextFields:    feed.DefaultTextFields,
		LogDir:        expandHome(DefaultLogDir()),
		DashboardAddr: DefaultDashboardAddr,
	}
}

// MarshalYAML serializes the rule file for display/export.
func (c *Config) MarshalYAML() ([]byte, error) {
	return yaml.Marshal(c.RuleFile)
}
