package blockrules

import (
	"encoding/json"

	"github.com/sifthq/chatsift/api"
)

// RuleFile represents the top-level YAML rule configuration. Patterns is
// the customization surface: a plain ordered list of blocked substrings a
// user edits directly.
type RuleFile struct {
	Version  int      `yaml:"version" json:"version"`
	Settings Settings `yaml:"settings" json:"settings"`
	Patterns []string `yaml:"patterns" json:"patterns"`
}

// Settings contains global runtime settings carried in the rule file.
type Settings struct {
	FeedMarkers   []string `yaml:"feed_markers,omitempty" json:"feed_markers,omitempty"`
	TextFields    []string `yaml:"text_fields,omitempty" json:"text_fields,omitempty"`
	LogDir        string   `yaml:"log_dir,omitempty" json:"log_dir,omitempty"`
	DashboardAddr string   `yaml:"dashboard_addr,omitempty" json:"dashboard_addr,omitempty"`
	RegoPolicy    string   `yaml:"rego_policy,omitempty" json:"rego_policy,omitempty"`
}

// EvalInput is the input to a rule engine evaluation: one chat record.
type EvalInput struct {
	Text   string          `json:"text"`
	Source string          `json:"source,omitempty"`
	Record json.RawMessage `json:"record,omitempty"`
}

// EvalResult is the output of a rule engine evaluation.
type EvalResult struct {
	Verdict api.Verdict `json:"verdict"`
	Pattern string      `json:"pattern,omitempty"`
	Message string      `json:"message,omitempty"`
}
