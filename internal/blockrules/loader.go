package blockrules

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadFile reads and validates a YAML rule file.
func LoadFile(path string) (*RuleFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading rule file: %w", err)
	}
	return LoadBytes(data)
}

// LoadBytes parses and validates YAML rule data.
func LoadBytes(data []byte) (*RuleFile, error) {
	var rf RuleFile
	if err := yaml.Unmarshal(data, &rf); err != nil {
		return nil, fmt.Errorf("parsing rule YAML: %w", err)
	}
	if err := validate(&rf); err != nil {
		return nil, err
	}
	return &rf, nil
}

// validate keeps schema checks deliberately thin: the pattern list is plain
// user data, so beyond the version marker we only discard blank entries.
func validate(rf *RuleFile) error {
	if rf.Version != 1 {
		return fmt.Errorf("unsupported rule file version: %d (expected 1)", rf.Version)
	}

	patterns := rf.Patterns[:0]
	for _, p := range rf.Patterns {
		if strings.TrimSpace(p) == "" {
			continue
		}
		patterns = append(patterns, p)
	}
	rf.Patterns = patterns

	return nil
}
