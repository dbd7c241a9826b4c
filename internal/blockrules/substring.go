package blockrules

import (
	"context"
	"strings"
	"sync"

	"github.com/sifthq/chatsift/api"
)

// SubstringEngine implements ordered, first-match-wins, case-insensitive
// substring matching over the blocked-pattern list. The pattern set is
// read-only between reloads, so evaluation is safe for concurrent use.
type SubstringEngine struct {
	mu   sync.RWMutex
	file *RuleFile
	path string

	// patterns lowercased at load; index-aligned with file.Patterns
	lowered []string
}

// NewSubstringEngine creates a new substring engine from a rule file path.
func NewSubstringEngine(path string) (*SubstringEngine, error) {
	e := &SubstringEngine{path: path}
	if err := e.Reload(context.Background()); err != nil {
		return nil, err
	}
	return e, nil
}

// NewSubstringEngineFromRules creates a new substring engine from an
// already-loaded rule file.
func NewSubstringEngineFromRules(rf *RuleFile) *SubstringEngine {
	e := &SubstringEngine{}
	e.install(rf)
	return e
}

// Evaluate checks the record text against patterns in order, returning the
// first match. A record with no text never matches.
func (e *SubstringEngine) Evaluate(_ context.Context, input *EvalInput) (*EvalResult, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if input.Text == "" {
		return &EvalResult{Verdict: api.VerdictKeep}, nil
	}

	text := strings.ToLower(input.Text)
	for i, p := range e.lowered {
		if strings.Contains(text, p) {
			return &EvalResult{
				Verdict: api.VerdictDrop,
				Pattern: e.file.Patterns[i],
				Message: "blocked pattern matched",
			}, nil
		}
	}

	return &EvalResult{Verdict: api.VerdictKeep}, nil
}

// Reload re-reads the rule file from disk.
func (e *SubstringEngine) Reload(_ context.Context) error {
	if e.path == "" {
		return nil
	}
	rf, err := LoadFile(e.path)
	if err != nil {
		return err
	}
	e.install(rf)
	return nil
}

// Rules returns the currently loaded rule file (for dashboard display).
func (e *SubstringEngine) Rules() *RuleFile {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.file
}

func (e *SubstringEngine) install(rf *RuleFile) {
	lowered := make([]string, len(rf.Patterns))
	for i, p := range rf.Patterns {
		lowered[i] = strings.ToLower(p)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.file = rf
	e.lowered = lowered
}
