package blockrules

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/open-policy-agent/opa/ast"
	"github.com/open-policy-agent/opa/rego"
	"github.com/open-policy-agent/opa/storage/inmem"

	"github.com/sifthq/chatsift/api"
)

// RegoEngine implements the Engine interface using embedded OPA/Rego, for
// deployments whose drop rules outgrow plain substring patterns.
type RegoEngine struct {
	mu   sync.RWMutex
	path string

	// Compiled query for evaluation
	query rego.PreparedEvalQuery
}

// NewRegoEngine creates a new Rego engine from a .rego rule file.
func NewRegoEngine(path string) (*RegoEngine, error) {
	e := &RegoEngine{path: path}
	if err := e.Reload(context.Background()); err != nil {
		return nil, err
	}
	return e, nil
}

// NewRegoEngineFromSource creates a new Rego engine from raw Rego source.
func NewRegoEngineFromSource(source string) (*RegoEngine, error) {
	e := &RegoEngine{}
	if err := e.loadSource(source); err != nil {
		return nil, err
	}
	return e, nil
}

// Evaluate runs the Rego rules against the given record.
//
// The Rego policy must define the following in package chatsift:
//
//	drop: boolean
//	pattern: string (optional)
//	message: string (optional)
//
// Input available to the policy:
//
//	input.text: string
//	input.source: string
//	input.record: object
//
// Any evaluation failure keeps the record: pass-through is the system-wide
// degradation mode, so rule trouble must never remove messages.
func (e *RegoEngine) Evaluate(ctx context.Context, input *EvalInput) (*EvalResult, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	inputMap := map[string]any{
		"text":   input.Text,
		"source": input.Source,
	}
	if input.Record != nil {
		var record any
		if err := json.Unmarshal(input.Record, &record); err == nil {
			inputMap["record"] = record
		}
	}

	rs, err := e.query.Eval(ctx, rego.EvalInput(inputMap))
	if err != nil {
		return &EvalResult{
			Verdict: api.VerdictKeep,
			Message: "rego evaluation error: " + err.Error(),
		}, nil
	}

	if len(rs) == 0 || len(rs[0].Expressions) == 0 {
		return &EvalResult{Verdict: api.VerdictKeep}, nil
	}

	resultMap, ok := rs[0].Expressions[0].Value.(map[string]any)
	if !ok {
		return &EvalResult{
			Verdict: api.VerdictKeep,
			Message: "unexpected rego result type",
		}, nil
	}

	return parseRegoResult(resultMap), nil
}

// Reload re-reads the Rego rule file from disk and recompiles.
func (e *RegoEngine) Reload(_ context.Context) error {
	if e.path == "" {
		return nil
	}
	data, err := os.ReadFile(e.path)
	if err != nil {
		return fmt.Errorf("reading rego rule file: %w", err)
	}
	return e.loadSource(string(data))
}

func (e *RegoEngine) loadSource(source string) error {
	// Parse to validate
	_, err := ast.ParseModuleWithOpts("rules.rego", source, ast.ParserOptions{RegoVersion: ast.RegoV1})
	if err != nil {
		return fmt.Errorf("parsing rego rules: %w", err)
	}

	store := inmem.New()

	r := rego.New(
		rego.Query("data.chatsift"),
		rego.Module("rules.rego", source),
		rego.Store(store),
	)

	query, err := r.PrepareForEval(context.Background())
	if err != nil {
		return fmt.Errorf("preparing rego query: %w", err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.query = query

	return nil
}

func parseRegoResult(m map[string]any) *EvalResult {
	result := &EvalResult{
		Verdict: api.VerdictKeep, // keep if the policy says nothing
	}

	if drop, ok := m["drop"].(bool); ok && drop {
		result.Verdict = api.VerdictDrop
	}
	if p, ok := m["pattern"].(string); ok {
		result.Pattern = p
	}
	if msg, ok := m["message"].(string); ok {
		result.Message = msg
	}

	return result
}
