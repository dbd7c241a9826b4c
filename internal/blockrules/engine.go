package blockrules

import "context"

// Engine is the interface for blocked-pattern evaluation backends.
type Engine interface {
	// Evaluate decides whether a single chat record should be dropped.
	Evaluate(ctx context.Context, input *EvalInput) (*EvalResult, error)

	// Reload reloads the rules from their source (file, embedded policy).
	Reload(ctx context.Context) error
}
