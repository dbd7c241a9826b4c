package filter

import (
	"context"

	"github.com/sifthq/chatsift/api"
	"github.com/sifthq/chatsift/internal/blockrules"
)

// BlocklistFilter evaluates the record text against the rule engine.
type BlocklistFilter struct {
	engine blockrules.Engine
}

func NewBlocklistFilter(engine blockrules.Engine) *BlocklistFilter {
	return &BlocklistFilter{engine: engine}
}

func (f *BlocklistFilter) Name() string { return "blocklist" }

func (f *BlocklistFilter) Process(ctx context.Context, fc *FilterContext) error {
	// Records without a text field are never spam
	if !fc.HasText || fc.Text == "" {
		fc.Verdict = api.VerdictKeep
		return nil
	}

	input := &blockrules.EvalInput{
		Text:   fc.Text,
		Source: fc.Source,
		Record: fc.Raw,
	}

	result, err := f.engine.Evaluate(ctx, input)
	if err != nil {
		// Rule trouble degrades to pass-through, never to removal
		fc.Verdict = api.VerdictKeep
		fc.VerdictMessage = "rule engine error: " + err.Error()
		return nil
	}

	fc.Verdict = result.Verdict
	fc.MatchedPattern = result.Pattern
	fc.VerdictMessage = result.Message

	return nil
}
