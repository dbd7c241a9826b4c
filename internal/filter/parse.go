package filter

import (
	"context"

	"github.com/sifthq/chatsift/internal/feed"
)

// ParseFilter extracts the message text from the raw record.
type ParseFilter struct {
	fields []string
}

// NewParseFilter creates a ParseFilter searching the given candidate text
// field paths in order. An empty list falls back to feed.DefaultTextFields.
func NewParseFilter(fields []string) *ParseFilter {
	return &ParseFilter{fields: fields}
}

func (f *ParseFilter) Name() string { return "parse" }

func (f *ParseFilter) Process(_ context.Context, fc *FilterContext) error {
	fc.Text, fc.HasText = feed.ExtractText(fc.Raw, f.fields)
	return nil
}
