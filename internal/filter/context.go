package filter

import (
	"encoding/json"
	"time"

	"github.com/sifthq/chatsift/api"
)

// FilterContext carries all metadata through the filter chain for a single
// chat record.
type FilterContext struct {
	// Raw is the original raw JSON bytes of the record. It is never
	// mutated; retained records republish these bytes unchanged.
	Raw json.RawMessage

	// Index is the record's position in its response body.
	Index int

	// Source is the target address the response was fetched from.
	Source string

	// Transport identifies the interception surface handling the record.
	Transport api.Transport

	// Text is the record's message text (extracted by ParseFilter).
	Text string

	// HasText indicates whether a text field was present at all.
	HasText bool

	// Verdict is set by the BlocklistFilter after evaluation.
	Verdict api.Verdict

	// MatchedPattern is the blocked pattern that matched, if any.
	MatchedPattern string

	// VerdictMessage is the human-readable note from the rule engine.
	VerdictMessage string

	// StartTime records when the record entered the pipeline.
	StartTime time.Time
}

// NewFilterContext creates a new FilterContext for a raw record.
func NewFilterContext(raw json.RawMessage, index int, source string, transport api.Transport) *FilterContext {
	return &FilterContext{
		Raw:       raw,
		Index:     index,
		Source:    source,
		Transport: transport,
		Verdict:   api.VerdictKeep,
		StartTime: time.Now(),
	}
}

// ToFilterRecord converts the filter context into an audit record.
func (fc *FilterContext) ToFilterRecord() *api.FilterRecord {
	return &api.FilterRecord{
		Timestamp: fc.StartTime,
		Transport: fc.Transport,
		Source:    fc.Source,
		Verdict:   fc.Verdict,
		Pattern:   fc.MatchedPattern,
		TextSize:  len(fc.Text),
		RawSize:   len(fc.Raw),
		Duration:  time.Since(fc.StartTime),
	}
}
