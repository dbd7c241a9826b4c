// Package sift holds the response-level filtering logic shared by all
// transports: decide whether an address is a chat feed, filter its record
// sequence, and re-encode the survivors.
package sift

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"github.com/sifthq/chatsift/api"
	"github.com/sifthq/chatsift/internal/feed"
	"github.com/sifthq/chatsift/internal/filter"
)

// DefaultFeedMarkers are the address substrings that mark a chat feed.
var DefaultFeedMarkers = []string{"chat"}

// Summary describes the outcome of filtering one response body.
type Summary struct {
	Total    int
	Kept     int
	Dropped  int
	Duration time.Duration
}

// Engine applies the record filter chain to whole response bodies. It holds
// no per-call state; concurrent responses are filtered independently.
type Engine struct {
	chain   *filter.Chain
	markers []string
	logger  *slog.Logger
}

// NewEngine creates an Engine over the given chain. Markers are matched
// case-insensitively; an empty list falls back to DefaultFeedMarkers.
func NewEngine(chain *filter.Chain, markers []string, logger *slog.Logger) *Engine {
	if len(markers) == 0 {
		markers = DefaultFeedMarkers
	}
	lowered := make([]string, len(markers))
	for i, m := range markers {
		lowered[i] = strings.ToLower(m)
	}
	return &Engine{
		chain:   chain,
		markers: lowered,
		logger:  logger,
	}
}

// MatchesFeed reports whether the target address names a chat feed. Only
// matching addresses have their bodies parsed at all.
func (e *Engine) MatchesFeed(target string) bool {
	t := strings.ToLower(target)
	for _, m := range e.markers {
		if strings.Contains(t, m) {
			return true
		}
	}
	return false
}

// FilterRecords returns the order-preserving subsequence of records that
// survive the filter chain. Retained records keep their original bytes.
// Chain trouble on a record keeps that record; filtering never invents a
// failure the caller has to handle.
func (e *Engine) FilterRecords(ctx context.Context, transport api.Transport, source string, records []json.RawMessage) ([]json.RawMessage, Summary) {
	start := time.Now()
	kept := make([]json.RawMessage, 0, len(records))

	for i, raw := range records {
		fc := filter.NewFilterContext(raw, i, source, transport)
		if err := e.chain.Process(ctx, fc); err != nil {
			e.logger.Error("filter chain error", "source", source, "index", i, "error", err)
			kept = append(kept, raw)
			continue
		}
		if fc.Verdict == api.VerdictDrop {
			e.logger.Debug("record dropped",
				"source", source,
				"index", i,
				"pattern", fc.MatchedPattern,
			)
			continue
		}
		kept = append(kept, raw)
	}

	sum := Summary{
		Total:    len(records),
		Kept:     len(kept),
		Dropped:  len(records) - len(kept),
		Duration: time.Since(start),
	}
	return kept, sum
}

// RewriteBody filters a whole response body. The third return reports
// whether a rewrite happened: a body that is not a record sequence (or a
// kept-everything result that fails to re-encode) passes through unchanged
// with only a diagnostic logged.
func (e *Engine) RewriteBody(ctx context.Context, transport api.Transport, source string, body []byte) ([]byte, Summary, bool) {
	records, err := feed.Decode(body)
	if err != nil {
		e.logger.Warn("feed body not parseable, passing through",
			"source", source,
			"error", err,
		)
		return body, Summary{}, false
	}

	kept, sum := e.FilterRecords(ctx, transport, source, records)

	encoded, err := feed.Encode(kept)
	if err != nil {
		e.logger.Warn("re-encoding filtered feed failed, passing through",
			"source", source,
			"error", err,
		)
		return body, sum, false
	}

	if sum.Dropped > 0 {
		e.logger.Info("feed filtered",
			"source", source,
			"total", sum.Total,
			"dropped", sum.Dropped,
		)
	}
	return encoded, sum, true
}
