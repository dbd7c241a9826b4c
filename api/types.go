package api

import "time"

// Verdict represents the outcome of evaluating a single chat record.
type Verdict string

const (
	VerdictKeep Verdict = "keep"
	VerdictDrop Verdict = "drop"
)

// Transport identifies which interception surface handled a record.
type Transport string

const (
	TransportProxy  Transport = "proxy"  // reverse proxy in front of the feed
	TransportClient Transport = "client" // http.Client round-tripper middleware
	TransportPipe   Transport = "pipe"   // NDJSON line filter
)

// FilterRecord represents a single audited filtering decision.
type FilterRecord struct {
	ID        string        `json:"id"`
	Timestamp time.Time     `json:"timestamp"`
	Transport Transport     `json:"transport,omitempty"`
	Source    string        `json:"source,omitempty"`
	Verdict   Verdict       `json:"verdict"`
	Pattern   string        `json:"pattern,omitempty"`
	TextSize  int           `json:"text_size,omitempty"`
	RawSize   int           `json:"raw_size,omitempty"`
	Duration  time.Duration `json:"duration,omitempty"`
}

// CheckRequest is used by the CLI `check` command and the dashboard API.
type CheckRequest struct {
	Text string `json:"text"`
}

// CheckResponse is the result of a rule check against a single message text.
type CheckResponse struct {
	Verdict Verdict `json:"verdict"`
	Pattern string  `json:"pattern,omitempty"`
	Message string  `json:"message,omitempty"`
}
