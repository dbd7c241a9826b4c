package api

import "time"

// QueryFilter defines criteria for querying filter records.
type QueryFilter struct {
	Since     time.Time `json:"since,omitempty"`
	Until     time.Time `json:"until,omitempty"`
	Transport Transport `json:"transport,omitempty"`
	Source    string    `json:"source,omitempty"`
	Verdict   Verdict   `json:"verdict,omitempty"`
	Pattern   string    `json:"pattern,omitempty"`
	Limit     int       `json:"limit,omitempty"`
	Offset    int       `json:"offset,omitempty"`
}

// FilterStats provides summary statistics for the dashboard.
type FilterStats struct {
	TotalRecords int            `json:"total_records"`
	KeptCount    int            `json:"kept_count"`
	DroppedCount int            `json:"dropped_count"`
	ByPattern    map[string]int `json:"by_pattern"`
	BySource     map[string]int `json:"by_source"`
}
