package filter

import (
	"context"

	"github.com/sifthq/chatsift/internal/audit"
)

// AuditFilter writes an audit record for every processed chat record.
type AuditFilter struct {
	store audit.Store
}

func NewAuditFilter(store audit.Store) *AuditFilter {
	return &AuditFilter{store: store}
}

func (f *AuditFilter) Name() string { return "audit" }

func (f *AuditFilter) Process(ctx context.Context, fc *FilterContext) error {
	record := fc.ToFilterRecord()
	return f.store.Write(ctx, record)
}
