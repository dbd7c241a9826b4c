package audit

import (
	"context"

	"github.com/sifthq/chatsift/api"
)

// Store defines the interface for filter record persistence and retrieval.
type Store interface {
	// Write appends a filter record.
	Write(ctx context.Context, record *api.FilterRecord) error

	// Query retrieves filter records matching the filter.
	Query(ctx context.Context, filter api.QueryFilter) ([]*api.FilterRecord, error)

	// Stats returns aggregate statistics.
	Stats(ctx context.Context) (*api.FilterStats, error)

	// Subscribe returns a channel that receives new filter records in real
	// time. The returned function cancels the subscription.
	Subscribe(ctx context.Context) (<-chan *api.FilterRecord, func())

	// Close shuts down the store and flushes any buffers.
	Close() error
}
