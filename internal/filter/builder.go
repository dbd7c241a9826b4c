package filter

import (
	"log/slog"

	"github.com/sifthq/chatsift/internal/audit"
	"github.com/sifthq/chatsift/internal/blockrules"
)

// ChainConfig holds the configuration for building the record filter chain.
type ChainConfig struct {
	Engine     blockrules.Engine
	AuditStore audit.Store
	TextFields []string
	Logger     *slog.Logger
}

// BuildChain constructs the per-record filter chain shared by all
// transports: parse, blocklist, then audit.
func BuildChain(cfg ChainConfig) *Chain {
	filters := []Filter{
		NewParseFilter(cfg.TextFields),
		NewBlocklistFilter(cfg.Engine),
	}

	// Audit is always last so it sees the final verdict
	if cfg.AuditStore != nil {
		filters = append(filters, NewAuditFilter(cfg.AuditStore))
	}

	return NewChain(cfg.Logger, filters...)
}
