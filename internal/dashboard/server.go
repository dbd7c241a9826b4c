package dashboard

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/sifthq/chatsift/internal/audit"
	"github.com/sifthq/chatsift/internal/blockrules"
)

// Server is the web dashboard HTTP server.
type Server struct {
	mux        *http.ServeMux
	logger     *slog.Logger
	auditStore audit.Store
	engine     *blockrules.SubstringEngine
	addr       string
}

// NewServer creates a new dashboard server.
func NewServer(addr string, store audit.Store, engine *blockrules.SubstringEngine, logger *slog.Logger) *Server {
	s := &Server{
		mux:        http.NewServeMux(),
		logger:     logger,
		auditStore: store,
		engine:     engine,
		addr:       addr,
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /", s.handleOverview)
	s.mux.HandleFunc("GET /drops", s.handleDrops)
	s.mux.HandleFunc("GET /drops/stream", s.handleDropStream)
	s.mux.HandleFunc("GET /patterns", s.handlePatterns)
	s.mux.HandleFunc("GET /api/v1/stats", s.handleAPIStats)
	s.mux.HandleFunc("POST /api/v1/check", s.handleAPICheck)
}

// ListenAndServe starts the dashboard HTTP server.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.addr,
		Handler: s.mux,
	}

	go func() {
		<-ctx.Done()
		srv.Close()
	}()

	s.logger.Info("starting dashboard", "addr", s.addr)
	return srv.ListenAndServe()
}

// Handler returns the HTTP handler for embedding in other servers.
func (s *Server) Handler() http.Handler {
	return s.mux
}
