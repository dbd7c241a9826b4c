package dashboard

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/sifthq/chatsift/api"
	"github.com/sifthq/chatsift/internal/audit"
	"github.com/sifthq/chatsift/internal/blockrules"
)

func testServer(t *testing.T) *Server {
	t.Helper()
	store, err := audit.NewJSONLStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { store.Close() })

	engine := blockrules.NewSubstringEngineFromRules(&blockrules.RuleFile{
		Version:  1,
		Patterns: []string{"!drop"},
	})
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return NewServer(":0", store, engine, logger)
}

func TestOverviewPage(t *testing.T) {
	s := testServer(t)
	req := httptest.NewRequest("GET", "/", nil)
	w := httptest.NewRecorder()
	s.mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "ChatSift") {
		t.Error("expected page to contain 'ChatSift'")
	}
}

func TestDropsPage(t *testing.T) {
	s := testServer(t)

	s.auditStore.Write(context.Background(), &api.FilterRecord{
		Timestamp: time.Now(),
		Transport: api.TransportProxy,
		Source:    "https://x/chat/history",
		Verdict:   api.VerdictDrop,
		Pattern:   "!drop",
	})

	req := httptest.NewRequest("GET", "/drops", nil)
	w := httptest.NewRecorder()
	s.mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Drop Log") {
		t.Error("expected page to contain 'Drop Log'")
	}
}

func TestPatternsPage(t *testing.T) {
	s := testServer(t)
	req := httptest.NewRequest("GET", "/patterns", nil)
	w := httptest.NewRecorder()
	s.mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Blocked Patterns") {
		t.Error("expected page to contain 'Blocked Patterns'")
	}
}

func TestAPIStats(t *testing.T) {
	s := testServer(t)
	req := httptest.NewRequest("GET", "/api/v1/stats", nil)
	w := httptest.NewRecorder()
	s.mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}

	var stats api.FilterStats
	if err := json.NewDecoder(w.Body).Decode(&stats); err != nil {
		t.Fatal(err)
	}
}

func TestAPICheck(t *testing.T) {
	s := testServer(t)

	body := `{"text":"please !DROP this"}`
	req := httptest.NewRequest("POST", "/api/v1/check", strings.NewReader(body))
	w := httptest.NewRecorder()
	s.mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}

	var resp api.CheckResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if resp.Verdict != api.VerdictDrop {
		t.Errorf("expected drop, got %s", resp.Verdict)
	}
	if resp.Pattern != "!drop" {
		t.Errorf("expected pattern !drop, got %q", resp.Pattern)
	}
}

func TestAPICheck_Keep(t *testing.T) {
	s := testServer(t)

	body := `{"text":"hello there"}`
	req := httptest.NewRequest("POST", "/api/v1/check", strings.NewReader(body))
	w := httptest.NewRecorder()
	s.mux.ServeHTTP(w, req)

	var resp api.CheckResponse
	json.NewDecoder(w.Body).Decode(&resp)
	if resp.Verdict != api.VerdictKeep {
		t.Errorf("expected keep, got %s", resp.Verdict)
	}
}
