package intercept

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sifthq/chatsift/internal/blockrules"
	"github.com/sifthq/chatsift/internal/filter"
	"github.com/sifthq/chatsift/internal/sift"
)

func newTestSifter(patterns []string) (*sift.Engine, *slog.Logger) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	engine := blockrules.NewSubstringEngineFromRules(&blockrules.RuleFile{
		Version:  1,
		Patterns: patterns,
	})
	chain := filter.BuildChain(filter.ChainConfig{
		Engine: engine,
		Logger: logger,
	})
	return sift.NewEngine(chain, []string{"chat"}, logger), logger
}

func newBackend(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/chat/history", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("X-Feed-Version", "7")
		w.Write([]byte(`[{"msg":"hello"},{"msg":"!drop plz"},{"msg":"!DROP now"},{"other":1}]`))
	})
	mux.HandleFunc("/chat/status", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"ok":true}`))
	})
	mux.HandleFunc("/lobby", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"msg":"!drop plz"}]`))
	})
	return httptest.NewServer(mux)
}

func TestTransport_FiltersFeedResponse(t *testing.T) {
	backend := newBackend(t)
	defer backend.Close()

	sifter, logger := newTestSifter([]string{"!drop"})
	client := NewClient(nil, sifter, logger)

	resp, err := client.Get(backend.URL + "/chat/history")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	if string(body) != `[{"msg":"hello"},{"other":1}]` {
		t.Errorf("unexpected body: %s", body)
	}
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200, got %d", resp.StatusCode)
	}
	if resp.Header.Get("Content-Type") != "application/json" {
		t.Errorf("content type not preserved: %q", resp.Header.Get("Content-Type"))
	}
	if resp.Header.Get("X-Feed-Version") != "7" {
		t.Error("custom header not preserved")
	}
	if resp.ContentLength != int64(len(body)) {
		t.Errorf("content length %d does not match body %d", resp.ContentLength, len(body))
	}
}

func TestTransport_NonFeedPassthrough(t *testing.T) {
	backend := newBackend(t)
	defer backend.Close()

	sifter, logger := newTestSifter([]string{"!drop"})
	client := NewClient(nil, sifter, logger)

	// Address has no feed marker: blocked pattern survives untouched
	resp, err := client.Get(backend.URL + "/lobby")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if string(body) != `[{"msg":"!drop plz"}]` {
		t.Errorf("expected untouched body, got %s", body)
	}
}

func TestTransport_MalformedFeedBody(t *testing.T) {
	backend := newBackend(t)
	defer backend.Close()

	sifter, logger := newTestSifter([]string{"!drop"})
	client := NewClient(nil, sifter, logger)

	// Feed address but body is not a record sequence
	resp, err := client.Get(backend.URL + "/chat/status")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if string(body) != `{"ok":true}` {
		t.Errorf("expected pass-through body, got %s", body)
	}
}

func TestNewClient_DoesNotMutateBase(t *testing.T) {
	sifter, logger := newTestSifter(nil)
	base := &http.Client{}
	client := NewClient(base, sifter, logger)

	if base.Transport != nil {
		t.Error("base client transport was mutated")
	}
	if client.Transport == nil {
		t.Error("expected interceptor installed on returned client")
	}
}
