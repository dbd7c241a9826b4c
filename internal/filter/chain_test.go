package filter

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"

	"github.com/sifthq/chatsift/api"
	"github.com/sifthq/chatsift/internal/blockrules"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestChain(patterns []string) *Chain {
	engine := blockrules.NewSubstringEngineFromRules(&blockrules.RuleFile{
		Version:  1,
		Patterns: patterns,
	})
	return NewChain(newTestLogger(),
		NewParseFilter(nil),
		NewBlocklistFilter(engine),
	)
}

func TestFilterChain_DropsSpam(t *testing.T) {
	chain := newTestChain([]string{"!drop"})

	raw := json.RawMessage(`{"user":"bob","msg":"!DROP plz"}`)
	fc := NewFilterContext(raw, 0, "https://x/chat", api.TransportProxy)
	if err := chain.Process(context.Background(), fc); err != nil {
		t.Fatal(err)
	}
	if fc.Verdict != api.VerdictDrop {
		t.Errorf("expected drop, got %s", fc.Verdict)
	}
	if fc.MatchedPattern != "!drop" {
		t.Errorf("expected pattern !drop, got %q", fc.MatchedPattern)
	}
	if fc.Text != "!DROP plz" {
		t.Errorf("expected extracted text, got %q", fc.Text)
	}
}

func TestFilterChain_KeepsClean(t *testing.T) {
	chain := newTestChain([]string{"!drop"})

	raw := json.RawMessage(`{"user":"alice","msg":"hello"}`)
	fc := NewFilterContext(raw, 0, "https://x/chat", api.TransportProxy)
	if err := chain.Process(context.Background(), fc); err != nil {
		t.Fatal(err)
	}
	if fc.Verdict != api.VerdictKeep {
		t.Errorf("expected keep, got %s", fc.Verdict)
	}
}

func TestFilterChain_KeepsTextlessRecord(t *testing.T) {
	chain := newTestChain([]string{"!drop"})

	raw := json.RawMessage(`{"other":1}`)
	fc := NewFilterContext(raw, 0, "https://x/chat", api.TransportProxy)
	if err := chain.Process(context.Background(), fc); err != nil {
		t.Fatal(err)
	}
	if fc.HasText {
		t.Error("expected no text field")
	}
	if fc.Verdict != api.VerdictKeep {
		t.Errorf("expected keep for textless record, got %s", fc.Verdict)
	}
}

func TestFilterContext_ToFilterRecord(t *testing.T) {
	raw := json.RawMessage(`{"msg":"!drop plz"}`)
	fc := NewFilterContext(raw, 3, "https://x/chat/history", api.TransportClient)
	fc.Text = "!drop plz"
	fc.Verdict = api.VerdictDrop
	fc.MatchedPattern = "!drop"

	record := fc.ToFilterRecord()
	if record.Transport != api.TransportClient {
		t.Errorf("expected transport client, got %s", record.Transport)
	}
	if record.Source != "https://x/chat/history" {
		t.Errorf("unexpected source %q", record.Source)
	}
	if record.Verdict != api.VerdictDrop {
		t.Errorf("expected verdict drop, got %s", record.Verdict)
	}
	if record.Pattern != "!drop" {
		t.Errorf("expected pattern !drop, got %q", record.Pattern)
	}
	if record.RawSize != len(raw) {
		t.Errorf("expected raw size %d, got %d", len(raw), record.RawSize)
	}
}
