package pipe

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/sifthq/chatsift/internal/blockrules"
	"github.com/sifthq/chatsift/internal/filter"
	"github.com/sifthq/chatsift/internal/sift"
)

func newTestPipe(patterns []string) *Pipe {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	engine := blockrules.NewSubstringEngineFromRules(&blockrules.RuleFile{
		Version:  1,
		Patterns: patterns,
	})
	chain := filter.BuildChain(filter.ChainConfig{
		Engine: engine,
		Logger: logger,
	})
	return NewPipe(sift.NewEngine(chain, []string{"chat"}, logger), logger, "test")
}

func TestFilterStream_DropsBlockedRecords(t *testing.T) {
	p := newTestPipe([]string{"!drop"})

	in := strings.Join([]string{
		`{"user":"alice","msg":"hello"}`,
		`{"user":"bob","msg":"!drop plz"}`,
		`{"user":"carol","msg":"!DROP NOW"}`,
		`{"other":1}`,
	}, "\n") + "\n"

	var out bytes.Buffer
	if err := p.FilterStream(context.Background(), strings.NewReader(in), &out); err != nil {
		t.Fatal(err)
	}

	want := `{"user":"alice","msg":"hello"}` + "\n" + `{"other":1}` + "\n"
	if out.String() != want {
		t.Errorf("unexpected output:\ngot:  %q\nwant: %q", out.String(), want)
	}
}

func TestFilterStream_ForwardsInvalidLines(t *testing.T) {
	p := newTestPipe([]string{"!drop"})

	in := "not json at all\n" + `{"msg":"hi"}` + "\n"
	var out bytes.Buffer
	if err := p.FilterStream(context.Background(), strings.NewReader(in), &out); err != nil {
		t.Fatal(err)
	}

	want := "not json at all\n" + `{"msg":"hi"}` + "\n"
	if out.String() != want {
		t.Errorf("invalid line should forward unchanged:\ngot:  %q\nwant: %q", out.String(), want)
	}
}

func TestFilterStream_SkipsEmptyLines(t *testing.T) {
	p := newTestPipe(nil)

	in := "\n\n" + `{"msg":"hi"}` + "\n\n"
	var out bytes.Buffer
	if err := p.FilterStream(context.Background(), strings.NewReader(in), &out); err != nil {
		t.Fatal(err)
	}

	if out.String() != `{"msg":"hi"}`+"\n" {
		t.Errorf("unexpected output: %q", out.String())
	}
}

func TestFilterStream_NoPatternsKeepsEverything(t *testing.T) {
	p := newTestPipe(nil)

	in := `{"msg":"!drop plz"}` + "\n"
	var out bytes.Buffer
	if err := p.FilterStream(context.Background(), strings.NewReader(in), &out); err != nil {
		t.Fatal(err)
	}

	if out.String() != in {
		t.Errorf("unexpected output: %q", out.String())
	}
}

func TestRun_SurvivesStdinEOF(t *testing.T) {
	p := newTestPipe([]string{"!drop"})
	var out bytes.Buffer
	p.in = strings.NewReader("")
	p.out = &out

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Stdin is already at EOF; the feed emits only after a delay. The
	// record must still come through.
	err := p.Run(ctx, "sh", []string{"-c", `sleep 0.3; echo '{"msg":"hello"}'; echo '{"msg":"!drop plz"}'`})
	if err != nil {
		t.Fatal(err)
	}

	if out.String() != `{"msg":"hello"}`+"\n" {
		t.Errorf("unexpected output after stdin EOF: %q", out.String())
	}
}

func TestNewPipe_DefaultSource(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	p := NewPipe(nil, logger, "")
	if p.source != "stdin" {
		t.Errorf("expected default source stdin, got %q", p.source)
	}
}
