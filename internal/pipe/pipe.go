// Package pipe provides the line-oriented interception surface: an NDJSON
// stream of chat records, one record per line, with blocked records
// dropped from the stream.
package pipe

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/sifthq/chatsift/api"
	"github.com/sifthq/chatsift/internal/sift"
)

// Pipe filters an NDJSON record stream through the sift engine.
type Pipe struct {
	engine *sift.Engine
	logger *slog.Logger
	source string

	// stream endpoints for Run; default to the process stdio
	in  io.Reader
	out io.Writer
}

// NewPipe creates a pipe over the given engine. Source labels the stream
// in logs and audit records.
func NewPipe(engine *sift.Engine, logger *slog.Logger, source string) *Pipe {
	if source == "" {
		source = "stdin"
	}
	return &Pipe{
		engine: engine,
		logger: logger,
		source: source,
		in:     os.Stdin,
		out:    os.Stdout,
	}
}

// Run spawns the feed subprocess and bridges stdin/stdout, filtering the
// subprocess output line by line.
func (p *Pipe) Run(ctx context.Context, command string, args []string) error {
	proc, err := StartProcess(command, args)
	if err != nil {
		return err
	}
	defer func() {
		_ = proc.Kill()
	}()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Our stdin → subprocess stdin, untouched: the pipe only ever
	// rewrites what the feed emits, never what the caller sends.
	// Stdin running dry is not terminal; the feed keeps emitting after
	// its stdin closes, so only the filtered leg decides when we stop.
	go func() {
		_, _ = io.Copy(proc.Stdin(), p.in)
		proc.Stdin().Close()
	}()

	// Subprocess stdout → filter → our stdout
	outCh := make(chan error, 1)
	go func() {
		outCh <- p.FilterStream(ctx, proc.Stdout(), p.out)
	}()

	select {
	case err := <-outCh:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// FilterStream reads NDJSON records from src and forwards the survivors to
// dst. Lines that are not valid JSON forward unchanged; a broken line must
// never block the rest of the stream.
func (p *Pipe) FilterStream(ctx context.Context, src io.Reader, dst io.Writer) error {
	scanner := bufio.NewScanner(src)
	scanner.Buffer(make([]byte, 0, 1024*1024), 10*1024*1024) // 10MB max record

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		if !json.Valid(line) {
			p.logger.Warn("record line not parseable, passing through", "source", p.source)
			if err := writeLine(dst, line); err != nil {
				return err
			}
			continue
		}

		kept, sum := p.engine.FilterRecords(ctx, api.TransportPipe, p.source, []json.RawMessage{line})
		if sum.Dropped > 0 {
			continue
		}
		for _, record := range kept {
			if err := writeLine(dst, record); err != nil {
				return err
			}
		}
	}

	return scanner.Err()
}

func writeLine(w io.Writer, line []byte) error {
	if _, err := w.Write(line); err != nil {
		return fmt.Errorf("writing record: %w", err)
	}
	if _, err := w.Write([]byte("\n")); err != nil {
		return fmt.Errorf("writing newline: %w", err)
	}
	return nil
}
