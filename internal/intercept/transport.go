// Package intercept provides the client-side interception surface: an
// http.RoundTripper middleware that rewrites chat feed responses before
// the caller observes them. It replaces patching process-wide transport
// globals with an explicit registration on one client value.
package intercept

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/sifthq/chatsift/api"
	"github.com/sifthq/chatsift/internal/sift"
)

// Transport is an http.RoundTripper that filters chat feed responses.
// Responses to non-feed addresses pass through untouched.
type Transport struct {
	base   http.RoundTripper
	engine *sift.Engine
	logger *slog.Logger
}

// NewTransport wraps base with the feed filter. A nil base uses
// http.DefaultTransport.
func NewTransport(base http.RoundTripper, engine *sift.Engine, logger *slog.Logger) *Transport {
	if base == nil {
		base = http.DefaultTransport
	}
	return &Transport{
		base:   base,
		engine: engine,
		logger: logger,
	}
}

// NewClient returns an http.Client with the feed filter installed.
func NewClient(base *http.Client, engine *sift.Engine, logger *slog.Logger) *http.Client {
	if base == nil {
		base = &http.Client{}
	}
	c := *base
	c.Transport = NewTransport(base.Transport, engine, logger)
	return &c
}

// RoundTrip performs the request and conditionally rewrites the response
// body. Status, status text, and headers are preserved; only the body (and
// its length bookkeeping) changes, and only when it decodes as a record
// sequence. Filter trouble never fails the request.
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}

	if !t.engine.MatchesFeed(req.URL.String()) {
		return resp, nil
	}

	// Encoded bodies can't be parsed here; leave them to the caller.
	if resp.Header.Get("Content-Encoding") != "" {
		t.logger.Debug("feed response is content-encoded, passing through",
			"url", req.URL.String(),
			"encoding", resp.Header.Get("Content-Encoding"),
		)
		return resp, nil
	}

	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return nil, fmt.Errorf("reading feed response body: %w", err)
	}

	newBody, _, rewritten := t.engine.RewriteBody(req.Context(), api.TransportClient, req.URL.String(), body)
	if !rewritten {
		newBody = body
	}

	resp.Body = io.NopCloser(bytes.NewReader(newBody))
	resp.ContentLength = int64(len(newBody))
	if resp.Header.Get("Content-Length") != "" {
		resp.Header.Set("Content-Length", strconv.Itoa(len(newBody)))
	}

	return resp, nil
}
