// Package proxy provides the server-side interception surface: a reverse
// proxy in front of the chat backend that rewrites feed responses in
// flight.
package proxy

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strconv"
	"strings"

	"github.com/sifthq/chatsift/api"
	"github.com/sifthq/chatsift/internal/sift"
)

// Proxy is an HTTP reverse proxy that filters chat feed responses.
type Proxy struct {
	target       *url.URL
	reverseProxy *httputil.ReverseProxy
	engine       *sift.Engine
	logger       *slog.Logger
}

// NewProxy creates a new filtering proxy targeting the given base URL.
func NewProxy(target string, engine *sift.Engine, logger *slog.Logger) (*Proxy, error) {
	u, err := url.Parse(target)
	if err != nil {
		return nil, fmt.Errorf("invalid target URL: %w", err)
	}

	p := &Proxy{
		target: u,
		engine: engine,
		logger: logger,
	}

	rp := &httputil.ReverseProxy{
		Director:       p.director,
		ModifyResponse: p.modifyResponse,
		ErrorHandler:   p.errorHandler,
	}
	p.reverseProxy = rp

	return p, nil
}

// ServeHTTP handles incoming HTTP requests.
func (p *Proxy) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	p.reverseProxy.ServeHTTP(w, r)
}

func (p *Proxy) director(req *http.Request) {
	req.URL.Scheme = p.target.Scheme
	req.URL.Host = p.target.Host
	req.Host = p.target.Host

	// Bodies must arrive unencoded to be rewritten
	if p.engine.MatchesFeed(req.URL.String()) {
		req.Header.Del("Accept-Encoding")
	}
}

func (p *Proxy) modifyResponse(resp *http.Response) error {
	source := resp.Request.URL.String()
	if !p.engine.MatchesFeed(source) {
		return nil
	}

	if strings.HasPrefix(resp.Header.Get("Content-Type"), "text/event-stream") {
		// SSE responses are streamed, not buffered bodies
		p.logger.Debug("SSE feed stream opened", "status", resp.StatusCode)
		return nil
	}
	if resp.Header.Get("Content-Encoding") != "" {
		p.logger.Debug("feed response is content-encoded, passing through",
			"source", source,
			"encoding", resp.Header.Get("Content-Encoding"),
		)
		return nil
	}

	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return fmt.Errorf("reading feed response body: %w", err)
	}

	newBody, _, rewritten := p.engine.RewriteBody(resp.Request.Context(), api.TransportProxy, source, body)
	if !rewritten {
		newBody = body
	}

	resp.Body = io.NopCloser(bytes.NewReader(newBody))
	resp.ContentLength = int64(len(newBody))
	if resp.Header.Get("Content-Length") != "" {
		resp.Header.Set("Content-Length", strconv.Itoa(len(newBody)))
	}

	return nil
}

func (p *Proxy) errorHandler(w http.ResponseWriter, r *http.Request, err error) {
	p.logger.Error("proxy error", "error", err, "url", r.URL.String())
	http.Error(w, "proxy error: "+err.Error(), http.StatusBadGateway)
}

// Handler returns an http.Handler for use with http.Server.
func (p *Proxy) Handler() http.Handler {
	return p
}

// ListenAndServe starts the proxy server.
func (p *Proxy) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:    addr,
		Handler: p,
	}

	go func() {
		<-ctx.Done()
		srv.Close()
	}()

	p.logger.Info("starting feed proxy",
		"listen", addr,
		"target", p.target.String(),
	)

	return srv.ListenAndServe()
}
