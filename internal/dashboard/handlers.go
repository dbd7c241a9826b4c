package dashboard

import (
	"context"
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"
	"strings"
	"time"

	"github.com/sifthq/chatsift/api"
	"github.com/sifthq/chatsift/internal/blockrules"
)

func (s *Server) handleOverview(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	stats, err := s.auditStore.Stats(r.Context())
	if err != nil {
		http.Error(w, "failed to get stats", http.StatusInternalServerError)
		return
	}

	data := map[string]any{
		"Page":  "overview",
		"Stats": stats,
	}
	renderPage(w, "overview", data)
}

func (s *Server) handleDrops(w http.ResponseWriter, r *http.Request) {
	records, err := s.auditStore.Query(r.Context(), api.QueryFilter{
		Verdict: api.VerdictDrop,
		Limit:   100,
	})
	if err != nil {
		http.Error(w, "failed to query drop log", http.StatusInternalServerError)
		return
	}

	// Reverse to show newest first
	for i, j := 0, len(records)-1; i < j; i, j = i+1, j-1 {
		records[i], records[j] = records[j], records[i]
	}

	data := map[string]any{
		"Page":    "drops",
		"Records": records,
	}
	renderPage(w, "drops", data)
}

func (s *Server) handleDropStream(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming not supported", http.StatusInternalServerError)
		return
	}

	ch, cancel := s.auditStore.Subscribe(r.Context())
	defer cancel()

	for {
		select {
		case record, ok := <-ch:
			if !ok {
				return
			}
			if record.Verdict != api.VerdictDrop {
				continue
			}
			html := renderDropRow(record)
			fmt.Fprintf(w, "event: drop\ndata: %s\n\n", html)
			flusher.Flush()
		case <-r.Context().Done():
			return
		}
	}
}

func (s *Server) handlePatterns(w http.ResponseWriter, r *http.Request) {
	rf := s.engine.Rules()
	rulesYAML, _ := yamlMarshal(rf)

	data := map[string]any{
		"Page":      "patterns",
		"RulesYAML": rulesYAML,
		"Patterns":  rf.Patterns,
	}
	renderPage(w, "patterns", data)
}

func (s *Server) handleAPIStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.auditStore.Stats(r.Context())
	if err != nil {
		http.Error(w, "failed to get stats", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(stats)
}

func (s *Server) handleAPICheck(w http.ResponseWriter, r *http.Request) {
	var req api.CheckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	input := &blockrules.EvalInput{Text: req.Text}

	result, err := s.engine.Evaluate(context.Background(), input)
	if err != nil {
		http.Error(w, "evaluation error: "+err.Error(), http.StatusInternalServerError)
		return
	}

	resp := api.CheckResponse{
		Verdict: result.Verdict,
		Pattern: result.Pattern,
		Message: result.Message,
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

func renderDropRow(record *api.FilterRecord) string {
	return fmt.Sprintf(
		`<tr class="border-b border-gray-700 hover:bg-gray-800"><td class="px-4 py-2 text-gray-400 text-xs">%s</td><td class="px-4 py-2">%s</td><td class="px-4 py-2 font-mono text-sm">%s</td><td class="px-4 py-2"><span class="px-2 py-1 rounded text-xs font-bold bg-red-900 text-red-300">%s</span></td><td class="px-4 py-2 text-gray-400 text-xs">%d B</td></tr>`,
		record.Timestamp.Format(time.RFC3339),
		escapeHTML(string(record.Transport)),
		escapeHTML(truncate(record.Source, 80)),
		escapeHTML(strings.ToUpper(record.Pattern)),
		record.RawSize,
	)
}

func truncate(s string, max int) string {
	if len(s) > max {
		return s[:max] + "..."
	}
	return s
}

func escapeHTML(s string) string {
	return template.HTMLEscapeString(s)
}
