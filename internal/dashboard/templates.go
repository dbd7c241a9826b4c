package dashboard

import (
	"bytes"
	"html/template"
	"net/http"
	"strings"

	"gopkg.in/yaml.v3"
)

var funcMap = template.FuncMap{
	"upper": strings.ToUpper,
}

var pageTmpls = map[string]*template.Template{
	"overview": template.Must(template.New("overview").Funcs(funcMap).Parse(navHTML + overviewHTML)),
	"drops":    template.Must(template.New("drops").Funcs(funcMap).Parse(navHTML + dropsHTML)),
	"patterns": template.Must(template.New("patterns").Funcs(funcMap).Parse(navHTML + patternsHTML)),
}

func renderPage(w http.ResponseWriter, name string, data map[string]any) {
	tmpl, ok := pageTmpls[name]
	if !ok {
		http.Error(w, "unknown page: "+name, http.StatusInternalServerError)
		return
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		http.Error(w, "template error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	buf.WriteTo(w)
}

func yamlMarshal(v any) (string, error) {
	data, err := yaml.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

const navHTML = `{{define "nav"}}
<nav class="bg-gray-900 border-b border-gray-700 px-6 py-4">
    <div class="flex items-center justify-between max-w-7xl mx-auto">
        <div class="flex items-center space-x-2">
            <span class="text-xl font-bold text-white">ChatSift</span>
            <span class="text-xs bg-gray-700 text-gray-300 px-2 py-1 rounded">Dashboard</span>
        </div>
        <div class="flex space-x-4">
            <a href="/" class="px-3 py-2 rounded hover:bg-gray-800 {{if eq .Page "overview"}}bg-gray-800 text-white{{else}}text-gray-400{{end}}">Overview</a>
            <a href="/drops" class="px-3 py-2 rounded hover:bg-gray-800 {{if eq .Page "drops"}}bg-gray-800 text-white{{else}}text-gray-400{{end}}">Drop Log</a>
            <a href="/patterns" class="px-3 py-2 rounded hover:bg-gray-800 {{if eq .Page "patterns"}}bg-gray-800 text-white{{else}}text-gray-400{{end}}">Patterns</a>
        </div>
    </div>
</nav>
{{end}}`

const headHTML = `<!DOCTYPE html>
<html lang="en" class="dark">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>ChatSift Dashboard</title>
    <script src="https://cdn.tailwindcss.com"></script>
    <script src="https://unpkg.com/htmx.org@2.0.4"></script>
    <script src="https://unpkg.com/htmx-ext-sse@2.2.2/sse.js"></script>
    <style>body { background-color: #0f172a; color: #e2e8f0; }</style>
</head>
<body class="min-h-screen">
{{template "nav" .}}
<main class="max-w-7xl mx-auto px-6 py-8">`

const footHTML = `</main>
</body>
</html>`

const overviewHTML = headHTML + `
<h1 class="text-2xl font-bold mb-6">Overview</h1>
<div class="grid grid-cols-1 md:grid-cols-3 gap-6 mb-8">
    <div class="bg-gray-900 border border-gray-700 rounded-lg p-6">
        <div class="text-gray-400 text-sm mb-1">Records Seen</div>
        <div class="text-3xl font-bold text-white">{{.Stats.TotalRecords}}</div>
    </div>
    <div class="bg-gray-900 border border-green-900 rounded-lg p-6">
        <div class="text-green-400 text-sm mb-1">Kept</div>
        <div class="text-3xl font-bold text-green-300">{{.Stats.KeptCount}}</div>
    </div>
    <div class="bg-gray-900 border border-red-900 rounded-lg p-6">
        <div class="text-red-400 text-sm mb-1">Dropped</div>
        <div class="text-3xl font-bold text-red-300">{{.Stats.DroppedCount}}</div>
    </div>
</div>
<div class="grid grid-cols-1 md:grid-cols-2 gap-6">
    <div class="bg-gray-900 border border-gray-700 rounded-lg p-6">
        <h2 class="text-lg font-bold mb-4">By Pattern</h2>
        {{range $pattern, $count := .Stats.ByPattern}}
        <div class="flex justify-between py-1 border-b border-gray-800">
            <span class="text-gray-300 font-mono text-sm">{{$pattern}}</span>
            <span class="text-gray-400">{{$count}}</span>
        </div>
        {{else}}<p class="text-gray-500">No data yet</p>{{end}}
    </div>
    <div class="bg-gray-900 border border-gray-700 rounded-lg p-6">
        <h2 class="text-lg font-bold mb-4">By Source</h2>
        {{range $source, $count := .Stats.BySource}}
        <div class="flex justify-between py-1 border-b border-gray-800">
            <span class="text-gray-300 font-mono text-sm">{{$source}}</span>
            <span class="text-gray-400">{{$count}}</span>
        </div>
        {{else}}<p class="text-gray-500">No data yet</p>{{end}}
    </div>
</div>
` + footHTML

const dropsHTML = headHTML + `
<div class="flex justify-between items-center mb-6">
    <h1 class="text-2xl font-bold">Drop Log</h1>
    <span class="text-sm text-gray-400">Live updates via SSE</span>
</div>
<div class="bg-gray-900 border border-gray-700 rounded-lg overflow-hidden">
    <table class="w-full text-sm text-left">
        <thead class="bg-gray-800 text-gray-400 uppercase text-xs">
            <tr>
                <th class="px-4 py-3">Time</th>
                <th class="px-4 py-3">Transport</th>
                <th class="px-4 py-3">Source</th>
                <th class="px-4 py-3">Pattern</th>
                <th class="px-4 py-3">Size</th>
            </tr>
        </thead>
        <tbody id="drop-table"
               hx-ext="sse"
               sse-connect="/drops/stream"
               sse-swap="drop"
               hx-swap="afterbegin">
            {{range .Records}}
            <tr class="border-b border-gray-700 hover:bg-gray-800">
                <td class="px-4 py-2 text-gray-400 text-xs">{{.Timestamp.Format "15:04:05"}}</td>
                <td class="px-4 py-2">{{.Transport}}</td>
                <td class="px-4 py-2 font-mono text-xs max-w-xs truncate">{{.Source}}</td>
                <td class="px-4 py-2"><span class="px-2 py-1 rounded text-xs font-bold bg-red-900 text-red-300">{{upper .Pattern}}</span></td>
                <td class="px-4 py-2 text-gray-400 text-xs">{{.RawSize}} B</td>
            </tr>
            {{end}}
        </tbody>
    </table>
</div>
` + footHTML

const patternsHTML = headHTML + `
<h1 class="text-2xl font-bold mb-6">Blocked Patterns</h1>
<div class="bg-gray-900 border border-gray-700 rounded-lg p-6 mb-6">
    {{range .Patterns}}
    <div class="py-1 border-b border-gray-800 font-mono text-sm text-gray-300">{{.}}</div>
    {{else}}<p class="text-gray-500">No patterns configured</p>{{end}}
</div>
<div class="bg-gray-900 border border-gray-700 rounded-lg p-6">
    <h2 class="text-lg font-bold mb-4">Rule File</h2>
    <pre class="font-mono text-sm text-gray-300 whitespace-pre-wrap">{{.RulesYAML}}</pre>
</div>
` + footHTML
