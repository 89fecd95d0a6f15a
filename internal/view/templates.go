package view

// widgetTemplate renders one ViewState as an embeddable fragment. Panel
// markup comes from the highlight engine and is trusted; titles and
// messages are escaped by the template engine.
const widgetTemplate = `<div class="codepane" data-kind="{{.Kind}}" data-style="{{.Style}}">
{{- if .Tabbed}}
  <div class="codepane-tabs" role="tablist">
  {{- range $i, $p := .Panels}}
    {{- if $.QueryBase}}
    <a class="codepane-tab{{if eq $i $.Active}} active{{end}}" role="tab" href="{{$.QueryBase}}&tab={{$i}}">{{$p.Title}}</a>
    {{- else}}
    <button class="codepane-tab{{if eq $i $.Active}} active{{end}}" role="tab" data-tab="{{$i}}">{{$p.Title}}</button>
    {{- end}}
  {{- end}}
  </div>
{{- end}}
{{- range $i, $p := .Panels}}
  <div class="codepane-panel{{if ne $i $.Active}} hidden{{end}}" data-index="{{$i}}" data-phase="{{$p.Phase}}">
  {{- if eq $p.Phase "loading"}}
    <div class="codepane-loading"><span class="codepane-spinner"></span> Loading {{$p.Title}}…</div>
  {{- else if eq $p.Phase "error"}}
    <div class="codepane-error">
      <p>{{$p.Message}}</p>
      {{- if and $p.Retryable $.QueryBase}}
      <a class="codepane-retry" href="{{$.QueryBase}}&tab={{$i}}&retry=1">Retry</a>
      {{- end}}
    </div>
  {{- else}}
    <div class="codepane-content">{{markup $p.Content}}</div>
  {{- end}}
  </div>
{{- end}}
</div>`

// pageTemplate wraps a pre-rendered widget fragment in a standalone
// embed page.
const pageTemplate = `<!DOCTYPE html>
<html lang="en"{{if .Dark}} data-theme="dark"{{end}}>
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>{{.Title}}</title>
  <style>{{.CSS}}</style>
</head>
<body>
  <main class="codepane-host">
{{.Widget}}
  </main>
</body>
</html>`

// cssContent styles the widget chrome. Code colors come from the
// highlight engine's inline styles, so only layout lives here.
const cssContent = `
:root {
  --cp-bg: #ffffff;
  --cp-border: #dee2e6;
  --cp-text: #212529;
  --cp-muted: #868e96;
  --cp-accent: #228be6;
  --cp-error: #e03131;
}

[data-theme="dark"] {
  --cp-bg: #1a1b26;
  --cp-border: #292e42;
  --cp-text: #c0caf5;
  --cp-muted: #565f89;
  --cp-accent: #7aa2f7;
  --cp-error: #ff6b6b;
}

body {
  margin: 0;
  background: var(--cp-bg);
  color: var(--cp-text);
  font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif;
}

.codepane-host {
  max-width: 960px;
  margin: 1rem auto;
  padding: 0 1rem;
}

.codepane {
  border: 1px solid var(--cp-border);
  border-radius: 8px;
  overflow: hidden;
}

.codepane-tabs {
  display: flex;
  border-bottom: 1px solid var(--cp-border);
  overflow-x: auto;
}

.codepane-tab {
  padding: 0.5rem 1rem;
  font-size: 0.85rem;
  color: var(--cp-muted);
  text-decoration: none;
  background: none;
  border: none;
  border-bottom: 2px solid transparent;
  cursor: pointer;
  white-space: nowrap;
}

.codepane-tab.active {
  color: var(--cp-accent);
  border-bottom-color: var(--cp-accent);
}

.codepane-panel.hidden { display: none; }

.codepane-content { overflow-x: auto; }

.codepane-content pre {
  margin: 0;
  padding: 0.75rem 1rem;
  font-size: 0.85rem;
  line-height: 1.5;
}

.codepane-loading {
  padding: 2rem 1rem;
  color: var(--cp-muted);
  font-size: 0.9rem;
}

.codepane-spinner {
  display: inline-block;
  width: 0.8em;
  height: 0.8em;
  border: 2px solid var(--cp-border);
  border-top-color: var(--cp-accent);
  border-radius: 50%;
  animation: cp-spin 0.8s linear infinite;
  vertical-align: middle;
}

@keyframes cp-spin { to { transform: rotate(360deg); } }

.codepane-error {
  padding: 1.5rem 1rem;
  color: var(--cp-error);
  font-size: 0.9rem;
}

.codepane-retry {
  display: inline-block;
  margin-top: 0.5rem;
  padding: 0.25rem 0.75rem;
  border: 1px solid var(--cp-accent);
  border-radius: 4px;
  color: var(--cp-accent);
  text-decoration: none;
  font-size: 0.85rem;
}
`
