// Package view is the renderer collaborator: it turns the
// orchestrator's view model into embeddable HTML. Everything that came
// from outside the process passes through html/template escaping; only
// engine-produced markup is inserted verbatim.
package view

import (
	"bytes"
	"fmt"
	"html/template"
	"net/url"

	"github.com/ziadkadry99/codepane/internal/widget"
)

var (
	widgetTmpl = template.Must(template.New("widget").Funcs(template.FuncMap{
		"markup": func(s string) template.HTML { return template.HTML(s) },
	}).Parse(widgetTemplate))

	pageTmpl = template.Must(template.New("page").Parse(pageTemplate))
)

// widgetData is the data passed to the widget template.
type widgetData struct {
	widget.ViewState
	Tabbed    bool
	QueryBase string // query prefix for tab/retry links, empty disables them
}

// pageData is the data passed to the embed page template.
type pageData struct {
	Title  string
	Dark   bool
	CSS    template.CSS
	Widget template.HTML
}

// RenderWidget renders a view state as an HTML fragment suitable for
// embedding into a host page. queryBase, when non-empty, is the query
// prefix used for tab and retry links; when empty, tabs render as
// buttons for a script-driven host.
func RenderWidget(v widget.ViewState, queryBase string) (string, error) {
	var buf bytes.Buffer
	data := widgetData{ViewState: v, Tabbed: v.Kind == widget.KindTabbed, QueryBase: queryBase}
	if err := widgetTmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("rendering widget: %w", err)
	}
	return buf.String(), nil
}

// RenderPage renders a complete embed page around the widget fragment.
// dark controls the page chrome; panel markup carries its own colors.
func RenderPage(v widget.ViewState, title string, dark bool, queryBase string) (string, error) {
	fragment, err := RenderWidget(v, queryBase)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	data := pageData{
		Title:  title,
		Dark:   dark,
		CSS:    template.CSS(cssContent),
		Widget: template.HTML(fragment),
	}
	if err := pageTmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("rendering page: %w", err)
	}
	return buf.String(), nil
}

// QueryBase builds the query prefix for server-side tab and retry links.
func QueryBase(files, themeMode string) string {
	q := url.Values{}
	q.Set("files", files)
	if themeMode != "" {
		q.Set("theme", themeMode)
	}
	return "?" + q.Encode()
}
