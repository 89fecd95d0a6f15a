package highlight

import (
	"bytes"

	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
)

// MarkdownEngine renders markdown sources as rich HTML (with fenced
// code blocks highlighted in the active style) and delegates every
// other language to the wrapped code engine.
type MarkdownEngine struct {
	code Engine
}

// NewMarkdownEngine wraps a code engine with markdown rendering.
func NewMarkdownEngine(code Engine) *MarkdownEngine {
	return &MarkdownEngine{code: code}
}

func (e *MarkdownEngine) Name() string { return "chroma+goldmark" }

func (e *MarkdownEngine) Highlight(code, lang, style string) (string, error) {
	if lang != "markdown" {
		return e.code.Highlight(code, lang, style)
	}

	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			highlighting.NewHighlighting(
				highlighting.WithStyle(style),
			),
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
	)

	var buf bytes.Buffer
	if err := md.Convert([]byte(code), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}
