package highlight

import (
	"bytes"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// ChromaEngine highlights source code with the chroma tokenizer and its
// inline-styled HTML formatter.
type ChromaEngine struct {
	formatter *chromahtml.Formatter
}

// NewChromaEngine creates a ChromaEngine with line numbers enabled.
func NewChromaEngine() *ChromaEngine {
	return &ChromaEngine{
		formatter: chromahtml.New(
			chromahtml.WithLineNumbers(true),
			chromahtml.TabWidth(4),
		),
	}
}

func (e *ChromaEngine) Name() string { return "chroma" }

// Highlight tokenizes code and formats it as HTML. Unknown languages
// fall back to chroma's plaintext lexer; unknown styles fall back to
// the default style.
func (e *ChromaEngine) Highlight(code, lang, style string) (string, error) {
	lexer := lexers.Get(lang)
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	st := styles.Get(style)
	if st == nil {
		st = styles.Fallback
	}

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := e.formatter.Format(&buf, st, iterator); err != nil {
		return "", err
	}
	return buf.String(), nil
}
