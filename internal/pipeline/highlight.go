package pipeline

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// ErrHighlight indicates source highlighting failed.
var ErrHighlight = errors.New("source highlighting failed")

// DefaultHighlightStyle is the chroma style used for code CSS.
const DefaultHighlightStyle = "github"

// SourceHighlighter renders code snippets as class-annotated HTML.
type SourceHighlighter struct {
	formatter *chromahtml.Formatter
	style     *chroma.Style
}

// NewSourceHighlighter creates a highlighter for the named chroma style.
// Unknown styles fall back to chroma's default.
func NewSourceHighlighter(style string) *SourceHighlighter {
	return &SourceHighlighter{
		formatter: chromahtml.New(chromahtml.WithClasses(true)),
		style:     styles.Get(style),
	}
}

// Highlight renders source in language. Unknown languages render as plain text.
func (h *SourceHighlighter) Highlight(source, language string) (string, error) {
	lexer := lexers.Get(language)
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	iterator, err := lexer.Tokenise(nil, source)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrHighlight, err)
	}

	var buf bytes.Buffer
	if err := h.formatter.Format(&buf, h.style, iterator); err != nil {
		return "", fmt.Errorf("%w: %v", ErrHighlight, err)
	}
	return buf.String(), nil
}

// CSS returns the stylesheet for the highlighter's classes.
func (h *SourceHighlighter) CSS() (string, error) {
	var buf bytes.Buffer
	if err := h.formatter.WriteCSS(&buf, h.style); err != nil {
		return "", fmt.Errorf("%w: %v", ErrHighlight, err)
	}
	return buf.String(), nil
}
