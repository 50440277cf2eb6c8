package web

import (
	"bytes"

	"github.com/alecthomas/chroma"
	"github.com/alecthomas/chroma/formatters/html"
	"github.com/alecthomas/chroma/lexers"
	"github.com/alecthomas/chroma/styles"
)

type wrappingPre struct{}

// Start writes the opening <pre>. code is false when the block surrounds line numbers.
func (p *wrappingPre) Start(code bool, _ string) string {
	if code {
		return `<pre tabindex="0" class="code" style="tab-size:2;white-space:pre-wrap;word-break:break-word;">`
	}
	return "<pre>"
}

func (p *wrappingPre) End(_ bool) string {
	return "</pre>"
}

// CodeHighlight takes a string of code and a lexer name and returns a highlighted
// HTML string. Unknown lexers fall back to plain text.
func CodeHighlight(code string, lexer string) (string, error) {
	l := lexers.Get(lexer)
	if l == nil {
		l = lexers.Fallback
	}
	l = chroma.Coalesce(l)

	formatter := html.New(
		html.WrapLongLines(true),
		html.TabWidth(2),
		html.WithPreWrapper(&wrappingPre{}),
	)

	iterator, err := l.Tokenise(nil, code)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := formatter.Format(&buf, styles.Get("github"), iterator); err != nil {
		return "", err
	}
	return buf.String(), nil
}
