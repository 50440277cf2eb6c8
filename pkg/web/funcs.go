package web

import (
	"encoding/json"
	"html/template"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/getzep/sprig/v3"

	"github.com/admitdesk/admitdesk/pkg/chatbot"
)

func add(a, b int64) int64 {
	return a + b
}

func sub(a, b int64) int64 {
	return a - b
}

func percent(a, b int) int {
	if b == 0 {
		return 0
	}
	return int(float32(a) / float32(b) * 100)
}

func relTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return humanize.Time(t)
}

// highlightJSON renders v as indented, syntax highlighted JSON.
func highlightJSON(v interface{}) (template.HTML, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", err
	}
	code, err := CodeHighlight(string(b), "json")
	if err != nil {
		return "", err
	}
	return template.HTML(code), nil //nolint:gosec
}

// TemplateFuncs is sprig's function map plus our own helpers.
func TemplateFuncs() template.FuncMap {
	funcs := sprig.FuncMap()
	for name, fn := range (template.FuncMap{
		"ToLower":       strings.ToLower,
		"Add":           add,
		"Sub":           sub,
		"Percent":       percent,
		"RelTime":       relTime,
		"Comma":         humanize.Comma,
		"Keywords":      chatbot.ParseKeywords,
		"HighlightJSON": highlightJSON,
	}) {
		funcs[name] = fn
	}
	return funcs
}
