package web

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTemplateFuncs(t *testing.T) {
	funcs := TemplateFuncs()

	// Test ToLower
	assert.Equal(
		t,
		"test",
		funcs["ToLower"].(func(string) string)("TEST"),
		"ToLower function failed",
	)

	// Test Add
	assert.Equal(
		t,
		int64(15),
		funcs["Add"].(func(int64, int64) int64)(10, 5),
		"Add function failed",
	)

	// Test Sub
	assert.Equal(t, int64(5), funcs["Sub"].(func(int64, int64) int64)(10, 5), "Sub function failed")

	assert.Equal(t, 25, funcs["Percent"].(func(int, int) int)(1, 4))
	assert.Equal(t, 0, funcs["Percent"].(func(int, int) int)(1, 0))
	assert.Equal(t, "1,234,567", funcs["Comma"].(func(int64) string)(1234567))

	// sprig functions are available too
	assert.Contains(t, funcs, "upper")
	assert.Contains(t, funcs, "default")
}

func TestTemplateFuncsIncludesDashboardHelpers(t *testing.T) {
	funcs := TemplateFuncs()

	require.Contains(t, funcs, "HighlightJSON")
	require.Contains(t, funcs, "RelTime")
	require.Contains(t, funcs, "Keywords")
	assert.Equal(
		t,
		[]string{"fee", "tuition"},
		funcs["Keywords"].(func(string) []string)("fee, Tuition"),
	)
}

func TestRelTime(t *testing.T) {
	assert.Equal(t, "", relTime(time.Time{}))
	assert.Equal(t, "2 hours ago", relTime(time.Now().Add(-2*time.Hour)))
}

func TestHighlightJSON(t *testing.T) {
	html, err := highlightJSON(map[string]interface{}{"status": "pending"})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(html), "<pre"))
	assert.Contains(t, string(html), "pending")
}
