package chatbot

import (
	"strings"
)

const bullet = "•"

// FormatResponse lays out canned response text for display. Blank lines are dropped,
// headings (lines ending in ':') and numbered sections ("1." to "9.") are padded with
// an empty line on each side, and bullet lines are indented by two spaces.
func FormatResponse(text string) string {
	lines := strings.Split(text, "\n")
	formatted := make([]string, 0, len(lines))

	for _, line := range lines {
		line = strings.TrimSpace(line)
		switch {
		case line == "":
			continue
		case strings.HasSuffix(line, ":") && !strings.HasPrefix(line, bullet):
			formatted = append(formatted, "", line, "")
		case strings.HasSuffix(line, ":"):
			formatted = append(formatted, line)
		case isNumberedSection(line):
			formatted = append(formatted, "", line, "")
		case strings.HasPrefix(line, bullet):
			formatted = append(formatted, "  "+line)
		default:
			formatted = append(formatted, line)
		}
	}

	return strings.Join(formatted, "\n")
}

func isNumberedSection(line string) bool {
	return len(line) >= 2 && line[0] >= '1' && line[0] <= '9' && line[1] == '.'
}
