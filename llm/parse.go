package llm

import (
	"regexp"
	"strings"
)

// ordinalPrefix matches list numbering such as "1. " or "12.".
var ordinalPrefix = regexp.MustCompile(`^[0-9]+\.\s*`)

// ParseTitles turns completion text into titles for the given mode.
// Multi mode returns at most MultiTitleCount titles, fewer when the endpoint
// produced fewer.
func ParseTitles(mode Mode, content string) []string {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil
	}
	if mode == ModeSingle {
		return []string{content}
	}

	lines := strings.Split(strings.ReplaceAll(content, "\r\n", "\n"), "\n")
	titles := make([]string, 0, len(lines))
	for _, line := range lines {
		t := strings.TrimSpace(ordinalPrefix.ReplaceAllString(strings.TrimSpace(line), ""))
		if t == "" {
			continue
		}
		titles = append(titles, t)
		if len(titles) == MultiTitleCount {
			break
		}
	}
	return titles
}
