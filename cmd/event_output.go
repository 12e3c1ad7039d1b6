package cmd

import (
	"fmt"
	"strings"

	"github.com/olimci/shiori/pkg/events"
)

// formatSummary describes the events of a build in one line, most severe
// first, or "" when there were none.
func formatSummary(summary *events.Summary) string {
	if summary == nil {
		return ""
	}

	var parts []string
	for _, level := range events.Levels {
		if n := summary.Count(level); n > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", n, level))
		}
	}
	return strings.Join(parts, ", ")
}
