package events

import (
	"fmt"
	"strings"
)

type Summary struct {
	ErrorCount int
	Errors     []Event
	Full       []Event
}

// Count returns the number of events at exactly level.
func (s Summary) Count(level Level) int {
	n := 0
	for _, event := range s.Full {
		if event.Level == level {
			n++
		}
	}
	return n
}

func (s Summary) String() string {
	lines := make([]string, len(s.Errors))
	for i, event := range s.Errors {
		lines[i] = "- " + event.String()
	}

	return fmt.Sprintf("errors (%d):\n%s", s.ErrorCount, strings.Join(lines, "\n"))
}
