// Package events carries the messages steps report while a site is built.
package events

import "strings"

// Level is the severity of an event. Higher levels are more severe.
type Level uint8

const (
	Debug Level = iota
	Info
	Error
)

// Levels lists every level, most severe first.
var Levels = []Level{Error, Info, Debug}

var levelNames = [...]string{
	Debug: "debug",
	Info:  "info",
	Error: "error",
}

func (l Level) String() string {
	if int(l) < len(levelNames) {
		return levelNames[l]
	}
	return "event"
}

// Event is a message reported during a build. Step is the ID of the
// reporting step, if any.
type Event struct {
	Level   Level
	Step    string
	Message string
	Error   error
}

// String renders the event as a single plain line.
func (e Event) String() string {
	var b strings.Builder

	b.WriteString("[" + e.Level.String() + "]")
	if e.Step != "" {
		b.WriteString(" " + e.Step)
	}
	b.WriteString(": " + e.Message)
	if e.Error != nil {
		b.WriteString(": " + e.Error.Error())
	}

	return b.String()
}

// Handler receives build events. Implementations must be safe for concurrent use.
type Handler interface {
	Handle(event Event)
}

// HandlerFunc adapts a function to a Handler.
type HandlerFunc func(event Event)

func (f HandlerFunc) Handle(event Event) {
	f(event)
}

// NoopHandler discards every event.
type NoopHandler struct{}

func (NoopHandler) Handle(Event) {}
