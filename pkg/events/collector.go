package events

import (
	"slices"
	"sync"
)

// NewCollector records events and forwards them to handler, which may be nil.
func NewCollector(handler Handler) *Collector {
	return &Collector{
		handler: handler,
	}
}

type Collector struct {
	mu      sync.Mutex
	events  []Event
	handler Handler
}

func (c *Collector) Handle(event Event) {
	c.mu.Lock()
	c.events = append(c.events, event)
	c.mu.Unlock()

	if c.handler != nil {
		c.handler.Handle(event)
	}
}

// Events returns a copy of everything recorded so far.
func (c *Collector) Events() []Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.events)
}

// AtLevel returns the events at or above level.
func (c *Collector) AtLevel(level Level) []Event {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]Event, 0)
	for _, event := range c.events {
		if event.Level >= level {
			out = append(out, event)
		}
	}
	return out
}

func (c *Collector) HasLevel(level Level) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, event := range c.events {
		if event.Level == level {
			return true
		}
	}
	return false
}

func (c *Collector) MaxLevel() Level {
	c.mu.Lock()
	defer c.mu.Unlock()

	max := Level(0)
	for _, event := range c.events {
		if event.Level > max {
			max = event.Level
		}
	}
	return max
}

func (c *Collector) Summary() *Summary {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := new(Summary)
	for _, event := range c.events {
		if event.Level == Error {
			out.ErrorCount++
			out.Errors = append(out.Errors, event)
		}
	}
	out.Full = slices.Clone(c.events)

	return out
}
