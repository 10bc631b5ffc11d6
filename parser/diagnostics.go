package parser

import (
	"fmt"
	"sync"
)

// Event identifies what the parser observed on a line.
type Event int

const (
	// EventHeadDetected: a line opened a new question.
	EventHeadDetected Event = iota
	// EventMissedHead: a line with bare numbering was promoted to a head
	// while the previous question was still collecting prompt text.
	EventMissedHead
	// EventOptionOrphaned: an option line appeared before any question.
	EventOptionOrphaned
	// EventAnswerFilled: an answer line set the current question's answer.
	EventAnswerFilled
	// EventAnswerIgnored: an answer line arrived for an already answered
	// question and was dropped.
	EventAnswerIgnored
	// EventExplanationSet: an explanation marker line was attached.
	EventExplanationSet
	// EventContinuation: a line was appended to the prompt.
	EventContinuation
	// EventLineDropped: a line could not be attached anywhere.
	EventLineDropped
	// EventBacklogPushed: a question closed without an answer.
	EventBacklogPushed
	// EventBacklogRecovered: a backlogged question took its answer from a
	// stray single-letter record.
	EventBacklogRecovered
	// EventFinalizedFromText: the finalization pass found the answer in the
	// question's own text.
	EventFinalizedFromText
	// EventFinalizedFromNext: the finalization pass took the answer from the
	// first line of the following question.
	EventFinalizedFromNext
	// EventUnresolved: a question was emitted without an answer.
	EventUnresolved
)

var eventNames = [...]string{
	EventHeadDetected:      "head-detected",
	EventMissedHead:        "missed-head",
	EventOptionOrphaned:    "option-orphaned",
	EventAnswerFilled:      "answer-filled",
	EventAnswerIgnored:     "answer-ignored",
	EventExplanationSet:    "explanation-set",
	EventContinuation:      "continuation",
	EventLineDropped:       "line-dropped",
	EventBacklogPushed:     "backlog-pushed",
	EventBacklogRecovered:  "backlog-recovered",
	EventFinalizedFromText: "finalized-from-text",
	EventFinalizedFromNext: "finalized-from-next",
	EventUnresolved:        "unresolved",
}

// String returns the string representation of the event.
func (e Event) String() string {
	if e >= 0 && int(e) < len(eventNames) {
		return eventNames[e]
	}
	return fmt.Sprintf("event(%d)", int(e))
}

// Anomaly reports whether the event marks irregular input rather than a
// normal classification step.
func (e Event) Anomaly() bool {
	switch e {
	case EventMissedHead, EventOptionOrphaned, EventAnswerIgnored, EventLineDropped, EventUnresolved:
		return true
	}
	return false
}

// Diagnostic is one observation reported to a Sink.
type Diagnostic struct {
	Event Event
	// Line is the 1-based paragraph number, or 0 for end-of-parse events.
	Line int
	// Text is the paragraph or question text concerned.
	Text string
	// Detail is a short free-form note (matched rule, letter).
	Detail string
}

// Sink receives parser diagnostics. Reports never affect parsing.
type Sink interface {
	Report(Diagnostic)
}

// SinkFunc adapts a function to a Sink.
type SinkFunc func(Diagnostic)

// Report calls f(d).
func (f SinkFunc) Report(d Diagnostic) { f(d) }

// Discard drops every diagnostic.
var Discard Sink = SinkFunc(func(Diagnostic) {})

// Collector keeps diagnostics in memory. It is safe for concurrent use.
type Collector struct {
	mu    sync.Mutex
	diags []Diagnostic
}

// Report appends d.
func (c *Collector) Report(d Diagnostic) {
	c.mu.Lock()
	c.diags = append(c.diags, d)
	c.mu.Unlock()
}

// Diagnostics returns a copy of everything reported so far.
func (c *Collector) Diagnostics() []Diagnostic {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Diagnostic(nil), c.diags...)
}

// Count returns how many diagnostics of event were reported.
func (c *Collector) Count(event Event) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, d := range c.diags {
		if d.Event == event {
			n++
		}
	}
	return n
}

// Anomalies returns the reported diagnostics whose event is an anomaly.
func (c *Collector) Anomalies() []Diagnostic {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []Diagnostic
	for _, d := range c.diags {
		if d.Event.Anomaly() {
			out = append(out, d)
		}
	}
	return out
}

// Tee sends every diagnostic to each of sinks in order.
func Tee(sinks ...Sink) Sink {
	return SinkFunc(func(d Diagnostic) {
		for _, s := range sinks {
			if s != nil {
				s.Report(d)
			}
		}
	})
}
