package quizbank

import (
	"fmt"
	"strings"

	"github.com/tsawler/quizbank/model"
	"github.com/tsawler/quizbank/parser"
)

// WarningKind classifies a non-fatal extraction issue.
type WarningKind int

const (
	// WarningUnresolved counts questions emitted without an answer.
	WarningUnresolved WarningKind = iota
	// WarningNoOptions counts questions that collected no option lines.
	WarningNoOptions
	// WarningRedaction counts questions whose hidden-answer display text
	// lost enough characters to suggest corrupted content.
	WarningRedaction
	// WarningOrphanedLines counts lines that could not be attached to any
	// question.
	WarningOrphanedLines
)

// String returns the string representation of the kind.
func (k WarningKind) String() string {
	switch k {
	case WarningUnresolved:
		return "unresolved"
	case WarningNoOptions:
		return "no-options"
	case WarningRedaction:
		return "redaction"
	case WarningOrphanedLines:
		return "orphaned-lines"
	default:
		return fmt.Sprintf("warning(%d)", int(k))
	}
}

// Warning is a non-fatal issue found while extracting questions. The result
// is still usable but may be incomplete.
type Warning struct {
	Kind    WarningKind
	Count   int
	Message string
}

// FormatWarnings joins warning messages into a single line.
func FormatWarnings(warnings []Warning) string {
	msgs := make([]string, 0, len(warnings))
	for _, w := range warnings {
		msgs = append(msgs, w.Message)
	}
	return strings.Join(msgs, "; ")
}

// collectWarnings counts each kind of issue. Kinds with a zero count are
// left out.
func collectWarnings(questions []model.Question, diags *parser.Collector) []Warning {
	var unresolved, noOptions, redaction int
	for i := range questions {
		q := &questions[i]
		if q.Answer == "" {
			unresolved++
		}
		if len(q.Options) == 0 {
			noOptions++
		}
		if _, suspicious := q.DisplayText(); suspicious {
			redaction++
		}
	}
	orphaned := diags.Count(parser.EventOptionOrphaned) + diags.Count(parser.EventLineDropped)

	var out []Warning
	add := func(kind WarningKind, n int, format string) {
		if n > 0 {
			out = append(out, Warning{Kind: kind, Count: n, Message: fmt.Sprintf(format, n)})
		}
	}
	add(WarningUnresolved, unresolved, "%d question(s) without an answer")
	add(WarningNoOptions, noOptions, "%d question(s) without options")
	add(WarningRedaction, redaction, "%d question(s) may lose text when the answer is hidden")
	add(WarningOrphanedLines, orphaned, "%d line(s) not attached to any question")
	return out
}
