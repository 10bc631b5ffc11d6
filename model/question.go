package model

import (
	"strings"

	"github.com/tsawler/quizbank/classify"
)

// Question is one multiple-choice exam item.
type Question struct {
	// Text is the prompt, newline-joined when it spans several lines. It may
	// still contain the answer in brackets; see DisplayText.
	Text string `json:"text" yaml:"text"`

	// Options are "A. ..".."D. .." in source order.
	Options []string `json:"options" yaml:"options"`

	// Answer is a single uppercase letter A-D, or empty if never resolved.
	Answer string `json:"answer" yaml:"answer"`

	Explanation string `json:"explanation,omitempty" yaml:"explanation,omitempty"`
}

// IsComplete reports whether the question has text, at least one option and
// an answer.
func (q *Question) IsComplete() bool {
	return q.Text != "" && len(q.Options) > 0 && q.Answer != ""
}

// CheckAnswer compares a user's letter against the answer, ignoring case.
// An unresolved question never matches.
func (q *Question) CheckAnswer(letter string) bool {
	if q.Answer == "" {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(letter), q.Answer)
}

// DisplayText returns the prompt with any bracketed answer hidden. The
// second result is true when the redaction changed the length enough to
// suggest lost content; callers should log it.
func (q *Question) DisplayText() (string, bool) {
	out := classify.RedactBracketedAnswer(q.Text)
	return out, classify.RedactionSuspicious(q.Text, out)
}

// Option returns the option for letter (A-D), or "" if there is none at that
// position. Options are positional: the first option is A.
func (q *Question) Option(letter string) string {
	letter = strings.ToUpper(strings.TrimSpace(letter))
	if len(letter) != 1 || letter < "A" || letter > "D" {
		return ""
	}
	i := int(letter[0] - 'A')
	if i >= len(q.Options) {
		return ""
	}
	return q.Options[i]
}

// Clone returns a deep copy of the question.
func (q Question) Clone() Question {
	c := q
	if q.Options != nil {
		c.Options = append([]string(nil), q.Options...)
	}
	return c
}
