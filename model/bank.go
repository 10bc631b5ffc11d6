package model

import (
	"math/rand"
	"strings"
	"time"
)

// Bank holds the questions of one document, a practice position and the
// answers entered so far. A Bank is not safe for concurrent use.
type Bank struct {
	Source    string
	questions []Question
	index     int
	answers   map[int]string
	rng       *rand.Rand
}

// NewBank creates a bank positioned on the first question.
func NewBank(questions []Question, source string) *Bank {
	return &Bank{
		Source:    source,
		questions: questions,
		answers:   make(map[int]string),
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// WithRand replaces the random source used by Random. A nil rng keeps the
// current source.
func (b *Bank) WithRand(rng *rand.Rand) *Bank {
	if rng == nil {
		return b
	}
	b.rng = rng
	return b
}

// Len returns the number of questions.
func (b *Bank) Len() int {
	return len(b.questions)
}

// Questions returns the questions in document order.
func (b *Bank) Questions() []Question {
	return b.questions
}

// Question returns the question at index, or nil if index is out of range.
func (b *Bank) Question(index int) *Question {
	if index < 0 || index >= len(b.questions) {
		return nil
	}
	return &b.questions[index]
}

// Index returns the current position.
func (b *Bank) Index() int {
	return b.index
}

// Current returns the question at the current position.
func (b *Bank) Current() *Question {
	return b.Question(b.index)
}

// Next moves forward one question, stopping at the last.
func (b *Bank) Next() *Question {
	if b.index < len(b.questions)-1 {
		b.index++
	}
	return b.Current()
}

// Prev moves back one question, stopping at the first.
func (b *Bank) Prev() *Question {
	if b.index > 0 {
		b.index--
	}
	return b.Current()
}

// Jump moves to index. It returns nil and leaves the position unchanged if
// index is out of range.
func (b *Bank) Jump(index int) *Question {
	if index < 0 || index >= len(b.questions) {
		return nil
	}
	b.index = index
	return b.Current()
}

// Random moves to a uniformly chosen question.
func (b *Bank) Random() *Question {
	if len(b.questions) == 0 {
		return nil
	}
	b.index = b.rng.Intn(len(b.questions))
	return b.Current()
}

// SetUserAnswer stores the user's letter for the question at index.
func (b *Bank) SetUserAnswer(index int, letter string) {
	b.answers[index] = strings.ToUpper(strings.TrimSpace(letter))
}

// UserAnswer returns the stored letter for index, or "" if none.
func (b *Bank) UserAnswer(index int) string {
	return b.answers[index]
}

// UserAnswers returns a copy of every stored answer keyed by index.
func (b *Bank) UserAnswers() map[int]string {
	out := make(map[int]string, len(b.answers))
	for k, v := range b.answers {
		out[k] = v
	}
	return out
}

// AnsweredCount returns how many questions have a stored answer.
func (b *Bank) AnsweredCount() int {
	n := 0
	for i := range b.answers {
		if i >= 0 && i < len(b.questions) {
			n++
		}
	}
	return n
}

// CorrectCount returns how many stored answers match their question.
func (b *Bank) CorrectCount() int {
	n := 0
	for i, a := range b.answers {
		if i < 0 || i >= len(b.questions) {
			continue
		}
		if b.questions[i].CheckAnswer(a) {
			n++
		}
	}
	return n
}

// Incomplete returns the indexes of questions missing text, options or an
// answer, in ascending order.
func (b *Bank) Incomplete() []int {
	var out []int
	for i := range b.questions {
		if !b.questions[i].IsComplete() {
			out = append(out, i)
		}
	}
	return out
}
