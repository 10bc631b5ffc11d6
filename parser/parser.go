// Package parser turns the paragraphs of an exam document into questions.
//
// Parsing is a single pass over the non-blank paragraphs followed by a
// repair pass. Nothing in the input can make it fail: irregular lines are
// reported to the configured [Sink] and the affected question is emitted
// with whatever was recovered.
//
//	qs := parser.New(parser.WithSink(collector)).Parse(paragraphs)
package parser

import (
	"strings"

	"github.com/tsawler/quizbank/classify"
	"github.com/tsawler/quizbank/model"
)

// Parser converts paragraph sequences into questions. A Parser holds only
// configuration, so one value may be reused and shared between goroutines.
type Parser struct {
	sink  Sink
	heads []classify.Rule
}

// Option configures a Parser.
type Option func(*Parser)

// WithSink sends diagnostics to s.
func WithSink(s Sink) Option {
	return func(p *Parser) {
		if s != nil {
			p.sink = s
		}
	}
}

// WithHeadRules replaces the rules that recognise a question head. The
// default is [classify.QuestionHeadRules]. Answer and explanation marker
// lines are never heads whatever the rules say.
func WithHeadRules(rules []classify.Rule) Option {
	return func(p *Parser) {
		p.heads = append([]classify.Rule(nil), rules...)
	}
}

// New creates a Parser.
func New(opts ...Option) *Parser {
	p := &Parser{sink: Discard, heads: classify.QuestionHeadRules()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse parses paragraphs with a Parser that discards diagnostics.
func Parse(paragraphs []string) []model.Question {
	return New().Parse(paragraphs)
}

// Parse returns the questions found in paragraphs, in document order.
func (p *Parser) Parse(paragraphs []string) []model.Question {
	r := &run{sink: p.sink, heads: p.heads}
	for i, raw := range paragraphs {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		r.line = i + 1
		r.consume(line)
	}
	r.finish()
	r.finalize()
	return r.questions()
}

// record is a question under construction together with the paragraph that
// opened it.
type record struct {
	model.Question
	line int
}

// run is the state of one Parse call.
type run struct {
	sink  Sink
	heads []classify.Rule
	line  int

	out     []*record
	backlog []*record
	cur     *record

	// awaitingBlank is set while the current question has an empty bracket
	// pair waiting for its answer.
	awaitingBlank bool
}

func (r *run) report(ev Event, text, detail string) {
	r.sink.Report(Diagnostic{Event: ev, Line: r.line, Text: text, Detail: detail})
}

func (r *run) consume(line string) {
	if rule, ok := classify.MatchHead(r.heads, line); ok {
		r.report(EventHeadDetected, line, rule)
		r.open(line)
		return
	}

	if letter, body, ok := classify.MatchOption(line); ok {
		if r.cur == nil {
			r.report(EventOptionOrphaned, line, "")
			return
		}
		r.cur.Options = append(r.cur.Options, classify.FormatOption(letter, body))
		return
	}

	if r.cur == nil {
		r.report(EventLineDropped, line, "before first question")
		return
	}

	if letter, rule, ok := classify.StandaloneAnswerRule(line); ok {
		r.fill(line, letter, rule)
		return
	}
	if letter, ok := classify.SingleLetter(line); ok {
		r.fill(line, letter, "single-letter")
		return
	}

	if body, ok := classify.Explanation(line); ok {
		r.cur.Explanation = body
		r.report(EventExplanationSet, line, "")
		return
	}

	if len(r.cur.Options) == 0 && r.cur.Explanation == "" {
		if classify.IsQuestionNumbering(line) {
			r.report(EventMissedHead, line, "")
			r.open(line)
			return
		}
		r.cur.Text += "\n" + line
		r.report(EventContinuation, line, "")
		return
	}

	r.report(EventLineDropped, line, "after options or explanation")
}

// open closes the current question and starts a new one from line.
func (r *run) open(line string) {
	r.close()
	r.cur = &record{Question: model.Question{Text: line}, line: r.line}

	if letter, ok := classify.ExtractBracketedAnswer(line); ok {
		r.cur.Answer = letter
		r.awaitingBlank = false
		return
	}
	r.awaitingBlank = classify.HasEmptyBrackets(line)
}

// close moves the current question to the output. Unanswered questions are
// also tracked in the backlog for the end-of-parse recovery.
func (r *run) close() {
	if r.cur == nil || r.cur.Text == "" {
		return
	}
	r.out = append(r.out, r.cur)
	if r.cur.Answer == "" {
		r.backlog = append(r.backlog, r.cur)
		r.report(EventBacklogPushed, r.cur.Text, "")
	}
}

// fill applies an answer letter to the current question. A pending blank
// always takes the letter; otherwise only an unanswered question does.
func (r *run) fill(line, letter, rule string) {
	switch {
	case r.awaitingBlank:
		r.cur.Answer = letter
		r.awaitingBlank = false
		r.report(EventAnswerFilled, line, rule+" blank="+letter)
	case r.cur.Answer == "":
		r.cur.Answer = letter
		r.report(EventAnswerFilled, line, rule+" "+letter)
	default:
		r.report(EventAnswerIgnored, line, "already "+r.cur.Answer)
	}
}

// finish closes the last question and, if it is unanswered, tries to pair
// backlogged questions with stray single-letter records.
func (r *run) finish() {
	r.line = 0
	last := r.cur
	r.close()
	r.cur = nil
	if last == nil || last.Answer != "" {
		return
	}
	r.recoverBacklog()
}

func (r *run) recoverBacklog() {
	for _, q := range r.backlog {
		if q.Answer != "" || !classify.IsQuestionNumbering(q.Text) || !classify.HasEmptyBrackets(q.Text) {
			continue
		}
		for j, other := range r.backlog {
			if other == q {
				continue
			}
			letter, ok := strictLetter(other.Text)
			if !ok {
				continue
			}
			q.Answer = letter
			r.report(EventBacklogRecovered, q.Text, letter)
			r.backlog = append(r.backlog[:j:j], r.backlog[j+1:]...)
			r.remove(other)
			break
		}
	}
}

// remove drops rec from the output.
func (r *run) remove(rec *record) {
	for i, o := range r.out {
		if o == rec {
			r.out = append(r.out[:i], r.out[i+1:]...)
			return
		}
	}
}

// finalize makes a last attempt at every unanswered question: first its own
// text, then a stray letter at the top of the next question.
func (r *run) finalize() {
	for i, q := range r.out {
		if q.Answer != "" {
			continue
		}
		if letter, rule, ok := classify.StandaloneAnswerRule(q.Text); ok {
			q.Answer = letter
			r.sink.Report(Diagnostic{Event: EventFinalizedFromText, Line: q.line, Text: q.Text, Detail: rule + " " + letter})
			continue
		}
		if classify.HasEmptyBrackets(q.Text) && i+1 < len(r.out) {
			r.takeFromNext(q, r.out[i+1])
		}
	}
}

func (r *run) takeFromNext(q, next *record) {
	first, rest, _ := strings.Cut(next.Text, "\n")
	letter, ok := strictLetter(first)
	if !ok {
		return
	}
	q.Answer = letter
	next.Text = rest
	r.sink.Report(Diagnostic{Event: EventFinalizedFromNext, Line: q.line, Text: q.Text, Detail: letter})
}

func (r *run) questions() []model.Question {
	out := make([]model.Question, 0, len(r.out))
	for _, q := range r.out {
		if q.Answer == "" {
			r.sink.Report(Diagnostic{Event: EventUnresolved, Line: q.line, Text: q.Text})
		}
		out = append(out, q.Question)
	}
	return out
}

// strictLetter reports whether s is exactly one letter A-D, untrimmed.
func strictLetter(s string) (string, bool) {
	if len(s) != 1 {
		return "", false
	}
	return classify.SingleLetter(s)
}
