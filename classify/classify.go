package classify

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Kind is the semantic category of a line.
type Kind int

const (
	// KindContinuation is any line that extends the current prompt.
	KindContinuation Kind = iota
	// KindQuestionHead opens a new exam item.
	KindQuestionHead
	// KindOption is a lettered answer option.
	KindOption
	// KindAnswer carries the correct answer letter.
	KindAnswer
	// KindExplanation carries the explanation text.
	KindExplanation
)

// String returns the string representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindQuestionHead:
		return "question"
	case KindOption:
		return "option"
	case KindAnswer:
		return "answer"
	case KindExplanation:
		return "explanation"
	default:
		return "continuation"
	}
}

// Classify returns the context-free category of line. The parser applies
// further context (an open record, options already seen) on top of this.
func Classify(line string) Kind {
	line = strings.TrimSpace(line)
	switch {
	case IsQuestionHead(line):
		return KindQuestionHead
	case isOption(line):
		return KindOption
	case isAnswer(line):
		return KindAnswer
	case isExplanation(line):
		return KindExplanation
	default:
		return KindContinuation
	}
}

func isOption(line string) bool {
	_, _, ok := MatchOption(line)
	return ok
}

func isAnswer(line string) bool {
	if _, ok := ExtractStandaloneAnswer(line); ok {
		return true
	}
	_, ok := singleLetter(line)
	return ok
}

func isExplanation(line string) bool {
	_, ok := Explanation(line)
	return ok
}

// IsQuestionHead reports whether line opens a new exam item. Explanation and
// answer marker lines are never heads even when they also carry a number.
func IsQuestionHead(line string) bool {
	_, ok := MatchHead(questionHeadRules, line)
	return ok
}

// MatchHead is [IsQuestionHead] over a caller-supplied rule set. It returns
// the name of the first rule matching line.
func MatchHead(rules []Rule, line string) (string, bool) {
	if explanationMarker.MatchString(line) || answerMarker.MatchString(line) {
		return "", false
	}
	return firstMatch(rules, line)
}

// QuestionHeadRule returns the name of the first head rule matching line,
// ignoring the marker exclusion.
func QuestionHeadRule(line string) (string, bool) {
	return firstMatch(questionHeadRules, line)
}

func firstMatch(rules []Rule, line string) (string, bool) {
	for _, r := range rules {
		if r.Match(line) {
			return r.Name, true
		}
	}
	return "", false
}

// IsQuestionNumbering reports whether line starts with bare question
// numbering ("12.", "12、", "第12题").
func IsQuestionNumbering(line string) bool {
	for _, r := range numberingRules {
		if r.Match(line) {
			return true
		}
	}
	return false
}

// MatchOption matches a lettered option line ("A. text", "b、text",
// "C：text", "D text"). The letter is returned uppercased and the body
// trimmed. A bare letter with no body is not an option, and without a
// delimiter the letter must not run into a Latin word ("Apple").
func MatchOption(line string) (letter, body string, ok bool) {
	m := optionPattern.FindStringSubmatch(line)
	if m == nil {
		return "", "", false
	}
	body = strings.TrimSpace(m[3])
	if body == "" {
		return "", "", false
	}
	if m[2] == "" {
		next, _ := utf8.DecodeRuneInString(line[len(m[1]):])
		if next < utf8.RuneSelf && (unicode.IsLetter(next) || unicode.IsDigit(next)) {
			return "", "", false
		}
	}
	return upper(m[1]), body, true
}

// FormatOption renders an option the way the parser stores it: "A. body".
func FormatOption(letter, body string) string {
	return upper(letter) + ". " + body
}

// ExtractBracketedAnswer finds a single letter A-D in full-width or
// half-width parentheses anywhere in line.
func ExtractBracketedAnswer(line string) (string, bool) {
	m := bracketedAnswer.FindStringSubmatch(line)
	if m == nil {
		return "", false
	}
	return upper(m[1]), true
}

// HasEmptyBrackets reports whether line contains an empty parenthesis pair,
// the mark of an answer blanked out for the reader.
func HasEmptyBrackets(line string) bool {
	return emptyBrackets.MatchString(line)
}

// ExtractStandaloneAnswer tries the [StandaloneAnswerRules] in order and
// returns the first captured letter, uppercased.
func ExtractStandaloneAnswer(line string) (string, bool) {
	letter, _, ok := StandaloneAnswerRule(line)
	return letter, ok
}

// StandaloneAnswerRule is [ExtractStandaloneAnswer] that also names the
// rule that matched.
func StandaloneAnswerRule(line string) (letter, rule string, ok bool) {
	for _, r := range standaloneAnswerRules {
		if l, ok := r.Letter(line); ok {
			return l, r.Name, true
		}
	}
	return "", "", false
}

// SingleLetter reports whether the trimmed line is exactly one of A-D in
// either case, returning it uppercased.
func SingleLetter(line string) (string, bool) {
	return singleLetter(strings.TrimSpace(line))
}

func singleLetter(line string) (string, bool) {
	if len(line) != 1 {
		return "", false
	}
	l := upper(line)
	if l < "A" || l > "D" {
		return "", false
	}
	return l, true
}

// Explanation strips a leading "解析:" / "解析：" marker and returns the
// trimmed remainder.
func Explanation(line string) (string, bool) {
	loc := explanationMarker.FindStringIndex(line)
	if loc == nil {
		return "", false
	}
	return strings.TrimSpace(line[loc[1]:]), true
}

func upper(s string) string {
	return strings.ToUpper(s)
}
