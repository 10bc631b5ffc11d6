package classify

import "regexp"

// Character classes shared by the rule tables. Exam documents freely mix
// ASCII and full-width digits and spaces, so \d and \s are widened.
const (
	digit = `\p{Nd}`
	space = `[\s\x{3000}]`
)

// Rule is one named pattern in an ordered rule table.
type Rule struct {
	Name    string
	Pattern *regexp.Regexp
}

// Match reports whether the rule matches line.
func (r Rule) Match(line string) bool {
	return r.Pattern.MatchString(line)
}

// Letter returns the uppercased answer letter captured by the rule's first
// group, if the rule matches.
func (r Rule) Letter(line string) (string, bool) {
	m := r.Pattern.FindStringSubmatch(line)
	if m == nil || len(m) < 2 || m[1] == "" {
		return "", false
	}
	return upper(m[1]), true
}

// questionHeadRules recognise the line that opens a new exam item, in
// priority order.
var questionHeadRules = []Rule{
	{"labelled-number", regexp.MustCompile(`^（[\x{4e00}-\x{9fa5}]+）` + digit + `+[.、]`)},
	{"trailing-paren-number", regexp.MustCompile(`\)` + digit + `+[.、]` + space + `*$`)},
	{"number-delimiter", regexp.MustCompile(`^` + digit + `+[.、]`)},
	{"ordinal", regexp.MustCompile(`^第` + digit + `+题[.、]?`)},
	{"number-comma", regexp.MustCompile(`^` + digit + `+、`)},
	{"number-prefix", regexp.MustCompile(`^` + digit + `+[^\p{Nd}\s\x{3000}]`)},
}

// numberingRules is the narrower set used when a line that was not taken as
// a head still looks like the start of a new question.
var numberingRules = []Rule{
	{"number-delimiter", regexp.MustCompile(`^` + digit + `+[.、]`)},
	{"ordinal", regexp.MustCompile(`^第` + digit + `+题`)},
	{"number-comma", regexp.MustCompile(`^` + digit + `+、`)},
}

// standaloneAnswerRules recognise answer lines, in priority order. The last
// rule accepts any line with a bracketed letter and is the broadest.
var standaloneAnswerRules = []Rule{
	{"answer-colon", regexp.MustCompile(`^答案[：:]` + space + `*([A-Da-d])`)},
	{"answer-verb", regexp.MustCompile(`^答案[是为]?` + space + `*([A-Da-d])`)},
	{"lone-letter", regexp.MustCompile(`^` + space + `*([A-Da-d])` + space + `*$`)},
	{"bracketed-line", regexp.MustCompile(`^[（(]?` + space + `*([A-Da-d])` + space + `*[）)]?$`)},
	{"bracketed-anywhere", regexp.MustCompile(`.*[（(]` + space + `*([A-Da-d])` + space + `*[）)].*`)},
}

// QuestionHeadRules returns a copy of the head rules in priority order.
func QuestionHeadRules() []Rule {
	return append([]Rule(nil), questionHeadRules...)
}

// StandaloneAnswerRules returns a copy of the answer rules in priority order.
func StandaloneAnswerRules() []Rule {
	return append([]Rule(nil), standaloneAnswerRules...)
}

var (
	explanationMarker = regexp.MustCompile(`^解析[:：]` + space + `*`)
	answerMarker      = regexp.MustCompile(`^答案[:：]`)

	optionPattern = regexp.MustCompile(`^([A-Da-d])([.、:：]?)` + space + `*(.*)$`)

	bracketedAnswer = regexp.MustCompile(`[（(]` + space + `*([A-Da-d])` + space + `*[）)]`)
	emptyBrackets   = regexp.MustCompile(`[（(]` + space + `*[）)]`)
)
