package classify

import (
	"strings"
	"unicode/utf8"
)

// RedactionLossThreshold is the rune-length delta above which a redaction
// is treated as probable content loss.
const RedactionLossThreshold = 10

// RedactBracketedAnswer hides every bracketed answer letter in text while
// keeping the bracket style: "（A）" becomes "（）" and "( b )" becomes "()".
// Everything around the brackets is preserved.
func RedactBracketedAnswer(text string) string {
	return bracketedAnswer.ReplaceAllStringFunc(text, func(m string) string {
		if strings.HasPrefix(m, "（") {
			return "（）"
		}
		return "()"
	})
}

// RedactionDelta returns the absolute difference in rune length between the
// text before and after redaction.
func RedactionDelta(before, after string) int {
	d := utf8.RuneCountInString(before) - utf8.RuneCountInString(after)
	if d < 0 {
		return -d
	}
	return d
}

// RedactionSuspicious reports whether a redaction changed the text length by
// more than [RedactionLossThreshold] runes.
func RedactionSuspicious(before, after string) bool {
	return RedactionDelta(before, after) > RedactionLossThreshold
}
