package classify

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsQuestionHead(t *testing.T) {
	tests := []struct {
		line string
		want bool
		rule string
	}{
		{"（单选）12.", true, "labelled-number"},
		{"（多选题）3、下列说法正确的是", true, "labelled-number"},
		{"风险的定义(节选)3.", true, "trailing-paren-number"},
		{"1. Fruit includes （A）", true, "number-delimiter"},
		{"12、下列属于基金的是", true, "number-delimiter"},
		{"第3题 关于基金", true, "ordinal"},
		{"第12题。", true, "ordinal"},
		{"3题目内容", true, "number-prefix"},
		{"2)下列说法", true, "number-prefix"},
		{"1 2", false, ""},
		{"12", false, ""},
		{"A. apple", false, ""},
		{"下列说法正确的是", false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			assert.Equal(t, tt.want, IsQuestionHead(tt.line))
			if tt.want {
				rule, ok := QuestionHeadRule(tt.line)
				require.True(t, ok)
				assert.Equal(t, tt.rule, rule)
			}
		})
	}
}

func TestIsQuestionHead_MarkerExclusion(t *testing.T) {
	for _, line := range []string{"解析：1. because", "解析:2、x", "答案：1", "答案:3."} {
		assert.False(t, IsQuestionHead(line), line)
	}
}

func TestMatchHead(t *testing.T) {
	rules := QuestionHeadRules()[:1]

	rule, ok := MatchHead(rules, "（单选）1. First")
	require.True(t, ok)
	assert.Equal(t, "labelled-number", rule)

	_, ok = MatchHead(rules, "2. Second")
	assert.False(t, ok)

	_, ok = MatchHead(QuestionHeadRules(), "解析：1. because")
	assert.False(t, ok)

	_, ok = MatchHead(nil, "1. First")
	assert.False(t, ok)
}

func TestRuleAccessorsReturnCopies(t *testing.T) {
	heads := QuestionHeadRules()
	require.NotEmpty(t, heads)
	heads[0] = Rule{Name: "replaced"}
	rule, ok := QuestionHeadRule("（单选）12.")
	require.True(t, ok)
	assert.Equal(t, "labelled-number", rule)

	answers := StandaloneAnswerRules()
	require.NotEmpty(t, answers)
	answers[0] = Rule{Name: "replaced"}
	letter, rule, ok := StandaloneAnswerRule("答案：B")
	require.True(t, ok)
	assert.Equal(t, "B", letter)
	assert.Equal(t, "answer-colon", rule)
}

func TestIsQuestionNumbering(t *testing.T) {
	assert.True(t, IsQuestionNumbering("2. Another"))
	assert.True(t, IsQuestionNumbering("2、Another"))
	assert.True(t, IsQuestionNumbering("第2题"))
	assert.False(t, IsQuestionNumbering("2题"))
	assert.False(t, IsQuestionNumbering("Another 2."))
}

func TestMatchOption(t *testing.T) {
	tests := []struct {
		line   string
		letter string
		body   string
		ok     bool
	}{
		{"A. Apple", "A", "Apple", true},
		{"b、Rock", "B", "Rock", true},
		{"C：公司", "C", "公司", true},
		{"c: lower", "C", "lower", true},
		{"D 选项", "D", "选项", true},
		{"A苹果", "A", "苹果", true},
		{"B.   padded  ", "B", "padded", true},
		{"Apple", "", "", false},
		{"Because y", "", "", false},
		{"Dog food", "", "", false},
		{"A", "", "", false},
		{"A.", "", "", false},
		{"E. five", "", "", false},
		{"1. A", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			letter, body, ok := MatchOption(tt.line)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.letter, letter)
			assert.Equal(t, tt.body, body)
		})
	}
}

func TestFormatOption(t *testing.T) {
	assert.Equal(t, "B. two", FormatOption("b", "two"))
}

func TestExtractBracketedAnswer(t *testing.T) {
	l, ok := ExtractBracketedAnswer("1. Fruit includes （A）")
	require.True(t, ok)
	assert.Equal(t, "A", l)

	l, ok = ExtractBracketedAnswer("x ( b ) y")
	require.True(t, ok)
	assert.Equal(t, "B", l)

	_, ok = ExtractBracketedAnswer("1. Fruit includes（）")
	assert.False(t, ok)

	_, ok = ExtractBracketedAnswer("(E)")
	assert.False(t, ok)
}

func TestHasEmptyBrackets(t *testing.T) {
	assert.True(t, HasEmptyBrackets("1. Fruit includes（）"))
	assert.True(t, HasEmptyBrackets("risk is ( )"))
	assert.True(t, HasEmptyBrackets("mixed （)"))
	assert.False(t, HasEmptyBrackets("risk is (A)"))
	assert.False(t, HasEmptyBrackets("no brackets"))
}

func TestExtractStandaloneAnswer(t *testing.T) {
	tests := []struct {
		line   string
		letter string
		rule   string
	}{
		{"答案：a", "A", "answer-colon"},
		{"答案: B", "B", "answer-colon"},
		{"答案：A (B)", "A", "answer-colon"},
		{"答案是C", "C", "answer-verb"},
		{"答案为 D", "D", "answer-verb"},
		{"答案B", "B", "answer-verb"},
		{"B", "B", "lone-letter"},
		{" d ", "D", "lone-letter"},
		{"（c）", "C", "bracketed-line"},
		{"(A", "A", "bracketed-line"},
		{"正确选项为（D）。", "D", "bracketed-anywhere"},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			letter, rule, ok := StandaloneAnswerRule(tt.line)
			require.True(t, ok)
			assert.Equal(t, tt.letter, letter)
			assert.Equal(t, tt.rule, rule)
		})
	}

	for _, line := range []string{"答案：", "hello", "答案：E", "（）"} {
		_, ok := ExtractStandaloneAnswer(line)
		assert.False(t, ok, line)
	}
}

func TestSingleLetter(t *testing.T) {
	l, ok := SingleLetter(" c ")
	require.True(t, ok)
	assert.Equal(t, "C", l)

	_, ok = SingleLetter("E")
	assert.False(t, ok)
	_, ok = SingleLetter("AB")
	assert.False(t, ok)
}

func TestExplanation(t *testing.T) {
	body, ok := Explanation("解析：because y")
	require.True(t, ok)
	assert.Equal(t, "because y", body)

	body, ok = Explanation("解析:  ")
	require.True(t, ok)
	assert.Empty(t, body)

	_, ok = Explanation("说明：because")
	assert.False(t, ok)
}

func TestRedactBracketedAnswer(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"包括（A）哪些", "包括（）哪些"},
		{"x (A) y", "x () y"},
		{"（ b ）尾", "（）尾"},
		{"mixed （A) and (B）", "mixed （） and ()"},
		{"两处（A）和（C）", "两处（）和（）"},
		{"nothing here", "nothing here"},
		{"empty （） stays", "empty （） stays"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, RedactBracketedAnswer(tt.in))
		})
	}
}

func TestRedactionDelta(t *testing.T) {
	in := "包括（A）"
	out := RedactBracketedAnswer(in)
	assert.Equal(t, 1, RedactionDelta(in, out))
	assert.False(t, RedactionSuspicious(in, out))

	in = strings.Repeat("( A )", 4)
	out = RedactBracketedAnswer(in)
	assert.Equal(t, "()()()()", out)
	assert.Equal(t, 12, RedactionDelta(in, out))
	assert.True(t, RedactionSuspicious(in, out))
}

func TestClassify(t *testing.T) {
	tests := []struct {
		line string
		want Kind
	}{
		{"1. Q", KindQuestionHead},
		{"A. x", KindOption},
		{"答案：B", KindAnswer},
		{"a", KindAnswer},
		{"解析：because y", KindExplanation},
		{"解析：选（A）", KindAnswer},
		{"some text", KindContinuation},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.line))
		})
	}
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "question", KindQuestionHead.String())
	assert.Equal(t, "option", KindOption.String())
	assert.Equal(t, "answer", KindAnswer.String())
	assert.Equal(t, "explanation", KindExplanation.String())
	assert.Equal(t, "continuation", KindContinuation.String())
}
