// Package classify decides what a single line of an exam document is.
//
// Exam documents are typed by hand with no fixed schema, so every decision
// here is a heuristic over one trimmed, non-empty line. The heuristics are
// kept as ordered rule tables and evaluated top to bottom with early exit:
//
//   - [QuestionHeadRules] recognise the line that opens a new exam item
//     ("1.", "1、", "第3题", "（单选）12." and a numeric catch-all).
//   - [StandaloneAnswerRules] recognise answer lines ("答案：B", "答案是C",
//     a lone letter, a bracketed letter).
//
// The remaining helpers cover option lines ([MatchOption]), inline answers
// ([ExtractBracketedAnswer]), blanked answers ([HasEmptyBrackets]) and the
// display-side redaction that must share the inline-answer pattern
// ([RedactBracketedAnswer]).
//
// Every function is pure and safe for concurrent use.
package classify
