// Package model provides the data structures produced by question extraction.
//
// # Questions
//
// A [Question] is one multiple-choice exam item as recovered from a
// loosely formatted document:
//
//	q := model.Question{
//	    Text:    "1. Fruit includes （A）",
//	    Options: []string{"A. Apple", "B. Rock"},
//	    Answer:  "A",
//	}
//
// Extraction is permissive, so a question may be incomplete: no options, no
// answer, or both. Use [Question.IsComplete] to filter.
//
// # Banks
//
// A [Bank] wraps the ordered questions of one document together with a
// practice position and the answers entered so far:
//
//	bank := model.NewBank(questions, "exam.docx")
//	bank.SetUserAnswer(bank.Index(), "b")
//	fmt.Println(bank.CorrectCount())
//
// # Metadata
//
// [Metadata] carries the document properties reported by the readers.
package model
