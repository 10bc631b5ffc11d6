package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/tsawler/quizbank/classify"
	"github.com/tsawler/quizbank/export"
	"github.com/tsawler/quizbank/model"
)

func (a *app) newParseCmd() *cobra.Command {
	var (
		outFormat  string
		outFile    string
		redact     bool
		indent     bool
		listLabels bool
		encoding   string
	)

	cmd := &cobra.Command{
		Use:   "parse <file>",
		Short: "Extract questions and write them as JSON, YAML, CSV or Markdown",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("format") {
				a.cfg.Output.Format = outFormat
			}
			if cmd.Flags().Changed("redact") {
				a.cfg.Output.Redact = redact
			}
			if listLabels {
				a.cfg.DOCX.ListLabels = true
			}
			if encoding != "" {
				a.cfg.Text.Encoding = encoding
			}

			f, err := export.ParseFormat(a.cfg.Output.Format)
			if err != nil {
				return err
			}

			path := args[0]
			questions, warnings, err := a.extractor(path).Questions()
			if err != nil {
				return err
			}
			a.logWarnings(path, warnings)
			a.log().Info().Str("file", path).Int("questions", len(questions)).Msg("parsed")

			opts := export.Options{Redact: a.cfg.Output.Redact, Indent: indent}
			if outFile != "" {
				return export.WriteFile(outFile, f, questions, opts)
			}
			return export.Write(cmd.OutOrStdout(), f, questions, opts)
		},
	}

	cmd.Flags().StringVarP(&outFormat, "format", "f", "json", "output format: json, jsonl, yaml, csv, markdown")
	cmd.Flags().StringVarP(&outFile, "output", "o", "", "write to file instead of stdout")
	cmd.Flags().BoolVar(&redact, "redact", false, "hide bracketed answers in question text")
	cmd.Flags().BoolVar(&indent, "indent", false, "pretty-print JSON")
	cmd.Flags().BoolVar(&listLabels, "list-labels", false, "render Word/ODF automatic numbering into the text")
	cmd.Flags().StringVar(&encoding, "encoding", "", "force the text encoding of .txt/.csv input")
	return cmd
}

func (a *app) newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats <file>...",
		Short: "Summarise how many questions, answers and options each document yields",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "FILE\tQUESTIONS\tANSWERED\tUNRESOLVED\tNO OPTIONS\tEXPLAINED\tANSWERS A/B/C/D")
			for _, path := range args {
				questions, warnings, err := a.extractor(path).Questions()
				if err != nil {
					return err
				}
				a.logWarnings(path, warnings)
				writeStats(tw, path, summarise(questions))
			}
			return tw.Flush()
		},
	}
}

// summary counts what a parsed document yielded.
type summary struct {
	Questions  int
	Answered   int
	NoOptions  int
	Explained  int
	ByAnswer   map[string]int
	Unresolved []int
}

func summarise(questions []model.Question) summary {
	s := summary{Questions: len(questions), ByAnswer: make(map[string]int)}
	for i, q := range questions {
		if q.Answer != "" {
			s.Answered++
			s.ByAnswer[q.Answer]++
		} else {
			s.Unresolved = append(s.Unresolved, i+1)
		}
		if len(q.Options) == 0 {
			s.NoOptions++
		}
		if q.Explanation != "" {
			s.Explained++
		}
	}
	return s
}

func writeStats(w io.Writer, path string, s summary) {
	fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%d\t%d\t%d/%d/%d/%d\n",
		path, s.Questions, s.Answered, len(s.Unresolved), s.NoOptions, s.Explained,
		s.ByAnswer["A"], s.ByAnswer["B"], s.ByAnswer["C"], s.ByAnswer["D"])
}

func (a *app) newClassifyCmd() *cobra.Command {
	var only string

	cmd := &cobra.Command{
		Use:   "classify <file>",
		Short: "Show the category of every non-blank line",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			paragraphs, _, err := a.extractor(args[0]).Paragraphs()
			if err != nil {
				return err
			}
			return writeClassified(cmd.OutOrStdout(), paragraphs, only)
		},
	}
	cmd.Flags().StringVar(&only, "kind", "", "only show lines of this kind: question, option, answer, explanation, continuation")
	return cmd
}

func writeClassified(w io.Writer, paragraphs []string, only string) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for i, p := range paragraphs {
		line := strings.TrimSpace(p)
		if line == "" {
			continue
		}
		kind := classify.Classify(line)
		if only != "" && kind.String() != only {
			continue
		}
		detail := ""
		switch kind {
		case classify.KindQuestionHead:
			if letter, ok := classify.ExtractBracketedAnswer(line); ok {
				detail = "answer=" + letter
			} else if classify.HasEmptyBrackets(line) {
				detail = "blank"
			}
		case classify.KindAnswer:
			if letter, rule, ok := classify.StandaloneAnswerRule(line); ok {
				detail = rule + " " + letter
			} else if letter, ok := classify.SingleLetter(line); ok {
				detail = "single-letter " + letter
			}
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", i+1, kind, detail, line)
	}
	return tw.Flush()
}
