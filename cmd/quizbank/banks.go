package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/tsawler/quizbank/internal/practice"
	"github.com/tsawler/quizbank/model"
	"github.com/tsawler/quizbank/ocr"
	"github.com/tsawler/quizbank/store"
)

// openStore opens the configured bank database.
func (a *app) openStore(cmd *cobra.Command) (*store.Store, error) {
	s, err := store.Open(cmd.Context(), a.cfg.Store.Path)
	if err != nil {
		return nil, fmt.Errorf("opening bank store %s: %w", a.cfg.Store.Path, err)
	}
	return s, nil
}

func (a *app) newImportCmd() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "import <file>...",
		Short: "Parse documents and save each as a question bank",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if name != "" && len(args) > 1 {
				return fmt.Errorf("--name can only be used with a single file")
			}

			s, err := a.openStore(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			for _, path := range args {
				questions, warnings, err := a.extractor(path).Questions()
				if err != nil {
					return err
				}
				a.logWarnings(path, warnings)
				if len(questions) == 0 {
					a.log().Warn().Str("file", path).Msg("no questions found; skipped")
					continue
				}

				bankName := name
				if bankName == "" {
					bankName = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
				}
				id, err := s.SaveBank(cmd.Context(), bankName, path, questions)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%d questions\n", id, bankName, len(questions))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "bank name (default: file name)")
	return cmd
}

func (a *app) newBanksCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "banks",
		Short: "List stored question banks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.openStore(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			banks, err := s.ListBanks(cmd.Context())
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tQUESTIONS\tANSWERED\tCORRECT\tCREATED")
			for _, b := range banks {
				fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%d\t%s\n",
					b.ID, b.Name, b.Questions, b.Answered, b.Correct, b.CreatedAt.Format("2006-01-02 15:04"))
			}
			return tw.Flush()
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "delete <bank>",
		Short: "Delete a stored bank by id, id prefix or name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.openStore(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			info, err := s.Resolve(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if err := s.DeleteBank(cmd.Context(), info.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %s (%s)\n", info.ID, info.Name)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "reset <bank>",
		Short: "Clear the practice answers of a stored bank",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.openStore(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			info, err := s.Resolve(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return s.ResetAnswers(cmd.Context(), info.ID)
		},
	})
	return cmd
}

func (a *app) newPracticeCmd() *cobra.Command {
	var (
		random   bool
		question int
	)

	cmd := &cobra.Command{
		Use:   "practice <file|bank>",
		Short: "Practise a document or a stored bank in the terminal",
		Long: `Practise answers questions one at a time. Keys: a-d answer, ←/→ or p/n
navigate, r jumps to a random question, g goes to a question by number,
q quits.

A path to an existing file is parsed directly and answers are not kept.
Anything else is looked up in the bank store by id, id prefix or name, and
answers are saved as they are given.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("random") {
				a.cfg.Practice.Random = random
			}
			if question < 0 {
				return fmt.Errorf("--question must be 1 or more")
			}
			sessionCfg := practice.Config{Random: a.cfg.Practice.Random, Start: question, Logger: a.log()}

			ref := args[0]
			if info, err := os.Stat(ref); err == nil && !info.IsDir() {
				bank, warnings, err := a.extractor(ref).Bank()
				if err != nil {
					return err
				}
				a.logWarnings(ref, warnings)
				sessionCfg.Title = filepath.Base(ref)
				return practice.Run(bank, sessionCfg)
			}

			s, err := a.openStore(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			info, err := s.Resolve(cmd.Context(), ref)
			if errors.Is(err, store.ErrBankNotFound) {
				return fmt.Errorf("%q is neither a file nor a stored bank", ref)
			}
			if err != nil {
				return err
			}
			var bank *model.Bank
			if bank, err = s.LoadBank(cmd.Context(), info.ID); err != nil {
				return err
			}

			sessionCfg.Title = info.Name
			sessionCfg.BankID = info.ID
			sessionCfg.Recorder = s
			return practice.Run(bank, sessionCfg)
		},
	}
	cmd.Flags().BoolVar(&random, "random", false, "visit questions in random order")
	cmd.Flags().IntVar(&question, "question", 0, "start at question N (1-based)")
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "quizbank %s\n", version)
			if !ocr.Enabled {
				fmt.Fprintln(cmd.OutOrStdout(), "image OCR not compiled in (build with -tags ocr)")
			}
			return nil
		},
	}
}
