// Command quizbank extracts multiple-choice questions from exam documents,
// stores them as banks and runs practice sessions over them.
package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/tsawler/quizbank"
	"github.com/tsawler/quizbank/internal/config"
	"github.com/tsawler/quizbank/internal/logging"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

// app holds state shared by every subcommand.
type app struct {
	cfgFile string
	verbose bool

	cfg    *config.Config
	logger *logging.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "quizbank",
		Short: "Extract multiple-choice questions from exam documents",
		Long: `quizbank reads exam documents (DOCX, ODT, HTML, EPUB, plain text, CSV
and, when built with -tags ocr, scanned images) and extracts their
multiple-choice questions, options, answers and explanations.

Configuration:
  quizbank looks for configuration in:
  1. --config flag (explicit path)
  2. ./quizbank.yaml
  3. $HOME/.config/quizbank/quizbank.yaml

Environment Variables:
  QUIZBANK_LOG_LEVEL       - debug, info, warn, error
  QUIZBANK_OUTPUT_FORMAT   - json, jsonl, yaml, csv, markdown
  QUIZBANK_TEXT_ENCODING   - auto, utf-8, gbk, gb18030, utf-16
  QUIZBANK_STORE_PATH      - question bank database`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if a.logger != nil {
				return a.logger.Close()
			}
			return nil
		},
	}

	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default is ./quizbank.yaml or $HOME/.config/quizbank/quizbank.yaml)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "log parser decisions at debug level")

	root.AddCommand(
		a.newParseCmd(),
		a.newStatsCmd(),
		a.newClassifyCmd(),
		a.newImportCmd(),
		a.newBanksCmd(),
		a.newPracticeCmd(),
		newVersionCmd(),
	)
	return root
}

// setup loads configuration and builds the logger.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if a.verbose {
		cfg.Log.Level = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger, err := logging.New(logging.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		File:   cfg.Log.File,
		Out:    cmd.ErrOrStderr(),
	})
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.logger = logger
	return nil
}

// extractor applies the configured reader options to an Extractor for path.
func (a *app) extractor(path string) *quizbank.Extractor {
	ext := quizbank.Open(path).
		Encoding(a.cfg.Text.Encoding).
		OCRLanguage(a.cfg.OCR.Language).
		WithSink(logging.Sink(a.logger.Component("parser")))
	if a.cfg.DOCX.ListLabels {
		ext = ext.ListLabels()
	}
	return ext
}

// logWarnings reports extraction warnings at warn level.
func (a *app) logWarnings(path string, warnings []quizbank.Warning) {
	for _, w := range warnings {
		a.logger.Warn().
			Str("file", path).
			Str("kind", w.Kind.String()).
			Int("count", w.Count).
			Msg(w.Message)
	}
}

func (a *app) log() *zerolog.Logger {
	return &a.logger.Logger
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
