// Package practice implements the terminal practice session over a
// question bank.
package practice

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/tsawler/quizbank/model"
)

// Recorder persists answers as they are given.
type Recorder interface {
	SaveAnswer(ctx context.Context, bankID string, index int, letter string) error
}

// Config holds session settings.
type Config struct {
	Title string

	// Random makes "next" jump to a random question.
	Random bool

	// Start is the 1-based question to open on; 0 keeps the bank's
	// position. It takes precedence over Random for the first question.
	Start int

	// BankID and Recorder are set when the bank came from the store.
	BankID   string
	Recorder Recorder

	// Logger receives save failures and redaction warnings; nil discards.
	Logger *zerolog.Logger
}

// savedMsg reports the outcome of persisting an answer.
type savedMsg struct {
	index int
	err   error
}

// Model is the bubbletea model of a practice session.
type Model struct {
	bank   *model.Bank
	cfg    Config
	keys   KeyMap
	help   help.Model
	styles Styles

	width    int
	saveErr  error
	quitting bool

	// jump is the question-number prompt opened by the Jump key
	jump    textinput.Model
	jumping bool
	jumpErr string

	// warned holds the indexes whose redaction warning was logged
	warned map[int]bool
}

// New creates a session positioned on the bank's current question.
func New(bank *model.Bank, cfg Config) Model {
	if cfg.Logger == nil {
		nop := zerolog.Nop()
		cfg.Logger = &nop
	}
	switch {
	case cfg.Start > 0:
		bank.Jump(cfg.Start - 1)
	case cfg.Random:
		bank.Random()
	}

	jump := textinput.New()
	jump.Prompt = "Go to question: "
	jump.Placeholder = fmt.Sprintf("1-%d", bank.Len())
	jump.CharLimit = 6

	return Model{
		bank:   bank,
		cfg:    cfg,
		keys:   DefaultKeyMap(),
		help:   help.New(),
		styles: DefaultStyles(),
		jump:   jump,
		warned: make(map[int]bool),
	}
}

// Run starts an interactive session and blocks until the user quits.
func Run(bank *model.Bank, cfg Config) error {
	if bank.Len() == 0 {
		return fmt.Errorf("bank has no questions")
	}
	if cfg.Start < 0 || cfg.Start > bank.Len() {
		return fmt.Errorf("question %d out of range 1-%d", cfg.Start, bank.Len())
	}
	_, err := tea.NewProgram(New(bank, cfg), tea.WithAltScreen()).Run()
	return err
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width

	case savedMsg:
		m.saveErr = msg.err
		if msg.err != nil {
			m.cfg.Logger.Error().Err(msg.err).Int("index", msg.index).Msg("saving answer")
		}

	case tea.KeyMsg:
		if m.jumping {
			return m.updateJump(msg)
		}
		m.jumpErr = ""
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		case key.Matches(msg, m.keys.Prev):
			m.bank.Prev()
		case key.Matches(msg, m.keys.Next):
			if m.cfg.Random {
				m.bank.Random()
			} else {
				m.bank.Next()
			}
		case key.Matches(msg, m.keys.Random):
			m.bank.Random()
		case key.Matches(msg, m.keys.Jump):
			m.jumping = true
			m.jump.SetValue("")
			cmd := m.jump.Focus()
			return m, cmd
		case key.Matches(msg, m.keys.Answer):
			return m, m.answer(strings.ToUpper(msg.String()))
		}
	}
	return m, nil
}

// updateJump sends keys to the question-number prompt. Enter moves to the
// typed question and Esc closes the prompt without moving.
func (m Model) updateJump(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		m.quitting = true
		return m, tea.Quit
	case tea.KeyEsc:
		m.closeJump()
		return m, nil
	case tea.KeyEnter:
		value := strings.TrimSpace(m.jump.Value())
		m.closeJump()
		n, err := strconv.Atoi(value)
		if err != nil || m.bank.Jump(n-1) == nil {
			m.jumpErr = fmt.Sprintf("no question %q (1-%d)", value, m.bank.Len())
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.jump, cmd = m.jump.Update(msg)
	return m, cmd
}

func (m *Model) closeJump() {
	m.jumping = false
	m.jump.Blur()
	m.jump.SetValue("")
}

// answer stores letter for the current question. Questions that already
// have an answer keep the first one.
func (m *Model) answer(letter string) tea.Cmd {
	index := m.bank.Index()
	if m.bank.UserAnswer(index) != "" {
		return nil
	}
	m.bank.SetUserAnswer(index, letter)

	if m.cfg.Recorder == nil || m.cfg.BankID == "" {
		return nil
	}
	rec, bankID := m.cfg.Recorder, m.cfg.BankID
	return func() tea.Msg {
		err := rec.SaveAnswer(context.Background(), bankID, index, letter)
		return savedMsg{index: index, err: err}
	}
}

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	q := m.bank.Current()
	if q == nil {
		return m.styles.Muted.Render("No questions.") + "\n"
	}

	var b strings.Builder

	title := m.cfg.Title
	if title == "" {
		title = m.bank.Source
	}
	header := fmt.Sprintf("Question %d / %d", m.bank.Index()+1, m.bank.Len())
	if title != "" {
		header = title + "  ·  " + header
	}
	b.WriteString(m.styles.Title.Render(header))
	b.WriteString("\n\n")

	text, suspicious := q.DisplayText()
	if suspicious && !m.warned[m.bank.Index()] {
		m.warned[m.bank.Index()] = true
		m.cfg.Logger.Warn().Int("index", m.bank.Index()).Msg("hidden-answer text differs widely from source; showing it as is")
	}
	b.WriteString(m.styles.Question.Width(m.textWidth()).Render(text))
	b.WriteString("\n\n")

	given := m.bank.UserAnswer(m.bank.Index())
	for i, opt := range q.Options {
		letter := string(rune('A' + i))
		style := m.styles.Option
		if given != "" {
			switch {
			case letter == q.Answer:
				style = m.styles.Correct
			case letter == given:
				style = m.styles.Incorrect
			}
		}
		b.WriteString(style.Render("  " + opt))
		b.WriteString("\n")
	}

	if given != "" {
		b.WriteString("\n")
		b.WriteString(m.feedback(q, given))
		b.WriteString("\n")
	}

	if m.saveErr != nil {
		b.WriteString("\n")
		b.WriteString(m.styles.Incorrect.Render("could not save answer: " + m.saveErr.Error()))
		b.WriteString("\n")
	}

	if m.jumping {
		b.WriteString("\n")
		b.WriteString(m.jump.View())
		b.WriteString("\n")
	}
	if m.jumpErr != "" {
		b.WriteString("\n")
		b.WriteString(m.styles.Incorrect.Render(m.jumpErr))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.styles.Muted.Render(fmt.Sprintf("Score %d / %d answered", m.bank.CorrectCount(), m.bank.AnsweredCount())))
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	b.WriteString("\n")
	return b.String()
}

func (m Model) feedback(q *model.Question, given string) string {
	var b strings.Builder
	switch {
	case q.Answer == "":
		b.WriteString(m.styles.Muted.Render(fmt.Sprintf("You answered %s. The source has no answer for this question.", given)))
	case q.CheckAnswer(given):
		b.WriteString(m.styles.Correct.Render("Correct: " + q.Answer))
	default:
		b.WriteString(m.styles.Incorrect.Render(fmt.Sprintf("Incorrect: you answered %s, the answer is %s", given, q.Answer)))
	}
	if q.Explanation != "" {
		b.WriteString("\n")
		b.WriteString(m.styles.Explanation.Width(m.textWidth()).Render(q.Explanation))
	}
	return b.String()
}

func (m Model) textWidth() int {
	if m.width <= 4 {
		return 80
	}
	return m.width - 4
}

// Styles holds the lipgloss styles of the session view.
type Styles struct {
	Title       lipgloss.Style
	Question    lipgloss.Style
	Option      lipgloss.Style
	Correct     lipgloss.Style
	Incorrect   lipgloss.Style
	Explanation lipgloss.Style
	Muted       lipgloss.Style
}

// DefaultStyles returns the default colour scheme.
func DefaultStyles() Styles {
	return Styles{
		Title:       lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7D56F4")),
		Question:    lipgloss.NewStyle().Bold(true),
		Option:      lipgloss.NewStyle(),
		Correct:     lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575")).Bold(true),
		Incorrect:   lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5F87")).Bold(true),
		Explanation: lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("#A8A8A8")),
		Muted:       lipgloss.NewStyle().Foreground(lipgloss.Color("#626262")),
	}
}
