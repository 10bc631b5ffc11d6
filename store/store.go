// Package store persists question banks and practice answers in SQLite.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // driver: sqlite

	"github.com/tsawler/quizbank/model"
)

// ErrBankNotFound is returned when no bank matches an id.
var ErrBankNotFound = errors.New("bank not found")

// ErrAmbiguousBank is returned when a reference matches several banks.
var ErrAmbiguousBank = errors.New("bank reference is ambiguous")

// Store handles SQLite operations for question banks.
type Store struct {
	db *sql.DB
}

// Open opens or creates the database at path and migrates its schema.
func Open(ctx context.Context, path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
	}

	dsn := "file:" + path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("open database: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate database: %w", err)
	}
	return s, nil
}

const schema = `
CREATE TABLE IF NOT EXISTS banks (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	source TEXT NOT NULL DEFAULT '',
	question_count INTEGER NOT NULL,
	created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS questions (
	bank_id TEXT NOT NULL REFERENCES banks(id) ON DELETE CASCADE,
	idx INTEGER NOT NULL,
	text TEXT NOT NULL,
	options_json TEXT NOT NULL DEFAULT '[]',
	answer TEXT NOT NULL DEFAULT '',
	explanation TEXT NOT NULL DEFAULT '',
	PRIMARY KEY (bank_id, idx)
);

CREATE TABLE IF NOT EXISTS answers (
	bank_id TEXT NOT NULL REFERENCES banks(id) ON DELETE CASCADE,
	idx INTEGER NOT NULL,
	letter TEXT NOT NULL,
	answered_at INTEGER NOT NULL,
	PRIMARY KEY (bank_id, idx)
);

CREATE INDEX IF NOT EXISTS idx_banks_name ON banks(name);
`

// migrate creates the database schema.
func (s *Store) migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("execute schema: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// BankInfo describes a stored bank without its questions.
type BankInfo struct {
	ID        string
	Name      string
	Source    string
	Questions int
	Answered  int
	Correct   int
	CreatedAt time.Time
}

// SaveBank stores questions as a new bank and returns its id.
func (s *Store) SaveBank(ctx context.Context, name, source string, questions []model.Question) (string, error) {
	id := uuid.New().String()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		"INSERT INTO banks (id, name, source, question_count, created_at) VALUES (?, ?, ?, ?, ?)",
		id, name, source, len(questions), time.Now().Unix(),
	); err != nil {
		return "", fmt.Errorf("insert bank: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		"INSERT INTO questions (bank_id, idx, text, options_json, answer, explanation) VALUES (?, ?, ?, ?, ?, ?)")
	if err != nil {
		return "", fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, q := range questions {
		options := q.Options
		if options == nil {
			options = []string{}
		}
		optionsJSON, err := json.Marshal(options)
		if err != nil {
			return "", fmt.Errorf("marshal options: %w", err)
		}
		if _, err := stmt.ExecContext(ctx, id, i, q.Text, string(optionsJSON), q.Answer, q.Explanation); err != nil {
			return "", fmt.Errorf("insert question %d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit: %w", err)
	}
	return id, nil
}

// LoadBank returns the bank with id, with stored answers restored.
func (s *Store) LoadBank(ctx context.Context, id string) (*model.Bank, error) {
	info, err := s.bankInfo(ctx, id)
	if err != nil {
		return nil, err
	}

	questions, err := s.questions(ctx, id, info.Questions)
	if err != nil {
		return nil, err
	}

	bank := model.NewBank(questions, info.Source)
	answers, err := s.Answers(ctx, id)
	if err != nil {
		return nil, err
	}
	for idx, letter := range answers {
		bank.SetUserAnswer(idx, letter)
	}
	return bank, nil
}

func (s *Store) questions(ctx context.Context, bankID string, n int) ([]model.Question, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT text, options_json, answer, explanation FROM questions WHERE bank_id = ? ORDER BY idx", bankID)
	if err != nil {
		return nil, fmt.Errorf("query questions: %w", err)
	}
	defer rows.Close()

	questions := make([]model.Question, 0, n)
	for rows.Next() {
		var q model.Question
		var optionsJSON string
		if err := rows.Scan(&q.Text, &optionsJSON, &q.Answer, &q.Explanation); err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		if err := json.Unmarshal([]byte(optionsJSON), &q.Options); err != nil {
			return nil, fmt.Errorf("unmarshal options: %w", err)
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}

// Bank returns the description of the bank with id.
func (s *Store) Bank(ctx context.Context, id string) (BankInfo, error) {
	return s.bankInfo(ctx, id)
}

// ListBanks returns every bank, newest first, with answer tallies.
func (s *Store) ListBanks(ctx context.Context) ([]BankInfo, error) {
	rows, err := s.db.QueryContext(ctx, bankInfoQuery+" GROUP BY b.id ORDER BY b.created_at DESC, b.name")
	if err != nil {
		return nil, fmt.Errorf("query banks: %w", err)
	}
	defer rows.Close()

	var banks []BankInfo
	for rows.Next() {
		info, err := scanBankInfo(rows)
		if err != nil {
			return nil, err
		}
		banks = append(banks, info)
	}
	return banks, rows.Err()
}

// Resolve finds the bank referred to by ref: an exact id, a unique id
// prefix, or a unique name.
func (s *Store) Resolve(ctx context.Context, ref string) (BankInfo, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return BankInfo{}, ErrBankNotFound
	}
	if info, err := s.bankInfo(ctx, ref); err == nil || !errors.Is(err, ErrBankNotFound) {
		return info, err
	}

	banks, err := s.ListBanks(ctx)
	if err != nil {
		return BankInfo{}, err
	}
	var matches []BankInfo
	for _, b := range banks {
		if strings.HasPrefix(b.ID, ref) || b.Name == ref {
			matches = append(matches, b)
		}
	}
	switch len(matches) {
	case 0:
		return BankInfo{}, fmt.Errorf("%w: %s", ErrBankNotFound, ref)
	case 1:
		return matches[0], nil
	default:
		return BankInfo{}, fmt.Errorf("%w: %s matches %d banks", ErrAmbiguousBank, ref, len(matches))
	}
}

// SaveAnswer records the user's letter for the question at index,
// replacing any earlier answer.
func (s *Store) SaveAnswer(ctx context.Context, bankID string, index int, letter string) error {
	info, err := s.bankInfo(ctx, bankID)
	if err != nil {
		return err
	}
	if index < 0 || index >= info.Questions {
		return fmt.Errorf("question index %d out of range [0,%d)", index, info.Questions)
	}

	letter = strings.ToUpper(strings.TrimSpace(letter))
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO answers (bank_id, idx, letter, answered_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(bank_id, idx) DO UPDATE SET letter = excluded.letter, answered_at = excluded.answered_at`,
		bankID, index, letter, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("save answer: %w", err)
	}
	return nil
}

// Answers returns the stored answers of a bank keyed by question index.
func (s *Store) Answers(ctx context.Context, bankID string) (map[int]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT idx, letter FROM answers WHERE bank_id = ?", bankID)
	if err != nil {
		return nil, fmt.Errorf("query answers: %w", err)
	}
	defer rows.Close()

	out := make(map[int]string)
	for rows.Next() {
		var idx int
		var letter string
		if err := rows.Scan(&idx, &letter); err != nil {
			return nil, fmt.Errorf("scan answer: %w", err)
		}
		out[idx] = letter
	}
	return out, rows.Err()
}

// ResetAnswers removes every stored answer of a bank.
func (s *Store) ResetAnswers(ctx context.Context, bankID string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM answers WHERE bank_id = ?", bankID); err != nil {
		return fmt.Errorf("reset answers: %w", err)
	}
	return nil
}

// DeleteBank removes a bank with its questions and answers.
func (s *Store) DeleteBank(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM banks WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete bank: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete bank: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrBankNotFound, id)
	}
	return nil
}

const bankInfoQuery = `
SELECT b.id, b.name, b.source, b.question_count, b.created_at,
       COUNT(a.idx),
       COALESCE(SUM(CASE WHEN a.letter = q.answer AND q.answer != '' THEN 1 ELSE 0 END), 0)
FROM banks b
LEFT JOIN answers a ON a.bank_id = b.id
LEFT JOIN questions q ON q.bank_id = a.bank_id AND q.idx = a.idx`

func (s *Store) bankInfo(ctx context.Context, id string) (BankInfo, error) {
	row := s.db.QueryRowContext(ctx, bankInfoQuery+" WHERE b.id = ? GROUP BY b.id", id)
	info, err := scanBankInfo(row)
	if errors.Is(err, sql.ErrNoRows) {
		return BankInfo{}, fmt.Errorf("%w: %s", ErrBankNotFound, id)
	}
	return info, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanBankInfo(sc scanner) (BankInfo, error) {
	var info BankInfo
	var created int64
	err := sc.Scan(&info.ID, &info.Name, &info.Source, &info.Questions, &created, &info.Answered, &info.Correct)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return BankInfo{}, err
		}
		return BankInfo{}, fmt.Errorf("scan bank: %w", err)
	}
	info.CreatedAt = time.Unix(created, 0)
	return info, nil
}
