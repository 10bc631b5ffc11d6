package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsawler/quizbank/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), filepath.Join(t.TempDir(), "data", "quizbank.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleQuestions() []model.Question {
	return []model.Question{
		{Text: "1. Fruit includes（）", Options: []string{"A. Apple", "B. Rock"}, Answer: "A", Explanation: "apples grow on trees"},
		{Text: "2. Pick one", Options: []string{"A. x", "B. y"}, Answer: "B"},
		{Text: "3. Unresolved"},
	}
}

func TestSaveAndLoadBank(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	id, err := s.SaveBank(ctx, "mock exam", "exam.docx", sampleQuestions())
	require.NoError(t, err)
	assert.Len(t, id, 36)

	bank, err := s.LoadBank(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "exam.docx", bank.Source)
	require.Equal(t, 3, bank.Len())

	want := sampleQuestions()
	want[2].Options = []string{}
	assert.Equal(t, want, bank.Questions())
}

func TestLoadBank_NotFound(t *testing.T) {
	s := openTestStore(t)

	_, err := s.LoadBank(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrBankNotFound)
}

func TestAnswers(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	id, err := s.SaveBank(ctx, "mock exam", "exam.docx", sampleQuestions())
	require.NoError(t, err)

	require.NoError(t, s.SaveAnswer(ctx, id, 0, "b"))
	require.NoError(t, s.SaveAnswer(ctx, id, 0, "a"))
	require.NoError(t, s.SaveAnswer(ctx, id, 1, "C"))

	answers, err := s.Answers(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, map[int]string{0: "A", 1: "C"}, answers)

	bank, err := s.LoadBank(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "A", bank.UserAnswer(0))
	assert.Equal(t, 1, bank.CorrectCount())

	info, err := s.Bank(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 2, info.Answered)
	assert.Equal(t, 1, info.Correct)

	assert.Error(t, s.SaveAnswer(ctx, id, 3, "A"))
	assert.Error(t, s.SaveAnswer(ctx, id, -1, "A"))
	assert.ErrorIs(t, s.SaveAnswer(ctx, "missing", 0, "A"), ErrBankNotFound)

	require.NoError(t, s.ResetAnswers(ctx, id))
	answers, err = s.Answers(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, answers)
}

func TestListBanks(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	banks, err := s.ListBanks(ctx)
	require.NoError(t, err)
	assert.Empty(t, banks)

	first, err := s.SaveBank(ctx, "first", "a.docx", sampleQuestions())
	require.NoError(t, err)
	second, err := s.SaveBank(ctx, "second", "b.docx", sampleQuestions()[:1])
	require.NoError(t, err)

	banks, err = s.ListBanks(ctx)
	require.NoError(t, err)
	require.Len(t, banks, 2)

	byID := map[string]BankInfo{}
	for _, b := range banks {
		byID[b.ID] = b
	}
	assert.Equal(t, 3, byID[first].Questions)
	assert.Equal(t, "second", byID[second].Name)
	assert.Equal(t, 1, byID[second].Questions)
	assert.False(t, byID[second].CreatedAt.IsZero())
}

func TestResolve(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	id, err := s.SaveBank(ctx, "mock exam", "exam.docx", sampleQuestions())
	require.NoError(t, err)

	info, err := s.Resolve(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, id, info.ID)

	info, err = s.Resolve(ctx, id[:8])
	require.NoError(t, err)
	assert.Equal(t, id, info.ID)

	info, err = s.Resolve(ctx, "mock exam")
	require.NoError(t, err)
	assert.Equal(t, id, info.ID)

	_, err = s.Resolve(ctx, "nothing")
	assert.ErrorIs(t, err, ErrBankNotFound)

	_, err = s.SaveBank(ctx, "mock exam", "copy.docx", nil)
	require.NoError(t, err)
	_, err = s.Resolve(ctx, "mock exam")
	assert.ErrorIs(t, err, ErrAmbiguousBank)
}

func TestDeleteBank(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	id, err := s.SaveBank(ctx, "mock exam", "exam.docx", sampleQuestions())
	require.NoError(t, err)
	require.NoError(t, s.SaveAnswer(ctx, id, 0, "A"))

	require.NoError(t, s.DeleteBank(ctx, id))
	_, err = s.LoadBank(ctx, id)
	assert.ErrorIs(t, err, ErrBankNotFound)

	answers, err := s.Answers(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, answers)

	assert.ErrorIs(t, s.DeleteBank(ctx, id), ErrBankNotFound)
}

func TestReopenKeepsData(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "quizbank.db")

	s, err := Open(ctx, path)
	require.NoError(t, err)
	id, err := s.SaveBank(ctx, "persisted", "exam.txt", sampleQuestions())
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = Open(ctx, path)
	require.NoError(t, err)
	defer s.Close()

	bank, err := s.LoadBank(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 3, bank.Len())
}
