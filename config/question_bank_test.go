package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/yoockh/resumeprep/internal/interview"
)

func writeBank(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "bank.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadQuestionBankShipped(t *testing.T) {
	set, err := LoadQuestionBank("question_bank.yaml")
	require.NoError(t, err)

	qs := set.Questions()
	require.Len(t, qs, 5)
	require.Equal(t, "project_0", qs[0].ID)
	require.True(t, qs[0].HasFollowUp)
	require.Equal(t, "advantage_1", qs[3].ID)
	require.Equal(t, "code_1", qs[4].ID)
	require.NotEmpty(t, qs[4].ReferenceAnswer)
}

func TestLoadQuestionBankValidation(t *testing.T) {
	t.Run("blank project question", func(t *testing.T) {
		_, err := LoadQuestionBank(writeBank(t, "projects:\n  - question: \"\"\n"))
		require.ErrorContains(t, err, "projects[0]")
	})
	t.Run("empty bank", func(t *testing.T) {
		_, err := LoadQuestionBank(writeBank(t, "projects: []\n"))
		require.ErrorContains(t, err, "no questions")
	})
	t.Run("too many code items", func(t *testing.T) {
		_, err := LoadQuestionBank(writeBank(t, "code: [a, b, c]\n"))
		require.ErrorContains(t, err, "code holds")
	})
	t.Run("missing file", func(t *testing.T) {
		_, err := LoadQuestionBank(filepath.Join(t.TempDir(), "nope.yaml"))
		require.Error(t, err)
	})
	t.Run("code only", func(t *testing.T) {
		set, err := LoadQuestionBank(writeBank(t, "code: [\"reverse a list\"]\n"))
		require.NoError(t, err)
		require.Equal(t, []string{"reverse a list"}, set.Code)
		require.Equal(t, interview.CategoryCoding, set.Questions()[0].Category)
	})
}
