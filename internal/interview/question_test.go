package interview

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestQuestionSetQuestions(t *testing.T) {
	set := QuestionSet{
		Projects: []ProjectQuestion{
			{ProjectName: "crawler", Question: "How did you schedule crawls?", FollowUps: []string{"What about retries?"}},
			{Question: "  "},
			{Question: "Describe the cache layer"},
		},
		Advantages:    &AdvantageQuestion{Question: "What are you best at?"},
		Code:          []string{"Reverse a linked list", "iterate with three pointers"},
		CodeFollowUps: []string{"", "Complexity?"},
	}

	qs := set.Questions()
	require.Len(t, qs, 4)

	require.Equal(t, "project_0", qs[0].ID)
	require.Equal(t, CategoryProject, qs[0].Category)
	require.True(t, qs[0].HasFollowUp)
	require.Equal(t, []FollowUp{{ID: "project_0-f1", Question: "What about retries?"}}, qs[0].FollowUpQuestions)
	require.Equal(t, "crawler", qs[0].ProjectName)

	// index follows the source position, blank entries are skipped
	require.Equal(t, "project_2", qs[1].ID)
	require.False(t, qs[1].HasFollowUp)

	require.Equal(t, "advantage_1", qs[2].ID)
	require.Equal(t, CategoryAdvantage, qs[2].Category)

	require.Equal(t, "code_1", qs[3].ID)
	require.Equal(t, CategoryCoding, qs[3].Category)
	require.Equal(t, "iterate with three pointers", qs[3].ReferenceAnswer)
	require.Equal(t, []FollowUp{{ID: "code_1-f1", Question: "Complexity?"}}, qs[3].FollowUpQuestions)
}

func TestQuestionSetQuestionsOptionalGroups(t *testing.T) {
	qs := QuestionSet{Code: []string{"only a question"}}.Questions()
	require.Len(t, qs, 1)
	require.Equal(t, "", qs[0].ReferenceAnswer)

	require.Empty(t, QuestionSet{}.Questions())
}

func TestCategoryForID(t *testing.T) {
	cases := map[string]string{
		"project_3":    CategoryProject,
		"project_0-f1": CategoryProject,
		"advantage_1":  CategoryAdvantage,
		"code_1-f1":    CategoryCoding,
	}
	for id, want := range cases {
		got, ok := CategoryForID(id)
		require.True(t, ok, id)
		require.Equal(t, want, got, id)
	}
	_, ok := CategoryForID("q1")
	require.False(t, ok)
}

func TestReferenceAnswerOnlyInQuestionSet(t *testing.T) {
	set := QuestionSet{
		Projects: []ProjectQuestion{{ProjectName: "crawler", Question: "How did you schedule crawls?", Answer: "a cron table"}},
		Code:     []string{"Reverse a list", "three pointers"},
	}

	raw, err := json.Marshal(set)
	require.NoError(t, err)
	require.Contains(t, string(raw), "a cron table")
	require.Contains(t, string(raw), "three pointers")

	qs := set.Questions()
	require.Equal(t, "a cron table", qs[0].ReferenceAnswer)
	raw, err = json.Marshal(qs)
	require.NoError(t, err)
	require.NotContains(t, string(raw), "a cron table")
	require.NotContains(t, string(raw), "three pointers")
}
