package interview

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/require"
)

func scenarioQuestions() []Question {
	return []Question{
		{ID: "q1", Category: CategoryProject, Question: "Tell me about q1", HasFollowUp: true,
			FollowUpQuestions: []FollowUp{{ID: "q1-f1", Question: "Why q1?"}}},
		{ID: "q2", Category: CategoryCoding, Question: "Solve q2"},
	}
}

func TestSessionScenario(t *testing.T) {
	var emitted [][]Answer
	s := NewSession(scenarioQuestions(), WithOnComplete(func(a []Answer) { emitted = append(emitted, a) }))

	require.Equal(t, FollowUpShown, s.Submit("ans1"))
	require.True(t, s.OnFollowUp())
	require.Equal(t, 0, s.Index())
	f, ok := s.ActiveFollowUp()
	require.True(t, ok)
	require.Equal(t, "q1-f1", f.ID)

	require.Equal(t, Advanced, s.Submit("ans1-f"))
	require.False(t, s.OnFollowUp())
	require.Equal(t, 1, s.Index())

	require.Equal(t, Completed, s.Submit("ans2"))
	require.True(t, s.IsComplete())

	want := []Answer{
		{QuestionID: "q1", Answer: "ans1"},
		{QuestionID: "q1-f1", Answer: "ans1-f", IsFollowUp: true, ParentQuestionID: "q1"},
		{QuestionID: "q2", Answer: "ans2"},
	}
	require.Len(t, emitted, 1)
	require.Equal(t, want, emitted[0])
	require.Equal(t, want, s.Answers())

	t.Run("submissions after completion are ignored", func(t *testing.T) {
		require.Equal(t, Ignored, s.Submit("late"))
		require.Len(t, s.Answers(), 3)
		require.False(t, s.Finish())
		require.Len(t, emitted, 1)
	})
}

func TestSessionBlankSubmission(t *testing.T) {
	s := NewSession(scenarioQuestions())
	for _, text := range []string{"", " ", "\t\n", "   \r\n "} {
		require.Equal(t, Ignored, s.Submit(text))
		require.Equal(t, 0, s.Index())
		require.False(t, s.OnFollowUp())
		require.Empty(t, s.Answers())
	}

	s.Submit("ans1")
	s.SetDraft("  ")
	require.Equal(t, Ignored, s.SubmitDraft())
	require.True(t, s.OnFollowUp())
	require.Len(t, s.Answers(), 1)
	require.Equal(t, "  ", s.Draft())
}

func TestSessionDraftClearedOnSubmit(t *testing.T) {
	s := NewSession(scenarioQuestions())
	s.SetDraft("  keep my spacing ")
	require.Equal(t, FollowUpShown, s.SubmitDraft())
	require.Equal(t, "", s.Draft())
	require.Equal(t, "  keep my spacing ", s.Answers()[0].Answer)
}

func TestSessionProgress(t *testing.T) {
	qs := []Question{
		{ID: "a", Question: "a", HasFollowUp: true, FollowUpQuestions: []FollowUp{{ID: "a-f1", Question: "a?"}}},
		{ID: "b", Question: "b"},
		{ID: "c", Question: "c", HasFollowUp: true, FollowUpQuestions: []FollowUp{{ID: "c-f1", Question: "c?"}}},
		{ID: "d", Question: "d"},
	}
	s := NewSession(qs)
	require.Equal(t, 0.0, s.Progress())

	inputs := []string{"x", " ", "y", "", "z", "w", "\t", "v", "u", "extra"}
	wantPercent := []int{13, 13, 25, 25, 50, 63, 63, 75, 100, 100}
	prev := s.Progress()
	for i, in := range inputs {
		s.Submit(in)
		p := s.Progress()
		require.GreaterOrEqual(t, p, prev, "step %d", i)
		require.GreaterOrEqual(t, p, 0.0)
		require.LessOrEqual(t, p, 1.0)
		require.Equal(t, wantPercent[i], s.ProgressPercent(), "step %d", i)
		prev = p
	}
	require.True(t, s.IsComplete())
}

func TestSessionProgressWhenLastQuestionHasFollowUp(t *testing.T) {
	qs := []Question{
		{ID: "project_0", Question: "p0", HasFollowUp: true, FollowUpQuestions: []FollowUp{{ID: "project_0-f1", Question: "p0?"}}},
		{ID: "project_1", Question: "p1"},
		{ID: "code_1", Question: "code", HasFollowUp: true, FollowUpQuestions: []FollowUp{{ID: "code_1-f1", Question: "code?"}}},
	}
	s := NewSession(qs)

	prev := s.Progress()
	for i := 0; i < 5; i++ {
		s.Submit("x")
		p := s.Progress()
		require.GreaterOrEqual(t, p, prev, "step %d", i)
		prev = p
	}
	require.True(t, s.IsComplete())
	require.Equal(t, 1.0, s.Progress())
	require.Equal(t, 100, s.ProgressPercent())
}

func TestSessionFinishOnFollowUpKeepsProgress(t *testing.T) {
	s := NewSession(scenarioQuestions())
	s.Submit("ans1")
	require.True(t, s.OnFollowUp())
	before := s.Progress()

	require.True(t, s.Finish())
	require.GreaterOrEqual(t, s.Progress(), before)
	require.Equal(t, 1.0, s.Progress())
}

func TestSessionFollowUpFlagWithoutQuestions(t *testing.T) {
	s := NewSession([]Question{{ID: "q1", Question: "q1", HasFollowUp: true}, {ID: "q2", Question: "q2"}})
	require.Equal(t, Advanced, s.Submit("a"))
	require.False(t, s.OnFollowUp())
}

func TestSessionOnlyFirstFollowUpIsAsked(t *testing.T) {
	q := Question{ID: "p", Question: "p", HasFollowUp: true, FollowUpQuestions: []FollowUp{
		{ID: "p-f1", Question: "first"}, {ID: "p-f2", Question: "second"},
	}}
	s := NewSession([]Question{q})
	s.Submit("a")
	require.Equal(t, Completed, s.Submit("b"))
	require.Equal(t, "p-f1", s.Answers()[1].QuestionID)

	text, ok := s.QuestionText("p-f2")
	require.True(t, ok)
	require.Equal(t, "second", text)
}

func TestSessionFinishEarly(t *testing.T) {
	var emitted []Answer
	calls := 0
	s := NewSession(scenarioQuestions(), WithOnComplete(func(a []Answer) {
		calls++
		emitted = a
	}))
	s.Submit("ans1")
	require.True(t, s.Finish())
	require.True(t, s.IsComplete())
	require.False(t, s.OnFollowUp())
	require.Equal(t, 1, calls)
	require.Equal(t, []Answer{{QuestionID: "q1", Answer: "ans1"}}, emitted)

	_, ok := s.Current()
	require.False(t, ok)
	require.False(t, s.Finish())
	require.Equal(t, 1, calls)
}

func TestSessionEmptyQuestionList(t *testing.T) {
	s := NewSession(nil)
	require.True(t, s.IsComplete())
	require.Equal(t, 1.0, s.Progress())
	require.Equal(t, Ignored, s.Submit("hello"))
	require.Empty(t, slices.Collect(s.History()))
}

func TestSessionLookupFirstOccurrenceWins(t *testing.T) {
	s := NewSession([]Question{
		{ID: "dup", Question: "first"},
		{ID: "dup", Question: "second"},
	})
	text, ok := s.QuestionText("dup")
	require.True(t, ok)
	require.Equal(t, "first", text)

	_, ok = s.QuestionText("missing")
	require.False(t, ok)
}
