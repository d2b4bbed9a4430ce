package interview

import "iter"

type EntryType string

const (
	EntryPrimary  EntryType = "primary"
	EntryFollowUp EntryType = "followup"
)

// ConversationEntry is one question/answer exchange as shown in a transcript.
// Question is empty and Resolved false when the id is not part of the session.
type ConversationEntry struct {
	Type       EntryType `json:"type"`
	QuestionID string    `json:"questionId"`
	Question   string    `json:"question,omitempty"`
	Resolved   bool      `json:"resolved"`
	Answer     string    `json:"answer"`
	ParentID   string    `json:"parentId,omitempty"`
}

// History rebuilds the transcript from the answer log. Each primary answer is
// followed by the follow-up answers that name it as parent, in submission
// order. The sequence is computed on every iteration.
func (s *Session) History() iter.Seq[ConversationEntry] {
	return func(yield func(ConversationEntry) bool) {
		historyOf(s.Answers(), s.QuestionText)(yield)
	}
}

// BuildHistory is History for an answer log detached from its session, such
// as one loaded back from storage.
func BuildHistory(questions []Question, answers []Answer) []ConversationEntry {
	s := NewSession(questions)
	var out []ConversationEntry
	for e := range historyOf(answers, s.QuestionText) {
		out = append(out, e)
	}
	return out
}

func historyOf(answers []Answer, resolve func(string) (string, bool)) iter.Seq[ConversationEntry] {
	return func(yield func(ConversationEntry) bool) {
		var primaries []Answer
		// keyed by follow-up id; a repeated id replaces the earlier answer in place
		followUps := make([]Answer, 0)
		pos := make(map[string]int)
		for _, a := range answers {
			if a.IsFollowUp && a.ParentQuestionID != "" {
				if i, ok := pos[a.QuestionID]; ok {
					followUps[i] = a
					continue
				}
				pos[a.QuestionID] = len(followUps)
				followUps = append(followUps, a)
				continue
			}
			primaries = append(primaries, a)
		}

		entry := func(t EntryType, a Answer) ConversationEntry {
			text, ok := resolve(a.QuestionID)
			e := ConversationEntry{Type: t, QuestionID: a.QuestionID, Question: text, Resolved: ok, Answer: a.Answer}
			if t == EntryFollowUp {
				e.ParentID = a.ParentQuestionID
			}
			return e
		}

		for _, p := range primaries {
			if !yield(entry(EntryPrimary, p)) {
				return
			}
			for _, f := range followUps {
				if f.ParentQuestionID != p.QuestionID {
					continue
				}
				if !yield(entry(EntryFollowUp, f)) {
					return
				}
			}
		}
	}
}
