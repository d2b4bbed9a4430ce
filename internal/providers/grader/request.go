package grader

import (
	"strings"

	"github.com/yoockh/resumeprep/internal/interview"
)

// Item is one primary question with the candidate's answer. Follow-up
// exchanges are folded into Question and Answer.
type Item struct {
	QuestionID      string `json:"question_id"`
	ProjectName     string `json:"project_name,omitempty"`
	Question        string `json:"question"`
	Answer          string `json:"answer"`
	ReferenceAnswer string `json:"reference_answer,omitempty"`
}

// Request groups a finished interview the way graders expect it.
type Request struct {
	SessionID  string `json:"session_id"`
	Projects   []Item `json:"projects"`
	Advantages *Item  `json:"advantages,omitempty"`
	Code       *Item  `json:"code,omitempty"`
}

// Len is the number of items to grade.
func (r Request) Len() int {
	n := len(r.Projects)
	if r.Advantages != nil {
		n++
	}
	if r.Code != nil {
		n++
	}
	return n
}

// BuildRequest routes answers by id prefix. Answers to unknown ids keep the
// id as question text; ids with no known prefix are dropped.
func BuildRequest(sessionID string, questions []interview.Question, answers []interview.Answer) Request {
	primaries := make(map[string]interview.Question, len(questions))
	followUps := make(map[string]string)
	for _, q := range questions {
		if _, dup := primaries[q.ID]; !dup {
			primaries[q.ID] = q
		}
		for _, f := range q.FollowUpQuestions {
			if _, dup := followUps[f.ID]; !dup {
				followUps[f.ID] = f.Question
			}
		}
	}

	var order []string
	items := make(map[string]*Item)
	answered := make(map[string]bool)
	itemFor := func(id string) *Item {
		if it, ok := items[id]; ok {
			return it
		}
		it := &Item{QuestionID: id, Question: id}
		if q, ok := primaries[id]; ok {
			it.Question = q.Question
			it.ProjectName = q.ProjectName
			it.ReferenceAnswer = q.ReferenceAnswer
		}
		items[id] = it
		order = append(order, id)
		return it
	}

	for _, a := range answers {
		if a.IsFollowUp && a.ParentQuestionID != "" {
			it := itemFor(a.ParentQuestionID)
			text, ok := followUps[a.QuestionID]
			if !ok {
				text = a.QuestionID
			}
			it.Question = joinNonEmpty(it.Question, "Follow-up: "+text)
			it.Answer = joinNonEmpty(it.Answer, "Follow-up answer: "+a.Answer)
			continue
		}
		if answered[a.QuestionID] {
			continue
		}
		answered[a.QuestionID] = true
		it := itemFor(a.QuestionID)
		if it.Answer == "" {
			it.Answer = a.Answer
		} else {
			// a follow-up arrived before its primary
			it.Answer = a.Answer + "\n" + it.Answer
		}
	}

	req := Request{SessionID: sessionID}
	for _, id := range order {
		it := *items[id]
		switch {
		case strings.HasPrefix(id, interview.ProjectPrefix):
			req.Projects = append(req.Projects, it)
		case strings.HasPrefix(id, interview.AdvantagePrefix):
			if req.Advantages == nil {
				req.Advantages = &it
			}
		case strings.HasPrefix(id, interview.CodePrefix):
			if req.Code == nil {
				req.Code = &it
			}
		}
	}
	return req
}

func joinNonEmpty(a, b string) string {
	if a == "" {
		return b
	}
	return a + "\n" + b
}
