package interview

import (
	"strconv"
	"strings"
)

const (
	CategoryProject   = "project experience"
	CategoryAdvantage = "personal strengths"
	CategoryCoding    = "coding ability"
)

// Id prefixes double as routing keys when answers are grouped for grading.
const (
	ProjectPrefix   = "project_"
	AdvantagePrefix = "advantage_"
	CodePrefix      = "code_"
)

type FollowUp struct {
	ID       string `json:"id" yaml:"id"`
	Question string `json:"question" yaml:"question"`
}

type Question struct {
	ID                string     `json:"id"`
	Category          string     `json:"category"`
	Question          string     `json:"question"`
	HasFollowUp       bool       `json:"hasFollowUp"`
	FollowUpQuestions []FollowUp `json:"followUpQuestions,omitempty"`
	ProjectName       string     `json:"projectName,omitempty"`

	// ReferenceAnswer is left out of session snapshots and passed to graders.
	// The QuestionSet a resume produces still carries it.
	ReferenceAnswer string `json:"-"`
}

// activeFollowUp returns the follow-up asked after q, if q declares one.
func (q Question) activeFollowUp() (FollowUp, bool) {
	if !q.HasFollowUp || len(q.FollowUpQuestions) == 0 {
		return FollowUp{}, false
	}
	return q.FollowUpQuestions[0], true
}

type Answer struct {
	QuestionID       string `json:"questionId"`
	Answer           string `json:"answer"`
	IsFollowUp       bool   `json:"isFollowUp,omitempty"`
	ParentQuestionID string `json:"parentQuestionId,omitempty"`
}

// QuestionSet is the inbound shape produced by question generation.
type QuestionSet struct {
	Projects   []ProjectQuestion  `json:"projects" yaml:"projects"`
	Advantages *AdvantageQuestion `json:"advantages,omitempty" yaml:"advantages,omitempty"`
	// Code holds [question, reference answer].
	Code []string `json:"code" yaml:"code"`
	// CodeFollowUps is optional and applies to the coding question.
	CodeFollowUps []string `json:"codeFollowUps,omitempty" yaml:"code_follow_ups,omitempty"`
}

type ProjectQuestion struct {
	ProjectName string   `json:"projectName,omitempty" yaml:"project_name,omitempty"`
	Question    string   `json:"question" yaml:"question"`
	Answer      string   `json:"answer,omitempty" yaml:"answer,omitempty"`
	FollowUps   []string `json:"followUps,omitempty" yaml:"follow_ups,omitempty"`
}

type AdvantageQuestion struct {
	Question  string   `json:"question" yaml:"question"`
	Answer    string   `json:"answer,omitempty" yaml:"answer,omitempty"`
	Reason    string   `json:"reason,omitempty" yaml:"reason,omitempty"`
	FollowUps []string `json:"followUps,omitempty" yaml:"follow_ups,omitempty"`
}

// Questions flattens the set into the ordered primary question list:
// projects first, then the personal strengths question, then the coding question.
func (qs QuestionSet) Questions() []Question {
	out := make([]Question, 0, len(qs.Projects)+2)

	for i, p := range qs.Projects {
		if strings.TrimSpace(p.Question) == "" {
			continue
		}
		q := newQuestion(ProjectPrefix+strconv.Itoa(i), CategoryProject, p.Question, p.Answer, p.FollowUps)
		q.ProjectName = p.ProjectName
		out = append(out, q)
	}

	if a := qs.Advantages; a != nil && strings.TrimSpace(a.Question) != "" {
		out = append(out, newQuestion(AdvantagePrefix+"1", CategoryAdvantage, a.Question, a.Answer, a.FollowUps))
	}

	if len(qs.Code) > 0 && strings.TrimSpace(qs.Code[0]) != "" {
		ref := ""
		if len(qs.Code) > 1 {
			ref = qs.Code[1]
		}
		out = append(out, newQuestion(CodePrefix+"1", CategoryCoding, qs.Code[0], ref, qs.CodeFollowUps))
	}
	return out
}

func newQuestion(id, category, text, reference string, followUps []string) Question {
	q := Question{
		ID:              id,
		Category:        category,
		Question:        text,
		ReferenceAnswer: reference,
	}
	for _, f := range followUps {
		if strings.TrimSpace(f) == "" {
			continue
		}
		q.FollowUpQuestions = append(q.FollowUpQuestions, FollowUp{
			ID:       id + "-f" + strconv.Itoa(len(q.FollowUpQuestions)+1),
			Question: f,
		})
	}
	q.HasFollowUp = len(q.FollowUpQuestions) > 0
	return q
}

// CategoryForID maps a namespaced question id (primary or follow-up) to its category.
func CategoryForID(id string) (string, bool) {
	switch {
	case strings.HasPrefix(id, ProjectPrefix):
		return CategoryProject, true
	case strings.HasPrefix(id, AdvantagePrefix):
		return CategoryAdvantage, true
	case strings.HasPrefix(id, CodePrefix):
		return CategoryCoding, true
	default:
		return "", false
	}
}
