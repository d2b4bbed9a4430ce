package questiongen

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/yoockh/resumeprep/internal/interview"
	"github.com/yoockh/resumeprep/internal/providers/llm"
)

type Generator interface {
	// ExtractProfile reads a resume document into a Profile.
	ExtractProfile(ctx context.Context, mimeType string, doc []byte) (Profile, error)
	// Generate builds the interview question set for a profile.
	Generate(ctx context.Context, p Profile) (interview.QuestionSet, error)
}

// ErrUnparsable is returned when the model reply holds no usable JSON.
var ErrUnparsable = errors.New("model reply is not valid JSON")

const extractPrompt = `You are a resume parser. Read the resume and return only JSON, no markdown:
{
  "full_name": "",
  "summary": "one or two sentences",
  "education": [{"school": "", "degree": "", "major": "", "graduation_year": ""}],
  "projects": [{"name": "", "description": "", "technologies": [], "responsibilities": [], "achievements": []}],
  "work_experience": [{"company": "", "position": "", "duration": "", "responsibilities": [], "achievements": []}],
  "skills": [],
  "advantages": []
}
Use empty lists for anything the resume does not mention. Every field must be present.`

const questionPrompt = `You are an experienced technical interviewer. Using the candidate profile below, prepare an interview.
- For each project (at most %d) write ONE question about its background, technical choices or the hardest problem solved,
  a spoken-style reference answer, and at most one follow-up question.
- Write ONE question probing the candidate's strongest declared skill area, with a reference answer and the reason you chose it.
- Write ONE coding question suited to the candidate's stack, with a reference solution.
Return only JSON, no markdown:
{
  "projects": [{"project_name": "", "question": "", "answer": "", "follow_ups": [""]}],
  "advantages": {"question": "", "answer": "", "reason": "", "follow_ups": []},
  "code": {"question": "", "answer": "", "follow_ups": []}
}

Candidate profile:
%s`

type LLMGenerator struct {
	llm         llm.Provider
	maxProjects int
}

func NewLLMGenerator(p llm.Provider, maxProjects int) *LLMGenerator {
	if maxProjects <= 0 {
		maxProjects = 3
	}
	return &LLMGenerator{llm: p, maxProjects: maxProjects}
}

func (g *LLMGenerator) ExtractProfile(ctx context.Context, mimeType string, doc []byte) (Profile, error) {
	if len(doc) == 0 {
		return Profile{}, errors.New("empty document")
	}

	var (
		reply string
		err   error
	)
	if strings.HasPrefix(mimeType, "text/") {
		reply, err = g.llm.Generate(ctx, extractPrompt+"\n\nResume:\n"+string(doc))
	} else {
		reply, err = g.llm.GenerateFromDocument(ctx, mimeType, doc, extractPrompt)
	}
	if err != nil {
		return Profile{}, fmt.Errorf("extract profile: %w", err)
	}

	var p Profile
	if err := json.Unmarshal([]byte(llm.ExtractJSON(reply)), &p); err != nil {
		return Profile{}, fmt.Errorf("%w: %v", ErrUnparsable, err)
	}
	return p, nil
}

type generatedItem struct {
	ProjectName string   `json:"project_name"`
	Question    string   `json:"question"`
	Answer      string   `json:"answer"`
	Reason      string   `json:"reason"`
	FollowUps   []string `json:"follow_ups"`
}

type generatedSet struct {
	Projects   []generatedItem `json:"projects"`
	Advantages *generatedItem  `json:"advantages"`
	Code       *generatedItem  `json:"code"`
}

func (g *LLMGenerator) Generate(ctx context.Context, p Profile) (interview.QuestionSet, error) {
	profile, err := json.Marshal(p)
	if err != nil {
		return interview.QuestionSet{}, err
	}

	reply, err := g.llm.Generate(ctx, fmt.Sprintf(questionPrompt, g.maxProjects, profile))
	if err != nil {
		return interview.QuestionSet{}, fmt.Errorf("generate questions: %w", err)
	}

	var raw generatedSet
	if err := json.Unmarshal([]byte(llm.ExtractJSON(reply)), &raw); err != nil {
		return interview.QuestionSet{}, fmt.Errorf("%w: %v", ErrUnparsable, err)
	}

	set := toQuestionSet(raw, g.maxProjects)
	if len(set.Questions()) == 0 {
		return interview.QuestionSet{}, fmt.Errorf("%w: no questions in reply", ErrUnparsable)
	}
	return set, nil
}

func toQuestionSet(raw generatedSet, maxProjects int) interview.QuestionSet {
	var set interview.QuestionSet
	for _, it := range raw.Projects {
		if len(set.Projects) == maxProjects {
			break
		}
		set.Projects = append(set.Projects, interview.ProjectQuestion{
			ProjectName: strings.TrimSpace(it.ProjectName),
			Question:    strings.TrimSpace(it.Question),
			Answer:      strings.TrimSpace(it.Answer),
			FollowUps:   it.FollowUps,
		})
	}
	if a := raw.Advantages; a != nil && strings.TrimSpace(a.Question) != "" {
		set.Advantages = &interview.AdvantageQuestion{
			Question:  strings.TrimSpace(a.Question),
			Answer:    strings.TrimSpace(a.Answer),
			Reason:    strings.TrimSpace(a.Reason),
			FollowUps: a.FollowUps,
		}
	}
	if c := raw.Code; c != nil && strings.TrimSpace(c.Question) != "" {
		set.Code = []string{strings.TrimSpace(c.Question), strings.TrimSpace(c.Answer)}
		set.CodeFollowUps = c.FollowUps
	}
	return set
}
