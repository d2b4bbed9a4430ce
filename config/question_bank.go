package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/yoockh/resumeprep/internal/interview"
	"gopkg.in/yaml.v3"
)

// LoadQuestionBank reads the demo question set used when an interview is
// started without a resume.
func LoadQuestionBank(filename string) (interview.QuestionSet, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return interview.QuestionSet{}, fmt.Errorf("read question bank %s: %w", filename, err)
	}

	var set interview.QuestionSet
	if err := yaml.Unmarshal(data, &set); err != nil {
		return interview.QuestionSet{}, fmt.Errorf("parse question bank: %w", err)
	}
	if err := validateQuestionBank(set); err != nil {
		return interview.QuestionSet{}, fmt.Errorf("validate question bank: %w", err)
	}
	return set, nil
}

func validateQuestionBank(set interview.QuestionSet) error {
	for i, p := range set.Projects {
		if strings.TrimSpace(p.Question) == "" {
			return fmt.Errorf("projects[%d] must have a question", i)
		}
	}
	if set.Advantages != nil && strings.TrimSpace(set.Advantages.Question) == "" {
		return fmt.Errorf("advantages must have a question")
	}
	if len(set.Code) > 2 {
		return fmt.Errorf("code holds [question, reference answer], got %d items", len(set.Code))
	}
	if len(set.Questions()) == 0 {
		return fmt.Errorf("question bank has no questions")
	}
	return nil
}
