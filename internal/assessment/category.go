package assessment

import "strings"

type Category string

const (
	TechnicalDepth       Category = "technical depth"
	ExpressionAbility    Category = "expression ability"
	ProjectUnderstanding Category = "project understanding"
	ProblemSolving       Category = "problem-solving ability"

	// Overall is the grader's summary dimension. It is listed in strengths
	// and improvements but has no category score of its own.
	Overall Category = "overall"
)

// Categories are the scored categories in report order.
var Categories = [...]Category{TechnicalDepth, ExpressionAbility, ProjectUnderstanding, ProblemSolving}

var categoryAliases = map[string]Category{
	"technical depth":         TechnicalDepth,
	"technical_depth":         TechnicalDepth,
	"技术深度":                    TechnicalDepth,
	"expression ability":      ExpressionAbility,
	"expression_ability":      ExpressionAbility,
	"表达能力":                    ExpressionAbility,
	"project understanding":   ProjectUnderstanding,
	"project_understanding":   ProjectUnderstanding,
	"项目理解":                    ProjectUnderstanding,
	"problem-solving ability": ProblemSolving,
	"problem solving ability": ProblemSolving,
	"problem_solving":         ProblemSolving,
	"问题解决能力":                  ProblemSolving,
	"overall":                 Overall,
	"总评":                      Overall,
}

// ParseCategory maps a dimension name, in English or the grader's Chinese
// labels, to a Category.
func ParseCategory(name string) (Category, bool) {
	c, ok := categoryAliases[strings.ToLower(strings.TrimSpace(name))]
	return c, ok
}

// Scored reports whether c contributes to a category score.
func (c Category) Scored() bool {
	return c != Overall && c != ""
}
