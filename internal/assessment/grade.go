// Package assessment turns raw per-question evaluation payloads into a single
// scored report. It never fails: anything missing or malformed counts as
// ungraded and scores NeutralScore.
package assessment

import "strings"

// Grade is one of A, B, C, D or GradeUngraded.
type Grade string

const (
	GradeA Grade = "A"
	GradeB Grade = "B"
	GradeC Grade = "C"
	GradeD Grade = "D"

	// GradeUngraded stands for a missing or unrecognised grade.
	GradeUngraded Grade = ""
)

// NeutralScore is used for ungraded dimensions and categories nobody scored.
const NeutralScore = 60

// ParseGrade accepts the four letters (surrounding blanks ignored); anything
// else is GradeUngraded.
func ParseGrade(s string) Grade {
	switch g := Grade(strings.TrimSpace(s)); g {
	case GradeA, GradeB, GradeC, GradeD:
		return g
	default:
		return GradeUngraded
	}
}

func (g Grade) Known() bool {
	return g != GradeUngraded
}

func (g Grade) Score() int {
	switch g {
	case GradeA:
		return 90
	case GradeB:
		return 75
	case GradeC:
		return 60
	case GradeD:
		return 40
	default:
		return NeutralScore
	}
}

// IsStrength reports whether the grade lands in the strengths list.
func (g Grade) IsStrength() bool { return g == GradeA || g == GradeB }

// IsWeakness reports whether the grade lands in the improvements list.
func (g Grade) IsWeakness() bool { return g == GradeC || g == GradeD }
