package assessment

import (
	"fmt"
	"math"
)

// Provenance tags carried by detailed evaluations.
const (
	SourceProject   = "project experience"
	SourceAdvantage = "personal strengths"
	SourceCoding    = "coding ability"
)

const (
	NoDataStrength     = "no evaluation data"
	NoDataImprovement  = "ensure answer completeness"
	NoDataSuggestion   = "No evaluation data was produced for this interview. Answer every question in full and try again."
	suggestionTemplate = "Your strongest area is %s (%d) and the one to work on first is %s (%d). Review the improvement points below and practise explaining your projects end to end."
	balancedTemplate   = "Your categories are evenly matched at %d. Review the improvement points below and keep practising with concrete project examples."
)

// DetailedEvaluation is one graded question as shown in the detail view.
type DetailedEvaluation struct {
	ProjectName     string     `json:"projectName,omitempty"`
	Question        string     `json:"question"`
	UserAnswer      string     `json:"userAnswer"`
	ReferenceAnswer string     `json:"referenceAnswer"`
	Evaluation      Evaluation `json:"evaluation"`
	Category        string     `json:"category"`
}

// Report is the aggregate result for one interview. Improvements holds every
// entry; use RenderImprovements for display.
type Report struct {
	OverallScore        int                  `json:"overallScore"`
	CategoryScores      map[Category]int     `json:"categoriesScore"`
	Strengths           []string             `json:"strengths"`
	Improvements        []string             `json:"improvements"`
	Suggestion          string               `json:"suggestions"`
	DetailedEvaluations []DetailedEvaluation `json:"detailedEvaluations"`
}

// CategoryScore returns the score for c, or NeutralScore if missing.
func (r Report) CategoryScore(c Category) int {
	if s, ok := r.CategoryScores[c]; ok {
		return s
	}
	return NeutralScore
}

// Blocks lists the payload's blocks in display order: projects, then the
// personal strengths block, then the coding block, each tagged with its source.
func (p Payload) Blocks() []Block {
	out := make([]Block, 0, len(p.ProjectQA)+2)
	for _, b := range p.ProjectQA {
		b.Source = SourceProject
		out = append(out, b)
	}
	if p.Advantages != nil {
		b := *p.Advantages
		b.Source = SourceAdvantage
		out = append(out, b)
	}
	if p.Code != nil {
		b := *p.Code
		b.Source = SourceCoding
		out = append(out, b)
	}
	return out
}

// Aggregate collapses a raw payload into a Report. Blocks without an
// evaluation are skipped; if none has one the neutral fallback is returned.
func Aggregate(p Payload) Report {
	var graded []Block
	for _, b := range p.Blocks() {
		if b.HasEvaluation() {
			graded = append(graded, b)
		}
	}
	if len(graded) == 0 {
		return fallbackReport()
	}

	sums := make(map[Category]int, len(Categories))
	counts := make(map[Category]int, len(Categories))
	r := Report{
		CategoryScores:      make(map[Category]int, len(Categories)),
		Strengths:           []string{},
		Improvements:        []string{},
		DetailedEvaluations: make([]DetailedEvaluation, 0, len(graded)),
	}

	for _, b := range graded {
		for _, d := range b.Evaluation {
			if d.Category.Scored() {
				sums[d.Category] += d.Grade.Score()
				counts[d.Category]++
			}
			entry := d.Label() + ": " + d.Rationale
			switch {
			case d.Grade.IsStrength():
				r.Strengths = append(r.Strengths, entry)
			case d.Grade.IsWeakness():
				r.Improvements = append(r.Improvements, entry)
			}
		}
		r.DetailedEvaluations = append(r.DetailedEvaluations, DetailedEvaluation{
			ProjectName:     b.ProjectName,
			Question:        b.Question,
			UserAnswer:      b.UserAnswer,
			ReferenceAnswer: b.ReferenceAnswer,
			Evaluation:      b.Evaluation,
			Category:        b.Source,
		})
	}

	total := 0
	for _, c := range Categories {
		score := NeutralScore
		if n := counts[c]; n > 0 {
			score = roundMean(sums[c], n)
		}
		r.CategoryScores[c] = score
		total += score
	}
	r.OverallScore = roundMean(total, len(Categories))
	r.Suggestion = suggest(r.CategoryScores)
	return r
}

func fallbackReport() Report {
	scores := make(map[Category]int, len(Categories))
	for _, c := range Categories {
		scores[c] = NeutralScore
	}
	return Report{
		OverallScore:        NeutralScore,
		CategoryScores:      scores,
		Strengths:           []string{NoDataStrength},
		Improvements:        []string{NoDataImprovement},
		Suggestion:          NoDataSuggestion,
		DetailedEvaluations: []DetailedEvaluation{},
	}
}

func suggest(scores map[Category]int) string {
	lo, hi := Categories[0], Categories[0]
	for _, c := range Categories[1:] {
		if scores[c] < scores[lo] {
			lo = c
		}
		if scores[c] > scores[hi] {
			hi = c
		}
	}
	if scores[lo] == scores[hi] {
		return fmt.Sprintf(balancedTemplate, scores[lo])
	}
	return fmt.Sprintf(suggestionTemplate, hi, scores[hi], lo, scores[lo])
}

// roundMean rounds half away from zero, so 67.5 becomes 68.
func roundMean(sum, n int) int {
	return int(math.Round(float64(sum) / float64(n)))
}
