package export

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/yoockh/resumeprep/internal/assessment"
)

// PDFOptions selects an optional UTF-8 TrueType font. Without one the core
// Helvetica font is used and text is translated to cp1252.
type PDFOptions struct {
	FontDir  string
	FontFile string
}

type PDFRenderer struct {
	opts PDFOptions
	now  func() time.Time
}

func NewPDFRenderer(opts PDFOptions) *PDFRenderer {
	return &PDFRenderer{opts: opts, now: time.Now}
}

// Render lays out a report view on A4 pages.
func (r *PDFRenderer) Render(sessionID string, v assessment.View) (out []byte, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("render report pdf: %v", rec)
		}
	}()

	pdf := fpdf.New("P", "mm", "A4", r.opts.FontDir)
	family := "Helvetica"
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	if r.opts.FontFile != "" {
		family = "report"
		pdf.AddUTF8Font(family, "", r.opts.FontFile)
		pdf.AddUTF8Font(family, "B", r.opts.FontFile)
		tr = func(s string) string { return s }
	}
	pdf.SetTitle("Interview assessment", true)
	pdf.AddPage()
	if pdf.Error() != nil {
		return nil, pdf.Error()
	}

	pdf.SetFont(family, "B", 18)
	pdf.CellFormat(0, 10, tr("Interview assessment"), "", 1, "L", false, 0, "")
	pdf.SetFont(family, "", 9)
	pdf.CellFormat(0, 5, tr(fmt.Sprintf("Session %s, generated %s", sessionID, r.now().UTC().Format(time.RFC1123))), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont(family, "B", 14)
	pdf.CellFormat(0, 8, tr(fmt.Sprintf("Overall score: %d / 100", v.OverallScore)), "", 1, "L", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont(family, "B", 11)
	pdf.SetFillColor(235, 235, 235)
	pdf.CellFormat(120, 7, tr("Category"), "1", 0, "L", true, 0, "")
	pdf.CellFormat(30, 7, tr("Score"), "1", 1, "C", true, 0, "")
	pdf.SetFont(family, "", 11)
	for _, c := range assessment.Categories {
		pdf.CellFormat(120, 7, tr(string(c)), "1", 0, "L", false, 0, "")
		pdf.CellFormat(30, 7, fmt.Sprintf("%d", v.CategoryScore(c)), "1", 1, "C", false, 0, "")
	}
	pdf.Ln(4)

	section := func(title string, items []string) {
		pdf.SetFont(family, "B", 12)
		pdf.CellFormat(0, 8, tr(title), "", 1, "L", false, 0, "")
		pdf.SetFont(family, "", 10)
		for _, it := range items {
			pdf.MultiCell(0, 5, tr("- "+it), "", "L", false)
		}
		pdf.Ln(2)
	}
	section("Strengths", v.Strengths)
	section("Areas to improve", v.Improvements)

	pdf.SetFont(family, "B", 12)
	pdf.CellFormat(0, 8, tr("Suggestion"), "", 1, "L", false, 0, "")
	pdf.SetFont(family, "", 10)
	pdf.MultiCell(0, 5, tr(v.Suggestion), "", "L", false)

	if len(v.DetailedEvaluations) > 0 {
		pdf.AddPage()
		pdf.SetFont(family, "B", 14)
		pdf.CellFormat(0, 9, tr("Question by question"), "", 1, "L", false, 0, "")
		for i, d := range v.DetailedEvaluations {
			pdf.SetFont(family, "B", 11)
			heading := fmt.Sprintf("%d. %s", i+1, d.Category)
			if d.ProjectName != "" {
				heading += " (" + d.ProjectName + ")"
			}
			pdf.CellFormat(0, 7, tr(heading), "", 1, "L", false, 0, "")

			pdf.SetFont(family, "", 10)
			pdf.MultiCell(0, 5, tr("Q: "+d.Question), "", "L", false)
			pdf.MultiCell(0, 5, tr("A: "+d.UserAnswer), "", "L", false)
			for _, dim := range d.Evaluation {
				grade := string(dim.Grade)
				if grade == "" {
					grade = "-"
				}
				line := fmt.Sprintf("%s [%s] %s", dim.Label(), grade, strings.TrimSpace(dim.Rationale))
				pdf.MultiCell(0, 5, tr(line), "", "L", false)
			}
			pdf.Ln(3)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
