package services

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
	"github.com/yoockh/resumeprep/internal/assessment"
	"github.com/yoockh/resumeprep/internal/cache"
	"github.com/yoockh/resumeprep/internal/models"
	pgrepo "github.com/yoockh/resumeprep/internal/repositories/postgres"
	"github.com/yoockh/resumeprep/internal/utils"
	"gorm.io/datatypes"
)

type ReportRenderer interface {
	Render(sessionID string, v assessment.View) ([]byte, error)
}

type ReportService interface {
	Save(ctx context.Context, sessionID string, attempt int, graderName string, r assessment.Report) error
	Get(ctx context.Context, sessionID string) (*assessment.View, error)
	PDF(ctx context.Context, sessionID string) ([]byte, error)
	// Aggregate grades nothing; it only turns a raw payload into a view.
	Aggregate(p assessment.Payload) assessment.View
}

type reportService struct {
	reports  pgrepo.ReportRepository
	cache    cache.Cache
	renderer ReportRenderer
	ttl      time.Duration
	log      *logrus.Logger
}

func NewReportService(reports pgrepo.ReportRepository, c cache.Cache, renderer ReportRenderer, ttl time.Duration, log *logrus.Logger) ReportService {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	if log == nil {
		log = logrus.New()
	}
	return &reportService{reports: reports, cache: c, renderer: renderer, ttl: ttl, log: log}
}

func (s *reportService) Save(ctx context.Context, sessionID string, attempt int, graderName string, r assessment.Report) error {
	const op = "ReportService.Save"

	if sessionID == "" {
		return utils.E(utils.CodeInvalidArgument, op, "session_id is required", nil)
	}

	row, err := toReportRow(sessionID, attempt, graderName, r)
	if err != nil {
		return utils.E(utils.CodeInternal, op, "failed to encode report", err)
	}
	if err := s.reports.Upsert(ctx, row); err != nil {
		return utils.E(utils.CodeInternal, op, "failed to store report", err)
	}

	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, cache.ReportKey(sessionID), r, s.ttl); err != nil {
			s.log.WithError(err).WithField("session_id", sessionID).Warn("report cache write failed")
		}
	}
	return nil
}

func (s *reportService) Get(ctx context.Context, sessionID string) (*assessment.View, error) {
	const op = "ReportService.Get"

	r, err := s.load(ctx, op, sessionID)
	if err != nil {
		return nil, err
	}
	v := r.ToView()
	return &v, nil
}

func (s *reportService) PDF(ctx context.Context, sessionID string) ([]byte, error) {
	const op = "ReportService.PDF"

	if s.renderer == nil {
		return nil, utils.E(utils.CodeUnavailable, op, "pdf export is not configured", nil)
	}
	r, err := s.load(ctx, op, sessionID)
	if err != nil {
		return nil, err
	}
	out, err := s.renderer.Render(sessionID, r.ToView())
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to render report", err)
	}
	return out, nil
}

func (s *reportService) Aggregate(p assessment.Payload) assessment.View {
	return assessment.Aggregate(p).ToView()
}

func (s *reportService) load(ctx context.Context, op, sessionID string) (assessment.Report, error) {
	if sessionID == "" {
		return assessment.Report{}, utils.E(utils.CodeInvalidArgument, op, "session_id is required", nil)
	}

	if s.cache != nil {
		var r assessment.Report
		hit, err := s.cache.GetJSON(ctx, cache.ReportKey(sessionID), &r)
		if err == nil && hit {
			return r, nil
		}
	}

	row, err := s.reports.GetBySessionID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return assessment.Report{}, utils.E(utils.CodeNotFound, op, "report not found", err)
		}
		return assessment.Report{}, utils.E(utils.CodeInternal, op, "failed to get report", err)
	}

	r, err := fromReportRow(row)
	if err != nil {
		return assessment.Report{}, utils.E(utils.CodeInternal, op, "stored report is corrupt", err)
	}
	if s.cache != nil {
		_ = s.cache.SetJSON(ctx, cache.ReportKey(sessionID), r, s.ttl)
	}
	return r, nil
}

func toReportRow(sessionID string, attempt int, graderName string, r assessment.Report) (*models.AssessmentReport, error) {
	scores, err := json.Marshal(r.CategoryScores)
	if err != nil {
		return nil, err
	}
	detailed, err := json.Marshal(nonNil(r.DetailedEvaluations))
	if err != nil {
		return nil, err
	}
	return &models.AssessmentReport{
		SessionID:      sessionID,
		Attempt:        attempt,
		Grader:         graderName,
		OverallScore:   r.OverallScore,
		CategoryScores: datatypes.JSON(scores),
		Strengths:      pq.StringArray(nonNil(r.Strengths)),
		Improvements:   pq.StringArray(nonNil(r.Improvements)),
		Suggestion:     r.Suggestion,
		Detailed:       datatypes.JSON(detailed),
		CreatedAt:      time.Now().UTC(),
	}, nil
}

func fromReportRow(row *models.AssessmentReport) (assessment.Report, error) {
	r := assessment.Report{
		OverallScore: row.OverallScore,
		Strengths:    []string(row.Strengths),
		Improvements: []string(row.Improvements),
		Suggestion:   row.Suggestion,
	}
	if err := json.Unmarshal(row.CategoryScores, &r.CategoryScores); err != nil {
		return assessment.Report{}, err
	}
	if len(row.Detailed) > 0 {
		if err := json.Unmarshal(row.Detailed, &r.DetailedEvaluations); err != nil {
			return assessment.Report{}, err
		}
	}
	return r, nil
}
