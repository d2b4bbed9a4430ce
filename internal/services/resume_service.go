package services

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/yoockh/resumeprep/internal/cache"
	"github.com/yoockh/resumeprep/internal/interview"
	"github.com/yoockh/resumeprep/internal/models"
	"github.com/yoockh/resumeprep/internal/providers/questiongen"
	pgrepo "github.com/yoockh/resumeprep/internal/repositories/postgres"
	"github.com/yoockh/resumeprep/internal/storage"
	"github.com/yoockh/resumeprep/internal/utils"
)

const MaxResumeBytes = 10 << 20

type UploadInput struct {
	FileName string
	Size     int64
	Reader   io.Reader
}

type UploadResult struct {
	ResumeID  string                `json:"resume_id"`
	Resume    questiongen.Profile   `json:"resume"`
	Questions interview.QuestionSet `json:"questions"`
}

type ResumeService interface {
	// Upload stores a resume, reads it and prepares the interview questions.
	Upload(ctx context.Context, in UploadInput) (*UploadResult, error)
	// Questions returns the prepared question set of an uploaded resume.
	Questions(ctx context.Context, resumeID string) (*interview.QuestionSet, error)
}

type resumeService struct {
	files    pgrepo.ResumeFileRepository
	profiles ProfileService
	uploader storage.Uploader
	gen      questiongen.Generator
	cache    cache.Cache
	ttl      time.Duration
}

func NewResumeService(files pgrepo.ResumeFileRepository, profiles ProfileService, uploader storage.Uploader, gen questiongen.Generator, c cache.Cache, ttl time.Duration) ResumeService {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &resumeService{files: files, profiles: profiles, uploader: uploader, gen: gen, cache: c, ttl: ttl}
}

// allowed extensions and the sniffed content type each must carry
var resumeTypes = map[string]string{
	".pdf": "application/pdf",
	".txt": "text/plain",
}

func (s *resumeService) Upload(ctx context.Context, in UploadInput) (*UploadResult, error) {
	const op = "ResumeService.Upload"

	ext := strings.ToLower(filepath.Ext(in.FileName))
	wantType, ok := resumeTypes[ext]
	if !ok {
		return nil, utils.E(utils.CodeInvalidArgument, op, "unsupported file type, upload a PDF or TXT file", nil)
	}
	if in.Size <= 0 || in.Size > MaxResumeBytes {
		return nil, utils.E(utils.CodeInvalidArgument, op, "file must be between 1 byte and 10MB", nil)
	}
	if s.uploader == nil || s.gen == nil {
		return nil, utils.E(utils.CodeInternal, op, "resume intake is not configured", nil)
	}

	data, err := io.ReadAll(io.LimitReader(in.Reader, MaxResumeBytes+1))
	if err != nil {
		return nil, utils.E(utils.CodeInvalidArgument, op, "failed to read upload", err)
	}
	if len(data) == 0 || len(data) > MaxResumeBytes {
		return nil, utils.E(utils.CodeInvalidArgument, op, "file must be between 1 byte and 10MB", nil)
	}

	mime := http.DetectContentType(data)
	if !strings.HasPrefix(mime, wantType) {
		return nil, utils.E(utils.CodeInvalidArgument, op, "file content does not match its extension", nil)
	}

	resumeID := uuid.NewString()
	storedPath, err := s.uploader.Upload(ctx, "resumes/"+resumeID+ext, mime, bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, utils.E(utils.CodeUnavailable, op, "failed to store resume", err)
	}

	row := &models.ResumeFile{
		ID:       resumeID,
		FileName: in.FileName,
		FilePath: storedPath,
		FileSize: len(data),
		MimeType: mime,
		UploadAt: time.Now().UTC(),
	}
	if err := s.files.Insert(ctx, row); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to persist resume metadata", err)
	}

	profile, err := s.gen.ExtractProfile(ctx, mime, data)
	if err != nil {
		return nil, generationError(op, "failed to read the resume", err)
	}
	if profile.Empty() {
		return nil, utils.E(utils.CodeFailedPrecond, op, "no resume content could be found in the file", nil)
	}
	if err := s.profiles.Upsert(ctx, resumeID, profile); err != nil {
		return nil, err
	}

	set, err := s.gen.Generate(ctx, profile)
	if err != nil {
		return nil, generationError(op, "failed to generate interview questions", err)
	}
	if err := s.cache.SetJSON(ctx, cache.QuestionsKey(resumeID), set, s.ttl); err != nil {
		return nil, utils.E(utils.CodeUnavailable, op, "failed to keep the generated questions", err)
	}

	return &UploadResult{ResumeID: resumeID, Resume: profile, Questions: set}, nil
}

func (s *resumeService) Questions(ctx context.Context, resumeID string) (*interview.QuestionSet, error) {
	const op = "ResumeService.Questions"

	if resumeID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "resume_id is required", nil)
	}

	var set interview.QuestionSet
	hit, err := s.cache.GetJSON(ctx, cache.QuestionsKey(resumeID), &set)
	if err != nil {
		return nil, utils.E(utils.CodeUnavailable, op, "failed to read questions", err)
	}
	if !hit {
		return nil, utils.E(utils.CodeNotFound, op, "no questions for this resume, upload it again", nil)
	}
	return &set, nil
}

func generationError(op, msg string, err error) error {
	if errors.Is(err, questiongen.ErrUnparsable) {
		return utils.E(utils.CodeFailedPrecond, op, msg, err)
	}
	return utils.E(utils.CodeUnavailable, op, msg, err)
}
