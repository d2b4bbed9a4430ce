package services

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/yoockh/resumeprep/internal/cache"
	"github.com/yoockh/resumeprep/internal/interview"
	"github.com/yoockh/resumeprep/internal/providers/questiongen"
	"github.com/yoockh/resumeprep/internal/utils"
)

const resumeText = "Jane Doe\nBackend engineer\nBuilt a distributed crawler in Go.\n"

type resumeFixture struct {
	svc      ResumeService
	files    *fakeResumeRepo
	profiles *fakeProfileRepo
	uploader *fakeUploader
	gen      *fakeGenerator
	cache    *cache.MemoryCache
}

func newResumeFixture() *resumeFixture {
	f := &resumeFixture{
		files:    &fakeResumeRepo{},
		profiles: &fakeProfileRepo{},
		uploader: &fakeUploader{},
		gen: &fakeGenerator{
			profile: questiongen.Profile{
				FullName: "Jane Doe",
				Projects: []questiongen.Project{{Name: "crawler", Technologies: []string{"go", "redis"}}},
				Skills:   []string{"go"},
			},
			set: interview.QuestionSet{
				Projects: []interview.ProjectQuestion{{ProjectName: "crawler", Question: "How did you schedule crawls?", FollowUps: []string{"Retries?"}}},
				Code:     []string{"Reverse a list", "two pointers"},
			},
		},
		cache: cache.NewMemoryCache(),
	}
	f.svc = NewResumeService(f.files, NewProfileService(f.profiles), f.uploader, f.gen, f.cache, time.Hour)
	return f
}

func textUpload(name, body string) UploadInput {
	return UploadInput{FileName: name, Size: int64(len(body)), Reader: strings.NewReader(body)}
}

func TestResumeUpload(t *testing.T) {
	f := newResumeFixture()
	ctx := context.Background()

	res, err := f.svc.Upload(ctx, textUpload("jane.TXT", resumeText))
	require.NoError(t, err)
	require.NotEmpty(t, res.ResumeID)
	require.Equal(t, "Jane Doe", res.Resume.FullName)
	require.Len(t, res.Questions.Projects, 1)

	require.Equal(t, []byte(resumeText), f.uploader.objects["resumes/"+res.ResumeID+".txt"])
	row := f.files.rows[res.ResumeID]
	require.Equal(t, "jane.TXT", row.FileName)
	require.Equal(t, len(resumeText), row.FileSize)
	require.True(t, strings.HasPrefix(f.gen.mime, "text/plain"))

	stored, err := NewProfileService(f.profiles).Get(ctx, res.ResumeID)
	require.NoError(t, err)
	require.Equal(t, "crawler", stored.Projects[0].Name)
	require.Equal(t, []string{"go", "redis"}, stored.Projects[0].Technologies)

	set, err := f.svc.Questions(ctx, res.ResumeID)
	require.NoError(t, err)
	qs := set.Questions()
	require.Len(t, qs, 2)
	require.Equal(t, "two pointers", qs[1].ReferenceAnswer)
}

func TestResumeUploadPDF(t *testing.T) {
	f := newResumeFixture()
	body := "%PDF-1.4\n1 0 obj\n<<>>\nendobj\n"
	res, err := f.svc.Upload(context.Background(), textUpload("cv.pdf", body))
	require.NoError(t, err)
	require.Equal(t, "application/pdf", f.gen.mime)
	require.Contains(t, f.uploader.objects, "resumes/"+res.ResumeID+".pdf")
}

func TestResumeUploadRejectsBadInput(t *testing.T) {
	f := newResumeFixture()
	ctx := context.Background()

	cases := map[string]UploadInput{
		"extension": textUpload("cv.docx", resumeText),
		"empty":     textUpload("cv.txt", ""),
		"too large": {FileName: "cv.txt", Size: MaxResumeBytes + 1, Reader: bytes.NewReader(nil)},
		"mismatch":  textUpload("cv.pdf", resumeText),
	}
	for name, in := range cases {
		_, err := f.svc.Upload(ctx, in)
		require.True(t, utils.IsCode(err, utils.CodeInvalidArgument), name)
	}
	require.Empty(t, f.uploader.objects)
}

func TestResumeUploadFailures(t *testing.T) {
	ctx := context.Background()

	f := newResumeFixture()
	f.uploader.err = errBoom
	_, err := f.svc.Upload(ctx, textUpload("cv.txt", resumeText))
	require.True(t, utils.IsCode(err, utils.CodeUnavailable))

	f = newResumeFixture()
	f.gen.err = questiongen.ErrUnparsable
	_, err = f.svc.Upload(ctx, textUpload("cv.txt", resumeText))
	require.True(t, utils.IsCode(err, utils.CodeFailedPrecond))

	f = newResumeFixture()
	f.gen.err = errBoom
	_, err = f.svc.Upload(ctx, textUpload("cv.txt", resumeText))
	require.True(t, utils.IsCode(err, utils.CodeUnavailable))

	f = newResumeFixture()
	f.gen.profile = questiongen.Profile{}
	_, err = f.svc.Upload(ctx, textUpload("cv.txt", resumeText))
	require.True(t, utils.IsCode(err, utils.CodeFailedPrecond))
	require.Empty(t, f.profiles.rows)
}

func TestResumeQuestionsMissing(t *testing.T) {
	f := newResumeFixture()
	_, err := f.svc.Questions(context.Background(), "nope")
	require.True(t, utils.IsCode(err, utils.CodeNotFound))
	_, err = f.svc.Questions(context.Background(), "")
	require.True(t, utils.IsCode(err, utils.CodeInvalidArgument))
}

func TestProfileGetMissing(t *testing.T) {
	_, err := NewProfileService(&fakeProfileRepo{}).Get(context.Background(), "r1")
	require.True(t, utils.IsCode(err, utils.CodeNotFound))
}
