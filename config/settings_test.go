package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Setenv("MONGO_URI", "mongodb://localhost:27017")
	t.Setenv("POSTGRES_URI", "postgres://localhost/resumeprep")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("BLOB_BUCKET", "resumes")
	t.Setenv("VERTEX_PROJECT_ID", "demo-project")
	t.Setenv("SESSION_TOKEN_SECRET", "0123456789abcdef0123")
}

func TestParseEnvDefaults(t *testing.T) {
	setRequired(t)

	var s Settings
	require.NoError(t, ParseEnv(&s))
	require.NoError(t, s.Validate())

	require.Equal(t, "8080", s.Port)
	require.Equal(t, "gcs", s.Blob.Driver)
	require.Equal(t, "resumes", s.Blob.Bucket)
	require.Equal(t, 2*time.Hour, s.Interview.TimeLimit)
	require.Equal(t, "evaluation:stream", s.Evaluation.Stream)
	require.Equal(t, "llm", s.Grader.Mode)
	require.Equal(t, int32(48000), s.Speech.SampleRateHz)
	require.Equal(t, 3, s.MaxProjects)
	require.Empty(t, s.Report.FontFile)
}

func TestParseEnvMissingRequired(t *testing.T) {
	t.Setenv("MONGO_URI", "")
	var s Settings
	require.Error(t, ParseEnv(&s))
}

func TestValidate(t *testing.T) {
	setRequired(t)

	t.Run("minio needs credentials", func(t *testing.T) {
		t.Setenv("BLOB_DRIVER", "minio")
		var s Settings
		require.NoError(t, ParseEnv(&s))
		require.ErrorContains(t, s.Validate(), "BLOB_MINIO_ENDPOINT")
	})
	t.Run("remote grader needs url", func(t *testing.T) {
		t.Setenv("GRADER_MODE", "remote")
		var s Settings
		require.NoError(t, ParseEnv(&s))
		require.ErrorContains(t, s.Validate(), "GRADER_REMOTE_URL")
	})
	t.Run("short secret", func(t *testing.T) {
		t.Setenv("SESSION_TOKEN_SECRET", "short")
		var s Settings
		require.NoError(t, ParseEnv(&s))
		require.ErrorContains(t, s.Validate(), "SESSION_TOKEN_SECRET")
	})
	t.Run("unknown driver", func(t *testing.T) {
		t.Setenv("BLOB_DRIVER", "ftp")
		var s Settings
		require.NoError(t, ParseEnv(&s))
		require.ErrorContains(t, s.Validate(), "BLOB_DRIVER")
	})
}
