package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Settings struct {
	Port     string `env:"PORT" envDefault:"8080"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	GinMode  string `env:"GIN_MODE" envDefault:"release"`

	MongoURI         string `env:"MONGO_URI,required,notEmpty"`
	MongoDB          string `env:"MONGO_DB" envDefault:"resumeprep"`
	MongoForceTLS    bool   `env:"MONGO_FORCE_TLS_CONFIG"`
	MongoInsecureTLS bool   `env:"MONGO_INSECURE_TLS"`

	PostgresURI         string `env:"POSTGRES_URI,required,notEmpty"`
	PostgresAutoMigrate bool   `env:"POSTGRES_AUTO_MIGRATE" envDefault:"true"`

	RedisAddr string `env:"REDIS_ADDR,required,notEmpty"`

	Blob   BlobSettings   `envPrefix:"BLOB_"`
	Vertex VertexSettings `envPrefix:"VERTEX_"`
	Speech SpeechSettings `envPrefix:"SPEECH_"`
	Grader GraderSettings `envPrefix:"GRADER_"`
	Report ReportSettings `envPrefix:"REPORT_"`

	Interview  InterviewSettings  `envPrefix:"INTERVIEW_"`
	Evaluation EvaluationSettings `envPrefix:"EVALUATION_"`

	SessionTokenSecret string        `env:"SESSION_TOKEN_SECRET,required,notEmpty"`
	SessionTokenTTL    time.Duration `env:"SESSION_TOKEN_TTL" envDefault:"3h"`

	QuestionBankPath string `env:"QUESTION_BANK_PATH" envDefault:"config/question_bank.yaml"`
	MaxProjects      int    `env:"QUESTIONS_MAX_PROJECTS" envDefault:"3"`

	CacheTTL time.Duration `env:"CACHE_TTL" envDefault:"24h"`
}

type BlobSettings struct {
	Driver string `env:"DRIVER" envDefault:"gcs"` // gcs|minio
	Bucket string `env:"BUCKET,required,notEmpty"`

	MinIOEndpoint  string `env:"MINIO_ENDPOINT"`
	MinIOAccessKey string `env:"MINIO_ACCESS_KEY"`
	MinIOSecretKey string `env:"MINIO_SECRET_KEY"`
	MinIOUseSSL    bool   `env:"MINIO_USE_SSL" envDefault:"true"`
}

type VertexSettings struct {
	ProjectID string `env:"PROJECT_ID"`
	Location  string `env:"LOCATION" envDefault:"us-central1"`
	Model     string `env:"MODEL" envDefault:"gemini-1.5-flash"`
}

type SpeechSettings struct {
	Language     string `env:"LANGUAGE" envDefault:"en-US"`
	Encoding     string `env:"ENCODING" envDefault:"WEBM_OPUS"`
	SampleRateHz int32  `env:"SAMPLE_RATE_HZ" envDefault:"48000"`
}

type GraderSettings struct {
	Mode      string        `env:"MODE" envDefault:"llm"` // llm|remote
	RemoteURL string        `env:"REMOTE_URL"`
	Timeout   time.Duration `env:"TIMEOUT" envDefault:"2m"`
}

// ReportSettings selects the PDF font. Without FontFile the core Helvetica
// font is used, which cannot render CJK text.
type ReportSettings struct {
	FontDir  string `env:"FONT_DIR"`
	FontFile string `env:"FONT_FILE"`
}

type InterviewSettings struct {
	TimeLimit     time.Duration `env:"TIME_LIMIT" envDefault:"2h"`
	IdleTTL       time.Duration `env:"IDLE_TTL" envDefault:"6h"`
	SweepInterval time.Duration `env:"SWEEP_INTERVAL" envDefault:"30s"`
}

type EvaluationSettings struct {
	Stream  string        `env:"STREAM" envDefault:"evaluation:stream"`
	Group   string        `env:"GROUP" envDefault:"evaluation-workers"`
	Workers int           `env:"WORKERS" envDefault:"2"`
	RunTTL  time.Duration `env:"RUN_TTL" envDefault:"168h"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load reads an optional .env file, then the environment.
func Load() (Settings, error) {
	_ = godotenv.Load()

	var s Settings
	if err := ParseEnv(&s); err != nil {
		return Settings{}, err
	}
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

func (s Settings) Validate() error {
	var errs []error

	switch strings.ToLower(s.Blob.Driver) {
	case "gcs":
	case "minio":
		if s.Blob.MinIOEndpoint == "" || s.Blob.MinIOAccessKey == "" || s.Blob.MinIOSecretKey == "" {
			errs = append(errs, errors.New("BLOB_MINIO_ENDPOINT, BLOB_MINIO_ACCESS_KEY and BLOB_MINIO_SECRET_KEY are required for the minio driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("BLOB_DRIVER must be gcs or minio, got %q", s.Blob.Driver))
	}

	switch strings.ToLower(s.Grader.Mode) {
	case "llm":
	case "remote":
		if s.Grader.RemoteURL == "" {
			errs = append(errs, errors.New("GRADER_REMOTE_URL is required when GRADER_MODE=remote"))
		}
	default:
		errs = append(errs, fmt.Errorf("GRADER_MODE must be llm or remote, got %q", s.Grader.Mode))
	}

	if s.Vertex.ProjectID == "" {
		errs = append(errs, errors.New("VERTEX_PROJECT_ID is required"))
	}
	if len(s.SessionTokenSecret) < 16 {
		errs = append(errs, errors.New("SESSION_TOKEN_SECRET must be at least 16 bytes"))
	}
	if s.Interview.TimeLimit <= 0 {
		errs = append(errs, errors.New("INTERVIEW_TIME_LIMIT must be positive"))
	}
	if s.Evaluation.Workers <= 0 {
		errs = append(errs, errors.New("EVALUATION_WORKERS must be positive"))
	}
	return errors.Join(errs...)
}
