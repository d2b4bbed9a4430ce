package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/yoockh/resumeprep/config"
	"github.com/yoockh/resumeprep/internal/api/handlers"
	"github.com/yoockh/resumeprep/internal/api/middleware"
	"github.com/yoockh/resumeprep/internal/api/routes"
	"github.com/yoockh/resumeprep/internal/cache"
	"github.com/yoockh/resumeprep/internal/export"
	"github.com/yoockh/resumeprep/internal/interview"
	"github.com/yoockh/resumeprep/internal/logger"
	"github.com/yoockh/resumeprep/internal/providers/grader"
	"github.com/yoockh/resumeprep/internal/providers/llm"
	"github.com/yoockh/resumeprep/internal/providers/questiongen"
	"github.com/yoockh/resumeprep/internal/providers/stt"
	mongorepo "github.com/yoockh/resumeprep/internal/repositories/mongo"
	pgrepo "github.com/yoockh/resumeprep/internal/repositories/postgres"
	"github.com/yoockh/resumeprep/internal/services"
	"github.com/yoockh/resumeprep/internal/storage"
	"github.com/yoockh/resumeprep/internal/workers"
)

func main() {
	s, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("config")
	}
	log := logger.New(s.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Init MongoDB
	if err := config.InitMongo(s); err != nil {
		log.WithError(err).Fatal("MongoDB init error")
	}
	if err := config.EnsureMongoIndexes(s.MongoDB); err != nil {
		log.WithError(err).Fatal("MongoDB index error")
	}
	log.Info("MongoDB connected")

	// Init PostgreSQL
	if err := config.InitPostgres(s.PostgresURI); err != nil {
		log.WithError(err).Fatal("PostgreSQL init error")
	}
	if s.PostgresAutoMigrate {
		if err := config.MigratePostgres(config.PostgresDB); err != nil {
			log.WithError(err).Fatal("PostgreSQL migrate error")
		}
	}
	log.Info("PostgreSQL connected")

	// Init Redis
	if err := config.InitRedis(s.RedisAddr); err != nil {
		log.WithError(err).Fatal("Redis init error")
	}
	log.Info("Redis connected")

	uploader, err := newUploader(ctx, s)
	if err != nil {
		log.WithError(err).Fatal("blob storage init error")
	}
	defer uploader.Close()

	gemini, err := llm.NewVertexGemini(ctx, s.Vertex.ProjectID, s.Vertex.Location, s.Vertex.Model)
	if err != nil {
		log.WithError(err).Fatal("vertex init error")
	}
	defer gemini.Close()

	// speech is optional: text answers keep working without it
	var speech stt.Provider
	if gs, err := stt.NewGoogleSpeech(ctx, s.Speech.Encoding, s.Speech.SampleRateHz); err != nil {
		log.WithError(err).Warn("speech recognition disabled")
	} else {
		speech = gs
		defer gs.Close()
	}

	var demo *interview.QuestionSet
	if bank, err := config.LoadQuestionBank(s.QuestionBankPath); err != nil {
		log.WithError(err).Warn("demo question bank not loaded")
	} else {
		demo = &bank
	}

	var g grader.Grader = grader.NewLLMGrader(gemini, log)
	if strings.EqualFold(s.Grader.Mode, "remote") {
		g = grader.NewRemoteGrader(s.Grader.RemoteURL, s.Grader.Timeout)
	}

	mdb := config.MongoClient.Database(s.MongoDB)
	rdb := config.RedisClient
	redisCache := cache.NewRedisCache(rdb)

	tokens := services.NewTokenIssuer(s.SessionTokenSecret, s.SessionTokenTTL)
	profiles := services.NewProfileService(pgrepo.NewProfileRepo(config.PostgresDB))
	conversations := services.NewConversationService(pgrepo.NewConversationRepo(config.PostgresDB))
	runs := services.NewEvaluationRunService(mongorepo.NewEvaluationRunRepo(mdb), s.Evaluation.RunTTL)
	reports := services.NewReportService(
		pgrepo.NewReportRepo(config.PostgresDB),
		redisCache,
		export.NewPDFRenderer(export.PDFOptions{FontDir: s.Report.FontDir, FontFile: s.Report.FontFile}),
		s.CacheTTL,
		log,
	)
	resumes := services.NewResumeService(
		pgrepo.NewResumeFileRepo(config.PostgresDB),
		profiles,
		uploader,
		questiongen.NewLLMGenerator(gemini, s.MaxProjects),
		redisCache,
		s.CacheTTL,
	)
	publisher := services.NewRedisStatusPublisher(rdb)
	interviews := services.NewInterviewService(services.InterviewDeps{
		Sessions:      mongorepo.NewSessionRepo(mdb),
		Runs:          runs,
		Queue:         services.NewRedisEvaluationQueue(rdb, s.Evaluation.Stream),
		Publisher:     publisher,
		Tokens:        tokens,
		Resumes:       resumes,
		Conversations: conversations,
		STT:           speech,
		Logger:        log,
	}, services.InterviewOptions{
		TimeLimit:      s.Interview.TimeLimit,
		IdleTTL:        s.Interview.IdleTTL,
		SpeechLanguage: s.Speech.Language,
		Demo:           demo,
	})

	pool := &workers.EvaluationWorkerPool{
		Redis:         rdb,
		NumWorkers:    s.Evaluation.Workers,
		Grader:        g,
		Runs:          runs,
		Reports:       reports,
		Conversations: conversations,
		Publisher:     publisher,
		Listener:      interviews,
		Logger:        log,
		Stream:        s.Evaluation.Stream,
		Group:         s.Evaluation.Group,
	}
	if host, err := os.Hostname(); err == nil {
		pool.ConsumerPrefix = host
	}
	if err := pool.Start(ctx); err != nil {
		log.WithError(err).Fatal("worker pool start error")
	}
	go interviews.Run(ctx, s.Interview.SweepInterval)

	gin.SetMode(s.GinMode)
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(log))
	routes.RegisterRoutes(r, routes.Deps{
		Tokens:    tokens,
		Resume:    handlers.NewResumeHandler(resumes),
		Profile:   handlers.NewProfileHandler(profiles),
		Interview: handlers.NewInterviewHandler(interviews, runs),
		Report:    handlers.NewReportHandler(reports),
		WS:        handlers.NewWSHandler(interviews, rdb, log),
	})

	srv := &http.Server{
		Addr:              ":" + s.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.WithField("port", s.Port).Info("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("http server error")
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Warn("http shutdown")
	}
	_ = config.MongoClient.Disconnect(shutdownCtx)
	_ = rdb.Close()
}

func newUploader(ctx context.Context, s config.Settings) (storage.Uploader, error) {
	if strings.EqualFold(s.Blob.Driver, "minio") {
		u, err := storage.NewMinIOUploader(ctx, storage.MinIOOptions{
			Endpoint:  s.Blob.MinIOEndpoint,
			AccessKey: s.Blob.MinIOAccessKey,
			SecretKey: s.Blob.MinIOSecretKey,
			UseSSL:    s.Blob.MinIOUseSSL,
			Bucket:    s.Blob.Bucket,
		})
		if err != nil {
			return nil, err
		}
		return u, nil
	}
	u, err := storage.NewGCSUploader(ctx, s.Blob.Bucket)
	if err != nil {
		return nil, err
	}
	return u, nil
}
