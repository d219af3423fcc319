package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	_ "cvscreen/docs"
	"cvscreen/internal/analyzer"
	noopcache "cvscreen/internal/cache/noop"
	"cvscreen/internal/cache/rediscache"
	"cvscreen/internal/config"
	"cvscreen/internal/domain"
	noopemail "cvscreen/internal/email/noop"
	sesemail "cvscreen/internal/email/ses"
	"cvscreen/internal/extractor"
	"cvscreen/internal/handler"
	"cvscreen/internal/llm"
	"cvscreen/internal/llm/claude"
	"cvscreen/internal/llm/gemini"
	"cvscreen/internal/llm/openai"
	"cvscreen/internal/logger"
	"cvscreen/internal/port"
	memqueue "cvscreen/internal/queue/memory"
	"cvscreen/internal/queue/rabbitmq"
	"cvscreen/internal/repository/postgres"
	"cvscreen/internal/router"
	"cvscreen/internal/service"
	s3storage "cvscreen/internal/storage/s3"
)

// @title CV Screening API
// @version 1.0
// @description Batch CV analysis against job keywords.
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}

func registerLLMProviders() {
	llm.RegisterProvider("gemini", func(cfg *config.LLMProviderConfig) (port.TextGenerator, error) {
		gen, err := gemini.NewGenerator(cfg)
		if err != nil {
			return nil, err
		}
		return gen, nil
	})
	llm.RegisterProvider("claude", func(cfg *config.LLMProviderConfig) (port.TextGenerator, error) {
		return claude.NewGenerator(cfg), nil
	})
	llm.RegisterProvider("openai", func(cfg *config.LLMProviderConfig) (port.TextGenerator, error) {
		return openai.NewGenerator(cfg), nil
	})
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	logger.Init(cfg.Log)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	// Initialize repositories
	userRepo := postgres.NewUserRepo(db)
	keywordListRepo := postgres.NewKeywordListRepo(db)
	submissionRepo := postgres.NewSubmissionRepo(db)
	cvResultRepo := postgres.NewCvResultRepo(db)
	cvDetailRepo := postgres.NewCvDetailRepo(db)

	// Initialize storage
	storage, err := s3storage.NewS3Client(&cfg.S3)
	if err != nil {
		return fmt.Errorf("failed to initialize S3 client: %w", err)
	}

	queue, err := newQueue(&cfg.Queue)
	if err != nil {
		return err
	}
	defer func() { _ = queue.Close() }()

	cache, closeCache, err := newCache(&cfg.Cache)
	if err != nil {
		return err
	}
	defer closeCache()

	emailSender, err := newEmailSender(&cfg.Email)
	if err != nil {
		return err
	}

	// Language model chain shared by OCR and analysis
	registerLLMProviders()
	generator, err := llm.NewFromConfig(&cfg.LLM)
	if err != nil {
		return fmt.Errorf("failed to initialize llm: %w", err)
	}
	log.Info().Str("primary", cfg.LLM.PrimaryConfig().Provider).Strs("registered", llm.RegisteredProviders()).Msg("llm ready")

	ext := extractor.NewExtractor(generator, extractor.NewPDFReader())
	an := analyzer.NewAnalyzer(generator, cfg.Analysis.MaxTextChars)
	persister := service.NewResultPersister(cvResultRepo, cvDetailRepo, domain.DetailPolicy{
		Gated:     cfg.Analysis.DetailGated,
		Threshold: cfg.Analysis.DetailThreshold,
	})
	tracker := service.NewBatchTracker(submissionRepo, cvResultRepo, userRepo, emailSender)

	// Initialize services
	authSvc := service.NewAuthService(userRepo, cfg.JWT, cfg.Auth)
	keywordListSvc := service.NewKeywordListService(keywordListRepo)
	submissionSvc := service.NewSubmissionService(
		submissionRepo, cvResultRepo, cvDetailRepo, userRepo, keywordListRepo,
		storage, queue, cache, tracker,
		service.SubmissionConfig{
			Bucket:           cfg.S3.Bucket,
			MaxFiles:         cfg.Upload.MaxFiles,
			MaxFileSizeBytes: cfg.Upload.MaxFileSizeMB << 20,
			CacheTTL:         cfg.Cache.TTL,
		},
	)

	worker := service.NewProcessingWorker(queue, storage, submissionRepo, ext, an, persister, tracker, service.WorkerConfig{
		Bucket:      cfg.S3.Bucket,
		Concurrency: cfg.Queue.Concurrency,
		JobTimeout:  cfg.Queue.JobTimeout(),
	})
	workerCtx, stopWorker := context.WithCancel(context.Background())
	defer stopWorker()
	workerDone := make(chan struct{})
	go func() {
		defer close(workerDone)
		if err := worker.Start(workerCtx); err != nil {
			log.Error().Err(err).Msg("processing worker stopped")
		}
	}()

	// Initialize handlers
	handlers := router.Handlers{
		Auth:        handler.NewAuthHandler(authSvc),
		Analyze:     handler.NewAnalyzeHandler(submissionSvc),
		Results:     handler.NewResultsHandler(submissionSvc),
		Submissions: handler.NewSubmissionHandler(submissionSvc),
		KeywordList: handler.NewKeywordListHandler(keywordListSvc),
		Health:      handler.NewHealthHandler(db),
	}

	// Setup router
	r := router.Setup(authSvc, handlers, router.Options{
		AllowAnonymous:     cfg.Auth.AllowAnonymous,
		CORSOrigins:        cfg.CORS.AllowedOrigins,
		MaxMultipartMemory: 32 << 20,
	})

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.Server.Port).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-quit:
		log.Info().Str("signal", sig.String()).Msg("shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	// Let pending uploads publish before the worker stops consuming.
	submissionSvc.Wait()
	stopWorker()
	<-workerDone

	log.Info().Msg("shutdown complete")
	return nil
}

func newQueue(cfg *config.QueueConfig) (port.JobQueue, error) {
	switch cfg.Provider {
	case "rabbitmq":
		q, err := rabbitmq.NewQueue(cfg.URL, cfg.Name, cfg.Concurrency)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to rabbitmq: %w", err)
		}
		log.Info().Str("queue", cfg.Name).Msg("using rabbitmq job queue")
		return q, nil
	case "memory", "":
		log.Warn().Msg("using in-memory job queue; queued files are lost on restart")
		return memqueue.NewQueue(cfg.BufferSize), nil
	default:
		return nil, fmt.Errorf("unknown queue provider: %s", cfg.Provider)
	}
}

func newCache(cfg *config.CacheConfig) (port.ResultsCache, func(), error) {
	switch cfg.Provider {
	case "redis":
		c, err := rediscache.NewCache(cfg)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		return c, func() { _ = c.Close() }, nil
	case "none", "":
		return noopcache.NewCache(), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown cache provider: %s", cfg.Provider)
	}
}

func newEmailSender(cfg *config.EmailConfig) (port.EmailSender, error) {
	switch cfg.Provider {
	case "ses":
		sender, err := sesemail.NewSESSender(cfg.Region, cfg.FromAddress, cfg.FromName, cfg.FrontendURL)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize SES sender: %w", err)
		}
		return sender, nil
	case "noop", "":
		return noopemail.NewNoopSender(cfg.FrontendURL), nil
	default:
		return nil, fmt.Errorf("unknown email provider: %s", cfg.Provider)
	}
}
