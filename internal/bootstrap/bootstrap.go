package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/syllabussync/syllabus-sync/internal/config"
	"github.com/syllabussync/syllabus-sync/internal/core/domain"
	"github.com/syllabussync/syllabus-sync/internal/core/ports"
	"github.com/syllabussync/syllabus-sync/internal/core/usecase"
	"github.com/syllabussync/syllabus-sync/internal/infrastructure/auth/jwtverify"
	pdfextractor "github.com/syllabussync/syllabus-sync/internal/infrastructure/extractor/pdf"
	"github.com/syllabussync/syllabus-sync/internal/infrastructure/llm/gemini"
	"github.com/syllabussync/syllabus-sync/internal/infrastructure/queue/nats"
	"github.com/syllabussync/syllabus-sync/internal/infrastructure/repository/postgres"
	"github.com/syllabussync/syllabus-sync/internal/infrastructure/resilience"
	"github.com/syllabussync/syllabus-sync/internal/infrastructure/storage/localfs"
	"github.com/syllabussync/syllabus-sync/internal/infrastructure/tts/elevenlabs"
)

type App struct {
	Config config.Config

	Queue       ports.MessageQueue
	Repo        ports.SyllabusRepository
	Storage     ports.ObjectStorage
	Verifier    ports.TokenVerifier
	ParserUC    *usecase.ParseSyllabiUseCase
	EstimatorUC *usecase.EstimateScheduleUseCase
	NarrationUC *usecase.NarrationUseCase
	ScheduleCfg usecase.ScheduleConfig

	GeminiConfigured bool

	closeFn func()
}

// Options toggles the optional components a binary needs. The API serves
// parse requests without TTS; the worker needs TTS but never verifies
// tokens. LLMRecorder feeds each model request into the caller's metrics.
type Options struct {
	NeedTTS     bool
	LLMRecorder gemini.RequestRecorder
}

func New(ctx context.Context, cfg config.Config, log *slog.Logger, opts Options) (*App, error) {
	db, err := postgres.OpenDB(cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	repo := postgres.NewSyllabusRepository(db)
	if err := repo.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	storage, err := localfs.New(cfg.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("init object storage: %w", err)
	}

	resilienceCfg := resilience.DefaultConfig()
	resilienceCfg.Logger = log
	executor := resilience.NewExecutor(resilienceCfg)

	queue, err := nats.NewWithOptions(cfg.NATSURL, cfg.NATSSubject, nats.Options{
		ResilienceExecutor: executor,
		Logger:             log,
	})
	if err != nil {
		return nil, fmt.Errorf("init message queue: %w", err)
	}

	analyzer := ports.SyllabusAnalyzer(unconfiguredAnalyzer{})
	var pageOCR ports.PageOCR
	geminiConfigured := cfg.GeminiAPIKey != ""
	if geminiConfigured {
		client, err := gemini.New(ctx, gemini.Config{
			APIKey:            cfg.GeminiAPIKey,
			Model:             cfg.GeminiModel,
			RequestTimeout:    cfg.GeminiTimeout(),
			RequestsPerSecond: cfg.GeminiRequestsPerSec,
			Executor:          executor,
			Recorder:          opts.LLMRecorder,
		})
		if err != nil {
			return nil, fmt.Errorf("init gemini client: %w", err)
		}
		analyzer = gemini.NewAnalyzer(client, cfg.AssumedYear, log)
		pageOCR = client
	}

	extractor := pdfextractor.NewExtractor(pageOCR, log)

	var verifier ports.TokenVerifier
	if cfg.AuthJWTSecret != "" {
		v, err := jwtverify.New(cfg.AuthJWTSecret)
		if err != nil {
			return nil, fmt.Errorf("init token verifier: %w", err)
		}
		verifier = v
	}

	var tts ports.SpeechSynthesizer
	if opts.NeedTTS {
		client, err := elevenlabs.New(elevenlabs.Config{
			APIKey:   cfg.ElevenLabsAPIKey,
			VoiceID:  cfg.ElevenLabsVoiceID,
			Model:    cfg.ElevenLabsModel,
			Executor: executor,
		})
		if err != nil {
			return nil, fmt.Errorf("init tts client: %w", err)
		}
		tts = client
	}

	scheduleCfg := usecase.DefaultScheduleConfig()
	if cfg.DefaultChapterHours > 0 {
		scheduleCfg.DefaultChapterHours = cfg.DefaultChapterHours
	}

	parserUC := usecase.NewParseSyllabiUseCase(repo, extractor, analyzer, log)
	estimatorUC := usecase.NewEstimateScheduleUseCase(parserUC, scheduleCfg)
	narrationUC := usecase.NewNarrationUseCase(repo, queue, storage, tts, log)

	return &App{
		Config: cfg,

		Queue:       queue,
		Repo:        repo,
		Storage:     storage,
		Verifier:    verifier,
		ParserUC:    parserUC,
		EstimatorUC: estimatorUC,
		NarrationUC: narrationUC,
		ScheduleCfg: scheduleCfg,

		GeminiConfigured: geminiConfigured,

		closeFn: func() {
			queue.Close()
			_ = db.Close()
		},
	}, nil
}

func (a *App) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}

// unconfiguredAnalyzer keeps the service running without a model API key;
// every analysis attempt reports the missing configuration.
type unconfiguredAnalyzer struct{}

func (unconfiguredAnalyzer) AnalyzeCourse(context.Context, string, bool) (domain.CourseRecord, error) {
	return domain.CourseRecord{}, errMissingGeminiKey()
}

func (unconfiguredAnalyzer) AnalyzeDeadlines(context.Context, string) ([]domain.Deadline, error) {
	return nil, errMissingGeminiKey()
}

func errMissingGeminiKey() error {
	return domain.WrapError(domain.ErrUpstream, "analyze syllabus",
		errors.New("GEMINI_API_KEY is not configured"))
}
