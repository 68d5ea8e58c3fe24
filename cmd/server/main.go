package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"resumabuilder/internal/access"
	"resumabuilder/internal/adapter/cache"
	httpadapter "resumabuilder/internal/adapter/http"
	repo "resumabuilder/internal/adapter/repository"
	"resumabuilder/internal/adapter/storage"
	"resumabuilder/internal/config"
	"resumabuilder/internal/email"
	"resumabuilder/internal/email/brevo"
	"resumabuilder/internal/email/console"
	"resumabuilder/internal/extract"
	"resumabuilder/internal/infrastructure/migration"
	"resumabuilder/internal/metrics"
	"resumabuilder/internal/usecase"
	"resumabuilder/pkg/ai"
	infra "resumabuilder/pkg/infrastructure"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const sessionTTL = 24 * time.Hour

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("configuration error", "error", err)
		os.Exit(1)
	}

	pool, err := infra.NewPool(ctx, cfg.DataServiceURL)
	if err != nil {
		slog.Error("database unavailable", "error", err)
		os.Exit(1)
	}
	defer pool.Close()
	if err := migration.RunMigrations(ctx, pool); err != nil {
		os.Exit(1)
	}

	redisCache, err := infra.NewCache(ctx, cfg.RedisAddr, cfg.RedisPassword)
	if err != nil {
		slog.Error("redis unavailable", "addr", cfg.RedisAddr, "error", err)
		os.Exit(1)
	}

	completer, err := newCompleter(ctx, cfg)
	if err != nil {
		slog.Error("completion client", "provider", cfg.AIProvider, "error", err)
		os.Exit(1)
	}

	accounts := repo.NewAccountsRepo(pool)
	resumesRepo := repo.NewResumesRepo(pool)
	usage := repo.NewUsageRepo(pool)

	processor := usecase.NewProcessor(
		repo.NewTemplatesRepo(pool),
		infra.NewHTTPTemplateFetcher(cfg.TemplateHosts, cfg.TemplateMaxBytes),
		infra.NewChromedpRasterizer(cfg.ChromePath, cfg.TemplateHosts),
		infra.NewPDFAssembler(),
		usage,
	)
	if cfg.R2.Enabled() {
		archive, err := storage.NewR2Archive(ctx, cfg.R2)
		if err != nil {
			slog.Warn("export archive disabled", "error", err)
		} else {
			processor.WithArchive(archive)
		}
	}

	h := httpadapter.NewHandler(httpadapter.Services{
		Generator: usecase.NewGenerator(completer, usage),
		ATS:       usecase.NewATSAnalyzer(completer, usage),
		Letters:   usecase.NewCoverLetterWriter(completer, usage, usage),
		Processor: processor,
		Extractor: newExtractor(),
		Signup:    usecase.NewSignup(cache.NewOTPCache(redisCache), newMailer(cfg), accounts, cfg.EmailFrom),
		Resumes:   usecase.NewResumes(resumesRepo, repo.NewAggregator(pool, resumesRepo)),
		Signer:    access.TokenSigner{Secret: cfg.DataServiceKey, Issuer: cfg.TokenIssuer, TTL: sessionTTL},
	})

	app := fiber.New(fiber.Config{BodyLimit: httpadapter.MaxUploadBytes + 1<<20})
	app.Use(recover.New())
	app.Use(httpadapter.RequestID())
	app.Use(logger.New(logger.Config{Format: "${time} ${locals:X-Request-ID} ${status} ${method} ${path} ${latency}\n"}))
	app.Use(cors.New(cors.Config{AllowOrigins: cfg.CORSOrigins, AllowHeaders: "Origin, Content-Type, Accept, Authorization"}))
	app.Use(metrics.NewHTTPMetrics().Handler())
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
	h.Register(app, access.Authenticate(cfg.DataServiceKey, cfg.TokenIssuer, accounts))

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			slog.Error("server failed", "error", err)
			stop()
		}
	}()
	slog.Info("server started", "port", cfg.Port, "ai_provider", cfg.AIProvider)

	<-ctx.Done()
	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		slog.Error("shutdown", "error", err)
	}
}

func newCompleter(ctx context.Context, cfg config.Config) (ai.Completer, error) {
	if cfg.AIProvider == "gemini" {
		return ai.NewGeminiClient(ctx, cfg.CompletionAPIKey, cfg.AIModel)
	}
	return ai.NewOpenAIClient(cfg.CompletionAPIKey, cfg.AIBaseURL, cfg.AIModel, cfg.CompletionTimeout), nil
}

func newMailer(cfg config.Config) email.Service {
	if cfg.EmailConsole {
		return console.NewClient()
	}
	return brevo.NewClient(cfg.EmailAPIURL, cfg.EmailAPIKey, cfg.EmailSenderName)
}

// newExtractor enables OCR only when the poppler and tesseract binaries
// are installed.
func newExtractor() *extract.Extractor {
	if infra.OCRToolsAvailable() {
		return extract.NewExtractor(infra.NewPopplerRasterizer(), infra.NewTesseractOCR("eng"))
	}
	slog.Warn("OCR tools not found; scanned PDFs will not be readable")
	return extract.NewExtractor(nil, nil)
}
