package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"smart-todo-scheduler/config"
	_ "smart-todo-scheduler/docs" // Swagger docs
	"smart-todo-scheduler/internal/calendarout"
	"smart-todo-scheduler/internal/httpserver"
	"smart-todo-scheduler/internal/ingestion"
	"smart-todo-scheduler/internal/ingestion/repository/ledgerfile"
	"smart-todo-scheduler/internal/ingestion/usecase"
	"smart-todo-scheduler/internal/mailsource"
	"smart-todo-scheduler/internal/schedule"
	"smart-todo-scheduler/internal/taskparser"
	"smart-todo-scheduler/pkg/datemath"
	"smart-todo-scheduler/pkg/gcalendar"
	"smart-todo-scheduler/pkg/gemini"
	"smart-todo-scheduler/pkg/gmail"
	"smart-todo-scheduler/pkg/log"
	"smart-todo-scheduler/pkg/ocr"
)

// @title       Smart Todo Scheduler API
// @description Turns emailed handwritten notes into scheduled Google Calendar events via OCR and Gemini task extraction.
// @version     1
// @host        localhost:8080
// @schemes     http
func main() {
	if err := run(); err != nil {
		os.Exit(1)
	}
}

func run() error {
	once := flag.Bool("once", false, "run the ingestion pipeline once and exit")
	flag.Parse()

	// 1. Configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Failed to load config: ", err)
		return err
	}

	// 2. Logger
	logger := log.Init(log.ZapConfig{
		Level:        cfg.Logger.Level,
		Mode:         cfg.Logger.Mode,
		Encoding:     cfg.Logger.Encoding,
		ColorEnabled: cfg.Logger.ColorEnabled,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info(ctx, "Starting Smart Todo Scheduler...")
	logger.Infof(ctx, "Environment: %s", cfg.Environment.Name)

	uc, cleanup, err := buildPipeline(ctx, logger, cfg)
	if err != nil {
		logger.Errorf(ctx, "Failed to build pipeline: %v", err)
		return err
	}
	defer cleanup()

	// 3. One-shot mode
	if *once {
		out, runErr := uc.Run(ctx, ingestion.RunInput{})
		if runErr != nil {
			logger.Errorf(ctx, "Pipeline run failed: %v", runErr)
			return runErr
		}
		logger.Infof(ctx, "Run %s: processed=%d failed=%d skipped=%d degraded=%d",
			out.RunID, out.Processed, out.Failed, out.Skipped, out.Degraded)
		return nil
	}

	// 4. Periodic runs
	go runPeriodically(ctx, logger, uc, cfg.Scheduler.Interval)

	// 5. HTTP Server
	httpServer, err := httpserver.New(logger, httpserver.Config{
		Logger:      logger,
		Port:        cfg.HTTPServer.Port,
		Mode:        cfg.HTTPServer.Mode,
		Environment: cfg.Environment.Name,
		IngestionUC: uc,
	})
	if err != nil {
		logger.Errorf(ctx, "Failed to initialize HTTP server: %v", err)
		return err
	}

	if err := httpServer.Run(ctx); err != nil {
		logger.Errorf(ctx, "Failed to run server: %v", err)
		return err
	}

	logger.Info(ctx, "Server stopped gracefully")
	return nil
}

// buildPipeline wires the Gmail source, OCR extractor, Gemini parser,
// Calendar materializer and ledger into the ingestion use case.
func buildPipeline(ctx context.Context, logger log.Logger, cfg *config.Config) (ingestion.UseCase, func(), error) {
	gmailClient, err := gmail.NewClientFromCredentialsFile(ctx, cfg.Gmail.CredentialsPath, cfg.Gmail.TokenPath)
	if err != nil {
		return nil, nil, fmt.Errorf("gmail client: %w (run scripts/gcal-auth to generate %s)", err, cfg.Gmail.TokenPath)
	}
	source := mailsource.New(logger, gmailClient, cfg.Gmail.Sender, cfg.Gmail.SubjectKeyword)

	calendarClient, err := gcalendar.NewClientFromCredentialsFile(ctx, cfg.GoogleCalendar.CredentialsPath, cfg.GoogleCalendar.TokenPath)
	if err != nil {
		return nil, nil, fmt.Errorf("calendar client: %w", err)
	}
	events := calendarout.New(logger, calendarClient, cfg.GoogleCalendar.CalendarID, cfg.GoogleCalendar.Timezone)

	dateMath, err := datemath.NewParser(cfg.GoogleCalendar.Timezone)
	if err != nil {
		logger.Warnf(ctx, "Invalid timezone %q, falling back to UTC: %v", cfg.GoogleCalendar.Timezone, err)
		dateMath, _ = datemath.NewParser("UTC")
	}

	geminiClient := gemini.NewClient(gemini.Config{
		APIKey:            cfg.Gemini.APIKey,
		Model:             cfg.Gemini.Model,
		APIURL:            cfg.Gemini.APIURL,
		RequestsPerMinute: cfg.Gemini.RequestsPerMinute,
	})
	parser := taskparser.New(taskparser.Config{
		Logger:     logger,
		LLM:        geminiClient,
		Calendar:   calendarClient,
		DateMath:   dateMath,
		CalendarID: cfg.GoogleCalendar.CalendarID,
	})

	extractor := ocr.New(ocr.Config{
		TesseractPath: cfg.OCR.TesseractPath,
		PdftoppmPath:  cfg.OCR.PdftoppmPath,
		Languages:     cfg.OCR.Languages,
		CacheSize:     cfg.OCR.CacheSize,
		CacheTTL:      cfg.OCR.CacheTTL,
	})

	ledger, err := ledgerfile.Open(cfg.Ledger.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("opening ledger %s: %w", cfg.Ledger.Path, err)
	}

	resolver := schedule.New(cfg.Scheduler.DayStartHour, cfg.Scheduler.EveningCutoffHour)

	uc := usecase.New(logger, source, extractor, parser, events, ledger, resolver)

	cleanup := func() {
		if closeErr := ledger.Close(); closeErr != nil {
			logger.Warnf(context.Background(), "Closing ledger: %v", closeErr)
		}
	}
	return uc, cleanup, nil
}

// runPeriodically triggers a pipeline run every interval until ctx is
// cancelled. Overlapping triggers are rejected by the use case itself.
func runPeriodically(ctx context.Context, logger log.Logger, uc ingestion.UseCase, interval time.Duration) {
	if interval <= 0 {
		logger.Warn(ctx, "Scheduler interval disabled, runs must be triggered over HTTP")
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			out, err := uc.Run(ctx, ingestion.RunInput{})
			if err != nil {
				logger.Errorf(ctx, "Scheduled run failed: %v", err)
				continue
			}
			logger.Infof(ctx, "Scheduled run %s: processed=%d failed=%d skipped=%d",
				out.RunID, out.Processed, out.Failed, out.Skipped)
		}
	}
}
