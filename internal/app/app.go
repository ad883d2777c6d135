package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"log-analyzer/internal/aggregators"
	"log-analyzer/internal/analyzers"
	internalhttp "log-analyzer/internal/http"
	"log-analyzer/internal/locators"
	"log-analyzer/internal/parsers"
	"log-analyzer/internal/readers"
	"log-analyzer/internal/reports"
	"log-analyzer/internal/shared/configs"
	"log-analyzer/internal/shared/filestorages"
	"log-analyzer/internal/shared/loggers"
	"log-analyzer/internal/shared/metrics"
	"log-analyzer/internal/shared/svcerrors"
	"log-analyzer/internal/shared/ulid"
	"log-analyzer/internal/stores"
)

const (
	readHeaderTimeout = 5 * time.Second
	idleTimeout       = 60 * time.Second
)

// App holds all application dependencies and manages lifecycle.
type App struct {
	config    *configs.Config
	appLogger loggers.Logger
	logCloser io.Closer
	server    *http.Server

	analysisService analyzers.AnalysisService
}

// New creates and initializes a new App instance. Close releases the log sink.
func New(config *configs.Config) (*App, error) {
	appLogger, logCloser, err := loggers.New(config.LogLevel, config.LogFile)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	appLogger = appLogger.With().
		Str(loggers.FieldApp, "log-analyzer").
		Logger()

	// Initialize report storage
	fileStorage, err := filestorages.NewFileStorage(config.ReportDir)
	if err != nil {
		_ = logCloser.Close()
		return nil, fmt.Errorf("failed to initialize report storage: %w", err)
	}
	reportStore := stores.NewReportStore(fileStorage)

	// Initialize analysis pipeline
	analysisService := analyzers.NewAnalysisService(
		locators.NewLogLocator(config.LogDir),
		readers.NewLineReader(),
		parsers.NewLineParser(),
		aggregators.NewURLAggregator(config.ErrorLimit, config.ReportSize),
		reports.NewRenderer(config.ReportTemplateFile),
		reportStore,
	)

	// Initialize http router
	httpLogger := appLogger.With().Str(loggers.FieldComponent, "http").Logger()
	router := internalhttp.NewRouter(analysisService, reportStore, httpLogger)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", config.ServerPort),
		Handler:           router,
		ReadHeaderTimeout: readHeaderTimeout,
		IdleTimeout:       idleTimeout,
	}

	return &App{
		config:          config,
		appLogger:       appLogger,
		logCloser:       logCloser,
		server:          server,
		analysisService: analysisService,
	}, nil
}

// RunOnce analyzes the latest log and writes its report. Only cancellation is
// returned as an error: every other outcome, failures included, is logged and
// leaves the process free to exit successfully.
func (app *App) RunOnce(ctx context.Context) error {
	runLogger := app.appLogger.With().
		Str(loggers.FieldComponent, "analyzer").
		Str(loggers.FieldRunID, ulid.NewULID()).
		Logger()
	ctx = runLogger.WithContext(ctx)

	result, err := app.analysisService.Analyze(ctx)
	app.writeMetrics(&runLogger)

	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			loggers.Critical(&runLogger).Err(err).Msg("execution aborted")
			return err
		}

		event := loggers.Critical(&runLogger).Err(err)
		if svcErr, ok := svcerrors.AsServiceError(err); ok {
			event = event.Str(loggers.FieldErrorCode, svcErr.Code)
		}
		event.Msg("report was not created")
		return nil
	}

	runLogger.Debug().Str(loggers.FieldOutcome, string(result.Outcome)).Msg("run finished")
	return nil
}

func (app *App) writeMetrics(logger *loggers.Logger) {
	if app.config.MetricsFile == "" {
		return
	}
	if err := metrics.WriteTextfile(app.config.MetricsFile); err != nil {
		logger.Error().Err(err).Msgf("failed to write metrics file %s", app.config.MetricsFile)
	}
}

// Start starts the HTTP server in a blocking manner.
func (app *App) Start() error {
	app.appLogger.Info().
		Msgf("Starting report server on port %d (log_level=%s, log_dir=%s, report_dir=%s)",
			app.config.ServerPort,
			app.config.LogLevel,
			app.config.LogDir,
			app.config.ReportDir)

	return app.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server, waiting for a run in progress.
func (app *App) Shutdown(ctx context.Context) error {
	app.appLogger.Info().Msg("Shutting down server...")
	if err := app.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	app.appLogger.Info().Msg("Server stopped")
	return nil
}

// Close releases the log file, if any.
func (app *App) Close() error {
	return app.logCloser.Close()
}
