package analyzers

import (
	"context"
	"errors"
	"sync"

	"log-analyzer/internal/aggregators"
	"log-analyzer/internal/locators"
	"log-analyzer/internal/models"
	"log-analyzer/internal/parsers"
	"log-analyzer/internal/readers"
	"log-analyzer/internal/reports"
	"log-analyzer/internal/shared/loggers"
	"log-analyzer/internal/shared/metrics"
	"log-analyzer/internal/shared/svcerrors"
	"log-analyzer/internal/stores"
)

// Outcome tells how a run ended when it did not fail.
type Outcome string

const (
	OutcomeNoLogFile          Outcome = "no_log_file"
	OutcomeReportExists       Outcome = "report_exists"
	OutcomeEmptyLog           Outcome = "empty_log"
	OutcomeErrorLimitExceeded Outcome = "error_limit_exceeded"
	OutcomeReportCreated      Outcome = "report_created"

	outcomeFailed  Outcome = "failed"
	outcomeAborted Outcome = "aborted"
)

// RunResult describes a finished analysis run.
type RunResult struct {
	Outcome Outcome
	// LogFile is nil when no log file was found.
	LogFile *models.LogFileDescriptor
	// ReportPath is set only for OutcomeReportCreated.
	ReportPath string
	// Result is nil when the run stopped before aggregation or the log was empty.
	Result *models.AggregationResult
}

//go:generate mockgen -source=analysis_service.go -destination=./mocks/analysis_service_mock.go -package=mocks
type AnalysisService interface {
	// Analyze builds the report for the latest access log. Expected empty outcomes
	// are reported through RunResult.Outcome with a nil error. Template, storage and
	// locator failures return a ServiceError; cancellation returns ctx.Err().
	Analyze(ctx context.Context) (*RunResult, error)
}

type analysisService struct {
	// mu keeps runs from overlapping on the same report directory.
	mu sync.Mutex

	logLocator    locators.LogLocator
	lineReader    readers.LineReader
	lineParser    parsers.LineParser
	urlAggregator aggregators.URLAggregator
	renderer      reports.Renderer
	reportStore   stores.ReportStore
}

func NewAnalysisService(
	logLocator locators.LogLocator,
	lineReader readers.LineReader,
	lineParser parsers.LineParser,
	urlAggregator aggregators.URLAggregator,
	renderer reports.Renderer,
	reportStore stores.ReportStore,
) AnalysisService {
	return &analysisService{
		logLocator:    logLocator,
		lineReader:    lineReader,
		lineParser:    lineParser,
		urlAggregator: urlAggregator,
		renderer:      renderer,
		reportStore:   reportStore,
	}
}

func (s *analysisService) Analyze(ctx context.Context) (*RunResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result, err := s.analyze(ctx)
	if err != nil {
		if svcErr, ok := svcerrors.AsServiceError(err); ok {
			metricRunsTotal.WithLabelValues(string(outcomeFailed), svcErr.Code).Inc()
		} else {
			metricRunsTotal.WithLabelValues(string(outcomeAborted), metrics.ValueNoError).Inc()
		}
		return nil, err
	}
	metricRunsTotal.WithLabelValues(string(result.Outcome), metrics.ValueNoError).Inc()
	return result, nil
}

func (s *analysisService) analyze(ctx context.Context) (*RunResult, error) {
	logger := loggers.Ctx(ctx)

	logFile, err := s.logLocator.FindLatest(ctx)
	if err != nil {
		if errors.Is(err, locators.ErrNoLogFile) {
			logger.Info().Msg("no log file found")
			return &RunResult{Outcome: OutcomeNoLogFile}, nil
		}
		return nil, errInternalLogLocatorFailed(err)
	}

	runLogger := logger.With().
		Str(loggers.FieldLogFile, logFile.Path).
		Str(loggers.FieldReportDate, models.FormatReportDate(logFile.Date)).
		Logger()
	logger = &runLogger
	ctx = logger.WithContext(ctx)
	result := &RunResult{LogFile: logFile}

	if _, err := s.reportStore.Path(ctx, logFile.Date); err != nil {
		if errors.Is(err, stores.ErrReportAlreadyExists) {
			logger.Info().Msg("report already exists")
			result.Outcome = OutcomeReportExists
			return result, nil
		}
		return nil, errInternalReportWriteFailed(err)
	}

	logger.Info().Msg("started analyzing log file")
	lines := s.lineParser.ParseLines(ctx, s.lineReader.Lines(ctx, logFile))
	aggregation, err := s.urlAggregator.Aggregate(ctx, lines)
	switch {
	case errors.Is(err, aggregators.ErrEmptyLog):
		logger.Info().Msg("log file is empty or could not be read")
		result.Outcome = OutcomeEmptyLog
		return result, nil
	case errors.Is(err, aggregators.ErrErrorLimitExceeded):
		metricErrorRate.Set(aggregation.ErrorRate)
		logger.Info().
			Int("total_lines", aggregation.TotalLines).
			Int("failed_lines", aggregation.FailedLines).
			Msgf("error rate %.3f reached the limit, report not created", aggregation.ErrorRate)
		result.Outcome = OutcomeErrorLimitExceeded
		result.Result = aggregation
		return result, nil
	case err != nil:
		return nil, err
	}
	metricErrorRate.Set(aggregation.ErrorRate)
	result.Result = aggregation

	content, err := s.renderer.Render(ctx, aggregation.Stats)
	if err != nil {
		return nil, errInternalTemplateFailed(err)
	}

	// Rendering can outlast a cancellation; nothing is written once it arrives.
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	reportPath, err := s.reportStore.Put(ctx, logFile.Date, content)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		if errors.Is(err, stores.ErrReportAlreadyExists) {
			logger.Info().Msg("report already exists")
			result.Outcome = OutcomeReportExists
			return result, nil
		}
		return nil, errInternalReportWriteFailed(err)
	}

	logger.Info().
		Int("total_lines", aggregation.TotalLines).
		Int("failed_lines", aggregation.FailedLines).
		Int("urls", len(aggregation.Stats)).
		Msgf("report created: %s", reportPath)
	result.Outcome = OutcomeReportCreated
	result.ReportPath = reportPath
	return result, nil
}
