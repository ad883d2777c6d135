package http

import (
	"net/http"

	"log-analyzer/internal/analyzers"
	"log-analyzer/internal/models"
	"log-analyzer/internal/shared/loggers"
	"log-analyzer/internal/shared/ulid"
)

// RunResponse is the body returned by POST /runs.
type RunResponse struct {
	RunID      string `json:"runId"`
	Outcome    string `json:"outcome"`
	ReportDate string `json:"reportDate,omitempty"`
	ReportPath string `json:"reportPath,omitempty"`
}

type triggerRunHandler struct {
	analysisService analyzers.AnalysisService
}

func NewTriggerRunHandler(analysisService analyzers.AnalysisService) AppHttpHandler {
	return &triggerRunHandler{analysisService: analysisService}
}

// Handle processes POST /runs requests. The run is synchronous; a second request
// waits for the one in progress.
func (h *triggerRunHandler) Handle(w http.ResponseWriter, r *http.Request) error {
	runID := ulid.NewULID()
	ctx := loggers.Ctx(r.Context()).With().
		Str(loggers.FieldRunID, runID).
		Logger().WithContext(r.Context())

	result, err := h.analysisService.Analyze(ctx)
	if err != nil {
		return err
	}

	response := RunResponse{
		RunID:      runID,
		Outcome:    string(result.Outcome),
		ReportPath: result.ReportPath,
	}
	if result.LogFile != nil {
		response.ReportDate = models.FormatReportDate(result.LogFile.Date)
	}
	return writeJSON(w, http.StatusOK, response)
}
