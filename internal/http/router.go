package http

import (
	"net/http"

	"log-analyzer/internal/analyzers"
	"log-analyzer/internal/shared/loggers"
	"log-analyzer/internal/shared/metrics"
	"log-analyzer/internal/stores"

	"github.com/go-chi/chi/v5"
)

// NewRouter creates and configures the HTTP router.
func NewRouter(analysisService analyzers.AnalysisService, reportStore stores.ReportStore, httpLogger loggers.Logger) http.Handler {
	router := chi.NewRouter()
	setupMiddleware(router, httpLogger)

	// Initialize handlers
	listReportsHandler := NewListReportsHandler(reportStore)
	getReportHandler := NewGetReportHandler(reportStore)
	triggerRunHandler := NewTriggerRunHandler(analysisService)

	// Routes
	router.Get("/reports", errorHandlingAdapter(listReportsHandler))
	router.Get("/reports/{"+paramDate+"}", errorHandlingAdapter(getReportHandler))
	router.Post("/runs", errorHandlingAdapter(triggerRunHandler))
	router.Get("/metrics", metrics.PromHTTP.Handler().ServeHTTP)

	return router
}
