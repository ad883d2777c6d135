package analyzers

import (
	"fmt"

	"log-analyzer/internal/shared/svcerrors"
)

// AnalysisService errors
const (
	codeInternalTemplateFailed    = "ANL_9000"
	codeInternalReportWriteFailed = "ANL_9001"
	codeInternalLogLocatorFailed  = "ANL_9002"
)

// errInternalTemplateFailed returns an error when the report template cannot be loaded or rendered.
func errInternalTemplateFailed(cause error) *svcerrors.ServiceError {
	return svcerrors.NewInternalError(codeInternalTemplateFailed, fmt.Errorf("templateFailed: %w", cause))
}

// errInternalReportWriteFailed returns an error when the report store cannot be checked or written.
func errInternalReportWriteFailed(cause error) *svcerrors.ServiceError {
	return svcerrors.NewInternalError(codeInternalReportWriteFailed, fmt.Errorf("reportWriteFailed: %w", cause))
}

func errInternalLogLocatorFailed(cause error) *svcerrors.ServiceError {
	return svcerrors.NewInternalError(codeInternalLogLocatorFailed, fmt.Errorf("logLocatorFailed: %w", cause))
}
