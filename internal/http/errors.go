package http

import (
	"fmt"

	"log-analyzer/internal/shared/svcerrors"
)

// Report server errors
const (
	codeInvalidReportDate = "RPT_1000"
	codeReportNotFound    = "RPT_1001"

	codeInternalReportStoreFailed = "RPT_9000"
)

func errInvalidReportDate(date string, cause error) *svcerrors.ServiceError {
	return svcerrors.NewInvalidArgumentError(codeInvalidReportDate, fmt.Sprintf("invalid report date %q: expected YYYY.MM.DD", date), cause)
}

func errReportNotFound(date string, cause error) *svcerrors.ServiceError {
	return svcerrors.NewNotFoundError(codeReportNotFound, fmt.Sprintf("no report for %s", date), cause)
}

// errInternalReportStoreFailed returns an error when the report directory cannot be read.
func errInternalReportStoreFailed(cause error) *svcerrors.ServiceError {
	return svcerrors.NewInternalError(codeInternalReportStoreFailed, fmt.Errorf("reportStoreFailed: %w", cause))
}
