package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"log-analyzer/internal/analyzers"
	analyzermocks "log-analyzer/internal/analyzers/mocks"
	"log-analyzer/internal/models"
	"log-analyzer/internal/shared/loggers"
	"log-analyzer/internal/shared/svcerrors"
	"log-analyzer/internal/stores"
	storemocks "log-analyzer/internal/stores/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newTestRouter(t *testing.T) (http.Handler, *analyzermocks.MockAnalysisService, *storemocks.MockReportStore) {
	ctrl := gomock.NewController(t)
	analysisService := analyzermocks.NewMockAnalysisService(ctrl)
	reportStore := storemocks.NewMockReportStore(ctrl)
	return NewRouter(analysisService, reportStore, newTestLogger(t, "error")), analysisService, reportStore
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()

	var errorResponse ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &errorResponse))
	return errorResponse
}

func TestListReports(t *testing.T) {
	t.Parallel()

	router, _, reportStore := newTestRouter(t)
	reportStore.EXPECT().List(gomock.Any()).Return([]time.Time{
		time.Date(2017, time.June, 30, 0, 0, 0, 0, time.UTC),
		time.Date(2017, time.June, 29, 0, 0, 0, 0, time.UTC),
	}, nil)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/reports", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	assert.JSONEq(t, `[
		{"date": "2017.06.30", "path": "/reports/2017.06.30"},
		{"date": "2017.06.29", "path": "/reports/2017.06.29"}
	]`, rr.Body.String())
}

func TestListReports_Empty(t *testing.T) {
	t.Parallel()

	router, _, reportStore := newTestRouter(t)
	reportStore.EXPECT().List(gomock.Any()).Return(nil, nil)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/reports", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `[]`, rr.Body.String())
}

func TestListReports_ErrReportStoreFailed(t *testing.T) {
	t.Parallel()

	router, _, reportStore := newTestRouter(t)
	reportStore.EXPECT().List(gomock.Any()).Return(nil, errors.New("permission denied"))

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/reports", nil))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Equal(t, "RPT_9000", decodeError(t, rr).ErrorCode)
}

func TestGetReport(t *testing.T) {
	t.Parallel()

	date := time.Date(2017, time.June, 30, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name           string
		path           string
		setup          func(reportStore *storemocks.MockReportStore)
		expectedStatus int
		expectedCode   string
		expectedBody   string
	}{
		{
			name: "found",
			path: "/reports/2017.06.30",
			setup: func(reportStore *storemocks.MockReportStore) {
				reportStore.EXPECT().Get(gomock.Any(), date).Return([]byte("<html>report</html>"), nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   "<html>report</html>",
		},
		{
			name:           "invalid date",
			path:           "/reports/20170630",
			setup:          func(reportStore *storemocks.MockReportStore) {},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "RPT_1000",
		},
		{
			name:           "impossible date",
			path:           "/reports/2017.02.30",
			setup:          func(reportStore *storemocks.MockReportStore) {},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "RPT_1000",
		},
		{
			name: "not found",
			path: "/reports/2017.06.30",
			setup: func(reportStore *storemocks.MockReportStore) {
				reportStore.EXPECT().Get(gomock.Any(), date).Return(nil, stores.ErrReportNotFound)
			},
			expectedStatus: http.StatusNotFound,
			expectedCode:   "RPT_1001",
		},
		{
			name: "storage failure",
			path: "/reports/2017.06.30",
			setup: func(reportStore *storemocks.MockReportStore) {
				reportStore.EXPECT().Get(gomock.Any(), date).Return(nil, errors.New("input/output error"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedCode:   "RPT_9000",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			router, _, reportStore := newTestRouter(t)
			tt.setup(reportStore)

			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, tt.path, nil))

			assert.Equal(t, tt.expectedStatus, rr.Code)
			if tt.expectedCode != "" {
				assert.Equal(t, tt.expectedCode, decodeError(t, rr).ErrorCode)
				return
			}
			assert.Equal(t, "text/html; charset=utf-8", rr.Header().Get("Content-Type"))
			assert.Equal(t, tt.expectedBody, rr.Body.String())
		})
	}
}

func TestTriggerRun(t *testing.T) {
	t.Parallel()

	logFile := &models.LogFileDescriptor{
		Path: "/var/log/nginx/nginx-access-ui.log-20170630.gz",
		Date: time.Date(2017, time.June, 30, 0, 0, 0, 0, time.UTC),
	}

	tests := []struct {
		name               string
		result             *analyzers.RunResult
		expectedOutcome    string
		expectedReportDate string
		expectedReportPath string
	}{
		{
			name: "report created",
			result: &analyzers.RunResult{
				Outcome:    analyzers.OutcomeReportCreated,
				LogFile:    logFile,
				ReportPath: "/srv/reports/report-2017.06.30.html",
			},
			expectedOutcome:    "report_created",
			expectedReportDate: "2017.06.30",
			expectedReportPath: "/srv/reports/report-2017.06.30.html",
		},
		{
			name:               "report exists",
			result:             &analyzers.RunResult{Outcome: analyzers.OutcomeReportExists, LogFile: logFile},
			expectedOutcome:    "report_exists",
			expectedReportDate: "2017.06.30",
		},
		{
			name:            "no log file",
			result:          &analyzers.RunResult{Outcome: analyzers.OutcomeNoLogFile},
			expectedOutcome: "no_log_file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			router, analysisService, _ := newTestRouter(t)
			analysisService.EXPECT().Analyze(gomock.Any()).Return(tt.result, nil)

			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/runs", nil))

			assert.Equal(t, http.StatusOK, rr.Code)
			var response RunResponse
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &response))
			assert.Len(t, response.RunID, 26)
			assert.Equal(t, tt.expectedOutcome, response.Outcome)
			assert.Equal(t, tt.expectedReportDate, response.ReportDate)
			assert.Equal(t, tt.expectedReportPath, response.ReportPath)
		})
	}
}

func TestTriggerRun_AttachesRunLogger(t *testing.T) {
	t.Parallel()

	router, analysisService, _ := newTestRouter(t)
	analysisService.EXPECT().Analyze(gomock.Any()).DoAndReturn(func(ctx context.Context) (*analyzers.RunResult, error) {
		assert.NotNil(t, loggers.Ctx(ctx))
		return &analyzers.RunResult{Outcome: analyzers.OutcomeEmptyLog}, nil
	})

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/runs", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestTriggerRun_ErrAnalysisFailed(t *testing.T) {
	t.Parallel()

	router, analysisService, _ := newTestRouter(t)
	analysisService.EXPECT().Analyze(gomock.Any()).
		Return(nil, svcerrors.NewInternalError("ANL_9000", errors.New("template missing")))

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/runs", nil))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	errorResponse := decodeError(t, rr)
	assert.Equal(t, "ANL_9000", errorResponse.ErrorCode)
	assert.Equal(t, "internal server error", errorResponse.ErrorDescription)
}

func TestMetricsEndpoint(t *testing.T) {
	t.Parallel()

	router, _, _ := newTestRouter(t)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
}
