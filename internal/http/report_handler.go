package http

import (
	"errors"
	"net/http"

	"log-analyzer/internal/models"
	"log-analyzer/internal/stores"

	"github.com/go-chi/chi/v5"
)

const paramDate = "date"

// ReportItem is one entry of the GET /reports listing.
type ReportItem struct {
	Date string `json:"date"`
	Path string `json:"path"`
}

type listReportsHandler struct {
	reportStore stores.ReportStore
}

func NewListReportsHandler(reportStore stores.ReportStore) AppHttpHandler {
	return &listReportsHandler{reportStore: reportStore}
}

// Handle processes GET /reports requests, newest report first.
func (h *listReportsHandler) Handle(w http.ResponseWriter, r *http.Request) error {
	dates, err := h.reportStore.List(r.Context())
	if err != nil {
		return errInternalReportStoreFailed(err)
	}

	items := make([]ReportItem, 0, len(dates))
	for _, date := range dates {
		formatted := models.FormatReportDate(date)
		items = append(items, ReportItem{Date: formatted, Path: "/reports/" + formatted})
	}
	return writeJSON(w, http.StatusOK, items)
}

type getReportHandler struct {
	reportStore stores.ReportStore
}

func NewGetReportHandler(reportStore stores.ReportStore) AppHttpHandler {
	return &getReportHandler{reportStore: reportStore}
}

// Handle processes GET /reports/{date} requests.
func (h *getReportHandler) Handle(w http.ResponseWriter, r *http.Request) error {
	param := chi.URLParam(r, paramDate)
	date, err := models.ParseReportDate(param)
	if err != nil {
		return errInvalidReportDate(param, err)
	}

	content, err := h.reportStore.Get(r.Context(), date)
	if err != nil {
		if errors.Is(err, stores.ErrReportNotFound) {
			return errReportNotFound(param, err)
		}
		return errInternalReportStoreFailed(err)
	}

	w.Header().Set(headerContentType, contentTypeHTML)
	w.WriteHeader(http.StatusOK)
	_, err = w.Write(content)
	return err
}
