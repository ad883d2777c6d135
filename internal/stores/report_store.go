package stores

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"regexp"
	"sort"
	"time"

	"log-analyzer/internal/models"
	"log-analyzer/internal/shared/filestorages"
)

var (
	ErrReportAlreadyExists = errors.New("report already exists")
	ErrReportNotFound      = errors.New("report not found")
)

var reportKeyPattern = regexp.MustCompile(`^report-(\d{4}\.\d{2}\.\d{2})\.html$`)

// ReportStore keeps one HTML report per log date. Put is create-if-not-exists,
// which makes a repeated run for the same log a no-op.
//
//go:generate mockgen -source=report_store.go -destination=./mocks/report_store_mock.go -package=mocks
type ReportStore interface {
	// Path returns where the report for date will be written, or
	// ErrReportAlreadyExists when it is already there.
	Path(ctx context.Context, date time.Time) (string, error)
	Put(ctx context.Context, date time.Time, content []byte) (string, error)
	Get(ctx context.Context, date time.Time) ([]byte, error)
	// List returns the dates of stored reports, newest first.
	List(ctx context.Context) ([]time.Time, error)
}

type reportStore struct {
	fileStorage filestorages.FileStorage
}

func NewReportStore(fileStorage filestorages.FileStorage) ReportStore {
	return &reportStore{fileStorage: fileStorage}
}

func (s *reportStore) Path(ctx context.Context, date time.Time) (string, error) {
	key := s.getKey(date)
	exists, err := s.fileStorage.Exists(ctx, key)
	if err != nil {
		return "", fmt.Errorf("failed to check report: %w", err)
	}
	if exists {
		return "", ErrReportAlreadyExists
	}
	return s.fileStorage.Path(key)
}

func (s *reportStore) Put(ctx context.Context, date time.Time, content []byte) (string, error) {
	result, err := s.fileStorage.Put(ctx, s.getKey(date), bytes.NewReader(content), filestorages.PutOptions{AllowOverwrite: false})
	if err != nil {
		if errors.Is(err, filestorages.ErrFileAlreadyExists) {
			return "", ErrReportAlreadyExists
		}
		return "", fmt.Errorf("failed to put report: %w", err)
	}
	return result.Path, nil
}

func (s *reportStore) Get(ctx context.Context, date time.Time) ([]byte, error) {
	readCloser, err := s.fileStorage.Get(ctx, s.getKey(date))
	if err != nil {
		if errors.Is(err, filestorages.ErrFileNotFound) {
			return nil, ErrReportNotFound
		}
		return nil, fmt.Errorf("failed to get report: %w", err)
	}
	defer readCloser.Close()

	content, err := io.ReadAll(readCloser)
	if err != nil {
		return nil, fmt.Errorf("failed to read report: %w", err)
	}
	return content, nil
}

func (s *reportStore) List(ctx context.Context) ([]time.Time, error) {
	keys, err := s.fileStorage.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}

	dates := make([]time.Time, 0, len(keys))
	for _, key := range keys {
		match := reportKeyPattern.FindStringSubmatch(key)
		if match == nil {
			continue
		}
		date, err := models.ParseReportDate(match[1])
		if err != nil {
			continue
		}
		dates = append(dates, date)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].After(dates[j]) })
	return dates, nil
}

func (s *reportStore) getKey(date time.Time) string {
	return fmt.Sprintf("report-%s.html", models.FormatReportDate(date))
}
