package locators

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"log-analyzer/internal/models"
	"log-analyzer/internal/shared/loggers"
)

var ErrNoLogFile = errors.New("no log file found")

const logFileDateLayout = "20060102"

var logFileNamePattern = regexp.MustCompile(`^nginx-access-ui\.log-(\d{8})(\.gz)?$`)

// LogLocator finds the access log a run should process.
//
//go:generate mockgen -source=log_locator.go -destination=./mocks/log_locator_mock.go -package=mocks
type LogLocator interface {
	// FindLatest returns the log with the latest date embedded in its name, or
	// ErrNoLogFile when the directory is missing or holds no matching file.
	FindLatest(ctx context.Context) (*models.LogFileDescriptor, error)
}

type logLocator struct {
	dir string
}

func NewLogLocator(dir string) LogLocator {
	return &logLocator{dir: dir}
}

func (l *logLocator) FindLatest(ctx context.Context) (*models.LogFileDescriptor, error) {
	logger := loggers.Ctx(ctx)

	entries, err := os.ReadDir(l.dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger.Info().Msgf("log directory %s does not exist", l.dir)
			return nil, ErrNoLogFile
		}
		return nil, err
	}

	var latest *models.LogFileDescriptor
	for _, entry := range entries {
		path := filepath.Join(l.dir, entry.Name())
		if !isRegularFile(entry, path) {
			continue
		}

		date, isCompressed, ok := ParseLogFileName(entry.Name())
		if !ok {
			if logFileNamePattern.MatchString(entry.Name()) {
				logger.Info().Msgf("skipping log file with invalid date: %s", entry.Name())
			}
			continue
		}

		// entries are sorted by name, so equal dates resolve to the last one seen
		if latest == nil || !date.Before(latest.Date) {
			latest = &models.LogFileDescriptor{
				Path:         path,
				Date:         date,
				IsCompressed: isCompressed,
			}
		}
	}

	if latest == nil {
		return nil, ErrNoLogFile
	}
	return latest, nil
}

// ParseLogFileName extracts the date and compression marker from a name of the form
// nginx-access-ui.log-YYYYMMDD[.gz]. ok is false when the name does not match or
// the date is not a valid calendar date.
func ParseLogFileName(name string) (date time.Time, isCompressed bool, ok bool) {
	match := logFileNamePattern.FindStringSubmatch(name)
	if match == nil {
		return time.Time{}, false, false
	}

	date, err := time.Parse(logFileDateLayout, match[1])
	if err != nil {
		return time.Time{}, false, false
	}
	return date, match[2] != "", true
}

func isRegularFile(entry os.DirEntry, path string) bool {
	if entry.Type()&os.ModeSymlink != 0 {
		info, err := os.Stat(path)
		return err == nil && info.Mode().IsRegular()
	}
	return entry.Type().IsRegular()
}
