package readers

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"os"
	"strings"

	"log-analyzer/internal/models"
	"log-analyzer/internal/shared/loggers"

	"github.com/klauspost/compress/gzip"
)

const (
	maxLineBytes    = 1024 * 1024
	readBufferBytes = 64 * 1024
)

var errLineTooLong = errors.New("log line exceeds 1 MiB")

// LineReader streams the lines of a located log file.
//
//go:generate mockgen -source=line_reader.go -destination=./mocks/line_reader_mock.go -package=mocks
type LineReader interface {
	// Lines returns a single-pass sequence of lines without their terminators.
	// Failures to open or read the file are logged and end the sequence early.
	// The file stays open only while the sequence is being ranged over.
	Lines(ctx context.Context, desc *models.LogFileDescriptor) iter.Seq[string]
}

type lineReader struct{}

func NewLineReader() LineReader {
	return &lineReader{}
}

func (r *lineReader) Lines(ctx context.Context, desc *models.LogFileDescriptor) iter.Seq[string] {
	return func(yield func(string) bool) {
		logger := loggers.Ctx(ctx)

		rc, err := open(desc)
		if err != nil {
			logger.Error().Err(err).Str(loggers.FieldLogFile, desc.Path).Msg("failed to open log file")
			return
		}
		defer rc.Close()

		br := bufio.NewReaderSize(rc, readBufferBytes)
		for lineNo := 1; ; lineNo++ {
			if ctx.Err() != nil {
				return
			}
			line, err := readLine(br)
			switch {
			case errors.Is(err, io.EOF):
				return
			case errors.Is(err, errLineTooLong):
				logger.Warn().Str(loggers.FieldLogFile, desc.Path).Int("line_no", lineNo).Msg("log line too long, counting it as unparseable")
			case err != nil:
				logger.Error().Err(err).Str(loggers.FieldLogFile, desc.Path).Msg("failed to read log file")
				return
			}
			if !yield(strings.ToValidUTF8(line, "\uFFFD")) {
				return
			}
		}
	}
}

// readLine returns the next line without its terminator. A line longer than
// maxLineBytes is consumed up to its newline and reported as errLineTooLong.
func readLine(br *bufio.Reader) (string, error) {
	var (
		buf     []byte
		tooLong bool
	)
	for {
		chunk, isPrefix, err := br.ReadLine()
		if errors.Is(err, io.EOF) && (len(buf) > 0 || tooLong) {
			break
		}
		if err != nil {
			return "", err
		}
		if !tooLong {
			if len(buf)+len(chunk) > maxLineBytes {
				tooLong, buf = true, nil
			} else {
				buf = append(buf, chunk...)
			}
		}
		if !isPrefix {
			break
		}
	}
	if tooLong {
		return "", errLineTooLong
	}
	return strings.TrimSuffix(string(buf), "\r"), nil
}

// open returns the decoded content of desc; closing it also closes the file.
func open(desc *models.LogFileDescriptor) (io.ReadCloser, error) {
	file, err := os.Open(desc.Path)
	if err != nil {
		return nil, err
	}
	if !desc.IsCompressed {
		return file, nil
	}

	gz, err := gzip.NewReader(file)
	if err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("failed to read gzip header of %s: %w", desc.Path, err)
	}
	return &gzipFile{Reader: gz, file: file}, nil
}

type gzipFile struct {
	*gzip.Reader
	file *os.File
}

func (g *gzipFile) Close() error {
	gzErr := g.Reader.Close()
	if err := g.file.Close(); err != nil {
		return err
	}
	return gzErr
}
