package parsers

import (
	"context"
	"iter"
	"math"
	"regexp"
	"strconv"
	"strings"

	"log-analyzer/internal/models"
	"log-analyzer/internal/shared/loggers"
)

// uiShortPattern matches the nginx ui_short format:
//
//	$remote_addr  $remote_user $http_x_real_ip [$time_local] "$request" $status $body_bytes_sent
//	"$http_referer" "$http_user_agent" "$http_x_forwarded_for" "$http_X_REQUEST_ID"
//	"$http_X_RB_USER" $request_time
//
// Only the URL of $request and the trailing $request_time are captured.
var uiShortPattern = regexp.MustCompile(`^.+?"\S+\s+(\S+).+"\s+(\S+)$`)

// decimalPattern is a plain decimal number with an optional exponent. Single
// underscores are allowed between digits, as in "1_000".
var decimalPattern = regexp.MustCompile(`^[+-]?(?:\d(?:_?\d)*(?:\.(?:\d(?:_?\d)*)?)?|\.\d(?:_?\d)*)(?:[eE][+-]?\d(?:_?\d)*)?$`)

// LineParser extracts the URL and request time from access log lines.
//
//go:generate mockgen -source=line_parser.go -destination=./mocks/line_parser_mock.go -package=mocks
type LineParser interface {
	Parse(ctx context.Context, line string) models.ParsedLine
	// ParseLines lazily maps Parse over lines.
	ParseLines(ctx context.Context, lines iter.Seq[string]) iter.Seq[models.ParsedLine]
}

type lineParser struct{}

func NewLineParser() LineParser {
	return &lineParser{}
}

// Parse never fails loudly: a line that does not match the format, or whose
// request time is not a finite non-negative number, yields a failed ParsedLine.
func (p *lineParser) Parse(ctx context.Context, line string) models.ParsedLine {
	logger := loggers.Ctx(ctx)

	match := uiShortPattern.FindStringSubmatch(line)
	if match == nil {
		logger.Debug().Str("line", line).Msg("failed to parse log line: invalid format")
		return models.FailedParsedLine()
	}

	requestTime, err := parseRequestTime(match[2])
	if err != nil || requestTime < 0 || math.IsNaN(requestTime) || math.IsInf(requestTime, 0) {
		logger.Debug().Str("line", line).Msgf("failed to parse request time %q", match[2])
		return models.FailedParsedLine()
	}

	return models.NewParsedLine(match[1], requestTime)
}

func (p *lineParser) ParseLines(ctx context.Context, lines iter.Seq[string]) iter.Seq[models.ParsedLine] {
	return func(yield func(models.ParsedLine) bool) {
		for line := range lines {
			if !yield(p.Parse(ctx, line)) {
				return
			}
		}
	}
}

// parseRequestTime accepts decimal notation only; strconv alone would also take
// hex floats such as "0x1p-2".
func parseRequestTime(token string) (float64, error) {
	if !decimalPattern.MatchString(token) {
		return 0, strconv.ErrSyntax
	}
	return strconv.ParseFloat(strings.ReplaceAll(token, "_", ""), 64)
}
