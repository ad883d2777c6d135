package parsers

import (
	"context"
	"slices"
	"strings"
	"testing"

	"log-analyzer/internal/models"

	"github.com/stretchr/testify/assert"
)

const (
	validLine          = `1.196.116.32 -  - [29/Jun/2017:03:50:22 +0300] "GET /api/v2/banner/25019354 HTTP/1.1" 200 927 "-" "Lynx/2.8.8dev.9 libwww-FM/2.14 SSL-MM/1.4.1 GNUTLS/2.10.5" "-" "1498697422-2190034393-4708-9752759" "dc7161be3" 0.390`
	invalidFormatLine  = `GET /api/1/photogenic_banners/list/?server_name=WIN7RB4 HTTP/1.1 1.99.174.176 3b81f63528 - [29/Jun/2017:03:50:22 +0300] 0.133`
	invalidRequestTime = `1.169.137.128 -  - [29/Jun/2017:03:50:22 +0300] "GET /api/v2/banner/16852664 HTTP/1.1" 200 19415 "-" "Slotovod" "-" "1498697422-2118016444-4708-9752769" "712e90144abee9" 0.1.99`
)

// withRequestTime replaces the request time of validLine with token.
func withRequestTime(token string) string {
	return strings.TrimSuffix(validLine, "0.390") + token
}

func TestLineParser_Parse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		line     string
		expected models.ParsedLine
	}{
		{
			name:     "valid line",
			line:     validLine,
			expected: models.NewParsedLine("/api/v2/banner/25019354", 0.39),
		},
		{
			name:     "invalid format",
			line:     invalidFormatLine,
			expected: models.FailedParsedLine(),
		},
		{
			name:     "non numeric request time",
			line:     invalidRequestTime,
			expected: models.FailedParsedLine(),
		},
		{
			name:     "negative request time",
			line:     `1.1.1.1 -  - [29/Jun/2017:03:50:22 +0300] "GET /x HTTP/1.1" 200 1 "-" "ua" "-" "id" "-" -0.5`,
			expected: models.FailedParsedLine(),
		},
		{
			name:     "nan request time",
			line:     `1.1.1.1 -  - [29/Jun/2017:03:50:22 +0300] "GET /x HTTP/1.1" 200 1 "-" "ua" "-" "id" "-" NaN`,
			expected: models.FailedParsedLine(),
		},
		{
			name:     "quoted fields with spaces",
			line:     `1.99.174.176 3b81f63528 - [29/Jun/2017:03:50:22 +0300] "GET /export/appinstall_raw/2017-06-29/ HTTP/1.0" 200 28358 "-" "Mozilla/5.0 (Windows NT 6.1; WOW64; rv:45.0) Gecko/20100101 Firefox/45.0" "-" "-" "-" 0.003`,
			expected: models.NewParsedLine("/export/appinstall_raw/2017-06-29/", 0.003),
		},
		{
			name:     "zero request time",
			line:     `1.1.1.1 -  - [29/Jun/2017:03:50:22 +0300] "GET /health HTTP/1.1" 200 1 "-" "ua" "-" "id" "-" 0.000`,
			expected: models.NewParsedLine("/health", 0),
		},
		{
			name:     "empty line",
			line:     "",
			expected: models.FailedParsedLine(),
		},
		{
			name:     "hex float request time",
			line:     withRequestTime("0x1p-2"),
			expected: models.FailedParsedLine(),
		},
		{
			name:     "hex integer request time",
			line:     withRequestTime("0x10"),
			expected: models.FailedParsedLine(),
		},
		{
			name:     "infinite request time",
			line:     withRequestTime("inf"),
			expected: models.FailedParsedLine(),
		},
		{
			name:     "overflowing request time",
			line:     withRequestTime("1e999"),
			expected: models.FailedParsedLine(),
		},
		{
			name:     "digit grouped request time",
			line:     withRequestTime("1_000"),
			expected: models.NewParsedLine("/api/v2/banner/25019354", 1000),
		},
		{
			name:     "misplaced underscore",
			line:     withRequestTime("1__0"),
			expected: models.FailedParsedLine(),
		},
		{
			name:     "trailing underscore",
			line:     withRequestTime("1_"),
			expected: models.FailedParsedLine(),
		},
		{
			name:     "exponent request time",
			line:     withRequestTime("3.9E-1"),
			expected: models.NewParsedLine("/api/v2/banner/25019354", 0.39),
		},
		{
			name:     "leading dot request time",
			line:     withRequestTime(".5"),
			expected: models.NewParsedLine("/api/v2/banner/25019354", 0.5),
		},
		{
			name:     "trailing dot request time",
			line:     withRequestTime("+2."),
			expected: models.NewParsedLine("/api/v2/banner/25019354", 2),
		},
	}

	parser := NewLineParser()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, parser.Parse(context.Background(), tt.line))
		})
	}
}

func TestLineParser_ParseLines(t *testing.T) {
	t.Parallel()

	lines := slices.Values([]string{validLine, invalidFormatLine, invalidRequestTime})

	parsed := slices.Collect(NewLineParser().ParseLines(context.Background(), lines))

	assert.Equal(t, []models.ParsedLine{
		models.NewParsedLine("/api/v2/banner/25019354", 0.39),
		models.FailedParsedLine(),
		models.FailedParsedLine(),
	}, parsed)
}

func TestLineParser_ParseLines_IsLazy(t *testing.T) {
	t.Parallel()

	pulled := 0
	lines := func(yield func(string) bool) {
		for _, line := range []string{validLine, validLine, validLine} {
			pulled++
			if !yield(line) {
				return
			}
		}
	}

	for range NewLineParser().ParseLines(context.Background(), lines) {
		break
	}
	assert.Equal(t, 1, pulled)
}
