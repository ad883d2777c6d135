package aggregators

import (
	"context"
	"slices"
	"testing"

	"log-analyzer/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixtureLines() []models.ParsedLine {
	// one valid line and two unparseable ones
	return []models.ParsedLine{
		models.NewParsedLine("/api/v2/banner/25019354", 0.39),
		models.FailedParsedLine(),
		models.FailedParsedLine(),
	}
}

func TestURLAggregator_Aggregate_BelowErrorLimit(t *testing.T) {
	t.Parallel()

	aggregator := NewURLAggregator(0.8, 10)

	result, err := aggregator.Aggregate(context.Background(), slices.Values(fixtureLines()))
	require.NoError(t, err)

	assert.Equal(t, []models.URLStats{
		{
			URL:        "/api/v2/banner/25019354",
			Count:      1,
			CountPerc:  100.0,
			TimeSum:    0.39,
			TimePerc:   100.0,
			TimeAvg:    0.39,
			TimeMax:    0.39,
			TimeMedian: 0.39,
		},
	}, result.Stats)
	assert.Equal(t, 3, result.TotalLines)
	assert.Equal(t, 2, result.FailedLines)
	assert.InDelta(t, 2.0/3.0, result.ErrorRate, 1e-12)
}

func TestURLAggregator_Aggregate_ErrorLimitExceeded(t *testing.T) {
	t.Parallel()

	aggregator := NewURLAggregator(0.1, 10)

	result, err := aggregator.Aggregate(context.Background(), slices.Values(fixtureLines()))
	assert.ErrorIs(t, err, ErrErrorLimitExceeded)
	require.NotNil(t, result)
	assert.Nil(t, result.Stats)
	assert.Equal(t, 3, result.TotalLines)
	assert.Equal(t, 2, result.FailedLines)
}

func TestURLAggregator_Aggregate_ErrorRateEqualToLimitAborts(t *testing.T) {
	t.Parallel()

	lines := []models.ParsedLine{models.NewParsedLine("/a", 1), models.FailedParsedLine()}

	_, err := NewURLAggregator(0.5, 10).Aggregate(context.Background(), slices.Values(lines))
	assert.ErrorIs(t, err, ErrErrorLimitExceeded)
}

func TestURLAggregator_Aggregate_ZeroReportSizeIsEmptyNotAborted(t *testing.T) {
	t.Parallel()

	result, err := NewURLAggregator(0.8, 0).Aggregate(context.Background(), slices.Values(fixtureLines()))
	require.NoError(t, err)
	require.NotNil(t, result.Stats)
	assert.Empty(t, result.Stats)
	assert.Equal(t, 3, result.TotalLines)
}

func TestURLAggregator_Aggregate_EmptyInput(t *testing.T) {
	t.Parallel()

	result, err := NewURLAggregator(0.8, 10).Aggregate(context.Background(), slices.Values([]models.ParsedLine{}))
	assert.Nil(t, result)
	assert.ErrorIs(t, err, ErrEmptyLog)
}

func TestURLAggregator_Aggregate_CancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := NewURLAggregator(0.8, 10).Aggregate(ctx, slices.Values(fixtureLines()))
	assert.Nil(t, result)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestURLAggregator_Aggregate_RanksBySumOverFullDataset(t *testing.T) {
	t.Parallel()

	lines := []models.ParsedLine{
		models.NewParsedLine("/a", 0.5),
		models.NewParsedLine("/b", 4.0),
		models.NewParsedLine("/a", 1.5),
		models.NewParsedLine("/c", 0.25),
		models.NewParsedLine("/a", 1.0),
		models.NewParsedLine("/c", 0.75),
	}

	tests := []struct {
		name       string
		reportSize int
		expected   []models.URLStats
	}{
		{
			name:       "all urls",
			reportSize: 10,
			expected: []models.URLStats{
				{URL: "/b", Count: 1, CountPerc: 16.667, TimeSum: 4, TimePerc: 50, TimeAvg: 4, TimeMax: 4, TimeMedian: 4},
				{URL: "/a", Count: 3, CountPerc: 50, TimeSum: 3, TimePerc: 37.5, TimeAvg: 1, TimeMax: 1.5, TimeMedian: 1},
				{URL: "/c", Count: 2, CountPerc: 33.333, TimeSum: 1, TimePerc: 12.5, TimeAvg: 0.5, TimeMax: 0.75, TimeMedian: 0.5},
			},
		},
		{
			name:       "top two keeps full dataset percentages",
			reportSize: 2,
			expected: []models.URLStats{
				{URL: "/b", Count: 1, CountPerc: 16.667, TimeSum: 4, TimePerc: 50, TimeAvg: 4, TimeMax: 4, TimeMedian: 4},
				{URL: "/a", Count: 3, CountPerc: 50, TimeSum: 3, TimePerc: 37.5, TimeAvg: 1, TimeMax: 1.5, TimeMedian: 1},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			result, err := NewURLAggregator(0.5, tt.reportSize).Aggregate(context.Background(), slices.Values(lines))
			require.NoError(t, err)
			assert.Equal(t, tt.expected, result.Stats)
		})
	}
}

func TestURLAggregator_Aggregate_EqualSumsKeepFirstAppearance(t *testing.T) {
	t.Parallel()

	lines := []models.ParsedLine{
		models.NewParsedLine("/x", 1.0),
		models.NewParsedLine("/y", 1.0),
	}

	result, err := NewURLAggregator(0.5, 10).Aggregate(context.Background(), slices.Values(lines))
	require.NoError(t, err)
	require.Len(t, result.Stats, 2)
	assert.Equal(t, "/x", result.Stats[0].URL)
	assert.Equal(t, "/y", result.Stats[1].URL)
}

func TestURLAggregator_Aggregate_ZeroTotalTime(t *testing.T) {
	t.Parallel()

	lines := []models.ParsedLine{models.NewParsedLine("/health", 0)}

	result, err := NewURLAggregator(0.5, 10).Aggregate(context.Background(), slices.Values(lines))
	require.NoError(t, err)
	assert.Equal(t, 0.0, result.Stats[0].TimePerc)
	assert.Equal(t, 100.0, result.Stats[0].CountPerc)
}

func TestURLAggregator_Aggregate_PercentagesSumToHundred(t *testing.T) {
	t.Parallel()

	var lines []models.ParsedLine
	for i := 0; i < 300; i++ {
		url := []string{"/a", "/b", "/c", "/d", "/e", "/f", "/g"}[i%7]
		lines = append(lines, models.NewParsedLine(url, float64(i%11)*0.013))
	}

	result, err := NewURLAggregator(0.5, 1000).Aggregate(context.Background(), slices.Values(lines))
	require.NoError(t, err)

	var countPerc, timePerc float64
	for _, s := range result.Stats {
		assert.Greater(t, s.Count, 0)
		countPerc += s.CountPerc
		timePerc += s.TimePerc
	}
	assert.InDelta(t, 100, countPerc, 0.01)
	assert.InDelta(t, 100, timePerc, 0.01)
}

func TestRound3_HalfToEven(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in       float64
		expected float64
	}{
		{in: 0.0625, expected: 0.062}, // exact half, even neighbour below
		{in: 0.1875, expected: 0.188}, // exact half, even neighbour above
		{in: 2.0675, expected: 2.067}, // binary value sits below the half
		{in: 0.0005, expected: 0.001}, // binary value sits above the half
		{in: 0.39, expected: 0.39},
		{in: 16.666666666666664, expected: 16.667},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, round3(tt.in), "round3(%v)", tt.in)
	}
}

func TestMean_IsExact(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0.2, mean([]float64{0.1, 0.2, 0.3}))
}

func TestMedian(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0.2, median([]float64{0.3, 0.1, 0.2}))
	assert.Equal(t, 0.25, median([]float64{0.1, 0.4, 0.2, 0.3}))
	assert.Equal(t, 7.0, median([]float64{7}))
}
