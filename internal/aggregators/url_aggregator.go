package aggregators

import (
	"context"
	"errors"
	"iter"
	"math/big"
	"sort"
	"strconv"

	"log-analyzer/internal/models"
)

var (
	ErrEmptyLog           = errors.New("log file has no lines")
	ErrErrorLimitExceeded = errors.New("parsing error limit exceeded")
)

// URLAggregator reduces parsed log lines into per-URL timing statistics.
//
//go:generate mockgen -source=url_aggregator.go -destination=./mocks/url_aggregator_mock.go -package=mocks
type URLAggregator interface {
	// Aggregate consumes lines exactly once. It returns ErrEmptyLog when lines is
	// empty and ErrErrorLimitExceeded when the share of failed lines reaches the
	// error limit; in the latter case the returned result still carries the line
	// counters but no Stats.
	Aggregate(ctx context.Context, lines iter.Seq[models.ParsedLine]) (*models.AggregationResult, error)
}

type urlAggregator struct {
	errorLimit float64
	reportSize int
}

func NewURLAggregator(errorLimit float64, reportSize int) URLAggregator {
	return &urlAggregator{errorLimit: errorLimit, reportSize: reportSize}
}

// urlTimes is the request times of one URL in the order they were logged.
type urlTimes struct {
	url   string
	times []float64
	sum   float64
}

func (a *urlAggregator) Aggregate(ctx context.Context, lines iter.Seq[models.ParsedLine]) (*models.AggregationResult, error) {
	var (
		totalLines, validLines, failedLines int
		totalTime                           float64
		byURL                               = make(map[string]*urlTimes)
		order                               []*urlTimes // first appearance, for stable ranking
	)

	for line := range lines {
		totalLines++
		if !line.Valid {
			failedLines++
			continue
		}

		entry, ok := byURL[line.URL]
		if !ok {
			entry = &urlTimes{url: line.URL}
			byURL[line.URL] = entry
			order = append(order, entry)
		}
		entry.times = append(entry.times, line.RequestTime)
		validLines++
		totalTime += line.RequestTime
	}
	metricLinesTotal.WithLabelValues(resultParsed).Add(float64(validLines))
	metricLinesTotal.WithLabelValues(resultFailed).Add(float64(failedLines))

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if totalLines == 0 {
		return nil, ErrEmptyLog
	}

	result := &models.AggregationResult{
		TotalLines:  totalLines,
		FailedLines: failedLines,
		ErrorRate:   float64(failedLines) / float64(totalLines),
	}
	if result.ErrorRate >= a.errorLimit {
		return result, ErrErrorLimitExceeded
	}

	for _, entry := range order {
		for _, t := range entry.times {
			entry.sum += t
		}
	}
	sort.SliceStable(order, func(i, j int) bool {
		return order[i].sum > order[j].sum
	})

	top := order[:min(a.reportSize, len(order))]
	result.Stats = make([]models.URLStats, 0, len(top))
	for _, entry := range top {
		result.Stats = append(result.Stats, entry.stats(validLines, totalTime))
	}
	return result, nil
}

func (u *urlTimes) stats(validLines int, totalTime float64) models.URLStats {
	count := len(u.times)

	timePerc := 0.0
	if totalTime > 0 {
		timePerc = u.sum / totalTime * 100
	}

	return models.URLStats{
		URL:        u.url,
		Count:      count,
		CountPerc:  round3(float64(count) / float64(validLines) * 100),
		TimeSum:    round3(u.sum),
		TimePerc:   round3(timePerc),
		TimeAvg:    round3(mean(u.times)),
		TimeMax:    round3(maxOf(u.times)),
		TimeMedian: round3(median(u.times)),
	}
}

// round3 rounds x to 3 decimals, half to even, judged on the exact binary value
// of x rather than on its shortest decimal form (2.0675 -> 2.067).
func round3(x float64) float64 {
	rounded, _ := strconv.ParseFloat(strconv.FormatFloat(x, 'f', 3, 64), 64)
	return rounded
}

// mean is exact up to the final conversion back to float64.
func mean(values []float64) float64 {
	sum := new(big.Rat)
	for _, v := range values {
		sum.Add(sum, new(big.Rat).SetFloat64(v))
	}
	avg, _ := sum.Quo(sum, new(big.Rat).SetInt64(int64(len(values)))).Float64()
	return avg
}

func maxOf(values []float64) float64 {
	m := values[0]
	for _, v := range values[1:] {
		m = max(m, v)
	}
	return m
}

// median averages the two middle values when len(values) is even.
func median(values []float64) float64 {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}
