package aggregators

import (
	"log-analyzer/internal/shared/metrics"
)

const (
	resultParsed = "parsed"
	resultFailed = "failed"
)

// metricLinesTotal counts log lines consumed by aggregation, labelled by whether
// the line parsed ("parsed") or counted against the error limit ("failed").
var (
	metricLinesTotal = metrics.NewCounterVec(
		metrics.CounterOpts{
			Namespace: metrics.Namespace,
			Subsystem: metrics.SubAnalysis,
			Name:      "lines_total",
		},
		[]string{"result"},
	)
)
