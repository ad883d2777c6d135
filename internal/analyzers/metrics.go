package analyzers

import (
	"log-analyzer/internal/shared/metrics"
)

const fieldOutcome = "outcome"

var (
	metricRunsTotal = metrics.NewCounterVec(
		metrics.CounterOpts{
			Namespace: metrics.Namespace,
			Subsystem: metrics.SubAnalysis,
			Name:      "runs_total",
		},
		[]string{fieldOutcome, metrics.FieldErrorCode},
	)

	// metricErrorRate is the share of unparseable lines in the last analyzed log.
	metricErrorRate = metrics.NewGauge(
		metrics.GaugeOpts{
			Namespace: metrics.Namespace,
			Subsystem: metrics.SubAnalysis,
			Name:      "error_rate",
		},
	)
)
