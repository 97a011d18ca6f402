// Package metrics holds the Prometheus collectors of the kinship service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	Elements = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "kinship_elements",
		Help: "Number of graph elements built from the dataset, by kind",
	}, []string{"kind"})

	PathSearches = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kinship_path_searches_total",
		Help: "Path highlight requests by outcome (found, not_found, skipped, error)",
	}, []string{"outcome"})

	PathLength = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "kinship_path_length",
		Help:    "Number of hops of highlighted paths",
		Buckets: []float64{1, 2, 3, 4, 6, 8, 12, 16, 24},
	})

	Actions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kinship_actions_total",
		Help: "UI actions dispatched to sessions",
	}, []string{"action"})

	ExportFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "kinship_export_failures_total",
		Help: "Elements that failed to be written to the graph database",
	})
)
