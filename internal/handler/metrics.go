package handler

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	generationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "studio_generations_total",
			Help: "Total number of generation submissions by kind and status.",
		},
		[]string{"kind", "status"},
	)

	exportsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "studio_exports_total",
			Help: "Total number of exports by format and status.",
		},
		[]string{"format", "status"},
	)

	uploadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "studio_library_uploads_total",
			Help: "Total number of library archive uploads by status.",
		},
		[]string{"status"},
	)

	deletionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "studio_deletions_total",
			Help: "Total number of confirmed deletions by entity and status.",
		},
		[]string{"entity", "status"},
	)

	scenarioMutationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "studio_scenario_mutations_total",
			Help: "Total number of scenario create/update calls by operation and status.",
		},
		[]string{"op", "status"},
	)

	generatorBatchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "studio_generator_batches_total",
			Help: "Total number of name/review batches by panel and status.",
		},
		[]string{"panel", "status"},
	)
)

func statusLabel(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
