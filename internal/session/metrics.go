package session

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	submissionsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "director_session_submissions_total",
		Help: "Total number of accepted submissions.",
	})
	transitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "director_session_transitions_total",
			Help: "Session state transitions by target status.",
		},
		[]string{"status"},
	)
	generationErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "director_session_generation_errors_total",
			Help: "Failed generations by error kind.",
		},
		[]string{"kind"},
	)
	staleResultsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "director_session_stale_results_total",
		Help: "Generation results discarded because a newer submission or reset superseded them.",
	})
	activeSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "director_sessions_active",
		Help: "Number of sessions held by the registry.",
	})
)
