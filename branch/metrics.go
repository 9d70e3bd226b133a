package branch

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// lpSolves counts node relaxations by HiGHS model status.
	lpSolves = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "learn2branch",
		Subsystem: "branch",
		Name:      "lp_solves_total",
		Help:      "Node relaxations solved, by model status",
	}, []string{"status"})

	lpDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "learn2branch",
		Subsystem: "branch",
		Name:      "lp_duration_seconds",
		Help:      "Wall time of one node relaxation",
		Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
	})

	lpIterations = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "learn2branch",
		Subsystem: "branch",
		Name:      "lp_iterations_total",
		Help:      "Simplex iterations spent in node relaxations",
	})

	decisions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "learn2branch",
		Subsystem: "branch",
		Name:      "decisions_total",
		Help:      "Branching decisions, by outcome (ok, invalid, error)",
	}, []string{"outcome"})

	decisionDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "learn2branch",
		Subsystem: "branch",
		Name:      "decision_duration_seconds",
		Help:      "Time spent inside the branching policy",
		Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 10),
	})

	// episodes counts finished searches by final status.
	episodes = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "learn2branch",
		Subsystem: "branch",
		Name:      "episodes_total",
		Help:      "Finished searches, by status",
	}, []string{"status"})
)
