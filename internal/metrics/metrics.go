// Package metrics declares the Prometheus collectors exported at /metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// AuthEvents counts register, login and authenticate outcomes.
	AuthEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "taskapi",
		Name:      "auth_events_total",
		Help:      "Authentication events by kind and outcome.",
	}, []string{"event", "outcome"})

	// TaskOperations counts task operations by kind and outcome.
	TaskOperations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "taskapi",
		Name:      "task_operations_total",
		Help:      "Task operations by kind and outcome.",
	}, []string{"op", "outcome"})
)

// Handler serves the default registry.
func Handler() http.Handler { return promhttp.Handler() }
