// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	TurnsProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_turns_total",
			Help: "Total number of chat turns processed, by outcome",
		},
		[]string{"outcome"},
	)

	TurnDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "chat_turn_duration_seconds",
			Help: "Duration of turn processing in seconds",
		},
		[]string{"outcome"},
	)

	CacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "chat_cache_hits_total",
			Help: "Total number of response cache hits",
		},
	)

	CacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "chat_cache_misses_total",
			Help: "Total number of response cache misses",
		},
	)

	CompletionRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_completion_requests_total",
			Help: "Total number of upstream completion calls, by status",
		},
		[]string{"status"},
	)

	DispatchOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_dispatch_operations_total",
			Help: "Total number of dispatched backing operations",
		},
		[]string{"operation", "status"},
	)
)
