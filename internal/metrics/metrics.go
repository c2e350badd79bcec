// Package metrics declares the prometheus collectors used across the server
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "pixelcanvas"

var (
	// pixelsPlaced counts committed mutations
	pixelsPlaced = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "canvas",
		Name:      "pixels_placed_total",
		Help:      "Total pixels committed to the canvas",
	})

	// placementRejections counts refused mutations.
	// Labels: reason (invalid_color, out_of_bounds, not_authenticated, not_found, banned, timed-out, internal)
	placementRejections = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "canvas",
		Name:      "placement_rejections_total",
		Help:      "Total pixel placements rejected, by reason",
	}, []string{"reason"})

	// moderationActions counts applied moderation actions.
	// Labels: action
	moderationActions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "moderation",
		Name:      "actions_total",
		Help:      "Total moderation actions applied, by action",
	}, []string{"action"})

	// journalFlushes counts journal flush attempts.
	// Labels: status (ok, error)
	journalFlushes = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "journal",
		Name:      "flushes_total",
		Help:      "Total journal flushes, by status",
	}, []string{"status"})

	// journalRecords counts history records written to storage
	journalRecords = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "journal",
		Name:      "records_written_total",
		Help:      "Total history records persisted",
	})

	// httpRequestDuration measures API request latency.
	// Labels: method, status
	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency in seconds",
		Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
	}, []string{"method", "status"})
)

// PixelPlaced records one committed mutation
func PixelPlaced() {
	pixelsPlaced.Inc()
}

// PlacementRejected records a refused mutation
func PlacementRejected(reason string) {
	placementRejections.WithLabelValues(reason).Inc()
}

// ModerationApplied records an applied moderation action
func ModerationApplied(action string) {
	moderationActions.WithLabelValues(action).Inc()
}

// JournalFlushed records the outcome of a journal flush
func JournalFlushed(records int, err error) {
	if err != nil {
		journalFlushes.WithLabelValues("error").Inc()
		return
	}
	journalFlushes.WithLabelValues("ok").Inc()
	journalRecords.Add(float64(records))
}

// ObserveRequest records the latency of one HTTP request
func ObserveRequest(method, status string, seconds float64) {
	httpRequestDuration.WithLabelValues(method, status).Observe(seconds)
}

// Handler exposes the default registry
func Handler() http.Handler {
	return promhttp.Handler()
}
