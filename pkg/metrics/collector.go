// Package metrics exposes Prometheus collectors for the bot.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	botUpdatesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_updates_total",
			Help: "Total number of handled updates labeled by action and status",
		},
		[]string{"action", "status"},
	)
	updateDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "update_duration_seconds",
			Help:    "Duration of update handling in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"action"},
	)
	stateTransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "state_transitions_total",
			Help: "Total number of session state transitions",
		},
		[]string{"from", "to"},
	)
	notesSavedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "notes_saved_total",
			Help: "Total number of notes persisted",
		},
	)
	notesDeletedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "notes_deleted_total",
			Help: "Total number of notes removed by delete or clear actions",
		},
	)
)

// RecordUpdate increments update counters and records handling duration.
func RecordUpdate(action, status string, duration time.Duration) {
	if action == "" {
		action = "unknown"
	}
	if status == "" {
		status = "unknown"
	}

	botUpdatesTotal.WithLabelValues(action, status).Inc()
	updateDurationSeconds.WithLabelValues(action).Observe(duration.Seconds())
}

// RecordStateTransition counts a session state change.
func RecordStateTransition(from, to string) {
	stateTransitionsTotal.WithLabelValues(from, to).Inc()
}

// RecordNoteSaved counts a persisted note.
func RecordNoteSaved() {
	notesSavedTotal.Inc()
}

// RecordNotesDeleted counts removed notes.
func RecordNotesDeleted(count int64) {
	if count <= 0 {
		return
	}
	notesDeletedTotal.Add(float64(count))
}
