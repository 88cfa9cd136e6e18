// Package metrics provides Prometheus metrics for the pattern engine and
// the control surface.
package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/smazurov/blinknode/internal/events"
	"github.com/smazurov/blinknode/internal/pattern"
)

const namespace = "blinknode"

var (
	ticksTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "ticks_total",
		Help:      "Pattern engine ticks",
	})

	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "requests_total",
		Help:      "Requests served on the control surface",
	}, []string{"command", "outcome"})

	requestDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "request_duration_seconds",
		Help:      "Time spent serving one connection",
		Buckets:   []float64{.001, .005, .01, .05, .1, .5, 1, 5},
	})

	channelLevel = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "channel_level",
		Help:      "Physical output level per channel (1 = high)",
	}, []string{"channel"})

	channelEnabled = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "channel_enabled",
		Help:      "Whether the channel is enabled",
	}, []string{"channel"})

	patternMode = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "pattern_mode",
		Help:      "Active output pattern (1 for the current mode)",
	}, []string{"mode"})

	// Last snapshot, for the admin API.
	latest    State
	latestSet bool
	latestMu  sync.RWMutex
)

// State is the last engine snapshot seen and when it was taken.
type State struct {
	Snapshot  pattern.Snapshot
	Cause     string
	UpdatedAt time.Time
}

// RecordSnapshot updates the gauges and the snapshot cache.
func RecordSnapshot(snap pattern.Snapshot, cause string, at time.Time) {
	for _, ch := range snap.Channels {
		name := ch.ID.String()
		channelLevel.WithLabelValues(name).Set(boolToFloat(ch.Level))
		channelEnabled.WithLabelValues(name).Set(boolToFloat(ch.Enabled))
	}
	for _, m := range pattern.Modes() {
		patternMode.WithLabelValues(m.String()).Set(boolToFloat(snap.Mode == m))
	}
	if cause == events.CauseTick {
		ticksTotal.Inc()
	}

	latestMu.Lock()
	latest = State{Snapshot: snap, Cause: cause, UpdatedAt: at}
	latestSet = true
	latestMu.Unlock()
}

// RecordRequest counts one served connection.
func RecordRequest(command, outcome string, d time.Duration) {
	if command == "" {
		command = "none"
	}
	requestsTotal.WithLabelValues(command, outcome).Inc()
	requestDuration.Observe(d.Seconds())
}

// Latest returns the last recorded state. ok is false before the first
// snapshot arrives.
func Latest() (State, bool) {
	latestMu.RLock()
	defer latestMu.RUnlock()
	return latest, latestSet
}

func boolToFloat(v bool) float64 {
	if v {
		return 1
	}
	return 0
}

