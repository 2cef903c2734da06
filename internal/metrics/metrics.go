// Package metrics exposes Prometheus collectors for the tick dispatcher.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "moodlog"

// Metrics reports dispatcher activity. A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry     *prometheus.Registry
	ticks        prometheus.Counter
	skippedTicks prometheus.Counter
	rollovers    prometheus.Counter
	commands     *prometheus.CounterVec
	events       *prometheus.CounterVec
	tickDuration prometheus.Histogram
}

// New builds the collectors on a private registry so several dispatchers
// (tests, mostly) never collide on registration.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		ticks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "dispatcher",
			Name:      "ticks_total",
			Help:      "Number of ticks processed.",
		}),
		skippedTicks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "dispatcher",
			Name:      "ticks_skipped_total",
			Help:      "Ticks dropped because the previous tick was still running.",
		}),
		rollovers: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "dispatcher",
			Name:      "rollovers_total",
			Help:      "Number of observed calendar date changes.",
		}),
		commands: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "dispatcher",
			Name:      "command_results_total",
			Help:      "Command results by command and outcome.",
		}, []string{"command", "outcome"}),
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "dispatcher",
			Name:      "events_total",
			Help:      "Events published to subscribers by type.",
		}, []string{"type"}),
		tickDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "dispatcher",
			Name:      "tick_duration_seconds",
			Help:      "Wall time spent processing a tick.",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	reg.MustRegister(m.ticks, m.skippedTicks, m.rollovers, m.commands, m.events, m.tickDuration)
	return m
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveTick counts a processed tick and records how long it took.
func (m *Metrics) ObserveTick(d time.Duration) {
	if m == nil {
		return
	}
	m.ticks.Inc()
	m.tickDuration.Observe(d.Seconds())
}

func (m *Metrics) IncSkippedTick() {
	if m == nil {
		return
	}
	m.skippedTicks.Inc()
}

func (m *Metrics) IncRollover() {
	if m == nil {
		return
	}
	m.rollovers.Inc()
}

// IncCommand counts one command result. outcome is succeeded, no_action or failed.
func (m *Metrics) IncCommand(command, outcome string) {
	if m == nil {
		return
	}
	m.commands.WithLabelValues(command, outcome).Inc()
}

func (m *Metrics) IncEvent(eventType string) {
	if m == nil {
		return
	}
	m.events.WithLabelValues(eventType).Inc()
}
