// Package metrics owns the process prometheus registry and the collectors the
// HTTP server, outbox relay, execution keeper and event consumer report into.
package metrics

import (
	"context"
	"net/http"
	"strconv"
	"time"

	eventsv1 "securevote/contracts/events/v1"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "securevote"

type Registry struct {
	registry *prometheus.Registry

	httpRequests   *prometheus.CounterVec
	httpDuration   *prometheus.HistogramVec
	outboxRelayed  *prometheus.CounterVec
	outboxFailed   *prometheus.CounterVec
	keeperExecuted prometheus.Counter
	keeperFailed   prometheus.Counter
	eventsObserved *prometheus.CounterVec
	rateLimited    *prometheus.CounterVec
}

func New() *Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Registry{
		registry: reg,
		httpRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by route pattern, method and status.",
		}, []string{"route", "method", "status"}),
		httpDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by route pattern.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
		outboxRelayed: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "outbox",
			Name:      "published_total",
			Help:      "Outbox rows relayed to the event bus.",
		}, []string{"event_type"}),
		outboxFailed: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "outbox",
			Name:      "publish_failures_total",
			Help:      "Outbox rows that failed to relay.",
		}, []string{"event_type"}),
		keeperExecuted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "keeper",
			Name:      "executions_total",
			Help:      "Passed proposals executed by the keeper.",
		}),
		keeperFailed: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "keeper",
			Name:      "execution_failures_total",
			Help:      "Keeper execution attempts that failed.",
		}),
		eventsObserved: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "governance",
			Name:      "events_total",
			Help:      "Governance events observed on the bus by type.",
		}, []string{"event_type"}),
		rateLimited: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "rate_limited_total",
			Help:      "Requests rejected by a rate limiter.",
		}, []string{"route"}),
	}
}

func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

func (r *Registry) ObserveHTTP(route string, method string, status int, elapsed time.Duration) {
	r.httpRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	r.httpDuration.WithLabelValues(route, method).Observe(elapsed.Seconds())
}

func (r *Registry) RateLimited(route string) {
	r.rateLimited.WithLabelValues(route).Inc()
}

func (r *Registry) OutboxPublished(eventType string) {
	r.outboxRelayed.WithLabelValues(eventType).Inc()
}

func (r *Registry) OutboxPublishFailed(eventType string) {
	r.outboxFailed.WithLabelValues(eventType).Inc()
}

func (r *Registry) ProposalAutoExecuted() {
	r.keeperExecuted.Inc()
}

func (r *Registry) ProposalAutoExecuteFailed() {
	r.keeperFailed.Inc()
}

// ObserveEvent is a bus handler counting relayed governance events.
func (r *Registry) ObserveEvent(_ context.Context, event eventsv1.Envelope) error {
	r.eventsObserved.WithLabelValues(event.EventType).Inc()
	return nil
}
