// Package metrics holds the Prometheus collectors for auto-assign runs.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "ticket_assigner"

// Registry is private to this service; the default registry is left untouched.
var Registry = prometheus.NewRegistry()

var factory = promauto.With(Registry)

func init() {
	Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
}

// RunsTotal counts auto-assign runs by outcome: ok, failed, busy.
var RunsTotal = factory.NewCounterVec(prometheus.CounterOpts{
	Namespace: namespace,
	Name:      "runs_total",
	Help:      "Auto-assign runs by outcome",
}, []string{"outcome"})

var TicketsAssigned = factory.NewCounter(prometheus.CounterOpts{
	Namespace: namespace,
	Name:      "tickets_assigned_total",
	Help:      "Auto Assign tickets handed to an agent",
})

// TicketsLeftPending counts Auto Assign tickets that found no available agent.
var TicketsLeftPending = factory.NewCounter(prometheus.CounterOpts{
	Namespace: namespace,
	Name:      "tickets_pending_total",
	Help:      "Auto Assign tickets left unassigned because no agent was available",
})

var AppendFailures = factory.NewCounter(prometheus.CounterOpts{
	Namespace: namespace,
	Name:      "append_failures_total",
	Help:      "Assignment records that could not be written",
})

var MalformedRecords = factory.NewCounterVec(prometheus.CounterOpts{
	Namespace: namespace,
	Name:      "malformed_records_total",
	Help:      "Agents or tickets skipped for missing timestamps",
}, []string{"kind"})

var RunDuration = factory.NewHistogram(prometheus.HistogramOpts{
	Namespace: namespace,
	Name:      "run_duration_seconds",
	Help:      "Wall time of an auto-assign run",
	Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
})

var AvailableAgents = factory.NewGauge(prometheus.GaugeOpts{
	Namespace: namespace,
	Name:      "available_agents",
	Help:      "Agents on shift and not Offline at the last run",
})

func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{Registry: Registry})
}
