package metrics

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"rankboard/core"
	"rankboard/engine"
)

// Collector turns board events into Prometheus series. Each Collector owns its
// registry so several boards can run in one process.
type Collector struct {
	registry  *prometheus.Registry
	events    *prometheus.CounterVec
	evictions prometheus.Counter
	size      prometheus.Gauge
	capacity  prometheus.Gauge
}

func New(capacity int) *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		events: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rankboard_events_total",
				Help: "Board events by type",
			},
			[]string{"type"},
		),
		evictions: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "rankboard_evictions_total",
			Help: "Entries pushed off the tail by a higher score",
		}),
		size: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "rankboard_entries",
			Help: "Entries currently on the board",
		}),
		capacity: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "rankboard_capacity",
			Help: "Maximum entries the board holds",
		}),
	}
	c.registry.MustRegister(c.events, c.evictions, c.size, c.capacity)
	c.capacity.Set(float64(capacity))
	return c
}

// Observe records one event.
func (c *Collector) Observe(_ context.Context, ev core.Event) {
	c.events.WithLabelValues(string(ev.Type)).Inc()
	if ev.Evicted != nil {
		c.evictions.Inc()
	}
	c.size.Set(float64(ev.Size))
}

// Attach subscribes the collector to every event the service publishes and
// returns the unsubscribe func.
func (c *Collector) Attach(svc *engine.BoardService) func() {
	c.size.Set(float64(svc.Len()))
	unsubs := make([]func(), 0, 3)
	for _, t := range []core.EventType{core.EventEntryAdmitted, core.EventEntryRejected, core.EventEntryRemoved} {
		unsubs = append(unsubs, svc.Subscribe(t, c.Observe))
	}
	return func() {
		for _, u := range unsubs {
			u()
		}
	}
}

func (c *Collector) Registry() *prometheus.Registry { return c.registry }

// Handler serves the collector's registry in the Prometheus text format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
