package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the hub collectors on a private registry so each hub
// instance (and each test) gets its own set.
type Metrics struct {
	reg *prometheus.Registry

	Connections   prometheus.Gauge
	Rooms         prometheus.Gauge
	Joins         prometheus.Counter
	Reactions     prometheus.Counter
	DroppedSends  prometheus.Counter
	Malformed     prometheus.Counter
	KickedMembers prometheus.Counter
}

func New() *Metrics {
	m := &Metrics{
		reg: prometheus.NewRegistry(),
		Connections: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "presence_connections",
			Help: "Open signal connections.",
		}),
		Rooms: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "presence_rooms",
			Help: "Rooms with at least one listener.",
		}),
		Joins: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "presence_joins_total",
			Help: "joinRoom events handled.",
		}),
		Reactions: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "presence_reactions_total",
			Help: "Reactions fanned out.",
		}),
		DroppedSends: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "presence_dropped_sends_total",
			Help: "Frames not queued because the receiver was full or closed.",
		}),
		Malformed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "presence_malformed_messages_total",
			Help: "Inbound messages dropped as malformed.",
		}),
		KickedMembers: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "presence_kicked_members_total",
			Help: "Connections closed by the backpressure policy.",
		}),
	}
	m.reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.Connections, m.Rooms, m.Joins, m.Reactions,
		m.DroppedSends, m.Malformed, m.KickedMembers,
	)
	return m
}

// Handler returns an http.Handler for Prometheus scraping
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{})
}
