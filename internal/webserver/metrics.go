package webserver

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	sessionsActive = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "convgraph_ws_sessions",
			Help: "Number of open websocket sessions",
		},
	)

	eventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "convgraph_ws_events_total",
			Help: "Client events applied, by type",
		},
		[]string{"type"},
	)

	eventsRejected = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "convgraph_ws_events_rejected_total",
			Help: "Client messages that could not be decoded or validated",
		},
	)
)

func init() {
	prometheus.MustRegister(sessionsActive)
	prometheus.MustRegister(eventsTotal)
	prometheus.MustRegister(eventsRejected)
}
