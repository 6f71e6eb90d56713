package engine

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	ticksTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "convgraph_engine_ticks_total",
			Help: "Total number of simulation steps run",
		},
	)

	ticksSkipped = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "convgraph_engine_ticks_skipped_total",
			Help: "Ticks skipped because the engine was stopped or had no usable size",
		},
	)

	framesDropped = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "convgraph_engine_frames_dropped_total",
			Help: "Frames not delivered because a subscriber's buffer was full",
		},
	)

	stepDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "convgraph_engine_step_seconds",
			Help:    "Time taken by one simulation step",
			Buckets: prometheus.ExponentialBuckets(0.00001, 4, 8),
		},
	)

	enginesRunning = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "convgraph_engines_running",
			Help: "Number of engine loops currently running",
		},
	)
)

func init() {
	prometheus.MustRegister(ticksTotal)
	prometheus.MustRegister(ticksSkipped)
	prometheus.MustRegister(framesDropped)
	prometheus.MustRegister(stepDuration)
	prometheus.MustRegister(enginesRunning)
}
