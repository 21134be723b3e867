package main

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	eventsProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "dutywatch",
		Subsystem: "feed",
		Name:      "events_total",
		Help:      "Number of feed events processed.",
	}, []string{"type"})

	eventsDropped = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "dutywatch",
		Subsystem: "feed",
		Name:      "events_dropped_total",
		Help:      "Number of feed events dropped at the boundary.",
	}, []string{"reason"})

	unitsGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "dutywatch",
		Subsystem: "tracker",
		Name:      "units",
		Help:      "Number of units in the live set.",
	})

	alertsGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "dutywatch",
		Subsystem: "tracker",
		Name:      "alerts_active",
		Help:      "Number of currently active alerts.",
	})
)
