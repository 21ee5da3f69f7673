package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	GradingRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "grading_requests_total",
			Help: "Grading requests by form kind, scoring mode and verdict",
		},
		[]string{"kind", "mode", "verdict"},
	)

	GradingFaults = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "grading_faults_total",
			Help: "Grading calls that panicked and were recovered",
		},
		[]string{"kind"},
	)

	SlideTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "slideshow_transitions_total",
			Help: "Visible slide changes by source",
		},
		[]string{"source"},
	)

	SlideshowContainers = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "slideshow_containers",
			Help: "Slide containers with a running timer",
		},
	)
)

var registerOnce sync.Once

// Init registers collectors with the default registry. Safe to call more than once.
func Init() {
	registerOnce.Do(func() {
		prometheus.MustRegister(GradingRequests)
		prometheus.MustRegister(GradingFaults)
		prometheus.MustRegister(SlideTransitions)
		prometheus.MustRegister(SlideshowContainers)
	})
}
