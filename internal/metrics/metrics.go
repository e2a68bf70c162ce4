package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	VisitsTracked      *prometheus.CounterVec
	GeolocationLookups *prometheus.CounterVec
	Reservations       *prometheus.CounterVec
	Notifications      *prometheus.CounterVec
	RequestDuration    *prometheus.HistogramVec

	registerOnce sync.Once
)

func init() {
	VisitsTracked = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "paradise",
			Name:      "visits_tracked_total",
			Help:      "Visitor tracking calls by outcome (tracked, already_tracked, failed).",
		},
		[]string{"result"},
	)
	GeolocationLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "paradise",
			Name:      "geolocation_lookups_total",
			Help:      "IP geolocation lookups by outcome.",
		},
		[]string{"result"},
	)
	Reservations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "paradise",
			Name:      "reservations_total",
			Help:      "Birthday reservation submissions by outcome.",
		},
		[]string{"result"},
	)
	Notifications = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "paradise",
			Name:      "notifications_total",
			Help:      "Confirmation emails by outcome.",
		},
		[]string{"result"},
	)
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "paradise",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request durations in seconds.",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		},
		[]string{"method", "route", "status"},
	)
}

// Register adds every collector to the default registry. Safe to call more than once.
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(VisitsTracked, GeolocationLookups, Reservations, Notifications, RequestDuration)
	})
}
