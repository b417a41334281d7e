package http

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	loginsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "logins_total",
			Help: "Login attempts by outcome",
		},
		[]string{"status"},
	)

	registrationsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "event_registrations_total",
			Help: "Tickets created",
		},
	)

	checkInsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "checkins_total",
			Help: "Check-ins recorded by method",
		},
		[]string{"method"},
	)
)
