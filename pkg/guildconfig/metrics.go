package guildconfig

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	configRefreshFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "guildconfig_refresh_failures_total",
			Help: "Total number of ticket configuration refreshes that failed",
		},
	)

	intakeAnnouncements = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "guildconfig_intake_announcements_total",
			Help: "Total number of ticket intake activations by outcome",
		},
		[]string{"outcome"},
	)
)
