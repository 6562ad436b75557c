package ticketing

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ticketsOpened is the number of tickets opened, by ticket type.
	ticketsOpened = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ticketing_tickets_opened_total",
		Help: "The total number of tickets opened",
	}, []string{"type"})

	// ticketsClosed is the number of tickets closed.
	ticketsClosed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ticketing_tickets_closed_total",
		Help: "The total number of tickets closed",
	})

	// channelDeleteFailures is the number of ticket channels that could not be deleted.
	channelDeleteFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ticketing_channel_delete_failures_total",
		Help: "The total number of ticket channels that could not be deleted after closing",
	})

	// ratingsReceived is the number of ratings received, by rating.
	ratingsReceived = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ticketing_ratings_total",
		Help: "The total number of ticket ratings received",
	}, []string{"rating"})

	// auditFailures is the number of ratings that could not be written to the audit channel.
	auditFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ticketing_rating_audit_failures_total",
		Help: "The total number of ratings that could not be written to the audit channel",
	})
)
