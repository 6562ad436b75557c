package dataaccess

import (
	"errors"

	"github.com/Jacobbrewer1/ticketeer/pkg/dataaccess/monitoring"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	// DefaultDatabase is the database used when none is configured.
	DefaultDatabase = "ticketeer"

	configCollection = "ticket_configs"
	ticketCollection = "tickets"
)

var (
	// ErrNotFound is returned when no document matched the query.
	ErrNotFound = errors.New("not found")

	// ErrDuplicate is returned when a write would break a unique index.
	ErrDuplicate = errors.New("duplicate")
)

// Database names the Mongo database the data access layers read and write.
type Database string

// track records a request against the mongo metrics and returns a function that records its latency.
func track(dal, query string, db Database, collection string) func() {
	monitoring.MongoTotalRequests.WithLabelValues(dal, query, string(db), collection).Inc()
	t := prometheus.NewTimer(monitoring.MongoLatency.WithLabelValues(dal, query, string(db), collection))
	return func() {
		t.ObserveDuration()
	}
}

// failed records a failed request against the mongo metrics.
func failed(dal, query string, db Database, collection string) {
	monitoring.MongoErrors.WithLabelValues(dal, query, string(db), collection).Inc()
}
