package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/Jacobbrewer1/ticketeer/pkg/dataaccess/connection"
	"github.com/alexliesenfeld/health"
)

// configStaleAfter is how many poll intervals can pass without a successful config refresh.
const configStaleAfter = 3

func (a *App) healthCheck() http.Handler {
	checker := health.NewChecker(
		// Set a TTL of 1 second for the results of the checks.
		health.WithCacheDuration(1*time.Second),

		// Set a timeout of 2 seconds for the checks.
		health.WithTimeout(2*time.Second),

		// Monitor the health of the database (MongoDB).
		health.WithCheck(health.Check{
			Name: "MongoDB",
			Check: func(ctx context.Context) error {
				return connection.Ping(ctx, a.db)
			},
			Timeout:        2 * time.Second,
			StatusListener: a.healthStatusListener,
		}),

		// Monitor the health of the Discord API.
		health.WithPeriodicCheck(15*time.Second, 5*time.Second, health.Check{
			Name: "Discord_API",
			Check: func(ctx context.Context) error {
				if _, err := a.Session().GatewayBot(); err != nil {
					return fmt.Errorf("failed to ping Discord API: %w", err)
				}
				return nil
			},
			Timeout:        3 * time.Second,
			StatusListener: a.healthStatusListener,
		}),

		// Monitor that the ticket configuration is being refreshed.
		health.WithCheck(health.Check{
			Name: "Ticket_Config",
			Check: func(ctx context.Context) error {
				return configFreshness(a.cache.LastRefresh(), time.Now(), a.cfg.PollInterval)
			},
			StatusListener: a.healthStatusListener,
		}),
	)

	return health.NewHandler(checker)
}

func (a *App) healthStatusListener(_ context.Context, name string, state health.CheckState) {
	a.Log().Info("Health check status changed",
		slog.String("name", name),
		slog.String("state", string(state.Status)),
	)
}

// configFreshness fails when the configuration has not been refreshed for a few poll intervals.
func configFreshness(lastRefresh, now time.Time, pollInterval time.Duration) error {
	if lastRefresh.IsZero() {
		return fmt.Errorf("ticket configuration has not been loaded")
	}

	if age := now.Sub(lastRefresh); age > configStaleAfter*pollInterval {
		return fmt.Errorf("ticket configuration last refreshed %s ago", age.Round(time.Second))
	}
	return nil
}
