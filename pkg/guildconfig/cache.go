package guildconfig

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"sync/atomic"
	"time"

	"github.com/Jacobbrewer1/ticketeer/pkg/entities"
	"github.com/Jacobbrewer1/ticketeer/pkg/logging"
)

// Source loads every server's ticket configuration.
type Source interface {
	GetAllConfigs(ctx context.Context) ([]*entities.TicketConfig, error)
}

// Snapshot is an immutable view of the configuration keyed by server ID.
type Snapshot map[string]entities.TicketConfig

// Equal reports whether s and other hold the same entries.
func (s Snapshot) Equal(other Snapshot) bool {
	return maps.Equal(s, other)
}

// Cache holds the latest snapshot of the ticket configuration.
type Cache struct {
	l      *slog.Logger
	source Source

	current     atomic.Pointer[Snapshot]
	lastRefresh atomic.Pointer[time.Time]
}

// NewCache creates an empty cache backed by source.
func NewCache(l *slog.Logger, source Source) *Cache {
	c := &Cache{
		l:      l.With(slog.String("component", "config_cache")),
		source: source,
	}
	empty := make(Snapshot)
	c.current.Store(&empty)
	return c
}

// Refresh loads every configuration row and replaces the snapshot. If loading fails the previous
// snapshot is kept and the error is returned.
func (c *Cache) Refresh(ctx context.Context) error {
	rows, err := c.source.GetAllConfigs(ctx)
	if err != nil {
		c.l.Error("Error loading ticket configuration, keeping previous snapshot",
			slog.String(logging.KeyError, err.Error()))
		return fmt.Errorf("error loading ticket configuration: %w", err)
	}

	next := make(Snapshot, len(rows))
	for _, row := range rows {
		if row == nil || row.ServerID == "" {
			continue
		}
		next[row.ServerID] = *row
	}

	c.current.Store(&next)
	now := time.Now().UTC()
	c.lastRefresh.Store(&now)
	return nil
}

// Snapshot returns the current snapshot. It must not be modified.
func (c *Cache) Snapshot() Snapshot {
	return *c.current.Load()
}

// Get returns the configuration of a server.
func (c *Cache) Get(serverID string) (entities.TicketConfig, bool) {
	cfg, ok := c.Snapshot()[serverID]
	return cfg, ok
}

// LastRefresh returns when the cache was last refreshed successfully. It is zero before the first
// successful refresh.
func (c *Cache) LastRefresh() time.Time {
	t := c.lastRefresh.Load()
	if t == nil {
		return time.Time{}
	}
	return *t
}
