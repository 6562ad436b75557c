package guildconfig

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"sync"

	"github.com/Jacobbrewer1/ticketeer/pkg/entities"
	"github.com/Jacobbrewer1/ticketeer/pkg/logging"
)

// ErrTargetUnavailable is returned by an Announcer when the server or channel cannot be reached
// through the live connection. The transition is dropped without a retry.
var ErrTargetUnavailable = errors.New("announcement target unavailable")

// Transition is a server whose ticket intake has to be (re)activated.
type Transition struct {
	// ServerID is the server whose configuration changed.
	ServerID string

	// Previous is the configuration before the change. Nil if the server had none.
	Previous *entities.TicketConfig

	// Current is the new configuration.
	Current entities.TicketConfig
}

// Announcer posts the ticket menu for a transition.
type Announcer interface {
	Announce(ctx context.Context, t Transition) error
}

// Detect lists the servers in cur whose ticket intake should be activated compared to prev: the
// server is enabled, has a ticket channel, and either had no previous entry or a different ticket
// channel. Transitions are ordered by server ID.
func Detect(prev, cur Snapshot) []Transition {
	ids := make([]string, 0, len(cur))
	for id := range cur {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	transitions := make([]Transition, 0)
	for _, id := range ids {
		settings := cur[id]
		if !settings.Active() {
			continue
		}

		previous, existed := prev[id]
		if existed && previous.TicketChannelID == settings.TicketChannelID {
			continue
		}

		t := Transition{
			ServerID: id,
			Current:  settings,
		}
		if existed {
			p := previous
			t.Previous = &p
		}
		transitions = append(transitions, t)
	}
	return transitions
}

// Monitor refreshes the cache and announces activations.
type Monitor struct {
	l         *slog.Logger
	cache     *Cache
	announcer Announcer

	mu       sync.Mutex
	previous Snapshot
}

// NewMonitor creates a monitor. The previous snapshot starts empty, so every active server is
// announced on the first tick; the announcer is expected to skip servers whose menu still exists.
func NewMonitor(l *slog.Logger, cache *Cache, announcer Announcer) *Monitor {
	return &Monitor{
		l:         l.With(slog.String("component", "config_monitor")),
		cache:     cache,
		announcer: announcer,
		previous:  make(Snapshot),
	}
}

// Tick refreshes the cache and announces every transition since the previous tick. It returns the
// transitions that were announced.
func (m *Monitor) Tick(ctx context.Context) []Transition {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.cache.Refresh(ctx); err != nil {
		configRefreshFailures.Inc()
		return nil
	}

	cur := m.cache.Snapshot()
	if cur.Equal(m.previous) {
		return nil
	}

	// Servers that did not transition simply take their current entry.
	next := make(Snapshot, len(cur))
	for id, settings := range cur {
		next[id] = settings
	}

	announced := make([]Transition, 0)
	for _, t := range Detect(m.previous, cur) {
		l := m.l.With(
			slog.String(logging.KeyGuildID, t.ServerID),
			slog.String(logging.KeyChannelID, t.Current.TicketChannelID),
		)

		err := m.announcer.Announce(ctx, t)
		switch {
		case err == nil:
			intakeAnnouncements.WithLabelValues("posted").Inc()
			announced = append(announced, t)
			l.Info("Ticket intake activated")
		case errors.Is(err, ErrTargetUnavailable):
			intakeAnnouncements.WithLabelValues("skipped").Inc()
			l.Debug("Ticket intake target unavailable, skipping", slog.String(logging.KeyError, err.Error()))
		default:
			// Keep the old entry so that the next tick retries this server.
			intakeAnnouncements.WithLabelValues("failed").Inc()
			l.Error("Error announcing ticket intake", slog.String(logging.KeyError, err.Error()))
			if t.Previous != nil {
				next[t.ServerID] = *t.Previous
			} else {
				delete(next, t.ServerID)
			}
		}
	}

	m.previous = next
	return announced
}
