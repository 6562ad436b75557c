package guildconfig

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/Jacobbrewer1/ticketeer/pkg/custom"
	"github.com/Jacobbrewer1/ticketeer/pkg/entities"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	mu   sync.Mutex
	rows []*entities.TicketConfig
	err  error
}

func (f *fakeSource) set(rows ...*entities.TicketConfig) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rows = rows
	f.err = nil
}

func (f *fakeSource) fail(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
}

func (f *fakeSource) GetAllConfigs(_ context.Context) ([]*entities.TicketConfig, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	out := make([]*entities.TicketConfig, 0, len(f.rows))
	for _, r := range f.rows {
		c := *r
		out = append(out, &c)
	}
	return out, nil
}

type fakeAnnouncer struct {
	mu    sync.Mutex
	calls []Transition
	errs  map[string]error
}

func (f *fakeAnnouncer) Announce(_ context.Context, t Transition) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, t)
	return f.errs[t.ServerID]
}

func (f *fakeAnnouncer) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func cfg(server, channel string, enabled bool) *entities.TicketConfig {
	return &entities.TicketConfig{
		ServerID:        server,
		TicketChannelID: channel,
		AdminRoleID:     "R-" + server,
		Status:          custom.Flag(enabled),
	}
}

func TestCache_Refresh(t *testing.T) {
	src := &fakeSource{}
	c := NewCache(slog.Default(), src)

	require.Empty(t, c.Snapshot())
	require.True(t, c.LastRefresh().IsZero())

	src.set(cfg("G1", "C1", true), cfg("G2", "", false), &entities.TicketConfig{})
	require.NoError(t, c.Refresh(context.Background()))

	snap := c.Snapshot()
	require.Len(t, snap, 2, "rows without a server ID are skipped")
	got, ok := c.Get("G1")
	require.True(t, ok)
	require.Equal(t, "C1", got.TicketChannelID)
	require.False(t, c.LastRefresh().IsZero())

	// The store going away keeps the stale snapshot.
	src.fail(errors.New("connection refused"))
	require.Error(t, c.Refresh(context.Background()))
	require.Equal(t, snap, c.Snapshot())

	// Rows are replaced, not merged.
	src.set(cfg("G3", "C3", true))
	require.NoError(t, c.Refresh(context.Background()))
	_, ok = c.Get("G1")
	require.False(t, ok)
	_, ok = c.Get("G3")
	require.True(t, ok)

	// Snapshots already handed out are not changed by a refresh.
	require.Len(t, snap, 2)
}

func TestDetect(t *testing.T) {
	tests := []struct {
		name string
		prev Snapshot
		cur  Snapshot
		want []string
	}{
		{
			name: "new enabled server",
			prev: Snapshot{},
			cur:  Snapshot{"G1": *cfg("G1", "C1", true)},
			want: []string{"G1"},
		},
		{
			name: "disabled server",
			prev: Snapshot{},
			cur:  Snapshot{"G1": *cfg("G1", "C1", false)},
			want: []string{},
		},
		{
			name: "enabled without channel",
			prev: Snapshot{},
			cur:  Snapshot{"G1": *cfg("G1", "", true)},
			want: []string{},
		},
		{
			name: "unchanged",
			prev: Snapshot{"G1": *cfg("G1", "C1", true)},
			cur:  Snapshot{"G1": *cfg("G1", "C1", true)},
			want: []string{},
		},
		{
			name: "channel moved",
			prev: Snapshot{"G1": *cfg("G1", "C1", true)},
			cur:  Snapshot{"G1": *cfg("G1", "C2", true)},
			want: []string{"G1"},
		},
		{
			name: "role changed only",
			prev: Snapshot{"G1": *cfg("G1", "C1", true)},
			cur: Snapshot{"G1": func() entities.TicketConfig {
				c := *cfg("G1", "C1", true)
				c.AdminRoleID = "R9"
				return c
			}()},
			want: []string{},
		},
		{
			name: "re-enabled on the same channel",
			prev: Snapshot{"G1": *cfg("G1", "C1", false)},
			cur:  Snapshot{"G1": *cfg("G1", "C1", true)},
			want: []string{},
		},
		{
			name: "several servers sorted",
			prev: Snapshot{},
			cur: Snapshot{
				"G3": *cfg("G3", "C3", true),
				"G1": *cfg("G1", "C1", true),
				"G2": *cfg("G2", "C2", false),
			},
			want: []string{"G1", "G3"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Detect(tt.prev, tt.cur)
			ids := make([]string, 0, len(got))
			for _, tr := range got {
				ids = append(ids, tr.ServerID)
			}
			require.Equal(t, tt.want, ids)
		})
	}
}

func TestDetect_Previous(t *testing.T) {
	got := Detect(
		Snapshot{"G1": *cfg("G1", "C1", true)},
		Snapshot{"G1": *cfg("G1", "C2", true), "G2": *cfg("G2", "C9", true)},
	)
	require.Len(t, got, 2)
	require.NotNil(t, got[0].Previous)
	require.Equal(t, "C1", got[0].Previous.TicketChannelID)
	require.Equal(t, "C2", got[0].Current.TicketChannelID)
	require.Nil(t, got[1].Previous)
}

func TestMonitor_AnnouncesOncePerActivation(t *testing.T) {
	src := &fakeSource{}
	ann := &fakeAnnouncer{}
	m := NewMonitor(slog.Default(), NewCache(slog.Default(), src), ann)
	ctx := context.Background()

	// No config at all.
	require.Empty(t, m.Tick(ctx))

	// Loaded but disabled.
	src.set(cfg("G1", "", false))
	require.Empty(t, m.Tick(ctx))
	require.Equal(t, 0, ann.count())

	// Enabled with a channel.
	src.set(cfg("G1", "C1", true))
	got := m.Tick(ctx)
	require.Len(t, got, 1)
	require.Equal(t, "C1", got[0].Current.TicketChannelID)
	require.Equal(t, 1, ann.count())

	// Nothing changed since.
	for i := 0; i < 3; i++ {
		require.Empty(t, m.Tick(ctx))
	}
	require.Equal(t, 1, ann.count())

	// Channel reconfigured.
	src.set(cfg("G1", "C2", true))
	require.Len(t, m.Tick(ctx), 1)
	require.Equal(t, 2, ann.count())
}

func TestMonitor_IndependentServersInOneTick(t *testing.T) {
	src := &fakeSource{}
	ann := &fakeAnnouncer{}
	m := NewMonitor(slog.Default(), NewCache(slog.Default(), src), ann)

	src.set(cfg("G1", "C1", true), cfg("G2", "C2", true), cfg("G3", "C3", true))
	require.Len(t, m.Tick(context.Background()), 3)
	require.Len(t, m.Tick(context.Background()), 0)
	require.Equal(t, 3, ann.count())
}

func TestMonitor_Failures(t *testing.T) {
	src := &fakeSource{}
	ann := &fakeAnnouncer{errs: map[string]error{
		"G1": fmt.Errorf("guild not in state: %w", ErrTargetUnavailable),
		"G2": errors.New("discord 500"),
	}}
	m := NewMonitor(slog.Default(), NewCache(slog.Default(), src), ann)
	ctx := context.Background()

	src.set(cfg("G1", "C1", true), cfg("G2", "C2", true))
	require.Empty(t, m.Tick(ctx))
	require.Equal(t, 2, ann.count())

	// G1 is not retried, G2 is.
	require.Empty(t, m.Tick(ctx))
	require.Equal(t, 3, ann.count())
	require.Equal(t, "G2", ann.calls[2].ServerID)

	ann.mu.Lock()
	delete(ann.errs, "G2")
	ann.mu.Unlock()

	require.Len(t, m.Tick(ctx), 1)
	require.Empty(t, m.Tick(ctx))
	require.Equal(t, 4, ann.count())
}

func TestMonitor_StoreUnavailable(t *testing.T) {
	src := &fakeSource{}
	ann := &fakeAnnouncer{}
	cache := NewCache(slog.Default(), src)
	m := NewMonitor(slog.Default(), cache, ann)
	ctx := context.Background()

	src.set(cfg("G1", "C1", true))
	require.Len(t, m.Tick(ctx), 1)

	src.fail(errors.New("timeout"))
	require.Empty(t, m.Tick(ctx))

	_, ok := cache.Get("G1")
	require.True(t, ok, "stale configuration stays available")
}

func TestPoller_StartTicksImmediately(t *testing.T) {
	src := &fakeSource{}
	ann := &fakeAnnouncer{}
	src.set(cfg("G1", "C1", true))

	p := NewPoller(slog.Default(), NewMonitor(slog.Default(), NewCache(slog.Default(), src), ann), time.Hour)
	require.NoError(t, p.Start(context.Background()))
	defer p.Stop()

	require.Equal(t, 1, ann.count())
}
