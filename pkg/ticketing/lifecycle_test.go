package ticketing

import (
	"context"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/Jacobbrewer1/ticketeer/pkg/entities"
	"github.com/Jacobbrewer1/ticketeer/pkg/guildconfig"
	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/require"
)

type configRows struct {
	mu   sync.Mutex
	rows []*entities.TicketConfig
}

func (c *configRows) set(rows ...*entities.TicketConfig) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rows = rows
}

func (c *configRows) GetAllConfigs(_ context.Context) ([]*entities.TicketConfig, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]*entities.TicketConfig, 0, len(c.rows))
	for _, r := range c.rows {
		cp := *r
		out = append(out, &cp)
	}
	return out, nil
}

func TestTicketLifecycle(t *testing.T) {
	ctx := context.Background()
	l := slog.Default()

	platform := newFakePlatform()
	platform.addChannel("G1", "C1", "tickets")
	platform.addChannel("G1", "L1", DefaultAuditChannelName)

	tickets := newFakeTickets()
	rows := new(configRows)
	mock := clock.NewMock()

	cache := guildconfig.NewCache(l, rows)
	manager := NewManager(l, cache, new(fakeConfigStore), tickets, platform, mock, Options{CloseGracePeriod: DefaultCloseGracePeriod})
	monitor := guildconfig.NewMonitor(l, cache, manager)
	ratings := NewRatingCollector(l, tickets, platform, mock, AuditOptions{})

	// G1 has ticketing turned off.
	rows.set(&entities.TicketConfig{ServerID: "G1"})
	require.Empty(t, monitor.Tick(ctx))
	require.Empty(t, platform.sentTo("C1"))

	// G1 turns ticketing on in C1.
	on := activeConfig("G1", "C1", "R1")
	rows.set(&on)
	require.Len(t, monitor.Tick(ctx), 1)
	require.Len(t, platform.sentTo("C1"), 1)

	// Nothing changed, nothing posted.
	require.Empty(t, monitor.Tick(ctx))
	require.Len(t, platform.sentTo("C1"), 1)

	// U1 picks a ticket type.
	opened, err := manager.Open(ctx, OpenRequest{GuildID: "G1", UserID: "U1", Username: "U1", Type: "apply_grinder"})
	require.NoError(t, err)
	ticket := opened.Ticket
	require.Equal(t, "G1-"+ticket.ChannelID, ticket.ID)

	channel, err := platform.GuildChannel("G1", ticket.ChannelID)
	require.NoError(t, err)
	require.Equal(t, "u1-apply_grinder-ticket", channel.Name)

	stored := tickets.get(ticket.ID)
	require.Equal(t, entities.TicketTypeGrinder, stored.Type)
	require.Equal(t, "U1", stored.UserID)
	require.Nil(t, stored.Rating)

	// Staff close it.
	closed, err := manager.Close(ctx, CloseRequest{TicketID: ticket.ID, GuildID: "G1", CloserID: "S1", CloserRoleIDs: []string{"R1"}})
	require.NoError(t, err)
	require.True(t, closed.OwnerNotified())

	mock.Add(DefaultCloseGracePeriod)
	require.Eventually(t, func() bool {
		return !platform.hasChannel(ticket.ChannelID)
	}, time.Second, 5*time.Millisecond)

	_, err = manager.Close(ctx, CloseRequest{TicketID: ticket.ID, GuildID: "G1", CloserID: "S1", CloserIsAdmin: true})
	require.ErrorIs(t, err, ErrTicketNotFound)

	dms := platform.dmsTo("U1")
	require.Len(t, dms, 1)
	require.Equal(t, []string{RateMenuID(ticket.ID)}, customIDs(dms[0]))

	// U1 rates it from their DMs.
	rated, err := ratings.Rate(ctx, RateRequest{TicketID: ticket.ID, Value: "4", UserID: "U1", UserTag: "u1"})
	require.NoError(t, err)
	require.True(t, rated.Recorded)
	require.Equal(t, 4, *tickets.get(ticket.ID).Rating)

	audit := platform.sentTo("L1")
	require.Len(t, audit, 1)
	require.Contains(t, audit[0].Embeds[0].Description, "**4 ⭐**")
}
