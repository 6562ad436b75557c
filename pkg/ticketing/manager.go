package ticketing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/Jacobbrewer1/ticketeer/pkg/custom"
	"github.com/Jacobbrewer1/ticketeer/pkg/dataaccess"
	"github.com/Jacobbrewer1/ticketeer/pkg/entities"
	"github.com/Jacobbrewer1/ticketeer/pkg/guildconfig"
	"github.com/Jacobbrewer1/ticketeer/pkg/logging"
	"github.com/Jacobbrewer1/ticketeer/pkg/messages"
	"github.com/benbjohnson/clock"
)

// DefaultCloseGracePeriod is how long a ticket channel stays after the ticket is closed.
const DefaultCloseGracePeriod = 5 * time.Second

// Options tune the ticket lifecycle.
type Options struct {
	// CloseGracePeriod is the delay between closing a ticket and deleting its channel.
	CloseGracePeriod time.Duration

	// NotifyOnOpen sends the user a direct message when their ticket is opened.
	NotifyOnOpen bool
}

// OpenRequest is a user asking for a new ticket.
type OpenRequest struct {
	GuildID  string
	UserID   string
	Username string
	Type     string
}

// OpenResult is the outcome of a successful Open.
type OpenResult struct {
	Ticket *entities.Ticket

	// WelcomeErr is set when the ticket was opened but the welcome message could not be posted.
	WelcomeErr error

	// NotifyErr is set when the opened notice could not be sent to the user.
	NotifyErr error
}

// CloseRequest is a user pressing the close button of a ticket.
type CloseRequest struct {
	TicketID string
	GuildID  string
	CloserID string

	// CloserRoleIDs are the roles of the closer in the ticket's server.
	CloserRoleIDs []string

	// CloserIsAdmin is true when the closer has the administrator permission.
	CloserIsAdmin bool
}

// CloseResult is the outcome of a successful Close.
type CloseResult struct {
	Ticket *entities.Ticket

	// NoticeErr is set when the closing notice could not be posted in the ticket channel.
	NoticeErr error

	// NotifyErr is set when the owner could not be sent the rating menu.
	NotifyErr error
}

// OwnerNotified reports whether the ticket owner received the rating menu.
func (r *CloseResult) OwnerNotified() bool {
	return r.NotifyErr == nil
}

// Manager opens and closes tickets and posts the ticket menu.
type Manager struct {
	l        *slog.Logger
	configs  ConfigSource
	store    ConfigStore
	tickets  TicketStore
	platform Platform
	clock    clock.Clock
	opts     Options
}

func NewManager(
	l *slog.Logger,
	configs ConfigSource,
	store ConfigStore,
	tickets TicketStore,
	platform Platform,
	clk clock.Clock,
	opts Options,
) *Manager {
	if opts.CloseGracePeriod < 0 {
		opts.CloseGracePeriod = 0
	}
	if clk == nil {
		clk = clock.New()
	}

	return &Manager{
		l:        l,
		configs:  configs,
		store:    store,
		tickets:  tickets,
		platform: platform,
		clock:    clk,
		opts:     opts,
	}
}

// Announce posts the ticket menu in the channel a server was activated on.
func (m *Manager) Announce(ctx context.Context, t guildconfig.Transition) error {
	cfg := t.Current
	l := m.l.With(
		slog.String(logging.KeyGuildID, t.ServerID),
		slog.String(logging.KeyChannelID, cfg.TicketChannelID),
	)

	if _, err := m.platform.GuildChannel(t.ServerID, cfg.TicketChannelID); errors.Is(err, ErrPlatformNotFound) {
		return fmt.Errorf("%w: %w", guildconfig.ErrTargetUnavailable, err)
	} else if err != nil {
		return fmt.Errorf("error getting ticket channel: %w", err)
	}

	// A menu posted before a restart is still in place.
	if cfg.HasIntakeMessageIn(cfg.TicketChannelID) {
		exists, err := m.platform.MessageExists(cfg.TicketChannelID, cfg.IntakeMessageID)
		if err != nil {
			return fmt.Errorf("error checking ticket menu message: %w", err)
		} else if exists {
			l.Debug("Ticket menu already posted", slog.String("message_id", cfg.IntakeMessageID))
			return nil
		}
	}

	msg, err := m.platform.SendMessage(cfg.TicketChannelID, IntakeMessage())
	if errors.Is(err, ErrPlatformNotFound) {
		return fmt.Errorf("%w: %w", guildconfig.ErrTargetUnavailable, err)
	} else if err != nil {
		return fmt.Errorf("error sending ticket menu: %w", err)
	}

	// The menu is up, failing to record it only risks a second menu after a restart.
	if err := m.store.SaveIntakeMessage(ctx, t.ServerID, cfg.TicketChannelID, msg.ID); err != nil {
		l.Warn("Error saving ticket menu message", slog.String(logging.KeyError, err.Error()))
	}

	l.Info("Ticket menu posted")
	return nil
}

// Open creates a private ticket channel for the user and records the ticket.
func (m *Manager) Open(ctx context.Context, req OpenRequest) (*OpenResult, error) {
	ticketType := entities.TicketType(req.Type)
	if !ticketType.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTicketType, req.Type)
	}

	cfg, ok := m.configs.Get(req.GuildID)
	if !ok || !cfg.Active() {
		return nil, ErrNotConfigured
	}

	// Check the user does not already have a ticket open.
	existing, err := m.tickets.GetOpenTicketByUser(ctx, req.GuildID, req.UserID)
	switch {
	case err == nil:
		return nil, &AlreadyOpenError{Ticket: existing}
	case !errors.Is(err, dataaccess.ErrNotFound):
		return nil, fmt.Errorf("error getting open ticket: %w", err)
	}

	channel, err := m.platform.CreateChannel(req.GuildID, discordgo.GuildChannelCreateData{
		Name:                 entities.TicketChannelName(req.Username, ticketType),
		Type:                 discordgo.ChannelTypeGuildText,
		Topic:                fmt.Sprintf("%s ticket for %s", ticketType.Label(), req.Username),
		PermissionOverwrites: TicketPermissionOverwrites(req.GuildID, req.UserID, cfg.AdminRoleID),
	})
	if err != nil {
		return nil, fmt.Errorf("error creating ticket channel: %w", err)
	}

	ticket := &entities.Ticket{
		ID:        entities.TicketID(req.GuildID, channel.ID),
		ChannelID: channel.ID,
		GuildID:   req.GuildID,
		UserID:    req.UserID,
		Username:  req.Username,
		Type:      ticketType,
		Status:    entities.TicketStatusOpen,
		CreatedAt: custom.Datetime(m.clock.Now().UTC()),
	}

	l := m.l.With(
		slog.String(logging.KeyGuildID, req.GuildID),
		slog.String(logging.KeyUserID, req.UserID),
		slog.String(logging.KeyTicketID, ticket.ID),
	)

	if err := m.tickets.CreateTicket(ctx, ticket); err != nil {
		// Nothing refers to the channel yet.
		if delErr := m.platform.DeleteChannel(channel.ID); delErr != nil {
			l.Error("Error deleting orphaned ticket channel", slog.String(logging.KeyError, delErr.Error()))
		}

		if errors.Is(err, dataaccess.ErrDuplicate) {
			existing, getErr := m.tickets.GetOpenTicketByUser(ctx, req.GuildID, req.UserID)
			if getErr != nil {
				existing = nil
			}
			return nil, &AlreadyOpenError{Ticket: existing}
		}
		return nil, fmt.Errorf("error saving ticket: %w", err)
	}

	ticketsOpened.WithLabelValues(string(ticketType)).Inc()
	l.Info("Ticket opened", slog.String("type", string(ticketType)))

	result := &OpenResult{Ticket: ticket}

	if _, err := m.platform.SendMessage(channel.ID, WelcomeMessage(ticket)); err != nil {
		result.WelcomeErr = err
		l.Warn("Error sending welcome message", slog.String(logging.KeyError, err.Error()))
	}

	if m.opts.NotifyOnOpen {
		if _, err := m.platform.SendDirectMessage(req.UserID, OpenedNotice(ticket)); err != nil {
			result.NotifyErr = err
			l.Debug("Error sending opened notice", slog.String(logging.KeyError, err.Error()))
		}
	}

	return result, nil
}

// Close closes an open ticket, removes its channel after the grace period and asks the owner
// for a rating.
func (m *Manager) Close(ctx context.Context, req CloseRequest) (*CloseResult, error) {
	ticket, err := m.tickets.GetOpenTicket(ctx, req.TicketID)
	if errors.Is(err, dataaccess.ErrNotFound) {
		return nil, ErrTicketNotFound
	} else if err != nil {
		return nil, fmt.Errorf("error getting ticket: %w", err)
	}

	if req.GuildID != "" && ticket.GuildID != req.GuildID {
		return nil, ErrTicketNotFound
	}

	if !m.canClose(ticket, req) {
		return nil, ErrNotPermitted
	}

	now := m.clock.Now().UTC()
	if err := m.tickets.CloseTicket(ctx, ticket.ID, req.CloserID, custom.Datetime(now)); errors.Is(err, dataaccess.ErrNotFound) {
		// Closed by someone else in the meantime.
		return nil, ErrTicketNotFound
	} else if err != nil {
		return nil, fmt.Errorf("error closing ticket: %w", err)
	}

	ticket.Status = entities.TicketStatusClosed
	ticket.ClosedBy = req.CloserID
	ticket.ClosedAt = custom.Datetime(now)

	l := m.l.With(
		slog.String(logging.KeyGuildID, ticket.GuildID),
		slog.String(logging.KeyTicketID, ticket.ID),
		slog.String(logging.KeyUserID, req.CloserID),
	)

	ticketsClosed.Inc()
	l.Info("Ticket closed")

	result := &CloseResult{Ticket: ticket}

	notice := &discordgo.MessageSend{
		Content:         fmt.Sprintf(messages.TicketClosing, req.CloserID),
		AllowedMentions: &discordgo.MessageAllowedMentions{},
	}
	if _, err := m.platform.SendMessage(ticket.ChannelID, notice); err != nil {
		result.NoticeErr = err
		l.Warn("Error sending closing notice", slog.String(logging.KeyError, err.Error()))
	}

	m.scheduleChannelDelete(l, ticket.ChannelID)

	if _, err := m.platform.SendDirectMessage(ticket.UserID, ClosedNotice(ticket.ID)); err != nil {
		result.NotifyErr = err
		l.Info("Could not send rating menu to ticket owner", slog.String(logging.KeyError, err.Error()))
	}

	return result, nil
}

func (m *Manager) canClose(ticket *entities.Ticket, req CloseRequest) bool {
	if req.CloserIsAdmin || req.CloserID == ticket.UserID {
		return true
	}

	cfg, ok := m.configs.Get(ticket.GuildID)
	if !ok || cfg.AdminRoleID == "" {
		return false
	}
	return slices.Contains(req.CloserRoleIDs, cfg.AdminRoleID)
}

func (m *Manager) scheduleChannelDelete(l *slog.Logger, channelID string) {
	m.clock.AfterFunc(m.opts.CloseGracePeriod, func() {
		err := m.platform.DeleteChannel(channelID)
		switch {
		case errors.Is(err, ErrPlatformNotFound):
			l.Debug("Ticket channel already deleted")
		case err != nil:
			channelDeleteFailures.Inc()
			l.Error("Error deleting ticket channel", slog.String(logging.KeyError, err.Error()))
		default:
			l.Debug("Ticket channel deleted")
		}
	})
}
