package ticketing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/Jacobbrewer1/ticketeer/pkg/custom"
	"github.com/Jacobbrewer1/ticketeer/pkg/dataaccess"
	"github.com/Jacobbrewer1/ticketeer/pkg/entities"
	"github.com/Jacobbrewer1/ticketeer/pkg/logging"
	"github.com/benbjohnson/clock"
)

// DefaultAuditChannelName is the channel ratings are logged to when no audit channel ID is set.
const DefaultAuditChannelName = "ticket-logs"

// ErrAuditChannelUnresolved is returned when no audit channel could be found for a rating.
var ErrAuditChannelUnresolved = errors.New("audit channel could not be resolved")

// AuditOptions say where ratings are logged.
type AuditOptions struct {
	// ChannelID is a fixed audit channel. It takes precedence over ChannelName.
	ChannelID string

	// ChannelName is looked up in the server the ticket belongs to.
	ChannelName string
}

// RateRequest is a user picking a rating from the rating menu.
type RateRequest struct {
	TicketID string
	Value    string
	UserID   string

	// UserTag is how the user is shown in the audit log.
	UserTag string

	// GuildID is the server the menu was used in. It is empty for menus in direct messages.
	GuildID string
}

// RateResult is the outcome of a valid rating.
type RateResult struct {
	Rating int

	// Recorded is false when no ticket record matched the ticket ID.
	Recorded bool

	// AuditErr is set when the audit log entry could not be written.
	AuditErr error
}

// RatingCollector records ratings and logs them to the audit channel.
type RatingCollector struct {
	l        *slog.Logger
	tickets  TicketStore
	platform Platform
	clock    clock.Clock
	audit    AuditOptions
}

func NewRatingCollector(l *slog.Logger, tickets TicketStore, platform Platform, clk clock.Clock, audit AuditOptions) *RatingCollector {
	if audit.ChannelName == "" {
		audit.ChannelName = DefaultAuditChannelName
	}
	if clk == nil {
		clk = clock.New()
	}

	return &RatingCollector{
		l:        l,
		tickets:  tickets,
		platform: platform,
		clock:    clk,
		audit:    audit,
	}
}

// ParseRating parses a rating menu value.
func ParseRating(value string) (int, error) {
	rating, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || rating < entities.MinRating || rating > entities.MaxRating {
		return 0, fmt.Errorf("%w: %q", ErrInvalidRating, value)
	}
	return rating, nil
}

// Rate stores the rating against the ticket and writes it to the audit channel.
func (r *RatingCollector) Rate(ctx context.Context, req RateRequest) (*RateResult, error) {
	rating, err := ParseRating(req.Value)
	if err != nil {
		return nil, err
	}

	l := r.l.With(
		slog.String(logging.KeyTicketID, req.TicketID),
		slog.String(logging.KeyUserID, req.UserID),
	)

	now := r.clock.Now().UTC()
	matched, err := r.tickets.SetRating(ctx, req.TicketID, rating, custom.Datetime(now))
	if err != nil {
		return nil, fmt.Errorf("error saving rating: %w", err)
	}
	if !matched {
		l.Warn("Rating received for unknown ticket", slog.Int("rating", rating))
	}

	ratingsReceived.WithLabelValues(strconv.Itoa(rating)).Inc()
	l.Info("Ticket rated", slog.Int("rating", rating))

	result := &RateResult{
		Rating:   rating,
		Recorded: matched,
	}

	if err := r.writeAudit(ctx, req, rating); err != nil {
		result.AuditErr = err
		auditFailures.Inc()
		l.Warn("Error writing rating to audit channel", slog.String(logging.KeyError, err.Error()))
	}

	return result, nil
}

func (r *RatingCollector) writeAudit(ctx context.Context, req RateRequest, rating int) error {
	channelID, err := r.auditChannel(ctx, req)
	if err != nil {
		return err
	}

	userTag := req.UserTag
	if userTag == "" {
		userTag = fmt.Sprintf("<@%s>", req.UserID)
	}

	if _, err := r.platform.SendMessage(channelID, RatingAuditMessage(userTag, req.TicketID, rating, r.clock.Now())); err != nil {
		return fmt.Errorf("error sending audit message: %w", err)
	}
	return nil
}

func (r *RatingCollector) auditChannel(ctx context.Context, req RateRequest) (string, error) {
	if r.audit.ChannelID != "" {
		return r.audit.ChannelID, nil
	}

	// Rating menus are sent in direct messages, so the server comes from the ticket.
	guildID := req.GuildID
	if guildID == "" {
		ticket, err := r.tickets.GetTicket(ctx, req.TicketID)
		if errors.Is(err, dataaccess.ErrNotFound) {
			return "", fmt.Errorf("%w: ticket %s not found", ErrAuditChannelUnresolved, req.TicketID)
		} else if err != nil {
			return "", fmt.Errorf("error getting ticket: %w", err)
		}
		guildID = ticket.GuildID
	}

	channel, err := r.platform.GuildChannelByName(guildID, r.audit.ChannelName)
	if errors.Is(err, ErrPlatformNotFound) {
		return "", fmt.Errorf("%w: no channel named %q in guild %s", ErrAuditChannelUnresolved, r.audit.ChannelName, guildID)
	} else if err != nil {
		return "", fmt.Errorf("error finding audit channel: %w", err)
	}
	return channel.ID, nil
}
