package ticketing

import (
	"context"
	"errors"
	"fmt"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/Jacobbrewer1/ticketeer/pkg/custom"
	"github.com/Jacobbrewer1/ticketeer/pkg/entities"
)

var (
	// ErrNotConfigured is returned when the server has no active ticket configuration.
	ErrNotConfigured = errors.New("ticketing is not configured for this server")

	// ErrUnknownTicketType is returned when the selected ticket type is not offered.
	ErrUnknownTicketType = errors.New("unknown ticket type")

	// ErrAlreadyOpen is returned when the user already has an open ticket in the server.
	ErrAlreadyOpen = errors.New("user already has an open ticket")

	// ErrTicketNotFound is returned when there is no open ticket with the given ID.
	ErrTicketNotFound = errors.New("ticket not found")

	// ErrNotPermitted is returned when the user may not close the ticket.
	ErrNotPermitted = errors.New("not permitted to close ticket")

	// ErrInvalidRating is returned when a rating is not a whole number from 1 to 5.
	ErrInvalidRating = errors.New("invalid rating")

	// ErrPlatformNotFound is returned by a Platform when a guild, channel, message or user does not
	// exist or cannot be seen by the bot.
	ErrPlatformNotFound = errors.New("not found on platform")
)

// AlreadyOpenError is returned when a user with an open ticket tries to open another one.
type AlreadyOpenError struct {
	// Ticket is the open ticket. It can be nil when the ticket was opened concurrently.
	Ticket *entities.Ticket
}

func (e *AlreadyOpenError) Error() string {
	if e.Ticket == nil {
		return ErrAlreadyOpen.Error()
	}
	return fmt.Sprintf("%s: %s", ErrAlreadyOpen, e.Ticket.ID)
}

func (e *AlreadyOpenError) Is(target error) bool {
	return target == ErrAlreadyOpen
}

// Platform is the chat platform the tickets live on.
type Platform interface {
	// GuildChannel returns a channel of a guild the bot is connected to.
	GuildChannel(guildID, channelID string) (*discordgo.Channel, error)

	// GuildChannelByName returns the first text channel with the given name in a guild.
	GuildChannelByName(guildID, name string) (*discordgo.Channel, error)

	// CreateChannel creates a text channel in a guild.
	CreateChannel(guildID string, data discordgo.GuildChannelCreateData) (*discordgo.Channel, error)

	// DeleteChannel deletes a channel.
	DeleteChannel(channelID string) error

	// MessageExists reports whether a message is still in a channel.
	MessageExists(channelID, messageID string) (bool, error)

	// SendMessage sends a message to a channel.
	SendMessage(channelID string, msg *discordgo.MessageSend) (*discordgo.Message, error)

	// SendDirectMessage sends a message to a user's DM channel.
	SendDirectMessage(userID string, msg *discordgo.MessageSend) (*discordgo.Message, error)
}

// ConfigSource provides the current ticket configuration of a server.
type ConfigSource interface {
	Get(serverID string) (entities.TicketConfig, bool)
}

// ConfigStore records the ticket menu message posted for a server.
type ConfigStore interface {
	SaveIntakeMessage(ctx context.Context, serverID, channelID, messageID string) error
}

// TicketStore persists tickets.
type TicketStore interface {
	CreateTicket(ctx context.Context, ticket *entities.Ticket) error
	GetTicket(ctx context.Context, id string) (*entities.Ticket, error)
	GetOpenTicket(ctx context.Context, id string) (*entities.Ticket, error)
	GetOpenTicketByUser(ctx context.Context, guildID, userID string) (*entities.Ticket, error)
	CloseTicket(ctx context.Context, id, closedBy string, at custom.Datetime) error
	SetRating(ctx context.Context, id string, rating int, at custom.Datetime) (bool, error)
}
