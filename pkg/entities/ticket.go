package entities

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/Jacobbrewer1/ticketeer/pkg/custom"
)

// TicketType is the category a user picks when opening a ticket.
type TicketType string

const (
	// TicketTypePvper is an application to join as a PVPer.
	TicketTypePvper TicketType = "apply_as_pvper"

	// TicketTypeGrinder is an application to join as a grinder.
	TicketTypeGrinder TicketType = "apply_grinder"
)

// TicketTypes is every ticket type in the order they are offered.
var TicketTypes = []TicketType{
	TicketTypePvper,
	TicketTypeGrinder,
}

// Valid reports whether t is a known ticket type.
func (t TicketType) Valid() bool {
	for _, tt := range TicketTypes {
		if t == tt {
			return true
		}
	}
	return false
}

// Label is the menu label for the ticket type.
func (t TicketType) Label() string {
	switch t {
	case TicketTypePvper:
		return "⚔️ Apply as PVPER"
	case TicketTypeGrinder:
		return "⛏️ Apply as Grinder"
	default:
		return string(t)
	}
}

// TicketStatus is where a ticket is in its lifecycle.
type TicketStatus string

const (
	// TicketStatusOpen is a ticket with a live channel.
	TicketStatusOpen TicketStatus = "open"

	// TicketStatusClosed is a ticket whose channel has been removed. The record is kept so that the
	// owner can still rate it.
	TicketStatusClosed TicketStatus = "closed"
)

const (
	// MinRating is the lowest rating a user can give.
	MinRating = 1

	// MaxRating is the highest rating a user can give.
	MaxRating = 5
)

// Ticket is a ticket.
type Ticket struct {
	// ID is the guild ID and channel ID joined with a dash. It is unique.
	ID string `json:"id" bson:"id"`

	// ChannelID is the ID of the private channel created for the ticket.
	ChannelID string `json:"channelId" bson:"channelId"`

	// GuildID is the ID of the guild that the ticket is in.
	GuildID string `json:"guildId" bson:"guildId"`

	// UserID is the ID of the user that opened the ticket.
	UserID string `json:"userId" bson:"userId"`

	// Username is the username of the user that opened the ticket.
	Username string `json:"username,omitempty" bson:"username,omitempty"`

	// Type is the category the user selected.
	Type TicketType `json:"type" bson:"type"`

	// Status is open until the ticket is closed.
	Status TicketStatus `json:"status" bson:"status"`

	// Rating is the 1-5 score the user gave after the ticket was closed.
	Rating *int `json:"rating,omitempty" bson:"rating,omitempty"`

	// ClosedBy is the ID of the user that closed the ticket.
	ClosedBy string `json:"closedBy,omitempty" bson:"closedBy,omitempty"`

	// CreatedAt is the time that the ticket was created.
	CreatedAt custom.Datetime `json:"createdAt" bson:"createdAt,omitempty"`

	// ClosedAt is the time that the ticket was closed.
	ClosedAt custom.Datetime `json:"closedAt,omitempty" bson:"closedAt,omitempty"`

	// RatedAt is the time that the ticket was rated.
	RatedAt custom.Datetime `json:"ratedAt,omitempty" bson:"ratedAt,omitempty"`
}

// TicketID builds the ID of the ticket whose channel is channelID.
func TicketID(guildID, channelID string) string {
	return guildID + "-" + channelID
}

var channelNameInvalid = regexp.MustCompile(`[^a-z0-9_-]+`)

// TicketChannelName builds the name of the channel for a new ticket, for example
// "wolf-apply_grinder-ticket". Discord channel names are lower case without spaces.
func TicketChannelName(username string, t TicketType) string {
	name := strings.ToLower(strings.TrimSpace(username))
	name = channelNameInvalid.ReplaceAllString(name, "-")
	name = strings.Trim(name, "-")
	if name == "" {
		name = "user"
	}
	return fmt.Sprintf("%s-%s-ticket", name, t)
}

// IsOpen reports whether the ticket has not been closed.
func (t *Ticket) IsOpen() bool {
	return t != nil && t.Status == TicketStatusOpen
}
