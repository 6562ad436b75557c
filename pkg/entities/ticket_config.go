package entities

import "github.com/Jacobbrewer1/ticketeer/pkg/custom"

// TicketConfig is the ticket configuration for a single server.
type TicketConfig struct {
	// ServerID is the ID of the guild that the configuration belongs to. It is unique.
	ServerID string `json:"serverId" bson:"serverId"`

	// TicketChannelID is the channel that the ticket menu is posted in.
	TicketChannelID string `json:"ticketChannelId" bson:"ticketChannelId"`

	// AdminRoleID is the role that can see and close tickets.
	AdminRoleID string `json:"adminRoleId" bson:"adminRoleId"`

	// Status is whether ticketing is enabled.
	Status custom.Flag `json:"status" bson:"status"`

	// IntakeChannelID is the channel the bot last posted the ticket menu in.
	IntakeChannelID string `json:"intakeChannelId,omitempty" bson:"intakeChannelId,omitempty"`

	// IntakeMessageID is the ID of the ticket menu message the bot last posted.
	IntakeMessageID string `json:"intakeMessageId,omitempty" bson:"intakeMessageId,omitempty"`
}

// Active reports whether tickets can be opened with this configuration.
func (c *TicketConfig) Active() bool {
	return c != nil && c.Status.Enabled() && c.TicketChannelID != ""
}

// HasIntakeMessageIn reports whether a ticket menu is recorded as posted in the given channel.
func (c *TicketConfig) HasIntakeMessageIn(channelID string) bool {
	return c != nil && c.IntakeMessageID != "" && c.IntakeChannelID == channelID
}
