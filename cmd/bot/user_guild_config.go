package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/Jacobbrewer1/ticketeer/pkg/custom"
	"github.com/Jacobbrewer1/ticketeer/pkg/entities"
	"github.com/Jacobbrewer1/ticketeer/pkg/messages"
)

const (
	// ticketingCmdName is the command for all ticketing configuration commands.
	ticketingCmdName = "ticketing"

	// enableTicketingCmdName is the sub command that turns ticketing on.
	enableTicketingCmdName = "enable"

	// disableTicketingCmdName is the sub command that turns ticketing off.
	disableTicketingCmdName = "disable"

	// channelCmdName is the text for the channel option.
	channelCmdName = "channel"

	// roleCmdName is the text for the role option.
	roleCmdName = "role"
)

var (
	errNotAdministrator    = errors.New("user is not an administrator")
	errTextChannelRequired = errors.New("ticket channel must be a text channel")
)

var (
	administratorPermission int64 = discordgo.PermissionAdministrator

	// ticketingCmd is the command for all ticketing configuration commands.
	ticketingCmd = &discordgo.ApplicationCommand{
		Name:                     ticketingCmdName,
		Type:                     discordgo.ChatApplicationCommand,
		Description:              "Configure tickets for this server.",
		DefaultMemberPermissions: &administratorPermission,
		Options: []*discordgo.ApplicationCommandOption{
			{
				Name:        enableTicketingCmdName,
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Description: "Post the ticket menu in a channel and let users open tickets.",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Name:         channelCmdName,
						Type:         discordgo.ApplicationCommandOptionChannel,
						Description:  "The channel to post the ticket menu in.",
						ChannelTypes: []discordgo.ChannelType{discordgo.ChannelTypeGuildText},
						Required:     true,
					},
					{
						Name:        roleCmdName,
						Type:        discordgo.ApplicationCommandOptionRole,
						Description: "The role that handles tickets.",
						Required:    true,
					},
				},
			},
			{
				Name:        disableTicketingCmdName,
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Description: "Stop users opening new tickets.",
			},
		},
	}
)

// ticketingCmdProcessor writes the ticket configuration of the server. The config poller picks the
// change up and posts the ticket menu.
func ticketingCmdProcessor(ctx context.Context, a IApp, i *discordgo.InteractionCreate) (string, error) {
	// Ensure the user is an administrator.
	if !isAdministrator(i) {
		return "", errNotAdministrator
	}

	data := i.ApplicationCommandData()
	if len(data.Options) == 0 {
		return "", fmt.Errorf("no sub command given")
	}

	switch sub := data.Options[0]; sub.Name {
	case enableTicketingCmdName:
		return enableTicketing(ctx, a, i, sub.Options)
	case disableTicketingCmdName:
		return disableTicketing(ctx, a, i)
	default:
		return "", fmt.Errorf("unhandled sub command %s", sub.Name)
	}
}

func enableTicketing(ctx context.Context, a IApp, i *discordgo.InteractionCreate, opts []*discordgo.ApplicationCommandInteractionDataOption) (string, error) {
	var channelID, roleID string
	for _, o := range opts {
		id, _ := o.Value.(string)
		switch o.Name {
		case channelCmdName:
			channelID = id
		case roleCmdName:
			roleID = id
		}
	}
	if channelID == "" || roleID == "" {
		return "", fmt.Errorf("missing channel or role option")
	}

	// Ensure the channel is a text channel.
	if resolved := i.ApplicationCommandData().Resolved; resolved != nil {
		if ch, ok := resolved.Channels[channelID]; ok && ch.Type != discordgo.ChannelTypeGuildText {
			return "", errTextChannelRequired
		}
	}

	err := a.ConfigDal().SaveConfig(ctx, &entities.TicketConfig{
		ServerID:        i.GuildID,
		TicketChannelID: channelID,
		AdminRoleID:     roleID,
		Status:          custom.Flag(true),
	})
	if err != nil {
		return "", fmt.Errorf("error saving ticket config: %w", err)
	}

	return fmt.Sprintf(messages.TicketingEnabled, channelID), nil
}

func disableTicketing(ctx context.Context, a IApp, i *discordgo.InteractionCreate) (string, error) {
	if err := a.ConfigDal().SetStatus(ctx, i.GuildID, false); err != nil {
		return "", fmt.Errorf("error disabling ticketing: %w", err)
	}
	return messages.TicketingDisabled, nil
}
