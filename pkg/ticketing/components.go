package ticketing

import (
	"fmt"
	"strings"
	"time"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/Jacobbrewer1/ticketeer/pkg/entities"
)

const (
	// SelectTicketTypeID is the custom ID of the ticket type menu.
	SelectTicketTypeID = "select_ticket_type"

	// CloseTicketPrefix prefixes the ticket ID in the custom ID of a close button.
	CloseTicketPrefix = "close_ticket_"

	// RateTicketPrefix prefixes the ticket ID in the custom ID of a rating menu.
	RateTicketPrefix = "rate_ticket_"
)

const (
	colourGreen = 0x00ff00
	colourBlue  = 0x0099ff

	footerIntake  = "Made by Brand Mine Gamer"
	footerWelcome = "Your satisfaction is our priority"
	footerClosed  = "Thank you for your feedback!"
)

var ratingLabels = [...]string{
	1: "⭐ Very Bad",
	2: "⭐⭐ Bad",
	3: "⭐⭐⭐ Average",
	4: "⭐⭐⭐⭐ Good",
	5: "⭐⭐⭐⭐⭐ Excellent",
}

// CloseButtonID is the custom ID of the close button of a ticket.
func CloseButtonID(ticketID string) string {
	return CloseTicketPrefix + ticketID
}

// RateMenuID is the custom ID of the rating menu of a ticket.
func RateMenuID(ticketID string) string {
	return RateTicketPrefix + ticketID
}

// TicketIDFromCustomID extracts the ticket ID from a custom ID built with prefix.
func TicketIDFromCustomID(customID, prefix string) (string, bool) {
	id, ok := strings.CutPrefix(customID, prefix)
	if !ok || id == "" {
		return "", false
	}
	return id, true
}

// IntakeMessage is the standing message with the ticket type menu.
func IntakeMessage() *discordgo.MessageSend {
	options := make([]discordgo.SelectMenuOption, 0, len(entities.TicketTypes))
	guidelines := new(strings.Builder)
	for _, t := range entities.TicketTypes {
		options = append(options, discordgo.SelectMenuOption{
			Label: t.Label(),
			Value: string(t),
		})
		fmt.Fprintf(guidelines, "\n- To %s, click on %s.", strings.ToLower(strings.SplitN(t.Label(), " ", 2)[1]), t.Label())
	}

	return &discordgo.MessageSend{
		Embeds: []*discordgo.MessageEmbed{
			{
				Author:      &discordgo.MessageEmbedAuthor{Name: "Ticket"},
				Description: "- Please click below to create a new ticket.\n\n**Ticket Guidelines:**" + guidelines.String(),
				Footer:      &discordgo.MessageEmbedFooter{Text: footerIntake},
				Color:       colourGreen,
				Timestamp:   time.Now().UTC().Format(time.RFC3339),
			},
		},
		Components: []discordgo.MessageComponent{
			discordgo.ActionsRow{
				Components: []discordgo.MessageComponent{
					discordgo.SelectMenu{
						CustomID:    SelectTicketTypeID,
						Placeholder: "Choose ticket type",
						Options:     options,
					},
				},
			},
		},
	}
}

// WelcomeMessage is the first message in a new ticket channel.
func WelcomeMessage(ticket *entities.Ticket) *discordgo.MessageSend {
	return &discordgo.MessageSend{
		Content: fmt.Sprintf("<@%s>", ticket.UserID),
		Embeds: []*discordgo.MessageEmbed{
			{
				Author: &discordgo.MessageEmbedAuthor{Name: "Support Ticket"},
				Description: fmt.Sprintf("Hello <@%s>, welcome to support!\n"+
					"- Please provide a detailed description of your issue.\n"+
					"- Our team will assist you shortly.", ticket.UserID),
				Footer:    &discordgo.MessageEmbedFooter{Text: footerWelcome},
				Color:     colourGreen,
				Timestamp: ticket.CreatedAt.Time().Format(time.RFC3339),
			},
		},
		Components: []discordgo.MessageComponent{
			discordgo.ActionsRow{
				Components: []discordgo.MessageComponent{
					discordgo.Button{
						Label:    "Close Ticket",
						Style:    discordgo.DangerButton,
						CustomID: CloseButtonID(ticket.ID),
					},
				},
			},
		},
		AllowedMentions: &discordgo.MessageAllowedMentions{
			Users: []string{ticket.UserID},
		},
	}
}

// OpenedNotice is sent to the user's DMs when their ticket is opened.
func OpenedNotice(ticket *entities.Ticket) *discordgo.MessageSend {
	return &discordgo.MessageSend{
		Embeds: []*discordgo.MessageEmbed{
			{
				Title:       "Ticket Opened",
				Description: fmt.Sprintf("Your %s ticket has been opened in <#%s>.", ticket.Type.Label(), ticket.ChannelID),
				Color:       colourGreen,
			},
		},
	}
}

// ClosedNotice is sent to the ticket owner's DMs with the rating menu.
func ClosedNotice(ticketID string) *discordgo.MessageSend {
	options := make([]discordgo.SelectMenuOption, 0, entities.MaxRating)
	for r := entities.MinRating; r <= entities.MaxRating; r++ {
		options = append(options, discordgo.SelectMenuOption{
			Label: ratingLabels[r],
			Value: fmt.Sprintf("%d", r),
		})
	}

	return &discordgo.MessageSend{
		Content: "Please rate your experience:",
		Embeds: []*discordgo.MessageEmbed{
			{
				Author:      &discordgo.MessageEmbedAuthor{Name: "Ticket Closed!"},
				Description: "- Your ticket has been closed. Thank you!",
				Footer:      &discordgo.MessageEmbedFooter{Text: footerClosed},
				Color:       colourBlue,
			},
		},
		Components: []discordgo.MessageComponent{
			discordgo.ActionsRow{
				Components: []discordgo.MessageComponent{
					discordgo.SelectMenu{
						CustomID:    RateMenuID(ticketID),
						Placeholder: "Rate your experience",
						Options:     options,
					},
				},
			},
		},
	}
}

// RatingAuditMessage is the audit log entry for a rating.
func RatingAuditMessage(userTag, ticketID string, rating int, at time.Time) *discordgo.MessageSend {
	return &discordgo.MessageSend{
		Embeds: []*discordgo.MessageEmbed{
			{
				Title:       "New Ticket Rating",
				Description: fmt.Sprintf("User **%s** rated ticket `%s`: **%d ⭐**", userTag, ticketID, rating),
				Color:       colourGreen,
				Timestamp:   at.UTC().Format(time.RFC3339),
			},
		},
	}
}

// TicketPermissionOverwrites hides the ticket channel from everyone but the user and the admin role.
func TicketPermissionOverwrites(guildID, userID, adminRoleID string) []*discordgo.PermissionOverwrite {
	const allow = discordgo.PermissionViewChannel |
		discordgo.PermissionSendMessages |
		discordgo.PermissionReadMessageHistory

	overwrites := []*discordgo.PermissionOverwrite{
		// The @everyone role shares the guild's ID.
		{
			ID:   guildID,
			Type: discordgo.PermissionOverwriteTypeRole,
			Deny: discordgo.PermissionViewChannel,
		},
		{
			ID:    userID,
			Type:  discordgo.PermissionOverwriteTypeMember,
			Allow: allow,
		},
	}

	if adminRoleID != "" {
		overwrites = append(overwrites, &discordgo.PermissionOverwrite{
			ID:    adminRoleID,
			Type:  discordgo.PermissionOverwriteTypeRole,
			Allow: allow,
		})
	}
	return overwrites
}
