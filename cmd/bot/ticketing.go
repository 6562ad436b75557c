package main

import (
	"context"
	"fmt"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/Jacobbrewer1/ticketeer/pkg/messages"
	"github.com/Jacobbrewer1/ticketeer/pkg/ticketing"
)

// selectTicketTypeProcessor opens a ticket of the type picked from the ticket menu.
func selectTicketTypeProcessor(ctx context.Context, a IApp, i *discordgo.InteractionCreate) (string, error) {
	if i.GuildID == "" {
		return "", ticketing.ErrNotConfigured
	}

	values := i.MessageComponentData().Values
	if len(values) == 0 {
		return "", ticketing.ErrUnknownTicketType
	}

	user := interactionUser(i)
	res, err := a.Tickets().Open(ctx, ticketing.OpenRequest{
		GuildID:  i.GuildID,
		UserID:   user.ID,
		Username: user.Username,
		Type:     values[0],
	})
	if err != nil {
		return "", fmt.Errorf("error opening ticket: %w", err)
	}

	return fmt.Sprintf(messages.TicketCreated, res.Ticket.ChannelID), nil
}

// closeTicketProcessor closes the ticket named by the close button.
func closeTicketProcessor(ctx context.Context, a IApp, i *discordgo.InteractionCreate) (string, error) {
	ticketID, ok := ticketing.TicketIDFromCustomID(i.MessageComponentData().CustomID, ticketing.CloseTicketPrefix)
	if !ok {
		return "", ticketing.ErrTicketNotFound
	}

	var roles []string
	if i.Member != nil {
		roles = i.Member.Roles
	}

	res, err := a.Tickets().Close(ctx, ticketing.CloseRequest{
		TicketID:      ticketID,
		GuildID:       i.GuildID,
		CloserID:      interactionUser(i).ID,
		CloserRoleIDs: roles,
		CloserIsAdmin: isAdministrator(i),
	})
	if err != nil {
		return "", fmt.Errorf("error closing ticket: %w", err)
	}

	if !res.OwnerNotified() {
		return messages.TicketClosedNotNotified, nil
	}
	return messages.TicketClosed, nil
}

// rateTicketProcessor records the rating picked from the rating menu.
func rateTicketProcessor(ctx context.Context, a IApp, i *discordgo.InteractionCreate) (string, error) {
	data := i.MessageComponentData()

	ticketID, ok := ticketing.TicketIDFromCustomID(data.CustomID, ticketing.RateTicketPrefix)
	if !ok {
		return "", ticketing.ErrTicketNotFound
	}
	if len(data.Values) == 0 {
		return "", ticketing.ErrInvalidRating
	}

	user := interactionUser(i)
	res, err := a.Ratings().Rate(ctx, ticketing.RateRequest{
		TicketID: ticketID,
		Value:    data.Values[0],
		UserID:   user.ID,
		UserTag:  user.String(),
		GuildID:  i.GuildID,
	})
	if err != nil {
		return "", fmt.Errorf("error rating ticket: %w", err)
	}

	return fmt.Sprintf(messages.RatingThanks, res.Rating), nil
}
