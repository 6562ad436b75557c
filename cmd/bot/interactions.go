package main

import (
	"context"
	"strings"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/Jacobbrewer1/ticketeer/pkg/ticketing"
)

// interactionProcessor handles one interaction and returns the private reply for the user.
type interactionProcessor func(ctx context.Context, a IApp, i *discordgo.InteractionCreate) (string, error)

type prefixRoute struct {
	prefix    string
	processor interactionProcessor
}

// interactionRoutes maps slash commands by name and components by custom ID. Components whose custom
// ID carries a ticket ID are matched by prefix.
type interactionRoutes struct {
	commands   map[string]interactionProcessor
	components map[string]interactionProcessor
	prefixes   []prefixRoute
}

func newInteractionRoutes() *interactionRoutes {
	return &interactionRoutes{
		commands: map[string]interactionProcessor{
			ticketingCmdName: ticketingCmdProcessor,
		},
		components: map[string]interactionProcessor{
			ticketing.SelectTicketTypeID: selectTicketTypeProcessor,
		},
		prefixes: []prefixRoute{
			{prefix: ticketing.CloseTicketPrefix, processor: closeTicketProcessor},
			{prefix: ticketing.RateTicketPrefix, processor: rateTicketProcessor},
		},
	}
}

// match finds the processor for an interaction. The returned route names it in logs and metrics.
func (r *interactionRoutes) match(i *discordgo.InteractionCreate) (string, interactionProcessor, bool) {
	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		name := i.ApplicationCommandData().Name
		p, ok := r.commands[name]
		return name, p, ok
	case discordgo.InteractionMessageComponent:
		customID := i.MessageComponentData().CustomID
		if p, ok := r.components[customID]; ok {
			return customID, p, true
		}
		for _, pr := range r.prefixes {
			if strings.HasPrefix(customID, pr.prefix) {
				return pr.prefix, pr.processor, true
			}
		}
	}
	return "", nil, false
}
