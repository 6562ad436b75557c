package main

import (
	"fmt"
	"log/slog"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/Jacobbrewer1/ticketeer/pkg/logging"
)

func guildJoinedHandler(a IApp, applicationID string) func(s *discordgo.Session, g *discordgo.GuildCreate) {
	return func(s *discordgo.Session, g *discordgo.GuildCreate) {
		a.Log().Info(fmt.Sprintf("Joined guild %s", g.Name), slog.String(logging.KeyGuildID, g.ID))

		// Increment the total number of guilds.
		TotalDiscordGuilds.Inc()

		// Creating a command with an existing name overwrites it.
		if _, err := s.ApplicationCommandCreate(applicationID, g.ID, ticketingCmd); err != nil {
			a.Log().Error("Error registering ticketing command",
				slog.String(logging.KeyGuildID, g.ID),
				slog.String(logging.KeyError, err.Error()),
			)
		}
	}
}

func guildLeaveHandler(a IApp) func(s *discordgo.Session, g *discordgo.GuildDelete) {
	return func(_ *discordgo.Session, g *discordgo.GuildDelete) {
		// Unavailable guilds are an outage, the bot is still a member.
		if g.Unavailable {
			a.Log().Warn("Guild unavailable", slog.String(logging.KeyGuildID, g.ID))
			return
		}

		a.Log().Info(fmt.Sprintf("Left guild %s", g.ID), slog.String(logging.KeyGuildID, g.ID))

		// Decrement the total number of guilds.
		TotalDiscordGuilds.Dec()
	}
}
