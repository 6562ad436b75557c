package main

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/Jacobbrewer1/ticketeer/pkg/ticketing"
)

// sessionPlatform is the Discord side of ticketing.
type sessionPlatform struct {
	s *discordgo.Session
}

// notFoundCodes are the Discord error codes for things that do not exist or cannot be seen.
var notFoundCodes = map[int]bool{
	discordgo.ErrCodeUnknownChannel: true,
	discordgo.ErrCodeUnknownGuild:   true,
	discordgo.ErrCodeUnknownMember:  true,
	discordgo.ErrCodeUnknownMessage: true,
	discordgo.ErrCodeUnknownUser:    true,
	discordgo.ErrCodeMissingAccess:  true,
}

// platformError marks errors for missing resources with ticketing.ErrPlatformNotFound.
func platformError(err error) error {
	if err == nil {
		return nil
	}

	restErr := new(discordgo.RESTError)
	if !errors.As(err, &restErr) {
		return err
	}

	if (restErr.Message != nil && notFoundCodes[restErr.Message.Code]) ||
		(restErr.Response != nil && restErr.Response.StatusCode == http.StatusNotFound) {
		return fmt.Errorf("%w: %w", ticketing.ErrPlatformNotFound, err)
	}
	return err
}

func (p *sessionPlatform) GuildChannel(guildID, channelID string) (*discordgo.Channel, error) {
	// Prefer the gateway state and fall back to the API for channels it has not seen yet.
	channel, err := p.s.State.Channel(channelID)
	if err != nil {
		channel, err = p.s.Channel(channelID)
		if err != nil {
			return nil, fmt.Errorf("error getting channel %s: %w", channelID, platformError(err))
		}
	}

	if channel.GuildID != guildID {
		return nil, fmt.Errorf("channel %s is not in guild %s: %w", channelID, guildID, ticketing.ErrPlatformNotFound)
	}
	return channel, nil
}

func (p *sessionPlatform) GuildChannelByName(guildID, name string) (*discordgo.Channel, error) {
	channels, err := p.guildChannels(guildID)
	if err != nil {
		return nil, err
	}

	for _, c := range channels {
		if c.Type == discordgo.ChannelTypeGuildText && c.Name == name {
			return c, nil
		}
	}
	return nil, fmt.Errorf("no channel named %q in guild %s: %w", name, guildID, ticketing.ErrPlatformNotFound)
}

func (p *sessionPlatform) guildChannels(guildID string) ([]*discordgo.Channel, error) {
	if guild, err := p.s.State.Guild(guildID); err == nil {
		p.s.State.RLock()
		defer p.s.State.RUnlock()
		return append([]*discordgo.Channel(nil), guild.Channels...), nil
	}

	channels, err := p.s.GuildChannels(guildID)
	if err != nil {
		return nil, fmt.Errorf("error getting channels of guild %s: %w", guildID, platformError(err))
	}
	return channels, nil
}

func (p *sessionPlatform) CreateChannel(guildID string, data discordgo.GuildChannelCreateData) (*discordgo.Channel, error) {
	channel, err := p.s.GuildChannelCreateComplex(guildID, data)
	if err != nil {
		return nil, platformError(err)
	}
	return channel, nil
}

func (p *sessionPlatform) DeleteChannel(channelID string) error {
	if _, err := p.s.ChannelDelete(channelID); err != nil {
		return platformError(err)
	}
	return nil
}

func (p *sessionPlatform) MessageExists(channelID, messageID string) (bool, error) {
	_, err := p.s.ChannelMessage(channelID, messageID)
	if err = platformError(err); errors.Is(err, ticketing.ErrPlatformNotFound) {
		return false, nil
	} else if err != nil {
		return false, err
	}
	return true, nil
}

func (p *sessionPlatform) SendMessage(channelID string, msg *discordgo.MessageSend) (*discordgo.Message, error) {
	m, err := p.s.ChannelMessageSendComplex(channelID, msg)
	if err != nil {
		return nil, platformError(err)
	}
	return m, nil
}

func (p *sessionPlatform) SendDirectMessage(userID string, msg *discordgo.MessageSend) (*discordgo.Message, error) {
	channel, err := p.s.UserChannelCreate(userID)
	if err != nil {
		return nil, fmt.Errorf("error creating DM channel: %w", platformError(err))
	}
	return p.SendMessage(channel.ID, msg)
}
