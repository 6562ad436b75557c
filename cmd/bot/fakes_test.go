package main

import (
	"context"
	"log/slog"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/Jacobbrewer1/ticketeer/pkg/dataaccess"
	"github.com/Jacobbrewer1/ticketeer/pkg/entities"
	"github.com/Jacobbrewer1/ticketeer/pkg/ticketing"
)

type fakeApp struct {
	tickets   *fakeTickets
	ratings   *fakeRatings
	configDal *fakeConfigDal
}

func newFakeApp() *fakeApp {
	return &fakeApp{
		tickets:   new(fakeTickets),
		ratings:   new(fakeRatings),
		configDal: new(fakeConfigDal),
	}
}

func (f *fakeApp) Log() *slog.Logger               { return slog.Default() }
func (f *fakeApp) Session() *discordgo.Session     { return nil }
func (f *fakeApp) Tickets() ticketService          { return f.tickets }
func (f *fakeApp) Ratings() ratingService          { return f.ratings }
func (f *fakeApp) ConfigDal() dataaccess.ConfigDal { return f.configDal }

type fakeTickets struct {
	opened []ticketing.OpenRequest
	closed []ticketing.CloseRequest

	openErr   error
	closeErr  error
	notNotify bool
}

func (f *fakeTickets) Open(_ context.Context, req ticketing.OpenRequest) (*ticketing.OpenResult, error) {
	f.opened = append(f.opened, req)
	if f.openErr != nil {
		return nil, f.openErr
	}
	return &ticketing.OpenResult{Ticket: &entities.Ticket{
		ID:        entities.TicketID(req.GuildID, "T1"),
		ChannelID: "T1",
		GuildID:   req.GuildID,
		UserID:    req.UserID,
		Type:      entities.TicketType(req.Type),
	}}, nil
}

func (f *fakeTickets) Close(_ context.Context, req ticketing.CloseRequest) (*ticketing.CloseResult, error) {
	f.closed = append(f.closed, req)
	if f.closeErr != nil {
		return nil, f.closeErr
	}
	res := &ticketing.CloseResult{Ticket: &entities.Ticket{ID: req.TicketID}}
	if f.notNotify {
		res.NotifyErr = ticketing.ErrPlatformNotFound
	}
	return res, nil
}

type fakeRatings struct {
	rated []ticketing.RateRequest
}

func (f *fakeRatings) Rate(_ context.Context, req ticketing.RateRequest) (*ticketing.RateResult, error) {
	f.rated = append(f.rated, req)
	rating, err := ticketing.ParseRating(req.Value)
	if err != nil {
		return nil, err
	}
	return &ticketing.RateResult{Rating: rating, Recorded: true}, nil
}

type fakeConfigDal struct {
	saved    []*entities.TicketConfig
	statuses map[string]bool
	err      error
}

func (f *fakeConfigDal) GetAllConfigs(_ context.Context) ([]*entities.TicketConfig, error) {
	return f.saved, f.err
}

func (f *fakeConfigDal) GetConfig(_ context.Context, serverID string) (*entities.TicketConfig, error) {
	for _, c := range f.saved {
		if c.ServerID == serverID {
			return c, nil
		}
	}
	return nil, dataaccess.ErrNotFound
}

func (f *fakeConfigDal) SaveConfig(_ context.Context, cfg *entities.TicketConfig) error {
	if f.err != nil {
		return f.err
	}
	f.saved = append(f.saved, cfg)
	return nil
}

func (f *fakeConfigDal) SetStatus(_ context.Context, serverID string, enabled bool) error {
	if f.err != nil {
		return f.err
	}
	if f.statuses == nil {
		f.statuses = make(map[string]bool)
	}
	f.statuses[serverID] = enabled
	return nil
}

func (f *fakeConfigDal) SaveIntakeMessage(_ context.Context, _, _, _ string) error {
	return f.err
}

func componentInteraction(guildID, customID string, values ...string) *discordgo.InteractionCreate {
	i := &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
		Type:    discordgo.InteractionMessageComponent,
		GuildID: guildID,
		Data: discordgo.MessageComponentInteractionData{
			CustomID: customID,
			Values:   values,
		},
	}}

	user := &discordgo.User{ID: "U1", Username: "u1"}
	if guildID == "" {
		i.User = user
	} else {
		i.Member = &discordgo.Member{User: user, Roles: []string{"R1"}}
	}
	return i
}

func commandInteraction(guildID string, admin bool, options ...*discordgo.ApplicationCommandInteractionDataOption) *discordgo.InteractionCreate {
	var perms int64
	if admin {
		perms = discordgo.PermissionAdministrator
	}

	return &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
		Type:    discordgo.InteractionApplicationCommand,
		GuildID: guildID,
		Member: &discordgo.Member{
			User:        &discordgo.User{ID: "A1", Username: "admin"},
			Permissions: perms,
		},
		Data: discordgo.ApplicationCommandInteractionData{
			Name:    ticketingCmdName,
			Options: options,
		},
	}}
}
