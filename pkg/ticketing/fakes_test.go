package ticketing

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/Jacobbrewer1/ticketeer/pkg/custom"
	"github.com/Jacobbrewer1/ticketeer/pkg/dataaccess"
	"github.com/Jacobbrewer1/ticketeer/pkg/entities"
)

type sentMessage struct {
	channelID string
	msg       *discordgo.MessageSend
}

type fakePlatform struct {
	mu sync.Mutex

	// channels maps channel IDs to the channel.
	channels map[string]*discordgo.Channel
	messages map[string]bool
	nextID   int

	sent      []sentMessage
	dms       map[string][]*discordgo.MessageSend
	deleted   []string
	dmsClosed map[string]bool

	createErr error
	sendErr   map[string]error
}

func newFakePlatform() *fakePlatform {
	return &fakePlatform{
		channels:  make(map[string]*discordgo.Channel),
		messages:  make(map[string]bool),
		dms:       make(map[string][]*discordgo.MessageSend),
		dmsClosed: make(map[string]bool),
		sendErr:   make(map[string]error),
	}
}

func (f *fakePlatform) addChannel(guildID, channelID, name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.channels[channelID] = &discordgo.Channel{ID: channelID, GuildID: guildID, Name: name, Type: discordgo.ChannelTypeGuildText}
}

func (f *fakePlatform) hasChannel(channelID string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.channels[channelID]
	return ok
}

func (f *fakePlatform) sentTo(channelID string) []*discordgo.MessageSend {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*discordgo.MessageSend
	for _, s := range f.sent {
		if s.channelID == channelID {
			out = append(out, s.msg)
		}
	}
	return out
}

func (f *fakePlatform) dmsTo(userID string) []*discordgo.MessageSend {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.dms[userID]
}

func (f *fakePlatform) GuildChannel(guildID, channelID string) (*discordgo.Channel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.channels[channelID]
	if !ok || c.GuildID != guildID {
		return nil, ErrPlatformNotFound
	}
	return c, nil
}

func (f *fakePlatform) GuildChannelByName(guildID, name string) (*discordgo.Channel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.channels {
		if c.GuildID == guildID && c.Name == name {
			return c, nil
		}
	}
	return nil, ErrPlatformNotFound
}

func (f *fakePlatform) CreateChannel(guildID string, data discordgo.GuildChannelCreateData) (*discordgo.Channel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.nextID++
	c := &discordgo.Channel{
		ID:                   fmt.Sprintf("T%d", f.nextID),
		GuildID:              guildID,
		Name:                 data.Name,
		Type:                 data.Type,
		PermissionOverwrites: data.PermissionOverwrites,
	}
	f.channels[c.ID] = c
	return c, nil
}

func (f *fakePlatform) DeleteChannel(channelID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.channels[channelID]; !ok {
		return ErrPlatformNotFound
	}
	delete(f.channels, channelID)
	f.deleted = append(f.deleted, channelID)
	return nil
}

func (f *fakePlatform) MessageExists(channelID, messageID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.messages[channelID+"/"+messageID], nil
}

func (f *fakePlatform) SendMessage(channelID string, msg *discordgo.MessageSend) (*discordgo.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.sendErr[channelID]; err != nil {
		return nil, err
	}
	if _, ok := f.channels[channelID]; !ok {
		return nil, ErrPlatformNotFound
	}
	f.nextID++
	id := fmt.Sprintf("M%d", f.nextID)
	f.messages[channelID+"/"+id] = true
	f.sent = append(f.sent, sentMessage{channelID: channelID, msg: msg})
	return &discordgo.Message{ID: id, ChannelID: channelID}, nil
}

func (f *fakePlatform) SendDirectMessage(userID string, msg *discordgo.MessageSend) (*discordgo.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.dmsClosed[userID] {
		return nil, errors.New("cannot send messages to this user")
	}
	f.dms[userID] = append(f.dms[userID], msg)
	return &discordgo.Message{ID: "DM", ChannelID: "DM-" + userID}, nil
}

type fakeConfigs map[string]entities.TicketConfig

func (f fakeConfigs) Get(serverID string) (entities.TicketConfig, bool) {
	c, ok := f[serverID]
	return c, ok
}

type fakeConfigStore struct {
	mu    sync.Mutex
	saved map[string]string
	err   error
}

func (f *fakeConfigStore) SaveIntakeMessage(_ context.Context, serverID, channelID, messageID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	if f.saved == nil {
		f.saved = make(map[string]string)
	}
	f.saved[serverID] = channelID + "/" + messageID
	return nil
}

// fakeTickets keeps tickets in memory with the same matching rules as the mongo store.
type fakeTickets struct {
	mu      sync.Mutex
	tickets map[string]*entities.Ticket

	// createHook runs before a ticket is inserted.
	createHook func()
	err        error
}

func newFakeTickets() *fakeTickets {
	return &fakeTickets{tickets: make(map[string]*entities.Ticket)}
}

func (f *fakeTickets) get(id string) *entities.Ticket {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.tickets[id]
	if !ok {
		return nil
	}
	c := *t
	return &c
}

func (f *fakeTickets) put(t *entities.Ticket) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c := *t
	f.tickets[t.ID] = &c
}

func (f *fakeTickets) CreateTicket(_ context.Context, ticket *entities.Ticket) error {
	if f.createHook != nil {
		f.createHook()
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	for _, t := range f.tickets {
		if t.ID == ticket.ID || (t.IsOpen() && t.GuildID == ticket.GuildID && t.UserID == ticket.UserID) {
			return dataaccess.ErrDuplicate
		}
	}
	c := *ticket
	f.tickets[ticket.ID] = &c
	return nil
}

func (f *fakeTickets) GetTicket(_ context.Context, id string) (*entities.Ticket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	t, ok := f.tickets[id]
	if !ok {
		return nil, dataaccess.ErrNotFound
	}
	c := *t
	return &c, nil
}

func (f *fakeTickets) GetOpenTicket(ctx context.Context, id string) (*entities.Ticket, error) {
	t, err := f.GetTicket(ctx, id)
	if err != nil {
		return nil, err
	} else if !t.IsOpen() {
		return nil, dataaccess.ErrNotFound
	}
	return t, nil
}

func (f *fakeTickets) GetOpenTicketByUser(_ context.Context, guildID, userID string) (*entities.Ticket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	for _, t := range f.tickets {
		if t.IsOpen() && t.GuildID == guildID && t.UserID == userID {
			c := *t
			return &c, nil
		}
	}
	return nil, dataaccess.ErrNotFound
}

func (f *fakeTickets) CloseTicket(_ context.Context, id, closedBy string, at custom.Datetime) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	t, ok := f.tickets[id]
	if !ok || !t.IsOpen() {
		return dataaccess.ErrNotFound
	}
	t.Status = entities.TicketStatusClosed
	t.ClosedBy = closedBy
	t.ClosedAt = at
	return nil
}

func (f *fakeTickets) SetRating(_ context.Context, id string, rating int, at custom.Datetime) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return false, f.err
	}
	t, ok := f.tickets[id]
	if !ok {
		return false, nil
	}
	t.Rating = &rating
	t.RatedAt = at
	return true, nil
}

func activeConfig(serverID, channelID, roleID string) entities.TicketConfig {
	return entities.TicketConfig{
		ServerID:        serverID,
		TicketChannelID: channelID,
		AdminRoleID:     roleID,
		Status:          custom.Flag(true),
	}
}

// customIDs lists the custom IDs of every component in a message.
func customIDs(msg *discordgo.MessageSend) []string {
	var ids []string
	for _, c := range msg.Components {
		row, ok := c.(discordgo.ActionsRow)
		if !ok {
			continue
		}
		for _, rc := range row.Components {
			switch v := rc.(type) {
			case discordgo.Button:
				ids = append(ids, v.CustomID)
			case discordgo.SelectMenu:
				ids = append(ids, v.CustomID)
			}
		}
	}
	return ids
}
