package dataaccess

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Jacobbrewer1/ticketeer/pkg/custom"
	"github.com/Jacobbrewer1/ticketeer/pkg/entities"
	"github.com/Jacobbrewer1/ticketeer/pkg/logging"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const ticketDalName = "ticket_dal"

const (
	indexTicketID        = "ticket_id_unique"
	indexOpenPerUser     = "open_ticket_per_user_unique"
	indexClosedTicketTTL = "closed_ticket_ttl"
)

type TicketDal interface {
	// EnsureIndexes creates the indexes the ticket rules depend on. A positive retention expires
	// closed tickets that long after they were closed.
	EnsureIndexes(ctx context.Context, closedRetention time.Duration) error

	// CreateTicket inserts a new ticket. ErrDuplicate is returned if the ID is taken or the user
	// already has an open ticket in the guild.
	CreateTicket(ctx context.Context, ticket *entities.Ticket) error

	// GetTicket gets a ticket by ID whatever its status.
	GetTicket(ctx context.Context, id string) (*entities.Ticket, error)

	// GetOpenTicket gets an open ticket by ID.
	GetOpenTicket(ctx context.Context, id string) (*entities.Ticket, error)

	// GetOpenTicketByUser gets the open ticket a user has in a guild.
	GetOpenTicketByUser(ctx context.Context, guildID, userID string) (*entities.Ticket, error)

	// CloseTicket marks an open ticket as closed. ErrNotFound is returned if there was no open
	// ticket with the ID.
	CloseTicket(ctx context.Context, id, closedBy string, at custom.Datetime) error

	// SetRating sets the rating of a ticket. The returned bool is false when no ticket matched.
	SetRating(ctx context.Context, id string, rating int, at custom.Datetime) (bool, error)
}

type ticketDal struct {
	// l is the logger.
	l *slog.Logger

	// client is the database.
	client *mongo.Client

	// db is the database name.
	db Database
}

// NewTicketDal creates a new ticket data access layer.
func NewTicketDal(l *slog.Logger, client *mongo.Client, db Database) TicketDal {
	l = l.With(slog.String(logging.KeyDal, ticketDalName))

	if client == nil {
		l.Warn("MongoDB is nil, this can cause a panic. Proceeding...")
	}

	if db == "" {
		db = DefaultDatabase
	}

	return &ticketDal{
		l:      l,
		client: client,
		db:     db,
	}
}

func (d *ticketDal) collection() *mongo.Collection {
	return d.client.Database(string(d.db)).Collection(ticketCollection)
}

func (d *ticketDal) EnsureIndexes(ctx context.Context, closedRetention time.Duration) error {
	defer track(ticketDalName, "ensure_indexes", d.db, ticketCollection)()

	models := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetName(indexTicketID).SetUnique(true),
		},
		{
			// At most one open ticket per user per guild.
			Keys: bson.D{{Key: "guildId", Value: 1}, {Key: "userId", Value: 1}},
			Options: options.Index().
				SetName(indexOpenPerUser).
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"status": entities.TicketStatusOpen}),
		},
	}

	if closedRetention > 0 {
		models = append(models, mongo.IndexModel{
			Keys: bson.D{{Key: "closedAt", Value: 1}},
			Options: options.Index().
				SetName(indexClosedTicketTTL).
				SetExpireAfterSeconds(int32(closedRetention.Seconds())).
				SetPartialFilterExpression(bson.M{"status": entities.TicketStatusClosed}),
		})
	}

	names, err := d.collection().Indexes().CreateMany(ctx, models)
	if err != nil {
		failed(ticketDalName, "ensure_indexes", d.db, ticketCollection)
		return fmt.Errorf("error creating ticket indexes: %w", err)
	}

	d.l.Debug("Ticket indexes ensured", slog.Any("indexes", names))
	return nil
}

func (d *ticketDal) CreateTicket(ctx context.Context, ticket *entities.Ticket) error {
	defer track(ticketDalName, "create_ticket", d.db, ticketCollection)()

	if ticket.Status == "" {
		ticket.Status = entities.TicketStatusOpen
	}
	if ticket.CreatedAt.IsZero() {
		ticket.CreatedAt = custom.Now()
	}

	if _, err := d.collection().InsertOne(ctx, ticket); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("ticket %s: %w", ticket.ID, ErrDuplicate)
		}
		failed(ticketDalName, "create_ticket", d.db, ticketCollection)
		return fmt.Errorf("error inserting ticket: %w", err)
	}
	return nil
}

func (d *ticketDal) GetTicket(ctx context.Context, id string) (*entities.Ticket, error) {
	defer track(ticketDalName, "get_ticket", d.db, ticketCollection)()
	return d.findOne(ctx, "get_ticket", bson.M{"id": id})
}

func (d *ticketDal) GetOpenTicket(ctx context.Context, id string) (*entities.Ticket, error) {
	defer track(ticketDalName, "get_open_ticket", d.db, ticketCollection)()
	return d.findOne(ctx, "get_open_ticket", bson.M{
		"id":     id,
		"status": entities.TicketStatusOpen,
	})
}

func (d *ticketDal) GetOpenTicketByUser(ctx context.Context, guildID, userID string) (*entities.Ticket, error) {
	defer track(ticketDalName, "get_open_ticket_by_user", d.db, ticketCollection)()
	return d.findOne(ctx, "get_open_ticket_by_user", bson.M{
		"guildId": guildID,
		"userId":  userID,
		"status":  entities.TicketStatusOpen,
	})
}

func (d *ticketDal) findOne(ctx context.Context, query string, filter bson.M) (*entities.Ticket, error) {
	ticket := new(entities.Ticket)
	err := d.collection().FindOne(ctx, filter).Decode(ticket)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("ticket: %w", ErrNotFound)
	} else if err != nil {
		failed(ticketDalName, query, d.db, ticketCollection)
		return nil, fmt.Errorf("error getting ticket: %w", err)
	}
	return ticket, nil
}

func (d *ticketDal) CloseTicket(ctx context.Context, id, closedBy string, at custom.Datetime) error {
	defer track(ticketDalName, "close_ticket", d.db, ticketCollection)()

	filter := bson.M{"id": id, "status": entities.TicketStatusOpen}
	update := bson.M{"$set": bson.M{
		"status":   entities.TicketStatusClosed,
		"closedBy": closedBy,
		"closedAt": at,
	}}

	res, err := d.collection().UpdateOne(ctx, filter, update)
	if err != nil {
		failed(ticketDalName, "close_ticket", d.db, ticketCollection)
		return fmt.Errorf("error closing ticket: %w", err)
	}

	if res.MatchedCount == 0 {
		return fmt.Errorf("ticket %s: %w", id, ErrNotFound)
	}
	return nil
}

func (d *ticketDal) SetRating(ctx context.Context, id string, rating int, at custom.Datetime) (bool, error) {
	defer track(ticketDalName, "set_rating", d.db, ticketCollection)()

	update := bson.M{"$set": bson.M{
		"rating":  rating,
		"ratedAt": at,
	}}

	res, err := d.collection().UpdateOne(ctx, bson.M{"id": id}, update)
	if err != nil {
		failed(ticketDalName, "set_rating", d.db, ticketCollection)
		return false, fmt.Errorf("error setting rating: %w", err)
	}
	return res.MatchedCount > 0, nil
}
