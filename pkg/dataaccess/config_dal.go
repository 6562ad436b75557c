package dataaccess

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Jacobbrewer1/ticketeer/pkg/entities"
	"github.com/Jacobbrewer1/ticketeer/pkg/logging"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const configDalName = "config_dal"

type ConfigDal interface {
	// GetAllConfigs gets the ticket configuration of every server.
	GetAllConfigs(ctx context.Context) ([]*entities.TicketConfig, error)

	// GetConfig gets the ticket configuration of a server.
	GetConfig(ctx context.Context, serverID string) (*entities.TicketConfig, error)

	// SaveConfig creates or updates the channel, role and status of a server's configuration.
	SaveConfig(ctx context.Context, cfg *entities.TicketConfig) error

	// SetStatus enables or disables ticketing for a server.
	SetStatus(ctx context.Context, serverID string, enabled bool) error

	// SaveIntakeMessage records the ticket menu message posted for a server.
	SaveIntakeMessage(ctx context.Context, serverID, channelID, messageID string) error
}

type configDal struct {
	// l is the logger.
	l *slog.Logger

	// client is the database.
	client *mongo.Client

	// db is the database name.
	db Database
}

// NewConfigDal creates a new ticket configuration data access layer.
func NewConfigDal(l *slog.Logger, client *mongo.Client, db Database) ConfigDal {
	l = l.With(slog.String(logging.KeyDal, configDalName))

	if client == nil {
		l.Warn("MongoDB is nil, this can cause a panic. Proceeding...")
	}

	if db == "" {
		db = DefaultDatabase
	}

	return &configDal{
		l:      l,
		client: client,
		db:     db,
	}
}

func (d *configDal) collection() *mongo.Collection {
	return d.client.Database(string(d.db)).Collection(configCollection)
}

func (d *configDal) GetAllConfigs(ctx context.Context) ([]*entities.TicketConfig, error) {
	defer track(configDalName, "get_all_configs", d.db, configCollection)()

	cur, err := d.collection().Find(ctx, bson.M{})
	if err != nil {
		failed(configDalName, "get_all_configs", d.db, configCollection)
		return nil, fmt.Errorf("error finding configs: %w", err)
	}

	configs := make([]*entities.TicketConfig, 0)
	if err := cur.All(ctx, &configs); err != nil {
		failed(configDalName, "get_all_configs", d.db, configCollection)
		return nil, fmt.Errorf("error decoding configs: %w", err)
	}
	return configs, nil
}

func (d *configDal) GetConfig(ctx context.Context, serverID string) (*entities.TicketConfig, error) {
	defer track(configDalName, "get_config", d.db, configCollection)()

	cfg := new(entities.TicketConfig)
	err := d.collection().FindOne(ctx, bson.M{"serverId": serverID}).Decode(cfg)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("config for server %s: %w", serverID, ErrNotFound)
	} else if err != nil {
		failed(configDalName, "get_config", d.db, configCollection)
		return nil, fmt.Errorf("error getting config: %w", err)
	}
	return cfg, nil
}

func (d *configDal) SaveConfig(ctx context.Context, cfg *entities.TicketConfig) error {
	defer track(configDalName, "save_config", d.db, configCollection)()

	// Only the fields an administrator sets, so that the recorded intake message survives.
	update := bson.M{"$set": bson.M{
		"serverId":        cfg.ServerID,
		"ticketChannelId": cfg.TicketChannelID,
		"adminRoleId":     cfg.AdminRoleID,
		"status":          cfg.Status,
	}}

	opts := options.Update().SetUpsert(true)
	if _, err := d.collection().UpdateOne(ctx, bson.M{"serverId": cfg.ServerID}, update, opts); err != nil {
		failed(configDalName, "save_config", d.db, configCollection)
		return fmt.Errorf("error saving config: %w", err)
	}
	return nil
}

func (d *configDal) SetStatus(ctx context.Context, serverID string, enabled bool) error {
	defer track(configDalName, "set_status", d.db, configCollection)()

	opts := options.Update().SetUpsert(true)
	update := bson.M{"$set": bson.M{"serverId": serverID, "status": enabled}}
	if _, err := d.collection().UpdateOne(ctx, bson.M{"serverId": serverID}, update, opts); err != nil {
		failed(configDalName, "set_status", d.db, configCollection)
		return fmt.Errorf("error setting status: %w", err)
	}
	return nil
}

func (d *configDal) SaveIntakeMessage(ctx context.Context, serverID, channelID, messageID string) error {
	defer track(configDalName, "save_intake_message", d.db, configCollection)()

	update := bson.M{"$set": bson.M{
		"intakeChannelId": channelID,
		"intakeMessageId": messageID,
	}}

	res, err := d.collection().UpdateOne(ctx, bson.M{"serverId": serverID}, update)
	if err != nil {
		failed(configDalName, "save_intake_message", d.db, configCollection)
		return fmt.Errorf("error saving intake message: %w", err)
	}

	if res.MatchedCount == 0 {
		return fmt.Errorf("config for server %s: %w", serverID, ErrNotFound)
	}
	return nil
}
