package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/Jacobbrewer1/ticketeer/pkg/dataaccess"
	"github.com/Jacobbrewer1/ticketeer/pkg/dataaccess/connection"
	"github.com/Jacobbrewer1/ticketeer/pkg/guildconfig"
	"github.com/Jacobbrewer1/ticketeer/pkg/logging"
	"github.com/Jacobbrewer1/ticketeer/pkg/ticketing"
	"github.com/benbjohnson/clock"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/time/rate"
)

func newLoggingConfig(cfg *Config) *logging.Config {
	lc := logging.NewConfig(AppName)
	lc.Level = cfg.LogLevel
	lc.Format = cfg.LogFormat
	return lc
}

func newMongoClient(ctx context.Context, l *slog.Logger, cfg *Config) (*mongo.Client, func(), error) {
	conn := &connection.MongoDB{ConnectionString: cfg.MongoUri}

	client, err := conn.Connect(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("error connecting to mongo: %w", err)
	}
	l.Debug("Connected to MongoDB", slog.String("key", EnvMongoUri))

	cleanup := func() {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := client.Disconnect(ctx); err != nil {
			l.Error("Error disconnecting from MongoDB", slog.String(logging.KeyError, err.Error()))
		}
	}
	return client, cleanup, nil
}

func newDatabase(cfg *Config) dataaccess.Database {
	return dataaccess.Database(cfg.MongoDatabase)
}

func newSession(cfg *Config) (*discordgo.Session, error) {
	s, err := discordgo.New("Bot " + cfg.BotToken)
	if err != nil {
		return nil, fmt.Errorf("error creating Discord session: %w", err)
	}

	// Guild and channel state is all the bot reads from the gateway.
	s.Identify.Intents = discordgo.MakeIntent(discordgo.IntentsGuilds)
	return s, nil
}

func newPlatform(s *discordgo.Session) ticketing.Platform {
	return &sessionPlatform{s: s}
}

func newConfigCache(l *slog.Logger, configDal dataaccess.ConfigDal) *guildconfig.Cache {
	return guildconfig.NewCache(l, configDal)
}

func newManager(
	l *slog.Logger,
	cache *guildconfig.Cache,
	configDal dataaccess.ConfigDal,
	ticketDal dataaccess.TicketDal,
	platform ticketing.Platform,
	cfg *Config,
) *ticketing.Manager {
	return ticketing.NewManager(l, cache, configDal, ticketDal, platform, clock.New(), ticketing.Options{
		CloseGracePeriod: cfg.CloseGracePeriod,
		NotifyOnOpen:     cfg.NotifyOnOpen,
	})
}

func newRatingCollector(l *slog.Logger, ticketDal dataaccess.TicketDal, platform ticketing.Platform, cfg *Config) *ticketing.RatingCollector {
	return ticketing.NewRatingCollector(l, ticketDal, platform, clock.New(), ticketing.AuditOptions{
		ChannelID:   cfg.AuditChannelId,
		ChannelName: cfg.AuditChannelName,
	})
}

func newMonitor(l *slog.Logger, cache *guildconfig.Cache, manager *ticketing.Manager) *guildconfig.Monitor {
	return guildconfig.NewMonitor(l, cache, manager)
}

func newPoller(l *slog.Logger, monitor *guildconfig.Monitor, cfg *Config) *guildconfig.Poller {
	return guildconfig.NewPoller(l, monitor, cfg.PollInterval)
}

func newInteractionLimiter(cfg *Config) *userLimiter {
	return newUserLimiter(rate.Limit(cfg.InteractionRate), cfg.InteractionBurst, time.Now)
}
