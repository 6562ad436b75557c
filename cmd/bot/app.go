package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/Jacobbrewer1/ticketeer/pkg/dataaccess"
	"github.com/Jacobbrewer1/ticketeer/pkg/guildconfig"
	"github.com/Jacobbrewer1/ticketeer/pkg/logging"
	"github.com/Jacobbrewer1/ticketeer/pkg/request"
	"github.com/Jacobbrewer1/ticketeer/pkg/ticketing"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.mongodb.org/mongo-driver/mongo"
)

const (
	// PathMetrics is the path for metrics.
	PathMetrics = "/metrics"

	// PathHealth is the path for the health check.
	PathHealth = "/health"

	// shutdownTimeout bounds the monitoring server shutdown.
	shutdownTimeout = 5 * time.Second
)

// ticketService opens and closes tickets.
type ticketService interface {
	Open(ctx context.Context, req ticketing.OpenRequest) (*ticketing.OpenResult, error)
	Close(ctx context.Context, req ticketing.CloseRequest) (*ticketing.CloseResult, error)
}

// ratingService records ticket ratings.
type ratingService interface {
	Rate(ctx context.Context, req ticketing.RateRequest) (*ticketing.RateResult, error)
}

// IApp is the interface for the application.
type IApp interface {
	// Log returns the application logger.
	Log() *slog.Logger

	// Session returns the discord session.
	Session() *discordgo.Session

	// Tickets returns the ticket lifecycle.
	Tickets() ticketService

	// Ratings returns the rating collector.
	Ratings() ratingService

	// ConfigDal returns the ticket configuration store.
	ConfigDal() dataaccess.ConfigDal
}

type App struct {
	// is the logger.
	*slog.Logger

	// cfg is the configuration of the application.
	cfg *Config

	// r is the router for the application.
	r *mux.Router

	// svr is the server for the application.
	svr *http.Server

	// s is the discord session.
	s *discordgo.Session

	// db is the mongo client.
	db *mongo.Client

	configDal dataaccess.ConfigDal
	ticketDal dataaccess.TicketDal

	cache   *guildconfig.Cache
	poller  *guildconfig.Poller
	tickets ticketService
	ratings ratingService

	// limiter limits how fast each user can send interactions.
	limiter *userLimiter

	// eventNotifier is the channel for notifying of events.
	eventNotifier chan any
}

// NewApp creates a new instance of App.
func NewApp(
	l *slog.Logger,
	cfg *Config,
	r *mux.Router,
	s *discordgo.Session,
	db *mongo.Client,
	configDal dataaccess.ConfigDal,
	ticketDal dataaccess.TicketDal,
	cache *guildconfig.Cache,
	poller *guildconfig.Poller,
	manager *ticketing.Manager,
	ratings *ticketing.RatingCollector,
	limiter *userLimiter,
) *App {
	return &App{
		Logger:    l,
		cfg:       cfg,
		r:         r,
		s:         s,
		db:        db,
		configDal: configDal,
		ticketDal: ticketDal,
		cache:     cache,
		poller:    poller,
		tickets:   manager,
		ratings:   ratings,
		limiter:   limiter,
	}
}

// Run connects to Discord, starts the config poller and the monitoring server, and blocks until
// ctx is done.
func (a *App) Run(ctx context.Context) error {
	if err := a.ticketDal.EnsureIndexes(ctx, a.cfg.ClosedTicketRetention); err != nil {
		return fmt.Errorf("error creating ticket indexes: %w", err)
	}

	// Default the number of guilds to 0.
	TotalDiscordGuilds.Set(0)

	a.s.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) {
		a.Info(fmt.Sprintf("Logged in as %s", r.User.String()))
	})

	a.RegisterDiscordHandlers()

	// Buffered so that a slow listener does not block the gateway.
	a.eventNotifier = make(chan any, 100)
	a.s.SetEventNotifier(a.eventNotifier)
	go a.eventListener()

	// Open websocket.
	if err := a.s.Open(); err != nil {
		return fmt.Errorf("error opening connection to Discord: %w", err)
	}

	a.Info("Bot is now running.")

	if err := a.poller.Start(ctx); err != nil {
		return fmt.Errorf("error starting config poller: %w", err)
	}

	a.generateServer()
	a.setupRoutes()
	a.runServer()

	<-ctx.Done()
	a.Info("Received shutdown signal")

	return a.ShutdownHook()
}

func (a *App) ShutdownHook() error {
	// Stop polling before the session goes away.
	a.poller.Stop()

	// Reset the total number of guilds to 0.
	TotalDiscordGuilds.Set(0)

	var errs []error

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := a.svr.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("error shutting down monitoring server: %w", err))
	}

	// Close the connection to Discord.
	if err := a.s.Close(); err != nil {
		errs = append(errs, fmt.Errorf("error closing connection to Discord: %w", err))
	}

	if a.eventNotifier != nil {
		close(a.eventNotifier)
	}

	return errors.Join(errs...)
}

func (a *App) runServer() {
	go func() {
		a.Info("Starting monitoring server", slog.String("addr", a.svr.Addr))
		if err := a.svr.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.Error("Error starting monitoring server", slog.String(logging.KeyError, err.Error()))
			a.Warn("Monitoring server will not be available")
		}
	}()
}

func (a *App) setupRoutes() {
	a.r.HandleFunc(PathMetrics, middlewareHttp(a, promhttp.Handler())).Methods(http.MethodGet)
	a.r.HandleFunc(PathHealth, middlewareHttp(a, a.healthCheck())).Methods(http.MethodGet)

	// NotFoundHandler is the handler for 404.
	a.r.NotFoundHandler = request.NotFoundHandler(a.Logger)

	// MethodNotAllowedHandler is the handler for 405.
	a.r.MethodNotAllowedHandler = request.MethodNotAllowedHandler(a.Logger)
}

func (a *App) generateServer() {
	a.svr = &http.Server{
		Addr:              ":" + a.cfg.MonitoringPort,
		Handler:           a.r,
		ReadHeaderTimeout: 5 * time.Second,
	}
}

func (a *App) RegisterDiscordHandlers() {
	// Bot joined guild.
	a.s.AddHandler(guildJoinedHandler(a, a.cfg.ApplicationId))

	// Bot left guild.
	a.s.AddHandler(guildLeaveHandler(a))

	// Interaction create handler.
	a.s.AddHandler(interactionHandler(a, newInteractionRoutes(), a.limiter))
}

func (a *App) eventListener() {
	for e := range a.eventNotifier {
		switch t := e.(type) {
		case *discordgo.Event:
			if t.Type != "" {
				TotalDiscordEvents.WithLabelValues(t.Type).Inc()
			} else {
				// If there is no type, then use the operation code.
				TotalDiscordEvents.WithLabelValues(fmt.Sprintf("OP_%d", t.Operation)).Inc()
			}
		default:
			a.Error("Unknown event type", slog.String("type", fmt.Sprintf("%T", e)))
			TotalDiscordEvents.WithLabelValues("UNKNOWN").Inc()
		}
	}
}

func (a *App) Log() *slog.Logger {
	return a.Logger
}

func (a *App) Session() *discordgo.Session {
	return a.s
}

func (a *App) Tickets() ticketService {
	return a.tickets
}

func (a *App) Ratings() ratingService {
	return a.ratings
}

func (a *App) ConfigDal() dataaccess.ConfigDal {
	return a.configDal
}
