package main

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Jacobbrewer1/ticketeer/pkg/dataaccess"
	"github.com/Jacobbrewer1/ticketeer/pkg/guildconfig"
	"github.com/Jacobbrewer1/ticketeer/pkg/logging"
	"github.com/Jacobbrewer1/ticketeer/pkg/ticketing"
	"github.com/spf13/viper"
)

const (
	// AppName is the name of the application.
	AppName = "ticketeer"

	// EnvBotToken is the environment variable for the bot token.
	EnvBotToken = `BOT_TOKEN`

	// EnvApplicationId is the environment variable for the application ID.
	EnvApplicationId = `APPLICATION_ID`

	// EnvMongoUri is the environment variable for the MongoDB URI.
	EnvMongoUri = `MONGO_URI`

	// EnvMonitoringPort is the environment variable for the monitoring port.
	EnvMonitoringPort = `MONITORING_PORT`
)

// Config is the configuration of the bot. Every key can be set in the config file or as an upper
// case environment variable, for example poll_interval and POLL_INTERVAL.
type Config struct {
	// BotToken is the token for the bot.
	BotToken string `mapstructure:"bot_token"`

	// ApplicationId is the ID of the application.
	ApplicationId string `mapstructure:"application_id"`

	// MongoUri is the URI for the MongoDB database.
	MongoUri string `mapstructure:"mongo_uri"`

	// MongoDatabase is the name of the MongoDB database.
	MongoDatabase string `mapstructure:"mongo_database"`

	// MonitoringPort is the port for the monitoring server.
	MonitoringPort string `mapstructure:"monitoring_port"`

	// PollInterval is how often the ticket configuration is reloaded.
	PollInterval time.Duration `mapstructure:"poll_interval"`

	// CloseGracePeriod is how long a closed ticket's channel is kept.
	CloseGracePeriod time.Duration `mapstructure:"close_grace_period"`

	// AuditChannelId is the channel ratings are logged to. When empty the channel named
	// AuditChannelName in the ticket's server is used.
	AuditChannelId string `mapstructure:"audit_channel_id"`

	// AuditChannelName is the name of the audit channel looked up per server.
	AuditChannelName string `mapstructure:"audit_channel_name"`

	// NotifyOnOpen sends users a direct message when their ticket is opened.
	NotifyOnOpen bool `mapstructure:"notify_on_open"`

	// ClosedTicketRetention is how long closed tickets are kept. Zero keeps them forever.
	ClosedTicketRetention time.Duration `mapstructure:"closed_ticket_retention"`

	// InteractionRate is how many interactions per second a user may send.
	InteractionRate float64 `mapstructure:"interaction_rate"`

	// InteractionBurst is how many interactions a user may send at once.
	InteractionBurst int `mapstructure:"interaction_burst"`

	// LogLevel is the minimum level logged.
	LogLevel string `mapstructure:"log_level"`

	// LogFormat is text or json.
	LogFormat string `mapstructure:"log_format"`
}

var defaults = map[string]any{
	"bot_token":               "",
	"application_id":          "",
	"mongo_uri":               "",
	"mongo_database":          string(dataaccess.DefaultDatabase),
	"monitoring_port":         "8080",
	"poll_interval":           guildconfig.DefaultPollInterval,
	"close_grace_period":      ticketing.DefaultCloseGracePeriod,
	"audit_channel_id":        "",
	"audit_channel_name":      ticketing.DefaultAuditChannelName,
	"notify_on_open":          false,
	"closed_ticket_retention": time.Duration(0),
	"interaction_rate":        1.0,
	"interaction_burst":       5,
	"log_level":               "info",
	"log_format":              logging.FormatText,
}

// LoadConfig reads the config file at path, if given, and the environment.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := new(Config)
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error decoding config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the required settings are present and the rest are usable.
func (c *Config) Validate() error {
	var errs []error

	if c.BotToken == "" {
		errs = append(errs, fmt.Errorf("%s is required", EnvBotToken))
	}
	if c.ApplicationId == "" {
		errs = append(errs, fmt.Errorf("%s is required", EnvApplicationId))
	}
	if c.MongoUri == "" {
		errs = append(errs, fmt.Errorf("%s is required", EnvMongoUri))
	}
	if c.PollInterval <= 0 {
		errs = append(errs, errors.New("poll interval must be positive"))
	}
	if c.CloseGracePeriod < 0 {
		errs = append(errs, errors.New("close grace period must not be negative"))
	}
	if c.InteractionRate <= 0 || c.InteractionBurst <= 0 {
		errs = append(errs, errors.New("interaction rate and burst must be positive"))
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration: %w", errors.Join(errs...))
	}
	return nil
}

// LogValue keeps the token out of the logs.
func (c *Config) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("application_id", c.ApplicationId),
		slog.String("mongo_database", c.MongoDatabase),
		slog.String("monitoring_port", c.MonitoringPort),
		slog.Duration("poll_interval", c.PollInterval),
		slog.Duration("close_grace_period", c.CloseGracePeriod),
		slog.String("audit_channel_id", c.AuditChannelId),
		slog.String("audit_channel_name", c.AuditChannelName),
		slog.Bool("notify_on_open", c.NotifyOnOpen),
		slog.Duration("closed_ticket_retention", c.ClosedTicketRetention),
	)
}
