package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

const (
	// KeyError is the key used for error attributes.
	KeyError = "err"

	// KeyDal is the key used to name the data access layer that logged the entry.
	KeyDal = "dal"

	// KeyGuildID is the key used for Discord guild IDs.
	KeyGuildID = "guild_id"

	// KeyChannelID is the key used for Discord channel IDs.
	KeyChannelID = "channel_id"

	// KeyUserID is the key used for Discord user IDs.
	KeyUserID = "user_id"

	// KeyTicketID is the key used for ticket IDs.
	KeyTicketID = "ticket_id"

	// KeyTaskID is the key used for the ID of the interaction task being handled.
	KeyTaskID = "task_id"

	// KeyApp is the key used for the application name.
	KeyApp = "app"
)

const (
	// FormatText writes logs as logfmt style key=value pairs.
	FormatText = "text"

	// FormatJSON writes logs as one JSON object per line.
	FormatJSON = "json"
)

// Name is the name of the application doing the logging.
type Name string

// Config is the configuration for a logger.
type Config struct {
	// Name is added to every log entry under KeyApp.
	Name Name

	// Level is the minimum level that is written (debug, info, warn, error).
	Level string

	// Format is either FormatText or FormatJSON.
	Format string

	// Output defaults to os.Stdout.
	Output io.Writer
}

// NewConfig returns a configuration that logs text at info level to stdout.
func NewConfig(name Name) *Config {
	return &Config{
		Name:   name,
		Level:  slog.LevelInfo.String(),
		Format: FormatText,
		Output: os.Stdout,
	}
}

// CommonLogger creates the logger used throughout the application and sets it as the default.
func CommonLogger(c *Config) (*slog.Logger, error) {
	if c == nil {
		return nil, fmt.Errorf("logging config is nil")
	}

	level, err := ParseLevel(c.Level)
	if err != nil {
		return nil, err
	}

	out := c.Output
	if out == nil {
		out = os.Stdout
	}

	opts := &slog.HandlerOptions{
		AddSource: level == slog.LevelDebug,
		Level:     level,
	}

	var h slog.Handler
	switch strings.ToLower(c.Format) {
	case "", FormatText:
		h = slog.NewTextHandler(out, opts)
	case FormatJSON:
		h = slog.NewJSONHandler(out, opts)
	default:
		return nil, fmt.Errorf("unknown log format %q", c.Format)
	}

	l := slog.New(h).With(slog.String(KeyApp, string(c.Name)))
	slog.SetDefault(l)
	return l, nil
}

// ParseLevel converts a level name into a slog.Level. An empty name is info.
func ParseLevel(level string) (slog.Level, error) {
	if level == "" {
		return slog.LevelInfo, nil
	}

	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	return l, nil
}
