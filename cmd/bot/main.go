package main

import (
	"context"
	"errors"
	"io/fs"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/Jacobbrewer1/ticketeer/pkg/logging"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
)

func main() {
	flags := pflag.NewFlagSet(AppName, pflag.ContinueOnError)
	configPath := flags.String("config", "", "Path to a config file (yaml, json or toml). Environment variables override it.")
	if err := flags.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		log.Fatalln(err)
	}

	// A missing .env file is fine, the environment may be set some other way.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Fatalln("Error loading .env file:", err)
	}

	cfg, err := LoadConfig(*configPath)
	if err != nil {
		log.Fatalln(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, cleanup, err := InitializeApp(ctx, cfg)
	if err != nil {
		log.Fatalln(err)
	}
	defer cleanup()

	a.Info("Starting application", slog.Any("config", cfg))
	if err := a.Run(ctx); err != nil {
		a.Error("Error running application", slog.String(logging.KeyError, err.Error()))
		cleanup()
		os.Exit(1)
	}
}
