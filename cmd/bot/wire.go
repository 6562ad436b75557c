//go:build wireinject
// +build wireinject

package main

import (
	"context"

	"github.com/Jacobbrewer1/ticketeer/pkg/dataaccess"
	"github.com/Jacobbrewer1/ticketeer/pkg/logging"
	"github.com/google/wire"
	"github.com/gorilla/mux"
)

func InitializeApp(ctx context.Context, cfg *Config) (*App, func(), error) {
	wire.Build(
		newLoggingConfig,
		logging.CommonLogger,
		mux.NewRouter,
		newSession,
		newMongoClient,
		newDatabase,
		dataaccess.NewConfigDal,
		dataaccess.NewTicketDal,
		newConfigCache,
		newPlatform,
		newManager,
		newMonitor,
		newPoller,
		newRatingCollector,
		newInteractionLimiter,
		NewApp,
	)
	return new(App), nil, nil
}
