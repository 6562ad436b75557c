package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/Jacobbrewer1/ticketeer/pkg/logging"
	"github.com/Jacobbrewer1/ticketeer/pkg/messages"
	"github.com/Jacobbrewer1/ticketeer/pkg/request"
	"github.com/Jacobbrewer1/ticketeer/pkg/ticketing"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

// interactionTimeout bounds the work done for one interaction. Follow ups are accepted for 15
// minutes, so this is well inside what Discord allows.
const interactionTimeout = 30 * time.Second

func middlewareHttp(a IApp, handler http.Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		now := time.Now().UTC()
		cw := request.NewClientWriter(w)

		// Recover from any panics that occur in the handler.
		defer func() {
			if rec := recover(); rec != nil {
				a.Log().Error("Panic in handler",
					slog.String(logging.KeyError, fmt.Sprint(rec)),
					slog.String("stack", string(debug.Stack())),
				)
				cw.WriteHeader(http.StatusInternalServerError)
				if err := json.NewEncoder(cw).Encode(request.NewMessage(request.ErrInternalServer.Error())); err != nil {
					a.Log().Error("Error encoding response", slog.String(logging.KeyError, err.Error()))
				}
			}
		}()

		var path string
		route := mux.CurrentRoute(r)
		if route != nil { // The route may be nil if the request is not routed.
			var err error
			path, err = route.GetPathTemplate()
			if err != nil {
				// An error here is only returned if the route does not define a path.
				a.Log().Error("Error getting path template", slog.String(logging.KeyError, err.Error()))
				path = r.URL.Path
			}
		} else {
			path = r.URL.Path
		}

		defer func() {
			// The status code is only known once the handler has returned.
			HttpTotalRequests.WithLabelValues(path, r.Method, fmt.Sprintf("%d", cw.StatusCode())).Inc()
			HttpRequestDuration.WithLabelValues(path, r.Method, fmt.Sprintf("%d", cw.StatusCode())).Observe(time.Since(now).Seconds())
		}()

		handler.ServeHTTP(cw, r)
	}
}

// interactionHandler routes interactions to their processor. Each interaction is acknowledged with a
// private deferred reply and answered with the processor's reply as a follow up.
func interactionHandler(a IApp, routes *interactionRoutes, limiter *userLimiter) func(s *discordgo.Session, i *discordgo.InteractionCreate) {
	return func(_ *discordgo.Session, i *discordgo.InteractionCreate) {
		route, processor, ok := routes.match(i)
		if !ok {
			a.Log().Debug("No processor for interaction", slog.String("type", i.Type.String()))
			return
		}

		user := interactionUser(i)
		l := a.Log().With(
			slog.String(logging.KeyTaskID, uuid.NewString()),
			slog.String(logging.KeyGuildID, i.GuildID),
			slog.String(logging.KeyUserID, user.ID),
			slog.String("route", route),
		)

		if !limiter.Allow(user.ID) {
			DiscordInteractionsLimited.Inc()
			l.Debug("Interaction rate limited")
			if err := respondEphemeral(a, i, messages.ErrUserRateLimited); err != nil {
				l.Error("Error responding to interaction", slog.String(logging.KeyError, err.Error()))
			}
			return
		}

		if err := respondDeferred(a, i); err != nil {
			l.Error("Error deferring interaction response", slog.String(logging.KeyError, err.Error()))
			return
		}

		start := time.Now()
		defer func() {
			DiscordInteractionDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
		}()

		ctx, cancel := context.WithTimeout(context.Background(), interactionTimeout)
		defer cancel()

		reply := runProcessor(ctx, l, a, i, processor)
		if err := followUpEphemeral(a, i, reply); err != nil {
			l.Error("Error sending interaction follow up", slog.String(logging.KeyError, err.Error()))
		}
	}
}

// runProcessor runs the processor and turns its result into the reply for the user.
func runProcessor(ctx context.Context, l *slog.Logger, a IApp, i *discordgo.InteractionCreate, processor interactionProcessor) (reply string) {
	defer func() {
		if rec := recover(); rec != nil {
			l.Error("Panic in interaction processor",
				slog.String(logging.KeyError, fmt.Sprint(rec)),
				slog.String("stack", string(debug.Stack())),
			)
			reply = messages.ErrUserErrorProcessing
		}
	}()

	reply, err := processor(ctx, a, i)
	if err != nil {
		return userMessage(l, err)
	}
	return reply
}

// userMessage is what the user is told when a processor fails. Only unexpected errors are logged
// as errors.
func userMessage(l *slog.Logger, err error) string {
	already := new(ticketing.AlreadyOpenError)

	switch {
	case errors.As(err, &already):
		if already.Ticket != nil && already.Ticket.ChannelID != "" {
			return fmt.Sprintf(messages.InfoTicketAlreadyOpenIn, already.Ticket.ChannelID)
		}
		return messages.InfoTicketAlreadyOpen
	case errors.Is(err, ticketing.ErrAlreadyOpen):
		return messages.InfoTicketAlreadyOpen
	case errors.Is(err, ticketing.ErrNotConfigured):
		return messages.ErrTicketingNotConfigured
	case errors.Is(err, ticketing.ErrUnknownTicketType):
		return messages.ErrUnknownTicketType
	case errors.Is(err, ticketing.ErrTicketNotFound):
		return messages.ErrTicketNotFound
	case errors.Is(err, ticketing.ErrNotPermitted):
		return messages.ErrNotPermittedToClose
	case errors.Is(err, ticketing.ErrInvalidRating):
		return messages.ErrInvalidRating
	case errors.Is(err, errNotAdministrator):
		return messages.ErrUserNotAdministrator
	case errors.Is(err, errTextChannelRequired):
		return messages.TicketingTextChannelRequired
	}

	l.Error("Error processing interaction", slog.String(logging.KeyError, err.Error()))
	return messages.ErrUserErrorProcessing
}
