package main

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/Jacobbrewer1/ticketeer/pkg/ticketing"
	"github.com/stretchr/testify/require"
)

func TestPlatformError(t *testing.T) {
	tests := []struct {
		name         string
		err          error
		wantNotFound bool
	}{
		{
			name:         "unknown channel",
			err:          &discordgo.RESTError{Message: &discordgo.APIErrorMessage{Code: discordgo.ErrCodeUnknownChannel}},
			wantNotFound: true,
		},
		{
			name:         "unknown message",
			err:          &discordgo.RESTError{Message: &discordgo.APIErrorMessage{Code: discordgo.ErrCodeUnknownMessage}},
			wantNotFound: true,
		},
		{
			name:         "404 without body",
			err:          &discordgo.RESTError{Response: &http.Response{StatusCode: http.StatusNotFound}},
			wantNotFound: true,
		},
		{
			name: "server error",
			err:  &discordgo.RESTError{Response: &http.Response{StatusCode: http.StatusBadGateway}},
		},
		{
			name: "other error",
			err:  errors.New("connection reset"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := platformError(tt.err)
			require.ErrorIs(t, err, tt.err)
			require.Equal(t, tt.wantNotFound, errors.Is(err, ticketing.ErrPlatformNotFound))
		})
	}

	require.NoError(t, platformError(nil))
}

func TestConfigFreshness(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	require.Error(t, configFreshness(time.Time{}, now, 5*time.Second))
	require.NoError(t, configFreshness(now.Add(-10*time.Second), now, 5*time.Second))
	require.Error(t, configFreshness(now.Add(-16*time.Second), now, 5*time.Second))
}
