package entities

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTicketChannelName(t *testing.T) {
	tests := []struct {
		name     string
		username string
		typ      TicketType
		want     string
	}{
		{name: "plain", username: "wolf", typ: TicketTypeGrinder, want: "wolf-apply_grinder-ticket"},
		{name: "upper case", username: "U1", typ: TicketTypeGrinder, want: "u1-apply_grinder-ticket"},
		{name: "spaces and symbols", username: " Big Wolf!! ", typ: TicketTypePvper, want: "big-wolf-apply_as_pvper-ticket"},
		{name: "nothing usable", username: "***", typ: TicketTypePvper, want: "user-apply_as_pvper-ticket"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, TicketChannelName(tt.username, tt.typ))
		})
	}
}

func TestTicketType_Valid(t *testing.T) {
	require.True(t, TicketTypePvper.Valid())
	require.True(t, TicketTypeGrinder.Valid())
	require.False(t, TicketType("apply_as_admin").Valid())
	require.False(t, TicketType("").Valid())
}

func TestTicketConfig_Active(t *testing.T) {
	var nilCfg *TicketConfig
	require.False(t, nilCfg.Active())
	require.False(t, (&TicketConfig{Status: true}).Active())
	require.False(t, (&TicketConfig{TicketChannelID: "C1"}).Active())
	require.True(t, (&TicketConfig{Status: true, TicketChannelID: "C1"}).Active())
}

func TestTicketID(t *testing.T) {
	require.Equal(t, "G1-C9", TicketID("G1", "C9"))
}
