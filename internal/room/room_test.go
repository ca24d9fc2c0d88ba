package room

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/t-1mka/QuizBattle/internal/protocol"
)

func TestNormalizeCode(t *testing.T) {
	require.Equal(t, "AB12", NormalizeCode("  ab12 "))
	require.Equal(t, "QZXY9A", NormalizeCode("qzxy9a"))
}

func TestValidCode(t *testing.T) {
	require.True(t, ValidCode("AB12"))
	require.True(t, ValidCode("QZXY9A"))
	require.False(t, ValidCode(""))
	require.False(t, ValidCode("AB 12"))
	require.False(t, ValidCode("ab12")) // lowercase never valid post-normalization
}

func TestWithRosterReplacesAndFindsHost(t *testing.T) {
	r := New("ab12", []protocol.Player{
		{SID: "1", Name: "Аня", IsHost: true},
		{SID: "2", Name: "Боря"},
	}, true, protocol.Settings{})

	require.Equal(t, "AB12", r.Code)
	require.Equal(t, "Аня", r.HostName)

	r = r.WithRoster([]protocol.Player{{SID: "2", Name: "Боря", IsHost: true}})
	require.Len(t, r.Players, 1)
	require.Equal(t, "Боря", r.HostName)

	r = r.WithRoster(nil)
	require.Empty(t, r.Players)
}

func TestPlayerBySID(t *testing.T) {
	r := New("AB12", []protocol.Player{{SID: "1", Name: "Аня"}}, false, protocol.Settings{})

	p, ok := r.PlayerBySID("1")
	require.True(t, ok)
	require.Equal(t, "Аня", p.Name)

	_, ok = r.PlayerBySID("ghost")
	require.False(t, ok)
}

func TestTeamNames(t *testing.T) {
	r := New("AB12", nil, false, protocol.Settings{})
	require.Equal(t, "Команда 1", r.TeamName("team1"))
	require.Equal(t, "Команда 2", r.TeamName("team2"))

	r = r.WithTeamNames(map[string]string{"team1": "Знатоки"})
	require.Equal(t, "Знатоки", r.TeamName("team1"))
	require.Equal(t, "Команда 2", r.TeamName("team2"))
	require.Equal(t, "team9", r.TeamName("team9"))
}
