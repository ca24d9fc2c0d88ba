package room

import (
	"strings"

	"github.com/t-1mka/QuizBattle/internal/protocol"
)

// Room is the lobby-side view of a joined room. It is a value: session
// transitions derive a new Room rather than mutating in place.
type Room struct {
	Code      string
	Players   []protocol.Player
	HostName  string
	IsHost    bool
	YourTeam  string // team1 | team2 | ""
	Settings  protocol.Settings
	TeamNames map[string]string
}

// New builds a Room from a room_created / room_joined confirmation.
func New(code string, players []protocol.Player, isHost bool, s protocol.Settings) Room {
	r := Room{
		Code:     NormalizeCode(code),
		IsHost:   isHost,
		Settings: s,
	}
	return r.WithRoster(players)
}

// WithRoster replaces the membership roster wholesale. The server always
// sends the complete current roster, never deltas.
func (r Room) WithRoster(players []protocol.Player) Room {
	r.Players = players
	for _, p := range players {
		if p.IsHost {
			r.HostName = p.Name
			break
		}
	}
	return r
}

// WithHost updates the host pointer after a host_changed broadcast.
func (r Room) WithHost(name string) Room {
	r.HostName = name
	return r
}

// WithSettings replaces the settings snapshot.
func (r Room) WithSettings(s protocol.Settings) Room {
	r.Settings = s
	return r
}

// WithTeamNames replaces the display names for both teams.
func (r Room) WithTeamNames(names map[string]string) Room {
	r.TeamNames = names
	return r
}

// TeamName resolves a team id to its display name.
func (r Room) TeamName(team string) string {
	if n, ok := r.TeamNames[team]; ok && n != "" {
		return n
	}
	switch team {
	case "team1":
		return "Команда 1"
	case "team2":
		return "Команда 2"
	default:
		return team
	}
}

// PlayerBySID looks a player up by server-assigned identifier.
func (r Room) PlayerBySID(sid string) (protocol.Player, bool) {
	for _, p := range r.Players {
		if p.SID == sid {
			return p, true
		}
	}
	return protocol.Player{}, false
}

// NormalizeCode uppercases and trims a user-entered room code.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// ValidCode reports whether a normalized code is a plausible room token.
func ValidCode(code string) bool {
	if code == "" {
		return false
	}
	for _, c := range code {
		if (c < 'A' || c > 'Z') && (c < '0' || c > '9') {
			return false
		}
	}
	return true
}
