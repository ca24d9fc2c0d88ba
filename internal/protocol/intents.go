package protocol

import (
	"encoding/json"
	"fmt"
)

// Client -> Server intent names.
const (
	IntCreateRoom     = "create_room"
	IntJoinRoom       = "join_room"
	IntUpdateSettings = "update_settings"
	IntUpdateTeamName = "update_team_name"
	IntStartGame      = "start_game"
	IntSubmitAnswer   = "submit_answer"
	IntLeaveRoom      = "leave_room"
)

// Intent is any outbound message the client may emit.
type Intent interface {
	IntentName() string
}

type CreateRoom struct {
	PlayerName string `json:"player_name"`
}

type JoinRoom struct {
	PlayerName string `json:"player_name"`
	RoomCode   string `json:"room_code"`
}

type UpdateSettings struct {
	Settings
}

type UpdateTeamName struct {
	Team string `json:"team"` // team1 | team2
	Name string `json:"name"`
}

type StartGame struct{}

type SubmitAnswer struct {
	AnswerIndex int `json:"answer_index"`
}

type LeaveRoom struct{}

func (CreateRoom) IntentName() string     { return IntCreateRoom }
func (JoinRoom) IntentName() string       { return IntJoinRoom }
func (UpdateSettings) IntentName() string { return IntUpdateSettings }
func (UpdateTeamName) IntentName() string { return IntUpdateTeamName }
func (StartGame) IntentName() string      { return IntStartGame }
func (SubmitAnswer) IntentName() string   { return IntSubmitAnswer }
func (LeaveRoom) IntentName() string      { return IntLeaveRoom }

// EncodeIntent frames an intent for the wire.
func EncodeIntent(in Intent) ([]byte, error) {
	data, err := json.Marshal(in)
	if err != nil {
		return nil, fmt.Errorf("protocol: encode %s: %w", in.IntentName(), err)
	}
	return json.Marshal(Envelope{Event: in.IntentName(), Data: data})
}
