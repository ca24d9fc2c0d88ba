package protocol

import (
	"encoding/json"
	"fmt"
)

// Server -> Client event names.
const (
	EvtRoomCreated     = "room_created"
	EvtRoomJoined      = "room_joined"
	EvtPlayerJoined    = "player_joined"
	EvtPlayersUpdate   = "players_update"
	EvtHostChanged     = "host_changed"
	EvtSettingsUpdated = "settings_updated"
	EvtTeamNameUpdated = "team_name_updated"
	EvtGameLoading     = "game_loading"
	EvtGameStarted     = "game_started"
	EvtNewQuestion     = "new_question"
	EvtAnswerAck       = "answer_ack"
	EvtFFACorrect      = "ffa_correct"
	EvtQuestionResult  = "question_result"
	EvtInterimResults  = "interim_results"
	EvtGameOver        = "game_over"
	EvtError           = "error"
)

// Event is any decoded server -> client message.
type Event interface{ isEvent() }

// Player is the roster entry shape the server sends. Rosters are always
// complete (full replace), never deltas.
type Player struct {
	SID          string `json:"sid,omitempty"`
	Name         string `json:"name"`
	Team         string `json:"team,omitempty"` // "team1" | "team2" | ""
	IsHost       bool   `json:"is_host"`
	Score        int    `json:"score"`
	TotalCorrect int    `json:"total_correct"`
}

// Settings is the raw host-configured settings record.
type Settings struct {
	Topic         string `json:"topic"`
	QuestionCount int    `json:"question_count"`
	Difficulty    string `json:"difficulty"` // easy | medium | hard
	NumOptions    int    `json:"num_options"`
	GameMode      string `json:"game_mode"` // classic | ffa | team
}

type QuestionPayload struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
}

type PlayerAnswer struct {
	Answer  int  `json:"answer"` // -1 when unanswered
	Correct bool `json:"correct"`
}

type RoomCreated struct {
	RoomCode  string            `json:"room_code"`
	Players   []Player          `json:"players"`
	IsHost    bool              `json:"is_host"`
	Settings  Settings          `json:"settings"`
	YourTeam  string            `json:"your_team,omitempty"`
	TeamNames map[string]string `json:"team_names,omitempty"`
}

type RoomJoined struct {
	RoomCode  string            `json:"room_code"`
	Players   []Player          `json:"players"`
	IsHost    bool              `json:"is_host"`
	Settings  Settings          `json:"settings"`
	YourTeam  string            `json:"your_team,omitempty"`
	TeamNames map[string]string `json:"team_names,omitempty"`
}

type PlayerJoined struct {
	Players []Player `json:"players"`
}

type PlayersUpdate struct {
	Players []Player `json:"players"`
}

type HostChanged struct {
	Host string `json:"host"`
}

type SettingsUpdated struct {
	Settings Settings `json:"settings"`
}

type TeamNameUpdated struct {
	TeamNames map[string]string `json:"team_names"`
}

type GameLoading struct {
	Message string `json:"message"`
}

type GameStarted struct {
	Mode     string `json:"mode"`
	YourTeam string `json:"your_team,omitempty"`
}

type NewQuestion struct {
	QuestionNumber int             `json:"question_number"`
	TotalQuestions int             `json:"total_questions"`
	Question       QuestionPayload `json:"question"`
	TimeLimit      int             `json:"time_limit"`
	Mode           string          `json:"mode"`
	TeamScores     map[string]int  `json:"team_scores,omitempty"`
	TurnTeam       string          `json:"turn_team,omitempty"`
}

type AnswerAck struct {
	Correct bool `json:"correct"`
	Streak  int  `json:"streak,omitempty"`
	Points  int  `json:"points,omitempty"`
}

type FFACorrect struct {
	PlayerName string `json:"player_name"`
	Points     int    `json:"points"`
}

type QuestionResult struct {
	CorrectIndex  int                     `json:"correct_index"`
	CorrectAnswer string                  `json:"correct_answer,omitempty"`
	PlayerAnswers map[string]PlayerAnswer `json:"player_answers"`
	Scores        map[string]int          `json:"scores"`
	TeamScores    map[string]int          `json:"team_scores,omitempty"`
	Mode          string                  `json:"mode,omitempty"`
}

type InterimEntry struct {
	Name  string `json:"name"`
	Score int    `json:"score"`
}

type InterimResults struct {
	Players      []InterimEntry `json:"players"`
	NextQuestion int            `json:"next_question,omitempty"`
}

type FinalEntry struct {
	Rank         int    `json:"rank"`
	Name         string `json:"name"`
	Team         string `json:"team,omitempty"`
	Score        int    `json:"score"`
	TotalCorrect int    `json:"total_correct"`
}

type GameOver struct {
	Players    []FinalEntry   `json:"players"`
	Mode       string         `json:"mode"`
	Winner     string         `json:"winner,omitempty"` // team1 | team2 | draw
	TeamScores map[string]int `json:"team_scores,omitempty"`
}

type ServerError struct {
	Message string `json:"message"`
}

func (RoomCreated) isEvent()     {}
func (RoomJoined) isEvent()      {}
func (PlayerJoined) isEvent()    {}
func (PlayersUpdate) isEvent()   {}
func (HostChanged) isEvent()     {}
func (SettingsUpdated) isEvent() {}
func (TeamNameUpdated) isEvent() {}
func (GameLoading) isEvent()     {}
func (GameStarted) isEvent()     {}
func (NewQuestion) isEvent()     {}
func (AnswerAck) isEvent()       {}
func (FFACorrect) isEvent()      {}
func (QuestionResult) isEvent()  {}
func (InterimResults) isEvent()  {}
func (GameOver) isEvent()        {}
func (ServerError) isEvent()     {}

// Envelope is the framing for every message on the channel.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// DecodeEvent parses one inbound frame into its typed event.
func DecodeEvent(raw []byte) (Event, error) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("protocol: bad envelope: %w", err)
	}
	return decodePayload(env.Event, env.Data)
}

func decodePayload(name string, data json.RawMessage) (Event, error) {
	var ev Event
	switch name {
	case EvtRoomCreated:
		ev = &RoomCreated{}
	case EvtRoomJoined:
		ev = &RoomJoined{}
	case EvtPlayerJoined:
		ev = &PlayerJoined{}
	case EvtPlayersUpdate:
		ev = &PlayersUpdate{}
	case EvtHostChanged:
		ev = &HostChanged{}
	case EvtSettingsUpdated:
		ev = &SettingsUpdated{}
	case EvtTeamNameUpdated:
		ev = &TeamNameUpdated{}
	case EvtGameLoading:
		ev = &GameLoading{}
	case EvtGameStarted:
		ev = &GameStarted{}
	case EvtNewQuestion:
		ev = &NewQuestion{}
	case EvtAnswerAck:
		ev = &AnswerAck{}
	case EvtFFACorrect:
		ev = &FFACorrect{}
	case EvtQuestionResult:
		ev = &QuestionResult{}
	case EvtInterimResults:
		ev = &InterimResults{}
	case EvtGameOver:
		ev = &GameOver{}
	case EvtError:
		ev = &ServerError{}
	default:
		return nil, fmt.Errorf("protocol: unknown event %q", name)
	}
	if len(data) > 0 {
		if err := json.Unmarshal(data, ev); err != nil {
			return nil, fmt.Errorf("protocol: decode %s: %w", name, err)
		}
	}
	return ev, nil
}
