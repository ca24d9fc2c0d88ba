package session

import (
	"github.com/t-1mka/QuizBattle/internal/protocol"
	"github.com/t-1mka/QuizBattle/internal/room"
)

type Phase string

const (
	PhaseMain    Phase = "main"
	PhaseLobby   Phase = "lobby"
	PhaseLoading Phase = "loading"
	PhaseInGame  Phase = "in_game"
	PhaseResults Phase = "results"
)

// QuestionPhase is the per-question sub-state while in game.
type QuestionPhase string

const (
	QAwaiting  QuestionPhase = "awaiting_question"
	QAnswering QuestionPhase = "answering"
	QLocked    QuestionPhase = "locked"
	QResolved  QuestionPhase = "resolved"
)

type Mode string

const (
	ModeClassic Mode = "classic"
	ModeFFA     Mode = "ffa"
	ModeTeam    Mode = "team"
)

// Question is the active round as rendered to the player. The correct index
// is unknown until resolution.
type Question struct {
	Number    int
	Total     int
	Text      string
	Options   []string
	TimeLimit int
}

// FFAFlash is the race-winner notice for FFA rounds, shown at most once per
// question.
type FFAFlash struct {
	PlayerName string
	Points     int
}

// Game is the in-game portion of the session state.
type Game struct {
	Mode     Mode
	YourTeam string // team1 | team2 | "" outside team mode
	QPhase   QuestionPhase
	Question Question

	Remaining   int
	Answered    bool
	ChosenIndex int // -1 until a submission is accepted

	// Resolution data, authoritative from the server.
	CorrectIndex  int // -1 until resolved
	PlayerAnswers map[string]protocol.PlayerAnswer

	Scores       map[string]int
	Streaks      map[string]int
	TotalCorrect map[string]int
	TeamScores   map[string]int
	TurnTeam     string

	FFAFlash *FFAFlash
	LastAck  *protocol.AnswerAck
	Interim  []protocol.InterimEntry
}

// Leaderboard is the terminal standings. Ranks come straight from the
// server; the client never re-derives them.
type Leaderboard struct {
	Players    []protocol.FinalEntry
	Mode       Mode
	Winner     string // team1 | team2 | draw | ""
	TeamScores map[string]int
}

// State is the whole client-side session. One value per active room
// membership; transitions go through Apply.
type State struct {
	SelfID string
	Phase  Phase

	Room           room.Room
	LoadingMessage string
	Game           Game
	Results        Leaderboard

	// ChangedSettings holds the projection fields touched by the latest
	// settings_updated, for targeted display refresh.
	ChangedSettings []string

	LastError string
}

// New returns the initial state for a participant identified by selfID.
func New(selfID string) State {
	return State{
		SelfID: selfID,
		Phase:  PhaseMain,
		Game:   emptyGame("", ""),
	}
}

func emptyGame(mode Mode, yourTeam string) Game {
	return Game{
		Mode:         mode,
		YourTeam:     yourTeam,
		QPhase:       QAwaiting,
		ChosenIndex:  -1,
		CorrectIndex: -1,
		Scores:       map[string]int{},
		Streaks:      map[string]int{},
		TotalCorrect: map[string]int{},
		TeamScores:   map[string]int{},
	}
}

// YourScore is the local participant's cumulative score.
func (s State) YourScore() int {
	return s.Game.Scores[s.SelfID]
}

// YourStreak is the local participant's current consecutive-correct streak.
func (s State) YourStreak() int {
	return s.Game.Streaks[s.SelfID]
}

// CanAnswer reports whether option input is currently accepted from the
// local participant.
func (s State) CanAnswer() bool {
	if s.Phase != PhaseInGame || s.Game.QPhase != QAnswering {
		return false
	}
	if s.Game.Mode == ModeTeam && s.Game.YourTeam != s.Game.TurnTeam {
		return false
	}
	return true
}
