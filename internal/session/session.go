package session

import (
	"errors"
	"fmt"
	"maps"
	"strings"

	"github.com/t-1mka/QuizBattle/internal/protocol"
	"github.com/t-1mka/QuizBattle/internal/room"
	"github.com/t-1mka/QuizBattle/internal/settings"
	"github.com/t-1mka/QuizBattle/internal/toast"
)

var ErrEmptyName = errors.New("empty player name")
var ErrBadRoomCode = errors.New("invalid room code")
var ErrNotHost = errors.New("host-only action")
var ErrWrongPhase = errors.New("action not allowed in this phase")
var ErrBadAnswerIndex = errors.New("answer index out of range")
var ErrNotYourTurn = errors.New("not your team's turn")
var ErrBadTeam = errors.New("unknown team")
var ErrUnsupportedInput = errors.New("unsupported input")

// Input is anything that can drive a session transition: a decoded server
// event, a local user intent, a timer signal, or a transport notice.
type Input interface{ isInput() }

// FromServer wraps one inbound protocol event.
type FromServer struct{ Event protocol.Event }

// Local user intents.
type CreateRoom struct{ PlayerName string }
type JoinRoom struct {
	PlayerName string
	RoomCode   string
}
type ApplySettings struct{ Settings protocol.Settings }
type RenameTeam struct {
	Team string
	Name string
}
type StartGame struct{}
type SubmitAnswer struct{ Index int }
type Leave struct{}

// Timer signals, forwarded by the owner of the timer.
type TimerTick struct{ Remaining int }
type TimerExpired struct{}

// Disconnected is the transport-level loss signal, fatal to the session.
type Disconnected struct{}

func (FromServer) isInput()    {}
func (CreateRoom) isInput()    {}
func (JoinRoom) isInput()      {}
func (ApplySettings) isInput() {}
func (RenameTeam) isInput()    {}
func (StartGame) isInput()     {}
func (SubmitAnswer) isInput()  {}
func (Leave) isInput()         {}
func (TimerTick) isInput()     {}
func (TimerExpired) isInput()  {}
func (Disconnected) isInput()  {}

type EffectType string

const (
	EffSend            EffectType = "Send"
	EffStartTimer      EffectType = "StartTimer"
	EffStopTimer       EffectType = "StopTimer"
	EffNotify          EffectType = "Notify"
	EffSettingsChanged EffectType = "SettingsChanged"
)

// Effect is a side effect the caller must execute after a transition. The
// reducer itself never touches the network, the timer, or the notice queue.
type Effect struct {
	Type    EffectType
	Intent  protocol.Intent // EffSend
	Seconds int             // EffStartTimer
	Level   toast.Level     // EffNotify
	Message string          // EffNotify
	Fields  []string        // EffSettingsChanged
}

func send(in protocol.Intent) Effect {
	return Effect{Type: EffSend, Intent: in}
}

func notify(level toast.Level, message string) Effect {
	return Effect{Type: EffNotify, Level: level, Message: message}
}

func startTimer(seconds int) Effect {
	return Effect{Type: EffStartTimer, Seconds: seconds}
}

func stopTimer() Effect {
	return Effect{Type: EffStopTimer}
}

// Apply is the deterministic reducer: one input in, effects plus the next
// state out. Errors are local validation rejections; the state is returned
// unchanged alongside them. Expected races (late submissions, stray
// duplicate events) are dropped silently with neither effects nor error.
func Apply(s State, in Input) ([]Effect, State, error) {
	switch msg := in.(type) {
	case FromServer:
		return applyEvent(s, msg.Event)

	case CreateRoom:
		if s.Phase != PhaseMain {
			return nil, s, ErrWrongPhase
		}
		name := strings.TrimSpace(msg.PlayerName)
		if name == "" {
			return nil, s, ErrEmptyName
		}
		return []Effect{send(protocol.CreateRoom{PlayerName: name})}, s, nil

	case JoinRoom:
		if s.Phase != PhaseMain {
			return nil, s, ErrWrongPhase
		}
		name := strings.TrimSpace(msg.PlayerName)
		if name == "" {
			return nil, s, ErrEmptyName
		}
		code := room.NormalizeCode(msg.RoomCode)
		if !room.ValidCode(code) {
			return nil, s, ErrBadRoomCode
		}
		return []Effect{send(protocol.JoinRoom{PlayerName: name, RoomCode: code})}, s, nil

	case ApplySettings:
		if s.Phase != PhaseLobby {
			return nil, s, ErrWrongPhase
		}
		if !s.Room.IsHost {
			return nil, s, ErrNotHost
		}
		raw := settings.Normalize(msg.Settings)
		return []Effect{send(protocol.UpdateSettings{Settings: raw})}, s, nil

	case RenameTeam:
		if s.Phase == PhaseMain {
			return nil, s, ErrWrongPhase
		}
		if !s.Room.IsHost {
			return nil, s, ErrNotHost
		}
		if msg.Team != "team1" && msg.Team != "team2" {
			return nil, s, ErrBadTeam
		}
		name := strings.TrimSpace(msg.Name)
		if name == "" {
			return nil, s, ErrEmptyName
		}
		if r := []rune(name); len(r) > 50 {
			name = string(r[:50])
		}
		return []Effect{send(protocol.UpdateTeamName{Team: msg.Team, Name: name})}, s, nil

	case StartGame:
		if s.Phase != PhaseLobby {
			return nil, s, ErrWrongPhase
		}
		if !s.Room.IsHost {
			return nil, s, ErrNotHost
		}
		return []Effect{send(protocol.StartGame{})}, s, nil

	case SubmitAnswer:
		if s.Phase != PhaseInGame {
			return nil, s, ErrWrongPhase
		}
		if s.Game.QPhase != QAnswering {
			// Late or duplicate submission after the lock: expected under
			// timer-expiry races, dropped without error.
			return nil, s, nil
		}
		if msg.Index < 0 || msg.Index >= len(s.Game.Question.Options) {
			return nil, s, ErrBadAnswerIndex
		}
		if s.Game.Mode == ModeTeam && s.Game.YourTeam != s.Game.TurnTeam {
			return nil, s, ErrNotYourTurn
		}
		ns := s
		ns.Game.QPhase = QLocked
		ns.Game.Answered = true
		ns.Game.ChosenIndex = msg.Index
		return []Effect{send(protocol.SubmitAnswer{AnswerIndex: msg.Index})}, ns, nil

	case TimerTick:
		if s.Phase != PhaseInGame {
			return nil, s, nil
		}
		ns := s
		ns.Game.Remaining = msg.Remaining
		if msg.Remaining <= 0 && ns.Game.QPhase == QAnswering {
			ns.Game.QPhase = QLocked
		}
		return nil, ns, nil

	case TimerExpired:
		if s.Phase != PhaseInGame || s.Game.QPhase != QAnswering {
			return nil, s, nil
		}
		ns := s
		ns.Game.Remaining = 0
		ns.Game.QPhase = QLocked
		return nil, ns, nil

	case Leave:
		effects := []Effect{stopTimer()}
		if s.Phase != PhaseMain {
			effects = append(effects, send(protocol.LeaveRoom{}))
		}
		return effects, New(s.SelfID), nil

	case Disconnected:
		ns := New(s.SelfID)
		ns.LastError = "Соединение потеряно"
		return []Effect{stopTimer(), notify(toast.LevelError, "Соединение потеряно. Переподключитесь.")}, ns, nil

	default:
		return nil, s, ErrUnsupportedInput
	}
}

func applyEvent(s State, ev protocol.Event) ([]Effect, State, error) {
	switch e := ev.(type) {
	case *protocol.RoomCreated:
		return enterLobby(s, e.RoomCode, e.Players, e.IsHost, e.Settings, e.YourTeam, e.TeamNames)

	case *protocol.RoomJoined:
		return enterLobby(s, e.RoomCode, e.Players, e.IsHost, e.Settings, e.YourTeam, e.TeamNames)

	case *protocol.PlayerJoined:
		if s.Room.Code == "" {
			return nil, s, nil
		}
		ns := replaceRoster(s, e.Players)
		return []Effect{notify(toast.LevelSuccess, "Новый игрок!")}, ns, nil

	case *protocol.PlayersUpdate:
		if s.Room.Code == "" {
			return nil, s, nil
		}
		return nil, replaceRoster(s, e.Players), nil

	case *protocol.HostChanged:
		if s.Room.Code == "" {
			return nil, s, nil
		}
		ns := s
		ns.Room = s.Room.WithHost(e.Host)
		return []Effect{notify(toast.LevelInfo, "Новый хост: "+e.Host)}, ns, nil

	case *protocol.SettingsUpdated:
		// Settings only mutate while in the lobby.
		if s.Phase != PhaseLobby {
			return nil, s, nil
		}
		prev := settings.Project(s.Room.Settings)
		next := settings.Project(e.Settings)
		ns := s
		ns.Room = s.Room.WithSettings(e.Settings)
		ns.ChangedSettings = settings.Diff(prev, next)
		if len(ns.ChangedSettings) == 0 {
			return nil, ns, nil
		}
		effects := []Effect{{Type: EffSettingsChanged, Fields: ns.ChangedSettings}}
		if !s.Room.IsHost {
			effects = append(effects, notify(toast.LevelInfo, "Хост обновил настройки"))
		}
		return effects, ns, nil

	case *protocol.TeamNameUpdated:
		if s.Room.Code == "" {
			return nil, s, nil
		}
		ns := s
		ns.Room = s.Room.WithTeamNames(e.TeamNames)
		return nil, ns, nil

	case *protocol.GameLoading:
		if s.Phase != PhaseLobby {
			return nil, s, nil
		}
		ns := s
		ns.Phase = PhaseLoading
		ns.LoadingMessage = e.Message
		return nil, ns, nil

	case *protocol.GameStarted:
		if s.Phase != PhaseLobby && s.Phase != PhaseLoading {
			return nil, s, nil
		}
		ns := s
		ns.Phase = PhaseInGame
		ns.LoadingMessage = ""
		ns.Game = emptyGame(Mode(e.Mode), e.YourTeam)
		return nil, ns, nil

	case *protocol.NewQuestion:
		if s.Phase != PhaseInGame {
			return nil, s, nil
		}
		// A question lands only between rounds; a stray duplicate while
		// answering or locked is ignored idempotently.
		if s.Game.QPhase == QAnswering || s.Game.QPhase == QLocked {
			return nil, s, nil
		}
		ns := s
		ns.Game.QPhase = QAnswering
		ns.Game.Question = Question{
			Number:    e.QuestionNumber,
			Total:     e.TotalQuestions,
			Text:      e.Question.Question,
			Options:   e.Question.Options,
			TimeLimit: e.TimeLimit,
		}
		ns.Game.Remaining = e.TimeLimit
		ns.Game.Answered = false
		ns.Game.ChosenIndex = -1
		ns.Game.CorrectIndex = -1
		ns.Game.PlayerAnswers = nil
		ns.Game.FFAFlash = nil
		ns.Game.LastAck = nil
		ns.Game.Interim = nil
		if e.Mode != "" {
			ns.Game.Mode = Mode(e.Mode)
		}
		ns.Game.TurnTeam = e.TurnTeam
		if e.TeamScores != nil {
			ns.Game.TeamScores = maps.Clone(e.TeamScores)
		}
		return []Effect{startTimer(e.TimeLimit)}, ns, nil

	case *protocol.AnswerAck:
		if s.Phase != PhaseInGame {
			return nil, s, nil
		}
		ns := s
		ack := *e
		ns.Game.LastAck = &ack
		var effects []Effect
		if e.Correct {
			if e.Streak >= 2 {
				effects = append(effects, notify(toast.LevelStreak, fmt.Sprintf("Серия ×%d!", e.Streak)))
			}
			if e.Points > 0 {
				effects = append(effects, notify(toast.LevelSuccess, fmt.Sprintf("+%d очков", e.Points)))
			}
		}
		return effects, ns, nil

	case *protocol.FFACorrect:
		if s.Phase != PhaseInGame || s.Game.FFAFlash != nil {
			return nil, s, nil
		}
		ns := s
		ns.Game.FFAFlash = &FFAFlash{PlayerName: e.PlayerName, Points: e.Points}
		msg := fmt.Sprintf("%s первый! +%d", e.PlayerName, e.Points)
		return []Effect{notify(toast.LevelSuccess, msg)}, ns, nil

	case *protocol.QuestionResult:
		if s.Phase != PhaseInGame || s.Game.QPhase == QResolved {
			return nil, s, nil
		}
		ns := s
		ns.Game.QPhase = QResolved
		ns.Game.CorrectIndex = e.CorrectIndex
		ns.Game.PlayerAnswers = maps.Clone(e.PlayerAnswers)
		ns.Game.Scores = maps.Clone(e.Scores)
		if ns.Game.Scores == nil {
			ns.Game.Scores = map[string]int{}
		}
		ns.Game.Streaks, ns.Game.TotalCorrect = advanceStreaks(s.Game, e.PlayerAnswers)
		if e.TeamScores != nil {
			ns.Game.TeamScores = maps.Clone(e.TeamScores)
		}
		return []Effect{stopTimer()}, ns, nil

	case *protocol.InterimResults:
		if s.Phase != PhaseInGame {
			return nil, s, nil
		}
		ns := s
		ns.Game.Interim = e.Players
		return nil, ns, nil

	case *protocol.GameOver:
		if s.Phase != PhaseInGame {
			return nil, s, nil
		}
		ns := s
		ns.Phase = PhaseResults
		ns.Results = Leaderboard{
			Players:    e.Players,
			Mode:       Mode(e.Mode),
			Winner:     e.Winner,
			TeamScores: maps.Clone(e.TeamScores),
		}
		return []Effect{stopTimer()}, ns, nil

	case *protocol.ServerError:
		// Fail-safe: a server error discards the session rather than
		// rendering on possibly corrupted state.
		ns := New(s.SelfID)
		ns.LastError = e.Message
		return []Effect{stopTimer(), notify(toast.LevelError, e.Message)}, ns, nil

	default:
		return nil, s, nil
	}
}

func enterLobby(s State, code string, players []protocol.Player, isHost bool, raw protocol.Settings, yourTeam string, teamNames map[string]string) ([]Effect, State, error) {
	if s.Phase != PhaseMain {
		return nil, s, nil
	}
	ns := New(s.SelfID)
	ns.Phase = PhaseLobby
	ns.Room = room.New(code, players, isHost, settings.Normalize(raw))
	ns.Room.YourTeam = yourTeam
	if teamNames != nil {
		ns.Room = ns.Room.WithTeamNames(teamNames)
	}
	return nil, ns, nil
}

func replaceRoster(s State, players []protocol.Player) State {
	ns := s
	ns.Room = s.Room.WithRoster(players)
	// Host status follows our own roster entry, not the host_changed
	// broadcast, so a name collision cannot grant host controls.
	if p, ok := ns.Room.PlayerBySID(s.SelfID); ok {
		ns.Room.IsHost = p.IsHost
		if p.Team != "" {
			ns.Room.YourTeam = p.Team
			ns.Game.YourTeam = p.Team
		}
	}
	return ns
}

// advanceStreaks folds one resolution into per-player streak and
// total-correct counters. Streaks reset on an incorrect or absent answer, so
// replaying the same resolutions from an empty game reproduces them exactly.
func advanceStreaks(g Game, answers map[string]protocol.PlayerAnswer) (streaks, totalCorrect map[string]int) {
	streaks = maps.Clone(g.Streaks)
	if streaks == nil {
		streaks = map[string]int{}
	}
	totalCorrect = maps.Clone(g.TotalCorrect)
	if totalCorrect == nil {
		totalCorrect = map[string]int{}
	}
	for sid, ans := range answers {
		if ans.Correct {
			streaks[sid]++
			totalCorrect[sid]++
		} else {
			streaks[sid] = 0
		}
	}
	return streaks, totalCorrect
}
