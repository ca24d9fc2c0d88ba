package client

import (
	"context"
	"errors"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/t-1mka/QuizBattle/internal/protocol"
	"github.com/t-1mka/QuizBattle/internal/session"
	"github.com/t-1mka/QuizBattle/internal/timer"
	"github.com/t-1mka/QuizBattle/internal/toast"
)

// Sender pushes an intent onto the wire. Implemented by the ws channel; nil
// senders are rejected at construction so effects can always be executed.
type Sender interface {
	Send(ctx context.Context, in protocol.Intent) error
}

type Msg interface{ isClientMsg() }

// Dispatch feeds one session input (server event, user intent) to the
// reducer.
type Dispatch struct{ Input session.Input }

// Subscribe registers a snapshot consumer (the presentation adapter).
type Subscribe struct {
	ID     string
	Outbox chan Snapshot
}

type Unsubscribe struct{ ID string }

type Shutdown struct{}

// GetState reflects internal state without data races; test-only.
type GetState struct{ Reply chan View }

func (Dispatch) isClientMsg()    {}
func (Subscribe) isClientMsg()   {}
func (Unsubscribe) isClientMsg() {}
func (Shutdown) isClientMsg()    {}
func (GetState) isClientMsg()    {}

// Snapshot is one published view of the session, versioned so consumers can
// discard stale frames.
type Snapshot struct {
	Version int
	State   session.State
	Toasts  []toast.Toast
}

type View struct {
	Version        int
	NumSubscribers int
	State          session.State
}

// Client is the single-threaded owner of the session state machine. All
// mutation happens in its loop; the timer and the outbound channel are
// driven through effects returned by the reducer.
type Client struct {
	inbox   chan Msg
	state   session.State
	version int
	subs    map[string]chan Snapshot

	sender Sender
	timer  *timer.Timer
	timerC <-chan timer.Signal
	toasts *toast.Queue
	log    *zap.Logger

	ctx    context.Context
	cancel context.CancelFunc
}

func New(parent context.Context, selfID string, sender Sender, clock clockwork.Clock, log *zap.Logger) *Client {
	ctx, cancel := context.WithCancel(parent)
	c := &Client{
		inbox:  make(chan Msg, 64),
		state:  session.New(selfID),
		subs:   make(map[string]chan Snapshot),
		sender: sender,
		timer:  timer.New(clock),
		toasts: toast.NewQueue(clock),
		log:    log,
		ctx:    ctx,
		cancel: cancel,
	}
	go c.loop()
	return c
}

func (c *Client) Inbox() chan<- Msg { return c.inbox }

func (c *Client) loop() {
	for {
		select {
		case <-c.ctx.Done():
			c.shutdown()
			return

		case sig, ok := <-c.timerC:
			if !ok {
				c.timerC = nil
				continue
			}
			if sig.Expired {
				c.dispatch(session.TimerExpired{})
			} else {
				c.dispatch(session.TimerTick{Remaining: sig.Remaining})
			}

		case m := <-c.inbox:
			switch msg := m.(type) {
			case Subscribe:
				c.subs[msg.ID] = msg.Outbox
				msg.Outbox <- Snapshot{Version: c.version, State: c.state, Toasts: c.toasts.Active()}

			case Unsubscribe:
				delete(c.subs, msg.ID)

			case Dispatch:
				c.dispatch(msg.Input)

			case GetState:
				msg.Reply <- View{
					Version:        c.version,
					NumSubscribers: len(c.subs),
					State:          c.state,
				}

			case Shutdown:
				c.shutdown()
				return
			}
		}
	}
}

func (c *Client) dispatch(in session.Input) {
	effects, next, err := session.Apply(c.state, in)
	if err != nil {
		// Local validation rejection: surface as a notice, state untouched.
		c.log.Debug("input rejected", zap.Error(err))
		c.toasts.Push(toast.LevelError, rejectionText(err))
		c.version++
		c.broadcast()
		return
	}
	c.state = next
	c.version++
	for _, eff := range effects {
		c.execute(eff)
	}
	c.broadcast()
}

func (c *Client) execute(eff session.Effect) {
	switch eff.Type {
	case session.EffSend:
		if err := c.sender.Send(c.ctx, eff.Intent); err != nil {
			c.log.Warn("send failed", zap.String("intent", eff.Intent.IntentName()), zap.Error(err))
		}
	case session.EffStartTimer:
		c.timerC = c.timer.Start(eff.Seconds)
	case session.EffStopTimer:
		c.timer.Stop()
		c.timerC = nil
	case session.EffNotify:
		c.toasts.Push(eff.Level, eff.Message)
	case session.EffSettingsChanged:
		c.log.Info("settings changed", zap.Strings("fields", eff.Fields))
	}
}

func (c *Client) broadcast() {
	snap := Snapshot{Version: c.version, State: c.state, Toasts: c.toasts.Active()}
	for id, ch := range c.subs {
		select {
		case ch <- snap:
		default:
			// Subscriber is slow/full - drop them.
			close(ch)
			delete(c.subs, id)
		}
	}
}

func (c *Client) shutdown() {
	c.timer.Stop()
	for id, ch := range c.subs {
		close(ch)
		delete(c.subs, id)
	}
	c.cancel()
}

func rejectionText(err error) string {
	switch {
	case errors.Is(err, session.ErrEmptyName):
		return "Введите имя"
	case errors.Is(err, session.ErrBadRoomCode):
		return "Введите корректный код комнаты"
	case errors.Is(err, session.ErrNotHost):
		return "Это может делать только хост"
	case errors.Is(err, session.ErrBadAnswerIndex):
		return "Такого варианта нет"
	case errors.Is(err, session.ErrNotYourTurn):
		return "Сейчас отвечает другая команда"
	case errors.Is(err, session.ErrBadTeam):
		return "Неизвестная команда"
	default:
		return "Действие сейчас недоступно"
	}
}
