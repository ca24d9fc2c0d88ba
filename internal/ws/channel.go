package ws

import (
	"context"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/t-1mka/QuizBattle/internal/client"
	"github.com/t-1mka/QuizBattle/internal/protocol"
	"github.com/t-1mka/QuizBattle/internal/session"
)

const writeTimeout = 3 * time.Second

// Channel is the bidirectional room-scoped message channel to the game
// server. Framing and reconnection policy live here, outside the state
// machine.
type Channel struct {
	conn   *websocket.Conn
	selfID string
	log    *zap.Logger
}

// Dial connects to the server. The server assigns the session identifier
// via the X-Session-Id handshake header; if absent we fall back to a local
// unique id (the server will still address us consistently per connection).
func Dial(ctx context.Context, url string, log *zap.Logger) (*Channel, error) {
	conn, resp, err := websocket.Dial(ctx, url, nil)
	if err != nil {
		return nil, err
	}
	selfID := ""
	if resp != nil {
		selfID = resp.Header.Get("X-Session-Id")
	}
	if selfID == "" {
		selfID = uuid.NewString()
	}
	return &Channel{conn: conn, selfID: selfID, log: log}, nil
}

// SelfID is the identifier the server addresses this participant by.
func (ch *Channel) SelfID() string { return ch.selfID }

// Send writes one intent frame.
func (ch *Channel) Send(ctx context.Context, in protocol.Intent) error {
	payload, err := protocol.EncodeIntent(in)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	return ch.conn.Write(ctx, websocket.MessageText, payload)
}

// ReadLoop decodes inbound frames into the client inbox until the
// connection drops, then delivers the disconnect signal. Undecodable frames
// are logged and skipped.
func (ch *Channel) ReadLoop(ctx context.Context, inbox chan<- client.Msg) error {
	for {
		_, data, err := ch.conn.Read(ctx)
		if err != nil {
			inbox <- client.Dispatch{Input: session.Disconnected{}}
			switch websocket.CloseStatus(err) {
			case websocket.StatusNormalClosure, websocket.StatusGoingAway:
				return nil
			}
			return err
		}
		ev, err := protocol.DecodeEvent(data)
		if err != nil {
			ch.log.Warn("bad frame", zap.Error(err))
			continue
		}
		inbox <- client.Dispatch{Input: session.FromServer{Event: ev}}
	}
}

func (ch *Channel) Close() error {
	return ch.conn.Close(websocket.StatusNormalClosure, "bye")
}
