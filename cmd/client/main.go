package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/t-1mka/QuizBattle/internal/client"
	"github.com/t-1mka/QuizBattle/internal/session"
	"github.com/t-1mka/QuizBattle/internal/timer"
	"github.com/t-1mka/QuizBattle/internal/ws"
)

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	_ = godotenv.Load()

	log, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	serverURL := getenv("QUIZBATTLE_SERVER_URL", "ws://localhost:5000/ws")
	playerName := getenv("QUIZBATTLE_PLAYER_NAME", "Игрок")
	roomCode := os.Getenv("QUIZBATTLE_ROOM_CODE")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	channel, err := ws.Dial(ctx, serverURL, log)
	if err != nil {
		log.Fatal("dial failed", zap.String("url", serverURL), zap.Error(err))
	}
	defer channel.Close()

	c := client.New(ctx, channel.SelfID(), channel, clockwork.NewRealClock(), log)

	out := make(chan client.Snapshot, 8)
	c.Inbox() <- client.Subscribe{ID: "console", Outbox: out}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return channel.ReadLoop(ctx, c.Inbox())
	})
	g.Go(func() error {
		// Trivial presentation adapter: log each published snapshot.
		for snap := range out {
			fields := []zap.Field{
				zap.Int("version", snap.Version),
				zap.String("phase", string(snap.State.Phase)),
			}
			if snap.State.Room.Code != "" {
				fields = append(fields, zap.String("room", snap.State.Room.Code))
			}
			if snap.State.Phase == session.PhaseInGame {
				fields = append(fields,
					zap.String("question_phase", string(snap.State.Game.QPhase)),
					zap.Int("remaining", snap.State.Game.Remaining),
					zap.Int("urgency", int(timer.UrgencyFor(snap.State.Game.Remaining))),
					zap.Int("score", snap.State.YourScore()),
				)
			}
			for _, t := range snap.Toasts {
				log.Info("notice", zap.String("level", string(t.Level)), zap.String("message", t.Message))
			}
			log.Info("session", fields...)
		}
		return nil
	})

	if roomCode != "" {
		c.Inbox() <- client.Dispatch{Input: session.JoinRoom{PlayerName: playerName, RoomCode: roomCode}}
	} else {
		c.Inbox() <- client.Dispatch{Input: session.CreateRoom{PlayerName: playerName}}
	}

	if err := g.Wait(); err != nil && ctx.Err() == nil {
		log.Error("connection closed", zap.Error(err))
	}
}
