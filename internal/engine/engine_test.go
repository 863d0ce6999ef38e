package engine

import (
	"errors"
	"testing"

	"github.com/ashfallmmo/dungeoncore/internal/event"
	"github.com/ashfallmmo/dungeoncore/internal/model"
	"go.uber.org/zap"
)

func TestTransactDispatchesEventsEmittedDuringTheTransaction(t *testing.T) {
	e := New(zap.NewNop())
	var seen []model.PlayerID
	event.Subscribe(e.Bus, func(rc event.RowChange[model.Player]) {
		seen = append(seen, rc.Row.Identity)
	})

	err := e.Transact(func(e *Engine) error {
		e.Players.Insert("alice", model.Player{Identity: "alice"})
		return nil
	})
	if err != nil {
		t.Fatalf("Transact: %v", err)
	}
	if len(seen) != 1 || seen[0] != "alice" {
		t.Fatalf("seen = %v, want one RowChange for alice", seen)
	}
}

func TestTransactReturnsHandlerError(t *testing.T) {
	e := New(zap.NewNop())
	wantErr := errors.New("boom")

	err := e.Transact(func(e *Engine) error { return wantErr })
	if !errors.Is(err, wantErr) {
		t.Fatalf("err = %v, want %v", err, wantErr)
	}
}

func TestArmMatchmakingIsSafeWithoutAListener(t *testing.T) {
	e := New(zap.NewNop())
	e.ArmMatchmaking()
	select {
	case <-e.MatchmakingArm:
	default:
		t.Fatalf("expected the arm signal to be buffered")
	}
}
