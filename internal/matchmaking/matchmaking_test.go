package matchmaking

import (
	"testing"
	"time"

	"github.com/ashfallmmo/dungeoncore/internal/command"
	"github.com/ashfallmmo/dungeoncore/internal/engine"
	"github.com/ashfallmmo/dungeoncore/internal/model"
	"go.uber.org/zap"
)

func newTestEngine(t *testing.T) *engine.Engine {
	t.Helper()
	return engine.New(zap.NewNop())
}

func TestQueueDungeonValidatesTierAndDifficulty(t *testing.T) {
	e := newTestEngine(t)
	e.Players.Insert("alice", model.Player{Identity: "alice"})

	if err := QueueDungeon(e, time.Now(), "alice", 0, 1); err != command.ErrInvalidTier {
		t.Fatalf("err = %v, want ErrInvalidTier", err)
	}
	if err := QueueDungeon(e, time.Now(), "alice", 1, 6); err != command.ErrInvalidDifficulty {
		t.Fatalf("err = %v, want ErrInvalidDifficulty", err)
	}
}

func TestQueueDungeonArmsMatchmaking(t *testing.T) {
	e := newTestEngine(t)
	e.Players.Insert("alice", model.Player{Identity: "alice"})

	if err := QueueDungeon(e, time.Now(), "alice", 1, 1); err != nil {
		t.Fatalf("QueueDungeon: %v", err)
	}
	select {
	case <-e.MatchmakingArm:
	default:
		t.Fatalf("expected QueueDungeon to arm the matchmaking scheduler")
	}
}

func TestQueueRaidRejectsDuringCooldown(t *testing.T) {
	e := newTestEngine(t)
	e.Players.Insert("alice", model.Player{Identity: "alice", Class: model.ClassTank})
	e.RaidCooldowns.Insert("alice", model.RaidCooldown{Identity: "alice", CooldownUntilMS: time.Now().Add(time.Hour).UnixMilli()})

	if err := QueueRaid(e, time.Now(), "alice"); err != command.ErrOnCooldown {
		t.Fatalf("err = %v, want ErrOnCooldown", err)
	}
}

func TestQueueingSwitchesBetweenQueuesExclusively(t *testing.T) {
	e := newTestEngine(t)
	e.Players.Insert("alice", model.Player{Identity: "alice", Class: model.ClassTank})

	QueueDungeon(e, time.Now(), "alice", 1, 1)
	if _, ok := e.DungeonQueue.Find("alice"); !ok {
		t.Fatalf("expected alice in the dungeon queue")
	}

	QueueRaid(e, time.Now(), "alice")
	if _, ok := e.DungeonQueue.Find("alice"); ok {
		t.Fatalf("expected alice to leave the dungeon queue when queueing for a raid")
	}
	if _, ok := e.RaidQueue.Find("alice"); !ok {
		t.Fatalf("expected alice in the raid queue")
	}
}

func TestTickDungeonQueuesStartsOnceTwoPlayersReady(t *testing.T) {
	e := newTestEngine(t)
	e.Players.Insert("alice", model.Player{Identity: "alice"})
	e.Players.Insert("bob", model.Player{Identity: "bob"})
	now := time.Now()

	QueueDungeon(e, now, "alice", 1, 1)
	if e.ActiveDungeons.Len() != 0 {
		t.Fatalf("should not start a dungeon for a single queued player")
	}

	QueueDungeon(e, now, "bob", 1, 1)
	TickDungeonQueues(e, now)

	if e.ActiveDungeons.Len() != 1 {
		t.Fatalf("expected a dungeon to start once 2 players queued, got %d", e.ActiveDungeons.Len())
	}
	if e.DungeonQueue.Len() != 0 {
		t.Fatalf("expected both players removed from the queue")
	}
}

func TestTickDungeonQueuesStartsAfterTimeoutWithOnePlayer(t *testing.T) {
	e := newTestEngine(t)
	e.Players.Insert("alice", model.Player{Identity: "alice"})
	now := time.Now()

	QueueDungeon(e, now.Add(-31*time.Second), "alice", 1, 1)
	TickDungeonQueues(e, now)

	if e.ActiveDungeons.Len() != 1 {
		t.Fatalf("expected a solo dungeon to start after the queue timeout")
	}
}

func TestTickRaidQueuesWaitsForFullRoster(t *testing.T) {
	e := newTestEngine(t)
	now := time.Now()
	for _, id := range []model.PlayerID{"tank", "healer", "dps1"} {
		e.Players.Insert(id, model.Player{Identity: id})
	}
	e.RaidQueue.Insert("tank", model.RaidQueue{Identity: "tank", Class: model.ClassTank, QueuedAtMS: now.UnixMilli()})
	e.RaidQueue.Insert("healer", model.RaidQueue{Identity: "healer", Class: model.ClassHealer, QueuedAtMS: now.UnixMilli()})
	e.RaidQueue.Insert("dps1", model.RaidQueue{Identity: "dps1", Class: model.ClassDPS, QueuedAtMS: now.UnixMilli()})

	TickRaidQueues(e, now)
	if e.RaidInstances.Len() != 0 {
		t.Fatalf("expected no raid to form with only one DPS queued")
	}

	e.Players.Insert("dps2", model.Player{Identity: "dps2"})
	e.RaidQueue.Insert("dps2", model.RaidQueue{Identity: "dps2", Class: model.ClassDPS, QueuedAtMS: now.UnixMilli()})
	TickRaidQueues(e, now)

	if e.RaidInstances.Len() != 1 {
		t.Fatalf("expected a raid to form once 1 tank/1 healer/2 dps are queued")
	}
	if e.RaidQueue.Len() != 0 {
		t.Fatalf("expected the full roster removed from the queue")
	}
}

func TestStartSoloBypassesTheQueue(t *testing.T) {
	e := newTestEngine(t)
	e.Players.Insert("alice", model.Player{Identity: "alice"})

	if err := StartSolo(e, time.Now(), "alice", 2, 3); err != nil {
		t.Fatalf("StartSolo: %v", err)
	}
	if e.ActiveDungeons.Len() != 1 {
		t.Fatalf("expected an immediate dungeon instance")
	}
	if e.DungeonEnemies.Len() == 0 {
		t.Fatalf("expected tier 2 enemies to spawn")
	}
}
