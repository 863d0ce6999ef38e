package openworld

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

func TestLevelForRoomScalesWithDistanceFromHub(t *testing.T) {
	center := model.OpenWorldGridSize / 2
	if got := levelForRoom(center, center); got != 1 {
		t.Fatalf("hub room level = %d, want 1", got)
	}
	if got := levelForRoom(0, center); got != 20 {
		t.Fatalf("far-corner room level = %d, want 20", got)
	}
}

func TestIsHotspotOnlyCardinalRooms(t *testing.T) {
	center := model.OpenWorldGridSize / 2
	if !IsHotspot(center, 1) {
		t.Fatalf("expected (center, 1) to be a hotspot")
	}
	if IsHotspot(center, center) {
		t.Fatalf("did not expect the hub room to be a hotspot")
	}
	if IsHotspot(0, 0) {
		t.Fatalf("did not expect a corner room to be a hotspot")
	}
}

func TestEnterCreatesShardAndSpawnsEnemies(t *testing.T) {
	e := newTestEngine(t)
	e.Players.Insert("alice", model.Player{Identity: "alice", Name: "Alice"})

	if err := Enter(e, time.Now(), "alice"); err != nil {
		t.Fatalf("Enter: %v", err)
	}
	if e.OpenWorldInstances.Len() != 1 {
		t.Fatalf("expected one shard, got %d", e.OpenWorldInstances.Len())
	}
	if e.OpenWorldEnemies.Len() == 0 {
		t.Fatalf("expected the new shard to be populated with enemies")
	}
	owp, ok := e.OpenWorldPlayers.Find("alice")
	if !ok {
		t.Fatalf("expected an open-world player row")
	}
	gm, ok := e.GameModes.Find("alice")
	if !ok || gm.Mode != model.ModeOpenWorld {
		t.Fatalf("expected game mode ModeOpenWorld, got %+v ok=%v", gm, ok)
	}
	if owp.InstanceID == 0 {
		t.Fatalf("expected a shard assignment")
	}
}

func TestEnterReusesShardWithSpareCapacity(t *testing.T) {
	e := newTestEngine(t)
	e.Players.Insert("alice", model.Player{Identity: "alice"})
	e.Players.Insert("bob", model.Player{Identity: "bob"})

	Enter(e, time.Now(), "alice")
	Enter(e, time.Now(), "bob")

	if e.OpenWorldInstances.Len() != 1 {
		t.Fatalf("expected bob to join alice's shard, got %d shards", e.OpenWorldInstances.Len())
	}
	inst := e.OpenWorldInstances.Filter(func(i model.OpenWorldInstance) bool { return true })[0]
	if inst.PlayerCount != 2 {
		t.Fatalf("PlayerCount = %d, want 2", inst.PlayerCount)
	}
}

func TestLeaveTearsDownShardWhenLastPlayerDeparts(t *testing.T) {
	e := newTestEngine(t)
	e.Players.Insert("alice", model.Player{Identity: "alice"})
	Enter(e, time.Now(), "alice")

	if err := Leave(e, "alice"); err != nil {
		t.Fatalf("Leave: %v", err)
	}
	if e.OpenWorldInstances.Len() != 0 {
		t.Fatalf("expected the shard to be torn down")
	}
	if e.OpenWorldEnemies.Len() != 0 {
		t.Fatalf("expected the shard's enemies to be cleaned up")
	}
	gm, _ := e.GameModes.Find("alice")
	if gm.Mode != model.ModeHub {
		t.Fatalf("expected game mode reset to ModeHub, got %v", gm.Mode)
	}
}

func TestUpdatePositionRejectsOutOfBoundsRoom(t *testing.T) {
	e := newTestEngine(t)
	e.Players.Insert("alice", model.Player{Identity: "alice"})
	Enter(e, time.Now(), "alice")

	if err := UpdatePosition(e, "alice", -1, 0, 0, 0, 0, 0, "", "", ""); err != command.ErrOutOfBounds {
		t.Fatalf("err = %v, want ErrOutOfBounds", err)
	}
}

func TestAttackRejectsWrongRoomAndOutOfRange(t *testing.T) {
	e := newTestEngine(t)
	e.Players.Insert("alice", model.Player{Identity: "alice", ATK: 10})
	Enter(e, time.Now(), "alice")

	owp, _ := e.OpenWorldPlayers.Find("alice")
	e.OpenWorldEnemies.Insert(1, model.OpenWorldEnemy{
		ID: 1, InstanceID: owp.InstanceID, RoomX: owp.RoomX + 1, RoomY: owp.RoomY,
		IsAlive: true, HP: 10, MaxHP: 10,
	})
	if err := Attack(e, time.Now(), "alice", 1); err != command.ErrWrongRoom {
		t.Fatalf("err = %v, want ErrWrongRoom", err)
	}

	e.OpenWorldEnemies.Insert(2, model.OpenWorldEnemy{
		ID: 2, InstanceID: owp.InstanceID, RoomX: owp.RoomX, RoomY: owp.RoomY,
		IsAlive: true, HP: 10, MaxHP: 10, X: owp.X + 10000, Y: owp.Y + 10000,
	})
	if err := Attack(e, time.Now(), "alice", 2); err != command.ErrOutOfRange {
		t.Fatalf("err = %v, want ErrOutOfRange", err)
	}
}

func TestAttackKillsEnemyAndSchedulesRespawn(t *testing.T) {
	e := newTestEngine(t)
	e.Players.Insert("alice", model.Player{Identity: "alice", ATK: 999, Level: 1})
	Enter(e, time.Now(), "alice")

	owp, _ := e.OpenWorldPlayers.Find("alice")
	now := time.Now()
	e.OpenWorldEnemies.Insert(1, model.OpenWorldEnemy{
		ID: 1, InstanceID: owp.InstanceID, RoomX: owp.RoomX, RoomY: owp.RoomY,
		EnemyType: "slime", IsAlive: true, HP: 1, MaxHP: 1, X: owp.X, Y: owp.Y,
	})

	if err := Attack(e, now, "alice", 1); err != nil {
		t.Fatalf("Attack: %v", err)
	}
	enemy, _ := e.OpenWorldEnemies.Find(1)
	if enemy.IsAlive {
		t.Fatalf("expected the enemy to be dead")
	}
	if enemy.RespawnAt <= now.UnixMilli() {
		t.Fatalf("expected a future respawn timestamp")
	}
	player, _ := e.Players.Find("alice")
	if player.XP == 0 {
		t.Fatalf("expected the player to gain xp")
	}
}

func TestTickRespawnsDueCorpses(t *testing.T) {
	e := newTestEngine(t)
	now := time.Now()
	e.OpenWorldEnemies.Insert(1, model.OpenWorldEnemy{
		ID: 1, InstanceID: 1, EnemyType: "slime", IsAlive: false, RespawnAt: now.Add(-time.Second).UnixMilli(),
	})

	Tick(e, now)

	enemy, _ := e.OpenWorldEnemies.Find(1)
	if !enemy.IsAlive || enemy.HP == 0 || enemy.RespawnAt != 0 {
		t.Fatalf("expected the corpse to respawn, got %+v", enemy)
	}
}
