package dungeon

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

func TestStartCreatesFreshDungeonAndSpawnsRoomZero(t *testing.T) {
	e := newTestEngine(t)
	e.Players.Insert("alice", model.Player{Identity: "alice", MaxHP: 100, HP: 100})

	if err := Start(e, time.Now(), "alice"); err != nil {
		t.Fatalf("Start: %v", err)
	}

	var dungeonID uint64
	found := false
	e.ActiveDungeons.Scan(func(id uint64, d model.ActiveDungeon) {
		dungeonID, found = id, true
		if d.OwnerIdentity != "alice" || d.TotalRooms != 4 {
			t.Fatalf("unexpected dungeon: %+v", d)
		}
	})
	if !found {
		t.Fatalf("expected an active dungeon")
	}

	enemies := e.DungeonEnemies.Filter(func(en model.DungeonEnemy) bool { return en.DungeonID == dungeonID })
	if len(enemies) != len(model.RoomEnemyTable[0]) {
		t.Fatalf("spawned %d enemies, want %d", len(enemies), len(model.RoomEnemyTable[0]))
	}

	if _, ok := e.DungeonParticipants.Find(engine.DungeonPlayerKey{DungeonID: dungeonID, Identity: "alice"}); !ok {
		t.Fatalf("expected alice to be a participant")
	}
}

func TestStartJoinsExistingDungeonWithOtherParticipants(t *testing.T) {
	e := newTestEngine(t)
	e.Players.Insert("alice", model.Player{Identity: "alice", MaxHP: 100, HP: 100})
	e.Players.Insert("bob", model.Player{Identity: "bob", MaxHP: 100, HP: 100})

	if err := Start(e, time.Now(), "alice"); err != nil {
		t.Fatalf("Start(alice): %v", err)
	}
	if err := Start(e, time.Now(), "bob"); err != nil {
		t.Fatalf("Start(bob): %v", err)
	}

	dungeonCount := 0
	e.ActiveDungeons.Scan(func(uint64, model.ActiveDungeon) { dungeonCount++ })
	if dungeonCount != 1 {
		t.Fatalf("expected bob to join alice's dungeon, got %d dungeons", dungeonCount)
	}
}

func TestEnterRoomRejectsNonParticipantAndInvalidRoom(t *testing.T) {
	e := newTestEngine(t)
	e.Players.Insert("alice", model.Player{Identity: "alice", MaxHP: 100, HP: 100})
	Start(e, time.Now(), "alice")

	var dungeonID uint64
	e.ActiveDungeons.Scan(func(id uint64, _ model.ActiveDungeon) { dungeonID = id })

	if err := EnterRoom(e, "bob", dungeonID, 1); err != command.ErrNotParticipant {
		t.Fatalf("err = %v, want ErrNotParticipant", err)
	}
	if err := EnterRoom(e, "alice", dungeonID, 99); err != command.ErrInvalidRoom {
		t.Fatalf("err = %v, want ErrInvalidRoom", err)
	}
}

func TestCompleteAwardsRewardsAndTearsDownDungeon(t *testing.T) {
	e := newTestEngine(t)
	e.Players.Insert("alice", model.Player{Identity: "alice", MaxHP: 100, HP: 50})
	Start(e, time.Now(), "alice")

	var dungeonID uint64
	e.ActiveDungeons.Scan(func(id uint64, _ model.ActiveDungeon) { dungeonID = id })

	if err := Complete(e, "alice", dungeonID, nil, nil); err != nil {
		t.Fatalf("Complete: %v", err)
	}

	player, _ := e.Players.Find("alice")
	if player.Gold != 20 || player.XP != 50 || player.DungeonsCleared != 1 {
		t.Fatalf("unexpected rewards: %+v", player)
	}
	if player.HP != player.MaxHP {
		t.Fatalf("expected a full heal on completion")
	}
	if _, ok := e.ActiveDungeons.Find(dungeonID); ok {
		t.Fatalf("expected the dungeon to be torn down")
	}
}

func TestCompleteHonorsClientOverrideRewards(t *testing.T) {
	e := newTestEngine(t)
	e.Players.Insert("alice", model.Player{Identity: "alice", MaxHP: 100, HP: 50})
	Start(e, time.Now(), "alice")

	var dungeonID uint64
	e.ActiveDungeons.Scan(func(id uint64, _ model.ActiveDungeon) { dungeonID = id })

	gold, xp := uint64(999), uint64(111)
	if err := Complete(e, "alice", dungeonID, &gold, &xp); err != nil {
		t.Fatalf("Complete: %v", err)
	}
	player, _ := e.Players.Find("alice")
	if player.Gold != 999 || player.XP != 111 {
		t.Fatalf("expected client-supplied rewards to be honored, got %+v", player)
	}
}

func TestCleanupRemovesEverythingForADungeon(t *testing.T) {
	e := newTestEngine(t)
	e.DungeonEnemies.Insert(1, model.DungeonEnemy{ID: 1, DungeonID: 5})
	e.LootDrops.Insert(1, model.LootDrop{ID: 1, DungeonID: 5})
	e.DungeonParticipants.Insert(engine.DungeonPlayerKey{DungeonID: 5, Identity: "alice"}, model.DungeonParticipant{DungeonID: 5, Identity: "alice"})
	e.PlayerPositions.Insert("alice", model.PlayerPosition{Identity: "alice", DungeonID: 5})
	e.PlayerMessages.Insert(1, model.PlayerMessage{ID: 1, DungeonID: 5})

	Cleanup(e, 5)

	if e.DungeonEnemies.Len() != 0 || e.LootDrops.Len() != 0 || e.DungeonParticipants.Len() != 0 ||
		e.PlayerPositions.Len() != 0 || e.PlayerMessages.Len() != 0 {
		t.Fatalf("expected every dungeon-5 row to be deleted")
	}
}
