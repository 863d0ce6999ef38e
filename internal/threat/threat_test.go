package threat

import (
	"testing"

	"github.com/ashfallmmo/dungeoncore/internal/engine"
	"github.com/ashfallmmo/dungeoncore/internal/model"
	"go.uber.org/zap"
)

func newTestEngine(t *testing.T) *engine.Engine {
	t.Helper()
	return engine.New(zap.NewNop())
}

func TestAddAccumulatesThreat(t *testing.T) {
	e := newTestEngine(t)
	Add(e, 1, 100, "alice", 10)
	Add(e, 1, 100, "alice", 5)

	key := engine.ThreatKey{DungeonID: 1, EnemyID: 100, Identity: "alice"}
	row, ok := e.ThreatEntries.Find(key)
	if !ok {
		t.Fatalf("expected a threat entry")
	}
	if row.Threat != 15 {
		t.Fatalf("Threat = %d, want 15", row.Threat)
	}
}

func TestHighestThreatPlayerPicksMax(t *testing.T) {
	e := newTestEngine(t)
	Add(e, 1, 100, "alice", 10)
	Add(e, 1, 100, "bob", 50)
	Add(e, 1, 100, "carol", 30)

	best, found := HighestThreatPlayer(e, 1, 100)
	if !found || best != "bob" {
		t.Fatalf("HighestThreatPlayer = (%v, %v), want (bob, true)", best, found)
	}
}

func TestHighestThreatPlayerIgnoresOtherEnemiesAndDungeons(t *testing.T) {
	e := newTestEngine(t)
	Add(e, 1, 100, "alice", 10)
	Add(e, 2, 100, "bob", 999)
	Add(e, 1, 200, "carol", 999)

	best, found := HighestThreatPlayer(e, 1, 100)
	if !found || best != model.PlayerID("alice") {
		t.Fatalf("HighestThreatPlayer = (%v, %v), want (alice, true)", best, found)
	}
}

func TestHighestThreatPlayerNotFoundWhenEmpty(t *testing.T) {
	e := newTestEngine(t)
	if _, found := HighestThreatPlayer(e, 1, 100); found {
		t.Fatalf("expected found=false on an empty threat table")
	}
}

func TestCleanupDungeonRemovesOnlyItsOwnEntries(t *testing.T) {
	e := newTestEngine(t)
	Add(e, 1, 100, "alice", 10)
	Add(e, 2, 100, "bob", 10)

	CleanupDungeon(e, 1)

	if _, found := HighestThreatPlayer(e, 1, 100); found {
		t.Fatalf("expected dungeon 1's threat entries to be gone")
	}
	if _, found := HighestThreatPlayer(e, 2, 100); !found {
		t.Fatalf("expected dungeon 2's threat entries to survive")
	}
}
