package ai

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

func TestMeleeDamageFloorsAtOne(t *testing.T) {
	if got := MeleeDamage(10, 100); got != 1 {
		t.Fatalf("MeleeDamage(10, 100) = %d, want 1 (floored)", got)
	}
	if got := MeleeDamage(20, 10); got != 15 {
		t.Fatalf("MeleeDamage(20, 10) = %d, want 15", got)
	}
}

func TestApplyDamageClampsAtZeroAndSkipsMissingPlayers(t *testing.T) {
	e := newTestEngine(t)
	e.Players.Insert("alice", model.Player{Identity: "alice", HP: 10, MaxHP: 100})

	ApplyDamage(e, "alice", 999)
	player, _ := e.Players.Find("alice")
	if player.HP != 0 {
		t.Fatalf("HP = %d, want 0", player.HP)
	}

	// Must not panic on an identity with no player row.
	ApplyDamage(e, "ghost", 10)
}

func TestSelectTargetPrefersTauntOverThreatAndNearest(t *testing.T) {
	e := newTestEngine(t)
	positions := []model.PlayerPosition{
		{Identity: "alice", DungeonID: 1, X: 0, Y: 0},
		{Identity: "bob", DungeonID: 1, X: 1000, Y: 1000},
	}
	enemy := model.DungeonEnemy{
		ID: 1, DungeonID: 1, X: 0, Y: 0, IsTaunted: true, TauntedBy: "bob",
	}

	target, ok := selectTarget(e, enemy, positions)
	if !ok || target.Identity != "bob" {
		t.Fatalf("target = %v, ok=%v, want bob", target.Identity, ok)
	}
}

func TestSelectTargetFallsBackToNearestWhenNoThreatOrTaunt(t *testing.T) {
	e := newTestEngine(t)
	positions := []model.PlayerPosition{
		{Identity: "alice", DungeonID: 1, X: 500, Y: 500},
		{Identity: "bob", DungeonID: 1, X: 10, Y: 10},
	}
	enemy := model.DungeonEnemy{ID: 1, DungeonID: 1, X: 0, Y: 0}

	target, ok := selectTarget(e, enemy, positions)
	if !ok || target.Identity != "bob" {
		t.Fatalf("target = %v, ok=%v, want bob (nearest)", target.Identity, ok)
	}
}

func TestSelectTargetIgnoresPlayersInOtherDungeons(t *testing.T) {
	e := newTestEngine(t)
	positions := []model.PlayerPosition{
		{Identity: "alice", DungeonID: 2, X: 0, Y: 0},
	}
	enemy := model.DungeonEnemy{ID: 1, DungeonID: 1, X: 0, Y: 0}

	if _, ok := selectTarget(e, enemy, positions); ok {
		t.Fatalf("expected no target across dungeons")
	}
}

func TestTickMovesBasicMeleeEnemyTowardTarget(t *testing.T) {
	e := newTestEngine(t)
	e.PlayerPositions.Insert("alice", model.PlayerPosition{Identity: "alice", DungeonID: 1, X: 1000, Y: 0})
	e.DungeonEnemies.Insert(1, model.DungeonEnemy{
		ID: 1, DungeonID: 1, EnemyType: "slime", IsAlive: true, X: 0, Y: 0, ATK: 5,
	})

	Tick(e)

	enemy, _ := e.DungeonEnemies.Find(1)
	if enemy.X <= 0 {
		t.Fatalf("expected the enemy to move toward its target, X = %v", enemy.X)
	}
	if enemy.CurrentTarget != "alice" {
		t.Fatalf("CurrentTarget = %v, want alice", enemy.CurrentTarget)
	}
}

func TestTickSkipsDeadEnemies(t *testing.T) {
	e := newTestEngine(t)
	e.DungeonEnemies.Insert(1, model.DungeonEnemy{ID: 1, DungeonID: 1, IsAlive: false, X: 0, Y: 0})

	Tick(e)

	enemy, _ := e.DungeonEnemies.Find(1)
	if enemy.X != 0 {
		t.Fatalf("expected a dead enemy to be left untouched")
	}
}

func TestRaidBossEntersPhase3AndAppliesDefaultEnrage(t *testing.T) {
	e := newTestEngine(t)
	target := model.PlayerPosition{Identity: "alice", DungeonID: 1, X: 100, Y: 0}
	enemy := &model.DungeonEnemy{
		ID: 1, DungeonID: 1, EnemyType: "raid_boss",
		HP: 10, MaxHP: 100, ATK: 100, BossPhase: 2, X: 0, Y: 0,
	}

	raidBossAI(e, enemy, target, 100, 1, 0, DT, []model.PlayerPosition{target})

	if enemy.BossPhase != 3 {
		t.Fatalf("BossPhase = %d, want 3", enemy.BossPhase)
	}
	if enemy.ATK != 150 {
		t.Fatalf("ATK = %d, want 150 (default 1.5x enrage, no scripts loaded)", enemy.ATK)
	}
}
