package model

import "testing"

func TestClassStatsKnownAndFallback(t *testing.T) {
	hp, atk, def, speed := ClassStats(ClassTank)
	if hp != 130 || atk != 8 || def != 7 || speed != 4 {
		t.Fatalf("tank stats = (%d,%d,%d,%d)", hp, atk, def, speed)
	}
	hp, atk, def, speed = ClassStats(PlayerClass("necromancer"))
	if hp != 100 || atk != 10 || def != 5 || speed != 5 {
		t.Fatalf("fallback stats = (%d,%d,%d,%d), want the generic (100,10,5,5) line", hp, atk, def, speed)
	}
}

func TestEnemyScaleAddsFifteenPercentPerDepth(t *testing.T) {
	if got := EnemyScale(1); got != 1.0 {
		t.Fatalf("EnemyScale(1) = %v, want 1.0", got)
	}
	if got := EnemyScale(3); got != 1.3 {
		t.Fatalf("EnemyScale(3) = %v, want 1.3", got)
	}
}

func TestEnemyStatsScalesKnownTypeAndFallsBackForUnknown(t *testing.T) {
	hp, atk := EnemyStats("slime", 1)
	if hp != 40 || atk != 8 {
		t.Fatalf("EnemyStats(slime, 1) = (%d,%d), want (40,8)", hp, atk)
	}
	hp, atk = EnemyStats("totally_unknown", 1)
	if hp != 20 || atk != 5 {
		t.Fatalf("unknown-type EnemyStats = (%d,%d), want the generic fallback (20,5)", hp, atk)
	}
}

func TestOverrideEnemyBaseStatsAppliesToFutureLookups(t *testing.T) {
	original, _ := enemyBaseStats["slime"]
	defer func() { enemyBaseStats["slime"] = original }()

	OverrideEnemyBaseStats("slime", 999, 999)
	hp, atk := EnemyStats("slime", 1)
	if hp != 999 || atk != 999 {
		t.Fatalf("EnemyStats after override = (%d,%d), want (999,999)", hp, atk)
	}
}

func TestEnemySpeedKnownAndDefaultMultiplier(t *testing.T) {
	if got := EnemySpeed("charger"); got != EnemyMoveSpeed*2.5 {
		t.Fatalf("charger speed = %v", got)
	}
	if got := EnemySpeed("slime"); got != EnemyMoveSpeed {
		t.Fatalf("default speed = %v, want base move speed", got)
	}
}

func TestEnemyXPKnownAndDefault(t *testing.T) {
	if got := EnemyXP("necromancer"); got != 50 {
		t.Fatalf("EnemyXP(necromancer) = %d, want 50", got)
	}
	if got := EnemyXP("totally_unknown"); got != 10 {
		t.Fatalf("EnemyXP(unknown) = %d, want the default 10", got)
	}
}

func TestOverrideRoomEnemiesGrowsTableAndReplacesExisting(t *testing.T) {
	original := RoomEnemyTable
	defer func() { RoomEnemyTable = original }()

	OverrideRoomEnemies(0, []string{"bat"})
	if len(RoomEnemyTable[0]) != 1 || RoomEnemyTable[0][0] != "bat" {
		t.Fatalf("room 0 = %v, want [bat]", RoomEnemyTable[0])
	}

	OverrideRoomEnemies(10, []string{"necromancer"})
	if len(RoomEnemyTable) <= 10 || RoomEnemyTable[10][0] != "necromancer" {
		t.Fatalf("expected the table to grow to hold room 10")
	}
}

func TestCheckLevelUpAppliesEveryEarnedLevel(t *testing.T) {
	newLevel, newMaxHP, newAtk, newDef := CheckLevelUp(1, 250, 100, 10, 5)
	if newLevel != 3 {
		t.Fatalf("newLevel = %d, want 3 (250 xp clears level*100 twice)", newLevel)
	}
	if newMaxHP != 120 || newAtk != 14 || newDef != 7 {
		t.Fatalf("stats after 2 level-ups = (%d,%d,%d), want (120,14,7)", newMaxHP, newAtk, newDef)
	}
}

func TestCheckLevelUpNoOpBelowThreshold(t *testing.T) {
	newLevel, newMaxHP, _, _ := CheckLevelUp(1, 50, 100, 10, 5)
	if newLevel != 1 || newMaxHP != 100 {
		t.Fatalf("expected no level-up below the xp threshold, got level=%d hp=%d", newLevel, newMaxHP)
	}
}

func TestInitialAIStateMarksWolfAsPack(t *testing.T) {
	state, isPack := InitialAIState("wolf")
	if state != StateOrbit || !isPack {
		t.Fatalf("wolf initial state = (%v, %v), want (StateOrbit, true)", state, isPack)
	}
	state, isPack = InitialAIState("slime")
	if state != StateChase || isPack {
		t.Fatalf("slime initial state = (%v, %v), want (StateChase, false)", state, isPack)
	}
}
