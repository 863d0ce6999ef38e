package ai

import (
	"math"

	"github.com/ashfallmmo/dungeoncore/internal/engine"
	"github.com/ashfallmmo/dungeoncore/internal/model"
	"github.com/ashfallmmo/dungeoncore/internal/threat"
)

// DT is the fixed timestep every AI tick advances enemy state by.
const DT = model.AITickDT

// Tick runs one 20 Hz AI step over every alive dungeon enemy: taunt decay,
// target selection (taunt override > highest threat > nearest), the tank
// slow aura, and the per-archetype state machine. Called from inside an
// engine.Transact, so it owns the store exclusively for its duration.
func Tick(e *engine.Engine) {
	positions := e.PlayerPositions.Filter(func(model.PlayerPosition) bool { return true })
	allEnemies := e.DungeonEnemies.Filter(func(model.DungeonEnemy) bool { return true })

	e.DungeonEnemies.Scan(func(id uint64, enemy model.DungeonEnemy) {
		if !enemy.IsAlive {
			return
		}
		stepEnemy(e, id, enemy, positions, allEnemies)
	})
}

func stepEnemy(e *engine.Engine, id uint64, enemy model.DungeonEnemy, positions []model.PlayerPosition, allEnemies []model.DungeonEnemy) {
	if enemy.IsTaunted && enemy.TauntTimer > 0 {
		enemy.TauntTimer -= DT
		if enemy.TauntTimer <= 0 {
			enemy.IsTaunted = false
			enemy.TauntedBy = ""
		}
	}

	target, ok := selectTarget(e, enemy, positions)
	if !ok {
		e.DungeonEnemies.Update(id, enemy)
		return
	}
	enemy.CurrentTarget = target.Identity

	tankNearby := false
	for _, p := range positions {
		if p.DungeonID != enemy.DungeonID || p.Class != model.ClassTank {
			continue
		}
		if dist2(p.X, p.Y, enemy.X, enemy.Y) <= 50*50 {
			tankNearby = true
			break
		}
	}
	speedMult := float32(1.0)
	if tankNearby {
		speedMult = 0.7
	}

	dx := target.X - enemy.X
	dy := target.Y - enemy.Y
	dist := float32(math.Sqrt(float64(dx*dx + dy*dy)))
	var nx, ny float32
	if dist > 0.1 {
		nx, ny = dx/dist, dy/dist
	}

	switch enemy.EnemyType {
	case "charger":
		chargerAI(e, &enemy, target, dx, dy, dist, nx, ny, DT*speedMult)
	case "wolf":
		wolfAI(e, &enemy, target, dist, DT*speedMult, allEnemies)
	case "necromancer":
		necromancerAI(e, &enemy, dist, nx, ny, DT)
	case "bomber":
		bomberAI(e, &enemy, dist, nx, ny, DT*speedMult)
	case "shield_knight":
		shieldKnightAI(e, &enemy, target, dist, nx, ny, DT*speedMult)
	case "archer":
		archerAI(e, &enemy, target, dist, nx, ny, DT)
	case "raid_boss":
		raidBossAI(e, &enemy, target, dist, nx, ny, DT, positions)
	default:
		basicMeleeAI(e, &enemy, target, dist, nx, ny, DT*speedMult)
	}

	enemy.X = clamp(enemy.X, model.TileSize, model.RoomW-model.TileSize)
	enemy.Y = clamp(enemy.Y, model.TileSize, model.RoomH-model.TileSize)

	e.DungeonEnemies.Update(id, enemy)
}

// selectTarget applies taunt override, then highest-threat, then nearest
// fallback, restricted to players present in the enemy's own dungeon.
func selectTarget(e *engine.Engine, enemy model.DungeonEnemy, positions []model.PlayerPosition) (model.PlayerPosition, bool) {
	if enemy.IsTaunted {
		for _, p := range positions {
			if p.Identity == enemy.TauntedBy {
				return p, true
			}
		}
	} else if id, found := threat.HighestThreatPlayer(e, enemy.DungeonID, enemy.ID); found {
		for _, p := range positions {
			if p.Identity == id {
				return p, true
			}
		}
	}

	var best model.PlayerPosition
	bestDist := float32(math.MaxFloat32)
	found := false
	for _, p := range positions {
		if p.DungeonID != enemy.DungeonID {
			continue
		}
		d := dist2(p.X, p.Y, enemy.X, enemy.Y)
		if !found || d < bestDist {
			best, bestDist, found = p, d, true
		}
	}
	return best, found
}

func clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
