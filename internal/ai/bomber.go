package ai

import (
	"math"

	"github.com/ashfallmmo/dungeoncore/internal/engine"
	"github.com/ashfallmmo/dungeoncore/internal/model"
)

// bomberAI chases until in trigger range, fuses, then explodes — damaging
// every player within the blast radius in the same dungeon and killing
// itself. A self-detonation never drops loot; only player kills do (C6).
func bomberAI(e *engine.Engine, enemy *model.DungeonEnemy, dist, nx, ny, dt float32) {
	speed := model.EnemySpeed(enemy.EnemyType) * dt * 60.0
	enemy.FacingAngle = float32(math.Atan2(float64(ny), float64(nx)))

	switch enemy.AIState {
	case model.StateFuse:
		enemy.StateTimer -= dt
		if enemy.StateTimer <= 0 {
			enemy.AIState = model.StateExplode
			detonate(e, enemy)
			enemy.HP = 0
			enemy.IsAlive = false
		}
	case model.StateExplode:
		// already exploded
	default:
		if dist < model.BomberTriggerRange {
			enemy.AIState = model.StateFuse
			enemy.StateTimer = model.BomberFuseTime
		} else {
			enemy.AIState = model.StateChase
			enemy.X += nx * speed
			enemy.Y += ny * speed
		}
	}
}

func detonate(e *engine.Engine, enemy *model.DungeonEnemy) {
	e.PlayerPositions.Scan(func(_ model.PlayerID, pos model.PlayerPosition) {
		if pos.DungeonID != enemy.DungeonID {
			return
		}
		expDist := float32(math.Sqrt(float64(dist2(pos.X, pos.Y, enemy.X, enemy.Y))))
		if expDist < model.BomberExplosionRadius {
			ApplyDamage(e, pos.Identity, MeleeDamage(enemy.ATK, defOf(e, pos.Identity)))
		}
	})
}
