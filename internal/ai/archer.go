package ai

import (
	"math"

	"github.com/ashfallmmo/dungeoncore/internal/engine"
	"github.com/ashfallmmo/dungeoncore/internal/model"
)

// archerAI kites within its kite distance, shoots on cooldown within its
// shoot range, and otherwise closes in slowly. Uses dt as-is rather than
// the tank-slowed dt, matching the ranged-archetype exemption in the AI
// dispatch.
func archerAI(e *engine.Engine, enemy *model.DungeonEnemy, target model.PlayerPosition, dist, nx, ny, dt float32) {
	speed := model.EnemySpeed(enemy.EnemyType) * dt * 60.0

	enemy.FacingAngle = float32(math.Atan2(float64(ny), float64(nx)))
	enemy.StateTimer -= dt

	switch {
	case dist < model.ArcherKiteDistance:
		enemy.AIState = model.StateKite
		enemy.X -= nx * speed
		enemy.Y -= ny * speed
	case dist < model.ArcherShootRange:
		if enemy.StateTimer <= 0 {
			enemy.AIState = model.AIState("shoot")
			enemy.StateTimer = model.ArcherShootCD
			enemy.TargetX = target.X
			enemy.TargetY = target.Y
			ApplyDamage(e, target.Identity, MeleeDamage(enemy.ATK, defOf(e, target.Identity)))
		} else {
			enemy.AIState = model.StateKite
		}
	default:
		enemy.AIState = model.StateChase
		enemy.X += nx * speed * 0.5
		enemy.Y += ny * speed * 0.5
	}
}
