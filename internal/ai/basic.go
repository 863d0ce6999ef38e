package ai

import (
	"math"

	"github.com/ashfallmmo/dungeoncore/internal/engine"
	"github.com/ashfallmmo/dungeoncore/internal/model"
)

// basicMeleeAI drives slime/skeleton/bat: chase until in range, then attack
// on a 1.2s cooldown.
func basicMeleeAI(e *engine.Engine, enemy *model.DungeonEnemy, target model.PlayerPosition, dist, nx, ny, dt float32) {
	speed := model.EnemySpeed(enemy.EnemyType) * dt * 60.0

	enemy.FacingAngle = float32(math.Atan2(float64(ny), float64(nx)))

	if enemy.StateTimer > 0 {
		enemy.StateTimer -= dt
	}

	if dist <= model.EnemyAttackRange {
		if enemy.StateTimer <= 0 {
			enemy.StateTimer = 1.2
			enemy.AIState = model.AIState("attack")
			ApplyDamage(e, target.Identity, MeleeDamage(enemy.ATK, defOf(e, target.Identity)))
		}
	} else {
		enemy.AIState = model.StateChase
		enemy.X += nx * speed
		enemy.Y += ny * speed
	}
}

func defOf(e *engine.Engine, identity model.PlayerID) int32 {
	player, ok := e.Players.Find(identity)
	if !ok {
		return 0
	}
	return player.DEF
}
