package ai

import (
	"math"

	"github.com/ashfallmmo/dungeoncore/internal/engine"
	"github.com/ashfallmmo/dungeoncore/internal/model"
)

// shieldKnightAI drives advance → shield_bash → recover, with a background
// plain attack. state_timer is overloaded: positive values are bash/recover
// countdowns, values at or below -1 are a plain-attack cooldown reset to
// -2.5 on hit — which immediately underflows into recover on the next tick.
// That quirk is implemented exactly as observed, not "fixed" — see
// DESIGN.md.
func shieldKnightAI(e *engine.Engine, enemy *model.DungeonEnemy, target model.PlayerPosition, dist, nx, ny, dt float32) {
	speed := model.EnemySpeed(enemy.EnemyType) * dt * 60.0

	enemy.FacingAngle = float32(math.Atan2(float64(ny), float64(nx)))
	enemy.StateTimer -= dt

	switch enemy.AIState {
	case model.StateShield:
		if enemy.StateTimer <= 0 {
			enemy.AIState = model.StateRecover
			enemy.StateTimer = model.ShieldRecoverTime
			if dist < 50.0 {
				damage := int32(float32(enemy.ATK)*0.5) - defOf(e, target.Identity)/2
				if damage < 1 {
					damage = 1
				}
				ApplyDamage(e, target.Identity, damage)
			}
		}
	case model.StateRecover:
		if enemy.StateTimer <= 0 {
			enemy.AIState = model.StateAdvance
			enemy.StateTimer = model.ShieldBashCD
		}
	default:
		if dist > model.EnemyAttackRange {
			enemy.X += nx * speed
			enemy.Y += ny * speed
		}
		if enemy.StateTimer <= 0 && dist < 50.0 {
			enemy.AIState = model.StateShield
			enemy.StateTimer = 0.3
		}
		if dist < model.EnemyAttackRange && enemy.StateTimer <= -1.0 {
			enemy.StateTimer = -2.5
			ApplyDamage(e, target.Identity, MeleeDamage(enemy.ATK, defOf(e, target.Identity)))
		}
	}
}
