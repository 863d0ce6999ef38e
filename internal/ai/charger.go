package ai

import (
	"math"

	"github.com/ashfallmmo/dungeoncore/internal/engine"
	"github.com/ashfallmmo/dungeoncore/internal/model"
)

// chargerAI drives idle → telegraph → charge → stunned. TargetX/TargetY
// hold the locked charge direction once telegraph begins.
func chargerAI(e *engine.Engine, enemy *model.DungeonEnemy, target model.PlayerPosition, dx, dy, dist, nx, ny, dt float32) {
	baseSpeed := model.EnemySpeed(enemy.EnemyType) * dt * 60.0

	switch enemy.AIState {
	case model.StateStunned:
		enemy.StateTimer -= dt
		if enemy.StateTimer <= 0 {
			enemy.AIState = model.StateIdle
			enemy.StateTimer = 0
		}
	case model.StateTelegraph:
		enemy.StateTimer -= dt
		if enemy.StateTimer > model.ChargerTelegraphTime-0.1 {
			enemy.TargetX, enemy.TargetY = dx, dy
			mag := float32(math.Sqrt(float64(dx*dx + dy*dy)))
			if mag > 0.1 {
				enemy.TargetX /= mag
				enemy.TargetY /= mag
			}
			enemy.FacingAngle = float32(math.Atan2(float64(enemy.TargetY), float64(enemy.TargetX)))
		}
		if enemy.StateTimer <= 0 {
			enemy.AIState = model.StateCharge
			enemy.StateTimer = model.ChargerChargeDuration
		}
	case model.StateCharge:
		enemy.StateTimer -= dt
		chargeSpeed := baseSpeed * model.ChargerChargeSpeedMult
		newX := enemy.X + enemy.TargetX*chargeSpeed
		newY := enemy.Y + enemy.TargetY*chargeSpeed

		if newX < model.TileSize || newX > model.RoomW-model.TileSize ||
			newY < model.TileSize || newY > model.RoomH-model.TileSize {
			enemy.AIState = model.StateStunned
			enemy.StateTimer = model.ChargerStunTime
		} else {
			enemy.X = newX
			enemy.Y = newY

			playerDist := float32(math.Sqrt(float64(dist2(target.X, target.Y, enemy.X, enemy.Y))))
			if playerDist < 30.0 {
				enemy.AIState = model.StateStunned
				enemy.StateTimer = model.ChargerStunTime
				damage := int32(float32(enemy.ATK)*1.5) - defOf(e, target.Identity)/2
				if damage < 1 {
					damage = 1
				}
				ApplyDamage(e, target.Identity, damage)
			}
		}
		if enemy.StateTimer <= 0 {
			enemy.AIState = model.StateIdle
			enemy.StateTimer = 0
		}
	default:
		enemy.FacingAngle = float32(math.Atan2(float64(ny), float64(nx)))
		if dist > 60.0 {
			enemy.X += nx * baseSpeed * 0.5
			enemy.Y += ny * baseSpeed * 0.5
		}
		enemy.StateTimer -= dt
		if enemy.StateTimer <= 0 && dist < model.ChargerDetectRange {
			enemy.AIState = model.StateTelegraph
			enemy.StateTimer = model.ChargerTelegraphTime
		}
	}
}
