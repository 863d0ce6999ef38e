package ai

import (
	"math"

	"github.com/ashfallmmo/dungeoncore/internal/engine"
	"github.com/ashfallmmo/dungeoncore/internal/model"
)

// necromancerAI flees close range, teleports when cornered, and otherwise
// keeps distance. "summon" is a label only — no entity is spawned, matching
// the source this was distilled from exactly (see DESIGN.md).
func necromancerAI(e *engine.Engine, enemy *model.DungeonEnemy, dist, nx, ny, dt float32) {
	speed := model.EnemySpeed(enemy.EnemyType) * dt * 60.0

	enemy.FacingAngle = float32(math.Atan2(float64(ny), float64(nx)))
	enemy.StateTimer -= dt

	switch {
	case dist < model.NecroFleeDistance:
		if enemy.StateTimer <= 0 {
			enemy.TargetX = model.TileSize*2.0 + float32(math.Abs(math.Sin(float64(enemy.ID)*1.7)))*(model.RoomW-model.TileSize*4.0)
			enemy.TargetY = model.TileSize*3.0 + float32(math.Abs(math.Cos(float64(enemy.ID)*2.3)))*(model.RoomH-model.TileSize*6.0)
			enemy.X = enemy.TargetX
			enemy.Y = enemy.TargetY
			enemy.AIState = model.AIState("teleport")
			enemy.StateTimer = model.NecroTeleportCD
		} else {
			enemy.AIState = model.StateFlee
			enemy.X -= nx * speed
			enemy.Y -= ny * speed
		}
	case dist < 150.0:
		enemy.AIState = model.StateFlee
		enemy.X -= nx * speed * 0.5
		enemy.Y -= ny * speed * 0.5
	default:
		enemy.AIState = model.AIState("summon")
	}
}
