package ai

import (
	"math"

	"github.com/ashfallmmo/dungeoncore/internal/engine"
	"github.com/ashfallmmo/dungeoncore/internal/model"
)

// wolfAI orbits the target in pack formation. state_timer is used as a
// phase accumulator (not a countdown) and grows unboundedly — see
// DESIGN.md's open-question decision on this. target_x doubles as the
// per-wolf attack cooldown.
func wolfAI(e *engine.Engine, enemy *model.DungeonEnemy, target model.PlayerPosition, dist, dt float32, allEnemies []model.DungeonEnemy) {
	speed := model.EnemySpeed(enemy.EnemyType) * dt * 60.0

	var pack []model.DungeonEnemy
	for _, o := range allEnemies {
		if o.IsAlive && o.EnemyType == "wolf" && o.DungeonID == enemy.DungeonID &&
			samePack(o.PackID, enemy.PackID) {
			pack = append(pack, o)
		}
	}
	packSize := len(pack)
	if packSize == 0 {
		packSize = 1
	}
	myIdx := 0
	for i, o := range pack {
		if o.ID == enemy.ID {
			myIdx = i
			break
		}
	}

	timeFactor := enemy.StateTimer
	enemy.StateTimer += dt

	angle := (2*math.Pi/float64(packSize))*float64(myIdx) + float64(timeFactor)
	orbitX := target.X + float32(math.Cos(angle))*model.WolfOrbitRadius
	orbitY := target.Y + float32(math.Sin(angle))*model.WolfOrbitRadius

	tdx := orbitX - enemy.X
	tdy := orbitY - enemy.Y
	tdist := float32(math.Sqrt(float64(tdx*tdx + tdy*tdy)))
	if tdist > 5.0 {
		enemy.X += (tdx / tdist) * speed
		enemy.Y += (tdy / tdist) * speed
	}

	enemy.FacingAngle = float32(math.Atan2(float64(target.Y-enemy.Y), float64(target.X-enemy.X)))

	closeWolves := 0
	for _, w := range pack {
		if dist2(target.X, target.Y, w.X, w.Y) < 60*60 {
			closeWolves++
		}
	}

	if dist < 40.0 {
		if closeWolves >= 2 {
			enemy.AIState = model.AIState("pack_attack")
		} else {
			enemy.AIState = model.AIState("attack")
		}
		if enemy.TargetX <= 0 {
			enemy.TargetX = model.WolfPackAttackCD
			ApplyDamage(e, target.Identity, MeleeDamage(enemy.ATK, defOf(e, target.Identity)))
		} else {
			enemy.TargetX -= dt
		}
	} else {
		enemy.AIState = model.StateOrbit
	}
}

func samePack(a, b *uint64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
