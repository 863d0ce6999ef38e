package ai

import (
	"math"

	"github.com/ashfallmmo/dungeoncore/internal/engine"
	"github.com/ashfallmmo/dungeoncore/internal/model"
)

const raidBossSpeed = 40.0

// raidBossAI drives the three-phase fight. Phase is recomputed from HP
// fraction every tick (1 above 60%, 2 above 30%, else 3); entering phase 2
// teleports to room center, entering phase 3 applies a one-shot +50% atk
// enrage. Uses dt as-is, like the other ranged/special archetypes.
func raidBossAI(e *engine.Engine, enemy *model.DungeonEnemy, target model.PlayerPosition, dist, nx, ny, dt float32, positions []model.PlayerPosition) {
	speed := raidBossSpeed * dt * 60.0

	enemy.FacingAngle = float32(math.Atan2(float64(ny), float64(nx)))
	enemy.StateTimer -= dt

	hpPct := float32(enemy.HP) / float32(enemy.MaxHP)
	newPhase := uint32(1)
	switch {
	case hpPct > 0.6:
		newPhase = 1
	case hpPct > 0.3:
		newPhase = 2
	default:
		newPhase = 3
	}

	if newPhase != enemy.BossPhase {
		enemy.BossPhase = newPhase
		enemy.StateTimer = 0.5
		switch newPhase {
		case 2:
			enemy.X = model.RoomW / 2.0
			enemy.Y = model.RoomH / 2.0
			enemy.AIState = model.AIState("phase2")
		case 3:
			mult := float32(1.5)
			if e.Scripts != nil {
				if m, ok := e.Scripts.BossEnrageMult(3); ok {
					mult = m
				}
			}
			enemy.ATK = int32(float32(enemy.ATK) * mult)
			enemy.AIState = model.AIState("enrage")
		}
	}

	switch enemy.BossPhase {
	case 1:
		if dist <= model.EnemyAttackRange+15.0 {
			if enemy.StateTimer <= 0 {
				enemy.StateTimer = 1.0
				enemy.AIState = model.AIState("attack")
				ApplyDamage(e, target.Identity, MeleeDamage(enemy.ATK, defOf(e, target.Identity)))
			}
		} else {
			enemy.AIState = model.StateChase
			enemy.X += nx * speed
			enemy.Y += ny * speed
		}
	case 2:
		if enemy.StateTimer <= 0 {
			enemy.StateTimer = 6.0
			enemy.AIState = model.AIState("summon")
			spawnAdds(e, enemy)
		} else if dist > model.EnemyAttackRange+10.0 {
			enemy.X += nx * speed * 0.7
			enemy.Y += ny * speed * 0.7
		} else if enemy.AIState != model.AIState("summon") {
			enemy.AIState = model.AIState("attack")
			ApplyDamage(e, target.Identity, MeleeDamage(enemy.ATK, defOf(e, target.Identity)))
		}
	case 3:
		if enemy.StateTimer <= 0 {
			enemy.StateTimer = 4.0
			enemy.AIState = model.AIState("aoe")
			raidWideAoE(e, enemy, positions)
		} else {
			enemy.AIState = model.AIState("enrage")
			if dist > model.EnemyAttackRange {
				enemy.X += nx * speed * 1.5
				enemy.Y += ny * speed * 1.5
			} else {
				ApplyDamage(e, target.Identity, MeleeDamage(enemy.ATK, defOf(e, target.Identity)))
			}
		}
	}
}

func spawnAdds(e *engine.Engine, boss *model.DungeonEnemy) {
	for i := 0; i < 2; i++ {
		angle := float64(i) * math.Pi
		hp, atk := model.EnemyStats("skeleton", 1)
		id := e.EnemyIDs.Next()
		e.DungeonEnemies.Insert(id, model.DungeonEnemy{
			ID:          id,
			DungeonID:   boss.DungeonID,
			RoomIndex:   boss.RoomIndex,
			EnemyType:   "skeleton",
			X:           boss.X + float32(math.Cos(angle))*50.0,
			Y:           boss.Y + float32(math.Sin(angle))*50.0,
			HP:          hp,
			MaxHP:       hp,
			ATK:         atk,
			IsAlive:     true,
			AIState:     model.StateChase,
			TargetX:     boss.X,
			TargetY:     boss.Y,
			FacingAngle: float32(angle),
		})
	}
}

func raidWideAoE(e *engine.Engine, boss *model.DungeonEnemy, positions []model.PlayerPosition) {
	aoe := boss.ATK / 3
	if aoe < 5 {
		aoe = 5
	}
	for _, pos := range positions {
		if pos.DungeonID != boss.DungeonID {
			continue
		}
		ApplyDamage(e, pos.Identity, aoe)
	}
}
