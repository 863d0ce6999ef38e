package ai

import (
	"github.com/ashfallmmo/dungeoncore/internal/engine"
	"github.com/ashfallmmo/dungeoncore/internal/model"
)

// MeleeDamage is the standard atk-minus-half-def formula shared by every
// archetype's basic attack, floored at 1.
func MeleeDamage(atk, def int32) int32 {
	d := atk - def/2
	if d < 1 {
		return 1
	}
	return d
}

// ApplyDamage subtracts damage from identity's HP, clamped to [0, max_hp].
// Missing players are skipped silently — AI helpers never fail.
func ApplyDamage(e *engine.Engine, identity model.PlayerID, damage int32) {
	player, ok := e.Players.Find(identity)
	if !ok {
		return
	}
	player.HP -= damage
	if player.HP < 0 {
		player.HP = 0
	}
	e.Players.Update(identity, player)
}

func dist2(ax, ay, bx, by float32) float32 {
	dx := ax - bx
	dy := ay - by
	return dx*dx + dy*dy
}
