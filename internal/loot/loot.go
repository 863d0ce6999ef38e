// Package loot generates ground loot when a dungeon enemy dies (C10):
// a rarity roll keyed on the kill timestamp's microsecond jitter, a
// per-source rarity table, and a class tag for legendary drops so the
// client can render class-appropriate gear.
package loot

import (
	"fmt"
	"time"

	"github.com/ashfallmmo/dungeoncore/internal/engine"
	"github.com/ashfallmmo/dungeoncore/internal/model"
)

// roll derives a deterministic-looking [0,1) fraction from the low two
// decimal digits of the current microsecond clock, same as the rarity
// dice the original tables were scraped from.
func roll(now time.Time) float32 {
	micros := now.UnixMicro()
	return float32(micros%100) / 100.0
}

// thresholdBucket picks which Lua/Go rarity table an enemy type rolls
// against: bosses and the shield knight get their own generous tables,
// everything else shares the default one.
func thresholdBucket(enemyType string) string {
	switch enemyType {
	case "boss", "raid_boss":
		return "raid_boss"
	case "shield_knight":
		return "shield_knight"
	default:
		return "default"
	}
}

func rarityFor(e *engine.Engine, enemyType string, now time.Time) model.Rarity {
	r := roll(now)
	bucket := thresholdBucket(enemyType)

	var legendaryBelow, epicBelow, rareBelow float32
	if e.Scripts != nil {
		if t, ok := e.Scripts.RarityTable(bucket); ok {
			legendaryBelow = float32(t.LegendaryBelow) / 100.0
			epicBelow = float32(t.EpicBelow) / 100.0
			rareBelow = float32(t.RareBelow) / 100.0
		}
	}

	switch bucket {
	case "raid_boss":
		if legendaryBelow == 0 {
			legendaryBelow, epicBelow, rareBelow = 0.05, 0.30, 0.80
		}
		switch {
		case r < legendaryBelow:
			return model.RarityLegendary
		case r < epicBelow:
			return model.RarityEpic
		case r < rareBelow:
			return model.RarityRare
		default:
			return model.RarityUncommon
		}
	case "shield_knight":
		if epicBelow == 0 {
			epicBelow, rareBelow = 0.10, 0.50
		}
		switch {
		case r < epicBelow:
			return model.RarityEpic
		case r < rareBelow:
			return model.RarityRare
		default:
			return model.RarityUncommon
		}
	default:
		if legendaryBelow == 0 {
			legendaryBelow = 0.01
		}
		if r < legendaryBelow {
			return model.RarityLegendary
		}
		switch enemyType {
		case "necromancer":
			return model.RarityRare
		case "charger":
			return model.RarityUncommon
		default:
			return model.RarityCommon
		}
	}
}

// DropForDeadEnemy inserts a LootDrop at (x, y) for a dead enemy. Legendary
// drops are tagged with a random participant's class so client-side gear
// rendering can pick the right silhouette; only player kills route here —
// a bomber's self-detonation never calls this.
func DropForDeadEnemy(e *engine.Engine, now time.Time, enemyType string, dungeonID uint64, roomIndex uint32, x, y float32, atk, maxHP int32) {
	rarity := rarityFor(e, enemyType, now)

	classTag := ""
	if rarity == model.RarityLegendary {
		participants := e.DungeonParticipants.Filter(func(p model.DungeonParticipant) bool {
			return p.DungeonID == dungeonID
		})
		if len(participants) > 0 {
			idx := int(now.UnixMicro()) % len(participants)
			if player, ok := e.Players.Find(participants[idx].Identity); ok {
				classTag = fmt.Sprintf(",\"classReq\":\"%s\"", player.Class)
			}
		}
	}

	itemJSON := fmt.Sprintf(
		`{"type":"drop","source":"%s","atk_bonus":%d,"def_bonus":%d,"rarity":"%s"%s}`,
		enemyType, atk/2, maxHP/10, rarity, classTag,
	)

	id := e.LootIDs.Next()
	e.LootDrops.Insert(id, model.LootDrop{
		ID:           id,
		DungeonID:    dungeonID,
		RoomIndex:    roomIndex,
		X:            x,
		Y:            y,
		ItemDataJSON: itemJSON,
		Rarity:       rarity,
		PickedUp:     false,
	})
}

// dayNumber converts a time to a UTC day index, used to rate-limit the
// once-per-day raid-clear bonus roll (see DESIGN.md Open Question #4).
func dayNumber(now time.Time) uint32 {
	return uint32(now.UTC().Unix() / 86400)
}

// AwardDailyRaidClear rolls one bonus legendary-weighted drop for a raid
// clear if the player has not already claimed today's bonus, independent
// of the raid's own boss loot table.
func AwardDailyRaidClear(e *engine.Engine, now time.Time, identity model.PlayerID, dungeonID uint64, x, y float32) {
	today := dayNumber(now)
	rec, existed := e.DailyRaidClears.Find(identity)
	if existed && rec.LastClearDay == today {
		return
	}
	rec = model.DailyRaidClear{Identity: identity, LastClearDay: today}
	if existed {
		e.DailyRaidClears.Update(identity, rec)
	} else {
		e.DailyRaidClears.Insert(identity, rec)
	}
	DropForDeadEnemy(e, now, "boss", dungeonID, 0, x, y, 30, 400)
}
