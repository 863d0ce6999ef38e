// Package threat implements the per-(dungeon, enemy, player) aggro table
// (C3): accumulated damage-weighted threat, queried every AI tick to decide
// which player an enemy without an active taunt should target.
package threat

import (
	"github.com/ashfallmmo/dungeoncore/internal/engine"
	"github.com/ashfallmmo/dungeoncore/internal/model"
)

// Add upserts threat for (dungeonID, enemyID, identity), summing amount onto
// any existing entry.
func Add(e *engine.Engine, dungeonID, enemyID uint64, identity model.PlayerID, amount int32) {
	key := engine.ThreatKey{DungeonID: dungeonID, EnemyID: enemyID, Identity: identity}
	row, ok := e.ThreatEntries.Find(key)
	if !ok {
		e.ThreatEntries.Insert(key, model.ThreatEntry{
			DungeonID: dungeonID,
			EnemyID:   enemyID,
			Identity:  identity,
			Threat:    amount,
		})
		return
	}
	row.Threat += amount
	e.ThreatEntries.Update(key, row)
}

// HighestThreatPlayer returns the identity with maximum accumulated threat
// against enemyID in dungeonID, and whether any entry with threat > 0
// exists. Ties are broken arbitrarily by map iteration order, matching a
// linear scan over an unordered table.
func HighestThreatPlayer(e *engine.Engine, dungeonID, enemyID uint64) (model.PlayerID, bool) {
	var best model.PlayerID
	var bestThreat int32
	found := false
	e.ThreatEntries.Scan(func(_ engine.ThreatKey, row model.ThreatEntry) {
		if row.DungeonID != dungeonID || row.EnemyID != enemyID {
			return
		}
		if row.Threat > 0 && (!found || row.Threat > bestThreat) {
			best = row.Identity
			bestThreat = row.Threat
			found = true
		}
	})
	return best, found
}

// CleanupDungeon removes every threat entry belonging to dungeonID, called
// when a dungeon instance is torn down.
func CleanupDungeon(e *engine.Engine, dungeonID uint64) {
	var toDelete []engine.ThreatKey
	e.ThreatEntries.Scan(func(k engine.ThreatKey, row model.ThreatEntry) {
		if row.DungeonID == dungeonID {
			toDelete = append(toDelete, k)
		}
	})
	for _, k := range toDelete {
		e.ThreatEntries.Delete(k)
	}
}
