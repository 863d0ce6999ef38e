package engine

import "github.com/ashfallmmo/dungeoncore/internal/model"

// DungeonPlayerKey is the composite key for a dungeon participant row.
type DungeonPlayerKey struct {
	DungeonID uint64
	Identity  model.PlayerID
}

// ThreatKey is the composite key for a threat entry, one per
// (dungeon, enemy, player) triple.
type ThreatKey struct {
	DungeonID uint64
	EnemyID   uint64
	Identity  model.PlayerID
}

// RaidParticipantKey keys raid participants by (raid, player) so a player
// can only ever have one row in a given raid instance.
type RaidParticipantKey struct {
	RaidID   uint64
	Identity model.PlayerID
}
