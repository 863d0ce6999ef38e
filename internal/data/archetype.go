// Package data loads the YAML tuning tables operators can override without
// a rebuild: enemy archetype base stats and the four fixed dungeon rooms'
// spawn lists. Every table here
// is optional — a deployment that ships no YAML at all runs on the
// defaults baked into internal/model, the same fallback relationship
// internal/scripting has with its Lua overrides.
package data

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ArchetypeStats is one enemy type's depth-1 base HP/ATK, before the
// depth-scaling model.EnemyStats applies.
type ArchetypeStats struct {
	EnemyType string `yaml:"enemy_type"`
	BaseHP    int32  `yaml:"base_hp"`
	BaseATK   int32  `yaml:"base_atk"`
	Speed     int32  `yaml:"speed"`
}

type archetypeFile struct {
	Archetypes []ArchetypeStats `yaml:"archetypes"`
}

// ArchetypeTable holds a YAML override of the archetype base stat table,
// indexed by enemy type name.
type ArchetypeTable struct {
	stats map[string]ArchetypeStats
}

// LoadArchetypeTable loads archetype overrides from a YAML file.
func LoadArchetypeTable(path string) (*ArchetypeTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read archetype table: %w", err)
	}
	var f archetypeFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse archetype table: %w", err)
	}
	t := &ArchetypeTable{stats: make(map[string]ArchetypeStats, len(f.Archetypes))}
	for _, a := range f.Archetypes {
		t.stats[a.EnemyType] = a
	}
	return t, nil
}

// Get returns the override for enemyType, or ok=false if this table has no
// entry for it — the caller should fall back to model.EnemyStats.
func (t *ArchetypeTable) Get(enemyType string) (ArchetypeStats, bool) {
	s, ok := t.stats[enemyType]
	return s, ok
}

// Count returns the number of loaded archetype overrides.
func (t *ArchetypeTable) Count() int {
	return len(t.stats)
}

// RoomSpawn is one room's fixed enemy roster override.
type RoomSpawn struct {
	RoomIndex uint32   `yaml:"room_index"`
	Enemies   []string `yaml:"enemies"`
}

type roomFile struct {
	Rooms []RoomSpawn `yaml:"rooms"`
}

// RoomTable holds a YAML override of the four-room dungeon spawn table.
type RoomTable struct {
	rooms map[uint32][]string
}

// LoadRoomTable loads the dungeon room spawn table from a YAML file.
func LoadRoomTable(path string) (*RoomTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read room table: %w", err)
	}
	var f roomFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse room table: %w", err)
	}
	t := &RoomTable{rooms: make(map[uint32][]string, len(f.Rooms))}
	for _, r := range f.Rooms {
		t.rooms[r.RoomIndex] = r.Enemies
	}
	return t, nil
}

// Get returns the enemy roster for roomIndex, or ok=false if this table
// has no override for it.
func (t *RoomTable) Get(roomIndex uint32) ([]string, bool) {
	enemies, ok := t.rooms[roomIndex]
	return enemies, ok
}
