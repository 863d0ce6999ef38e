package store

import (
	"testing"

	"github.com/ashfallmmo/dungeoncore/internal/event"
)

func TestTableInsertFind(t *testing.T) {
	bus := event.NewBus()
	tbl := NewTable[string, int]("rows", bus)

	if _, ok := tbl.Find("a"); ok {
		t.Fatalf("expected miss on empty table")
	}

	tbl.Insert("a", 1)
	v, ok := tbl.Find("a")
	if !ok || v != 1 {
		t.Fatalf("got (%v, %v), want (1, true)", v, ok)
	}
	if tbl.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", tbl.Len())
	}
}

func TestTableUpdateNoOpOnMissingKey(t *testing.T) {
	bus := event.NewBus()
	tbl := NewTable[string, int]("rows", bus)

	tbl.Update("missing", 5)
	if _, ok := tbl.Find("missing"); ok {
		t.Fatalf("Update should not insert a row for a missing key")
	}
}

func TestTableUpdateReplacesExisting(t *testing.T) {
	bus := event.NewBus()
	tbl := NewTable[string, int]("rows", bus)
	tbl.Insert("a", 1)
	tbl.Update("a", 2)

	v, _ := tbl.Find("a")
	if v != 2 {
		t.Fatalf("Find(a) = %d, want 2", v)
	}
}

func TestTableDelete(t *testing.T) {
	bus := event.NewBus()
	tbl := NewTable[string, int]("rows", bus)
	tbl.Insert("a", 1)
	tbl.Delete("a")

	if _, ok := tbl.Find("a"); ok {
		t.Fatalf("expected row to be gone after Delete")
	}
	// Deleting an absent key must not panic.
	tbl.Delete("a")
}

func TestTableFilter(t *testing.T) {
	bus := event.NewBus()
	tbl := NewTable[string, int]("rows", bus)
	tbl.Insert("a", 1)
	tbl.Insert("b", 2)
	tbl.Insert("c", 3)

	even := tbl.Filter(func(v int) bool { return v%2 == 0 })
	if len(even) != 1 || even[0] != 2 {
		t.Fatalf("Filter(even) = %v, want [2]", even)
	}
}

func TestAutoIncStartsAtOneAndAscends(t *testing.T) {
	var a AutoInc
	first := a.Next()
	second := a.Next()
	if first != 1 {
		t.Fatalf("first id = %d, want 1", first)
	}
	if second != 2 {
		t.Fatalf("second id = %d, want 2", second)
	}
}
