// Package store implements the keyed-table abstraction every component
// built on top of it treats as the durable source of truth: find, insert,
// update, delete, and scan by key or by predicate, plus row-change
// publication so a transport can forward deltas to subscribed clients.
//
// A Table itself carries no locking of its own. Every write goes through an
// engine.Engine.Transact call that holds a single process-wide mutex for
// the duration of a command or tick handler, so no two handlers ever
// interleave — see internal/engine for that contract.
package store

import "github.com/ashfallmmo/dungeoncore/internal/event"

// Table is a generic keyed row store for rows of type T keyed by K.
type Table[K comparable, T any] struct {
	name string
	rows map[K]T
	bus  *event.Bus
}

// NewTable constructs an empty table that publishes row changes on bus under
// the given name.
func NewTable[K comparable, T any](name string, bus *event.Bus) *Table[K, T] {
	return &Table[K, T]{
		name: name,
		rows: make(map[K]T),
		bus:  bus,
	}
}

// Find returns the row for key and whether it was present.
func (t *Table[K, T]) Find(key K) (T, bool) {
	row, ok := t.rows[key]
	return row, ok
}

// MustFind is Find without the ok return, for call sites that already know
// the row exists (e.g. right after Insert).
func (t *Table[K, T]) MustFind(key K) T {
	return t.rows[key]
}

// Insert adds a new row under key, replacing any existing row silently —
// callers that need insert-or-conflict semantics check Find first.
func (t *Table[K, T]) Insert(key K, row T) {
	t.rows[key] = row
	event.Emit(t.bus, event.RowChange[T]{Table: t.name, Op: "insert", Row: row})
}

// Update replaces the row at key and publishes the change. It is a no-op if
// key is absent.
func (t *Table[K, T]) Update(key K, row T) {
	if _, ok := t.rows[key]; !ok {
		return
	}
	t.rows[key] = row
	event.Emit(t.bus, event.RowChange[T]{Table: t.name, Op: "update", Row: row})
}

// Delete removes the row at key if present and publishes the change.
func (t *Table[K, T]) Delete(key K) {
	row, ok := t.rows[key]
	if !ok {
		return
	}
	delete(t.rows, key)
	event.Emit(t.bus, event.RowChange[T]{Table: t.name, Op: "delete", Row: row})
}

// Scan calls fn for every row currently in the table, in unspecified order.
// Mutating the table from within fn is not supported — collect keys first
// if a caller needs to delete while scanning.
func (t *Table[K, T]) Scan(fn func(K, T)) {
	for k, v := range t.rows {
		fn(k, v)
	}
}

// Filter returns every row for which pred returns true.
func (t *Table[K, T]) Filter(pred func(T) bool) []T {
	var out []T
	for _, v := range t.rows {
		if pred(v) {
			out = append(out, v)
		}
	}
	return out
}

// Len returns the number of rows currently stored.
func (t *Table[K, T]) Len() int {
	return len(t.rows)
}
