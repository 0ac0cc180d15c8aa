package avlhash

import (
	"cmp"

	"github.com/danswartzendruber/avlhash/internal/avlnode"
	"github.com/danswartzendruber/avlhash/internal/hashtable"
)

// Entry is a handle to a single key's slot in a Map, resolved once by
// Map.Entry so that the occupied/vacant decision and any resulting
// insertion both complete in O(1). Like the hash table's own
// FindSlot/LinkAt pair it wraps, an Entry must be completed (or simply
// discarded) before the owning Map is mutated again through any other
// path — mutating the map in between and then using the Entry is
// undefined, the same iterator-invalidation contract every other
// outstanding cursor into the map carries.
type Entry[K cmp.Ordered, V any] struct {
	m      *Map[K, V]
	key    K
	hash   uint64
	node   *hashtable.Node[K]
	parent *avlnode.Node
	link   **avlnode.Node
}

// Entry resolves key's slot: occupied if present, vacant otherwise.
// Returned as a pointer so the result chains directly, e.g.
// m.Entry(k).OrInsert(v).
func (m *Map[K, V]) Entry(key K) *Entry[K, V] {
	h := hashKey(m.hasher, key)
	dup, parent, link := m.table.FindSlot(h, key)
	return &Entry[K, V]{m: m, key: key, hash: h, node: dup, parent: parent, link: link}
}

// Occupied reports whether the entry already holds a value.
func (e *Entry[K, V]) Occupied() bool { return e.node != nil }

// Key returns the entry's key, regardless of occupied/vacant state.
func (e *Entry[K, V]) Key() K { return e.key }

func (e *Entry[K, V]) mustOccupied() *mapEntry[K, V] {
	if e.node == nil {
		panic("avlhash: entry method requires an occupied entry")
	}
	return e.node.Owner.(*mapEntry[K, V])
}

// Get returns the entry's current value. Panics if the entry is
// vacant; use OrInsert when the key might be absent.
func (e *Entry[K, V]) Get() V { return e.mustOccupied().kv.value }

// GetMut returns a pointer to the entry's current value. Panics if the
// entry is vacant.
func (e *Entry[K, V]) GetMut() *V { return &e.mustOccupied().kv.value }

// IntoMut consumes the entry, returning a pointer to its value that
// outlives the Entry handle itself. Panics if the entry is vacant.
func (e *Entry[K, V]) IntoMut() *V { return &e.mustOccupied().kv.value }

// Insert overwrites the occupied entry's value, returning the previous
// one. Panics if the entry is vacant.
func (e *Entry[K, V]) Insert(value V) V {
	ent := e.mustOccupied()
	old := ent.kv.value
	ent.kv.value = value
	return old
}

// Remove deletes the occupied entry, returning its value. Panics if
// the entry is vacant.
func (e *Entry[K, V]) Remove() V {
	_, v := e.RemoveEntry()
	return v
}

// RemoveEntry deletes the occupied entry, returning its key and value.
// Panics if the entry is vacant.
func (e *Entry[K, V]) RemoveEntry() (K, V) {
	ent := e.mustOccupied()
	k, v := ent.kv.key, ent.kv.value
	e.m.table.Erase(e.node)
	e.m.kvPool.Free(ent.kv)
	e.m.entryPool.Free(ent)
	e.node = nil
	return k, v
}

// ReplaceKey swaps the handle's own key into the live entry in place
// of its current key — useful when K's ordering treats two keys as
// equal despite carrying different data the caller wants retained —
// and returns the key that was replaced. Panics if the entry is
// vacant.
func (e *Entry[K, V]) ReplaceKey() K {
	ent := e.mustOccupied()
	old := ent.kv.key
	ent.kv.key = e.key
	return old
}

// ReplaceEntry is ReplaceKey plus an unconditional value overwrite, in
// one step. Panics if the entry is vacant.
func (e *Entry[K, V]) ReplaceEntry(value V) (K, V) {
	ent := e.mustOccupied()
	oldKey, oldValue := ent.kv.key, ent.kv.value
	ent.kv.key = e.key
	ent.kv.value = value
	return oldKey, oldValue
}

// OrInsert returns a pointer to the entry's current value if occupied,
// or inserts value and returns a pointer to it if vacant.
func (e *Entry[K, V]) OrInsert(value V) *V {
	if e.node != nil {
		return &e.mustOccupied().kv.value
	}
	return e.insert(value)
}

// OrInsertWith is OrInsert, but only calls make to produce the value
// if the entry is actually vacant.
func (e *Entry[K, V]) OrInsertWith(make func() V) *V {
	if e.node != nil {
		return &e.mustOccupied().kv.value
	}
	return e.insert(make())
}

// AndModify calls f with a pointer to the entry's value if occupied,
// then returns e unchanged so calls can be chained with OrInsert.
func (e *Entry[K, V]) AndModify(f func(*V)) *Entry[K, V] {
	if e.node != nil {
		f(&e.mustOccupied().kv.value)
	}
	return e
}

func (e *Entry[K, V]) insert(value V) *V {
	kv := e.m.kvPool.Alloc()
	kv.key, kv.value = e.key, value
	ent := e.m.entryPool.Alloc()
	ent.kv = kv
	ent.node.Reset(e.hash, &kv.key, ent)
	e.m.table.LinkAt(&ent.node, e.parent, e.link)
	e.m.table.DefaultRehash()
	e.node = &ent.node
	return &kv.value
}
