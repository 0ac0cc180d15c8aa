package avlhash

import (
	"cmp"
	"iter"
	"reflect"

	"github.com/danswartzendruber/avlhash/internal/avlnode"
	"github.com/danswartzendruber/avlhash/internal/fastbin"
	"github.com/danswartzendruber/avlhash/internal/hashtable"
)

// pair is the heap-owned (K, V) storage a map entry's hash node
// aliases into, so a key is held exactly once per entry.
type pair[K cmp.Ordered, V any] struct {
	key   K
	value V
}

// mapEntry wraps a hash node and a pointer to its (K, V) pair.
type mapEntry[K cmp.Ordered, V any] struct {
	node hashtable.Node[K]
	kv   *pair[K, V]
}

// Map is an ordered hash map from K to V. The zero value is not
// usable; construct with New, WithCapacity, WithHasher, or
// WithCapacityAndHasher. Like its embedded hashtable.Table, a Map must
// never be copied after construction — always use *Map[K, V].
type Map[K cmp.Ordered, V any] struct {
	table     hashtable.Table[K]
	kvPool    *fastbin.Pool[pair[K, V]]
	entryPool *fastbin.Pool[mapEntry[K, V]]
	hasher    BuildHasher
}

// New returns an empty Map using the default randomized hasher.
func New[K cmp.Ordered, V any]() *Map[K, V] {
	return WithHasher[K, V](NewDefaultBuildHasher())
}

// WithCapacity returns an empty Map pre-sized to hold at least n
// entries without rehashing.
func WithCapacity[K cmp.Ordered, V any](n int) *Map[K, V] {
	m := New[K, V]()
	m.Reserve(n)
	return m
}

// WithHasher returns an empty Map using the given hasher factory in
// place of the default.
func WithHasher[K cmp.Ordered, V any](h BuildHasher) *Map[K, V] {
	m := &Map[K, V]{
		kvPool:    fastbin.New[pair[K, V]](),
		entryPool: fastbin.New[mapEntry[K, V]](),
		hasher:    h,
	}
	m.table.Init()
	return m
}

// WithCapacityAndHasher combines WithCapacity and WithHasher.
func WithCapacityAndHasher[K cmp.Ordered, V any](n int, h BuildHasher) *Map[K, V] {
	m := WithHasher[K, V](h)
	m.Reserve(n)
	return m
}

// Insert adds key/value. If key was already present, its previous key
// and value are returned alongside true (the previous key is returned,
// not just discarded, since it may differ from the new one under a
// custom equivalence relation). Otherwise the zero K and V are
// returned alongside false.
func (m *Map[K, V]) Insert(key K, value V) (oldKey K, oldValue V, existed bool) {
	h := hashKey(m.hasher, key)
	kv := m.kvPool.Alloc()
	kv.key, kv.value = key, value
	e := m.entryPool.Alloc()
	e.kv = kv
	e.node.Reset(h, &kv.key, e)

	dup := m.table.Add(&e.node)
	if dup == nil {
		m.table.DefaultRehash()
		return oldKey, oldValue, false
	}

	old := dup.Owner.(*mapEntry[K, V])
	oldKey, oldValue = old.kv.key, old.kv.value
	m.table.Replace(dup, &e.node)
	m.kvPool.Free(old.kv)
	m.entryPool.Free(old)
	return oldKey, oldValue, true
}

// Remove deletes key, returning its value and whether it was present.
func (m *Map[K, V]) Remove(key K) (V, bool) {
	n := m.table.Find(hashKey(m.hasher, key), key)
	if n == nil {
		var zero V
		return zero, false
	}
	e := n.Owner.(*mapEntry[K, V])
	m.table.Erase(n)
	v := e.kv.value
	m.kvPool.Free(e.kv)
	m.entryPool.Free(e)
	return v, true
}

// Get returns the value stored under key, if any.
func (m *Map[K, V]) Get(key K) (V, bool) {
	n := m.table.Find(hashKey(m.hasher, key), key)
	if n == nil {
		var zero V
		return zero, false
	}
	return n.Owner.(*mapEntry[K, V]).kv.value, true
}

// GetMut returns a pointer to the value stored under key, if any.
func (m *Map[K, V]) GetMut(key K) (*V, bool) {
	n := m.table.Find(hashKey(m.hasher, key), key)
	if n == nil {
		return nil, false
	}
	return &n.Owner.(*mapEntry[K, V]).kv.value, true
}

// ContainsKey reports whether key is present.
func (m *Map[K, V]) ContainsKey(key K) bool {
	return m.table.Find(hashKey(m.hasher, key), key) != nil
}

// Index returns the value stored under key, panicking if key is
// absent. Mirrors the language's built-in indexing contract for a
// present-by-construction lookup.
func (m *Map[K, V]) Index(key K) V {
	v, ok := m.Get(key)
	if !ok {
		panic("avlhash: no entry found for key")
	}
	return v
}

// Len returns the number of entries.
func (m *Map[K, V]) Len() int { return m.table.Count() }

// IsEmpty reports whether Len() == 0.
func (m *Map[K, V]) IsEmpty() bool { return m.table.Count() == 0 }

// Capacity returns the current bucket index size.
func (m *Map[K, V]) Capacity() int { return m.table.Capacity() }

// Reserve grows the bucket index, if needed, to accommodate at least n
// entries without a further rehash.
func (m *Map[K, V]) Reserve(n int) { m.table.Rehash(n) }

// MaxBucketLoad returns the entry count of the map's most heavily
// loaded bucket — a diagnostic for judging hash quality.
func (m *Map[K, V]) MaxBucketLoad() int { return m.table.MaxBucketLoad() }

// Clear removes every entry, freeing all key/value and entry storage.
func (m *Map[K, V]) Clear() {
	for {
		root := m.table.PopFirstIndex()
		if root == nil {
			break
		}
		m.freeTree(root)
	}
	m.table.Reset()
}

func (m *Map[K, V]) freeTree(root *avlnode.Node) {
	if root == nil {
		return
	}
	m.freeTree(root.Left())
	m.freeTree(root.Right())
	e := root.Owner.(*hashtable.Node[K]).Owner.(*mapEntry[K, V])
	m.kvPool.Free(e.kv)
	m.entryPool.Free(e)
}

// ShrinkToFit rebuilds the bucket index to the smallest power of two
// satisfying count*6/4 <= index_size (at least the inline capacity),
// and rebuilds both the key/value and entry slabs from scratch so
// storage fragmented by prior removals is compacted. It is a no-op if
// the map is already at or below its target size.
func (m *Map[K, V]) ShrinkToFit() {
	limit := m.table.Count() * 6 / 4
	target := 8 // the table's inline index size
	for target < limit {
		target *= 2
	}
	if target >= m.table.Capacity() {
		return
	}

	saved := make([]struct {
		key   K
		value V
	}, 0, m.table.Count())

	oldKV, oldEntries := m.kvPool, m.entryPool
	for {
		root := m.table.PopFirstIndex()
		if root == nil {
			break
		}
		saved = drainTree(root, oldKV, oldEntries, saved)
	}
	m.table.Reset()
	m.table.Reindex(target)

	m.kvPool = fastbin.New[pair[K, V]]()
	m.entryPool = fastbin.New[mapEntry[K, V]]()
	for _, p := range saved {
		m.Insert(p.key, p.value)
	}
}

func drainTree[K cmp.Ordered, V any](root *avlnode.Node, kvPool *fastbin.Pool[pair[K, V]], entryPool *fastbin.Pool[mapEntry[K, V]], out []struct {
	key   K
	value V
}) []struct {
	key   K
	value V
} {
	if root == nil {
		return out
	}
	out = drainTree(root.Left(), kvPool, entryPool, out)
	out = drainTree(root.Right(), kvPool, entryPool, out)
	e := root.Owner.(*hashtable.Node[K]).Owner.(*mapEntry[K, V])
	out = append(out, struct {
		key   K
		value V
	}{e.kv.key, e.kv.value})
	kvPool.Free(e.kv)
	entryPool.Free(e)
	return out
}

// Clone returns a deep copy: an independent Map with the same entries.
func (m *Map[K, V]) Clone() *Map[K, V] {
	out := WithHasher[K, V](m.hasher)
	out.Reserve(m.Len())
	for n := m.table.First(); n != nil; n = m.table.Next(n) {
		e := n.Owner.(*mapEntry[K, V])
		out.Insert(e.kv.key, e.kv.value)
	}
	return out
}

// Equal reports whether m and other have the same length and the same
// key/value pairs (values compared with reflect.DeepEqual, since V is
// unconstrained).
func (m *Map[K, V]) Equal(other *Map[K, V]) bool {
	if m.Len() != other.Len() {
		return false
	}
	for n := m.table.First(); n != nil; n = m.table.Next(n) {
		e := n.Owner.(*mapEntry[K, V])
		v, ok := other.Get(e.kv.key)
		if !ok || !reflect.DeepEqual(v, e.kv.value) {
			return false
		}
	}
	return true
}

// Extend inserts every pair produced by seq.
func (m *Map[K, V]) Extend(seq iter.Seq2[K, V]) {
	for k, v := range seq {
		m.Insert(k, v)
	}
}

// Collect builds a new Map from every pair produced by seq.
func Collect[K cmp.Ordered, V any](seq iter.Seq2[K, V]) *Map[K, V] {
	m := New[K, V]()
	m.Extend(seq)
	return m
}
