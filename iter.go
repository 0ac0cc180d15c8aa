package avlhash

import "iter"

// All returns an iterator over every (key, value) pair in table order:
// within a bucket, by (hash, key); across buckets, bucket-creation
// order. That order is not sorted by key and not stable across a
// rehash (see package docs).
func (m *Map[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for n := m.table.First(); n != nil; n = m.table.Next(n) {
			e := n.Owner.(*mapEntry[K, V])
			if !yield(e.kv.key, e.kv.value) {
				return
			}
		}
	}
}

// Keys returns an iterator over every key, in the same order as All.
func (m *Map[K, V]) Keys() iter.Seq[K] {
	return func(yield func(K) bool) {
		for n := m.table.First(); n != nil; n = m.table.Next(n) {
			if !yield(n.Owner.(*mapEntry[K, V]).kv.key) {
				return
			}
		}
	}
}

// Values returns an iterator over every value, in the same order as
// All.
func (m *Map[K, V]) Values() iter.Seq[V] {
	return func(yield func(V) bool) {
		for n := m.table.First(); n != nil; n = m.table.Next(n) {
			if !yield(n.Owner.(*mapEntry[K, V]).kv.value) {
				return
			}
		}
	}
}

// AllMut returns an iterator over every (key, pointer-to-value) pair,
// letting the caller mutate values in place during the walk.
func (m *Map[K, V]) AllMut() iter.Seq2[K, *V] {
	return func(yield func(K, *V) bool) {
		for n := m.table.First(); n != nil; n = m.table.Next(n) {
			e := n.Owner.(*mapEntry[K, V])
			if !yield(e.kv.key, &e.kv.value) {
				return
			}
		}
	}
}
