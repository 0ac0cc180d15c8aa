// Package avltree is a standalone ordered map backed by a single AVL
// tree keyed by K, built directly on internal/avlnode. It exists
// alongside avlhash.Map as a simpler contract for callers who don't
// need hash-bucket fan-out — the same role avl::AVLTree plays next to
// hash_map::HashMap in the crate this module generalizes from.
package avltree

import (
	"cmp"
	"iter"

	"github.com/danswartzendruber/avlhash/internal/avlnode"
)

type node[K cmp.Ordered, V any] struct {
	avl   avlnode.Node
	Key   K
	Value V
}

func asNode[K cmp.Ordered, V any](a *avlnode.Node) *node[K, V] {
	if a == nil {
		return nil
	}
	return a.Owner.(*node[K, V])
}

// Tree is an ordered map keyed by K. The zero value is ready to use.
type Tree[K cmp.Ordered, V any] struct {
	root *avlnode.Node
	size int
}

func (t *Tree[K, V]) findSlot(key K) (dup *node[K, V], parent *avlnode.Node, link **avlnode.Node) {
	link = &t.root
	for *link != nil {
		cur := *link
		parent = cur
		s := asNode[K, V](cur)
		switch {
		case key < s.Key:
			link = cur.LeftSlot()
		case key > s.Key:
			link = cur.RightSlot()
		default:
			return s, nil, nil
		}
	}
	return nil, parent, link
}

// Insert adds key/value, or overwrites value if key is already
// present. It reports the previous value and whether one existed.
func (t *Tree[K, V]) Insert(key K, value V) (old V, existed bool) {
	dup, parent, link := t.findSlot(key)
	if dup != nil {
		old = dup.Value
		dup.Value = value
		return old, true
	}
	n := &node[K, V]{Key: key, Value: value}
	n.avl.Owner = n
	avlnode.LinkNode(&n.avl, parent, link)
	avlnode.NodePostInsert(&n.avl, &t.root)
	t.size++
	return old, false
}

// Contains reports whether key is present.
func (t *Tree[K, V]) Contains(key K) bool {
	return t.find(key) != nil
}

func (t *Tree[K, V]) find(key K) *node[K, V] {
	n := t.root
	for n != nil {
		s := asNode[K, V](n)
		switch {
		case key < s.Key:
			n = n.Left()
		case key > s.Key:
			n = n.Right()
		default:
			return s
		}
	}
	return nil
}

// Get returns the value stored under key, if any.
func (t *Tree[K, V]) Get(key K) (V, bool) {
	s := t.find(key)
	if s == nil {
		var zero V
		return zero, false
	}
	return s.Value, true
}

// GetMut returns a pointer to the value stored under key, if any, so
// the caller can mutate it in place without a second lookup.
func (t *Tree[K, V]) GetMut(key K) (*V, bool) {
	s := t.find(key)
	if s == nil {
		return nil, false
	}
	return &s.Value, true
}

// Remove deletes key, returning its former value and whether it was
// present.
func (t *Tree[K, V]) Remove(key K) (V, bool) {
	s := t.find(key)
	if s == nil {
		var zero V
		return zero, false
	}
	avlnode.EraseNode(&s.avl, &t.root)
	t.size--
	return s.Value, true
}

// Len returns the number of entries.
func (t *Tree[K, V]) Len() int { return t.size }

// Clear empties the tree.
func (t *Tree[K, V]) Clear() {
	t.root = nil
	t.size = 0
}

// All returns an in-order iterator over the tree's key/value pairs.
func (t *Tree[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for n := avlnode.FirstNode(t.root); n != nil; n = n.Next() {
			s := asNode[K, V](n)
			if !yield(s.Key, s.Value) {
				return
			}
		}
	}
}
