// Package hashtable is the hash-indexed forest of AVL trees: a bucket
// array where each bucket is its own small avlnode.Node tree ordered by
// (hash, key), with every non-empty bucket additionally threaded onto
// an intrusive live-bucket list so whole-table iteration costs O(live
// buckets + count) rather than O(index size). It has no notion of a
// value; callers embed Node in their own entry type and reach it back
// out through Owner, same as the per-node back-pointer avlnode itself
// uses.
package hashtable

import (
	"cmp"

	"github.com/danswartzendruber/avlhash/internal/avlnode"
	"github.com/danswartzendruber/avlhash/internal/llist"
)

const initIndexSize = 8

// Node is one entry in a Table: an AVL node ordered first by HashVal
// and then by the key it points to. KeyPtr aliases into the caller's
// own key storage rather than copying K, so a key lives exactly once
// per entry. Owner is the caller's back-pointer, recovered the same
// way avlnode.Node.Owner is.
type Node[K cmp.Ordered] struct {
	avl     avlnode.Node
	HashVal uint64
	KeyPtr  *K
	Owner   any
}

// Reset (re)initializes n for use, wiring its embedded AVL node's Owner
// back to n. Callers must call this once after allocating (or
// recycling from a pool) a Node and before passing it to Add, since a
// zero-valued or freelist-recycled Node has a stale or nil avl.Owner.
func (n *Node[K]) Reset(hash uint64, keyPtr *K, owner any) {
	n.HashVal = hash
	n.KeyPtr = keyPtr
	n.Owner = owner
	n.avl.Init()
	n.avl.Owner = n
}

// Key returns the entry's key.
func (n *Node[K]) Key() K { return *n.KeyPtr }

func nodeOf[K cmp.Ordered](a *avlnode.Node) *Node[K] {
	if a == nil {
		return nil
	}
	return a.Owner.(*Node[K])
}

// bucket is one slot of the index: a small AVL tree plus the list
// linkage that lets Table skip over empty slots during iteration.
type bucket[K cmp.Ordered] struct {
	root *avlnode.Node
	head llist.Head
}

func (b *bucket[K]) init() {
	b.root = nil
	b.head.Init()
	b.head.Owner = b
}

// Table is a hash table of AVL trees. The zero value is not usable;
// construct with New. Like sync.Mutex, a Table must never be copied
// after New returns — its buckets and live-bucket list are
// self-referential sentinels, and index aliases initBuckets until the
// table first grows.
type Table[K cmp.Ordered] struct {
	count     int
	indexSize int
	indexMask uint64
	head      llist.Head
	index     []bucket[K]

	initBuckets [initIndexSize]bucket[K]
}

// New returns an empty Table backed by its inline 8-bucket array.
func New[K cmp.Ordered]() *Table[K] {
	t := &Table[K]{}
	t.Init()
	return t
}

// Init prepares a zero-valued Table for use. Callers that embed Table
// by value (so it is allocated along with its own owner, rather than
// separately via New) must call Init exactly once before any other
// method.
func (t *Table[K]) Init() {
	t.head.Init()
	t.index = t.initBuckets[:]
	t.indexSize = initIndexSize
	t.indexMask = uint64(initIndexSize - 1)
	for i := range t.index {
		t.index[i].init()
	}
}

// Reset discards every entry without freeing anything itself: callers
// must first drain the table via repeated PopFirstIndex (and dispose
// of whatever each detached subtree owns), then call Reset to zero the
// live count. The index array and its bucket list linkage are left
// exactly as draining left them (every bucket already empty and
// already unlinked from the live list).
func (t *Table[K]) Reset() {
	t.count = 0
}

// Count returns the number of entries in the table.
func (t *Table[K]) Count() int { return t.count }

// Capacity returns the current bucket index size.
func (t *Table[K]) Capacity() int { return t.indexSize }

func (t *Table[K]) isInline() bool {
	return len(t.index) > 0 && &t.index[0] == &t.initBuckets[0]
}

func (t *Table[K]) bucketFor(hash uint64) *bucket[K] {
	return &t.index[hash&t.indexMask]
}

// Find looks up the entry with the given hash and key, or returns nil.
func (t *Table[K]) Find(hash uint64, key K) *Node[K] {
	n := t.bucketFor(hash).root
	for n != nil {
		s := nodeOf[K](n)
		switch {
		case hash < s.HashVal:
			n = n.Left()
		case hash > s.HashVal:
			n = n.Right()
		default:
			k := s.Key()
			switch {
			case key < k:
				n = n.Left()
			case key > k:
				n = n.Right()
			default:
				return s
			}
		}
	}
	return nil
}

// FindSlot looks up hash/key the same way Find does, but when no entry
// is found it additionally returns the parent and link slot where a
// new node would be linked in. Callers (the Entry API) that intend to
// defer insertion must not mutate the table between FindSlot and the
// matching LinkAt call, since the slot is only valid for the table's
// current shape.
func (t *Table[K]) FindSlot(hash uint64, key K) (dup *Node[K], parent *avlnode.Node, link **avlnode.Node) {
	b := t.bucketFor(hash)
	link = &b.root
	for *link != nil {
		cur := *link
		parent = cur
		s := nodeOf[K](cur)
		switch {
		case hash < s.HashVal:
			link = cur.LeftSlot()
		case hash > s.HashVal:
			link = cur.RightSlot()
		default:
			k := s.Key()
			switch {
			case key < k:
				link = cur.LeftSlot()
			case key > k:
				link = cur.RightSlot()
			default:
				return s, nil, nil
			}
		}
	}
	return nil, parent, link
}

// LinkAt completes an insertion whose slot was located by FindSlot (or
// by the fast path in Add): it links n at parent/link, rebalances, and
// — if the bucket was previously empty — threads it onto the
// live-bucket list.
func (t *Table[K]) LinkAt(n *Node[K], parent *avlnode.Node, link **avlnode.Node) {
	b := t.bucketFor(n.HashVal)
	wasEmpty := b.root == nil
	avlnode.LinkNode(&n.avl, parent, link)
	avlnode.NodePostInsert(&n.avl, &b.root)
	if wasEmpty {
		llist.AddTail(&t.head, &b.head)
	}
	t.count++
}

// Add inserts n. If an entry with the same (hash, key) already exists,
// n is left unlinked and the existing entry is returned; otherwise n
// is linked in and nil is returned.
func (t *Table[K]) Add(n *Node[K]) *Node[K] {
	dup, parent, link := t.FindSlot(n.HashVal, n.Key())
	if dup != nil {
		return dup
	}
	t.LinkAt(n, parent, link)
	return nil
}

// Erase removes n from the table. n must currently be linked (the
// result of a prior Add, Find, or traversal call on this table).
func (t *Table[K]) Erase(n *Node[K]) {
	b := t.bucketFor(n.HashVal)
	if b.root == &n.avl && n.avl.Height() == 1 {
		b.root = nil
		n.avl.Init()
	} else {
		avlnode.EraseNode(&n.avl, &b.root)
	}
	if b.root == nil {
		b.head.DelInit()
	}
	t.count--
}

// Replace splices newNode into old's exact bucket-tree position (old
// and newNode must compare equal under (hash, key)) and marks old
// unlinked. Used by a map's insert-overwrite path to swap an entry's
// storage without paying for a full erase-then-insert rebalance.
func (t *Table[K]) Replace(old, newNode *Node[K]) {
	b := t.bucketFor(old.HashVal)
	avlnode.Replace(&old.avl, &newNode.avl, &b.root)
	old.avl.Init()
}

// PopFirstIndex detaches and returns the AVL root of the first live
// bucket, or nil if the table is empty. The caller owns walking (and
// eventually freeing) the returned subtree; Table's own bookkeeping
// (count, live-bucket list) is not otherwise touched, since this is
// meant for bulk teardown (a map's Clear and ShrinkToFit) rather than
// single-entry removal.
func (t *Table[K]) PopFirstIndex() *avlnode.Node {
	h := t.head.Next()
	if h == &t.head {
		return nil
	}
	b := h.Owner.(*bucket[K])
	root := b.root
	b.root = nil
	h.DelInit()
	return root
}

// First returns the first entry in table order (the smallest (hash,
// key) of the first live bucket, buckets being in creation order), or
// nil if the table is empty.
func (t *Table[K]) First() *Node[K] {
	h := t.head.Next()
	if h == &t.head {
		return nil
	}
	return nodeOf[K](avlnode.FirstNode(h.Owner.(*bucket[K]).root))
}

// Last returns the last entry in table order (the largest (hash, key)
// of the last live bucket), or nil if the table is empty.
func (t *Table[K]) Last() *Node[K] {
	h := t.head.Prev()
	if h == &t.head {
		return nil
	}
	return nodeOf[K](avlnode.LastNode(h.Owner.(*bucket[K]).root))
}

// Next returns n's successor in table order (within n's bucket if one
// exists, otherwise the first entry of the next live bucket), or nil
// if n is last.
func (t *Table[K]) Next(n *Node[K]) *Node[K] {
	if nxt := n.avl.Next(); nxt != nil {
		return nodeOf[K](nxt)
	}
	b := t.bucketFor(n.HashVal)
	h := b.head.Next()
	if h == &t.head {
		return nil
	}
	return nodeOf[K](avlnode.FirstNode(h.Owner.(*bucket[K]).root))
}

// Prev is Next's mirror image.
func (t *Table[K]) Prev(n *Node[K]) *Node[K] {
	if prv := n.avl.Prev(); prv != nil {
		return nodeOf[K](prv)
	}
	b := t.bucketFor(n.HashVal)
	h := b.head.Prev()
	if h == &t.head {
		return nil
	}
	return nodeOf[K](avlnode.LastNode(h.Owner.(*bucket[K]).root))
}

// MaxBucketLoad returns the entry count of the table's most heavily
// loaded bucket. Diagnostic only: useful for judging hash quality and
// deciding whether a rehash is overdue, not on any hot path.
func (t *Table[K]) MaxBucketLoad() int {
	max := 0
	for h := t.head.Next(); h != &t.head; h = h.Next() {
		if n := avlnode.NodeNum(h.Owner.(*bucket[K]).root); n > max {
			max = n
		}
	}
	return max
}

// reinsertTree reinserts every node of a detached bucket subtree into
// t's current (already-resized) index. It visits children before the
// node itself: Add relinks n via LinkNode, which clobbers n's own
// left/right, so both children must already be captured and reinserted
// before n is touched.
func (t *Table[K]) reinsertTree(root *avlnode.Node) {
	if root == nil {
		return
	}
	left, right := root.Left(), root.Right()
	t.reinsertTree(left)
	t.reinsertTree(right)
	t.Add(nodeOf[K](root))
}

// Reindex installs a freshly sized bucket index — growing or shrinking
// — and reinserts every live entry under it. size must be a power of
// two; a size at or below the inline array's length reverts the table
// to the inline array.
func (t *Table[K]) Reindex(size int) {
	if size <= initIndexSize {
		t.swap(nil)
		return
	}
	t.swap(make([]bucket[K], size))
}

// swap installs newIndex as the table's bucket array (or, if newIndex
// is nil, reverts to the inline array), reinserting every live entry
// under the new index mask. It returns the replaced index slice so the
// caller can let it be garbage collected, or nil if the replaced index
// was the inline array.
func (t *Table[K]) swap(newIndex []bucket[K]) []bucket[K] {
	if newIndex == nil {
		if t.isInline() {
			return nil
		}
		newIndex = t.initBuckets[:]
	}
	wasInline := t.isInline()
	oldIndex := t.index

	var staging llist.Head
	llist.Replace(&t.head, &staging)
	t.head.Init()

	t.index = newIndex
	t.indexSize = len(newIndex)
	t.indexMask = uint64(t.indexSize - 1)
	t.count = 0
	for i := range t.index {
		t.index[i].init()
	}

	for h := staging.Next(); h != &staging; h = staging.Next() {
		b := h.Owner.(*bucket[K])
		h.DelInit()
		t.reinsertTree(b.root)
	}

	if wasInline {
		return nil
	}
	return oldIndex
}

func calcLimit(count int) int {
	return count * 6 / 4
}

// Rehash grows the index, if needed, so that it is no longer
// undersized for capacity entries (threshold calcLimit(capacity) =
// capacity*6/4). It is a no-op if the current index is already large
// enough.
func (t *Table[K]) Rehash(capacity int) {
	limit := calcLimit(capacity)
	if t.indexSize >= limit {
		return
	}
	need := t.indexSize
	for need < limit {
		need *= 2
	}
	t.Reindex(need)
}

// DefaultRehash grows the index, if needed, for the table's current
// entry count. Called after every insert.
func (t *Table[K]) DefaultRehash() {
	t.Rehash(t.count)
}
