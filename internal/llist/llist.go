// Package llist is a circular, sentinel-headed intrusive doubly-linked
// list. A caller embeds a Head in the record it wants to track; Owner
// carries the back-pointer to that record, the same role Owner plays
// on an avlnode.Node, so callers never need unsafe container-of
// arithmetic to get back to their data. Every operation here is O(1).
package llist

// Head is both a list node and, when used on its own, the list's
// sentinel. An empty list (or an unlinked node) has prev == next == self.
type Head struct {
	prev, next *Head
	Owner      any
}

// Init resets h to an empty list headed by itself.
func (h *Head) Init() {
	h.prev = h
	h.next = h
}

// IsEmpty reports whether h (used as a sentinel) has no members.
func (h *Head) IsEmpty() bool {
	return h.next == h
}

// Next returns the next node after h.
func (h *Head) Next() *Head {
	return h.next
}

// Prev returns the node before h.
func (h *Head) Prev() *Head {
	return h.prev
}

func insertBetween(newH, prev, next *Head) {
	next.prev = newH
	newH.next = next
	newH.prev = prev
	prev.next = newH
}

// AddTail inserts newH immediately before head, i.e. at the tail of the
// list headed by head.
func AddTail(head, newH *Head) {
	insertBetween(newH, head.prev, head)
}

// Del unlinks n from whatever list it is in. n's own pointers are left
// dangling; use DelInit if n must become a valid empty list afterward.
func (n *Head) Del() {
	n.prev.next = n.next
	n.next.prev = n.prev
}

// DelInit unlinks n and resets it to an empty list headed by itself.
func (n *Head) DelInit() {
	n.Del()
	n.Init()
}

// Replace bulk-moves the list headed by old so that it is headed by
// newH instead, leaving old unlinked (but not reset to empty — callers
// that need old usable afterward must call old.Init() themselves).
func Replace(old, newH *Head) {
	if old.IsEmpty() {
		newH.Init()
		return
	}
	newH.next = old.next
	newH.next.prev = newH
	newH.prev = old.prev
	newH.prev.next = newH
}
