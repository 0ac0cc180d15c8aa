//
// Derived from a Creative Commons Legal Code (CC0) public-domain AVL
// tree implementation; see the license note below.
//

/*

Overview

Package avlhash is an ordered-aware hash map: a hash table whose
buckets are themselves small AVL trees keyed by (hash, key), backed by
slab-allocated key/value and entry storage so a live entry's address
never moves until it is removed, overwritten by Insert, or compacted
by ShrinkToFit (which reallocates every entry). It trades the small constant factor
of a per-bucket tree against a conventional open-addressed hash map
for a hard O(log n) bound on any single bucket, independent of hash
quality.

This implementation is intrusive: every entry's hash node is embedded
directly in its own record (via package internal/hashtable), and every
bucket tree is the same non-recursive, parent-pointer AVL engine in
internal/avlnode, so the core structures never suffer stack overflow
on deep trees.

See package avltree for a simpler single-AVL-tree ordered map that
does not need bucket fan-out, and cmd/avlhashbench for a scenario-
driven comparison of the two against Go's builtin map.

Features

Briefly, the supported operations are:

- Insert, remove, get/get-mutable, contains-key, indexing
- The Entry API: resolve a key's slot once, then occupied/vacant
  operations complete in O(1)
- Reserve, shrink-to-fit, clone, equality
- Iteration (keys, values, key/value pairs, mutable values) in table
  order: by (hash, key) within a bucket and in bucket-creation order
  across buckets. This order is not sorted by key, and a rehash may
  change it.

Files

- hash.go:      the Hasher/BuildHasher contract and the default
                 hash/maphash-backed hasher.
- map.go:       Map[K, V] itself.
- entry.go:     the Entry API.
- iter.go:      range-over-func iterators.

License

This code and its accompanying files have been released into the
public domain. There is NO WARRANTY, to the extent permitted by law.

*/

package avlhash
