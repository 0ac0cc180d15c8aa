package hashtable

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// entry is a minimal owner record standing in for a facade-level map
// entry: enough to exercise Node without pulling in the fastbin/kv
// machinery that owns real entries.
type entry struct {
	key   string
	value int
	node  Node[string]
}

func newEntry(tbl *Table[string], hash uint64, key string, value int) *entry {
	e := &entry{key: key, value: value}
	e.node.Reset(hash, &e.key, e)
	return e
}

func hashOf(s string) uint64 {
	var h uint64 = 1469598103934665603
	for i := 0; i < len(s); i++ {
		h ^= uint64(s[i])
		h *= 1099511628211
	}
	return h
}

func add(t *testing.T, tbl *Table[string], key string, value int) *entry {
	t.Helper()
	e := newEntry(tbl, hashOf(key), key, value)
	dup := tbl.Add(&e.node)
	require.Nil(t, dup)
	return e
}

func TestAddFindRoundTrip(t *testing.T) {
	tbl := New[string]()
	words := []string{"alpha", "bravo", "charlie", "delta", "echo", "foxtrot", "golf", "hotel"}
	for i, w := range words {
		add(t, tbl, w, i)
	}
	assert.Equal(t, len(words), tbl.Count())

	for i, w := range words {
		n := tbl.Find(hashOf(w), w)
		require.NotNil(t, n, "missing %q", w)
		assert.Equal(t, w, n.Key())
		assert.Equal(t, i, n.Owner.(*entry).value)
	}
	assert.Nil(t, tbl.Find(hashOf("missing"), "missing"))
}

func TestAddDuplicateReturnsExisting(t *testing.T) {
	tbl := New[string]()
	first := add(t, tbl, "key", 1)

	second := &entry{key: "key", value: 2}
	second.node.Reset(hashOf("key"), &second.key, second)
	dup := tbl.Add(&second.node)
	require.NotNil(t, dup)
	assert.Same(t, &first.node, dup)
	assert.Equal(t, 1, tbl.Count())
}

func TestEraseRemovesAndUnlinks(t *testing.T) {
	tbl := New[string]()
	a := add(t, tbl, "a", 1)
	add(t, tbl, "b", 2)

	tbl.Erase(&a.node)
	assert.Equal(t, 1, tbl.Count())
	assert.Nil(t, tbl.Find(hashOf("a"), "a"))
	assert.True(t, a.node.avl.Empty())

	b := tbl.Find(hashOf("b"), "b")
	require.NotNil(t, b)
	tbl.Erase(b)
	assert.Equal(t, 0, tbl.Count())
	assert.Nil(t, tbl.First())
}

func TestOrderedIterationAcrossBuckets(t *testing.T) {
	tbl := New[string]()
	words := []string{"one", "two", "three", "four", "five", "six", "seven", "eight", "nine", "ten"}
	for i, w := range words {
		add(t, tbl, w, i)
	}

	var seen []string
	for n := tbl.First(); n != nil; n = tbl.Next(n) {
		seen = append(seen, n.Key())
	}
	assert.Len(t, seen, len(words))

	var rev []string
	for n := tbl.Last(); n != nil; n = tbl.Prev(n) {
		rev = append(rev, n.Key())
	}
	for i, j := 0, len(rev)-1; i < j; i, j = i+1, j-1 {
		rev[i], rev[j] = rev[j], rev[i]
	}
	assert.Equal(t, seen, rev)
}

func TestReplaceSwapsStorageInPlace(t *testing.T) {
	tbl := New[string]()
	old := add(t, tbl, "k", 1)

	neu := &entry{key: "k", value: 99}
	neu.node.Reset(hashOf("k"), &neu.key, neu)
	tbl.Replace(&old.node, &neu.node)

	found := tbl.Find(hashOf("k"), "k")
	require.NotNil(t, found)
	assert.Same(t, &neu.node, found)
	assert.Equal(t, 99, found.Owner.(*entry).value)
	assert.True(t, old.node.avl.Empty())
	assert.Equal(t, 1, tbl.Count())
}

func TestRehashGrowsIndexAndPreservesEntries(t *testing.T) {
	tbl := New[string]()
	const n = 200
	keys := make([]string, 0, n)
	for i := 0; i < n; i++ {
		k := string(rune('a'+(i%26))) + string(rune('A'+(i/26)%26)) + string(rune('0'+i%10))
		keys = append(keys, k)
		e := newEntry(tbl, hashOf(k), k, i)
		tbl.Add(&e.node)
		tbl.DefaultRehash()
	}

	assert.Greater(t, tbl.Capacity(), initIndexSize)
	assert.Equal(t, len(keys), tbl.Count())
	for i, k := range keys {
		got := tbl.Find(hashOf(k), k)
		require.NotNil(t, got, "missing %q after rehash", k)
		assert.Equal(t, i, got.Owner.(*entry).value)
	}
}

func TestPopFirstIndexDetachesBucket(t *testing.T) {
	tbl := New[string]()
	add(t, tbl, "a", 1)
	add(t, tbl, "b", 2)

	var popped int
	for {
		root := tbl.PopFirstIndex()
		if root == nil {
			break
		}
		popped++
	}
	assert.GreaterOrEqual(t, popped, 1)
	assert.Nil(t, tbl.First())
}

func TestMaxBucketLoad(t *testing.T) {
	tbl := New[string]()
	assert.Equal(t, 0, tbl.MaxBucketLoad())
	add(t, tbl, "a", 1)
	assert.Equal(t, 1, tbl.MaxBucketLoad())
}
