package fastbin

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type record struct {
	a, b int64
}

func TestAllocZeroedAndStable(t *testing.T) {
	p := New[record]()
	a := p.Alloc()
	a.a, a.b = 1, 2
	b := p.Alloc()
	assert.Zero(t, *b)
	assert.Equal(t, int64(1), a.a)
	assert.Equal(t, 2, p.Live())
}

func TestFreeReuseIsZeroed(t *testing.T) {
	p := New[record]()
	a := p.Alloc()
	a.a = 99
	p.Free(a)
	assert.Equal(t, 0, p.Live())

	b := p.Alloc()
	assert.Zero(t, *b)
	assert.Equal(t, 1, p.Live())
}

func TestPagesGrowGeometricallyAndCap(t *testing.T) {
	p := New[record]()
	const n = initialPageCapacity*4 + 17
	ptrs := make([]*record, 0, n)
	for i := 0; i < n; i++ {
		r := p.Alloc()
		r.a = int64(i)
		ptrs = append(ptrs, r)
	}
	assert.Equal(t, n, p.Live())
	for i, r := range ptrs {
		assert.Equal(t, int64(i), r.a, "pointer identity must survive further allocation")
	}
	assert.LessOrEqual(t, p.nextPageCap, maxPageCapacity)
}

func TestFreelistIsLIFO(t *testing.T) {
	p := New[record]()
	a := p.Alloc()
	b := p.Alloc()
	p.Free(a)
	p.Free(b)
	// b was freed last, so it should be handed back first.
	got := p.Alloc()
	assert.Same(t, b, got)
}
