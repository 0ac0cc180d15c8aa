package llist

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func collect(head *Head) []*Head {
	var out []*Head
	for n := head.Next(); n != head; n = n.Next() {
		out = append(out, n)
	}
	return out
}

func TestEmptyInit(t *testing.T) {
	var h Head
	h.Init()
	assert.True(t, h.IsEmpty())
	assert.Equal(t, &h, h.Next())
	assert.Equal(t, &h, h.Prev())
}

func TestAddTailOrder(t *testing.T) {
	var head, a, b, c Head
	head.Init()
	AddTail(&head, &a)
	AddTail(&head, &b)
	AddTail(&head, &c)

	assert.False(t, head.IsEmpty())
	assert.Equal(t, []*Head{&a, &b, &c}, collect(&head))
	assert.Equal(t, &head, c.Next())
	assert.Equal(t, &c, head.Prev())
}

func TestDelInit(t *testing.T) {
	var head, a, b Head
	head.Init()
	AddTail(&head, &a)
	AddTail(&head, &b)

	a.DelInit()
	assert.Equal(t, []*Head{&b}, collect(&head))
	assert.True(t, a.IsEmpty())

	b.DelInit()
	assert.True(t, head.IsEmpty())
}

func TestReplace(t *testing.T) {
	var head, a, b, newHead Head
	head.Init()
	AddTail(&head, &a)
	AddTail(&head, &b)

	Replace(&head, &newHead)
	assert.Equal(t, []*Head{&a, &b}, collect(&newHead))

	var emptyHead, replacement Head
	emptyHead.Init()
	Replace(&emptyHead, &replacement)
	assert.True(t, replacement.IsEmpty())
}
