package arena

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestArena_AddGet(t *testing.T) {
	a := NewArena[string]()
	h1 := a.Add("alpha")
	h2 := a.Add("beta")

	assert.Equal(t, "alpha", *a.Get(h1))
	assert.Equal(t, "beta", *a.Get(h2))
	assert.Equal(t, 2, a.Len())
	assert.NotEqual(t, h1, h2)
}

func TestArena_ZeroHandleInvalid(t *testing.T) {
	var h Handle[string]
	assert.False(t, h.Valid())
}

func TestArena_GetPanicsOnInvalidHandle(t *testing.T) {
	a := NewArena[string]()
	assert.Panics(t, func() {
		a.Get(Handle[string]{})
	})
}

func TestArena_Iter(t *testing.T) {
	a := NewArena[int]()
	a.Add(10)
	a.Add(20)
	a.Add(30)

	var sum int
	a.Iter(func(h Handle[int], v *int) {
		sum += *v
	})
	assert.Equal(t, 60, sum)
}

func TestListArena_PushPopStructuralSharing(t *testing.T) {
	la := NewListArena[int]()
	base := Empty[int]()
	l1 := base.PushFront(la, 1)
	l2 := l1.PushFront(la, 2)
	l3 := l1.PushFront(la, 3)

	assert.Equal(t, []int{2, 1}, l2.ToSlice(la))
	assert.Equal(t, []int{3, 1}, l3.ToSlice(la))

	v, rest, ok := l2.PopFront(la)
	assert.True(t, ok)
	assert.Equal(t, 2, v)
	assert.Equal(t, l1, rest)
}

func TestListArena_PopFrontEmpty(t *testing.T) {
	la := NewListArena[int]()
	_, _, ok := Empty[int]().PopFront(la)
	assert.False(t, ok)
}

func TestListArena_FromSliceRoundTrips(t *testing.T) {
	la := NewListArena[string]()
	l := FromSlice(la, []string{"a", "b", "c"})
	assert.Equal(t, []string{"a", "b", "c"}, l.ToSlice(la))
	assert.Equal(t, 3, l.Len(la))
}

func TestInternTable_EqualStringsEqualHandles(t *testing.T) {
	type Symbol struct{ h Handle[string] }
	tbl := NewInternTable(
		func(h Handle[string]) Symbol { return Symbol{h} },
		func(s Symbol) Handle[string] { return s.h },
	)

	s1 := tbl.Intern("foo")
	s2 := tbl.Intern("foo")
	s3 := tbl.Intern("bar")

	assert.Equal(t, s1, s2)
	assert.NotEqual(t, s1, s3)
	assert.Equal(t, "foo", tbl.Value(s1))
	assert.Equal(t, 2, tbl.Len())
	assert.Equal(t, tbl.Digest(s1), tbl.Digest(s2))
}
