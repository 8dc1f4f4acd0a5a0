package arena

// listCell is one node of a persistent singly-linked list stored in a
// ListArena. Structural sharing means many Lists can point at the same
// cell; cells are never mutated after creation.
type listCell[T any] struct {
	value T
	next  List[T]
}

// ListArena is a shared arena of list cells. Every List handle from a
// given ListArena must be used with that same ListArena — pass it by
// pointer through every call, as spec.md §3 "Lifetimes and ownership"
// requires for arena-backed path storage.
type ListArena[T any] struct {
	cells Arena[listCell[T]]
}

// NewListArena creates an empty list arena.
func NewListArena[T any]() *ListArena[T] {
	return &ListArena[T]{cells: *NewArena[listCell[T]]()}
}

// List is a persistent singly-linked list: either empty, or a cons cell
// handle into a ListArena. The zero value is the empty list.
type List[T any] struct {
	head Handle[listCell[T]]
}

// Empty returns the empty list.
func Empty[T any]() List[T] { return List[T]{} }

// IsEmpty reports whether the list has no elements.
func (l List[T]) IsEmpty() bool { return !l.head.Valid() }

// PushFront returns a new list with value prepended, sharing the tail with l.
func (l List[T]) PushFront(arena *ListArena[T], value T) List[T] {
	h := arena.cells.Add(listCell[T]{value: value, next: l})
	return List[T]{head: h}
}

// PopFront returns the first element and the remaining list, or ok=false
// if l is empty.
func (l List[T]) PopFront(arena *ListArena[T]) (value T, rest List[T], ok bool) {
	if l.IsEmpty() {
		return value, rest, false
	}
	cell := arena.cells.Get(l.head)
	return cell.value, cell.next, true
}

// Len walks the list counting elements. O(n); callers on a hot path
// should track length separately if they need it repeatedly.
func (l List[T]) Len(arena *ListArena[T]) int {
	n := 0
	for cur := l; !cur.IsEmpty(); {
		cell := arena.cells.Get(cur.head)
		n++
		cur = cell.next
	}
	return n
}

// ToSlice materializes the list, front to back, into a freshly allocated slice.
func (l List[T]) ToSlice(arena *ListArena[T]) []T {
	out := make([]T, 0, l.Len(arena))
	for cur := l; !cur.IsEmpty(); {
		cell := arena.cells.Get(cur.head)
		out = append(out, cell.value)
		cur = cell.next
	}
	return out
}

// FromSlice builds a list from a slice, front-to-back (slice[0] becomes
// the head), sharing no structure with any existing list.
func FromSlice[T any](arena *ListArena[T], values []T) List[T] {
	l := Empty[T]()
	for i := len(values) - 1; i >= 0; i-- {
		l = l.PushFront(arena, values[i])
	}
	return l
}
