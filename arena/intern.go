package arena

import "github.com/minio/highwayhash"

// internKey is a fixed 32-byte key used to seed HighwayHash for string
// interning digests. It need not be secret: it only has to be stable
// across a process so that digests of equal strings are equal, the same
// role the teacher's inspector/graph.Hash helper plays when fingerprinting
// source content.
var internKey = []byte("stackgraph-intern-digest-key!!!!")

// digest returns a HighwayHash content hash for s. InternTable.Digest
// exposes it; Intern itself deduplicates through a plain Go map and does
// not consult the digest.
func digest(s string) uint64 {
	h, err := highwayhash.New64(internKey)
	if err != nil {
		// internKey is a fixed, valid 32-byte key; New64 only errors on
		// key length, so this is unreachable in practice.
		panic("arena: invalid intern key: " + err.Error())
	}
	_, _ = h.Write([]byte(s))
	return h.Sum64()
}

// InternTable interns strings to stable handles: equal strings always
// produce equal handles, per spec.md §3 "Symbols, files, and interning".
type InternTable[T any] struct {
	arena   Arena[string]
	byValue map[string]Handle[string]
	wrap    func(Handle[string]) T
	unwrap  func(T) Handle[string]
}

// NewInternTable creates an interning table whose handles are presented
// to callers as T (a distinct named type wrapping Handle[string], e.g.
// graph.Symbol or graph.File) rather than a bare Handle[string], so
// symbol handles and file handles cannot be confused at a call site even
// though both intern strings underneath.
func NewInternTable[T any](wrap func(Handle[string]) T, unwrap func(T) Handle[string]) *InternTable[T] {
	return &InternTable[T]{
		arena:   *NewArena[string](),
		byValue: make(map[string]Handle[string]),
		wrap:    wrap,
		unwrap:  unwrap,
	}
}

// Intern returns the handle for s, allocating a new one on first sight.
func (t *InternTable[T]) Intern(s string) T {
	if h, ok := t.byValue[s]; ok {
		return t.wrap(h)
	}
	h := t.arena.Add(s)
	t.byValue[s] = h
	return t.wrap(h)
}

// Value returns the interned string for a handle.
func (t *InternTable[T]) Value(v T) string {
	return *t.arena.Get(t.unwrap(v))
}

// Digest returns a stable content hash of the interned string, independent
// of allocation order.
func (t *InternTable[T]) Digest(v T) uint64 {
	return digest(t.Value(v))
}

// Len returns the number of distinct interned strings.
func (t *InternTable[T]) Len() int { return t.arena.Len() }
