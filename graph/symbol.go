package graph

import "github.com/viant/stackgraph/arena"

// Symbol is an interned program identifier. Equality is handle equality,
// per spec.md §3 "Symbols, files, and interning".
type Symbol struct {
	h arena.Handle[string]
}

func (s Symbol) handle() arena.Handle[string] { return s.h }
func wrapSymbol(h arena.Handle[string]) Symbol { return Symbol{h} }

// File is an interned compilation unit name. The root node belongs to no
// file, represented by the zero File value (File{}.Valid() is false).
type File struct {
	h arena.Handle[string]
}

func (f File) handle() arena.Handle[string] { return f.h }
func wrapFile(h arena.Handle[string]) File   { return File{h} }

// Valid reports whether f identifies a real file (vs. the global/root
// namespace).
func (f File) Valid() bool { return f.h.Valid() }
