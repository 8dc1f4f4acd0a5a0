package graph

import "github.com/viant/stackgraph/arena"

// Edge is a directed connection between two nodes with a precedence used
// to break ties between alternative resolutions (spec.md §3 "Edge").
// Higher precedence shadows lower precedence.
type Edge struct {
	Source     arena.Handle[Node]
	Sink       arena.Handle[Node]
	Precedence int32
}
