package stitching

import (
	"github.com/viant/stackgraph/arena"
	"github.com/viant/stackgraph/cycles"
	"github.com/viant/stackgraph/graph"
	"github.com/viant/stackgraph/partial"
)

// CandidateKind distinguishes the two sources of extension a stitching
// run draws from (spec.md §4.5): a single graph edge, or a whole
// precomputed partial path pulled from the Database.
type CandidateKind uint8

const (
	EdgeCandidate CandidateKind = iota
	DatabaseCandidate
)

// Candidate is the opaque handle type threaded through
// cycles.AppendableProvider for a stitching run: it names either a graph
// edge or a database-stored partial path without the cycle detector
// needing to know which.
type Candidate struct {
	Kind     CandidateKind
	Edge     graph.Edge
	DBHandle arena.Handle[partial.PartialPath]
}

// CandidateProvider groups the read-only graph and database a stitching
// run draws candidates from, matching spec.md §6's AppendableProvider
// ("groups (graph, partials, database)").
type CandidateProvider struct {
	Graph    *graph.StackGraph
	Database *Database

	// Scope, when valid, confines CandidatesAt to edges and database
	// paths landing inside this one file, with the graph's Root node
	// admitted as a boundary it does not itself enumerate past. This is
	// what PrecomputeFile uses to run a within-file variant of the
	// search (spec.md's Dataflow sentence on C4): cross-file continuation
	// past Root is left to the full stitching run over the database C4
	// populates. The zero File leaves Scope invalid, so every other
	// caller sees the unrestricted behavior this type always had.
	Scope graph.File
}

var _ cycles.AppendableProvider[Candidate] = CandidateProvider{}

// CandidatesAt enumerates every way to extend a path ending at node:
// every outgoing edge, highest precedence first, followed by every
// partial path the database has recorded as starting at node.
func (p CandidateProvider) CandidatesAt(node arena.Handle[graph.Node]) []Candidate {
	if p.Scope.Valid() && node == p.Graph.Root() {
		return nil
	}

	edges := p.Graph.OutgoingEdges(node)
	candidates := make([]Candidate, 0, len(edges))
	for _, e := range edges {
		if p.outOfScope(e.Sink) {
			continue
		}
		candidates = append(candidates, Candidate{Kind: EdgeCandidate, Edge: e})
	}
	if p.Database != nil {
		for _, h := range p.Database.PathsStartingAt(node) {
			if p.outOfScope(p.Database.Get(h).EndNode) {
				continue
			}
			candidates = append(candidates, Candidate{Kind: DatabaseCandidate, DBHandle: h})
		}
	}
	return candidates
}

// outOfScope reports whether sink falls outside Scope, when Scope is in
// effect. Root itself (the zero File) is never out of scope: it is the
// admitted boundary node, just not a place CandidatesAt continues from.
func (p CandidateProvider) outOfScope(sink arena.Handle[graph.Node]) bool {
	if !p.Scope.Valid() {
		return false
	}
	sinkFile := p.Graph.Node(sink).File()
	if !sinkFile.Valid() {
		return false
	}
	return sinkFile != p.Scope
}

// GetAppendable resolves a Candidate to the Appendable it names,
// satisfying cycles.AppendableProvider[Candidate].
func (p CandidateProvider) GetAppendable(c Candidate) cycles.Appendable {
	switch c.Kind {
	case DatabaseCandidate:
		return PartialPathAppendable{Path: p.Database.Get(c.DBHandle)}
	default:
		return EdgeAppendable{Edge: c.Edge}
	}
}
