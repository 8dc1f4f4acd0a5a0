package stitching

import (
	stackgraph "github.com/viant/stackgraph"
	"github.com/viant/stackgraph/arena"
	"github.com/viant/stackgraph/cycles"
	"github.com/viant/stackgraph/graph"
	"github.com/viant/stackgraph/partial"
)

// StitcherConfig tunes one stitching run (spec.md §4.7).
type StitcherConfig struct {
	// DetectSimilarPaths enables the SimilarPathDetector prune (trades
	// completeness for termination on graphs with many equivalent routes).
	DetectSimilarPaths bool
	// CollectStats enables the similarity detector's bucket statistics.
	CollectStats bool
	// MaxWorkPerTick thins out the dequeue cancellation check to one per
	// MaxWorkPerTick queue items; 0 checks at every dequeue. The checks
	// before candidate enumeration and before each enqueue run regardless.
	MaxWorkPerTick int
}

// DefaultStitcherConfig matches the original crate's defaults: similar-path
// detection on, stats off, checking cancellation every tick.
func DefaultStitcherConfig() StitcherConfig {
	return StitcherConfig{DetectSimilarPaths: true}
}

type workItem struct {
	path partial.PartialPath
	cd   cycles.AppendingCycleDetector[Candidate]
}

// ForwardPartialPathStitcher runs the worklist search described in
// spec.md §4.7: starting from a zero-length partial path at each seed
// node, it repeatedly appends every available candidate (outgoing edges
// plus database-stored partial paths) to the paths at the front of a FIFO
// queue, filtering out disallowed cycles and dominated near-duplicates,
// until every queued path has either completed or been discarded.
type ForwardPartialPathStitcher struct {
	graph    *graph.StackGraph
	partials *partial.PartialPaths
	provider CandidateProvider

	appendables *cycles.Appendables[Candidate]
	similar     *cycles.SimilarPathDetector[partial.PartialPath]

	config StitcherConfig
	queue  []workItem

	// reportBoundary makes run treat "no further candidates" as a result
	// worth reporting even when isComplete is false. FindAllCompletePartialPaths
	// leaves this false: a cross-file search that dead-ends without closing
	// its stacks found nothing usable. FindPartialPathsWithinFile sets it,
	// since a within-file search is expected to dead-end at the graph's
	// Root boundary with its stacks still open — that open partial path is
	// exactly what PrecomputeFile stores for later cross-file stitching.
	reportBoundary bool
}

// NewForwardPartialPathStitcher creates a stitcher over g and db, sharing
// partials as the variable-minting context for every path it builds.
func NewForwardPartialPathStitcher(g *graph.StackGraph, db *Database, partials *partial.PartialPaths, config StitcherConfig) *ForwardPartialPathStitcher {
	return &ForwardPartialPathStitcher{
		graph:       g,
		partials:    partials,
		provider:    CandidateProvider{Graph: g, Database: db},
		appendables: cycles.NewAppendables[Candidate](),
		similar:     cycles.NewSimilarPathDetector[partial.PartialPath](),
		config:      config,
	}
}

// FindAllCompletePartialPaths runs the stitcher from every node in starts,
// invoking onComplete for each complete partial path found, in FIFO
// (shortest-first) discovery order. It returns the CancellationError cancel
// produced if the run was aborted (spec.md §6 "Stitching interface").
func FindAllCompletePartialPaths(
	g *graph.StackGraph,
	db *Database,
	partials *partial.PartialPaths,
	starts []arena.Handle[graph.Node],
	config StitcherConfig,
	cancel stackgraph.CancellationFlag,
	onComplete func(partial.PartialPath),
) error {
	s := NewForwardPartialPathStitcher(g, db, partials, config)
	if config.CollectStats {
		s.similar.SetCollectStats(true)
	}
	for _, seed := range starts {
		if err := s.enqueueSeed(seed); err != nil {
			return err
		}
	}
	return s.run(cancel, onComplete)
}

// FindPartialPathsWithinFile runs the same worklist search as
// FindAllCompletePartialPaths, but confines every extension step to
// file's own nodes, admitting the graph's Root node only as a boundary it
// does not enumerate past (spec.md's "within-file variant of C7" that C4
// runs per file; see PrecomputeFile).
//
// Unlike FindAllCompletePartialPaths, this seeds each start with an open
// (*partial.PartialPaths).FromNode variable rather than partial.SeedAt.
// The stored results are meant to be composed onto a caller's own path by
// a later cross-file run — including, in the common case, a run seeded at
// this very same start node via SeedAt. An open seed defers a push-kind
// start's own action entirely to whatever composes onto it, so it unifies
// cleanly with that caller's already-applied action instead of asserting
// its own closed copy of it; a SeedAt seed would instead bake a second,
// conflicting copy of that action into every stored result.
func FindPartialPathsWithinFile(
	g *graph.StackGraph,
	db *Database,
	partials *partial.PartialPaths,
	starts []arena.Handle[graph.Node],
	file graph.File,
	config StitcherConfig,
	cancel stackgraph.CancellationFlag,
	onComplete func(partial.PartialPath),
) error {
	s := NewForwardPartialPathStitcher(g, db, partials, config)
	s.provider.Scope = file
	s.reportBoundary = true
	if config.CollectStats {
		s.similar.SetCollectStats(true)
	}
	for _, seed := range starts {
		s.enqueueOpenSeed(seed)
	}
	return s.run(cancel, onComplete)
}

func (s *ForwardPartialPathStitcher) enqueueSeed(node arena.Handle[graph.Node]) error {
	seed, err := partial.SeedAt(s.graph, node)
	if err != nil {
		return err
	}
	s.enqueue(seed)
	return nil
}

func (s *ForwardPartialPathStitcher) enqueueOpenSeed(node arena.Handle[graph.Node]) {
	s.enqueue(s.partials.FromNode(node))
}

func (s *ForwardPartialPathStitcher) enqueue(seed partial.PartialPath) {
	// The detector's history must include the seed itself (interned as its
	// first element) so that a one-edge self-loop back to the seed node is
	// recognized as a cycle the very first time it is appended — an empty
	// detector would pop its only element as the "head" with nothing left
	// to compare it against. See cycles.FromPartialPath.
	cd := cycles.FromPartialPath(s.appendables, seed)
	s.queue = append(s.queue, workItem{path: seed, cd: cd})
}

func (s *ForwardPartialPathStitcher) run(cancel stackgraph.CancellationFlag, onComplete func(partial.PartialPath)) error {
	ticks := 0
	for len(s.queue) > 0 {
		if s.config.MaxWorkPerTick <= 0 || ticks%s.config.MaxWorkPerTick == 0 {
			if err := cancel.Check("forward_partial_path_stitcher/dequeue"); err != nil {
				return err
			}
		}
		ticks++

		item := s.queue[0]
		s.queue = s.queue[1:]
		p := item.path

		if isComplete(s.graph, p) {
			onComplete(p)
			continue
		}

		if err := cancel.Check("forward_partial_path_stitcher/enumerate_candidates"); err != nil {
			return err
		}
		candidates := s.provider.CandidatesAt(p.EndNode)

		if len(candidates) == 0 && s.reportBoundary {
			onComplete(p)
			continue
		}

		for _, candidate := range candidates {
			extended := p
			appendable := s.provider.GetAppendable(candidate)
			if err := appendable.AppendTo(s.graph, s.partials, &extended); err != nil {
				continue // path-local resolution error: drop this candidate
			}

			cd := item.cd.Append(s.appendables, candidate)
			cyclicity, err := cycles.IsCyclic(s.graph, s.partials, s.provider, s.appendables, cd)
			if err != nil {
				continue
			}
			if forbidsCycle(cyclicity) {
				continue
			}

			if s.config.DetectSimilarPaths {
				if s.similar.AddPath(extended, shadowComparator) {
					continue
				}
			}

			if err := cancel.Check("forward_partial_path_stitcher/enqueue"); err != nil {
				return err
			}
			s.queue = append(s.queue, workItem{path: extended, cd: cd})
		}
	}
	return nil
}

// isComplete reports whether p has resolved to a concrete endpoint: both
// stacks fully closed with nothing left over, and the end node is a place
// resolution can legitimately stop (a definition, or any node with no
// further outgoing edges to chase). A path that still carries an open
// variable, unconsumed concrete entries, or ends mid-graph needs more
// stitching before it can be reported.
func isComplete(g *graph.StackGraph, p partial.PartialPath) bool {
	if !p.SymbolPrecondition.IsEmpty() || !p.SymbolPostcondition.IsEmpty() ||
		!p.ScopePrecondition.IsEmpty() || !p.ScopePostcondition.IsEmpty() {
		return false
	}
	if g.IsDefinition(p.EndNode) {
		return true
	}
	return len(g.OutgoingEdges(p.EndNode)) == 0
}

// forbidsCycle rejects a candidate extension whose self-composition
// neither stabilizes (Free) nor is guaranteed to terminate on its own: a
// cycle that only ever strengthens one side without ever being Free is
// unbounded, so the stitcher must not keep unrolling it.
func forbidsCycle(set partial.CyclicitySet) bool {
	if set.IsEmpty() {
		return false
	}
	return !set.Has(partial.Free)
}

// shadowComparator implements spec.md §4.6.1's "shorter, or higher
// cumulative precedence" dominance rule: a strictly shorter candidate
// dominates; equal-length candidates with strictly higher total edge
// precedence dominate; a longer or lower-precedence candidate is
// dominated, and equal length with equal total precedence compares
// Equal, so the later of two such paths is dropped. It never reports
// Incomparable.
func shadowComparator(candidate, existing partial.PartialPath) cycles.Comparison {
	switch {
	case len(candidate.Edges) < len(existing.Edges):
		return cycles.Less
	case len(candidate.Edges) > len(existing.Edges):
		return cycles.Greater
	}
	cp, ep := totalPrecedence(candidate), totalPrecedence(existing)
	switch {
	case cp > ep:
		return cycles.Less
	case cp < ep:
		return cycles.Greater
	default:
		return cycles.Equal
	}
}

func totalPrecedence(p partial.PartialPath) int64 {
	var sum int64
	for _, e := range p.Edges {
		sum += int64(e.Precedence)
	}
	return sum
}
