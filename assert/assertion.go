package assert

import (
	stackgraph "github.com/viant/stackgraph"
	"github.com/viant/stackgraph/arena"
	"github.com/viant/stackgraph/graph"
	"github.com/viant/stackgraph/partial"
	"github.com/viant/stackgraph/stitching"
)

// Kind is the closed set of assertion shapes (spec.md §4.8).
type Kind uint8

const (
	// Defined asserts that the references at Source resolve to exactly
	// the definitions listed in Targets.
	Defined Kind = iota
	// Defines asserts that Source defines exactly the symbols in Symbols.
	Defines
	// Refers asserts that Source refers to exactly the symbols in Symbols.
	Refers
)

// Assertion is one expectation about name resolution at a source
// position, checked by Run against a built graph.
type Assertion struct {
	Kind    Kind
	Source  Source
	Targets []Target     // Defined only
	Symbols []graph.Symbol // Defines / Refers only
}

// Run checks the assertion against g, using db as the stitcher's partial
// path database and config to tune the search. It returns nil on success
// or an *Error describing the mismatch.
func (a Assertion) Run(
	g *graph.StackGraph,
	partials *partial.PartialPaths,
	db *stitching.Database,
	config stitching.StitcherConfig,
	cancel stackgraph.CancellationFlag,
) error {
	switch a.Kind {
	case Defined:
		return a.runDefined(g, partials, db, config, cancel)
	case Defines:
		return a.runDefines(g)
	case Refers:
		return a.runRefers(g)
	default:
		return nil
	}
}

func (a Assertion) runDefined(
	g *graph.StackGraph,
	partials *partial.PartialPaths,
	db *stitching.Database,
	config stitching.StitcherConfig,
	cancel stackgraph.CancellationFlag,
) error {
	references := a.Source.References(g)
	if len(references) == 0 {
		return &Error{Kind: NoReferences, Source: a.Source}
	}

	var resolved []partial.PartialPath
	err := stitching.FindAllCompletePartialPaths(
		g, db, partials, references, config, cancel,
		func(p partial.PartialPath) { resolved = append(resolved, p) },
	)
	if err != nil {
		return &Error{Kind: Cancelled, Source: a.Source, Cause: err}
	}

	actual := filterShadowed(resolved)

	var missingTargets []Target
	for _, target := range a.Targets {
		found := false
		for _, p := range actual {
			if target.Matches(p.EndNode, g) {
				found = true
				break
			}
		}
		if !found {
			missingTargets = append(missingTargets, target)
		}
	}

	var unexpected []partial.PartialPath
	for _, p := range actual {
		matchesAny := false
		for _, target := range a.Targets {
			if target.Matches(p.EndNode, g) {
				matchesAny = true
				break
			}
		}
		if !matchesAny {
			unexpected = append(unexpected, p)
		}
	}

	if len(missingTargets) == 0 && len(unexpected) == 0 {
		return nil
	}
	return &Error{
		Kind:            IncorrectlyDefined,
		Source:          a.Source,
		References:      references,
		MissingTargets:  missingTargets,
		UnexpectedPaths: unexpected,
	}
}

func (a Assertion) runDefines(g *graph.StackGraph) error {
	actual := symbolsOf(g, a.Source.Definitions(g))
	missing, unexpected := diffSymbols(a.Symbols, actual)
	if len(missing) == 0 && len(unexpected) == 0 {
		return nil
	}
	return &Error{
		Kind:              IncorrectDefinitions,
		Source:            a.Source,
		MissingSymbols:    missing,
		UnexpectedSymbols: unexpected,
	}
}

func (a Assertion) runRefers(g *graph.StackGraph) error {
	actual := symbolsOf(g, a.Source.References(g))
	missing, unexpected := diffSymbols(a.Symbols, actual)
	if len(missing) == 0 && len(unexpected) == 0 {
		return nil
	}
	return &Error{
		Kind:              IncorrectReferences,
		Source:            a.Source,
		MissingSymbols:    missing,
		UnexpectedSymbols: unexpected,
	}
}

func symbolsOf(g *graph.StackGraph, nodes []arena.Handle[graph.Node]) []graph.Symbol {
	seen := make(map[graph.Symbol]bool)
	var out []graph.Symbol
	for _, h := range nodes {
		sym, ok := g.Node(h).Symbol()
		if !ok || seen[sym] {
			continue
		}
		seen[sym] = true
		out = append(out, sym)
	}
	return out
}

func diffSymbols(expected, actual []graph.Symbol) (missing, unexpected []graph.Symbol) {
	expectedSet := make(map[graph.Symbol]bool, len(expected))
	for _, s := range expected {
		expectedSet[s] = true
	}
	actualSet := make(map[graph.Symbol]bool, len(actual))
	for _, s := range actual {
		actualSet[s] = true
	}
	for _, s := range expected {
		if !actualSet[s] {
			missing = append(missing, s)
		}
	}
	for _, s := range actual {
		if !expectedSet[s] {
			unexpected = append(unexpected, s)
		}
	}
	return missing, unexpected
}

// filterShadowed keeps only the paths that no other path in paths shadows
// (partial.Shadows), computed in a single pass over a fixed copy of the
// input rather than mutating the set under iteration.
func filterShadowed(paths []partial.PartialPath) []partial.PartialPath {
	snapshot := append([]partial.PartialPath(nil), paths...)
	var kept []partial.PartialPath
	for _, p := range snapshot {
		shadowed := false
		for _, other := range snapshot {
			if partial.Shadows(other, p) {
				shadowed = true
				break
			}
		}
		if !shadowed {
			kept = append(kept, p)
		}
	}
	return kept
}

