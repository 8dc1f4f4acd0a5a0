package assert

import (
	"fmt"

	"github.com/viant/stackgraph/arena"
	"github.com/viant/stackgraph/graph"
	"github.com/viant/stackgraph/partial"
)

// ErrorKind enumerates the ways an assertion can fail (spec.md §7
// "Assertion errors").
type ErrorKind uint8

const (
	// NoReferences means a Defined assertion's source position contains
	// no reference nodes at all, so there is nothing to stitch.
	NoReferences ErrorKind = iota
	// IncorrectlyDefined means a Defined assertion's resolved paths don't
	// match its expected targets exactly.
	IncorrectlyDefined
	// IncorrectDefinitions means a Defines assertion's symbols don't
	// match what is actually defined at the position.
	IncorrectDefinitions
	// IncorrectReferences is the Refers analogue of IncorrectDefinitions.
	IncorrectReferences
	// Cancelled means the cancellation flag fired during stitching.
	Cancelled
)

func (k ErrorKind) String() string {
	switch k {
	case NoReferences:
		return "no_references"
	case IncorrectlyDefined:
		return "incorrectly_defined"
	case IncorrectDefinitions:
		return "incorrect_definitions"
	case IncorrectReferences:
		return "incorrect_references"
	case Cancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Error reports why an assertion failed. Only the fields relevant to Kind
// are populated; see each ErrorKind's doc comment.
type Error struct {
	Kind   ErrorKind
	Source Source

	References      []arena.Handle[graph.Node]
	MissingTargets  []Target
	UnexpectedPaths []partial.PartialPath

	MissingSymbols    []graph.Symbol
	UnexpectedSymbols []graph.Symbol

	Cause error
}

func (e *Error) Error() string {
	switch e.Kind {
	case NoReferences:
		return fmt.Sprintf("no references found at %s", e.sourceString())
	case IncorrectlyDefined:
		return fmt.Sprintf("%s: incorrectly defined (missing %d target(s), %d unexpected path(s))",
			e.sourceString(), len(e.MissingTargets), len(e.UnexpectedPaths))
	case IncorrectDefinitions:
		return fmt.Sprintf("%s: incorrect definitions (missing %d, unexpected %d)",
			e.sourceString(), len(e.MissingSymbols), len(e.UnexpectedSymbols))
	case IncorrectReferences:
		return fmt.Sprintf("%s: incorrect references (missing %d, unexpected %d)",
			e.sourceString(), len(e.MissingSymbols), len(e.UnexpectedSymbols))
	case Cancelled:
		return fmt.Sprintf("%s: cancelled: %v", e.sourceString(), e.Cause)
	default:
		return "unknown assertion error"
	}
}

func (e *Error) Unwrap() error { return e.Cause }

func (e *Error) sourceString() string {
	return fmt.Sprintf("%d:%d", e.Source.Position.Line+1, e.Source.Position.Utf8Column+1)
}
