package stack

import "fmt"

// ErrorKind enumerates the path-resolution errors from spec.md §7 that are
// relevant to concrete path construction (component C3). These are
// expected, path-local failures: the stitcher drops the offending
// candidate and continues, it never aborts a run because of one.
type ErrorKind uint8

const (
	EmptySymbolStack ErrorKind = iota
	EmptyScopeStack
	IncorrectPoppedSymbol
	IncorrectSourceNode
	IncorrectFile
	MissingAttachedScopeList
	UnexpectedAttachedScopeList
	UnknownAttachedScope
)

func (k ErrorKind) String() string {
	switch k {
	case EmptySymbolStack:
		return "empty_symbol_stack"
	case EmptyScopeStack:
		return "empty_scope_stack"
	case IncorrectPoppedSymbol:
		return "incorrect_popped_symbol"
	case IncorrectSourceNode:
		return "incorrect_source_node"
	case IncorrectFile:
		return "incorrect_file"
	case MissingAttachedScopeList:
		return "missing_attached_scope_list"
	case UnexpectedAttachedScopeList:
		return "unexpected_attached_scope_list"
	case UnknownAttachedScope:
		return "unknown_attached_scope"
	default:
		return "unknown"
	}
}

// PathError is a path-local resolution error. It is always recoverable:
// callers (principally the forward stitcher) drop the path that produced
// it and move on.
type PathError struct {
	Kind    ErrorKind
	Message string
}

func (e *PathError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
	return e.Kind.String()
}

func newErr(kind ErrorKind, format string, args ...interface{}) *PathError {
	return &PathError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}
