package graph

// Position is a location within a file's source text: 0-based line, plus
// both a UTF-8 byte-offset column and a grapheme-cluster column (the pair
// an LSP client typically needs, and that lsp_positions provides in the
// original Rust implementation). No corpus repo carries an LSP-position
// library, so this is a small first-party type rather than a borrowed
// dependency — see DESIGN.md.
type Position struct {
	Line            int
	Utf8Column      int
	GraphemeColumn  int
}

// Span is a half-open-ish [Start, End] source range; End is inclusive of
// its line for the purposes of AssertionTarget matching (spec.md §4.8).
type Span struct {
	Start Position
	End   Position
}

// Contains reports whether p falls within the span, inclusive at both
// ends: p's line must lie in the span's line range, and on the start and
// end lines its UTF-8 column must also lie at or after Start's column and
// at or before End's column respectively.
func (s Span) Contains(p Position) bool {
	if p.Line < s.Start.Line || p.Line > s.End.Line {
		return false
	}
	if p.Line == s.Start.Line && p.Utf8Column < s.Start.Utf8Column {
		return false
	}
	if p.Line == s.End.Line && p.Utf8Column > s.End.Utf8Column {
		return false
	}
	return true
}

// SourceInfo attaches a source span and free-form debug attributes to a node.
type SourceInfo struct {
	Span       Span
	Attributes map[string]string
}
