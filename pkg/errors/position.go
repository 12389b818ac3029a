package errors

import "tscheck/pkg/source"

// Position represents a specific location in the source code.
// It includes line and column numbers (1-based) for human-readability,
// and byte offsets (0-based) for tooling.
type Position struct {
	Line     int                // 1-based line number
	Column   int                // 1-based column number (byte index within the line)
	StartPos int                // 0-based byte offset of the start of the span
	EndPos   int                // 0-based byte offset of the end of the span (exclusive)
	Source   *source.SourceFile // nil when the span could not be resolved
}

// Pos resolves the diagnostic's span against fset.
func (e *Error) Pos(fset *source.FileSet) Position {
	if fset == nil {
		return Position{}
	}
	loc, ok := fset.Resolve(e.Span)
	if !ok {
		return Position{}
	}
	return Position{
		Line:     loc.Line,
		Column:   loc.Column,
		StartPos: loc.Offset,
		EndPos:   loc.EndOff,
		Source:   loc.File,
	}
}
