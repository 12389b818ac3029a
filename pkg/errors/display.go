package errors

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/width"

	"tscheck/pkg/source"
)

// --- Error Reporting ---

// DisplayErrors writes diagnostics in a user-friendly format, including the
// source line and a position marker. Nested diagnostics are indented below
// their parent.
func DisplayErrors(w io.Writer, fset *source.FileSet, errs []*Error) {
	for _, err := range errs {
		displayOne(w, fset, err, 0)
		fmt.Fprintln(w)
	}
}

func displayOne(w io.Writer, fset *source.FileSet, err *Error, depth int) {
	indent := strings.Repeat("  ", depth)
	pos := err.Pos(fset)
	header := err.Kind.String()
	if code := err.Kind.Code(); code != 0 {
		header = fmt.Sprintf("TS%d", code)
	}

	if pos.Source == nil {
		fmt.Fprintf(w, "%serror %s: %s\n", indent, header, err.Msg)
	} else {
		fmt.Fprintf(w, "%s%s:%d:%d: error %s: %s\n", indent, pos.Source.DisplayPath(), pos.Line, pos.Column, header, err.Msg)
		lines := pos.Source.Lines()
		if idx := pos.Line - 1; idx >= 0 && idx < len(lines) {
			line := strings.TrimRight(lines[idx], "\r\n\t ")
			fmt.Fprintf(w, "%s  %s\n", indent, line)
			fmt.Fprintf(w, "%s  %s\n", indent, Marker(line, pos.Column-1, pos.EndPos-pos.StartPos))
		}
	}
	for _, n := range err.Nested {
		displayOne(w, fset, n, depth+1)
	}
}

// Marker builds the `^~~~` line for a span starting at byte column col of
// line and spanning n bytes. Tabs are preserved and East Asian wide runes
// count as two cells so the caret lines up in a terminal.
func Marker(line string, col, n int) string {
	if col < 0 {
		col = 0
	}
	if col > len(line) {
		col = len(line)
	}
	var sb strings.Builder
	for _, r := range line[:col] {
		if r == '\t' {
			sb.WriteByte('\t')
			continue
		}
		sb.WriteString(strings.Repeat(" ", cells(r)))
	}
	sb.WriteByte('^')

	end := col + n
	if end > len(line) {
		end = len(line)
	}
	if end < col {
		end = col
	}
	span := 0
	for _, r := range line[col:end] {
		span += cells(r)
	}
	if span > 1 {
		sb.WriteString(strings.Repeat("~", span-1))
	}
	return sb.String()
}

func cells(r rune) int {
	switch width.LookupRune(r).Kind() {
	case width.EastAsianWide, width.EastAsianFullwidth:
		return 2
	}
	return 1
}
