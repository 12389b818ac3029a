package source

import (
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// SourceFile represents a source file with its content and metadata
type SourceFile struct {
	Name    string // Display name (e.g., "main.ts", "<stdin>", "<repl>")
	Path    string // Module path used for import resolution (empty for REPL input)
	Content string // The source code content

	base        Pos   // First global position of this file inside its FileSet
	lineOffsets []int // Byte offsets where each line starts (lazy)
	lineOnce    sync.Once
	lines       []string
}

// NewSourceFile creates a new source file
func NewSourceFile(name, path, content string) *SourceFile {
	return &SourceFile{
		Name:    name,
		Path:    path,
		Content: content,
	}
}

// NewReplSource creates a source file for REPL input
func NewReplSource(content string) *SourceFile {
	return &SourceFile{
		Name:    "<repl>",
		Path:    "",
		Content: content,
	}
}

// NewStdinSource creates a source file for stdin input
func NewStdinSource(content string) *SourceFile {
	return &SourceFile{
		Name:    "<stdin>",
		Path:    "",
		Content: content,
	}
}

// FromFile creates a SourceFile from a file path and content
func FromFile(filePath, content string) *SourceFile {
	name := filepath.Base(filePath)
	return NewSourceFile(name, filePath, content)
}

// Base returns the global position of the first byte of the file.
// Zero until the file has been added to a FileSet.
func (sf *SourceFile) Base() Pos {
	return sf.base
}

// Span converts a pair of byte offsets within this file into a global span.
func (sf *SourceFile) Span(start, end int) Span {
	return Span{Lo: sf.base + Pos(start), Hi: sf.base + Pos(end)}
}

// Lines returns the source split into lines (cached)
func (sf *SourceFile) Lines() []string {
	if sf.lines == nil {
		sf.lines = strings.Split(sf.Content, "\n")
	}
	return sf.lines
}

// DisplayPath returns the best path for display (prefers Path, falls back to Name)
func (sf *SourceFile) DisplayPath() string {
	if sf.Path != "" {
		return sf.Path
	}
	return sf.Name
}

// IsFile returns true if this represents an actual file (has a path)
func (sf *SourceFile) IsFile() bool {
	return sf.Path != ""
}

// LineCol converts a byte offset inside the file to a 1-based line and a
// 1-based byte column.
func (sf *SourceFile) LineCol(offset int) (line, col int) {
	sf.lineOnce.Do(func() {
		sf.lineOffsets = []int{0}
		for i := 0; i < len(sf.Content); i++ {
			if sf.Content[i] == '\n' {
				sf.lineOffsets = append(sf.lineOffsets, i+1)
			}
		}
	})
	if offset < 0 {
		offset = 0
	}
	if offset > len(sf.Content) {
		offset = len(sf.Content)
	}
	idx := sort.Search(len(sf.lineOffsets), func(i int) bool {
		return sf.lineOffsets[i] > offset
	}) - 1
	return idx + 1, offset - sf.lineOffsets[idx] + 1
}

// size is the number of positions the file occupies in a FileSet. One extra
// position is reserved so that an end-of-file span still maps to the file.
func (sf *SourceFile) size() int {
	return len(sf.Content) + 1
}
