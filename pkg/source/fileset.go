package source

import (
	"fmt"
	"sort"
	"sync"
)

// Pos is a global position inside a FileSet. The zero value means "no position".
type Pos int

// NoPos is the zero Pos.
const NoPos Pos = 0

// Span is a half-open range of global positions [Lo, Hi).
type Span struct {
	Lo Pos
	Hi Pos
}

// DummySpan is used for synthesized nodes and types that have no source location.
var DummySpan = Span{}

// IsDummy reports whether the span carries no location.
func (s Span) IsDummy() bool {
	return s.Lo == NoPos && s.Hi == NoPos
}

func (s Span) String() string {
	return fmt.Sprintf("%d..%d", s.Lo, s.Hi)
}

// Location is a resolved, human-readable source location.
type Location struct {
	File   *SourceFile
	Line   int // 1-based
	Column int // 1-based
	Offset int // 0-based byte offset inside File
	EndOff int // 0-based byte offset of the span end inside File
}

// FileSet assigns every added file a disjoint range of global positions so a
// bare Span can be mapped back to its file. A FileSet is passed explicitly to
// every component that needs to resolve spans; it is safe for concurrent use.
type FileSet struct {
	mu    sync.RWMutex
	files []*SourceFile
	next  Pos
}

// NewFileSet creates an empty FileSet. Positions start at 1 so that the zero
// Pos never belongs to a file.
func NewFileSet() *FileSet {
	return &FileSet{next: 1}
}

// Add registers a file and assigns its base. Adding the same file twice is a no-op.
func (fs *FileSet) Add(file *SourceFile) *SourceFile {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	if file.base != NoPos {
		return file
	}
	file.base = fs.next
	fs.next += Pos(file.size())
	fs.files = append(fs.files, file)
	return file
}

// File returns the file containing pos, or nil.
func (fs *FileSet) File(pos Pos) *SourceFile {
	if pos == NoPos {
		return nil
	}
	fs.mu.RLock()
	defer fs.mu.RUnlock()

	i := sort.Search(len(fs.files), func(i int) bool {
		return fs.files[i].base > pos
	}) - 1
	if i < 0 {
		return nil
	}
	f := fs.files[i]
	if pos >= f.base+Pos(f.size()) {
		return nil
	}
	return f
}

// Resolve maps a span to its location. ok is false for dummy or foreign spans.
func (fs *FileSet) Resolve(span Span) (loc Location, ok bool) {
	f := fs.File(span.Lo)
	if f == nil {
		return Location{}, false
	}
	offset := int(span.Lo - f.base)
	end := int(span.Hi - f.base)
	if end < offset {
		end = offset
	}
	line, col := f.LineCol(offset)
	return Location{File: f, Line: line, Column: col, Offset: offset, EndOff: end}, true
}
