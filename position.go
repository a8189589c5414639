package forge

import (
	"fmt"
	"sort"
	"unicode/utf8"
)

// FileID identifies a file within an Import registry (see registry.go). It
// is assigned when a file is first registered and is stable for the
// lifetime of one compilation.
type FileID int

const unknownFileID FileID = -1

// Range is a byte-offset span within a single file's source text. It is
// the unit every AST node and expression property block carries so that
// syntax errors can point back at the offending construct (spec section
// 7).
type Range struct{ Start, End int }

func NewRange(start, end int) Range {
	return Range{Start: start, End: end}
}

func (r Range) String() string {
	if r.Start == r.End {
		return fmt.Sprintf("%d", r.Start)
	}
	return fmt.Sprintf("%d..%d", r.Start, r.End)
}

func (r Range) Str(v []byte) string {
	return string(v[r.Start:r.End])
}

func (r Range) Contains(other Range) bool {
	return other.Start >= r.Start && other.End <= r.End
}

// Location is a human-facing line/column position, derived from a Range
// via a LineIndex.
type Location struct {
	Line   int32
	Column int32
	Cursor int
}

// Span pairs a FileID with a start/end Location, the unit embedded in
// every reported syntax error.
type Span struct {
	File  FileID
	Start Location
	End   Location
}

func (s Span) String() string {
	startLine, startCol := int(s.Start.Line), int(s.Start.Column)
	endLine, endCol := int(s.End.Line), int(s.End.Column)
	if startLine == endLine && startCol == endCol {
		return fmt.Sprintf("%d:%d", startLine, startCol)
	}
	if startLine == endLine {
		return fmt.Sprintf("%d:%d..%d", startLine, startCol, endCol)
	}
	return fmt.Sprintf("%d:%d..%d:%d", startLine, startCol, endLine, endCol)
}

// SourceLocation is the (file, range) pair threaded through the parser
// context and into declarations/expression properties.
type SourceLocation struct {
	FileID FileID
	Span   Range
}

func NewSourceLocation(f FileID, s Range) SourceLocation {
	return SourceLocation{FileID: f, Span: s}
}

// LineIndex allows fast conversion from byte cursor offsets to line/column.
//
// It stores the start byte offset of each line (0-based). Given a
// cursor, it finds the line by binary searching line starts (O(log
// lines)) and computes the column as (runes since lineStart + 1).
//
// Construction is O(n) over the input and is intended to be cached per
// file by the import registry.
type LineIndex struct {
	input     []byte
	lineStart []int
}

func NewLineIndex(input []byte) *LineIndex {
	lineStart := make([]int, 1, 64)
	lineStart[0] = 0
	for i, b := range input {
		if b == '\n' {
			lineStart = append(lineStart, i+1)
		}
	}
	return &LineIndex{input: input, lineStart: lineStart}
}

func (li *LineIndex) Span(file FileID, r Range) Span {
	return Span{
		File:  file,
		Start: li.LocationAt(r.Start),
		End:   li.LocationAt(r.End),
	}
}

func (li *LineIndex) LocationAt(cursor int) Location {
	if cursor < 0 {
		cursor = 0
	}
	if cursor > len(li.input) {
		cursor = len(li.input)
	}

	lineIdx := sort.Search(len(li.lineStart), func(i int) bool {
		return li.lineStart[i] > cursor
	}) - 1
	if lineIdx < 0 {
		lineIdx = 0
	}

	lineStart := li.lineStart[lineIdx]
	col := int32(utf8.RuneCount(li.input[lineStart:cursor])) + 1

	return Location{
		Line:   int32(lineIdx + 1),
		Column: col,
		Cursor: cursor,
	}
}
