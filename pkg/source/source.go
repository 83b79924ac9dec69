package source

import (
	"path/filepath"
	"sort"
	"strings"
)

// SourceFile represents a source file with its content and metadata
type SourceFile struct {
	Name    string // Display name (e.g., "main.ts", "<stdin>")
	Path    string // Full file path (empty for inline sources)
	Content string // The source code content

	lines       []string // Cached split lines (lazy initialization)
	lineOffsets []int    // Byte offset of the first byte of each line
}

// NewSourceFile creates a new source file
func NewSourceFile(name, path, content string) *SourceFile {
	return &SourceFile{
		Name:    name,
		Path:    path,
		Content: content,
	}
}

// NewInlineSource creates a source file for code that did not come from disk
// (tests, -e expressions).
func NewInlineSource(content string) *SourceFile {
	return &SourceFile{
		Name:    "<inline>",
		Content: content,
	}
}

// NewStdinSource creates a source file for stdin input
func NewStdinSource(content string) *SourceFile {
	return &SourceFile{
		Name:    "<stdin>",
		Content: content,
	}
}

// FromFile creates a SourceFile from a file path and content
func FromFile(filePath, content string) *SourceFile {
	return NewSourceFile(filepath.Base(filePath), filePath, content)
}

// Lines returns the source split into lines (cached)
func (sf *SourceFile) Lines() []string {
	if sf.lines == nil {
		sf.lines = strings.Split(sf.Content, "\n")
	}
	return sf.lines
}

// Line returns the 1-based line, or "" when out of range.
func (sf *SourceFile) Line(n int) string {
	lines := sf.Lines()
	if n < 1 || n > len(lines) {
		return ""
	}
	return strings.TrimRight(lines[n-1], "\r")
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

// Position maps a byte offset to a 1-based line and a 1-based column counted
// in bytes from the start of the line.
func (sf *SourceFile) Position(offset int) (line, column int) {
	if sf.lineOffsets == nil {
		sf.lineOffsets = []int{0}
		for i := 0; i < len(sf.Content); i++ {
			if sf.Content[i] == '\n' {
				sf.lineOffsets = append(sf.lineOffsets, i+1)
			}
		}
	}
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
