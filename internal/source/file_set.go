package source

import (
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"

	"fortio.org/safecast"
	"golang.org/x/text/unicode/norm"
)

// FileSet manages a collection of source files and resolves spans into
// line/column positions.
type FileSet struct {
	files   []File
	index   map[string]FileID // path -> latest id
	baseDir string
}

// NewFileSet creates a new empty FileSet.
func NewFileSet() *FileSet {
	return &FileSet{
		files: make([]File, 0),
		index: make(map[string]FileID),
	}
}

// NewFileSetWithBase creates a FileSet with a base directory for relative paths.
func NewFileSetWithBase(baseDir string) *FileSet {
	fs := NewFileSet()
	fs.baseDir = baseDir
	return fs
}

// SetBaseDir sets the base directory for relative paths.
func (fileSet *FileSet) SetBaseDir(dir string) {
	fileSet.baseDir = dir
}

// BaseDir returns the current base directory, defaulting to the working
// directory when unset.
func (fileSet *FileSet) BaseDir() string {
	if fileSet.baseDir == "" {
		if wd, err := os.Getwd(); err == nil {
			return wd
		}
	}
	return fileSet.baseDir
}

// Add stores a file from already-normalized text, computes the rune and line
// tables, and returns a new FileID. A path that was added before still gets
// a fresh FileID; the index tracks the latest one.
func (fileSet *FileSet) Add(path string, text string, flags FileFlags) FileID {
	hash := sha256.Sum256([]byte(text))
	runes := []rune(text)
	lineIdx := buildLineIndex(runes)
	normalizedPath := normalizePath(path)

	lenFiles, err := safecast.Conv[uint32](len(fileSet.files))
	if err != nil {
		panic(fmt.Errorf("len files overflow: %w", err))
	}
	id := FileID(lenFiles)
	fileSet.files = append(fileSet.files, File{
		ID:      id,
		Path:    normalizedPath,
		Text:    text,
		Runes:   runes,
		LineIdx: lineIdx,
		Hash:    hash,
		Flags:   flags,
	})
	fileSet.index[normalizedPath] = id
	return id
}

// Load reads a file from disk, strips the BOM, normalizes CRLF and applies
// NFC so rune offsets are stable for canonically-equivalent inputs, then
// calls Add.
func (fileSet *FileSet) Load(path string) (FileID, error) {
	// #nosec G304 -- path is provided by the caller
	content, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}

	text, hadBOM := removeBOM(string(content))
	text, hadCRLF := normalizeCRLF(text)

	flags := FileFlags(0)
	if hadBOM {
		flags |= FileHadBOM
	}
	if hadCRLF {
		flags |= FileNormalizedCRLF
	}
	if !norm.NFC.IsNormalString(text) {
		text = norm.NFC.String(text)
		flags |= FileNormalizedNFC
	}
	return fileSet.Add(path, text, flags), nil
}

// AddVirtual adds an in-memory file (editor buffer, test, stdin) as-is with
// the FileVirtual flag. No normalization: the text must match what the
// client sees so offsets line up.
func (fileSet *FileSet) AddVirtual(name string, text string) FileID {
	return fileSet.Add(name, text, FileVirtual)
}

// Get returns the file metadata for the given ID.
func (fileSet *FileSet) Get(id FileID) *File {
	return &fileSet.files[id]
}

// GetLatest returns the latest file ID for the given path, if it exists.
func (fileSet *FileSet) GetLatest(path string) (FileID, bool) {
	id, ok := fileSet.index[normalizePath(path)]
	return id, ok
}

// GetByPath returns the latest *File for a path, if loaded into this set.
func (fileSet *FileSet) GetByPath(path string) (*File, bool) {
	if id, ok := fileSet.index[normalizePath(path)]; ok {
		return &fileSet.files[id], true
	}
	return nil, false
}

// Resolve converts a span into line and column positions.
func (fileSet *FileSet) Resolve(span Span) (start, end LineCol) {
	f := fileSet.files[span.File]
	return toLineCol(f.LineIdx, span.Start), toLineCol(f.LineIdx, span.End)
}

// RuneLen returns the length of the file in runes.
func (f *File) RuneLen() uint32 {
	n, err := safecast.Conv[uint32](len(f.Runes))
	if err != nil {
		panic(fmt.Errorf("rune length overflow: %w", err))
	}
	return n
}

// Slice returns the text covered by a span, clamped to the file bounds.
func (f *File) Slice(span Span) string {
	start, end := span.Start, span.End
	n := f.RuneLen()
	if start > n {
		start = n
	}
	if end > n {
		end = n
	}
	if start >= end {
		return ""
	}
	return string(f.Runes[start:end])
}

// GetLine returns the 1-based line without its trailing newline. Missing
// lines resolve to the empty string.
func (f *File) GetLine(lineNum uint32) string {
	if lineNum == 0 {
		return ""
	}

	var start, end uint32
	lenLineIdx := uint32(len(f.LineIdx))

	switch {
	case lineNum == 1:
		start = 0
	case (lineNum - 2) < lenLineIdx:
		start = f.LineIdx[lineNum-2] + 1
	default:
		return ""
	}

	if (lineNum - 1) < lenLineIdx {
		end = f.LineIdx[lineNum-1]
	} else {
		end = f.RuneLen()
	}

	if start >= end {
		return ""
	}
	return string(f.Runes[start:end])
}

// LineCount returns the number of lines in the file. An empty file still
// has one line.
func (f *File) LineCount() uint32 {
	n, err := safecast.Conv[uint32](len(f.LineIdx))
	if err != nil {
		panic(fmt.Errorf("line count overflow: %w", err))
	}
	return n + 1
}

// LineStart returns the rune offset at which the 1-based line begins.
// Lines past the end resolve to the file length.
func (f *File) LineStart(lineNum uint32) uint32 {
	if lineNum <= 1 {
		return 0
	}
	if idx := lineNum - 2; idx < uint32(len(f.LineIdx)) {
		return f.LineIdx[idx] + 1
	}
	return f.RuneLen()
}

// LineAt returns the 1-based line containing the rune offset.
func (f *File) LineAt(off uint32) uint32 {
	return toLineCol(f.LineIdx, off).Line
}

// FormatPath renders the file path according to mode: "absolute",
// "relative", "basename" or "auto".
func (f *File) FormatPath(mode, baseDir string) string {
	switch mode {
	case "absolute":
		if abs, err := AbsolutePath(f.Path); err == nil {
			return abs
		}
		return f.Path

	case "relative":
		if baseDir == "" {
			if wd, err := os.Getwd(); err == nil {
				baseDir = wd
			}
		}
		if rel, err := RelativePath(f.Path, baseDir); err == nil {
			return rel
		}
		return f.Path

	case "basename":
		return BaseName(f.Path)

	case "auto":
		if len(f.Path) < 40 || !filepath.IsAbs(f.Path) {
			return f.Path
		}
		return BaseName(f.Path)

	default:
		return f.Path
	}
}
