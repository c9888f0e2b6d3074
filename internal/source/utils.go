package source

import (
	"path/filepath"
	"sort"
	"strings"
)

// normalizeCRLF replaces every \r\n with \n, leaving lone \r untouched.
// Returns the result and whether anything changed.
func normalizeCRLF(text string) (string, bool) {
	if !strings.Contains(text, "\r\n") {
		return text, false
	}
	return strings.ReplaceAll(text, "\r\n", "\n"), true
}

func removeBOM(text string) (string, bool) {
	if strings.HasPrefix(text, "\uFEFF") {
		return text[len("\uFEFF"):], true
	}
	return text, false
}

// buildLineIndex records the rune offset of every '\n' in the text.
func buildLineIndex(runes []rune) []uint32 {
	var out []uint32
	for i, r := range runes {
		if r == '\n' {
			out = append(out, uint32(i))
		}
	}
	return out
}

// toLineCol converts a rune offset into a 1-based line/column pair.
// A '\n' belongs to the line it terminates.
func toLineCol(lineIdx []uint32, off uint32) LineCol {
	line := sort.Search(len(lineIdx), func(i int) bool { return lineIdx[i] >= off })
	var startOff uint32
	if line > 0 {
		startOff = lineIdx[line-1] + 1
	}
	return LineCol{Line: uint32(line) + 1, Col: off - startOff + 1}
}

func normalizePath(p string) string {
	return filepath.ToSlash(filepath.Clean(p))
}

// AbsolutePath resolves p against the working directory, normalized to
// forward slashes.
func AbsolutePath(p string) (string, error) {
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", err
	}
	return normalizePath(abs), nil
}

// RelativePath rewrites p relative to base. Paths that escape the base
// directory fall back to the absolute form so diffs stay readable.
func RelativePath(p, base string) (string, error) {
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", err
	}
	baseAbs, err := filepath.Abs(base)
	if err != nil {
		return "", err
	}
	rel, err := filepath.Rel(baseAbs, abs)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return normalizePath(abs), nil
	}
	return normalizePath(rel), nil
}

// BaseName returns the final path element.
func BaseName(p string) string {
	return filepath.Base(p)
}
