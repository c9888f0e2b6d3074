// Package diagfmt renders collected diagnostics for humans and machines:
// caret-annotated frames for terminals, plus the JSON shapes shared by the
// check report formats. It also formats token dumps for the tokens command.
package diagfmt

// PathMode specifies how file paths are displayed.
type PathMode uint8

const (
	// PathModeAuto keeps short or relative paths and trims long absolute
	// ones to their basename.
	PathModeAuto PathMode = iota
	PathModeAbsolute
	PathModeRelative
	PathModeBasename
)

func (m PathMode) String() string {
	switch m {
	case PathModeAbsolute:
		return "absolute"
	case PathModeRelative:
		return "relative"
	case PathModeBasename:
		return "basename"
	}
	return "auto"
}

// PrettyOpts configures pretty-printing of diagnostics.
type PrettyOpts struct {
	Color     bool
	Context   int // extra plain lines shown above and below the span line
	PathMode  PathMode
	ShowNotes bool
}

// JSONOpts configures the JSON form of diagnostics.
type JSONOpts struct {
	IncludePositions bool // resolve spans into line/col pairs
	PathMode         PathMode
	Max              int // cap on emitted diagnostics, 0 means all
	IncludeNotes     bool
}
