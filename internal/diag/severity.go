package diag

// Severity ranks a diagnostic. The numeric order is load-bearing: Bag
// sorting and the HasErrors/HasWarnings threshold checks rely on hint <
// info < warning < error.
type Severity uint8

const (
	// SevHint marks editor-only nudges that never affect exit codes.
	SevHint Severity = iota
	// SevInfo is for informational diagnostics.
	SevInfo
	SevWarning
	SevError
)

// String returns the uppercase form printed in diagnostic frame headers.
func (s Severity) String() string {
	switch s {
	case SevHint:
		return "HINT"
	case SevInfo:
		return "INFO"
	case SevWarning:
		return "WARNING"
	case SevError:
		return "ERROR"
	}
	return "UNKNOWN"
}
