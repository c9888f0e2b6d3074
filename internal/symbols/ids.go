package symbols

// SymbolID identifies a declared symbol inside the table arena.
type SymbolID uint32

const (
	// NoSymbolID marks the absence of a symbol reference.
	NoSymbolID SymbolID = 0
)

// IsValid reports whether the symbol ID refers to an allocated symbol.
func (id SymbolID) IsValid() bool { return id != NoSymbolID }

// ReferenceID identifies a recorded identifier use inside the table arena.
type ReferenceID uint32

const (
	// NoReferenceID marks the absence of a reference.
	NoReferenceID ReferenceID = 0
)

// IsValid reports whether the reference ID refers to a recorded reference.
func (id ReferenceID) IsValid() bool { return id != NoReferenceID }
