// Package symbols holds the per-document symbol and reference table: which
// spans declare a name, which spans use one, and which declarations came in
// through imports. IDs are uint32 handles into slice arenas with slot 0
// reserved as the invalid sentinel, so a handle doubles as the slice index.
package symbols

import (
	"fmt"

	"fortio.org/safecast"

	"didls/internal/source"
)

// Reference is one recorded identifier use. Symbol is NoSymbolID when the
// use did not resolve to a declaration.
type Reference struct {
	Span   source.Span
	Symbol SymbolID
}

// ImportKind distinguishes plain type imports from service imports.
type ImportKind uint8

const (
	ImportType ImportKind = iota
	ImportService
)

func (k ImportKind) String() string {
	if k == ImportService {
		return "service"
	}
	return "type"
}

// Import is one import declaration together with the symbol that backs it.
type Import struct {
	Kind   ImportKind
	Path   string
	Span   source.Span
	Symbol SymbolID
}

// Table is the symbol/reference store for one analyzed document.
type Table struct {
	spanToSymbol map[source.Span]SymbolID
	symbolSpans  []source.Span // arena: SymbolID -> declaration span
	references   []Reference   // arena: ReferenceID -> reference
	symbolRefs   map[SymbolID][]ReferenceID
	imports      []Import
}

// Hints provide optional capacity suggestions for the table arenas.
type Hints struct{ Symbols, References uint }

// NewTable builds an empty table with optional capacity hints.
func NewTable(h Hints) *Table {
	symCap, err := safecast.Conv[uint32](h.Symbols)
	if err != nil {
		panic(fmt.Errorf("symbol capacity overflow: %w", err))
	}
	refCap, err := safecast.Conv[uint32](h.References)
	if err != nil {
		panic(fmt.Errorf("reference capacity overflow: %w", err))
	}
	if symCap == 0 {
		symCap = 16
	}
	if refCap == 0 {
		refCap = 32
	}
	return &Table{
		spanToSymbol: make(map[source.Span]SymbolID, symCap),
		symbolSpans:  make([]source.Span, 1, symCap+1), // index 0 reserved for NoSymbolID
		references:   make([]Reference, 1, refCap+1),   // index 0 reserved for NoReferenceID
		symbolRefs:   make(map[SymbolID][]ReferenceID, symCap),
	}
}

// AddSymbol claims span as a symbol declaration and returns the new ID.
// Re-adding a span allocates a fresh arena slot; the span map keeps the
// latest writer.
func (t *Table) AddSymbol(span source.Span) SymbolID {
	value, err := safecast.Conv[uint32](len(t.symbolSpans))
	if err != nil {
		panic(fmt.Errorf("symbol arena overflow: %w", err))
	}
	id := SymbolID(value)
	t.symbolSpans = append(t.symbolSpans, span)
	t.spanToSymbol[span] = id
	return id
}

// AddReference records an identifier use at span. sym may be NoSymbolID for
// unresolved uses; resolved uses also land in the reverse index.
func (t *Table) AddReference(span source.Span, sym SymbolID) ReferenceID {
	value, err := safecast.Conv[uint32](len(t.references))
	if err != nil {
		panic(fmt.Errorf("reference arena overflow: %w", err))
	}
	id := ReferenceID(value)
	t.references = append(t.references, Reference{Span: span, Symbol: sym})
	if sym.IsValid() {
		t.symbolRefs[sym] = append(t.symbolRefs[sym], id)
	}
	return id
}

// AddImport records an import declaration, claiming a backing symbol for its
// span, and returns that symbol.
func (t *Table) AddImport(kind ImportKind, path string, span source.Span) SymbolID {
	sym := t.AddSymbol(span)
	t.imports = append(t.imports, Import{Kind: kind, Path: path, Span: span, Symbol: sym})
	return sym
}

// SymbolAt resolves a declaration span back to its symbol.
func (t *Table) SymbolAt(span source.Span) (SymbolID, bool) {
	id, ok := t.spanToSymbol[span]
	return id, ok
}

// SymbolSpan returns the declaration span of a symbol.
func (t *Table) SymbolSpan(id SymbolID) (source.Span, bool) {
	if !id.IsValid() || int(id) >= len(t.symbolSpans) {
		return source.Span{}, false
	}
	return t.symbolSpans[id], true
}

// Reference returns a recorded reference by ID.
func (t *Table) Reference(id ReferenceID) (Reference, bool) {
	if !id.IsValid() || int(id) >= len(t.references) {
		return Reference{}, false
	}
	return t.references[id], true
}

// ReferencesOf lists the references resolved to the given symbol, in
// insertion order. The returned slice aliases table storage.
func (t *Table) ReferencesOf(id SymbolID) []ReferenceID {
	return t.symbolRefs[id]
}

// SymbolSpans returns the declaration-span arena, including the slot-0
// sentinel, so a SymbolID indexes it directly. The returned slice aliases
// table storage.
func (t *Table) SymbolSpans() []source.Span {
	return t.symbolSpans
}

// References returns the reference arena, including the slot-0 sentinel, so
// a ReferenceID indexes it directly. The returned slice aliases table
// storage.
func (t *Table) References() []Reference {
	return t.references
}

// Imports returns the recorded import entries in declaration order.
// The returned slice aliases table storage.
func (t *Table) Imports() []Import {
	return t.imports
}

// ImportBacked reports whether the symbol was created by an import
// declaration rather than a type binding.
func (t *Table) ImportBacked(id SymbolID) bool {
	_, ok := t.ImportFor(id)
	return ok
}

// ImportFor returns the import declaration backing the symbol, if any.
func (t *Table) ImportFor(id SymbolID) (Import, bool) {
	if id.IsValid() {
		for i := range t.imports {
			if t.imports[i].Symbol == id {
				return t.imports[i], true
			}
		}
	}
	return Import{}, false
}

// NumSymbols reports the number of declared symbols excluding the sentinel.
func (t *Table) NumSymbols() int { return len(t.symbolSpans) - 1 }

// NumReferences reports the number of recorded references excluding the
// sentinel.
func (t *Table) NumReferences() int { return len(t.references) - 1 }
