package symbols

import (
	"testing"

	"didls/internal/source"
)

func sp(start, end uint32) source.Span {
	return source.Span{File: 1, Start: start, End: end}
}

func TestTable_AddSymbol(t *testing.T) {
	tbl := NewTable(Hints{})

	a := tbl.AddSymbol(sp(0, 10))
	b := tbl.AddSymbol(sp(12, 20))
	if !a.IsValid() || !b.IsValid() || a == b {
		t.Fatalf("ids: a=%d b=%d", a, b)
	}
	if tbl.NumSymbols() != 2 {
		t.Fatalf("NumSymbols: got %d, want 2", tbl.NumSymbols())
	}

	got, ok := tbl.SymbolAt(sp(0, 10))
	if !ok || got != a {
		t.Fatalf("SymbolAt: got %d ok=%v, want %d", got, ok, a)
	}
	span, ok := tbl.SymbolSpan(b)
	if !ok || span != sp(12, 20) {
		t.Fatalf("SymbolSpan: got %v ok=%v", span, ok)
	}
}

func TestTable_AddSymbol_LastWriterWins(t *testing.T) {
	tbl := NewTable(Hints{})

	first := tbl.AddSymbol(sp(0, 10))
	second := tbl.AddSymbol(sp(0, 10))
	if first == second {
		t.Fatal("duplicate span must still allocate a fresh arena slot")
	}
	// карта спанов указывает на последнего писателя, арena хранит обоих
	got, ok := tbl.SymbolAt(sp(0, 10))
	if !ok || got != second {
		t.Fatalf("SymbolAt after rewrite: got %d, want %d", got, second)
	}
	if tbl.NumSymbols() != 2 {
		t.Fatalf("NumSymbols: got %d, want 2", tbl.NumSymbols())
	}
	if span, ok := tbl.SymbolSpan(first); !ok || span != sp(0, 10) {
		t.Fatalf("first slot should stay addressable: %v %v", span, ok)
	}
}

func TestTable_References(t *testing.T) {
	tbl := NewTable(Hints{})
	sym := tbl.AddSymbol(sp(0, 10))

	r1 := tbl.AddReference(sp(20, 25), sym)
	r2 := tbl.AddReference(sp(30, 35), sym)
	unresolved := tbl.AddReference(sp(40, 45), NoSymbolID)

	if !r1.IsValid() || !r2.IsValid() || !unresolved.IsValid() {
		t.Fatal("reference ids must be valid")
	}
	if tbl.NumReferences() != 3 {
		t.Fatalf("NumReferences: got %d, want 3", tbl.NumReferences())
	}

	ref, ok := tbl.Reference(unresolved)
	if !ok || ref.Symbol != NoSymbolID || ref.Span != sp(40, 45) {
		t.Fatalf("unresolved reference: %+v ok=%v", ref, ok)
	}

	refs := tbl.ReferencesOf(sym)
	if len(refs) != 2 || refs[0] != r1 || refs[1] != r2 {
		t.Fatalf("ReferencesOf: got %v, want [%d %d]", refs, r1, r2)
	}
	if got := tbl.ReferencesOf(NoSymbolID); got != nil {
		t.Fatalf("unresolved references must not be indexed, got %v", got)
	}
}

func TestTable_Imports(t *testing.T) {
	tbl := NewTable(Hints{})
	typeSym := tbl.AddImport(ImportType, "other.did", sp(0, 19))
	svcSym := tbl.AddImport(ImportService, "lib/main.did", sp(21, 50))

	imports := tbl.Imports()
	if len(imports) != 2 {
		t.Fatalf("imports: got %d, want 2", len(imports))
	}
	if imports[0].Kind != ImportType || imports[0].Path != "other.did" || imports[0].Symbol != typeSym {
		t.Errorf("import 0: %+v", imports[0])
	}
	if imports[1].Kind != ImportService || imports[1].Symbol != svcSym {
		t.Errorf("import 1: %+v", imports[1])
	}

	// импорт занимает слот символа со спаном всей декларации
	span, ok := tbl.SymbolSpan(typeSym)
	if !ok || span != sp(0, 19) {
		t.Fatalf("import symbol span: %v ok=%v", span, ok)
	}
	if !tbl.ImportBacked(typeSym) || !tbl.ImportBacked(svcSym) {
		t.Error("import symbols must be marked import-backed")
	}
	imp, ok := tbl.ImportFor(svcSym)
	if !ok || imp.Kind != ImportService || imp.Path != "lib/main.did" {
		t.Fatalf("ImportFor(svc): %+v ok=%v", imp, ok)
	}

	plain := tbl.AddSymbol(sp(60, 70))
	if tbl.ImportBacked(plain) {
		t.Error("plain symbol must not be import-backed")
	}
	if _, ok := tbl.ImportFor(plain); ok {
		t.Error("plain symbol must not resolve to an import")
	}
}

func TestTable_SentinelInvalid(t *testing.T) {
	tbl := NewTable(Hints{})
	if _, ok := tbl.SymbolSpan(NoSymbolID); ok {
		t.Error("sentinel symbol must not resolve")
	}
	if _, ok := tbl.Reference(NoReferenceID); ok {
		t.Error("sentinel reference must not resolve")
	}
	if _, ok := tbl.SymbolSpan(SymbolID(99)); ok {
		t.Error("out-of-range symbol must not resolve")
	}
}

// TestTable_ReferentialIntegrity прогоняет смешанную последовательность и
// проверяет, что все хэндлы сходятся: каждый ненулевой Reference.Symbol и
// Import.Symbol указывает на живой слот, а обратный индекс согласован.
func TestTable_ReferentialIntegrity(t *testing.T) {
	tbl := NewTable(Hints{Symbols: 4, References: 8})

	syms := []SymbolID{
		tbl.AddSymbol(sp(0, 10)),
		tbl.AddSymbol(sp(12, 30)),
		tbl.AddImport(ImportType, "dep.did", sp(32, 50)),
	}
	tbl.AddReference(sp(60, 65), syms[0])
	tbl.AddReference(sp(70, 75), syms[1])
	tbl.AddReference(sp(80, 85), NoSymbolID)
	tbl.AddReference(sp(90, 95), syms[0])

	for id := ReferenceID(1); int(id) <= tbl.NumReferences(); id++ {
		ref, ok := tbl.Reference(id)
		if !ok {
			t.Fatalf("reference %d must resolve", id)
		}
		if ref.Symbol.IsValid() {
			if _, ok := tbl.SymbolSpan(ref.Symbol); !ok {
				t.Errorf("reference %d points at dead symbol %d", id, ref.Symbol)
			}
		}
	}
	for _, imp := range tbl.Imports() {
		if _, ok := tbl.SymbolSpan(imp.Symbol); !ok {
			t.Errorf("import %q points at dead symbol %d", imp.Path, imp.Symbol)
		}
	}
	for _, sym := range syms {
		for _, rid := range tbl.ReferencesOf(sym) {
			ref, ok := tbl.Reference(rid)
			if !ok {
				t.Fatalf("indexed reference %d must resolve", rid)
			}
			if ref.Symbol != sym {
				t.Errorf("reverse index mismatch: ref %d has symbol %d, indexed under %d", rid, ref.Symbol, sym)
			}
		}
	}
}
