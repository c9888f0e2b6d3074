package sema

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"didls/internal/ast"
	"didls/internal/render"
	"didls/internal/source"
	"didls/internal/symbols"
)

// Analyze runs the semantic pass over a parsed document. Declarations are
// hoisted first so forward and mutually recursive references resolve; the
// bodies are walked after. The only failure mode is a reference to an
// undeclared type name, returned as *UndefinedVariableError with no partial
// result.
func Analyze(prog *ast.Prog, file *source.File) (*Semantic, error) {
	decs := 0
	if prog != nil {
		decs = len(prog.Decs)
	}
	a := &analyzer{file: file, sem: newSemantic(decs)}
	if err := a.program(prog); err != nil {
		return nil, err
	}
	a.sem.index = buildIdentIndex(a.sem)
	return a.sem, nil
}

// envEntry is one declared name visible to type references, keyed back into
// the symbol table by its declaration span.
type envEntry struct {
	name string
	span source.Span
}

type analyzer struct {
	file *source.File
	sem  *Semantic

	env       []envEntry
	typeNames []string      // enclosing declaration names; "" for anonymous frames
	scopes    []source.Span // enclosing record/variant spans for locals
}

func (a *analyzer) program(prog *ast.Prog) error {
	if prog == nil {
		return nil
	}
	for i := range prog.Decs {
		a.hoistDec(&prog.Decs[i])
	}
	for i := range prog.Decs {
		if err := a.dec(&prog.Decs[i]); err != nil {
			return err
		}
	}
	if prog.Actor != nil {
		if err := a.actor(prog.Actor); err != nil {
			return err
		}
	}
	a.importKeywordSweep()
	return nil
}

// hoistDec declares the symbol of one top-level declaration before any body
// is analyzed.
func (a *analyzer) hoistDec(dec *ast.Dec) {
	switch dec.Kind {
	case ast.DecType:
		b := dec.Binding
		if b == nil {
			return
		}
		a.registerKeyword(b.Span, KeywordType)
		sym := a.declareSymbol(b.ID, b.Span)
		if ident, ok := computeBindingIdentSpan(a.file, b); ok {
			a.sem.SymbolIdentSpans[sym] = ident
		}
		a.sem.TypeDocs[sym] = TypeDoc{
			Rendered: render.Binding(b),
			Docs:     formatDocs(b.Docs),
		}
	case ast.DecImportType, ast.DecImportService:
		if dec.Import == nil {
			return
		}
		kind := symbols.ImportType
		if dec.Kind == ast.DecImportService {
			kind = symbols.ImportService
		}
		sym := a.sem.Table.AddImport(kind, dec.Import.Path, dec.Span)
		a.registerImportKeyword(dec.Span, dec.Import.Path)
		a.registerSymbolSlot(sym)
	}
}

func (a *analyzer) dec(dec *ast.Dec) error {
	if dec.Kind != ast.DecType || dec.Binding == nil {
		return nil
	}
	a.pushTypeName(dec.Binding.ID)
	err := a.typ(dec.Binding.Typ)
	a.popTypeName()
	return err
}

func (a *analyzer) actor(actor *ast.Actor) error {
	a.registerKeyword(actor.Span, KeywordService)
	meta := Actor{Span: actor.Span, Docs: formatDocs(actor.Docs)}
	name, nameSpan, _ := computeActorName(a.file, actor.Span)
	meta.NameSpan = nameSpan
	if rendered, ok := render.ActorDeclaration(name, actor.Typ); ok {
		meta.Rendered = rendered
	}
	a.sem.Actor = &meta
	a.pushTypeName(name)
	err := a.typ(actor.Typ)
	a.popTypeName()
	return err
}

// declareSymbol claims the declaration span in the table, grows the
// parallel arenas and makes the name visible to references.
func (a *analyzer) declareSymbol(name string, span source.Span) symbols.SymbolID {
	sym := a.sem.Table.AddSymbol(span)
	a.registerSymbolSlot(sym)
	a.sem.SymbolIdentNames[sym] = name
	a.env = append(a.env, envEntry{name: name, span: span})
	return sym
}

// registerSymbolSlot keeps SymbolIdentSpans, SymbolIdentNames and TypeDocs
// aligned with the table's symbol arena.
func (a *analyzer) registerSymbolSlot(sym symbols.SymbolID) {
	for uint32(len(a.sem.SymbolIdentSpans)) <= uint32(sym) {
		a.sem.SymbolIdentSpans = append(a.sem.SymbolIdentSpans, source.Span{})
		a.sem.SymbolIdentNames = append(a.sem.SymbolIdentNames, "")
		a.sem.TypeDocs = append(a.sem.TypeDocs, TypeDoc{})
	}
}

// findSymbol resolves a name to its declaration span, the innermost
// declaration winning when a name is declared twice.
func (a *analyzer) findSymbol(name string) (source.Span, bool) {
	for i := len(a.env) - 1; i >= 0; i-- {
		if a.env[i].name == name {
			return a.env[i].span, true
		}
	}
	return source.Span{}, false
}

func (a *analyzer) pushTypeName(name string) {
	a.typeNames = append(a.typeNames, name)
}

func (a *analyzer) popTypeName() {
	a.typeNames = a.typeNames[:len(a.typeNames)-1]
}

// currentTypeName is the innermost named enclosing declaration.
func (a *analyzer) currentTypeName() string {
	for i := len(a.typeNames) - 1; i >= 0; i-- {
		if a.typeNames[i] != "" {
			return a.typeNames[i]
		}
	}
	return ""
}

func (a *analyzer) pushScope(span source.Span) {
	a.scopes = append(a.scopes, span)
}

func (a *analyzer) popScope() {
	a.scopes = a.scopes[:len(a.scopes)-1]
}

func (a *analyzer) currentScope() (source.Span, bool) {
	if len(a.scopes) == 0 {
		return source.Span{}, false
	}
	return a.scopes[len(a.scopes)-1], true
}

// registerImportKeyword marks the 'import' keyword of one import
// declaration by searching the line the declaration starts on. When the
// spans disagree with the text, fall back to scanning every line that
// mentions both the keyword and the import path.
func (a *analyzer) registerImportKeyword(span source.Span, path string) {
	if !span.Empty() {
		line := a.file.LineAt(span.Start)
		if kw, ok := findIdentifierSpan(a.file, a.lineSpan(line), "import", false); ok {
			a.sem.Keywords = append(a.sem.Keywords, SpanOf[KeywordKind]{Span: kw, Value: KeywordImport})
			return
		}
	}
	for line := uint32(1); line <= a.file.LineCount(); line++ {
		text := a.file.GetLine(line)
		if !strings.Contains(text, "import") || !strings.Contains(text, path) {
			continue
		}
		if kw, ok := findIdentifierSpan(a.file, a.lineSpan(line), "import", false); ok {
			a.sem.Keywords = append(a.sem.Keywords, SpanOf[KeywordKind]{Span: kw, Value: KeywordImport})
			return
		}
	}
}

// importKeywordSweep marks the leading 'import' keyword on every line that
// starts with one, covering import statements the parser rejected. Lines
// already marked by registerImportKeyword are skipped.
func (a *analyzer) importKeywordSweep() {
	const keyword = "import"
	for line := uint32(1); line <= a.file.LineCount(); line++ {
		text := a.file.GetLine(line)
		trimmed := strings.TrimLeftFunc(text, unicode.IsSpace)
		rest, ok := strings.CutPrefix(trimmed, keyword)
		if !ok {
			continue
		}
		if rest != "" {
			next, _ := utf8.DecodeRuneInString(rest)
			if !unicode.IsSpace(next) && next != '"' {
				continue
			}
		}
		leading := utf8.RuneCountInString(text) - utf8.RuneCountInString(trimmed)
		start := a.file.LineStart(line) + uint32(leading)
		span := source.Span{File: a.file.ID, Start: start, End: start + uint32(len(keyword))}
		if a.hasImportKeywordAt(span) {
			continue
		}
		a.sem.Keywords = append(a.sem.Keywords, SpanOf[KeywordKind]{Span: span, Value: KeywordImport})
	}
}

func (a *analyzer) hasImportKeywordAt(span source.Span) bool {
	for _, kw := range a.sem.Keywords {
		if kw.Value == KeywordImport && kw.Span == span {
			return true
		}
	}
	return false
}

func (a *analyzer) lineSpan(line uint32) source.Span {
	return source.Span{
		File:  a.file.ID,
		Start: a.file.LineStart(line),
		End:   a.file.LineStart(line + 1),
	}
}
