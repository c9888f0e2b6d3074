package sema

import (
	"didls/internal/ast"
	"didls/internal/source"
	"didls/internal/symbols"
)

// Field is the metadata recorded for one record or variant member.
type Field struct {
	Span      source.Span // whole field including the type expression
	LabelSpan source.Span // label text inside Span; empty when not recovered
	TypeSpan  source.Span // type expression; empty for bare variant tags
	Label     string      // label as shown in completions and hovers
	Docs      string      // formatted doc markdown, "" when absent
	Parent    string      // enclosing declared type name, "" when anonymous
}

// Method is the metadata recorded for one service method.
type Method struct {
	Span      source.Span
	NameSpan  source.Span // method name; empty when not recovered
	TypeSpan  source.Span
	Docs      string
	Parent    string
	Signature *MethodSignature // nil unless the method type is a function literal
}

// MethodSignature is a method's flattened signature: one-line argument and
// result type texts plus the declared modes.
type MethodSignature struct {
	Args  []string
	Rets  []string
	Modes []ast.FuncMode
}

// Param is the metadata recorded for one function argument.
type Param struct {
	Span     source.Span // name (when present) through the end of the type
	NameSpan source.Span // empty for unnamed parameters
	TypeSpan source.Span
	Role     ParamRole
}

// Local is a scope-bound name: a field label inside its record or variant,
// or a named parameter inside its function type.
type Local struct {
	Name         string
	Span         source.Span
	Scope        source.Span
	IsDefinition bool
}

// TypeDoc pairs the rendered declaration of a type binding with its
// formatted doc comment. The zero value marks a symbol without one.
type TypeDoc struct {
	Rendered string
	Docs     string
}

// Actor is the metadata for the document's top-level service declaration.
type Actor struct {
	Span     source.Span
	NameSpan source.Span // empty for anonymous services
	Docs     string
	Rendered string // rendered declaration, "" for constructor and alias actors
}

// Semantic is the analysis result for one document. The metadata slices are
// arenas with slot 0 reserved, so FieldID, MethodID and ParamID index them
// directly; SymbolIdentSpans, SymbolIdentNames and TypeDocs run parallel to
// the table's symbol arena.
type Semantic struct {
	Table *symbols.Table

	Fields  []Field
	Methods []Method
	Params  []Param
	Locals  []Local

	SymbolIdentSpans []source.Span
	SymbolIdentNames []string
	TypeDocs         []TypeDoc

	Primitives []SpanOf[PrimKind]
	Keywords   []SpanOf[KeywordKind]

	Actor *Actor

	index identIndex
}

func newSemantic(decHint int) *Semantic {
	if decHint < 0 {
		decHint = 0
	}
	return &Semantic{
		Table:            symbols.NewTable(symbols.Hints{Symbols: uint(decHint)}),
		Fields:           make([]Field, 1),
		Methods:          make([]Method, 1),
		Params:           make([]Param, 1),
		SymbolIdentSpans: make([]source.Span, 1),
		SymbolIdentNames: make([]string, 1),
		TypeDocs:         make([]TypeDoc, 1),
	}
}

// Field returns a recorded field by ID.
func (s *Semantic) Field(id FieldID) (Field, bool) {
	if !id.IsValid() || int(id) >= len(s.Fields) {
		return Field{}, false
	}
	return s.Fields[id], true
}

// Method returns a recorded service method by ID.
func (s *Semantic) Method(id MethodID) (Method, bool) {
	if !id.IsValid() || int(id) >= len(s.Methods) {
		return Method{}, false
	}
	return s.Methods[id], true
}

// Param returns a recorded function parameter by ID.
func (s *Semantic) Param(id ParamID) (Param, bool) {
	if !id.IsValid() || int(id) >= len(s.Params) {
		return Param{}, false
	}
	return s.Params[id], true
}

// SymbolIdent returns the name-token span and name of a declared symbol.
// Import-backed symbols have neither.
func (s *Semantic) SymbolIdent(id symbols.SymbolID) (source.Span, string, bool) {
	if !id.IsValid() || int(id) >= len(s.SymbolIdentSpans) {
		return source.Span{}, "", false
	}
	span := s.SymbolIdentSpans[id]
	name := s.SymbolIdentNames[id]
	if span.Empty() && name == "" {
		return source.Span{}, "", false
	}
	return span, name, true
}

// TypeDocFor returns the rendered declaration and docs recorded for a
// symbol. Import-backed symbols have none.
func (s *Semantic) TypeDocFor(id symbols.SymbolID) (TypeDoc, bool) {
	if !id.IsValid() || int(id) >= len(s.TypeDocs) {
		return TypeDoc{}, false
	}
	doc := s.TypeDocs[id]
	if doc == (TypeDoc{}) {
		return TypeDoc{}, false
	}
	return doc, true
}
