package ast

import "didls/internal/source"

// Prog is a parsed Candid document: an ordered list of declarations and at
// most one top-level service declaration.
type Prog struct {
	Decs  []Dec
	Actor *Actor // nil when the document declares no service
}

// DecKind discriminates top-level declarations.
type DecKind uint8

const (
	// DecType is a 'type Name = T;' declaration.
	DecType DecKind = iota
	// DecImportType is an 'import "path";' declaration.
	DecImportType
	// DecImportService is an 'import service "path";' declaration.
	DecImportService
)

// Dec is one top-level declaration. Exactly one of Binding/Import is set,
// matching Kind.
type Dec struct {
	Kind    DecKind
	Span    source.Span
	Binding *Binding
	Import  *Import
}

// Import records an import declaration.
type Import struct {
	Path     string // unquoted path text
	PathSpan source.Span
}

// Binding is a named type: either a 'type' declaration or a service method.
type Binding struct {
	ID       string
	NameSpan source.Span // span of the name token
	Span     source.Span // whole binding including the type expression
	Typ      *Type
	Docs     []string // raw leading comment lines
}

// Actor is the document's top-level service declaration.
type Actor struct {
	Span     source.Span
	Name     string      // empty for an anonymous service
	NameSpan source.Span // empty when anonymous
	Typ      *Type
	Docs     []string
}
