package ast

import (
	"strconv"

	"didls/internal/source"
)

// TypeKind discriminates type expressions.
type TypeKind uint8

const (
	// TypePrim is a primitive type name (nat, text, ...).
	TypePrim TypeKind = iota
	// TypeVar is a reference to a declared type name.
	TypeVar
	// TypePrincipal is the 'principal' type.
	TypePrincipal
	// TypeOpt is 'opt T'.
	TypeOpt
	// TypeVec is 'vec T'. 'blob' parses as vec nat8 whose spans cover the
	// blob token itself.
	TypeVec
	// TypeFunc is a function type '(args) -> (rets) modes'.
	TypeFunc
	// TypeRecord is 'record { ... }'.
	TypeRecord
	// TypeVariant is 'variant { ... }'.
	TypeVariant
	// TypeService is an inline service type 'service { ... }'.
	TypeService
	// TypeClass is a service constructor '(init args) -> T'.
	TypeClass
)

// Type is one type expression node. Fields beyond Kind and Span are
// populated per kind.
type Type struct {
	Kind TypeKind
	Span source.Span

	Prim      string    // TypePrim: canonical primitive name
	Var       string    // TypeVar: referenced identifier
	Elem      *Type     // TypeOpt, TypeVec
	Fields    []Field   // TypeRecord, TypeVariant
	Methods   []Binding // TypeService
	Func      *FuncSig  // TypeFunc
	ClassArgs []*Type   // TypeClass
	ClassRet  *Type     // TypeClass
}

// FuncSig is the signature of a function type.
type FuncSig struct {
	Modes []FuncMode
	Args  []*Type
	Rets  []*Type
}

// FuncMode is a function annotation.
type FuncMode uint8

const (
	ModeQuery FuncMode = iota
	ModeOneway
	ModeCompositeQuery
)

// String returns the source keyword for the mode.
func (m FuncMode) String() string {
	switch m {
	case ModeQuery:
		return "query"
	case ModeOneway:
		return "oneway"
	case ModeCompositeQuery:
		return "composite_query"
	}
	return "unknown"
}

// LabelKind discriminates field labels.
type LabelKind uint8

const (
	// LabelNamed is an identifier or quoted-text label.
	LabelNamed LabelKind = iota
	// LabelID is an explicit numeric label.
	LabelID
	// LabelUnnamed is a positional label in a tuple-style record.
	LabelUnnamed
)

// Label names a record or variant field.
type Label struct {
	Kind LabelKind
	Name string      // LabelNamed
	ID   uint32      // LabelID, LabelUnnamed
	Span source.Span // empty for LabelUnnamed
}

// Text returns the label as it is referred to in diagnostics and hovers.
func (l Label) Text() string {
	if l.Kind == LabelNamed {
		return l.Name
	}
	return strconv.FormatUint(uint64(l.ID), 10)
}

// NumericID returns the field number the label denotes on the wire: the
// explicit or positional ID, or the name hash for named labels.
func (l Label) NumericID() uint32 {
	if l.Kind == LabelNamed {
		return LabelHash(l.Name)
	}
	return l.ID
}

// LabelHash is the Candid field-label hash used to number named fields.
func LabelHash(name string) uint32 {
	var h uint32
	for _, b := range []byte(name) {
		h = h*223 + uint32(b)
	}
	return h
}

// Field is one record or variant member.
type Field struct {
	Span  source.Span
	Label Label
	Typ   *Type
	Docs  []string
}
