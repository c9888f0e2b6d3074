package sema

import "didls/internal/source"

// SpanOf tags a value with the source span it was found at.
type SpanOf[T any] struct {
	Span  source.Span
	Value T
}

// PrimKind identifies which primitive type name a marked span covers. Blob
// is included even though the parser desugars it to vec nat8: the analyzer
// recognizes the original token text and hovers it as its own primitive.
type PrimKind uint8

const (
	PrimNone PrimKind = iota
	PrimNat
	PrimNat8
	PrimNat16
	PrimNat32
	PrimNat64
	PrimInt
	PrimInt8
	PrimInt16
	PrimInt32
	PrimInt64
	PrimFloat32
	PrimFloat64
	PrimBool
	PrimText
	PrimNull
	PrimReserved
	PrimEmpty
	PrimBlob
)

var primNames = [...]string{
	PrimNone:     "",
	PrimNat:      "nat",
	PrimNat8:     "nat8",
	PrimNat16:    "nat16",
	PrimNat32:    "nat32",
	PrimNat64:    "nat64",
	PrimInt:      "int",
	PrimInt8:     "int8",
	PrimInt16:    "int16",
	PrimInt32:    "int32",
	PrimInt64:    "int64",
	PrimFloat32:  "float32",
	PrimFloat64:  "float64",
	PrimBool:     "bool",
	PrimText:     "text",
	PrimNull:     "null",
	PrimReserved: "reserved",
	PrimEmpty:    "empty",
	PrimBlob:     "blob",
}

var primKinds = func() map[string]PrimKind {
	m := make(map[string]PrimKind, len(primNames))
	for k, name := range primNames {
		if name != "" {
			m[name] = PrimKind(k)
		}
	}
	return m
}()

// String returns the source-level name of the primitive.
func (k PrimKind) String() string {
	if int(k) < len(primNames) {
		return primNames[k]
	}
	return ""
}

func primKindOf(name string) PrimKind { return primKinds[name] }

// KeywordKind identifies which language keyword a marked span covers.
type KeywordKind uint8

const (
	KeywordNone KeywordKind = iota
	KeywordType
	KeywordImport
	KeywordService
	KeywordFunc
	KeywordOpt
	KeywordVec
	KeywordRecord
	KeywordVariant
	KeywordPrincipal
	KeywordOneway
	KeywordQuery
	KeywordCompositeQuery
)

var keywordNames = [...]string{
	KeywordNone:           "",
	KeywordType:           "type",
	KeywordImport:         "import",
	KeywordService:        "service",
	KeywordFunc:           "func",
	KeywordOpt:            "opt",
	KeywordVec:            "vec",
	KeywordRecord:         "record",
	KeywordVariant:        "variant",
	KeywordPrincipal:      "principal",
	KeywordOneway:         "oneway",
	KeywordQuery:          "query",
	KeywordCompositeQuery: "composite_query",
}

// String returns the source-level spelling of the keyword.
func (k KeywordKind) String() string {
	if int(k) < len(keywordNames) {
		return keywordNames[k]
	}
	return ""
}

// ParamRole distinguishes argument and result parameters. The analyzer
// currently records arguments only; result parameters carry no names in the
// grammar.
type ParamRole uint8

const (
	ParamArgument ParamRole = iota
	ParamResult
)

// FieldRole says which part of a field an identifier lookup landed on.
type FieldRole uint8

const (
	FieldRoleNone FieldRole = iota
	FieldRoleLabel
	FieldRoleType
)
