package token

import (
	"testing"
)

func TestLookupKeyword_Positive(t *testing.T) {
	cases := map[string]Kind{
		"type":            KwType,
		"service":         KwService,
		"import":          KwImport,
		"func":            KwFunc,
		"opt":             KwOpt,
		"vec":             KwVec,
		"record":          KwRecord,
		"variant":         KwVariant,
		"blob":            KwBlob,
		"principal":       KwPrincipal,
		"oneway":          KwOneway,
		"query":           KwQuery,
		"composite_query": KwCompositeQuery,
		"null":            NullLit,
		"true":            BoolLit,
		"false":           BoolLit,
	}

	for lexeme, want := range cases {
		got, ok := LookupKeyword(lexeme)
		if !ok {
			t.Fatalf("LookupKeyword(%q) = !ok, want %v", lexeme, want)
		}
		if got != want {
			t.Fatalf("LookupKeyword(%q) = %v, want %v", lexeme, got, want)
		}
	}
}

func TestLookupKeyword_Negative(t *testing.T) {
	notKw := []string{
		"Type", "SERVICE", "Query", // case matters
		"nat", "nat8", "text", "float64", // primitive names stay Ident
		"identifier", "compositequery",
	}
	for _, lexeme := range notKw {
		if got, ok := LookupKeyword(lexeme); ok {
			t.Fatalf("LookupKeyword(%q) = %v, want miss", lexeme, got)
		}
	}
}

func TestIsPrimitiveName(t *testing.T) {
	for _, name := range PrimitiveNames {
		if !IsPrimitiveName(name) {
			t.Fatalf("IsPrimitiveName(%q) = false", name)
		}
	}
	for _, name := range []string{"principal", "blob", "Nat", "string"} {
		if IsPrimitiveName(name) {
			t.Fatalf("IsPrimitiveName(%q) = true, want false", name)
		}
	}
}
