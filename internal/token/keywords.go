package token

var keywords = map[string]Kind{
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

// LookupKeyword returns the keyword kind for an identifier lexeme.
// Keywords are case-sensitive; only the lowercase forms are recognized.
func LookupKeyword(ident string) (Kind, bool) {
	k, ok := keywords[ident]
	return k, ok
}

// PrimitiveNames lists the built-in primitive type names. The lexer emits
// them as Ident (except null); the parser turns them into primitive type
// nodes. principal is not here: the grammar treats it as a keyword.
var PrimitiveNames = []string{
	"nat", "nat8", "nat16", "nat32", "nat64",
	"int", "int8", "int16", "int32", "int64",
	"float32", "float64",
	"bool", "text", "null", "reserved", "empty",
}

var primitiveSet = func() map[string]struct{} {
	m := make(map[string]struct{}, len(PrimitiveNames))
	for _, name := range PrimitiveNames {
		m[name] = struct{}{}
	}
	return m
}()

// IsPrimitiveName reports whether name is a built-in primitive type name.
func IsPrimitiveName(name string) bool {
	_, ok := primitiveSet[name]
	return ok
}
