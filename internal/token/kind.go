package token

// Kind represents the category of a source token.
type Kind uint8

const (
	// Invalid indicates an erroneous token.
	Invalid Kind = iota
	// EOF marks the end of the source input.
	EOF

	// Ident represents an identifier token.
	Ident
	// KwType represents the 'type' keyword.
	KwType // type
	// KwService represents the 'service' keyword.
	KwService // service
	// KwImport represents the 'import' keyword.
	KwImport // import
	// KwFunc represents the 'func' keyword.
	KwFunc // func
	// KwOpt represents the 'opt' keyword.
	KwOpt // opt
	// KwVec represents the 'vec' keyword.
	KwVec // vec
	// KwRecord represents the 'record' keyword.
	KwRecord // record
	// KwVariant represents the 'variant' keyword.
	KwVariant // variant
	// KwBlob represents the 'blob' keyword.
	KwBlob // blob
	// KwPrincipal represents the 'principal' keyword.
	KwPrincipal // principal
	// KwOneway represents the 'oneway' function mode.
	KwOneway // oneway
	// KwQuery represents the 'query' function mode.
	KwQuery // query
	// KwCompositeQuery represents the 'composite_query' function mode.
	KwCompositeQuery // composite_query

	// NullLit represents the 'null' literal token.
	NullLit // null
	// BoolLit represents the 'true' and 'false' literal tokens.
	BoolLit
	// DecimalLit represents a decimal integer literal (digits and '_').
	DecimalLit
	// HexLit represents a hexadecimal integer literal (0x...).
	HexLit
	// FloatLit represents a floating-point literal.
	FloatLit
	// TextLit represents a quoted text literal.
	TextLit

	// Assign represents '='.
	Assign // =
	// EqEq represents '==' (used by the Candid test format).
	EqEq // ==
	// BangEq represents '!=' (used by the Candid test format).
	BangEq // !=
	// NotDecode represents '!:' (used by the Candid test format).
	NotDecode // !:
	// Plus represents a '+' sign.
	Plus // +
	// Minus represents a '-' sign.
	Minus // -
	// Colon represents ':'.
	Colon // :
	// Semicolon represents ';'.
	Semicolon // ;
	// Comma represents ','.
	Comma // ,
	// Dot represents '.'.
	Dot // .
	// Arrow represents '->'.
	Arrow // ->
	// LParen represents '('.
	LParen // (
	// RParen represents ')'.
	RParen // )
	// LBrace represents '{'.
	LBrace // {
	// RBrace represents '}'.
	RBrace // }
)

var kindNames = map[Kind]string{
	Invalid:          "invalid",
	EOF:              "end of file",
	Ident:            "identifier",
	KwType:           "'type'",
	KwService:        "'service'",
	KwImport:         "'import'",
	KwFunc:           "'func'",
	KwOpt:            "'opt'",
	KwVec:            "'vec'",
	KwRecord:         "'record'",
	KwVariant:        "'variant'",
	KwBlob:           "'blob'",
	KwPrincipal:      "'principal'",
	KwOneway:         "'oneway'",
	KwQuery:          "'query'",
	KwCompositeQuery: "'composite_query'",
	NullLit:          "'null'",
	BoolLit:          "boolean literal",
	DecimalLit:       "number literal",
	HexLit:           "number literal",
	FloatLit:         "number literal",
	TextLit:          "text literal",
	Assign:           "'='",
	EqEq:             "'=='",
	BangEq:           "'!='",
	NotDecode:        "'!:'",
	Plus:             "'+'",
	Minus:            "'-'",
	Colon:            "':'",
	Semicolon:        "';'",
	Comma:            "','",
	Dot:              "'.'",
	Arrow:            "'->'",
	LParen:           "'('",
	RParen:           "')'",
	LBrace:           "'{'",
	RBrace:           "'}'",
}

// String returns a human-readable name suitable for diagnostics.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}
