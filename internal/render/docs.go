package render

// Reference documentation shown when hovering a primitive type name or a
// structural keyword. Every entry renders as a fenced header followed by a
// short Markdown body.

// PrimitiveDoc returns the hover document for a primitive type name.
// blob counts as a primitive here even though the grammar desugars it.
func PrimitiveDoc(name string) (string, bool) {
	body, ok := primitiveDocs[name]
	if !ok {
		return "", false
	}
	return docEntry(name, body), true
}

// KeywordDoc returns the hover document for a structural keyword or
// function mode.
func KeywordDoc(name string) (string, bool) {
	body, ok := keywordDocs[name]
	if !ok {
		return "", false
	}
	return docEntry(name, body), true
}

func docEntry(header, body string) string {
	return "```candid\n" + header + "\n```\n\n" + body
}

var primitiveDocs = map[string]string{
	"nat": "Unbounded natural number: a non-negative integer of arbitrary size.\n\n" +
		"Literals may use `_` separators and hexadecimal form: `1_000_000`, `0xCAFE`.",
	"nat8":  "Unsigned 8-bit integer, values `0` to `255`.",
	"nat16": "Unsigned 16-bit integer, values `0` to `65_535`.",
	"nat32": "Unsigned 32-bit integer, values `0` to `4_294_967_295`.",
	"nat64": "Unsigned 64-bit integer, values `0` to `18_446_744_073_709_551_615`.",
	"int": "Unbounded signed integer of arbitrary size.\n\n" +
		"Every `nat` value is also an `int`, so an `int` parameter accepts both.",
	"int8":  "Signed 8-bit integer, values `-128` to `127`.",
	"int16": "Signed 16-bit integer, values `-32_768` to `32_767`.",
	"int32": "Signed 32-bit integer, values `-2_147_483_648` to `2_147_483_647`.",
	"int64": "Signed 64-bit integer, values `-2^63` to `2^63 - 1`.",
	"float32": "IEEE 754 single-precision floating point number.",
	"float64": "IEEE 754 double-precision floating point number.",
	"bool":    "Boolean value, `true` or `false`.",
	"text": "Human-readable text: a sequence of Unicode scalar values.\n\n" +
		"Literals are double-quoted and support `\\n`, `\\t`, `\\\"`, hex byte escapes " +
		"like `\\e2` and Unicode escapes like `\\u{1F4A9}`.",
	"null": "The type of the single value `null`.\n\n" +
		"Variant tags written without a payload, like `ok` in `variant { ok; err : text }`, " +
		"implicitly carry `null`.",
	"reserved": "Top type: a value of any type may be passed where `reserved` is expected.\n\n" +
		"Changing an argument to `reserved` lets a service drop a parameter without " +
		"breaking existing callers.",
	"empty": "Bottom type: no value inhabits `empty`.\n\n" +
		"A result of type `empty` marks a method that never returns normally.",
	"blob": "Binary data: a sequence of raw bytes. `blob` is shorthand for `vec nat8`.",
}

var keywordDocs = map[string]string{
	"type": "Declares a named type: `type Name = T;`.\n\n" +
		"The name may be referenced by any declaration in the file, including " +
		"declarations that precede it.",
	"import": "Imports another Candid file: `import \"other.did\";` brings its type " +
		"declarations into scope.\n\n" +
		"`import service \"other.did\";` imports the file's service definition instead.",
	"service": "Declares the interface of a service: `service : { methods }`.\n\n" +
		"A service constructor lists initialization arguments first: " +
		"`service : (args) -> { methods }`. As a type expression, " +
		"`service { methods }` describes references to services with that interface.",
	"func": "First-class function reference: `func (args) -> (results) modes`.\n\n" +
		"A value of a func type identifies a method of some service and can be " +
		"passed around like any other value.",
	"opt": "Optional value: `opt T` is either `null` or a value of type `T`.\n\n" +
		"Adding `opt` to a field or parameter is a non-breaking interface upgrade.",
	"vec": "Vector: `vec T` is a sequence of values of type `T`.\n\n" +
		"`vec nat8` is conventionally written `blob`.",
	"record": "Record with named or numbered fields: `record { name : text; age : nat }`.\n\n" +
		"Field names are hashed to 32-bit field numbers on the wire; " +
		"`record { T1; T2 }` is a tuple with implicit fields `0` and `1`.",
	"variant": "Tagged union: a value carries exactly one of the listed tags, " +
		"for example `variant { ok : nat; err : text }`.\n\n" +
		"A tag without a payload, like `variant { active; archived }`, carries `null`.",
	"principal": "Identity of a canister, user or other entity, " +
		"for example `principal \"aaaaa-aa\"`.",
	"oneway": "Function mode: the caller does not wait for a response.\n\n" +
		"A `oneway` method must declare no results and gives no delivery guarantee.",
	"query": "Function mode: the method executes as a read-only query call.\n\n" +
		"Query calls are fast and non-replicated, and must not change canister state.",
	"composite_query": "Function mode: a read-only query that may itself call " +
		"`query` and `composite_query` methods of canisters on the same subnet.",
}
