// Package sema builds the per-document semantic model the language server
// answers queries from: the symbol and reference table, metadata for fields,
// service methods and function parameters, marked keyword and primitive
// occurrences, and an interval index that maps a cursor offset to the most
// specific identifier under it.
//
// The analysis is span-driven. The parser keeps rune spans for every node,
// and sema recovers the sub-spans the AST does not carry (binding names,
// field labels, parameter names) by searching the source text inside the
// node span. All offsets are rune offsets into the analyzed file.
package sema
