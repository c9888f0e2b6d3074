// Package render turns AST nodes into the Candid source text shown in
// hovers and completion details, and assembles the Markdown documents
// around those snippets.
//
// Rendering is purely syntactic: it never consults the symbol table, so a
// rendered declaration is valid even for documents that fail semantic
// analysis. Static reference documentation for primitive types and
// structural keywords also lives here.
package render
