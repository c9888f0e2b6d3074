// Package ast defines the syntax tree for Candid interface definitions.
//
// The tree is a plain value structure produced once per parse and consumed
// by semantic analysis; it carries exact source spans on every node the
// grammar names directly. Doc comments collected from leading trivia are
// stored as raw lines including their comment markers.
package ast
