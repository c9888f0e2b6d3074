package sema

import (
	"fmt"

	"didls/internal/source"
)

// UndefinedVariableError reports a type reference that resolves to no
// declaration in the document. Analysis stops at the first one and returns
// no partial result.
type UndefinedVariableError struct {
	Name string
	Span source.Span
}

func (e *UndefinedVariableError) Error() string {
	return fmt.Sprintf("undefined variable %s", e.Name)
}
