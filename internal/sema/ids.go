package sema

// FieldID identifies a record or variant field in the metadata arena.
type FieldID uint32

const (
	// NoFieldID marks the absence of a field.
	NoFieldID FieldID = 0
)

// IsValid reports whether the ID refers to a recorded field.
func (id FieldID) IsValid() bool { return id != NoFieldID }

// MethodID identifies a service method in the metadata arena.
type MethodID uint32

const (
	// NoMethodID marks the absence of a method.
	NoMethodID MethodID = 0
)

// IsValid reports whether the ID refers to a recorded method.
func (id MethodID) IsValid() bool { return id != NoMethodID }

// ParamID identifies a function parameter in the metadata arena.
type ParamID uint32

const (
	// NoParamID marks the absence of a parameter.
	NoParamID ParamID = 0
)

// IsValid reports whether the ID refers to a recorded parameter.
func (id ParamID) IsValid() bool { return id != NoParamID }
