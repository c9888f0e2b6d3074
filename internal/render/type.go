package render

import (
	"strconv"
	"strings"

	"didls/internal/ast"
	"didls/internal/token"
)

const indentUnit = "  "

// Binding renders a type declaration the way it would be written in source:
// "type Name = <type>". There is no trailing semicolon.
func Binding(b *ast.Binding) string {
	var sb strings.Builder
	sb.WriteString("type ")
	sb.WriteString(b.ID)
	sb.WriteString(" = ")
	writeType(&sb, b.Typ, 0)
	return sb.String()
}

// InlineType renders a single type expression.
func InlineType(t *ast.Type) string {
	var sb strings.Builder
	writeType(&sb, t, 0)
	return sb.String()
}

// ActorDeclaration renders a top-level service declaration with an inline
// body. Reports false when the actor type is not a literal service, such as
// a reference to a named type or a service constructor.
func ActorDeclaration(name string, t *ast.Type) (string, bool) {
	if t == nil || t.Kind != ast.TypeService {
		return "", false
	}
	var sb strings.Builder
	sb.WriteString("service")
	if name != "" {
		sb.WriteByte(' ')
		sb.WriteString(name)
	}
	sb.WriteString(" : ")
	writeServiceBody(&sb, t.Methods, 0)
	return sb.String(), true
}

func writeType(sb *strings.Builder, t *ast.Type, indent int) {
	switch t.Kind {
	case ast.TypePrim:
		sb.WriteString(t.Prim)
	case ast.TypeVar:
		sb.WriteString(t.Var)
	case ast.TypePrincipal:
		sb.WriteString("principal")
	case ast.TypeOpt:
		sb.WriteString("opt ")
		writeType(sb, t.Elem, indent)
	case ast.TypeVec:
		if isNat8(t.Elem) {
			sb.WriteString("blob")
		} else {
			sb.WriteString("vec ")
			writeType(sb, t.Elem, indent)
		}
	case ast.TypeRecord:
		writeRecord(sb, t.Fields, indent)
	case ast.TypeVariant:
		writeVariant(sb, t.Fields, indent)
	case ast.TypeFunc:
		writeFunc(sb, t.Func, indent, true)
	case ast.TypeService:
		sb.WriteString("service ")
		writeServiceBody(sb, t.Methods, indent)
	case ast.TypeClass:
		writeClass(sb, t, indent)
	}
}

// Tuple-shaped records stay on one line; everything else gets one field per
// line with two-space indentation.
func writeRecord(sb *strings.Builder, fields []ast.Field, indent int) {
	if isTuple(fields) {
		sb.WriteString("record { ")
		for i, f := range fields {
			if i > 0 {
				sb.WriteString("; ")
			}
			writeType(sb, f.Typ, indent+1)
		}
		sb.WriteString(" }")
		return
	}
	sb.WriteString("record {\n")
	for _, f := range fields {
		writeIndent(sb, indent+1)
		writeLabel(sb, f.Label)
		sb.WriteString(" : ")
		writeType(sb, f.Typ, indent+1)
		sb.WriteString(";\n")
	}
	writeIndent(sb, indent)
	sb.WriteByte('}')
}

func writeVariant(sb *strings.Builder, fields []ast.Field, indent int) {
	sb.WriteString("variant {\n")
	for _, f := range fields {
		writeIndent(sb, indent+1)
		writeLabel(sb, f.Label)
		if !isNullPrim(f.Typ) {
			sb.WriteString(" : ")
			writeType(sb, f.Typ, indent+1)
		}
		sb.WriteString(";\n")
	}
	writeIndent(sb, indent)
	sb.WriteByte('}')
}

func writeFunc(sb *strings.Builder, sig *ast.FuncSig, indent int, keyword bool) {
	if keyword {
		sb.WriteString("func ")
	}
	writeArgs(sb, sig.Args, indent)
	sb.WriteString(" -> ")
	writeArgs(sb, sig.Rets, indent)
	for _, m := range sig.Modes {
		sb.WriteByte(' ')
		sb.WriteString(m.String())
	}
}

func writeArgs(sb *strings.Builder, args []*ast.Type, indent int) {
	sb.WriteByte('(')
	for i, a := range args {
		if i > 0 {
			sb.WriteString(", ")
		}
		writeType(sb, a, indent+1)
	}
	sb.WriteByte(')')
}

func writeServiceBody(sb *strings.Builder, methods []ast.Binding, indent int) {
	sb.WriteString("{\n")
	for _, m := range methods {
		writeIndent(sb, indent+1)
		sb.WriteString(m.ID)
		sb.WriteString(" : ")
		if m.Typ.Kind == ast.TypeFunc {
			writeFunc(sb, m.Typ.Func, indent+1, false)
		} else {
			writeType(sb, m.Typ, indent+1)
		}
		sb.WriteString(";\n")
	}
	writeIndent(sb, indent)
	sb.WriteByte('}')
}

func writeClass(sb *strings.Builder, t *ast.Type, indent int) {
	writeArgs(sb, t.ClassArgs, indent)
	sb.WriteString(" -> ")
	if t.ClassRet.Kind == ast.TypeService {
		sb.WriteString("service ")
		writeServiceBody(sb, t.ClassRet.Methods, indent)
	} else {
		writeType(sb, t.ClassRet, indent)
	}
}

// Labels that collide with primitive type names must be quoted to stay
// parseable.
func writeLabel(sb *strings.Builder, l ast.Label) {
	if l.Kind == ast.LabelNamed {
		if token.IsPrimitiveName(l.Name) {
			sb.WriteByte('"')
			sb.WriteString(l.Name)
			sb.WriteByte('"')
		} else {
			sb.WriteString(l.Name)
		}
		return
	}
	sb.WriteString(strconv.FormatUint(uint64(l.ID), 10))
}

func writeIndent(sb *strings.Builder, level int) {
	for i := 0; i < level; i++ {
		sb.WriteString(indentUnit)
	}
}

// isTuple reports whether the fields number 0..n-1 in order, which is how
// positional records come out of the parser.
func isTuple(fields []ast.Field) bool {
	for i, f := range fields {
		if f.Label.NumericID() != uint32(i) {
			return false
		}
	}
	return true
}

func isNat8(t *ast.Type) bool {
	return t != nil && t.Kind == ast.TypePrim && t.Prim == "nat8"
}

func isNullPrim(t *ast.Type) bool {
	return t != nil && t.Kind == ast.TypePrim && t.Prim == "null"
}
