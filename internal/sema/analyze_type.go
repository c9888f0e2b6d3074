package sema

import (
	"didls/internal/ast"
	"didls/internal/source"
)

func (a *analyzer) typ(t *ast.Type) error {
	if t == nil {
		return nil
	}
	switch t.Kind {
	case ast.TypePrim:
		a.registerPrimitive(t.Span, t.Prim)
	case ast.TypePrincipal:
		a.registerKeyword(t.Span, KeywordPrincipal)
	case ast.TypeVar:
		return a.reference(t)
	case ast.TypeFunc:
		return a.funcType(t)
	case ast.TypeOpt:
		a.registerKeyword(t.Span, KeywordOpt)
		return a.typ(t.Elem)
	case ast.TypeVec:
		return a.vecType(t)
	case ast.TypeRecord:
		return a.fieldContainer(t, KeywordRecord)
	case ast.TypeVariant:
		return a.fieldContainer(t, KeywordVariant)
	case ast.TypeService:
		return a.serviceType(t)
	case ast.TypeClass:
		return a.classType(t)
	}
	return nil
}

func (a *analyzer) reference(t *ast.Type) error {
	decl, ok := a.findSymbol(t.Var)
	if !ok {
		return &UndefinedVariableError{Name: t.Var, Span: t.Span}
	}
	if sym, ok := a.sem.Table.SymbolAt(decl); ok {
		a.sem.Table.AddReference(t.Span, sym)
	}
	return nil
}

func (a *analyzer) funcType(t *ast.Type) error {
	a.registerKeyword(t.Span, KeywordFunc)
	a.registerFunctionParams(t)
	for _, mode := range t.Func.Modes {
		a.registerModeKeyword(t.Span, mode)
	}
	for _, arg := range t.Func.Args {
		if err := a.typ(arg); err != nil {
			return err
		}
	}
	for _, ret := range t.Func.Rets {
		if err := a.typ(ret); err != nil {
			return err
		}
	}
	return nil
}

func (a *analyzer) vecType(t *ast.Type) error {
	// A 'blob' token parses as vec nat8 sharing the token span; the source
	// text tells the two apart.
	if spanTextEquals(a.file, t.Span, "blob") {
		a.registerBlob(t.Span)
	} else {
		a.registerKeyword(t.Span, KeywordVec)
	}
	return a.typ(t.Elem)
}

func (a *analyzer) fieldContainer(t *ast.Type, kw KeywordKind) error {
	a.registerKeyword(t.Span, kw)
	a.pushScope(t.Span)
	err := a.fields(t.Fields)
	a.popScope()
	return err
}

func (a *analyzer) fields(fields []ast.Field) error {
	for i := range fields {
		a.registerField(&fields[i])
		if err := a.typ(fields[i].Typ); err != nil {
			return err
		}
	}
	return nil
}

func (a *analyzer) serviceType(t *ast.Type) error {
	a.registerKeyword(t.Span, KeywordService)
	parent := a.currentTypeName()
	for i := range t.Methods {
		a.registerServiceMethod(&t.Methods[i], parent)
		if err := a.typ(t.Methods[i].Typ); err != nil {
			return err
		}
	}
	return nil
}

func (a *analyzer) classType(t *ast.Type) error {
	for _, arg := range t.ClassArgs {
		if err := a.typ(arg); err != nil {
			return err
		}
	}
	return a.typ(t.ClassRet)
}

func (a *analyzer) registerField(f *ast.Field) {
	labelSpan, hasLabel := computeFieldLabelSpan(a.file, f)
	var typeSpan source.Span
	if f.Typ != nil && !f.Typ.Span.Empty() {
		typeSpan = f.Typ.Span
	}
	label := f.Label.Text()
	if hasLabel {
		label = a.file.Slice(labelSpan)
	}
	a.sem.Fields = append(a.sem.Fields, Field{
		Span:      f.Span,
		LabelSpan: labelSpan,
		TypeSpan:  typeSpan,
		Label:     label,
		Docs:      formatDocs(f.Docs),
		Parent:    a.currentTypeName(),
	})
	if scope, ok := a.currentScope(); ok && hasLabel {
		a.sem.Locals = append(a.sem.Locals, Local{
			Name:  f.Label.Text(),
			Span:  labelSpan,
			Scope: scope,
		})
	}
}

func (a *analyzer) registerServiceMethod(m *ast.Binding, parent string) {
	method := Method{
		Span:   m.Span,
		Docs:   formatDocs(m.Docs),
		Parent: parent,
	}
	if nameSpan, ok := computeBindingIdentSpan(a.file, m); ok {
		method.NameSpan = nameSpan
	}
	if m.Typ != nil {
		if !m.Typ.Span.Empty() {
			method.TypeSpan = m.Typ.Span
		}
		if m.Typ.Kind == ast.TypeFunc {
			method.Signature = signatureFromFunc(m.Typ.Func)
		}
	}
	a.sem.Methods = append(a.sem.Methods, method)
}

// registerFunctionParams recovers argument names from the raw text between
// arguments: the parser keeps only the types. The cursor walks the
// argument list so each search region covers one 'name :' prefix.
func (a *analyzer) registerFunctionParams(t *ast.Type) {
	cursor := argsRegionStart(a.file, t.Span)
	for _, arg := range t.Func.Args {
		if cursor > arg.Span.Start {
			cursor = arg.Span.Start
		}
		region := source.Span{File: t.Span.File, Start: cursor, End: arg.Span.Start}
		nameSpan, named := computeParamNameSpan(a.file, region)
		start := arg.Span.Start
		if named {
			start = nameSpan.Start
		}
		param := Param{
			Span:     source.Span{File: t.Span.File, Start: start, End: arg.Span.End},
			NameSpan: nameSpan,
			TypeSpan: arg.Span,
			Role:     ParamArgument,
		}
		if named {
			a.sem.Locals = append(a.sem.Locals, Local{
				Name:         a.file.Slice(nameSpan),
				Span:         nameSpan,
				Scope:        t.Span,
				IsDefinition: true,
			})
		}
		a.sem.Params = append(a.sem.Params, param)
		cursor = arg.Span.End
	}
}

func (a *analyzer) registerPrimitive(span source.Span, name string) {
	kind := primKindOf(name)
	if kind == PrimNone {
		return
	}
	if occ, ok := findIdentifierSpan(a.file, span, name, false); ok {
		a.sem.Primitives = append(a.sem.Primitives, SpanOf[PrimKind]{Span: occ, Value: kind})
	}
}

func (a *analyzer) registerBlob(span source.Span) {
	if occ, ok := findIdentifierSpan(a.file, span, "blob", false); ok {
		a.sem.Primitives = append(a.sem.Primitives, SpanOf[PrimKind]{Span: occ, Value: PrimBlob})
	}
}

func (a *analyzer) registerKeyword(span source.Span, kind KeywordKind) {
	if occ, ok := findIdentifierSpan(a.file, span, kind.String(), false); ok {
		a.sem.Keywords = append(a.sem.Keywords, SpanOf[KeywordKind]{Span: occ, Value: kind})
	}
}

// registerKeywordFromEnd marks the last occurrence instead of the first;
// mode keywords sit at the end of a function type whose argument text may
// spell the same word.
func (a *analyzer) registerKeywordFromEnd(span source.Span, kind KeywordKind) {
	if occ, ok := findIdentifierSpan(a.file, span, kind.String(), true); ok {
		a.sem.Keywords = append(a.sem.Keywords, SpanOf[KeywordKind]{Span: occ, Value: kind})
	}
}

func (a *analyzer) registerModeKeyword(span source.Span, mode ast.FuncMode) {
	switch mode {
	case ast.ModeQuery:
		a.registerKeywordFromEnd(span, KeywordQuery)
	case ast.ModeCompositeQuery:
		a.registerKeywordFromEnd(span, KeywordCompositeQuery)
	case ast.ModeOneway:
		a.registerKeywordFromEnd(span, KeywordOneway)
	}
}
