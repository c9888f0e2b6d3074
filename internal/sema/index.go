package sema

import (
	"sort"

	"didls/internal/source"
	"didls/internal/symbols"
)

// identKind orders entry groups the way the index is built; it breaks
// exact-span ties deterministically in favor of the group registered
// first.
type identKind uint8

const (
	identBinding identKind = iota + 1
	identReference
	identFieldLabel
	identFieldType
	identMethod
	identParam
	identPrimitive
	identKeyword
	identActor
)

// priority ranks the groups for lookup: uses of a name beat inline keyword
// and primitive markers, which beat declaration sites.
func (k identKind) priority() int {
	switch k {
	case identReference:
		return 5
	case identPrimitive, identKeyword:
		return 4
	case identActor, identFieldLabel, identMethod, identParam:
		return 3
	case identFieldType:
		return 2
	case identBinding:
		return 1
	}
	return 0
}

type identEntry struct {
	span    source.Span
	kind    identKind
	payload uint32
}

// identIndex is a static interval index over every identifier-bearing span
// of a document. Entries are sorted by start offset; maxEnd keeps the
// running maximum of end offsets so a backward scan can stop as soon as no
// earlier entry may still cover the probe.
type identIndex struct {
	entries []identEntry
	maxEnd  []uint32
}

func buildIdentIndex(sem *Semantic) identIndex {
	var entries []identEntry
	add := func(span source.Span, kind identKind, payload uint32) {
		if span.Empty() {
			return
		}
		entries = append(entries, identEntry{span: span, kind: kind, payload: payload})
	}

	declSpans := sem.Table.SymbolSpans()
	for id := 1; id < len(declSpans); id++ {
		span := sem.SymbolIdentSpans[id]
		if span.Empty() {
			span = declSpans[id]
		}
		add(span, identBinding, uint32(id))
	}
	refs := sem.Table.References()
	for id := 1; id < len(refs); id++ {
		add(refs[id].Span, identReference, uint32(id))
	}
	for id := 1; id < len(sem.Fields); id++ {
		f := &sem.Fields[id]
		add(f.LabelSpan, identFieldLabel, uint32(id))
		if f.TypeSpan != f.LabelSpan {
			add(f.TypeSpan, identFieldType, uint32(id))
		}
	}
	for id := 1; id < len(sem.Methods); id++ {
		add(sem.Methods[id].NameSpan, identMethod, uint32(id))
	}
	for id := 1; id < len(sem.Params); id++ {
		add(sem.Params[id].NameSpan, identParam, uint32(id))
	}
	for _, p := range sem.Primitives {
		add(p.Span, identPrimitive, uint32(p.Value))
	}
	for _, k := range sem.Keywords {
		add(k.Span, identKeyword, uint32(k.Value))
	}
	if sem.Actor != nil {
		add(sem.Actor.NameSpan, identActor, 0)
	}

	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.span.Start != b.span.Start {
			return a.span.Start < b.span.Start
		}
		if a.span.End != b.span.End {
			return a.span.End < b.span.End
		}
		if a.kind != b.kind {
			return a.kind < b.kind
		}
		return a.payload < b.payload
	})
	maxEnd := make([]uint32, len(entries))
	var running uint32
	for i, e := range entries {
		if e.span.End > running {
			running = e.span.End
		}
		maxEnd[i] = running
	}
	return identIndex{entries: entries, maxEnd: maxEnd}
}

// visit calls fn for every entry whose span contains off, scanning in
// descending start order.
func (ix *identIndex) visit(off uint32, fn func(identEntry)) {
	hi := sort.Search(len(ix.entries), func(i int) bool {
		return ix.entries[i].span.Start > off
	})
	for i := hi - 1; i >= 0; i-- {
		if ix.maxEnd[i] <= off {
			return
		}
		if ix.entries[i].span.End > off {
			fn(ix.entries[i])
		}
	}
}

// IdentifierInfo describes the identifier found under a cursor offset.
// Exactly one of the subject handles is set, matching how the span was
// registered; DefinitionSpan is the zero span for subjects without a
// definition site, such as keywords and primitives.
type IdentifierInfo struct {
	IdentSpan      source.Span
	DefinitionSpan source.Span

	Symbol    symbols.SymbolID
	Reference symbols.ReferenceID
	Field     FieldID
	FieldRole FieldRole
	Method    MethodID
	Param     ParamID
	Primitive PrimKind
	Keyword   KeywordKind
	Actor     bool
}

// LookupIdentifier finds the most specific identifier covering the rune
// offset. Overlapping candidates are ranked by kind priority; exact ties go
// to the smaller span.
func LookupIdentifier(sem *Semantic, off uint32) (IdentifierInfo, bool) {
	if sem == nil {
		return IdentifierInfo{}, false
	}
	var (
		best     identEntry
		bestPrio int
		bestLen  uint32
	)
	// The scan runs backwards, so replacing on equal length keeps the
	// entry that sorts first among full ties.
	sem.index.visit(off, func(e identEntry) {
		p := e.kind.priority()
		l := e.span.Len()
		if p > bestPrio || (p == bestPrio && l <= bestLen) {
			best, bestPrio, bestLen = e, p, l
		}
	})
	if bestPrio == 0 {
		return IdentifierInfo{}, false
	}
	return resolveIdentEntry(sem, best)
}

func resolveIdentEntry(sem *Semantic, e identEntry) (IdentifierInfo, bool) {
	info := IdentifierInfo{IdentSpan: e.span}
	switch e.kind {
	case identBinding:
		sym := symbols.SymbolID(e.payload)
		decl, ok := sem.Table.SymbolSpan(sym)
		if !ok {
			return IdentifierInfo{}, false
		}
		if ident := sem.SymbolIdentSpans[sym]; !ident.Empty() {
			info.IdentSpan = ident
		} else {
			info.IdentSpan = decl
		}
		info.DefinitionSpan = decl
		info.Symbol = sym
	case identReference:
		id := symbols.ReferenceID(e.payload)
		ref, ok := sem.Table.Reference(id)
		if !ok {
			return IdentifierInfo{}, false
		}
		info.IdentSpan = ref.Span
		info.Reference = id
		if ref.Symbol.IsValid() {
			info.Symbol = ref.Symbol
			if decl, ok := sem.Table.SymbolSpan(ref.Symbol); ok {
				info.DefinitionSpan = decl
			}
		}
	case identFieldLabel, identFieldType:
		id := FieldID(e.payload)
		f, ok := sem.Field(id)
		if !ok {
			return IdentifierInfo{}, false
		}
		info.Field = id
		info.DefinitionSpan = f.Span
		if e.kind == identFieldLabel {
			info.FieldRole = FieldRoleLabel
			info.IdentSpan = f.LabelSpan
		} else {
			info.FieldRole = FieldRoleType
			info.IdentSpan = f.TypeSpan
		}
	case identMethod:
		id := MethodID(e.payload)
		m, ok := sem.Method(id)
		if !ok {
			return IdentifierInfo{}, false
		}
		info.Method = id
		info.IdentSpan = m.NameSpan
		info.DefinitionSpan = m.Span
	case identParam:
		id := ParamID(e.payload)
		p, ok := sem.Param(id)
		if !ok {
			return IdentifierInfo{}, false
		}
		info.Param = id
		info.IdentSpan = p.NameSpan
		info.DefinitionSpan = p.Span
	case identPrimitive:
		info.Primitive = PrimKind(e.payload)
	case identKeyword:
		info.Keyword = KeywordKind(e.payload)
	case identActor:
		if sem.Actor == nil {
			return IdentifierInfo{}, false
		}
		info.Actor = true
		info.IdentSpan = sem.Actor.NameSpan
		info.DefinitionSpan = sem.Actor.Span
	default:
		return IdentifierInfo{}, false
	}
	return info, true
}
