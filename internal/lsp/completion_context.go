package lsp

import (
	"sort"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"didls/internal/ast"
	"didls/internal/sema"
	"didls/internal/source"
)

// completionContext says what kind of completion the cursor position calls
// for.
type completionContext uint8

const (
	contextUnknown completionContext = iota
	contextTopLevel
	contextDefinition
	contextType
	contextValue
	contextComment
)

func (c completionContext) String() string {
	switch c {
	case contextTopLevel:
		return "top-level"
	case contextDefinition:
		return "definition"
	case contextType:
		return "type"
	case contextValue:
		return "value"
	case contextComment:
		return "comment"
	}
	return "unknown"
}

// cursorScanState is the lexical state reached by scanning the document
// prefix up to the cursor: brace depth outside strings and comments, and
// whether the cursor sits inside a string, line comment or block comment.
type cursorScanState struct {
	depth          int
	inLineComment  bool
	inBlockComment bool
	inString       bool
}

func (s cursorScanState) inComment() bool {
	return s.inLineComment || s.inBlockComment
}

func (s cursorScanState) isTopLevel() bool {
	return s.depth == 0 && !s.inLineComment && !s.inBlockComment && !s.inString
}

func scanCursorText(text []rune) cursorScanState {
	var st cursorScanState
	escaped := false
	for i := 0; i < len(text); i++ {
		ch := text[i]
		switch {
		case st.inString:
			if escaped {
				escaped = false
				continue
			}
			switch ch {
			case '\\':
				escaped = true
			case '"':
				st.inString = false
			}
		case st.inLineComment:
			if ch == '\n' {
				st.inLineComment = false
			}
		case st.inBlockComment:
			if ch == '*' && i+1 < len(text) && text[i+1] == '/' {
				i++
				st.inBlockComment = false
			}
		default:
			switch ch {
			case '"':
				st.inString = true
			case '/':
				if i+1 < len(text) {
					switch text[i+1] {
					case '/':
						st.inLineComment = true
						i++
					case '*':
						st.inBlockComment = true
						i++
					}
				}
			case '{':
				st.depth++
			case '}':
				if st.depth > 0 {
					st.depth--
				}
			}
		}
	}
	return st
}

// cursorContext is everything the heuristic classifier needs about one
// cursor position, derived in a single pass over the document prefix.
type cursorContext struct {
	clamped                  uint32
	runeLen                  uint32
	lineStart                uint32
	trimmedLine              string
	scan                     cursorScanState
	insideRecordVariantBlock bool
	insideServiceBlock       bool
}

func newCursorContext(file *source.File, offset uint32) cursorContext {
	if file == nil {
		return cursorContext{}
	}
	runeLen := file.RuneLen()
	clamped := offset
	if clamped > runeLen {
		clamped = runeLen
	}
	last := file.LineCount() - 1
	var lineIndex uint32
	switch {
	case runeLen == 0:
		lineIndex = 0
	case clamped == runeLen:
		lineIndex = last
	default:
		lineIndex = file.LineAt(clamped) - 1
	}
	if lineIndex > last {
		lineIndex = last
	}
	lineStart := file.LineStart(lineIndex + 1)
	linePrefix := ""
	if clamped >= lineStart {
		linePrefix = string(file.Runes[lineStart:clamped])
	}
	prefix := file.Runes[:clamped]
	prefixText := string(prefix)
	return cursorContext{
		clamped:                  clamped,
		runeLen:                  runeLen,
		lineStart:                lineStart,
		trimmedLine:              strings.TrimRightFunc(linePrefix, unicode.IsSpace),
		scan:                     scanCursorText(prefix),
		insideRecordVariantBlock: insideRecordVariantBlockText(prefixText),
		insideServiceBlock:       insideServiceBlockText(prefixText),
	}
}

// insideRecordVariantBlockText reports whether the last unclosed brace of
// the prefix opens a record or variant body.
func insideRecordVariantBlockText(text string) bool {
	if text == "" {
		return false
	}
	open := strings.LastIndexByte(text, '{')
	if open < 0 {
		return false
	}
	if strings.ContainsRune(text[open+1:], '}') {
		return false
	}
	head := strings.TrimRightFunc(text[:open], unicode.IsSpace)
	return strings.HasSuffix(head, "record") || strings.HasSuffix(head, "variant")
}

// insideServiceBlockText reports whether the last unclosed brace of the
// prefix opens a service body: the brace must follow a colon whose left
// side mentions the service keyword.
func insideServiceBlockText(text string) bool {
	if text == "" {
		return false
	}
	open := strings.LastIndexByte(text, '{')
	if open < 0 {
		return false
	}
	if strings.ContainsRune(text[open+1:], '}') {
		return false
	}
	head := strings.TrimRightFunc(text[:open], unicode.IsSpace)
	colon := strings.LastIndexByte(head, ':')
	if colon < 0 {
		return false
	}
	if strings.TrimSpace(head[colon+1:]) != "" {
		return false
	}
	return containsKeyword(strings.TrimRightFunc(head[:colon], unicode.IsSpace), "service")
}

func insideServiceBlockAt(file *source.File, offset uint32) bool {
	if file == nil {
		return false
	}
	clamped := offset
	if n := file.RuneLen(); clamped > n {
		clamped = n
	}
	return insideServiceBlockText(string(file.Runes[:clamped]))
}

// containsKeyword reports whether text contains kw as a whole word, where a
// word boundary is anything but an ASCII letter, digit or underscore.
func containsKeyword(text, kw string) bool {
	if kw == "" {
		return false
	}
	searchStart := 0
	for searchStart <= len(text)-len(kw) {
		idx := strings.Index(text[searchStart:], kw)
		if idx < 0 {
			return false
		}
		abs := searchStart + idx
		before := true
		if abs > 0 {
			r, _ := utf8.DecodeLastRuneInString(text[:abs])
			before = !isWordChar(r)
		}
		after := true
		if end := abs + len(kw); end < len(text) {
			r, _ := utf8.DecodeRuneInString(text[end:])
			after = !isWordChar(r)
		}
		if before && after {
			return true
		}
		searchStart = abs + len(kw)
	}
	return false
}

func isWordChar(r rune) bool {
	return r == '_' ||
		(r >= 'a' && r <= 'z') ||
		(r >= 'A' && r <= 'Z') ||
		(r >= '0' && r <= '9')
}

// heuristicContext classifies the cursor from lexical shape alone. The
// checks run in a fixed order; the first match wins.
func heuristicContext(ctx *cursorContext) completionContext {
	if ctx.runeLen == 0 {
		return contextTopLevel
	}
	if ctx.clamped < ctx.lineStart {
		return contextUnknown
	}
	if ctx.scan.inComment() {
		return contextComment
	}
	trimmed := ctx.trimmedLine
	inValueBlock := ctx.insideRecordVariantBlock || ctx.insideServiceBlock
	if trimmed == "" {
		if inValueBlock {
			return contextValue
		}
		if ctx.scan.isTopLevel() {
			return contextTopLevel
		}
		return contextUnknown
	}
	if eq := strings.LastIndexByte(trimmed, '='); eq >= 0 {
		if strings.HasPrefix(strings.TrimSpace(trimmed[:eq]), "type") {
			return contextType
		}
	}
	if colon := strings.LastIndexByte(trimmed, ':'); colon >= 0 {
		if !strings.HasSuffix(strings.TrimRightFunc(trimmed[:colon], unicode.IsSpace), "service") {
			return contextType
		}
	}
	if !strings.ContainsRune(trimmed, ':') && inValueBlock {
		return contextValue
	}
	if strings.HasPrefix(strings.TrimLeftFunc(trimmed, unicode.IsSpace), "type") &&
		!strings.ContainsRune(trimmed, '=') {
		return contextDefinition
	}
	if ctx.scan.isTopLevel() {
		return contextTopLevel
	}
	return contextUnknown
}

// contextSpans is the span-tagged view of one analyzed document: every
// position known to want a type, a value or a definition name. Definition
// beats value beats type when spans overlap.
type contextSpans struct {
	typeSpans       []source.Span
	valueSpans      []source.Span
	definitionSpans []source.Span
}

func (cs *contextSpans) addType(span source.Span) {
	if !span.Empty() {
		cs.typeSpans = append(cs.typeSpans, span)
	}
}

func (cs *contextSpans) addValue(span source.Span) {
	if !span.Empty() {
		cs.valueSpans = append(cs.valueSpans, span)
	}
}

func (cs *contextSpans) addDefinition(span source.Span) {
	if !span.Empty() {
		cs.definitionSpans = append(cs.definitionSpans, span)
	}
}

func (cs *contextSpans) classify(offset uint32) completionContext {
	if spansContain(cs.definitionSpans, offset) {
		return contextDefinition
	}
	if spansContain(cs.valueSpans, offset) {
		return contextValue
	}
	if spansContain(cs.typeSpans, offset) {
		return contextType
	}
	return contextUnknown
}

func spansContain(spans []source.Span, offset uint32) bool {
	for _, span := range spans {
		if span.Contains(offset) {
			return true
		}
	}
	return false
}

// newContextSpans collects spans from the semantic model and the syntax
// tree. Nil when neither source yields a single span.
func newContextSpans(prog *ast.Prog, sem *sema.Semantic) *contextSpans {
	cs := &contextSpans{}
	cs.collectFromSemantic(sem)
	cs.collectFromAST(prog)
	if len(cs.typeSpans) == 0 && len(cs.valueSpans) == 0 && len(cs.definitionSpans) == 0 {
		return nil
	}
	return cs
}

func (cs *contextSpans) collectFromSemantic(sem *sema.Semantic) {
	if sem == nil {
		return
	}
	for id := 1; id < len(sem.Fields); id++ {
		f := &sem.Fields[id]
		cs.addType(f.TypeSpan)
		cs.addValue(f.LabelSpan)
	}
	for id := 1; id < len(sem.Methods); id++ {
		m := &sem.Methods[id]
		cs.addType(m.TypeSpan)
		cs.addValue(m.NameSpan)
	}
	for id := 1; id < len(sem.Params); id++ {
		p := &sem.Params[id]
		cs.addType(p.TypeSpan)
		cs.addValue(p.NameSpan)
	}
	for id := 1; id < len(sem.SymbolIdentSpans); id++ {
		cs.addDefinition(sem.SymbolIdentSpans[id])
	}
	refs := sem.Table.References()
	for id := 1; id < len(refs); id++ {
		cs.addType(refs[id].Span)
	}
	for _, imp := range sem.Table.Imports() {
		cs.addDefinition(imp.Span)
	}
	for _, local := range sem.Locals {
		if local.IsDefinition {
			cs.addDefinition(local.Span)
		}
	}
	for _, p := range sem.Primitives {
		cs.addType(p.Span)
	}
	for _, k := range sem.Keywords {
		cs.addType(k.Span)
	}
	if sem.Actor != nil {
		cs.addType(sem.Actor.Span)
		cs.addDefinition(sem.Actor.NameSpan)
		cs.addValue(sem.Actor.NameSpan)
	}
}

func (cs *contextSpans) collectFromAST(prog *ast.Prog) {
	if prog == nil {
		return
	}
	for i := range prog.Decs {
		dec := &prog.Decs[i]
		switch dec.Kind {
		case ast.DecType:
			if b := dec.Binding; b != nil {
				cs.addDefinition(b.NameSpan)
				cs.collectType(b.Typ)
			}
		case ast.DecImportType, ast.DecImportService:
			cs.addDefinition(dec.Span)
		}
	}
	if prog.Actor != nil {
		cs.collectType(prog.Actor.Typ)
		cs.addType(prog.Actor.Span)
	}
}

func (cs *contextSpans) collectType(t *ast.Type) {
	if t == nil {
		return
	}
	cs.addType(t.Span)
	switch t.Kind {
	case ast.TypeOpt, ast.TypeVec:
		cs.collectType(t.Elem)
	case ast.TypeRecord, ast.TypeVariant:
		for i := range t.Fields {
			f := &t.Fields[i]
			cs.addValue(f.Label.Span)
			cs.collectType(f.Typ)
		}
	case ast.TypeService:
		for i := range t.Methods {
			m := &t.Methods[i]
			cs.addValue(m.NameSpan)
			cs.collectType(m.Typ)
		}
	case ast.TypeFunc:
		if t.Func != nil {
			for _, a := range t.Func.Args {
				cs.collectType(a)
			}
			for _, r := range t.Func.Rets {
				cs.collectType(r)
			}
		}
	case ast.TypeClass:
		for _, a := range t.ClassArgs {
			cs.collectType(a)
		}
		cs.collectType(t.ClassRet)
	}
}

// scopeBindings is the set of local names visible inside one record,
// variant or function scope.
type scopeBindings struct {
	span  source.Span
	names []string
}

// scopeBindingIndex answers "which locals are in scope at this offset".
// Scopes are kept sorted; the smallest enclosing one wins.
type scopeBindingIndex struct {
	scopes []scopeBindings
}

func newScopeBindingIndex(sem *sema.Semantic) *scopeBindingIndex {
	if sem == nil || len(sem.Locals) == 0 {
		return nil
	}
	grouped := make(map[source.Span]int)
	var scopes []scopeBindings
	for _, local := range sem.Locals {
		idx, ok := grouped[local.Scope]
		if !ok {
			idx = len(scopes)
			grouped[local.Scope] = idx
			scopes = append(scopes, scopeBindings{span: local.Scope})
		}
		scopes[idx].names = append(scopes[idx].names, local.Name)
	}
	sort.SliceStable(scopes, func(i, j int) bool {
		if scopes[i].span.Start != scopes[j].span.Start {
			return scopes[i].span.Start < scopes[j].span.Start
		}
		return scopes[i].span.End < scopes[j].span.End
	})
	return &scopeBindingIndex{scopes: scopes}
}

func (ix *scopeBindingIndex) bindingsAt(offset uint32) []string {
	if ix == nil {
		return nil
	}
	var best *scopeBindings
	for i := range ix.scopes {
		sc := &ix.scopes[i]
		if !sc.span.Contains(offset) {
			continue
		}
		if best == nil || sc.span.Len() < best.span.Len() {
			best = sc
		}
	}
	if best == nil {
		return nil
	}
	return best.names
}

// completionDocumentCache lazily derives the completion indexes for one
// analyzed revision. Both indexes are built at most once; a version stamp
// guards against serving a stale revision to a newer request. A stamped
// cache is stale for a request without a version, an unstamped cache is
// fresh for everything.
type completionDocumentCache struct {
	spansOnce sync.Once
	spans     *contextSpans
	scopeOnce sync.Once
	scope     *scopeBindingIndex

	hasAST      bool
	hasSemantic bool
	version     *int32
}

func newCompletionDocumentCache(prog *ast.Prog, sem *sema.Semantic, version *int32) *completionDocumentCache {
	if prog == nil && sem == nil {
		return nil
	}
	c := &completionDocumentCache{hasAST: prog != nil, hasSemantic: sem != nil}
	if version != nil {
		v := *version
		c.version = &v
	}
	return c
}

func (c *completionDocumentCache) isFresh(version *int32) bool {
	if c == nil {
		return false
	}
	if c.version != nil {
		if version == nil {
			return false
		}
		return *c.version == *version
	}
	return true
}

func (c *completionDocumentCache) contextSpans(version *int32, prog *ast.Prog, sem *sema.Semantic) *contextSpans {
	if c == nil || (!c.hasAST && !c.hasSemantic) || !c.isFresh(version) {
		return nil
	}
	c.spansOnce.Do(func() {
		c.spans = newContextSpans(prog, sem)
	})
	return c.spans
}

func (c *completionDocumentCache) scopeIndex(sem *sema.Semantic, version *int32) *scopeBindingIndex {
	if c == nil || !c.hasSemantic || !c.isFresh(version) {
		return nil
	}
	c.scopeOnce.Do(func() {
		c.scope = newScopeBindingIndex(sem)
	})
	return c.scope
}

// determineContext classifies a completion request position. The lexical
// heuristic answers outright for value, top-level, definition and comment
// positions; otherwise the span index gets the first word and the
// heuristic is the fallback.
func determineContext(
	offset *uint32,
	cache *completionDocumentCache,
	sem *sema.Semantic,
	prog *ast.Prog,
	file *source.File,
	cursorCtx *cursorContext,
	version *int32,
) completionContext {
	if offset == nil {
		return contextUnknown
	}
	ctx := cursorCtx
	if ctx == nil {
		derived := newCursorContext(file, *offset)
		ctx = &derived
	}
	heuristic := heuristicContext(ctx)
	switch heuristic {
	case contextValue, contextTopLevel, contextDefinition, contextComment:
		return heuristic
	}
	spans := cache.contextSpans(version, prog, sem)
	if spans == nil {
		// Stale or missing cache: derive once for this request without
		// publishing the result.
		spans = newContextSpans(prog, sem)
	}
	if spans != nil {
		if got := spans.classify(*offset); got != contextUnknown {
			return got
		}
	}
	return heuristic
}
