package lsp

import (
	"sort"
	"strconv"
	"strings"

	"didls/internal/render"
	"didls/internal/sema"
	"didls/internal/source"
	"didls/internal/symbols"
)

func buildCompletionItem(label string, kind int, detail, docs string) completionItem {
	item := completionItem{Label: label, Kind: kind, Detail: detail}
	if docs != "" {
		item.Documentation = &markupContent{Kind: markupKindMarkdown, Value: docs}
	}
	return item
}

type itemKey struct {
	label  string
	detail string
}

func pushUniqueItem(dst *[]completionItem, seen map[itemKey]struct{}, item completionItem) {
	key := itemKey{label: item.Label, detail: item.Detail}
	if _, dup := seen[key]; dup {
		return
	}
	seen[key] = struct{}{}
	*dst = append(*dst, item)
}

// appendSortedItems merges a batch into the result list: blank labels are
// dropped, the batch is ordered by label and duplicates of anything already
// emitted are skipped.
func appendSortedItems(dst *[]completionItem, seen map[itemKey]struct{}, batch []completionItem) {
	items := make([]completionItem, 0, len(batch))
	for _, item := range batch {
		if item.Label != "" {
			items = append(items, item)
		}
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].Label < items[j].Label })
	for _, item := range items {
		pushUniqueItem(dst, seen, item)
	}
}

// identifierText slices a span out of the document and trims it, returning
// "" for spans that are empty, out of bounds or all whitespace.
func identifierText(file *source.File, span source.Span) string {
	if file == nil || span.Start >= span.End || span.End > file.RuneLen() {
		return ""
	}
	return strings.TrimSpace(string(file.Runes[span.Start:span.End]))
}

// completionKeywordKinds fixes the emission order of keyword items.
var completionKeywordKinds = []sema.KeywordKind{
	sema.KeywordFunc,
	sema.KeywordOpt,
	sema.KeywordPrincipal,
	sema.KeywordRecord,
	sema.KeywordService,
	sema.KeywordType,
	sema.KeywordVariant,
	sema.KeywordVec,
	sema.KeywordOneway,
	sema.KeywordQuery,
	sema.KeywordCompositeQuery,
	sema.KeywordImport,
}

var primitiveCompletionNames = []string{
	"nat", "nat8", "nat16", "nat32", "nat64",
	"int", "int8", "int16", "int32", "int64",
	"float32", "float64", "bool", "text", "null", "reserved", "empty",
}

// keywordSnippet returns the insert-text snippet for keywords that expand
// into a block or statement.
func keywordSnippet(kind sema.KeywordKind) (string, bool) {
	switch kind {
	case sema.KeywordRecord:
		return "record { $0 };", true
	case sema.KeywordVariant:
		return "variant { $0 };", true
	case sema.KeywordImport:
		return `import "${1:path}.did";$0`, true
	}
	return "", false
}

func buildKeywordCompletionItem(kind sema.KeywordKind) completionItem {
	name := kind.String()
	docs, _ := render.KeywordDoc(name)
	item := buildCompletionItem(name, completionKindKeyword, "keyword", docs)
	if snippet, ok := keywordSnippet(kind); ok {
		item.InsertText = snippet
		item.InsertTextFormat = insertTextFormatSnippet
	}
	return item
}

func keywordCompletionItems() []completionItem {
	items := make([]completionItem, 0, len(completionKeywordKinds))
	for _, kind := range completionKeywordKinds {
		if kind == sema.KeywordImport {
			continue
		}
		items = append(items, buildKeywordCompletionItem(kind))
	}
	return items
}

func primitiveCompletionItems() []completionItem {
	items := make([]completionItem, 0, len(primitiveCompletionNames))
	for _, name := range primitiveCompletionNames {
		docs, _ := render.PrimitiveDoc(name)
		items = append(items, buildCompletionItem(name, completionKindStruct, "primitive type", docs))
	}
	return items
}

func blobCompletionItem() completionItem {
	docs, _ := render.PrimitiveDoc("blob")
	return buildCompletionItem("blob", completionKindStruct, "type alias", docs)
}

// staticCompletionItems is the fixed vocabulary offered in type position:
// keywords, primitive types and the blob alias.
func staticCompletionItems() []completionItem {
	var items []completionItem
	items = append(items, keywordCompletionItems()...)
	items = append(items, primitiveCompletionItems()...)
	items = append(items, blobCompletionItem())
	return items
}

// topLevelCompletionItems offers the declaration keywords valid between
// declarations.
func topLevelCompletionItems() []completionItem {
	kinds := []sema.KeywordKind{sema.KeywordType, sema.KeywordService, sema.KeywordImport}
	items := make([]completionItem, 0, len(kinds))
	for _, kind := range kinds {
		items = append(items, buildKeywordCompletionItem(kind))
	}
	return items
}

// semanticCompletionItems lists the document's own vocabulary: declared
// type names and import declarations.
func semanticCompletionItems(sem *sema.Semantic, file *source.File) []completionItem {
	items := symbolCompletionItems(sem, file)
	return append(items, importCompletionItems(sem, file)...)
}

func symbolCompletionItems(sem *sema.Semantic, file *source.File) []completionItem {
	var items []completionItem
	for id := 1; id < len(sem.SymbolIdentSpans); id++ {
		sym := symbols.SymbolID(id)
		if sem.Table.ImportBacked(sym) {
			continue
		}
		label := sem.SymbolIdentNames[id]
		if label == "" {
			span := sem.SymbolIdentSpans[id]
			if span.Empty() {
				if decl, ok := sem.Table.SymbolSpan(sym); ok {
					span = decl
				}
			}
			label = identifierText(file, span)
		}
		if label == "" {
			continue
		}
		items = append(items, buildTypeCompletionItem(sem, sym, label))
	}
	return items
}

func buildTypeCompletionItem(sem *sema.Semantic, sym symbols.SymbolID, label string) completionItem {
	doc, ok := sem.TypeDocFor(sym)
	if !ok {
		return buildCompletionItem(label, completionKindStruct, "", "")
	}
	docs := render.SnippetWithDocsMarkdown(doc.Rendered, doc.Docs)
	if docs == "" {
		docs = doc.Rendered
	}
	return buildCompletionItem(label, completionKindStruct, doc.Rendered, docs)
}

func importCompletionItems(sem *sema.Semantic, file *source.File) []completionItem {
	var items []completionItem
	for _, imp := range sem.Table.Imports() {
		label := identifierText(file, imp.Span)
		if label == "" {
			continue
		}
		kind := completionKindStruct
		detail := "imported type"
		noun := "type"
		if imp.Kind == symbols.ImportService {
			kind = completionKindInterface
			detail = "imported service"
			noun = "service"
		}
		docs := render.TextMarkdown("Imported " + noun + " from `" + imp.Path + "`")
		items = append(items, buildCompletionItem(label, kind, detail, docs))
	}
	return items
}

type fieldGroup struct {
	parents map[string]struct{}
	docs    string
}

func (g *fieldGroup) addParent(parent string) {
	if parent == "" {
		return
	}
	if g.parents == nil {
		g.parents = make(map[string]struct{})
	}
	g.parents[parent] = struct{}{}
}

func (g *fieldGroup) detail() string {
	if len(g.parents) == 0 {
		return "field"
	}
	names := make([]string, 0, len(g.parents))
	for name := range g.parents {
		names = append(names, name)
	}
	sort.Strings(names)
	shown := names
	suffix := ""
	if len(names) > 3 {
		shown = names[:3]
		suffix = ", ..."
	}
	return "field of " + strings.Join(shown, ", ") + suffix
}

// valueCompletionItems is the full value-position offer: locals in scope,
// method snippets, field labels grouped across their parent types, method
// names, parameter names and the actor.
func valueCompletionItems(
	sem *sema.Semantic,
	file *source.File,
	offset uint32,
	style ServiceSnippetStyle,
	scopeIndex *scopeBindingIndex,
) []completionItem {
	var items []completionItem
	items = append(items, scopedLocalItems(scopeIndex, offset)...)
	items = append(items, serviceMethodSnippets(sem, file, offset, style, nil)...)

	groups := make(map[string]*fieldGroup)
	var labels []string
	for id := 1; id < len(sem.Fields); id++ {
		f := &sem.Fields[id]
		label := f.Label
		if label == "" {
			label = identifierText(file, f.LabelSpan)
		}
		if label == "" {
			continue
		}
		group, ok := groups[label]
		if !ok {
			group = &fieldGroup{}
			groups[label] = group
			labels = append(labels, label)
		}
		group.addParent(f.Parent)
		if group.docs == "" && f.Docs != "" {
			group.docs = f.Docs
		}
	}
	sort.Strings(labels)
	for _, label := range labels {
		group := groups[label]
		items = append(items, buildCompletionItem(label, completionKindValue, group.detail(), group.docs))
	}

	items = append(items, serviceMethodLabels(sem, file)...)

	for id := 1; id < len(sem.Params); id++ {
		p := &sem.Params[id]
		label := identifierText(file, p.NameSpan)
		if label == "" {
			continue
		}
		items = append(items, buildCompletionItem(label, completionKindVariable, paramDetail(p.Role), ""))
	}

	if actor := sem.Actor; actor != nil {
		if label := identifierText(file, actor.NameSpan); label != "" {
			items = append(items, buildCompletionItem(label, completionKindInterface, "actor", actor.Docs))
		}
	}
	return items
}

// lightweightValueCompletionItems is the reduced value-position offer for
// oversized documents: locals and method names only, nothing that needs
// rendering work.
func lightweightValueCompletionItems(
	sem *sema.Semantic,
	offset uint32,
	file *source.File,
	scopeIndex *scopeBindingIndex,
) []completionItem {
	items := scopedLocalItems(scopeIndex, offset)
	if sem != nil {
		items = append(items, serviceMethodLabels(sem, file)...)
	}
	return items
}

func scopedLocalItems(scopeIndex *scopeBindingIndex, offset uint32) []completionItem {
	names := scopeIndex.bindingsAt(offset)
	if len(names) == 0 {
		return nil
	}
	items := make([]completionItem, 0, len(names))
	for _, name := range names {
		items = append(items, buildCompletionItem(name, completionKindVariable, "local binding", ""))
	}
	return items
}

func serviceMethodItems(
	sem *sema.Semantic,
	file *source.File,
	offset uint32,
	style ServiceSnippetStyle,
	cursorCtx *cursorContext,
	lightweight bool,
) []completionItem {
	items := serviceMethodLabels(sem, file)
	if !lightweight {
		items = append(items, serviceMethodSnippets(sem, file, offset, style, cursorCtx)...)
	}
	return items
}

func serviceMethodLabels(sem *sema.Semantic, file *source.File) []completionItem {
	var items []completionItem
	for id := 1; id < len(sem.Methods); id++ {
		m := &sem.Methods[id]
		label := identifierText(file, m.NameSpan)
		if label == "" {
			continue
		}
		detail := detailWithParent("service method", m.Parent)
		items = append(items, buildCompletionItem(label, completionKindMethod, detail, m.Docs))
	}
	return items
}

// serviceMethodSnippets offers call snippets for service methods. Outside
// a service body only the method the cursor is inside qualifies.
func serviceMethodSnippets(
	sem *sema.Semantic,
	file *source.File,
	offset uint32,
	style ServiceSnippetStyle,
	cursorCtx *cursorContext,
) []completionItem {
	insideBlock := false
	if cursorCtx != nil {
		insideBlock = cursorCtx.insideServiceBlock
	} else {
		insideBlock = insideServiceBlockAt(file, offset)
	}
	var items []completionItem
	for id := 1; id < len(sem.Methods); id++ {
		m := &sem.Methods[id]
		if !insideBlock && !m.Span.Contains(offset) {
			continue
		}
		label := identifierText(file, m.NameSpan)
		if label == "" {
			continue
		}
		snippet := serviceSnippetFor(label, m.Signature, style)
		docs := render.SnippetWithDocsMarkdown(snippet, m.Docs)
		item := buildCompletionItem(label, completionKindSnippet, methodSignatureDetail(label, m.Signature), docs)
		item.InsertText = snippet
		item.InsertTextFormat = insertTextFormatSnippet
		items = append(items, item)
	}
	return items
}

// placeholderCounter numbers tab stops in the order they are taken, so the
// editor visits arguments first and the result last.
type placeholderCounter struct {
	next int
}

func (c *placeholderCounter) take(label string) string {
	idx := c.next
	c.next++
	return "${" + strconv.Itoa(idx) + ":" + label + "}"
}

// serviceSnippetFor renders the insert text for one method call in the
// configured style. Placeholders number the arguments left to right, then
// the result.
func serviceSnippetFor(name string, sig *sema.MethodSignature, style ServiceSnippetStyle) string {
	counter := placeholderCounter{next: 1}

	args := ""
	switch {
	case sig != nil && len(sig.Args) == 0:
	case sig != nil:
		parts := make([]string, len(sig.Args))
		for i, arg := range sig.Args {
			parts[i] = counter.take(arg)
		}
		args = strings.Join(parts, ", ")
	default:
		args = counter.take("args")
	}

	result := ""
	if sig != nil {
		switch {
		case len(sig.Rets) == 0:
		case len(sig.Rets) == 1:
			result = counter.take("result : " + sig.Rets[0])
		default:
			result = counter.take("results : " + tupleText(sig.Rets))
		}
	} else {
		result = counter.take("result")
	}

	call := name + "(" + args + ")"
	awaited := "await " + call
	switch style {
	case SnippetStyleAwait:
		if result != "" {
			return awaited + " " + result + "$0"
		}
		return awaited + "$0"
	case SnippetStyleAsync:
		inner := call
		if result != "" {
			inner += " " + result
		}
		return "async { " + inner + " }$0"
	case SnippetStyleAwaitLet:
		if result != "" {
			return "let " + result + " = " + awaited + ";\n$0"
		}
		return awaited + ";\n$0"
	default:
		if result != "" {
			return call + " " + result + "$0"
		}
		return call + "$0"
	}
}

func tupleText(parts []string) string {
	if len(parts) == 0 {
		return "()"
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// methodSignatureDetail is the one-line signature shown next to a snippet
// item.
func methodSignatureDetail(name string, sig *sema.MethodSignature) string {
	if sig == nil {
		return "service call snippet"
	}
	detail := name + " : " + tupleText(sig.Args) + " -> " + tupleText(sig.Rets)
	if len(sig.Modes) > 0 {
		parts := make([]string, len(sig.Modes))
		for i, mode := range sig.Modes {
			parts[i] = mode.String()
		}
		detail += " " + strings.Join(parts, " ")
	}
	return detail
}

func detailWithParent(kind, parent string) string {
	if parent == "" {
		return kind
	}
	return kind + " of " + parent
}

func paramDetail(role sema.ParamRole) string {
	if role == sema.ParamResult {
		return "function result"
	}
	return "function argument"
}
