package sema

import (
	"strings"

	"didls/internal/ast"
	"didls/internal/render"
)

// formatDocs turns raw comment lines into hover markdown: slashes and
// surrounding whitespace stripped, blank lines dropped, the rest joined and
// run through annotateCodeFences. Returns "" when nothing remains.
func formatDocs(lines []string) string {
	var kept []string
	for _, line := range lines {
		text := strings.TrimSpace(line)
		text = strings.TrimLeft(text, "/")
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		kept = append(kept, text)
	}
	if len(kept) == 0 {
		return ""
	}
	return annotateCodeFences(strings.Join(kept, "\n"))
}

// annotateCodeFences tags opening ``` fences with the candid language and
// turns line breaks outside fenced blocks into hard Markdown breaks.
// Breaks inside a fence stay raw so the code block survives rendering.
func annotateCodeFences(text string) string {
	var sb strings.Builder
	sb.Grow(len(text) + len(text)/4)
	inCode := false
	for i := 0; i < len(text); {
		if strings.HasPrefix(text[i:], "```") {
			sb.WriteString("```")
			i += 3
			if !inCode {
				sb.WriteString("candid")
			}
			inCode = !inCode
			continue
		}
		c := text[i]
		if (c == '\n' || c == '\r') && !inCode {
			sb.WriteString("  ")
		}
		sb.WriteByte(c)
		i++
	}
	return sb.String()
}

// collapseWhitespace rewrites runs of whitespace as single spaces.
func collapseWhitespace(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

// flattenTypeText renders a type on one line for signature display.
func flattenTypeText(t *ast.Type) string {
	return collapseWhitespace(render.InlineType(t))
}

// signatureFromFunc flattens a function literal into the per-part texts
// completion snippets are assembled from.
func signatureFromFunc(sig *ast.FuncSig) *MethodSignature {
	out := &MethodSignature{
		Args:  make([]string, 0, len(sig.Args)),
		Rets:  make([]string, 0, len(sig.Rets)),
		Modes: sig.Modes,
	}
	for _, arg := range sig.Args {
		out.Args = append(out.Args, flattenTypeText(arg))
	}
	for _, ret := range sig.Rets {
		out.Rets = append(out.Rets, flattenTypeText(ret))
	}
	return out
}
