package lsp

import (
	"fmt"
	"strings"

	"github.com/jsvensson/palettegen/internal/schema"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// splitLines splits content into lines, preserving empty trailing lines.
func splitLines(content string) []string {
	return strings.Split(content, "\n")
}

// complete produces completion items given an analysis result, document content,
// and cursor position. This is the core logic, decoupled from the LSP protocol
// handler for testability.
func complete(result *AnalysisResult, content string, pos protocol.Position) []protocol.CompletionItem {
	lines := splitLines(content)
	if int(pos.Line) >= len(lines) {
		return nil
	}

	line := lines[pos.Line]
	charPos := min(int(pos.Character), len(line))
	textBeforeCursor := line[:charPos]

	if items := tryPaletteCompletion(result, textBeforeCursor); items != nil {
		return items
	}

	stack := blockStack(lines, int(pos.Line), charPos)
	block := ""
	if len(stack) > 0 {
		block = stack[len(stack)-1]
	}

	if name, partial, ok := valuePosition(textBeforeCursor); ok {
		if schema.IsColorBlock(block) {
			if partial != "" {
				return nil
			}
			return valueCompletions()
		}
		return enumCompletions(block, name, partial)
	}

	switch {
	case block == "":
		return topLevelCompletions()
	case schema.IsColorBlock(block):
		return nil
	default:
		return attributeCompletions(block, lines, int(pos.Line))
	}
}

// tryPaletteCompletion checks if the text before the cursor ends with a
// palette reference prefix such as "palette." or "palette.lo" and returns the
// palette entries resolved so far.
func tryPaletteCompletion(result *AnalysisResult, textBeforeCursor string) []protocol.CompletionItem {
	if result == nil || len(result.Palette) == 0 {
		return nil
	}

	prefix := schema.BlockPalette + "."
	idx := strings.LastIndex(textBeforeCursor, prefix)
	if idx == -1 {
		return nil
	}
	if idx > 0 && isIdentChar(textBeforeCursor[idx-1]) {
		return nil
	}

	// The client filters on a partial name; a second dot means no match.
	if strings.Contains(textBeforeCursor[idx+len(prefix):], ".") {
		return nil
	}

	kind := protocol.CompletionItemKindColor
	items := make([]protocol.CompletionItem, 0, len(result.Palette))
	for _, e := range result.Palette {
		hex := e.Color.Hex()
		items = append(items, protocol.CompletionItem{
			Label:  e.Name,
			Kind:   &kind,
			Detail: &hex,
		})
	}
	return items
}

// valuePosition reports whether the cursor is in the value of an attribute
// assignment, returning the attribute name and any partial string value
// typed so far, opening quote included.
func valuePosition(textBeforeCursor string) (name, partial string, ok bool) {
	eqIdx := strings.LastIndex(textBeforeCursor, "=")
	if eqIdx == -1 {
		return "", "", false
	}
	name = strings.TrimSpace(textBeforeCursor[:eqIdx])
	if name == "" || strings.ContainsAny(name, " {}\"") {
		return "", "", false
	}

	afterEq := strings.TrimSpace(textBeforeCursor[eqIdx+1:])
	switch {
	case afterEq == "":
		return name, "", true
	case strings.HasPrefix(afterEq, "\"") && strings.Count(afterEq, "\"") == 1:
		return name, afterEq, true
	}
	return "", "", false
}

// valueCompletions returns completion items for a color value position:
// function snippets and a palette reference trigger.
func valueCompletions() []protocol.CompletionItem {
	snippetFormat := protocol.InsertTextFormatSnippet
	fns := schema.Functions()

	var items []protocol.CompletionItem
	for _, name := range schema.FunctionNames() {
		fn := fns[name]
		var args, labels []string
		for i, p := range fn.Params() {
			args = append(args, fmt.Sprintf("${%d:%s}", i+1, p.Name))
			labels = append(labels, p.Name)
		}
		detail := fmt.Sprintf("%s(%s)", name, strings.Join(labels, ", "))
		if vp := fn.VarParam(); vp != nil {
			detail = fmt.Sprintf("%s(%s[, %s])", name, strings.Join(labels, ", "), vp.Name)
		}
		snippet := fmt.Sprintf("%s(%s)", name, strings.Join(args, ", "))
		doc := fn.Description()

		items = append(items, protocol.CompletionItem{
			Label:            name,
			Kind:             completionKindPtr(protocol.CompletionItemKindFunction),
			Detail:           &detail,
			Documentation:    doc,
			InsertText:       &snippet,
			InsertTextFormat: &snippetFormat,
		})
	}

	paletteSnippet := schema.BlockPalette + "."
	items = append(items, protocol.CompletionItem{
		Label:      schema.BlockPalette,
		Kind:       completionKindPtr(protocol.CompletionItemKindVariable),
		Detail:     strPtr("palette reference"),
		InsertText: &paletteSnippet,
	})
	return items
}

// enumCompletions offers the accepted values of an enum attribute. Values
// are quoted unless the user already typed the opening quote.
func enumCompletions(block, name, partial string) []protocol.CompletionItem {
	a, ok := schema.Lookup(block, name)
	if !ok || !a.IsEnum() || a.Kind != schema.KindString {
		return nil
	}
	quoted := strings.HasPrefix(partial, "\"")
	prefix := strings.TrimPrefix(partial, "\"")

	kind := protocol.CompletionItemKindEnumMember
	var items []protocol.CompletionItem
	for _, v := range a.Values {
		if !strings.HasPrefix(v, prefix) {
			continue
		}
		insert := "\"" + v + "\""
		if quoted {
			insert = v
		}
		items = append(items, protocol.CompletionItem{
			Label:      v,
			Kind:       &kind,
			Detail:     strPtr(block + "." + name),
			InsertText: &insert,
		})
	}
	return items
}

// blockStack scans from the top of the file to the cursor and returns the
// names of the enclosing blocks, outermost first. Braces inside strings and
// comments are ignored.
func blockStack(lines []string, cursorLine, cursorChar int) []string {
	var stack []string

	for i := 0; i <= cursorLine && i < len(lines); i++ {
		line := lines[i]
		if i == cursorLine {
			line = line[:min(cursorChar, len(line))]
		}

		name := ""
		if parts := strings.Fields(line); len(parts) > 0 {
			name = parts[0]
		}

		inString := false
	scan:
		for j := 0; j < len(line); j++ {
			switch c := line[j]; {
			case c == '"' && (j == 0 || line[j-1] != '\\'):
				inString = !inString
			case inString:
			case c == '#' || (c == '/' && j+1 < len(line) && line[j+1] == '/'):
				break scan
			case c == '{':
				stack = append(stack, name)
			case c == '}':
				if len(stack) > 0 {
					stack = stack[:len(stack)-1]
				}
			}
		}
	}

	return stack
}

// attributeCompletions returns the attributes and nested blocks of block
// that are not yet written in the block surrounding the cursor.
func attributeCompletions(block string, lines []string, cursorLine int) []protocol.CompletionItem {
	defined := findDefinedAttributes(lines, cursorLine)

	var items []protocol.CompletionItem
	kind := protocol.CompletionItemKindProperty
	for _, a := range schema.Attributes(block) {
		if defined[a.Name] {
			continue
		}
		doc := a.Doc
		items = append(items, protocol.CompletionItem{
			Label:         a.Name,
			Kind:          &kind,
			Documentation: doc,
		})
	}

	snippetFormat := protocol.InsertTextFormatSnippet
	blockKind := protocol.CompletionItemKindModule
	for _, name := range schema.NestedBlocks(block) {
		snippet := name + " {\n  $0\n}"
		items = append(items, protocol.CompletionItem{
			Label:            name,
			Kind:             &blockKind,
			InsertText:       &snippet,
			InsertTextFormat: &snippetFormat,
		})
	}

	return items
}

// findDefinedAttributes scans the current block (from the nearest opening brace
// before cursorLine to cursorLine) and returns attribute names already defined
// (lines containing "name = ...").
func findDefinedAttributes(lines []string, cursorLine int) map[string]bool {
	defined := make(map[string]bool)

	// Scan backwards to find the opening brace of the current block
	startLine := 0
	depth := 0
	for i := cursorLine; i >= 0; i-- {
		line := strings.TrimSpace(lines[i])
		closes := strings.Count(line, "}")
		opens := strings.Count(line, "{")
		depth += closes - opens
		if depth < 0 {
			startLine = i
			break
		}
	}

	// Scan forward to the end of the block, collecting attribute names
	depth = 0
	for i := startLine; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])
		if i > startLine && depth == 1 {
			if eqIdx := strings.Index(line, "="); eqIdx > 0 {
				name := strings.TrimSpace(line[:eqIdx])
				if !strings.Contains(name, " ") && !strings.Contains(name, "{") {
					defined[name] = true
				}
			}
		}
		depth += strings.Count(line, "{") - strings.Count(line, "}")
		if depth <= 0 {
			break
		}
	}

	return defined
}

// topLevelCompletions returns completion items for top-level block names.
func topLevelCompletions() []protocol.CompletionItem {
	snippetFormat := protocol.InsertTextFormatSnippet
	kind := protocol.CompletionItemKindSnippet

	var items []protocol.CompletionItem
	for _, name := range schema.TopLevelBlocks {
		snippet := name + " {\n  $0\n}"
		items = append(items, protocol.CompletionItem{
			Label:            name,
			Kind:             &kind,
			InsertText:       &snippet,
			InsertTextFormat: &snippetFormat,
		})
	}

	return items
}

// completionKindPtr returns a pointer to a CompletionItemKind.
func completionKindPtr(k protocol.CompletionItemKind) *protocol.CompletionItemKind {
	return &k
}

// textDocumentCompletion is the LSP handler for textDocument/completion requests.
func (s *Server) textDocumentCompletion(_ *glsp.Context, params *protocol.CompletionParams) (any, error) {
	uri := string(params.TextDocument.URI)

	content, ok := s.docs.Get(uri)
	if !ok {
		return nil, nil
	}

	items := complete(s.docs.Result(uri), content, params.Position)
	return items, nil
}
