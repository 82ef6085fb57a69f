package lsp

import (
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/jsvensson/palettegen/internal/schema"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// isIdentChar reports whether b can appear in a dotted HCL reference.
func isIdentChar(b byte) bool {
	return (b >= 'a' && b <= 'z') ||
		(b >= 'A' && b <= 'Z') ||
		(b >= '0' && b <= '9') ||
		b == '_' || b == '.'
}

// attrNameRange narrows the source range of an attribute step to the name;
// hcl includes the leading dot.
func attrNameRange(seg hcl.TraverseAttr) hcl.Range {
	r := seg.SrcRange
	r.Start.Column = r.End.Column - len(seg.Name)
	r.Start.Byte = r.End.Byte - len(seg.Name)
	return r
}

// paletteRef is a palette reference found under the cursor. Name is empty
// when the cursor sits on the palette namespace itself.
type paletteRef struct {
	Name string
}

// paletteRefAt finds the palette reference covering pos anywhere in body,
// including function arguments and nested blocks.
func paletteRefAt(body *hclsyntax.Body, pos protocol.Position) (paletteRef, bool) {
	var found paletteRef
	var ok bool
	hclsyntax.VisitAll(body, func(n hclsyntax.Node) hcl.Diagnostics {
		if ok {
			return nil
		}
		expr, isTraversal := n.(*hclsyntax.ScopeTraversalExpr)
		if !isTraversal || len(expr.Traversal) == 0 {
			return nil
		}
		root, isRoot := expr.Traversal[0].(hcl.TraverseRoot)
		if !isRoot || root.Name != schema.BlockPalette {
			return nil
		}
		if posInRange(pos, hclRangeToLSP(root.SrcRange)) {
			found, ok = paletteRef{}, true
			return nil
		}
		if len(expr.Traversal) < 2 {
			return nil
		}
		if seg, isAttr := expr.Traversal[1].(hcl.TraverseAttr); isAttr && posInRange(pos, hclRangeToLSP(attrNameRange(seg))) {
			found, ok = paletteRef{Name: seg.Name}, true
		}
		return nil
	})
	return found, ok
}

// definition returns where the palette reference under pos is defined: the
// entry for palette.name, or the palette block header for the namespace.
// References to entries defined later in the file resolve too, so the
// ordering diagnostic can be followed to its target.
func definition(result *AnalysisResult, content string, uri string, pos protocol.Position) *protocol.Location {
	if result == nil {
		return nil
	}
	// A body with syntax errors is still searched for the namespace.
	file, _ := hclsyntax.ParseConfig([]byte(content), uri, hcl.InitialPos)
	if file == nil {
		return nil
	}
	body, ok := file.Body.(*hclsyntax.Body)
	if !ok {
		return nil
	}

	ref, ok := paletteRefAt(body, pos)
	if !ok {
		return nil
	}

	var target protocol.Range
	if ref.Name == "" {
		block := findBlock(body, schema.BlockPalette)
		if block == nil {
			return nil
		}
		target = hclRangeToLSP(block.TypeRange)
	} else {
		r, found := result.Symbols[schema.BlockPalette+"."+ref.Name]
		if !found {
			return nil
		}
		target = r
	}

	return &protocol.Location{
		URI:   protocol.DocumentUri(uri),
		Range: target,
	}
}

// findBlock returns the first top-level block of the given type.
func findBlock(body *hclsyntax.Body, typ string) *hclsyntax.Block {
	for _, b := range body.Blocks {
		if b.Type == typ {
			return b
		}
	}
	return nil
}

// textDocumentDefinition handles textDocument/definition requests.
func (s *Server) textDocumentDefinition(_ *glsp.Context, params *protocol.DefinitionParams) (any, error) {
	uri := string(params.TextDocument.URI)

	result := s.docs.Result(uri)
	if result == nil {
		return nil, nil
	}

	content, ok := s.docs.Get(uri)
	if !ok {
		return nil, nil
	}

	if loc := definition(result, content, uri, params.Position); loc != nil {
		return loc, nil
	}
	return nil, nil
}
