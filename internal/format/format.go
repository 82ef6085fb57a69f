package format

import (
	"fmt"
	"regexp"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/jsvensson/palettegen/internal/schema"
	"github.com/zclconf/go-cty/cty"
)

var multipleBlankLines = regexp.MustCompile(`\n{3,}`)
var blankLineAfterOpenBrace = regexp.MustCompile(`\{\n\s*\n`)
var blankLineBeforeCloseBrace = regexp.MustCompile(`\n\s*\n(\s*\})`)

// Format takes HCL source content and returns it formatted according to
// HCL canonical style rules. It uses hclwrite.Format which handles
// indentation, spacing, and newline normalization.
//
// The formatter works even on partial/invalid HCL, making it suitable
// for use while the user is still typing.
func Format(content string) (string, error) {
	formatted := hclwrite.Format([]byte(content))
	// Collapse multiple consecutive blank lines into a single blank line.
	collapsed := multipleBlankLines.ReplaceAllString(string(formatted), "\n\n")
	// Remove blank lines immediately after opening braces.
	collapsed = blankLineAfterOpenBrace.ReplaceAllString(collapsed, "{\n")
	// Remove blank lines immediately before closing braces.
	collapsed = blankLineBeforeCloseBrace.ReplaceAllString(collapsed, "\n${1}")
	return collapsed, nil
}

// WriteGenerated replaces every generated block in a job file with one
// holding entries in order, and returns the formatted result. The rest of
// the file, comments included, is kept as written.
func WriteGenerated(src []byte, filename string, entries []schema.Entry) ([]byte, error) {
	f, diags := hclwrite.ParseConfig(src, filename, hcl.Pos{Line: 1, Column: 1})
	if diags.HasErrors() {
		return nil, fmt.Errorf("parsing HCL: %s", diags.Error())
	}

	body := f.Body()
	for _, b := range body.Blocks() {
		if b.Type() == schema.BlockGenerated {
			body.RemoveBlock(b)
		}
	}

	if len(body.Attributes()) > 0 || len(body.Blocks()) > 0 {
		body.AppendNewline()
	}
	gen := body.AppendNewBlock(schema.BlockGenerated, nil).Body()
	for _, e := range entries {
		gen.SetAttributeValue(e.Name, cty.StringVal(e.Color.Hex()))
	}

	out, err := Format(string(f.Bytes()))
	if err != nil {
		return nil, err
	}
	return []byte(out), nil
}
