package schema

import (
	"fmt"
	"sort"

	"github.com/hashicorp/hcl/v2"
	"github.com/jsvensson/palettegen/internal/color"
	"github.com/jsvensson/palettegen/internal/cvd"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
)

// ResolveColor extracts a color from a cty.Value holding a hex string.
func ResolveColor(val cty.Value) (color.Color, error) {
	if val.IsNull() || !val.IsKnown() {
		return color.Color{}, fmt.Errorf("expected a color, got no value")
	}
	if val.Type() != cty.String {
		return color.Color{}, fmt.Errorf("expected a hex color string, got %s", val.Type().FriendlyName())
	}
	return color.ParseHex(val.AsString())
}

// Entry is a named color in a palette or generated block.
type Entry struct {
	Name  string
	Color color.Color
}

// PaletteToCty converts palette entries to an object value so later
// expressions can reference palette.name.
func PaletteToCty(entries []Entry) cty.Value {
	if len(entries) == 0 {
		return cty.EmptyObjectVal
	}
	vals := make(map[string]cty.Value, len(entries))
	for _, e := range entries {
		vals[e.Name] = cty.StringVal(e.Color.Hex())
	}
	return cty.ObjectVal(vals)
}

func number(v cty.Value) float64 {
	f, _ := v.AsBigFloat().Float64()
	return f
}

// MakeSpaceFunc creates a constructor such as oklch(l, c, h) that returns the
// nearest sRGB color as a hex string.
func MakeSpaceFunc(s color.Space) function.Function {
	ch := s.Channels()
	params := make([]function.Parameter, 3)
	for i, name := range ch {
		params[i] = function.Parameter{Name: name, Type: cty.Number}
	}
	return function.New(&function.Spec{
		Description: fmt.Sprintf("Builds a color from %s channels %s, %s, %s", s, ch[0], ch[1], ch[2]),
		Params:      params,
		Type:        function.StaticReturnType(cty.String),
		Impl: func(args []cty.Value, retType cty.Type) (cty.Value, error) {
			v := color.Values{number(args[0]), number(args[1]), number(args[2])}
			c, err := color.FromValues(v, s)
			if err != nil {
				return cty.NilVal, err
			}
			return cty.StringVal(c.Hex()), nil
		},
	})
}

// MakeBrightenFunc creates an HCL function that brightens a color.
// Usage: brighten("#hex", 0.1) or brighten(palette.color, 0.1)
func MakeBrightenFunc() function.Function {
	return makeAdjustFunc("Brightens a color by the given percentage (-1.0 to 1.0)", color.Brighten)
}

// MakeDarkenFunc creates an HCL function that darkens a color.
// Usage: darken("#hex", 0.1) or darken(palette.color, 0.1)
func MakeDarkenFunc() function.Function {
	return makeAdjustFunc("Darkens a color by the given percentage (0.0 to 1.0)", color.Darken)
}

func makeAdjustFunc(desc string, adjust func(color.Color, float64) color.Color) function.Function {
	return function.New(&function.Spec{
		Description: desc,
		Params: []function.Parameter{
			{Name: "color", Type: cty.String},
			{Name: "percentage", Type: cty.Number},
		},
		Type: function.StaticReturnType(cty.String),
		Impl: func(args []cty.Value, retType cty.Type) (cty.Value, error) {
			c, err := color.ParseHex(args[0].AsString())
			if err != nil {
				return cty.NilVal, err
			}
			return cty.StringVal(adjust(c, number(args[1])).Hex()), nil
		},
	})
}

// MakeSimulateFunc creates simulate(color, type[, severity]), which returns
// the color as seen with the given deficiency under the Machado model.
func MakeSimulateFunc() function.Function {
	return function.New(&function.Spec{
		Description: "Simulates a color vision deficiency (protan, deutan, tritan) at an optional severity",
		Params: []function.Parameter{
			{Name: "color", Type: cty.String},
			{Name: "type", Type: cty.String},
		},
		VarParam: &function.Parameter{Name: "severity", Type: cty.Number},
		Type:     function.StaticReturnType(cty.String),
		Impl: func(args []cty.Value, retType cty.Type) (cty.Value, error) {
			c, err := color.ParseHex(args[0].AsString())
			if err != nil {
				return cty.NilVal, err
			}
			t, err := cvd.ParseType(args[1].AsString())
			if err != nil {
				return cty.NilVal, err
			}
			severity := 1.0
			switch len(args) {
			case 2:
			case 3:
				severity = number(args[2])
				if severity < 0 || severity > 1 {
					return cty.NilVal, fmt.Errorf("severity must be in [0, 1], got %v", severity)
				}
			default:
				return cty.NilVal, fmt.Errorf("simulate takes at most one severity argument")
			}
			return cty.StringVal(cvd.Simulate(c, t, severity, cvd.Machado2009).Hex()), nil
		},
	})
}

// Functions returns every function available in job files, keyed by name.
func Functions() map[string]function.Function {
	return map[string]function.Function{
		"hsl":      MakeSpaceFunc(color.SpaceHSL),
		"lab":      MakeSpaceFunc(color.SpaceLab),
		"lch":      MakeSpaceFunc(color.SpaceLCh),
		"oklab":    MakeSpaceFunc(color.SpaceOKLab),
		"oklch":    MakeSpaceFunc(color.SpaceOKLCh),
		"brighten": MakeBrightenFunc(),
		"darken":   MakeDarkenFunc(),
		"simulate": MakeSimulateFunc(),
	}
}

// FunctionNames lists the job-file functions in sorted order.
func FunctionNames() []string {
	fns := Functions()
	names := make([]string, 0, len(fns))
	for name := range fns {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// BuildEvalContext creates an HCL evaluation context with the palette
// variable and the color functions.
func BuildEvalContext(palette []Entry) *hcl.EvalContext {
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			BlockPalette: PaletteToCty(palette),
		},
		Functions: Functions(),
	}
}

// GeneratedName is the name given to the i-th generated color, starting at
// zero: color_1, color_2 and so on.
func GeneratedName(i int) string {
	return fmt.Sprintf("color_%d", i+1)
}
