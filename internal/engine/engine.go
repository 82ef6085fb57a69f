package engine

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"text/template"

	"github.com/jsvensson/palettegen/internal/color"
	"github.com/jsvensson/palettegen/internal/cvd"
	"github.com/jsvensson/palettegen/internal/distance"
	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("palettegen.engine")

// Engine loads and executes Go templates against an optimization report.
type Engine struct {
	TemplatesDir string
	OutputDir    string
	Templates    []string // if non-empty, only render these template basenames
}

// Run loads all .tmpl files from the templates directory, executes them
// with the given report, and writes output files.
func (e *Engine) Run(report *Report) error {
	pattern := filepath.Join(e.TemplatesDir, "*.tmpl")
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return fmt.Errorf("globbing templates: %w", err)
	}
	if len(matches) == 0 {
		return fmt.Errorf("no .tmpl files found in %s", e.TemplatesDir)
	}

	if err := os.MkdirAll(e.OutputDir, 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	funcs := FuncMap(report)

	for _, tmplPath := range matches {
		baseName := strings.TrimSuffix(filepath.Base(tmplPath), ".tmpl")

		if !e.shouldRender(baseName) {
			continue
		}

		if err := e.renderTemplate(tmplPath, baseName, report, funcs); err != nil {
			return err
		}
		log.Debugf("rendered %s", baseName)
	}

	return nil
}

func (e *Engine) shouldRender(name string) bool {
	if len(e.Templates) == 0 {
		return true
	}

	return slices.Contains(e.Templates, name)
}

func (e *Engine) renderTemplate(tmplPath, outputName string, report *Report, funcs template.FuncMap) error {
	tmpl, err := template.New(filepath.Base(tmplPath)).Funcs(funcs).ParseFiles(tmplPath)
	if err != nil {
		return fmt.Errorf("parsing template %s: %w", tmplPath, err)
	}

	outPath := filepath.Join(e.OutputDir, outputName)
	f, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("creating output file %s: %w", outPath, err)
	}
	defer f.Close()

	if err := tmpl.Execute(f, report); err != nil {
		return fmt.Errorf("executing template %s: %w", tmplPath, err)
	}

	return nil
}

const defaultReport = `{{ with .Meta.Name }}{{ . }}
{{ end -}}
{{ len .Generated }} color(s) in {{ .Config.Space }}, {{ .Config.Metric }} distance, {{ .Config.Mean }} mean
score {{ printf "%.4f" .Score }} (distance {{ printf "%.4f" .Distance }}, penalty {{ printf "%.4f" .Penalty }}), {{ .Termination }}
seed {{ .Seed }}, {{ .Completed }}/{{ .Total }} restarts{{ if .Cancelled }}, {{ .Cancelled }} cancelled{{ end }}

generated {
{{- range .Generated }}
  {{ printf "%-12s" .Name }} = "{{ hex .Color }}"  # {{ oklch .Color }}
{{- end }}
}
{{ if .Details }}
influence:
{{- range .Details }}
  {{ printf "%-12s" .Name }} {{ hex .Color }} {{ printf "%9.4f" .Influence }}  nearest {{ .Nearest }} ({{ printf "%.2f" .NearestDistance }})
{{- end }}
{{ end -}}
{{ if .Runs }}
runs:
{{- range .Runs }}
  #{{ .Run }} {{ printf "%.4f" .Score }} {{ .Termination }} ({{ .Iterations }} iterations) {{ join .Hex " " }}
{{- end }}
{{ end -}}
`

// RenderReport writes the built-in plain text report to w.
func RenderReport(w io.Writer, report *Report) error {
	tmpl, err := template.New("report").Funcs(FuncMap(report)).Parse(defaultReport)
	if err != nil {
		return fmt.Errorf("parsing report template: %w", err)
	}
	if err := tmpl.Execute(w, report); err != nil {
		return fmt.Errorf("executing report template: %w", err)
	}
	return nil
}

// FuncMap returns the template functions bound to report. Named lookups
// and distances use the report's palette and metric.
func FuncMap(report *Report) template.FuncMap {
	return template.FuncMap{
		"hex": func(c color.Color) string {
			return c.Hex()
		},
		"hexBare": func(c color.Color) string {
			return c.HexBare()
		},
		"rgb": func(c color.Color) string {
			return c.RGB()
		},
		"hsl":   formatHSL,
		"lab":   formatLab,
		"oklch": formatOKLCh,
		"join":  strings.Join,
		"color": func(path string) (color.Color, error) {
			return resolveColorPath(path, report)
		},
		"distance": func(a, b color.Color) float64 {
			return distance.Colors(a, b, report.Config.Metric)
		},
		"simulate": func(c color.Color, name string) (color.Color, error) {
			t, err := cvd.ParseType(name)
			if err != nil {
				return color.Color{}, err
			}
			return cvd.Simulate(c, t, report.Config.CVDSeverity, report.Config.CVDModel), nil
		},
	}
}

func formatHSL(c color.Color) string {
	v := color.RGBToHSL(c.Values())
	return fmt.Sprintf("hsl(%.0f, %.0f%%, %.0f%%)", v[0], v[1], v[2])
}

func formatLab(c color.Color) string {
	v, err := color.ConvertValues(c.Values(), color.SpaceRGB, color.SpaceLab)
	if err != nil {
		return ""
	}
	return fmt.Sprintf("lab(%.1f %.1f %.1f)", v[0], v[1], v[2])
}

func formatOKLCh(c color.Color) string {
	l, ch, h := color.RGBToOKLCH(c)
	return fmt.Sprintf("oklch(%.3f %.3f %.1f)", l, ch, h)
}

// resolveColorPath resolves a dot-notation path such as "palette.base" or
// "generated.color_1" to a Color.
func resolveColorPath(path string, report *Report) (color.Color, error) {
	block, name, ok := strings.Cut(path, ".")
	if !ok || name == "" || strings.Contains(name, ".") {
		return color.Color{}, fmt.Errorf("invalid path %q: must be block.name format", path)
	}

	var swatches []Swatch
	switch block {
	case "palette":
		swatches = report.Palette
	case "generated":
		swatches = report.Generated
	default:
		return color.Color{}, fmt.Errorf("unknown block %q (valid: palette, generated)", block)
	}

	for _, s := range swatches {
		if s.Name == name {
			return s.Color, nil
		}
	}
	return color.Color{}, fmt.Errorf("%s color not found: %s", block, name)
}
