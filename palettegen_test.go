package palettegen

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const testJob = `
meta {
  name = "Dusk"
}

palette {
  base = "#191724"
  love = "#eb6f92"
  gold = "#f6c177"
}

optimize {
  colors_to_add  = 2
  restarts       = 3
  max_iterations = 40
  seed           = 11
}
`

func writeJob(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "job.hcl")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	job, err := Load(writeJob(t, testJob))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if job.Meta.Name != "Dusk" {
		t.Errorf("Meta.Name = %q, want Dusk", job.Meta.Name)
	}
	existing := job.Existing()
	if len(existing) != 3 || existing[1].Hex() != "#eb6f92" {
		t.Errorf("Existing() = %v", existing)
	}
	if job.Config.NColors != 2 || job.Config.NRestarts != 3 {
		t.Errorf("Config = %+v", job.Config)
	}
	if job.Config.Seed == nil || *job.Config.Seed != 11 {
		t.Errorf("Seed = %v, want 11", job.Config.Seed)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"missing palette", "optimize {}\n", "no palette block"},
		{"bad color", "palette {\n  a = \"#12\"\n}\n", "palette.a"},
		{"invalid config", "palette {}\noptimize {\n  restarts = 0\n}\n", "restarts"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeJob(t, tt.content))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.HasPrefix(err.Error(), "loading job: ") || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %q, want it to mention %q", err, tt.want)
			}
		})
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.hcl")); err == nil {
		t.Error("expected error for a missing file")
	}
}

func TestLoadConfigError(t *testing.T) {
	_, err := LoadSource([]byte("palette {}\noptimize {\n  colors_to_add = 0\n}\n"), "job.hcl")
	var cfgErr *ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected *ConfigError, got %v", err)
	}
	if cfgErr.Field != "colors_to_add" {
		t.Errorf("Field = %q, want colors_to_add", cfgErr.Field)
	}
}

func TestJobRun(t *testing.T) {
	job, err := LoadSource([]byte(testJob), "job.hcl")
	if err != nil {
		t.Fatal(err)
	}

	var progress []Progress
	report, err := job.Run(context.Background(), Options{
		Workers:    1,
		KeepRuns:   true,
		OnProgress: func(p Progress) { progress = append(progress, p) },
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if len(report.Generated) != 2 {
		t.Fatalf("generated %d colors, want 2", len(report.Generated))
	}
	if report.Generated[0].Name != "color_1" || report.Generated[1].Name != "color_2" {
		t.Errorf("generated names = %q, %q", report.Generated[0].Name, report.Generated[1].Name)
	}
	if report.Seed != 11 || report.Completed != 3 || report.Total != 3 {
		t.Errorf("seed %d, completed %d/%d", report.Seed, report.Completed, report.Total)
	}
	if len(report.Runs) != 3 {
		t.Errorf("kept %d runs, want 3", len(report.Runs))
	}
	if len(progress) != 3 || progress[2].Completed != 3 {
		t.Errorf("progress = %+v", progress)
	}
	// 3 existing + 2 generated
	if len(report.Details) != 5 {
		t.Errorf("details = %d, want 5", len(report.Details))
	}
}

func TestJobRunDeterministic(t *testing.T) {
	job, err := LoadSource([]byte(testJob), "job.hcl")
	if err != nil {
		t.Fatal(err)
	}

	hexes := func(workers int) string {
		report, err := job.Run(context.Background(), Options{Workers: workers})
		if err != nil {
			t.Fatal(err)
		}
		var out []string
		for _, s := range report.Generated {
			out = append(out, s.Color.Hex())
		}
		return strings.Join(out, " ")
	}

	if a, b := hexes(1), hexes(4); a != b {
		t.Errorf("same seed gave %s with 1 worker and %s with 4", a, b)
	}
}

func TestJobRunCancelled(t *testing.T) {
	job, err := LoadSource([]byte(testJob), "job.hcl")
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := job.Run(ctx, Options{})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
	if report != nil {
		t.Errorf("expected no report when nothing completed, got %+v", report)
	}
}

func TestHelpers(t *testing.T) {
	red, err := ParseHex("#ff0000")
	if err != nil {
		t.Fatal(err)
	}

	lab, err := ParseSpace("lab")
	if err != nil {
		t.Fatal(err)
	}
	rgb, _ := ParseSpace("rgb")
	v, err := ConvertValues(red.Values(), rgb, lab)
	if err != nil {
		t.Fatal(err)
	}
	if v[0] < 53 || v[0] > 54 {
		t.Errorf("L* of red = %v, want about 53.2", v[0])
	}

	m, ok := ParseMetric("de2000")
	if !ok {
		t.Fatal("de2000 should be a known metric")
	}
	if d := Distance(red, red, m); d != 0 {
		t.Errorf("Distance(red, red) = %v, want 0", d)
	}
	if _, ok := ParseMetric("cie94"); ok {
		t.Error("cie94 should fall back")
	}

	minimum, err := ParseMean("minimum")
	if err != nil {
		t.Fatal(err)
	}
	if got := Aggregate([]float64{3, 1, 2}, minimum, 0); got != 1 {
		t.Errorf("minimum = %v, want 1", got)
	}

	none, _ := ParseDeficiency("none")
	machado, _ := ParseCVDModel("machado2009")
	if got := Simulate(red, none, 1, machado); got != red {
		t.Errorf("normal vision changed red to %s", got.Hex())
	}

	if DefaultConfig().Space.String() != "oklch" {
		t.Errorf("default space = %s", DefaultConfig().Space)
	}
}
