package optimize

import (
	"fmt"
	"math"

	"github.com/jsvensson/palettegen/internal/bounds"
	"github.com/jsvensson/palettegen/internal/color"
	"github.com/jsvensson/palettegen/internal/cvd"
	"github.com/jsvensson/palettegen/internal/distance"
	"github.com/jsvensson/palettegen/internal/objective"
)

// MinIterations is the smallest accepted iteration budget per restart.
const MinIterations = 10

// Config is everything the driver needs besides the existing palette.
type Config struct {
	Space         color.Space
	NColors       int
	NRestarts     int
	MaxIterations int

	Metric       distance.Metric
	Mean         distance.MeanKind
	MeanExponent float64

	CVDWeights  map[cvd.Type]float64
	CVDSeverity float64
	CVDModel    cvd.Model

	Gamut       color.Gamut
	ClipToGamut bool

	Topology  bounds.Topology
	Widths    [3]float64
	Modes     [3]bounds.Mode
	Aesthetic bounds.Aesthetic

	// Seed fixes the random start points. A nil Seed is replaced with a
	// time-derived one, reported in the result.
	Seed *uint64

	// Tolerance and Step tune the simplex; zero keeps the solver defaults.
	Tolerance float64
	Step      float64
}

// Defaults returns the configuration used when a job leaves a setting out.
func Defaults() Config {
	return Config{
		Space:         color.SpaceOKLCh,
		NColors:       1,
		NRestarts:     8,
		MaxIterations: 300,
		Metric:        distance.DE2000,
		Mean:          distance.Minimum,
		CVDWeights:    map[cvd.Type]float64{cvd.None: 1},
		CVDSeverity:   1,
		CVDModel:      cvd.Machado2009,
		Gamut:         color.GamutSRGB,
		Topology:      bounds.Contiguous,
		Aesthetic:     bounds.NoAesthetic,
	}
}

// ConfigError reports an invalid configuration field. Field is the job-file
// attribute name.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// OptimizationSpaces lists the spaces the optimizer can search in.
func OptimizationSpaces() []color.Space {
	return []color.Space{color.SpaceHSL, color.SpaceLab, color.SpaceLCh, color.SpaceOKLab, color.SpaceOKLCh}
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Validate checks every field and returns the first problem as a
// *ConfigError.
func (c Config) Validate() error {
	supported := false
	for _, s := range OptimizationSpaces() {
		if c.Space == s {
			supported = true
		}
	}
	if !supported {
		return &ConfigError{"color_space", fmt.Sprintf("%s is not an optimization space", c.Space)}
	}
	if c.NColors < 1 {
		return &ConfigError{"colors_to_add", fmt.Sprintf("must be at least 1, got %d", c.NColors)}
	}
	if c.NRestarts < 1 {
		return &ConfigError{"restarts", fmt.Sprintf("must be at least 1, got %d", c.NRestarts)}
	}
	if c.MaxIterations < MinIterations {
		return &ConfigError{"max_iterations", fmt.Sprintf("must be at least %d, got %d", MinIterations, c.MaxIterations)}
	}
	if c.Metric < 0 || int(c.Metric) >= len(distance.MetricNames()) {
		return &ConfigError{"distance_metric", fmt.Sprintf("unknown metric %s", c.Metric)}
	}
	if c.Mean < 0 || int(c.Mean) >= len(distance.MeanNames()) {
		return &ConfigError{"mean", fmt.Sprintf("unknown mean %s", c.Mean)}
	}
	if !finite(c.MeanExponent) {
		return &ConfigError{"mean_exponent", "must be finite"}
	}

	var total float64
	for t, w := range c.CVDWeights {
		if t < cvd.None || t > cvd.Tritan {
			return &ConfigError{"cvd", fmt.Sprintf("unknown deficiency %s", t)}
		}
		if !finite(w) || w < 0 {
			return &ConfigError{"cvd." + t.String(), fmt.Sprintf("weight must be a non-negative number, got %v", w)}
		}
		total += w
	}
	if total <= 0 {
		return &ConfigError{"cvd", "at least one weight must be positive"}
	}
	if !finite(c.CVDSeverity) || c.CVDSeverity < 0 || c.CVDSeverity > 1 {
		return &ConfigError{"cvd.severity", fmt.Sprintf("must be in [0, 1], got %v", c.CVDSeverity)}
	}
	if c.CVDModel != cvd.Legacy && c.CVDModel != cvd.Machado2009 {
		return &ConfigError{"cvd_model", fmt.Sprintf("unknown model %s", c.CVDModel)}
	}
	if c.Gamut < color.GamutSRGB || c.Gamut > color.GamutRec2020 {
		return &ConfigError{"gamut", fmt.Sprintf("unknown gamut %s", c.Gamut)}
	}

	if c.Topology != bounds.Contiguous && c.Topology != bounds.Discontiguous {
		return &ConfigError{"constraints.topology", fmt.Sprintf("unknown topology %s", c.Topology)}
	}
	for i, w := range c.Widths {
		if !finite(w) || w < 0 || w > 1 {
			return &ConfigError{"constraints.widths", fmt.Sprintf("width %d must be in [0, 1], got %v", i, w)}
		}
	}
	for i, m := range c.Modes {
		if m != bounds.Hard && m != bounds.Soft {
			return &ConfigError{"constraints.modes", fmt.Sprintf("mode %d is %s", i, m)}
		}
	}
	if c.Aesthetic < bounds.NoAesthetic || c.Aesthetic > bounds.Tetradic {
		return &ConfigError{"constraints.aesthetic", fmt.Sprintf("unknown aesthetic %s", c.Aesthetic)}
	}

	if !finite(c.Tolerance) || c.Tolerance < 0 {
		return &ConfigError{"tolerance", "must be a non-negative number"}
	}
	if !finite(c.Step) || c.Step < 0 {
		return &ConfigError{"step", "must be a non-negative number"}
	}
	return nil
}

// States lists the configured CVD states with positive weight, in
// deficiency declaration order.
func (c Config) States() []objective.State {
	var out []objective.State
	for _, t := range cvd.Types() {
		if w := c.CVDWeights[t]; w > 0 {
			out = append(out, objective.State{Type: t, Weight: w})
		}
	}
	return out
}
