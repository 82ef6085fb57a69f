package parser

import (
	"fmt"
	"strings"

	"github.com/jsvensson/palettegen/internal/bounds"
	"github.com/jsvensson/palettegen/internal/color"
	"github.com/jsvensson/palettegen/internal/cvd"
	"github.com/jsvensson/palettegen/internal/distance"
	"github.com/jsvensson/palettegen/internal/optimize"
)

func enumError(field, value string, valid []string) error {
	return &optimize.ConfigError{
		Field:  field,
		Reason: fmt.Sprintf("unknown value %q (valid: %s)", value, strings.Join(valid, ", ")),
	}
}

// Config applies the block on top of optimize.Defaults and validates the
// result. A nil block yields the defaults. Unknown metric names fall back
// to de2000 and are reported as warnings.
func (o *OptimizeBlock) Config() (optimize.Config, []string, error) {
	cfg := optimize.Defaults()
	var warnings []string
	if o == nil {
		return cfg, nil, nil
	}

	if o.ColorSpace != nil {
		s, err := color.ParseSpace(*o.ColorSpace)
		if err != nil {
			return cfg, nil, &optimize.ConfigError{Field: "color_space", Reason: err.Error()}
		}
		cfg.Space = s
	}
	if o.ColorsToAdd != nil {
		cfg.NColors = *o.ColorsToAdd
	}
	if o.Restarts != nil {
		cfg.NRestarts = *o.Restarts
	}
	if o.MaxIterations != nil {
		cfg.MaxIterations = *o.MaxIterations
	}
	if o.DistanceMetric != nil {
		m, ok := distance.ParseMetric(*o.DistanceMetric)
		if !ok {
			msg := fmt.Sprintf("unknown distance_metric %q, falling back to %s", *o.DistanceMetric, m)
			log.Warningf("%s", msg)
			warnings = append(warnings, msg)
		}
		cfg.Metric = m
	}
	if o.Mean != nil {
		k, err := distance.ParseMean(*o.Mean)
		if err != nil {
			return cfg, nil, enumError("mean", *o.Mean, distance.MeanNames())
		}
		cfg.Mean = k
	}
	if o.MeanExponent != nil {
		cfg.MeanExponent = *o.MeanExponent
	}
	if o.CVDModel != nil {
		m, err := cvd.ParseModel(*o.CVDModel)
		if err != nil {
			return cfg, nil, enumError("cvd_model", *o.CVDModel, cvd.ModelNames())
		}
		cfg.CVDModel = m
	}
	if o.Gamut != nil {
		g, err := color.ParseGamut(*o.Gamut)
		if err != nil {
			return cfg, nil, enumError("gamut", *o.Gamut, color.GamutNames())
		}
		cfg.Gamut = g
	}
	if o.ClipToGamut != nil {
		cfg.ClipToGamut = *o.ClipToGamut
	}
	if o.Seed != nil {
		if *o.Seed < 0 {
			return cfg, nil, &optimize.ConfigError{Field: "seed", Reason: fmt.Sprintf("must be non-negative, got %d", *o.Seed)}
		}
		seed := uint64(*o.Seed)
		cfg.Seed = &seed
	}
	if o.Tolerance != nil {
		cfg.Tolerance = *o.Tolerance
	}
	if o.Step != nil {
		cfg.Step = *o.Step
	}

	if o.CVD != nil {
		applyCVD(&cfg, o.CVD)
	}
	if o.Constraints != nil {
		if err := applyConstraints(&cfg, o.Constraints); err != nil {
			return cfg, nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return cfg, nil, err
	}
	return cfg, warnings, nil
}

// applyCVD replaces the default weights when any weight is written.
// Unwritten deficiencies then weigh 0.
func applyCVD(cfg *optimize.Config, b *CVDBlock) {
	written := map[cvd.Type]*float64{
		cvd.None:   b.None,
		cvd.Protan: b.Protan,
		cvd.Deutan: b.Deutan,
		cvd.Tritan: b.Tritan,
	}
	weights := make(map[cvd.Type]float64)
	for t, w := range written {
		if w != nil {
			weights[t] = *w
		}
	}
	if len(weights) > 0 {
		cfg.CVDWeights = weights
	}
	if b.Severity != nil {
		cfg.CVDSeverity = *b.Severity
	}
}

func applyConstraints(cfg *optimize.Config, b *ConstraintsBlock) error {
	if b.Topology != nil {
		t, err := bounds.ParseTopology(*b.Topology)
		if err != nil {
			return enumError("constraints.topology", *b.Topology, []string{"contiguous", "discontiguous"})
		}
		cfg.Topology = t
	}
	if b.Aesthetic != nil {
		a, err := bounds.ParseAesthetic(*b.Aesthetic)
		if err != nil {
			return enumError("constraints.aesthetic", *b.Aesthetic, bounds.AestheticNames())
		}
		cfg.Aesthetic = a
	}
	if b.Widths != nil {
		if len(b.Widths) != 3 {
			return &optimize.ConfigError{Field: "constraints.widths", Reason: fmt.Sprintf("need 3 values, got %d", len(b.Widths))}
		}
		copy(cfg.Widths[:], b.Widths)
	}
	if b.Modes != nil {
		if len(b.Modes) != 3 {
			return &optimize.ConfigError{Field: "constraints.modes", Reason: fmt.Sprintf("need 3 values, got %d", len(b.Modes))}
		}
		for i, name := range b.Modes {
			m, err := bounds.ParseMode(name)
			if err != nil {
				return enumError("constraints.modes", name, []string{"hard", "soft"})
			}
			cfg.Modes[i] = m
		}
	}
	return nil
}
