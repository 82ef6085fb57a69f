package engine

import (
	"github.com/jsvensson/palettegen/internal/color"
	"github.com/jsvensson/palettegen/internal/optimize"
	"github.com/jsvensson/palettegen/internal/schema"
)

// Meta holds job metadata.
type Meta struct {
	Name        string
	Description string
}

// Swatch is a named color.
type Swatch struct {
	Name  string
	Color color.Color
}

// Detail is the per-color diagnosis of the winning palette.
type Detail struct {
	Name            string
	Color           color.Color
	Generated       bool
	Influence       float64
	Nearest         string
	NearestDistance float64
}

// Run summarizes one restart.
type Run struct {
	Run         int
	Seed        uint64
	Score       float64
	Iterations  int
	Termination string
	Hex         []string
}

// Report is the data templates render.
type Report struct {
	Meta        Meta
	Palette     []Swatch
	Generated   []Swatch
	Config      optimize.Config
	Score       float64
	Distance    float64
	Penalty     float64
	Termination string
	Seed        uint64
	Completed   int
	Cancelled   int
	Total       int
	Details     []Detail
	Runs        []Run
}

// NewReport combines a job's palette and configuration with an optimizer
// result. Generated colors are named color_1, color_2 and so on.
func NewReport(meta Meta, palette []schema.Entry, cfg optimize.Config, res *optimize.BestResult) *Report {
	r := &Report{
		Meta:        meta,
		Config:      cfg,
		Score:       res.Score,
		Distance:    res.Best.DistanceTerm,
		Penalty:     res.Best.PenaltyTerm,
		Termination: res.Termination,
		Seed:        res.Seed,
		Completed:   res.Completed,
		Cancelled:   res.Cancelled,
		Total:       cfg.NRestarts,
	}
	names := make([]string, 0, len(palette)+len(res.Best.Colors))
	for _, e := range palette {
		r.Palette = append(r.Palette, Swatch{Name: e.Name, Color: e.Color})
		names = append(names, e.Name)
	}
	for i, c := range res.Best.Colors {
		name := schema.GeneratedName(i)
		r.Generated = append(r.Generated, Swatch{Name: name, Color: c})
		names = append(names, name)
	}

	for _, d := range res.Best.Details {
		det := Detail{
			Color:           d.Color,
			Generated:       !d.Existing,
			Influence:       d.Influence,
			NearestDistance: d.NearestDistance,
		}
		if d.Existing {
			det.Name = names[d.Index]
		} else {
			det.Name = names[len(palette)+d.Index]
		}
		if d.Nearest >= 0 && d.Nearest < len(names) {
			det.Nearest = names[d.Nearest]
		}
		r.Details = append(r.Details, det)
	}

	for _, run := range res.Runs {
		hex := make([]string, len(run.Colors))
		for i, c := range run.Colors {
			hex[i] = c.Hex()
		}
		r.Runs = append(r.Runs, Run{
			Run:         run.Run,
			Seed:        run.Seed,
			Score:       run.Score,
			Iterations:  run.Iterations,
			Termination: run.Termination,
			Hex:         hex,
		})
	}
	return r
}
