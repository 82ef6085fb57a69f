// Package optimize runs the multi-start palette search: it builds the
// objective from a palette and a Config, runs seeded Nelder-Mead restarts on
// a worker pool and keeps the best result.
package optimize

import (
	"context"
	"fmt"
	"math"
	"runtime"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/jsvensson/palettegen/internal/bounds"
	"github.com/jsvensson/palettegen/internal/color"
	"github.com/jsvensson/palettegen/internal/neldermead"
	"github.com/jsvensson/palettegen/internal/objective"
	"github.com/kovidgoyal/go-parallel"
	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("palettegen.optimize")

// Options control how a run executes without affecting its result.
type Options struct {
	// Workers caps concurrent restarts; 0 uses every core.
	Workers int
	// OnProgress is called once per completed restart.
	OnProgress func(Progress)
	// OnVerbose receives the start, each improvement and the end of every
	// restart.
	OnVerbose func(Trace)
	// KeepRuns retains every restart in BestResult.Runs.
	KeepRuns bool
}

// Progress reports completed restarts.
type Progress struct {
	Completed  int
	Total      int
	Percent    float64
	BestScore  float64
	BestColors []color.Color
}

// Stage marks a point in one restart.
type Stage int

const (
	StageStart Stage = iota
	StageImproved
	StageEnd
)

func (s Stage) String() string {
	switch s {
	case StageStart:
		return "start"
	case StageImproved:
		return "improved"
	case StageEnd:
		return "end"
	}
	return fmt.Sprintf("Stage(%d)", int(s))
}

// Trace is one verbose event of a restart.
type Trace struct {
	Run        int
	Stage      Stage
	Score      float64
	Colors     []color.Color
	Parameters []float64
}

// RunResult is the outcome of one restart.
type RunResult struct {
	Run          int
	Seed         uint64
	Parameters   []float64
	Colors       []color.Color
	Values       []color.Values // in Config.Space units
	Score        float64
	DistanceTerm float64
	PenaltyTerm  float64
	Iterations   int
	Termination  string
	Details      []objective.Detail
}

// BestResult is the winning restart plus run bookkeeping.
type BestResult struct {
	Best        RunResult
	Hex         []string
	Values      []color.Values
	Score       float64
	Termination string
	// Seed is the run seed, generated when Config.Seed was nil.
	Seed uint64
	// Runs holds every completed restart ranked by score when
	// Options.KeepRuns is set.
	Runs      []RunResult
	Completed int
	Cancelled int
}

// NewObjective computes the bounds of existing under cfg and builds the
// objective the restarts minimize. cfg must be valid.
func NewObjective(existing []color.Color, cfg Config) (*objective.Objective, error) {
	points, err := objective.PalettePoints(existing, cfg.Space, cfg.Gamut)
	if err != nil {
		return nil, err
	}
	b := bounds.Compute(points, bounds.Settings{
		Space:     cfg.Space,
		Widths:    cfg.Widths,
		Modes:     cfg.Modes,
		Topology:  cfg.Topology,
		Aesthetic: cfg.Aesthetic,
	})
	return objective.New(objective.Settings{
		Space:        cfg.Space,
		Gamut:        cfg.Gamut,
		NColors:      cfg.NColors,
		Existing:     existing,
		Bounds:       b,
		Metric:       cfg.Metric,
		Mean:         cfg.Mean,
		MeanExponent: cfg.MeanExponent,
		States:       cfg.States(),
		Severity:     cfg.CVDSeverity,
		Model:        cfg.CVDModel,
		ClipToGamut:  cfg.ClipToGamut,
	})
}

// Optimize searches for cfg.NColors colors that are maximally distinct from
// existing and from each other.
//
// The result depends only on existing, cfg and the seed, never on
// Options.Workers. When ctx is cancelled, no new restarts start, running
// ones finish, and the best result so far is returned together with
// ctx.Err(). If no restart completed, the result is nil.
func Optimize(ctx context.Context, existing []color.Color, cfg Config, opts Options) (*BestResult, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	obj, err := NewObjective(existing, cfg)
	if err != nil {
		return nil, fmt.Errorf("building objective: %w", err)
	}

	seed := timeSeed()
	if cfg.Seed != nil {
		seed = *cfg.Seed
	}
	d := &driver{
		obj:   obj,
		cfg:   cfg,
		opts:  opts,
		seeds: subSeeds(seed, cfg.NRestarts),
	}

	log.Infof("optimizing %d colors against %d existing: %d restarts, %s space, %s metric, seed %d",
		cfg.NColors, len(existing), cfg.NRestarts, cfg.Space, cfg.Metric, seed)

	// Each worker claims the next run index until the runs are exhausted or
	// ctx is done, so at most workers restarts are ever in flight.
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	workers = min(workers, cfg.NRestarts)
	var next atomic.Int64
	work := func(_, _ int) {
		for ctx.Err() == nil {
			run := int(next.Add(1) - 1)
			if run >= cfg.NRestarts {
				return
			}
			d.record(d.restart(run))
		}
	}
	if err := parallel.Run_in_parallel_over_range(workers, work, 0, workers); err != nil {
		return nil, fmt.Errorf("running restarts: %w", err)
	}

	res := d.result(seed)
	if err := ctx.Err(); err != nil {
		log.Warningf("cancelled after %d of %d restarts", d.completed, cfg.NRestarts)
		return res, err
	}
	return res, nil
}

type driver struct {
	obj   *objective.Objective
	cfg   Config
	opts  Options
	seeds []uint64

	// mu guards the fields below and serializes callbacks.
	mu        sync.Mutex
	best      *RunResult
	runs      []RunResult
	completed int
}

func (d *driver) trace(t Trace) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.opts.OnVerbose(t)
}

func (d *driver) restart(run int) RunResult {
	seed := d.seeds[run]
	x0 := startPoint(seed, d.obj.Dim())
	verbose := d.opts.OnVerbose != nil

	if verbose {
		d.trace(Trace{Run: run, Stage: StageStart, Score: d.obj.Evaluate(x0), Colors: d.obj.Colors(x0), Parameters: slices.Clone(x0)})
	}

	settings := neldermead.Settings{
		MaxIterations: d.cfg.MaxIterations,
		Tolerance:     d.cfg.Tolerance,
		Step:          d.cfg.Step,
	}
	if verbose {
		settings.OnImprove = func(x []float64, f float64, iteration int) {
			if iteration == 0 {
				return
			}
			d.trace(Trace{Run: run, Stage: StageImproved, Score: f, Colors: d.obj.Colors(x), Parameters: slices.Clone(x)})
		}
	}
	res := neldermead.Minimize(d.obj.Evaluate, x0, settings)

	b := d.obj.Score(res.X)
	rr := RunResult{
		Run:          run,
		Seed:         seed,
		Parameters:   res.X,
		Colors:       d.obj.Colors(res.X),
		Values:       d.obj.Decode(res.X),
		Score:        b.Score,
		DistanceTerm: b.Distance,
		PenaltyTerm:  b.Penalty,
		Iterations:   res.Iterations,
		Termination:  res.Termination(),
		Details:      d.obj.Influence(res.X),
	}
	if verbose {
		d.trace(Trace{Run: run, Stage: StageEnd, Score: rr.Score, Colors: rr.Colors, Parameters: slices.Clone(rr.Parameters)})
	}
	return rr
}

// better orders results by score, NaN last, then by run index.
func better(a, b RunResult) bool {
	as, bs := a.Score, b.Score
	if math.IsNaN(as) {
		as = math.Inf(1)
	}
	if math.IsNaN(bs) {
		bs = math.Inf(1)
	}
	if as != bs {
		return as < bs
	}
	return a.Run < b.Run
}

func (d *driver) record(r RunResult) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.completed++
	log.Debugf("restart %d: score %.4f after %d iterations (%s)", r.Run, r.Score, r.Iterations, r.Termination)
	if d.best == nil || better(r, *d.best) {
		d.best = &r
		log.Noticef("new best from restart %d: score %.4f", r.Run, r.Score)
	}
	if d.opts.KeepRuns {
		d.runs = append(d.runs, r)
	}

	if d.opts.OnProgress != nil {
		total := d.cfg.NRestarts
		d.opts.OnProgress(Progress{
			Completed:  d.completed,
			Total:      total,
			Percent:    100 * float64(d.completed) / float64(total),
			BestScore:  d.best.Score,
			BestColors: slices.Clone(d.best.Colors),
		})
	}
}

func (d *driver) result(seed uint64) *BestResult {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.best == nil {
		return nil
	}
	best := *d.best
	hex := make([]string, len(best.Colors))
	for i, c := range best.Colors {
		hex[i] = c.Hex()
	}
	res := &BestResult{
		Best:        best,
		Hex:         hex,
		Values:      best.Values,
		Score:       best.Score,
		Termination: best.Termination,
		Seed:        seed,
		Completed:   d.completed,
		Cancelled:   d.cfg.NRestarts - d.completed,
	}
	if d.opts.KeepRuns {
		runs := slices.Clone(d.runs)
		slices.SortFunc(runs, func(a, b RunResult) int {
			if better(a, b) {
				return -1
			}
			if better(b, a) {
				return 1
			}
			return 0
		})
		res.Runs = runs
	}
	return res
}
