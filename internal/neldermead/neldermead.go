// Package neldermead implements the Nelder-Mead downhill simplex minimizer.
package neldermead

import (
	"math"
	"slices"

	"gonum.org/v1/gonum/floats"
)

// Func is an objective to minimize.
type Func func(x []float64) float64

// Termination reasons.
const (
	Converged     = "converged"
	MaxIterations = "max iterations"
)

// Settings tune the simplex. Zero fields take their defaults.
type Settings struct {
	MaxIterations int
	Tolerance     float64 // stop when f_max - f_min falls below this
	Step          float64 // initial simplex edge along each axis

	Reflection  float64
	Expansion   float64
	Contraction float64
	Shrink      float64

	// OnImprove is called whenever the best vertex improves. x must not be
	// retained.
	OnImprove func(x []float64, f float64, iteration int)
}

// DefaultSettings returns the standard coefficients with 1e-5 tolerance,
// step 1.2 and 1000 iterations.
func DefaultSettings() Settings {
	return Settings{
		MaxIterations: 1000,
		Tolerance:     1e-5,
		Step:          1.2,
		Reflection:    1,
		Expansion:     2,
		Contraction:   0.5,
		Shrink:        0.5,
	}
}

func (s Settings) withDefaults() Settings {
	d := DefaultSettings()
	if s.MaxIterations <= 0 {
		s.MaxIterations = d.MaxIterations
	}
	if s.Tolerance <= 0 {
		s.Tolerance = d.Tolerance
	}
	if s.Step == 0 {
		s.Step = d.Step
	}
	if s.Reflection <= 0 {
		s.Reflection = d.Reflection
	}
	if s.Expansion <= 0 {
		s.Expansion = d.Expansion
	}
	if s.Contraction <= 0 {
		s.Contraction = d.Contraction
	}
	if s.Shrink <= 0 {
		s.Shrink = d.Shrink
	}
	return s
}

// Result is the outcome of Minimize.
type Result struct {
	X           []float64
	F           float64
	Iterations  int
	Evaluations int
	Converged   bool
}

// Termination returns Converged or MaxIterations.
func (r Result) Termination() string {
	if r.Converged {
		return Converged
	}
	return MaxIterations
}

type vertex struct {
	x []float64
	f float64
}

// Minimize runs the simplex from x0. x0 is not modified. The run is
// deterministic for a given f and x0.
func Minimize(f Func, x0 []float64, s Settings) Result {
	s = s.withDefaults()
	n := len(x0)

	evals := 0
	eval := func(x []float64) float64 {
		evals++
		v := f(x)
		if math.IsNaN(v) {
			return math.Inf(1)
		}
		return v
	}

	simplex := make([]vertex, n+1)
	simplex[0] = vertex{x: slices.Clone(x0)}
	simplex[0].f = eval(simplex[0].x)
	for i := range n {
		x := slices.Clone(x0)
		x[i] += s.Step
		simplex[i+1] = vertex{x: x, f: eval(x)}
	}

	byValue := func(a, b vertex) int {
		switch {
		case a.f < b.f:
			return -1
		case a.f > b.f:
			return 1
		}
		return 0
	}

	best := math.Inf(1)
	centroid := make([]float64, n)
	xr := make([]float64, n)
	xe := make([]float64, n)
	xc := make([]float64, n)

	iter := 0
	converged := false
	for {
		slices.SortStableFunc(simplex, byValue)
		if simplex[0].f < best {
			best = simplex[0].f
			if s.OnImprove != nil {
				s.OnImprove(simplex[0].x, best, iter)
			}
		}
		if n == 0 || simplex[n].f-simplex[0].f < s.Tolerance {
			converged = true
			break
		}
		if iter >= s.MaxIterations {
			break
		}
		iter++

		for j := range centroid {
			centroid[j] = 0
		}
		for _, v := range simplex[:n] {
			floats.Add(centroid, v.x)
		}
		floats.Scale(1/float64(n), centroid)

		worst := simplex[n]

		// xr = c + α(c - worst)
		floats.SubTo(xr, centroid, worst.x)
		floats.AddScaledTo(xr, centroid, s.Reflection, xr)
		fr := eval(xr)

		switch {
		case fr < simplex[0].f:
			// xe = c + γ(xr - c)
			floats.SubTo(xe, xr, centroid)
			floats.AddScaledTo(xe, centroid, s.Expansion, xe)
			if fe := eval(xe); fe < fr {
				replace(&simplex[n], xe, fe)
			} else {
				replace(&simplex[n], xr, fr)
			}
		case fr < simplex[n-1].f:
			replace(&simplex[n], xr, fr)
		default:
			var fc float64
			if fr < worst.f {
				// outside: xc = c + ρ(xr - c)
				floats.SubTo(xc, xr, centroid)
				floats.AddScaledTo(xc, centroid, s.Contraction, xc)
				fc = eval(xc)
				if fc <= fr {
					replace(&simplex[n], xc, fc)
					continue
				}
			} else {
				// inside: xc = c + ρ(worst - c)
				floats.SubTo(xc, worst.x, centroid)
				floats.AddScaledTo(xc, centroid, s.Contraction, xc)
				fc = eval(xc)
				if fc < worst.f {
					replace(&simplex[n], xc, fc)
					continue
				}
			}
			// shrink toward the best vertex
			for i := 1; i <= n; i++ {
				x := simplex[i].x
				floats.SubTo(x, x, simplex[0].x)
				floats.AddScaledTo(x, simplex[0].x, s.Shrink, x)
				simplex[i].f = eval(x)
			}
		}
	}

	return Result{
		X:           slices.Clone(simplex[0].x),
		F:           simplex[0].f,
		Iterations:  iter,
		Evaluations: evals,
		Converged:   converged,
	}
}

func replace(v *vertex, x []float64, f float64) {
	copy(v.x, x)
	v.f = f
}
