package optimize

import (
	"math/rand/v2"
	"time"

	"github.com/jsvensson/palettegen/internal/objective"
)

// splitMix64 derives independent sub-seeds from one run seed.
type splitMix64 struct {
	state uint64
}

func (s *splitMix64) next() uint64 {
	s.state += 0x9e3779b97f4a7c15
	z := s.state
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return z ^ (z >> 31)
}

// subSeeds returns one seed per restart.
func subSeeds(seed uint64, n int) []uint64 {
	sm := splitMix64{state: seed}
	out := make([]uint64, n)
	for i := range out {
		out[i] = sm.next()
	}
	return out
}

func timeSeed() uint64 {
	return uint64(time.Now().UnixNano())
}

// startPoint draws a start vector in parameter space: each component is
// logit(p) for p uniform in [0, 1), so decoded channels start uniform over
// their hull.
func startPoint(seed uint64, dim int) []float64 {
	rng := rand.New(rand.NewPCG(seed, seed^0xda3e39cb94b95bdb))
	x := make([]float64, dim)
	for i := range x {
		x[i] = objective.Logit(rng.Float64())
	}
	return x
}
