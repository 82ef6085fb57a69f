package distance

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/jsvensson/palettegen/internal/color"
	colorful "github.com/lucasb-eyer/go-colorful"
	"github.com/stretchr/testify/require"
)

// Sharma, Wu and Dalal (2005) reference pairs.
var ciede2000Pairs = []struct {
	a, b color.Values
	want float64
}{
	{color.Values{50, 2.6772, -79.7751}, color.Values{50, 0, -82.7485}, 2.0425},
	{color.Values{50, 3.1571, -77.2803}, color.Values{50, 0, -82.7485}, 2.8615},
	{color.Values{50, 2.8361, -74.0200}, color.Values{50, 0, -82.7485}, 3.4412},
	{color.Values{50, -1.3802, -84.2814}, color.Values{50, 0, -82.7485}, 1.0000},
	{color.Values{50, 0, 0}, color.Values{50, -1, 2}, 2.3669},
	{color.Values{50, 2.5, 0}, color.Values{73, 25, -18}, 27.1492},
	{color.Values{50, 2.5, 0}, color.Values{50, 3.1736, 0.5854}, 1.0000},
	{color.Values{60.2574, -34.0099, 36.2677}, color.Values{60.4626, -34.1751, 39.4387}, 1.2644},
	{color.Values{63.0109, -31.0961, -5.8663}, color.Values{62.8187, -29.7946, -4.0864}, 1.2630},
	{color.Values{22.7233, 20.0904, -46.6940}, color.Values{23.0331, 14.9730, -42.5619}, 2.0373},
	{color.Values{90.8027, -2.0831, 1.4410}, color.Values{91.1528, -1.6435, 0.0447}, 1.4441},
	{color.Values{2.0776, 0.0795, -1.1350}, color.Values{0.9033, -0.0636, -0.5514}, 0.9082},
}

func TestCIEDE2000Reference(t *testing.T) {
	for _, p := range ciede2000Pairs {
		require.InDelta(t, p.want, CIEDE2000(p.a, p.b), 1e-4, "%v vs %v", p.a, p.b)
		require.InDelta(t, p.want, CIEDE2000(p.b, p.a), 1e-4, "symmetry %v vs %v", p.b, p.a)
	}
}

func TestCIEDE2000MatchesColorful(t *testing.T) {
	pairs := [][2]string{
		{"#ff0000", "#00ff00"},
		{"#eb6f92", "#31748f"},
		{"#191724", "#1f1d2e"},
		{"#f6c177", "#ebbcba"},
	}
	for _, p := range pairs {
		a, b := color.MustParseHex(p[0]), color.MustParseHex(p[1])
		ca, _ := colorful.Hex(p[0])
		cb, _ := colorful.Hex(p[1])
		// colorful scales Lab by 1/100.
		want := ca.DistanceCIEDE2000(cb) * 100
		require.InDelta(t, want, Colors(a, b, DE2000), 0.1, "%s vs %s", p[0], p[1])
	}
}

func TestAllMetricsNonNegativeAndFinite(t *testing.T) {
	red, green := color.MustParseHex("#ff0000"), color.MustParseHex("#00ff00")
	for _, name := range MetricNames() {
		m, ok := ParseMetric(name)
		require.True(t, ok, name)
		t.Run(name, func(t *testing.T) {
			d := Colors(red, green, m)
			require.False(t, math.IsNaN(d) || math.IsInf(d, 0), "distance %v", d)
			require.Greater(t, d, 0.0)
			require.InDelta(t, 0, Colors(red, red, m), 1e-9)
		})
	}
}

func TestParseMetricFallback(t *testing.T) {
	m, ok := ParseMetric("cam16ucs")
	require.True(t, ok)
	require.Equal(t, CAM16UCS, m)

	m, ok = ParseMetric("ciede1994")
	require.False(t, ok)
	require.Equal(t, DE2000, m)
}

func TestDEITPScale(t *testing.T) {
	a := color.Values{0.5, 0.1, 0.05}
	b := color.Values{0.5, 0.1, 0.05}
	b[1] += 0.02
	require.InDelta(t, 720*0.01, Between(a, b, DEITP), 1e-12)
}

func TestAggregateIdentities(t *testing.T) {
	v := []float64{1, 2, 4}
	tests := []struct {
		name string
		kind MeanKind
		p    float64
		want float64
	}{
		{"minimum", Minimum, 0, 1},
		{"arithmetic", Arithmetic, 0, 7.0 / 3.0},
		{"geometric", Geometric, 0, 2},
		{"harmonic", Harmonic, 0, 3 / (1 + 0.5 + 0.25)},
		{"quadratic", Quadratic, 0, math.Sqrt(21.0 / 3.0)},
		{"power p=0 is geometric", Power, 0, 2},
		{"power p=-1 is harmonic", Power, -1, 3 / (1 + 0.5 + 0.25)},
		{"power p=1 is arithmetic", Power, 1, 7.0 / 3.0},
		{"lehmer p=0 is arithmetic", Lehmer, 0, 7.0 / 3.0},
		{"lehmer p=1 is contraharmonic", Lehmer, 1, 21.0 / 7.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.InDelta(t, tt.want, Aggregate(v, tt.kind, tt.p), 1e-12)
		})
	}
}

func TestAggregateDegenerate(t *testing.T) {
	require.Equal(t, 0.0, Aggregate(nil, Harmonic, 0))
	require.InDelta(t, Epsilon, Aggregate([]float64{0, 3}, Minimum, 0), 1e-18)
	require.InDelta(t, Epsilon, Aggregate([]float64{math.NaN()}, Arithmetic, 0), 1e-18)

	h := Aggregate([]float64{-1, 0, 5}, Harmonic, 0)
	require.False(t, math.IsInf(h, 0) || math.IsNaN(h))
	require.Greater(t, h, 0.0)
}

func TestAggregateDoesNotMutateInput(t *testing.T) {
	v := []float64{3, -1, math.Inf(1)}
	orig := append([]float64(nil), v...)
	Aggregate(v, Arithmetic, 0)
	if diff := cmp.Diff(orig, v); diff != "" {
		t.Errorf("input mutated (-want +got):\n%s", diff)
	}
}

func TestParseMean(t *testing.T) {
	for _, name := range MeanNames() {
		k, err := ParseMean(name)
		require.NoError(t, err)
		require.Equal(t, name, k.String())
	}
	_, err := ParseMean("median")
	require.Error(t, err)
}
