package cvd

import (
	"math"
	"testing"

	"github.com/jsvensson/palettegen/internal/color"
	"github.com/stretchr/testify/require"
)

func TestLegacyFixtures(t *testing.T) {
	tests := []struct {
		hex      string
		typ      Type
		severity float64
		want     string
	}{
		{"#ff0000", Protan, 1, "#918e00"},
		{"#ff0000", Tritan, 1, "#f20000"},
		{"#00ff00", Protan, 1, "#6e713e"},
		{"#00ff00", Tritan, 1, "#0d6e79"},
		{"#0000ff", Protan, 1, "#0000c1"},
		{"#0000ff", Tritan, 1, "#009186"},
		{"#330000", Deutan, 1, "#202400"},
		{"#ffffff", Deutan, 1, "#ffffff"},
		{"#808080", Protan, 1, "#808080"},
		{"#eb6f92", Protan, 1, "#b5b48a"},
		{"#31748f", Deutan, 1, "#4a4587"},
		{"#f6c177", Tritan, 1, "#f3979a"},
		{"#ff0000", Protan, 0.5, "#c84700"},
		{"#ff0000", None, 1, "#ff0000"},
		{"#eb6f92", Deutan, 0, "#eb6f92"},
	}

	for _, tt := range tests {
		t.Run(tt.hex+"/"+tt.typ.String(), func(t *testing.T) {
			got := Simulate(color.MustParseHex(tt.hex), tt.typ, tt.severity, Legacy)
			if got.Hex() != tt.want {
				t.Errorf("Simulate(%s, %s, %v) = %s, want %s", tt.hex, tt.typ, tt.severity, got.Hex(), tt.want)
			}
		})
	}
}

func TestMachadoRowsPreserveWhite(t *testing.T) {
	for _, typ := range []Type{Protan, Deutan, Tritan} {
		for step := 0; step <= 10; step++ {
			m := Matrix(typ, float64(step)/10, Machado2009)
			for i, row := range m {
				require.InDelta(t, 1, row[0]+row[1]+row[2], 1e-5, "%s step %d row %d", typ, step, i)
			}
		}
	}
}

func TestMachadoInterpolates(t *testing.T) {
	lo := machado[Deutan][3]
	hi := machado[Deutan][4]
	got := Matrix(Deutan, 0.35, Machado2009)
	for i := range 3 {
		for j := range 3 {
			require.InDelta(t, (lo[i][j]+hi[i][j])/2, got[i][j], 1e-12)
		}
	}
	require.Equal(t, machado[Tritan][10], Matrix(Tritan, 1, Machado2009))
	require.Equal(t, machado[Tritan][10], Matrix(Tritan, 7, Machado2009))
	require.Equal(t, Identity, Matrix(Protan, 0, Machado2009))
	require.Equal(t, Identity, Matrix(Protan, -1, Legacy))
	require.Equal(t, Identity, Matrix(None, 1, Machado2009))
}

func TestModelsDiffer(t *testing.T) {
	red := color.MustParseHex("#ff0000").Values()
	legacy := SimulateSRGB(red, Protan, 1, Legacy)
	linear := SimulateSRGB(red, Protan, 1, Machado2009)
	require.Greater(t, math.Abs(legacy[0]-linear[0])+math.Abs(legacy[1]-linear[1]), 0.01)
}

func TestSimulateLinearMatchesMatrix(t *testing.T) {
	v := color.Values{0.2, 0.5, 0.7}
	for _, m := range []Model{Legacy, Machado2009} {
		got := SimulateLinear(v, Deutan, 0.8, m)
		require.Equal(t, color.MulMatrix(Matrix(Deutan, 0.8, m), v), got)
	}
	require.Equal(t, v, SimulateLinear(v, None, 1, Legacy))
}

func TestMachadoSRGBRoundTrip(t *testing.T) {
	// Machado2009 operates in linear light, so encoded white stays white.
	white := SimulateSRGB(color.Values{1, 1, 1}, Tritan, 1, Machado2009)
	for _, c := range white {
		require.InDelta(t, 1, c, 1e-4)
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		input   string
		want    Type
		wantErr bool
	}{
		{"none", None, false},
		{"Protan", Protan, false},
		{"deuteranopia", Deutan, false},
		{"tritan", Tritan, false},
		{"achromat", None, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseType(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseType(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseType(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}

	m, err := ParseModel("machado2009")
	require.NoError(t, err)
	require.Equal(t, Machado2009, m)
	_, err = ParseModel("brettel")
	require.Error(t, err)
}
