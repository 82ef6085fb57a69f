package distance

import (
	"math"

	"github.com/jsvensson/palettegen/internal/color"
)

const pow25To7 = 6103515625.0 // 25^7

// CIEDE2000 computes ΔE00 between two CIELAB points with kL = kC = kH = 1.
func CIEDE2000(lab1, lab2 color.Values) float64 {
	const kL, kC, kH = 1.0, 1.0, 1.0

	l1, a1, b1 := lab1[0], lab1[1], lab1[2]
	l2, a2, b2 := lab2[0], lab2[1], lab2[2]

	c1 := math.Hypot(a1, b1)
	c2 := math.Hypot(a2, b2)
	barC7 := math.Pow((c1+c2)/2, 7)
	g := 0.5 * (1 - math.Sqrt(barC7/(barC7+pow25To7)))

	a1p := (1 + g) * a1
	a2p := (1 + g) * a2
	c1p := math.Hypot(a1p, b1)
	c2p := math.Hypot(a2p, b2)

	h1p := hueAngle(b1, a1p)
	h2p := hueAngle(b2, a2p)

	dLp := l2 - l1
	dCp := c2p - c1p

	var dhp float64
	if c1p*c2p != 0 {
		dhp = h2p - h1p
		if dhp > math.Pi {
			dhp -= 2 * math.Pi
		} else if dhp < -math.Pi {
			dhp += 2 * math.Pi
		}
	}
	dHp := 2 * math.Sqrt(c1p*c2p) * math.Sin(dhp/2)

	barLp := (l1 + l2) / 2
	barCp := (c1p + c2p) / 2

	barhp := h1p + h2p
	if c1p*c2p != 0 {
		if math.Abs(h1p-h2p) > math.Pi {
			if barhp < 2*math.Pi {
				barhp += 2 * math.Pi
			} else {
				barhp -= 2 * math.Pi
			}
		}
		barhp /= 2
	}

	t := 1 -
		0.17*math.Cos(barhp-deg(30)) +
		0.24*math.Cos(2*barhp) +
		0.32*math.Cos(3*barhp+deg(6)) -
		0.20*math.Cos(4*barhp-deg(63))

	dTheta := deg(30) * math.Exp(-math.Pow((barhp-deg(275))/deg(25), 2))
	barCp7 := math.Pow(barCp, 7)
	rc := 2 * math.Sqrt(barCp7/(barCp7+pow25To7))

	l50 := (barLp - 50) * (barLp - 50)
	sl := 1 + 0.015*l50/math.Sqrt(20+l50)
	sc := 1 + 0.045*barCp
	sh := 1 + 0.015*barCp*t
	rt := -math.Sin(2*dTheta) * rc

	fl := dLp / (kL * sl)
	fc := dCp / (kC * sc)
	fh := dHp / (kH * sh)
	return math.Sqrt(fl*fl + fc*fc + fh*fh + rt*fc*fh)
}

func hueAngle(b, ap float64) float64 {
	if b == 0 && ap == 0 {
		return 0
	}
	h := math.Atan2(b, ap)
	if h < 0 {
		h += 2 * math.Pi
	}
	return h
}

func deg(d float64) float64 {
	return d * math.Pi / 180
}
