// Package color implements the color-space library: packed sRGB colors,
// continuous channel triples tagged by an explicit Space, conversions among
// RGB, HSL, CIE Lab/LCh, OKLab/OKLCh and CIE XYZ (D65, Y in [0, 1]), gamut
// matrices, and per-channel range utilities.
//
// Every conversion function is pure. XYZ is the pivot for ConvertValues
// outside the sRGB family.
package color

import (
	"fmt"
	"strings"
)

// Values is a channel triple. Its meaning depends on the Space it is paired with.
type Values [3]float64

// Space identifies a color space.
type Space int

const (
	SpaceRGB Space = iota
	SpaceLinearRGB
	SpaceHSL
	SpaceLab
	SpaceLCh
	SpaceOKLab
	SpaceOKLCh
	SpaceXYZ
)

var spaceNames = [...]string{
	SpaceRGB:       "rgb",
	SpaceLinearRGB: "linear-rgb",
	SpaceHSL:       "hsl",
	SpaceLab:       "lab",
	SpaceLCh:       "lch",
	SpaceOKLab:     "oklab",
	SpaceOKLCh:     "oklch",
	SpaceXYZ:       "xyz",
}

var spaceChannels = [...][3]string{
	SpaceRGB:       {"r", "g", "b"},
	SpaceLinearRGB: {"r", "g", "b"},
	SpaceHSL:       {"h", "s", "l"},
	SpaceLab:       {"l", "a", "b"},
	SpaceLCh:       {"l", "c", "h"},
	SpaceOKLab:     {"l", "a", "b"},
	SpaceOKLCh:     {"l", "c", "h"},
	SpaceXYZ:       {"x", "y", "z"},
}

// UnsupportedSpaceError reports an identifier that names no known space.
type UnsupportedSpaceError struct {
	Space string
}

func (e *UnsupportedSpaceError) Error() string {
	return fmt.Sprintf("unsupported color space %q", e.Space)
}

func (s Space) String() string {
	if s.Valid() {
		return spaceNames[s]
	}
	return fmt.Sprintf("Space(%d)", int(s))
}

// Valid reports whether s is one of the defined spaces.
func (s Space) Valid() bool {
	return s >= 0 && int(s) < len(spaceNames)
}

// Channels returns the channel names, e.g. ["l", "c", "h"].
func (s Space) Channels() [3]string {
	if !s.Valid() {
		return [3]string{}
	}
	return spaceChannels[s]
}

// HueChannel returns the index of the periodic hue channel, or -1.
func (s Space) HueChannel() int {
	switch s {
	case SpaceHSL:
		return 0
	case SpaceLCh, SpaceOKLCh:
		return 2
	}
	return -1
}

// LightnessChannel returns the index of the lightness channel, or -1.
func (s Space) LightnessChannel() int {
	switch s {
	case SpaceHSL:
		return 2
	case SpaceLab, SpaceLCh, SpaceOKLab, SpaceOKLCh:
		return 0
	}
	return -1
}

// OpponentChannels returns the (a, b) opponent channel indices for Lab-like
// spaces. ok is false for every other space.
func (s Space) OpponentChannels() (a, b int, ok bool) {
	switch s {
	case SpaceLab, SpaceOKLab:
		return 1, 2, true
	}
	return 0, 0, false
}

// ParseSpace maps an identifier such as "oklch" to a Space.
func ParseSpace(name string) (Space, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for i, sn := range spaceNames {
		if sn == n {
			return Space(i), nil
		}
	}
	return 0, &UnsupportedSpaceError{Space: name}
}

// SpaceNames lists the identifiers accepted by ParseSpace in a stable order.
func SpaceNames() []string {
	return append([]string(nil), spaceNames[:]...)
}

// ToXYZ converts values in space s to CIE XYZ (D65, Y in [0, 1]).
// RGB-family spaces are interpreted in the sRGB gamut.
func ToXYZ(v Values, s Space) (Values, error) {
	switch s {
	case SpaceXYZ:
		return v, nil
	case SpaceRGB:
		return LinearToXYZ(GamutSRGB, SRGBToLinear(v)), nil
	case SpaceLinearRGB:
		return LinearToXYZ(GamutSRGB, v), nil
	case SpaceHSL:
		return LinearToXYZ(GamutSRGB, SRGBToLinear(HSLToRGB(v))), nil
	case SpaceLab:
		return LabToXYZ(v), nil
	case SpaceLCh:
		return LabToXYZ(LChToLab(v)), nil
	case SpaceOKLab:
		return OKLabToXYZ(v), nil
	case SpaceOKLCh:
		return OKLabToXYZ(LChToLab(v)), nil
	}
	return Values{}, &UnsupportedSpaceError{Space: s.String()}
}

// FromXYZ converts CIE XYZ (D65, Y in [0, 1]) to space s.
func FromXYZ(xyz Values, s Space) (Values, error) {
	switch s {
	case SpaceXYZ:
		return xyz, nil
	case SpaceRGB:
		return LinearToSRGB(XYZToLinear(GamutSRGB, xyz)), nil
	case SpaceLinearRGB:
		return XYZToLinear(GamutSRGB, xyz), nil
	case SpaceHSL:
		return RGBToHSL(LinearToSRGB(XYZToLinear(GamutSRGB, xyz))), nil
	case SpaceLab:
		return XYZToLab(xyz), nil
	case SpaceLCh:
		return LabToLCh(XYZToLab(xyz)), nil
	case SpaceOKLab:
		return XYZToOKLab(xyz), nil
	case SpaceOKLCh:
		return LabToLCh(XYZToOKLab(xyz)), nil
	}
	return Values{}, &UnsupportedSpaceError{Space: s.String()}
}

// ConvertValues converts v from one space to another. Conversions among
// rgb, linear-rgb and hsl stay in sRGB; everything else pivots through XYZ.
func ConvertValues(v Values, from, to Space) (Values, error) {
	if !from.Valid() {
		return Values{}, &UnsupportedSpaceError{Space: from.String()}
	}
	if !to.Valid() {
		return Values{}, &UnsupportedSpaceError{Space: to.String()}
	}
	if from == to {
		return v, nil
	}
	if rgbFamily(from) && rgbFamily(to) {
		return fromSRGBFamily(toSRGBFamily(v, from), to), nil
	}
	xyz, err := ToXYZ(v, from)
	if err != nil {
		return Values{}, err
	}
	return FromXYZ(xyz, to)
}

func rgbFamily(s Space) bool {
	return s == SpaceRGB || s == SpaceLinearRGB || s == SpaceHSL
}

// toSRGBFamily returns encoded sRGB for a value in the sRGB family.
func toSRGBFamily(v Values, s Space) Values {
	switch s {
	case SpaceLinearRGB:
		return LinearToSRGB(v)
	case SpaceHSL:
		return HSLToRGB(v)
	}
	return v
}

func fromSRGBFamily(rgb Values, s Space) Values {
	switch s {
	case SpaceLinearRGB:
		return SRGBToLinear(rgb)
	case SpaceHSL:
		return RGBToHSL(rgb)
	}
	return rgb
}
