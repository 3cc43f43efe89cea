package astc

import (
	"fmt"
	"strings"
)

// Footprint is a 2D ASTC block footprint in texels.
type Footprint struct {
	X int
	Y int
}

// Square returns the footprint NxN, the shape the prebuilt encoder selects
// from its single block size argument.
func Square(n int) Footprint { return Footprint{X: n, Y: n} }

func (f Footprint) String() string { return fmt.Sprintf("%dx%d", f.X, f.Y) }

// Format returns the pixel format of textures compressed with f, or
// FormatUndefined when f is not a standard 2D footprint.
func (f Footprint) Format() Format {
	for i, fp := range formatFootprints {
		if fp == f {
			return Format(i + 1)
		}
	}
	return FormatUndefined
}

func (f Footprint) validate() error {
	if f.X <= 0 || f.Y <= 0 || f.X > 255 || f.Y > 255 {
		return fmt.Errorf("astc: invalid block footprint %s", f)
	}
	return nil
}

// ParseFootprint parses footprints written like "8x8".
func ParseFootprint(s string) (Footprint, error) {
	var f Footprint
	if len(strings.Split(s, "x")) != 2 {
		return Footprint{}, fmt.Errorf("astc: invalid block footprint %q (want like 8x8)", s)
	}
	if _, err := fmt.Sscanf(s, "%dx%d", &f.X, &f.Y); err != nil {
		return Footprint{}, fmt.Errorf("astc: invalid block footprint %q (want like 8x8)", s)
	}
	if err := f.validate(); err != nil {
		return Footprint{}, err
	}
	return f, nil
}

// Format identifies a GPU pixel format for ASTC-compressed texture data.
type Format uint8

const (
	FormatUndefined Format = iota
	FormatASTC4x4
	FormatASTC5x4
	FormatASTC5x5
	FormatASTC6x5
	FormatASTC6x6
	FormatASTC8x5
	FormatASTC8x6
	FormatASTC8x8
	FormatASTC10x5
	FormatASTC10x6
	FormatASTC10x8
	FormatASTC10x10
	FormatASTC12x10
	FormatASTC12x12
)

// formatFootprints is indexed by Format-1.
var formatFootprints = [...]Footprint{
	{4, 4}, {5, 4}, {5, 5}, {6, 5}, {6, 6},
	{8, 5}, {8, 6}, {8, 8},
	{10, 5}, {10, 6}, {10, 8}, {10, 10},
	{12, 10}, {12, 12},
}

// Footprint returns the block footprint of f. ok is false for FormatUndefined
// and unknown values.
func (f Format) Footprint() (fp Footprint, ok bool) {
	if f == FormatUndefined || int(f) > len(formatFootprints) {
		return Footprint{}, false
	}
	return formatFootprints[f-1], true
}

func (f Format) String() string {
	fp, ok := f.Footprint()
	if !ok {
		return "undefined"
	}
	return "ASTC_" + fp.String()
}
