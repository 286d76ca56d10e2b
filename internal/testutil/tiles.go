package testutil

import "github.com/tilestack-labs/tilestack/pkg/raster"

// UniformTile returns a fully valid w*h tile with every value set to v.
func UniformTile(w, h int, v float64) *raster.BandTile {
	tile := raster.NewBandTile(w, h)
	for i := range tile.Values {
		tile.Values[i] = v
	}
	return tile
}

// GradientTile returns a fully valid w*h tile whose values ramp from 0 at
// the first pixel to max at the last, row-major.
func GradientTile(w, h int, max float64) *raster.BandTile {
	tile := raster.NewBandTile(w, h)
	n := len(tile.Values)
	for i := range tile.Values {
		tile.Values[i] = max * float64(i) / float64(n-1)
	}
	return tile
}

// MaskedTile returns a uniform tile with the listed pixel indexes marked
// invalid.
func MaskedTile(w, h int, v float64, invalid ...int) *raster.BandTile {
	tile := UniformTile(w, h, v)
	for _, i := range invalid {
		tile.Mask[i] = false
	}
	return tile
}
