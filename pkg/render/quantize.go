// Package render turns raw band tiles into an encoded RGBA image: linear
// quantization of each band into an 8-bit channel, mask-aware compositing of
// the four channels, and deterministic PNG encoding.
package render

import (
	"math"

	"github.com/tilestack-labs/tilestack/pkg/raster"
	"github.com/tilestack-labs/tilestack/pkg/stretch"
)

// Channel is one quantized 8-bit image channel plus the validity mask
// carried forward from its source tile.
type Channel struct {
	Width  int
	Height int
	Pix    []uint8
	Mask   []bool
}

// Quantize maps a band's raw values into [0, 255] by stretching rng linearly
// onto the channel: rng.Low maps to 0, rng.High to 255, values outside the
// window clip. Invalid pixels stay invalid and are emitted as 0.
//
// rng must satisfy Low < High, which stretch.Resolve guarantees.
func Quantize(tile *raster.BandTile, rng stretch.Range) Channel {
	ch := Channel{
		Width:  tile.Width,
		Height: tile.Height,
		Pix:    make([]uint8, len(tile.Values)),
		Mask:   make([]bool, len(tile.Mask)),
	}
	copy(ch.Mask, tile.Mask)

	scale := 255 / (rng.High - rng.Low)
	for i, v := range tile.Values {
		if !tile.Mask[i] {
			continue
		}
		s := (v - rng.Low) * scale
		if s < 0 {
			s = 0
		} else if s > 255 {
			s = 255
		}
		ch.Pix[i] = uint8(math.Round(s))
	}
	return ch
}
