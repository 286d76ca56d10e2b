// Package raster defines the request-scoped value types exchanged between
// the storage driver boundary and the tile compositing pipeline.
package raster

import "fmt"

// TileCoord identifies a map tile in a standard tiled pyramid scheme.
type TileCoord struct {
	Z int
	X int
	Y int
}

func (c TileCoord) String() string {
	return fmt.Sprintf("%d/%d/%d", c.Z, c.X, c.Y)
}

// TileSize holds the pixel dimensions of a requested tile.
type TileSize struct {
	Width  int
	Height int
}

// Valid reports whether both dimensions are positive.
func (s TileSize) Valid() bool {
	return s.Width > 0 && s.Height > 0
}

// DatasetKey is the ordered sequence of key values identifying one dataset
// in the catalog. Treat it as immutable: helpers return copies.
type DatasetKey []string

// WithBand returns a new key with the band-selector value appended.
// The receiver is not modified.
func (k DatasetKey) WithBand(band string) DatasetKey {
	out := make(DatasetKey, 0, len(k)+1)
	out = append(out, k...)
	return append(out, band)
}

func (k DatasetKey) String() string {
	s := ""
	for i, v := range k {
		if i > 0 {
			s += "/"
		}
		s += v
	}
	return s
}

// Metadata holds the descriptive statistics the catalog stores per dataset.
type Metadata struct {
	// Min and Max are the observed value range of the dataset.
	Min float64
	Max float64

	// Percentiles maps percentile index to value: Percentiles[90] is the
	// value below which 90% of sampled pixels fall. May be empty when the
	// catalog was ingested without percentile statistics.
	Percentiles []float64
}

// BandTile is one band's raw pixel grid in row-major order, together with
// its per-pixel validity mask (true = pixel carries data). Values holds the
// dataset's native values widened to float64; drivers produce it, the
// compositing pipeline only reads it.
type BandTile struct {
	Width  int
	Height int
	Values []float64
	Mask   []bool
}

// NewBandTile allocates a w*h tile with every pixel marked valid.
func NewBandTile(w, h int) *BandTile {
	n := w * h
	mask := make([]bool, n)
	for i := range mask {
		mask[i] = true
	}
	return &BandTile{
		Width:  w,
		Height: h,
		Values: make([]float64, n),
		Mask:   mask,
	}
}

// Consistent reports whether the value and mask slices match the declared
// tile dimensions.
func (t *BandTile) Consistent() bool {
	n := t.Width * t.Height
	return t.Width > 0 && t.Height > 0 && len(t.Values) == n && len(t.Mask) == n
}
