// Package driver defines the storage contract the tile compositing service
// consumes. A driver resolves a dataset key tuple plus tile coordinates to
// pixel data and descriptive statistics; how and where rasters are stored is
// entirely the driver's business.
package driver

import (
	"context"
	"errors"

	"github.com/tilestack-labs/tilestack/pkg/raster"
)

// ErrDatasetNotFound is returned by drivers when no dataset exists for a key
// combination. The serving layer maps it to a 404.
var ErrDatasetNotFound = errors.New("no dataset found for given key combination")

// Driver is a handle to a raster catalog.
type Driver interface {
	// KeyNames returns the catalog's ordered key names. Every dataset in
	// the catalog is identified by exactly this many key values.
	KeyNames() []string

	// Connect acquires a connection scoped to one tile request. Callers
	// must Close the connection on every exit path.
	Connect(ctx context.Context) (Conn, error)
}

// Conn is a request-scoped catalog connection. Metadata and TileData may be
// called concurrently for different dataset keys.
type Conn interface {
	// Metadata returns the descriptive statistics stored for a dataset.
	Metadata(ctx context.Context, keys raster.DatasetKey) (raster.Metadata, error)

	// TileData reads a dataset's pixels for one tile coordinate, resampled
	// to the requested size, along with the per-pixel validity mask.
	TileData(ctx context.Context, keys raster.DatasetKey, coord raster.TileCoord, size raster.TileSize) (*raster.BandTile, error)

	// Close releases the connection. Safe to call exactly once.
	Close() error
}
