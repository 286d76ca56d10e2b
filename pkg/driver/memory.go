package driver

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/tilestack-labs/tilestack/pkg/raster"
)

func init() {
	// The path names the catalog keys, slash-separated ("type/date/band").
	Register("memory", func(path string) (Driver, error) {
		names := strings.FieldsFunc(path, func(r rune) bool { return r == '/' })
		if len(names) == 0 {
			names = []string{"band"}
		}
		return NewMemory(names...), nil
	})
}

// Memory is an in-process catalog. Datasets are ingested programmatically;
// each dataset stores one raster that is served for every tile coordinate,
// resampled to the requested size. It backs tests and local serving, not
// production storage.
type Memory struct {
	keyNames []string

	mu       sync.RWMutex
	datasets map[string]*memDataset
}

type memDataset struct {
	meta raster.Metadata
	tile *raster.BandTile
}

// NewMemory creates an empty in-memory catalog with the given key names.
// The last key name is conventionally the band selector.
func NewMemory(keyNames ...string) *Memory {
	return &Memory{
		keyNames: keyNames,
		datasets: make(map[string]*memDataset),
	}
}

// Add ingests one dataset. The key arity must match the catalog's key names
// and the tile must be internally consistent.
func (m *Memory) Add(keys raster.DatasetKey, meta raster.Metadata, tile *raster.BandTile) error {
	if len(keys) != len(m.keyNames) {
		return fmt.Errorf("dataset key %v has %d values, catalog expects %d", keys, len(keys), len(m.keyNames))
	}
	if !tile.Consistent() {
		return fmt.Errorf("dataset key %v: inconsistent tile data", keys)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.datasets[joinKeys(keys)] = &memDataset{meta: meta, tile: tile}
	return nil
}

// KeyNames implements Driver.
func (m *Memory) KeyNames() []string {
	out := make([]string, len(m.keyNames))
	copy(out, m.keyNames)
	return out
}

// Connect implements Driver.
func (m *Memory) Connect(ctx context.Context) (Conn, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &memConn{catalog: m}, nil
}

type memConn struct {
	catalog *Memory
}

func (c *memConn) lookup(keys raster.DatasetKey) (*memDataset, error) {
	c.catalog.mu.RLock()
	defer c.catalog.mu.RUnlock()
	ds, ok := c.catalog.datasets[joinKeys(keys)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrDatasetNotFound, keys)
	}
	return ds, nil
}

func (c *memConn) Metadata(ctx context.Context, keys raster.DatasetKey) (raster.Metadata, error) {
	if err := ctx.Err(); err != nil {
		return raster.Metadata{}, err
	}
	ds, err := c.lookup(keys)
	if err != nil {
		return raster.Metadata{}, err
	}
	return ds.meta, nil
}

func (c *memConn) TileData(ctx context.Context, keys raster.DatasetKey, _ raster.TileCoord, size raster.TileSize) (*raster.BandTile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	ds, err := c.lookup(keys)
	if err != nil {
		return nil, err
	}
	return resample(ds.tile, size), nil
}

func (c *memConn) Close() error { return nil }

// resample returns src scaled to the requested size by nearest-neighbor
// sampling. The source is never modified.
func resample(src *raster.BandTile, size raster.TileSize) *raster.BandTile {
	out := raster.NewBandTile(size.Width, size.Height)
	for y := 0; y < size.Height; y++ {
		sy := y * src.Height / size.Height
		for x := 0; x < size.Width; x++ {
			sx := x * src.Width / size.Width
			si := sy*src.Width + sx
			di := y*size.Width + x
			out.Values[di] = src.Values[si]
			out.Mask[di] = src.Mask[si]
		}
	}
	return out
}

func joinKeys(keys raster.DatasetKey) string {
	return strings.Join(keys, "\x00")
}
