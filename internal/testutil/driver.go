package testutil

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/tilestack-labs/tilestack/pkg/driver"
	"github.com/tilestack-labs/tilestack/pkg/raster"
)

// FakeDriver is a scriptable in-process driver for orchestrator tests. It
// counts connections and fetches, and can inject per-dataset delays and
// errors. All configuration must happen before the driver is handed to the
// code under test.
type FakeDriver struct {
	keyNames []string

	mu        sync.RWMutex
	metadata  map[string]raster.Metadata
	tiles     map[string]*raster.BandTile
	tileErrs  map[string]error
	metaErrs  map[string]error
	tileDelay map[string]time.Duration

	connectErr error

	connects  atomic.Int64
	closes    atomic.Int64
	tileCalls atomic.Int64
	metaCalls atomic.Int64
}

// NewFakeDriver creates an empty fake driver with the given key names.
func NewFakeDriver(keyNames ...string) *FakeDriver {
	return &FakeDriver{
		keyNames:  keyNames,
		metadata:  make(map[string]raster.Metadata),
		tiles:     make(map[string]*raster.BandTile),
		tileErrs:  make(map[string]error),
		metaErrs:  make(map[string]error),
		tileDelay: make(map[string]time.Duration),
	}
}

// Add registers a dataset with its metadata and tile.
func (d *FakeDriver) Add(keys raster.DatasetKey, meta raster.Metadata, tile *raster.BandTile) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.metadata[joinKeys(keys)] = meta
	d.tiles[joinKeys(keys)] = tile
}

// FailTileData makes TileData return err for the given dataset.
func (d *FakeDriver) FailTileData(keys raster.DatasetKey, err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.tileErrs[joinKeys(keys)] = err
}

// FailMetadata makes Metadata return err for the given dataset.
func (d *FakeDriver) FailMetadata(keys raster.DatasetKey, err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.metaErrs[joinKeys(keys)] = err
}

// DelayTileData makes TileData sleep before answering for the given dataset.
func (d *FakeDriver) DelayTileData(keys raster.DatasetKey, delay time.Duration) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.tileDelay[joinKeys(keys)] = delay
}

// FailConnect makes Connect return err.
func (d *FakeDriver) FailConnect(err error) {
	d.connectErr = err
}

// Connects returns how many connections were acquired.
func (d *FakeDriver) Connects() int { return int(d.connects.Load()) }

// Closes returns how many connections were released.
func (d *FakeDriver) Closes() int { return int(d.closes.Load()) }

// TileCalls returns how many tile fetches were issued.
func (d *FakeDriver) TileCalls() int { return int(d.tileCalls.Load()) }

// MetaCalls returns how many metadata fetches were issued.
func (d *FakeDriver) MetaCalls() int { return int(d.metaCalls.Load()) }

// KeyNames implements driver.Driver.
func (d *FakeDriver) KeyNames() []string {
	out := make([]string, len(d.keyNames))
	copy(out, d.keyNames)
	return out
}

// Connect implements driver.Driver.
func (d *FakeDriver) Connect(ctx context.Context) (driver.Conn, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if d.connectErr != nil {
		return nil, d.connectErr
	}
	d.connects.Add(1)
	return &fakeConn{d: d}, nil
}

type fakeConn struct {
	d *FakeDriver
}

func (c *fakeConn) Metadata(ctx context.Context, keys raster.DatasetKey) (raster.Metadata, error) {
	c.d.metaCalls.Add(1)
	if err := ctx.Err(); err != nil {
		return raster.Metadata{}, err
	}

	c.d.mu.RLock()
	defer c.d.mu.RUnlock()
	if err, ok := c.d.metaErrs[joinKeys(keys)]; ok {
		return raster.Metadata{}, err
	}
	meta, ok := c.d.metadata[joinKeys(keys)]
	if !ok {
		return raster.Metadata{}, driver.ErrDatasetNotFound
	}
	return meta, nil
}

func (c *fakeConn) TileData(ctx context.Context, keys raster.DatasetKey, _ raster.TileCoord, size raster.TileSize) (*raster.BandTile, error) {
	c.d.tileCalls.Add(1)

	c.d.mu.RLock()
	delay := c.d.tileDelay[joinKeys(keys)]
	c.d.mu.RUnlock()
	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.d.mu.RLock()
	defer c.d.mu.RUnlock()
	if err, ok := c.d.tileErrs[joinKeys(keys)]; ok {
		return nil, err
	}
	tile, ok := c.d.tiles[joinKeys(keys)]
	if !ok {
		return nil, driver.ErrDatasetNotFound
	}
	return resample(tile, size), nil
}

// resample scales src to the requested size by nearest-neighbor sampling,
// matching what real drivers do for tile_size overrides.
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

func (c *fakeConn) Close() error {
	c.d.closes.Add(1)
	return nil
}

func joinKeys(keys raster.DatasetKey) string {
	return strings.Join(keys, "\x00")
}
