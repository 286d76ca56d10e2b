// Package composite implements the tile compositing service: it fetches the
// four requested bands concurrently, resolves each band's stretch range,
// quantizes each band into an 8-bit channel, and composes and encodes the
// result as a PNG.
package composite

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/tilestack-labs/tilestack/pkg/driver"
	"github.com/tilestack-labs/tilestack/pkg/raster"
	"github.com/tilestack-labs/tilestack/pkg/render"
	"github.com/tilestack-labs/tilestack/pkg/stretch"
)

// bandCount is fixed by the output format: one band per RGBA channel.
const bandCount = 4

// ErrInvalidArguments covers client-caused request shape violations: wrong
// band count, wrong override count, key-count mismatch, bad tile size.
var ErrInvalidArguments = errors.New("invalid arguments")

// Config holds configuration for the compositing service.
type Config struct {
	Driver driver.Driver

	// DefaultTileSize is used when a request does not specify a tile size.
	DefaultTileSize raster.TileSize

	Logger *slog.Logger

	// Tracer wraps the service entry point. Nil means no tracing.
	Tracer Tracer
}

// Service renders RGBA tiles against a raster catalog. Safe for concurrent
// use; it holds no per-request state.
type Service struct {
	driver   driver.Driver
	tileSize raster.TileSize
	logger   *slog.Logger
	tracer   Tracer
}

// NewService creates a compositing service.
func NewService(cfg Config) *Service {
	size := cfg.DefaultTileSize
	if !size.Valid() {
		size = raster.TileSize{Width: 256, Height: 256}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	tracer := cfg.Tracer
	if tracer == nil {
		tracer = NopTracer
	}
	return &Service{
		driver:   cfg.Driver,
		tileSize: size,
		logger:   logger,
		tracer:   tracer,
	}
}

// Request describes one RGBA tile to render.
type Request struct {
	// Keys are the dataset key values shared by all four bands: every
	// catalog key except the band-selector key, in catalog order.
	Keys []string

	// Bands are the band-selector values for the R, G, B and A channels,
	// in that order. Must contain exactly four values.
	Bands []string

	// StretchOverrides are per-band stretch specifications in band order.
	// Nil means no overrides; otherwise must contain exactly four entries
	// (zero values select the dataset default range).
	StretchOverrides []stretch.Override

	Coord raster.TileCoord

	// TileSize overrides the service default when non-nil.
	TileSize *raster.TileSize
}

// RenderTile validates the request, drives the per-band pipeline, and
// returns the encoded PNG bytes. The driver connection is acquired once and
// released on every exit path.
func (s *Service) RenderTile(ctx context.Context, req Request) ([]byte, error) {
	ctx, done := s.tracer(ctx, "rgba_tile")
	defer done()

	if len(req.Bands) != bandCount {
		return nil, fmt.Errorf("%w: need exactly %d band values, got %d", ErrInvalidArguments, bandCount, len(req.Bands))
	}
	overrides := req.StretchOverrides
	if overrides == nil {
		overrides = make([]stretch.Override, bandCount)
	}
	if len(overrides) != bandCount {
		return nil, fmt.Errorf("%w: need exactly %d stretch ranges, got %d", ErrInvalidArguments, bandCount, len(overrides))
	}
	size := s.tileSize
	if req.TileSize != nil {
		if !req.TileSize.Valid() {
			return nil, fmt.Errorf("%w: tile size dimensions must be positive", ErrInvalidArguments)
		}
		size = *req.TileSize
	}

	keyNames := s.driver.KeyNames()
	if len(req.Keys) != len(keyNames)-1 {
		return nil, fmt.Errorf("%w: must specify all keys except the band key (%d of %d given)",
			ErrInvalidArguments, len(req.Keys), len(keyNames)-1)
	}

	conn, err := s.driver.Connect(ctx)
	if err != nil {
		return nil, fmt.Errorf("connecting to driver: %w", err)
	}
	defer conn.Close()

	s.logger.Debug("rendering rgba tile",
		"keys", raster.DatasetKey(req.Keys).String(),
		"tile", req.Coord.String(),
		"bands", req.Bands,
	)

	base := raster.DatasetKey(req.Keys)

	// One task per band; each writes its channel into the slot matching its
	// input position, so output order never depends on completion order.
	// The first failure cancels the sibling fetches through the group
	// context.
	channels := make([]render.Channel, bandCount)
	eg, egctx := errgroup.WithContext(ctx)
	for i, band := range req.Bands {
		eg.Go(func() error {
			ch, err := s.renderBand(egctx, conn, base.WithBand(band), overrides[i], req.Coord, size)
			if err != nil {
				return fmt.Errorf("band %q: %w", band, err)
			}
			channels[i] = ch
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	img, err := render.Compose(channels[0], channels[1], channels[2], channels[3])
	if err != nil {
		return nil, err
	}
	return render.EncodePNG(img)
}

// renderBand runs one band through fetch, stretch resolution and
// quantization. Metadata comes first because resolution needs it; the pixel
// fetch follows on the same connection.
func (s *Service) renderBand(
	ctx context.Context,
	conn driver.Conn,
	keys raster.DatasetKey,
	ov stretch.Override,
	coord raster.TileCoord,
	size raster.TileSize,
) (render.Channel, error) {
	meta, err := conn.Metadata(ctx, keys)
	if err != nil {
		return render.Channel{}, err
	}

	rng, err := stretch.Resolve(stretch.Range{Low: meta.Min, High: meta.Max}, meta.Percentiles, ov)
	if err != nil {
		return render.Channel{}, err
	}

	tile, err := conn.TileData(ctx, keys, coord, size)
	if err != nil {
		return render.Channel{}, err
	}
	if !tile.Consistent() {
		return render.Channel{}, fmt.Errorf("driver returned inconsistent tile for %s", keys)
	}

	return render.Quantize(tile, rng), nil
}
