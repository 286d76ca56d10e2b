package server

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/tilestack-labs/tilestack/internal/composite"
	"github.com/tilestack-labs/tilestack/pkg/raster"
	"github.com/tilestack-labs/tilestack/pkg/stretch"
)

var bandParams = [4]string{"r", "g", "b", "a"}

// parseTilePath splits the wildcard path tail into dataset key segments and
// the trailing <z>/<x>/<y>.png tile coordinate.
func parseTilePath(path string) ([]string, raster.TileCoord, error) {
	segs := strings.Split(strings.Trim(path, "/"), "/")
	if len(segs) < 3 {
		return nil, raster.TileCoord{}, fmt.Errorf("path must end in <z>/<x>/<y>.png")
	}

	coordSegs := segs[len(segs)-3:]
	last, ok := strings.CutSuffix(coordSegs[2], ".png")
	if !ok {
		return nil, raster.TileCoord{}, fmt.Errorf("tile path must end in .png")
	}
	coordSegs[2] = last

	vals := make([]int, 3)
	for i, seg := range coordSegs {
		v, err := strconv.Atoi(seg)
		if err != nil {
			return nil, raster.TileCoord{}, fmt.Errorf("tile coordinate %q is not an integer", seg)
		}
		vals[i] = v
	}

	keys := make([]string, 0, len(segs)-3)
	for _, seg := range segs[:len(segs)-3] {
		if seg != "" {
			keys = append(keys, seg)
		}
	}

	return keys, raster.TileCoord{Z: vals[0], X: vals[1], Y: vals[2]}, nil
}

// parseRGBAQuery reads the band selectors, optional stretch ranges, and
// optional tile size from the query string. JSON decoding of the range and
// tile_size values happens here so the compositing service only ever sees
// typed bounds.
func parseRGBAQuery(q url.Values) (composite.Request, error) {
	var req composite.Request

	req.Bands = make([]string, 0, len(bandParams))
	for _, name := range bandParams {
		v := q.Get(name)
		if v == "" {
			return composite.Request{}, fmt.Errorf("missing required query parameter %q", name)
		}
		req.Bands = append(req.Bands, v)
	}

	req.StretchOverrides = make([]stretch.Override, len(bandParams))
	for i, name := range bandParams {
		raw := q.Get(name + "_range")
		if raw == "" {
			continue
		}
		ov, err := parseStretchRange(name+"_range", raw)
		if err != nil {
			return composite.Request{}, err
		}
		req.StretchOverrides[i] = ov
	}

	if raw := q.Get("tile_size"); raw != "" {
		size, err := parseTileSize(raw)
		if err != nil {
			return composite.Request{}, err
		}
		req.TileSize = &size
	}

	return req, nil
}

func parseStretchRange(name, raw string) (stretch.Override, error) {
	var vals []any
	if err := json.Unmarshal([]byte(raw), &vals); err != nil {
		return stretch.Override{}, fmt.Errorf("could not decode value for %s as JSON", name)
	}
	if len(vals) != 2 {
		return stretch.Override{}, fmt.Errorf("%s must contain exactly 2 values", name)
	}
	low, err := stretch.ParseBound(vals[0])
	if err != nil {
		return stretch.Override{}, fmt.Errorf("%s: %w", name, err)
	}
	high, err := stretch.ParseBound(vals[1])
	if err != nil {
		return stretch.Override{}, fmt.Errorf("%s: %w", name, err)
	}
	return stretch.Override{Low: low, High: high}, nil
}

func parseTileSize(raw string) (raster.TileSize, error) {
	var dims []int
	if err := json.Unmarshal([]byte(raw), &dims); err != nil {
		return raster.TileSize{}, fmt.Errorf("could not decode value for tile_size as JSON")
	}
	if len(dims) != 2 {
		return raster.TileSize{}, fmt.Errorf("tile_size must contain exactly 2 values")
	}
	size := raster.TileSize{Width: dims[0], Height: dims[1]}
	if !size.Valid() {
		return raster.TileSize{}, fmt.Errorf("tile_size dimensions must be positive")
	}
	return size, nil
}
