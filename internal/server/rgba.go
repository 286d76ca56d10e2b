package server

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tilestack-labs/tilestack/internal/composite"
	"github.com/tilestack-labs/tilestack/pkg/driver"
	"github.com/tilestack-labs/tilestack/pkg/render"
	"github.com/tilestack-labs/tilestack/pkg/stretch"
)

// handleRGBATile serves GET /rgba/[<keys>/]<z>/<x>/<y>.png: four datasets
// composited into one RGBA tile. Band selectors come from the r, g, b and a
// query parameters; optional per-band stretch ranges from r_range, g_range,
// b_range and a_range.
func (s *Server) handleRGBATile(w http.ResponseWriter, r *http.Request) {
	keys, coord, err := parseTilePath(chi.URLParam(r, "*"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	req, err := parseRGBAQuery(r.URL.Query())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	req.Keys = keys
	req.Coord = coord

	png, err := s.svc.RenderTile(r.Context(), req)
	if err != nil {
		s.writeTileError(w, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=31536000")
	_, _ = w.Write(png)
}

// writeTileError maps compositing failures onto HTTP statuses: client-shaped
// input problems are 400, missing datasets 404, everything else 500.
func (s *Server) writeTileError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, driver.ErrDatasetNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, composite.ErrInvalidArguments),
		errors.Is(err, stretch.ErrInvalidRange),
		errors.Is(err, stretch.ErrNoPercentiles),
		errors.Is(err, stretch.ErrBadBound):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, render.ErrShapeMismatch):
		s.logger.Error("tile compositing failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	default:
		s.logger.Error("tile request failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
