package server

import (
	"bytes"
	"image/png"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tilestack-labs/tilestack/internal/composite"
	"github.com/tilestack-labs/tilestack/internal/testutil"
	"github.com/tilestack-labs/tilestack/pkg/raster"
)

// newTestServer wires a server against a two-key catalog ("type", "band")
// holding bands b1..b4 under the "ndvi" type, uniform value 50, range [0, 100].
func newTestServer(t *testing.T) *Server {
	t.Helper()

	d := testutil.NewFakeDriver("type", "band")
	table := make([]float64, 101)
	for i := range table {
		table[i] = float64(i)
	}
	table[90] = 80
	for _, band := range []string{"b1", "b2", "b3", "b4"} {
		d.Add(raster.DatasetKey{"ndvi", band},
			raster.Metadata{Min: 0, Max: 100, Percentiles: table},
			testutil.UniformTile(4, 4, 50))
	}

	svc := composite.NewService(composite.Config{
		Driver:          d,
		DefaultTileSize: raster.TileSize{Width: 4, Height: 4},
		Logger:          testutil.NewTestLogger(t),
	})
	return New(Config{Service: svc, Port: 0, Logger: testutil.NewTestLogger(t)})
}

func get(t *testing.T, srv *Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

const allBands = "r=b1&g=b2&b=b3&a=b4"

func TestRGBATile_OK(t *testing.T) {
	srv := newTestServer(t)

	rec := get(t, srv, "/rgba/ndvi/3/2/1.png?"+allBands)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))

	img, err := png.Decode(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, 4, img.Bounds().Dx())
}

func TestRGBATile_TileSizeParameter(t *testing.T) {
	srv := newTestServer(t)

	rec := get(t, srv, "/rgba/ndvi/3/2/1.png?"+allBands+"&tile_size="+url.QueryEscape("[16,8]"))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	img, err := png.Decode(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, 16, img.Bounds().Dx())
	assert.Equal(t, 8, img.Bounds().Dy())
}

func TestRGBATile_StretchRangeParameter(t *testing.T) {
	srv := newTestServer(t)

	// [null, "p90"] with p90 = 80: red value 50 maps into a [0, 80] window.
	rec := get(t, srv, "/rgba/ndvi/3/2/1.png?"+allBands+"&r_range="+url.QueryEscape(`[null,"p90"]`))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestRGBATile_MissingBandParameter(t *testing.T) {
	srv := newTestServer(t)

	rec := get(t, srv, "/rgba/ndvi/3/2/1.png?r=b1&g=b2&b=b3")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"a"`)
}

func TestRGBATile_BadRangeJSON(t *testing.T) {
	srv := newTestServer(t)

	for _, raw := range []string{"not-json", "[1,2,3]", `[1]`, `["x",2]`} {
		rec := get(t, srv, "/rgba/ndvi/3/2/1.png?"+allBands+"&g_range="+url.QueryEscape(raw))
		assert.Equal(t, http.StatusBadRequest, rec.Code, "g_range=%s", raw)
	}
}

func TestRGBATile_InvertedRange(t *testing.T) {
	srv := newTestServer(t)

	rec := get(t, srv, "/rgba/ndvi/3/2/1.png?"+allBands+"&b_range="+url.QueryEscape("[90,10]"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRGBATile_WrongKeyCount(t *testing.T) {
	srv := newTestServer(t)

	// Catalog has two keys, so exactly one path key is expected.
	rec := get(t, srv, "/rgba/ndvi/extra/3/2/1.png?"+allBands)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = get(t, srv, "/rgba/3/2/1.png?"+allBands)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRGBATile_UnknownDataset(t *testing.T) {
	srv := newTestServer(t)

	rec := get(t, srv, "/rgba/ndvi/3/2/1.png?r=b1&g=b2&b=b3&a=nope")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRGBATile_MalformedPath(t *testing.T) {
	srv := newTestServer(t)

	rec := get(t, srv, "/rgba/ndvi/3/2/1.jpg?"+allBands)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = get(t, srv, "/rgba/ndvi/3/two/1.png?"+allBands)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRGBATile_CacheHeader(t *testing.T) {
	srv := newTestServer(t)

	rec := get(t, srv, "/rgba/ndvi/3/2/1.png?"+allBands)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "public, max-age=31536000", rec.Header().Get("Cache-Control"))
}
