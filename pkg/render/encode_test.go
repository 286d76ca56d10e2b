package render

import (
	"bytes"
	"image"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func composeUniform(t *testing.T, w, h int, r, g, b, a uint8) *Image {
	t.Helper()
	img, err := Compose(
		uniformChannel(w, h, r),
		uniformChannel(w, h, g),
		uniformChannel(w, h, b),
		uniformChannel(w, h, a),
	)
	require.NoError(t, err)
	return img
}

func decodePNG(t *testing.T, data []byte) *image.NRGBA {
	t.Helper()
	decoded, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	nrgba, ok := decoded.(*image.NRGBA)
	require.True(t, ok, "expected NRGBA output, got %T", decoded)
	return nrgba
}

func TestEncodePNG_RoundTrip(t *testing.T) {
	img := composeUniform(t, 8, 4, 10, 20, 30, 200)

	data, err := EncodePNG(img)
	require.NoError(t, err)

	out := decodePNG(t, data)
	assert.Equal(t, 8, out.Bounds().Dx())
	assert.Equal(t, 4, out.Bounds().Dy())
	assert.Equal(t, []uint8{10, 20, 30, 200}, []uint8(out.Pix[:4]))
}

func TestEncodePNG_InvalidPixelsTransparent(t *testing.T) {
	img := composeUniform(t, 2, 1, 100, 110, 120, 255)
	img.Mask[1] = false

	data, err := EncodePNG(img)
	require.NoError(t, err)

	out := decodePNG(t, data)
	// Valid pixel keeps its channels; invalid pixel is fully transparent
	// regardless of its quantized alpha.
	assert.Equal(t, []uint8{100, 110, 120, 255}, []uint8(out.Pix[0:4]))
	assert.Equal(t, []uint8{0, 0, 0, 0}, []uint8(out.Pix[4:8]))
}

func TestEncodePNG_Deterministic(t *testing.T) {
	img := composeUniform(t, 16, 16, 5, 6, 7, 8)
	for i := 0; i < len(img.Mask); i += 3 {
		img.Mask[i] = false
	}

	first, err := EncodePNG(img)
	require.NoError(t, err)
	second, err := EncodePNG(img)
	require.NoError(t, err)

	assert.Equal(t, first, second, "identical composites must encode byte-identically")
}
