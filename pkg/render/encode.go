package render

import (
	"bytes"
	"image"
	"image/png"
)

// pngEncoder uses a fixed configuration so identical composites always
// produce byte-identical output.
var pngEncoder = png.Encoder{CompressionLevel: png.DefaultCompression}

// EncodePNG serializes a composite to a lossless 8-bit-per-channel RGBA PNG.
// Pixels invalid in the combined mask are written fully transparent with all
// channels zeroed, regardless of their quantized values.
func EncodePNG(img *Image) ([]byte, error) {
	out := image.NewNRGBA(image.Rect(0, 0, img.Width, img.Height))
	for i, valid := range img.Mask {
		if !valid {
			continue
		}
		out.Pix[4*i+0] = img.Channels[0].Pix[i]
		out.Pix[4*i+1] = img.Channels[1].Pix[i]
		out.Pix[4*i+2] = img.Channels[2].Pix[i]
		out.Pix[4*i+3] = img.Channels[3].Pix[i]
	}

	var buf bytes.Buffer
	if err := pngEncoder.Encode(&buf, out); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
