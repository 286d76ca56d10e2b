package render

import (
	"errors"
	"fmt"
)

// ErrShapeMismatch is returned when the four channels of a composite do not
// share one pixel-grid shape. Drivers return consistent tile sizes, so this
// indicates an internal bug rather than bad client input.
var ErrShapeMismatch = errors.New("composite channels have mismatched shapes")

// Image is a composited four-channel image in fixed R, G, B, A order.
// Mask is the combined validity mask: a pixel is valid only when it is valid
// in all four source channels.
type Image struct {
	Width    int
	Height   int
	Channels [4]Channel
	Mask     []bool
}

// Compose stacks four quantized channels into one RGBA image. Channel order
// in the result is always the argument order, never completion or storage
// order.
func Compose(r, g, b, a Channel) (*Image, error) {
	chans := [4]Channel{r, g, b, a}
	for i, ch := range chans {
		if ch.Width != r.Width || ch.Height != r.Height {
			return nil, fmt.Errorf("%w: channel %d is %dx%d, want %dx%d",
				ErrShapeMismatch, i, ch.Width, ch.Height, r.Width, r.Height)
		}
		n := ch.Width * ch.Height
		if len(ch.Pix) != n || len(ch.Mask) != n {
			return nil, fmt.Errorf("%w: channel %d has %d pixels and %d mask entries, want %d",
				ErrShapeMismatch, i, len(ch.Pix), len(ch.Mask), n)
		}
	}

	mask := make([]bool, r.Width*r.Height)
	for i := range mask {
		mask[i] = r.Mask[i] && g.Mask[i] && b.Mask[i] && a.Mask[i]
	}

	return &Image{
		Width:    r.Width,
		Height:   r.Height,
		Channels: chans,
		Mask:     mask,
	}, nil
}
