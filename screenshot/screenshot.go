// Package screenshot captures still frames of the primary display.
package screenshot

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	"image/png"

	"golang.org/x/image/draw"
)

// DefaultMaxWidth bounds stored frame size; captures wider than this are
// scaled down with the aspect ratio preserved.
const DefaultMaxWidth = 1280

// Capturer acquires frames of the primary display and bounds their size.
type Capturer struct {
	maxWidth int
}

// New creates a capturer. A non-positive maxWidth falls back to
// DefaultMaxWidth.
func New(maxWidth int) *Capturer {
	if maxWidth <= 0 {
		maxWidth = DefaultMaxWidth
	}
	return &Capturer{maxWidth: maxWidth}
}

// Acquire captures one frame of the primary display as PNG bytes, scaled
// to the configured maximum width.
func (c *Capturer) Acquire(ctx context.Context) ([]byte, error) {
	data, err := capturePrimary(ctx)
	if err != nil {
		return nil, err
	}
	return Fit(data, c.maxWidth)
}

// Fit scales an encoded image down to maxWidth, preserving the aspect
// ratio. Images already within bounds are returned unchanged.
func Fit(data []byte, maxWidth int) ([]byte, error) {
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	bounds := src.Bounds()
	if bounds.Dx() <= maxWidth {
		return data, nil
	}

	height := bounds.Dy() * maxWidth / bounds.Dx()
	dst := image.NewRGBA(image.Rect(0, 0, maxWidth, height))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, bounds, draw.Src, nil)

	var buf bytes.Buffer
	if err := png.Encode(&buf, dst); err != nil {
		return nil, fmt.Errorf("encode image: %w", err)
	}
	return buf.Bytes(), nil
}
