package render

import (
	"errors"
	"fmt"
	"image"

	"golang.org/x/image/draw"
)

// ErrNoOutputSource is returned when the output node has no connected
// source to composite.
var ErrNoOutputSource = errors.New("render: output node has no connected source")

// Compositor performs the final pass: copying the texture of the node
// connected to the terminal output node to the visible surface. It runs
// outside the main schedule, after every scheduled node has rendered, so
// the output node can never appear as its own input's dependency.
type Compositor struct {
	dev Device
}

// NewCompositor creates a compositor for the device.
func NewCompositor(dev Device) *Compositor {
	return &Compositor{dev: dev}
}

// CopyToImage reads the source node's texture and writes it into dst,
// scaling with bilinear interpolation when the sizes differ. source is
// the id of the node connected to the output node's input slot; source 0
// returns ErrNoOutputSource.
func (c *Compositor) CopyToImage(res *Resources, source int, dst *image.RGBA) error {
	if source == 0 {
		return ErrNoOutputSource
	}
	tex := res.Texture(source)
	pix, err := c.dev.ReadPixels(tex)
	if err != nil {
		return fmt.Errorf("render: composite readback: %w", err)
	}

	w, h := tex.Width(), tex.Height()
	src := &image.RGBA{Pix: pix, Stride: w * 4, Rect: image.Rect(0, 0, w, h)}

	db := dst.Bounds()
	if db.Dx() == w && db.Dy() == h && dst.Stride == w*4 {
		copy(dst.Pix, pix)
		return nil
	}
	draw.ApproxBiLinear.Scale(dst, db, src, src.Rect, draw.Src, nil)
	return nil
}

// Present blits the source node's texture into a device target, typically
// the window surface. The zero-copy path for GPU devices.
func (c *Compositor) Present(res *Resources, source int, dst Target) error {
	if source == 0 {
		return ErrNoOutputSource
	}
	if dst == nil {
		return ErrNilTarget
	}
	if err := c.dev.Blit(res.Texture(source), dst); err != nil {
		return fmt.Errorf("render: present: %w", err)
	}
	return nil
}
