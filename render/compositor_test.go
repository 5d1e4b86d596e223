package render

import (
	"errors"
	"image"
	"testing"
)

func TestCompositorCopyToImage(t *testing.T) {
	dev, res := newTestResources(t, 4, 4)
	comp := NewCompositor(dev)

	setupNodeTargets(t, dev, res, map[int][3]float64{1: {1, 0, 0}})

	t.Run("matching size", func(t *testing.T) {
		dst := image.NewRGBA(image.Rect(0, 0, 4, 4))
		if err := comp.CopyToImage(res, 1, dst); err != nil {
			t.Fatalf("CopyToImage: %v", err)
		}
		if dst.Pix[0] != 255 || dst.Pix[3] != 255 {
			t.Errorf("pixel = %v, want opaque red", dst.Pix[:4])
		}
	})

	t.Run("scaling size", func(t *testing.T) {
		dst := image.NewRGBA(image.Rect(0, 0, 8, 8))
		if err := comp.CopyToImage(res, 1, dst); err != nil {
			t.Fatalf("CopyToImage: %v", err)
		}
		if dst.Pix[0] != 255 {
			t.Errorf("scaled pixel = %v, want red", dst.Pix[:4])
		}
	})

	t.Run("no source", func(t *testing.T) {
		dst := image.NewRGBA(image.Rect(0, 0, 4, 4))
		if err := comp.CopyToImage(res, 0, dst); !errors.Is(err, ErrNoOutputSource) {
			t.Errorf("CopyToImage(0) = %v, want ErrNoOutputSource", err)
		}
	})
}

func TestCompositorPresent(t *testing.T) {
	dev, res := newTestResources(t, 4, 4)
	comp := NewCompositor(dev)

	setupNodeTargets(t, dev, res, map[int][3]float64{1: {0, 1, 0}})
	surface := newTestTarget(t, dev, 4, 4, "surface")

	if err := comp.Present(res, 1, surface); err != nil {
		t.Fatalf("Present: %v", err)
	}
	pix, _ := dev.ReadPixels(surface.Texture())
	if pix[1] != 255 {
		t.Errorf("surface pixel = %v, want green", pix[:4])
	}

	if err := comp.Present(res, 1, nil); !errors.Is(err, ErrNilTarget) {
		t.Errorf("Present(nil) = %v, want ErrNilTarget", err)
	}
	if err := comp.Present(res, 0, surface); !errors.Is(err, ErrNoOutputSource) {
		t.Errorf("Present source 0 = %v, want ErrNoOutputSource", err)
	}
}
