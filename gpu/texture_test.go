package gpu

import (
	"errors"
	"testing"

	"github.com/gogpu/vgraph/render"
)

func newMirrorTexture(t *testing.T) render.Texture {
	t.Helper()
	tex, err := render.NewSoftwareDevice().NewTexture(2, 2, make([]byte, 16), "mirror")
	if err != nil {
		t.Fatalf("NewTexture: %v", err)
	}
	return tex
}

func TestTextureReleaseIdempotent(t *testing.T) {
	tex := &texture{mirror: newMirrorTexture(t)}
	tex.Release()
	tex.Release() // second release must be a no-op

	if !tex.released.Load() {
		t.Error("texture not marked released")
	}
	if _, err := unwrapTexture(tex); !errors.Is(err, render.ErrTextureReleased) {
		t.Errorf("unwrap released texture = %v, want ErrTextureReleased", err)
	}
}

func TestUnwrapTexture(t *testing.T) {
	t.Run("nil passes through", func(t *testing.T) {
		got, err := unwrapTexture(nil)
		if got != nil || err != nil {
			t.Errorf("unwrap nil = (%v, %v), want (nil, nil)", got, err)
		}
	})

	t.Run("foreign texture rejected", func(t *testing.T) {
		if _, err := unwrapTexture(newMirrorTexture(t)); err == nil {
			t.Error("foreign texture accepted")
		}
	})

	t.Run("live texture unwraps to its mirror", func(t *testing.T) {
		mirror := newMirrorTexture(t)
		got, err := unwrapTexture(&texture{mirror: mirror})
		if err != nil || got != mirror {
			t.Errorf("unwrap = (%v, %v), want mirror", got, err)
		}
	})
}
