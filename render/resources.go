package render

import (
	"fmt"

	"github.com/gogpu/vgraph/internal/vlog"
)

// fallbackSize is the edge length of the shared fallback texture.
const fallbackSize = 8

// fallbackColor is the solid color of the shared fallback texture.
// Magenta is deliberately loud: sampling it means a node's resources
// failed and the substitution should be visible.
var fallbackColor = [4]byte{0xff, 0x00, 0xff, 0xff}

// entry tracks one node's render target. A nil target with released=false
// means allocation failed and reads fall back to the shared texture.
type entry struct {
	target   Target
	released bool
}

// Resources owns the (texture, render target) pair of every node, sized to
// the current global resolution, plus the shared fallback texture.
//
// Resources is driven from the frame-loop goroutine only.
type Resources struct {
	dev      Device
	width    int
	height   int
	fallback Texture
	entries  map[int]*entry
}

// NewResources creates a resource manager at the given resolution and
// allocates the shared fallback texture.
func NewResources(dev Device, width, height int) (*Resources, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}
	r := &Resources{
		dev:     dev,
		width:   width,
		height:  height,
		entries: make(map[int]*entry),
	}
	if err := r.createFallback(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Resources) createFallback() error {
	pix := make([]byte, fallbackSize*fallbackSize*4)
	for i := 0; i < len(pix); i += 4 {
		pix[i] = fallbackColor[0]
		pix[i+1] = fallbackColor[1]
		pix[i+2] = fallbackColor[2]
		pix[i+3] = fallbackColor[3]
	}
	tex, err := r.dev.NewTexture(fallbackSize, fallbackSize, pix, "fallback")
	if err != nil {
		return fmt.Errorf("render: fallback texture: %w", err)
	}
	r.fallback = tex
	return nil
}

// Size returns the current global resolution.
func (r *Resources) Size() (width, height int) { return r.width, r.height }

// Fallback returns the shared fallback texture.
func (r *Resources) Fallback() Texture { return r.fallback }

// Ensure guarantees the node has a valid render target at the current
// resolution. A failed allocation leaves any previous target intact;
// with no previous target, reads resolve to the fallback texture.
// Ensure on a released node re-allocates (the node exists again as far
// as the manager is concerned).
func (r *Resources) Ensure(id int) error {
	e := r.entries[id]
	if e == nil || e.released {
		e = &entry{}
		r.entries[id] = e
	}
	if e.target != nil {
		return nil
	}
	target, err := r.dev.NewTarget(r.width, r.height, fmt.Sprintf("node-%d", id))
	if err != nil {
		vlog.Logger().Warn("render target allocation failed, using fallback texture",
			"node", id, "err", err)
		return err
	}
	e.target = target
	return nil
}

// Target returns the node's render target, or nil if the node has none
// (never allocated, allocation failed, or released).
func (r *Resources) Target(id int) Target {
	e := r.entries[id]
	if e == nil || e.released {
		return nil
	}
	return e.target
}

// Texture returns the texture downstream nodes sample for this node.
// Nodes without a valid target resolve to the shared fallback texture, so
// sampling never reads a destroyed or nonexistent resource.
func (r *Resources) Texture(id int) Texture {
	if t := r.Target(id); t != nil {
		return t.Texture()
	}
	return r.fallback
}

// Release frees the node's resources. Idempotent: a second Release for
// the same node is a no-op, not a double free.
func (r *Resources) Release(id int) {
	e := r.entries[id]
	if e == nil || e.released {
		return
	}
	if e.target != nil {
		e.target.Release()
		e.target = nil
	}
	e.released = true
}

// Resize destroys and reallocates every tracked node's pair at the new
// resolution. This is a full-graph operation, not incremental. Nodes whose
// reallocation fails fall back to the shared texture until a later Ensure
// succeeds.
func (r *Resources) Resize(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}
	r.width = width
	r.height = height

	var firstErr error
	for id, e := range r.entries {
		if e.released {
			continue
		}
		if e.target != nil {
			e.target.Release()
			e.target = nil
		}
		if err := r.Ensure(id); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Invalidate drops every handle without releasing it through the device.
// Called on context loss, when the handles are already invalid. The
// fallback texture is dropped too; Recover re-creates it.
func (r *Resources) Invalidate() {
	for _, e := range r.entries {
		e.target = nil
	}
	r.fallback = nil
}

// Recover re-creates the fallback texture and every still-tracked node's
// resources after the device has been restored. Rendering must not resume
// until Recover returns.
func (r *Resources) Recover() error {
	if err := r.createFallback(); err != nil {
		return err
	}
	var firstErr error
	for id, e := range r.entries {
		if e.released {
			continue
		}
		if err := r.Ensure(id); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Forget drops tracking for nodes not in keep, releasing their resources.
// The engine calls this after graph edits so deleted nodes do not pin
// textures.
func (r *Resources) Forget(keep map[int]bool) {
	for id := range r.entries {
		if !keep[id] {
			r.Release(id)
			delete(r.entries, id)
		}
	}
}
