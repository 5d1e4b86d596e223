package render

import (
	"fmt"

	"github.com/gogpu/vgraph/internal/vlog"
)

// Context is the frame-scoped render state threaded through every
// per-node call. There is no implicit current-program or
// current-resolution global; everything a pass needs rides here.
type Context struct {
	// Time is the elapsed time in seconds.
	Time float64

	// Width and Height are the global output resolution for this frame.
	Width  int
	Height int
}

// NodePass describes one scheduled node's render work for the Engine.
// The caller supplies the compiled program and the parameter uniforms;
// the Engine resolves input textures, performs the feedback hazard check,
// binds units and writes the universal uniforms.
type NodePass struct {
	// Node is the node id; it keys the node's render target in Resources.
	Node int

	// Program is the node's compiled program (or the fallback program).
	Program Program

	// Uniforms holds the parameter uniforms. The Engine adds the universal
	// and sampler uniforms; the map is modified in place.
	Uniforms map[string]Uniform

	// Inputs lists the source node id per input slot; 0 is an empty slot.
	Inputs []int
}

// Engine executes per-node render passes against a Device and Resources.
type Engine struct {
	dev Device
	res *Resources
}

// NewEngine creates a render engine.
func NewEngine(dev Device, res *Resources) *Engine {
	return &Engine{dev: dev, res: res}
}

// Device returns the engine's device.
func (e *Engine) Device() Device { return e.dev }

// Resources returns the engine's resource manager.
func (e *Engine) Resources() *Resources { return e.res }

// RenderNode executes one node's pass: resolve the target, check for
// feedback hazards, bind input textures to units matching their slot
// index, write universal uniforms and draw.
//
// skipped=true means the pass was deliberately not drawn (feedback
// hazard); the node's previous texture is left in place and the frame
// continues. Errors are likewise contained by the caller: a failing node
// never stops unrelated nodes from rendering.
func (e *Engine) RenderNode(ctx *Context, p *NodePass) (skipped bool, err error) {
	if p.Program == nil {
		return false, ErrNilProgram
	}

	target := e.res.Target(p.Node)
	if target == nil {
		// Allocation failed earlier; downstream consumers read the
		// fallback texture. Nothing to draw into.
		return true, nil
	}

	// Bind each populated input slot's texture to the unit equal to the
	// slot index, and point the slot's sampler uniform at that unit. Slot
	// and unit must agree exactly or color channels swap between inputs.
	textures := make([]Texture, len(p.Inputs))
	for slot, src := range p.Inputs {
		if src == 0 {
			continue
		}
		tex := e.res.Texture(src)

		// Feedback hazard: an input resolves to the texture this pass
		// renders into. Covers direct self-reference and stale cyclic
		// edges the scheduler left behind. Skip the draw; the previous
		// frame's texture stays.
		if tex == target.Texture() {
			vlog.Logger().Warn("feedback hazard, skipping node this frame",
				"node", p.Node, "slot", slot, "source", src)
			return true, nil
		}

		textures[slot] = tex
		p.Uniforms[SamplerName(slot)] = IntUniform(slot)
	}

	p.Uniforms[UniformTime] = FloatUniform(ctx.Time)
	p.Uniforms[UniformResolution] = Vec2Uniform(float64(ctx.Width), float64(ctx.Height))

	pass := &Pass{
		Target:   target,
		Program:  p.Program,
		Uniforms: p.Uniforms,
		Textures: textures,
		Time:     ctx.Time,
	}
	if err := e.dev.Render(pass); err != nil {
		return false, fmt.Errorf("render node %d: %w", p.Node, err)
	}
	return false, nil
}
