package vgraph

import (
	"fmt"
	"image"
	"sync"
	"time"

	"github.com/gogpu/vgraph/internal/vlog"
	"github.com/gogpu/vgraph/render"
)

// SignalProvider supplies a control-input node's raw normalized value.
// Providers acquire their signal asynchronously (MIDI, audio, cursor) but
// are sampled synchronously: CurrentValue returns the last-known value
// and never blocks. Implementations live in the signal package.
type SignalProvider interface {
	// CurrentValue returns the provider's latest value in [0, 1].
	CurrentValue() float64
}

// Engine drives the per-frame pipeline: marshaled graph edits, the
// modulation pass, dependency scheduling, one render pass per scheduled
// node, and the final output composite. It is single-threaded and
// frame-driven; all methods except Do must be called from the goroutine
// that calls Step.
type Engine struct {
	graph    *Graph
	dev      render.Device
	res      *render.Resources
	renderer *render.Engine
	comp     *render.Compositor
	mod      *Modulator

	// programs caches one compiled program per kind. A kind whose
	// compilation failed maps to the fallback program so its nodes keep
	// producing valid textures.
	programs map[Kind]render.Program
	fallback render.Program

	providers map[NodeID]SignalProvider

	disabledGroups map[string]bool

	pendingMu sync.Mutex
	pending   []func(*Engine)

	width  int
	height int
	resol  Resolution
}

// NewEngine creates an engine on the given device.
func NewEngine(dev render.Device, opts ...Option) (*Engine, error) {
	if dev == nil {
		return nil, ErrNilDevice
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	w, h := o.resolution.Size()
	res, err := render.NewResources(dev, w, h)
	if err != nil {
		return nil, fmt.Errorf("vgraph: resources: %w", err)
	}

	g := o.graph
	if g == nil {
		g = NewGraph()
	}

	e := &Engine{
		graph:          g,
		dev:            dev,
		res:            res,
		renderer:       render.NewEngine(dev, res),
		comp:           render.NewCompositor(dev),
		mod:            NewModulator(),
		programs:       make(map[Kind]render.Program),
		providers:      make(map[NodeID]SignalProvider),
		disabledGroups: make(map[string]bool),
		width:          w,
		height:         h,
		resol:          o.resolution,
	}

	fb, err := dev.NewProgram(render.FallbackProgram())
	if err != nil {
		return nil, fmt.Errorf("vgraph: fallback program: %w", err)
	}
	e.fallback = fb
	return e, nil
}

// Graph returns the engine's graph. Mutate it only from the frame-loop
// goroutine, or through Do.
func (e *Engine) Graph() *Graph { return e.graph }

// Resolution returns the current global resolution.
func (e *Engine) Resolution() Resolution { return e.resol }

// SetResolution switches to a new resolution preset. The in-flight frame
// state is discarded and every node's resources are destroyed and
// re-created at the new size before the next frame; graph topology is
// untouched.
func (e *Engine) SetResolution(r Resolution) error {
	if r == e.resol {
		return nil
	}
	w, h := r.Size()
	e.resol = r
	e.width = w
	e.height = h
	vlog.Logger().Info("resolution changed, reallocating all render targets",
		"resolution", r.String())
	return e.res.Resize(w, h)
}

// BindSignal attaches a provider to a control-input node. An unbound
// control node samples 0.
func (e *Engine) BindSignal(id NodeID, p SignalProvider) {
	if p == nil {
		delete(e.providers, id)
		return
	}
	e.providers[id] = p
}

// SetGroupEnabled enables or disables a node group. Nodes in a disabled
// group are skipped entirely during rendering.
func (e *Engine) SetGroupEnabled(group string, enabled bool) {
	if enabled {
		delete(e.disabledGroups, group)
	} else {
		e.disabledGroups[group] = true
	}
}

// Do marshals a graph edit onto the frame-loop goroutine. The function
// runs at the start of the next Step, before the modulation pass. Safe to
// call from any goroutine.
func (e *Engine) Do(fn func(*Engine)) {
	e.pendingMu.Lock()
	e.pending = append(e.pending, fn)
	e.pendingMu.Unlock()
}

// Step renders one frame at the given elapsed time.
//
// Order within the frame: device recovery, marshaled edits, resource
// reconciliation, modulation pass, schedule, per-node render passes. A
// failing node is contained: it is logged and skipped, and unrelated
// nodes keep rendering. Call Composite or PresentTo afterwards to emit
// the frame.
func (e *Engine) Step(elapsed time.Duration) error {
	// Context loss is fatal for the frame: discard it, restore the device
	// and reallocate everything before the next frame proceeds.
	if e.dev.Lost() {
		vlog.Logger().Warn("device context lost, discarding frame")
		if err := e.dev.Restore(); err != nil {
			return fmt.Errorf("vgraph: device restore: %w", err)
		}
		e.res.Invalidate()
		if err := e.res.Recover(); err != nil {
			return fmt.Errorf("vgraph: resource recovery: %w", err)
		}
		return nil
	}

	e.runPending()
	e.reconcileResources()

	e.mod.Apply(e.graph, e.controlValues())

	order := Schedule(e.graph)
	ctx := &render.Context{
		Time:   elapsed.Seconds(),
		Width:  e.width,
		Height: e.height,
	}

	for _, id := range order {
		n := e.graph.Node(id)
		if n == nil || !n.enabled {
			continue
		}
		if n.group != "" && e.disabledGroups[n.group] {
			continue
		}
		e.renderOne(ctx, n)
	}
	return nil
}

// Composite copies the output node's connected texture into dst, scaling
// if needed. This is the final, separate pass run outside the main
// schedule.
func (e *Engine) Composite(dst *image.RGBA) error {
	return e.comp.CopyToImage(e.res, int(e.graph.OutputSource()), dst)
}

// PresentTo blits the output node's connected texture into a device
// target (typically a window surface).
func (e *Engine) PresentTo(dst render.Target) error {
	return e.comp.Present(e.res, int(e.graph.OutputSource()), dst)
}

// Resources exposes the resource manager, mainly for tests and tooling.
func (e *Engine) Resources() *render.Resources { return e.res }

func (e *Engine) runPending() {
	e.pendingMu.Lock()
	fns := e.pending
	e.pending = nil
	e.pendingMu.Unlock()
	for _, fn := range fns {
		fn(e)
	}
}

// reconcileResources releases resources of deleted nodes and guarantees
// a render target for every live texture node.
func (e *Engine) reconcileResources() {
	keep := make(map[int]bool, e.graph.Len())
	e.graph.Nodes(func(n *Node) {
		if n.kind.Describe().RendersTexture() {
			keep[int(n.id)] = true
		}
	})
	e.res.Forget(keep)
	for id := range keep {
		// Failure falls back to the shared texture; already logged.
		_ = e.res.Ensure(id)
	}
}

// controlValues samples every control-input node: the provider's raw
// normalized value, clamped to [0,1], remapped into the node's configured
// [min,max] output range.
func (e *Engine) controlValues() map[NodeID]float64 {
	values := make(map[NodeID]float64)
	e.graph.Nodes(func(n *Node) {
		if n.Category() != CategoryInput || !n.enabled {
			return
		}
		raw := 0.0
		if p := e.providers[n.id]; p != nil {
			raw = p.CurrentValue()
		}
		if raw < 0 {
			raw = 0
		} else if raw > 1 {
			raw = 1
		}
		lo := n.Param("min").Float64()
		hi := n.Param("max").Float64()
		values[n.id] = lo + raw*(hi-lo)
	})
	return values
}

// renderOne executes a single node's pass, containing any failure to the
// node.
func (e *Engine) renderOne(ctx *render.Context, n *Node) {
	pass := &render.NodePass{
		Node:     int(n.id),
		Program:  e.programFor(n.kind),
		Uniforms: e.buildUniforms(n),
		Inputs:   inputIDs(n),
	}
	if _, err := e.renderer.RenderNode(ctx, pass); err != nil {
		vlog.Logger().Warn("node render failed, continuing frame",
			"node", int(n.id), "kind", n.kind.String(), "err", err)
	}
}

// programFor returns the kind's compiled program, compiling on first use.
// A compile or link failure substitutes the animated fallback program so
// the node still produces a valid texture and the graph keeps rendering.
func (e *Engine) programFor(kind Kind) render.Program {
	if p, ok := e.programs[kind]; ok {
		return p
	}
	src := kind.Describe().Program
	if src == nil {
		e.programs[kind] = e.fallback
		return e.fallback
	}
	p, err := e.dev.NewProgram(*src)
	if err != nil {
		vlog.Logger().Warn("program compilation failed, substituting fallback",
			"kind", kind.String(), "err", err)
		p = e.fallback
	}
	e.programs[kind] = p
	return p
}

// buildUniforms converts the node's parameters into type-directed uniform
// writes: numerics as floats (angles converted degrees to radians),
// booleans as 0/1 integers, colors as vec3, enums as their fixed integer
// code. Uniform names come from the kind descriptor's single construction
// point; names a shader variant does not declare are ignored by the
// device.
func (e *Engine) buildUniforms(n *Node) map[string]render.Uniform {
	d := n.kind.Describe()
	out := make(map[string]render.Uniform, len(n.params)+4)
	for name, v := range n.params {
		uname := d.UniformFor(name)
		switch v.Kind() {
		case ValueFloat:
			if d.Angles[name] {
				out[uname] = render.AngleUniform(v.Float64())
			} else {
				out[uname] = render.FloatUniform(v.Float64())
			}
		case ValueInt:
			out[uname] = render.IntUniform(v.Int())
		case ValueBool:
			out[uname] = render.BoolUniform(v.Bool())
		case ValueEnum:
			code := d.Params[name].EnumIndex(v.Enum())
			if code < 0 {
				code = 0
			}
			out[uname] = render.IntUniform(code)
		case ValueColor:
			out[uname] = render.Vec3Uniform(v.Color().Vec3())
		}
	}
	return out
}

func inputIDs(n *Node) []int {
	out := make([]int, len(n.inputs))
	for i, src := range n.inputs {
		out[i] = int(src)
	}
	return out
}
