package vgraph

import (
	"math"

	"github.com/gogpu/vgraph/internal/vlog"
)

// scaleFunc maps a normalized control value into a parameter value.
type scaleFunc func(v float64) Value

func linearScale(lo, hi float64) scaleFunc {
	return func(v float64) Value {
		return Float(lo + v*(hi-lo))
	}
}

// quantizedScale maps 0..1 to floor(v*n)+1, clamped to the ceiling n.
func quantizedScale(n int) scaleFunc {
	return func(v float64) Value {
		q := int(math.Floor(v*float64(n))) + 1
		if q > n {
			q = n
		}
		if q < 1 {
			q = 1
		}
		return Int(q)
	}
}

// modulationScale is the fixed per-parameter-name scaling table. Different
// parameters have different natural ranges, so a control value of 1.0
// means 360 degrees on rotation but 3x on scale. The table is part of the
// observable behavior; entries must not be "fixed" to a uniform map.
//
// Enum-valued parameters are not listed: they scale generically to
// floor(v*count), clamped to the last valid index. Parameters with no
// entry and no enum type are a gap: they are logged once and left
// untouched rather than given a guessed scaling.
var modulationScale = map[string]scaleFunc{
	"rotation":  linearScale(0, 360), // angular: degrees
	"posX":      linearScale(-1, 1),  // signed offset
	"posY":      linearScale(-1, 1),
	"scaleX":    linearScale(0, 3), // multiplicative
	"scaleY":    linearScale(0, 3),
	"frequency": linearScale(0, 50), // frequency-like
	"speed":     linearScale(0, 50),
	"opacity":   linearScale(0, 1),
	"slices":    quantizedScale(10), // discrete
}

// Modulator applies the per-frame control modulation pass: for every node
// with populated control-input slots, the referenced control node's
// current value rewrites the slot's target parameter through the scaling
// table. The pass runs before the render pass, never interleaved with it,
// and is the authoritative writer for modulated parameters within a
// frame.
type Modulator struct {
	// unmapped records parameter names already reported as scaling gaps,
	// so each gap is logged once, not per frame.
	unmapped map[string]bool
}

// NewModulator creates a modulation engine.
func NewModulator() *Modulator {
	return &Modulator{unmapped: make(map[string]bool)}
}

// Apply runs one modulation pass. values holds each control-input node's
// current value for this frame, already remapped into the control node's
// configured [min,max] range.
func (m *Modulator) Apply(g *Graph, values map[NodeID]float64) {
	for _, id := range g.order {
		n := g.nodes[id]
		if n == nil {
			continue
		}
		targets := n.kind.Describe().ControlTargets
		for slot, src := range n.controls {
			if src == 0 || slot >= len(targets) {
				continue
			}
			v, ok := values[src]
			if !ok {
				continue
			}
			m.write(n, targets[slot], v)
		}
	}
}

// write scales v for the named parameter and stores it through the
// node's validated parameter write.
func (m *Modulator) write(n *Node, param string, v float64) {
	spec, ok := n.kind.Describe().Params[param]
	if !ok {
		return
	}

	if spec.Kind == ValueEnum {
		count := len(spec.Allowed)
		if count == 0 {
			return
		}
		idx := int(math.Floor(v * float64(count)))
		if idx >= count {
			idx = count - 1
		}
		if idx < 0 {
			idx = 0
		}
		n.SetParam(param, Enum(spec.Allowed[idx]))
		return
	}

	scale, ok := modulationScale[param]
	if !ok {
		if !m.unmapped[param] {
			m.unmapped[param] = true
			vlog.Logger().Warn("parameter has no modulation scaling rule, leaving untouched",
				"param", param, "kind", n.kind.String())
		}
		return
	}
	n.SetParam(param, scale(v))
}
