package vgraph

import (
	"github.com/gogpu/vgraph/internal/vlog"
)

// NodeID is a stable integer node identity. Slots hold NodeIDs, not
// pointers: references are weak and resolved through the Graph registry,
// so a deleted node can never leave a dangling handle behind. The zero id
// means "no connection".
type NodeID int

// Node is one unit of the visual-processing graph.
//
// A node's texture input slots and control-input slots hold weak
// references to other nodes by id. Its parameter map is validated on
// every write through the kind's ParamSpec; violations clamp, never
// error. GPU resources are owned per node through the render.Resources
// manager keyed by the node id, not stored here.
type Node struct {
	id       NodeID
	kind     Kind
	enabled  bool
	group    string
	inputs   []NodeID
	controls []NodeID
	params   map[string]Value
}

// NewNode creates a detached node of the given kind with default
// parameters and empty slots. Add it to a Graph to assign its id.
func NewNode(kind Kind) *Node {
	d := kind.Describe()
	if d == nil {
		d = descriptors[KindSolid]
		kind = KindSolid
	}
	n := &Node{
		kind:     kind,
		enabled:  true,
		inputs:   make([]NodeID, d.InputSlots),
		controls: make([]NodeID, len(d.ControlTargets)),
		params:   make(map[string]Value, len(d.Params)),
	}
	for name, spec := range d.Params {
		n.params[name] = spec.Default
	}
	return n
}

// ID returns the node's stable id, or 0 if the node has not been added to
// a graph.
func (n *Node) ID() NodeID { return n.id }

// Kind returns the node's type tag.
func (n *Node) Kind() Kind { return n.kind }

// Describe returns the node kind's static descriptor.
func (n *Node) Describe() *Descriptor { return n.kind.Describe() }

// Category returns the node's category.
func (n *Node) Category() Category { return n.kind.Describe().Category }

// Enabled reports whether the node participates in rendering.
func (n *Node) Enabled() bool { return n.enabled }

// SetEnabled sets the node's enabled flag.
func (n *Node) SetEnabled(v bool) { n.enabled = v }

// Group returns the node's group name, or "" for ungrouped nodes.
func (n *Node) Group() string { return n.group }

// SetGroup assigns the node to a group. Disabling a group skips every
// node in it.
func (n *Node) SetGroup(g string) { n.group = g }

// Inputs returns the node's texture input slots. The returned slice is
// the node's own; treat it as read-only.
func (n *Node) Inputs() []NodeID { return n.inputs }

// Controls returns the node's control-input slots. Slot i drives the
// parameter named by the descriptor's ControlTargets[i].
func (n *Node) Controls() []NodeID { return n.controls }

// Input returns the source node id in the given input slot, or 0.
func (n *Node) Input(slot int) NodeID {
	if slot < 0 || slot >= len(n.inputs) {
		return 0
	}
	return n.inputs[slot]
}

// Param returns the named parameter value. Unknown names return the zero
// Value.
func (n *Node) Param(name string) Value {
	return n.params[name]
}

// Params returns the node's parameter map. Treat it as read-only; use
// SetParam for writes so every write passes validation.
func (n *Node) Params() map[string]Value { return n.params }

// SetParam writes a parameter through the kind's constraint. Out-of-range
// numeric values clamp; invalid enum values fall back to the declared
// default; writes to undeclared parameters are dropped. Every writer (UI,
// snapshot load, modulation engine) goes through here.
func (n *Node) SetParam(name string, v Value) {
	spec, ok := n.kind.Describe().Params[name]
	if !ok {
		vlog.Logger().Warn("write to undeclared parameter dropped",
			"node", int(n.id), "kind", n.kind.String(), "param", name)
		return
	}
	corrected, clamped := spec.Clamp(v)
	if clamped {
		vlog.Logger().Warn("parameter value corrected to constraint",
			"node", int(n.id), "param", name,
			"wrote", v.String(), "stored", corrected.String())
	}
	n.params[name] = corrected
}
