package vgraph

import (
	"fmt"

	"github.com/gogpu/vgraph/internal/vlog"
)

// Graph is the node collection and its implicit edges. Any input slot or
// control-input slot holding a node id constitutes a directed edge from
// the referenced node to the holder; there is no separate edge entity.
//
// A Graph always contains the singleton terminal output node, created
// with the graph and never deletable. The output node is excluded from
// the main dependency-ordered schedule; the compositor handles it in a
// separate pass.
//
// Graph is mutated only from the frame-loop goroutine; external edits are
// marshaled through Engine.Do.
type Graph struct {
	nodes  map[NodeID]*Node
	order  []NodeID // insertion order, the schedule tie-break
	nextID NodeID
	output NodeID
}

// NewGraph creates a graph holding only the terminal output node.
func NewGraph() *Graph {
	g := &Graph{
		nodes:  make(map[NodeID]*Node),
		nextID: 1,
	}
	out := NewNode(KindOutput)
	g.output = g.Add(out)
	return g
}

// Add inserts a node, assigns its stable id and returns it.
func (g *Graph) Add(n *Node) NodeID {
	id := g.nextID
	g.nextID++
	n.id = id
	g.nodes[id] = n
	g.order = append(g.order, id)
	return id
}

// Node resolves an id, or nil for unknown/deleted ids. Slot references
// resolve through here, so a dangling id reads as an empty slot.
func (g *Graph) Node(id NodeID) *Node {
	return g.nodes[id]
}

// Output returns the id of the terminal output node.
func (g *Graph) Output() NodeID { return g.output }

// OutputSource returns the id of the node connected to the output node's
// single input slot, or 0.
func (g *Graph) OutputSource() NodeID {
	return g.nodes[g.output].Input(0)
}

// Len returns the number of nodes, including the output node.
func (g *Graph) Len() int { return len(g.nodes) }

// Nodes calls fn for every node in insertion order.
func (g *Graph) Nodes(fn func(*Node)) {
	for _, id := range g.order {
		if n := g.nodes[id]; n != nil {
			fn(n)
		}
	}
}

// Remove deletes a node and scrubs every input and control-input slot
// across all other nodes that references it, so no dangling references
// survive deletion. Removing the output node returns ErrOutputNode;
// removing an unknown id is a no-op. The caller releases the node's GPU
// resources (Engine does this on the next frame).
func (g *Graph) Remove(id NodeID) error {
	if id == g.output {
		return ErrOutputNode
	}
	if _, ok := g.nodes[id]; !ok {
		return nil
	}
	delete(g.nodes, id)
	for i, oid := range g.order {
		if oid == id {
			g.order = append(g.order[:i], g.order[i+1:]...)
			break
		}
	}
	for _, n := range g.nodes {
		for i, src := range n.inputs {
			if src == id {
				n.inputs[i] = 0
			}
		}
		for i, src := range n.controls {
			if src == id {
				n.controls[i] = 0
			}
		}
	}
	return nil
}

// Connect wires source's texture output into target's input slot. The
// source must be a texture-producing node; input-category nodes drive
// control slots, never texture slots. Direct self-reference is rejected
// at connection time with a logged warning; indirect cycles are allowed
// here and neutralized per frame by the render engine's feedback check.
// Pass source 0 to clear the slot.
func (g *Graph) Connect(target NodeID, slot int, source NodeID) error {
	t := g.nodes[target]
	if t == nil {
		return fmt.Errorf("%w: target %d", ErrNodeNotFound, target)
	}
	if slot < 0 || slot >= len(t.inputs) {
		return fmt.Errorf("%w: slot %d of %s", ErrSlotOutOfRange, slot, t.kind)
	}
	if source == target {
		vlog.Logger().Warn("rejecting direct self-connection",
			"node", int(target), "slot", slot)
		return ErrSelfReference
	}
	if source != 0 {
		s := g.nodes[source]
		if s == nil {
			return fmt.Errorf("%w: source %d", ErrNodeNotFound, source)
		}
		if !s.kind.Describe().RendersTexture() {
			return fmt.Errorf("vgraph: texture slot requires a texture-producing node, got %s", s.kind)
		}
	}
	t.inputs[slot] = source
	return nil
}

// ConnectControl wires a control-input node into target's control slot.
// The referenced node must be of category input; slot i drives the
// parameter named by the target kind's ControlTargets[i].
func (g *Graph) ConnectControl(target NodeID, slot int, source NodeID) error {
	t := g.nodes[target]
	if t == nil {
		return fmt.Errorf("%w: target %d", ErrNodeNotFound, target)
	}
	if slot < 0 || slot >= len(t.controls) {
		return fmt.Errorf("%w: control slot %d of %s", ErrSlotOutOfRange, slot, t.kind)
	}
	if source == target {
		vlog.Logger().Warn("rejecting direct self-connection",
			"node", int(target), "slot", slot)
		return ErrSelfReference
	}
	if source != 0 {
		s := g.nodes[source]
		if s == nil {
			return fmt.Errorf("%w: source %d", ErrNodeNotFound, source)
		}
		if s.Category() != CategoryInput {
			return fmt.Errorf("vgraph: control slot requires an input-category node, got %s", s.kind)
		}
	}
	t.controls[slot] = source
	return nil
}

// ConnectOutput wires a node into the terminal output node's single input
// slot. The source must be a texture-producing node. Pass 0 to blank the
// display.
func (g *Graph) ConnectOutput(source NodeID) error {
	if source == g.output {
		vlog.Logger().Warn("rejecting direct self-connection",
			"node", int(g.output), "slot", 0)
		return ErrSelfReference
	}
	if source != 0 {
		s := g.nodes[source]
		if s == nil {
			return fmt.Errorf("%w: source %d", ErrNodeNotFound, source)
		}
		if !s.kind.Describe().RendersTexture() {
			return fmt.Errorf("vgraph: texture slot requires a texture-producing node, got %s", s.kind)
		}
	}
	g.nodes[g.output].inputs[0] = source
	return nil
}

// Dependencies returns the set of nodes the given node references one
// level deep, following both input and control-input slots.
func (g *Graph) Dependencies(id NodeID) []NodeID {
	n := g.nodes[id]
	if n == nil {
		return nil
	}
	seen := make(map[NodeID]bool)
	var out []NodeID
	for _, src := range n.inputs {
		if src != 0 && g.nodes[src] != nil && !seen[src] {
			seen[src] = true
			out = append(out, src)
		}
	}
	for _, src := range n.controls {
		if src != 0 && g.nodes[src] != nil && !seen[src] {
			seen[src] = true
			out = append(out, src)
		}
	}
	return out
}

// Dependents returns every node whose input or control-input slots
// reference the given node. Used for main-output eligibility and UI
// feedback.
func (g *Graph) Dependents(id NodeID) []NodeID {
	var out []NodeID
	for _, oid := range g.order {
		n := g.nodes[oid]
		if n == nil {
			continue
		}
		found := false
		for _, src := range n.inputs {
			if src == id {
				found = true
				break
			}
		}
		if !found {
			for _, src := range n.controls {
				if src == id {
					found = true
					break
				}
			}
		}
		if found {
			out = append(out, oid)
		}
	}
	return out
}
