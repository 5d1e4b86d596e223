package vgraph

import (
	"encoding/json"
	"fmt"

	"github.com/gogpu/vgraph/internal/vlog"
)

// NodeSnapshot is the serialized form of one node. Slot references are
// ids; resolution on load tolerates dangling ids by treating them as
// empty slots.
type NodeSnapshot struct {
	ID       NodeID         `json:"id"`
	Type     string         `json:"type"`
	Enabled  bool           `json:"enabled"`
	Group    string         `json:"group,omitempty"`
	Params   map[string]any `json:"params,omitempty"`
	Inputs   []NodeID       `json:"inputs,omitempty"`
	Controls []NodeID       `json:"controls,omitempty"`
}

// Snapshot is a serializable graph state: every non-output node plus the
// id connected to the terminal output. It is the persistence and sharing
// surface of the core.
type Snapshot struct {
	Nodes  []NodeSnapshot `json:"nodes"`
	Output NodeID         `json:"output"`
}

// Snapshot captures the graph's current state.
func (g *Graph) Snapshot() Snapshot {
	s := Snapshot{Output: g.OutputSource()}
	for _, id := range g.order {
		n := g.nodes[id]
		if n == nil || id == g.output {
			continue
		}
		ns := NodeSnapshot{
			ID:      n.id,
			Type:    n.kind.String(),
			Enabled: n.enabled,
			Group:   n.group,
			Params:  make(map[string]any, len(n.params)),
		}
		for name, v := range n.params {
			ns.Params[name] = paramToJSON(v)
		}
		if len(n.inputs) > 0 {
			ns.Inputs = append([]NodeID(nil), n.inputs...)
		}
		if len(n.controls) > 0 {
			ns.Controls = append([]NodeID(nil), n.controls...)
		}
		s.Nodes = append(s.Nodes, ns)
	}
	return s
}

// MarshalJSON on Snapshot uses the default encoding; this helper exists
// for symmetry with LoadSnapshot.
func (s Snapshot) Encode() ([]byte, error) {
	return json.Marshal(s)
}

// DecodeSnapshot parses snapshot JSON.
func DecodeSnapshot(data []byte) (Snapshot, error) {
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return Snapshot{}, fmt.Errorf("vgraph: decode snapshot: %w", err)
	}
	return s, nil
}

// RestoreGraph rebuilds a graph from a snapshot. Node ids are preserved.
// Unknown kinds skip the node with a warning; slot references to ids that
// do not survive the load resolve to empty slots rather than failing the
// whole load.
func RestoreGraph(s Snapshot) *Graph {
	g := NewGraph()

	// First pass: create nodes so every id is resolvable.
	maxID := g.output
	for _, ns := range s.Nodes {
		kind, err := ParseKind(ns.Type)
		if err != nil {
			vlog.Logger().Warn("snapshot names unknown node kind, skipping node",
				"id", int(ns.ID), "type", ns.Type)
			continue
		}
		if ns.ID == 0 || ns.ID == g.output || g.nodes[ns.ID] != nil {
			vlog.Logger().Warn("snapshot node id conflicts, skipping node",
				"id", int(ns.ID), "type", ns.Type)
			continue
		}
		n := NewNode(kind)
		n.id = ns.ID
		n.enabled = ns.Enabled
		n.group = ns.Group
		g.nodes[ns.ID] = n
		g.order = append(g.order, ns.ID)
		if ns.ID > maxID {
			maxID = ns.ID
		}
	}
	g.nextID = maxID + 1

	// Second pass: parameters and slot references.
	for _, ns := range s.Nodes {
		n := g.nodes[ns.ID]
		if n == nil {
			continue
		}
		specs := n.kind.Describe().Params
		for name, raw := range ns.Params {
			spec, ok := specs[name]
			if !ok {
				continue
			}
			n.SetParam(name, paramFromJSON(spec, raw))
		}
		for slot, src := range ns.Inputs {
			if slot >= len(n.inputs) {
				break
			}
			if src != 0 && g.nodes[src] == nil {
				vlog.Logger().Warn("snapshot slot references missing node, treating as empty",
					"node", int(ns.ID), "slot", slot, "source", int(src))
				src = 0
			}
			if src == ns.ID {
				src = 0
			}
			n.inputs[slot] = src
		}
		for slot, src := range ns.Controls {
			if slot >= len(n.controls) {
				break
			}
			if src == ns.ID || (src != 0 && g.nodes[src] == nil) {
				src = 0
			}
			n.controls[slot] = src
		}
	}

	if s.Output != 0 && g.nodes[s.Output] != nil {
		g.nodes[g.output].inputs[0] = s.Output
	}
	return g
}

// paramToJSON converts a value to its JSON shape: numbers for float/int,
// bool for bool, the enum string, and "#rrggbb" for colors.
func paramToJSON(v Value) any {
	switch v.Kind() {
	case ValueFloat:
		return v.Float64()
	case ValueInt:
		return v.Int()
	case ValueBool:
		return v.Bool()
	case ValueEnum:
		return v.Enum()
	case ValueColor:
		return v.Color().HexString()
	default:
		return nil
	}
}

// paramFromJSON interprets a decoded JSON value against the parameter's
// spec. Mismatched shapes fall through to the spec default via Clamp.
func paramFromJSON(spec ParamSpec, raw any) Value {
	switch spec.Kind {
	case ValueFloat:
		if f, ok := raw.(float64); ok {
			return Float(f)
		}
	case ValueInt:
		if f, ok := raw.(float64); ok {
			return Float(f) // Clamp rounds to int
		}
	case ValueBool:
		if b, ok := raw.(bool); ok {
			return Bool(b)
		}
	case ValueEnum:
		if s, ok := raw.(string); ok {
			return Enum(s)
		}
	case ValueColor:
		if s, ok := raw.(string); ok {
			return ColorValue(Hex(s))
		}
	}
	return spec.Default
}
