package vgraph

import (
	"github.com/gogpu/vgraph/internal/vlog"
)

// mark is the traversal state of a node during scheduling.
type mark int

const (
	unvisited mark = iota
	inProgress
	done
)

// Schedule computes a linear evaluation order over the graph such that
// every node appears after all nodes reachable through its texture input
// slots. Control-input slots do not order: control inputs are sampled as
// scalars, not rendered.
//
// The traversal is depth-first post-order from every node in insertion
// order, so nodes with no interdependency keep a stable, reproducible
// order for a fixed graph. Encountering an in-progress node signals a
// cycle: the cycle is logged and the branch returns without adding the
// cycling node twice. The connection is not removed; the render engine's
// per-frame feedback check neutralizes it, so a user-created cycle
// degrades to stale or fallback input instead of crashing.
//
// The terminal output node is excluded entirely; the compositor handles
// it in a separate pass.
func Schedule(g *Graph) []NodeID {
	marks := make(map[NodeID]mark, len(g.nodes))
	order := make([]NodeID, 0, len(g.nodes))

	var visit func(id NodeID)
	visit = func(id NodeID) {
		n := g.nodes[id]
		if n == nil || id == g.output {
			return
		}
		switch marks[id] {
		case done:
			return
		case inProgress:
			vlog.Logger().Warn("cycle detected in node graph, breaking traversal",
				"node", int(id), "kind", n.kind.String())
			return
		}
		marks[id] = inProgress
		for _, src := range n.inputs {
			if src != 0 {
				visit(src)
			}
		}
		marks[id] = done
		if n.kind.Describe().RendersTexture() {
			order = append(order, id)
		}
	}

	for _, id := range g.order {
		visit(id)
	}
	return order
}
