package vgraph

import (
	"math/rand"
	"testing"
)

func indexOf(order []NodeID, id NodeID) int {
	for i, v := range order {
		if v == id {
			return i
		}
	}
	return -1
}

func TestScheduleDependencyOrder(t *testing.T) {
	g := NewGraph()
	src := g.Add(NewNode(KindSolid))
	x1 := g.Add(NewNode(KindTransform))
	x2 := g.Add(NewNode(KindTransform))
	blend := g.Add(NewNode(KindBlend))

	// src -> x1 -> blend, src -> x2 -> blend
	if err := g.Connect(x1, 0, src); err != nil {
		t.Fatal(err)
	}
	if err := g.Connect(x2, 0, src); err != nil {
		t.Fatal(err)
	}
	if err := g.Connect(blend, 0, x1); err != nil {
		t.Fatal(err)
	}
	if err := g.Connect(blend, 1, x2); err != nil {
		t.Fatal(err)
	}
	if err := g.ConnectOutput(blend); err != nil {
		t.Fatal(err)
	}

	order := Schedule(g)
	if len(order) != 4 {
		t.Fatalf("schedule %v, want 4 texture nodes", order)
	}
	for _, pair := range [][2]NodeID{{src, x1}, {src, x2}, {x1, blend}, {x2, blend}} {
		if indexOf(order, pair[0]) > indexOf(order, pair[1]) {
			t.Errorf("node %v scheduled after its dependent %v: %v", pair[0], pair[1], order)
		}
	}
}

func TestScheduleExcludesControlAndOutputNodes(t *testing.T) {
	g := NewGraph()
	src := g.Add(NewNode(KindSolid))
	lfo := g.Add(NewNode(KindLFO))
	x := g.Add(NewNode(KindTransform))
	if err := g.Connect(x, 0, src); err != nil {
		t.Fatal(err)
	}
	if err := g.ConnectControl(x, 0, lfo); err != nil {
		t.Fatal(err)
	}
	if err := g.ConnectOutput(x); err != nil {
		t.Fatal(err)
	}

	order := Schedule(g)
	if indexOf(order, lfo) != -1 {
		t.Errorf("control node in schedule: %v", order)
	}
	if indexOf(order, g.Output()) != -1 {
		t.Errorf("output node in schedule: %v", order)
	}
	if len(order) != 2 {
		t.Errorf("schedule %v, want exactly the two texture nodes", order)
	}
}

func TestScheduleCycleTerminates(t *testing.T) {
	t.Run("two node cycle", func(t *testing.T) {
		g := NewGraph()
		a := g.Add(NewNode(KindTransform))
		b := g.Add(NewNode(KindTransform))
		if err := g.Connect(a, 0, b); err != nil {
			t.Fatal(err)
		}
		if err := g.Connect(b, 0, a); err != nil {
			t.Fatal(err)
		}

		order := Schedule(g) // must terminate
		if len(order) != 2 {
			t.Fatalf("schedule %v, want both nodes exactly once", order)
		}
		if indexOf(order, a) == -1 || indexOf(order, b) == -1 {
			t.Errorf("cycle member missing from schedule: %v", order)
		}
	})

	t.Run("cycle upstream of a chain", func(t *testing.T) {
		g := NewGraph()
		a := g.Add(NewNode(KindTransform))
		b := g.Add(NewNode(KindTransform))
		tail := g.Add(NewNode(KindTransform))
		if err := g.Connect(a, 0, b); err != nil {
			t.Fatal(err)
		}
		if err := g.Connect(b, 0, a); err != nil {
			t.Fatal(err)
		}
		if err := g.Connect(tail, 0, a); err != nil {
			t.Fatal(err)
		}

		order := Schedule(g)
		if len(order) != 3 {
			t.Fatalf("schedule %v, want 3 nodes", order)
		}
		if indexOf(order, a) > indexOf(order, tail) {
			t.Errorf("tail scheduled before its input: %v", order)
		}
	})
}

// TestScheduleRandomDAG builds random acyclic graphs and verifies the
// dependency-before-dependent property holds for every edge.
func TestScheduleRandomDAG(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	for trial := 0; trial < 50; trial++ {
		g := NewGraph()
		var ids []NodeID
		n := 3 + rng.Intn(12)
		for i := 0; i < n; i++ {
			kind := KindSolid
			if i > 0 {
				if rng.Intn(2) == 0 {
					kind = KindTransform
				} else {
					kind = KindBlend
				}
			}
			ids = append(ids, g.Add(NewNode(kind)))
		}

		// Wire slots only to earlier nodes so the graph stays acyclic.
		for i, id := range ids {
			node := g.Node(id)
			for slot := 0; slot < len(node.Inputs()); slot++ {
				if i == 0 || rng.Intn(3) == 0 {
					continue
				}
				src := ids[rng.Intn(i)]
				if err := g.Connect(id, slot, src); err != nil {
					t.Fatalf("trial %d: Connect: %v", trial, err)
				}
			}
		}

		order := Schedule(g)
		if len(order) != n {
			t.Fatalf("trial %d: schedule has %d entries, want %d", trial, len(order), n)
		}
		for _, id := range ids {
			for _, src := range g.Node(id).Inputs() {
				if src == 0 {
					continue
				}
				if indexOf(order, src) > indexOf(order, id) {
					t.Fatalf("trial %d: %v scheduled after dependent %v", trial, src, id)
				}
			}
		}
	}
}
