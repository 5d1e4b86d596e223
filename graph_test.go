package vgraph

import (
	"errors"
	"testing"
)

func TestGraphHasOutputSingleton(t *testing.T) {
	g := NewGraph()
	out := g.Node(g.Output())
	if out == nil || out.Kind() != KindOutput {
		t.Fatal("new graph is missing the output node")
	}
	if g.Len() != 1 {
		t.Errorf("Len = %d, want 1", g.Len())
	}

	// The output node is not deletable.
	if err := g.Remove(g.Output()); !errors.Is(err, ErrOutputNode) {
		t.Errorf("Remove(output) = %v, want ErrOutputNode", err)
	}
	if g.Node(g.Output()) == nil {
		t.Error("output node was removed")
	}
}

func TestGraphConnect(t *testing.T) {
	g := NewGraph()
	src := g.Add(NewNode(KindSolid))
	dst := g.Add(NewNode(KindTransform))

	if err := g.Connect(dst, 0, src); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	if got := g.Node(dst).Input(0); got != src {
		t.Errorf("input slot = %v, want %v", got, src)
	}

	t.Run("self reference rejected", func(t *testing.T) {
		if err := g.Connect(dst, 0, dst); !errors.Is(err, ErrSelfReference) {
			t.Errorf("self-connect = %v, want ErrSelfReference", err)
		}
	})

	t.Run("slot out of range", func(t *testing.T) {
		if err := g.Connect(dst, 5, src); !errors.Is(err, ErrSlotOutOfRange) {
			t.Errorf("bad slot = %v, want ErrSlotOutOfRange", err)
		}
	})

	t.Run("unknown nodes rejected", func(t *testing.T) {
		if err := g.Connect(999, 0, src); !errors.Is(err, ErrNodeNotFound) {
			t.Errorf("unknown target = %v, want ErrNodeNotFound", err)
		}
		if err := g.Connect(dst, 0, 999); !errors.Is(err, ErrNodeNotFound) {
			t.Errorf("unknown source = %v, want ErrNodeNotFound", err)
		}
	})

	t.Run("zero clears the slot", func(t *testing.T) {
		if err := g.Connect(dst, 0, 0); err != nil {
			t.Fatalf("clear: %v", err)
		}
		if got := g.Node(dst).Input(0); got != 0 {
			t.Errorf("slot = %v, want 0", got)
		}
	})

	// Only texture-producing nodes can feed texture slots; control inputs
	// and the output node have no texture to sample.
	t.Run("input-category source rejected", func(t *testing.T) {
		lfo := g.Add(NewNode(KindLFO))
		if err := g.Connect(dst, 0, lfo); err == nil {
			t.Error("control node accepted as texture source")
		}
		if got := g.Node(dst).Input(0); got != 0 {
			t.Errorf("slot written despite rejection: %v", got)
		}
		if err := g.ConnectOutput(lfo); err == nil {
			t.Error("control node accepted as output source")
		}
	})

	t.Run("output node rejected as source", func(t *testing.T) {
		if err := g.Connect(dst, 0, g.Output()); err == nil {
			t.Error("output node accepted as texture source")
		}
	})
}

func TestGraphConnectControl(t *testing.T) {
	g := NewGraph()
	lfo := g.Add(NewNode(KindLFO))
	solid := g.Add(NewNode(KindSolid))
	xform := g.Add(NewNode(KindTransform))

	if err := g.ConnectControl(xform, 0, lfo); err != nil {
		t.Fatalf("ConnectControl: %v", err)
	}
	if got := g.Node(xform).Controls()[0]; got != lfo {
		t.Errorf("control slot = %v, want %v", got, lfo)
	}

	// Only input-category nodes can drive control slots.
	if err := g.ConnectControl(xform, 1, solid); err == nil {
		t.Error("texture node accepted as control source")
	}
}

func TestGraphRemoveScrubsReferences(t *testing.T) {
	g := NewGraph()
	src := g.Add(NewNode(KindSolid))
	lfo := g.Add(NewNode(KindLFO))
	xform := g.Add(NewNode(KindTransform))
	blend := g.Add(NewNode(KindBlend))

	if err := g.Connect(xform, 0, src); err != nil {
		t.Fatal(err)
	}
	if err := g.Connect(blend, 0, src); err != nil {
		t.Fatal(err)
	}
	if err := g.Connect(blend, 1, xform); err != nil {
		t.Fatal(err)
	}
	if err := g.ConnectControl(xform, 0, lfo); err != nil {
		t.Fatal(err)
	}
	if err := g.ConnectOutput(blend); err != nil {
		t.Fatal(err)
	}

	if err := g.Remove(src); err != nil {
		t.Fatalf("Remove(src): %v", err)
	}
	if err := g.Remove(lfo); err != nil {
		t.Fatalf("Remove(lfo): %v", err)
	}

	if g.Node(src) != nil {
		t.Error("removed node still resolvable")
	}
	if got := g.Node(xform).Input(0); got != 0 {
		t.Errorf("transform input not scrubbed: %v", got)
	}
	if got := g.Node(blend).Input(0); got != 0 {
		t.Errorf("blend input not scrubbed: %v", got)
	}
	if got := g.Node(xform).Controls()[0]; got != 0 {
		t.Errorf("control slot not scrubbed: %v", got)
	}
	// Unrelated edge survives.
	if got := g.Node(blend).Input(1); got != xform {
		t.Errorf("unrelated edge lost: %v", got)
	}
	if got := g.OutputSource(); got != blend {
		t.Errorf("output source lost: %v", got)
	}

	// Removing an unknown id is a no-op.
	if err := g.Remove(999); err != nil {
		t.Errorf("Remove(unknown) = %v, want nil", err)
	}
}

func TestGraphDependencies(t *testing.T) {
	g := NewGraph()
	a := g.Add(NewNode(KindSolid))
	lfo := g.Add(NewNode(KindLFO))
	x := g.Add(NewNode(KindTransform))

	if err := g.Connect(x, 0, a); err != nil {
		t.Fatal(err)
	}
	if err := g.ConnectControl(x, 0, lfo); err != nil {
		t.Fatal(err)
	}

	deps := g.Dependencies(x)
	if len(deps) != 2 {
		t.Fatalf("Dependencies = %v, want both texture and control sources", deps)
	}

	dependents := g.Dependents(a)
	if len(dependents) != 1 || dependents[0] != x {
		t.Errorf("Dependents(a) = %v, want [%v]", dependents, x)
	}
}
