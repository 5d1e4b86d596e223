package vgraph

import (
	"testing"
)

func buildSnapshotGraph(t *testing.T) (*Graph, NodeID, NodeID, NodeID) {
	t.Helper()
	g := NewGraph()

	osc := NewNode(KindOsc)
	oscID := g.Add(osc)
	osc.SetParam("frequency", Float(7.5))
	osc.SetParam("color", ColorValue(Hex("#40c0ff")))
	osc.SetGroup("sources")

	lfo := g.Add(NewNode(KindLFO))

	xform := NewNode(KindTransform)
	xformID := g.Add(xform)
	xform.SetParam("rotation", Float(90))
	xform.SetParam("slices", Int(4))
	xform.SetEnabled(false)

	if err := g.Connect(xformID, 0, oscID); err != nil {
		t.Fatal(err)
	}
	if err := g.ConnectControl(xformID, 0, lfo); err != nil {
		t.Fatal(err)
	}
	if err := g.ConnectOutput(xformID); err != nil {
		t.Fatal(err)
	}
	return g, oscID, lfo, xformID
}

func TestSnapshotRoundTrip(t *testing.T) {
	g, oscID, lfoID, xformID := buildSnapshotGraph(t)

	data, err := g.Snapshot().Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	snap, err := DecodeSnapshot(data)
	if err != nil {
		t.Fatalf("DecodeSnapshot: %v", err)
	}
	restored := RestoreGraph(snap)

	if restored.Len() != g.Len() {
		t.Fatalf("restored %d nodes, want %d", restored.Len(), g.Len())
	}

	osc := restored.Node(oscID)
	if osc == nil || osc.Kind() != KindOsc {
		t.Fatal("osc node not restored under its original id")
	}
	if got := osc.Param("frequency").Float64(); got != 7.5 {
		t.Errorf("frequency = %v, want 7.5", got)
	}
	if got := osc.Param("color").Color().HexString(); got != "#40c0ff" {
		t.Errorf("color = %q, want #40c0ff", got)
	}
	if osc.Group() != "sources" {
		t.Errorf("group = %q, want sources", osc.Group())
	}

	xform := restored.Node(xformID)
	if xform == nil {
		t.Fatal("transform not restored")
	}
	if xform.Enabled() {
		t.Error("enabled flag lost")
	}
	if got := xform.Param("rotation").Float64(); got != 90 {
		t.Errorf("rotation = %v, want 90", got)
	}
	if got := xform.Param("slices").Int(); got != 4 {
		t.Errorf("slices = %v, want 4", got)
	}
	if got := xform.Input(0); got != oscID {
		t.Errorf("input slot = %v, want %v", got, oscID)
	}
	if got := xform.Controls()[0]; got != lfoID {
		t.Errorf("control slot = %v, want %v", got, lfoID)
	}
	if got := restored.OutputSource(); got != xformID {
		t.Errorf("output source = %v, want %v", got, xformID)
	}
}

func TestSnapshotNewNodesGetFreshIDs(t *testing.T) {
	g, _, _, xformID := buildSnapshotGraph(t)
	restored := RestoreGraph(g.Snapshot())

	id := restored.Add(NewNode(KindSolid))
	if id <= xformID {
		t.Errorf("new id %v collides with restored ids (max %v)", id, xformID)
	}
}

func TestSnapshotDanglingReferences(t *testing.T) {
	snap := Snapshot{
		Nodes: []NodeSnapshot{
			{ID: 2, Type: "transform", Enabled: true, Inputs: []NodeID{77}, Controls: []NodeID{88, 0, 0, 0, 0, 0}},
		},
		Output: 99,
	}
	g := RestoreGraph(snap)

	n := g.Node(2)
	if n == nil {
		t.Fatal("node not restored")
	}
	if got := n.Input(0); got != 0 {
		t.Errorf("dangling input = %v, want empty slot", got)
	}
	if got := n.Controls()[0]; got != 0 {
		t.Errorf("dangling control = %v, want empty slot", got)
	}
	if got := g.OutputSource(); got != 0 {
		t.Errorf("dangling output source = %v, want 0", got)
	}
}

func TestSnapshotUnknownKindSkipped(t *testing.T) {
	snap := Snapshot{
		Nodes: []NodeSnapshot{
			{ID: 2, Type: "warp-drive", Enabled: true},
			{ID: 3, Type: "solid", Enabled: true},
		},
	}
	g := RestoreGraph(snap)

	if g.Node(2) != nil {
		t.Error("unknown kind was restored")
	}
	if g.Node(3) == nil {
		t.Error("valid node skipped alongside the unknown one")
	}
}

func TestSnapshotOutOfRangeParamsClampOnLoad(t *testing.T) {
	snap := Snapshot{
		Nodes: []NodeSnapshot{
			{ID: 2, Type: "transform", Enabled: true,
				Params: map[string]any{"rotation": 9999.0, "slices": 3.7}},
		},
	}
	g := RestoreGraph(snap)

	n := g.Node(2)
	if got := n.Param("rotation").Float64(); got != 360 {
		t.Errorf("rotation = %v, want clamped 360", got)
	}
	if got := n.Param("slices").Int(); got != 4 {
		t.Errorf("slices = %v, want rounded 4", got)
	}
}
