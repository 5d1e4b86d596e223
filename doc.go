// Package vgraph implements a real-time node graph for video synthesis.
//
// A graph is a user-editable collection of visual-processing nodes: sources
// produce textures, effects transform the texture of an upstream node, and
// compositors combine two upstream textures. Every enabled node renders into
// its own texture each frame, in dependency order. Control-input nodes carry
// no texture; they expose a single normalized scalar per frame that the
// modulation pass maps into node parameters before rendering.
//
// The root package holds the graph model, the dependency scheduler, the
// parameter store, the modulation engine, and the Engine frame loop. GPU
// resource management and per-node render passes live in the render and gpu
// subpackages; control-signal providers live in signal.
//
// Basic usage:
//
//	dev := render.NewSoftwareDevice()
//	eng, err := vgraph.NewEngine(dev, vgraph.WithResolution(vgraph.Res720p))
//	if err != nil { ... }
//
//	osc := eng.Graph().Add(vgraph.NewNode(vgraph.KindOsc))
//	eng.Graph().ConnectOutput(osc)
//
//	for { // once per display refresh
//		if err := eng.Step(elapsed); err != nil { ... }
//		eng.Composite(frame)
//	}
//
// vgraph produces no log output by default. Call [SetLogger] to enable it.
package vgraph
