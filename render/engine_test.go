package render

import (
	"testing"
)

// setupNodeTargets allocates and fills targets for the given node ids.
func setupNodeTargets(t *testing.T, dev Device, res *Resources, fills map[int][3]float64) {
	t.Helper()
	for id, c := range fills {
		if err := res.Ensure(id); err != nil {
			t.Fatalf("Ensure(%d): %v", id, err)
		}
		fillTarget(t, dev, res.Target(id), c)
	}
}

// TestRenderNodeBindingOrder locks the slot-to-unit contract: input slot i
// is bound to texture unit i and the slot's sampler uniform carries i. A
// regression that swaps the bindings makes a two-input node read its
// inputs crossed, which this test observes directly in the output.
func TestRenderNodeBindingOrder(t *testing.T) {
	dev, res := newTestResources(t, 4, 4)
	eng := NewEngine(dev, res)

	setupNodeTargets(t, dev, res, map[int][3]float64{
		1: {1, 0, 0}, // slot 0 source: red
		2: {0, 1, 0}, // slot 1 source: green
	})
	if err := res.Ensure(3); err != nil {
		t.Fatalf("Ensure(3): %v", err)
	}

	// Left half samples slot 0, right half slot 1.
	prog, err := dev.NewProgram(ProgramSource{
		Label: "split",
		Eval: func(env *EvalEnv, x, y int) (r, g, b, a float64) {
			w, _ := env.Size()
			if x < w/2 {
				return env.Sample(0, 0.5, 0.5)
			}
			return env.Sample(1, 0.5, 0.5)
		},
	})
	if err != nil {
		t.Fatalf("NewProgram: %v", err)
	}

	uniforms := map[string]Uniform{}
	skipped, err := eng.RenderNode(&Context{Width: 4, Height: 4}, &NodePass{
		Node:     3,
		Program:  prog,
		Uniforms: uniforms,
		Inputs:   []int{1, 2},
	})
	if err != nil || skipped {
		t.Fatalf("RenderNode: skipped=%v err=%v", skipped, err)
	}

	// Sampler uniform for slot i must carry exactly i.
	for slot := 0; slot < 2; slot++ {
		u, ok := uniforms[SamplerName(slot)]
		if !ok || u.I != slot {
			t.Errorf("sampler %s = %+v, want unit %d", SamplerName(slot), u, slot)
		}
	}

	pix, _ := dev.ReadPixels(res.Texture(3))
	// Pixel (0,0) is in the left half: must be red, never green.
	if pix[0] != 255 || pix[1] != 0 {
		t.Errorf("left half = %v, want red (slot 0 input)", pix[:4])
	}
	// Pixel (3,0) is in the right half: must be green.
	right := 3 * 4
	if pix[right] != 0 || pix[right+1] != 255 {
		t.Errorf("right half = %v, want green (slot 1 input)", pix[right:right+4])
	}
}

// TestRenderNodeFeedbackHazard verifies a node whose input resolves to its
// own render target is skipped for the frame and its previous texture
// survives untouched.
func TestRenderNodeFeedbackHazard(t *testing.T) {
	dev, res := newTestResources(t, 4, 4)
	eng := NewEngine(dev, res)

	setupNodeTargets(t, dev, res, map[int][3]float64{1: {0, 0, 1}})

	prog, _ := dev.NewProgram(ProgramSource{Label: "white", Eval: solidEval})
	skipped, err := eng.RenderNode(&Context{Width: 4, Height: 4}, &NodePass{
		Node:     1,
		Program:  prog,
		Uniforms: map[string]Uniform{"u_color": Vec3Uniform([3]float64{1, 1, 1})},
		Inputs:   []int{1}, // samples itself
	})
	if err != nil {
		t.Fatalf("RenderNode: %v", err)
	}
	if !skipped {
		t.Fatal("feedback pass was not skipped")
	}

	pix, _ := dev.ReadPixels(res.Texture(1))
	if pix[2] != 255 {
		t.Errorf("previous texture overwritten on skipped pass: %v", pix[:4])
	}
}

// TestRenderNodeMissingTarget verifies a node with no target (failed
// allocation) is skipped without error.
func TestRenderNodeMissingTarget(t *testing.T) {
	dev, res := newTestResources(t, 4, 4)
	eng := NewEngine(dev, res)

	prog, _ := dev.NewProgram(ProgramSource{Label: "solid", Eval: solidEval})
	skipped, err := eng.RenderNode(&Context{Width: 4, Height: 4}, &NodePass{
		Node:     42,
		Program:  prog,
		Uniforms: map[string]Uniform{},
	})
	if err != nil {
		t.Fatalf("RenderNode: %v", err)
	}
	if !skipped {
		t.Error("pass with no target was not skipped")
	}
}

// TestRenderNodeUniversalUniforms verifies time and resolution reach the
// pass on every draw.
func TestRenderNodeUniversalUniforms(t *testing.T) {
	dev, res := newTestResources(t, 4, 4)
	eng := NewEngine(dev, res)
	if err := res.Ensure(1); err != nil {
		t.Fatalf("Ensure: %v", err)
	}

	var gotTime float64
	var gotRes [3]float64
	prog, _ := dev.NewProgram(ProgramSource{
		Label: "probe",
		Eval: func(env *EvalEnv, x, y int) (r, g, b, a float64) {
			gotTime = env.Float(UniformTime)
			gotRes = env.Vec3(UniformResolution)
			return 0, 0, 0, 1
		},
	})
	_, err := eng.RenderNode(&Context{Time: 2.5, Width: 4, Height: 4}, &NodePass{
		Node:     1,
		Program:  prog,
		Uniforms: map[string]Uniform{},
	})
	if err != nil {
		t.Fatalf("RenderNode: %v", err)
	}
	if gotTime != 2.5 {
		t.Errorf("u_time = %v, want 2.5", gotTime)
	}
	if gotRes[0] != 4 || gotRes[1] != 4 {
		t.Errorf("u_resolution = %v, want (4,4)", gotRes)
	}
}
