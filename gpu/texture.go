package gpu

import (
	"sync/atomic"

	"github.com/gogpu/wgpu/core"

	"github.com/gogpu/vgraph/render"
)

// texture pairs the wgpu handles with the CPU mirror that currently
// carries the pixel contents. The handles are zero until wgpu texture
// upload lands; the lifecycle contract (idempotent release, released
// textures never sampled) is enforced here either way.
type texture struct {
	textureID core.TextureID
	viewID    core.TextureViewID

	mirror   render.Texture
	released atomic.Bool
}

func (t *texture) Width() int    { return t.mirror.Width() }
func (t *texture) Height() int   { return t.mirror.Height() }
func (t *texture) Label() string { return t.mirror.Label() }

// Release frees the mirror and drops the GPU handles. Idempotent.
func (t *texture) Release() {
	if t.released.Swap(true) {
		return
	}
	t.mirror.Release()
	t.textureID = core.TextureID{}
	t.viewID = core.TextureViewID{}
}

// target wraps the mirror target so Texture() hands out the gpu-side
// wrapper, keeping handle identity consistent for the feedback check.
type target struct {
	tex    *texture
	mirror render.Target
}

func (t *target) Texture() render.Texture { return t.tex }
func (t *target) Width() int              { return t.mirror.Width() }
func (t *target) Height() int             { return t.mirror.Height() }

func (t *target) Release() {
	if t.tex.released.Swap(true) {
		return
	}
	t.mirror.Release()
	t.tex.textureID = core.TextureID{}
	t.tex.viewID = core.TextureViewID{}
}

// program carries the compiled SPIR-V next to the mirror program that
// does today's rasterization. The words are retained for pipeline
// creation once passes are recorded on the queue; compiling at program
// creation keeps shader errors surfacing at the same point on both
// paths.
type program struct {
	label  string
	spirv  []uint32
	mirror render.Program
}

func (p *program) Label() string { return p.label }
