// Package render executes per-node render passes for a vgraph graph.
//
// The package is organized around a small Device interface with two
// implementations: the pure-Go SoftwareDevice in this package, which
// evaluates node programs per pixel on the CPU, and the wgpu-backed device
// in the gpu package. The Engine drives one pass per scheduled node,
// handling uniform and texture-unit binding and the per-frame feedback
// hazard check; Resources owns every node's (texture, render target) pair
// and the shared fallback texture; the Compositor performs the final copy
// of the output node's texture to the display.
//
// The binding contract is strict: input slot i is bound to texture unit i
// and the sampler uniform for slot i is set to i. Slot and unit must agree
// exactly or color channels silently swap between inputs.
package render
