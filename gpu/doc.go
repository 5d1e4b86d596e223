// Package gpu implements render.Device on top of gogpu/wgpu.
//
// The device owns the full wgpu resource chain (instance, adapter,
// logical device, queue) or adopts a shared one from a host through
// gpucontext.DeviceProvider. Node shaders are WGSL, compiled to SPIR-V
// through naga at program creation time so compilation failures surface
// where the caller can substitute the fallback program.
//
// Rasterization currently runs through a CPU mirror of each texture
// while wgpu texture upload and readback mature; the GPU handle
// plumbing, shader compilation and resource lifecycle are real, so the
// pixel path can move onto the queue without touching callers.
package gpu
