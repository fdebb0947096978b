package gpu

import "github.com/cogentcore/webgpu/wgpu"

// Device is the subset of *wgpu.Device used to build the pipelines.
type Device interface {
	CreateBuffer(descriptor *wgpu.BufferDescriptor) (*wgpu.Buffer, error)
	CreateBufferInit(descriptor *wgpu.BufferInitDescriptor) (*wgpu.Buffer, error)
	CreateShaderModule(descriptor *wgpu.ShaderModuleDescriptor) (*wgpu.ShaderModule, error)
	CreateBindGroupLayout(descriptor *wgpu.BindGroupLayoutDescriptor) (*wgpu.BindGroupLayout, error)
	CreatePipelineLayout(descriptor *wgpu.PipelineLayoutDescriptor) (*wgpu.PipelineLayout, error)
	CreateRenderPipeline(descriptor *wgpu.RenderPipelineDescriptor) (*wgpu.RenderPipeline, error)
	CreateComputePipeline(descriptor *wgpu.ComputePipelineDescriptor) (*wgpu.ComputePipeline, error)
	CreateBindGroup(descriptor *wgpu.BindGroupDescriptor) (*wgpu.BindGroup, error)
}

// Queue receives the per-frame uniform upload.
type Queue interface {
	WriteBuffer(buffer *wgpu.Buffer, offset uint64, data []byte) error
}

// RenderPass is the subset of *wgpu.RenderPassEncoder recorded by Render.
type RenderPass interface {
	SetPipeline(pipeline *wgpu.RenderPipeline)
	SetBindGroup(groupIndex uint32, group *wgpu.BindGroup, dynamicOffsets []uint32)
	SetVertexBuffer(slot uint32, buffer *wgpu.Buffer, offset, size uint64)
	Draw(vertexCount, instanceCount, firstVertex, firstInstance uint32)
}

// ComputePass is the subset of *wgpu.ComputePassEncoder recorded by
// ComputeInstances.
type ComputePass interface {
	SetPipeline(pipeline *wgpu.ComputePipeline)
	SetBindGroup(groupIndex uint32, group *wgpu.BindGroup, dynamicOffsets []uint32)
	DispatchWorkgroups(x, y, z uint32)
}

var (
	_ Device      = (*wgpu.Device)(nil)
	_ Queue       = (*wgpu.Queue)(nil)
	_ RenderPass  = (*wgpu.RenderPassEncoder)(nil)
	_ ComputePass = (*wgpu.ComputePassEncoder)(nil)
)
