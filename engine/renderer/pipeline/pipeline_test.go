package pipeline

import (
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
)

func TestNewPipelineDefaults(t *testing.T) {
	p := NewPipeline("mesh")
	assert.Equal(t, "mesh", p.PipelineKey())
	assert.Equal(t, "vs_main", p.VertexEntryPoint())
	assert.Equal(t, "fs_main", p.FragmentEntryPoint())
	assert.True(t, p.DepthTestEnabled())
	assert.True(t, p.DepthWriteEnabled())
	assert.False(t, p.BlendEnabled())
	assert.Equal(t, wgpu.PrimitiveTopologyTriangleList, p.Topology())
	assert.Equal(t, wgpu.CullModeNone, p.CullMode())
	assert.NotNil(t, p.BlendState())
	assert.Nil(t, p.Pipeline())
}

func TestNewPipelineOptions(t *testing.T) {
	layout := wgpu.VertexBufferLayout{ArrayStride: 28, StepMode: wgpu.VertexStepModeVertex}
	p := NewPipeline("lines",
		WithSource("// wgsl", "vs", "fs"),
		WithVertexLayouts(layout),
		WithTopology(wgpu.PrimitiveTopologyLineList),
		WithBlendEnabled(true),
		WithDepthWriteEnabled(false),
	)
	assert.Equal(t, "// wgsl", p.Source())
	assert.Equal(t, "vs", p.VertexEntryPoint())
	assert.Equal(t, "fs", p.FragmentEntryPoint())
	assert.Equal(t, []wgpu.VertexBufferLayout{layout}, p.VertexLayouts())
	assert.Equal(t, wgpu.PrimitiveTopologyLineList, p.Topology())
	assert.True(t, p.BlendEnabled())
	assert.False(t, p.DepthWriteEnabled())
}
