package renderer

import (
	"errors"
	"fmt"
	"sync"
	"unsafe"

	"github.com/Carmen-Shannon/oxy-view/common"
	"github.com/Carmen-Shannon/oxy-view/engine/renderer/pipeline"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
)

// clipDepthFix maps OpenGL clip depth [-w, w] produced by mgl32.Perspective to WebGPU's [0, w].
var clipDepthFix = mgl32.Mat4{
	1, 0, 0, 0,
	0, 1, 0, 0,
	0, 0, 0.5, 0,
	0, 0, 0.5, 1,
}

// vertexLayout matches the Vertex struct: position at location 0, color at location 1.
var vertexLayout = wgpu.VertexBufferLayout{
	ArrayStride: uint64(unsafe.Sizeof(Vertex{})),
	StepMode:    wgpu.VertexStepModeVertex,
	Attributes: []wgpu.VertexAttribute{
		{Format: wgpu.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
		{Format: wgpu.VertexFormatFloat32x4, Offset: 12, ShaderLocation: 1},
	},
}

type wgpuRendererBackendImpl struct {
	mu     *sync.Mutex
	device *wgpu.Device
	queue  *wgpu.Queue

	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	surface  *wgpu.Surface

	surfaceFormat        *wgpu.TextureFormat
	msaaTextureView      *wgpu.TextureView
	depthTextureView     *wgpu.TextureView
	renderPassDescriptor *wgpu.RenderPassDescriptor

	presentMode wgpu.PresentMode
	sampleCount MSAASampleCount

	uniformBuffer   *wgpu.Buffer
	bindGroupLayout *wgpu.BindGroupLayout
	bindGroup       *wgpu.BindGroup

	linePipeline     pipeline.Pipeline
	trianglePipeline pipeline.Pipeline

	lineBuffer     *wgpu.Buffer
	lineCapacity   uint64
	triangleBuffer *wgpu.Buffer
	triangleCap    uint64
}

var _ Backend = &wgpuRendererBackendImpl{}

func newWGPURendererBackend(surfaceDescriptor *wgpu.SurfaceDescriptor, forceFallbackAdapter bool, sampleCount MSAASampleCount) (*wgpuRendererBackendImpl, error) {
	w := &wgpuRendererBackendImpl{
		mu:          &sync.Mutex{},
		instance:    wgpu.CreateInstance(nil),
		presentMode: wgpu.PresentModeFifo,
		sampleCount: sampleCount,
	}
	w.surface = w.instance.CreateSurface(surfaceDescriptor)

	a, err := w.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		ForceFallbackAdapter: forceFallbackAdapter,
		CompatibleSurface:    w.surface,
	})
	if err != nil {
		w.Release()
		return nil, fmt.Errorf("request adapter: %w", err)
	}
	w.adapter = a

	d, err := a.RequestDevice(&wgpu.DeviceDescriptor{
		Label: "Viewer Device",
	})
	if err != nil {
		w.Release()
		return nil, fmt.Errorf("request device: %w", err)
	}
	w.device = d
	w.queue = d.GetQueue()

	if err := w.initGlobals(); err != nil {
		w.Release()
		return nil, err
	}
	return w, nil
}

// initGlobals creates the view-projection uniform buffer and its bind group.
func (b *wgpuRendererBackendImpl) initGlobals() error {
	entry := wgpu.BindGroupLayoutEntry{
		Binding:    0,
		Visibility: wgpu.ShaderStageVertex,
	}
	entry.Buffer.Type = wgpu.BufferBindingTypeUniform
	entry.Buffer.MinBindingSize = 64

	layout, err := b.device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label:   "Globals Layout",
		Entries: []wgpu.BindGroupLayoutEntry{entry},
	})
	if err != nil {
		return fmt.Errorf("failed to create globals layout: %w", err)
	}
	b.bindGroupLayout = layout

	buf, err := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "Globals Buffer",
		Size:  64,
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("failed to create globals buffer: %w", err)
	}
	b.uniformBuffer = buf

	bindGroup, err := b.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "Globals Bind Group",
		Layout: layout,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, Buffer: buf, Offset: 0, Size: wgpu.WholeSize},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create globals bind group: %w", err)
	}
	b.bindGroup = bindGroup
	return nil
}

func (b *wgpuRendererBackendImpl) Configure(width, height int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if width <= 0 || height <= 0 {
		return
	}

	capabilities := b.surface.GetCapabilities(b.adapter)
	b.surfaceFormat = &capabilities.Formats[0]

	b.surface.Configure(b.adapter, b.device, &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      *b.surfaceFormat,
		Width:       uint32(width),
		Height:      uint32(height),
		PresentMode: b.presentMode,
		AlphaMode:   capabilities.AlphaModes[0],
	})

	count := uint32(b.sampleCount)
	msaaEnabled := count > 1

	if b.msaaTextureView != nil {
		b.msaaTextureView.Release()
		b.msaaTextureView = nil
	}
	if msaaEnabled {
		msaaTexture, err := b.device.CreateTexture(&wgpu.TextureDescriptor{
			Label: "MSAA Texture",
			Size: wgpu.Extent3D{
				Width:              uint32(width),
				Height:             uint32(height),
				DepthOrArrayLayers: 1,
			},
			MipLevelCount: 1,
			SampleCount:   count,
			Dimension:     wgpu.TextureDimension2D,
			Format:        *b.surfaceFormat,
			Usage:         wgpu.TextureUsageRenderAttachment,
		})
		if err == nil {
			b.msaaTextureView, err = msaaTexture.CreateView(nil)
		}
		if err != nil {
			b.sampleCount = MSAAOff
			count, msaaEnabled = 1, false
		}
	}

	if b.depthTextureView != nil {
		b.depthTextureView.Release()
		b.depthTextureView = nil
	}
	depthTexture, err := b.device.CreateTexture(&wgpu.TextureDescriptor{
		Label: "Depth Texture",
		Size: wgpu.Extent3D{
			Width:              uint32(width),
			Height:             uint32(height),
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   count,
		Dimension:     wgpu.TextureDimension2D,
		Format:        wgpu.TextureFormatDepth24Plus,
		Usage:         wgpu.TextureUsageRenderAttachment,
	})
	if err == nil {
		b.depthTextureView, err = depthTexture.CreateView(nil)
	}
	if err != nil {
		b.renderPassDescriptor = nil
		return
	}

	// When MSAA is enabled, View is the MSAA texture and ResolveTarget is set per-frame to the
	// swapchain view. When disabled, View is set per-frame and ResolveTarget remains nil.
	storeOp := wgpu.StoreOpStore
	if msaaEnabled {
		storeOp = wgpu.StoreOpDiscard
	}
	b.renderPassDescriptor = &wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{
			{
				View:          b.msaaTextureView,
				ResolveTarget: nil,
				LoadOp:        wgpu.LoadOpClear,
				StoreOp:       storeOp,
				ClearValue: wgpu.Color{
					R: 1, G: 1, B: 1, A: 1,
				},
			},
		},
		DepthStencilAttachment: &wgpu.RenderPassDepthStencilAttachment{
			View:            b.depthTextureView,
			DepthLoadOp:     wgpu.LoadOpClear,
			DepthStoreOp:    wgpu.StoreOpDiscard,
			DepthClearValue: 1.0,
		},
	}

	if b.linePipeline == nil {
		b.linePipeline = pipeline.NewPipeline("lines",
			pipeline.WithSource(colorShader, "vs_main", "fs_main"),
			pipeline.WithVertexLayouts(vertexLayout),
			pipeline.WithTopology(wgpu.PrimitiveTopologyLineList),
			pipeline.WithBlendEnabled(true),
			pipeline.WithDepthWriteEnabled(false),
		)
		b.trianglePipeline = pipeline.NewPipeline("triangles",
			pipeline.WithSource(colorShader, "vs_main", "fs_main"),
			pipeline.WithVertexLayouts(vertexLayout),
			pipeline.WithTopology(wgpu.PrimitiveTopologyTriangleList),
			pipeline.WithBlendEnabled(true),
		)
	}
	for _, p := range []pipeline.Pipeline{b.linePipeline, b.trianglePipeline} {
		if p.Pipeline() != nil {
			continue
		}
		if err := b.registerRenderPipeline(p); err != nil {
			b.renderPassDescriptor = nil
			return
		}
	}
}

// registerRenderPipeline creates the GPU pipeline for p. Requires a configured surface format.
func (b *wgpuRendererBackendImpl) registerRenderPipeline(p pipeline.Pipeline) error {
	if p.Source() == "" {
		return errors.New("shader source must be set to create a render pipeline")
	}

	module, err := b.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label: p.PipelineKey(),
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
			Code: p.Source(),
		},
	})
	if err != nil {
		return err
	}

	pipelineLayout, err := b.device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            p.PipelineKey(),
		BindGroupLayouts: []*wgpu.BindGroupLayout{b.bindGroupLayout},
	})
	if err != nil {
		return err
	}

	created, err := b.device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  p.PipelineKey() + " Render Pipeline",
		Layout: pipelineLayout,
		Vertex: wgpu.VertexState{
			Module:     module,
			EntryPoint: p.VertexEntryPoint(),
			Buffers:    p.VertexLayouts(),
		},
		Fragment: &wgpu.FragmentState{
			Module:     module,
			EntryPoint: p.FragmentEntryPoint(),
			Targets: []wgpu.ColorTargetState{
				func() wgpu.ColorTargetState {
					state := wgpu.ColorTargetState{
						Format:    *b.surfaceFormat,
						WriteMask: p.WriteMask(),
					}
					if p.BlendEnabled() {
						state.Blend = p.BlendState()
					}
					return state
				}(),
			},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  p.Topology(),
			FrontFace: p.FrontFace(),
			CullMode:  p.CullMode(),
		},
		Multisample: wgpu.MultisampleState{
			Count: uint32(b.sampleCount),
			Mask:  0xFFFFFFFF,
		},
		DepthStencil: func() *wgpu.DepthStencilState {
			depthCompare := wgpu.CompareFunctionLess
			if !p.DepthTestEnabled() {
				depthCompare = wgpu.CompareFunctionAlways
			}
			return &wgpu.DepthStencilState{
				Format:            wgpu.TextureFormatDepth24Plus,
				DepthWriteEnabled: p.DepthWriteEnabled(),
				DepthCompare:      depthCompare,
				StencilFront: wgpu.StencilFaceState{
					Compare: wgpu.CompareFunctionAlways,
				},
				StencilBack: wgpu.StencilFaceState{
					Compare: wgpu.CompareFunctionAlways,
				},
			}
		}(),
	})
	if err != nil {
		return err
	}

	p.SetRenderPipeline(created)
	return nil
}

// ensureVertexBuffer grows *buf to hold size bytes, doubling to amortize growth.
func (b *wgpuRendererBackendImpl) ensureVertexBuffer(buf **wgpu.Buffer, capacity *uint64, size uint64, label string) error {
	if *buf != nil && *capacity >= size {
		return nil
	}
	newCap := max(*capacity*2, size, 4096)
	created, err := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: label,
		Size:  newCap,
		Usage: wgpu.BufferUsageVertex | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return err
	}
	if *buf != nil {
		(*buf).Release()
	}
	*buf = created
	*capacity = newCap
	return nil
}

func (b *wgpuRendererBackendImpl) Draw(viewProjection mgl32.Mat4, batch *Batch) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.renderPassDescriptor == nil {
		return errors.New("surface not configured")
	}

	globals := clipDepthFix.Mul4(viewProjection)
	b.queue.WriteBuffer(b.uniformBuffer, 0, common.StructToBytes(&globals))

	lineBytes := common.SliceToBytes(batch.Lines)
	triangleBytes := common.SliceToBytes(batch.Triangles)
	if len(lineBytes) > 0 {
		if err := b.ensureVertexBuffer(&b.lineBuffer, &b.lineCapacity, uint64(len(lineBytes)), "Line Vertex Buffer"); err != nil {
			return err
		}
		b.queue.WriteBuffer(b.lineBuffer, 0, lineBytes)
	}
	if len(triangleBytes) > 0 {
		if err := b.ensureVertexBuffer(&b.triangleBuffer, &b.triangleCap, uint64(len(triangleBytes)), "Triangle Vertex Buffer"); err != nil {
			return err
		}
		b.queue.WriteBuffer(b.triangleBuffer, 0, triangleBytes)
	}

	surfaceTexture, err := b.surface.GetCurrentTexture()
	if err != nil {
		return err
	}
	defer surfaceTexture.Release()

	view, err := surfaceTexture.CreateView(nil)
	if err != nil {
		return err
	}
	defer view.Release()

	encoder, err := b.device.CreateCommandEncoder(nil)
	if err != nil {
		return err
	}
	defer encoder.Release()

	if b.sampleCount > 1 {
		b.renderPassDescriptor.ColorAttachments[0].ResolveTarget = view
	} else {
		b.renderPassDescriptor.ColorAttachments[0].View = view
	}
	pass := encoder.BeginRenderPass(b.renderPassDescriptor)
	pass.SetBindGroup(0, b.bindGroup, nil)

	// Opaque geometry first so blended grid lines composite over it.
	if n := len(batch.Triangles); n > 0 {
		pass.SetPipeline(b.trianglePipeline.Pipeline())
		pass.SetVertexBuffer(0, b.triangleBuffer, 0, uint64(len(triangleBytes)))
		pass.Draw(uint32(n), 1, 0, 0)
	}
	if n := len(batch.Lines); n > 0 {
		pass.SetPipeline(b.linePipeline.Pipeline())
		pass.SetVertexBuffer(0, b.lineBuffer, 0, uint64(len(lineBytes)))
		pass.Draw(uint32(n), 1, 0, 0)
	}
	pass.End()
	pass.Release()

	commandBuffer, err := encoder.Finish(nil)
	if err != nil {
		return err
	}
	b.queue.Submit(commandBuffer)
	commandBuffer.Release()

	b.surface.Present()
	return nil
}

func (b *wgpuRendererBackendImpl) Release() {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, p := range []pipeline.Pipeline{b.linePipeline, b.trianglePipeline} {
		if p != nil && p.Pipeline() != nil {
			p.Pipeline().Release()
		}
	}
	for _, buf := range []*wgpu.Buffer{b.lineBuffer, b.triangleBuffer, b.uniformBuffer} {
		if buf != nil {
			buf.Release()
		}
	}
	if b.bindGroup != nil {
		b.bindGroup.Release()
	}
	if b.bindGroupLayout != nil {
		b.bindGroupLayout.Release()
	}
	if b.msaaTextureView != nil {
		b.msaaTextureView.Release()
	}
	if b.depthTextureView != nil {
		b.depthTextureView.Release()
	}
	if b.device != nil {
		b.device.Release()
	}
	if b.adapter != nil {
		b.adapter.Release()
	}
	if b.surface != nil {
		b.surface.Release()
	}
	if b.instance != nil {
		b.instance.Release()
	}
	*b = wgpuRendererBackendImpl{mu: b.mu}
}
