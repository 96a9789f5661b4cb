package renderer

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
)

// MSAASampleCount controls the number of samples used for multisample anti-aliasing (MSAA).
// WebGPU guarantees support for 1 (off) and 4.
type MSAASampleCount uint32

const (
	// MSAAOff disables multisample anti-aliasing (sample count 1).
	MSAAOff MSAASampleCount = 1

	// MSAA4x enables 4× multisample anti-aliasing. This is the default.
	MSAA4x MSAASampleCount = 4
)

// Backend draws batches to one surface.
type Backend interface {
	// Configure (re)creates the swapchain and attachments for the surface size.
	//
	// Parameters:
	//   - width: surface width in pixels
	//   - height: surface height in pixels
	Configure(width, height int)

	// Draw submits one frame containing every vertex of batch, transformed by viewProjection.
	//
	// Parameters:
	//   - viewProjection: the camera's projection * view matrix
	//   - batch: the frame's vertices
	//
	// Returns:
	//   - error: if the frame could not be acquired or submitted
	Draw(viewProjection mgl32.Mat4, batch *Batch) error

	// Release frees every GPU resource held by the backend.
	Release()
}

// BackendFactory creates a Backend for a surface.
type BackendFactory func(surface Surface) (Backend, error)

// DescriptorSurface is implemented by surfaces that can host a WebGPU swapchain.
type DescriptorSurface interface {
	Surface
	// SurfaceDescriptor returns the platform surface descriptor, or nil if the surface is not ready.
	SurfaceDescriptor() *wgpu.SurfaceDescriptor
}

// WGPUBackendFactory returns a factory creating WebGPU backends for DescriptorSurfaces.
//
// Parameters:
//   - sampleCount: MSAA sample count for the main render pass
//
// Returns:
//   - BackendFactory: the factory
func WGPUBackendFactory(sampleCount MSAASampleCount) BackendFactory {
	return func(surface Surface) (Backend, error) {
		ds, ok := surface.(DescriptorSurface)
		if !ok {
			return nil, fmt.Errorf("surface %T cannot host a WebGPU swapchain", surface)
		}
		desc := ds.SurfaceDescriptor()
		if desc == nil {
			return nil, fmt.Errorf("surface %T has no surface descriptor", surface)
		}
		backend, err := newWGPURendererBackend(desc, false, sampleCount)
		if err != nil {
			return nil, err
		}
		return backend, nil
	}
}
