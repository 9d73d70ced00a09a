// Package webgpu implements a GPU-accelerated subset of kernel.Kernel
// on top of go-webgpu, adapted from born's internal/backend/webgpu
// compute-shader dispatch pattern. Only dense real/complex matmul is
// offloaded; factorizations return kernel.ErrUnsupportedOnGPU, which
// internal/block passes on to its caller.
package webgpu

import (
	"encoding/binary"
	"fmt"
	"sync"
	"unsafe"

	"github.com/go-webgpu/webgpu/wgpu"

	"github.com/latticeforge/symten/internal/kernel"
	"github.com/latticeforge/symten/internal/kernel/cpu"
)

// Backend implements kernel.Kernel on a WebGPU compute device. The
// uniform and orthonormal fills delegate to an embedded CPU reference
// kernel; SVD and QR return kernel.ErrUnsupportedOnGPU.
type Backend struct {
	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	device   *wgpu.Device
	queue    *wgpu.Queue

	mu       sync.RWMutex
	shaders  map[string]*wgpu.ShaderModule
	pipeline map[string]*wgpu.ComputePipeline

	adapterInfo *wgpu.AdapterInfoGo
	fallback    *cpu.Backend
}

var _ kernel.Kernel = (*Backend)(nil)

// New requests a high-performance GPU adapter and device. Returns an
// error (never panics) if no WebGPU-capable device is available, so
// callers can fall back to the CPU kernel.
func New() (b *Backend, err error) {
	defer func() {
		if r := recover(); r != nil {
			b, err = nil, fmt.Errorf("kernel/webgpu: native library not available: %v", r)
		}
	}()

	instance, iErr := wgpu.CreateInstance(nil)
	if iErr != nil {
		return nil, fmt.Errorf("kernel/webgpu: create instance: %w", iErr)
	}
	adapter, aErr := instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		PowerPreference: wgpu.PowerPreferenceHighPerformance,
	})
	if aErr != nil {
		instance.Release()
		return nil, fmt.Errorf("kernel/webgpu: request adapter: %w", aErr)
	}
	info, infoErr := adapter.GetInfo()
	if infoErr != nil {
		adapter.Release()
		instance.Release()
		return nil, fmt.Errorf("kernel/webgpu: get adapter info: %w", infoErr)
	}

	device, dErr := adapter.RequestDevice(nil)
	if dErr != nil {
		adapter.Release()
		instance.Release()
		return nil, fmt.Errorf("kernel/webgpu: request device: %w", dErr)
	}
	queue := device.GetQueue()
	if queue == nil {
		device.Release()
		adapter.Release()
		instance.Release()
		return nil, fmt.Errorf("kernel/webgpu: no queue available")
	}

	return &Backend{
		instance:    instance,
		adapter:     adapter,
		device:      device,
		queue:       queue,
		shaders:     make(map[string]*wgpu.ShaderModule),
		pipeline:    make(map[string]*wgpu.ComputePipeline),
		adapterInfo: info,
		fallback:    cpu.New(),
	}, nil
}

// Name identifies the adapter backing this kernel.
func (b *Backend) Name() string {
	if b.adapterInfo != nil {
		return fmt.Sprintf("webgpu (%s)", b.adapterInfo.Description)
	}
	return "webgpu"
}

// Release frees the underlying WebGPU device, queue, and adapter.
func (b *Backend) Release() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, p := range b.pipeline {
		p.Release()
	}
	for _, s := range b.shaders {
		s.Release()
	}
	b.pipeline, b.shaders = nil, nil
	if b.queue != nil {
		b.queue.Release()
	}
	if b.device != nil {
		b.device.Release()
	}
	if b.adapter != nil {
		b.adapter.Release()
	}
	if b.instance != nil {
		b.instance.Release()
	}
}

func (b *Backend) compileShader(name, wgsl string) (*wgpu.ShaderModule, *wgpu.ComputePipeline) {
	b.mu.RLock()
	shader, hasShader := b.shaders[name]
	pipeline, hasPipeline := b.pipeline[name]
	b.mu.RUnlock()
	if hasShader && hasPipeline {
		return shader, pipeline
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if shader, ok := b.shaders[name]; ok {
		return shader, b.pipeline[name]
	}
	shader = b.device.CreateShaderModuleWGSL(wgsl)
	pipeline = b.device.CreateComputePipelineSimple(nil, shader, "main")
	b.shaders[name] = shader
	b.pipeline[name] = pipeline
	return shader, pipeline
}

func (b *Backend) createBuffer(data []byte, usage wgpu.BufferUsage) *wgpu.Buffer {
	size := uint64(len(data))
	buf := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Usage:            usage,
		Size:             size,
		MappedAtCreation: wgpu.True,
	})
	ptr := buf.GetMappedRange(0, size)
	dst := unsafe.Slice((*byte)(ptr), size)
	copy(dst, data)
	buf.Unmap()
	return buf
}

func (b *Backend) createUniform(data []byte) *wgpu.Buffer {
	size := uint64(len(data))
	aligned := (size + 15) &^ 15
	buf := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Usage:            wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
		Size:             aligned,
		MappedAtCreation: wgpu.True,
	})
	ptr := buf.GetMappedRange(0, aligned)
	dst := unsafe.Slice((*byte)(ptr), aligned)
	copy(dst, data)
	buf.Unmap()
	return buf
}

func (b *Backend) readBuffer(src *wgpu.Buffer, size uint64) ([]byte, error) {
	staging := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Usage: wgpu.BufferUsageMapRead | wgpu.BufferUsageCopyDst,
		Size:  size,
	})
	defer staging.Release()

	enc := b.device.CreateCommandEncoder(nil)
	enc.CopyBufferToBuffer(src, 0, staging, 0, size)
	cmd := enc.Finish(nil)
	b.queue.Submit(cmd)

	if err := staging.MapAsync(b.device, wgpu.MapModeRead, 0, size); err != nil {
		return nil, fmt.Errorf("kernel/webgpu: map staging buffer: %w", err)
	}
	ptr := staging.GetMappedRange(0, size)
	out := make([]byte, size)
	copy(out, unsafe.Slice((*byte)(ptr), size))
	staging.Unmap()
	return out, nil
}

func putDims(m, k, n int) []byte {
	buf := make([]byte, 16)
	binary.LittleEndian.PutUint32(buf[0:4], uint32(m))
	binary.LittleEndian.PutUint32(buf[4:8], uint32(k))
	binary.LittleEndian.PutUint32(buf[8:12], uint32(n))
	return buf
}
