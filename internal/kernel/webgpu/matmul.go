package webgpu

import (
	"encoding/binary"
	"math"

	"github.com/go-webgpu/webgpu/wgpu"
)

// matmulShader mirrors born's matmulShader (C = A @ B, row-major,
// f32 storage buffers, 16x16 workgroups over the output tile grid).
const matmulShader = `
@group(0) @binding(0) var<storage, read> a: array<f32>;
@group(0) @binding(1) var<storage, read> b: array<f32>;
@group(0) @binding(2) var<storage, read_write> result: array<f32>;

struct Params {
    M: u32,
    K: u32,
    N: u32,
}
@group(0) @binding(3) var<uniform> params: Params;

@compute @workgroup_size(16, 16)
fn main(@builtin(global_invocation_id) global_id: vec3<u32>) {
    let row = global_id.y;
    let col = global_id.x;
    if (row >= params.M || col >= params.N) {
        return;
    }
    var sum: f32 = 0.0;
    for (var k: u32 = 0u; k < params.K; k = k + 1u) {
        sum = sum + a[row * params.K + k] * b[k * params.N + col];
    }
    result[row * params.N + col] = sum;
}
`

func encodeFloat32(xs []float64) []byte {
	buf := make([]byte, 4*len(xs))
	for i, x := range xs {
		binary.LittleEndian.PutUint32(buf[4*i:], math.Float32bits(float32(x)))
	}
	return buf
}

func decodeFloat32(buf []byte) []float64 {
	out := make([]float64, len(buf)/4)
	for i := range out {
		out[i] = float64(math.Float32frombits(binary.LittleEndian.Uint32(buf[4*i:])))
	}
	return out
}

// matmulF32 dispatches the matmul compute shader over row-major f32
// operands a (m x k) and b (k x n), returning a (m x n) result.
func (bk *Backend) matmulF32(a, b []float64, m, k, n int) []float64 {
	shader, pipeline := bk.compileShader("matmul", matmulShader)
	_ = shader

	aBuf := bk.createBuffer(encodeFloat32(a), wgpu.BufferUsageStorage|wgpu.BufferUsageCopyDst)
	defer aBuf.Release()
	bBuf := bk.createBuffer(encodeFloat32(b), wgpu.BufferUsageStorage|wgpu.BufferUsageCopyDst)
	defer bBuf.Release()

	resultSize := uint64(m * n * 4)
	resultBuf := bk.device.CreateBuffer(&wgpu.BufferDescriptor{
		Usage: wgpu.BufferUsageStorage | wgpu.BufferUsageCopySrc | wgpu.BufferUsageCopyDst,
		Size:  resultSize,
	})
	defer resultBuf.Release()

	paramsBuf := bk.createUniform(putDims(m, k, n))
	defer paramsBuf.Release()

	layout := pipeline.GetBindGroupLayout(0)
	bindGroup := bk.device.CreateBindGroupSimple(layout, []wgpu.BindGroupEntry{
		wgpu.BufferBindingEntry(0, aBuf, 0, uint64(len(a)*4)),
		wgpu.BufferBindingEntry(1, bBuf, 0, uint64(len(b)*4)),
		wgpu.BufferBindingEntry(2, resultBuf, 0, resultSize),
		wgpu.BufferBindingEntry(3, paramsBuf, 0, 16),
	})
	defer bindGroup.Release()

	enc := bk.device.CreateCommandEncoder(nil)
	pass := enc.BeginComputePass(nil)
	pass.SetPipeline(pipeline)
	pass.SetBindGroup(0, bindGroup, nil)
	const tile = 16
	pass.DispatchWorkgroups(uint32((n+tile-1)/tile), uint32((m+tile-1)/tile), 1)
	pass.End()
	cmd := enc.Finish(nil)
	bk.queue.Submit(cmd)

	raw, err := bk.readBuffer(resultBuf, resultSize)
	if err != nil {
		panic("kernel/webgpu: matmulF32: " + err.Error())
	}
	return decodeFloat32(raw)
}

// MatMulReal offloads C = A*B to the GPU. Operands are downcast to
// float32 for the shader and results upcast back to float64; callers
// needing full float64 precision should prefer the cpu kernel.
func (bk *Backend) MatMulReal(a, b []float64, m, k, n int) []float64 {
	return bk.matmulF32(a, b, m, k, n)
}

// MatMulComplex decomposes complex matmul into four real GPU matmuls:
// C = (Ar*Br - Ai*Bi) + i(Ar*Bi + Ai*Br).
func (bk *Backend) MatMulComplex(a, b []complex128, m, k, n int) []complex128 {
	ar, ai := splitComplex(a)
	br, bi := splitComplex(b)

	rr := bk.matmulF32(ar, br, m, k, n)
	ii := bk.matmulF32(ai, bi, m, k, n)
	ri := bk.matmulF32(ar, bi, m, k, n)
	ir := bk.matmulF32(ai, br, m, k, n)

	out := make([]complex128, m*n)
	for idx := range out {
		out[idx] = complex(rr[idx]-ii[idx], ri[idx]+ir[idx])
	}
	return out
}

func splitComplex(xs []complex128) (re, im []float64) {
	re = make([]float64, len(xs))
	im = make([]float64, len(xs))
	for i, x := range xs {
		re[i] = real(x)
		im[i] = imag(x)
	}
	return
}
