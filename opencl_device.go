//go:build opencl

package ripples

import (
	"errors"
	"fmt"
	"strings"
	"unsafe"

	"github.com/jgillich/go-opencl/cl"
)

// openCLDevice runs the drop and propagation kernels on an OpenCL device.
// The two grids live on the device; Field reads the current one back into a
// host mirror for compositing.
type openCLDevice struct {
	context    *cl.Context
	queue      *cl.CommandQueue
	program    *cl.Program
	dropKernel *cl.Kernel
	waveKernel *cl.Kernel
	bufs       [2]*cl.MemObject
	pp         pingPong
	resolution int
	host       []float32
	hostFresh  bool
	deviceName string
}

const rippleKernelSource = `__kernel void drop_step(
    const int res,
    const float cx,
    const float cy,
    const float radius,
    const float strength,
    __global const float4* src,
    __global float4* dst)
{
    int idx = get_global_id(0);
    if (idx >= res * res) {
        return;
    }
    float4 info = src[idx];
    float2 coord = (float2)(((idx % res) + 0.5f) / res, ((idx / res) + 0.5f) / res);
    float2 center = (float2)(cx * 0.5f + 0.5f, cy * 0.5f + 0.5f);
    float drop = max(0.0f, 1.0f - length(center - coord) / radius);
    drop = 0.5f - cos(drop * M_PI_F) * 0.5f;
    info.x += drop * strength;
    dst[idx] = info;
}

__kernel void wave_step(
    const int res,
    const float speed,
    const float damp,
    __global const float4* src,
    __global float4* dst)
{
    int idx = get_global_id(0);
    if (idx >= res * res) {
        return;
    }
    int x = idx % res;
    int y = idx / res;
    int last = res - 1;
    float4 info = src[idx];
    float avg = (
        src[y * res + max(x - 1, 0)].x +
        src[y * res + min(x + 1, last)].x +
        src[max(y - 1, 0) * res + x].x +
        src[min(y + 1, last) * res + x].x) * 0.25f;
    info.y += (avg - info.x) * speed;
    info.y *= damp;
    info.x += info.y;
    dst[idx] = info;
}`

// NewOpenCLDevice opens the first GPU device, or the first CPU device when no
// GPU is reported.
func NewOpenCLDevice() (Device, error) {
	platforms, err := cl.GetPlatforms()
	if err != nil {
		msg := "querying OpenCL platforms"
		if strings.Contains(err.Error(), "-1001") {
			msg += ": no ICD loader reported any platforms; install OpenCL drivers and verify with `clinfo`"
		}
		return nil, fmt.Errorf("%s: %w", msg, err)
	}
	if len(platforms) == 0 {
		return nil, errors.New("no OpenCL platforms available")
	}
	device := pickDevice(platforms, cl.DeviceTypeGPU)
	if device == nil {
		device = pickDevice(platforms, cl.DeviceTypeCPU)
	}
	if device == nil {
		return nil, errors.New("no suitable OpenCL devices found")
	}

	d := &openCLDevice{deviceName: device.Name()}
	if d.context, err = cl.CreateContext([]*cl.Device{device}); err != nil {
		return nil, fmt.Errorf("creating OpenCL context: %w", err)
	}
	if d.queue, err = d.context.CreateCommandQueue(device, 0); err != nil {
		d.Close()
		return nil, fmt.Errorf("creating OpenCL command queue: %w", err)
	}
	if d.program, err = d.context.CreateProgramWithSource([]string{rippleKernelSource}); err != nil {
		d.Close()
		return nil, fmt.Errorf("creating OpenCL program: %w", err)
	}
	if err := d.program.BuildProgram([]*cl.Device{device}, ""); err != nil {
		d.Close()
		if buildErr, ok := err.(cl.BuildError); ok {
			return nil, fmt.Errorf("building OpenCL program: %s", string(buildErr))
		}
		return nil, fmt.Errorf("building OpenCL program: %w", err)
	}
	if d.dropKernel, err = d.program.CreateKernel("drop_step"); err != nil {
		d.Close()
		return nil, fmt.Errorf("creating drop kernel: %w", err)
	}
	if d.waveKernel, err = d.program.CreateKernel("wave_step"); err != nil {
		d.Close()
		return nil, fmt.Errorf("creating wave kernel: %w", err)
	}
	return d, nil
}

func pickDevice(platforms []*cl.Platform, kind cl.DeviceType) *cl.Device {
	for _, p := range platforms {
		devices, err := p.GetDevices(kind)
		if err != nil && err != cl.ErrDeviceNotFound {
			continue
		}
		if len(devices) > 0 {
			return devices[0]
		}
	}
	return nil
}

func (d *openCLDevice) Profile() Profile {
	return Profile{Name: d.deviceName, Format: FormatFloat32, Linear: true}
}

func (d *openCLDevice) Allocate(resolution int) error {
	if resolution < minResolution {
		return ErrInvalidResolution
	}
	size := resolution * resolution * texelChannels
	byteSize := size * int(unsafe.Sizeof(float32(0)))
	zeros := make([]float32, size)
	for i := range d.bufs {
		buf, err := d.context.CreateEmptyBuffer(cl.MemReadWrite, byteSize)
		if err != nil {
			return fmt.Errorf("allocating ripple buffer %d: %w", i, err)
		}
		d.bufs[i] = buf
		// Device buffers are not zero-filled on allocation.
		if _, err := d.queue.EnqueueWriteBufferFloat32(buf, true, 0, zeros, nil); err != nil {
			return fmt.Errorf("clearing ripple buffer %d: %w", i, err)
		}
	}
	d.resolution = resolution
	d.host = zeros
	d.hostFresh = true
	return nil
}

func (d *openCLDevice) Drop(p DropParams) error {
	if d.queue == nil {
		return ErrDeviceClosed
	}
	// the kernel divides by the radius; an empty drop leaves the field as is
	if p.Radius <= 0 || p.Strength == 0 {
		return nil
	}
	if err := d.dropKernel.SetArgs(
		int32(d.resolution),
		p.Center[0],
		p.Center[1],
		p.Radius,
		p.Strength,
		d.bufs[d.pp.current()],
		d.bufs[d.pp.next()],
	); err != nil {
		return fmt.Errorf("setting drop kernel arguments: %w", err)
	}
	return d.enqueue(d.dropKernel)
}

func (d *openCLDevice) Update(_ UpdateParams) error {
	if d.queue == nil {
		return ErrDeviceClosed
	}
	if err := d.waveKernel.SetArgs(
		int32(d.resolution),
		waveSpeed32,
		waveDamp32,
		d.bufs[d.pp.current()],
		d.bufs[d.pp.next()],
	); err != nil {
		return fmt.Errorf("setting wave kernel arguments: %w", err)
	}
	return d.enqueue(d.waveKernel)
}

func (d *openCLDevice) enqueue(k *cl.Kernel) error {
	global := []int{d.resolution * d.resolution}
	if _, err := d.queue.EnqueueNDRangeKernel(k, nil, global, nil, nil); err != nil {
		return fmt.Errorf("enqueueing kernel: %w", err)
	}
	d.pp.swap()
	d.hostFresh = false
	return nil
}

func (d *openCLDevice) Field() (FieldView, error) {
	if d.queue == nil {
		return FieldView{}, ErrDeviceClosed
	}
	if !d.hostFresh {
		if _, err := d.queue.EnqueueReadBufferFloat32(d.bufs[d.pp.current()], true, 0, d.host, nil); err != nil {
			return FieldView{}, fmt.Errorf("reading ripple buffer: %w", err)
		}
		d.hostFresh = true
	}
	return FieldView{Resolution: d.resolution, Texels: d.host}, nil
}

func (d *openCLDevice) Close() error {
	for i, buf := range d.bufs {
		if buf != nil {
			buf.Release()
			d.bufs[i] = nil
		}
	}
	if d.dropKernel != nil {
		d.dropKernel.Release()
		d.dropKernel = nil
	}
	if d.waveKernel != nil {
		d.waveKernel.Release()
		d.waveKernel = nil
	}
	if d.program != nil {
		d.program.Release()
		d.program = nil
	}
	if d.queue != nil {
		d.queue.Release()
		d.queue = nil
	}
	if d.context != nil {
		d.context.Release()
		d.context = nil
	}
	return nil
}
