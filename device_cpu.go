package ripples

import (
	"runtime"
	"sync"
)

// rowBand is a half-open range of grid rows processed by one worker.
type rowBand struct{ y0, y1 int }

// workerBands collects the row bands assigned to a worker goroutine.
type workerBands struct {
	bands []rowBand
}

// cpuDevice runs kernels on a persistent pool of worker goroutines. Each
// kernel pass is broadcast to all workers and the dispatcher waits until
// every worker has finished its bands.
type cpuDevice struct {
	profile Profile
	field   *rippleField

	workerCount int
	workerBands []workerBands

	workerMu       sync.Mutex
	workerCond     *sync.Cond
	workerStep     int
	workerPending  int
	workersStarted bool
	closed         bool
	pass           func(y0, y1 int)
}

// CPUProfile is the profile of the default CPU device: float32 texels with
// bilinear sampling.
func CPUProfile() Profile {
	return Profile{Name: "cpu", Format: FormatFloat32, Linear: true}
}

// NewCPUDevice returns a CPU device advertising profile. A profile with
// FormatFloat16 rounds every written texel through half precision.
func NewCPUDevice(profile Profile) Device {
	if profile.Name == "" {
		profile.Name = "cpu"
	}
	d := &cpuDevice{profile: profile, workerCount: runtime.NumCPU()}
	d.workerCond = sync.NewCond(&d.workerMu)
	return d
}

func (d *cpuDevice) Profile() Profile { return d.profile }

func (d *cpuDevice) Allocate(resolution int) error {
	if err := d.profile.check(); err != nil {
		return err
	}
	field, err := newRippleField(resolution)
	if err != nil {
		return err
	}
	d.field = field
	if d.workerCount > resolution {
		d.workerCount = resolution
	}
	if d.workerCount < 1 {
		d.workerCount = 1
	}
	d.workerBands = assignRowBands(d.workerCount, resolution)
	d.startWorkers()
	return nil
}

func (d *cpuDevice) Drop(p DropParams) error {
	return d.run(func(src, dst []float32, y0, y1 int) {
		dropRows(src, dst, d.field.resolution, p, y0, y1)
	})
}

func (d *cpuDevice) Update(_ UpdateParams) error {
	return d.run(func(src, dst []float32, y0, y1 int) {
		updateRows(src, dst, d.field.resolution, y0, y1)
	})
}

func (d *cpuDevice) Field() (FieldView, error) {
	if d.closed {
		return FieldView{}, ErrDeviceClosed
	}
	if d.field == nil {
		return FieldView{}, ErrInvalidResolution
	}
	return d.field.view(), nil
}

// run executes one ping-pong pass of kernel across the worker pool, then
// swaps the buffers.
func (d *cpuDevice) run(kernel func(src, dst []float32, y0, y1 int)) error {
	if d.closed {
		return ErrDeviceClosed
	}
	if d.field == nil {
		return ErrInvalidResolution
	}
	src, dst := d.field.currentBuf(), d.field.nextBuf()
	stride := d.field.resolution * texelChannels
	half := d.profile.Format == FormatFloat16
	d.dispatch(func(y0, y1 int) {
		kernel(src, dst, y0, y1)
		if half {
			quantizeHalf(dst[y0*stride : y1*stride])
		}
	})
	d.field.swap()
	return nil
}

// dispatch hands pass to every worker and blocks until all are done.
func (d *cpuDevice) dispatch(pass func(y0, y1 int)) {
	d.workerMu.Lock()
	d.pass = pass
	d.workerPending = d.workerCount
	d.workerStep++
	d.workerCond.Broadcast()
	for d.workerPending > 0 {
		d.workerCond.Wait()
	}
	d.pass = nil
	d.workerMu.Unlock()
}

// workerLoop executes kernel passes for the bands assigned to index.
func (d *cpuDevice) workerLoop(index int) {
	lastStep := 0
	d.workerMu.Lock()
	for {
		for d.workerStep == lastStep && !d.closed {
			d.workerCond.Wait()
		}
		if d.closed {
			d.workerMu.Unlock()
			return
		}
		lastStep = d.workerStep
		pass := d.pass
		var mine workerBands
		if index < len(d.workerBands) {
			mine = d.workerBands[index]
		}
		d.workerMu.Unlock()

		for _, b := range mine.bands {
			pass(b.y0, b.y1)
		}

		d.workerMu.Lock()
		d.workerPending--
		if d.workerPending == 0 {
			d.workerCond.Broadcast()
		}
	}
}

// startWorkers launches the worker goroutines once.
func (d *cpuDevice) startWorkers() {
	if d.workersStarted {
		return
	}
	d.workersStarted = true
	for i := 0; i < d.workerCount; i++ {
		go d.workerLoop(i)
	}
}

func (d *cpuDevice) Close() error {
	d.workerMu.Lock()
	d.closed = true
	d.workerCond.Broadcast()
	d.workerMu.Unlock()
	return nil
}

// assignRowBands splits rows into bands of roughly equal height and deals
// them to workers round robin.
func assignRowBands(workerCount, rows int) []workerBands {
	if workerCount < 1 {
		workerCount = 1
	}
	bandCount := workerCount * 2
	if bandCount > rows {
		bandCount = rows
	}
	per := (rows + bandCount - 1) / bandCount
	masks := make([]workerBands, workerCount)
	idx := 0
	for y := 0; y < rows; y += per {
		end := y + per
		if end > rows {
			end = rows
		}
		w := idx % workerCount
		masks[w].bands = append(masks[w].bands, rowBand{y0: y, y1: end})
		idx++
	}
	return masks
}
