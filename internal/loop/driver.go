// Package loop drives the simulation in real time and runs player sessions.
package loop

import (
	"context"
	"time"

	"github.com/tomz197/skyfall/internal/input"
	"github.com/tomz197/skyfall/internal/sim"
)

// FrameFunc is called with the current clock reading.
type FrameFunc func(now time.Duration)

// Scheduler delivers frame callbacks. Tests use a FrameQueue with fixed
// timestamps; sessions dispatch it from a RunTicker.
type Scheduler interface {
	RequestFrame(fn FrameFunc)
}

// FrameQueue is a Scheduler that holds requests until Dispatch.
type FrameQueue struct {
	pending []FrameFunc
	running []FrameFunc
}

// RequestFrame queues fn for the next Dispatch.
func (q *FrameQueue) RequestFrame(fn FrameFunc) {
	q.pending = append(q.pending, fn)
}

// Dispatch runs the callbacks queued so far with now and returns how many
// ran. Callbacks requested during dispatch wait for the next call.
func (q *FrameQueue) Dispatch(now time.Duration) int {
	q.running, q.pending = q.pending, q.running[:0]
	for _, fn := range q.running {
		fn(now)
	}
	n := len(q.running)
	clear(q.running)
	q.running = q.running[:0]
	return n
}

// Pending returns the number of queued callbacks.
func (q *FrameQueue) Pending() int {
	return len(q.pending)
}

// RunTicker calls tick about fps times per second with the time since start
// until ctx ends or tick returns false. It returns ctx.Err() when cancelled.
func RunTicker(ctx context.Context, fps int, tick func(now time.Duration) bool) error {
	if fps <= 0 {
		fps = 60
	}
	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()

	start := time.Now()
	if !tick(0) {
		return nil
	}
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case t := <-ticker.C:
			if !tick(t.Sub(start)) {
				return nil
			}
		}
	}
}

// InputSource yields the held actions for a frame. *input.Keys satisfies it.
type InputSource interface {
	Snapshot() input.Held
}

// Driver advances a world once per scheduled frame while it is running.
type Driver struct {
	sched  Scheduler
	world  *sim.World
	input  InputSource
	render func(w *sim.World)

	// OnStop is called after the frame that ended the run has rendered.
	OnStop func(w *sim.World)

	running bool
	primed  bool // a frame ran since Start; last is valid
	last    time.Duration
	gen     int // bumped on Start/Stop to drop stale requests
}

// NewDriver creates a stopped driver. render may be nil.
func NewDriver(sched Scheduler, world *sim.World, in InputSource, render func(w *sim.World)) *Driver {
	return &Driver{
		sched:  sched,
		world:  world,
		input:  in,
		render: render,
	}
}

// Start arms the driver and requests the first frame, whose delta is zero.
func (d *Driver) Start() {
	d.gen++
	d.running = true
	d.primed = false
	d.request()
}

// Stop halts scheduling. A frame already requested becomes a no-op.
func (d *Driver) Stop() {
	d.gen++
	d.running = false
}

// Running reports whether frames are being scheduled.
func (d *Driver) Running() bool {
	return d.running
}

func (d *Driver) request() {
	gen := d.gen
	d.sched.RequestFrame(func(now time.Duration) {
		if gen != d.gen {
			return
		}
		d.frame(now)
	})
}

func (d *Driver) frame(now time.Duration) {
	if !d.running {
		return
	}

	var dt time.Duration
	if d.primed {
		dt = max(now-d.last, 0)
	}
	d.primed = true
	d.last = now

	sim.Step(d.world, dt, d.input.Snapshot())
	if d.render != nil {
		d.render(d.world)
	}

	if d.world.Status != sim.StatusRunning {
		d.running = false
		d.gen++
		if d.OnStop != nil {
			d.OnStop(d.world)
		}
		return
	}
	d.request()
}
