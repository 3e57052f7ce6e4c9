package sim

import (
	"context"
	"fmt"
)

// Driver runs a session against a clock.
type Driver struct {
	session *Session
	clock   Clock
}

func NewDriver(s *Session, c Clock) *Driver {
	return &Driver{session: s, clock: c}
}

// Run starts the session if needed and ticks it until frames ticks have
// elapsed or ctx is done. frames == 0 runs until cancellation; the partial
// result is returned together with ctx.Err().
func (d *Driver) Run(ctx context.Context, frames int) (*Result, error) {
	if frames < 0 {
		return nil, fmt.Errorf("frames must be non-negative, got %d", frames)
	}
	defer d.clock.Stop()

	capacity := frames
	if capacity == 0 {
		capacity = 1024
	}
	result := &Result{
		Seed:     d.session.cfg.Seed,
		Live:     make([]float64, 0, capacity),
		Loudness: make([]float64, 0, capacity),
		Metrics:  make(map[string]float64),
	}

	d.session.Start()

	for frames == 0 || result.Frames < frames {
		ft, err := d.clock.Next(ctx)
		if err != nil {
			d.finish(result)
			return result, err
		}
		d.record(result, d.session.Tick(ft))
	}

	d.finish(result)
	return result, nil
}

// RunWithCallback ticks the session until callback returns false or ctx is
// done. It is used by interactive hosts that render every frame.
func (d *Driver) RunWithCallback(ctx context.Context, callback func(TickReport) bool) error {
	defer d.clock.Stop()
	d.session.Start()

	for {
		ft, err := d.clock.Next(ctx)
		if err != nil {
			return err
		}
		if !callback(d.session.Tick(ft)) {
			return nil
		}
	}
}

func (d *Driver) record(res *Result, r TickReport) {
	res.Frames++
	res.Attempts += r.Attempts
	res.Spawned += len(r.Spawned)
	res.Dropped += r.Dropped
	res.Gated += r.Gated
	res.Retired += len(r.Retired)
	if r.Live > res.PeakLive {
		res.PeakLive = r.Live
	}
	res.Live = append(res.Live, float64(r.Live))
	res.Loudness = append(res.Loudness, r.Loudness)
}

func (d *Driver) finish(res *Result) {
	for name, v := range d.session.MetricValues() {
		res.Metrics[name] = v
	}
}
