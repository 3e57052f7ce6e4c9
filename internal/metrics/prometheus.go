package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/san-kum/balloonar/internal/balloon"
	"github.com/san-kum/balloonar/internal/sim"
)

const namespace = "balloonar"

// Collector exports per-frame session activity as Prometheus series. It
// is attached to a session as an observer.
type Collector struct {
	frames   prometheus.Counter
	spawned  prometheus.Counter
	dropped  prometheus.Counter
	gated    prometheus.Counter
	retired  prometheus.Counter
	taps     prometheus.Counter
	live     prometheus.Gauge
	loudness prometheus.Histogram
}

func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	counter := func(name, help string) prometheus.Counter {
		return prometheus.NewCounter(prometheus.CounterOpts{Namespace: namespace, Name: name, Help: help})
	}
	c := &Collector{
		frames:  counter("frames_total", "Frames ticked while running."),
		spawned: counter("spawned_total", "Balloons spawned."),
		dropped: counter("dropped_total", "Spawn attempts dropped for lack of room."),
		gated:   counter("gated_total", "Spawn requests refused at capacity."),
		retired: counter("retired_total", "Balloons retired above the upper bound."),
		taps:    counter("taps_total", "Manual spawn requests."),
		live: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "live_balloons",
			Help:      "Balloons alive at the end of the last frame.",
		}),
		loudness: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "loudness",
			Help:      "Sampled loudness on the 0-255 analyser scale.",
			Buckets:   prometheus.LinearBuckets(0, 32, 8),
		}),
	}

	for _, col := range []prometheus.Collector{
		c.frames, c.spawned, c.dropped, c.gated, c.retired, c.taps, c.live, c.loudness,
	} {
		if err := reg.Register(col); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func (c *Collector) OnTick(r sim.TickReport, live []*balloon.Balloon) {
	c.frames.Inc()
	c.spawned.Add(float64(len(r.Spawned)))
	c.dropped.Add(float64(r.Dropped))
	c.gated.Add(float64(r.Gated))
	c.retired.Add(float64(len(r.Retired)))
	c.taps.Add(float64(r.Taps))
	c.live.Set(float64(len(live)))
	if r.Heard {
		c.loudness.Observe(r.Loudness)
	}
}
