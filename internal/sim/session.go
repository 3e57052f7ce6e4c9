package sim

import (
	"errors"
	"math"
	"math/rand"

	"github.com/san-kum/balloonar/internal/balloon"
	"github.com/san-kum/balloonar/internal/kinematics"
	"github.com/san-kum/balloonar/internal/loudness"
	"github.com/san-kum/balloonar/internal/placement"
	"github.com/sirupsen/logrus"
)

// Session owns every piece of per-experience state: the registry, the
// placement engine, the kinematic updater, the loudness monitor and the
// random source. It is driven one frame at a time through Tick.
type Session struct {
	cfg      Config
	rng      *rand.Rand
	registry *balloon.Registry
	placer   *placement.Engine
	updater  *kinematics.Updater
	monitor  *loudness.Monitor

	state     State
	taps      int
	observers []Observer
	metrics   []Metric
	log       *logrus.Entry
}

func NewSession(cfg Config) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Session{
		cfg:      cfg,
		rng:      rand.New(rand.NewSource(cfg.Seed)),
		registry: balloon.NewRegistry(rand.New(rand.NewSource(cfg.Seed + 1))),
		placer:   placement.New(cfg.Placement),
		updater:  kinematics.New(cfg.Kinematics),
		monitor:  loudness.NewMonitor(cfg.Threshold),
		log:      logrus.WithField("component", "session"),
	}, nil
}

func (s *Session) AddObserver(o Observer) { s.observers = append(s.observers, o) }
func (s *Session) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }

func (s *Session) Config() Config              { return s.cfg }
func (s *Session) State() State                { return s.state }
func (s *Session) Registry() *balloon.Registry { return s.registry }

func (s *Session) Balloons() []*balloon.Balloon { return s.registry.All() }

// AttachAnalyser connects a loudness source. Passing nil puts the session
// in tap-only mode.
func (s *Session) AttachAnalyser(a loudness.Analyser) { s.monitor.Attach(a) }
func (s *Session) AudioAvailable() bool               { return s.monitor.Available() }

// Start moves the session from Idle to Running. Starting a running session
// does nothing.
func (s *Session) Start() {
	if s.state == Running {
		return
	}
	s.state = Running
	for _, m := range s.metrics {
		m.Reset()
	}
	s.log.WithFields(logrus.Fields{
		"seed":      s.cfg.Seed,
		"max":       s.cfg.MaxBalloons,
		"threshold": s.cfg.Threshold,
		"audio":     s.monitor.Available(),
	}).Info("Session started")
}

// Tap queues one manual spawn request for the next frame.
func (s *Session) Tap() error {
	if s.state != Running {
		return balloon.ErrNotRunning
	}
	s.taps++
	return nil
}

// Tick runs one frame: queued taps, then at most one loudness-triggered
// spawn, then the kinematic update and retirement. Idle sessions only
// report their size.
func (s *Session) Tick(ft FrameTime) TickReport {
	r := TickReport{Tick: ft.Index, Time: ft.Seconds}
	if s.state != Running {
		r.Live = s.registry.Len()
		return r
	}

	for ; s.taps > 0; s.taps-- {
		r.Taps++
		s.request(&r)
	}

	if v, ok := s.monitor.Sample(); ok {
		r.Loudness, r.Heard = v, true
		if s.monitor.Triggers(v) {
			r.Triggered = true
			s.request(&r)
		}
	}

	s.updater.AdvanceAll(s.registry.All(), ft.Seconds, s.cfg.UpperBound)
	r.Retired = s.registry.RetireExpired(s.cfg.UpperBound)
	r.Live = s.registry.Len()

	live := s.registry.All()
	for _, m := range s.metrics {
		m.Observe(r)
	}
	for _, o := range s.observers {
		o.OnTick(r, live)
	}
	return r
}

func (s *Session) request(r *TickReport) {
	if s.registry.Len() >= s.cfg.MaxBalloons {
		r.Gated++
		return
	}
	r.Attempts++

	id, err := s.spawn(r.Tick)
	if err != nil {
		r.Dropped++
		var se *balloon.SpawnError
		if errors.As(err, &se) {
			s.log.WithFields(logrus.Fields{
				"tick": se.Tick,
				"live": se.Live,
			}).Debug("Spawn dropped: no free position")
		}
		return
	}
	r.Spawned = append(r.Spawned, id)
}

func (s *Session) spawn(tick int) (balloon.ID, error) {
	p, ok := s.placer.TryPlace(s.registry.All(), s.rng)
	if !ok {
		return balloon.ID{}, &balloon.SpawnError{Tick: tick, Live: s.registry.Len(), Wrapped: balloon.ErrNoPlacement}
	}

	speed := s.cfg.MinSpeed + s.rng.Float64()*(s.cfg.MaxSpeed-s.cfg.MinSpeed)
	return s.registry.Spawn(balloon.Params{
		Position:   balloon.Vec3{X: p.X, Y: s.cfg.SpawnHeight, Z: p.Z},
		Scale:      p.Scale,
		Speed:      speed,
		SwayOffset: s.rng.Float64() * 2 * math.Pi,
		Born:       tick,
	}), nil
}

// MetricValues returns the current value of every registered metric.
func (s *Session) MetricValues() map[string]float64 {
	out := make(map[string]float64, len(s.metrics))
	for _, m := range s.metrics {
		out[m.Name()] = m.Value()
	}
	return out
}
