package metrics

import "github.com/san-kum/balloonar/internal/sim"

// SpawnRate is the mean number of balloons spawned per frame.
type SpawnRate struct {
	name    string
	spawned int
	frames  int
}

func NewSpawnRate() *SpawnRate {
	return &SpawnRate{name: "spawn_rate"}
}

func (s *SpawnRate) Name() string { return s.name }

func (s *SpawnRate) Observe(r sim.TickReport) {
	s.spawned += len(r.Spawned)
	s.frames++
}

func (s *SpawnRate) Value() float64 {
	if s.frames == 0 {
		return 0
	}
	return float64(s.spawned) / float64(s.frames)
}

func (s *SpawnRate) Reset() {
	s.spawned = 0
	s.frames = 0
}

// DropRate is the fraction of placement attempts that found no room.
type DropRate struct {
	name     string
	dropped  int
	attempts int
}

func NewDropRate() *DropRate {
	return &DropRate{name: "drop_rate"}
}

func (d *DropRate) Name() string { return d.name }

func (d *DropRate) Observe(r sim.TickReport) {
	d.dropped += r.Dropped
	d.attempts += r.Attempts
}

func (d *DropRate) Value() float64 {
	if d.attempts == 0 {
		return 0
	}
	return float64(d.dropped) / float64(d.attempts)
}

func (d *DropRate) Reset() {
	d.dropped = 0
	d.attempts = 0
}
