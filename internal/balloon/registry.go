package balloon

import (
	"io"

	"github.com/google/uuid"
)

// Registry holds the live balloons in creation order.
type Registry struct {
	balloons []*Balloon
	entropy  io.Reader
}

// NewRegistry creates an empty registry. Balloon ids are drawn from
// entropy so that a seeded session produces the same ids on every run; a
// nil entropy falls back to crypto randomness.
func NewRegistry(entropy io.Reader) *Registry {
	return &Registry{
		balloons: make([]*Balloon, 0, 20),
		entropy:  entropy,
	}
}

func (r *Registry) newID() ID {
	if r.entropy != nil {
		if id, err := uuid.NewRandomFromReader(r.entropy); err == nil {
			return id
		}
	}
	return uuid.New()
}

// Spawn appends a balloon built from p and returns its id.
func (r *Registry) Spawn(p Params) ID {
	b := &Balloon{
		ID:         r.newID(),
		Position:   p.Position,
		Scale:      p.Scale,
		Speed:      p.Speed,
		SwayOffset: p.SwayOffset,
		Born:       p.Born,
	}
	r.balloons = append(r.balloons, b)
	return b.ID
}

// RetireExpired removes every balloon whose y exceeds bound. The scan runs
// from the newest balloon to the oldest and removes in place; ids are
// returned in scan order.
func (r *Registry) RetireExpired(bound float64) []ID {
	var retired []ID
	for i := len(r.balloons) - 1; i >= 0; i-- {
		b := r.balloons[i]
		if b.Position.Y <= bound {
			continue
		}
		retired = append(retired, b.ID)
		copy(r.balloons[i:], r.balloons[i+1:])
		r.balloons[len(r.balloons)-1] = nil
		r.balloons = r.balloons[:len(r.balloons)-1]
	}
	return retired
}

// All returns the live balloons in creation order. The slice is a copy;
// the balloons are shared.
func (r *Registry) All() []*Balloon {
	out := make([]*Balloon, len(r.balloons))
	copy(out, r.balloons)
	return out
}

func (r *Registry) Len() int { return len(r.balloons) }

// Get looks up a live balloon by id.
func (r *Registry) Get(id ID) (*Balloon, bool) {
	for _, b := range r.balloons {
		if b.ID == id {
			return b, true
		}
	}
	return nil, false
}

// Clear drops every balloon without reporting retirements.
func (r *Registry) Clear() {
	for i := range r.balloons {
		r.balloons[i] = nil
	}
	r.balloons = r.balloons[:0]
}
