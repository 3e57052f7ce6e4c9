package balloon

import (
	"math"

	"github.com/google/uuid"
)

// Rendered geometry, relative to scale squared: the mesh is sized by scale
// and the whole group is scaled again.
const (
	RadiusFactor       = 0.25
	StringLengthFactor = 0.4
)

type Vec3 struct {
	X, Y, Z float64
}

func (v Vec3) Add(o Vec3) Vec3      { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }
func (v Vec3) Sub(o Vec3) Vec3      { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }
func (v Vec3) Scale(s float64) Vec3 { return Vec3{v.X * s, v.Y * s, v.Z * s} }
func (v Vec3) Length() float64      { return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z) }

// PlanarDistance is the distance between v and o in the (x, z) plane.
func (v Vec3) PlanarDistance(o Vec3) float64 {
	dx, dz := v.X-o.X, v.Z-o.Z
	return math.Sqrt(dx*dx + dz*dz)
}

type ID = uuid.UUID

// Balloon is a single rising balloon. Scale, Speed and SwayOffset are fixed
// at creation; Position changes every frame.
type Balloon struct {
	ID         ID
	Position   Vec3
	Scale      float64
	Speed      float64
	SwayOffset float64
	Born       int
}

// Radius is the rendered sphere radius.
func (b *Balloon) Radius() float64 { return RadiusFactor * b.Scale * b.Scale }

// StringLength is the rendered length of the string hanging under the sphere.
func (b *Balloon) StringLength() float64 { return StringLengthFactor * b.Scale * b.Scale }

// Params describes a balloon about to be spawned.
type Params struct {
	Position   Vec3
	Scale      float64
	Speed      float64
	SwayOffset float64
	Born       int
}
