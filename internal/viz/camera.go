package viz

import (
	"math"

	"github.com/san-kum/balloonar/internal/balloon"
)

// Camera is a perspective camera looking down -z, the same framing the
// window host uses: eye at z = 5, 60 degree vertical field of view.
type Camera struct {
	Position  balloon.Vec3
	FOV       float64 // vertical, degrees
	Near, Far float64
	Aspect    float64
}

func NewCamera() *Camera {
	return &Camera{Position: balloon.Vec3{Z: 5}, FOV: 60, Near: 0.1, Far: 1000, Aspect: 1}
}

// SetViewport recomputes the aspect ratio for a drawable area of w x h
// pixels. It is the only state a resize touches.
func (c *Camera) SetViewport(w, h int) {
	if w > 0 && h > 0 {
		c.Aspect = float64(w) / float64(h)
	}
}

func (c *Camera) focal() float64 {
	return 1 / math.Tan(c.FOV*math.Pi/360)
}

// Project maps a world point to pixel coordinates on a w x h surface.
// depth is the distance in front of the eye; ok is false when the point is
// outside the near/far range.
func (c *Camera) Project(p balloon.Vec3, w, h int) (x, y int, depth float64, ok bool) {
	depth = c.Position.Z - p.Z
	if depth < c.Near || depth > c.Far {
		return 0, 0, depth, false
	}
	f := c.focal()
	ndcX := (p.X - c.Position.X) * f / (c.Aspect * depth)
	ndcY := (p.Y - c.Position.Y) * f / depth

	x = int(math.Round((ndcX + 1) / 2 * float64(w)))
	y = int(math.Round((1 - ndcY) / 2 * float64(h)))
	return x, y, depth, true
}

// ScreenRadius is the pixel radius of a sphere of world radius r at depth
// on a surface h pixels tall.
func (c *Camera) ScreenRadius(r, depth float64, h int) float64 {
	if depth <= 0 {
		return 0
	}
	return r * c.focal() / depth * float64(h) / 2
}
