package gui

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/san-kum/balloonar/internal/balloon"
)

// stringThickness is the string radius at scale 1.
const stringThickness = 0.003

func vec(v balloon.Vec3) rl.Vector3 {
	return rl.NewVector3(float32(v.X), float32(v.Y), float32(v.Z))
}

func (a *App) drawBalloons() {
	for _, b := range a.Session.Balloons() {
		RenderBalloon(b)
	}
}

// RenderBalloon draws the sphere and the string hanging from its bottom.
// Must be called between BeginMode3D and EndMode3D.
func RenderBalloon(b *balloon.Balloon) {
	r := b.Radius()
	rl.DrawSphereEx(vec(b.Position), float32(r), 16, 16, ColBalloon)

	length := b.StringLength()
	base := b.Position.Sub(balloon.Vec3{Y: r + length})
	thick := float32(stringThickness * b.Scale * b.Scale)
	rl.DrawCylinder(vec(base), thick, thick, float32(length), 4, ColString)
}
