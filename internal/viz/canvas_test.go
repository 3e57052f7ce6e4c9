package viz

import (
	"math"
	"strings"
	"testing"

	"github.com/san-kum/balloonar/internal/balloon"
)

func TestCanvasSetAndLit(t *testing.T) {
	c := NewCanvas(4, 2)
	w, h := c.PixelSize()
	if w != 8 || h != 8 {
		t.Fatalf("expected 8x8 sub-pixels, got %dx%d", w, h)
	}

	c.Set(3, 5)
	if !c.Lit(3, 5) {
		t.Error("expected pixel to be lit")
	}
	if c.Lit(2, 5) {
		t.Error("neighbour should not be lit")
	}

	c.Set(-1, 0)
	c.Set(100, 100)
	c.Clear()
	if c.Lit(3, 5) {
		t.Error("expected clear canvas")
	}
}

func TestCanvasFillCircle(t *testing.T) {
	c := NewCanvas(10, 5)
	c.FillCircle(10, 10, 3)

	if !c.Lit(10, 10) || !c.Lit(13, 10) || !c.Lit(10, 7) {
		t.Error("expected centre and axis points lit")
	}
	if c.Lit(13, 13) {
		t.Error("corner outside radius should not be lit")
	}
}

func TestCanvasString(t *testing.T) {
	c := NewCanvas(3, 2)
	lines := strings.Split(c.String(), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(lines))
	}
	if lines[0] != "⠀⠀⠀" {
		t.Errorf("expected blank braille row, got %q", lines[0])
	}
}

func TestCameraProjectsCentre(t *testing.T) {
	cam := NewCamera()
	cam.SetViewport(200, 100)

	x, y, depth, ok := cam.Project(balloon.Vec3{}, 200, 100)
	if !ok || x != 100 || y != 50 || depth != 5 {
		t.Errorf("origin projected to (%d, %d) depth %f ok %v", x, y, depth, ok)
	}

	_, _, _, ok = cam.Project(balloon.Vec3{Z: 6}, 200, 100)
	if ok {
		t.Error("point behind the camera should not be visible")
	}
}

func TestCameraVerticalFOV(t *testing.T) {
	cam := NewCamera()
	cam.SetViewport(100, 100)

	// At depth 5 the top edge of a 60 degree frustum is 5*tan(30deg).
	top := 5 * math.Tan(math.Pi/6)
	_, y, _, ok := cam.Project(balloon.Vec3{Y: top}, 100, 100)
	if !ok || y != 0 {
		t.Errorf("expected top edge at y=0, got %d", y)
	}
}

func TestCameraFartherIsSmaller(t *testing.T) {
	cam := NewCamera()
	near := cam.ScreenRadius(0.25, 6, 100)
	far := cam.ScreenRadius(0.25, 10, 100)
	if far >= near {
		t.Errorf("expected far radius %f < near radius %f", far, near)
	}
	if cam.ScreenRadius(1, 0, 100) != 0 {
		t.Error("zero depth should give zero radius")
	}
}
