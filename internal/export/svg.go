package export

import (
	"fmt"
	"sort"
	"strings"

	"github.com/san-kum/balloonar/internal/balloon"
	"github.com/san-kum/balloonar/internal/viz"
)

const (
	SkyColor     = "#87CEEB"
	BalloonColor = "#ff0000"
	StringColor  = "#333333"
)

// SceneSVG renders balloons through cam as a width x height SVG. Farther
// balloons are drawn first so nearer ones cover them.
func SceneSVG(balloons []*balloon.Balloon, cam viz.Camera, width, height int, background string) string {
	cam.SetViewport(width, height)

	type disc struct {
		x, y, r float64
		tailY   float64
		depth   float64
	}
	discs := make([]disc, 0, len(balloons))
	for _, b := range balloons {
		x, y, depth, ok := cam.Project(b.Position, width, height)
		if !ok {
			continue
		}
		r := cam.ScreenRadius(b.Radius(), depth, height)
		tail := cam.ScreenRadius(b.StringLength(), depth, height)
		discs = append(discs, disc{x: float64(x), y: float64(y), r: r, tailY: float64(y) + r + tail, depth: depth})
	}
	sort.Slice(discs, func(i, j int) bool { return discs[i].depth > discs[j].depth })

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
`, width, height, width, height, background)

	for _, d := range discs {
		fmt.Fprintf(&sb, `<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="%s" stroke-width="1"/>
<circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s"/>
`, d.x, d.y+d.r, d.x, d.tailY, StringColor, d.x, d.y, d.r, BalloonColor)
	}

	sb.WriteString("</svg>")
	return sb.String()
}

// SeriesSVG draws a per-frame series as a polyline, frame index on x.
func SeriesSVG(values []float64, width, height int, strokeColor string) string {
	if len(values) < 2 {
		return ""
	}

	minY, maxY := values[0], values[0]
	for _, v := range values {
		if v < minY {
			minY = v
		}
		if v > maxY {
			maxY = v
		}
	}

	rangeY := maxY - minY
	if rangeY == 0 {
		rangeY = 1
	}
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeY = maxY - minY
	rangeX := float64(len(values) - 1)

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		width, height, width, height, strokeColor)

	for i, v := range values {
		x := float64(i) / rangeX * float64(width)
		y := float64(height) - (v-minY)/rangeY*float64(height)
		if i == 0 {
			fmt.Fprintf(&sb, "%.1f,%.1f", x, y)
		} else {
			fmt.Fprintf(&sb, " L%.1f,%.1f", x, y)
		}
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}
