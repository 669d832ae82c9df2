package export

import (
	"fmt"
	"strings"

	"github.com/san-kum/oscillab/internal/dynamo"
)

var signalColors = map[dynamo.Signal]string{
	dynamo.SignalPosition:     "#4fc3f7",
	dynamo.SignalVelocity:     "#81c784",
	dynamo.SignalAcceleration: "#ffb74d",
}

type point struct{ X, Y float64 }

// SignalsSVG stacks one panel per signal, each with its own vertical scale.
func SignalsSVG(frames []dynamo.Kinematics, width, height int) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height))

	panel := float64(height) / float64(len(dynamo.Signals))
	for i, sig := range dynamo.Signals {
		pts := make([]point, len(frames))
		for j, k := range frames {
			pts[j] = point{X: k.Time, Y: k.Get(sig)}
		}
		top := panel * float64(i)
		sb.WriteString(fmt.Sprintf(`<text x="6" y="%.1f" fill="#cccccc" font-family="monospace" font-size="12">%s</text>
`, top+14, sig))
		sb.WriteString(polyline(pts, float64(width), panel, top, signalColors[sig]))
	}

	sb.WriteString("</svg>\n")
	return sb.String()
}

// SeriesSVG renders a single signal as a standalone SVG document.
func SeriesSVG(samples []dynamo.Sample, width, height int, stroke string) string {
	if len(samples) < 2 {
		return ""
	}
	pts := make([]point, len(samples))
	for i, s := range samples {
		pts[i] = point{X: s.Time, Y: s.Value}
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height))
	sb.WriteString(polyline(pts, float64(width), float64(height), 0, stroke))
	sb.WriteString("</svg>\n")
	return sb.String()
}

func polyline(points []point, width, height, top float64, stroke string) string {
	if len(points) < 2 {
		return ""
	}

	minX, maxX := points[0].X, points[0].X
	minY, maxY := points[0].Y, points[0].Y
	for _, p := range points {
		if p.X < minX {
			minX = p.X
		}
		if p.X > maxX {
			maxX = p.X
		}
		if p.Y < minY {
			minY = p.Y
		}
		if p.Y > maxY {
			maxY = p.Y
		}
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minY -= rangeY * 0.1
	rangeY *= 1.2

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<path fill="none" stroke="%s" stroke-width="1.5" d="M`, stroke))
	for i, p := range points {
		x := (p.X - minX) / rangeX * width
		y := top + height - (p.Y-minY)/rangeY*height

		if i == 0 {
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
		}
	}
	sb.WriteString("\"/>\n")
	return sb.String()
}
