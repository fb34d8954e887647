// Package export renders run data to standalone files.
package export

import (
	"fmt"
	"math"
	"strings"
)

// ResidualsToSVG renders a residual-norm history as an SVG line chart
// on a log10 vertical axis. residuals holds squared norms, one per
// step, as stored with a run.
func ResidualsToSVG(residuals []float64, width, height int) string {
	if len(residuals) < 2 {
		return ""
	}

	logs := make([]float64, len(residuals))
	minY, maxY := math.Inf(1), math.Inf(-1)
	for i, rs := range residuals {
		norm := math.Sqrt(rs)
		v := -16.0
		if norm > 0 {
			v = math.Max(math.Log10(norm), -16)
		}
		logs[i] = v
		minY = math.Min(minY, v)
		maxY = math.Max(maxY, v)
	}
	if maxY == minY {
		maxY = minY + 1
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height))

	margin := 10.0
	plotW := float64(width) - 2*margin
	plotH := float64(height) - 2*margin

	points := make([]string, len(logs))
	for i, v := range logs {
		x := margin + plotW*float64(i)/float64(len(logs)-1)
		y := margin + plotH*(maxY-v)/(maxY-minY)
		points[i] = fmt.Sprintf("%.1f,%.1f", x, y)
	}
	sb.WriteString(fmt.Sprintf(`<polyline points="%s" fill="none" stroke="#00ff00" stroke-width="1.5"/>
`, strings.Join(points, " ")))

	sb.WriteString(fmt.Sprintf(`<text x="%.0f" y="%.0f" fill="#888888" font-family="monospace" font-size="10">log10 ||r||: %.1f .. %.1f over %d steps</text>
`, margin, float64(height)-2, minY, maxY, len(logs)))

	sb.WriteString("</svg>")
	return sb.String()
}
