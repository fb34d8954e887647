package export

import (
	"strings"
	"testing"
)

func TestResidualsToSVG(t *testing.T) {
	svg := ResidualsToSVG([]float64{1.0, 0.25, 0.0625, 0}, 400, 200)

	if !strings.HasPrefix(svg, `<?xml version="1.0"`) {
		t.Error("missing XML header")
	}
	if !strings.Contains(svg, "<polyline") {
		t.Error("missing polyline element")
	}
	if !strings.Contains(svg, "4 steps") {
		t.Error("missing step count label")
	}
	if !strings.HasSuffix(svg, "</svg>") {
		t.Error("unterminated SVG document")
	}
}

func TestResidualsToSVGTooShort(t *testing.T) {
	if svg := ResidualsToSVG([]float64{1.0}, 400, 200); svg != "" {
		t.Error("expected empty output for a single sample")
	}
}

func TestResidualsToSVGFlatSeries(t *testing.T) {
	svg := ResidualsToSVG([]float64{1.0, 1.0, 1.0}, 400, 200)
	if svg == "" {
		t.Fatal("flat series should still render")
	}
	if strings.Contains(svg, "NaN") {
		t.Error("flat series produced NaN coordinates")
	}
}
