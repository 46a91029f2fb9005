package analysis

import (
	"testing"
)

func TestSynthesizeHeatmap_NoDetections(t *testing.T) {
	field := SynthesizeHeatmap(nil, 64, 48)
	if field.W != 64 || field.H != 48 {
		t.Fatalf("field dimensions: got %dx%d, want 64x48", field.W, field.H)
	}
	if field.Max() != 0 {
		t.Errorf("field with no detections has max %v, want 0", field.Max())
	}
}

func TestSynthesizeHeatmap_NormalizedToOne(t *testing.T) {
	dets := []Detection{
		{X1: 10, Y1: 10, X2: 30, Y2: 40, Confidence: 0.9},
		{X1: 50, Y1: 20, X2: 70, Y2: 60, Confidence: 0.8},
	}
	field := SynthesizeHeatmap(dets, 100, 80)
	if got := field.Max(); got != 1.0 {
		t.Errorf("normalized max: got %v, want exactly 1.0", got)
	}
	for i, v := range field.Values {
		if v < 0 || v > 1 {
			t.Fatalf("value %v at index %d outside [0,1]", v, i)
		}
	}
}

func TestSynthesizeHeatmap_HotAtCenter(t *testing.T) {
	// A single detection centered in the frame must be hotter at its center
	// than at the frame corner.
	dets := []Detection{{X1: 40, Y1: 30, X2: 60, Y2: 50}}
	field := SynthesizeHeatmap(dets, 100, 80)

	center := field.At(50, 40)
	corner := field.At(0, 0)
	if center <= corner {
		t.Errorf("center %v not hotter than corner %v", center, corner)
	}
	if center != 1.0 {
		t.Errorf("single-splat center: got %v, want 1.0", center)
	}
}

func TestSynthesizeHeatmap_SplatClippedAtEdges(t *testing.T) {
	// A detection hugging the frame corner must not panic and must still
	// produce a normalized field.
	dets := []Detection{{X1: 0, Y1: 0, X2: 10, Y2: 10}}
	field := SynthesizeHeatmap(dets, 32, 32)
	if field.Max() != 1.0 {
		t.Errorf("max: got %v, want 1.0", field.Max())
	}
}

func TestSynthesizeHeatmap_ZeroAreaFrame(t *testing.T) {
	field := SynthesizeHeatmap([]Detection{{X1: 0, Y1: 0, X2: 5, Y2: 5}}, 0, 0)
	if len(field.Values) != 0 {
		t.Errorf("zero-area frame produced %d values", len(field.Values))
	}
}

func TestHeatmapOverlay(t *testing.T) {
	dets := []Detection{{X1: 20, Y1: 20, X2: 40, Y2: 40}}
	field := SynthesizeHeatmap(dets, 200, 200)
	overlay := field.Overlay()

	bounds := overlay.Bounds()
	if bounds.Dx() != 200 || bounds.Dy() != 200 {
		t.Fatalf("overlay dimensions: got %dx%d, want 200x200", bounds.Dx(), bounds.Dy())
	}

	// The hottest cell maps to the top of the jet ramp (red dominant), a far
	// corner to the bottom (blue dominant).
	hot := overlay.NRGBAAt(30, 30)
	if hot.R <= hot.B {
		t.Errorf("hot cell not red dominant: %+v", hot)
	}

	cold := overlay.NRGBAAt(199, 199)
	if cold.B <= cold.R {
		t.Errorf("cold cell not blue dominant: %+v", cold)
	}
}

func TestJetLUTEndpoints(t *testing.T) {
	low := jetLUT[0]
	if low.B == 0 || low.R != 0 || low.G != 0 {
		t.Errorf("jet low endpoint not dark blue: %+v", low)
	}
	high := jetLUT[255]
	if high.R == 0 || high.G != 0 || high.B != 0 {
		t.Errorf("jet high endpoint not dark red: %+v", high)
	}
}
