package analysis

import "testing"

func TestEstimateOccupancy_NoDetections(t *testing.T) {
	if got := EstimateOccupancy(nil, 1920, 1080); got != 0 {
		t.Errorf("occupancy with no detections: got %v, want 0", got)
	}
}

func TestEstimateOccupancy_ZeroAreaFrame(t *testing.T) {
	dets := []Detection{{X1: 0, Y1: 0, X2: 10, Y2: 10, Confidence: 0.9}}
	if got := EstimateOccupancy(dets, 0, 0); got != 0 {
		t.Errorf("occupancy with zero-area frame: got %v, want 0", got)
	}
	if got := EstimateOccupancy(dets, 100, 0); got != 0 {
		t.Errorf("occupancy with zero-height frame: got %v, want 0", got)
	}
}

func TestEstimateOccupancy_SingleBox(t *testing.T) {
	// One 100x100 box in a 1000x100 frame covers 10% exactly.
	dets := []Detection{{X1: 0, Y1: 0, X2: 100, Y2: 100}}
	if got := EstimateOccupancy(dets, 1000, 100); got != 10.0 {
		t.Errorf("occupancy: got %v, want 10.0", got)
	}
}

func TestEstimateOccupancy_RoundsToOneDecimal(t *testing.T) {
	// 111x100 box in 1000x100 frame: 11.1% exactly after rounding.
	dets := []Detection{{X1: 0, Y1: 0, X2: 111, Y2: 100}}
	if got := EstimateOccupancy(dets, 1000, 100); got != 11.1 {
		t.Errorf("occupancy: got %v, want 11.1", got)
	}

	// 123.4x100 box: 12.34% rounds to 12.3.
	dets = []Detection{{X1: 0, Y1: 0, X2: 123.4, Y2: 100}}
	if got := EstimateOccupancy(dets, 1000, 100); got != 12.3 {
		t.Errorf("occupancy: got %v, want 12.3", got)
	}
}

func TestEstimateOccupancy_OverlapNotDeduplicated(t *testing.T) {
	// Two identical boxes count twice even though they cover the same pixels.
	box := Detection{X1: 0, Y1: 0, X2: 100, Y2: 100}
	single := EstimateOccupancy([]Detection{box}, 1000, 100)
	double := EstimateOccupancy([]Detection{box, box}, 1000, 100)
	if double != single*2 {
		t.Errorf("overlapping boxes: got %v, want %v", double, single*2)
	}
}

func TestEstimateOccupancy_ClampedTo100(t *testing.T) {
	// Summed areas at 3x the frame area must still report 100.
	box := Detection{X1: 0, Y1: 0, X2: 100, Y2: 100}
	got := EstimateOccupancy([]Detection{box, box, box}, 100, 100)
	if got != 100 {
		t.Errorf("occupancy: got %v, want 100", got)
	}
}

func TestEstimateOccupancy_MonotonicInBoxArea(t *testing.T) {
	prev := 0.0
	for width := 10.0; width <= 100; width += 10 {
		dets := []Detection{{X1: 0, Y1: 0, X2: width, Y2: 50}}
		got := EstimateOccupancy(dets, 500, 500)
		if got < prev {
			t.Fatalf("occupancy decreased from %v to %v as box grew", prev, got)
		}
		prev = got
	}
}
