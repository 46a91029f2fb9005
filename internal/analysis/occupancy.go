package analysis

import "math"

// EstimateOccupancy computes the percentage of the frame area covered by the
// sum of detection box footprints, rounded to one decimal and clamped to 100.
//
// Overlap between boxes is not deduplicated: two people standing in front of
// each other contribute two full footprints. Under heavy overlap the sum can
// exceed the true covered area, which is intentional — overlap itself is a
// crowding signal and must push the occupancy (and with it the classifier)
// upward rather than cancel out.
//
// A zero-area frame yields 0.
func EstimateOccupancy(detections []Detection, w, h int) float64 {
	totalArea := float64(w) * float64(h)
	if totalArea <= 0 {
		return 0
	}

	var personArea float64
	for _, d := range detections {
		personArea += d.Area()
	}

	occupancy := math.Round(personArea/totalArea*100*10) / 10
	if occupancy > 100 {
		occupancy = 100
	}
	return occupancy
}
