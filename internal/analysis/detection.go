package analysis

import (
	"context"
	"fmt"
	"image"
	"math"
)

// Detection is a single person detection in frame pixel space.
//
// The coordinate convention follows standard image bounds:
//   - (X1, Y1) is the top-left corner
//   - (X2, Y2) is the bottom-right corner
//   - X2 >= X1 and Y2 >= Y1, all coordinates clamped to the frame
//
// Confidence is the engine's score for the detection, rounded to two
// decimals, in [0, 1].
type Detection struct {
	X1         float64 `json:"x1"`
	Y1         float64 `json:"y1"`
	X2         float64 `json:"x2"`
	Y2         float64 `json:"y2"`
	Confidence float64 `json:"confidence"`
}

// Width returns the horizontal extent of the detection box in pixels.
func (d Detection) Width() float64 { return d.X2 - d.X1 }

// Height returns the vertical extent of the detection box in pixels.
func (d Detection) Height() float64 { return d.Y2 - d.Y1 }

// Area returns the box footprint in square pixels.
func (d Detection) Area() float64 { return d.Width() * d.Height() }

// RawDetection is one uninterpreted detection as reported by an Engine.
// Category is the engine's own class index; the mapping from category to
// "person" belongs to the Adapter configuration, not to the engine.
type RawDetection struct {
	X1, Y1, X2, Y2 float64
	Confidence     float64
	Category       int
}

// DetectParams are the tuning parameters forwarded to the engine.
type DetectParams struct {
	// Confidence is the minimum score for a detection to be reported.
	Confidence float64

	// IoU is the overlap threshold used for duplicate-box suppression.
	IoU float64
}

// Engine is the boundary to an external person-detection capability.
//
// Implementations must be safe for concurrent use or serialize internally;
// the pipeline performs no locking around Detect calls.
type Engine interface {
	Detect(ctx context.Context, frame image.Image, params DetectParams) ([]RawDetection, error)
}

// AdapterConfig tunes the detection adapter.
type AdapterConfig struct {
	// PersonCategory is the engine category index that represents a person.
	// For COCO-ordered detectors this is 0.
	PersonCategory int

	// Confidence is the minimum detection score. The default 0.15 is
	// intentionally permissive so partially occluded people in dense
	// crowds are still counted.
	Confidence float64

	// IoU is the overlap-suppression threshold. The default 0.45 is strict
	// enough to keep heavily overlapping crowd detections apart.
	IoU float64
}

// DefaultAdapterConfig returns the crowd-tuned adapter defaults.
func DefaultAdapterConfig() AdapterConfig {
	return AdapterConfig{
		PersonCategory: 0,
		Confidence:     0.15,
		IoU:            0.45,
	}
}

// Adapter normalizes raw engine output into the pipeline's Detection list:
// it filters to the configured person category, validates the geometry,
// clamps coordinates to the frame, and rounds confidences to two decimals.
type Adapter struct {
	engine Engine
	cfg    AdapterConfig
}

// NewAdapter creates an Adapter around the given engine. Zero-valued
// Confidence or IoU fall back to the crowd-tuned defaults.
func NewAdapter(engine Engine, cfg AdapterConfig) *Adapter {
	def := DefaultAdapterConfig()
	if cfg.Confidence == 0 {
		cfg.Confidence = def.Confidence
	}
	if cfg.IoU == 0 {
		cfg.IoU = def.IoU
	}
	return &Adapter{engine: engine, cfg: cfg}
}

// Detect runs the engine on the frame and returns the normalized person
// detections. Engine failures and malformed engine output are reported as
// *DetectionError.
func (a *Adapter) Detect(ctx context.Context, frame image.Image) ([]Detection, error) {
	bounds := frame.Bounds()
	w := float64(bounds.Dx())
	h := float64(bounds.Dy())

	raw, err := a.engine.Detect(ctx, frame, DetectParams{
		Confidence: a.cfg.Confidence,
		IoU:        a.cfg.IoU,
	})
	if err != nil {
		return nil, &DetectionError{Err: err}
	}

	detections := make([]Detection, 0, len(raw))
	for i, r := range raw {
		if r.Category != a.cfg.PersonCategory {
			continue
		}
		if err := validateRaw(r); err != nil {
			return nil, &DetectionError{Err: fmt.Errorf("detection %d: %w", i, err)}
		}
		detections = append(detections, Detection{
			X1:         clamp(r.X1, 0, w),
			Y1:         clamp(r.Y1, 0, h),
			X2:         clamp(r.X2, 0, w),
			Y2:         clamp(r.Y2, 0, h),
			Confidence: math.Round(r.Confidence*100) / 100,
		})
	}
	return detections, nil
}

// validateRaw rejects engine output that violates the detection contract.
func validateRaw(r RawDetection) error {
	for _, v := range []float64{r.X1, r.Y1, r.X2, r.Y2, r.Confidence} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("non-finite value in detection %+v", r)
		}
	}
	if r.X2 < r.X1 || r.Y2 < r.Y1 {
		return fmt.Errorf("inverted box (%.1f,%.1f)-(%.1f,%.1f)", r.X1, r.Y1, r.X2, r.Y2)
	}
	if r.Confidence < 0 || r.Confidence > 1 {
		return fmt.Errorf("confidence %f outside [0,1]", r.Confidence)
	}
	return nil
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
