package analysis

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"

	"github.com/disintegration/imaging"
)

// jpegQuality is the encoder quality for the composite result image.
const jpegQuality = 90

// Result is the terminal artifact of one pipeline invocation. Its JSON shape
// is the API contract consumed by the frontend.
type Result struct {
	// PeopleCount is the number of person detections in the frame.
	PeopleCount int `json:"people_count"`

	// DensityLevel is the classified crowd risk: LOW, MODERATE or HIGH.
	DensityLevel RiskLevel `json:"density_level"`

	// DensityColor is the fixed display color for DensityLevel.
	DensityColor string `json:"density_color"`

	// Occupancy is the summed-footprint coverage percentage, one decimal.
	Occupancy float64 `json:"occupancy"`

	// Recommendation is the operator guidance text for DensityLevel.
	Recommendation string `json:"recommendation"`

	// BoundingBoxes lists the normalized detections; always exactly
	// PeopleCount entries.
	BoundingBoxes []Detection `json:"bounding_boxes"`

	// ResultImage is the annotated composite, JPEG encoded at quality 90
	// and base64 encoded for embedding in a JSON response.
	ResultImage string `json:"result_image"`

	ImageWidth  int `json:"image_width"`
	ImageHeight int `json:"image_height"`
}

// Analyzer orchestrates the analysis pipeline for single frames. It owns no
// mutable state beyond the detection adapter, so one Analyzer can serve
// concurrent requests.
type Analyzer struct {
	adapter *Adapter
}

// NewAnalyzer creates an Analyzer using the given detection engine and
// adapter configuration.
func NewAnalyzer(engine Engine, cfg AdapterConfig) *Analyzer {
	return &Analyzer{adapter: NewAdapter(engine, cfg)}
}

// Analyze runs the full pipeline on raw image bytes:
// decode -> detect -> {occupancy, risk} -> heatmap -> annotate/composite.
//
// Any stage failure aborts the invocation; no partial result is returned.
// Undecodable bytes yield an error wrapping ErrDecode, engine problems an
// error wrapping *DetectionError.
func (a *Analyzer) Analyze(ctx context.Context, frameBytes []byte) (*Result, error) {
	frame, err := imaging.Decode(bytes.NewReader(frameBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	bounds := frame.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	detections, err := a.adapter.Detect(ctx, frame)
	if err != nil {
		return nil, err
	}

	occupancy := EstimateOccupancy(detections, w, h)
	level := ClassifyDensity(len(detections), occupancy)

	heatmap := SynthesizeHeatmap(detections, w, h)
	annotated := Annotate(frame, detections)
	composite := Composite(annotated, heatmap.Overlay())

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, composite, imaging.JPEG, imaging.JPEGQuality(jpegQuality)); err != nil {
		return nil, fmt.Errorf("failed to encode result image: %w", err)
	}

	return &Result{
		PeopleCount:    len(detections),
		DensityLevel:   level,
		DensityColor:   level.Color(),
		Occupancy:      occupancy,
		Recommendation: level.Recommendation(),
		BoundingBoxes:  detections,
		ResultImage:    base64.StdEncoding.EncodeToString(buf.Bytes()),
		ImageWidth:     w,
		ImageHeight:    h,
	}, nil
}
