// Package gvision implements the detection engine boundary on Google Cloud
// Vision object localization, for deployments without a local inference
// sidecar.
//
// Cloud Vision reports objects by name with normalized bounding polygons.
// "Person" annotations are mapped to category 0 (the COCO person index) so
// the default adapter configuration works unchanged; everything else maps to
// category -1 and is filtered out by the adapter. The IoU parameter is
// accepted for interface compatibility but not honored — the managed service
// exposes no suppression knob.
package gvision

import (
	"bytes"
	"context"
	"fmt"
	"image"

	vision "cloud.google.com/go/vision/v2/apiv1"
	"cloud.google.com/go/vision/v2/apiv1/visionpb"
	"github.com/disintegration/imaging"

	"github.com/crowdguardian/sentinel/internal/analysis"
)

// personCategory is the category reported for "Person" annotations.
const personCategory = 0

// Detector is an analysis.Engine backed by the Cloud Vision API.
type Detector struct {
	client *vision.ImageAnnotatorClient
}

var _ analysis.Engine = (*Detector)(nil)

// New creates a Detector using Application Default Credentials.
func New(ctx context.Context) (*Detector, error) {
	client, err := vision.NewImageAnnotatorClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create vision client: %w", err)
	}
	return &Detector{client: client}, nil
}

// Close releases the underlying API client.
func (d *Detector) Close() error {
	return d.client.Close()
}

// Detect runs object localization on the frame and returns the person
// detections scaled to frame pixel space.
func (d *Detector) Detect(ctx context.Context, frame image.Image, params analysis.DetectParams) ([]analysis.RawDetection, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, frame, imaging.JPEG); err != nil {
		return nil, fmt.Errorf("failed to encode frame: %w", err)
	}

	req := &visionpb.BatchAnnotateImagesRequest{
		Requests: []*visionpb.AnnotateImageRequest{
			{
				Image: &visionpb.Image{Content: buf.Bytes()},
				Features: []*visionpb.Feature{
					{Type: visionpb.Feature_OBJECT_LOCALIZATION},
				},
			},
		},
	}

	resp, err := d.client.BatchAnnotateImages(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("vision API request failed: %w", err)
	}
	if len(resp.Responses) == 0 {
		return nil, nil
	}
	if resp.Responses[0].Error != nil {
		return nil, fmt.Errorf("vision API error: %s", resp.Responses[0].Error.Message)
	}

	bounds := frame.Bounds()
	return annotationsToRaw(resp.Responses[0].LocalizedObjectAnnotations,
		float64(bounds.Dx()), float64(bounds.Dy()), params.Confidence), nil
}

// annotationsToRaw converts normalized object annotations to pixel-space raw
// detections, dropping those below the confidence threshold.
func annotationsToRaw(annotations []*visionpb.LocalizedObjectAnnotation, w, h, minConfidence float64) []analysis.RawDetection {
	raw := make([]analysis.RawDetection, 0, len(annotations))
	for _, ann := range annotations {
		if float64(ann.Score) < minConfidence {
			continue
		}

		category := -1
		if ann.Name == "Person" {
			category = personCategory
		}

		x1, y1 := w, h
		var x2, y2 float64
		for _, v := range ann.BoundingPoly.GetNormalizedVertices() {
			x := float64(v.X) * w
			y := float64(v.Y) * h
			if x < x1 {
				x1 = x
			}
			if x > x2 {
				x2 = x
			}
			if y < y1 {
				y1 = y
			}
			if y > y2 {
				y2 = y
			}
		}

		raw = append(raw, analysis.RawDetection{
			X1:         x1,
			Y1:         y1,
			X2:         x2,
			Y2:         y2,
			Confidence: float64(ann.Score),
			Category:   category,
		})
	}
	return raw
}
