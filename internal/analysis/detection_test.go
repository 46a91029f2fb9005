package analysis

import (
	"context"
	"errors"
	"image"
	"image/color"
	"testing"
)

// stubEngine is a canned Engine for tests. It records the params it was
// called with and returns a fixed detection list or error.
type stubEngine struct {
	detections []RawDetection
	err        error
	gotParams  DetectParams
}

func (s *stubEngine) Detect(_ context.Context, _ image.Image, params DetectParams) ([]RawDetection, error) {
	s.gotParams = params
	if s.err != nil {
		return nil, s.err
	}
	return s.detections, nil
}

func testFrame(w, h int) image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{128, 128, 128, 255})
		}
	}
	return img
}

func TestAdapter_FiltersToPersonCategory(t *testing.T) {
	engine := &stubEngine{detections: []RawDetection{
		{X1: 10, Y1: 10, X2: 50, Y2: 90, Confidence: 0.9, Category: 0},
		{X1: 60, Y1: 10, X2: 90, Y2: 90, Confidence: 0.8, Category: 2}, // car
		{X1: 20, Y1: 20, X2: 40, Y2: 80, Confidence: 0.7, Category: 0},
	}}
	adapter := NewAdapter(engine, DefaultAdapterConfig())

	dets, err := adapter.Detect(context.Background(), testFrame(100, 100))
	if err != nil {
		t.Fatalf("Detect failed: %v", err)
	}
	if len(dets) != 2 {
		t.Fatalf("got %d detections, want 2 (non-person filtered)", len(dets))
	}
}

func TestAdapter_InjectedPersonCategory(t *testing.T) {
	engine := &stubEngine{detections: []RawDetection{
		{X1: 10, Y1: 10, X2: 50, Y2: 90, Confidence: 0.9, Category: 0},
		{X1: 60, Y1: 10, X2: 90, Y2: 90, Confidence: 0.8, Category: 7},
	}}
	cfg := DefaultAdapterConfig()
	cfg.PersonCategory = 7
	adapter := NewAdapter(engine, cfg)

	dets, err := adapter.Detect(context.Background(), testFrame(100, 100))
	if err != nil {
		t.Fatalf("Detect failed: %v", err)
	}
	if len(dets) != 1 || dets[0].X1 != 60 {
		t.Fatalf("category mapping not honored: %+v", dets)
	}
}

func TestAdapter_ForwardsCrowdTunedDefaults(t *testing.T) {
	engine := &stubEngine{}
	adapter := NewAdapter(engine, AdapterConfig{})

	if _, err := adapter.Detect(context.Background(), testFrame(10, 10)); err != nil {
		t.Fatalf("Detect failed: %v", err)
	}
	if engine.gotParams.Confidence != 0.15 {
		t.Errorf("confidence threshold: got %v, want 0.15", engine.gotParams.Confidence)
	}
	if engine.gotParams.IoU != 0.45 {
		t.Errorf("iou threshold: got %v, want 0.45", engine.gotParams.IoU)
	}
}

func TestAdapter_ClampsCoordinatesToFrame(t *testing.T) {
	engine := &stubEngine{detections: []RawDetection{
		{X1: -15.5, Y1: -3, X2: 120, Y2: 110.2, Confidence: 0.5, Category: 0},
	}}
	adapter := NewAdapter(engine, DefaultAdapterConfig())

	dets, err := adapter.Detect(context.Background(), testFrame(100, 100))
	if err != nil {
		t.Fatalf("Detect failed: %v", err)
	}
	d := dets[0]
	if d.X1 != 0 || d.Y1 != 0 || d.X2 != 100 || d.Y2 != 100 {
		t.Errorf("coordinates not clamped: %+v", d)
	}
}

func TestAdapter_RoundsConfidence(t *testing.T) {
	engine := &stubEngine{detections: []RawDetection{
		{X1: 0, Y1: 0, X2: 10, Y2: 10, Confidence: 0.87654, Category: 0},
	}}
	adapter := NewAdapter(engine, DefaultAdapterConfig())

	dets, err := adapter.Detect(context.Background(), testFrame(100, 100))
	if err != nil {
		t.Fatalf("Detect failed: %v", err)
	}
	if dets[0].Confidence != 0.88 {
		t.Errorf("confidence: got %v, want 0.88", dets[0].Confidence)
	}
}

func TestAdapter_EngineFailure(t *testing.T) {
	engine := &stubEngine{err: errors.New("inference backend down")}
	adapter := NewAdapter(engine, DefaultAdapterConfig())

	_, err := adapter.Detect(context.Background(), testFrame(100, 100))
	var detErr *DetectionError
	if !errors.As(err, &detErr) {
		t.Fatalf("got %v, want *DetectionError", err)
	}
}

func TestAdapter_MalformedOutput(t *testing.T) {
	malformed := []RawDetection{
		{X1: 50, Y1: 0, X2: 10, Y2: 10, Confidence: 0.5, Category: 0}, // inverted box
		{X1: 0, Y1: 0, X2: 10, Y2: 10, Confidence: 1.5, Category: 0},  // confidence > 1
		{X1: 0, Y1: 0, X2: 10, Y2: 10, Confidence: -0.1, Category: 0}, // confidence < 0
	}
	for i, raw := range malformed {
		engine := &stubEngine{detections: []RawDetection{raw}}
		adapter := NewAdapter(engine, DefaultAdapterConfig())

		_, err := adapter.Detect(context.Background(), testFrame(100, 100))
		var detErr *DetectionError
		if !errors.As(err, &detErr) {
			t.Errorf("case %d: got %v, want *DetectionError", i, err)
		}
	}
}
