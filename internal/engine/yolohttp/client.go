// Package yolohttp implements the detection engine boundary against a YOLO
// inference sidecar speaking HTTP.
//
// The sidecar owns the model weights and runs the actual inference; this
// package only ships frames over and parses results. The wire protocol is
// deliberately small: a JPEG-encoded frame is POSTed to /detect with the
// confidence and IoU thresholds as query parameters, and the sidecar answers
// with a JSON detection list carrying the raw class index of every box.
package yolohttp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/disintegration/imaging"

	"github.com/crowdguardian/sentinel/internal/analysis"
)

// DefaultTimeout bounds one inference round trip.
const DefaultTimeout = 30 * time.Second

// Client is an analysis.Engine backed by an HTTP inference sidecar.
// The zero-state client is stateless and safe for concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

var _ analysis.Engine = (*Client)(nil)

// New creates a Client for the sidecar at baseURL (e.g. "http://127.0.0.1:8500").
// A non-positive timeout falls back to DefaultTimeout.
func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// detectResponse is the sidecar's answer payload.
type detectResponse struct {
	Detections []struct {
		X1         float64 `json:"x1"`
		Y1         float64 `json:"y1"`
		X2         float64 `json:"x2"`
		Y2         float64 `json:"y2"`
		Confidence float64 `json:"confidence"`
		Class      int     `json:"class"`
	} `json:"detections"`
}

// Detect ships the frame to the sidecar and returns its raw detections.
func (c *Client) Detect(ctx context.Context, frame image.Image, params analysis.DetectParams) ([]analysis.RawDetection, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, frame, imaging.JPEG); err != nil {
		return nil, fmt.Errorf("failed to encode frame: %w", err)
	}

	endpoint := fmt.Sprintf("%s/detect?%s", c.baseURL, url.Values{
		"conf": {strconv.FormatFloat(params.Confidence, 'f', -1, 64)},
		"iou":  {strconv.FormatFloat(params.IoU, 'f', -1, 64)},
	}.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &buf)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "image/jpeg")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("inference request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("inference sidecar returned status %d", resp.StatusCode)
	}

	var payload detectResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode inference response: %w", err)
	}

	raw := make([]analysis.RawDetection, 0, len(payload.Detections))
	for _, d := range payload.Detections {
		raw = append(raw, analysis.RawDetection{
			X1:         d.X1,
			Y1:         d.Y1,
			X2:         d.X2,
			Y2:         d.Y2,
			Confidence: d.Confidence,
			Category:   d.Class,
		})
	}
	return raw, nil
}
