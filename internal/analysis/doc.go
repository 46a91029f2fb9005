// Package analysis implements the single-frame crowd analysis pipeline.
//
// Given raw image bytes and a person-detection engine, the pipeline decodes
// the frame, collects person detections, derives crowd metrics (people count
// and spatial occupancy), classifies a risk level, synthesizes a density
// heatmap, and renders an annotated composite image. The terminal artifact is
// a Result value carrying the metrics, the bounding boxes, and the composite
// encoded as base64 JPEG.
//
// # Coordinate System
//
// All pixel coordinates are 0-based with the origin at the top-left corner:
// X increases rightward, Y increases downward. Detection coordinates are
// floating point in frame pixel space, clamped to [0,w] x [0,h].
//
// # Occupancy Semantics
//
// Occupancy is the sum of individual detection-box footprints relative to the
// frame area, with overlap deliberately not deduplicated: overlapping boxes
// indicate people packed into the same space, which is exactly the condition
// the risk classifier must react to. The percentage is clamped to 100.
//
// # Concurrency
//
// A pipeline invocation allocates only per-call buffers and shares no state
// with other invocations. The only shared resource is the Engine; engines
// provided by this repository are safe for concurrent use, and custom engines
// must either be safe or serialize internally.
//
// # Error Handling
//
// A failing stage aborts the whole invocation; no partial results are
// returned. Undecodable input surfaces ErrDecode, engine failures and
// malformed engine output surface as *DetectionError. An empty crowd is not
// an error: zero detections yield occupancy 0 and risk LOW.
package analysis
