// Package video reduces video input to the still-image pipeline by
// extracting the first decodable frame.
//
// Extraction shells out to the ffmpeg binary rather than linking libav: the
// service needs exactly one frame per upload, which does not justify a cgo
// dependency on the full ffmpeg library suite.
package video

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
)

// ErrNoFrame indicates the video contained no readable frame.
var ErrNoFrame = errors.New("could not read video frame")

// DefaultFFmpegPath is used when an Extractor is created with an empty path,
// resolving ffmpeg via PATH.
const DefaultFFmpegPath = "ffmpeg"

// Extractor extracts first frames from video payloads using ffmpeg.
// The zero value is usable and resolves ffmpeg via PATH.
type Extractor struct {
	// FFmpegPath overrides the ffmpeg binary location.
	FFmpegPath string
}

// ExtractFirstFrame decodes the first frame of the video payload and returns
// it as JPEG bytes, ready to feed into the image analysis pipeline.
//
// Unreadable or frameless input yields an error wrapping ErrNoFrame. Other
// failures (temp file I/O, missing binary) are reported as-is.
func (e *Extractor) ExtractFirstFrame(ctx context.Context, videoBytes []byte) ([]byte, error) {
	tmp, err := os.CreateTemp("", "sentinel-upload-*.mp4")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(videoBytes); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("failed to close temp file: %w", err)
	}

	ffmpeg := e.FFmpegPath
	if ffmpeg == "" {
		ffmpeg = DefaultFFmpegPath
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, ffmpeg,
		"-i", tmp.Name(),
		"-frames:v", "1",
		"-f", "image2",
		"-c:v", "mjpeg",
		"pipe:1",
	)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: ffmpeg: %v (%s)", ErrNoFrame, err, firstLine(stderr.Bytes()))
	}
	if stdout.Len() == 0 {
		return nil, fmt.Errorf("%w: ffmpeg produced no output", ErrNoFrame)
	}

	return stdout.Bytes(), nil
}

// firstLine trims ffmpeg's stderr chatter down to its last meaningful line,
// which is where ffmpeg reports the actual failure.
func firstLine(stderr []byte) string {
	lines := bytes.Split(bytes.TrimSpace(stderr), []byte("\n"))
	if len(lines) == 0 {
		return ""
	}
	return string(bytes.TrimSpace(lines[len(lines)-1]))
}
