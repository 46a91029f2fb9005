package video

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// writeStubFFmpeg creates an executable script standing in for ffmpeg.
func writeStubFFmpeg(t *testing.T, script string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ffmpeg")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+script), 0o755); err != nil {
		t.Fatalf("failed to write stub ffmpeg: %v", err)
	}
	return path
}

func TestExtractFirstFrame(t *testing.T) {
	stub := writeStubFFmpeg(t, `printf 'FRAMEBYTES'`)
	e := &Extractor{FFmpegPath: stub}

	frame, err := e.ExtractFirstFrame(context.Background(), []byte("video payload"))
	if err != nil {
		t.Fatalf("ExtractFirstFrame failed: %v", err)
	}
	if string(frame) != "FRAMEBYTES" {
		t.Errorf("frame bytes: got %q", frame)
	}
}

func TestExtractFirstFrame_FFmpegFails(t *testing.T) {
	stub := writeStubFFmpeg(t, `echo "moov atom not found" >&2; exit 1`)
	e := &Extractor{FFmpegPath: stub}

	_, err := e.ExtractFirstFrame(context.Background(), []byte("not a video"))
	if !errors.Is(err, ErrNoFrame) {
		t.Fatalf("got %v, want ErrNoFrame", err)
	}
}

func TestExtractFirstFrame_EmptyOutput(t *testing.T) {
	stub := writeStubFFmpeg(t, `exit 0`)
	e := &Extractor{FFmpegPath: stub}

	_, err := e.ExtractFirstFrame(context.Background(), []byte("payload"))
	if !errors.Is(err, ErrNoFrame) {
		t.Fatalf("got %v, want ErrNoFrame", err)
	}
}

func TestExtractFirstFrame_MissingBinary(t *testing.T) {
	e := &Extractor{FFmpegPath: filepath.Join(t.TempDir(), "missing")}

	if _, err := e.ExtractFirstFrame(context.Background(), []byte("payload")); err == nil {
		t.Fatal("expected error for missing binary")
	}
}
