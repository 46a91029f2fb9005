// Command sentinel runs the CrowdGuardian crowd-density analysis service.
//
// It exposes the image analysis pipeline over HTTP (see internal/server for
// the routes) using either a local YOLO inference sidecar or the Google
// Cloud Vision API as the person-detection engine.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/crowdguardian/sentinel/internal/alert"
	"github.com/crowdguardian/sentinel/internal/analysis"
	"github.com/crowdguardian/sentinel/internal/engine/gvision"
	"github.com/crowdguardian/sentinel/internal/engine/yolohttp"
	"github.com/crowdguardian/sentinel/internal/server"
	"github.com/crowdguardian/sentinel/internal/video"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("sentinel %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		}
	}

	var (
		addr       = flag.String("addr", envOr("SENTINEL_ADDR", ":5000"), "listen address")
		engineName = flag.String("engine", envOr("SENTINEL_ENGINE", "yolohttp"), "detection engine: yolohttp or gvision")
		yoloURL    = flag.String("yolo-url", envOr("SENTINEL_YOLO_URL", "http://127.0.0.1:8500"), "YOLO inference sidecar base URL")
		personCat  = flag.Int("person-category", envIntOr("SENTINEL_PERSON_CATEGORY", 0), "engine category index for the person class")
		confidence = flag.Float64("confidence", envFloatOr("SENTINEL_CONFIDENCE", 0.15), "detection confidence threshold")
		iou        = flag.Float64("iou", envFloatOr("SENTINEL_IOU", 0.45), "detection overlap-suppression threshold")
		ntfyTopic  = flag.String("ntfy-topic", envOr("SENTINEL_NTFY_TOPIC", alert.DefaultTopic), "ntfy.sh topic for HIGH risk alerts (empty disables)")
		staticDir  = flag.String("static-dir", envOr("SENTINEL_STATIC_DIR", "."), "directory the frontend is served from")
		ffmpegPath = flag.String("ffmpeg", envOr("SENTINEL_FFMPEG", video.DefaultFFmpegPath), "ffmpeg binary for video frame extraction")
	)
	flag.Parse()

	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	engine, cleanup, err := buildEngine(*engineName, *yoloURL)
	if err != nil {
		log.Fatalf("Failed to initialize detection engine: %v", err)
	}
	if cleanup != nil {
		defer cleanup()
	}

	analyzer := analysis.NewAnalyzer(engine, analysis.AdapterConfig{
		PersonCategory: *personCat,
		Confidence:     *confidence,
		IoU:            *iou,
	})

	opts := []server.Option{
		server.WithExtractor(&video.Extractor{FFmpegPath: *ffmpegPath}),
		server.WithStaticDir(*staticDir),
	}
	if *ntfyTopic != "" {
		opts = append(opts, server.WithNotifier(alert.NewNtfyNotifier(*ntfyTopic)))
	}

	srv := server.New(analyzer, opts...)

	log.Printf("CrowdGuardian Sentinel %s listening on %s (engine: %s)", Version, *addr, *engineName)
	if err := srv.Router().Run(*addr); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

// buildEngine constructs the configured detection engine and an optional
// cleanup function.
func buildEngine(name, yoloURL string) (analysis.Engine, func(), error) {
	switch name {
	case "yolohttp":
		return yolohttp.New(yoloURL, 30*time.Second), nil, nil
	case "gvision":
		detector, err := gvision.New(context.Background())
		if err != nil {
			return nil, nil, err
		}
		return detector, func() { detector.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown engine %q", name)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		var n int
		if _, err := fmt.Sscanf(v, "%d", &n); err == nil {
			return n
		}
	}
	return fallback
}

func envFloatOr(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		var f float64
		if _, err := fmt.Sscanf(v, "%f", &f); err == nil {
			return f
		}
	}
	return fallback
}
