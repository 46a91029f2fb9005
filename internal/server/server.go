// Package server exposes the crowd analysis pipeline as a REST API.
//
// Routes:
//
//	POST /api/analyze          multipart upload, image or video
//	GET  /api/analytics        7-day dashboard dataset
//	GET  /api/reports/download 24h CSV report attachment
//	GET  /metrics              Prometheus metrics
//	/                          static frontend files
package server

import (
	"context"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/crowdguardian/sentinel/internal/alert"
	"github.com/crowdguardian/sentinel/internal/analysis"
	"github.com/crowdguardian/sentinel/internal/metrics"
)

// FrameExtractor is the video boundary consumed by the analyze handler. On
// success the extracted frame is fed through the same image pipeline as a
// still upload.
type FrameExtractor interface {
	ExtractFirstFrame(ctx context.Context, videoBytes []byte) ([]byte, error)
}

// Server wires the pipeline, the video boundary, alerting, and metrics into
// an HTTP API.
type Server struct {
	analyzer  *analysis.Analyzer
	extractor FrameExtractor
	notifier  alert.Notifier
	metrics   *metrics.Metrics
	staticDir string
}

// Option customizes a Server.
type Option func(*Server)

// WithExtractor sets the video frame extractor. Without one, video uploads
// are rejected.
func WithExtractor(e FrameExtractor) Option {
	return func(s *Server) { s.extractor = e }
}

// WithNotifier sets the HIGH-risk alert notifier. Without one, no alerts are
// sent.
func WithNotifier(n alert.Notifier) Option {
	return func(s *Server) { s.notifier = n }
}

// WithStaticDir sets the directory the frontend is served from. Empty
// disables static serving.
func WithStaticDir(dir string) Option {
	return func(s *Server) { s.staticDir = dir }
}

// New creates a Server around the given analyzer.
func New(analyzer *analysis.Analyzer, opts ...Option) *Server {
	s := &Server{
		analyzer: analyzer,
		metrics:  metrics.New(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Router builds the gin engine with all routes registered. CORS is fully
// permissive, matching the open frontend the service ships with.
func (s *Server) Router() *gin.Engine {
	r := gin.Default()
	r.Use(cors.Default())

	api := r.Group("/api")
	{
		api.POST("/analyze", s.handleAnalyze)
		api.GET("/analytics", s.handleAnalytics)
		api.GET("/reports/download", s.handleReportDownload)
	}

	r.GET("/metrics", gin.WrapH(s.metrics.Handler()))

	if s.staticDir != "" {
		r.NoRoute(gin.WrapH(http.FileServer(http.Dir(s.staticDir))))
	}

	return r
}
