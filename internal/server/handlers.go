package server

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/crowdguardian/sentinel/internal/analysis"
	"github.com/crowdguardian/sentinel/internal/report"
	"github.com/crowdguardian/sentinel/internal/video"
)

// errorResponse is the failure payload for all API endpoints.
type errorResponse struct {
	Error string `json:"error"`
}

// videoExtensions lists the upload extensions routed through first-frame
// extraction instead of direct image decoding.
var videoExtensions = map[string]bool{
	".mp4":  true,
	".avi":  true,
	".mov":  true,
	".mkv":  true,
	".webm": true,
}

// handleAnalyze accepts a multipart upload under the "file" field and runs
// the analysis pipeline on it. Video uploads are reduced to their first
// frame. On HIGH risk the notifier is fired asynchronously; the response
// never waits for it.
func (s *Server) handleAnalyze(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "No file uploaded"})
		return
	}
	if fileHeader.Filename == "" {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "No file selected"})
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		s.metrics.ObserveFailure("internal")
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "Could not read upload"})
		return
	}
	defer f.Close()

	fileBytes, err := io.ReadAll(f)
	if err != nil {
		s.metrics.ObserveFailure("internal")
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "Could not read upload"})
		return
	}

	ctx := c.Request.Context()

	if videoExtensions[strings.ToLower(filepath.Ext(fileHeader.Filename))] {
		fileBytes, err = s.extractFrame(ctx, fileBytes)
		if err != nil {
			status := http.StatusInternalServerError
			if errors.Is(err, video.ErrNoFrame) {
				status = http.StatusBadRequest
			}
			s.metrics.ObserveFailure("extract")
			c.JSON(status, errorResponse{Error: "Could not read video frame"})
			return
		}
	}

	result, err := s.analyzer.Analyze(ctx, fileBytes)
	if err != nil {
		switch {
		case errors.Is(err, analysis.ErrDecode):
			s.metrics.ObserveFailure("decode")
			c.JSON(http.StatusBadRequest, errorResponse{Error: "Could not decode image"})
		default:
			slog.Error("analysis failed", "error", err, "file", fileHeader.Filename)
			s.metrics.ObserveFailure("detection")
			c.JSON(http.StatusInternalServerError, errorResponse{Error: err.Error()})
		}
		return
	}

	s.metrics.ObserveAnalysis(string(result.DensityLevel), result.PeopleCount)

	if result.DensityLevel == analysis.RiskHigh && s.notifier != nil {
		go func(count int) {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := s.notifier.HighRisk(ctx, count); err != nil {
				slog.Warn("failed to send high risk alert", "error", err)
			}
		}(result.PeopleCount)
	}

	c.JSON(http.StatusOK, result)
}

func (s *Server) extractFrame(ctx context.Context, videoBytes []byte) ([]byte, error) {
	if s.extractor == nil {
		return nil, errors.New("video uploads are not supported")
	}
	return s.extractor.ExtractFirstFrame(ctx, videoBytes)
}

// handleAnalytics serves the synthetic 7-day dashboard dataset.
func (s *Server) handleAnalytics(c *gin.Context) {
	c.JSON(http.StatusOK, report.WeeklyAnalytics(time.Now()))
}

// handleReportDownload streams the synthetic 24h CSV report as an
// attachment.
func (s *Server) handleReportDownload(c *gin.Context) {
	now := time.Now()
	c.Header("Content-Disposition", "attachment;filename="+report.Filename(now))
	c.Header("Content-Type", "text/csv")
	c.Status(http.StatusOK)
	if err := report.WriteDailyCSV(c.Writer, now); err != nil {
		slog.Error("failed to write report", "error", err)
	}
}
