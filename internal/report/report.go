// Package report produces the analytics dashboard payload and the
// downloadable CSV report.
//
// Both are synthetic placeholder datasets: the service keeps no history
// (persistence is a declared non-goal), so the dashboard and report surfaces
// are fed with plausible random data in the shape the frontend expects.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"math/rand"
	"time"
)

// zones are the fixed monitoring zones shown on the dashboard and in
// reports.
var zones = []string{"Main Entrance", "Food Court", "Concert Hall", "VIP Lounge"}

// Zone is a monitoring zone's current snapshot.
type Zone struct {
	Name         string `json:"name"`
	CurrentCount int    `json:"current_count"`
	Status       string `json:"status"`
}

// Analytics is the 7-day dashboard payload.
type Analytics struct {
	Labels   []string `json:"labels"`
	Datasets struct {
		TotalPeople []int     `json:"total_people"`
		AvgDensity  []float64 `json:"avg_density"`
	} `json:"datasets"`
	Zones []Zone `json:"zones"`
}

// WeeklyAnalytics builds a synthetic 7-day dataset ending today, one entry
// per weekday, plus the current zone snapshots.
func WeeklyAnalytics(now time.Time) *Analytics {
	a := &Analytics{}
	for i := 0; i < 7; i++ {
		day := now.AddDate(0, 0, -(6 - i))
		a.Labels = append(a.Labels, day.Weekday().String())
		a.Datasets.TotalPeople = append(a.Datasets.TotalPeople, 8000+rand.Intn(7001))
		density := 0.1 + rand.Float64()*0.3
		a.Datasets.AvgDensity = append(a.Datasets.AvgDensity, math.Round(density*100)/100)
	}

	statuses := []string{"Stable", "Crowded", "Normal", "Quiet"}
	counts := [][2]int{{50, 200}, {150, 400}, {100, 300}, {10, 50}}
	for i, name := range zones {
		lo, hi := counts[i][0], counts[i][1]
		a.Zones = append(a.Zones, Zone{
			Name:         name,
			CurrentCount: lo + rand.Intn(hi-lo+1),
			Status:       statuses[i],
		})
	}
	return a
}

// WriteDailyCSV writes a synthetic 24-hour report as CSV: one row per hour
// per zone, with density banded from the people count and alerts generated
// only on HIGH rows.
func WriteDailyCSV(w io.Writer, now time.Time) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Date", "Time", "Zone", "People Count", "Density Level", "Alerts Generated"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for i := 0; i < 24; i++ {
		recordTime := now.Add(-time.Duration(24-i) * time.Hour)
		for _, zone := range zones {
			count := 10 + rand.Intn(491)
			density := "LOW"
			alerts := 0
			switch {
			case count >= 300:
				density = "HIGH"
				alerts = rand.Intn(3)
			case count >= 100:
				density = "MODERATE"
			}
			record := []string{
				recordTime.Format("2006-01-02"),
				recordTime.Format("15:00"),
				zone,
				fmt.Sprintf("%d", count),
				density,
				fmt.Sprintf("%d", alerts),
			}
			if err := cw.Write(record); err != nil {
				return fmt.Errorf("failed to write CSV record: %w", err)
			}
		}
	}

	cw.Flush()
	return cw.Error()
}

// Filename returns the dated attachment name for a report download.
func Filename(now time.Time) string {
	return fmt.Sprintf("crowd_report_%s.csv", now.Format("20060102"))
}
