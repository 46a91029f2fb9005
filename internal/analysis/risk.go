package analysis

// RiskLevel is the crowd risk classification for one frame.
type RiskLevel string

const (
	RiskLow      RiskLevel = "LOW"
	RiskModerate RiskLevel = "MODERATE"
	RiskHigh     RiskLevel = "HIGH"
)

// riskMeta carries the fixed presentation metadata attached to each level.
// The strings are part of the API contract consumed by the frontend and must
// stay stable.
var riskMeta = map[RiskLevel]struct {
	color          string
	recommendation string
}{
	RiskHigh: {
		color:          "#ff3e3e",
		recommendation: "⚠️ Danger: Critical mass detected (50+ people) in a constrained space. Alert triggered.",
	},
	RiskModerate: {
		color:          "#ff7b00",
		recommendation: "⚡ Monitor closely: Space is moderately filled or people count is rising in a compact zone.",
	},
	RiskLow: {
		color:          "#37ff8b",
		recommendation: "✅ Area clear: Safe conditions. Substantial open space available for movement.",
	},
}

// Color returns the display color associated with the level.
func (r RiskLevel) Color() string { return riskMeta[r].color }

// Recommendation returns the operator guidance text for the level.
func (r RiskLevel) Recommendation() string { return riskMeta[r].recommendation }

// ClassifyDensity maps people count and occupancy to a RiskLevel.
//
// The rules are evaluated in order, first match wins, all thresholds
// inclusive:
//
//  1. count >= 50 and occupancy >= 45.0 -> HIGH: critical mass in a
//     constrained space. A high count alone is not HIGH; the crowd must also
//     be spatially packed.
//  2. (count >= 25 and occupancy >= 30.0) or occupancy >= 40.0 -> MODERATE:
//     either a moderately dense crowd, or any scene that is spatially very
//     full regardless of how many individuals the detector separated.
//  3. otherwise -> LOW.
//
// The function is pure: no hidden state, no randomness.
func ClassifyDensity(count int, occupancy float64) RiskLevel {
	switch {
	case count >= 50 && occupancy >= 45.0:
		return RiskHigh
	case (count >= 25 && occupancy >= 30.0) || occupancy >= 40.0:
		return RiskModerate
	default:
		return RiskLow
	}
}
