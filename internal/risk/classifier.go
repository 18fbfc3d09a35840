package risk

import (
	"github.com/KillMonga130/AI-agent-aws/internal/marine"
)

// Classification is the result of the deterministic threshold
// classifier. It carries no reasoning text; that is the caller's job.
type Classification struct {
	Level   marine.RiskLevel
	Score   float64
	Hazards []string
}

// Classify scores a measurement set against fixed maritime safety
// thresholds. Each factor contributes the penalty of its highest
// matching bucket only; the total is clamped to [0,100]. Absent
// observations contribute neither penalty nor hazard.
//
// The function is pure: same input, same output, no side effects.
func Classify(m marine.Measurements) Classification {
	score := 0.0
	hazards := []string{}

	if w := m.Weather; w != nil {
		switch {
		case w.WaveHeightM > 4.0:
			score += 30
			hazards = append(hazards, "Severe wave conditions (>4m)")
		case w.WaveHeightM > 2.5:
			score += 20
			hazards = append(hazards, "Significant wave conditions (2.5-4m)")
		case w.WaveHeightM > 1.5:
			score += 10
		}

		switch {
		case w.WindSpeedKn > 40:
			score += 30
			hazards = append(hazards, "Gale-force winds (>40 knots)")
		case w.WindSpeedKn > 25:
			score += 15
			hazards = append(hazards, "Strong winds (25-40 knots)")
		case w.WindSpeedKn > 15:
			score += 5
		}

		switch {
		case w.VisibilityNM < 1.0:
			score += 25
			hazards = append(hazards, "Poor visibility (<1 NM)")
		case w.VisibilityNM < 5.0:
			score += 15
			hazards = append(hazards, "Moderate visibility (1-5 NM)")
		}
	}

	if o := m.Ocean; o != nil {
		switch current := o.CurrentSpeedKmh(); {
		case current > 2.0:
			score += 15
			hazards = append(hazards, "Strong ocean currents (>2 km/h)")
		case current > 1.0:
			score += 8
		}
	}

	if score > 100 {
		score = 100
	}

	return Classification{
		Level:   marine.RiskLevelFromScore(score),
		Score:   score,
		Hazards: hazards,
	}
}
