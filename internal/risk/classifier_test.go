package risk

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/KillMonga130/AI-agent-aws/internal/marine"
)

func calmWeather() *marine.WeatherObservation {
	return &marine.WeatherObservation{
		WaveHeightM:  0.8,
		WavePeriodS:  8,
		WindSpeedKn:  10,
		VisibilityNM: 10,
	}
}

func calmOcean() *marine.OceanObservation {
	return &marine.OceanObservation{
		CurrentU: 0.05,
		CurrentV: 0.05,
	}
}

func TestClassify(t *testing.T) {
	t.Run("calm conditions score zero", func(t *testing.T) {
		result := Classify(marine.Measurements{
			Weather: calmWeather(),
			Ocean:   calmOcean(),
		})

		assert.Equal(t, 0.0, result.Score)
		assert.Equal(t, marine.RiskLow, result.Level)
		assert.Empty(t, result.Hazards)
	})

	t.Run("severe storm hits every bucket", func(t *testing.T) {
		result := Classify(marine.Measurements{
			Weather: &marine.WeatherObservation{
				WaveHeightM:  5.5,
				WindSpeedKn:  48,
				VisibilityNM: 0.5,
			},
			Ocean: &marine.OceanObservation{
				CurrentU: 0.6, // ~3 km/h with v
				CurrentV: 0.6,
			},
		})

		assert.Equal(t, 100.0, result.Score)
		assert.Equal(t, marine.RiskSevere, result.Level)
		assert.Equal(t, []string{
			"Severe wave conditions (>4m)",
			"Gale-force winds (>40 knots)",
			"Poor visibility (<1 NM)",
			"Strong ocean currents (>2 km/h)",
		}, result.Hazards)
	})

	t.Run("only highest wave bucket counts", func(t *testing.T) {
		result := Classify(marine.Measurements{
			Weather: &marine.WeatherObservation{
				WaveHeightM:  3.0,
				WindSpeedKn:  5,
				VisibilityNM: 10,
			},
		})

		assert.Equal(t, 20.0, result.Score)
		assert.Equal(t, []string{"Significant wave conditions (2.5-4m)"}, result.Hazards)
	})

	t.Run("low buckets add score without hazard text", func(t *testing.T) {
		result := Classify(marine.Measurements{
			Weather: &marine.WeatherObservation{
				WaveHeightM:  2.0, // +10, no hazard
				WindSpeedKn:  20,  // +5, no hazard
				VisibilityNM: 10,
			},
			Ocean: &marine.OceanObservation{
				CurrentU: 0.4, // ~1.4 km/h: +8, no hazard
				CurrentV: -0.1,
			},
		})

		assert.Equal(t, 23.0, result.Score)
		assert.Equal(t, marine.RiskLow, result.Level)
		assert.Empty(t, result.Hazards)
	})

	t.Run("moderate visibility", func(t *testing.T) {
		result := Classify(marine.Measurements{
			Weather: &marine.WeatherObservation{
				WaveHeightM:  0.5,
				WindSpeedKn:  5,
				VisibilityNM: 3.0,
			},
		})

		assert.Equal(t, 15.0, result.Score)
		assert.Contains(t, result.Hazards, "Moderate visibility (1-5 NM)")
	})

	t.Run("missing weather contributes nothing", func(t *testing.T) {
		result := Classify(marine.Measurements{
			Ocean: &marine.OceanObservation{
				CurrentU: 0.8,
				CurrentV: 0.8, // ~4 km/h
			},
		})

		assert.Equal(t, 15.0, result.Score)
		assert.Equal(t, []string{"Strong ocean currents (>2 km/h)"}, result.Hazards)
	})

	t.Run("missing ocean contributes nothing", func(t *testing.T) {
		result := Classify(marine.Measurements{
			Weather: &marine.WeatherObservation{
				WaveHeightM:  5.0,
				WindSpeedKn:  10,
				VisibilityNM: 10,
			},
		})

		assert.Equal(t, 30.0, result.Score)
	})

	t.Run("no data at all scores zero", func(t *testing.T) {
		result := Classify(marine.Measurements{})

		assert.Equal(t, 0.0, result.Score)
		assert.Equal(t, marine.RiskLow, result.Level)
		assert.Empty(t, result.Hazards)
	})

	t.Run("deterministic for identical input", func(t *testing.T) {
		m := marine.Measurements{
			Weather: &marine.WeatherObservation{
				WaveHeightM:  3.2,
				WindSpeedKn:  30,
				VisibilityNM: 2.0,
			},
			Ocean: &marine.OceanObservation{CurrentU: 0.7, CurrentV: 0.3},
		}

		first := Classify(m)
		for i := 0; i < 10; i++ {
			assert.Equal(t, first, Classify(m))
		}
	})

	t.Run("score stays within bounds", func(t *testing.T) {
		result := Classify(marine.Measurements{
			Weather: &marine.WeatherObservation{
				WaveHeightM:  20,
				WindSpeedKn:  90,
				VisibilityNM: 0,
			},
			Ocean: &marine.OceanObservation{CurrentU: 5, CurrentV: 5},
		})

		assert.LessOrEqual(t, result.Score, 100.0)
		assert.GreaterOrEqual(t, result.Score, 0.0)
	})
}

func TestRiskLevelFromScore(t *testing.T) {
	cases := []struct {
		score float64
		want  marine.RiskLevel
	}{
		{0, marine.RiskLow},
		{24.9, marine.RiskLow},
		{25, marine.RiskModerate},
		{49.9, marine.RiskModerate},
		{50, marine.RiskHigh},
		{74.9, marine.RiskHigh},
		{75, marine.RiskSevere},
		{100, marine.RiskSevere},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, marine.RiskLevelFromScore(tc.score), "score %v", tc.score)
	}
}
