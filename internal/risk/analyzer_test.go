package risk

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KillMonga130/AI-agent-aws/internal/marine"
)

type stubReasoner struct {
	response string
	err      error
	prompt   string
}

func (s *stubReasoner) AnalyzeRisk(_ context.Context, conditions string) (string, error) {
	s.prompt = conditions
	return s.response, s.err
}

type captureAudit struct {
	keys   []string
	values []interface{}
	err    error
}

func (c *captureAudit) Put(_ context.Context, key string, value interface{}) error {
	c.keys = append(c.keys, key)
	c.values = append(c.values, value)
	return c.err
}

func testMeasurements() marine.Measurements {
	return marine.Measurements{
		Location: marine.Location{Latitude: -33.9249, Longitude: 18.4241, Name: "Cape Town"},
		Weather: &marine.WeatherObservation{
			WaveHeightM:  2.1,
			WindSpeedKn:  18,
			VisibilityNM: 8,
		},
		Ocean: &marine.OceanObservation{
			SeaSurfaceHeightM: 0.3,
			CurrentU:          0.2,
			CurrentV:          0.1,
			SeaSurfaceTempC:   16.5,
			SalinityPSU:       35.1,
		},
		Timestamp: time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC),
	}
}

func TestAnalyzerAssess(t *testing.T) {
	clock := clockwork.NewFakeClockAt(time.Date(2024, 6, 15, 12, 30, 0, 0, time.UTC))

	t.Run("structured response from reasoner", func(t *testing.T) {
		reasoner := &stubReasoner{response: `{"risk_level": "LOW", "risk_score": 15, "confidence": 90}`}
		analyzer := NewAnalyzer(reasoner, nil, clock)

		interp := analyzer.Assess(context.Background(), testMeasurements())

		assert.Equal(t, OutcomeParsed, interp.Outcome)
		assert.Equal(t, marine.RiskLow, interp.Assessment.Level)
		assert.Equal(t, 15.0, interp.Assessment.Score)
	})

	t.Run("conditions report carries measurements", func(t *testing.T) {
		reasoner := &stubReasoner{response: "{}"}
		analyzer := NewAnalyzer(reasoner, nil, clock)

		analyzer.Assess(context.Background(), testMeasurements())

		assert.Contains(t, reasoner.prompt, "MARINE CONDITIONS REPORT")
		assert.Contains(t, reasoner.prompt, "Cape Town")
		assert.Contains(t, reasoner.prompt, "Wave Height: 2.1 meters")
		assert.Contains(t, reasoner.prompt, "Salinity: 35.1 PSU")
	})

	t.Run("reasoner failure yields safety default", func(t *testing.T) {
		reasoner := &stubReasoner{err: errors.New("connection refused")}
		analyzer := NewAnalyzer(reasoner, nil, clock)

		interp := analyzer.Assess(context.Background(), testMeasurements())

		assert.Equal(t, OutcomeSafetyDefault, interp.Outcome)
		assert.Equal(t, marine.RiskHigh, interp.Assessment.Level)
		assert.Equal(t, 75.0, interp.Assessment.Score)
		assert.InDelta(t, 0.3, interp.Assessment.Confidence, 1e-9)
	})

	t.Run("assessment persisted to audit store", func(t *testing.T) {
		reasoner := &stubReasoner{response: `{"risk_level": "MODERATE"}`}
		audit := &captureAudit{}
		analyzer := NewAnalyzer(reasoner, audit, clock)

		analyzer.Assess(context.Background(), testMeasurements())

		require.Len(t, audit.keys, 1)
		assert.True(t, strings.HasPrefix(audit.keys[0], "assessments/-33.9249_18.4241/"))
		assessment, ok := audit.values[0].(marine.RiskAssessment)
		require.True(t, ok)
		assert.Equal(t, marine.RiskModerate, assessment.Level)
	})

	t.Run("audit write failure does not propagate", func(t *testing.T) {
		reasoner := &stubReasoner{response: "{}"}
		audit := &captureAudit{err: errors.New("redis down")}
		analyzer := NewAnalyzer(reasoner, audit, clock)

		assert.NotPanics(t, func() {
			interp := analyzer.Assess(context.Background(), testMeasurements())
			assert.Equal(t, OutcomeParsed, interp.Outcome)
		})
	})
}

func TestConditionsReport(t *testing.T) {
	t.Run("missing sections noted explicitly", func(t *testing.T) {
		report := ConditionsReport(marine.Measurements{
			Location: marine.Location{Latitude: 1, Longitude: 2},
		})

		assert.Contains(t, report, "No weather data available")
		assert.Contains(t, report, "No ocean data available")
	})

	t.Run("ocean current rendered as speed", func(t *testing.T) {
		m := testMeasurements()
		report := ConditionsReport(m)

		assert.Contains(t, report, "Current Velocity:")
		assert.NotContains(t, report, "No ocean data available")
	})
}
