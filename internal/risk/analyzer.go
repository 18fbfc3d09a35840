package risk

import (
	"context"
	"fmt"
	"strings"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/KillMonga130/AI-agent-aws/internal/marine"
	"github.com/KillMonga130/AI-agent-aws/pkg/logger"
)

// Reasoner is the slice of the reasoning service the analyzer needs.
type Reasoner interface {
	AnalyzeRisk(ctx context.Context, conditions string) (string, error)
}

// AuditStore persists assessments for the audit trail. Write failures
// are the store's problem, not the pipeline's.
type AuditStore interface {
	Put(ctx context.Context, key string, value interface{}) error
}

// Analyzer runs the risk-analysis stage: it asks the reasoning service
// for an assessment of the measured conditions and structures whatever
// comes back. The stage cannot fail; every error path resolves to a
// fallback assessment.
type Analyzer struct {
	reasoner Reasoner
	audit    AuditStore
	clock    clockwork.Clock
}

func NewAnalyzer(reasoner Reasoner, audit AuditStore, clock clockwork.Clock) *Analyzer {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Analyzer{
		reasoner: reasoner,
		audit:    audit,
		clock:    clock,
	}
}

// Assess produces a risk assessment for the given measurements.
func (a *Analyzer) Assess(ctx context.Context, m marine.Measurements) Interpretation {
	now := a.clock.Now().UTC()

	response, err := a.reasoner.AnalyzeRisk(ctx, ConditionsReport(m))
	var interp Interpretation
	if err != nil {
		logger.Error("Risk analysis reasoning call failed",
			zap.Error(err),
			zap.String("location", m.Location.String()),
		)
		interp = SafetyDefault(err, now)
	} else {
		interp = Interpret(response, m, now)
	}

	a.persist(ctx, m.Location, interp.Assessment)

	logger.Info("Risk analysis completed",
		zap.String("location", m.Location.String()),
		zap.String("risk_level", string(interp.Assessment.Level)),
		zap.Float64("risk_score", interp.Assessment.Score),
		zap.String("outcome", string(interp.Outcome)),
	)

	return interp
}

func (a *Analyzer) persist(ctx context.Context, loc marine.Location, assessment marine.RiskAssessment) {
	if a.audit == nil {
		return
	}

	key := fmt.Sprintf("assessments/%v_%v/%s",
		loc.Latitude, loc.Longitude, assessment.Timestamp.Format("2006-01-02T15:04:05Z07:00"))
	if err := a.audit.Put(ctx, key, assessment); err != nil {
		logger.Warn("Failed to persist assessment to audit store",
			zap.Error(err),
			zap.String("key", key),
		)
	}
}

// ConditionsReport renders measurements into the plain-text report the
// reasoning service is prompted with.
func ConditionsReport(m marine.Measurements) string {
	var b strings.Builder

	b.WriteString("MARINE CONDITIONS REPORT\n")
	fmt.Fprintf(&b, "Location: %s\n", m.Location.String())
	fmt.Fprintf(&b, "Timestamp: %s\n", m.Timestamp.UTC().Format("2006-01-02T15:04:05Z07:00"))

	b.WriteString("\nWEATHER CONDITIONS:\n")
	if w := m.Weather; w != nil {
		fmt.Fprintf(&b, "- Wave Height: %.1f meters\n", w.WaveHeightM)
		fmt.Fprintf(&b, "- Wave Direction: %.0f degrees\n", w.WaveDirectionDeg)
		fmt.Fprintf(&b, "- Wave Period: %.1f seconds\n", w.WavePeriodS)
		fmt.Fprintf(&b, "- Wind Speed: %.1f knots\n", w.WindSpeedKn)
		fmt.Fprintf(&b, "- Wind Direction: %.0f degrees\n", w.WindDirectionDeg)
		fmt.Fprintf(&b, "- Visibility: %.1f nautical miles\n", w.VisibilityNM)
	} else {
		b.WriteString("- No weather data available\n")
	}

	b.WriteString("\nOCEAN CONDITIONS:\n")
	if o := m.Ocean; o != nil {
		fmt.Fprintf(&b, "- Sea Surface Height: %.2f meters\n", o.SeaSurfaceHeightM)
		fmt.Fprintf(&b, "- Current Velocity: %.2f km/h\n", o.CurrentSpeedKmh())
		fmt.Fprintf(&b, "- Current Direction (U,V): (%.2f, %.2f) m/s\n", o.CurrentU, o.CurrentV)
		fmt.Fprintf(&b, "- Sea Surface Temperature: %.1f C\n", o.SeaSurfaceTempC)
		fmt.Fprintf(&b, "- Salinity: %.1f PSU\n", o.SalinityPSU)
	} else {
		b.WriteString("- No ocean data available\n")
	}

	return b.String()
}
