// Package alert turns risk assessments into user-facing maritime
// safety alerts.
package alert

import (
	"fmt"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/KillMonga130/AI-agent-aws/internal/marine"
	"github.com/KillMonga130/AI-agent-aws/pkg/logger"
)

const maxListedItems = 5

var levelDescriptions = map[marine.AlertLevel]string{
	marine.AlertInformational: "Safe conditions for all vessel types. Routine monitoring recommended.",
	marine.AlertAdvisory:      "Proceed with caution. Small craft should monitor closely.",
	marine.AlertWarning:       "Challenging conditions. Small vessels should postpone. Enhanced monitoring required.",
	marine.AlertUrgent:        "Hazardous conditions. All non-essential operations should cease. Immediate action required.",
}

// Composer builds alerts from risk assessments. Compose never fails;
// an unusable assessment yields a fixed degraded alert instead.
type Composer struct {
	validityHours int
	clock         clockwork.Clock
}

func NewComposer(validityHours int, clock clockwork.Clock) *Composer {
	if validityHours <= 0 {
		validityHours = 24
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Composer{
		validityHours: validityHours,
		clock:         clock,
	}
}

// Compose maps the assessment to an alert level and renders the alert
// message.
func (c *Composer) Compose(assessment marine.RiskAssessment) marine.Alert {
	now := c.clock.Now().UTC()

	if assessment.Level == "" && assessment.Score == 0 && assessment.Reasoning == "" {
		logger.Warn("Assessment unusable, issuing degraded alert")
		return Degraded(now)
	}

	level := MapRiskToAlertLevel(assessment.Level)
	a := marine.Alert{
		Level:     level,
		RiskScore: assessment.Score,
		Text:      composeMessage(assessment, level, c.validityHours),
		Metrics: map[string]interface{}{
			"risk_level":            string(assessment.Level),
			"confidence":            assessment.Confidence,
			"hazards_count":         len(assessment.Hazards),
			"recommendations_count": len(assessment.Recommendations),
		},
		ValidityHours: c.validityHours,
		Timestamp:     now,
	}

	logger.Info("Alert generated",
		zap.String("alert_level", string(level)),
		zap.Float64("risk_score", assessment.Score),
	)

	return a
}

// Degraded is the fixed fallback alert for when no usable assessment
// exists. WARNING rather than INFORMATIONAL: absence of analysis is
// treated as elevated risk.
func Degraded(now time.Time) marine.Alert {
	return marine.Alert{
		Level:         marine.AlertWarning,
		RiskScore:     50,
		Text:          "Unable to generate alert. Recommend caution and contact authorities.",
		ValidityHours: 24,
		Timestamp:     now,
	}
}

// MapRiskToAlertLevel maps risk levels onto the alert scale. Anything
// unrecognized (including UNKNOWN) becomes ADVISORY: a safe middle
// default that never understates an unclear situation as purely
// informational.
func MapRiskToAlertLevel(level marine.RiskLevel) marine.AlertLevel {
	switch marine.RiskLevel(strings.ToUpper(string(level))) {
	case marine.RiskLow:
		return marine.AlertInformational
	case marine.RiskModerate:
		return marine.AlertAdvisory
	case marine.RiskHigh:
		return marine.AlertWarning
	case marine.RiskSevere:
		return marine.AlertUrgent
	default:
		return marine.AlertAdvisory
	}
}

func composeMessage(assessment marine.RiskAssessment, level marine.AlertLevel, validityHours int) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s - Maritime Safety Alert\n", level)
	fmt.Fprintf(&b, "Issued: %s\n", assessment.Timestamp.UTC().Format("2006-01-02 15:04 UTC"))
	fmt.Fprintf(&b, "Risk Score: %.0f/100 (Confidence: %.0f%%)\n", assessment.Score, assessment.Confidence*100)

	b.WriteString("\nASSESSMENT:\n")
	b.WriteString(levelDescriptions[level])
	b.WriteString("\n")

	b.WriteString("\nANALYSIS:\n")
	b.WriteString(assessment.Reasoning)
	b.WriteString("\n")

	if len(assessment.Hazards) > 0 {
		b.WriteString("\nIDENTIFIED HAZARDS:\n")
		for i, hazard := range limit(assessment.Hazards, maxListedItems) {
			fmt.Fprintf(&b, "  %d. %s\n", i+1, hazard)
		}
	}

	if len(assessment.Recommendations) > 0 {
		b.WriteString("\nRECOMMENDATIONS:\n")
		for i, rec := range limit(assessment.Recommendations, maxListedItems) {
			fmt.Fprintf(&b, "  %d. %s\n", i+1, rec)
		}
	}

	fmt.Fprintf(&b, "\nVALIDITY PERIOD: Next %d hours\n", validityHours)

	return b.String()
}

func limit(items []string, n int) []string {
	if len(items) > n {
		return items[:n]
	}
	return items
}
