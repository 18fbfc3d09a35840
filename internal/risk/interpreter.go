package risk

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/KillMonga130/AI-agent-aws/internal/marine"
)

// Outcome tags how an assessment was obtained. The three variants
// replace exception-driven control flow: a response either parsed,
// degraded to keyword heuristics, or the whole stage failed and the
// safety-biased default applies.
type Outcome string

const (
	OutcomeParsed        Outcome = "parsed"
	OutcomeHeuristic     Outcome = "heuristic"
	OutcomeSafetyDefault Outcome = "safety_default"
)

// Interpretation couples a risk assessment with the outcome variant
// that produced it.
type Interpretation struct {
	Assessment marine.RiskAssessment
	Outcome    Outcome
}

// Degraded reports whether the assessment came from a fallback path.
func (i Interpretation) Degraded() bool {
	return i.Outcome != OutcomeParsed
}

// llmAssessment mirrors the JSON object the reasoning service is asked
// to produce. Fields are loosely typed: the model does not always
// honor the schema, and a malformed field must degrade to its default
// rather than reject the whole response.
type llmAssessment struct {
	RiskLevel       string        `json:"risk_level"`
	RiskScore       interface{}   `json:"risk_score"`
	Hazards         []interface{} `json:"hazards"`
	Recommendations []interface{} `json:"recommendations"`
	Confidence      interface{}   `json:"confidence"`
}

// Interpret turns the raw text of a reasoning response into a risk
// assessment. It never fails: if no JSON object can be recovered from
// the text, keyword heuristics over the raw response decide the level
// and the deterministic classifier supplies the hazards.
func Interpret(raw string, m marine.Measurements, now time.Time) Interpretation {
	if parsed, ok := parseResponse(raw); ok {
		return Interpretation{
			Assessment: assessmentFromParsed(parsed, raw, now),
			Outcome:    OutcomeParsed,
		}
	}

	return Interpretation{
		Assessment: assessmentFromKeywords(raw, m, now),
		Outcome:    OutcomeHeuristic,
	}
}

// SafetyDefault is the assessment used when the analysis stage itself
// fails, e.g. the reasoning service is unreachable. It deliberately
// reports elevated risk: a broken assessment must never read as LOW.
func SafetyDefault(err error, now time.Time) Interpretation {
	return Interpretation{
		Assessment: marine.RiskAssessment{
			Level:           marine.RiskHigh,
			Score:           75,
			Hazards:         []string{},
			Recommendations: []string{},
			Reasoning:       "Error in risk assessment: " + err.Error() + ". Defaulting to caution.",
			Confidence:      0.3,
			Timestamp:       now,
		},
		Outcome: OutcomeSafetyDefault,
	}
}

// parseResponse extracts the first {...} span (greedy, multiline) and
// unmarshals it.
func parseResponse(raw string) (llmAssessment, bool) {
	var parsed llmAssessment

	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end < start {
		return parsed, false
	}

	if err := json.Unmarshal([]byte(raw[start:end+1]), &parsed); err != nil {
		return parsed, false
	}
	return parsed, true
}

func assessmentFromParsed(parsed llmAssessment, raw string, now time.Time) marine.RiskAssessment {
	level := marine.RiskModerate
	if parsed.RiskLevel != "" {
		level = marine.RiskLevel(strings.ToUpper(parsed.RiskLevel))
	}

	score := clamp(numberOr(parsed.RiskScore, 50), 0, 100)
	confidence := numberOr(parsed.Confidence, 70) / 100.0

	hazards := stringList(parsed.Hazards)
	recommendations := stringList(parsed.Recommendations)

	return marine.RiskAssessment{
		Level:           level,
		Score:           score,
		Hazards:         hazards,
		Recommendations: recommendations,
		Reasoning:       truncate(raw, 500),
		Confidence:      confidence,
		Timestamp:       now,
	}
}

func assessmentFromKeywords(raw string, m marine.Measurements, now time.Time) marine.RiskAssessment {
	lower := strings.ToLower(raw)

	level := marine.RiskModerate
	score := 50.0
	switch {
	case strings.Contains(lower, "severe"):
		level = marine.RiskSevere
		score = 80
	case strings.Contains(lower, "high") && strings.Contains(lower, "risk"):
		level = marine.RiskHigh
		score = 65
	case strings.Contains(lower, "caution"):
		level = marine.RiskModerate
		score = 45
	}

	// The keyword scan says nothing about concrete hazards, so the
	// deterministic classifier fills them in from the measurements.
	classified := Classify(m)

	return marine.RiskAssessment{
		Level:           level,
		Score:           score,
		Hazards:         classified.Hazards,
		Recommendations: []string{},
		Reasoning:       raw,
		Confidence:      0.5,
		Timestamp:       now,
	}
}

func numberOr(v interface{}, fallback float64) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case json.Number:
		if f, err := n.Float64(); err == nil {
			return f
		}
	case string:
		if f, err := strconv.ParseFloat(n, 64); err == nil {
			return f
		}
	}
	return fallback
}

func stringList(items []interface{}) []string {
	out := []string{}
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
