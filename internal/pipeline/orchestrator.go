// Package pipeline sequences the maritime safety query workflow:
// location resolution, data ingestion, risk analysis, alert
// composition and response synthesis.
package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/KillMonga130/AI-agent-aws/internal/marine"
	"github.com/KillMonga130/AI-agent-aws/internal/metrics"
	"github.com/KillMonga130/AI-agent-aws/internal/risk"
	"github.com/KillMonga130/AI-agent-aws/internal/storage/models"
	"github.com/KillMonga130/AI-agent-aws/pkg/logger"
)

// Reasoner is the slice of the reasoning service the orchestrator
// itself uses. Risk analysis talks to the service through its own
// interface.
type Reasoner interface {
	ExtractLocation(ctx context.Context, queryText string) (string, error)
	Synthesize(ctx context.Context, summary string) (string, error)
}

// Ingestor fetches measurements for a resolved location.
type Ingestor interface {
	Fetch(ctx context.Context, loc marine.Location) (marine.Measurements, error)
}

// Assessor runs the risk-analysis stage.
type Assessor interface {
	Assess(ctx context.Context, m marine.Measurements) risk.Interpretation
}

// Composer turns an assessment into an alert.
type Composer interface {
	Compose(assessment marine.RiskAssessment) marine.Alert
}

// History records processed queries. Failures are logged only.
type History interface {
	InsertQueryRecord(record *models.QueryRecord) error
}

// Query is a single maritime safety request.
type Query struct {
	Text      string
	Location  *marine.Location
	SessionID string
}

// Result is the terminal artifact of one pipeline run.
type Result struct {
	Query                string                 `json:"query"`
	Response             string                 `json:"response"`
	Alert                *marine.Alert          `json:"alert,omitempty"`
	DataSources          []string               `json:"data_sources"`
	Trace                map[string]interface{} `json:"agent_traces,omitempty"`
	ExecutionTimeSeconds float64                `json:"execution_time_seconds"`
	SessionID            string                 `json:"session_id,omitempty"`
	Timestamp            time.Time              `json:"timestamp"`
}

// Orchestrator drives a query through the staged pipeline. Only
// ingestion failure aborts a run; every other stage degrades to a safe
// fallback and the pipeline always returns a complete Result.
type Orchestrator struct {
	reasoner Reasoner
	ingestor Ingestor
	assessor Assessor
	composer Composer
	history  History
	sessions *SessionRegistry
	clock    clockwork.Clock

	defaultLocation marine.Location
	dataSources     []string
}

type Options struct {
	DefaultLocation marine.Location
	SessionTTL      time.Duration
	Clock           clockwork.Clock
}

func NewOrchestrator(reasoner Reasoner, ingestor Ingestor, assessor Assessor, composer Composer, history History, opts Options) *Orchestrator {
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}
	if !opts.DefaultLocation.Valid() || opts.DefaultLocation == (marine.Location{}) {
		// The documented default harbor when extraction cannot place
		// the query anywhere.
		opts.DefaultLocation = marine.Location{
			Latitude:  -33.9249,
			Longitude: 18.4241,
			Name:      "Cape Town, South Africa (default)",
		}
	}

	return &Orchestrator{
		reasoner:        reasoner,
		ingestor:        ingestor,
		assessor:        assessor,
		composer:        composer,
		history:         history,
		sessions:        NewSessionRegistry(opts.SessionTTL, opts.Clock),
		clock:           opts.Clock,
		defaultLocation: opts.DefaultLocation,
		dataSources:     []string{"Copernicus Marine", "Open-Meteo Marine"},
	}
}

// Sessions exposes the registry for handlers and info endpoints.
func (o *Orchestrator) Sessions() *SessionRegistry {
	return o.sessions
}

// Close releases background resources.
func (o *Orchestrator) Close() {
	o.sessions.Close()
}

// Process runs the full pipeline for one query.
func (o *Orchestrator) Process(ctx context.Context, q Query) *Result {
	start := o.clock.Now()
	state := StateStart
	trace := map[string]interface{}{}

	sessionID := q.SessionID
	if sessionID == "" {
		sessionID = uuid.New().String()
	}

	logger.Info("Processing maritime safety query",
		zap.String("session_id", sessionID),
		zap.String("query", q.Text),
	)

	// Location resolution never fails upward; worst case is the
	// default harbor.
	loc := o.resolveLocation(ctx, q)
	state = StateLocationResolved

	measurements, err := o.timedFetch(ctx, loc)
	if err != nil {
		state = StateFailed
		logger.Error("Data ingestion failed, aborting query",
			zap.Error(err),
			zap.String("session_id", sessionID),
		)
		trace["state"] = string(state)
		trace["ingestion"] = map[string]interface{}{
			"location": loc,
			"error":    err.Error(),
		}
		return o.finish(&Result{
			Query:     q.Text,
			Response:  fmt.Sprintf("Data retrieval failed: %v", err),
			Trace:     trace,
			SessionID: sessionID,
		}, start, "failed")
	}
	state = StateDataIngested
	trace["ingestion"] = map[string]interface{}{
		"location":          loc,
		"weather_available": measurements.Weather != nil,
		"ocean_available":   measurements.Ocean != nil,
	}

	interp := o.timedAssess(ctx, measurements)
	assessment := interp.Assessment
	state = StateRiskAssessed
	trace["risk_assessment"] = map[string]interface{}{
		"risk_level": string(assessment.Level),
		"risk_score": assessment.Score,
		"confidence": assessment.Confidence,
		"outcome":    string(interp.Outcome),
	}
	if interp.Degraded() {
		metrics.FallbackTotal.WithLabelValues("risk_analysis").Inc()
	}
	metrics.RiskLevelTotal.WithLabelValues(string(assessment.Level)).Inc()
	metrics.ConfidenceScore.Observe(assessment.Confidence)

	composed := o.composer.Compose(assessment)
	state = StateAlertGenerated
	metrics.AlertLevelTotal.WithLabelValues(string(composed.Level)).Inc()

	response := o.synthesize(ctx, q.Text, loc, assessment, composed)
	state = StateResponseSynthesized

	state = StateDone
	trace["state"] = string(state)

	result := o.finish(&Result{
		Query:       q.Text,
		Response:    response,
		Alert:       &composed,
		DataSources: o.dataSources,
		Trace:       trace,
		SessionID:   sessionID,
	}, start, "ok")

	o.record(result, assessment, composed)

	return result
}

// finish stamps timing metadata and registers the session. Every exit
// path goes through here so ExecutionTimeSeconds is always set.
func (o *Orchestrator) finish(result *Result, start time.Time, status string) *Result {
	elapsed := o.clock.Since(start)
	result.ExecutionTimeSeconds = elapsed.Seconds()
	result.Timestamp = o.clock.Now().UTC()
	if result.Trace == nil {
		result.Trace = map[string]interface{}{}
	}

	metrics.QueryTotal.WithLabelValues(status).Inc()
	metrics.QueryDuration.WithLabelValues(status).Observe(elapsed.Seconds())

	o.sessions.Record(result.SessionID, result)

	logger.Info("Query completed",
		zap.String("session_id", result.SessionID),
		zap.String("status", status),
		zap.Float64("execution_seconds", result.ExecutionTimeSeconds),
	)

	return result
}

func (o *Orchestrator) timedFetch(ctx context.Context, loc marine.Location) (marine.Measurements, error) {
	start := o.clock.Now()
	defer func() {
		metrics.StageDuration.WithLabelValues("ingestion").Observe(o.clock.Since(start).Seconds())
	}()
	return o.ingestor.Fetch(ctx, loc)
}

func (o *Orchestrator) timedAssess(ctx context.Context, m marine.Measurements) risk.Interpretation {
	start := o.clock.Now()
	defer func() {
		metrics.StageDuration.WithLabelValues("risk_analysis").Observe(o.clock.Since(start).Seconds())
	}()
	return o.assessor.Assess(ctx, m)
}

// resolveLocation uses the explicit location when given, otherwise
// asks the reasoning service to extract one from the query text.
// Extraction failure is recovered with the default location; this
// stage never fails the pipeline.
func (o *Orchestrator) resolveLocation(ctx context.Context, q Query) marine.Location {
	if q.Location != nil {
		return *q.Location
	}

	raw, err := o.reasoner.ExtractLocation(ctx, q.Text)
	if err != nil {
		logger.Warn("Location extraction failed, using default",
			zap.Error(err),
			zap.String("default", o.defaultLocation.Name),
		)
		metrics.FallbackTotal.WithLabelValues("location_resolution").Inc()
		return o.defaultLocation
	}

	loc, ok := parseLocation(raw)
	if !ok {
		logger.Warn("Location extraction returned no usable location, using default",
			zap.String("default", o.defaultLocation.Name),
		)
		metrics.FallbackTotal.WithLabelValues("location_resolution").Inc()
		return o.defaultLocation
	}

	return loc
}

// parseLocation pulls the first {...} span out of the extraction
// response and requires latitude and longitude to be present.
func parseLocation(raw string) (marine.Location, bool) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end < start {
		return marine.Location{}, false
	}

	var parsed struct {
		LocationName string   `json:"location_name"`
		Latitude     *float64 `json:"latitude"`
		Longitude    *float64 `json:"longitude"`
	}
	if err := json.Unmarshal([]byte(raw[start:end+1]), &parsed); err != nil {
		return marine.Location{}, false
	}
	if parsed.Latitude == nil || parsed.Longitude == nil {
		return marine.Location{}, false
	}

	loc := marine.Location{
		Latitude:  *parsed.Latitude,
		Longitude: *parsed.Longitude,
		Name:      parsed.LocationName,
	}
	if !loc.Valid() {
		return marine.Location{}, false
	}
	if loc.Name == "" {
		loc.Name = "Unknown"
	}
	return loc, true
}

// synthesize asks the reasoning service for conversational prose. On
// failure the composed alert text is the response; synthesis is
// cosmetic and never fatal.
func (o *Orchestrator) synthesize(ctx context.Context, queryText string, loc marine.Location, assessment marine.RiskAssessment, composed marine.Alert) string {
	summary := synthesisPrompt(queryText, loc, assessment, composed)

	response, err := o.reasoner.Synthesize(ctx, summary)
	if err != nil || strings.TrimSpace(response) == "" {
		logger.Warn("Response synthesis failed, using alert text", zap.Error(err))
		metrics.FallbackTotal.WithLabelValues("synthesis").Inc()
		return composed.Text
	}
	return response
}

func synthesisPrompt(queryText string, loc marine.Location, assessment marine.RiskAssessment, composed marine.Alert) string {
	var b strings.Builder

	b.WriteString("Based on this maritime query and analysis, provide a clear, actionable response.\n\n")
	fmt.Fprintf(&b, "Query: %s\n", queryText)
	fmt.Fprintf(&b, "Location: %s (%v, %v)\n\n", loc.String(), loc.Latitude, loc.Longitude)
	fmt.Fprintf(&b, "Alert Level: %s\n", composed.Level)
	fmt.Fprintf(&b, "Risk Assessment: %s\n", assessment.Level)
	fmt.Fprintf(&b, "Confidence: %.0f%%\n", assessment.Confidence*100)

	if len(assessment.Hazards) > 0 {
		b.WriteString("\nKey Hazards:\n")
		for _, h := range head(assessment.Hazards, 3) {
			fmt.Fprintf(&b, "- %s\n", h)
		}
	}
	if len(assessment.Recommendations) > 0 {
		b.WriteString("\nRecommendations:\n")
		for _, r := range head(assessment.Recommendations, 3) {
			fmt.Fprintf(&b, "- %s\n", r)
		}
	}

	b.WriteString("\nProvide a brief, natural language response that directly answers the user's query,\n")
	b.WriteString("incorporating the alert and recommendations. Be concise but thorough.\n")

	return b.String()
}

func head(items []string, n int) []string {
	if len(items) > n {
		return items[:n]
	}
	return items
}

// record persists the query to history. Best effort only.
func (o *Orchestrator) record(result *Result, assessment marine.RiskAssessment, composed marine.Alert) {
	if o.history == nil {
		return
	}

	err := o.history.InsertQueryRecord(&models.QueryRecord{
		ID:         uuid.New().String(),
		SessionID:  result.SessionID,
		QueryText:  result.Query,
		Response:   result.Response,
		RiskLevel:  string(assessment.Level),
		RiskScore:  assessment.Score,
		AlertLevel: string(composed.Level),
		Confidence: assessment.Confidence,
		LatencyMS:  int(result.ExecutionTimeSeconds * 1000),
		CreatedAt:  result.Timestamp,
	})
	if err != nil {
		logger.Warn("Failed to persist query history", zap.Error(err))
	}
}
