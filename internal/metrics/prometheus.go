package metrics

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	QueryDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "maritime_query_duration_seconds",
			Help:    "End-to-end query processing duration in seconds",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30},
		},
		[]string{"status"},
	)

	QueryTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "maritime_query_total",
			Help: "Total number of safety queries processed",
		},
		[]string{"status"},
	)

	StageDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "maritime_stage_duration_seconds",
			Help:    "Per-stage pipeline duration in seconds",
			Buckets: []float64{0.05, 0.1, 0.5, 1, 2, 5, 10},
		},
		[]string{"stage"},
	)

	RiskLevelTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "maritime_risk_level_total",
			Help: "Risk assessments by level",
		},
		[]string{"level"},
	)

	AlertLevelTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "maritime_alert_level_total",
			Help: "Alerts issued by level",
		},
		[]string{"level"},
	)

	FallbackTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "maritime_fallback_total",
			Help: "Fallback activations by pipeline stage",
		},
		[]string{"stage"},
	)

	IngestSourceFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "maritime_ingest_source_failures_total",
			Help: "Failed fetches per ingestion source",
		},
		[]string{"source"},
	)

	LLMTokensUsed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "maritime_llm_tokens_used",
			Help: "Total reasoning-service tokens used",
		},
		[]string{"model", "type"},
	)

	ConfidenceScore = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "maritime_confidence_score",
			Help:    "Assessment confidence scores",
			Buckets: []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 1.0},
		},
	)

	ActiveSessions = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "maritime_active_sessions",
			Help: "Sessions currently tracked in the registry",
		},
	)
)

func Init() {
	prometheus.MustRegister(QueryDuration)
	prometheus.MustRegister(QueryTotal)
	prometheus.MustRegister(StageDuration)
	prometheus.MustRegister(RiskLevelTotal)
	prometheus.MustRegister(AlertLevelTotal)
	prometheus.MustRegister(FallbackTotal)
	prometheus.MustRegister(IngestSourceFailures)
	prometheus.MustRegister(LLMTokensUsed)
	prometheus.MustRegister(ConfidenceScore)
	prometheus.MustRegister(ActiveSessions)
}

func MetricsHandler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.Handler())
}
