package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/KillMonga130/AI-agent-aws/internal/marine"
	"github.com/KillMonga130/AI-agent-aws/internal/pipeline"
	"github.com/KillMonga130/AI-agent-aws/internal/storage/sqlite"
	"github.com/KillMonga130/AI-agent-aws/pkg/logger"
)

type QueryHandler struct {
	orchestrator *pipeline.Orchestrator
	db           *sqlite.Client
}

func NewQueryHandler(orchestrator *pipeline.Orchestrator, db *sqlite.Client) *QueryHandler {
	return &QueryHandler{
		orchestrator: orchestrator,
		db:           db,
	}
}

type queryRequest struct {
	Query     string           `json:"query"`
	Location  *marine.Location `json:"location"`
	SessionID string           `json:"session_id"`
}

func (h *QueryHandler) HandleQuery(c *fiber.Ctx) error {
	var req queryRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse request body", zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if req.Query == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Query is required",
		})
	}
	if req.Location != nil && !req.Location.Valid() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Location coordinates out of range",
		})
	}

	result := h.orchestrator.Process(c.Context(), pipeline.Query{
		Text:      req.Query,
		Location:  req.Location,
		SessionID: req.SessionID,
	})

	return c.JSON(result)
}

type locationQueryRequest struct {
	Query        string  `json:"query"`
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
	LocationName string  `json:"location_name"`
	SessionID    string  `json:"session_id"`
}

// HandleQueryWithLocation is the explicit-coordinates variant: the
// location is used verbatim and extraction is bypassed.
func (h *QueryHandler) HandleQueryWithLocation(c *fiber.Ctx) error {
	var req locationQueryRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse request body", zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	loc := marine.Location{
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
		Name:      req.LocationName,
	}
	if !loc.Valid() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Location coordinates out of range",
		})
	}

	result := h.orchestrator.Process(c.Context(), pipeline.Query{
		Text:      req.Query,
		Location:  &loc,
		SessionID: req.SessionID,
	})

	return c.JSON(result)
}

func (h *QueryHandler) GetQueryHistory(c *fiber.Ctx) error {
	sessionID := c.Query("session_id")
	limit := c.QueryInt("limit", 20)

	records, err := h.db.RecentQueries(sessionID, limit)
	if err != nil {
		logger.Error("Failed to load query history", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load query history",
		})
	}

	history := make([]fiber.Map, 0, len(records))
	for _, r := range records {
		history = append(history, fiber.Map{
			"id":          r.ID,
			"session_id":  r.SessionID,
			"query":       r.QueryText,
			"response":    r.Response,
			"risk_level":  r.RiskLevel,
			"risk_score":  r.RiskScore,
			"alert_level": r.AlertLevel,
			"confidence":  r.Confidence,
			"latency_ms":  r.LatencyMS,
			"created_at":  r.CreatedAt,
		})
	}

	return c.JSON(fiber.Map{"history": history})
}
