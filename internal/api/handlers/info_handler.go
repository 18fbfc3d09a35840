package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/KillMonga130/AI-agent-aws/internal/pipeline"
)

type InfoHandler struct {
	orchestrator *pipeline.Orchestrator
	model        string
}

func NewInfoHandler(orchestrator *pipeline.Orchestrator, model string) *InfoHandler {
	return &InfoHandler{
		orchestrator: orchestrator,
		model:        model,
	}
}

func (h *InfoHandler) GetInfo(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"agent": fiber.Map{
			"name": "MaritimeSafetyPipeline",
			"type": "Supervisor",
			"sub_stages": []string{
				"LocationResolution",
				"DataIngestion",
				"RiskAnalysis",
				"AlertGeneration",
				"ResponseSynthesis",
			},
			"capabilities": []string{
				"Maritime safety query understanding",
				"Weather and ocean data ingestion",
				"Risk assessment with deterministic fallback",
				"Alert generation and synthesis",
			},
			"session_count": h.orchestrator.Sessions().Len(),
		},
		"config": fiber.Map{
			"model": h.model,
		},
	})
}
