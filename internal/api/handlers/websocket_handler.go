package handlers

import (
	"context"
	"strings"

	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"

	"github.com/KillMonga130/AI-agent-aws/internal/pipeline"
	"github.com/KillMonga130/AI-agent-aws/pkg/logger"
)

type WebSocketHandler struct {
	orchestrator *pipeline.Orchestrator
}

func NewWebSocketHandler(orchestrator *pipeline.Orchestrator) *WebSocketHandler {
	return &WebSocketHandler{
		orchestrator: orchestrator,
	}
}

// HandleConnection serves one websocket client. Queries arrive as
// {"type":"query","content":...,"session_id":...}; the response is
// streamed word by word followed by a "complete" frame carrying the
// alert.
func (h *WebSocketHandler) HandleConnection(c *websocket.Conn) {
	logger.Info("WebSocket connection established")

	defer func() {
		c.Close()
		logger.Info("WebSocket connection closed")
	}()

	for {
		var msg struct {
			Type      string `json:"type"`
			Content   string `json:"content"`
			SessionID string `json:"session_id"`
		}

		if err := c.ReadJSON(&msg); err != nil {
			logger.Debug("WebSocket read ended", zap.Error(err))
			break
		}

		if msg.Type != "query" || msg.Content == "" {
			continue
		}

		logger.Info("Processing WebSocket query", zap.String("query", msg.Content))

		if err := h.streamResponse(c, msg.Content, msg.SessionID); err != nil {
			logger.Error("Failed to stream response", zap.Error(err))
			h.send(c, map[string]interface{}{
				"type":  "error",
				"error": "Failed to process query",
			})
		}
	}
}

func (h *WebSocketHandler) streamResponse(c *websocket.Conn, queryText, sessionID string) error {
	if err := h.send(c, map[string]interface{}{
		"type":    "status",
		"content": "Processing query...",
	}); err != nil {
		return err
	}

	result := h.orchestrator.Process(context.Background(), pipeline.Query{
		Text:      queryText,
		SessionID: sessionID,
	})

	words := strings.Fields(result.Response)
	for i, word := range words {
		chunk := word
		if i < len(words)-1 {
			chunk += " "
		}
		if err := h.send(c, map[string]interface{}{
			"type":    "chunk",
			"content": chunk,
		}); err != nil {
			return err
		}
	}

	return h.send(c, map[string]interface{}{
		"type":              "complete",
		"session_id":        result.SessionID,
		"alert":             result.Alert,
		"data_sources":      result.DataSources,
		"execution_seconds": result.ExecutionTimeSeconds,
	})
}

func (h *WebSocketHandler) send(c *websocket.Conn, msg map[string]interface{}) error {
	return c.WriteJSON(msg)
}
