// Package llm wraps the external reasoning service used for location
// extraction, risk analysis and response synthesis.
package llm

import (
	"context"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/KillMonga130/AI-agent-aws/internal/metrics"
	"github.com/KillMonga130/AI-agent-aws/pkg/circuitbreaker"
	"github.com/KillMonga130/AI-agent-aws/pkg/logger"
	"github.com/KillMonga130/AI-agent-aws/pkg/retry"
)

const (
	extractionSystemPrompt = `You extract geographic locations from maritime safety queries. Respond with JSON only.`

	analysisSystemPrompt = `You are a maritime safety expert with deep knowledge of ocean physics,
weather patterns, and vessel operations. Analyze conditions to protect human life at sea.

When assessing risk:
- Err on the side of caution for safety
- Consider impacts on different vessel types
- Reference specific thresholds and scientific principles`

	synthesisSystemPrompt = `You are a maritime safety expert communicating with vessel operators.`
)

type Client struct {
	client      *openai.Client
	model       string
	timeout     time.Duration
	cb          *circuitbreaker.CircuitBreaker
	retryConfig retry.Config
}

type CompletionRequest struct {
	SystemPrompt string
	UserPrompt   string
	Temperature  float32
	MaxTokens    int
}

func NewClient(apiKey, model string, timeoutSec int) *Client {
	if timeoutSec <= 0 {
		timeoutSec = 60
	}

	cb := circuitbreaker.New("llm", circuitbreaker.Config{
		FailureThreshold: 5,
		SuccessThreshold: 2,
		Cooldown:         30 * time.Second,
		Logger:           logger.GetLogger(),
	})

	retryConfig := retry.DefaultConfig()
	retryConfig.Logger = logger.GetLogger()

	logger.Info("LLM client initialized", zap.String("model", model))

	return &Client{
		client:      openai.NewClient(apiKey),
		model:       model,
		timeout:     time.Duration(timeoutSec) * time.Second,
		cb:          cb,
		retryConfig: retryConfig,
	}
}

// Complete sends one prompt to the reasoning service and returns the
// response text.
func (c *Client) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	messages := []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: req.SystemPrompt},
		{Role: openai.ChatMessageRoleUser, Content: req.UserPrompt},
	}

	var content string

	err := c.cb.Execute(ctx, func() error {
		return retry.Do(ctx, c.retryConfig, func() error {
			resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
				Model:       c.model,
				Messages:    messages,
				Temperature: req.Temperature,
				MaxTokens:   req.MaxTokens,
			})
			if err != nil {
				return fmt.Errorf("failed to create completion: %w", err)
			}
			if len(resp.Choices) == 0 {
				return fmt.Errorf("completion returned no choices")
			}

			logger.Debug("LLM completion generated",
				zap.Int("prompt_tokens", resp.Usage.PromptTokens),
				zap.Int("completion_tokens", resp.Usage.CompletionTokens),
			)
			metrics.LLMTokensUsed.WithLabelValues(c.model, "prompt").Add(float64(resp.Usage.PromptTokens))
			metrics.LLMTokensUsed.WithLabelValues(c.model, "completion").Add(float64(resp.Usage.CompletionTokens))

			content = resp.Choices[0].Message.Content
			return nil
		})
	})
	if err != nil {
		return "", err
	}

	return content, nil
}

// ExtractLocation asks the reasoning service to pull coordinates from
// a free-text query. The raw text is returned; the caller parses it.
func (c *Client) ExtractLocation(ctx context.Context, queryText string) (string, error) {
	userPrompt := fmt.Sprintf(`Extract location information from this maritime query:
%q

If the query mentions specific locations, extract them.
Respond with JSON: {"location_name": "name", "latitude": X, "longitude": Y}

If no location found, respond with an empty JSON object: {}`, queryText)

	return c.Complete(ctx, CompletionRequest{
		SystemPrompt: extractionSystemPrompt,
		UserPrompt:   userPrompt,
		Temperature:  0.1,
		MaxTokens:    256,
	})
}

// AnalyzeRisk asks the reasoning service to assess the given marine
// conditions report. Low temperature keeps assessments consistent.
func (c *Client) AnalyzeRisk(ctx context.Context, conditions string) (string, error) {
	userPrompt := conditions + `

Based on the marine conditions provided, analyze the maritime safety risk.

Consider:
1. Wave conditions and their implications for vessel operation
2. Wind patterns and their interaction with waves
3. Ocean currents affecting vessel maneuverability
4. Visibility for safe navigation
5. Compound effects (e.g., waves opposing currents)

Provide:
- Overall risk assessment (LOW/MODERATE/HIGH/SEVERE)
- Risk score (0-100)
- Identified hazards
- Safety recommendations
- Your confidence in this assessment (0-100)

Format response as JSON with keys: risk_level, risk_score, hazards, recommendations, confidence`

	return c.Complete(ctx, CompletionRequest{
		SystemPrompt: analysisSystemPrompt,
		UserPrompt:   userPrompt,
		Temperature:  0.3,
		MaxTokens:    1024,
	})
}

// Synthesize turns the structured analysis back into conversational
// prose answering the original query.
func (c *Client) Synthesize(ctx context.Context, summary string) (string, error) {
	return c.Complete(ctx, CompletionRequest{
		SystemPrompt: synthesisSystemPrompt,
		UserPrompt:   summary,
		Temperature:  0.7,
		MaxTokens:    512,
	})
}
