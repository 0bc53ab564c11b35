package generator

import (
	"context"
	"fmt"
	"strings"
	"time"

	"director-server/internal/models"
	"director-server/internal/schemas"
	"director-server/internal/service"

	"go.uber.org/zap"
)

// Client turns an idea into a validated DirectorResponse.
type Client struct {
	ai          service.AIClient
	temperature float64
	timeout     time.Duration
	logger      *zap.Logger
}

// NewClient creates a generation client. A nil ai means no credential is
// configured: every Generate call then fails with models.ErrMissingCredential.
func NewClient(ai service.AIClient, temperature float64, timeout time.Duration, logger *zap.Logger) *Client {
	return &Client{
		ai:          ai,
		temperature: temperature,
		timeout:     timeout,
		logger:      logger.Named("Generator"),
	}
}

// Generate performs one outbound request. Errors wrap one of
// models.ErrMissingCredential, models.ErrEmptyResponse, models.ErrMalformedPayload
// or models.ErrServiceFailure.
func (c *Client) Generate(ctx context.Context, idea string, characterName *string) (*models.DirectorResponse, error) {
	if c.ai == nil {
		return nil, models.ErrMissingCredential
	}

	req := service.StructuredRequest{
		SystemInstruction: systemInstruction,
		UserContent:       buildUserPrompt(idea, characterName),
		SchemaName:        schemas.SchemaName,
		Schema:            schemas.DirectorResponseSchema(),
		Temperature:       c.temperature,
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	text, usage, err := c.ai.GenerateStructured(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", models.ErrServiceFailure, err)
	}
	if strings.TrimSpace(text) == "" {
		return nil, models.ErrEmptyResponse
	}

	resp, err := schemas.ParseDirectorResponse(text)
	if err != nil {
		c.logger.Warn("Generation payload rejected", zap.Int("length", len(text)), zap.Error(err))
		return nil, err
	}

	c.logger.Info("Director cuts generated",
		zap.String("title", resp.Title),
		zap.Int("cuts", len(resp.Cuts)),
		zap.Int("total_tokens", usage.TotalTokens),
	)
	return resp, nil
}
