package service

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"director-server/internal/config"
	"director-server/internal/schemas"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

const backendGemini = "gemini"

// geminiClient implements AIClient on top of the Gemini API.
type geminiClient struct {
	client *genai.Client
	model  string
	logger *zap.Logger
}

func newGeminiClient(ctx context.Context, cfg *config.Config, logger *zap.Logger) (AIClient, error) {
	clientCfg := &genai.ClientConfig{
		APIKey:     cfg.AIAPIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: &http.Client{Timeout: cfg.AITimeout},
	}
	if cfg.AIBaseURL != "" {
		clientCfg.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.AIBaseURL}
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	logger.Info("Gemini client created", zap.String("model", cfg.AIModel), zap.Duration("timeout", cfg.AITimeout))
	return &geminiClient{
		client: client,
		model:  cfg.AIModel,
		logger: logger.Named("GeminiClient"),
	}, nil
}

// GenerateStructured sends the request with a JSON response schema.
func (c *geminiClient) GenerateStructured(ctx context.Context, req StructuredRequest) (string, UsageInfo, error) {
	temperature := float32(req.Temperature)
	genCfg := &genai.GenerateContentConfig{
		ResponseMIMEType:  "application/json",
		SystemInstruction: genai.NewContentFromText(req.SystemInstruction, genai.RoleUser),
		ResponseSchema:    schemas.ToGenaiSchema(req.Schema),
		Temperature:       &temperature,
	}

	c.logger.Debug("Sending request to Gemini",
		zap.String("model", c.model),
		zap.Int("system_bytes", len(req.SystemInstruction)),
		zap.Int("user_bytes", len(req.UserContent)),
	)

	start := time.Now()
	res, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(req.UserContent), genCfg)
	duration := time.Since(start)
	if err != nil {
		c.logger.Error("Gemini API error", zap.Duration("duration", duration), zap.Error(err))
		observeFailure(backendGemini, c.model, "error")
		return "", UsageInfo{}, fmt.Errorf("%w: %w", ErrAIGenerationFailed, err)
	}

	text := candidateText(res)
	if text == "" {
		c.logger.Warn("Gemini returned no text", zap.Duration("duration", duration))
		observeFailure(backendGemini, c.model, "error_empty_response")
		return "", UsageInfo{}, nil
	}

	var usage UsageInfo
	if res.UsageMetadata != nil && res.UsageMetadata.TotalTokenCount > 0 {
		usage = UsageInfo{
			PromptTokens:     int(res.UsageMetadata.PromptTokenCount),
			CompletionTokens: int(res.UsageMetadata.CandidatesTokenCount),
			TotalTokens:      int(res.UsageMetadata.TotalTokenCount),
		}
	} else {
		usage = estimateUsage(req, text)
	}

	observeSuccess(backendGemini, c.model, duration.Seconds(), usage)
	c.logger.Info("Gemini response received",
		append([]zap.Field{zap.Duration("duration", duration), zap.Int("length", len(text))}, usageFields(usage)...)...)
	return text, usage, nil
}

// candidateText joins the text parts of the first candidate.
func candidateText(res *genai.GenerateContentResponse) string {
	if res == nil || len(res.Candidates) == 0 || res.Candidates[0].Content == nil {
		return ""
	}
	var b strings.Builder
	for _, part := range res.Candidates[0].Content.Parts {
		if part != nil {
			b.WriteString(part.Text)
		}
	}
	return strings.TrimSpace(b.String())
}
