package service

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"director-server/internal/config"

	openaigo "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

const backendOpenAI = "openai"

// openAIClient implements AIClient for OpenAI-compatible chat completion APIs.
type openAIClient struct {
	client *openaigo.Client
	model  string
	logger *zap.Logger
}

func newOpenAIClient(cfg *config.Config, logger *zap.Logger) AIClient {
	openaiConfig := openaigo.DefaultConfig(cfg.AIAPIKey)
	if cfg.AIBaseURL != "" {
		openaiConfig.BaseURL = cfg.AIBaseURL
	}
	openaiConfig.HTTPClient = &http.Client{Timeout: cfg.AITimeout}

	logger.Info("OpenAI client created",
		zap.String("base_url", openaiConfig.BaseURL),
		zap.String("model", cfg.AIModel),
		zap.Duration("timeout", cfg.AITimeout),
	)
	return &openAIClient{
		client: openaigo.NewClientWithConfig(openaiConfig),
		model:  cfg.AIModel,
		logger: logger.Named("OpenAIClient"),
	}
}

// GenerateStructured sends the request with response_format json_schema in strict mode.
func (c *openAIClient) GenerateStructured(ctx context.Context, req StructuredRequest) (string, UsageInfo, error) {
	schema := req.Schema
	messages := []openaigo.ChatCompletionMessage{
		{Role: openaigo.ChatMessageRoleSystem, Content: req.SystemInstruction},
		{Role: openaigo.ChatMessageRoleUser, Content: req.UserContent},
	}

	c.logger.Debug("Sending request to OpenAI",
		zap.String("model", c.model),
		zap.Int("system_bytes", len(req.SystemInstruction)),
		zap.Int("user_bytes", len(req.UserContent)),
	)

	start := time.Now()
	resp, err := c.client.CreateChatCompletion(ctx, openaigo.ChatCompletionRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: float32(req.Temperature),
		ResponseFormat: &openaigo.ChatCompletionResponseFormat{
			Type: openaigo.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openaigo.ChatCompletionResponseFormatJSONSchema{
				Name:   req.SchemaName,
				Schema: &schema,
				Strict: true,
			},
		},
	})
	duration := time.Since(start)
	if err != nil {
		c.logger.Error("OpenAI API error", zap.Duration("duration", duration), zap.Error(err))
		observeFailure(backendOpenAI, c.model, "error")
		return "", UsageInfo{}, fmt.Errorf("%w: %w", ErrAIGenerationFailed, err)
	}

	var text string
	if len(resp.Choices) > 0 {
		text = strings.TrimSpace(resp.Choices[0].Message.Content)
	}
	if text == "" {
		c.logger.Warn("OpenAI returned no text", zap.Duration("duration", duration))
		observeFailure(backendOpenAI, c.model, "error_empty_response")
		return "", UsageInfo{}, nil
	}

	var usage UsageInfo
	if resp.Usage.TotalTokens > 0 {
		usage = UsageInfo{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		}
	} else {
		usage = estimateUsage(req, text)
	}

	observeSuccess(backendOpenAI, c.model, duration.Seconds(), usage)
	c.logger.Info("OpenAI response received",
		append([]zap.Field{zap.Duration("duration", duration), zap.Int("length", len(text))}, usageFields(usage)...)...)
	return text, usage, nil
}
