package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"director-server/internal/config"

	"github.com/ollama/ollama/api"
	"go.uber.org/zap"
)

const (
	backendOllama        = "ollama"
	defaultOllamaBaseURL = "http://localhost:11434"
)

// ollamaClient implements AIClient against a local Ollama server.
type ollamaClient struct {
	client *api.Client
	model  string
	logger *zap.Logger
}

func newOllamaClient(cfg *config.Config, logger *zap.Logger) (AIClient, error) {
	baseURL := cfg.AIBaseURL
	if baseURL == "" {
		baseURL = defaultOllamaBaseURL
	}
	// api.NewClient expects the server root, without the OpenAI-compatible /v1 suffix.
	baseURL = strings.TrimSuffix(strings.TrimSuffix(baseURL, "/"), "/v1")

	parsedURL, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Ollama base URL '%s': %w", baseURL, err)
	}

	logger.Info("Ollama client created",
		zap.String("base_url", baseURL),
		zap.String("model", cfg.AIModel),
		zap.Duration("timeout", cfg.AITimeout),
	)
	return &ollamaClient{
		client: api.NewClient(parsedURL, &http.Client{Timeout: cfg.AITimeout}),
		model:  cfg.AIModel,
		logger: logger.Named("OllamaClient"),
	}, nil
}

// GenerateStructured sends a non-streaming chat request with the schema as format.
func (c *ollamaClient) GenerateStructured(ctx context.Context, req StructuredRequest) (string, UsageInfo, error) {
	format, err := json.Marshal(&req.Schema)
	if err != nil {
		return "", UsageInfo{}, fmt.Errorf("%w: failed to encode schema: %w", ErrAIGenerationFailed, err)
	}

	stream := false
	chatReq := &api.ChatRequest{
		Model: c.model,
		Messages: []api.Message{
			{Role: "system", Content: req.SystemInstruction},
			{Role: "user", Content: req.UserContent},
		},
		Stream: &stream,
		Format: json.RawMessage(format),
		Options: map[string]interface{}{
			"temperature": req.Temperature,
		},
	}

	c.logger.Debug("Sending request to Ollama",
		zap.String("model", c.model),
		zap.Int("system_bytes", len(req.SystemInstruction)),
		zap.Int("user_bytes", len(req.UserContent)),
	)

	start := time.Now()
	var resp api.ChatResponse
	err = c.client.Chat(ctx, chatReq, func(r api.ChatResponse) error {
		resp = r
		return nil
	})
	duration := time.Since(start)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			c.logger.Error("Ollama request timed out", zap.Duration("duration", duration), zap.Error(err))
		} else {
			c.logger.Error("Ollama API error", zap.Duration("duration", duration), zap.Error(err))
		}
		observeFailure(backendOllama, c.model, "error")
		return "", UsageInfo{}, fmt.Errorf("%w: %w", ErrAIGenerationFailed, err)
	}

	text := strings.TrimSpace(resp.Message.Content)
	if text == "" {
		c.logger.Warn("Ollama returned no text", zap.Duration("duration", duration))
		observeFailure(backendOllama, c.model, "error_empty_response")
		return "", UsageInfo{}, nil
	}

	usage := UsageInfo{
		PromptTokens:     resp.PromptEvalCount,
		CompletionTokens: resp.EvalCount,
		TotalTokens:      resp.PromptEvalCount + resp.EvalCount,
	}
	if usage.TotalTokens == 0 {
		usage = estimateUsage(req, text)
	}

	observeSuccess(backendOllama, c.model, duration.Seconds(), usage)
	c.logger.Info("Ollama response received",
		append([]zap.Field{zap.Duration("duration", duration), zap.Int("length", len(text))}, usageFields(usage)...)...)
	return text, usage, nil
}
