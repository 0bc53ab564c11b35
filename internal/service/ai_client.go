package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"director-server/internal/config"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/sashabaranov/go-openai/jsonschema"
	"go.uber.org/zap"
)

// ErrAIGenerationFailed wraps every failure reported by an AI backend.
var ErrAIGenerationFailed = errors.New("AI generation failed")

var (
	aiRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "director_ai_requests_total",
			Help: "Total number of requests to the AI API.",
		},
		[]string{"backend", "model", "status"},
	)
	aiRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "director_ai_request_duration_seconds",
			Help:    "Histogram of AI API request durations.",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 20, 30, 60, 120},
		},
		[]string{"backend", "model"},
	)
	aiPromptTokens = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "director_ai_prompt_tokens",
			Help:    "Histogram of prompt token counts.",
			Buckets: prometheus.LinearBuckets(250, 250, 12),
		},
		[]string{"backend", "model"},
	)
	aiCompletionTokens = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "director_ai_completion_tokens",
			Help:    "Histogram of completion token counts.",
			Buckets: prometheus.LinearBuckets(250, 250, 16),
		},
		[]string{"backend", "model"},
	)
)

// UsageInfo holds token usage of a single request.
// Estimated is set when the backend did not report usage and the counts come from tiktoken.
type UsageInfo struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
	Estimated        bool
}

// StructuredRequest is one schema-constrained generation call.
type StructuredRequest struct {
	SystemInstruction string
	UserContent       string
	SchemaName        string
	Schema            jsonschema.Definition
	Temperature       float64
}

// AIClient sends structured generation requests to an AI backend.
type AIClient interface {
	// GenerateStructured returns the raw text produced under the request schema.
	// An empty string with a nil error means the backend produced no text.
	GenerateStructured(ctx context.Context, req StructuredRequest) (string, UsageInfo, error)
}

// NewAIClient builds the backend selected by cfg.AIClientType.
func NewAIClient(ctx context.Context, cfg *config.Config, logger *zap.Logger) (AIClient, error) {
	switch strings.ToLower(cfg.AIClientType) {
	case config.AIClientGemini:
		logger.Info("Using AI client implementation", zap.String("backend", config.AIClientGemini))
		return newGeminiClient(ctx, cfg, logger)
	case config.AIClientOpenAI:
		logger.Info("Using AI client implementation", zap.String("backend", config.AIClientOpenAI))
		return newOpenAIClient(cfg, logger), nil
	case config.AIClientOllama:
		logger.Info("Using AI client implementation", zap.String("backend", config.AIClientOllama))
		return newOllamaClient(cfg, logger)
	default:
		return nil, fmt.Errorf("unknown AI client type: '%s'", cfg.AIClientType)
	}
}

// observeSuccess records metrics for a completed request.
func observeSuccess(backend, model string, seconds float64, usage UsageInfo) {
	status := "success"
	if usage.Estimated {
		status = "success_estimated"
	}
	aiRequestsTotal.With(prometheus.Labels{"backend": backend, "model": model, "status": status}).Inc()
	aiRequestDuration.With(prometheus.Labels{"backend": backend, "model": model}).Observe(seconds)
	if usage.TotalTokens > 0 {
		aiPromptTokens.With(prometheus.Labels{"backend": backend, "model": model}).Observe(float64(usage.PromptTokens))
		aiCompletionTokens.With(prometheus.Labels{"backend": backend, "model": model}).Observe(float64(usage.CompletionTokens))
	}
}

func observeFailure(backend, model, status string) {
	aiRequestsTotal.With(prometheus.Labels{"backend": backend, "model": model, "status": status}).Inc()
}

func usageFields(u UsageInfo) []zap.Field {
	return []zap.Field{
		zap.Int("prompt_tokens", u.PromptTokens),
		zap.Int("completion_tokens", u.CompletionTokens),
		zap.Int("total_tokens", u.TotalTokens),
		zap.Bool("estimated", u.Estimated),
	}
}
