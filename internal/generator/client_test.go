package generator

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"director-server/internal/mocks"
	"director-server/internal/models"
	"director-server/internal/schemas"
	"director-server/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const validPayload = `{
  "title": "Neon Run",
  "logline": "A courier races through rain-soaked streets.",
  "mood": "Cyberpunk Noir",
  "cuts": [
    {
      "sequence": 2,
      "title": "The Jump",
      "action_description": "MIRA: \"Hold on.\" She leaps the gap.",
      "visuals": {"camera_movement": "whip pan", "angle": "low angle", "lighting": "neon rim", "lens_choice": "24mm"},
      "generated_prompt": "Rain-soaked rooftop in a neon city at night, courier leaping between buildings."
    },
    {
      "sequence": 1,
      "title": "Alley Start",
      "action_description": "MIRA sprints out of a narrow alley.",
      "visuals": {"camera_movement": "handheld tracking", "angle": "eye level", "lighting": "sodium vapor", "lens_choice": "35mm anamorphic"},
      "generated_prompt": "Narrow alley in a neon city at night, wet asphalt, courier sprinting toward camera."
    }
  ]
}`

func newTestClient(ai service.AIClient) *Client {
	return NewClient(ai, 0.7, time.Minute, zap.NewNop())
}

func TestGenerate_Success(t *testing.T) {
	ai := mocks.NewMockAIClient(t)
	ai.On("GenerateStructured", mock.Anything, mock.MatchedBy(func(req service.StructuredRequest) bool {
		return req.UserContent == "The video concept is: a courier in the rain" &&
			req.SchemaName == schemas.SchemaName &&
			req.Temperature == 0.7 &&
			req.SystemInstruction == systemInstruction
	})).Return(validPayload, service.UsageInfo{TotalTokens: 900}, nil).Once()

	resp, err := newTestClient(ai).Generate(context.Background(), "a courier in the rain", nil)
	require.NoError(t, err)
	assert.Equal(t, "Neon Run", resp.Title)
	require.Len(t, resp.Cuts, 2)
	assert.Equal(t, 1, resp.Cuts[0].Sequence)
	assert.Equal(t, "Alley Start", resp.Cuts[0].Title)
}

func TestGenerate_AppliesTimeout(t *testing.T) {
	ai := mocks.NewMockAIClient(t)
	ai.On("GenerateStructured", mock.MatchedBy(func(ctx context.Context) bool {
		_, ok := ctx.Deadline()
		return ok
	}), mock.Anything).Return(validPayload, service.UsageInfo{}, nil).Once()

	_, err := newTestClient(ai).Generate(context.Background(), "idea", nil)
	require.NoError(t, err)
}

func TestGenerate_MissingCredential(t *testing.T) {
	resp, err := newTestClient(nil).Generate(context.Background(), "idea", nil)
	assert.Nil(t, resp)
	assert.ErrorIs(t, err, models.ErrMissingCredential)
	assert.Equal(t, models.KindMissingCredential, models.KindOf(err))
}

func TestGenerate_EmptyResponse(t *testing.T) {
	ai := mocks.NewMockAIClient(t)
	ai.On("GenerateStructured", mock.Anything, mock.Anything).Return("", service.UsageInfo{}, nil).Once()

	resp, err := newTestClient(ai).Generate(context.Background(), "idea", nil)
	assert.Nil(t, resp)
	assert.Equal(t, models.KindEmptyResponse, models.KindOf(err))
}

func TestGenerate_WhitespaceOnlyIsEmptyResponse(t *testing.T) {
	ai := mocks.NewMockAIClient(t)
	ai.On("GenerateStructured", mock.Anything, mock.Anything).Return(" \n\t ", service.UsageInfo{}, nil).Once()

	resp, err := newTestClient(ai).Generate(context.Background(), "idea", nil)
	assert.Nil(t, resp)
	assert.ErrorIs(t, err, models.ErrEmptyResponse)
	assert.Equal(t, models.KindEmptyResponse, models.KindOf(err))
}

func TestGenerate_MalformedPayload(t *testing.T) {
	ai := mocks.NewMockAIClient(t)
	ai.On("GenerateStructured", mock.Anything, mock.Anything).
		Return(`{"title":"Neon Run","cuts":[]}`, service.UsageInfo{}, nil).Once()

	resp, err := newTestClient(ai).Generate(context.Background(), "idea", nil)
	assert.Nil(t, resp)
	assert.Equal(t, models.KindMalformedPayload, models.KindOf(err))
}

func TestGenerate_ServiceFailure(t *testing.T) {
	cause := fmt.Errorf("%w: 503 overloaded", service.ErrAIGenerationFailed)
	ai := mocks.NewMockAIClient(t)
	ai.On("GenerateStructured", mock.Anything, mock.Anything).Return("", service.UsageInfo{}, cause).Once()

	resp, err := newTestClient(ai).Generate(context.Background(), "idea", nil)
	assert.Nil(t, resp)
	assert.ErrorIs(t, err, models.ErrServiceFailure)
	assert.ErrorIs(t, err, service.ErrAIGenerationFailed)
	assert.Equal(t, models.KindTransportOrServiceFailure, models.KindOf(err))
}

func TestGenerate_TimeoutCauseSurvives(t *testing.T) {
	cause := fmt.Errorf("%w: %w", service.ErrAIGenerationFailed, context.DeadlineExceeded)
	ai := mocks.NewMockAIClient(t)
	ai.On("GenerateStructured", mock.Anything, mock.Anything).Return("", service.UsageInfo{}, cause).Once()

	_, err := newTestClient(ai).Generate(context.Background(), "idea", nil)
	assert.ErrorIs(t, err, models.ErrServiceFailure)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, models.KindTransportOrServiceFailure, models.KindOf(err))
}

func TestGenerate_CanceledContext(t *testing.T) {
	ai := mocks.NewMockAIClient(t)
	ai.On("GenerateStructured", mock.Anything, mock.Anything).
		Return("", service.UsageInfo{}, context.Canceled).Once()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestClient(ai).Generate(ctx, "idea", nil)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Equal(t, models.KindTransportOrServiceFailure, models.KindOf(err))
}
