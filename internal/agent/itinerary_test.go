package agent_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"travel-planner/internal/agent"
	"travel-planner/internal/ai"
	"travel-planner/internal/mocks"
)

func TestItineraryAgent_Success(t *testing.T) {
	aiMock := new(mocks.MockAIClient)
	// 4 дня: 500 + 4*400 = 2100 токенов.
	aiMock.On("GenerateText", mock.Anything, mock.Anything, mock.Anything, 2100).
		Return("**Day 1**...", ai.UsageInfo{PromptTokens: 800, CompletionTokens: 1500}, nil)

	a := agent.NewItineraryAgent(aiMock)
	result, usage, err := a.Build(context.Background(), "Lisbon", "2026-06-10", "2026-06-13",
		"Lisbon overview", "1. Tram ride", "Comfortable budget", "Season: Summer (Northern Hemisphere)")

	require.NoError(t, err)
	assert.Equal(t, "**Day 1**...", result.Itinerary)
	assert.Equal(t, 4, result.DayCount)
	assert.Equal(t, []string{"2026-06-10", "2026-06-11", "2026-06-12", "2026-06-13"}, result.Dates)
	assert.Equal(t, 1500, result.TokensUsed)
	assert.Equal(t, 1500, usage.CompletionTokens)

	prompt := aiMock.Calls[0].Arguments.String(2)
	assert.Contains(t, prompt, "Season: Summer (Northern Hemisphere)")
	assert.Contains(t, prompt, "Create the full 4-day itinerary now.")
}

func TestItineraryAgent_TokenAllowanceCapped(t *testing.T) {
	aiMock := new(mocks.MockAIClient)
	// 7+ дней уперлись бы в потолок: min(500+9*400, 4000) = 4000.
	aiMock.On("GenerateText", mock.Anything, mock.Anything, mock.Anything, 4000).
		Return("plan", ai.UsageInfo{}, nil)

	a := agent.NewItineraryAgent(aiMock)
	result, _, err := a.Build(context.Background(), "Lisbon", "2026-06-01", "2026-06-09",
		"overview", "activities", "budget", "season")

	require.NoError(t, err)
	assert.Equal(t, 9, result.DayCount)
	aiMock.AssertExpectations(t)
}

func TestItineraryAgent_SingleDayAllowance(t *testing.T) {
	aiMock := new(mocks.MockAIClient)
	aiMock.On("GenerateText", mock.Anything, mock.Anything, mock.Anything, 900).
		Return("plan", ai.UsageInfo{}, nil)

	a := agent.NewItineraryAgent(aiMock)
	result, _, err := a.Build(context.Background(), "Lisbon", "2026-06-10", "2026-06-10",
		"overview", "activities", "budget", "season")

	require.NoError(t, err)
	assert.Equal(t, 1, result.DayCount)
	assert.Equal(t, []string{"2026-06-10"}, result.Dates)
}

func TestItineraryAgent_GenerationFailure(t *testing.T) {
	aiMock := new(mocks.MockAIClient)
	aiMock.On("GenerateText", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return("", ai.UsageInfo{}, ai.ErrAIGenerationFailed)

	a := agent.NewItineraryAgent(aiMock)
	result, _, err := a.Build(context.Background(), "Lisbon", "2026-06-10", "2026-06-13",
		"overview", "activities", "budget", "season")

	require.Error(t, err)
	assert.True(t, errors.Is(err, ai.ErrAIGenerationFailed))
	assert.Nil(t, result)
}
