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
	"travel-planner/internal/model"
	"travel-planner/internal/tools"
)

func TestActivityAgent_Success(t *testing.T) {
	aiMock := new(mocks.MockAIClient)
	searchMock := new(mocks.MockSearchClient)

	searchMock.On("Search", mock.Anything, "Lisbon food history activities things to do 2026-06-10", 5).
		Return(okSearch("https://example.com/act"))
	aiMock.On("GenerateText", mock.Anything, mock.Anything, mock.Anything, 1000).
		Return("1. Tram 28 ride...", ai.UsageInfo{PromptTokens: 300, CompletionTokens: 400}, nil)

	a := agent.NewActivityAgent(aiMock, searchMock)
	result, usage, err := a.FindActivities(context.Background(), "Lisbon", []string{"food", "history"}, "2026-06-10", "2026-06-13", lisbonCoords)

	require.NoError(t, err)
	assert.Equal(t, "1. Tram 28 ride...", result.Activities)
	assert.Equal(t, []string{"https://example.com/act"}, result.Sources)
	assert.Equal(t, 400, usage.CompletionTokens)

	// Лиссабон в июне: лето, северное полушарие, умеренный пояс.
	assert.Equal(t, model.SeasonSummer, result.SeasonContext.Season)
	assert.Equal(t, model.HemisphereNorthern, result.SeasonContext.Hemisphere)
	assert.Equal(t, model.ClimateTemperate, result.SeasonContext.Climate)
	assert.False(t, result.SeasonContext.Fallback)

	prompt := aiMock.Calls[0].Arguments.String(2)
	assert.Contains(t, prompt, "Season: Summer (Northern Hemisphere)")
	assert.Contains(t, prompt, "10-12 specific activities")
}

func TestActivityAgent_NilCoordinatesFallbackSeason(t *testing.T) {
	aiMock := new(mocks.MockAIClient)
	searchMock := new(mocks.MockSearchClient)

	searchMock.On("Search", mock.Anything, mock.Anything, 5).
		Return(tools.SearchResponse{Err: errors.New("unavailable")})
	aiMock.On("GenerateText", mock.Anything, mock.Anything, mock.Anything, 1000).
		Return("activities", ai.UsageInfo{}, nil)

	a := agent.NewActivityAgent(aiMock, searchMock)
	result, _, err := a.FindActivities(context.Background(), "Atlantis", []string{"diving"}, "2026-06-10", "2026-06-13", nil)

	require.NoError(t, err)
	assert.True(t, result.SeasonContext.Fallback)

	prompt := aiMock.Calls[0].Arguments.String(2)
	assert.Contains(t, prompt, "Season information unavailable")
}

func TestActivityAgent_GenerationFailure(t *testing.T) {
	aiMock := new(mocks.MockAIClient)
	searchMock := new(mocks.MockSearchClient)

	searchMock.On("Search", mock.Anything, mock.Anything, 5).Return(okSearch())
	aiMock.On("GenerateText", mock.Anything, mock.Anything, mock.Anything, 1000).
		Return("", ai.UsageInfo{}, ai.ErrAIGenerationFailed)

	a := agent.NewActivityAgent(aiMock, searchMock)
	result, _, err := a.FindActivities(context.Background(), "Lisbon", []string{"food"}, "2026-06-10", "2026-06-13", lisbonCoords)

	require.Error(t, err)
	assert.True(t, errors.Is(err, ai.ErrAIGenerationFailed))
	assert.Nil(t, result)
}
