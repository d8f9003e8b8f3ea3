package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"travel-planner/internal/ai"
)

// MockAIClient - мок для ai.AIClient.
type MockAIClient struct {
	mock.Mock
}

var _ ai.AIClient = (*MockAIClient)(nil)

func (m *MockAIClient) GenerateText(ctx context.Context, systemPrompt string, userInput string, maxTokens int) (string, ai.UsageInfo, error) {
	args := m.Called(ctx, systemPrompt, userInput, maxTokens)
	return args.String(0), args.Get(1).(ai.UsageInfo), args.Error(2)
}
