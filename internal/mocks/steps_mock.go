package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"travel-planner/internal/ai"
	"travel-planner/internal/coordinator"
	"travel-planner/internal/model"
)

// MockResearchStep - мок для coordinator.ResearchStep.
type MockResearchStep struct {
	mock.Mock
}

var _ coordinator.ResearchStep = (*MockResearchStep)(nil)

func (m *MockResearchStep) Research(ctx context.Context, destination string, interests []string) (*model.ResearchResult, ai.UsageInfo, error) {
	args := m.Called(ctx, destination, interests)
	var result *model.ResearchResult
	if args.Get(0) != nil {
		result = args.Get(0).(*model.ResearchResult)
	}
	return result, args.Get(1).(ai.UsageInfo), args.Error(2)
}

// MockActivityStep - мок для coordinator.ActivityStep.
type MockActivityStep struct {
	mock.Mock
}

var _ coordinator.ActivityStep = (*MockActivityStep)(nil)

func (m *MockActivityStep) FindActivities(ctx context.Context, destination string, interests []string, startDate, endDate string, coords *model.Coordinates) (*model.ActivityResult, ai.UsageInfo, error) {
	args := m.Called(ctx, destination, interests, startDate, endDate, coords)
	var result *model.ActivityResult
	if args.Get(0) != nil {
		result = args.Get(0).(*model.ActivityResult)
	}
	return result, args.Get(1).(ai.UsageInfo), args.Error(2)
}

// MockBudgetStep - мок для coordinator.BudgetStep.
type MockBudgetStep struct {
	mock.Mock
}

var _ coordinator.BudgetStep = (*MockBudgetStep)(nil)

func (m *MockBudgetStep) EstimateCosts(ctx context.Context, destination, startDate, endDate string, totalBudget float64, activities string) (*model.BudgetResult, ai.UsageInfo, error) {
	args := m.Called(ctx, destination, startDate, endDate, totalBudget, activities)
	var result *model.BudgetResult
	if args.Get(0) != nil {
		result = args.Get(0).(*model.BudgetResult)
	}
	return result, args.Get(1).(ai.UsageInfo), args.Error(2)
}

// MockItineraryStep - мок для coordinator.ItineraryStep.
type MockItineraryStep struct {
	mock.Mock
}

var _ coordinator.ItineraryStep = (*MockItineraryStep)(nil)

func (m *MockItineraryStep) Build(ctx context.Context, destination, startDate, endDate string, overview, activities, budgetAnalysis, seasonText string) (*model.ItineraryResult, ai.UsageInfo, error) {
	args := m.Called(ctx, destination, startDate, endDate, overview, activities, budgetAnalysis, seasonText)
	var result *model.ItineraryResult
	if args.Get(0) != nil {
		result = args.Get(0).(*model.ItineraryResult)
	}
	return result, args.Get(1).(ai.UsageInfo), args.Error(2)
}
