package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"travel-planner/internal/handler"
	"travel-planner/internal/model"
)

// MockTripPlanner - мок для handler.TripPlanner.
type MockTripPlanner struct {
	mock.Mock
}

var _ handler.TripPlanner = (*MockTripPlanner)(nil)

func (m *MockTripPlanner) PlanTrip(ctx context.Context, req model.TripRequest) (*model.FinalPlan, []model.StageFinding, error) {
	args := m.Called(ctx, req)
	var plan *model.FinalPlan
	if args.Get(0) != nil {
		plan = args.Get(0).(*model.FinalPlan)
	}
	var findings []model.StageFinding
	if args.Get(1) != nil {
		findings = args.Get(1).([]model.StageFinding)
	}
	return plan, findings, args.Error(2)
}
