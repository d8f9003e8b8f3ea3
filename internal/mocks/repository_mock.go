package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"travel-planner/internal/model"
	"travel-planner/internal/repository"
)

// MockTripRepository - мок для repository.TripRepository.
type MockTripRepository struct {
	mock.Mock
}

var _ repository.TripRepository = (*MockTripRepository)(nil)

func (m *MockTripRepository) SaveTrip(ctx context.Context, trip *model.PersistedTrip) error {
	args := m.Called(ctx, trip)
	return args.Error(0)
}

func (m *MockTripRepository) ListRecent(ctx context.Context, limit int) ([]model.PersistedTrip, error) {
	args := m.Called(ctx, limit)
	var trips []model.PersistedTrip
	if args.Get(0) != nil {
		trips = args.Get(0).([]model.PersistedTrip)
	}
	return trips, args.Error(1)
}

func (m *MockTripRepository) SaveAgentFinding(ctx context.Context, finding *model.AgentFinding) error {
	args := m.Called(ctx, finding)
	return args.Error(0)
}
