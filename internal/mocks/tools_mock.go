package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"travel-planner/internal/model"
	"travel-planner/internal/tools"
)

// MockSearchClient - мок для tools.SearchClient.
type MockSearchClient struct {
	mock.Mock
}

var _ tools.SearchClient = (*MockSearchClient)(nil)

func (m *MockSearchClient) Search(ctx context.Context, query string, maxResults int) tools.SearchResponse {
	args := m.Called(ctx, query, maxResults)
	return args.Get(0).(tools.SearchResponse)
}

// MockGeocoder - мок для tools.Geocoder.
type MockGeocoder struct {
	mock.Mock
}

var _ tools.Geocoder = (*MockGeocoder)(nil)

func (m *MockGeocoder) Resolve(ctx context.Context, location string) (*model.Coordinates, bool) {
	args := m.Called(ctx, location)
	var coords *model.Coordinates
	if args.Get(0) != nil {
		coords = args.Get(0).(*model.Coordinates)
	}
	return coords, args.Bool(1)
}

// MockImageClient - мок для tools.ImageClient.
type MockImageClient struct {
	mock.Mock
}

var _ tools.ImageClient = (*MockImageClient)(nil)

func (m *MockImageClient) DestinationImage(ctx context.Context, location string) (model.ImageRef, bool) {
	args := m.Called(ctx, location)
	return args.Get(0).(model.ImageRef), args.Bool(1)
}
