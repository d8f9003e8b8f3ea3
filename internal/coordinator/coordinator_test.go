package coordinator_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"travel-planner/internal/ai"
	"travel-planner/internal/coordinator"
	"travel-planner/internal/mocks"
	"travel-planner/internal/model"
)

type pipelineMocks struct {
	research  *mocks.MockResearchStep
	activity  *mocks.MockActivityStep
	budget    *mocks.MockBudgetStep
	itinerary *mocks.MockItineraryStep
}

func newPipeline() (*coordinator.Coordinator, *pipelineMocks) {
	m := &pipelineMocks{
		research:  new(mocks.MockResearchStep),
		activity:  new(mocks.MockActivityStep),
		budget:    new(mocks.MockBudgetStep),
		itinerary: new(mocks.MockItineraryStep),
	}
	return coordinator.NewCoordinator(m.research, m.activity, m.budget, m.itinerary), m
}

func lisbonRequest() model.TripRequest {
	return model.TripRequest{
		Destination: "Lisbon",
		StartDate:   "2026-06-10",
		EndDate:     "2026-06-13",
		Budget:      1200,
		Interests:   []string{"food", "history"},
	}
}

func lisbonSeason() model.SeasonContext {
	return model.SeasonContext{
		Hemisphere: model.HemisphereNorthern,
		Season:     model.SeasonSummer,
		Climate:    model.ClimateTemperate,
		Month:      "June",
	}
}

func (m *pipelineMocks) assertNoneCalled(t *testing.T) {
	m.research.AssertNotCalled(t, "Research")
	m.activity.AssertNotCalled(t, "FindActivities")
	m.budget.AssertNotCalled(t, "EstimateCosts")
	m.itinerary.AssertNotCalled(t, "Build")
}

func TestPlanTrip_TooLongTripRejectedBeforeAnyStep(t *testing.T) {
	c, m := newPipeline()

	req := lisbonRequest()
	req.EndDate = "2026-06-20" // 11 дней

	plan, findings, err := c.PlanTrip(context.Background(), req)

	require.Error(t, err)
	var vErr *model.ValidationError
	require.True(t, errors.As(err, &vErr))
	assert.Equal(t, "Trip duration exceeds maximum of 7 days per city. Please shorten your dates or plan multiple single-city trips.", vErr.Error())
	assert.Nil(t, plan)
	assert.Nil(t, findings)
	m.assertNoneCalled(t)
}

func TestPlanTrip_EndBeforeStartRejected(t *testing.T) {
	c, m := newPipeline()

	req := lisbonRequest()
	req.StartDate = "2026-06-13"
	req.EndDate = "2026-06-10"

	plan, _, err := c.PlanTrip(context.Background(), req)

	require.Error(t, err)
	var vErr *model.ValidationError
	require.True(t, errors.As(err, &vErr))
	assert.Equal(t, "Invalid date range. End date must be after start date.", vErr.Error())
	assert.Nil(t, plan)
	m.assertNoneCalled(t)
}

func TestPlanTrip_MalformedDatesRejected(t *testing.T) {
	c, m := newPipeline()

	req := lisbonRequest()
	req.StartDate = "10/06/2026"

	_, _, err := c.PlanTrip(context.Background(), req)

	var vErr *model.ValidationError
	require.True(t, errors.As(err, &vErr))
	m.assertNoneCalled(t)
}

func TestPlanTrip_SevenDayTripAccepted(t *testing.T) {
	c, m := newPipeline()
	req := lisbonRequest()
	req.EndDate = "2026-06-16" // ровно 7 дней

	stubHappyPath(m, 7)

	plan, _, err := c.PlanTrip(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 7, plan.DayCount)
}

func stubHappyPath(m *pipelineMocks, days int) {
	coords := &model.Coordinates{Lat: 38.7223, Lon: -9.1393}
	m.research.On("Research", mock.Anything, "Lisbon", mock.Anything).
		Return(&model.ResearchResult{
			Overview:    "Lisbon overview",
			Image:       model.ImageRef{URL: "https://img/lisbon.jpg"},
			Coordinates: coords,
			Sources:     []string{"https://example.com/guide"},
		}, ai.UsageInfo{PromptTokens: 100, CompletionTokens: 200}, nil)
	m.activity.On("FindActivities", mock.Anything, "Lisbon", mock.Anything, mock.Anything, mock.Anything, coords).
		Return(&model.ActivityResult{
			Activities:    "1. Tram 28",
			SeasonContext: lisbonSeason(),
			Sources:       []string{"https://example.com/act"},
		}, ai.UsageInfo{PromptTokens: 150, CompletionTokens: 300}, nil)
	m.budget.On("EstimateCosts", mock.Anything, "Lisbon", mock.Anything, mock.Anything, 1200.0, "1. Tram 28").
		Return(&model.BudgetResult{
			Analysis:    "comfortable",
			DayCount:    days,
			DailyBudget: 1200.0 / float64(days),
		}, ai.UsageInfo{PromptTokens: 120, CompletionTokens: 180}, nil)
	m.itinerary.On("Build", mock.Anything, "Lisbon", mock.Anything, mock.Anything,
		"Lisbon overview", "1. Tram 28", "comfortable", lisbonSeason().Text()).
		Return(&model.ItineraryResult{
			Itinerary: "**Day 1**...",
			DayCount:  days,
		}, ai.UsageInfo{PromptTokens: 400, CompletionTokens: 900}, nil)
}

func TestPlanTrip_Success(t *testing.T) {
	c, m := newPipeline()
	stubHappyPath(m, 4)

	plan, findings, err := c.PlanTrip(context.Background(), lisbonRequest())

	require.NoError(t, err)
	assert.Equal(t, "Lisbon", plan.Destination)
	assert.Equal(t, "2026-06-10 to 2026-06-13", plan.Dates)
	assert.Equal(t, "Lisbon overview", plan.Overview)
	assert.Equal(t, "https://img/lisbon.jpg", plan.Image.URL)
	assert.Equal(t, lisbonSeason().Text(), plan.SeasonContext)
	assert.Equal(t, "comfortable", plan.BudgetReport)
	assert.Equal(t, "**Day 1**...", plan.Itinerary)
	assert.Equal(t, 4, plan.DayCount)

	// Счетчик токенов агрегирует все четыре шага.
	assert.Equal(t, 100+150+120+400, plan.Usage.InputTokens)
	assert.Equal(t, 200+300+180+900, plan.Usage.OutputTokens)
	assert.Positive(t, plan.Usage.EstimatedCostUSD)

	require.Len(t, findings, 4)
	assert.Equal(t, coordinator.StageResearching, findings[0].AgentName)
	assert.Equal(t, "Lisbon overview", findings[0].Narrative)
	assert.Equal(t, coordinator.StageBuildingItinerary, findings[3].AgentName)

	m.research.AssertExpectations(t)
	m.itinerary.AssertExpectations(t)
}

func TestPlanTrip_ResearchFailureStopsPipeline(t *testing.T) {
	c, m := newPipeline()
	m.research.On("Research", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, ai.UsageInfo{}, ai.ErrAIGenerationFailed)

	plan, findings, err := c.PlanTrip(context.Background(), lisbonRequest())

	require.Error(t, err)
	assert.True(t, errors.Is(err, ai.ErrAIGenerationFailed))
	assert.Nil(t, plan)
	assert.Nil(t, findings)
	m.activity.AssertNotCalled(t, "FindActivities")
	m.budget.AssertNotCalled(t, "EstimateCosts")
	m.itinerary.AssertNotCalled(t, "Build")
}

func TestPlanTrip_ActivityFailureStopsPipeline(t *testing.T) {
	c, m := newPipeline()
	m.research.On("Research", mock.Anything, mock.Anything, mock.Anything).
		Return(&model.ResearchResult{Overview: "ok"}, ai.UsageInfo{}, nil)
	m.activity.On("FindActivities", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, ai.UsageInfo{}, ai.ErrAIGenerationFailed)

	plan, _, err := c.PlanTrip(context.Background(), lisbonRequest())

	require.Error(t, err)
	assert.Nil(t, plan)
	m.budget.AssertNotCalled(t, "EstimateCosts")
	m.itinerary.AssertNotCalled(t, "Build")
}

func TestPlanTrip_BudgetFailureStopsPipeline(t *testing.T) {
	c, m := newPipeline()
	m.research.On("Research", mock.Anything, mock.Anything, mock.Anything).
		Return(&model.ResearchResult{Overview: "ok"}, ai.UsageInfo{}, nil)
	m.activity.On("FindActivities", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(&model.ActivityResult{Activities: "acts", SeasonContext: lisbonSeason()}, ai.UsageInfo{}, nil)
	m.budget.On("EstimateCosts", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, ai.UsageInfo{}, ai.ErrAIGenerationFailed)

	plan, _, err := c.PlanTrip(context.Background(), lisbonRequest())

	require.Error(t, err)
	assert.Nil(t, plan)
	m.itinerary.AssertNotCalled(t, "Build")
}

func TestPlanTrip_ItineraryFailureReturnsNoPartialPlan(t *testing.T) {
	c, m := newPipeline()
	m.research.On("Research", mock.Anything, mock.Anything, mock.Anything).
		Return(&model.ResearchResult{Overview: "ok"}, ai.UsageInfo{}, nil)
	m.activity.On("FindActivities", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(&model.ActivityResult{Activities: "acts", SeasonContext: lisbonSeason()}, ai.UsageInfo{}, nil)
	m.budget.On("EstimateCosts", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(&model.BudgetResult{Analysis: "tight"}, ai.UsageInfo{}, nil)
	m.itinerary.On("Build", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, ai.UsageInfo{}, errors.New("timeout"))

	plan, findings, err := c.PlanTrip(context.Background(), lisbonRequest())

	require.Error(t, err)
	assert.Contains(t, err.Error(), coordinator.StageBuildingItinerary)
	assert.Nil(t, plan)
	assert.Nil(t, findings)
}
