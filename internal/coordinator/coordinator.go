// Package coordinator управляет последовательным прохождением четырех
// шагов планирования поездки. Последовательность фиксированная, без
// ретраев: ошибка любого шага останавливает пайплайн, частичный план
// не возвращается.
package coordinator

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog/log"

	"travel-planner/internal/ai"
	"travel-planner/internal/model"
)

var (
	stagesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "travel_planner_pipeline_stages_total",
		Help: "Количество выполненных шагов пайплайна по статусам.",
	}, []string{"stage", "status"})

	stageDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "travel_planner_pipeline_stage_duration_seconds",
		Help:    "Длительность шагов пайплайна.",
		Buckets: prometheus.DefBuckets,
	}, []string{"stage"})

	tripsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "travel_planner_trips_total",
		Help: "Количество запросов планирования по статусам.",
	}, []string{"status"})
)

// Имена шагов пайплайна. Используются в логах, метриках и как
// agent_name отладочных записей.
const (
	StageResearching       = "researching"
	StageFindingActivities = "finding_activities"
	StageAnalyzingBudget   = "analyzing_budget"
	StageBuildingItinerary = "building_itinerary"
)

// ResearchStep - шаг исследования направления.
type ResearchStep interface {
	Research(ctx context.Context, destination string, interests []string) (*model.ResearchResult, ai.UsageInfo, error)
}

// ActivityStep - шаг подбора активностей.
type ActivityStep interface {
	FindActivities(ctx context.Context, destination string, interests []string, startDate, endDate string, coords *model.Coordinates) (*model.ActivityResult, ai.UsageInfo, error)
}

// BudgetStep - шаг анализа бюджета.
type BudgetStep interface {
	EstimateCosts(ctx context.Context, destination, startDate, endDate string, totalBudget float64, activities string) (*model.BudgetResult, ai.UsageInfo, error)
}

// ItineraryStep - финальный шаг сборки маршрута.
type ItineraryStep interface {
	Build(ctx context.Context, destination, startDate, endDate string, overview, activities, budgetAnalysis, seasonText string) (*model.ItineraryResult, ai.UsageInfo, error)
}

// Coordinator последовательно запускает шаги и агрегирует итоговый
// план вместе со статистикой расхода токенов.
type Coordinator struct {
	research  ResearchStep
	activity  ActivityStep
	budget    BudgetStep
	itinerary ItineraryStep
}

// NewCoordinator создает координатор пайплайна.
func NewCoordinator(research ResearchStep, activity ActivityStep, budget BudgetStep, itinerary ItineraryStep) *Coordinator {
	return &Coordinator{
		research:  research,
		activity:  activity,
		budget:    budget,
		itinerary: itinerary,
	}
}

// stage - один шаг пайплайна: имя плюс функция, которая читает
// заполненные ранее поля состояния и пишет свой результат.
type stage struct {
	name string
	run  func(ctx context.Context, state *model.TripState) (ai.UsageInfo, error)
}

// PlanTrip - точка входа пайплайна. Валидация выполняется до вызова
// каких-либо внешних сервисов. Вторым значением возвращаются
// отладочные записи шагов для персистенции.
func (c *Coordinator) PlanTrip(ctx context.Context, req model.TripRequest) (*model.FinalPlan, []model.StageFinding, error) {
	if err := validateRequest(req); err != nil {
		tripsTotal.WithLabelValues("rejected").Inc()
		return nil, nil, err
	}

	ledger := ai.NewUsageLedger()
	state := &model.TripState{Request: req}

	stages := []stage{
		{name: StageResearching, run: func(ctx context.Context, s *model.TripState) (ai.UsageInfo, error) {
			result, usage, err := c.research.Research(ctx, s.Request.Destination, s.Request.Interests)
			s.Research = result
			return usage, err
		}},
		{name: StageFindingActivities, run: func(ctx context.Context, s *model.TripState) (ai.UsageInfo, error) {
			result, usage, err := c.activity.FindActivities(ctx, s.Request.Destination, s.Request.Interests,
				s.Request.StartDate, s.Request.EndDate, s.Research.Coordinates)
			s.Activity = result
			return usage, err
		}},
		{name: StageAnalyzingBudget, run: func(ctx context.Context, s *model.TripState) (ai.UsageInfo, error) {
			result, usage, err := c.budget.EstimateCosts(ctx, s.Request.Destination,
				s.Request.StartDate, s.Request.EndDate, s.Request.Budget, s.Activity.Activities)
			s.Budget = result
			return usage, err
		}},
		{name: StageBuildingItinerary, run: func(ctx context.Context, s *model.TripState) (ai.UsageInfo, error) {
			result, usage, err := c.itinerary.Build(ctx, s.Request.Destination,
				s.Request.StartDate, s.Request.EndDate,
				s.Research.Overview, s.Activity.Activities, s.Budget.Analysis,
				s.Activity.SeasonContext.Text())
			s.Itinerary = result
			return usage, err
		}},
	}

	for _, st := range stages {
		log.Info().Str("stage", st.name).Str("destination", req.Destination).Msg("шаг пайплайна запущен")
		started := time.Now()

		usage, err := st.run(ctx, state)
		ledger.Add(usage)
		stageDuration.WithLabelValues(st.name).Observe(time.Since(started).Seconds())

		if err != nil {
			stagesTotal.WithLabelValues(st.name, "error").Inc()
			tripsTotal.WithLabelValues("error").Inc()
			log.Error().Err(err).Str("stage", st.name).Str("destination", req.Destination).Msg("шаг пайплайна завершился ошибкой")
			return nil, nil, fmt.Errorf("шаг %s: %w", st.name, err)
		}
		stagesTotal.WithLabelValues(st.name, "success").Inc()
	}

	tripsTotal.WithLabelValues("success").Inc()

	plan := &model.FinalPlan{
		Destination:   req.Destination,
		Dates:         fmt.Sprintf("%s to %s", req.StartDate, req.EndDate),
		Budget:        req.Budget,
		Overview:      state.Research.Overview,
		Image:         state.Research.Image,
		SeasonContext: state.Activity.SeasonContext.Text(),
		BudgetReport:  state.Budget.Analysis,
		Itinerary:     state.Itinerary.Itinerary,
		DayCount:      state.Itinerary.DayCount,
		Usage:         ledger.Summary(),
	}
	return plan, stageFindings(state), nil
}

// validateRequest проверяет даты и длительность поездки до запуска
// пайплайна. Возвращает *model.ValidationError.
func validateRequest(req model.TripRequest) error {
	start, errStart := time.Parse(model.DateLayout, req.StartDate)
	end, errEnd := time.Parse(model.DateLayout, req.EndDate)
	if errStart != nil || errEnd != nil {
		return model.NewValidationError("Invalid date format. Dates must use YYYY-MM-DD.")
	}

	days := int(end.Sub(start).Hours()/24) + 1
	if days < 1 {
		return model.NewValidationError("Invalid date range. End date must be after start date.")
	}
	if days > model.MaxTripDays {
		return model.NewValidationError("Trip duration exceeds maximum of 7 days per city. Please shorten your dates or plan multiple single-city trips.")
	}
	return nil
}

// stageFindings переводит состояние в отладочные записи по шагам.
func stageFindings(state *model.TripState) []model.StageFinding {
	return []model.StageFinding{
		{AgentName: StageResearching, Narrative: state.Research.Overview, Sources: state.Research.Sources},
		{AgentName: StageFindingActivities, Narrative: state.Activity.Activities, Sources: state.Activity.Sources},
		{AgentName: StageAnalyzingBudget, Narrative: state.Budget.Analysis, Sources: state.Budget.Sources},
		{AgentName: StageBuildingItinerary, Narrative: state.Itinerary.Itinerary},
	}
}
