package agent

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"travel-planner/internal/ai"
	"travel-planner/internal/model"
)

const itinerarySystemPrompt = "You are an itinerary building agent. Create a detailed day-by-day travel plan."

// Выделение токенов на маршрут растет с длиной поездки: базовые 500
// плюс 400 на каждый день, но не больше 4000.
const (
	itineraryBaseTokens   = 500
	itineraryTokensPerDay = 400
	itineraryMaxTokens    = 4000
)

const (
	overviewExcerptLen = 300
	budgetExcerptLen   = 200
)

// ItineraryAgent собирает результаты предыдущих шагов в маршрут по
// дням. Внешние сервисы не вызывает - только одна генерация.
type ItineraryAgent struct {
	ai ai.AIClient
}

// NewItineraryAgent создает агент сборки маршрута.
func NewItineraryAgent(client ai.AIClient) *ItineraryAgent {
	return &ItineraryAgent{ai: client}
}

// Build выполняет финальный шаг пайплайна.
func (a *ItineraryAgent) Build(ctx context.Context, destination, startDate, endDate string, overview, activities, budgetAnalysis, seasonText string) (*model.ItineraryResult, ai.UsageInfo, error) {
	dayCount := tripDayCount(startDate, endDate)
	dates := enumerateDates(startDate, dayCount)

	maxTokens := itineraryBaseTokens + dayCount*itineraryTokensPerDay
	if maxTokens > itineraryMaxTokens {
		maxTokens = itineraryMaxTokens
	}

	prompt := fmt.Sprintf(`Destination: %s
Dates: %s to %s (%d days)

Destination Overview:
%s

Season & Weather Context:
%s

Available Activities:
%s

Budget Considerations:
%s

TASK: Create a day-by-day itinerary with the following structure for EACH day:

**Day [X] - [Date] - [Day of Week]**

**Morning (9am-12pm):**
- [Activity name and location]
- [Brief description and why it's scheduled in morning]
- Estimated cost: $[amount]

**Midday (12pm-5pm):**
- [Activity name and location]
- [Include lunch suggestion]
- Estimated cost: $[amount]

**Evening (5pm-10pm):**
- [Activity name and location]
- [Include dinner suggestion]
- Estimated cost: $[amount]

**Night (Optional, 10pm+):**
- [Optional nightlife/relaxation activity]
- Estimated cost: $[amount]

**Day [X] Total Estimated Cost: $[sum]**

IMPORTANT:
- Balance indoor/outdoor activities based on season
- Group activities by geographic proximity to minimize travel time
- Include meal suggestions that match the area you're in
- Vary the pace - don't overschedule
- Consider typical opening hours
- End each day with realistic daily cost estimate
- Make it feel natural and enjoyable, not rushed
- Be concise but specific

Create the full %d-day itinerary now. Keep each day's description focused and actionable.`,
		destination,
		startDate, endDate, dayCount,
		truncate(overview, overviewExcerptLen),
		seasonText,
		activities,
		truncate(budgetAnalysis, budgetExcerptLen),
		dayCount,
	)

	text, usage, err := a.ai.GenerateText(ctx, itinerarySystemPrompt, prompt, maxTokens)
	if err != nil {
		return nil, usage, fmt.Errorf("сборка маршрута: %w", err)
	}

	log.Debug().
		Int("input_tokens", usage.PromptTokens).
		Int("output_tokens", usage.CompletionTokens).
		Msg("маршрут сгенерирован")

	return &model.ItineraryResult{
		Itinerary:  text,
		DayCount:   dayCount,
		Dates:      dates,
		TokensUsed: usage.CompletionTokens,
	}, usage, nil
}

// enumerateDates возвращает все даты поездки в формате DateLayout.
func enumerateDates(startDate string, dayCount int) []string {
	start, err := time.Parse(model.DateLayout, startDate)
	if err != nil {
		return nil
	}
	dates := make([]string, 0, dayCount)
	for i := 0; i < dayCount; i++ {
		dates = append(dates, start.AddDate(0, 0, i).Format(model.DateLayout))
	}
	return dates
}
