package agent

import (
	"context"
	"fmt"
	"time"

	"travel-planner/internal/ai"
	"travel-planner/internal/model"
	"travel-planner/internal/tools"
)

const budgetSystemPrompt = "You are a budget planning agent for a travel planner."

const budgetMaxTokens = 500

// activitiesExcerptLen ограничивает объем текста активностей в промпте
// бюджетного агента.
const activitiesExcerptLen = 500

// BudgetAgent оценивает реалистичность бюджета поездки.
type BudgetAgent struct {
	ai     ai.AIClient
	search tools.SearchClient
}

// NewBudgetAgent создает агент анализа бюджета.
func NewBudgetAgent(client ai.AIClient, search tools.SearchClient) *BudgetAgent {
	return &BudgetAgent{ai: client, search: search}
}

// EstimateCosts выполняет шаг анализа бюджета. Даты уже прошли
// валидацию координатора, но dayCount защищен от нуля, чтобы деление
// на число дней было безопасным при любом входе.
func (a *BudgetAgent) EstimateCosts(ctx context.Context, destination, startDate, endDate string, totalBudget float64, activities string) (*model.BudgetResult, ai.UsageInfo, error) {
	dayCount := tripDayCount(startDate, endDate)
	dailyBudget := totalBudget / float64(dayCount)

	query := fmt.Sprintf("%s travel costs budget accommodation food 2025", destination)
	search := a.search.Search(ctx, query, 3)

	prompt := fmt.Sprintf(`Destination: %s
Travel Dates: %s to %s (%d days)
Total Budget: $%.2f
Daily Budget: $%.2f

Search Results on Costs:
%s

Proposed Activities:
%s...

TASK: Create a realistic budget breakdown with:

1. **Daily Cost Estimates:**
   - Accommodation (per night)
   - Food (breakfast, lunch, dinner, snacks)
   - Local transportation
   - Activities/attractions
   - Miscellaneous

2. **Budget Assessment:**
   - Is the $%.2f budget realistic for %d days?
   - Recommendation: comfortable / tight / insufficient
   - Suggested budget adjustments if needed

3. **Money-Saving Tips:**
   - 2-3 specific tips for this destination

Keep response under 250 words. Be realistic and honest about costs.`,
		destination,
		startDate, endDate, dayCount,
		totalBudget,
		dailyBudget,
		formatSnippets(search, 150, "No cost information available"),
		truncate(activities, activitiesExcerptLen),
		totalBudget, dayCount,
	)

	text, usage, err := a.ai.GenerateText(ctx, budgetSystemPrompt, prompt, budgetMaxTokens)
	if err != nil {
		return nil, usage, fmt.Errorf("анализ бюджета: %w", err)
	}

	return &model.BudgetResult{
		Analysis:    text,
		DayCount:    dayCount,
		DailyBudget: dailyBudget,
		Sources:     search.SourceURLs(),
	}, usage, nil
}

// tripDayCount считает длительность поездки включительно по обеим
// датам. Некорректный диапазон приводится к одному дню.
func tripDayCount(startDate, endDate string) int {
	start, err := time.Parse(model.DateLayout, startDate)
	if err != nil {
		return 1
	}
	end, err := time.Parse(model.DateLayout, endDate)
	if err != nil {
		return 1
	}
	days := int(end.Sub(start).Hours()/24) + 1
	if days < 1 {
		return 1
	}
	return days
}
