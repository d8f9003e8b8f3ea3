package agent

import (
	"context"
	"fmt"
	"strings"

	"travel-planner/internal/ai"
	"travel-planner/internal/model"
	"travel-planner/internal/season"
	"travel-planner/internal/tools"
)

const activitySystemPrompt = "You are an activity planning agent for a travel planner."

const activityMaxTokens = 1000

// ActivityAgent подбирает активности с учетом сезона и климата
// направления.
type ActivityAgent struct {
	ai     ai.AIClient
	search tools.SearchClient
}

// NewActivityAgent создает агент подбора активностей.
func NewActivityAgent(client ai.AIClient, search tools.SearchClient) *ActivityAgent {
	return &ActivityAgent{ai: client, search: search}
}

// FindActivities выполняет шаг подбора активностей. Сезонный контекст
// вычисляется ровно один раз и передается дальше по пайплайну без
// изменений.
func (a *ActivityAgent) FindActivities(ctx context.Context, destination string, interests []string, startDate, endDate string, coords *model.Coordinates) (*model.ActivityResult, ai.UsageInfo, error) {
	seasonCtx := season.Estimate(startDate, coords)

	query := fmt.Sprintf("%s %s activities things to do %s", destination, strings.Join(interests, " "), startDate)
	search := a.search.Search(ctx, query, 5)

	prompt := fmt.Sprintf(`Destination: %s
Dates: %s to %s
Traveler Interests: %s

Location & Season Context:
%s

Search Results:
%s

TASK: Create a diverse list of 10-12 specific activities that:
1. Match the traveler's interests
2. Are appropriate for the destination's typical weather during this season
3. Include BOTH weather-dependent and weather-independent options (indoor/outdoor mix)
4. Account for the destination's climate (e.g., Tokyo in June = rainy season, so include indoor options)
5. Are culturally appropriate and respectful

For each activity, provide:
- Activity name and brief description (1-2 sentences)
- Estimated duration (e.g., "2-3 hours", "Half day", "Full day")
- Estimated cost ($, $$, or $$$)
- Best time of day (Morning/Midday/Evening/Night)
- Weather dependency (Indoor/Outdoor/Either)

IMPORTANT GUIDELINES:
- Include a healthy mix of indoor and outdoor activities
- For tropical/monsoon destinations during rainy season: emphasize indoor cultural activities, covered markets, museums
- For cold destinations: include indoor alternatives but also cold-weather outdoor activities if appropriate
- DO NOT mention extreme weather events (hurricanes, typhoons, blizzards) or emergency scenarios
- Focus on typical seasonal conditions, not disasters
- Be culturally sensitive and avoid stereotypes

Format as a clear numbered list.`,
		destination,
		startDate, endDate,
		strings.Join(interests, ", "),
		seasonCtx.Text(),
		formatSnippets(search, 150, "No search results available"),
	)

	text, usage, err := a.ai.GenerateText(ctx, activitySystemPrompt, prompt, activityMaxTokens)
	if err != nil {
		return nil, usage, fmt.Errorf("подбор активностей: %w", err)
	}

	return &model.ActivityResult{
		Activities:    text,
		SeasonContext: seasonCtx,
		Sources:       search.SourceURLs(),
	}, usage, nil
}
