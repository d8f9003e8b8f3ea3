package agent

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"

	"travel-planner/internal/ai"
	"travel-planner/internal/model"
	"travel-planner/internal/tools"
)

const researchSystemPrompt = "You are a destination research agent for a travel planner."

const researchMaxTokens = 400

// ResearchAgent собирает контекст о городе: координаты, результаты
// веб-поиска и изображение, затем синтезирует обзор одним вызовом
// генерации.
type ResearchAgent struct {
	ai     ai.AIClient
	search tools.SearchClient
	geo    tools.Geocoder
	images tools.ImageClient
}

// NewResearchAgent создает агент исследования направления.
func NewResearchAgent(client ai.AIClient, search tools.SearchClient, geo tools.Geocoder, images tools.ImageClient) *ResearchAgent {
	return &ResearchAgent{
		ai:     client,
		search: search,
		geo:    geo,
		images: images,
	}
}

// Research выполняет шаг исследования. Три внешних запроса (геокодинг,
// поиск, изображение) не зависят друг от друга и выполняются
// параллельно; деградация любого из них не прерывает шаг. Ошибкой шаг
// завершается только при сбое генерации.
func (a *ResearchAgent) Research(ctx context.Context, destination string, interests []string) (*model.ResearchResult, ai.UsageInfo, error) {
	var (
		wg     sync.WaitGroup
		coords *model.Coordinates
		search tools.SearchResponse
		image  model.ImageRef
	)

	wg.Add(3)
	go func() {
		defer wg.Done()
		coords, _ = a.geo.Resolve(ctx, destination)
	}()
	go func() {
		defer wg.Done()
		query := fmt.Sprintf("%s travel guide attractions things to do", destination)
		search = a.search.Search(ctx, query, 3)
	}()
	go func() {
		defer wg.Done()
		image, _ = a.images.DestinationImage(ctx, destination)
	}()
	wg.Wait()

	if coords == nil {
		log.Warn().Str("destination", destination).Msg("координаты не найдены, продолжаем без контекста локации")
	}

	prompt := fmt.Sprintf(`Destination: %s
Traveler interests: %s

Search results summary:
%s

Provide:
1. Brief destination overview (2-3 sentences)
2. Top 5 must-see attractions matching interests
3. Cultural tips or local customs
4. Best neighborhoods to explore

Keep response under 200 words.`,
		destination,
		strings.Join(interests, ", "),
		formatSnippets(search, 200, "No search results available"),
	)

	text, usage, err := a.ai.GenerateText(ctx, researchSystemPrompt, prompt, researchMaxTokens)
	if err != nil {
		return nil, usage, fmt.Errorf("исследование направления: %w", err)
	}

	return &model.ResearchResult{
		Overview:    text,
		Image:       image,
		Coordinates: coords,
		Sources:     search.SourceURLs(),
	}, usage, nil
}
