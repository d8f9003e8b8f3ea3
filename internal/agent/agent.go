// Package agent содержит четыре шага пайплайна планирования поездки:
// исследование направления, подбор активностей, анализ бюджета и
// сборка маршрута. Каждый шаг выполняет ровно один вызов генерации и
// возвращает типизированный результат вместе с информацией о расходе
// токенов; учет расхода — ответственность координатора.
package agent

import (
	"fmt"
	"strings"

	"travel-planner/internal/tools"
)

// formatSnippets превращает результаты поиска в маркированный список
// для промпта. Каждый фрагмент обрезается до cut символов. При
// недоступном поиске возвращается fallback-текст, шаг не прерывается.
func formatSnippets(resp tools.SearchResponse, cut int, fallback string) string {
	if resp.Err != nil || len(resp.Results) == 0 {
		return fallback
	}
	lines := make([]string, 0, len(resp.Results))
	for _, r := range resp.Results {
		lines = append(lines, fmt.Sprintf("- %s: %s...", r.Title, truncate(r.Content, cut)))
	}
	return strings.Join(lines, "\n")
}

// truncate обрезает строку до n символов (по рунам, не байтам).
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
