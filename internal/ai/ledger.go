package ai

import (
	"math"
	"sync"

	"travel-planner/internal/model"
)

// tripBudgetCeilingUSD - справочный потолок расходов для статистики
// "сколько поездок осталось". Не является биллинговым ограничением.
const tripBudgetCeilingUSD = 20.0

// UsageLedger накапливает расход токенов AI-вызовов в рамках одного
// запроса планирования. Координатор создает свежий экземпляр на
// каждый запрос; инкремент защищен мьютексом, так что экземпляр
// безопасен и при использовании на уровне процесса.
type UsageLedger struct {
	mu                sync.Mutex
	totalInputTokens  int
	totalOutputTokens int
}

// NewUsageLedger создает пустой журнал расхода токенов.
func NewUsageLedger() *UsageLedger {
	return &UsageLedger{}
}

// Add учитывает расход одного вызова генерации.
func (l *UsageLedger) Add(usage UsageInfo) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.totalInputTokens += usage.PromptTokens
	l.totalOutputTokens += usage.CompletionTokens
}

// EstimatedCostUSD возвращает оценочную стоимость накопленного расхода.
func (l *UsageLedger) EstimatedCostUSD() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return calculateCost(l.totalInputTokens, l.totalOutputTokens)
}

// Summary возвращает итоговую статистику для FinalPlan.
func (l *UsageLedger) Summary() model.UsageSummary {
	l.mu.Lock()
	defer l.mu.Unlock()

	cost := calculateCost(l.totalInputTokens, l.totalOutputTokens)
	tripsRemaining := 0
	if cost > 0 {
		tripsRemaining = int(tripBudgetCeilingUSD / cost)
	}

	return model.UsageSummary{
		InputTokens:      l.totalInputTokens,
		OutputTokens:     l.totalOutputTokens,
		EstimatedCostUSD: math.Round(cost*10000) / 10000,
		TripsRemaining:   tripsRemaining,
	}
}
