package ai

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUsageLedger_Add(t *testing.T) {
	ledger := NewUsageLedger()

	ledger.Add(UsageInfo{PromptTokens: 1000, CompletionTokens: 500})
	ledger.Add(UsageInfo{PromptTokens: 2000, CompletionTokens: 1500})

	summary := ledger.Summary()
	assert.Equal(t, 3000, summary.InputTokens)
	assert.Equal(t, 2000, summary.OutputTokens)
}

func TestUsageLedger_CostCalculation(t *testing.T) {
	ledger := NewUsageLedger()
	// 1M входных = $3.00, 1M выходных = $15.00
	ledger.Add(UsageInfo{PromptTokens: 1_000_000, CompletionTokens: 1_000_000})

	summary := ledger.Summary()
	assert.InDelta(t, 18.0, summary.EstimatedCostUSD, 0.0001)
	assert.Equal(t, 1, summary.TripsRemaining) // int(20 / 18)
}

func TestUsageLedger_EmptySummary(t *testing.T) {
	summary := NewUsageLedger().Summary()
	assert.Zero(t, summary.InputTokens)
	assert.Zero(t, summary.OutputTokens)
	assert.Zero(t, summary.EstimatedCostUSD)
	// При нулевой стоимости статистика поездок не рассчитывается.
	assert.Zero(t, summary.TripsRemaining)
}

func TestUsageLedger_ConcurrentAdd(t *testing.T) {
	ledger := NewUsageLedger()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ledger.Add(UsageInfo{PromptTokens: 10, CompletionTokens: 5})
		}()
	}
	wg.Wait()

	summary := ledger.Summary()
	assert.Equal(t, 500, summary.InputTokens)
	assert.Equal(t, 250, summary.OutputTokens)
}

func TestCalculateCost(t *testing.T) {
	assert.InDelta(t, 0.0, calculateCost(0, 0), 1e-9)
	// 100k input + 10k output: 0.3 + 0.15
	assert.InDelta(t, 0.45, calculateCost(100_000, 10_000), 1e-9)
}
