// Package repository отвечает за хранение истории поездок и отладочных
// записей шагов пайплайна.
package repository

import (
	"context"

	"travel-planner/internal/model"
)

// TripRepository определяет методы для работы с историей поездок.
type TripRepository interface {
	// SaveTrip сохраняет готовый план (write-once) и заполняет trip.ID.
	SaveTrip(ctx context.Context, trip *model.PersistedTrip) error
	// ListRecent возвращает limit последних поездок, новые первыми.
	ListRecent(ctx context.Context, limit int) ([]model.PersistedTrip, error)
	// SaveAgentFinding сохраняет отладочную запись одного шага (append-only).
	SaveAgentFinding(ctx context.Context, finding *model.AgentFinding) error
}
