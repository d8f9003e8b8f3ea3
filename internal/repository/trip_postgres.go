package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	"travel-planner/internal/model"
)

const (
	insertTripQuery = `
        INSERT INTO trips (id, destination, start_date, end_date, budget, interests, itinerary_json)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
    `
	listRecentTripsQuery = `
        SELECT id, destination, start_date, end_date, budget, interests, itinerary_json, created_at
        FROM trips
        ORDER BY created_at DESC
        LIMIT $1
    `
	insertAgentFindingQuery = `
        INSERT INTO agent_findings (id, trip_id, agent_name, findings)
        VALUES ($1, $2, $3, $4)
    `
)

// postgresTripRepository реализует TripRepository для PostgreSQL.
type postgresTripRepository struct {
	db *pgxpool.Pool
}

// NewPostgresTripRepository создает репозиторий поездок.
func NewPostgresTripRepository(db *pgxpool.Pool) TripRepository {
	return &postgresTripRepository{db: db}
}

// SaveTrip сохраняет план поездки. ID генерируется здесь, если не задан.
func (r *postgresTripRepository) SaveTrip(ctx context.Context, trip *model.PersistedTrip) error {
	if trip.ID == uuid.Nil {
		trip.ID = uuid.New()
	}

	_, err := r.db.Exec(ctx, insertTripQuery,
		trip.ID,
		trip.Destination,
		trip.StartDate,
		trip.EndDate,
		trip.Budget,
		trip.Interests,
		trip.Itinerary,
	)
	if err != nil {
		log.Error().Err(err).Str("trip_id", trip.ID.String()).Msg("ошибка сохранения поездки в БД")
		return fmt.Errorf("ошибка сохранения поездки '%s' в БД: %w", trip.ID, err)
	}

	log.Debug().Str("trip_id", trip.ID.String()).Str("destination", trip.Destination).Msg("поездка сохранена")
	return nil
}

// ListRecent возвращает последние поездки (новые первыми).
func (r *postgresTripRepository) ListRecent(ctx context.Context, limit int) ([]model.PersistedTrip, error) {
	var trips []model.PersistedTrip
	err := pgxscan.Select(ctx, r.db, &trips, listRecentTripsQuery, limit)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return []model.PersistedTrip{}, nil
		}
		return nil, fmt.Errorf("ошибка чтения истории поездок: %w", err)
	}
	return trips, nil
}

// SaveAgentFinding сохраняет отладочную запись шага.
func (r *postgresTripRepository) SaveAgentFinding(ctx context.Context, finding *model.AgentFinding) error {
	if finding.ID == uuid.Nil {
		finding.ID = uuid.New()
	}

	_, err := r.db.Exec(ctx, insertAgentFindingQuery,
		finding.ID,
		finding.TripID,
		finding.AgentName,
		finding.Findings,
	)
	if err != nil {
		return fmt.Errorf("ошибка сохранения записи агента '%s': %w", finding.AgentName, err)
	}
	return nil
}
