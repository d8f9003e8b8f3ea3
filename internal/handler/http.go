// Package handler реализует HTTP-слой сервиса планирования поездок.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	"travel-planner/internal/ai"
	"travel-planner/internal/model"
	"travel-planner/internal/repository"
)

// defaultRecentLimit - сколько поездок отдает /api/trips/recent;
// больший limit в запросе обрезается до этого значения.
const defaultRecentLimit = 5

// TripPlanner - контракт координатора пайплайна для HTTP-слоя.
type TripPlanner interface {
	PlanTrip(ctx context.Context, req model.TripRequest) (*model.FinalPlan, []model.StageFinding, error)
}

// ErrorResponse - стандартизированный ответ об ошибке.
type ErrorResponse struct {
	Message string `json:"message"`
}

// TripHandler обрабатывает HTTP-запросы планировщика.
type TripHandler struct {
	planner TripPlanner
	repo    repository.TripRepository
	db      *pgxpool.Pool
}

// NewTripHandler создает HTTP-обработчик планировщика.
func NewTripHandler(planner TripPlanner, repo repository.TripRepository, db *pgxpool.Pool) *TripHandler {
	return &TripHandler{
		planner: planner,
		repo:    repo,
		db:      db,
	}
}

// RegisterRoutes регистрирует маршруты сервиса.
func (h *TripHandler) RegisterRoutes(router *gin.Engine) {
	api := router.Group("/api/trips")
	{
		api.POST("/plan", h.planTrip)
		api.GET("/recent", h.listRecent)
	}
	router.GET("/health", h.health)
}

// planTrip принимает запрос на планирование и запускает пайплайн.
func (h *TripHandler) planTrip(c *gin.Context) {
	var req model.TripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid request data: " + err.Error()})
		return
	}

	if req.Destination == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{Message: "Destination is required"})
		return
	}
	if req.Budget <= 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{Message: "Budget must be greater than zero"})
		return
	}
	if len(req.Interests) == 0 || len(req.Interests) > model.MaxInterests {
		c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{Message: "Interests must contain between 1 and 5 items"})
		return
	}

	plan, findings, err := h.planner.PlanTrip(c.Request.Context(), req)
	if err != nil {
		var vErr *model.ValidationError
		if errors.As(err, &vErr) {
			c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{Message: vErr.Message})
			return
		}
		if errors.Is(err, ai.ErrAIGenerationFailed) {
			log.Error().Err(err).Str("destination", req.Destination).Msg("пайплайн остановлен из-за ошибки генерации")
			c.AbortWithStatusJSON(http.StatusBadGateway, ErrorResponse{Message: "AI generation failed, please try again later"})
			return
		}
		log.Error().Err(err).Str("destination", req.Destination).Msg("ошибка планирования поездки")
		c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{Message: "Internal server error"})
		return
	}

	// Ошибка сохранения не должна лишать пользователя готового плана.
	h.persistPlan(c.Request.Context(), req, plan, findings)

	c.JSON(http.StatusOK, plan)
}

// persistPlan сохраняет план и отладочные записи шагов.
func (h *TripHandler) persistPlan(ctx context.Context, req model.TripRequest, plan *model.FinalPlan, findings []model.StageFinding) {
	interests, err := json.Marshal(req.Interests)
	if err != nil {
		log.Error().Err(err).Msg("не удалось сериализовать интересы")
		return
	}
	planJSON, err := json.Marshal(plan)
	if err != nil {
		log.Error().Err(err).Msg("не удалось сериализовать план")
		return
	}

	trip := &model.PersistedTrip{
		Destination: req.Destination,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Budget:      req.Budget,
		Interests:   interests,
		Itinerary:   planJSON,
	}
	if err := h.repo.SaveTrip(ctx, trip); err != nil {
		log.Error().Err(err).Str("destination", req.Destination).Msg("не удалось сохранить поездку")
		return
	}

	for _, f := range findings {
		payload, err := json.Marshal(f)
		if err != nil {
			continue
		}
		finding := &model.AgentFinding{
			TripID:    trip.ID,
			AgentName: f.AgentName,
			Findings:  payload,
		}
		if err := h.repo.SaveAgentFinding(ctx, finding); err != nil {
			log.Warn().Err(err).Str("agent", f.AgentName).Msg("не удалось сохранить запись агента")
		}
	}
}

// listRecent возвращает последние сохраненные поездки.
func (h *TripHandler) listRecent(c *gin.Context) {
	limit := defaultRecentLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{Message: "limit must be a positive integer"})
			return
		}
		if parsed < limit {
			limit = parsed
		}
	}

	trips, err := h.repo.ListRecent(c.Request.Context(), limit)
	if err != nil {
		log.Error().Err(err).Msg("ошибка чтения истории поездок")
		c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{Message: "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"trips": trips})
}

// health проверяет доступность сервиса и базы данных.
func (h *TripHandler) health(c *gin.Context) {
	if h.db != nil {
		if err := h.db.Ping(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "database": "unreachable"})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
