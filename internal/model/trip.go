package model

import (
	"time"

	"github.com/google/uuid"
)

// DateLayout - формат дат, принимаемый планировщиком (ISO calendar date).
const DateLayout = "2006-01-02"

// MaxTripDays - максимальная длительность поездки в одном городе.
const MaxTripDays = 7

// MaxInterests - максимальное количество тегов интересов в запросе.
const MaxInterests = 5

// TripRequest описывает запрос пользователя на планирование поездки.
type TripRequest struct {
	Destination string   `json:"destination"`
	StartDate   string   `json:"start_date"` // формат DateLayout
	EndDate     string   `json:"end_date"`   // формат DateLayout
	Budget      float64  `json:"budget"`
	Interests   []string `json:"interests"`
}

// Coordinates - результат геокодирования. Отсутствие координат (nil)
// означает, что оба провайдера не смогли найти локацию.
type Coordinates struct {
	Lat         float64 `json:"lat"`
	Lon         float64 `json:"lon"`
	DisplayName string  `json:"display_name"`
}

// ImageRef - ссылка на изображение города с атрибуцией фотографа.
type ImageRef struct {
	URL             string `json:"url,omitempty"`
	Photographer    string `json:"photographer,omitempty"`
	PhotographerURL string `json:"photographer_url,omitempty"`
}

// ResearchResult - выход шага исследования направления.
type ResearchResult struct {
	Overview    string       `json:"overview"`
	Image       ImageRef     `json:"image"`
	Coordinates *Coordinates `json:"coordinates,omitempty"`
	Sources     []string     `json:"sources"`
}

// ActivityResult - выход шага подбора активностей.
type ActivityResult struct {
	Activities    string        `json:"activities"`
	SeasonContext SeasonContext `json:"season_context"`
	Sources       []string      `json:"sources"`
}

// BudgetResult - выход шага анализа бюджета.
type BudgetResult struct {
	Analysis    string   `json:"budget_analysis"`
	DayCount    int      `json:"num_days"`
	DailyBudget float64  `json:"daily_budget"`
	Sources     []string `json:"sources"`
}

// ItineraryResult - выход финального шага сборки маршрута.
type ItineraryResult struct {
	Itinerary  string   `json:"itinerary"`
	DayCount   int      `json:"num_days"`
	Dates      []string `json:"dates"`
	TokensUsed int      `json:"tokens_used"`
}

// TripState - общее состояние одного запроса планирования.
// Принадлежит координатору на время жизни запроса и не разделяется
// между параллельными запросами. Каждый шаг читает только поля,
// заполненные предыдущими шагами, и пишет только свой результат.
type TripState struct {
	Request TripRequest

	Research  *ResearchResult
	Activity  *ActivityResult
	Budget    *BudgetResult
	Itinerary *ItineraryResult
}

// UsageSummary - итоговая статистика расхода токенов за один запрос.
// TripsRemaining - справочная оценка "сколько похожих поездок осталось"
// при фиксированном потолке в $20; это не биллинговый лимит.
type UsageSummary struct {
	InputTokens      int     `json:"input_tokens"`
	OutputTokens     int     `json:"output_tokens"`
	EstimatedCostUSD float64 `json:"estimated_cost_usd"`
	TripsRemaining   int     `json:"trips_remaining_in_20_budget"`
}

// FinalPlan - агрегированный результат успешного прохождения всех
// четырех шагов пайплайна.
type FinalPlan struct {
	Destination   string       `json:"destination"`
	Dates         string       `json:"dates"`
	Budget        float64      `json:"budget"`
	Overview      string       `json:"destination_overview"`
	Image         ImageRef     `json:"destination_image"`
	SeasonContext string       `json:"season_context"`
	BudgetReport  string       `json:"budget_analysis"`
	Itinerary     string       `json:"itinerary"`
	DayCount      int          `json:"num_days"`
	Usage         UsageSummary `json:"usage_stats"`
}

// PersistedTrip - запись о поездке в хранилище истории (write-once).
type PersistedTrip struct {
	ID          uuid.UUID `db:"id" json:"id"`
	Destination string    `db:"destination" json:"destination"`
	StartDate   string    `db:"start_date" json:"start_date"`
	EndDate     string    `db:"end_date" json:"end_date"`
	Budget      float64   `db:"budget" json:"budget"`
	Interests   []byte    `db:"interests" json:"-"`      // JSON-массив тегов
	Itinerary   []byte    `db:"itinerary_json" json:"-"` // сериализованный FinalPlan
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// StageFinding - результат одного шага пайплайна в сыром виде:
// повествовательный текст и источники. Используется для отладочной
// персистенции через AgentFinding.
type StageFinding struct {
	AgentName string   `json:"agent_name"`
	Narrative string   `json:"narrative"`
	Sources   []string `json:"sources,omitempty"`
}

// AgentFinding - отладочная запись результата одного шага,
// привязанная к сохраненной поездке (append-only).
type AgentFinding struct {
	ID        uuid.UUID `db:"id"`
	TripID    uuid.UUID `db:"trip_id"`
	AgentName string    `db:"agent_name"`
	Findings  []byte    `db:"findings"` // JSON с текстом и источниками
	CreatedAt time.Time `db:"created_at"`
}
