package model

import "fmt"

// Hemisphere - полушарие, определяемое по знаку широты.
type Hemisphere string

const (
	HemisphereNorthern Hemisphere = "Northern"
	HemisphereSouthern Hemisphere = "Southern"
)

// Season - календарный сезон с учетом полушария.
type Season string

const (
	SeasonWinter Season = "Winter"
	SeasonSpring Season = "Spring"
	SeasonSummer Season = "Summer"
	SeasonFall   Season = "Fall"
)

// Climate - упрощенный климатический пояс по абсолютной широте.
type Climate string

const (
	ClimateTropical    Climate = "Tropical"    // |lat| < 23.5
	ClimateSubtropical Climate = "Subtropical" // 23.5 <= |lat| < 35
	ClimateTemperate   Climate = "Temperate"   // 35 <= |lat| < 50
	ClimateCold        Climate = "Cold"        // |lat| >= 50
)

// SeasonContext - детерминированное описание сезона и климата для
// точки и даты начала поездки. Вычисляется один раз на запрос и
// передается по пайплайну без пересчета.
type SeasonContext struct {
	Hemisphere Hemisphere `json:"hemisphere,omitempty"`
	Season     Season     `json:"season,omitempty"`
	Climate    Climate    `json:"climate,omitempty"`
	Month      string     `json:"month,omitempty"`
	// Fallback выставляется, когда дату не удалось распарсить или
	// координаты отсутствуют; остальные поля при этом пусты.
	Fallback bool `json:"fallback,omitempty"`
}

// fallbackText - описание, возвращаемое при нехватке данных.
const fallbackText = "Season information unavailable - plan diverse indoor and outdoor activities"

// Text возвращает текстовое представление контекста для промптов и ответа API.
func (s SeasonContext) Text() string {
	if s.Fallback {
		return fallbackText
	}
	return fmt.Sprintf(`Season: %s (%s Hemisphere)
Climate Zone: %s
Month: %s

Typical conditions for this location and season:
- %s %s weather expected
- Plan for a mix of indoor and outdoor activities
- Include weather-flexible options`,
		s.Season, s.Hemisphere, s.Climate, s.Month, s.Climate, lowerSeason(s.Season))
}

func lowerSeason(s Season) string {
	switch s {
	case SeasonWinter:
		return "winter"
	case SeasonSpring:
		return "spring"
	case SeasonSummer:
		return "summer"
	case SeasonFall:
		return "fall"
	}
	return string(s)
}
