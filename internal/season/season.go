// Package season реализует детерминированную оценку сезона и климата
// по дате начала поездки и широте. Внешних вызовов нет; при нехватке
// данных возвращается общий fallback-дескриптор, а не ошибка.
package season

import (
	"time"

	"travel-planner/internal/model"
)

// Границы климатических поясов по абсолютной широте (градусы).
const (
	tropicalMaxLat    = 23.5
	subtropicalMaxLat = 35.0
	temperateMaxLat   = 50.0
)

// Estimate возвращает сезонный контекст для даты начала поездки и
// координат назначения. Неразбираемая дата или отсутствующие
// координаты дают fallback-дескриптор ("планируйте и indoor, и
// outdoor варианты") - вызывающая сторона никогда не получает ошибку.
func Estimate(startDate string, coords *model.Coordinates) model.SeasonContext {
	if coords == nil {
		return model.SeasonContext{Fallback: true}
	}

	date, err := time.Parse(model.DateLayout, startDate)
	if err != nil {
		return model.SeasonContext{Fallback: true}
	}

	hemisphere := model.HemisphereNorthern
	if coords.Lat < 0 {
		hemisphere = model.HemisphereSouthern
	}

	return model.SeasonContext{
		Hemisphere: hemisphere,
		Season:     seasonFor(date.Month(), hemisphere),
		Climate:    climateFor(coords.Lat),
		Month:      date.Month().String(),
	}
}

// seasonFor отображает календарный месяц в сезон. Кварталы фиксированы
// (Dec-Feb, Mar-May, Jun-Aug, Sep-Nov); для южного полушария сезоны
// инвертированы.
func seasonFor(month time.Month, hemisphere model.Hemisphere) model.Season {
	var northern model.Season
	switch month {
	case time.December, time.January, time.February:
		northern = model.SeasonWinter
	case time.March, time.April, time.May:
		northern = model.SeasonSpring
	case time.June, time.July, time.August:
		northern = model.SeasonSummer
	default:
		northern = model.SeasonFall
	}

	if hemisphere == model.HemisphereNorthern {
		return northern
	}
	switch northern {
	case model.SeasonWinter:
		return model.SeasonSummer
	case model.SeasonSpring:
		return model.SeasonFall
	case model.SeasonSummer:
		return model.SeasonWinter
	default:
		return model.SeasonSpring
	}
}

// climateFor возвращает климатический пояс. Граничные значения
// относятся к более высокому поясу (23.5 -> Subtropical и т.д.).
func climateFor(lat float64) model.Climate {
	abs := lat
	if abs < 0 {
		abs = -abs
	}
	switch {
	case abs < tropicalMaxLat:
		return model.ClimateTropical
	case abs < subtropicalMaxLat:
		return model.ClimateSubtropical
	case abs < temperateMaxLat:
		return model.ClimateTemperate
	default:
		return model.ClimateCold
	}
}
