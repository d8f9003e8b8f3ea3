package tools

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"travel-planner/internal/model"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	geocodeTimeout     = 5 * time.Second
	geocodeUserAgent   = "travel-planner/1.0 (trip-planner-service)"
	geocodeCachePrefix = "geocode:"
)

// Geocoder - интерфейс геокодирования. Второе возвращаемое значение
// false означает, что координаты недоступны (оба провайдера не
// справились); это не ошибка шага.
type Geocoder interface {
	Resolve(ctx context.Context, location string) (*model.Coordinates, bool)
}

// fallbackGeocoder реализует Geocoder поверх пары провайдеров: Photon
// (первичный, быстрый, без rate-limit) с откатом на Nominatim.
// Провайдеры опрашиваются строго последовательно - повторных попыток
// и гонки провайдеров нет. Необязательный Redis-кэш снижает нагрузку
// на публичные сервисы; ошибки кэша трактуются как промах.
type fallbackGeocoder struct {
	photonBaseURL    string
	nominatimBaseURL string
	httpClient       *http.Client
	cache            *redis.Client // nil = кэш выключен
	cacheTTL         time.Duration
}

// NewGeocoder создает геокодер с парой провайдеров. cache может быть nil.
func NewGeocoder(photonBaseURL, nominatimBaseURL string, cache *redis.Client, cacheTTL time.Duration) Geocoder {
	return &fallbackGeocoder{
		photonBaseURL:    photonBaseURL,
		nominatimBaseURL: nominatimBaseURL,
		httpClient: &http.Client{
			Timeout: geocodeTimeout,
		},
		cache:    cache,
		cacheTTL: cacheTTL,
	}
}

// Resolve возвращает координаты локации или маркер недоступности.
func (g *fallbackGeocoder) Resolve(ctx context.Context, location string) (*model.Coordinates, bool) {
	if cached, ok := g.cacheGet(ctx, location); ok {
		return cached, true
	}

	if coords := g.tryPhoton(ctx, location); coords != nil {
		g.cachePut(ctx, location, coords)
		return coords, true
	}

	if coords := g.tryNominatim(ctx, location); coords != nil {
		g.cachePut(ctx, location, coords)
		return coords, true
	}

	log.Warn().Str("location", location).Msg("оба провайдера геокодирования не нашли локацию")
	return nil, false
}

type photonResponse struct {
	Features []struct {
		Geometry struct {
			Coordinates []float64 `json:"coordinates"` // [lon, lat]
		} `json:"geometry"`
		Properties struct {
			Name string `json:"name"`
		} `json:"properties"`
	} `json:"features"`
}

// tryPhoton опрашивает первичный провайдер. Любой сбой - nil, без ошибки.
func (g *fallbackGeocoder) tryPhoton(ctx context.Context, location string) *model.Coordinates {
	endpoint := g.photonBaseURL + "/api/?" + url.Values{
		"q":     {location},
		"limit": {"1"},
	}.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		log.Debug().Err(err).Msg("Photon недоступен")
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Debug().Int("status", resp.StatusCode).Msg("Photon вернул ошибку")
		return nil
	}

	var data photonResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil
	}
	if len(data.Features) == 0 || len(data.Features[0].Geometry.Coordinates) < 2 {
		return nil
	}

	feature := data.Features[0]
	name := feature.Properties.Name
	if name == "" {
		name = location
	}
	return &model.Coordinates{
		Lat:         feature.Geometry.Coordinates[1], // Photon отдает [lon, lat]
		Lon:         feature.Geometry.Coordinates[0],
		DisplayName: name,
	}
}

type nominatimEntry struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

// tryNominatim опрашивает резервный провайдер (OpenStreetMap).
func (g *fallbackGeocoder) tryNominatim(ctx context.Context, location string) *model.Coordinates {
	endpoint := g.nominatimBaseURL + "/search?" + url.Values{
		"q":      {location},
		"format": {"json"},
		"limit":  {"1"},
	}.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil
	}
	// Nominatim требует осмысленный User-Agent
	req.Header.Set("User-Agent", geocodeUserAgent)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		log.Debug().Err(err).Msg("Nominatim недоступен")
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Debug().Int("status", resp.StatusCode).Msg("Nominatim вернул ошибку")
		return nil
	}

	var entries []nominatimEntry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return nil
	}
	if len(entries) == 0 {
		return nil
	}

	lat, errLat := strconv.ParseFloat(entries[0].Lat, 64)
	lon, errLon := strconv.ParseFloat(entries[0].Lon, 64)
	if errLat != nil || errLon != nil {
		return nil
	}

	return &model.Coordinates{
		Lat:         lat,
		Lon:         lon,
		DisplayName: entries[0].DisplayName,
	}
}

func cacheKey(location string) string {
	return geocodeCachePrefix + strings.ToLower(strings.TrimSpace(location))
}

func (g *fallbackGeocoder) cacheGet(ctx context.Context, location string) (*model.Coordinates, bool) {
	if g.cache == nil {
		return nil, false
	}
	raw, err := g.cache.Get(ctx, cacheKey(location)).Result()
	if err != nil {
		// redis.Nil и любые инфраструктурные ошибки - просто промах
		return nil, false
	}
	var coords model.Coordinates
	if err := json.Unmarshal([]byte(raw), &coords); err != nil {
		return nil, false
	}
	return &coords, true
}

func (g *fallbackGeocoder) cachePut(ctx context.Context, location string, coords *model.Coordinates) {
	if g.cache == nil {
		return
	}
	raw, err := json.Marshal(coords)
	if err != nil {
		return
	}
	if err := g.cache.Set(ctx, cacheKey(location), raw, g.cacheTTL).Err(); err != nil {
		log.Debug().Err(err).Msg("не удалось записать координаты в кэш")
	}
}
