package tools

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"time"

	"travel-planner/internal/model"

	"github.com/rs/zerolog/log"
)

const imageTimeout = 10 * time.Second

// ImageClient - интерфейс подбора репрезентативного изображения
// города. Второе возвращаемое значение false означает, что изображение
// недоступно; ошибка никогда не поднимается к вызывающей стороне.
type ImageClient interface {
	DestinationImage(ctx context.Context, location string) (model.ImageRef, bool)
}

// unsplashClient реализует ImageClient через Unsplash Search API.
type unsplashClient struct {
	accessKey  string
	baseURL    string
	httpClient *http.Client
}

// NewUnsplashImageClient создает клиент Unsplash.
func NewUnsplashImageClient(accessKey, baseURL string) ImageClient {
	return &unsplashClient{
		accessKey: accessKey,
		baseURL:   baseURL,
		httpClient: &http.Client{
			Timeout: imageTimeout,
		},
	}
}

type unsplashResponse struct {
	Results []struct {
		URLs struct {
			Regular string `json:"regular"`
		} `json:"urls"`
		User struct {
			Name  string `json:"name"`
			Links struct {
				HTML string `json:"html"`
			} `json:"links"`
		} `json:"user"`
	} `json:"results"`
}

// DestinationImage возвращает одно ландшафтное фото локации с
// атрибуцией фотографа.
func (c *unsplashClient) DestinationImage(ctx context.Context, location string) (model.ImageRef, bool) {
	endpoint := c.baseURL + "/search/photos?" + url.Values{
		"query":       {location + " travel landmark"},
		"per_page":    {"1"},
		"orientation": {"landscape"},
	}.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return model.ImageRef{}, false
	}
	req.Header.Set("Authorization", "Client-ID "+c.accessKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Warn().Err(err).Str("location", location).Msg("запрос изображения не удался")
		return model.ImageRef{}, false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Warn().Int("status", resp.StatusCode).Str("location", location).Msg("сервис изображений вернул ошибку")
		return model.ImageRef{}, false
	}

	var data unsplashResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return model.ImageRef{}, false
	}
	if len(data.Results) == 0 {
		return model.ImageRef{}, false
	}

	first := data.Results[0]
	return model.ImageRef{
		URL:             first.URLs.Regular,
		Photographer:    first.User.Name,
		PhotographerURL: first.User.Links.HTML,
	}, true
}
