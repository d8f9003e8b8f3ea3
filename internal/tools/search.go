// Package tools содержит клиентов вспомогательных внешних сервисов:
// веб-поиск, геокодирование и подбор изображений. Все клиенты
// отказоустойчивы: сбой возвращается как маркер в результате, а не
// как ошибка - эти данные обогащают план, но не являются жесткой
// зависимостью пайплайна.
package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
)

const searchTimeout = 10 * time.Second

// SearchResult - один результат веб-поиска.
type SearchResult struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	URL     string `json:"url"`
}

// SearchResponse - результат поискового запроса. При сбое Err заполнен,
// Results пустой, и вызывающая сторона продолжает работу без поиска.
type SearchResponse struct {
	Answer  string
	Results []SearchResult
	Err     error
}

// SourceURLs возвращает список URL источников для цитирования.
func (r SearchResponse) SourceURLs() []string {
	urls := make([]string, 0, len(r.Results))
	for _, res := range r.Results {
		if res.URL != "" {
			urls = append(urls, res.URL)
		}
	}
	return urls
}

// SearchClient - интерфейс веб-поиска.
type SearchClient interface {
	Search(ctx context.Context, query string, maxResults int) SearchResponse
}

// tavilyClient реализует SearchClient через Tavily API.
type tavilyClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewTavilySearchClient создает клиент Tavily.
func NewTavilySearchClient(apiKey, baseURL string) SearchClient {
	return &tavilyClient{
		apiKey:  apiKey,
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: searchTimeout,
		},
	}
}

type tavilyRequest struct {
	APIKey        string `json:"api_key"`
	Query         string `json:"query"`
	MaxResults    int    `json:"max_results"`
	IncludeAnswer bool   `json:"include_answer"`
	SearchDepth   string `json:"search_depth"`
}

type tavilyResponse struct {
	Answer  string `json:"answer"`
	Results []struct {
		Title   string `json:"title"`
		Content string `json:"content"`
		URL     string `json:"url"`
	} `json:"results"`
}

// Search выполняет поисковый запрос. Любой сбой (транспорт, статус,
// парсинг) превращается в маркер ошибки внутри ответа.
func (c *tavilyClient) Search(ctx context.Context, query string, maxResults int) SearchResponse {
	payload := tavilyRequest{
		APIKey:        c.apiKey,
		Query:         query,
		MaxResults:    maxResults,
		IncludeAnswer: true,
		SearchDepth:   "basic",
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return SearchResponse{Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/search", bytes.NewReader(body))
	if err != nil {
		return SearchResponse{Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Warn().Err(err).Str("query", query).Msg("поисковый запрос не удался")
		return SearchResponse{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		log.Warn().Int("status", resp.StatusCode).Str("query", query).Msg("поисковый сервис вернул ошибку")
		return SearchResponse{Err: errors.New("search status " + resp.Status + ": " + string(raw))}
	}

	var data tavilyResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return SearchResponse{Err: err}
	}

	out := SearchResponse{Answer: data.Answer}
	for _, r := range data.Results {
		out.Results = append(out.Results, SearchResult{
			Title:   r.Title,
			Content: r.Content,
			URL:     r.URL,
		})
	}
	return out
}
