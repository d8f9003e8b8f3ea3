package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config содержит конфигурацию сервиса планирования поездок.
// Секреты (API-ключи, пароль БД) берутся из переменных окружения;
// отсутствие любого обязательного ключа - фатальная ошибка старта.
type Config struct {
	// Настройки HTTP-сервера
	Port        string `envconfig:"SERVER_PORT" default:"8080"`
	MetricsPort string `envconfig:"METRICS_PORT" default:"9091"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`
	// Окружение: development | production
	Environment string `envconfig:"ENV" default:"development"`

	CORSAllowedOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS" default:"http://localhost:3000,http://localhost:8080"`

	// Настройки AI (OpenRouter по умолчанию)
	AIClientType string        `envconfig:"AI_CLIENT_TYPE" default:"openai"` // openai | ollama
	AIBaseURL    string        `envconfig:"AI_BASE_URL" default:"https://openrouter.ai/api/v1"`
	AIModel      string        `envconfig:"AI_MODEL" default:"anthropic/claude-sonnet-4"`
	AITimeout    time.Duration `envconfig:"AI_TIMEOUT" default:"120s"`
	AIAPIKey     string        `envconfig:"AI_API_KEY"`

	// Ключи внешних сервисов
	TavilyAPIKey   string `envconfig:"TAVILY_API_KEY"`
	UnsplashAPIKey string `envconfig:"UNSPLASH_ACCESS_KEY"`

	// Базовые URL внешних сервисов (переопределяются в тестах)
	TavilyBaseURL    string `envconfig:"TAVILY_BASE_URL" default:"https://api.tavily.com"`
	UnsplashBaseURL  string `envconfig:"UNSPLASH_BASE_URL" default:"https://api.unsplash.com"`
	PhotonBaseURL    string `envconfig:"PHOTON_BASE_URL" default:"https://photon.komoot.io"`
	NominatimBaseURL string `envconfig:"NOMINATIM_BASE_URL" default:"https://nominatim.openstreetmap.org"`

	// Настройки PostgreSQL
	DBHost        string        `envconfig:"DB_HOST" default:"localhost"`
	DBPort        string        `envconfig:"DB_PORT" default:"5432"`
	DBUser        string        `envconfig:"DB_USER" default:"postgres"`
	DBPassword    string        `envconfig:"DB_PASSWORD" default:"postgres"`
	DBName        string        `envconfig:"DB_NAME" default:"travel_db"`
	DBSSLMode     string        `envconfig:"DB_SSL_MODE" default:"disable"`
	DBMaxConns    int           `envconfig:"DB_MAX_CONNECTIONS" default:"10"`
	DBIdleTimeout time.Duration `envconfig:"DB_MAX_IDLE_MINUTES" default:"5m"`
	MigrationsDir string        `envconfig:"MIGRATIONS_DIR" default:"migrations"`

	// Необязательный кэш геокодирования; пустой адрес отключает кэш
	RedisAddr       string        `envconfig:"REDIS_ADDR" default:""`
	GeocodeCacheTTL time.Duration `envconfig:"GEOCODE_CACHE_TTL" default:"24h"`
}

// GetDSN возвращает строку подключения (DSN) для PostgreSQL.
func (c *Config) GetDSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName, c.DBSSLMode)
}

// LoadConfig загружает конфигурацию из переменных окружения и
// проверяет наличие обязательных секретов.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("ошибка загрузки конфигурации: %w", err)
	}

	var missing []string
	if cfg.AIAPIKey == "" {
		missing = append(missing, "AI_API_KEY")
	}
	if cfg.TavilyAPIKey == "" {
		missing = append(missing, "TAVILY_API_KEY")
	}
	if cfg.UnsplashAPIKey == "" {
		missing = append(missing, "UNSPLASH_ACCESS_KEY")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("отсутствуют обязательные API-ключи: %s", strings.Join(missing, ", "))
	}

	return &cfg, nil
}
