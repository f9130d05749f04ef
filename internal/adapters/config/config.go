package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"hermes/pkg/errors"
)

type Config struct {
	App           AppConfig
	Redis         RedisConfig
	Telegram      TelegramConfig
	Calendar      CalendarConfig
	Metrics       MetricsConfig
	ErrorTracking ErrorTrackingConfig
	Workers       WorkerConfig
}

type AppConfig struct {
	Name     string `envconfig:"APP_NAME" default:"hermes"`
	Env      string `envconfig:"APP_ENV" default:"development"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	Debug    bool   `envconfig:"DEBUG" default:"false"`
}

// RedisConfig configures the cache backend. An empty Host disables
// caching entirely and the service runs fetch-per-request.
type RedisConfig struct {
	Host     string `envconfig:"REDIS_HOST"`
	Port     int    `envconfig:"REDIS_PORT" default:"6379"`
	Password string `envconfig:"REDIS_PASSWORD"`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
}

func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func (c RedisConfig) Enabled() bool {
	return c.Host != ""
}

// TelegramConfig configures the bot surface. An empty BotToken runs the
// service headless (metrics and workers only).
type TelegramConfig struct {
	BotToken      string  `envconfig:"TELEGRAM_BOT_TOKEN"`
	DigestChatIDs []int64 `envconfig:"TELEGRAM_DIGEST_CHAT_IDS"`
}

type CalendarConfig struct {
	// TimezoneOffset is hours east of UTC for presenting event times
	TimezoneOffset int `envconfig:"CALENDAR_TZ_OFFSET" default:"8"`

	// UseProxy routes upstream fetches through ScrapingAnt
	UseProxy    bool   `envconfig:"CALENDAR_USE_SCRAPINGANT" default:"false"`
	ProxyAPIKey string `envconfig:"SCRAPINGANT_API_KEY"`

	// ForceFallback skips upstream entirely and serves synthetic data
	ForceFallback bool `envconfig:"CALENDAR_FALLBACK" default:"false"`

	CacheTTL time.Duration `envconfig:"CALENDAR_CACHE_TTL" default:"10m"`
}

type MetricsConfig struct {
	Enabled bool   `envconfig:"METRICS_ENABLED" default:"true"`
	Addr    string `envconfig:"METRICS_ADDR" default:":9090"`
}

type ErrorTrackingConfig struct {
	Enabled     bool   `envconfig:"ERROR_TRACKING_ENABLED" default:"false"`
	SentryDSN   string `envconfig:"SENTRY_DSN"`
	Environment string `envconfig:"SENTRY_ENVIRONMENT" default:"production"`
}

type WorkerConfig struct {
	CalendarDigestEnabled  bool          `envconfig:"WORKER_CALENDAR_DIGEST_ENABLED" default:"true"`
	CalendarDigestInterval time.Duration `envconfig:"WORKER_CALENDAR_DIGEST_INTERVAL" default:"24h"`
}

// Load reads configuration from environment variables
// It first tries to load .env file (useful for local development)
func Load() (*Config, error) {
	// Load .env file if exists (ignore error if not exists)
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, errors.Wrap(err, "failed to process env config")
	}

	return &cfg, nil
}
