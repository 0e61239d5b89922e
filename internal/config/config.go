package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"go.uber.org/zap"
)

// APITokenSecret - имя Docker-секрета с токеном сервиса генерации.
const APITokenSecret = "studio_api_token"

// Config содержит конфигурацию BFF сервера студии
type Config struct {
	Env  string `envconfig:"ENV" default:"development"`
	Port string `envconfig:"STUDIO_SERVER_PORT" default:"8090"`

	// Сервис генерации
	APIURL        string        `envconfig:"STUDIO_API_URL" default:"http://localhost:8000"`
	ClientTimeout time.Duration `envconfig:"STUDIO_API_TIMEOUT" default:"120s"`
	// Секретное поле БЕЗ envconfig тега
	APIToken string `ignored:"true"`

	// Redis (пустой адрес - хранение в памяти)
	RedisAddr     string `envconfig:"REDIS_ADDR"`
	RedisPassword string `envconfig:"REDIS_PASSWORD"`
	RedisDB       int    `envconfig:"REDIS_DB" default:"0"`

	// Рабочие пространства
	WorkspaceTTL    time.Duration `envconfig:"WORKSPACE_TTL" default:"24h"`
	JanitorInterval time.Duration `envconfig:"WORKSPACE_JANITOR_INTERVAL" default:"5m"`
	CookieSecure    bool          `envconfig:"COOKIE_SECURE" default:"false"`

	CORSAllowedOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`

	// Лимит запросов генерации на IP
	GenerateRateLimit  uint          `envconfig:"GENERATE_RATE_LIMIT" default:"10"`
	GenerateRateWindow time.Duration `envconfig:"GENERATE_RATE_WINDOW" default:"1m"`

	Log LogConfig
}

// LogConfig - настройки zap логгера.
type LogConfig struct {
	Level      string `envconfig:"LOG_LEVEL" default:"info"`
	Encoding   string `envconfig:"LOG_ENCODING" default:"json"`
	OutputPath string `envconfig:"LOG_OUTPUT" default:"stdout"`
}

// RedisEnabled сообщает, настроен ли Redis.
func (c *Config) RedisEnabled() bool {
	return c.RedisAddr != ""
}

// Validate проверяет значения, которые envconfig не может проверить сам.
func (c *Config) Validate() error {
	u, err := url.Parse(c.APIURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid STUDIO_API_URL %q", c.APIURL)
	}
	if c.ClientTimeout <= 0 {
		return errors.New("STUDIO_API_TIMEOUT must be positive")
	}
	if c.WorkspaceTTL <= 0 || c.JanitorInterval <= 0 {
		return errors.New("WORKSPACE_TTL and WORKSPACE_JANITOR_INTERVAL must be positive")
	}
	if c.GenerateRateLimit == 0 {
		return errors.New("GENERATE_RATE_LIMIT must be positive")
	}
	return nil
}

// LoadConfig загружает конфигурацию из .env, переменных окружения и секретов
func LoadConfig(logger *zap.Logger) (*Config, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("ошибка загрузки конфигурации studio: %w", err)
	}
	cfg.APIURL = strings.TrimRight(cfg.APIURL, "/")

	token, err := ReadSecret(DefaultSecretsDir, APITokenSecret)
	switch {
	case err == nil:
		cfg.APIToken = token
	case errors.Is(err, fs.ErrNotExist):
		// Секрет необязателен: локально сервис генерации работает без токена
		cfg.APIToken = getEnv("STUDIO_API_TOKEN", "")
	default:
		logger.Error("Не удалось прочитать секрет токена API", zap.Error(err))
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger.Info("Конфигурация Studio загружена",
		zap.String("env", cfg.Env),
		zap.String("port", cfg.Port),
		zap.String("apiURL", cfg.APIURL),
		zap.Duration("clientTimeout", cfg.ClientTimeout),
		zap.Bool("apiTokenLoaded", cfg.APIToken != ""),
		zap.Bool("redisEnabled", cfg.RedisEnabled()),
		zap.Duration("workspaceTTL", cfg.WorkspaceTTL),
		zap.Strings("corsAllowedOrigins", cfg.CORSAllowedOrigins),
		zap.Uint("generateRateLimit", cfg.GenerateRateLimit),
		zap.Duration("generateRateWindow", cfg.GenerateRateWindow),
	)
	return &cfg, nil
}
