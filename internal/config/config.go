package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

// Config reúne toda a configuração do serviço, lida das variáveis de ambiente
type Config struct {
	Port        string `env:"PORT,default=3000"`
	ServiceName string `env:"SERVICE_NAME,default=storefront"`

	DatabaseURL      string `env:"DATABASE_URL"`
	DatabaseHost     string `env:"DATABASE_HOST,default=localhost"`
	DatabasePort     string `env:"DATABASE_PORT,default=5432"`
	DatabaseUser     string `env:"DATABASE_USER,default=root"`
	DatabasePassword string `env:"DATABASE_PASSWORD,default=pass"`
	DatabaseName     string `env:"DATABASE_NAME,default=storefront_db"`

	JWTSecret string        `env:"JWT_SECRET"`
	TokenTTL  time.Duration `env:"TOKEN_TTL,default=24h"`

	WalletCurrency string `env:"WALLET_CURRENCY,default=NGN"`
	MaxDeposit     string `env:"MAX_DEPOSIT,default=10000000"`

	GeminiAPIKey      string        `env:"GEMINI_API_KEY"`
	GeminiModel       string        `env:"GEMINI_MODEL,default=gemini-3-flash-preview"`
	GeminiBaseURL     string        `env:"GEMINI_BASE_URL,default=https://generativelanguage.googleapis.com/v1beta"`
	MonitorSchedule   string        `env:"MONITOR_SCHEDULE,default=*/5 * * * *"`
	MonitorStallAfter time.Duration `env:"MONITOR_STALL_AFTER,default=1h"`

	RedisAddr       string        `env:"REDIS_ADDR"`
	CatalogCacheTTL time.Duration `env:"CATALOG_CACHE_TTL,default=5m"`

	CORSOrigins   string  `env:"CORS_ORIGINS,default=*"`
	AuthRateLimit float64 `env:"AUTH_RATE_LIMIT,default=5"`
	AuthRateBurst int     `env:"AUTH_RATE_BURST,default=10"`
	WebDistDir    string  `env:"WEB_DIST_DIR,default=dist"`

	OTelEnabled  bool   `env:"OTEL_ENABLED,default=false"`
	OTelEndpoint string `env:"OTEL_EXPORTER_OTLP_ENDPOINT,default=localhost:4318"`

	LogLevel  string `env:"LOG_LEVEL,default=info"`
	LogFormat string `env:"LOG_FORMAT,default=text"`

	AdminEmail    string `env:"ADMIN_EMAIL,default=admin@dolorboost.com"`
	AdminPassword string `env:"ADMIN_PASSWORD"`
}

// Load carrega o arquivo .env (se existir) e decodifica o ambiente em Config
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	var cfg Config
	if err := envdecode.Decode(&cfg); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return nil, fmt.Errorf("failed to decode environment: %w", err)
	}

	if _, err := cfg.MaxDepositAmount(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// DSN monta a string de conexão do Postgres. DATABASE_URL tem precedência.
func (c *Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}

	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DatabaseUser,
		c.DatabasePassword,
		c.DatabaseHost,
		c.DatabasePort,
		c.DatabaseName,
	)
}

// MaxDepositAmount retorna o limite de um único depósito na carteira
func (c *Config) MaxDepositAmount() (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(c.MaxDeposit)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid MAX_DEPOSIT %q: %w", c.MaxDeposit, err)
	}
	if !amount.IsPositive() {
		return decimal.Zero, fmt.Errorf("invalid MAX_DEPOSIT %q: must be positive", c.MaxDeposit)
	}
	return amount, nil
}

// AllowedOrigins separa CORS_ORIGINS por vírgula
func (c *Config) AllowedOrigins() []string {
	var origins []string
	for _, origin := range strings.Split(c.CORSOrigins, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}

// ValidateServe verifica o que é obrigatório para subir a API
func (c *Config) ValidateServe() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	if len(c.JWTSecret) < 16 {
		return errors.New("JWT_SECRET must be at least 16 characters")
	}
	if c.TokenTTL <= 0 {
		return errors.New("TOKEN_TTL must be positive")
	}
	return nil
}
