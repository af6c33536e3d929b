package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"
)

type Config struct {
	App struct {
		Name     string     `envconfig:"APP_NAME" default:"Gastos"`
		Port     int        `envconfig:"PORT" default:"8080"`
		LogLevel slog.Level `envconfig:"LOG_LEVEL" default:"info"`
	}

	DB struct {
		Host     string `envconfig:"DB_HOST" default:"localhost"`
		Port     int    `envconfig:"DB_PORT" default:"5432"`
		User     string `envconfig:"DB_USER" default:"postgres"`
		Password string `envconfig:"DB_PASSWORD" default:""`
		Name     string `envconfig:"DB_NAME" default:"gastos"`

		MaxOpenConns    int           `envconfig:"DB_MAX_OPEN_CONNS" default:"25"`
		MaxIdleConns    int           `envconfig:"DB_MAX_IDLE_CONNS" default:"5"`
		ConnMaxLifetime time.Duration `envconfig:"DB_CONN_MAX_LIFETIME" default:"5m"`
	}

	Server struct {
		Timeout     time.Duration `envconfig:"SERVER_TIMEOUT" default:"30s"`
		CORSOrigins []string      `envconfig:"CORS_ORIGINS" default:"http://localhost:3000"`
	}

	Auth struct {
		JWTSecret string `envconfig:"JWT_SECRET" required:"true"`
		Issuer    string `envconfig:"JWT_ISSUER" default:"gastos"`
	}

	Mileage struct {
		DefaultKmRate decimal.Decimal `envconfig:"DEFAULT_KM_RATE" default:"0.14"`
	}

	Drive struct {
		CredentialsFile string `envconfig:"DRIVE_CREDENTIALS_FILE"`
		CredentialsJSON string `envconfig:"DRIVE_CREDENTIALS_JSON"`
		RootFolder      string `envconfig:"DRIVE_ROOT_FOLDER" default:"Gastos"`
		MaxUploadBytes  int64  `envconfig:"DRIVE_MAX_UPLOAD_BYTES" default:"10485760"`
	}

	// AMQP is optional; without a URL receipt cleanup is skipped.
	AMQP struct {
		URL      string `envconfig:"AMQP_URL"`
		Exchange string `envconfig:"AMQP_EXCHANGE" default:"gastos"`
		Queue    string `envconfig:"AMQP_QUEUE" default:"receipt.cleanup"`
	}

	Export struct {
		ZipConcurrency int `envconfig:"EXPORT_ZIP_CONCURRENCY" default:"4"`
	}
}

func (c *Config) ConnectionString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.DB.User, c.DB.Password, c.DB.Host, c.DB.Port, c.DB.Name)
}

// DriveConfigured reports whether Google Drive credentials were provided.
func (c *Config) DriveConfigured() bool {
	return c.Drive.CredentialsFile != "" || c.Drive.CredentialsJSON != ""
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	if cfg.Auth.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET must not be empty")
	}

	if !cfg.Mileage.DefaultKmRate.IsPositive() {
		return nil, fmt.Errorf("DEFAULT_KM_RATE must be greater than 0, got %s", cfg.Mileage.DefaultKmRate)
	}

	return &cfg, nil
}

// Client configures the terminal UI talking to a running API.
type Client struct {
	APIURL          string          `envconfig:"GASTOS_API_URL" default:"http://localhost:8080/api/v1"`
	Token           string          `envconfig:"GASTOS_API_TOKEN" required:"true"`
	Timeout         time.Duration   `envconfig:"GASTOS_API_TIMEOUT" default:"15s"`
	DefaultKmRate   decimal.Decimal `envconfig:"GASTOS_DEFAULT_KM_RATE" default:"0.14"`
	MaxReceiptBytes int64           `envconfig:"GASTOS_MAX_RECEIPT_BYTES" default:"10485760"`
	LogFile         string          `envconfig:"GASTOS_LOG_FILE"`
}

func LoadClient() (*Client, error) {
	var cfg Client
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	if cfg.Token == "" {
		return nil, fmt.Errorf("GASTOS_API_TOKEN must not be empty")
	}

	if !cfg.DefaultKmRate.IsPositive() {
		return nil, fmt.Errorf("GASTOS_DEFAULT_KM_RATE must be greater than 0, got %s", cfg.DefaultKmRate)
	}

	return &cfg, nil
}
