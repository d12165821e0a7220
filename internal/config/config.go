package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"
	_ "time/tzdata"

	"github.com/caarlos0/env/v9"
	"github.com/joho/godotenv"
)

const (
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

type Config struct {
	TelegramToken  string `env:"TELEGRAM_TOKEN,required"`
	BotDebug       bool   `env:"BOT_DEBUG" envDefault:"false"`
	MerchantChatID int64  `env:"MERCHANT_CHAT_ID,required"`
	SupportHandle  string `env:"SUPPORT_HANDLE" envDefault:"@admin"`

	CollectContact  bool   `env:"COLLECT_CONTACT" envDefault:"false"`
	InvoiceEnabled  bool   `env:"INVOICE_ENABLED" envDefault:"false"`
	InvoiceLogoPath string `env:"INVOICE_LOGO_PATH"`
	ShopName        string `env:"SHOP_NAME" envDefault:"ولتا استور"`
	ShopContact     string `env:"SHOP_CONTACT" envDefault:"09359636526 - تهران، سه راه مرزداران، برج نگین رضا"`
	Timezone        string `env:"TIMEZONE" envDefault:"Asia/Tehran"`

	DeliveryTimeout time.Duration `env:"DELIVERY_TIMEOUT" envDefault:"5s"`
	Workers         int           `env:"WORKERS" envDefault:"8"`
	SessionBackend  string        `env:"SESSION_BACKEND" envDefault:"memory"`
	SessionTTL      time.Duration `env:"SESSION_TTL" envDefault:"24h"`

	HTTPAddr       string `env:"HTTP_ADDR" envDefault:":8080"`
	MetricsEnabled bool   `env:"METRICS_ENABLED" envDefault:"true"`
	LogLevel       string `env:"LOG_LEVEL" envDefault:"info"`

	Redis    Redis    `envPrefix:"REDIS_"`
	Database Database `envPrefix:"DB_"`

	// Location is resolved from Timezone by Load.
	Location *time.Location `env:"-"`
}

type Redis struct {
	Addr     string `env:"ADDR" envDefault:"localhost:6379"`
	Password string `env:"PASSWORD"`
	DB       int    `env:"DB" envDefault:"0"`
}

type Database struct {
	Host            string        `env:"HOST"`
	Port            int           `env:"PORT" envDefault:"5432"`
	User            string        `env:"USER"`
	Password        string        `env:"PASSWORD"`
	Name            string        `env:"NAME"`
	MaxOpenConns    int           `env:"MAX_OPEN_CONNS" envDefault:"25"`
	MaxIdleConns    int           `env:"MAX_IDLE_CONNS" envDefault:"5"`
	ConnMaxLifetime time.Duration `env:"CONN_MAX_LIFETIME" envDefault:"5m"`
	ConnMaxIdleTime time.Duration `env:"CONN_MAX_IDLE_TIME" envDefault:"2m"`
}

func (d Database) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		d.Host, d.Port, d.User, d.Password, d.Name,
	)
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read .env: %w", err)
	}
	return Parse(nil)
}

// Parse builds the config from environ, or from the process environment
// when environ is nil.
func Parse(environ map[string]string) (*Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Environment: environ}); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.MerchantChatID == 0 {
		return errors.New("MERCHANT_CHAT_ID must be non-zero")
	}
	if c.Workers < 1 {
		return fmt.Errorf("WORKERS must be positive, got %d", c.Workers)
	}
	if c.DeliveryTimeout <= 0 {
		return fmt.Errorf("DELIVERY_TIMEOUT must be positive, got %s", c.DeliveryTimeout)
	}

	switch c.SessionBackend {
	case BackendMemory:
	case BackendRedis:
		if c.Redis.Addr == "" {
			return errors.New("REDIS_ADDR is required for the redis session backend")
		}
	case BackendPostgres:
		if c.Database.Host == "" || c.Database.User == "" || c.Database.Name == "" {
			return errors.New("DB_HOST, DB_USER and DB_NAME are required for the postgres session backend")
		}
	default:
		return fmt.Errorf("unknown SESSION_BACKEND %q", c.SessionBackend)
	}

	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return fmt.Errorf("invalid TIMEZONE %q: %w", c.Timezone, err)
	}
	c.Location = loc
	return nil
}
