package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
)

type Config struct {
	AppEnv   string `envconfig:"APP_ENV" default:"development"`
	Port     string `envconfig:"PORT" default:"3000"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	DatabaseURL string `envconfig:"DATABASE_URL"`
	DBHost      string `envconfig:"DB_HOST" default:"localhost"`
	DBUser      string `envconfig:"DB_USER"`
	DBPassword  string `envconfig:"DB_PASSWORD"`
	DBName      string `envconfig:"DB_NAME"`
	DBPort      string `envconfig:"DB_PORT" default:"5432"`
	DBTimeZone  string `envconfig:"DB_TIMEZONE" default:"America/Lima"`

	JWTSecret string        `envconfig:"JWT_SECRET" required:"true"`
	JWTTTL    time.Duration `envconfig:"JWT_TTL" default:"24h"`

	// Comma separated; compared case-insensitively.
	AdminEmails []string `envconfig:"ADMIN_EMAILS"`

	CartTTL           time.Duration `envconfig:"CART_TTL" default:"720h"`
	ShippingFlatFee   int64         `envconfig:"SHIPPING_FLAT_FEE" default:"1000"`
	Currency          string        `envconfig:"CURRENCY" default:"PEN"`
	CheckoutRateLimit int           `envconfig:"CHECKOUT_RATE_LIMIT" default:"10"`
	CORSOrigins       string        `envconfig:"CORS_ORIGINS" default:"*"`
	SecureCookies     bool          `envconfig:"SECURE_COOKIES" default:"false"`
}

const minSecretLength = 16

// LoadDotEnv reads .env into the process environment when the file exists.
func LoadDotEnv() error {
	return godotenv.Load()
}

// Load reads the environment and rejects configurations the server cannot run with.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, errors.Wrap(err, "read environment")
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.DatabaseURL == "" && c.DBName == "" {
		return errors.New("either DATABASE_URL or DB_NAME must be set")
	}
	if len(c.JWTSecret) < minSecretLength {
		return errors.Errorf("JWT_SECRET must be at least %d characters", minSecretLength)
	}
	if c.ShippingFlatFee < 0 {
		return errors.New("SHIPPING_FLAT_FEE cannot be negative")
	}
	if c.CartTTL <= 0 || c.JWTTTL <= 0 {
		return errors.New("CART_TTL and JWT_TTL must be positive")
	}
	if c.CheckoutRateLimit <= 0 {
		c.CheckoutRateLimit = 10
	}
	for i, e := range c.AdminEmails {
		c.AdminEmails[i] = strings.ToLower(strings.TrimSpace(e))
	}
	return nil
}

// DSN builds the Postgres connection string.
func (c *Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=%s",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort, c.DBTimeZone,
	)
}

func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.AppEnv, "production")
}
