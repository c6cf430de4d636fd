package config

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env string

	API     APIConfig
	Session SessionConfig
	Payment PaymentConfig
	Export  ExportConfig
	Log     LogConfig
}

type APIConfig struct {
	BaseURL    string
	Prefix     string
	Timeout    time.Duration
	MaxRetries int
}

// SessionConfig mirrors the cookie lifetimes used by the web portal:
// access token one day, refresh token seven days.
type SessionConfig struct {
	TokenFile  string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// PaymentConfig controls the local redirect-capture server used during checkout.
type PaymentConfig struct {
	RedirectPort    int
	RedirectPath    string
	RedirectTimeout time.Duration
}

type ExportConfig struct {
	OutputDir string
}

type LogConfig struct {
	Level  string
	Format string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	// A missing .env is fine; defaults and the process environment cover it.
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")

	cfg.API = APIConfig{
		BaseURL:    strings.TrimRight(v.GetString("API_BASE_URL"), "/"),
		Prefix:     v.GetString("API_PREFIX"),
		Timeout:    parseDuration(v.GetString("API_TIMEOUT"), 30*time.Second),
		MaxRetries: v.GetInt("API_MAX_RETRIES"),
	}

	cfg.Session = SessionConfig{
		TokenFile:  v.GetString("SESSION_TOKEN_FILE"),
		AccessTTL:  parseDuration(v.GetString("ACCESS_TOKEN_TTL"), 24*time.Hour),
		RefreshTTL: parseDuration(v.GetString("REFRESH_TOKEN_TTL"), 7*24*time.Hour),
	}

	cfg.Payment = PaymentConfig{
		RedirectPort:    v.GetInt("PAYMENT_REDIRECT_PORT"),
		RedirectPath:    v.GetString("PAYMENT_REDIRECT_PATH"),
		RedirectTimeout: parseDuration(v.GetString("PAYMENT_REDIRECT_TIMEOUT"), 10*time.Minute),
	}

	cfg.Export = ExportConfig{
		OutputDir: v.GetString("EXPORT_OUTPUT_DIR"),
	}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)

	v.SetDefault("API_BASE_URL", "https://admissions.moh.gov.gh")
	v.SetDefault("API_PREFIX", "/api/v1.0")
	v.SetDefault("API_TIMEOUT", "30s")
	v.SetDefault("API_MAX_RETRIES", 2)

	v.SetDefault("SESSION_TOKEN_FILE", ".portal/tokens.json")
	v.SetDefault("ACCESS_TOKEN_TTL", "24h")
	v.SetDefault("REFRESH_TOKEN_TTL", "168h")

	v.SetDefault("PAYMENT_REDIRECT_PORT", 8943)
	v.SetDefault("PAYMENT_REDIRECT_PATH", "/payment/redirect")
	v.SetDefault("PAYMENT_REDIRECT_TIMEOUT", "10m")

	v.SetDefault("EXPORT_OUTPUT_DIR", ".")

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "console")
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}
