package config

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Session  SessionConfig
	Admin    AdminConfig
	WhatsApp WhatsAppConfig
	Cart     CartConfig
	Catalog  CatalogConfig
	Firebase FirebaseConfig
	Log      LogConfig
	HTTP     HTTPConfig
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name string
	Env  string
	Port string
}

// DatabaseConfig holds database connection settings. URL wins over the
// individual fields when set.
type DatabaseConfig struct {
	Driver       string // postgres, sqlite
	URL          string
	Host         string
	Port         int
	User         string
	Password     string
	DBName       string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

// RedisConfig holds Redis connection settings. An empty Host disables Redis.
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// JWTConfig holds JWT settings
type JWTConfig struct {
	Secret     string
	Expiration time.Duration
	Issuer     string
}

// SessionConfig configures the signed cookie used as on-device storage.
type SessionConfig struct {
	Key    string
	Name   string
	MaxAge int // seconds
	Secure bool
}

// AdminConfig holds the machine API key and the bootstrap admin account.
type AdminConfig struct {
	APIKey   string
	Email    string
	Password string
}

// WhatsAppConfig holds the business number orders are handed off to.
type WhatsAppConfig struct {
	Number string
}

// CartConfig controls how customer contact details are collected.
type CartConfig struct {
	CaptureMode string // modal, profile
}

// CatalogConfig selects where services are read from.
type CatalogConfig struct {
	Source   string // static, remote
	CacheTTL time.Duration
}

// FirebaseConfig enables Google sign-in when both fields are set.
type FirebaseConfig struct {
	ProjectID       string
	CredentialsJSON string
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string
	Format string
	Output string
}

// HTTPConfig holds HTTP server configuration
type HTTPConfig struct {
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	ShutdownTimeout   time.Duration
	CORSAllowOrigins  []string
	RateLimitRequests int
	RateLimitWindow   time.Duration
}

const (
	CaptureModal   = "modal"
	CaptureProfile = "profile"
)

// Load reads .env, an optional config.toml and JOKI_* environment variables.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("/etc/donefast")

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.SetEnvPrefix("JOKI")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		App: AppConfig{
			Name: v.GetString("app.name"),
			Env:  v.GetString("app.env"),
			Port: v.GetString("app.port"),
		},
		Database: DatabaseConfig{
			Driver:       v.GetString("database.driver"),
			URL:          v.GetString("database.url"),
			Host:         v.GetString("database.host"),
			Port:         v.GetInt("database.port"),
			User:         v.GetString("database.user"),
			Password:     v.GetString("database.password"),
			DBName:       v.GetString("database.dbname"),
			SSLMode:      v.GetString("database.sslmode"),
			MaxOpenConns: v.GetInt("database.max_open_conns"),
			MaxIdleConns: v.GetInt("database.max_idle_conns"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("redis.host"),
			Port:     v.GetInt("redis.port"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		JWT: JWTConfig{
			Secret:     v.GetString("jwt.secret"),
			Expiration: v.GetDuration("jwt.expiration"),
			Issuer:     v.GetString("jwt.issuer"),
		},
		Session: SessionConfig{
			Key:    v.GetString("session.key"),
			Name:   v.GetString("session.name"),
			MaxAge: v.GetInt("session.max_age"),
			Secure: v.GetBool("session.secure"),
		},
		Admin: AdminConfig{
			APIKey:   v.GetString("admin.api_key"),
			Email:    v.GetString("admin.email"),
			Password: v.GetString("admin.password"),
		},
		WhatsApp: WhatsAppConfig{
			Number: v.GetString("whatsapp.number"),
		},
		Cart: CartConfig{
			CaptureMode: v.GetString("cart.capture_mode"),
		},
		Catalog: CatalogConfig{
			Source:   v.GetString("catalog.source"),
			CacheTTL: v.GetDuration("catalog.cache_ttl"),
		},
		Firebase: FirebaseConfig{
			ProjectID:       v.GetString("firebase.project_id"),
			CredentialsJSON: v.GetString("firebase.credentials_json"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		HTTP: HTTPConfig{
			ReadTimeout:       v.GetDuration("http.read_timeout"),
			WriteTimeout:      v.GetDuration("http.write_timeout"),
			ShutdownTimeout:   v.GetDuration("http.shutdown_timeout"),
			CORSAllowOrigins:  v.GetStringSlice("http.cors_allow_origins"),
			RateLimitRequests: v.GetInt("http.rate_limit_requests"),
			RateLimitWindow:   v.GetDuration("http.rate_limit_window"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	// outside production missing secrets are replaced per process; tokens
	// and device cookies then do not survive a restart
	if cfg.JWT.Secret == "" {
		cfg.JWT.Secret = ephemeralSecret()
	}
	if cfg.Session.Key == "" {
		cfg.Session.Key = ephemeralSecret()
	}
	return cfg, nil
}

func ephemeralSecret() string {
	b := make([]byte, 32)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "donefast")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")

	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.dbname", "donefast")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 5)

	v.SetDefault("redis.port", 6379)

	v.SetDefault("jwt.expiration", 24*time.Hour)
	v.SetDefault("jwt.issuer", "donefast")

	v.SetDefault("session.name", "donefast_device")
	v.SetDefault("session.max_age", 60*60*24*30)

	v.SetDefault("whatsapp.number", "6285998006060")
	v.SetDefault("cart.capture_mode", CaptureModal)
	v.SetDefault("catalog.source", "remote")
	v.SetDefault("catalog.cache_ttl", 5*time.Minute)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.output", "stdout")

	v.SetDefault("http.read_timeout", 15*time.Second)
	v.SetDefault("http.write_timeout", 15*time.Second)
	v.SetDefault("http.shutdown_timeout", 10*time.Second)
	v.SetDefault("http.cors_allow_origins", []string{"*"})
	v.SetDefault("http.rate_limit_requests", 60)
	v.SetDefault("http.rate_limit_window", time.Minute)
}

// Validate rejects configurations that cannot run safely.
func (c *Config) Validate() error {
	if c.Cart.CaptureMode != CaptureModal && c.Cart.CaptureMode != CaptureProfile {
		return fmt.Errorf("cart.capture_mode must be %q or %q, got %q", CaptureModal, CaptureProfile, c.Cart.CaptureMode)
	}
	switch c.Catalog.Source {
	case "static", "remote":
	default:
		return fmt.Errorf("catalog.source must be static or remote, got %q", c.Catalog.Source)
	}
	if c.WhatsApp.Number == "" {
		return errors.New("whatsapp.number is required")
	}
	if c.IsProduction() {
		if len(c.JWT.Secret) < 32 {
			return errors.New("jwt.secret must be at least 32 characters in production")
		}
		if len(c.Session.Key) < 32 {
			return errors.New("session.key must be at least 32 characters in production")
		}
	}
	return nil
}

// IsProduction reports whether the app runs with production settings.
func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}

// DSN returns the connection string for the configured driver.
func (d DatabaseConfig) DSN() string {
	if d.URL != "" {
		return d.URL
	}
	if d.Driver == "sqlite" {
		if d.DBName == "" {
			return "file::memory:?cache=shared"
		}
		return d.DBName
	}
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%d sslmode=%s",
		d.Host, d.User, d.Password, d.DBName, d.Port, d.SSLMode,
	)
}

// Addr returns host:port, or "" when Redis is not configured.
func (r RedisConfig) Addr() string {
	if r.Host == "" {
		return ""
	}
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// GoogleSignInEnabled reports whether Firebase credentials are present.
func (f FirebaseConfig) GoogleSignInEnabled() bool {
	return f.ProjectID != "" && f.CredentialsJSON != ""
}
