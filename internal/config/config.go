package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Session   SessionConfig   `yaml:"session"`
	Redis     RedisConfig     `yaml:"redis"`
	Email     EmailConfig     `yaml:"email"`
	Storage   StorageConfig   `yaml:"storage"`
	Log       LogConfig       `yaml:"log"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host                string   `yaml:"host"`
	Port                int      `yaml:"port"`
	SecureCookies       bool     `yaml:"secure_cookies"`
	TrustedProxies      []string `yaml:"trusted_proxies"`
	ReadTimeoutSeconds  int      `yaml:"read_timeout_seconds"`
	WriteTimeoutSeconds int      `yaml:"write_timeout_seconds"`
}

// DatabaseConfig contains PostgreSQL connection settings
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	SSLMode  string `yaml:"ssl_mode"`
}

// SessionConfig contains cookie session settings
type SessionConfig struct {
	Secret      string `yaml:"secret"`
	TTLMinutes  int    `yaml:"ttl_minutes"`
	CookieName  string `yaml:"cookie_name"`
	FlashCookie string `yaml:"flash_cookie"`
}

// RedisConfig is optional; an empty address disables revocation storage and rate limiting in Redis
type RedisConfig struct {
	Addr      string `yaml:"addr"`
	Password  string `yaml:"password"`
	DB        int    `yaml:"db"`
	KeyPrefix string `yaml:"key_prefix"`
}

// EmailConfig contains notification mail settings
type EmailConfig struct {
	Provider       string `yaml:"provider"` // "sendgrid" or "noop"
	SendGridAPIKey string `yaml:"sendgrid_api_key"`
	FromAddress    string `yaml:"from_address"`
	FromName       string `yaml:"from_name"`
}

// StorageConfig contains property image storage settings
type StorageConfig struct {
	Type              string   `yaml:"type"`       // "local" or "minio"
	UploadDir         string   `yaml:"upload_dir"` // For local storage
	BaseURL           string   `yaml:"base_url"`   // Public prefix for local URLs
	MaxFileSize       int64    `yaml:"max_file_size_mb"`
	AllowedTypes      []string `yaml:"allowed_types"`
	MinioEndpoint     string   `yaml:"minio_endpoint"`
	MinioAccessKey    string   `yaml:"minio_access_key"`
	MinioSecretKey    string   `yaml:"minio_secret_key"`
	MinioBucket       string   `yaml:"minio_bucket"`
	MinioUseSSL       bool     `yaml:"minio_use_ssl"`
	PresignTTLMinutes int      `yaml:"presign_ttl_minutes"`
}

// LogConfig contains logging settings
type LogConfig struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format"` // "json" or "text"
}

// RateLimitConfig bounds login attempts per client IP
type RateLimitConfig struct {
	LoginAttempts int `yaml:"login_attempts"`
	WindowSeconds int `yaml:"window_seconds"`
}

// Load reads configuration from a YAML file, then a .env file, then the
// process environment. An empty path skips the YAML file.
func Load(configPath string) (*Config, error) {
	var cfg Config
	if configPath != "" {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}
	cfg.overrideWithEnv()
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func envString(key string, dst *string) {
	if val := os.Getenv(key); val != "" {
		*dst = val
	}
}

func envInt(key string, dst *int) {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			*dst = n
		}
	}
}

func envBool(key string, dst *bool) {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			*dst = b
		}
	}
}

// overrideWithEnv overrides config values with environment variables
func (c *Config) overrideWithEnv() {
	envString("DB_HOST", &c.Database.Host)
	envInt("DB_PORT", &c.Database.Port)
	envString("DB_USER", &c.Database.User)
	envString("DB_PASSWORD", &c.Database.Password)
	envString("DB_NAME", &c.Database.Database)
	envString("DB_SSL_MODE", &c.Database.SSLMode)

	envString("SESSION_SECRET", &c.Session.Secret)
	envInt("SESSION_TTL_MINUTES", &c.Session.TTLMinutes)

	envString("REDIS_ADDR", &c.Redis.Addr)
	envString("REDIS_PASSWORD", &c.Redis.Password)
	envInt("REDIS_DB", &c.Redis.DB)

	envString("EMAIL_PROVIDER", &c.Email.Provider)
	envString("SENDGRID_API_KEY", &c.Email.SendGridAPIKey)
	envString("SENDGRID_FROM", &c.Email.FromAddress)

	envString("STORAGE_TYPE", &c.Storage.Type)
	envString("STORAGE_UPLOAD_DIR", &c.Storage.UploadDir)
	envString("STORAGE_BASE_URL", &c.Storage.BaseURL)
	envString("STORAGE_MINIO_ENDPOINT", &c.Storage.MinioEndpoint)
	envString("STORAGE_MINIO_ACCESS_KEY", &c.Storage.MinioAccessKey)
	envString("STORAGE_MINIO_SECRET_KEY", &c.Storage.MinioSecretKey)
	envString("STORAGE_MINIO_BUCKET", &c.Storage.MinioBucket)
	envBool("STORAGE_MINIO_USE_SSL", &c.Storage.MinioUseSSL)

	envString("SERVER_HOST", &c.Server.Host)
	envInt("SERVER_PORT", &c.Server.Port)
	envBool("SERVER_SECURE_COOKIES", &c.Server.SecureCookies)
	if val := os.Getenv("SERVER_TRUSTED_PROXIES"); val != "" {
		c.Server.TrustedProxies = splitCSV(val)
	}

	envString("LOG_LEVEL", &c.Log.Level)
	envString("LOG_FORMAT", &c.Log.Format)
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8000
	}
	if c.Server.ReadTimeoutSeconds == 0 {
		c.Server.ReadTimeoutSeconds = 15
	}
	if c.Server.WriteTimeoutSeconds == 0 {
		c.Server.WriteTimeoutSeconds = 30
	}
	if c.Database.Port == 0 {
		c.Database.Port = 5432
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}
	if c.Session.TTLMinutes == 0 {
		c.Session.TTLMinutes = 60 * 24
	}
	if c.Session.CookieName == "" {
		c.Session.CookieName = "unistay_session"
	}
	if c.Session.FlashCookie == "" {
		c.Session.FlashCookie = "unistay_flash"
	}
	if c.Redis.KeyPrefix == "" {
		c.Redis.KeyPrefix = "unistay"
	}
	if c.Email.Provider == "" {
		c.Email.Provider = "noop"
	}
	if c.Email.FromName == "" {
		c.Email.FromName = "UniStay"
	}
	if c.Storage.Type == "" {
		c.Storage.Type = "local"
	}
	if c.Storage.UploadDir == "" {
		c.Storage.UploadDir = "./media"
	}
	if c.Storage.BaseURL == "" {
		c.Storage.BaseURL = "/media"
	}
	if c.Storage.MaxFileSize == 0 {
		c.Storage.MaxFileSize = 5
	}
	if len(c.Storage.AllowedTypes) == 0 {
		c.Storage.AllowedTypes = []string{"image/jpeg", "image/png", "image/gif"}
	}
	if c.Storage.PresignTTLMinutes == 0 {
		c.Storage.PresignTTLMinutes = 60
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
	if c.RateLimit.LoginAttempts == 0 {
		c.RateLimit.LoginAttempts = 10
	}
	if c.RateLimit.WindowSeconds == 0 {
		c.RateLimit.WindowSeconds = 300
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}
	if c.Database.User == "" {
		return fmt.Errorf("database user is required")
	}
	if c.Database.Database == "" {
		return fmt.Errorf("database name is required")
	}

	if c.Session.Secret == "" {
		return fmt.Errorf("session secret is required")
	}
	if len(c.Session.Secret) < 32 {
		return fmt.Errorf("session secret must be at least 32 characters")
	}

	switch c.Email.Provider {
	case "noop":
	case "sendgrid":
		if c.Email.SendGridAPIKey == "" || c.Email.FromAddress == "" {
			return fmt.Errorf("sendgrid api key and from address are required")
		}
	default:
		return fmt.Errorf("unknown email provider: %q", c.Email.Provider)
	}

	switch c.Storage.Type {
	case "local":
		if c.Storage.UploadDir == "" {
			return fmt.Errorf("upload directory is required")
		}
	case "minio":
		if c.Storage.MinioEndpoint == "" || c.Storage.MinioBucket == "" {
			return fmt.Errorf("minio endpoint and bucket are required")
		}
	default:
		return fmt.Errorf("unknown storage type: %q", c.Storage.Type)
	}

	return nil
}

// GetDatabaseConnectionString returns a PostgreSQL connection string
func (c *Config) GetDatabaseConnectionString() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Database,
		c.Database.SSLMode,
	)
}

// GetServerAddress returns the HTTP listen address
func (c *Config) GetServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func (c *Config) SessionTTL() time.Duration {
	return time.Duration(c.Session.TTLMinutes) * time.Minute
}

func (c *Config) RateLimitWindow() time.Duration {
	return time.Duration(c.RateLimit.WindowSeconds) * time.Second
}

func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
