package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates all runtime settings required by the client and the mock API.
type Config struct {
	AppName string
	Backend BackendConfig
	Store   StoreConfig
	Redis   RedisConfig
	Notify  NotifyConfig
	Monitor MonitorConfig
	Context ContextConfig
	Logger  LoggerConfig
	MockAPI MockAPIConfig
}

type BackendConfig struct {
	URL            string
	RequestTimeout time.Duration
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	MaxConns       int
}

// StoreConfig selects where the bearer token is persisted.
type StoreConfig struct {
	Driver string
	Path   string
}

type RedisConfig struct {
	URL      string
	Password string
	DB       int
	TokenKey string
	TokenTTL time.Duration
}

type NotifyConfig struct {
	TTL time.Duration
}

type MonitorConfig struct {
	Interval time.Duration
}

type ContextConfig struct {
	ShutdownTimeout time.Duration
}

type LoggerConfig struct {
	Level    string
	Encoding string
}

type MockAPIConfig struct {
	Host      string
	Port      string
	JWTSecret string
	JWTTTL    time.Duration
}

const (
	StoreBolt  = "bolt"
	StoreRedis = "redis"

	DefaultBackendURL = "http://localhost:8000"
)

// Load reads configuration from environment variables (optionally .env)
// and applies defaults suitable for local development.
func Load() (*Config, error) {
	_ = godotenv.Load(".env")

	cfg := &Config{
		AppName: getString("APP_NAME", "todo"),
		Backend: BackendConfig{
			URL:            strings.TrimRight(getString("BACKEND_URL", DefaultBackendURL), "/"),
			RequestTimeout: getDuration("REQUEST_TIMEOUT_SECONDS", 10*time.Second),
			ReadTimeout:    getDuration("CLIENT_READ_TIMEOUT", 10*time.Second),
			WriteTimeout:   getDuration("CLIENT_WRITE_TIMEOUT", 10*time.Second),
			MaxConns:       getInt("CLIENT_MAX_CONNS", 16),
		},
		Store: StoreConfig{
			Driver: strings.ToLower(getString("TOKEN_STORE", StoreBolt)),
			Path:   getString("BOLTDB_PATH", defaultStorePath()),
		},
		Redis: RedisConfig{
			URL:      getString("REDIS_URL", "redis://localhost:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       getInt("REDIS_DB", 0),
			TokenKey: getString("REDIS_TOKEN_KEY", "todo:token"),
			TokenTTL: getDuration("REDIS_TOKEN_TTL", 0),
		},
		Notify: NotifyConfig{
			TTL: getDuration("NOTIFY_TTL", 5*time.Second),
		},
		Monitor: MonitorConfig{
			Interval: getDuration("MONITOR_INTERVAL", 10*time.Second),
		},
		Context: ContextConfig{
			ShutdownTimeout: getDuration("SHUTDOWN_TIMEOUT_SECONDS", 5*time.Second),
		},
		Logger: LoggerConfig{
			Level:    getString("LOG_LEVEL", "warn"),
			Encoding: getString("LOG_ENCODING", "console"),
		},
		MockAPI: MockAPIConfig{
			Host:      getString("MOCKAPI_HOST", "127.0.0.1"),
			Port:      getString("MOCKAPI_PORT", "8000"),
			JWTSecret: getString("JWT_SECRET", "dev-secret"),
			JWTTTL:    getDuration("JWT_TTL", 24*time.Hour),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the client cannot start with.
func (c *Config) Validate() error {
	if !strings.HasPrefix(c.Backend.URL, "http://") && !strings.HasPrefix(c.Backend.URL, "https://") {
		return fmt.Errorf("config: BACKEND_URL must start with http:// or https://, got %q", c.Backend.URL)
	}
	switch c.Store.Driver {
	case StoreBolt, StoreRedis:
	default:
		return fmt.Errorf("config: unknown TOKEN_STORE %q", c.Store.Driver)
	}
	return nil
}

func defaultStorePath() string {
	dir, err := os.UserConfigDir()
	if err != nil || dir == "" {
		return filepath.Join(".", "data", "session.db")
	}
	return filepath.Join(dir, "todo", "session.db")
}

func getString(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if parsed, err := time.ParseDuration(val); err == nil {
			return parsed
		}
		if seconds, err := strconv.Atoi(val); err == nil {
			return time.Duration(seconds) * time.Second
		}
	}
	return fallback
}

// MockAPIAddress returns the listen address of the mock API server.
func (c *Config) MockAPIAddress() string {
	return fmt.Sprintf("%s:%s", c.MockAPI.Host, c.MockAPI.Port)
}
