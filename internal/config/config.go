package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Revocation backends.
const (
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
	BackendMemory   = "memory"
)

// Event bus backends.
const (
	EventsGoChannel = "gochannel"
	EventsRedis     = "redis"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App        AppConfig
	Postgres   PostgresConfig
	Redis      RedisConfig
	Logger     LoggerConfig
	Auth       AuthConfig
	Revocation RevocationConfig
	Events     EventsConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	MigrationsDir  string
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// AuthConfig defines authentication parameters.
type AuthConfig struct {
	JWTSecret             string
	AccessTokenTTLMinutes int
	BcryptCost            int
}

// RevocationConfig selects where revoked tokens are kept.
type RevocationConfig struct {
	Backend     string
	RedisPrefix string
}

// EventsConfig selects the session event bus transport.
type EventsConfig struct {
	Backend       string
	Topic         string
	ConsumerGroup string
}

// Load reads configuration from environment variables, applying defaults where possible.
// Files in envFiles are loaded first; a missing default .env is not an error.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) > 0 {
		if err := godotenv.Load(envFiles...); err != nil {
			return nil, fmt.Errorf("load env files: %w", err)
		}
	} else {
		_ = godotenv.Load()
	}

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	dsn := os.Getenv("POSTGRES_DSN")
	defaultBackend := BackendMemory
	if dsn != "" {
		defaultBackend = BackendPostgres
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "session-auth-service"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Postgres: PostgresConfig{
			DSN:            dsn,
			MaxConns:       int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10)),
			MinConns:       int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2)),
			RunMigrations:  getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true),
			MigrationsDir:  getEnv("POSTGRES_MIGRATIONS_DIR", "migrations"),
			ConnMaxIdleSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30)),
			ConnMaxLifeSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300)),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Auth: AuthConfig{
			JWTSecret:             getEnv("AUTH_JWT_SECRET", "dev-secret"),
			AccessTokenTTLMinutes: getEnvAsInt("AUTH_ACCESS_TOKEN_TTL_MINUTES", 60),
			BcryptCost:            getEnvAsInt("AUTH_BCRYPT_COST", 12),
		},
		Revocation: RevocationConfig{
			Backend:     strings.ToLower(getEnv("REVOCATION_BACKEND", defaultBackend)),
			RedisPrefix: getEnv("REVOCATION_REDIS_PREFIX", "auth:revoked:"),
		},
		Events: EventsConfig{
			Backend:       strings.ToLower(getEnv("EVENTS_BACKEND", EventsGoChannel)),
			Topic:         getEnv("EVENTS_TOPIC", "auth.events"),
			ConsumerGroup: getEnv("EVENTS_CONSUMER_GROUP", "auth-audit"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects combinations the service cannot start with.
func (c *Config) Validate() error {
	switch c.Revocation.Backend {
	case BackendPostgres:
		if c.Postgres.DSN == "" {
			return fmt.Errorf("REVOCATION_BACKEND=postgres requires POSTGRES_DSN")
		}
	case BackendRedis, BackendMemory:
	default:
		return fmt.Errorf("unknown REVOCATION_BACKEND %q", c.Revocation.Backend)
	}

	switch c.Events.Backend {
	case EventsGoChannel, EventsRedis:
	default:
		return fmt.Errorf("unknown EVENTS_BACKEND %q", c.Events.Backend)
	}

	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("AUTH_JWT_SECRET must not be empty")
	}
	return nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// AccessTokenTTL returns the token validity window.
func (a AuthConfig) AccessTokenTTL() time.Duration {
	if a.AccessTokenTTLMinutes <= 0 {
		return time.Hour
	}
	return time.Duration(a.AccessTokenTTLMinutes) * time.Minute
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}
