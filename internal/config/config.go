package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App      AppConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	Cache    CacheConfig
	Logger   LoggerConfig
	Auth     AuthConfig
	Mail     MailConfig
	Seed     SeedConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	APIPrefix             string
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
	Username string
	Password string
	DB       int
}

// CacheConfig controls list response caching.
type CacheConfig struct {
	Enabled bool
	TTL     time.Duration
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// AuthConfig defines authentication parameters.
type AuthConfig struct {
	AccessSecret    string
	RefreshSecret   string
	ActionSecret    string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
	VerifyTokenTTL  time.Duration
	ResetTokenTTL   time.Duration
	BcryptCost      int
	MaxPassFailures int
	// LockoutBackend selects where failed login counters live: "memory" or "redis".
	LockoutBackend string
	// LockoutWindow is how long a redis failure count survives without new failures.
	LockoutWindow time.Duration
	// TokenPurgeInterval schedules removal of expired one-time tokens; zero disables it.
	TokenPurgeInterval time.Duration
}

// MailConfig points at the external mail dispatch service.
type MailConfig struct {
	ServiceURL     string
	Exchange       string
	FrontHost      string
	AppMail        string
	AppImg         string
	AppColor       string
	EmailFrom      string
	TimeoutSeconds int
	NotifyAssigned bool
}

// SeedConfig describes the optional bootstrap administrator.
type SeedConfig struct {
	AdminEmail     string
	AdminPassword  string
	AdminFirstName string
	AdminLastName  string
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "helpdesk-service"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			APIPrefix:             getEnv("API_PREFIX", "/api/v1"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10)),
			MinConns:       int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2)),
			RunMigrations:  getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true),
			MigrationsDir:  getEnv("POSTGRES_MIGRATIONS_DIR", "migrations"),
			ConnMaxIdleSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30)),
			ConnMaxLifeSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300)),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Username: os.Getenv("REDIS_USERNAME"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Cache: CacheConfig{
			Enabled: getEnvAsBool("CACHE_ENABLED", true),
			TTL:     getEnvAsDuration("CACHE_TTL", 30*time.Second),
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Auth: AuthConfig{
			AccessSecret:       getEnv("AUTH_JWT_SECRET", "dev-secret"),
			RefreshSecret:      getEnv("AUTH_JWT_REFRESH_SECRET", "dev-refresh-secret"),
			ActionSecret:       getEnv("AUTH_JWT_ACTION_SECRET", "dev-action-secret"),
			AccessTokenTTL:     getEnvAsDuration("AUTH_ACCESS_TOKEN_TTL", time.Hour),
			RefreshTokenTTL:    getEnvAsDuration("AUTH_REFRESH_TOKEN_TTL", 7*24*time.Hour),
			VerifyTokenTTL:     getEnvAsDuration("AUTH_VERIFY_TOKEN_TTL", 24*time.Hour),
			ResetTokenTTL:      getEnvAsDuration("AUTH_RESET_TOKEN_TTL", time.Hour),
			BcryptCost:         getEnvAsInt("AUTH_BCRYPT_COST", 10),
			MaxPassFailures:    getEnvAsInt("MAX_PASS_FAILURES", 3),
			LockoutBackend:     getEnv("AUTH_LOCKOUT_BACKEND", "memory"),
			LockoutWindow:      getEnvAsDuration("AUTH_LOCKOUT_WINDOW", 24*time.Hour),
			TokenPurgeInterval: getEnvAsDuration("AUTH_TOKEN_PURGE_INTERVAL", time.Hour),
		},
		Mail: MailConfig{
			ServiceURL:     os.Getenv("MAIL_SERVICE_URL"),
			Exchange:       getEnv("MAIL_EXCHANGE", "helpdesk"),
			FrontHost:      getEnv("APP_FRONT_HOST", "http://localhost:3000"),
			AppMail:        os.Getenv("APP_MAIL"),
			AppImg:         os.Getenv("APP_IMG"),
			AppColor:       os.Getenv("APP_COLOR"),
			EmailFrom:      getEnv("APP_EMAIL_FROM", "noreply@example.com"),
			TimeoutSeconds: getEnvAsInt("MAIL_TIMEOUT_SECONDS", 10),
			NotifyAssigned: getEnvAsBool("MAIL_NOTIFY_ASSIGNED", true),
		},
		Seed: SeedConfig{
			AdminEmail:     os.Getenv("SEED_ADMIN_EMAIL"),
			AdminPassword:  os.Getenv("SEED_ADMIN_PASSWORD"),
			AdminFirstName: getEnv("SEED_ADMIN_FIRST_NAME", "Admin"),
			AdminLastName:  getEnv("SEED_ADMIN_LAST_NAME", "Helpdesk"),
		},
	}

	return cfg, nil
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

// Timeout returns the mail dispatch HTTP timeout.
func (m MailConfig) Timeout() time.Duration {
	if m.TimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(m.TimeoutSeconds) * time.Second
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

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(val)
	if err != nil {
		return fallback
	}
	return parsed
}
