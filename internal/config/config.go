package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

var ErrMissingCredentials = errors.New("missing backend credentials")

const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"

	DriverPgx = "pgx"
	DriverPq  = "postgres"
)

type Config struct {
	Env  string `toml:"env"`
	Port string `toml:"port"`

	Storage    string `toml:"storage"`
	DBDriver   string `toml:"db_driver"`
	DBHost     string `toml:"db_host"`
	DBPort     string `toml:"db_port"`
	DBUser     string `toml:"db_user"`
	DBPassword string `toml:"db_password"`
	DBName     string `toml:"db_name"`

	RedisHost     string `toml:"redis_host"`
	RedisPort     string `toml:"redis_port"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`

	JWTSecret string        `toml:"jwt_secret"`
	JWTIssuer string        `toml:"jwt_issuer"`
	TokenTTL  time.Duration `toml:"token_ttl"`

	KafkaBrokers []string `toml:"kafka_brokers"`
	KafkaTopic   string   `toml:"kafka_topic"`

	SyncDebounce  time.Duration `toml:"sync_debounce"`
	SyncQueueSize int           `toml:"sync_queue_size"`
	FlushTimeout  time.Duration `toml:"flush_timeout"`
	SessionIdle   time.Duration `toml:"session_idle"`

	RateLimit int    `toml:"rate_limit"`
	Timezone  string `toml:"timezone"`

	// logging
	LogLevel    string `toml:"log_level"`
	LogFile     string `toml:"log_file"`
	LogToStdout bool   `toml:"log_to_stdout"`
	LogJSON     bool   `toml:"log_json"`
}

type Toml struct {
	Development Config
	Production  Config
}

func (t *Toml) Get(env string) (*Config, error) {
	switch strings.ToLower(env) {
	case "dev", "development":
		return &t.Development, nil
	case "prod", "production":
		return &t.Production, nil
	default:
		return nil, fmt.Errorf("unknown env: %s", env)
	}
}

func defaults() Config {
	return Config{
		Env:           "development",
		Port:          "8080",
		Storage:       StoragePostgres,
		DBDriver:      DriverPgx,
		DBHost:        "localhost",
		DBPort:        "5432",
		RedisHost:     "localhost",
		RedisPort:     "6379",
		JWTIssuer:     "kanso-fit",
		TokenTTL:      24 * time.Hour,
		SyncDebounce:  time.Second,
		SyncQueueSize: 100,
		FlushTimeout:  5 * time.Second,
		SessionIdle:   30 * time.Minute,
		RateLimit:     100,
		Timezone:      "UTC",
		LogLevel:      "info",
		LogToStdout:   true,
	}
}

// Load builds the configuration from defaults, an optional TOML file
// (CONFIG_FILE, section picked by APP_ENV) and finally the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := defaults()
	env := getEnv("APP_ENV", cfg.Env)

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		fileCfg, err := loadFile(path, env, cfg)
		if err != nil {
			return nil, err
		}
		cfg = *fileCfg
	}
	cfg.Env = env

	cfg.Port = getEnv("PORT", cfg.Port)
	cfg.Storage = strings.ToLower(getEnv("STORAGE", cfg.Storage))
	cfg.DBDriver = strings.ToLower(getEnv("DB_DRIVER", cfg.DBDriver))
	cfg.DBHost = getEnv("DB_HOST", cfg.DBHost)
	cfg.DBPort = getEnv("DB_PORT", cfg.DBPort)
	cfg.DBUser = getEnv("DB_USER", cfg.DBUser)
	cfg.DBPassword = getEnv("DB_PASSWORD", cfg.DBPassword)
	cfg.DBName = getEnv("DB_NAME", cfg.DBName)

	cfg.RedisHost = getEnv("REDIS_HOST", cfg.RedisHost)
	cfg.RedisPort = getEnv("REDIS_PORT", cfg.RedisPort)
	cfg.RedisPassword = getEnv("REDIS_PASSWORD", cfg.RedisPassword)
	cfg.RedisDB = getIntEnv("REDIS_DB", cfg.RedisDB)

	cfg.JWTSecret = getEnv("JWT_SECRET", cfg.JWTSecret)
	cfg.JWTIssuer = getEnv("JWT_ISSUER", cfg.JWTIssuer)
	cfg.TokenTTL = getDurationEnv("TOKEN_TTL", cfg.TokenTTL)

	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		cfg.KafkaBrokers = splitAndTrim(brokers)
	}
	cfg.KafkaTopic = getEnv("KAFKA_TOPIC", cfg.KafkaTopic)

	cfg.SyncDebounce = getDurationEnv("SYNC_DEBOUNCE", cfg.SyncDebounce)
	cfg.SyncQueueSize = getIntEnv("SYNC_QUEUE_SIZE", cfg.SyncQueueSize)
	cfg.FlushTimeout = getDurationEnv("FLUSH_TIMEOUT", cfg.FlushTimeout)
	cfg.SessionIdle = getDurationEnv("SESSION_IDLE", cfg.SessionIdle)
	cfg.RateLimit = getIntEnv("RATE_LIMIT", cfg.RateLimit)
	cfg.Timezone = getEnv("TZ_NAME", cfg.Timezone)

	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)
	cfg.LogFile = getEnv("LOG_FILE", cfg.LogFile)
	cfg.LogToStdout = getBoolEnv("LOG_TO_STDOUT", cfg.LogToStdout)
	cfg.LogJSON = getBoolEnv("LOG_JSON", cfg.LogJSON)

	return &cfg, nil
}

func loadFile(path, env string, base Config) (*Config, error) {
	t := Toml{Development: base, Production: base}
	if _, err := toml.DecodeFile(path, &t); err != nil {
		return nil, fmt.Errorf("config: decode %s: %w", path, err)
	}
	return t.Get(env)
}

// Validate reports configuration that must stop the process.
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("%w: JWT_SECRET is not set", ErrMissingCredentials)
	}

	switch c.Storage {
	case StorageMemory:
	case StoragePostgres:
		if c.DBUser == "" || c.DBName == "" {
			return fmt.Errorf("%w: DB_USER and DB_NAME are required", ErrMissingCredentials)
		}
		if c.DBDriver != DriverPgx && c.DBDriver != DriverPq {
			return fmt.Errorf("config: unknown db driver %q", c.DBDriver)
		}
	default:
		return fmt.Errorf("config: unknown storage %q", c.Storage)
	}

	if c.SyncDebounce <= 0 {
		return errors.New("config: SYNC_DEBOUNCE must be positive")
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("config: invalid timezone %q: %w", c.Timezone, err)
	}
	return nil
}

func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName)
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getIntEnv(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getBoolEnv(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func splitAndTrim(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
