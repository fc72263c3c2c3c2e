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

// Draft store drivers.
const (
	DraftStoreMemory = "memory"
	DraftStoreRedis  = "redis"
)

type Config struct {
	Env  string
	Port int

	Backend    BackendConfig
	Redis      RedisConfig
	CORS       CORSConfig
	Log        LogConfig
	Drafts     DraftConfig
	Listing    ListingConfig
	Enrichment EnrichmentConfig
	Metrics    MetricsConfig
}

// BackendConfig points the console at the school REST API.
type BackendConfig struct {
	BaseURL string
	Timeout time.Duration
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// DraftConfig controls the student creation draft cache.
type DraftConfig struct {
	Enabled bool
	Store   string
	TTL     time.Duration
	Key     string
}

// ListingConfig tunes list view pagination.
type ListingConfig struct {
	PageSize int
}

// EnrichmentConfig bounds the student lookups issued per enrollment page.
type EnrichmentConfig struct {
	Concurrency int
}

// MetricsConfig toggles the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")

	cfg.Backend = BackendConfig{
		BaseURL: strings.TrimRight(v.GetString("BACKEND_BASE_URL"), "/"),
		Timeout: parseDuration(v.GetString("BACKEND_TIMEOUT"), 30*time.Second),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	store := strings.ToLower(strings.TrimSpace(v.GetString("DRAFT_STORE")))
	if store != DraftStoreRedis {
		store = DraftStoreMemory
	}
	cfg.Drafts = DraftConfig{
		Enabled: v.GetBool("ENABLE_DRAFTS"),
		Store:   store,
		TTL:     parseDuration(v.GetString("DRAFT_TTL"), 24*time.Hour),
		Key:     v.GetString("DRAFT_KEY"),
	}

	pageSize := v.GetInt("PAGE_SIZE")
	if pageSize <= 0 {
		pageSize = 10
	}
	cfg.Listing = ListingConfig{PageSize: pageSize}

	concurrency := v.GetInt("ENRICH_CONCURRENCY")
	if concurrency <= 0 {
		concurrency = 4
	}
	cfg.Enrichment = EnrichmentConfig{Concurrency: concurrency}

	cfg.Metrics = MetricsConfig{Enabled: v.GetBool("ENABLE_METRICS")}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 3000)

	v.SetDefault("BACKEND_BASE_URL", "http://localhost:8081/api/v1")
	v.SetDefault("BACKEND_TIMEOUT", "30s")

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("ENABLE_DRAFTS", true)
	v.SetDefault("DRAFT_STORE", DraftStoreMemory)
	v.SetDefault("DRAFT_TTL", "24h")
	v.SetDefault("DRAFT_KEY", "student_form_draft")

	v.SetDefault("PAGE_SIZE", 10)
	v.SetDefault("ENRICH_CONCURRENCY", 4)
	v.SetDefault("ENABLE_METRICS", true)
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

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
