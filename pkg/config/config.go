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
	Env       string
	Port      int
	APIPrefix string

	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	CORS     CORSConfig
	Log      LogConfig
	Planner  PlannerConfig
	Cohort   CohortConfig
	Export   ExportConfig
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// JWTConfig signs bearer tokens. Clients lists "id:ROLE:bcrypt-hash" API credentials.
type JWTConfig struct {
	Secret     string
	Issuer     string
	Expiration time.Duration
	Clients    []string
}

type CORSConfig struct {
	AllowedOrigins []string
	MaxAge         time.Duration
}

type LogConfig struct {
	Level  string
	Format string
}

// PlannerConfig tunes the eligibility rules and in-memory session stores.
type PlannerConfig struct {
	PassingGrades     []string
	InProgressPolicy  string
	DefaultTerm       string
	SessionTTL        time.Duration
	MaxCatalogEntries int
}

// CohortConfig governs the cohort conflict report and its cache.
type CohortConfig struct {
	TopConflicted int
	CacheEnabled  bool
	CacheTTL      time.Duration
}

// ExportConfig controls schedule exports.
type ExportConfig struct {
	TimezoneLabel string
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
		if !errors.As(err, &notFound) && !isMissingFile(err) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.JWT = JWTConfig{
		Secret:     v.GetString("JWT_SECRET"),
		Issuer:     v.GetString("JWT_ISSUER"),
		Expiration: parseDuration(v.GetString("JWT_EXPIRATION"), 24*time.Hour),
		Clients:    splitAndTrim(v.GetString("AUTH_CLIENTS")),
	}

	cfg.CORS = CORSConfig{
		AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS")),
		MaxAge:         parseDuration(v.GetString("CORS_MAX_AGE"), 10*time.Minute),
	}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Planner = PlannerConfig{
		PassingGrades:     splitAndTrim(v.GetString("PLANNER_PASSING_GRADES")),
		InProgressPolicy:  v.GetString("PLANNER_IN_PROGRESS_POLICY"),
		DefaultTerm:       v.GetString("PLANNER_DEFAULT_TERM"),
		SessionTTL:        parseDuration(v.GetString("SELECTION_SESSION_TTL"), 12*time.Hour),
		MaxCatalogEntries: v.GetInt("PLANNER_MAX_CATALOG_ENTRIES"),
	}

	topConflicted := v.GetInt("PLANNER_TOP_CONFLICTED")
	if topConflicted <= 0 {
		topConflicted = 10
	}
	cfg.Cohort = CohortConfig{
		TopConflicted: topConflicted,
		CacheEnabled:  v.GetBool("ENABLE_COHORT_CACHE"),
		CacheTTL:      parseDuration(v.GetString("COHORT_CACHE_TTL"), 10*time.Minute),
	}

	cfg.Export = ExportConfig{
		TimezoneLabel: v.GetString("EXPORT_TIMEZONE_LABEL"),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "class_planner")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("JWT_SECRET", "dev_secret")
	v.SetDefault("JWT_ISSUER", "class-planner")
	v.SetDefault("JWT_EXPIRATION", "24h")
	v.SetDefault("AUTH_CLIENTS", "")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("CORS_MAX_AGE", "10m")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("PLANNER_PASSING_GRADES", "A,B,C,CR,P")
	v.SetDefault("PLANNER_IN_PROGRESS_POLICY", "when-placed")
	v.SetDefault("PLANNER_DEFAULT_TERM", "")
	v.SetDefault("PLANNER_MAX_CATALOG_ENTRIES", 2000)
	v.SetDefault("SELECTION_SESSION_TTL", "12h")

	v.SetDefault("PLANNER_TOP_CONFLICTED", 10)
	v.SetDefault("ENABLE_COHORT_CACHE", false)
	v.SetDefault("COHORT_CACHE_TTL", "10m")

	v.SetDefault("EXPORT_TIMEZONE_LABEL", "ET")
}

func isMissingFile(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
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
