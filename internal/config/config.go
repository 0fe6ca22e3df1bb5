package config

import (
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Catalog   CatalogConfig
	Session   SessionConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	RateLimit RateLimitConfig
	CORS      CORSConfig
}

type ServerConfig struct {
	Port     string
	Env      string
	LogLevel string
}

// CatalogConfig describes the remote catalog REST service
type CatalogConfig struct {
	BaseURL    string
	Timeout    time.Duration
	LoginPath  string
	FetchLimit int // page size used to load the full catalog for views
}

type SessionConfig struct {
	Backend   string // memory, redis or postgres
	Profile   string
	KeyPrefix string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Database string
	Schema   string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// Enabled reports whether a Redis host was configured
func (c RedisConfig) Enabled() bool {
	return c.Host != ""
}

func (c RedisConfig) Addr() string {
	return c.Host + ":" + c.Port
}

type RateLimitConfig struct {
	Requests int
	Window   time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
}

func Load() *Config {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	// Set defaults
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("SERVER_ENV", "development")
	viper.SetDefault("CATALOG_API_BASE_URL", "https://ness-wear-backend.vercel.app")
	viper.SetDefault("CATALOG_API_TIMEOUT", "10s")
	viper.SetDefault("CATALOG_LOGIN_PATH", "/api/login")
	viper.SetDefault("CATALOG_FETCH_LIMIT", 1000)
	viper.SetDefault("SESSION_BACKEND", "memory")
	viper.SetDefault("SESSION_PROFILE", "default")
	viper.SetDefault("SESSION_KEY_PREFIX", "nesswear:session")
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_SCHEMA", "public")
	viper.SetDefault("REDIS_PORT", "6379")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("RATE_LIMIT_REQUESTS", 120)
	viper.SetDefault("RATE_LIMIT_WINDOW", "1m")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:5173")

	if err := viper.ReadInConfig(); err != nil {
		log.Printf("Warning: Could not read config file: %v", err)
	}

	return &Config{
		Server: ServerConfig{
			Port:     viper.GetString("SERVER_PORT"),
			Env:      viper.GetString("SERVER_ENV"),
			LogLevel: viper.GetString("LOG_LEVEL"),
		},
		Catalog: CatalogConfig{
			BaseURL:    strings.TrimRight(viper.GetString("CATALOG_API_BASE_URL"), "/"),
			Timeout:    viper.GetDuration("CATALOG_API_TIMEOUT"),
			LoginPath:  viper.GetString("CATALOG_LOGIN_PATH"),
			FetchLimit: viper.GetInt("CATALOG_FETCH_LIMIT"),
		},
		Session: SessionConfig{
			Backend:   strings.ToLower(viper.GetString("SESSION_BACKEND")),
			Profile:   viper.GetString("SESSION_PROFILE"),
			KeyPrefix: viper.GetString("SESSION_KEY_PREFIX"),
		},
		Database: DatabaseConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASSWORD"),
			Database: viper.GetString("DB_DATABASE"),
			Schema:   viper.GetString("DB_SCHEMA"),
		},
		Redis: RedisConfig{
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetString("REDIS_PORT"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		RateLimit: RateLimitConfig{
			Requests: viper.GetInt("RATE_LIMIT_REQUESTS"),
			Window:   viper.GetDuration("RATE_LIMIT_WINDOW"),
		},
		CORS: CORSConfig{
			AllowedOrigins: splitList(viper.GetString("CORS_ALLOWED_ORIGINS")),
		},
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
