package config

import (
	"os"
	"strconv"
	"time"
)

// Config 应用配置
type Config struct {
	Port          string
	SessionSecret string

	// Activity provider OAuth
	StravaClientID     string
	StravaClientSecret string
	StravaRedirectURI  string

	// Spatial store (PostGIS). Empty disables region attribution.
	DatabaseURL string

	// Result cache backend: memory, redis or sqlite
	CacheBackend string
	RedisURL     string
	CacheDBPath  string

	RateLimit  int
	RateWindow time.Duration
}

// Load 加载配置
func Load() *Config {
	port := os.Getenv("PORT")
	if port == "" {
		port = ":8080"
	}

	secret := os.Getenv("SESSION_SECRET")
	if secret == "" {
		secret = "dev_secret_key_123"
	}

	redirect := os.Getenv("STRAVA_REDIRECT_URI")
	if redirect == "" {
		redirect = "http://localhost:8080/callback"
	}

	backend := os.Getenv("CACHE_BACKEND")
	if backend == "" {
		backend = "memory"
	}

	cachePath := os.Getenv("CACHE_DB_PATH")
	if cachePath == "" {
		cachePath = "./data/cache.db"
	}

	rateLimit := 30
	if v, err := strconv.Atoi(os.Getenv("RATE_LIMIT")); err == nil && v > 0 {
		rateLimit = v
	}

	return &Config{
		Port:               port,
		SessionSecret:      secret,
		StravaClientID:     os.Getenv("STRAVA_CLIENT_ID"),
		StravaClientSecret: os.Getenv("STRAVA_CLIENT_SECRET"),
		StravaRedirectURI:  redirect,
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		CacheBackend:       backend,
		RedisURL:           os.Getenv("REDIS_URL"),
		CacheDBPath:        cachePath,
		RateLimit:          rateLimit,
		RateWindow:         time.Minute,
	}
}
