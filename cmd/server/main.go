package main

import (
	"log"

	"github.com/theophile-senechal/unlock-app/internal/api"
	"github.com/theophile-senechal/unlock-app/internal/auth"
	"github.com/theophile-senechal/unlock-app/internal/cache"
	"github.com/theophile-senechal/unlock-app/internal/config"
	"github.com/theophile-senechal/unlock-app/internal/handler"
	"github.com/theophile-senechal/unlock-app/internal/metrics"
	"github.com/theophile-senechal/unlock-app/internal/region"
	"github.com/theophile-senechal/unlock-app/internal/repository"
	"github.com/theophile-senechal/unlock-app/internal/service"
	"github.com/theophile-senechal/unlock-app/internal/strava"
)

func main() {
	// 加载配置
	cfg := config.Load()
	metrics.RegisterDefault()

	store := buildCache(cfg)

	// 初始化空间数据库
	var attributor *region.Attributor
	if cfg.DatabaseURL != "" {
		repo, err := repository.NewRegionRepository(cfg.DatabaseURL)
		if err != nil {
			log.Printf("Region store unavailable, attribution disabled: %v", err)
		} else {
			defer repo.Close()
			attributor = region.NewAttributor(repo)
		}
	} else {
		log.Printf("No DATABASE_URL configured, region attribution disabled")
	}

	client := strava.NewClient(cfg.StravaClientID, cfg.StravaClientSecret, cfg.StravaRedirectURI)
	sessions := auth.NewManager(cfg.SessionSecret)
	territory := service.NewTerritoryService(client, attributor, store)

	// 初始化路由
	router := api.SetupRouter(cfg, sessions,
		handler.NewAuthHandler(client, sessions, territory),
		handler.NewTerritoryHandler(territory),
	)

	// 启动服务器
	log.Printf("Server starting on port %s", cfg.Port)
	if err := router.Run(cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}

func buildCache(cfg *config.Config) cache.Store {
	switch cfg.CacheBackend {
	case "redis":
		store, err := cache.NewRedis(cfg.RedisURL)
		if err != nil {
			log.Printf("Redis cache unavailable, falling back to memory: %v", err)
			return cache.NewMemory()
		}
		return store
	case "sqlite":
		store, err := cache.NewSQLite(cfg.CacheDBPath)
		if err != nil {
			log.Printf("SQLite cache unavailable, falling back to memory: %v", err)
			return cache.NewMemory()
		}
		return store
	default:
		return cache.NewMemory()
	}
}
