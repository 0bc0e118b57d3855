package main

import (
	"database/sql"
	"net/http"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	"bistro_finder/internal/adapters/groq"
	httpserver "bistro_finder/internal/adapters/http_server"
	"bistro_finder/internal/adapters/memcache"
	"bistro_finder/internal/adapters/observability"
	redisad "bistro_finder/internal/adapters/redis"
	"bistro_finder/internal/app"
	"bistro_finder/internal/domain"
	"bistro_finder/internal/shared"
	mysqlstore "bistro_finder/internal/storage/mysql"
	"bistro_finder/internal/storage/sqlite"
)

func main() {
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	observability.Serve()

	store := openStore(cfg)
	cache := openCache(cfg)
	summarizer := openSummarizer(cfg)

	svc := app.NewRecommendationService(store, cache, summarizer, app.NewAnalytics(), log.Logger)

	srv := httpserver.New()
	reg := observability.InitRegistry()
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&httpserver.Handlers{Rec: svc, Store: store})

	log.Info().Str("addr", cfg.HTTPAddr).Str("store", cfg.StoreDriver).Msg("API listening")
	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux()}

	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("http server failed")
	}
}

func openStore(cfg shared.Config) domain.RestaurantStore {
	switch cfg.StoreDriver {
	case "mysql":
		db, err := sql.Open("mysql", cfg.MySQLDSN)
		if err != nil {
			log.Fatal().Err(err).Msg("sql.Open failed")
		}
		if err := db.Ping(); err != nil {
			log.Fatal().Err(err).Msg("db.Ping failed")
		}
		log.Info().Msg("mysql connection ok")
		return mysqlstore.New(db)
	case "sqlite":
		db, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			log.Fatal().Err(err).Str("path", cfg.SQLitePath).Msg("sqlite open failed")
		}
		return sqlite.New(db)
	default:
		log.Fatal().Str("driver", cfg.StoreDriver).Msg("unknown STORE_DRIVER")
		return nil
	}
}

func openCache(cfg shared.Config) domain.ResponseCache {
	switch cfg.CacheBackend {
	case "redis":
		return redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB, cfg.CacheTTL)
	case "memory":
		return memcache.New(cfg.CacheCapacity)
	default:
		log.Fatal().Str("backend", cfg.CacheBackend).Msg("unknown CACHE_BACKEND")
		return nil
	}
}

func openSummarizer(cfg shared.Config) domain.Summarizer {
	if cfg.GroqKey == "" {
		return app.NoopSummarizer{}
	}
	cl, err := groq.New(cfg.GroqBase, cfg.GroqKey, cfg.GroqModel, 2, cfg.GroqTimeout, cfg.SummaryRetries)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize Groq client")
	}
	return cl
}
