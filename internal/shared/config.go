package shared

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv      string
	HTTPAddr    string
	MetricsAddr string

	StoreDriver string // mysql|sqlite
	MySQLDSN    string
	SQLitePath  string

	CacheBackend  string // memory|redis
	CacheCapacity int
	CacheTTL      time.Duration
	RedisAddr     string
	RedisPass     string
	RedisDB       int

	GroqBase       string
	GroqKey        string
	GroqModel      string
	GroqTimeout    time.Duration
	SummaryRetries int

	Workers     int
	IngestBatch int
	DatasetCSV  string
	TopN        int
}

func Load() Config {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
		}
		return def
	}
	c := Config{
		AppEnv:      env("APP_ENV", "prod"),
		HTTPAddr:    env("HTTP_ADDR", ":8080"),
		MetricsAddr: env("METRICS_ADDR", ":9100"),

		StoreDriver: env("STORE_DRIVER", "sqlite"),
		MySQLDSN:    env("MYSQL_DSN", "root:root@tcp(localhost:3306)/bistro?parseTime=true&charset=utf8mb4,utf8&loc=UTC"),
		SQLitePath:  env("SQLITE_PATH", "data/bistro.db"),

		CacheBackend:  env("CACHE_BACKEND", "memory"),
		CacheCapacity: atoi("CACHE_CAPACITY", 256),
		CacheTTL:      time.Duration(atoi("CACHE_TTL_SECONDS", 900)) * time.Second,
		RedisAddr:     env("REDIS_ADDR", "localhost:6379"),
		RedisPass:     env("REDIS_PASSWORD", ""),
		RedisDB:       atoi("REDIS_DB", 0),

		GroqBase:       env("GROQ_BASE_URL", ""),
		GroqKey:        env("GROQ_API_KEY", ""),
		GroqModel:      env("GROQ_MODEL", ""),
		GroqTimeout:    time.Duration(atoi("GROQ_TIMEOUT_SECONDS", 30)) * time.Second,
		SummaryRetries: atoi("SUMMARY_RETRIES", 2),

		Workers:     atoi("INGEST_WORKERS", 4),
		IngestBatch: atoi("INGEST_BATCH", 500),
		DatasetCSV:  env("DATASET_CSV", "data/zomato.csv"),
		TopN:        atoi("TOP_N", 5),
	}
	if c.GroqKey == "" {
		log.Warn().Msg("GROQ_API_KEY is empty, summaries disabled")
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
