package main

import (
	"context"
	"database/sql"
	"flag"
	"sync"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"bistro_finder/internal/adapters/dataset"
	"bistro_finder/internal/adapters/observability"
	"bistro_finder/internal/app"
	"bistro_finder/internal/domain"
	"bistro_finder/internal/shared"
	mysqlstore "bistro_finder/internal/storage/mysql"
	"bistro_finder/internal/storage/sqlite"
)

func main() {
	var (
		clear      = flag.Bool("clear", false, "remove existing records before loading")
		dedupeKeys stringsFlag
	)
	flag.Var(&dedupeKeys, "dedupe-key", "field used to identify duplicate rows (repeatable, default name+address)")
	flag.Parse()

	ctx := context.Background()
	cfg := shared.Load()

	log.Logger = observability.NewLogger(cfg.AppEnv)

	log.Info().
		Str("csv", cfg.DatasetCSV).
		Str("store", cfg.StoreDriver).
		Int("workers", cfg.Workers).
		Int("batch", cfg.IngestBatch).
		Msg("ingestor starting")

	store := openStore(cfg)

	rows, err := dataset.Load(cfg.DatasetCSV)
	if err != nil {
		log.Fatal().Err(err).Msg("dataset load failed")
	}
	log.Info().Int("rows", len(rows)).Msg("dataset loaded")

	restaurants := app.NormalizeAll(rows, dedupeKeys)

	if err := store.InitSchema(ctx); err != nil {
		log.Fatal().Err(err).Msg("schema init failed")
	}
	if *clear {
		removed, err := store.Clear(ctx)
		if err != nil {
			log.Fatal().Err(err).Msg("clear failed")
		}
		log.Info().Int64("removed", removed).Msg("existing records cleared")
	}

	inserted := insertBatches(ctx, store, restaurants, cfg.Workers, cfg.IngestBatch)

	total, err := store.Count(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("count failed")
	}
	log.Info().Int("inserted", inserted).Int("total", total).Msg("ingestion completed")
}

// insertBatches writes the normalized records in fixed-size batches with
// at most workers concurrent inserts.
func insertBatches(ctx context.Context, store domain.RestaurantStore, rs []domain.Restaurant, workers, batch int) int {
	if workers <= 0 {
		workers = 1
	}
	if batch <= 0 {
		batch = 500
	}

	sem := semaphore.NewWeighted(int64(workers))
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		inserted int
	)

	for start := 0; start < len(rs); start += batch {
		end := start + batch
		if end > len(rs) {
			end = len(rs)
		}
		chunk := rs[start:end]

		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			log.Fatal().Err(err).Msg("semaphore acquire failed")
		}

		wg.Add(1)
		go func(chunk []domain.Restaurant, first int) {
			defer wg.Done()
			defer sem.Release(1)

			n, err := store.InsertMany(ctx, chunk)
			if err != nil {
				log.Warn().Int("first_row", first).Err(err).Msg("batch insert failed")
				return
			}
			mu.Lock()
			inserted += n
			mu.Unlock()
		}(chunk, start)
	}

	wg.Wait()
	return inserted
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

type stringsFlag []string

func (s *stringsFlag) String() string { return "" }
func (s *stringsFlag) Set(v string) error {
	*s = append(*s, v)
	return nil
}
