package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"bistro_finder/internal/domain"
	"bistro_finder/internal/storage"
)

func valStr(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}
func valInt(p *int) any {
	if p == nil {
		return nil
	}
	return *p
}
func valF64(p *float64) any {
	if p == nil {
		return nil
	}
	return *p
}
func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

type Store struct{ db *sql.DB }

func New(db *sql.DB) *Store { return &Store{db: db} }

// Open opens a SQLite database at path, creating the parent directory if
// needed. WAL keeps concurrent request-path reads from blocking each
// other.
func Open(path string) (*sql.DB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("ensure data dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.Exec(`PRAGMA journal_mode = WAL;`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("pragma journal_mode: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	return db, nil
}

func (s *Store) InitSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, schemaSQL)
	return err
}

// SQLite caps bound parameters per statement; 60 rows of 14 columns
// stays well under the default limit.
const insertChunk = 60

func (s *Store) InsertMany(ctx context.Context, rs []domain.Restaurant) (int, error) {
	total := 0
	for start := 0; start < len(rs); start += insertChunk {
		end := start + insertChunk
		if end > len(rs) {
			end = len(rs)
		}
		batch := rs[start:end]

		values := make([]string, 0, len(batch))
		args := make([]any, 0, len(batch)*14)
		for _, r := range batch {
			values = append(values, "(?,?,?,?,?,?,?,?,?,?,?,?,?,?)")
			args = append(args,
				r.Name,
				valStr(r.Address),
				valStr(r.URL),
				valStr(r.Location),
				valStr(r.ListedInCity),
				valStr(r.Cuisines),
				valStr(r.RestType),
				valF64(r.Rate),
				valInt(r.CostForTwo),
				valInt(r.Votes),
				boolInt(r.OnlineOrder),
				boolInt(r.BookTable),
				valStr(r.Phone),
				valStr(r.DishLiked),
			)
		}
		if _, err := s.db.ExecContext(ctx, insertPrefix+strings.Join(values, ","), args...); err != nil {
			return total, fmt.Errorf("insert restaurants: %w", err)
		}
		total += len(batch)
	}
	return total, nil
}

func (s *Store) Clear(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM restaurants`)
	if err != nil {
		return 0, fmt.Errorf("clear restaurants: %w", err)
	}
	return res.RowsAffected()
}

func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM restaurants`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (s *Store) GetByID(ctx context.Context, id int64) (domain.Restaurant, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+selectCols+` FROM restaurants WHERE id = ?`, id)
	r, err := scanRestaurant(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Restaurant{}, domain.ErrNotFound
	}
	return r, err
}

func (s *Store) Query(ctx context.Context, q domain.StoreQuery) ([]domain.Restaurant, error) {
	where, args := storage.BuildWhere(q)
	limit := q.Limit
	if limit <= 0 {
		limit = 100
	}
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+selectCols+` FROM restaurants WHERE `+where+
			` ORDER BY `+storage.OrderByRanking+` LIMIT ?`, args...)
	if err != nil {
		return nil, fmt.Errorf("query restaurants: %w", err)
	}
	defer rows.Close()

	var out []domain.Restaurant
	for rows.Next() {
		r, err := scanRestaurant(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *Store) DistinctLocations(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT DISTINCT location FROM restaurants
		 WHERE location IS NOT NULL AND TRIM(location) != ''
		 ORDER BY location`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var loc string
		if err := rows.Scan(&loc); err != nil {
			return nil, err
		}
		out = append(out, loc)
	}
	return out, rows.Err()
}

func (s *Store) DistinctCuisines(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT cuisines FROM restaurants
		 WHERE cuisines IS NOT NULL AND TRIM(cuisines) != ''`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var raw []string
	for rows.Next() {
		var cs string
		if err := rows.Scan(&cs); err != nil {
			return nil, err
		}
		raw = append(raw, cs)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return storage.SplitCuisines(raw), nil
}

type scanner interface{ Scan(dest ...any) error }

func scanRestaurant(sc scanner) (domain.Restaurant, error) {
	var r domain.Restaurant
	var addr, url, loc, city, cuis, rtype, phone, dish sql.NullString
	var rate sql.NullFloat64
	var cost, votes sql.NullInt64
	var created sql.NullTime

	if err := sc.Scan(
		&r.ID, &r.Name, &addr, &url, &loc, &city, &cuis, &rtype,
		&rate, &cost, &votes, &r.OnlineOrder, &r.BookTable, &phone, &dish, &created,
	); err != nil {
		return domain.Restaurant{}, err
	}

	if addr.Valid {
		s := addr.String
		r.Address = &s
	}
	if url.Valid {
		s := url.String
		r.URL = &s
	}
	if loc.Valid {
		s := loc.String
		r.Location = &s
	}
	if city.Valid {
		s := city.String
		r.ListedInCity = &s
	}
	if cuis.Valid {
		s := cuis.String
		r.Cuisines = &s
	}
	if rtype.Valid {
		s := rtype.String
		r.RestType = &s
	}
	if rate.Valid {
		f := rate.Float64
		r.Rate = &f
	}
	if cost.Valid {
		n := int(cost.Int64)
		r.CostForTwo = &n
	}
	if votes.Valid {
		n := int(votes.Int64)
		r.Votes = &n
	}
	if phone.Valid {
		s := phone.String
		r.Phone = &s
	}
	if dish.Valid {
		s := dish.String
		r.DishLiked = &s
	}
	if created.Valid {
		r.CreatedAt = created.Time
	}
	return r, nil
}
