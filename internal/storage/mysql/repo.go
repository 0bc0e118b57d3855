package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

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

type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

func (r *Repo) InitSchema(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, schemaSQL)
	return err
}

func (r *Repo) InsertMany(ctx context.Context, rs []domain.Restaurant) (int, error) {
	if len(rs) == 0 {
		return 0, nil
	}
	values := make([]string, 0, len(rs))
	args := make([]any, 0, len(rs)*14)
	for _, rec := range rs {
		values = append(values, "(?,?,?,?,?,?,?,?,?,?,?,?,?,?)")
		args = append(args,
			rec.Name,
			valStr(rec.Address),
			valStr(rec.URL),
			valStr(rec.Location),
			valStr(rec.ListedInCity),
			valStr(rec.Cuisines),
			valStr(rec.RestType),
			valF64(rec.Rate),
			valInt(rec.CostForTwo),
			valInt(rec.Votes),
			boolInt(rec.OnlineOrder),
			boolInt(rec.BookTable),
			valStr(rec.Phone),
			valStr(rec.DishLiked),
		)
	}
	if _, err := r.db.ExecContext(ctx, insertPrefix+strings.Join(values, ","), args...); err != nil {
		return 0, fmt.Errorf("insert restaurants: %w", err)
	}
	return len(rs), nil
}

func (r *Repo) Clear(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM restaurants`)
	if err != nil {
		return 0, fmt.Errorf("clear restaurants: %w", err)
	}
	return res.RowsAffected()
}

func (r *Repo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM restaurants`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (r *Repo) GetByID(ctx context.Context, id int64) (domain.Restaurant, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+selectCols+` FROM restaurants WHERE id = ?`, id)
	rec, err := scanRestaurant(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Restaurant{}, domain.ErrNotFound
	}
	return rec, err
}

func (r *Repo) Query(ctx context.Context, q domain.StoreQuery) ([]domain.Restaurant, error) {
	where, args := storage.BuildWhere(q)
	limit := q.Limit
	if limit <= 0 {
		limit = 100
	}
	args = append(args, limit)

	rows, err := r.db.QueryContext(ctx,
		`SELECT `+selectCols+` FROM restaurants WHERE `+where+
			` ORDER BY `+storage.OrderByRanking+` LIMIT ?`, args...)
	if err != nil {
		return nil, fmt.Errorf("query restaurants: %w", err)
	}
	defer rows.Close()

	var out []domain.Restaurant
	for rows.Next() {
		rec, err := scanRestaurant(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *Repo) DistinctLocations(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
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

func (r *Repo) DistinctCuisines(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
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
	var rec domain.Restaurant
	var addr, url, loc, city, cuis, rtype, phone, dish sql.NullString
	var rate sql.NullFloat64
	var cost, votes sql.NullInt64
	var created sql.NullTime

	if err := sc.Scan(
		&rec.ID, &rec.Name, &addr, &url, &loc, &city, &cuis, &rtype,
		&rate, &cost, &votes, &rec.OnlineOrder, &rec.BookTable, &phone, &dish, &created,
	); err != nil {
		return domain.Restaurant{}, err
	}

	if addr.Valid {
		s := addr.String
		rec.Address = &s
	}
	if url.Valid {
		s := url.String
		rec.URL = &s
	}
	if loc.Valid {
		s := loc.String
		rec.Location = &s
	}
	if city.Valid {
		s := city.String
		rec.ListedInCity = &s
	}
	if cuis.Valid {
		s := cuis.String
		rec.Cuisines = &s
	}
	if rtype.Valid {
		s := rtype.String
		rec.RestType = &s
	}
	if rate.Valid {
		f := rate.Float64
		rec.Rate = &f
	}
	if cost.Valid {
		n := int(cost.Int64)
		rec.CostForTwo = &n
	}
	if votes.Valid {
		n := int(votes.Int64)
		rec.Votes = &n
	}
	if phone.Valid {
		s := phone.String
		rec.Phone = &s
	}
	if dish.Valid {
		s := dish.String
		rec.DishLiked = &s
	}
	if created.Valid {
		rec.CreatedAt = created.Time
	}
	return rec, nil
}
