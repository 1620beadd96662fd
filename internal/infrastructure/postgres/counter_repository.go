package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campaign-hub/campaign-hub/internal/domain/counter"
)

// CounterRepository implements counter.Repository. Increments happen only
// inside the allocator transaction; this read surface backs the dashboard.
type CounterRepository struct {
	pool *pgxpool.Pool
}

func NewCounterRepository(pool *pgxpool.Pool) *CounterRepository {
	return &CounterRepository{pool: pool}
}

func (r *CounterRepository) Get(ctx context.Context, day string) (*counter.DailyCounter, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT to_char(day, 'YYYY-MM-DD'), value FROM daily_counters WHERE day=$1::date
	`, day)
	var c counter.DailyCounter
	if err := row.Scan(&c.Day, &c.Value); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}
