package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campaign-hub/campaign-hub/internal/domain/prize"
)

// SlotRepository implements prize.SlotRepository.
type SlotRepository struct {
	pool *pgxpool.Pool
}

func NewSlotRepository(pool *pgxpool.Pool) *SlotRepository {
	return &SlotRepository{pool: pool}
}

func (r *SlotRepository) Create(ctx context.Context, s *prize.Slot) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO prize_slots (day, number, prize, taken)
		VALUES ($1::date,$2,$3,$4)
		ON CONFLICT (day, number) DO NOTHING
	`, s.Day, s.Number, s.Prize, s.Taken)
	return err
}

func (r *SlotRepository) Get(ctx context.Context, day string, number int) (*prize.Slot, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT to_char(day, 'YYYY-MM-DD'), number, prize, taken
		FROM prize_slots WHERE day=$1::date AND number=$2
	`, day, number)
	var s prize.Slot
	if err := row.Scan(&s.Day, &s.Number, &s.Prize, &s.Taken); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

func (r *SlotRepository) ListByDay(ctx context.Context, day string) ([]*prize.Slot, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT to_char(day, 'YYYY-MM-DD'), number, prize, taken
		FROM prize_slots WHERE day=$1::date ORDER BY number ASC
	`, day)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*prize.Slot
	for rows.Next() {
		var s prize.Slot
		if err := rows.Scan(&s.Day, &s.Number, &s.Prize, &s.Taken); err != nil {
			return nil, err
		}
		out = append(out, &s)
	}
	return out, rows.Err()
}

// CodeRepository implements prize.CodeRepository.
type CodeRepository struct {
	pool *pgxpool.Pool
}

func NewCodeRepository(pool *pgxpool.Pool) *CodeRepository {
	return &CodeRepository{pool: pool}
}

func (r *CodeRepository) Create(ctx context.Context, c *prize.Code) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO prize_codes (code_id, amount, code, link, taken, participation_id, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
	`, c.CodeID, c.Amount, c.Code, c.Link, c.Taken, c.ParticipationID, c.CreatedAt)
	if err != nil {
		return err
	}
	_, err = r.pool.Exec(ctx, `
		INSERT INTO code_counters (amount, available, taken) VALUES ($1, 1, 0)
		ON CONFLICT (amount) DO UPDATE SET available = code_counters.available + 1
	`, c.Amount)
	return err
}

func (r *CodeRepository) GetByParticipation(ctx context.Context, participationID uuid.UUID) (*prize.Code, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, code_id, amount, code, link, taken, participation_id, created_at
		FROM prize_codes WHERE participation_id=$1
	`, participationID)
	var c prize.Code
	if err := row.Scan(&c.ID, &c.CodeID, &c.Amount, &c.Code, &c.Link, &c.Taken, &c.ParticipationID, &c.CreatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (r *CodeRepository) Counters(ctx context.Context) ([]*prize.CodeCounter, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT amount, available, taken FROM code_counters ORDER BY amount ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*prize.CodeCounter
	for rows.Next() {
		var c prize.CodeCounter
		if err := rows.Scan(&c.Amount, &c.Available, &c.Taken); err != nil {
			return nil, err
		}
		out = append(out, &c)
	}
	return out, rows.Err()
}
