package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campaign-hub/campaign-hub/internal/application/allocator"
	"github.com/campaign-hub/campaign-hub/internal/domain/participation"
)

// AllocatorStore implements allocator.Store on a single pgx transaction,
// so counter increment, slot claim, and participation completion commit or
// abort together.
type AllocatorStore struct {
	pool *pgxpool.Pool
}

func NewAllocatorStore(pool *pgxpool.Pool) *AllocatorStore {
	return &AllocatorStore{pool: pool}
}

func (s *AllocatorStore) InTx(ctx context.Context, fn func(ops allocator.Ops) error) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := fn(&allocatorOps{tx: tx}); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

type allocatorOps struct {
	tx pgx.Tx
}

func (o *allocatorOps) IncrementCounter(ctx context.Context, day string) (int, error) {
	row := o.tx.QueryRow(ctx, `
		INSERT INTO daily_counters (day, value) VALUES ($1::date, 1)
		ON CONFLICT (day) DO UPDATE SET value = daily_counters.value + 1
		RETURNING value
	`, day)
	var value int
	if err := row.Scan(&value); err != nil {
		return 0, err
	}
	return value, nil
}

func (o *allocatorOps) ClaimSlot(ctx context.Context, day string, number int) (*string, error) {
	row := o.tx.QueryRow(ctx, `
		UPDATE prize_slots SET taken = TRUE
		WHERE day=$1::date AND number=$2 AND taken = FALSE
		RETURNING prize
	`, day, number)
	var prizeName string
	if err := row.Scan(&prizeName); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &prizeName, nil
}

func (o *allocatorOps) CompleteParticipation(ctx context.Context, id uuid.UUID, number int, prizeName *string) error {
	_, err := o.tx.Exec(ctx, `
		UPDATE participations SET priority_number=$1, prize=$2, status=$3, updated_at=NOW()
		WHERE participation_id=$4
	`, number, prizeName, participation.StatusComplete, id)
	return err
}
