package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campaign-hub/campaign-hub/internal/domain/prize"
)

// CodeClaimer implements the dashboard accept transaction: serial number,
// code claim, and counter adjustment commit or abort together.
type CodeClaimer struct {
	pool *pgxpool.Pool
}

func NewCodeClaimer(pool *pgxpool.Pool) *CodeClaimer {
	return &CodeClaimer{pool: pool}
}

func (c *CodeClaimer) ClaimCode(ctx context.Context, participationID uuid.UUID, serial string, amount int) (*prize.Code, error) {
	tx, err := c.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	// FOR UPDATE SKIP LOCKED keeps two reviewers racing on the same
	// amount from claiming the same code.
	row := tx.QueryRow(ctx, `
		SELECT id, code_id, amount, code, link, taken, participation_id, created_at
		FROM prize_codes WHERE amount=$1 AND taken = FALSE
		LIMIT 1 FOR UPDATE SKIP LOCKED
	`, amount)
	var code prize.Code
	if err := row.Scan(&code.ID, &code.CodeID, &code.Amount, &code.Code, &code.Link, &code.Taken, &code.ParticipationID, &code.CreatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, prize.ErrNoCodeAvailable
		}
		return nil, err
	}

	if _, err := tx.Exec(ctx, `
		UPDATE participations SET serial_number=$1, updated_at=NOW() WHERE participation_id=$2
	`, serial, participationID); err != nil {
		return nil, err
	}

	if _, err := tx.Exec(ctx, `
		UPDATE prize_codes SET taken = TRUE, participation_id=$1 WHERE code_id=$2
	`, participationID, code.CodeID); err != nil {
		return nil, err
	}

	if _, err := tx.Exec(ctx, `
		UPDATE code_counters SET taken = taken + 1, available = available - 1 WHERE amount=$1
	`, amount); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	code.Taken = true
	code.ParticipationID = &participationID
	return &code, nil
}
