package postgres

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campaign-hub/campaign-hub/internal/domain/participation"
)

const participationColumns = `id, participation_id, participant_id, phone, status, step, photo_url, ticket_attempts, priority_number, prize, serial_number, rejection_reason, created_at, updated_at`

// ParticipationRepository implements participation.Repository.
type ParticipationRepository struct {
	pool *pgxpool.Pool
}

func NewParticipationRepository(pool *pgxpool.Pool) *ParticipationRepository {
	return &ParticipationRepository{pool: pool}
}

func (r *ParticipationRepository) Create(ctx context.Context, p *participation.Participation) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO participations (participation_id, participant_id, phone, status, step, photo_url, ticket_attempts, priority_number, prize, serial_number, rejection_reason, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
	`, p.ParticipationID, p.ParticipantID, p.Phone, p.Status, p.Step, p.PhotoURL, p.TicketAttempts, p.PriorityNumber, p.Prize, p.SerialNumber, p.RejectionReason, p.CreatedAt, p.UpdatedAt)
	return err
}

func (r *ParticipationRepository) GetByID(ctx context.Context, id uuid.UUID) (*participation.Participation, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+participationColumns+` FROM participations WHERE participation_id=$1
	`, id)
	return scanParticipation(row)
}

func (r *ParticipationRepository) GetOpenByPhone(ctx context.Context, phone string) (*participation.Participation, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+participationColumns+` FROM participations
		WHERE phone=$1 AND status IN ($2, $3)
		ORDER BY created_at DESC LIMIT 1
	`, phone, participation.StatusIncomplete, participation.StatusPending)
	return scanParticipation(row)
}

func (r *ParticipationRepository) List(ctx context.Context, filter participation.Filter, limit int) ([]*participation.Participation, error) {
	query := `SELECT ` + participationColumns + ` FROM participations WHERE 1=1`
	args := []interface{}{}
	if filter.Day != nil {
		query += ` AND created_at >= $` + strconv.Itoa(len(args)+1)
		args = append(args, *filter.Day)
		query += ` AND created_at < $` + strconv.Itoa(len(args)+1)
		args = append(args, filter.Day.AddDate(0, 0, 1))
	}
	if filter.Phone != nil {
		query += ` AND phone=$` + strconv.Itoa(len(args)+1)
		args = append(args, *filter.Phone)
	}
	if filter.Status != nil {
		query += ` AND status=$` + strconv.Itoa(len(args)+1)
		args = append(args, *filter.Status)
	}
	query += ` ORDER BY created_at DESC`
	if limit > 0 {
		query += ` LIMIT $` + strconv.Itoa(len(args)+1)
		args = append(args, limit)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*participation.Participation
	for rows.Next() {
		p, err := scanParticipation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *ParticipationRepository) Update(ctx context.Context, p *participation.Participation) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE participations
		SET status=$1, step=$2, photo_url=$3, ticket_attempts=$4, priority_number=$5, prize=$6, serial_number=$7, rejection_reason=$8, updated_at=$9
		WHERE participation_id=$10
	`, p.Status, p.Step, p.PhotoURL, p.TicketAttempts, p.PriorityNumber, p.Prize, p.SerialNumber, p.RejectionReason, p.UpdatedAt, p.ParticipationID)
	return err
}

func (r *ParticipationRepository) UpdateStep(ctx context.Context, id uuid.UUID, step string, status participation.Status) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE participations SET step=$1, status=$2, updated_at=NOW() WHERE participation_id=$3
	`, step, status, id)
	return err
}

func (r *ParticipationRepository) CountForDay(ctx context.Context, dayStart, dayEnd time.Time) (int, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM participations
		WHERE created_at >= $1 AND created_at < $2 AND status <> $3
	`, dayStart, dayEnd, participation.StatusIncomplete)
	var count int
	if err := row.Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *ParticipationRepository) ExistsBySerial(ctx context.Context, serial string) (bool, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM participations WHERE serial_number=$1)
	`, serial)
	var exists bool
	if err := row.Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *ParticipationRepository) IncrementUploadAttempts(ctx context.Context, id uuid.UUID) (int, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE participations SET ticket_attempts = ticket_attempts + 1, updated_at=NOW()
		WHERE participation_id=$1
		RETURNING ticket_attempts
	`, id)
	var attempts int
	if err := row.Scan(&attempts); err != nil {
		return 0, err
	}
	return attempts, nil
}

func scanParticipation(row pgx.Row) (*participation.Participation, error) {
	var p participation.Participation
	if err := row.Scan(&p.ID, &p.ParticipationID, &p.ParticipantID, &p.Phone, &p.Status, &p.Step, &p.PhotoURL, &p.TicketAttempts, &p.PriorityNumber, &p.Prize, &p.SerialNumber, &p.RejectionReason, &p.CreatedAt, &p.UpdatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}
