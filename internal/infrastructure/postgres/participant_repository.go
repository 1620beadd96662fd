package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campaign-hub/campaign-hub/internal/domain/participant"
)

// ParticipantRepository implements participant.Repository.
type ParticipantRepository struct {
	pool *pgxpool.Pool
}

func NewParticipantRepository(pool *pgxpool.Pool) *ParticipantRepository {
	return &ParticipantRepository{pool: pool}
}

func (r *ParticipantRepository) Create(ctx context.Context, p *participant.Participant) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO participants (participant_id, phone, profile_name, name, email, terms, complete, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
	`, p.ParticipantID, p.Phone, p.ProfileName, p.Name, p.Email, p.Terms, p.Complete, p.CreatedAt, p.UpdatedAt)
	return err
}

func (r *ParticipantRepository) GetByPhone(ctx context.Context, phone string) (*participant.Participant, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, participant_id, phone, profile_name, name, email, terms, complete, created_at, updated_at
		FROM participants WHERE phone=$1
	`, phone)
	var p participant.Participant
	if err := row.Scan(&p.ID, &p.ParticipantID, &p.Phone, &p.ProfileName, &p.Name, &p.Email, &p.Terms, &p.Complete, &p.CreatedAt, &p.UpdatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	p.Submissions = map[string]int{}
	rows, err := r.pool.Query(ctx, `
		SELECT to_char(day, 'YYYY-MM-DD'), count FROM participant_submissions WHERE phone=$1
	`, phone)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var day string
		var count int
		if err := rows.Scan(&day, &count); err != nil {
			return nil, err
		}
		p.Submissions[day] = count
	}
	return &p, rows.Err()
}

func (r *ParticipantRepository) Update(ctx context.Context, p *participant.Participant) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE participants SET profile_name=$1, name=$2, email=$3, terms=$4, complete=$5, updated_at=$6
		WHERE phone=$7
	`, p.ProfileName, p.Name, p.Email, p.Terms, p.Complete, p.UpdatedAt, p.Phone)
	return err
}

func (r *ParticipantRepository) IncrementSubmission(ctx context.Context, phone, day string) (int, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO participant_submissions (phone, day, count)
		VALUES ($1, $2::date, 1)
		ON CONFLICT (phone, day) DO UPDATE SET count = participant_submissions.count + 1
		RETURNING count
	`, phone, day)
	var count int
	if err := row.Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}
