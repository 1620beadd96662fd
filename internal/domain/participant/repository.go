package participant

import "context"

// Repository defines participant persistence.
type Repository interface {
	Create(ctx context.Context, p *Participant) error
	GetByPhone(ctx context.Context, phone string) (*Participant, error)
	Update(ctx context.Context, p *Participant) error
	// IncrementSubmission atomically bumps the accepted-submission count
	// for (participant, day) and returns the new count.
	IncrementSubmission(ctx context.Context, phone, day string) (int, error)
}
