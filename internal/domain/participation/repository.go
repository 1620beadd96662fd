package participation

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Filter controls participation listing.
type Filter struct {
	Day    *time.Time
	Phone  *string
	Status *Status
}

// Repository defines participation persistence.
type Repository interface {
	Create(ctx context.Context, p *Participation) error
	GetByID(ctx context.Context, id uuid.UUID) (*Participation, error)
	// GetOpenByPhone returns the latest non-terminal, non-complete
	// participation for a phone, or nil.
	GetOpenByPhone(ctx context.Context, phone string) (*Participation, error)
	List(ctx context.Context, filter Filter, limit int) ([]*Participation, error)
	Update(ctx context.Context, p *Participation) error
	UpdateStep(ctx context.Context, id uuid.UUID, step string, status Status) error
	// CountForDay counts participations created on the given day whose
	// status is not INCOMPLETE.
	CountForDay(ctx context.Context, dayStart, dayEnd time.Time) (int, error)
	// ExistsBySerial reports whether any participation already carries the
	// serial number.
	ExistsBySerial(ctx context.Context, serial string) (bool, error)
	// IncrementUploadAttempts atomically bumps the failed-upload counter
	// and returns the new value.
	IncrementUploadAttempts(ctx context.Context, id uuid.UUID) (int, error)
}
