package prize

import (
	"context"

	"github.com/google/uuid"
)

// SlotRepository defines prize slot persistence.
type SlotRepository interface {
	Create(ctx context.Context, s *Slot) error
	Get(ctx context.Context, day string, number int) (*Slot, error)
	ListByDay(ctx context.Context, day string) ([]*Slot, error)
}

// CodeRepository defines redemption code persistence.
type CodeRepository interface {
	Create(ctx context.Context, c *Code) error
	GetByParticipation(ctx context.Context, participationID uuid.UUID) (*Code, error)
	Counters(ctx context.Context) ([]*CodeCounter, error)
}
