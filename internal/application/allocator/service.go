package allocator

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/campaign-hub/campaign-hub/internal/domain/participation"
)

// Ops are the storage operations available inside one allocation
// transaction.
type Ops interface {
	// IncrementCounter bumps the daily cursor, creating it at 1 when the
	// day has no counter yet, and returns the minted value.
	IncrementCounter(ctx context.Context, day string) (int, error)
	// ClaimSlot conditionally marks the (day, number) slot taken and
	// returns its prize descriptor. Returns nil when no unclaimed slot
	// matches; that is not an error.
	ClaimSlot(ctx context.Context, day string, number int) (*string, error)
	// CompleteParticipation writes the minted number, the prize if any,
	// and status COMPLETE onto the participation.
	CompleteParticipation(ctx context.Context, id uuid.UUID, number int, prizeName *string) error
}

// Store runs allocation operations inside a single atomic transaction.
// Nothing is applied unless fn returns nil.
type Store interface {
	InTx(ctx context.Context, fn func(ops Ops) error) error
}

// Service assigns daily-unique priority numbers and matches them against
// the prize slot pool. The counter increment is the only mint source for
// priority numbers, so uniqueness and per-day monotonicity hold under any
// number of concurrent callers.
type Service struct {
	store  Store
	loc    *time.Location
	logger zerolog.Logger
}

func NewService(store Store, loc *time.Location, logger zerolog.Logger) *Service {
	return &Service{
		store:  store,
		loc:    loc,
		logger: logger.With().Str("service", "allocator").Logger(),
	}
}

// Assign mints the next priority number for the participation's creation
// day, attempts to claim the matching prize slot, and completes the
// participation. Returns true iff a prize slot was claimed; false is the
// common "no prize this time" outcome, not an error. Any failure aborts
// the whole transaction: no partial numbering or claim survives.
func (s *Service) Assign(ctx context.Context, p *participation.Participation) (bool, error) {
	day := p.Day(s.loc)

	var number int
	var prizeName *string
	err := s.store.InTx(ctx, func(ops Ops) error {
		n, err := ops.IncrementCounter(ctx, day)
		if err != nil {
			return err
		}
		number = n

		prizeName, err = ops.ClaimSlot(ctx, day, n)
		if err != nil {
			return err
		}

		return ops.CompleteParticipation(ctx, p.ParticipationID, n, prizeName)
	})
	if err != nil {
		return false, err
	}

	p.PriorityNumber = number
	p.Prize = prizeName
	p.SetStatus(participation.StatusComplete)

	s.logger.Info().
		Str("participation_id", p.ParticipationID.String()).
		Str("day", day).
		Int("priority_number", number).
		Bool("prize", prizeName != nil).
		Msg("priority number assigned")

	return prizeName != nil, nil
}
