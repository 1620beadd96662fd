package participation

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	domain "github.com/campaign-hub/campaign-hub/internal/domain/participation"
	"github.com/campaign-hub/campaign-hub/internal/domain/prize"
)

// CodeClaimer atomically records the reviewer's serial number on the
// participation, claims an unclaimed redemption code for the prize amount,
// and adjusts the per-amount availability counters. All three writes are
// one transaction.
type CodeClaimer interface {
	ClaimCode(ctx context.Context, participationID uuid.UUID, serial string, amount int) (*prize.Code, error)
}

// Service handles dashboard-side participation operations.
type Service struct {
	participations domain.Repository
	claimer        CodeClaimer
	logger         zerolog.Logger
}

func NewService(participations domain.Repository, claimer CodeClaimer, logger zerolog.Logger) *Service {
	return &Service{
		participations: participations,
		claimer:        claimer,
		logger:         logger.With().Str("service", "participation").Logger(),
	}
}

// Get retrieves a participation by ID.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*domain.Participation, error) {
	p, err := s.participations.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

// List lists participations for the dashboard.
func (s *Service) List(ctx context.Context, filter domain.Filter, limit int) ([]*domain.Participation, error) {
	return s.participations.List(ctx, filter, limit)
}

// CountForDay counts non-incomplete participations created on the local
// calendar day bracketed by [dayStart, dayEnd).
func (s *Service) CountForDay(ctx context.Context, dayStart, dayEnd time.Time) (int, error) {
	return s.participations.CountForDay(ctx, dayStart, dayEnd)
}

// Accept records a reviewer-supplied serial number and claims a redemption
// code for the participation's prize amount. The serial number is
// write-once and globally unique: a second accept, or a serial already
// used elsewhere, is a domain conflict and leaves the stored value
// unchanged.
func (s *Service) Accept(ctx context.Context, p *domain.Participation, serial string) error {
	if p.SerialNumber != nil {
		return domain.ErrSerialAlreadySet
	}

	taken, err := s.participations.ExistsBySerial(ctx, serial)
	if err != nil {
		return err
	}
	if taken {
		return domain.ErrDuplicateSerial
	}

	if p.Prize == nil {
		return fmt.Errorf("participation %s has no prize to accept", p.ParticipationID)
	}
	amount, err := strconv.Atoi(*p.Prize)
	if err != nil {
		return fmt.Errorf("prize %q has no numeric amount: %w", *p.Prize, err)
	}

	code, err := s.claimer.ClaimCode(ctx, p.ParticipationID, serial, amount)
	if err != nil {
		return err
	}
	p.SerialNumber = &serial

	s.logger.Info().
		Str("participation_id", p.ParticipationID.String()).
		Int("amount", code.Amount).
		Msg("participation accepted")
	return nil
}
