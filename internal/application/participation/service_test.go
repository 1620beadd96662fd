package participation

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/campaign-hub/campaign-hub/internal/domain/participation"
	"github.com/campaign-hub/campaign-hub/internal/domain/participation/mocks"
	"github.com/campaign-hub/campaign-hub/internal/domain/prize"
)

type stubClaimer struct {
	code *prize.Code
	err  error

	participationID uuid.UUID
	serial          string
	amount          int
	calls           int
}

func (c *stubClaimer) ClaimCode(ctx context.Context, participationID uuid.UUID, serial string, amount int) (*prize.Code, error) {
	c.calls++
	c.participationID = participationID
	c.serial = serial
	c.amount = amount
	if c.err != nil {
		return nil, c.err
	}
	return c.code, nil
}

func winner() *domain.Participation {
	p := domain.New(uuid.New(), "+5215550000001", "dashboard_waiting")
	prizeName := "500"
	p.Prize = &prizeName
	p.PriorityNumber = 5
	return p
}

func TestAcceptClaimsCodeAndSetsSerial(t *testing.T) {
	repo := new(mocks.MockRepository)
	claimer := &stubClaimer{code: &prize.Code{Amount: 500, Code: "WIN-500-001"}}
	svc := NewService(repo, claimer, zerolog.Nop())

	p := winner()
	repo.On("ExistsBySerial", context.Background(), "TKT-0001").Return(false, nil)

	err := svc.Accept(context.Background(), p, "TKT-0001")
	require.NoError(t, err)

	require.NotNil(t, p.SerialNumber)
	assert.Equal(t, "TKT-0001", *p.SerialNumber)
	assert.Equal(t, 1, claimer.calls)
	assert.Equal(t, p.ParticipationID, claimer.participationID)
	assert.Equal(t, 500, claimer.amount)
	repo.AssertExpectations(t)
}

func TestAcceptIsWriteOnce(t *testing.T) {
	repo := new(mocks.MockRepository)
	claimer := &stubClaimer{}
	svc := NewService(repo, claimer, zerolog.Nop())

	p := winner()
	existing := "TKT-0001"
	p.SerialNumber = &existing

	err := svc.Accept(context.Background(), p, "TKT-0002")
	assert.ErrorIs(t, err, domain.ErrSerialAlreadySet)
	assert.Equal(t, "TKT-0001", *p.SerialNumber)
	assert.Equal(t, 0, claimer.calls)
}

func TestAcceptRejectsDuplicateSerial(t *testing.T) {
	repo := new(mocks.MockRepository)
	claimer := &stubClaimer{}
	svc := NewService(repo, claimer, zerolog.Nop())

	p := winner()
	repo.On("ExistsBySerial", context.Background(), "TKT-0001").Return(true, nil)

	err := svc.Accept(context.Background(), p, "TKT-0001")
	assert.ErrorIs(t, err, domain.ErrDuplicateSerial)
	assert.Nil(t, p.SerialNumber)
	assert.Equal(t, 0, claimer.calls)
	repo.AssertExpectations(t)
}

func TestAcceptRequiresPrize(t *testing.T) {
	repo := new(mocks.MockRepository)
	claimer := &stubClaimer{}
	svc := NewService(repo, claimer, zerolog.Nop())

	p := winner()
	p.Prize = nil
	repo.On("ExistsBySerial", context.Background(), "TKT-0001").Return(false, nil)

	err := svc.Accept(context.Background(), p, "TKT-0001")
	assert.Error(t, err)
	assert.Nil(t, p.SerialNumber)
	assert.Equal(t, 0, claimer.calls)
}

func TestAcceptKeepsSerialUnsetWhenNoCodeLeft(t *testing.T) {
	repo := new(mocks.MockRepository)
	claimer := &stubClaimer{err: prize.ErrNoCodeAvailable}
	svc := NewService(repo, claimer, zerolog.Nop())

	p := winner()
	repo.On("ExistsBySerial", context.Background(), "TKT-0001").Return(false, nil)

	err := svc.Accept(context.Background(), p, "TKT-0001")
	assert.ErrorIs(t, err, prize.ErrNoCodeAvailable)
	assert.Nil(t, p.SerialNumber)
}

func TestGetReturnsNotFound(t *testing.T) {
	repo := new(mocks.MockRepository)
	svc := NewService(repo, &stubClaimer{}, zerolog.Nop())

	id := uuid.New()
	repo.On("GetByID", context.Background(), id).Return(nil, nil)

	_, err := svc.Get(context.Background(), id)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	repo.AssertExpectations(t)
}
