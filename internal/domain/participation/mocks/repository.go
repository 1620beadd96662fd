package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/campaign-hub/campaign-hub/internal/domain/participation"
)

// MockRepository is a mock implementation of participation.Repository
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, p *participation.Participation) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockRepository) GetByID(ctx context.Context, id uuid.UUID) (*participation.Participation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*participation.Participation), args.Error(1)
}

func (m *MockRepository) GetOpenByPhone(ctx context.Context, phone string) (*participation.Participation, error) {
	args := m.Called(ctx, phone)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*participation.Participation), args.Error(1)
}

func (m *MockRepository) List(ctx context.Context, filter participation.Filter, limit int) ([]*participation.Participation, error) {
	args := m.Called(ctx, filter, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*participation.Participation), args.Error(1)
}

func (m *MockRepository) Update(ctx context.Context, p *participation.Participation) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockRepository) UpdateStep(ctx context.Context, id uuid.UUID, step string, status participation.Status) error {
	args := m.Called(ctx, id, step, status)
	return args.Error(0)
}

func (m *MockRepository) CountForDay(ctx context.Context, dayStart, dayEnd time.Time) (int, error) {
	args := m.Called(ctx, dayStart, dayEnd)
	return args.Int(0), args.Error(1)
}

func (m *MockRepository) ExistsBySerial(ctx context.Context, serial string) (bool, error) {
	args := m.Called(ctx, serial)
	return args.Bool(0), args.Error(1)
}

func (m *MockRepository) IncrementUploadAttempts(ctx context.Context, id uuid.UUID) (int, error) {
	args := m.Called(ctx, id)
	return args.Int(0), args.Error(1)
}
