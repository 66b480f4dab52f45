package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/mohiniBalmiki/taxwise/internal/domain"
)

type MockCalculationRepo struct {
	mock.Mock
}

func (m *MockCalculationRepo) Upsert(ctx context.Context, calc *domain.Calculation) error {
	args := m.Called(ctx, calc)
	return args.Error(0)
}

func (m *MockCalculationRepo) GetByID(ctx context.Context, userID string, id uuid.UUID) (*domain.Calculation, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Calculation), args.Error(1)
}

func (m *MockCalculationRepo) GetByYear(ctx context.Context, userID, financialYear string) (*domain.Calculation, error) {
	args := m.Called(ctx, userID, financialYear)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Calculation), args.Error(1)
}

func (m *MockCalculationRepo) ListByUser(ctx context.Context, userID string, offset, limit int) ([]domain.Calculation, int, error) {
	args := m.Called(ctx, userID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.Calculation), args.Int(1), args.Error(2)
}
