package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/mohiniBalmiki/taxwise/internal/domain"
	"github.com/mohiniBalmiki/taxwise/internal/service"
)

type MockTaxService struct {
	mock.Mock
}

func (m *MockTaxService) Calculate(ctx context.Context, userID, financialYear string, in domain.TaxInput) (*domain.Calculation, error) {
	args := m.Called(ctx, userID, financialYear, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Calculation), args.Error(1)
}

func (m *MockTaxService) Simulate(gross decimal.Decimal, scenarios []domain.SimulationScenario) (*domain.SimulationResult, error) {
	args := m.Called(gross, scenarios)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SimulationResult), args.Error(1)
}

func (m *MockTaxService) Optimize(in domain.TaxInput) (*domain.OptimizationReport, error) {
	args := m.Called(in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.OptimizationReport), args.Error(1)
}

func (m *MockTaxService) History(ctx context.Context, userID string, offset, limit int) ([]domain.CalculationSummary, int, error) {
	args := m.Called(ctx, userID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.CalculationSummary), args.Int(1), args.Error(2)
}

func (m *MockTaxService) Get(ctx context.Context, userID string, id uuid.UUID) (*domain.Calculation, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Calculation), args.Error(1)
}

func (m *MockTaxService) Latest(ctx context.Context, userID, financialYear string) (service.CalculationLookup, error) {
	args := m.Called(ctx, userID, financialYear)
	return args.Get(0).(service.CalculationLookup), args.Error(1)
}

func (m *MockTaxService) Deductions() []domain.DeductionCatalogueEntry {
	args := m.Called()
	return args.Get(0).([]domain.DeductionCatalogueEntry)
}
