package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mohiniBalmiki/taxwise/internal/calculation"
	"github.com/mohiniBalmiki/taxwise/internal/domain"
	"github.com/mohiniBalmiki/taxwise/internal/service"
	"github.com/mohiniBalmiki/taxwise/mocks"
)

func lowIncome() domain.TaxInput {
	return domain.TaxInput{GrossIncome: decimal.NewFromInt(600000)}
}

func TestTaxService_Calculate_Persists(t *testing.T) {
	mockRepo := new(mocks.MockCalculationRepo)
	svc := service.NewTaxService(mockRepo, nil, nil)

	id := uuid.New()
	stamp := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	mockRepo.On("Upsert", mock.Anything, mock.MatchedBy(func(c *domain.Calculation) bool {
		return c.UserID == "user-1" && c.FinancialYear == "2023-24" &&
			c.Result.NewRegime.TotalTax.Equal(decimal.NewFromInt(13000))
	})).Run(func(args mock.Arguments) {
		c := args.Get(1).(*domain.Calculation)
		c.ID, c.CreatedAt, c.UpdatedAt = id, stamp, stamp
	}).Return(nil)

	calc, err := svc.Calculate(context.Background(), "user-1", "", lowIncome())
	require.NoError(t, err)
	assert.Equal(t, id, calc.ID)
	assert.Equal(t, domain.RegimeNew, calc.Result.Recommendation.ChosenRegime)
	mockRepo.AssertExpectations(t)
}

func TestTaxService_Calculate_ValidationErrorSkipsRepo(t *testing.T) {
	mockRepo := new(mocks.MockCalculationRepo)
	svc := service.NewTaxService(mockRepo, nil, nil)

	_, err := svc.Calculate(context.Background(), "user-1", "2023-24", domain.TaxInput{})
	ve, ok := domain.AsValidationError(err)
	require.True(t, ok)
	assert.Equal(t, domain.FieldGrossIncome, ve.Field)
	mockRepo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
}

func TestTaxService_Calculate_BadFinancialYear(t *testing.T) {
	mockRepo := new(mocks.MockCalculationRepo)
	svc := service.NewTaxService(mockRepo, nil, nil)

	_, err := svc.Calculate(context.Background(), "user-1", "2023-25", lowIncome())
	ve, ok := domain.AsValidationError(err)
	require.True(t, ok)
	assert.Equal(t, "financial_year", ve.Field)
}

func TestTaxService_Calculate_RepoError(t *testing.T) {
	mockRepo := new(mocks.MockCalculationRepo)
	svc := service.NewTaxService(mockRepo, nil, nil)
	mockRepo.On("Upsert", mock.Anything, mock.Anything).Return(errors.New("db down"))

	_, err := svc.Calculate(context.Background(), "user-1", "2023-24", lowIncome())
	assert.ErrorContains(t, err, "db down")
}

func TestTaxService_History(t *testing.T) {
	mockRepo := new(mocks.MockCalculationRepo)
	svc := service.NewTaxService(mockRepo, nil, nil)

	res, err := calculation.Calculate(lowIncome())
	require.NoError(t, err)
	stored := []domain.Calculation{{ID: uuid.New(), FinancialYear: "2023-24", Input: lowIncome(), Result: *res}}
	mockRepo.On("ListByUser", mock.Anything, "user-1", 0, 100).Return(stored, 1, nil)

	summaries, total, err := svc.History(context.Background(), "user-1", -5, 500)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, summaries, 1)
	assert.Equal(t, "13000", summaries[0].NewRegimeTax)
	assert.Equal(t, domain.RegimeNew, summaries[0].RecommendedRegime)
	mockRepo.AssertExpectations(t)
}

func TestTaxService_History_DefaultLimit(t *testing.T) {
	mockRepo := new(mocks.MockCalculationRepo)
	svc := service.NewTaxService(mockRepo, nil, nil)
	mockRepo.On("ListByUser", mock.Anything, "user-1", 0, 20).Return([]domain.Calculation{}, 0, nil)

	summaries, _, err := svc.History(context.Background(), "user-1", 0, 0)
	require.NoError(t, err)
	assert.Empty(t, summaries)
	mockRepo.AssertExpectations(t)
}

func TestTaxService_Get_NotFound(t *testing.T) {
	mockRepo := new(mocks.MockCalculationRepo)
	svc := service.NewTaxService(mockRepo, nil, nil)
	id := uuid.New()
	mockRepo.On("GetByID", mock.Anything, "user-1", id).Return(nil, domain.ErrNotFound)

	_, err := svc.Get(context.Background(), "user-1", id)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTaxService_Latest(t *testing.T) {
	mockRepo := new(mocks.MockCalculationRepo)
	svc := service.NewTaxService(mockRepo, nil, nil)

	stored := &domain.Calculation{ID: uuid.New(), FinancialYear: "2023-24"}
	mockRepo.On("GetByYear", mock.Anything, "has", "2023-24").Return(stored, nil)
	mockRepo.On("GetByYear", mock.Anything, "none", "2023-24").Return(nil, domain.ErrNotFound)
	mockRepo.On("GetByYear", mock.Anything, "broken", "2023-24").Return(nil, errors.New("timeout"))

	lookup, err := svc.Latest(context.Background(), "has", "2023-24")
	require.NoError(t, err)
	assert.True(t, lookup.Found)
	assert.Equal(t, stored, lookup.Calculation)

	lookup, err = svc.Latest(context.Background(), "none", "")
	require.NoError(t, err)
	assert.False(t, lookup.Found)
	assert.Nil(t, lookup.Calculation)

	_, err = svc.Latest(context.Background(), "broken", "2023-24")
	assert.Error(t, err)
}

func TestTaxService_SimulateAndDeductions(t *testing.T) {
	svc := service.NewTaxService(new(mocks.MockCalculationRepo), nil, nil)

	sim, err := svc.Simulate(decimal.NewFromInt(1200000), []domain.SimulationScenario{
		{Name: "Max 80C", Input: domain.TaxInput{Section80C: decimal.NewFromInt(150000)}},
	})
	require.NoError(t, err)
	assert.Len(t, sim.Scenarios, 1)

	assert.NotEmpty(t, svc.Deductions())
}

func TestSampleCalculation(t *testing.T) {
	calc, err := service.SampleCalculation(nil, "2024-25")
	require.NoError(t, err)
	assert.Equal(t, uuid.Nil, calc.ID)
	assert.Equal(t, "2024-25", calc.FinancialYear)
	assert.True(t, calc.Input.GrossIncome.Equal(decimal.NewFromInt(1200000)))
	assert.False(t, calc.Result.OldRegime.TotalTax.IsZero())

	_, err = service.SampleCalculation(nil, "bogus")
	assert.Error(t, err)
}
