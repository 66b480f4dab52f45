package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mohiniBalmiki/taxwise/internal/calculation"
	"github.com/mohiniBalmiki/taxwise/internal/domain"
	"github.com/mohiniBalmiki/taxwise/internal/port"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
)

// CalculationLookup is the result of looking up a user's stored calculation.
// Found is false when nothing has been stored yet; Calculation is nil then.
type CalculationLookup struct {
	Calculation *domain.Calculation
	Found       bool
}

// TaxService computes tax comparisons and keeps one per user and financial year.
type TaxService interface {
	Calculate(ctx context.Context, userID, financialYear string, in domain.TaxInput) (*domain.Calculation, error)
	Simulate(gross decimal.Decimal, scenarios []domain.SimulationScenario) (*domain.SimulationResult, error)
	Optimize(in domain.TaxInput) (*domain.OptimizationReport, error)
	History(ctx context.Context, userID string, offset, limit int) ([]domain.CalculationSummary, int, error)
	Get(ctx context.Context, userID string, id uuid.UUID) (*domain.Calculation, error)
	Latest(ctx context.Context, userID, financialYear string) (CalculationLookup, error)
	Deductions() []domain.DeductionCatalogueEntry
}

type taxService struct {
	repo   port.CalculationRepository
	engine *calculation.Engine
	logger calculation.Logger
}

// NewTaxService creates a new TaxService implementation.
func NewTaxService(repo port.CalculationRepository, engine *calculation.Engine, logger calculation.Logger) TaxService {
	if engine == nil {
		engine = calculation.NewEngine()
	}
	if logger == nil {
		logger = calculation.NopLogger{}
	}
	return &taxService{repo: repo, engine: engine, logger: logger}
}

func normalizeYear(financialYear string) (string, error) {
	if financialYear == "" {
		financialYear = domain.DefaultFinancialYear
	}
	fy, err := domain.ParseFinancialYear(financialYear)
	if err != nil {
		return "", err
	}
	return fy.Label, nil
}

func (s *taxService) Calculate(ctx context.Context, userID, financialYear string, in domain.TaxInput) (*domain.Calculation, error) {
	fy, err := normalizeYear(financialYear)
	if err != nil {
		return nil, err
	}

	result, err := s.engine.Calculate(in)
	if err != nil {
		return nil, err
	}

	calc := &domain.Calculation{
		UserID:        userID,
		FinancialYear: fy,
		Input:         in,
		Result:        *result,
	}
	if err := s.repo.Upsert(ctx, calc); err != nil {
		return nil, fmt.Errorf("tax.Calculate: %w", err)
	}
	s.logger.Infof("stored calculation %s for user %s (FY %s, %s regime)", calc.ID, userID, fy, result.Recommendation.ChosenRegime)
	return calc, nil
}

func (s *taxService) Simulate(gross decimal.Decimal, scenarios []domain.SimulationScenario) (*domain.SimulationResult, error) {
	return s.engine.Simulate(gross, scenarios)
}

func (s *taxService) Optimize(in domain.TaxInput) (*domain.OptimizationReport, error) {
	return s.engine.Optimize(in)
}

func (s *taxService) History(ctx context.Context, userID string, offset, limit int) ([]domain.CalculationSummary, int, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}
	if offset < 0 {
		offset = 0
	}

	calcs, total, err := s.repo.ListByUser(ctx, userID, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("tax.History: %w", err)
	}
	summaries := make([]domain.CalculationSummary, len(calcs))
	for i := range calcs {
		summaries[i] = calcs[i].Summary()
	}
	return summaries, total, nil
}

func (s *taxService) Get(ctx context.Context, userID string, id uuid.UUID) (*domain.Calculation, error) {
	calc, err := s.repo.GetByID(ctx, userID, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("tax.Get: %w", err)
	}
	return calc, nil
}

func (s *taxService) Latest(ctx context.Context, userID, financialYear string) (CalculationLookup, error) {
	fy, err := normalizeYear(financialYear)
	if err != nil {
		return CalculationLookup{}, err
	}
	calc, err := s.repo.GetByYear(ctx, userID, fy)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return CalculationLookup{}, nil
	case err != nil:
		return CalculationLookup{}, fmt.Errorf("tax.Latest: %w", err)
	}
	return CalculationLookup{Calculation: calc, Found: true}, nil
}

func (s *taxService) Deductions() []domain.DeductionCatalogueEntry {
	return calculation.DeductionCatalogue(s.engine.Rules)
}

// SampleInput is a representative salaried taxpayer used when a user has no
// stored calculation yet.
func SampleInput() domain.TaxInput {
	return domain.TaxInput{
		GrossIncome:      decimal.NewFromInt(1200000),
		BasicSalary:      decimal.NewFromInt(720000),
		HRAReceived:      decimal.NewFromInt(300000),
		ProvidentFund:    decimal.NewFromInt(86400),
		Section80C:       decimal.NewFromInt(100000),
		Section80D:       decimal.NewFromInt(15000),
		HomeLoanInterest: decimal.Zero,
		OtherDeductions:  decimal.Zero,
	}
}

// SampleCalculation computes SampleInput for financialYear. The returned
// calculation is not persisted and has a nil ID.
func SampleCalculation(engine *calculation.Engine, financialYear string) (*domain.Calculation, error) {
	fy, err := normalizeYear(financialYear)
	if err != nil {
		return nil, err
	}
	if engine == nil {
		engine = calculation.NewEngine()
	}
	in := SampleInput()
	result, err := engine.Calculate(in)
	if err != nil {
		return nil, fmt.Errorf("sample calculation: %w", err)
	}
	return &domain.Calculation{FinancialYear: fy, Input: in, Result: *result}, nil
}
