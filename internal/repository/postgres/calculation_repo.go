package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/mohiniBalmiki/taxwise/internal/domain"
)

type calculationRepo struct {
	db *sqlx.DB
}

// NewCalculationRepo creates a new PostgreSQL-backed CalculationRepository.
func NewCalculationRepo(db *sqlx.DB) *calculationRepo {
	return &calculationRepo{db: db}
}

// calculationRow mirrors the tax_calculations table. The summary columns are
// denormalised from result for history listings and reporting queries.
type calculationRow struct {
	ID                uuid.UUID `db:"id"`
	UserID            string    `db:"user_id"`
	FinancialYear     string    `db:"financial_year"`
	GrossIncome       string    `db:"gross_income"`
	OldRegimeTax      string    `db:"old_regime_tax"`
	NewRegimeTax      string    `db:"new_regime_tax"`
	RecommendedRegime string    `db:"recommended_regime"`
	AnnualSavings     string    `db:"annual_savings"`
	Input             []byte    `db:"input"`
	Result            []byte    `db:"result"`
	CreatedAt         time.Time `db:"created_at"`
	UpdatedAt         time.Time `db:"updated_at"`
}

func toRow(calc *domain.Calculation) (*calculationRow, error) {
	input, err := json.Marshal(calc.Input)
	if err != nil {
		return nil, fmt.Errorf("marshaling input: %w", err)
	}
	result, err := json.Marshal(calc.Result)
	if err != nil {
		return nil, fmt.Errorf("marshaling result: %w", err)
	}
	return &calculationRow{
		ID:                calc.ID,
		UserID:            calc.UserID,
		FinancialYear:     calc.FinancialYear,
		GrossIncome:       calc.Input.GrossIncome.String(),
		OldRegimeTax:      calc.Result.OldRegime.TotalTax.String(),
		NewRegimeTax:      calc.Result.NewRegime.TotalTax.String(),
		RecommendedRegime: string(calc.Result.Recommendation.ChosenRegime),
		AnnualSavings:     calc.Result.Recommendation.AnnualSavings.String(),
		Input:             input,
		Result:            result,
	}, nil
}

func (row *calculationRow) toDomain() (*domain.Calculation, error) {
	calc := &domain.Calculation{
		ID:            row.ID,
		UserID:        row.UserID,
		FinancialYear: row.FinancialYear,
		CreatedAt:     row.CreatedAt,
		UpdatedAt:     row.UpdatedAt,
	}
	if err := json.Unmarshal(row.Input, &calc.Input); err != nil {
		return nil, fmt.Errorf("unmarshaling input: %w", err)
	}
	if err := json.Unmarshal(row.Result, &calc.Result); err != nil {
		return nil, fmt.Errorf("unmarshaling result: %w", err)
	}
	return calc, nil
}

func (r *calculationRepo) Upsert(ctx context.Context, calc *domain.Calculation) error {
	if calc.ID == uuid.Nil {
		calc.ID = uuid.New()
	}
	row, err := toRow(calc)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO tax_calculations (
			id, user_id, financial_year,
			gross_income, old_regime_tax, new_regime_tax, recommended_regime, annual_savings,
			input, result, created_at, updated_at
		) VALUES (
			:id, :user_id, :financial_year,
			:gross_income, :old_regime_tax, :new_regime_tax, :recommended_regime, :annual_savings,
			:input, :result, NOW(), NOW()
		)
		ON CONFLICT (user_id, financial_year) DO UPDATE SET
			gross_income = EXCLUDED.gross_income,
			old_regime_tax = EXCLUDED.old_regime_tax,
			new_regime_tax = EXCLUDED.new_regime_tax,
			recommended_regime = EXCLUDED.recommended_regime,
			annual_savings = EXCLUDED.annual_savings,
			input = EXCLUDED.input,
			result = EXCLUDED.result,
			updated_at = NOW()
		RETURNING id, created_at, updated_at`

	rows, err := r.db.NamedQueryContext(ctx, query, row)
	if err != nil {
		return fmt.Errorf("upserting tax calculation: %w", err)
	}
	defer func() { _ = rows.Close() }()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return fmt.Errorf("upserting tax calculation: %w", err)
		}
		return fmt.Errorf("upserting tax calculation: no row returned")
	}
	if err := rows.Scan(&calc.ID, &calc.CreatedAt, &calc.UpdatedAt); err != nil {
		return fmt.Errorf("scanning upserted tax calculation: %w", err)
	}
	return nil
}

func (r *calculationRepo) GetByID(ctx context.Context, userID string, id uuid.UUID) (*domain.Calculation, error) {
	var row calculationRow
	err := r.db.GetContext(ctx, &row,
		"SELECT * FROM tax_calculations WHERE id = $1 AND user_id = $2", id, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("getting tax calculation: %w", err)
	}
	return row.toDomain()
}

func (r *calculationRepo) GetByYear(ctx context.Context, userID, financialYear string) (*domain.Calculation, error) {
	var row calculationRow
	err := r.db.GetContext(ctx, &row,
		"SELECT * FROM tax_calculations WHERE user_id = $1 AND financial_year = $2", userID, financialYear)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("getting tax calculation for %s: %w", financialYear, err)
	}
	return row.toDomain()
}

func (r *calculationRepo) ListByUser(ctx context.Context, userID string, offset, limit int) ([]domain.Calculation, int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total,
		"SELECT COUNT(*) FROM tax_calculations WHERE user_id = $1", userID); err != nil {
		return nil, 0, fmt.Errorf("counting tax calculations: %w", err)
	}

	var rows []calculationRow
	err := r.db.SelectContext(ctx, &rows,
		`SELECT * FROM tax_calculations WHERE user_id = $1
		 ORDER BY updated_at DESC LIMIT $2 OFFSET $3`, userID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("listing tax calculations: %w", err)
	}

	calcs := make([]domain.Calculation, 0, len(rows))
	for i := range rows {
		calc, err := rows[i].toDomain()
		if err != nil {
			return nil, 0, fmt.Errorf("decoding tax calculation %s: %w", rows[i].ID, err)
		}
		calcs = append(calcs, *calc)
	}
	return calcs, total, nil
}
