package port

import (
	"context"

	"github.com/google/uuid"

	"github.com/mohiniBalmiki/taxwise/internal/domain"
)

// CalculationRepository stores one calculation per user and financial year.
type CalculationRepository interface {
	// Upsert inserts calc or replaces the stored calculation for the same
	// user and financial year. ID, CreatedAt and UpdatedAt are filled in from
	// the stored row.
	Upsert(ctx context.Context, calc *domain.Calculation) error
	GetByID(ctx context.Context, userID string, id uuid.UUID) (*domain.Calculation, error)
	GetByYear(ctx context.Context, userID, financialYear string) (*domain.Calculation, error)
	ListByUser(ctx context.Context, userID string, offset, limit int) ([]domain.Calculation, int, error)
}
