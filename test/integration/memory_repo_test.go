package integration

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mohiniBalmiki/taxwise/internal/domain"
)

// memoryRepo is an in-process port.CalculationRepository with the same
// one-row-per-user-and-year semantics as the postgres repository.
type memoryRepo struct {
	mu   sync.Mutex
	rows map[uuid.UUID]domain.Calculation
	now  func() time.Time
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{rows: make(map[uuid.UUID]domain.Calculation), now: time.Now}
}

func (r *memoryRepo) Upsert(_ context.Context, calc *domain.Calculation) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now().UTC()
	for id, row := range r.rows {
		if row.UserID == calc.UserID && row.FinancialYear == calc.FinancialYear {
			calc.ID, calc.CreatedAt, calc.UpdatedAt = id, row.CreatedAt, now
			r.rows[id] = *calc
			return nil
		}
	}
	calc.ID, calc.CreatedAt, calc.UpdatedAt = uuid.New(), now, now
	r.rows[calc.ID] = *calc
	return nil
}

func (r *memoryRepo) GetByID(_ context.Context, userID string, id uuid.UUID) (*domain.Calculation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	row, ok := r.rows[id]
	if !ok || row.UserID != userID {
		return nil, domain.ErrNotFound
	}
	return &row, nil
}

func (r *memoryRepo) GetByYear(_ context.Context, userID, financialYear string) (*domain.Calculation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, row := range r.rows {
		if row.UserID == userID && row.FinancialYear == financialYear {
			row := row
			return &row, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *memoryRepo) ListByUser(_ context.Context, userID string, offset, limit int) ([]domain.Calculation, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var all []domain.Calculation
	for _, row := range r.rows {
		if row.UserID == userID {
			all = append(all, row)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].UpdatedAt.After(all[j].UpdatedAt) })

	total := len(all)
	if offset >= total {
		return []domain.Calculation{}, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return all[offset:end], total, nil
}
