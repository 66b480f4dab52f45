package calculation

import "github.com/mohiniBalmiki/taxwise/internal/domain"

// OldRegimeSlabs returns a fresh copy of the FY 2023-24 old-regime table.
func OldRegimeSlabs() domain.SlabTable {
	return domain.DefaultTaxRules().Slabs(domain.RegimeOld)
}

// NewRegimeSlabs returns a fresh copy of the FY 2023-24 new-regime table.
func NewRegimeSlabs() domain.SlabTable {
	return domain.DefaultTaxRules().Slabs(domain.RegimeNew)
}
