package output

import (
	"encoding/json"

	"github.com/mohiniBalmiki/taxwise/internal/domain"
)

// JSONFormatter serializes the calculation as pretty-printed JSON.
type JSONFormatter struct{}

func (j JSONFormatter) Name() string        { return "json" }
func (j JSONFormatter) ContentType() string { return "application/json" }
func (j JSONFormatter) Extension() string   { return "json" }

func (j JSONFormatter) Format(r *domain.CalculationResult) ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}
