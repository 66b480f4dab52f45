package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mohiniBalmiki/taxwise/internal/categorize"
	"github.com/mohiniBalmiki/taxwise/internal/domain"
	"github.com/mohiniBalmiki/taxwise/internal/insight"
	"github.com/mohiniBalmiki/taxwise/internal/output"
	"github.com/mohiniBalmiki/taxwise/internal/service"
)

// InsightProvider produces advice for a calculation.
type InsightProvider interface {
	ForCalculation(ctx context.Context, calc *domain.Calculation) insight.InsightSet
}

// SampleFunc builds the placeholder calculation shown to users with no history.
type SampleFunc func(financialYear string) (*domain.Calculation, error)

// TaxHandler handles the tax calculation endpoints.
type TaxHandler struct {
	svc      service.TaxService
	insights InsightProvider
	sample   SampleFunc
}

// NewTaxHandler creates a new TaxHandler.
func NewTaxHandler(svc service.TaxService, insights InsightProvider, sample SampleFunc) *TaxHandler {
	if sample == nil {
		sample = func(fy string) (*domain.Calculation, error) { return service.SampleCalculation(nil, fy) }
	}
	return &TaxHandler{svc: svc, insights: insights, sample: sample}
}

// InsightsResponse wraps an insight set and says whether it was built from
// sample data.
type InsightsResponse struct {
	insight.InsightSet
	Sample bool `json:"sample"`
}

// Deductions handles GET /api/v1/tax/deductions
func (h *TaxHandler) Deductions(c *gin.Context) {
	RespondOK(c, h.svc.Deductions())
}

// Simulate handles POST /api/v1/tax/simulate
func (h *TaxHandler) Simulate(c *gin.Context) {
	var body simulateBody
	if err := c.ShouldBindJSON(&body); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "invalid request body")
		return
	}
	req, err := parseSimulateRequest(body)
	if err != nil {
		HandleError(c, err)
		return
	}
	result, err := h.svc.Simulate(req.GrossIncome, req.Scenarios)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, result)
}

// Optimize handles POST /api/v1/tax/optimize
func (h *TaxHandler) Optimize(c *gin.Context) {
	var body map[string]json.RawMessage
	if err := c.ShouldBindJSON(&body); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "invalid request body")
		return
	}
	in, err := parseTaxInput(body)
	if err != nil {
		HandleError(c, err)
		return
	}
	report, err := h.svc.Optimize(in)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, report)
}

// Categorize handles POST /api/v1/tax/categorize with a multipart
// "statement" file.
func (h *TaxHandler) Categorize(c *gin.Context) {
	fh, err := c.FormFile("statement")
	if err != nil {
		HandleError(c, domain.NewValidationError("statement", "file is required"))
		return
	}
	if fh.Size > maxStatementBytes {
		HandleError(c, domain.NewValidationError("statement", fmt.Sprintf("must be at most %d bytes", maxStatementBytes)))
		return
	}
	f, err := fh.Open()
	if err != nil {
		HandleError(c, err)
		return
	}
	defer f.Close()

	txns, err := categorize.ReadStatement(fh.Filename, f)
	if err != nil {
		if errors.Is(err, domain.ErrUnsupportedFormat) {
			HandleError(c, err)
			return
		}
		HandleError(c, domain.NewValidationError("statement", err.Error()))
		return
	}
	RespondOK(c, categorize.New(domain.DefaultTaxRules().Limits).Summarize(txns))
}

// Calculate handles POST /api/v1/tax/calculate
func (h *TaxHandler) Calculate(c *gin.Context) {
	userID, ok := extractUserID(c)
	if !ok {
		return
	}

	var body map[string]json.RawMessage
	if err := c.ShouldBindJSON(&body); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "invalid request body")
		return
	}
	req, err := parseCalculateRequest(body)
	if err != nil {
		HandleError(c, err)
		return
	}

	calc, err := h.svc.Calculate(c.Request.Context(), userID, req.FinancialYear, req.Input)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, calc)
}

// History handles GET /api/v1/tax/history
func (h *TaxHandler) History(c *gin.Context) {
	userID, ok := extractUserID(c)
	if !ok {
		return
	}
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	summaries, total, err := h.svc.History(c.Request.Context(), userID, offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondPaginated(c, summaries, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// GetCalculation handles GET /api/v1/tax/calculations/:id
func (h *TaxHandler) GetCalculation(c *gin.Context) {
	calc, ok := h.loadCalculation(c)
	if !ok {
		return
	}
	RespondOK(c, calc)
}

// Export handles GET /api/v1/tax/calculations/:id/export?format=
func (h *TaxHandler) Export(c *gin.Context) {
	f, err := output.Lookup(c.DefaultQuery("format", "json"))
	if err != nil {
		HandleError(c, err)
		return
	}
	calc, ok := h.loadCalculation(c)
	if !ok {
		return
	}

	data, err := f.Format(&calc.Result)
	if err != nil {
		HandleError(c, fmt.Errorf("exporting calculation %s as %s: %w", calc.ID, f.Name(), err))
		return
	}
	filename := fmt.Sprintf("tax_report_%s.%s", calc.FinancialYear, f.Extension())
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, f.ContentType(), data)
}

// Insights handles GET /api/v1/tax/insights?financial_year=
func (h *TaxHandler) Insights(c *gin.Context) {
	userID, ok := extractUserID(c)
	if !ok {
		return
	}
	fy := c.DefaultQuery("financial_year", domain.DefaultFinancialYear)

	lookup, err := h.svc.Latest(c.Request.Context(), userID, fy)
	if err != nil {
		HandleError(c, err)
		return
	}

	calc := lookup.Calculation
	if !lookup.Found {
		calc, err = h.sample(fy)
		if err != nil {
			HandleError(c, err)
			return
		}
	}

	set := h.insights.ForCalculation(c.Request.Context(), calc)
	RespondOK(c, InsightsResponse{InsightSet: set, Sample: !lookup.Found})
}

func (h *TaxHandler) loadCalculation(c *gin.Context) (*domain.Calculation, bool) {
	userID, ok := extractUserID(c)
	if !ok {
		return nil, false
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid calculation ID")
		return nil, false
	}
	calc, err := h.svc.Get(c.Request.Context(), userID, id)
	if err != nil {
		HandleError(c, err)
		return nil, false
	}
	return calc, true
}
