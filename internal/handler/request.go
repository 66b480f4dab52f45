package handler

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/mohiniBalmiki/taxwise/internal/domain"
)

const (
	// maxSimulationScenarios bounds the work one public simulate call can ask for.
	maxSimulationScenarios = 50
	maxStatementBytes      = 5 << 20
)

// CalculateRequest is the parsed body of POST /tax/calculate. Amounts may be
// JSON numbers or strings such as "12,00,000".
type CalculateRequest struct {
	FinancialYear string          `json:"financial_year"`
	Input         domain.TaxInput `json:"input"`
}

// SimulateRequest is the parsed body of POST /tax/simulate.
type SimulateRequest struct {
	GrossIncome decimal.Decimal             `json:"gross_income"`
	Scenarios   []domain.SimulationScenario `json:"scenarios"`
}

type simulateBody struct {
	GrossIncome json.RawMessage `json:"gross_income"`
	Scenarios   []struct {
		Name       string                     `json:"name"`
		Deductions map[string]json.RawMessage `json:"deductions"`
	} `json:"scenarios"`
}

func parseCalculateRequest(body map[string]json.RawMessage) (*CalculateRequest, error) {
	req := &CalculateRequest{}
	if raw, ok := body["financial_year"]; ok {
		if err := json.Unmarshal(raw, &req.FinancialYear); err != nil {
			return nil, domain.NewValidationError("financial_year", "must be a string")
		}
	}

	in, err := parseTaxInput(body)
	if err != nil {
		return nil, err
	}
	req.Input = in
	return req, nil
}

// parseTaxInput reads the input fields of a calculate or optimize body.
func parseTaxInput(body map[string]json.RawMessage) (domain.TaxInput, error) {
	fields, err := amountFields(body)
	if err != nil {
		return domain.TaxInput{}, err
	}
	return domain.ParseTaxInput(fields)
}

func parseSimulateRequest(body simulateBody) (*SimulateRequest, error) {
	if len(body.Scenarios) > maxSimulationScenarios {
		return nil, domain.NewValidationError("scenarios",
			fmt.Sprintf("at most %d scenarios are allowed", maxSimulationScenarios))
	}

	gross, err := amountText(body.GrossIncome)
	if err != nil {
		return nil, domain.NewValidationError(domain.FieldGrossIncome, "must be numeric")
	}
	base, err := domain.ParseTaxInput(map[string]string{domain.FieldGrossIncome: gross})
	if err != nil {
		return nil, err
	}

	req := &SimulateRequest{GrossIncome: base.GrossIncome}
	for i, sc := range body.Scenarios {
		fields, err := amountFields(sc.Deductions)
		if err == nil {
			var in domain.TaxInput
			if in, err = domain.ParseAmounts(fields); err == nil {
				req.Scenarios = append(req.Scenarios, domain.SimulationScenario{Name: sc.Name, Input: in})
				continue
			}
		}
		if ve, ok := domain.AsValidationError(err); ok {
			return nil, domain.NewValidationError(fmt.Sprintf("scenarios[%d].%s", i, ve.Field), ve.Reason)
		}
		return nil, err
	}
	return req, nil
}

// amountFields extracts the input fields of body as text. Keys that are not
// input fields are ignored.
func amountFields(body map[string]json.RawMessage) (map[string]string, error) {
	fields := make(map[string]string)
	for _, name := range domain.InputFields {
		raw, ok := body[name]
		if !ok {
			continue
		}
		text, err := amountText(raw)
		if err != nil {
			return nil, domain.NewValidationError(name, "must be numeric")
		}
		fields[name] = text
	}
	return fields, nil
}

// amountText accepts a JSON number, string or null.
func amountText(raw json.RawMessage) (string, error) {
	if len(raw) == 0 {
		return "", nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", err
	}
	return n.String(), nil
}
