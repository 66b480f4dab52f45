package categorize

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/mohiniBalmiki/taxwise/internal/domain"
)

var columnAliases = map[string][]string{
	"date":        {"date", "transaction date", "txn date", "value date", "transaction_date", "txn_date"},
	"description": {"description", "narration", "particulars", "details", "remarks"},
	"amount":      {"amount", "transaction amount"},
	"debit":       {"debit", "withdrawal", "withdrawal amt", "dr"},
	"credit":      {"credit", "deposit", "deposit amt", "cr"},
}

var dateLayouts = []string{
	"2006-01-02",
	"02-01-2006",
	"02/01/2006",
	"01/02/2006",
	"2006/01/02",
	"02-01-06",
	"02/01/06",
	"02 Jan 2006",
	"02-Jan-2006",
	"2006-01-02 15:04:05",
	"02-01-2006 15:04:05",
}

// ReadStatementFile reads a bank statement from a .csv or .xlsx file.
func ReadStatementFile(path string) ([]Transaction, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open statement: %w", err)
	}
	defer f.Close()
	return ReadStatement(path, f)
}

// ReadStatement picks the reader from the extension of name.
func ReadStatement(name string, r io.Reader) ([]Transaction, error) {
	switch ext := strings.ToLower(filepath.Ext(name)); ext {
	case ".csv":
		return ReadCSV(r)
	case ".xlsx":
		return ReadXLSX(r)
	default:
		return nil, fmt.Errorf("%w: statement %q. Try one of: csv, xlsx", domain.ErrUnsupportedFormat, ext)
	}
}

// ReadCSV reads a statement whose first row is a header.
func ReadCSV(r io.Reader) ([]Transaction, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv statement: %w", err)
	}
	return parseRows(rows)
}

// ReadXLSX reads the first sheet of a workbook whose first row is a header.
func ReadXLSX(r io.Reader) ([]Transaction, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open xlsx statement: %w", err)
	}
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, fmt.Errorf("read xlsx statement: %w", err)
	}
	return parseRows(rows)
}

// parseRows maps the header onto known columns and converts each row. Rows
// without a readable date or a non-zero amount are skipped.
func parseRows(rows [][]string) ([]Transaction, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("statement is empty")
	}
	cols := mapColumns(rows[0])
	if _, ok := cols["date"]; !ok {
		return nil, fmt.Errorf("statement has no date column")
	}
	_, hasAmount := cols["amount"]
	_, hasDebit := cols["debit"]
	_, hasCredit := cols["credit"]
	if !hasAmount && !hasDebit && !hasCredit {
		return nil, fmt.Errorf("statement has no amount, debit or credit column")
	}

	var txns []Transaction
	for _, row := range rows[1:] {
		cell := func(name string) string {
			i, ok := cols[name]
			if !ok || i >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[i])
		}

		date, ok := parseDate(cell("date"))
		if !ok {
			continue
		}
		t := Transaction{Date: date, Description: cell("description")}
		if t.Description == "" {
			t.Description = "Unknown Transaction"
		}

		if hasAmount {
			amount, err := parseStatementAmount(cell("amount"))
			if err != nil {
				return nil, fmt.Errorf("row dated %s: %w", date.Format("2006-01-02"), err)
			}
			t.Kind = Credit
			if amount.IsNegative() {
				t.Kind = Debit
			}
			t.Amount = amount.Abs()
		} else {
			debit, err := parseStatementAmount(cell("debit"))
			if err != nil {
				return nil, fmt.Errorf("row dated %s: debit: %w", date.Format("2006-01-02"), err)
			}
			credit, err := parseStatementAmount(cell("credit"))
			if err != nil {
				return nil, fmt.Errorf("row dated %s: credit: %w", date.Format("2006-01-02"), err)
			}
			if !debit.IsZero() {
				t.Kind, t.Amount = Debit, debit.Abs()
			} else {
				t.Kind, t.Amount = Credit, credit.Abs()
			}
		}
		if t.Amount.IsZero() {
			continue
		}
		txns = append(txns, t)
	}
	return txns, nil
}

func mapColumns(header []string) map[string]int {
	cols := make(map[string]int)
	for i, h := range header {
		name := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		name = strings.TrimSuffix(name, ".")
		for std, aliases := range columnAliases {
			if _, taken := cols[std]; taken {
				continue
			}
			for _, a := range aliases {
				if name == a {
					cols[std] = i
					break
				}
			}
		}
	}
	return cols
}

func parseDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// parseStatementAmount accepts "(500)" and "500 Dr" as negative amounts.
func parseStatementAmount(s string) (decimal.Decimal, error) {
	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		s, negative = strings.Trim(s, "()"), true
	}
	lower := strings.ToLower(s)
	switch {
	case strings.HasSuffix(lower, "dr"):
		s, negative = strings.TrimSpace(s[:len(s)-2]), true
	case strings.HasSuffix(lower, "cr"):
		s = strings.TrimSpace(s[:len(s)-2])
	}
	amount, err := domain.ParseAmount(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q", s)
	}
	if negative {
		amount = amount.Neg()
	}
	return amount, nil
}
