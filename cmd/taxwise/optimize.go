package main

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/mohiniBalmiki/taxwise/internal/categorize"
	"github.com/mohiniBalmiki/taxwise/internal/domain"
	"github.com/mohiniBalmiki/taxwise/internal/output"
)

var optimizeCmd = &cobra.Command{
	Use:   "optimize [input-file]",
	Short: "Plan how to use the remaining deduction headroom",
	Long: `Report unused deduction headroom, the tax it could save at your marginal
rate, suitable instruments for your income band and a prioritised action plan.

With --statement the tax-relevant debits of a bank statement (csv or xlsx)
are added to the input first.

Examples:
  taxwise optimize input.yaml
  taxwise optimize input.yaml --statement statement.csv --format json
`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, engine, err := loadInput(cmd, args[0])
		if err != nil {
			return err
		}

		in := cfg.Income
		if path, _ := cmd.Flags().GetString("statement"); path != "" {
			txns, err := categorize.ReadStatementFile(path)
			if err != nil {
				return err
			}
			in = categorize.New(engine.Rules.Limits).Summarize(txns).Apply(in)
		}

		report, err := engine.Optimize(in)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		outputFormat, _ := cmd.Flags().GetString("format")
		switch strings.ToLower(outputFormat) {
		case "table", "":
			writeOptimizationReport(out, report)
		case "json":
			return writeJSON(out, report)
		default:
			return fmt.Errorf("unsupported format: %s", outputFormat)
		}
		return nil
	},
}

var categorizeCmd = &cobra.Command{
	Use:   "categorize [statement-file]",
	Short: "Group bank statement transactions by category and tax section",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		txns, err := categorize.ReadStatementFile(args[0])
		if err != nil {
			return err
		}
		summary := categorize.New(domain.DefaultTaxRules().Limits).Summarize(txns)

		out := cmd.OutOrStdout()
		outputFormat, _ := cmd.Flags().GetString("format")
		switch strings.ToLower(outputFormat) {
		case "table", "":
			writeCategorySummary(out, summary)
		case "json":
			return writeJSON(out, summary)
		default:
			return fmt.Errorf("unsupported format: %s", outputFormat)
		}
		return nil
	},
}

func writeJSON(w io.Writer, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(w, string(data))
	return nil
}

func writeOptimizationReport(w io.Writer, r *domain.OptimizationReport) {
	s := r.Summary
	fmt.Fprintln(w, "DEDUCTION OPTIMISATION")
	fmt.Fprintln(w, strings.Repeat("=", 60))
	fmt.Fprintf(w, "Recommended regime:       %s\n", r.Recommended.Title())
	fmt.Fprintf(w, "Current deductions:       %s\n", output.FormatCurrency(s.CurrentDeductions))
	fmt.Fprintf(w, "Maximum deductions:       %s\n", output.FormatCurrency(s.MaxDeductions))
	fmt.Fprintf(w, "Unused headroom:          %s (%s)\n", output.FormatCurrency(s.AdditionalPotential), output.FormatPercentage(s.PotentialPc))
	fmt.Fprintf(w, "Marginal rate (old):      %s\n", output.FormatPercentage(s.MarginalRate.Mul(decimal.NewFromInt(100))))
	fmt.Fprintf(w, "Estimated tax saving:     %s\n", output.FormatCurrency(s.EstimatedSavings))

	if len(r.Opportunities) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "OPPORTUNITIES")
		fmt.Fprintln(w, strings.Repeat("-", 60))
		for _, o := range r.Opportunities {
			fmt.Fprintf(w, "%-6s %s of %s left\n", o.Section, output.FormatCurrency(o.Remaining), output.FormatCurrency(o.Limit))
			for _, opt := range o.Options {
				fmt.Fprintf(w, "  - %s", opt.Instrument)
				if opt.Risk != "" {
					fmt.Fprintf(w, " (risk %s, returns %s, liquidity %s)", opt.Risk, opt.Returns, opt.Liquidity)
				}
				fmt.Fprintln(w)
			}
		}
	}

	inv := r.Investments
	fmt.Fprintln(w)
	fmt.Fprintf(w, "INVESTMENTS (%s income: %s)\n", inv.Band, inv.Strategy)
	fmt.Fprintln(w, strings.Repeat("-", 60))
	for _, rec := range inv.Recommendations {
		fmt.Fprintf(w, "[%s] %-5s %-40s %s\n", rec.Priority, rec.Section, rec.Instrument, output.FormatCurrency(rec.SuggestedAmount))
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "ACTION PLAN")
	fmt.Fprintln(w, strings.Repeat("-", 60))
	for _, item := range r.ActionPlan {
		fmt.Fprintf(w, "%d. %s (%s)\n", item.Priority, item.Action, item.Timeline)
		fmt.Fprintf(w, "   %s\n", item.Impact)
		for _, step := range item.Steps {
			fmt.Fprintf(w, "   - %s\n", step)
		}
	}
}

func writeCategorySummary(w io.Writer, s *categorize.Summary) {
	fmt.Fprintf(w, "STATEMENT SUMMARY (%d transactions)\n", len(s.Transactions))
	fmt.Fprintln(w, strings.Repeat("=", 60))
	fmt.Fprintf(w, "Salary credits: %s\n", output.FormatCurrency(s.Income))

	fmt.Fprintln(w)
	fmt.Fprintln(w, "TAX SECTIONS")
	fmt.Fprintln(w, strings.Repeat("-", 60))
	if len(s.Sections) == 0 {
		fmt.Fprintln(w, "No tax-relevant debits found")
	}
	for _, sec := range s.Sections {
		limit := "no limit"
		if sec.Limit != nil {
			limit = output.FormatCurrency(*sec.Limit)
		}
		fmt.Fprintf(w, "%-6s %3d txns  %-14s eligible %s (limit %s)\n",
			sec.Section, sec.Count, output.FormatCurrency(sec.Total), output.FormatCurrency(sec.Eligible), limit)
	}

	categories := make([]string, 0, len(s.Spending))
	for name := range s.Spending {
		categories = append(categories, name)
	}
	sort.Strings(categories)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "SPENDING")
	fmt.Fprintln(w, strings.Repeat("-", 60))
	for _, name := range categories {
		fmt.Fprintf(w, "%-16s %s\n", name, output.FormatCurrency(s.Spending[name]))
	}
}

func initOptimizeCommands() {
	optimizeCmd.Flags().String("rules", "", "Path to tax rules file (default: rules.yaml if it exists)")
	optimizeCmd.Flags().Bool("debug", false, "Enable debug output for detailed calculations")
	optimizeCmd.Flags().StringP("format", "f", "table", "Output format (table, json)")
	optimizeCmd.Flags().String("statement", "", "Bank statement (csv, xlsx) whose tax-relevant debits are added to the input")

	categorizeCmd.Flags().StringP("format", "f", "table", "Output format (table, json)")

	rootCmd.AddCommand(optimizeCmd)
	rootCmd.AddCommand(categorizeCmd)
}
