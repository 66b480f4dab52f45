package main

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/mohiniBalmiki/taxwise/internal/breakeven"
)

var breakEvenCmd = &cobra.Command{
	Use:   "breakeven [input-file]",
	Short: "Find where the Old and New regimes cost the same",
	Long: `Solve for the break-even point between the two regimes.

Targets:
  deductions    extra old-regime deduction needed for the Old Regime to win
  gross_income  gross income at which the cheaper regime changes
  all           both of the above, with recommendations

Examples:
  taxwise breakeven input.yaml
  taxwise breakeven input.yaml --target gross_income --min-income 500000 --max-income 3000000
  taxwise breakeven input.yaml --format json
`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, engine, err := loadInput(cmd, args[0])
		if err != nil {
			return err
		}

		constraints, err := breakEvenConstraints(cmd)
		if err != nil {
			return err
		}

		solver := breakeven.NewDefaultSolver(engine)
		target, _ := cmd.Flags().GetString("target")
		outputFormat, _ := cmd.Flags().GetString("format")
		out := cmd.OutOrStdout()

		var v interface{}
		var table string
		switch strings.ToLower(target) {
		case "all", "":
			analysis, err := solver.Analyze(cmd.Context(), cfg.Income, constraints)
			if err != nil {
				return err
			}
			v, table = analysis, (&breakeven.TableFormatter{}).FormatAnalysis(analysis)
		default:
			result, err := solver.Solve(cmd.Context(), breakeven.Request{
				Input:       cfg.Income,
				Target:      breakeven.Target(strings.ToLower(target)),
				Constraints: constraints,
			})
			if err != nil {
				return err
			}
			v, table = result, (&breakeven.TableFormatter{}).Format(result)
		}

		switch strings.ToLower(outputFormat) {
		case "table", "":
			fmt.Fprint(out, table)
		case "json":
			data, err := (&breakeven.JSONFormatter{Pretty: true}).Format(v)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, data)
		default:
			return fmt.Errorf("unsupported format: %s", outputFormat)
		}
		return nil
	},
}

// breakEvenConstraints reads the optional search bounds. Zero means unset.
func breakEvenConstraints(cmd *cobra.Command) (breakeven.Constraints, error) {
	var c breakeven.Constraints
	for flag, dst := range map[string]**decimal.Decimal{
		"min-income":    &c.MinIncome,
		"max-income":    &c.MaxIncome,
		"max-deduction": &c.MaxAdditionalDeduction,
	} {
		raw, _ := cmd.Flags().GetString(flag)
		if raw == "" {
			continue
		}
		v, err := decimal.NewFromString(raw)
		if err != nil {
			return c, fmt.Errorf("invalid --%s %q: %w", flag, raw, err)
		}
		*dst = &v
	}
	return c, c.Validate()
}

func initBreakEvenCommand() {
	breakEvenCmd.Flags().String("rules", "", "Path to tax rules file (default: rules.yaml if it exists)")
	breakEvenCmd.Flags().Bool("debug", false, "Enable debug output for detailed calculations")
	breakEvenCmd.Flags().StringP("format", "f", "table", "Output format (table, json)")
	breakEvenCmd.Flags().StringP("target", "t", "all", "What to solve for (deductions, gross_income, all)")
	breakEvenCmd.Flags().String("min-income", "", "Lower bound of the gross income search")
	breakEvenCmd.Flags().String("max-income", "", "Upper bound of the gross income search")
	breakEvenCmd.Flags().String("max-deduction", "", "Upper bound of the extra deduction search")

	rootCmd.AddCommand(breakEvenCmd)
}
