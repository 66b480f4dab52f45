package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"runtime/debug"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mohiniBalmiki/taxwise/internal/calculation"
	"github.com/mohiniBalmiki/taxwise/internal/compare"
	"github.com/mohiniBalmiki/taxwise/internal/config"
	"github.com/mohiniBalmiki/taxwise/internal/domain"
	"github.com/mohiniBalmiki/taxwise/internal/insight"
	"github.com/mohiniBalmiki/taxwise/internal/output"
)

// simpleCLILogger implements calculation.Logger for CLI debug output
type simpleCLILogger struct{}

func (simpleCLILogger) Debugf(format string, args ...interface{}) {
	log.Printf("DEBUG: "+format, args...)
}
func (simpleCLILogger) Infof(format string, args ...interface{}) {
	log.Printf("INFO: "+format, args...)
}
func (simpleCLILogger) Warnf(format string, args ...interface{}) {
	log.Printf("WARN: "+format, args...)
}
func (simpleCLILogger) Errorf(format string, args ...interface{}) {
	log.Printf("ERROR: "+format, args...)
}

// Build metadata, overridden via -ldflags at release time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), buildInfo())
		},
	}
}

func buildInfo() string {
	v, c, d := version, commit, date
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, s := range info.Settings {
			switch s.Key {
			case "vcs.revision":
				if c == "none" {
					c = s.Value
				}
			case "vcs.time":
				if d == "unknown" {
					d = s.Value
				}
			}
		}
		if v == "dev" && info.Main.Version != "" && info.Main.Version != "(devel)" {
			v = info.Main.Version
		}
	}
	return fmt.Sprintf("taxwise %s (commit %s, built %s)", v, c, d)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

var rootCmd = &cobra.Command{
	Use:   "taxwise",
	Short: "Indian income tax regime calculator",
	Long: `Compare the Old and New income tax regimes for a salaried taxpayer.

taxwise computes slab tax, cess and effective rate under both regimes,
recommends the cheaper one and points out unused deductions.`,
}

// loadInput reads an input file and its rules. When --rules is empty a
// rules.yaml in the working directory is used if present.
func loadInput(cmd *cobra.Command, inputFile string) (*config.Configuration, *calculation.Engine, error) {
	rulesFile, _ := cmd.Flags().GetString("rules")
	if rulesFile == "" && fileExists("rules.yaml") {
		rulesFile = "rules.yaml"
	}

	parser := config.NewInputParser()
	cfg, rules, err := parser.LoadFromFileWithRules(inputFile, rulesFile)
	if err != nil {
		return nil, nil, err
	}

	engine := calculation.NewEngineWithRules(rules)
	if debugMode, _ := cmd.Flags().GetBool("debug"); debugMode {
		engine.SetLogger(simpleCLILogger{})
	}
	return cfg, engine, nil
}

var calculateCmd = &cobra.Command{
	Use:   "calculate [input-file]",
	Short: "Compare the Old and New regimes for an input file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, engine, err := loadInput(cmd, args[0])
		if err != nil {
			return err
		}

		result, err := engine.Calculate(cfg.Income)
		if err != nil {
			return err
		}

		outputFormat, _ := cmd.Flags().GetString("format")
		outputDir, _ := cmd.Flags().GetString("output-dir")
		gen := output.NewReportGenerator(cmd.OutOrStdout(), outputDir)
		if _, err := gen.Generate(result, outputFormat); err != nil {
			return err
		}

		if savePath, _ := cmd.Flags().GetString("save"); savePath != "" {
			if err := output.SaveInput(cfg.FinancialYear, cfg.Income, savePath); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Input saved to: %s\n", savePath)
		}
		return nil
	},
}

var simulateCmd = &cobra.Command{
	Use:   "simulate [input-file]",
	Short: "Compare deduction scenarios against a no-deduction base",
	Long: `Run every scenario in the input file at the file's gross income and
compare each against a base with no deductions.

Examples:
  taxwise simulate input.yaml
  taxwise simulate input.yaml --scenarios "Max 80C,No home loan" --format csv
`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, engine, err := loadInput(cmd, args[0])
		if err != nil {
			return err
		}
		if len(cfg.Scenarios) == 0 {
			return fmt.Errorf("%s defines no scenarios", args[0])
		}

		var names []string
		if raw, _ := cmd.Flags().GetString("scenarios"); raw != "" {
			for _, n := range strings.Split(raw, ",") {
				if n = strings.TrimSpace(n); n != "" {
					names = append(names, n)
				}
			}
		}

		ce := compare.NewCompareEngine(engine)
		compSet, err := ce.Compare(cmd.Context(), cfg.Income.GrossIncome, cfg.Scenarios, compare.CompareOptions{
			ScenarioNames: names,
			ConfigPath:    args[0],
		})
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		outputFormat, _ := cmd.Flags().GetString("format")
		switch strings.ToLower(outputFormat) {
		case "table", "":
			fmt.Fprint(out, (&compare.TableFormatter{}).Format(compSet))
		case "compact":
			fmt.Fprint(out, (&compare.TableFormatter{}).FormatCompact(compSet))
		case "csv":
			data, err := (&compare.CSVFormatter{}).Format(compSet)
			if err != nil {
				return err
			}
			fmt.Fprint(out, data)
		case "json":
			data, err := (&compare.JSONFormatter{Pretty: true}).Format(compSet)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, data)
		default:
			return fmt.Errorf("unsupported format %q (table, compact, csv, json)", outputFormat)
		}
		return nil
	},
}

var validateCmd = &cobra.Command{
	Use:   "validate [input-file]",
	Short: "Validate an input file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, _, err := loadInput(cmd, args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Input file %s is valid\n", args[0])
		return nil
	},
}

var deductionsCmd = &cobra.Command{
	Use:   "deductions",
	Short: "List supported deductions and their limits",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		rules := domain.DefaultTaxRules()
		if rulesFile, _ := cmd.Flags().GetString("rules"); rulesFile != "" {
			var err error
			if rules, err = config.NewInputParser().LoadRules(rulesFile); err != nil {
				return err
			}
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "DEDUCTIONS (FY %s)\n", rules.Metadata.FinancialYear)
		fmt.Fprintln(out, strings.Repeat("=", 60))
		for _, entry := range calculation.DeductionCatalogue(rules) {
			limit := "no limit"
			if entry.Limit != nil {
				limit = output.FormatCurrency(*entry.Limit)
			}
			regimes := make([]string, len(entry.ApplicableRegimes))
			for i, r := range entry.ApplicableRegimes {
				regimes[i] = string(r)
			}
			fmt.Fprintf(out, "%-22s %-14s %s\n", entry.Section, limit, strings.Join(regimes, ", "))
			fmt.Fprintf(out, "  %s\n", entry.Description)
		}
		return nil
	},
}

var insightsCmd = &cobra.Command{
	Use:   "insights [input-file]",
	Short: "Print personalised tax-saving insights for an input file",
	Long: `Print tax-saving insights for an input file.

When TAXWISE_INSIGHTS_API_KEY is set the insights come from the language
model; otherwise rule-based insights are printed.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, engine, err := loadInput(cmd, args[0])
		if err != nil {
			return err
		}
		result, err := engine.Calculate(cfg.Income)
		if err != nil {
			return err
		}

		serverCfg, err := config.LoadServerConfig()
		if err != nil {
			return err
		}
		svc := insight.NewService(chatClient(serverCfg.Insights), 0, engine.Logger)

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		set := svc.Generate(ctx, result)

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "INSIGHTS (%s)\n", set.Source)
		fmt.Fprintln(out, strings.Repeat("=", 60))
		for i, in := range set.Insights {
			fmt.Fprintf(out, "%d. [%s] %s\n", i+1, strings.ToUpper(string(in.Priority)), in.Title)
			fmt.Fprintf(out, "   %s\n", in.Description)
			if in.Action != "" {
				fmt.Fprintf(out, "   Action: %s\n", in.Action)
			}
		}
		return nil
	},
}

// chatClient returns nil rather than a typed nil when no key is configured.
func chatClient(cfg config.InsightConfig) insight.ChatClient {
	if c := insight.NewAnthropicClient(cfg); c != nil {
		return c
	}
	return nil
}

var initCmd = &cobra.Command{
	Use:   "init [output-file]",
	Short: "Write an example input file",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		filename := "taxwise.yaml"
		if len(args) == 1 {
			filename = args[0]
		}
		force, _ := cmd.Flags().GetBool("force")
		if fileExists(filename) && !force {
			return fmt.Errorf("%s already exists (use --force to overwrite)", filename)
		}
		if err := config.NewInputParser().WriteTemplate(filename); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Example input written to %s\n", filename)
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{calculateCmd, simulateCmd, validateCmd, insightsCmd} {
		c.Flags().String("rules", "", "Path to tax rules file (default: rules.yaml if it exists)")
		c.Flags().Bool("debug", false, "Enable debug output for detailed calculations")
	}

	calculateCmd.Flags().StringP("format", "f", "console",
		"Output format ("+strings.Join(output.AvailableFormatterNames(), ", ")+")")
	calculateCmd.Flags().StringP("output-dir", "o", "", "Directory for file reports (html, pdf, xlsx)")
	calculateCmd.Flags().String("save", "", "Also save the normalised input to this YAML file")

	simulateCmd.Flags().StringP("format", "f", "table", "Output format (table, compact, csv, json)")
	simulateCmd.Flags().String("scenarios", "", "Comma-separated scenario names to run (default: all)")

	deductionsCmd.Flags().String("rules", "", "Path to tax rules file")

	initCmd.Flags().Bool("force", false, "Overwrite an existing file")

	rootCmd.AddCommand(calculateCmd)
	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(deductionsCmd)
	rootCmd.AddCommand(insightsCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(versionCmd())

	initBreakEvenCommand()
	initOptimizeCommands()
	initServeCommand()
	initMigrateCommand()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
