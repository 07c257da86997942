package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/claritytax/docintel/internal/estimate"
	"github.com/claritytax/docintel/internal/model"
	"github.com/claritytax/docintel/internal/taxyear"
)

var estimateCmd = &cobra.Command{
	Use:   "estimate",
	Short: "Produce a quick tax estimate from known totals",
	Long: `Produce a bounded refund/balance-due estimate directly from totals,
without running document scoring. Useful for what-if checks and for
verifying the pipeline's own estimates.

Examples:
  # Single filer, one W-2
  estimate --wages 50000 --withholding 5000

  # Head of household with two dependents and some 1099 income
  estimate --wages 65000 --withholding 7200 --nonemployee-comp 12000 \
    --filing-status head_of_household --dependents 2

  # Apply two verification signals to see the band narrow
  estimate --wages 50000 --withholding 5000 \
    --confirm wages --confirm federal_withholding`,
	RunE: runEstimate,
}

func init() {
	f := estimateCmd.Flags()
	f.Int("tax-year", 0, "tax year (default from config)")
	f.String("filing-status", "single", "filing status")
	f.Int("dependents", 0, "dependent count")
	f.Float64("wages", 0, "total W-2 wages")
	f.Float64("withholding", 0, "total federal withholding")
	f.Float64("interest", 0, "total 1099-INT interest income")
	f.Float64("dividends", 0, "total 1099-DIV ordinary dividends")
	f.Float64("nonemployee-comp", 0, "total 1099-NEC nonemployee compensation")
	f.StringArray("confirm", nil, "field confirmed by the user; each narrows the estimate band")
	f.String("format", "table", "output format: table or json")

	rootCmd.AddCommand(estimateCmd)
}

func runEstimate(cmd *cobra.Command, _ []string) error {
	format, _ := cmd.Flags().GetString("format")
	if format != "table" && format != "json" {
		return eris.Errorf("estimate: --format must be table or json (got %q)", format)
	}

	tc, err := scoreConstants(cmd)
	if err != nil {
		return err
	}

	status, _ := cmd.Flags().GetString("filing-status")
	dependents, _ := cmd.Flags().GetInt("dependents")

	summary := model.FilingSummary{
		Totals:         map[string]float64{},
		DocumentCounts: map[model.DocumentKind]int{},
	}
	for flag, field := range map[string]string{
		"wages":            model.FieldWages,
		"withholding":      model.FieldFederalWithholding,
		"interest":         model.FieldInterestIncome,
		"dividends":        model.FieldOrdinaryDividends,
		"nonemployee-comp": model.FieldNonemployeeComp,
	} {
		if v, _ := cmd.Flags().GetFloat64(flag); v != 0 {
			summary.Totals[field] = v
		}
	}
	if len(summary.Totals) == 0 {
		return eris.New("estimate: at least one income or withholding flag is required")
	}
	summary.DocumentCounts[model.DocGeneric] = 1

	confirmed, _ := cmd.Flags().GetStringArray("confirm")
	est := estimateFor(tc, summary, model.FilingStatus(status), dependents, confirmed)

	if format == "json" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(est)
	}

	formatEstimate(os.Stdout, &est)
	return nil
}

// estimateFor runs the estimator and applies verification signals in order.
func estimateFor(tc *taxyear.Constants, summary model.FilingSummary, status model.FilingStatus, dependents int, confirmed []string) model.TaxEstimate {
	est := estimate.NewEstimator(tc).Estimate(summary, status, dependents)
	for _, signal := range confirmed {
		est = estimate.Refine(est, signal)
	}
	return est
}
