package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/claritytax/docintel/internal/inference"
	"github.com/claritytax/docintel/internal/model"
)

var adviseCmd = &cobra.Command{
	Use:   "advise",
	Short: "Infer filing status and deduction strategy from context",
	Long: `Infer a filing status from contextual signals and compare itemized
deductions against the standard deduction.

Examples:
  # Head of household inference from dependents
  advise --dependents 2

  # Should this filer itemize?
  advise --agi 95000 --salt 12000 --mortgage-interest 9500 --charitable 2000`,
	RunE: runAdvise,
}

func init() {
	f := adviseCmd.Flags()
	f.Int("tax-year", 0, "tax year (default from config)")
	f.Bool("has-spouse", false, "spouse information is present")
	f.Int("dependents", 0, "dependent count")
	f.String("prior-status", "", "prior-year filing status, if known")
	f.Float64("agi", 0, "adjusted gross income, for the deduction comparison")
	f.Float64("salt", 0, "state and local taxes paid")
	f.Float64("mortgage-interest", 0, "mortgage interest paid")
	f.Float64("charitable", 0, "charitable contributions")
	f.Float64("medical", 0, "medical expenses")
	f.String("format", "table", "output format: table or json")

	rootCmd.AddCommand(adviseCmd)
}

// adviceOutput bundles both inferences for JSON output.
type adviceOutput struct {
	FilingStatus model.FilingStatusInference    `json:"filing_status"`
	Deduction    *model.DeductionRecommendation `json:"deduction,omitempty"`
}

func runAdvise(cmd *cobra.Command, _ []string) error {
	format, _ := cmd.Flags().GetString("format")
	if format != "table" && format != "json" {
		return eris.Errorf("advise: --format must be table or json (got %q)", format)
	}

	tc, err := scoreConstants(cmd)
	if err != nil {
		return err
	}
	engine := inference.NewEngine(tc)

	hasSpouse, _ := cmd.Flags().GetBool("has-spouse")
	dependents, _ := cmd.Flags().GetInt("dependents")
	priorStatus, _ := cmd.Flags().GetString("prior-status")

	out := adviceOutput{
		FilingStatus: engine.InferFilingStatus(inference.StatusSignals{
			HasSpouse:       hasSpouse,
			Dependents:      dependents,
			PriorYearStatus: model.FilingStatus(priorStatus),
		}),
	}

	agi, _ := cmd.Flags().GetFloat64("agi")
	salt, _ := cmd.Flags().GetFloat64("salt")
	mortgage, _ := cmd.Flags().GetFloat64("mortgage-interest")
	charitable, _ := cmd.Flags().GetFloat64("charitable")
	medical, _ := cmd.Flags().GetFloat64("medical")

	if salt > 0 || mortgage > 0 || charitable > 0 || medical > 0 {
		rec := engine.InferDeductionType(out.FilingStatus.Status, agi, inference.ItemizableAmounts{
			StateLocalTaxes:         salt,
			MortgageInterest:        mortgage,
			CharitableContributions: charitable,
			MedicalExpenses:         medical,
		})
		out.Deduction = &rec
	}

	if format == "json" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	fmt.Printf("Filing status: %s (confidence %.0f)\n  %s\n",
		out.FilingStatus.Status, out.FilingStatus.Confidence, out.FilingStatus.Explanation)
	if out.Deduction != nil {
		strategy := "standard deduction"
		if out.Deduction.RecommendItemizing {
			strategy = "itemize"
		}
		_, _ = money.Printf("Deduction: %s (itemized $%.2f vs standard $%.2f)\n  %s\n",
			strategy, out.Deduction.ItemizedTotal, out.Deduction.StandardDeduction, out.Deduction.Explanation)
	}
	return nil
}
