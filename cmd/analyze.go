package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/claritytax/docintel/internal/model"
	"github.com/claritytax/docintel/internal/pipeline"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <request-file>",
	Short: "Run the full pipeline over a filing",
	Long: `Run scoring, inference, aggregation, and estimation over a filing.

The request file is JSON:

  {
    "tax_year": 2025,
    "filing_status": "single",
    "dependents": 0,
    "documents": [
      {"kind": "w2", "fields": [
        {"name": "wages", "raw_value": "$50,000.00", "kind": "currency", "ocr_quality": 92},
        {"name": "federal_withholding", "raw_value": "$5,000.00", "kind": "currency", "ocr_quality": 88}
      ]}
    ]
  }

Examples:
  # Analyze and print a summary table
  analyze filing.json

  # Full result as JSON
  analyze filing.json --format json

  # Override filing status and dependents from the command line
  analyze filing.json --filing-status head_of_household --dependents 2`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	f := analyzeCmd.Flags()
	f.Int("tax-year", 0, "tax year (overrides request file)")
	f.String("filing-status", "", "filing status (overrides request file)")
	f.Int("dependents", -1, "dependent count (overrides request file)")
	f.String("format", "table", "output format: table or json")
	f.String("output", "", "output file path (default: stdout)")

	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	format, _ := cmd.Flags().GetString("format")
	if format != "table" && format != "json" {
		return eris.Errorf("analyze: --format must be table or json (got %q)", format)
	}

	req, err := loadRequest(args[0])
	if err != nil {
		return err
	}
	applyRequestOverrides(cmd, req)
	if req.TaxYear == 0 {
		req.TaxYear = cfg.TaxYear.DefaultYear
	}

	env, err := initPipeline(ctx)
	if err != nil {
		return err
	}
	defer env.Close()

	zap.L().Info("starting analysis",
		zap.Int("tax_year", req.TaxYear),
		zap.Int("documents", len(req.Documents)),
		zap.String("filing_status", string(req.FilingStatus)),
	)

	result, err := env.Pipeline.Analyze(ctx, *req)
	if err != nil {
		return eris.Wrap(err, "analyze")
	}

	out, err := openOutput(cmd)
	if err != nil {
		return err
	}
	defer closeOutput(out)

	if format == "json" {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	formatAnalysis(out, req, result)
	return nil
}

// applyRequestOverrides applies CLI flag overrides onto a loaded request.
func applyRequestOverrides(cmd *cobra.Command, req *pipeline.Request) {
	if v, _ := cmd.Flags().GetInt("tax-year"); v > 0 {
		req.TaxYear = v
	}
	if v, _ := cmd.Flags().GetString("filing-status"); v != "" {
		req.FilingStatus = model.FilingStatus(v)
	}
	if v, _ := cmd.Flags().GetInt("dependents"); v >= 0 {
		req.Dependents = v
	}
}

func openOutput(cmd *cobra.Command) (*os.File, error) {
	path, _ := cmd.Flags().GetString("output")
	if path == "" {
		return os.Stdout, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, eris.Wrapf(err, "create output file %s", path)
	}
	return f, nil
}

func closeOutput(f *os.File) {
	if f != os.Stdout {
		_ = f.Close()
	}
}

// formatAnalysis writes a human-readable summary of an analysis result.
func formatAnalysis(out io.Writer, req *pipeline.Request, result *model.AnalysisResult) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)

	_, _ = fmt.Fprintln(w, "DOC\tKIND\tSCORE\tLEVEL\tUSABLE\tREVIEW")
	for i, ds := range result.DocumentScores {
		kind := model.DocGeneric
		if i < len(req.Documents) {
			kind = req.Documents[i].Kind
		}
		_, _ = fmt.Fprintf(w, "%d\t%s\t%.1f\t%s\t%v\t%d\n",
			i+1, kind, ds.OverallScore, ds.Level, ds.DocumentUsable, len(ds.FieldsNeedingReview))
	}
	_ = w.Flush()

	for i, inf := range result.Inference {
		if len(inf.InferredFields) == 0 && len(inf.Issues) == 0 && len(inf.MissingRequired) == 0 {
			continue
		}
		_, _ = fmt.Fprintf(out, "\nDocument %d (%.0f%% complete):\n", i+1, inf.CompletionPercentage)
		for _, f := range inf.InferredFields {
			confirm := ""
			if f.RequiresConfirmation {
				confirm = " (confirm)"
			}
			_, _ = money.Fprintf(out, "  inferred %s = $%.2f [%s, conf %.0f]%s\n",
				f.Name, f.Value, f.Type, f.Confidence, confirm)
		}
		for _, issue := range inf.Issues {
			_, _ = fmt.Fprintf(out, "  %s: %s: %s\n", issue.Severity, issue.Field, issue.Message)
		}
		for _, name := range inf.MissingRequired {
			_, _ = fmt.Fprintf(out, "  missing required: %s\n", name)
		}
	}

	if result.Summary != nil {
		for _, issue := range result.Summary.Issues {
			_, _ = fmt.Fprintf(out, "\nfiling %s: %s: %s", issue.Severity, issue.Field, issue.Message)
		}
		if len(result.Summary.Issues) > 0 {
			_, _ = fmt.Fprintln(out)
		}
	}

	if result.Estimate != nil {
		_, _ = fmt.Fprintln(out)
		formatEstimate(out, result.Estimate)
	}

	_, _ = fmt.Fprintf(out, "\nCompleted in %dms\n", result.DurationMS)
}

// formatEstimate writes a human-readable tax estimate.
func formatEstimate(out io.Writer, est *model.TaxEstimate) {
	verdict := "Estimated refund"
	if est.Likely < 0 {
		verdict = "Estimated balance due"
	}
	_, _ = money.Fprintf(out, "%s: $%.2f (range $%.2f to $%.2f)\n",
		verdict, abs(est.Likely), est.Low, est.High)
	_, _ = fmt.Fprintf(out, "Confidence: %.0f (%s), data %.0f%% complete\n",
		est.ConfidenceScore, est.ConfidenceLevel, est.DataCompleteness)
	_, _ = money.Fprintf(out, "Income $%.2f, taxable $%.2f, tax $%.2f, withheld $%.2f, credits $%.2f\n",
		est.TotalIncome, est.TaxableIncome, est.EstimatedTax, est.TotalWithholding, est.TotalCredits)
	if est.SelfEmploymentTax > 0 {
		_, _ = money.Fprintf(out, "Self-employment tax: $%.2f\n", est.SelfEmploymentTax)
	}
	for _, a := range est.Assumptions {
		_, _ = fmt.Fprintf(out, "  assumes: %s\n", a)
	}
	for _, o := range est.Opportunities {
		_, _ = fmt.Fprintf(out, "  opportunity: %s\n", o)
	}
	_, _ = fmt.Fprintf(out, "\n%s\n", est.Disclaimer)
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
