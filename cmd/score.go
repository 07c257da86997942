package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/claritytax/docintel/internal/inference"
	"github.com/claritytax/docintel/internal/model"
	"github.com/claritytax/docintel/internal/scorer"
	"github.com/claritytax/docintel/internal/taxyear"
)

var scoreCmd = &cobra.Command{
	Use:   "score <input-file>",
	Short: "Score field confidence for extracted documents",
	Long: `Score every field of the input documents through the six-factor
confidence model and print the per-field and per-document verdicts.

The input is a JSON request file or a CSV/XLSX export of the OCR service.

Examples:
  # Per-field confidence table
  score filing.json

  # Machine-readable output
  score export.xlsx --format json

  # Score against a different tax year's constants
  score filing.json --tax-year 2024`,
	Args: cobra.ExactArgs(1),
	RunE: runScore,
}

func init() {
	f := scoreCmd.Flags()
	f.Int("tax-year", 0, "tax year for cross-field ratio checks (default from config)")
	f.String("format", "table", "output format: table or json")
	f.String("output", "", "output file path (default: stdout)")

	rootCmd.AddCommand(scoreCmd)
}

// documentVerdict pairs field-level results with the document verdict for
// JSON output.
type documentVerdict struct {
	Kind     model.DocumentKind       `json:"kind"`
	Fields   []model.ConfidenceResult `json:"fields"`
	Document model.DocumentScore      `json:"document"`
}

func runScore(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	if format != "table" && format != "json" {
		return eris.Errorf("score: --format must be table or json (got %q)", format)
	}

	docs, err := loadDocuments(args[0])
	if err != nil {
		return err
	}
	if len(docs) == 0 {
		fmt.Fprintln(os.Stderr, "No documents in input.")
		return nil
	}

	tc, err := scoreConstants(cmd)
	if err != nil {
		return err
	}

	fieldScorer := scorer.NewFieldScorer(initWeights(), tc)

	verdicts := make([]documentVerdict, 0, len(docs))
	for _, doc := range docs {
		fields := fieldScorer.ScoreDocument(doc)
		sort.Slice(fields, func(i, j int) bool { return fields[i].FieldName < fields[j].FieldName })
		verdicts = append(verdicts, documentVerdict{
			Kind:     doc.Kind,
			Fields:   fields,
			Document: scorer.AggregateDocument(fields, inference.CriticalFields(doc.Kind)),
		})
	}

	out, err := openOutput(cmd)
	if err != nil {
		return err
	}
	defer closeOutput(out)

	if format == "json" {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(verdicts)
	}

	formatVerdicts(out, verdicts)
	return nil
}

// scoreConstants resolves tax-year constants for the score command, which
// runs without the full pipeline environment.
func scoreConstants(cmd *cobra.Command) (*taxyear.Constants, error) {
	year, _ := cmd.Flags().GetInt("tax-year")
	if year == 0 {
		year = cfg.TaxYear.DefaultYear
	}
	reg, err := initRegistry()
	if err != nil {
		return nil, err
	}
	return reg.Year(year)
}

func formatVerdicts(out io.Writer, verdicts []documentVerdict) {
	for i, v := range verdicts {
		if i > 0 {
			_, _ = fmt.Fprintln(out)
		}
		_, _ = fmt.Fprintf(out, "Document %d (%s): %.1f %s", i+1, v.Kind, v.Document.OverallScore, v.Document.Level)
		if !v.Document.DocumentUsable {
			_, _ = fmt.Fprint(out, " [needs review]")
		}
		_, _ = fmt.Fprintln(out)

		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		_, _ = fmt.Fprintln(w, "FIELD\tSCORE\tLEVEL\tVERIFY\tREASON")
		for _, f := range v.Fields {
			_, _ = fmt.Fprintf(w, "%s\t%.1f\t%s\t%v\t%s\n",
				f.FieldName, f.OverallScore, f.Level, f.NeedsVerification, f.VerificationReason)
		}
		_ = w.Flush()

		for _, review := range v.Document.FieldsNeedingReview {
			for _, s := range review.Suggestions {
				_, _ = fmt.Fprintf(out, "  %s: %s\n", review.FieldName, s)
			}
		}
	}
}
