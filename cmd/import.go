package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/claritytax/docintel/internal/importer"
	"github.com/claritytax/docintel/internal/model"
	"github.com/claritytax/docintel/internal/pipeline"
)

var importCmd = &cobra.Command{
	Use:   "import <export-file>",
	Short: "Import an OCR field export and optionally analyze it",
	Long: `Import a CSV or XLSX export of the OCR service. Rows sharing a
document_id are grouped into one document. Without --analyze, the parsed
documents are printed as JSON for inspection.

Examples:
  # Inspect what the export parses to
  import fields.xlsx

  # Import a named sheet and run the full pipeline
  import fields.xlsx --sheet "Q1 Batch" --analyze --dependents 1`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	f := importCmd.Flags()
	f.String("sheet", "", "XLSX sheet name (default: first sheet)")
	f.Int("skip-rows", 1, "header rows to skip")
	f.Bool("analyze", false, "run the full pipeline over the imported documents")
	f.Int("tax-year", 0, "tax year for --analyze (default from config)")
	f.String("filing-status", "single", "filing status for --analyze")
	f.Int("dependents", 0, "dependent count for --analyze")

	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	path := args[0]

	var docs []model.Document
	var err error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		docs, err = importer.ReadCSV(path)
	case ".xlsx":
		sheet, _ := cmd.Flags().GetString("sheet")
		skip, _ := cmd.Flags().GetInt("skip-rows")
		docs, err = importer.ReadXLSX(path, importer.XLSXOptions{SheetName: sheet, SkipRows: skip})
	default:
		return eris.Errorf("import: unsupported file format %q (want .csv or .xlsx)", filepath.Ext(path))
	}
	if err != nil {
		return err
	}

	zap.L().Info("import complete", zap.String("path", path), zap.Int("documents", len(docs)))

	analyze, _ := cmd.Flags().GetBool("analyze")
	if !analyze {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(docs)
	}

	if len(docs) == 0 {
		fmt.Fprintln(os.Stderr, "No documents in export; nothing to analyze.")
		return nil
	}

	taxYear, _ := cmd.Flags().GetInt("tax-year")
	if taxYear == 0 {
		taxYear = cfg.TaxYear.DefaultYear
	}
	status, _ := cmd.Flags().GetString("filing-status")
	dependents, _ := cmd.Flags().GetInt("dependents")

	env, err := initPipeline(ctx)
	if err != nil {
		return err
	}
	defer env.Close()

	req := pipeline.Request{
		TaxYear:      taxYear,
		Documents:    docs,
		FilingStatus: model.FilingStatus(status),
		Dependents:   dependents,
	}
	result, err := env.Pipeline.Analyze(ctx, req)
	if err != nil {
		return eris.Wrap(err, "import: analyze")
	}

	formatAnalysis(os.Stdout, &req, result)
	return nil
}
