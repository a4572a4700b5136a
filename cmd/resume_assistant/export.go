package main

import (
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-assistant/internal/export"
	"github.com/jonathan/resume-assistant/internal/observability"
)

var exportCmd = &cobra.Command{
	Use:   "export <resume-id>",
	Short: "Export a stored resume as a print-quality PDF",
	Long:  "Transform a stored resume into a structured document, render it as HTML and print it to PDF through a headless browser.",
	Args:  cobra.ExactArgs(1),
	RunE:  runExport,
}

var exportOutput string

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "out", "o", "", "Output PDF path (default <output-dir>/resume-<id>.pdf)")

	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return err
	}

	app, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer app.Close()

	resume, err := app.store.GetByID(ctx, id)
	if err != nil {
		return err
	}

	outputPath := exportOutput
	if outputPath == "" {
		outputPath = filepath.Join(app.cfg.OutputDir, fmt.Sprintf("resume-%d.pdf", resume.ID))
	}

	src := export.Source{
		Name:       resume.CandidateName,
		Email:      resume.Email,
		Phone:      resume.Phone,
		Experience: resume.Experience,
		Education:  resume.Education,
		Skills:     resume.Skills,
	}
	doc, err := app.exporter.Export(ctx, src, outputPath)
	if err != nil {
		return err
	}

	if app.cfg.Verbose {
		observability.NewPrinter(cmd.OutOrStdout()).PrintDocument(doc)
	}
	cmd.Printf("Exported resume %d to %s\n", resume.ID, outputPath)
	return nil
}
