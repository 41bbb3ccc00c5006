package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/Veraticus/shop-diary/internal/cli"
	"github.com/Veraticus/shop-diary/internal/importer"
	"github.com/spf13/cobra"
)

func importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <file.csv>",
		Short: "Import purchases from a CSV file",
		Long: `Import purchases from a CSV file with a header row.

Required columns: item, price, quantity
Optional columns: unit, shop, date (RFC 3339 or YYYY-MM-DD)

Rows are recorded one at a time, so a second row for the same item updates
its last price instead of creating a duplicate. Bad rows are reported and
skipped.`,
		Args: cobra.ExactArgs(1),
		RunE: runImport,
	}

	cmd.Flags().Bool("no-progress", false, "Do not draw a progress bar")

	return cmd
}

func runImport(cmd *cobra.Command, args []string) (err error) {
	noProgress, _ := cmd.Flags().GetBool("no-progress")

	file, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer func() { _ = file.Close() }()

	handler := cli.NewInterruptHandler(cmd.ErrOrStderr(), "Import")
	ctx := handler.HandleInterrupts(cmd.Context())
	defer handler.Stop()

	d, err := openDiary(ctx)
	if err != nil {
		return err
	}
	defer closeDiary(d, &err)

	var opts []importer.Option
	if !noProgress {
		opts = append(opts, importer.WithProgress(cmd.ErrOrStderr()))
	}
	imp := importer.New(d.recorder, d.catalog, opts...)

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, cli.FormatTitle("Importing purchases from "+args[0]))

	report, err := imp.Import(ctx, file)
	if report != nil {
		printImportReport(cmd, report)
	}
	if err != nil {
		if handler.WasInterrupted() && errors.Is(err, ctx.Err()) {
			return nil
		}
		return fmt.Errorf("import failed: %w", err)
	}
	return nil
}

func printImportReport(cmd *cobra.Command, report *importer.Report) {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("Imported %d purchases (%d new items, %d new shops)",
		report.Imported, report.ItemsCreated, report.ShopsCreated)))

	if len(report.Errors) == 0 {
		return
	}
	fmt.Fprintln(out, cli.FormatWarning(fmt.Sprintf("%d rows skipped:", len(report.Errors))))
	for _, rowErr := range report.Errors {
		fmt.Fprintf(out, "  %s\n", rowErr.Error())
	}
}
