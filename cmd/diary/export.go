package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/Veraticus/shop-diary/internal/cli"
	"github.com/Veraticus/shop-diary/internal/config"
	"github.com/Veraticus/shop-diary/internal/sheets"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the diary to external services",
	}

	cmd.AddCommand(exportSheetsCmd())

	return cmd
}

func exportSheetsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sheets",
		Short: "Write purchases and items to Google Sheets",
		Long: `Write the whole diary to a Google Sheets spreadsheet.

The spreadsheet gets a Purchases tab (newest first, with a total) and an
Items tab (last price and trend per item). Existing tab contents are
replaced. Run 'diary auth sheets' first if you use OAuth2.`,
		RunE: runExportSheets,
	}

	cmd.Flags().String("spreadsheet-id", "", "Spreadsheet to write to (overrides config)")

	return cmd
}

func runExportSheets(cmd *cobra.Command, _ []string) (err error) {
	ctx := cmd.Context()

	if id, _ := cmd.Flags().GetString("spreadsheet-id"); id != "" {
		viper.Set("sheets.spreadsheet_id", id)
	}
	sheetsConfig, err := config.LoadSheetsConfig(viper.GetViper())
	if err != nil {
		return fmt.Errorf("google sheets is not configured: %w", err)
	}

	d, err := openDiary(ctx)
	if err != nil {
		return err
	}
	defer closeDiary(d, &err)

	writer, err := sheets.NewWriter(ctx, *sheetsConfig, slog.Default())
	if err != nil {
		return fmt.Errorf("failed to create sheets writer: %w", err)
	}

	data, err := sheets.Export(ctx, d.store, writer, time.Now())
	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("Exported %d purchases and %d items", len(data.Purchases), len(data.Items))))
	fmt.Fprintf(out, "  https://docs.google.com/spreadsheets/d/%s\n", writer.SpreadsheetID())
	return nil
}
