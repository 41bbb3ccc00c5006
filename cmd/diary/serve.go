package main

import (
	"fmt"
	"log/slog"

	"github.com/Veraticus/shop-diary/internal/api"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the diary over a JSON HTTP API",
		Long: `Serve the diary over a JSON HTTP API.

Endpoints:
  GET  /api/items?q=          items, optionally filtered by name
  GET  /api/shops?q=          shops, optionally filtered by name
  GET  /api/transactions?limit=
  GET  /api/history?q=        items with last price and trend
  POST /api/purchases         record a purchase`,
		RunE: runServe,
	}

	cmd.Flags().String("addr", "", "Listen address (default from server.addr)")
	_ = viper.BindPFlag("server.addr", cmd.Flags().Lookup("addr"))

	return cmd
}

func runServe(cmd *cobra.Command, _ []string) (err error) {
	ctx := cmd.Context()

	d, err := openDiary(ctx)
	if err != nil {
		return err
	}
	defer closeDiary(d, &err)

	server := api.NewServer(d.recorder, d.catalog, api.WithLogger(slog.Default()))
	if err := server.Listen(ctx, d.settings.ServerAddr); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}
