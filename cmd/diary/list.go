package main

import (
	"github.com/Veraticus/shop-diary/internal/cli"
	"github.com/Veraticus/shop-diary/internal/purchase"
	"github.com/spf13/cobra"
)

func itemsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "items [search]",
		Short: "Show items with their last price and trend",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			ctx := cmd.Context()
			d, err := openDiary(ctx)
			if err != nil {
				return err
			}
			defer closeDiary(d, &err)

			var search string
			if len(args) > 0 {
				search = args[0]
			}
			rows, err := d.catalog.History(ctx, search)
			if err != nil {
				return err
			}
			return cli.WriteHistory(cmd.OutOrStdout(), rows)
		},
	}
}

func shopsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "shops [search]",
		Short: "List shops",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			ctx := cmd.Context()
			d, err := openDiary(ctx)
			if err != nil {
				return err
			}
			defer closeDiary(d, &err)

			shops, err := d.catalog.Shops(ctx)
			if err != nil {
				return err
			}
			if len(args) > 0 {
				shops = purchase.MatchShops(args[0], shops)
			}
			return cli.WriteShops(cmd.OutOrStdout(), shops)
		},
	}
}

func historyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent purchases",
		RunE:  runHistory,
	}
	cmd.Flags().IntP("limit", "n", purchase.DefaultRecentLimit, "Number of purchases to show")
	return cmd
}

func runHistory(cmd *cobra.Command, _ []string) (err error) {
	ctx := cmd.Context()
	limit, _ := cmd.Flags().GetInt("limit")

	d, err := openDiary(ctx)
	if err != nil {
		return err
	}
	defer closeDiary(d, &err)

	txns, err := d.catalog.RecentTransactions(ctx, limit)
	if err != nil {
		return err
	}
	items, err := d.catalog.Items(ctx)
	if err != nil {
		return err
	}
	shops, err := d.catalog.Shops(ctx)
	if err != nil {
		return err
	}

	return cli.WriteTransactions(cmd.OutOrStdout(), txns, purchase.ItemNames(items), purchase.ShopNames(shops))
}
