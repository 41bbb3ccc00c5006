package main

import (
	"fmt"
	"time"

	"github.com/Veraticus/shop-diary/internal/cli"
	"github.com/Veraticus/shop-diary/internal/purchase"
	"github.com/Veraticus/shop-diary/internal/tui"
	"github.com/Veraticus/shop-diary/internal/tui/themes"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func addCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a purchase",
		Long: `Record a single purchase.

Items and shops are matched by name, ignoring case. A name that does not
match anything creates a new item or shop.

Use --interactive to open the entry form instead.`,
		Example: `  diary add --item Rice --price 62 --qty 5 --unit kg --shop "Siva Traders"
  diary add --interactive`,
		RunE: runAdd,
	}

	cmd.Flags().String("item", "", "Item name")
	cmd.Flags().String("price", "", "Price per unit")
	cmd.Flags().String("qty", purchase.DefaultQuantity, "Quantity")
	cmd.Flags().String("unit", "", "Unit (defaults to the item's unit)")
	cmd.Flags().String("shop", "", "Shop name (optional)")
	cmd.Flags().String("date", "", "Purchase date as YYYY-MM-DD (default: now)")
	cmd.Flags().BoolP("interactive", "i", false, "Open the interactive entry form")
	cmd.Flags().String("theme", "", "Theme for the entry form (default, catppuccin)")

	return cmd
}

func runAdd(cmd *cobra.Command, _ []string) (err error) {
	ctx := cmd.Context()

	d, err := openDiary(ctx)
	if err != nil {
		return err
	}
	defer closeDiary(d, &err)

	if interactive, _ := cmd.Flags().GetBool("interactive"); interactive {
		themeName, _ := cmd.Flags().GetString("theme")
		if themeName == "" {
			themeName = viper.GetString("ui.theme")
		}
		return tui.RunEntry(ctx, tui.EntryConfig{
			Committer: d.recorder,
			Lister:    d.catalog,
			Theme:     themes.ByName(themeName),
		})
	}

	itemText, _ := cmd.Flags().GetString("item")
	priceText, _ := cmd.Flags().GetString("price")
	qtyText, _ := cmd.Flags().GetString("qty")
	unit, _ := cmd.Flags().GetString("unit")
	shopText, _ := cmd.Flags().GetString("shop")
	dateText, _ := cmd.Flags().GetString("date")

	date := time.Now()
	if dateText != "" {
		date, err = time.ParseInLocation(time.DateOnly, dateText, time.Local)
		if err != nil {
			return fmt.Errorf("invalid date %q: expected YYYY-MM-DD", dateText)
		}
	}

	items, err := d.catalog.Items(ctx)
	if err != nil {
		return err
	}
	shops, err := d.catalog.Shops(ctx)
	if err != nil {
		return err
	}

	form := purchase.NewForm()
	if _, match := purchase.ResolveItem(itemText, items); match != nil {
		form.SelectItem(*match)
	} else {
		form.SetItemText(itemText)
	}
	if unit != "" {
		form.SetUnit(unit)
	}
	form.SetShopText(shopText)
	form.SetPriceText(priceText)
	form.SetQuantityText(qtyText)

	candidate, err := form.Candidate(items, shops, date)
	if err != nil {
		return err
	}

	result, err := d.recorder.Commit(ctx, candidate)
	if err != nil {
		return fmt.Errorf("failed to save purchase: %w", err)
	}

	txn := result.Transaction
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("Recorded %s: %g %s × ₹%s = ₹%s",
		result.Item.Name,
		txn.Quantity,
		txn.Unit,
		purchase.FormatAmount(txn.PricePerUnit),
		purchase.FormatAmount(txn.TotalCost))))
	if diff, ok := purchase.PriceDiff(txn.PricePerUnit, candidate.LastPrice); ok {
		fmt.Fprintf(out, "  %s  %+.2f since ₹%s\n",
			cli.FormatTrend(txn.PriceTrend), diff, purchase.FormatAmount(*candidate.LastPrice))
	}
	if result.ItemCreated {
		fmt.Fprintln(out, cli.FormatInfo("New item: "+result.Item.Name))
	}
	if result.ShopCreated {
		fmt.Fprintln(out, cli.FormatInfo("New shop: "+result.Shop.Name))
	}

	return nil
}
