package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/Veraticus/shop-diary/internal/model"
	"github.com/Veraticus/shop-diary/internal/purchase"
)

const dateLayout = "2006-01-02"

func money(v float64) string {
	return "₹" + purchase.FormatAmount(v)
}

// WriteHistory prints the per-item price history.
func WriteHistory(w io.Writer, rows []purchase.ItemSummary) error {
	if len(rows) == 0 {
		_, err := fmt.Fprintln(w, FormatInfo("No items found"))
		return err
	}

	var b strings.Builder
	b.WriteString(TableHeaderStyle.Render(fmt.Sprintf("%-24s %-10s %-12s %-12s %s", "ITEM", "UNIT", "LAST PRICE", "LAST BOUGHT", "TREND")))
	b.WriteString("\n")
	for _, row := range rows {
		last, bought := "-", "-"
		if row.Item.HasPriceHistory() {
			last = money(*row.Item.LastPrice)
		}
		if row.Item.LastPurchasedDate != nil {
			bought = row.Item.LastPurchasedDate.Local().Format(dateLayout)
		}
		fmt.Fprintf(&b, "%-24s %-10s %-12s %-12s %s\n", row.Item.Name, row.Item.Unit, last, bought, FormatTrend(row.Trend))
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// WriteShops prints the shop list.
func WriteShops(w io.Writer, shops []model.Shop) error {
	if len(shops) == 0 {
		_, err := fmt.Fprintln(w, FormatInfo("No shops recorded yet"))
		return err
	}

	var b strings.Builder
	b.WriteString(TableHeaderStyle.Render("SHOP"))
	b.WriteString("\n")
	for _, shop := range shops {
		b.WriteString(shop.Name + "\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// WriteTransactions prints recent purchases with item and shop names.
func WriteTransactions(w io.Writer, txns []model.Transaction, itemNames, shopNames map[string]string) error {
	if len(txns) == 0 {
		_, err := fmt.Fprintln(w, FormatInfo("No purchases recorded yet"))
		return err
	}

	var b strings.Builder
	b.WriteString(TableHeaderStyle.Render(fmt.Sprintf("%-12s %-24s %-20s %12s %10s %12s %s",
		"DATE", "ITEM", "SHOP", "PRICE", "QTY", "TOTAL", "TREND")))
	b.WriteString("\n")
	var total float64
	for _, txn := range txns {
		shop := "-"
		if txn.HasShop() {
			shop = shopNames[txn.ShopID]
		}
		item := itemNames[txn.ItemID]
		if item == "" {
			item = txn.ItemID
		}
		qty := fmt.Sprintf("%g %s", txn.Quantity, txn.Unit)
		fmt.Fprintf(&b, "%-12s %-24s %-20s %12s %10s %12s %s\n",
			txn.Date.Local().Format(dateLayout), item, shop, money(txn.PricePerUnit), qty, money(txn.TotalCost), FormatTrend(txn.PriceTrend))
		total += txn.TotalCost
	}
	b.WriteString("\n")
	b.WriteString(BoldStyle.Render(fmt.Sprintf("%d purchases, %s spent", len(txns), money(total))))
	b.WriteString("\n")

	_, err := io.WriteString(w, b.String())
	return err
}
