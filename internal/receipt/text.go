package receipt

import (
	"fmt"
	"strings"
	"time"

	"tokopos/internal/models"
)

const width = 40

// timeLayout renders stored timestamps. Only stored values are printed so two
// renders of the same data are byte-identical.
const timeLayout = "2006-01-02 15:04:05"

// Text renders a fixed-width plain text receipt.
func Text(data models.BillData) string {
	var lines []string

	lines = append(lines, strings.Repeat("═", width))
	if data.Outlet != nil {
		lines = append(lines, center(data.Outlet.Name))
		if data.Outlet.Address != "" {
			lines = append(lines, center(data.Outlet.Address))
		}
		if data.Outlet.Phone != "" {
			lines = append(lines, center("Tel. "+data.Outlet.Phone))
		}
	} else {
		lines = append(lines, center("RECEIPT"))
	}
	lines = append(lines, strings.Repeat("═", width))

	lines = append(lines, fmt.Sprintf("Order: %s", short(data.Order.ID)))
	lines = append(lines, fmt.Sprintf("Date: %s", data.Order.CreatedAt.UTC().Format(timeLayout)))
	if data.Cashier != nil {
		lines = append(lines, fmt.Sprintf("Cashier: %s", data.Cashier.Username))
	} else {
		lines = append(lines, "Cashier: N/A")
	}
	if data.Order.CustomerID != "" {
		lines = append(lines, fmt.Sprintf("Customer: %s", short(data.Order.CustomerID)))
	}
	lines = append(lines, fmt.Sprintf("Status: %s", data.Order.Status))
	lines = append(lines, strings.Repeat("─", width))

	for _, item := range data.Items {
		lines = append(lines, item.ProductName)
		lines = append(lines, row(
			fmt.Sprintf("  %d x %s", item.Quantity, item.UnitPrice.StringFixed(2)),
			item.LineTotal.StringFixed(2)))
	}

	t := data.Totals
	lines = append(lines, strings.Repeat("─", width))
	lines = append(lines, row("Subtotal", t.Subtotal.StringFixed(2)))
	lines = append(lines, row(fmt.Sprintf("Tax (%s%%)", t.TaxRate.Shift(2).String()), t.Tax.StringFixed(2)))
	lines = append(lines, row("TOTAL", t.Total.StringFixed(2)))

	if data.Payment != nil {
		lines = append(lines, strings.Repeat("─", width))
		lines = append(lines, row("Paid ("+string(data.Payment.Method)+")", t.Paid.StringFixed(2)))
		if t.Change != nil {
			lines = append(lines, row("Change", t.Change.StringFixed(2)))
		}
		lines = append(lines, fmt.Sprintf("Paid at: %s", data.Payment.PaidAt.UTC().Format(timeLayout)))
	} else {
		lines = append(lines, "Payment: UNPAID")
	}

	lines = append(lines, strings.Repeat("═", width))
	lines = append(lines, center("Thank you for your purchase!"))
	lines = append(lines, strings.Repeat("═", width))

	return strings.Join(lines, "\n")
}

// row left-aligns label and right-aligns value within the receipt width.
func row(label, value string) string {
	pad := width - len([]rune(label)) - len([]rune(value))
	if pad < 1 {
		pad = 1
	}
	return label + strings.Repeat(" ", pad) + value
}

func center(s string) string {
	n := len([]rune(s))
	if n >= width {
		return s
	}
	return strings.Repeat(" ", (width-n)/2) + s
}

func short(id string) string {
	if len(id) > 16 {
		return id[:16] + "..."
	}
	return id
}

// FormatTime is exposed to the HTML template.
func FormatTime(t time.Time) string { return t.UTC().Format(timeLayout) }
