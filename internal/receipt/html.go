package receipt

import (
	"bytes"
	"fmt"
	"html/template"

	"tokopos/internal/models"

	"github.com/shopspring/decimal"
)

var funcs = template.FuncMap{
	"money": func(d decimal.Decimal) string { return d.StringFixed(2) },
	"percent": func(d decimal.Decimal) string {
		return d.Shift(2).String() + "%"
	},
	"time":  FormatTime,
	"deref": func(d *decimal.Decimal) decimal.Decimal { return *d },
}

var htmlTemplate = template.Must(template.New("receipt").Funcs(funcs).Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Receipt {{.Order.ID}}</title>
<style>
body { font-family: monospace; width: 320px; margin: 0 auto; }
table { width: 100%; border-collapse: collapse; }
td.num { text-align: right; }
.header, .footer { text-align: center; }
hr { border: 0; border-top: 1px dashed #000; }
</style>
</head>
<body>
<div class="header">
{{- with .Outlet}}
<h2>{{.Name}}</h2>
{{- if .Address}}<div>{{.Address}}</div>{{end}}
{{- if .Phone}}<div>Tel. {{.Phone}}</div>{{end}}
{{- else}}
<h2>RECEIPT</h2>
{{- end}}
</div>
<hr>
<div>Order: {{.Order.ID}}</div>
<div>Date: {{time .Order.CreatedAt}}</div>
<div>Cashier: {{with .Cashier}}{{.Username}}{{else}}N/A{{end}}</div>
{{- if .Order.CustomerID}}
<div>Customer: {{.Order.CustomerID}}</div>
{{- end}}
<div>Status: {{.Order.Status}}</div>
<hr>
<table>
{{- range .Items}}
<tr><td colspan="2">{{.ProductName}}</td></tr>
<tr><td>{{.Quantity}} x {{money .UnitPrice}}</td><td class="num">{{money .LineTotal}}</td></tr>
{{- end}}
</table>
<hr>
<table>
<tr><td>Subtotal</td><td class="num">{{money .Totals.Subtotal}}</td></tr>
<tr><td>Tax ({{percent .Totals.TaxRate}})</td><td class="num">{{money .Totals.Tax}}</td></tr>
<tr><td><strong>TOTAL</strong></td><td class="num"><strong>{{money .Totals.Total}}</strong></td></tr>
{{- with .Payment}}
<tr><td>Paid ({{.Method}})</td><td class="num">{{money $.Totals.Paid}}</td></tr>
{{- if $.Totals.Change}}
<tr><td>Change</td><td class="num">{{money (deref $.Totals.Change)}}</td></tr>
{{- end}}
{{- end}}
</table>
{{- if .Payment}}
<div>Paid at: {{time .Payment.PaidAt}}</div>
{{- else}}
<div>Payment: UNPAID</div>
{{- end}}
<hr>
<div class="footer">Thank you for your purchase!</div>
</body>
</html>
`))

// HTML renders the printable receipt page.
func HTML(data models.BillData) (string, error) {
	var buf bytes.Buffer
	if err := htmlTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render receipt: %w", err)
	}
	return buf.String(), nil
}
