package services

import (
	"bytes"
	"html/template"
	"time"

	"github.com/safinah-app/clearance_billing_app/internal/core/domain"
	"github.com/safinah-app/clearance_billing_app/internal/utils/numerals"
)

// invoiceTemplate is the printable invoice layout fed to the PDF renderer.
// Self contained on purpose: Gotenberg receives a single index.html with no
// external assets.
var invoiceTemplate = template.Must(template.New("invoice").Parse(`<!DOCTYPE html>
<html lang="{{.Lang}}" dir="{{.Dir}}">
<head>
<meta charset="utf-8">
<style>
  body { font-family: "Noto Naskh Arabic", "Helvetica Neue", sans-serif; margin: 2.5em; color: #1a1a1a; }
  header { display: flex; justify-content: space-between; border-bottom: 2px solid #1a1a1a; padding-bottom: 1em; }
  h1 { font-size: 1.4em; margin: 0; }
  .meta, .party { margin-top: 1em; font-size: 0.95em; }
  table { width: 100%; border-collapse: collapse; margin-top: 1.5em; }
  th, td { border: 1px solid #999; padding: 0.4em 0.6em; text-align: start; }
  th { background: #f0f0f0; }
  td.num { text-align: end; }
  .totals { margin-top: 1em; width: 40%; margin-inline-start: auto; }
  .totals td { border: none; padding: 0.2em 0.6em; }
  .totals tr.grand td { border-top: 2px solid #1a1a1a; font-weight: bold; }
  .words { margin-top: 1.5em; font-style: italic; }
</style>
</head>
<body>
<header>
  <div>
    <h1>{{.CompanyName}}</h1>
    <div class="meta">{{.TaxLabel}}: {{.CompanyTaxNo}}<br>{{.CompanyAddress}}</div>
  </div>
  <div class="meta">
    <strong>{{.Title}}</strong><br>
    {{.NumberLabel}}: {{.InvoiceNumber}}<br>
    {{.IssueLabel}}: {{.IssueDate}}<br>
    {{.DueLabel}}: {{.DueDate}}
  </div>
</header>
<div class="party">
  <strong>{{.ClientLabel}}:</strong> {{.ClientName}}<br>
  {{if .ClientTaxNo}}{{.TaxLabel}}: {{.ClientTaxNo}}<br>{{end}}
  {{.ClientAddress}}
</div>
<table>
  <tr><th>{{.DescLabel}}</th><th>{{.QtyLabel}}</th><th>{{.PriceLabel}}</th><th>{{.LineTotalLabel}}</th></tr>
  {{range .Lines}}
  <tr><td>{{.Description}}</td><td class="num">{{.Quantity}}</td><td class="num">{{.UnitPrice}}</td><td class="num">{{.LineTotal}}</td></tr>
  {{end}}
</table>
<table class="totals">
  <tr><td>{{.SubtotalLabel}}</td><td class="num">{{.Subtotal}}</td></tr>
  <tr><td>{{.DiscountLabel}}</td><td class="num">{{.Discount}}</td></tr>
  <tr><td>{{.VATLabel}}</td><td class="num">{{.VATAmount}}</td></tr>
  <tr class="grand"><td>{{.TotalLabel}}</td><td class="num">{{.Total}} {{.Currency}}</td></tr>
</table>
{{if .AmountInWords}}<div class="words">{{.AmountInWords}}</div>{{end}}
{{if .Notes}}<div class="meta">{{.Notes}}</div>{{end}}
</body>
</html>`))

type invoiceDocLine struct {
	Description string
	Quantity    string
	UnitPrice   string
	LineTotal   string
}

type invoiceDocData struct {
	Lang, Dir string

	Title, NumberLabel, IssueLabel, DueLabel, ClientLabel, TaxLabel    string
	DescLabel, QtyLabel, PriceLabel, LineTotalLabel                    string
	SubtotalLabel, DiscountLabel, VATLabel, TotalLabel                 string
	CompanyName, CompanyTaxNo, CompanyAddress                          string
	ClientName, ClientTaxNo, ClientAddress                             string
	InvoiceNumber, IssueDate, DueDate, Currency, Notes, AmountInWords  string
	Subtotal, Discount, VATAmount, Total                               string
	Lines                                                              []invoiceDocLine
}

var invoiceLabels = map[string]map[string]string{
	"ar": {
		"title": "فاتورة ضريبية", "number": "رقم الفاتورة", "issue": "تاريخ الإصدار", "due": "تاريخ الاستحقاق",
		"client": "العميل", "tax": "الرقم الضريبي", "desc": "البيان", "qty": "الكمية", "price": "سعر الوحدة",
		"lineTotal": "المجموع", "subtotal": "المجموع الفرعي", "discount": "الخصم", "vat": "ضريبة القيمة المضافة",
		"total": "الإجمالي",
	},
	"en": {
		"title": "TAX INVOICE", "number": "Invoice No", "issue": "Issue Date", "due": "Due Date",
		"client": "Client", "tax": "Tax Reg No", "desc": "Description", "qty": "Qty", "price": "Unit Price",
		"lineTotal": "Line Total", "subtotal": "Subtotal", "discount": "Discount", "vat": "VAT (15%)",
		"total": "Total",
	},
}

// buildInvoiceHTML renders the printable invoice. Arabic output uses
// Arabic-Indic digits throughout and spells the grand total out in words.
func buildInvoiceHTML(invoice *domain.Invoice, items []domain.InvoiceItem, settings *domain.CompanySettings, client *domain.Client, locale string) (string, error) {
	if locale != "ar" && locale != "en" {
		locale = "en"
	}
	labels := invoiceLabels[locale]

	dir := "ltr"
	if locale == "ar" {
		dir = "rtl"
	}

	fmtDate := func(t time.Time) string {
		s := t.Format("2006-01-02")
		if locale == "ar" {
			return numerals.ToArabicIndic(s)
		}
		return s
	}

	companyName := settings.LegalName
	if companyName == "" {
		companyName = invoice.CompanyID
	}

	data := invoiceDocData{
		Lang: locale, Dir: dir,
		Title: labels["title"], NumberLabel: labels["number"], IssueLabel: labels["issue"], DueLabel: labels["due"],
		ClientLabel: labels["client"], TaxLabel: labels["tax"], DescLabel: labels["desc"], QtyLabel: labels["qty"],
		PriceLabel: labels["price"], LineTotalLabel: labels["lineTotal"], SubtotalLabel: labels["subtotal"],
		DiscountLabel: labels["discount"], VATLabel: labels["vat"], TotalLabel: labels["total"],
		CompanyName: companyName, CompanyTaxNo: settings.TaxRegistrationNo, CompanyAddress: settings.Address,
		ClientName: client.Name, ClientTaxNo: client.TaxRegistrationNo, ClientAddress: client.Address,
		InvoiceNumber: invoice.InvoiceNumber,
		IssueDate:     fmtDate(invoice.IssueDate),
		DueDate:       fmtDate(invoice.DueDate),
		Currency:      invoice.CurrencyCode,
		Notes:         invoice.Notes,
		Subtotal:      numerals.FormatAmount(invoice.Subtotal, locale),
		Discount:      numerals.FormatAmount(invoice.Discount, locale),
		VATAmount:     numerals.FormatAmount(invoice.VATAmount, locale),
		Total:         numerals.FormatAmount(invoice.Total, locale),
	}
	if invoice.InvoiceNumber == "" {
		data.InvoiceNumber = "—"
	} else if locale == "ar" {
		data.InvoiceNumber = numerals.ToArabicIndic(invoice.InvoiceNumber)
	}

	if locale == "ar" && invoice.CurrencyCode == "SAR" {
		data.AmountInWords = numerals.AmountInArabicWords(invoice.Total, "ريال سعودي", "هللة")
	}

	data.Lines = make([]invoiceDocLine, len(items))
	for i, item := range items {
		data.Lines[i] = invoiceDocLine{
			Description: item.Description,
			Quantity:    numerals.FormatAmount(item.Quantity, locale),
			UnitPrice:   numerals.FormatAmount(item.UnitPrice, locale),
			LineTotal:   numerals.FormatAmount(item.LineTotal, locale),
		}
	}

	var buf bytes.Buffer
	if err := invoiceTemplate.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
