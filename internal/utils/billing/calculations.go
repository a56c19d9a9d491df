// Package billing holds the pure fee/VAT arithmetic shared by services and
// repositories so every caller computes invoice totals the same way.
package billing

import (
	"fmt"

	"github.com/safinah-app/clearance_billing_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// FeeLine is the minimal input for totals computation: one fee line as
// entered by the user or expanded from a preset.
type FeeLine struct {
	Description string
	FeeCategory domain.FeeCategory
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
}

// Totals is the derived money state of an invoice or statement.
type Totals struct {
	Subtotal    decimal.Decimal
	TaxableBase decimal.Decimal
	VATAmount   decimal.Decimal
	Total       decimal.Decimal
	LineTotals  []decimal.Decimal // Per input line, same order
}

// ComputeTotals derives subtotal, VAT, and total from fee lines and a flat
// discount:
//
//	subtotal    = Σ quantity_i * unitPrice_i
//	taxableBase = max(subtotal - discount, 0)
//	vatAmount   = round(taxableBase * rate, 2)   (round half-up, applied once)
//	total       = taxableBase + vatAmount
//
// The zero floor on taxableBase is a deliberate clamp; every other bad
// input (negative quantity, price, or discount, unknown category) is a
// validation error, never silently corrected. All arithmetic stays in
// decimal form, so there is no float drift to accumulate.
func ComputeTotals(lines []FeeLine, discount decimal.Decimal, rate decimal.Decimal) (Totals, error) {
	if len(lines) == 0 {
		return Totals{}, fmt.Errorf("at least one fee line is required")
	}
	if discount.IsNegative() {
		return Totals{}, fmt.Errorf("discount must not be negative, got %s", discount)
	}

	subtotal := decimal.Zero
	lineTotals := make([]decimal.Decimal, len(lines))
	for i, line := range lines {
		if line.Quantity.IsNegative() {
			return Totals{}, fmt.Errorf("quantity must not be negative for line %d (%s)", i, line.Description)
		}
		if line.UnitPrice.IsNegative() {
			return Totals{}, fmt.Errorf("unit price must not be negative for line %d (%s)", i, line.Description)
		}
		if !domain.ValidFeeCategory(line.FeeCategory) {
			return Totals{}, fmt.Errorf("unknown fee category %q for line %d", line.FeeCategory, i)
		}
		lineTotals[i] = line.Quantity.Mul(line.UnitPrice)
		subtotal = subtotal.Add(lineTotals[i])
	}

	taxableBase := subtotal.Sub(discount)
	if taxableBase.IsNegative() {
		taxableBase = decimal.Zero
	}

	// decimal.Round rounds half away from zero, which is half-up for the
	// non-negative amounts we deal in. Rounding happens exactly once.
	vatAmount := taxableBase.Mul(rate).Round(2)

	return Totals{
		Subtotal:    subtotal,
		TaxableBase: taxableBase,
		VATAmount:   vatAmount,
		Total:       taxableBase.Add(vatAmount),
		LineTotals:  lineTotals,
	}, nil
}

// LinesFromPreset expands a preset bundle into fee lines, preserving the
// bundle's order.
func LinesFromPreset(preset []domain.PresetLine) []FeeLine {
	lines := make([]FeeLine, len(preset))
	for i, p := range preset {
		lines[i] = FeeLine{
			Description: p.Description,
			FeeCategory: p.FeeCategory,
			Quantity:    p.Quantity,
			UnitPrice:   p.UnitPrice,
		}
	}
	return lines
}
