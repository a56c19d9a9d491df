package billing_test

import (
	"testing"

	"github.com/safinah-app/clearance_billing_app/internal/core/domain"
	"github.com/safinah-app/clearance_billing_app/internal/utils/billing"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func line(qty, price string) billing.FeeLine {
	return billing.FeeLine{
		Description: "fee",
		FeeCategory: domain.FeeServiceFee,
		Quantity:    dec(qty),
		UnitPrice:   dec(price),
	}
}

func TestComputeTotalsBasic(t *testing.T) {
	// 2 x 50.00 + 1 x 25.00, no discount, 15% VAT.
	totals, err := billing.ComputeTotals(
		[]billing.FeeLine{line("2", "50.00"), line("1", "25.00")},
		decimal.Zero,
		domain.VATRate,
	)
	require.NoError(t, err)

	assert.True(t, totals.Subtotal.Equal(dec("125.00")), "subtotal %s", totals.Subtotal)
	assert.True(t, totals.TaxableBase.Equal(dec("125.00")))
	assert.True(t, totals.VATAmount.Equal(dec("18.75")), "vat %s", totals.VATAmount)
	assert.True(t, totals.Total.Equal(dec("143.75")), "total %s", totals.Total)
	require.Len(t, totals.LineTotals, 2)
	assert.True(t, totals.LineTotals[0].Equal(dec("100.00")))
	assert.True(t, totals.LineTotals[1].Equal(dec("25.00")))
}

func TestComputeTotalsDiscountExceedsSubtotal(t *testing.T) {
	// Discount larger than the subtotal clamps the taxable base to zero;
	// VAT and total follow.
	totals, err := billing.ComputeTotals(
		[]billing.FeeLine{line("2", "50.00"), line("1", "25.00")},
		dec("150.00"),
		domain.VATRate,
	)
	require.NoError(t, err)

	assert.True(t, totals.Subtotal.Equal(dec("125.00")))
	assert.True(t, totals.TaxableBase.IsZero(), "taxable base %s", totals.TaxableBase)
	assert.True(t, totals.VATAmount.IsZero())
	assert.True(t, totals.Total.IsZero())
}

func TestComputeTotalsDiscountEqualsSubtotal(t *testing.T) {
	totals, err := billing.ComputeTotals([]billing.FeeLine{line("1", "80.00")}, dec("80.00"), domain.VATRate)
	require.NoError(t, err)
	assert.True(t, totals.TaxableBase.IsZero())
	assert.True(t, totals.VATAmount.IsZero())
	assert.False(t, totals.VATAmount.IsNegative())
}

func TestComputeTotalsRoundingHalfUp(t *testing.T) {
	// 33.43 * 0.15 = 5.0145 -> 5.01; 33.50 * 0.15 = 5.025 -> 5.03 (half-up).
	totals, err := billing.ComputeTotals([]billing.FeeLine{line("1", "33.43")}, decimal.Zero, domain.VATRate)
	require.NoError(t, err)
	assert.True(t, totals.VATAmount.Equal(dec("5.01")), "vat %s", totals.VATAmount)

	totals, err = billing.ComputeTotals([]billing.FeeLine{line("1", "33.50")}, decimal.Zero, domain.VATRate)
	require.NoError(t, err)
	assert.True(t, totals.VATAmount.Equal(dec("5.03")), "vat %s", totals.VATAmount)
}

func TestComputeTotalsDeterministic(t *testing.T) {
	lines := []billing.FeeLine{line("3", "19.99"), line("0.5", "123.45"), line("7", "0.01")}

	first, err := billing.ComputeTotals(lines, dec("10.00"), domain.VATRate)
	require.NoError(t, err)
	second, err := billing.ComputeTotals(lines, dec("10.00"), domain.VATRate)
	require.NoError(t, err)

	assert.True(t, first.Subtotal.Equal(second.Subtotal))
	assert.True(t, first.VATAmount.Equal(second.VATAmount))
	assert.True(t, first.Total.Equal(second.Total))
}

func TestComputeTotalsRejectsBadInput(t *testing.T) {
	_, err := billing.ComputeTotals(nil, decimal.Zero, domain.VATRate)
	assert.Error(t, err, "empty line set")

	_, err = billing.ComputeTotals([]billing.FeeLine{line("-1", "10.00")}, decimal.Zero, domain.VATRate)
	assert.Error(t, err, "negative quantity")

	_, err = billing.ComputeTotals([]billing.FeeLine{line("1", "-10.00")}, decimal.Zero, domain.VATRate)
	assert.Error(t, err, "negative unit price")

	_, err = billing.ComputeTotals([]billing.FeeLine{line("1", "10.00")}, dec("-5"), domain.VATRate)
	assert.Error(t, err, "negative discount")

	bad := line("1", "10.00")
	bad.FeeCategory = "NO_SUCH_CATEGORY"
	_, err = billing.ComputeTotals([]billing.FeeLine{bad}, decimal.Zero, domain.VATRate)
	assert.Error(t, err, "unknown fee category")
}

func TestComputeTotalsInvariantHolds(t *testing.T) {
	totals, err := billing.ComputeTotals(
		[]billing.FeeLine{line("2", "50.00"), line("3", "12.34")},
		dec("20.00"),
		domain.VATRate,
	)
	require.NoError(t, err)
	// total = subtotal - discount + vat, given discount < subtotal.
	want := totals.Subtotal.Sub(dec("20.00")).Add(totals.VATAmount)
	assert.True(t, totals.Total.Equal(want))
}

func TestLinesFromPreset(t *testing.T) {
	preset := domain.QuickFeePresets["BASIC_CLEARANCE"]
	require.NotEmpty(t, preset)

	lines := billing.LinesFromPreset(preset)
	require.Len(t, lines, len(preset))
	assert.Equal(t, preset[0].Description, lines[0].Description)

	// Preset lines run through the same computation as manual ones.
	_, err := billing.ComputeTotals(lines, decimal.Zero, domain.VATRate)
	assert.NoError(t, err)
}
