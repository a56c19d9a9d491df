// Package numerals renders monetary amounts for printed documents: digit
// glyph selection (Western vs Arabic-Indic) and the spelled-out Arabic
// words (tafqit) that appear on legal invoices. Everything here is pure and
// deterministic.
package numerals

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var arabicIndicDigits = map[rune]rune{
	'0': '٠', '1': '١', '2': '٢', '3': '٣', '4': '٤',
	'5': '٥', '6': '٦', '7': '٧', '8': '٨', '9': '٩',
	'.': '٫', // Arabic decimal separator
	',': '٬', // Arabic thousands separator
}

// ToArabicIndic converts Western-Arabic digits (and numeric separators) in s
// to Arabic-Indic glyphs. Non-numeric runes pass through unchanged.
func ToArabicIndic(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if mapped, ok := arabicIndicDigits[r]; ok {
			b.WriteRune(mapped)
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// FormatAmount renders an amount with two fraction digits in the glyphs of
// the target locale. Locale only ever selects glyphs; it never changes the
// numeric value.
func FormatAmount(amount decimal.Decimal, locale string) string {
	fixed := amount.StringFixed(2)
	if strings.HasPrefix(locale, "ar") {
		return ToArabicIndic(fixed)
	}
	return fixed
}

var arUnits = []string{
	"", "واحد", "اثنان", "ثلاثة", "أربعة", "خمسة",
	"ستة", "سبعة", "ثمانية", "تسعة", "عشرة",
	"أحد عشر", "اثنا عشر", "ثلاثة عشر", "أربعة عشر", "خمسة عشر",
	"ستة عشر", "سبعة عشر", "ثمانية عشر", "تسعة عشر",
}

var arTens = []string{
	"", "", "عشرون", "ثلاثون", "أربعون", "خمسون",
	"ستون", "سبعون", "ثمانون", "تسعون",
}

var arHundreds = []string{
	"", "مائة", "مائتان", "ثلاثمائة", "أربعمائة", "خمسمائة",
	"ستمائة", "سبعمائة", "ثمانمائة", "تسعمائة",
}

// scale words: singular, dual, plural (3..10)
var arScales = []struct {
	singular string
	dual     string
	plural   string
}{
	{"", "", ""},
	{"ألف", "ألفان", "آلاف"},
	{"مليون", "مليونان", "ملايين"},
	{"مليار", "ملياران", "مليارات"},
}

// maxSpellable is the largest value IntToArabicWords handles: just under a
// trillion, which comfortably covers the billions the documents require.
const maxSpellable = 1_000_000_000_000 - 1

// threeDigitsToArabic spells a 1..999 group.
func threeDigitsToArabic(n int64) string {
	var parts []string
	if h := n / 100; h > 0 {
		parts = append(parts, arHundreds[h])
	}
	rest := n % 100
	switch {
	case rest == 0:
	case rest < 20:
		parts = append(parts, arUnits[rest])
	default:
		unit := rest % 10
		ten := rest / 10
		if unit > 0 {
			// Units precede tens in Arabic: "خمسة وعشرون".
			parts = append(parts, arUnits[unit]+" و"+arTens[ten])
		} else {
			parts = append(parts, arTens[ten])
		}
	}
	return strings.Join(parts, " و")
}

// groupWithScale spells a group value together with its scale word,
// following Arabic number agreement (singular, dual, 3-10 plural).
func groupWithScale(n int64, scale int) string {
	if scale == 0 {
		return threeDigitsToArabic(n)
	}
	s := arScales[scale]
	switch {
	case n == 1:
		return s.singular
	case n == 2:
		return s.dual
	case n >= 3 && n <= 10:
		return threeDigitsToArabic(n) + " " + s.plural
	default:
		return threeDigitsToArabic(n) + " " + s.singular
	}
}

// IntToArabicWords spells a non-negative integer in Arabic words. Values
// outside [0, maxSpellable] and negatives fall back to digit form.
func IntToArabicWords(n int64) string {
	if n < 0 || n > maxSpellable {
		return fmt.Sprintf("%d", n)
	}
	if n == 0 {
		return "صفر"
	}

	// Split into thousands groups, least significant first.
	var groups []int64
	for n > 0 {
		groups = append(groups, n%1000)
		n /= 1000
	}

	var parts []string
	for scale := len(groups) - 1; scale >= 0; scale-- {
		if groups[scale] == 0 {
			continue
		}
		parts = append(parts, groupWithScale(groups[scale], scale))
	}
	return strings.Join(parts, " و")
}

// AmountInArabicWords spells a non-negative monetary amount in Arabic,
// e.g. "مائة وخمسة وعشرون ريال وخمسون هللة فقط لا غير". The amount is
// rounded to two fraction digits first, the same precision used everywhere
// else; unit and subunit are the currency names (e.g. "ريال" / "هللة").
func AmountInArabicWords(amount decimal.Decimal, unit, subunit string) string {
	if amount.IsNegative() {
		// Negative amounts never appear on documents; keep output total.
		amount = amount.Abs()
	}
	rounded := amount.Round(2)
	whole := rounded.IntPart()
	fraction := rounded.Sub(decimal.NewFromInt(whole)).Mul(decimal.NewFromInt(100)).IntPart()

	var b strings.Builder
	b.WriteString(IntToArabicWords(whole))
	b.WriteString(" ")
	b.WriteString(unit)
	if fraction > 0 {
		b.WriteString(" و")
		b.WriteString(IntToArabicWords(fraction))
		b.WriteString(" ")
		b.WriteString(subunit)
	}
	// Customary closing on Arabic financial documents ("only, no more").
	b.WriteString(" فقط لا غير")
	return b.String()
}
