package billing

import (
	"math"

	"github.com/shopspring/decimal"
)

// LineInput is one editable invoice row before amounts are computed.
type LineInput struct {
	Description string
	Quantity    float64
	UnitPrice   float64
}

// LineTotal is a line with its rounded amount.
type LineTotal struct {
	Description string
	Quantity    float64
	UnitPrice   float64
	Amount      float64
}

// Totals is the result of CalculateTotals.
type Totals struct {
	Lines     []LineTotal
	Subtotal  float64
	TaxAmount float64
	Total     float64
}

// CalculateTotals computes line amounts and invoice totals. Rounding to two
// decimals happens at each stage: per line, on the tax amount and on the
// total. The total never goes below zero.
func CalculateTotals(lines []LineInput, taxPercent, discountAmount float64) Totals {
	out := Totals{Lines: make([]LineTotal, 0, len(lines))}

	subtotal := decimal.Zero
	for _, l := range lines {
		amount := lineAmount(l.Quantity, l.UnitPrice)
		subtotal = subtotal.Add(amount)
		out.Lines = append(out.Lines, LineTotal{
			Description: l.Description,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
			Amount:      amount.InexactFloat64(),
		})
	}

	tax := subtotal.Mul(finite(taxPercent)).Div(decimal.NewFromInt(100)).Round(2)
	total := subtotal.Add(tax).Sub(finite(discountAmount)).Round(2)
	if total.IsNegative() {
		total = decimal.Zero
	}

	out.Subtotal = subtotal.InexactFloat64()
	out.TaxAmount = tax.InexactFloat64()
	out.Total = total.InexactFloat64()
	return out
}

// lineAmount returns round(quantity × unitPrice, 2).
func lineAmount(quantity, unitPrice float64) decimal.Decimal {
	return finite(quantity).Mul(finite(unitPrice)).Round(2)
}

// Round2 rounds x to two decimals. Non-finite input yields 0.
func Round2(x float64) float64 {
	return finite(x).Round(2).InexactFloat64()
}

// VATAmount returns round(amount × ratePct / 100, 2).
func VATAmount(amountExclVat, ratePct float64) float64 {
	return finite(amountExclVat).Mul(finite(ratePct)).Div(decimal.NewFromInt(100)).Round(2).InexactFloat64()
}

// AddAmounts sums values with decimal precision and rounds to two decimals.
func AddAmounts(values ...float64) float64 {
	sum := decimal.Zero
	for _, v := range values {
		sum = sum.Add(finite(v))
	}
	return sum.Round(2).InexactFloat64()
}

func finite(x float64) decimal.Decimal {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return decimal.Zero
	}
	return decimal.NewFromFloat(x)
}
