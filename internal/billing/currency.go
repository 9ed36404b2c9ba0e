package billing

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// DefaultCurrency is used for records that carry no currency code.
const DefaultCurrency = "EUR"

// CurrencyTotals maps a currency code to a summed amount. Records in
// different currencies are never added together.
type CurrencyTotals map[string]float64

// CurrencyAmount is one entry of CurrencyTotals in display order.
type CurrencyAmount struct {
	Currency string  `json:"currency"`
	Amount   float64 `json:"amount"`
}

// Entries returns the totals sorted by currency code.
func (c CurrencyTotals) Entries() []CurrencyAmount {
	out := make([]CurrencyAmount, 0, len(c))
	for cur, amt := range c {
		out = append(out, CurrencyAmount{Currency: cur, Amount: amt})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Currency < out[j].Currency })
	return out
}

// totalizer accumulates exact per-currency sums.
type totalizer struct {
	fallback string
	sums     map[string]decimal.Decimal
}

func newTotalizer(fallback string) *totalizer {
	if fallback == "" {
		fallback = DefaultCurrency
	}
	return &totalizer{fallback: fallback, sums: make(map[string]decimal.Decimal)}
}

func (t *totalizer) add(currency string, amount float64) {
	code := strings.ToUpper(strings.TrimSpace(currency))
	if code == "" {
		code = t.fallback
	}
	t.sums[code] = t.sums[code].Add(finite(amount))
}

func (t *totalizer) result() CurrencyTotals {
	out := make(CurrencyTotals, len(t.sums))
	for code, sum := range t.sums {
		out[code] = sum.Round(2).InexactFloat64()
	}
	return out
}

// SumByCurrency sums amount(item) per currency(item), defaulting missing
// codes to fallback. Non-finite amounts count as zero.
func SumByCurrency[T any](items []T, amount func(T) float64, currency func(T) string, fallback string) CurrencyTotals {
	t := newTotalizer(fallback)
	for _, it := range items {
		t.add(currency(it), amount(it))
	}
	return t.result()
}
