// Package billing implements POS arithmetic: order totals, GST, split
// payments, pending reconciliation and purchase invoices. All amounts are
// integer paise internally.
package billing

import (
	"github.com/shopspring/decimal"
)

// Paise is an amount of Indian rupees in hundredths.
type Paise int64

// Rupee is one rupee in paise.
const Rupee Paise = 100

var hundred = decimal.NewFromInt(100)

// FromRupees converts a rupee amount to paise, rounding half away from zero.
func FromRupees(r float64) Paise {
	return Paise(decimal.NewFromFloat(r).Mul(hundred).Round(0).IntPart())
}

// FromDecimal converts a rupee decimal to paise.
func FromDecimal(d decimal.Decimal) Paise {
	return Paise(d.Mul(hundred).Round(0).IntPart())
}

// Decimal returns the amount in rupees.
func (p Paise) Decimal() decimal.Decimal {
	return decimal.New(int64(p), -2)
}

// Rupees returns the amount in rupees for storage and JSON.
func (p Paise) Rupees() float64 {
	f, _ := p.Decimal().Float64()
	return f
}

// String renders the amount with two decimals.
func (p Paise) String() string {
	return p.Decimal().StringFixed(2)
}

func maxPaise(a, b Paise) Paise {
	if a > b {
		return a
	}
	return b
}

func absPaise(a Paise) Paise {
	if a < 0 {
		return -a
	}
	return a
}
