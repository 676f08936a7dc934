package billing

import (
	"github.com/shopspring/decimal"

	"github.com/mamadbah2/salonpos/internal/domain/models"
)

// DefaultGSTRate is the GST applied to non-cash sales.
const DefaultGSTRate = 0.18

// Totals is the priced outcome of an order.
type Totals struct {
	Subtotal Paise
	Tax      Paise
	Discount Paise
	Total    Paise
}

// Leg is one tender in a split payment.
type Leg struct {
	Method models.PaymentMethod
	Amount Paise
}

// LineAmount prices one line. A missing or non-positive quantity counts as
// one and a negative price as zero.
func LineAmount(item models.OrderLineItem) Paise {
	qty := item.Quantity
	if qty <= 0 {
		qty = 1
	}
	price := FromRupees(item.Price)
	if price < 0 {
		price = 0
	}
	return price * Paise(qty)
}

// Subtotal sums every line.
func Subtotal(items []models.OrderLineItem) Paise {
	var sum Paise
	for _, item := range items {
		sum += LineAmount(item)
	}
	return sum
}

// InclusiveTax returns amount*rate/(1+rate) rounded to the whole rupee.
func InclusiveTax(amount Paise, rate float64) Paise {
	if amount <= 0 || rate <= 0 {
		return 0
	}
	r := decimal.NewFromFloat(rate)
	tax := amount.Decimal().Mul(r).Div(r.Add(decimal.NewFromInt(1))).Round(0)
	return FromDecimal(tax)
}

// OrderTotals prices an order settled with a single method. Cash sales carry
// no tax.
func OrderTotals(items []models.OrderLineItem, method models.PaymentMethod, discount Paise, rate float64) Totals {
	subtotal := Subtotal(items)
	var tax Paise
	if method != models.PaymentCash {
		tax = InclusiveTax(subtotal, rate)
	}
	return finish(subtotal, tax, discount)
}

// SplitTotals prices an order settled with several methods. When any leg is
// non-cash the tax is computed once on the combined payment amount.
func SplitTotals(items []models.OrderLineItem, legs []Leg, discount Paise, rate float64) Totals {
	subtotal := Subtotal(items)

	var paid Paise
	nonCash := false
	for _, leg := range legs {
		if leg.Amount <= 0 {
			continue
		}
		paid += leg.Amount
		if leg.Method != models.PaymentCash {
			nonCash = true
		}
	}

	var tax Paise
	if nonCash {
		tax = InclusiveTax(paid, rate)
	}
	return finish(subtotal, tax, discount)
}

func finish(subtotal, tax, discount Paise) Totals {
	if discount < 0 {
		discount = 0
	}
	if discount > subtotal+tax {
		discount = subtotal + tax
	}
	return Totals{
		Subtotal: subtotal,
		Tax:      tax,
		Discount: discount,
		Total:    subtotal + tax - discount,
	}
}
