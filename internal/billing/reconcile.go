package billing

import "github.com/mamadbah2/salonpos/internal/domain/models"

// Tolerance absorbs rounding drift between independently rounded figures.
const Tolerance = Rupee

// Reconciliation is the result of re-evaluating an order's payments.
type Reconciliation struct {
	Paid    Paise
	Pending Paise
	Status  models.OrderStatus
}

// Reconcile recomputes the pending amount and status of an order from the
// full list of payments. Calling it again with the same input gives the same
// result.
func Reconcile(total, subtotal Paise, payments []Paise, previous models.OrderStatus) Reconciliation {
	var paid Paise
	for _, p := range payments {
		paid += p
	}

	pending := total - paid
	if absPaise(paid-subtotal) <= Tolerance {
		pending = 0
	}
	if pending <= Tolerance {
		pending = 0
	}
	if paid >= total {
		pending = 0
	}
	pending = maxPaise(0, pending)

	status := previous
	if pending <= 0 {
		status = models.OrderCompleted
	}
	return Reconciliation{Paid: paid, Pending: pending, Status: status}
}

// PaymentAmounts extracts the paise amounts of stored payments.
func PaymentAmounts(payments []models.PaymentDetail) []Paise {
	out := make([]Paise, 0, len(payments))
	for _, p := range payments {
		out = append(out, FromRupees(p.Amount))
	}
	return out
}
