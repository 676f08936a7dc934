package billing

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mamadbah2/salonpos/internal/domain/models"
)

// Limits holds per-method caps and fees.
type Limits struct {
	UPIPerTransaction Paise
	BNPLMin           Paise
	BNPLMax           Paise
	CreditCardFeePct  float64
	DebitCardFeePct   float64
	UPIVerifyAbove    Paise
	CardVerifyAbove   Paise
}

// DefaultLimits are the salon's standard payment rules.
var DefaultLimits = Limits{
	UPIPerTransaction: 100000 * Rupee,
	BNPLMin:           500 * Rupee,
	BNPLMax:           50000 * Rupee,
	CreditCardFeePct:  2.5,
	DebitCardFeePct:   1.5,
	UPIVerifyAbove:    10000 * Rupee,
	CardVerifyAbove:   5000 * Rupee,
}

// MethodOrder is the fixed order in which split amounts are evaluated.
var MethodOrder = []models.PaymentMethod{
	models.PaymentCash,
	models.PaymentCreditCard,
	models.PaymentDebitCard,
	models.PaymentUPI,
	models.PaymentBNPL,
	models.PaymentMembership,
}

// distributionPriority prefers tenders that cost the salon least.
var distributionPriority = []models.PaymentMethod{
	models.PaymentMembership,
	models.PaymentCash,
	models.PaymentUPI,
	models.PaymentDebitCard,
	models.PaymentCreditCard,
	models.PaymentBNPL,
}

// SplitValidation reports whether a proposed split can be accepted.
type SplitValidation struct {
	Valid          bool
	Errors         []string
	Warnings       []string
	TotalPaid      Paise
	Remaining      Paise
	ProcessingFees Paise
}

// ValidateSplit checks the requested per-method amounts against the order
// total and method limits. membershipBalance may be nil when unknown.
func ValidateSplit(amounts map[models.PaymentMethod]Paise, total Paise, membershipBalance *Paise, limits Limits) SplitValidation {
	res := SplitValidation{}

	for _, m := range MethodOrder {
		if amounts[m] > 0 {
			res.TotalPaid += amounts[m]
		}
	}
	res.Remaining = total - res.TotalPaid

	if res.TotalPaid <= 0 {
		res.Errors = append(res.Errors, "At least one payment method must be selected with an amount")
	}
	if res.TotalPaid > total {
		res.Errors = append(res.Errors, fmt.Sprintf("Total payment (₹%s) exceeds order amount (₹%s)", res.TotalPaid, total))
	}
	if res.Remaining > 0 {
		res.Warnings = append(res.Warnings, fmt.Sprintf("Payment incomplete. Remaining: ₹%s", res.Remaining))
	}

	for _, m := range MethodOrder {
		amount := amounts[m]
		if amount <= 0 {
			continue
		}
		switch m {
		case models.PaymentUPI:
			if amount > limits.UPIPerTransaction {
				res.Errors = append(res.Errors, fmt.Sprintf("UPI amount (₹%s) exceeds transaction limit (₹%s)", amount, limits.UPIPerTransaction))
			}
		case models.PaymentBNPL:
			if amount < limits.BNPLMin {
				res.Errors = append(res.Errors, fmt.Sprintf("Pay Later minimum amount is ₹%s", limits.BNPLMin))
			}
			if amount > limits.BNPLMax {
				res.Errors = append(res.Errors, fmt.Sprintf("Pay Later amount (₹%s) exceeds maximum limit (₹%s)", amount, limits.BNPLMax))
			}
		case models.PaymentMembership:
			if membershipBalance != nil && amount > *membershipBalance {
				res.Errors = append(res.Errors, fmt.Sprintf("Membership payment (₹%s) exceeds available balance (₹%s)", amount, *membershipBalance))
			}
		}
		res.ProcessingFees += ProcessingFee(m, amount, limits)
	}

	if res.ProcessingFees > 0 {
		res.Warnings = append(res.Warnings, fmt.Sprintf("Processing fees: ₹%s", res.ProcessingFees))
	}

	res.Valid = len(res.Errors) == 0
	return res
}

// ProcessingFee returns the card fee for amount paid with m.
func ProcessingFee(m models.PaymentMethod, amount Paise, limits Limits) Paise {
	var pct float64
	switch m {
	case models.PaymentCreditCard:
		pct = limits.CreditCardFeePct
	case models.PaymentDebitCard:
		pct = limits.DebitCardFeePct
	default:
		return 0
	}
	if amount <= 0 {
		return 0
	}
	fee := decimal.NewFromInt(int64(amount)).Mul(decimal.NewFromFloat(pct)).Div(hundred).Round(0)
	return Paise(fee.IntPart())
}

// ProcessingFees sums the fees of every leg.
func ProcessingFees(amounts map[models.PaymentMethod]Paise, limits Limits) Paise {
	var sum Paise
	for _, m := range MethodOrder {
		sum += ProcessingFee(m, amounts[m], limits)
	}
	return sum
}

// OptimalDistribution spreads total over the available methods. Preferences
// are honoured first; the rest goes to the cheapest method that can take it.
func OptimalDistribution(total Paise, available []models.PaymentMethod, membershipBalance Paise, preferences map[models.PaymentMethod]Paise, limits Limits) map[models.PaymentMethod]Paise {
	out := make(map[models.PaymentMethod]Paise, len(MethodOrder))
	for _, m := range MethodOrder {
		out[m] = 0
	}

	allowed := make(map[models.PaymentMethod]bool, len(available))
	for _, m := range available {
		allowed[m] = true
	}

	remaining := total
	for _, m := range MethodOrder {
		pref := preferences[m]
		if !allowed[m] || pref <= 0 || remaining <= 0 {
			continue
		}
		take := pref
		if take > remaining {
			take = remaining
		}
		out[m] = take
		remaining -= take
	}

	for _, m := range distributionPriority {
		if !allowed[m] || remaining <= 0 {
			continue
		}
		limit := remaining
		switch m {
		case models.PaymentMembership:
			if membershipBalance < limit {
				limit = membershipBalance
			}
		case models.PaymentUPI:
			if limits.UPIPerTransaction < limit {
				limit = limits.UPIPerTransaction
			}
		case models.PaymentBNPL:
			if remaining < limits.BNPLMin {
				continue
			}
			if limits.BNPLMax < limit {
				limit = limits.BNPLMax
			}
		}
		if limit > 0 {
			out[m] += limit
			remaining -= limit
		}
	}
	return out
}

// RequiresVerification reports whether a leg needs staff confirmation.
func RequiresVerification(m models.PaymentMethod, amount Paise, limits Limits) bool {
	switch m {
	case models.PaymentUPI:
		return amount > limits.UPIVerifyAbove
	case models.PaymentCreditCard, models.PaymentDebitCard:
		return amount > limits.CardVerifyAbove
	case models.PaymentBNPL:
		return true
	}
	return false
}

var transactionPrefix = map[models.PaymentMethod]string{
	models.PaymentUPI:        "UPI",
	models.PaymentCreditCard: "CC",
	models.PaymentDebitCard:  "DC",
	models.PaymentCash:       "CASH",
	models.PaymentBNPL:       "BNPL",
	models.PaymentMembership: "MEM",
}

// TransactionID builds a reference for a payment leg.
func TransactionID(m models.PaymentMethod, now time.Time) string {
	prefix, ok := transactionPrefix[m]
	if !ok {
		prefix = "PAY"
	}
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:6])
	return prefix + strconv.FormatInt(now.UnixMilli(), 10) + suffix
}
