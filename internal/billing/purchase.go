package billing

import (
	"github.com/shopspring/decimal"

	"github.com/mamadbah2/salonpos/internal/domain/models"
)

// PurchaseBreakdown holds the unrounded GST split of a stock purchase.
type PurchaseBreakdown struct {
	MRPExclGST   decimal.Decimal
	CostPerUnit  decimal.Decimal
	TaxableValue decimal.Decimal
	GSTAmount    decimal.Decimal
	CGST         decimal.Decimal
	SGST         decimal.Decimal
	IGST         decimal.Decimal
	InvoiceValue decimal.Decimal
}

// ComputePurchase derives the invoice figures for an intra-state purchase.
// Out-of-range inputs are clamped: negative amounts and quantities become
// zero and the discount is held within 0-100%.
func ComputePurchase(mrpInclGST, discountPct, gstPct float64, qty int) PurchaseBreakdown {
	one := decimal.NewFromInt(1)

	mrp := decimal.Max(decimal.NewFromFloat(mrpInclGST), decimal.Zero)
	gst := decimal.Max(decimal.NewFromFloat(gstPct), decimal.Zero).Div(hundred)
	disc := decimal.Min(decimal.Max(decimal.NewFromFloat(discountPct), decimal.Zero), hundred).Div(hundred)
	if qty < 0 {
		qty = 0
	}

	excl := mrp.Div(one.Add(gst))
	cost := excl.Mul(one.Sub(disc))
	taxable := cost.Mul(decimal.NewFromInt(int64(qty)))
	gstAmount := taxable.Mul(gst)
	half := gstAmount.Div(decimal.NewFromInt(2))

	return PurchaseBreakdown{
		MRPExclGST:   excl,
		CostPerUnit:  cost,
		TaxableValue: taxable,
		GSTAmount:    gstAmount,
		CGST:         half,
		SGST:         half,
		IGST:         decimal.Zero,
		InvoiceValue: taxable.Add(gstAmount),
	}
}

// PurchaseRecord builds a stored purchase from its inputs with every derived
// figure rounded to two decimals.
func PurchaseRecord(in models.PurchaseInput) models.PurchaseRecord {
	b := ComputePurchase(in.MRPInclGST, in.DiscountOnPurchasePercentage, in.GSTPercentage, in.PurchaseQty)
	return models.PurchaseRecord{
		Date:                         in.Date,
		ProductID:                    in.ProductID,
		ProductName:                  in.ProductName,
		HSNCode:                      in.HSNCode,
		Vendor:                       in.Vendor,
		InvoiceNo:                    in.InvoiceNo,
		PurchaseQty:                  in.PurchaseQty,
		MRPInclGST:                   in.MRPInclGST,
		DiscountOnPurchasePercentage: in.DiscountOnPurchasePercentage,
		GSTPercentage:                in.GSTPercentage,
		MRPExclGST:                   round2(b.MRPExclGST),
		PurchaseCostPerUnitExGST:     round2(b.CostPerUnit),
		TaxableValue:                 round2(b.TaxableValue),
		IGST:                         round2(b.IGST),
		CGST:                         round2(b.CGST),
		SGST:                         round2(b.SGST),
		InvoiceValue:                 round2(b.InvoiceValue),
	}
}

func round2(d decimal.Decimal) float64 {
	f, _ := d.Round(2).Float64()
	return f
}
