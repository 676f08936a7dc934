package pos

import (
	"bytes"
	"context"
	"fmt"
	"strconv"

	"github.com/jung-kurt/gofpdf"
)

// Receipt renders an order as an A5 PDF.
func (s *Service) Receipt(ctx context.Context, orderID string) ([]byte, error) {
	order, err := s.loadOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	pdf := gofpdf.New("P", "mm", "A5", "")
	pdf.SetMargins(10, 10, 10)
	pdf.AddPage()
	// The core fonts are cp1252, so amounts are prefixed with "Rs." instead of the rupee sign.
	money := func(v float64) string { return "Rs. " + strconv.FormatFloat(v, 'f', 2, 64) }

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, 9, s.salon.Name, "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 9)
	pdf.CellFormat(0, 5, "Receipt "+order.ID, "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 5, order.CreatedAt.In(s.loc).Format("02 Jan 2006 03:04 PM"), "", 1, "C", false, 0, "")
	pdf.Ln(3)

	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(0, 6, "Client: "+order.ClientName, "", 1, "L", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(70, 7, "Item", "B", 0, "L", false, 0, "")
	pdf.CellFormat(15, 7, "Qty", "B", 0, "R", false, 0, "")
	pdf.CellFormat(0, 7, "Amount", "B", 1, "R", false, 0, "")

	pdf.SetFont("Arial", "", 10)
	for _, item := range order.Services {
		qty := item.Quantity
		if qty <= 0 {
			qty = 1
		}
		pdf.CellFormat(70, 6, item.Name, "", 0, "L", false, 0, "")
		pdf.CellFormat(15, 6, strconv.Itoa(qty), "", 0, "R", false, 0, "")
		pdf.CellFormat(0, 6, money(item.Price*float64(qty)), "", 1, "R", false, 0, "")
	}
	pdf.Ln(2)

	summary := []struct {
		label string
		value float64
	}{
		{"Subtotal", order.Subtotal},
		{fmt.Sprintf("GST (%.0f%%)", s.gstRate*100), order.Tax},
		{"Discount", -order.Discount},
		{"Total", order.Total},
	}
	for _, row := range summary {
		if row.label == "Total" {
			pdf.SetFont("Arial", "B", 11)
		}
		pdf.CellFormat(85, 6, row.label, "T", 0, "R", false, 0, "")
		pdf.CellFormat(0, 6, money(row.value), "T", 1, "R", false, 0, "")
	}

	pdf.Ln(3)
	pdf.SetFont("Arial", "", 9)
	for _, p := range order.Payments {
		pdf.CellFormat(0, 5, fmt.Sprintf("%s  %s  %s", p.PaymentMethod, money(p.Amount), p.TransactionID), "", 1, "L", false, 0, "")
	}
	if order.PendingAmount > 0 {
		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(0, 6, "Balance due: "+money(order.PendingAmount), "", 1, "L", false, 0, "")
	}

	pdf.Ln(4)
	pdf.SetFont("Arial", "I", 9)
	pdf.CellFormat(0, 5, "Thank you for visiting "+s.salon.Name, "", 1, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render receipt %s: %w", orderID, err)
	}
	return buf.Bytes(), nil
}
