package models

import "time"

// PurchaseInput holds the user-entered fields of a stock purchase.
type PurchaseInput struct {
	Date                         time.Time `json:"date"`
	ProductID                    string    `json:"product_id"`
	ProductName                  string    `json:"product_name" binding:"required"`
	HSNCode                      string    `json:"hsn_code"`
	PurchaseQty                  int       `json:"purchase_qty"`
	MRPInclGST                   float64   `json:"mrp_incl_gst"`
	DiscountOnPurchasePercentage float64   `json:"discount_on_purchase_percentage"`
	GSTPercentage                float64   `json:"gst_percentage"`
	Vendor                       string    `json:"vendor"`
	InvoiceNo                    string    `json:"invoice_no"`
}

// PurchaseRecord is a stored purchase. Every derived field is computed from
// the input fields on write.
type PurchaseRecord struct {
	ID                           string    `bson:"_id" json:"id"`
	Date                         time.Time `bson:"date" json:"date"`
	ProductID                    string    `bson:"product_id,omitempty" json:"product_id,omitempty"`
	ProductName                  string    `bson:"product_name" json:"product_name"`
	HSNCode                      string    `bson:"hsn_code,omitempty" json:"hsn_code,omitempty"`
	Vendor                       string    `bson:"vendor,omitempty" json:"vendor,omitempty"`
	InvoiceNo                    string    `bson:"invoice_no,omitempty" json:"invoice_no,omitempty"`
	PurchaseQty                  int       `bson:"purchase_qty" json:"purchase_qty"`
	MRPInclGST                   float64   `bson:"mrp_incl_gst" json:"mrp_incl_gst"`
	MRPExclGST                   float64   `bson:"mrp_excl_gst" json:"mrp_excl_gst"`
	DiscountOnPurchasePercentage float64   `bson:"discount_on_purchase_percentage" json:"discount_on_purchase_percentage"`
	GSTPercentage                float64   `bson:"gst_percentage" json:"gst_percentage"`
	PurchaseCostPerUnitExGST     float64   `bson:"purchase_cost_per_unit_ex_gst" json:"purchase_cost_per_unit_ex_gst"`
	TaxableValue                 float64   `bson:"taxable_value" json:"taxable_value"`
	IGST                         float64   `bson:"igst" json:"igst"`
	CGST                         float64   `bson:"cgst" json:"cgst"`
	SGST                         float64   `bson:"sgst" json:"sgst"`
	InvoiceValue                 float64   `bson:"invoice_value" json:"invoice_value"`
	CreatedAt                    time.Time `bson:"created_at" json:"created_at"`
}
