package models

import "time"

// PaymentMethod enumerates the tenders accepted at the till.
type PaymentMethod string

const (
	PaymentCash       PaymentMethod = "cash"
	PaymentCreditCard PaymentMethod = "credit_card"
	PaymentDebitCard  PaymentMethod = "debit_card"
	PaymentUPI        PaymentMethod = "upi"
	PaymentBNPL       PaymentMethod = "bnpl"
	PaymentMembership PaymentMethod = "membership"
	// PaymentSplit marks an order settled with more than one method.
	PaymentSplit PaymentMethod = "split"
)

// Valid reports whether m is a concrete tender (split excluded).
func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCash, PaymentCreditCard, PaymentDebitCard, PaymentUPI, PaymentBNPL, PaymentMembership:
		return true
	}
	return false
}

// OrderStatus enumerates POS order states.
type OrderStatus string

const (
	OrderCompleted OrderStatus = "completed"
	OrderPending   OrderStatus = "pending"
	OrderCancelled OrderStatus = "cancelled"
)

// LineItemKind discriminates order line items.
type LineItemKind string

const (
	LineService    LineItemKind = "service"
	LineProduct    LineItemKind = "product"
	LineMembership LineItemKind = "membership"
)

// Valid reports whether k is a known line kind.
func (k LineItemKind) Valid() bool {
	return k == LineService || k == LineProduct || k == LineMembership
}

// OrderLineItem is one sold item. Kind is fixed at ingestion and never inferred later.
type OrderLineItem struct {
	Kind      LineItemKind `bson:"kind" json:"kind" binding:"required,oneof=service product membership"`
	ItemID    string       `bson:"item_id" json:"item_id" binding:"required"`
	Name      string       `bson:"name" json:"name"`
	Price     float64      `bson:"price" json:"price"`
	Quantity  int          `bson:"quantity" json:"quantity"`
	StylistID string       `bson:"stylist_id,omitempty" json:"stylist_id,omitempty"`
}

// PaymentDetail is one payment leg applied to an order.
type PaymentDetail struct {
	ID            string        `bson:"id" json:"id"`
	Amount        float64       `bson:"amount" json:"amount"`
	PaymentMethod PaymentMethod `bson:"payment_method" json:"payment_method"`
	PaymentDate   time.Time     `bson:"payment_date" json:"payment_date"`
	TransactionID string        `bson:"transaction_id,omitempty" json:"transaction_id,omitempty"`
	ProcessingFee float64       `bson:"processing_fee,omitempty" json:"processing_fee,omitempty"`
}

// PosOrder is a completed or partially paid sale. Money fields are rupees.
type PosOrder struct {
	ID             string          `bson:"_id" json:"id"`
	ClientID       string          `bson:"client_id,omitempty" json:"client_id,omitempty"`
	ClientName     string          `bson:"client_name" json:"client_name"`
	StylistID      string          `bson:"stylist_id,omitempty" json:"stylist_id,omitempty"`
	AppointmentID  string          `bson:"appointment_id,omitempty" json:"appointment_id,omitempty"`
	IsWalkIn       bool            `bson:"is_walk_in" json:"is_walk_in"`
	Services       []OrderLineItem `bson:"services" json:"services"`
	Subtotal       float64         `bson:"subtotal" json:"subtotal"`
	Tax            float64         `bson:"tax" json:"tax"`
	Discount       float64         `bson:"discount" json:"discount"`
	Total          float64         `bson:"total" json:"total"`
	PaymentMethod  PaymentMethod   `bson:"payment_method" json:"payment_method"`
	Payments       []PaymentDetail `bson:"payments" json:"payments"`
	PendingAmount  float64         `bson:"pending_amount" json:"pending_amount"`
	IsSplitPayment bool            `bson:"is_split_payment" json:"is_split_payment"`
	Status         OrderStatus     `bson:"status" json:"status"`
	CreatedAt      time.Time       `bson:"created_at" json:"created_at"`
	UpdatedAt      time.Time       `bson:"updated_at" json:"updated_at"`
}

// PaymentLeg is a requested split amount for one method.
type PaymentLeg struct {
	PaymentMethod PaymentMethod `json:"payment_method" binding:"required"`
	Amount        float64       `json:"amount"`
}

// OrderRequest is the payload for ringing up a sale.
type OrderRequest struct {
	ClientID          string          `json:"client_id"`
	ClientName        string          `json:"client_name"`
	StylistID         string          `json:"stylist_id"`
	AppointmentID     string          `json:"appointment_id"`
	Items             []OrderLineItem `json:"items" binding:"required,dive"`
	Discount          float64         `json:"discount"`
	PaymentMethod     PaymentMethod   `json:"payment_method"`
	Payments          []PaymentLeg    `json:"payments" binding:"dive"`
	AmountPaid        *float64        `json:"amount_paid"`
	MembershipBalance *float64        `json:"membership_balance"`
}

// AddPaymentRequest appends a payment leg to an existing order.
type AddPaymentRequest struct {
	Amount        float64       `json:"amount" binding:"required"`
	PaymentMethod PaymentMethod `json:"payment_method" binding:"required"`
}
