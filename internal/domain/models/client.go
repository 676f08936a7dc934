package models

import (
	"encoding/json"
	"time"
)

// Client is a salon customer. Running balances are kept in paise so
// repeated increments never drift.
type Client struct {
	ID               string     `bson:"_id" json:"id"`
	FullName         string     `bson:"full_name" json:"full_name"`
	Phone            string     `bson:"phone" json:"phone"`
	Email            string     `bson:"email,omitempty" json:"email,omitempty"`
	Gender           string     `bson:"gender,omitempty" json:"gender,omitempty"`
	BirthDate        string     `bson:"birth_date,omitempty" json:"birth_date,omitempty"`
	AnniversaryDate  string     `bson:"anniversary_date,omitempty" json:"anniversary_date,omitempty"`
	Notes            string     `bson:"notes,omitempty" json:"notes,omitempty"`
	TotalSpentPaise  int64      `bson:"total_spent_paise" json:"total_spent_paise"`
	PendingPaise     int64      `bson:"pending_payment_paise" json:"pending_payment_paise"`
	AppointmentCount int        `bson:"appointment_count" json:"appointment_count"`
	LastVisit        *time.Time `bson:"last_visit,omitempty" json:"last_visit,omitempty"`
	CreatedAt        time.Time  `bson:"created_at" json:"created_at"`
}

// TotalSpent is the rupee value of TotalSpentPaise.
func (c Client) TotalSpent() float64 { return float64(c.TotalSpentPaise) / 100 }

// PendingPayment is the rupee value of PendingPaise.
func (c Client) PendingPayment() float64 { return float64(c.PendingPaise) / 100 }

// MarshalJSON adds the rupee balances next to the paise fields.
func (c Client) MarshalJSON() ([]byte, error) {
	type plain Client
	return json.Marshal(struct {
		plain
		TotalSpent     float64 `json:"total_spent"`
		PendingPayment float64 `json:"pending_payment"`
	}{plain(c), c.TotalSpent(), c.PendingPayment()})
}

// PendingPaymentRecord is one settlement against a client's BNPL balance.
type PendingPaymentRecord struct {
	ID            string        `bson:"_id" json:"id"`
	ClientID      string        `bson:"client_id" json:"client_id"`
	Amount        float64       `bson:"amount" json:"amount"`
	PaymentMethod PaymentMethod `bson:"payment_method" json:"payment_method"`
	PaymentDate   time.Time     `bson:"payment_date" json:"payment_date"`
	Notes         string        `bson:"notes,omitempty" json:"notes,omitempty"`
}

// ClientRequest is the payload for creating a client.
type ClientRequest struct {
	FullName string `json:"full_name" binding:"required"`
	Phone    string `json:"phone" binding:"required"`
	Email    string `json:"email"`
	Gender   string `json:"gender"`
	Notes    string `json:"notes"`
}

// PendingPaymentRequest settles part of a client's BNPL balance.
type PendingPaymentRequest struct {
	Amount        float64       `json:"amount" binding:"required"`
	PaymentMethod PaymentMethod `json:"payment_method" binding:"required"`
	Notes         string        `json:"notes"`
}

// ImportResult summarises a client spreadsheet import.
type ImportResult struct {
	Imported int      `json:"imported"`
	Skipped  int      `json:"skipped"`
	Errors   []string `json:"errors"`
}
