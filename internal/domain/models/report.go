package models

import "time"

// DailySalesReport aggregates a day's POS activity. Money fields are rupees.
type DailySalesReport struct {
	Date        time.Time          `bson:"date" json:"date"`
	OrderCount  int                `bson:"order_count" json:"order_count"`
	GrossSales  float64            `bson:"gross_sales" json:"gross_sales"`
	Tax         float64            `bson:"tax" json:"tax"`
	Discount    float64            `bson:"discount" json:"discount"`
	Collected   float64            `bson:"collected" json:"collected"`
	Pending     float64            `bson:"pending" json:"pending"`
	Cancelled   int                `bson:"cancelled" json:"cancelled"`
	ByMethod    map[string]float64 `bson:"by_method" json:"by_method"`
	SyncedRows  int                `bson:"synced_rows" json:"synced_rows"`
	GeneratedAt time.Time          `bson:"created_at" json:"created_at"`
}

// ReminderType distinguishes the two reminder horizons.
type ReminderType string

const (
	Reminder24h ReminderType = "24h"
	Reminder2h  ReminderType = "2h"
)

// ReminderLog records a reminder sent to one client of an appointment so it
// is not repeated.
type ReminderLog struct {
	ID            string       `bson:"_id" json:"id"`
	AppointmentID string       `bson:"appointment_id" json:"appointment_id"`
	ClientID      string       `bson:"client_id" json:"client_id"`
	ReminderType  ReminderType `bson:"reminder_type" json:"reminder_type"`
	Phone         string       `bson:"phone" json:"phone"`
	SentAt        time.Time    `bson:"sent_at" json:"sent_at"`
}
