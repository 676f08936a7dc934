package models

import "time"

// OutboundMessageRequest represents requests to send a message manually via the API.
type OutboundMessageRequest struct {
	To         string `json:"to" binding:"required"`
	Message    string `json:"message" binding:"required"`
	PreviewURL bool   `json:"preview_url"`
}

// NotificationKind enumerates client-facing appointment messages.
type NotificationKind string

const (
	NotifyConfirmation NotificationKind = "confirmation"
	NotifyRescheduled  NotificationKind = "rescheduled"
	NotifyCancelled    NotificationKind = "cancelled"
	NotifyReminder     NotificationKind = "reminder"
)

// AppointmentNotice carries everything a client message needs.
type AppointmentNotice struct {
	AppointmentID string
	ClientName    string
	Phone         string
	Services      []string
	Stylists      []string
	Amount        float64
	Start         time.Time
	PreviousStart *time.Time
	Reason        string
	ReminderType  ReminderType
}
