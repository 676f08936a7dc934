package models

import "time"

// AppointmentStatus enumerates the lifecycle states of an appointment.
type AppointmentStatus string

const (
	AppointmentScheduled AppointmentStatus = "scheduled"
	AppointmentCompleted AppointmentStatus = "completed"
	AppointmentCancelled AppointmentStatus = "cancelled"
)

// CanTransitionTo reports whether the status may move to next.
// Completed and cancelled appointments are terminal.
func (s AppointmentStatus) CanTransitionTo(next AppointmentStatus) bool {
	if s != AppointmentScheduled {
		return false
	}
	return next == AppointmentCompleted || next == AppointmentCancelled
}

// Appointment is a booking on the salon calendar. Multi-client, multi-stylist
// and multi-service bookings keep a primary id plus the full id sets.
type Appointment struct {
	ID         string            `bson:"_id" json:"id"`
	ClientID   string            `bson:"client_id" json:"client_id"`
	StylistID  string            `bson:"stylist_id" json:"stylist_id"`
	ServiceID  string            `bson:"service_id" json:"service_id"`
	ClientIDs  []string          `bson:"client_ids" json:"client_ids"`
	StylistIDs []string          `bson:"stylist_ids" json:"stylist_ids"`
	ServiceIDs []string          `bson:"service_ids" json:"service_ids"`
	ClientName string            `bson:"client_name" json:"client_name"`
	StartTime  time.Time         `bson:"start_time" json:"start_time"`
	EndTime    time.Time         `bson:"end_time" json:"end_time"`
	Status     AppointmentStatus `bson:"status" json:"status"`
	Paid       bool              `bson:"paid" json:"paid"`
	Notes      string            `bson:"notes,omitempty" json:"notes,omitempty"`
	Reason     string            `bson:"cancel_reason,omitempty" json:"cancel_reason,omitempty"`
	CreatedAt  time.Time         `bson:"created_at" json:"created_at"`
	UpdatedAt  time.Time         `bson:"updated_at" json:"updated_at"`
}

// Clients returns the primary client followed by the other clients on the
// appointment, without duplicates or blanks.
func (a Appointment) Clients() []string {
	seen := make(map[string]struct{}, len(a.ClientIDs)+1)
	out := make([]string, 0, len(a.ClientIDs)+1)
	for _, id := range append([]string{a.ClientID}, a.ClientIDs...) {
		if _, ok := seen[id]; ok || id == "" {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// InvolvesStylist reports whether the stylist works on this appointment.
func (a Appointment) InvolvesStylist(stylistID string) bool {
	if a.StylistID == stylistID {
		return true
	}
	for _, id := range a.StylistIDs {
		if id == stylistID {
			return true
		}
	}
	return false
}

// ClientEntry is one client row on the booking form. Entries are addressed
// by EntryID so edits never depend on slice position.
type ClientEntry struct {
	EntryID    string   `json:"entry_id"`
	ClientID   string   `json:"client_id,omitempty"`
	ClientName string   `json:"client_name"`
	Phone      string   `json:"phone,omitempty"`
	Email      string   `json:"email,omitempty"`
	ServiceIDs []string `json:"service_ids"`
	StylistIDs []string `json:"stylist_ids"`
}

// IsNewClient reports whether the entry refers to a client that does not exist yet.
func (e ClientEntry) IsNewClient() bool {
	return e.ClientID == ""
}

// AppointmentRequest is the payload for creating or editing an appointment.
type AppointmentRequest struct {
	Entries   []ClientEntry `json:"client_entries" binding:"required"`
	StartTime time.Time     `json:"start_time" binding:"required"`
	EndTime   time.Time     `json:"end_time" binding:"required"`
	Notes     string        `json:"notes"`
}

// MoveRequest carries a drag-and-drop target.
type MoveRequest struct {
	StylistID string    `json:"stylist_id" binding:"required"`
	StartTime time.Time `json:"start_time" binding:"required"`
}
