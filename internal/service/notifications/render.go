package notifications

import (
	"fmt"
	"strings"

	"github.com/mamadbah2/salonpos/internal/domain/models"
)

const (
	dateLayout = "Mon, 02 Jan 2006"
	timeLayout = "03:04 PM"
)

// Render builds the message body for kind.
func (s *MetaWhatsAppService) Render(kind models.NotificationKind, n models.AppointmentNotice) (string, error) {
	start := n.Start.In(s.loc)
	details := fmt.Sprintf("Date: %s\nTime: %s\nServices: %s\nStylist: %s\nAmount: ₹%.2f",
		start.Format(dateLayout),
		start.Format(timeLayout),
		joinOr(n.Services, "-"),
		joinOr(n.Stylists, "-"),
		n.Amount)

	var b strings.Builder
	switch kind {
	case models.NotifyConfirmation:
		fmt.Fprintf(&b, "*Appointment Confirmed*\n\nDear %s,\n\nYour appointment at *%s* is confirmed.\n\n%s\n\n", n.ClientName, s.salon.Name, details)
		b.WriteString("Please arrive 10 minutes early. Cancel at least 2 hours in advance if needed.\n")
	case models.NotifyRescheduled:
		fmt.Fprintf(&b, "*Appointment Rescheduled*\n\nDear %s,\n\nYour appointment at *%s* has been moved.\n\n", n.ClientName, s.salon.Name)
		if n.PreviousStart != nil {
			prev := n.PreviousStart.In(s.loc)
			fmt.Fprintf(&b, "Previously: %s at %s\n\n", prev.Format(dateLayout), prev.Format(timeLayout))
		}
		fmt.Fprintf(&b, "%s\n", details)
	case models.NotifyCancelled:
		reason := n.Reason
		if reason == "" {
			reason = "Scheduling conflict"
		}
		fmt.Fprintf(&b, "*Appointment Cancelled*\n\nDear %s,\n\nYour appointment at *%s* has been cancelled.\n\n%s\n\nReason: %s\n", n.ClientName, s.salon.Name, details, reason)
	case models.NotifyReminder:
		when := "tomorrow"
		if n.ReminderType == models.Reminder2h {
			when = "in 2 hours"
		}
		fmt.Fprintf(&b, "*Appointment Reminder*\n\nDear %s,\n\nThis is a reminder of your appointment at *%s* %s.\n\n%s\n", n.ClientName, s.salon.Name, when, details)
		if n.ReminderType == models.Reminder2h {
			b.WriteString("\nPlease confirm your attendance by replying YES.\n")
		}
	default:
		return "", fmt.Errorf("unknown notification kind %q", kind)
	}

	if s.cfg.BusinessPhone != "" {
		fmt.Fprintf(&b, "\nQueries: %s", s.cfg.BusinessPhone)
	}
	fmt.Fprintf(&b, "\nBooking ID: %s", n.AppointmentID)
	return b.String(), nil
}

func joinOr(items []string, fallback string) string {
	if len(items) == 0 {
		return fallback
	}
	return strings.Join(items, ", ")
}
