package notifications

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mamadbah2/salonpos/internal/domain/models"
	"github.com/mamadbah2/salonpos/internal/repository"
)

// ReminderStore is the storage the reminder sweep needs.
type ReminderStore interface {
	Directory
	ListAppointments(ctx context.Context, from, to time.Time) ([]models.Appointment, error)
	HasReminder(ctx context.Context, appointmentID, clientID string, kind models.ReminderType) (bool, error)
	InsertReminderLog(ctx context.Context, log models.ReminderLog) error
}

const reminderTolerance = 30 * time.Minute

var reminderLeads = []struct {
	kind models.ReminderType
	lead time.Duration
}{
	{models.Reminder24h, 24 * time.Hour},
	{models.Reminder2h, 2 * time.Hour},
}

// Reminders sends 24h and 2h reminders for scheduled appointments.
type Reminders struct {
	store    ReminderStore
	notifier Notifier
	logger   *zap.Logger
	now      func() time.Time
}

// NewReminders wires the reminder sweep.
func NewReminders(store ReminderStore, notifier Notifier, logger *zap.Logger) *Reminders {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reminders{store: store, notifier: notifier, logger: logger, now: time.Now}
}

// ReminderSummary counts what a sweep did.
type ReminderSummary struct {
	Sent    int `json:"sent"`
	Skipped int `json:"skipped"`
	Failed  int `json:"failed"`
}

// Send runs one sweep. Every client on an appointment gets at most one
// reminder of each type.
func (r *Reminders) Send(ctx context.Context) (ReminderSummary, error) {
	var summary ReminderSummary
	now := r.now()

	for _, rl := range reminderLeads {
		target := now.Add(rl.lead)
		appts, err := r.store.ListAppointments(ctx, target.Add(-reminderTolerance), target.Add(reminderTolerance))
		if err != nil {
			return summary, fmt.Errorf("list appointments for %s reminders: %w", rl.kind, err)
		}

		for _, appt := range appts {
			if appt.Status != models.AppointmentScheduled {
				continue
			}
			for _, clientID := range appt.Clients() {
				sent, err := r.remind(ctx, appt, clientID, rl.kind, now)
				switch {
				case err != nil:
					summary.Failed++
					r.logger.Warn("reminder failed",
						zap.String("appointment_id", appt.ID),
						zap.String("client_id", clientID),
						zap.String("type", string(rl.kind)),
						zap.Error(err))
				case sent:
					summary.Sent++
				default:
					summary.Skipped++
				}
			}
		}
	}

	r.logger.Info("reminder sweep finished",
		zap.Int("sent", summary.Sent),
		zap.Int("skipped", summary.Skipped),
		zap.Int("failed", summary.Failed))
	return summary, nil
}

func (r *Reminders) remind(ctx context.Context, appt models.Appointment, clientID string, kind models.ReminderType, now time.Time) (bool, error) {
	done, err := r.store.HasReminder(ctx, appt.ID, clientID, kind)
	if err != nil {
		return false, err
	}
	if done {
		return false, nil
	}

	target := appt
	target.ClientID = clientID
	if clientID != appt.ClientID {
		target.ClientName = ""
	}
	notice, err := BuildNotice(ctx, r.store, target)
	if err != nil {
		return false, err
	}
	if notice.Phone == "" {
		return false, nil
	}
	notice.ReminderType = kind

	if err := r.notifier.NotifyAppointment(ctx, models.NotifyReminder, notice); err != nil {
		return false, err
	}

	err = r.store.InsertReminderLog(ctx, models.ReminderLog{
		ID:            uuid.NewString(),
		AppointmentID: appt.ID,
		ClientID:      clientID,
		ReminderType:  kind,
		Phone:         notice.Phone,
		SentAt:        now,
	})
	if errors.Is(err, repository.ErrDuplicate) {
		return true, nil
	}
	return err == nil, err
}
