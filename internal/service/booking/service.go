// Package booking owns the salon calendar: appointments, stylist breaks,
// holidays and the day view. Every write that depends on a conflict check
// runs under a per-stylist, per-day lock.
package booking

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/salonpos/internal/domain/models"
	"github.com/mamadbah2/salonpos/internal/repository"
	"github.com/mamadbah2/salonpos/internal/scheduling"
	"github.com/mamadbah2/salonpos/internal/service/notifications"
)

var (
	ErrValidation          = errors.New("invalid request")
	ErrAppointmentNotFound = errors.New("appointment not found")
	ErrStylistNotFound     = errors.New("stylist not found")
	ErrBreakNotFound       = errors.New("break not found")
	ErrStylistUnavailable  = errors.New("stylist is not available on this day")
	ErrSlotBooked          = errors.New("stylist already has an appointment at this time")
	ErrBreakConflict       = errors.New("time overlaps the stylist's schedule")
	ErrInvalidTransition   = errors.New("invalid appointment status transition")
)

// Store is the persistence the booking service needs.
type Store interface {
	InsertAppointment(ctx context.Context, a models.Appointment) error
	UpdateAppointment(ctx context.Context, a models.Appointment) error
	GetAppointment(ctx context.Context, id string) (models.Appointment, error)
	ListAppointments(ctx context.Context, from, to time.Time) ([]models.Appointment, error)
	ListStylistAppointments(ctx context.Context, stylistID string, from, to time.Time) ([]models.Appointment, error)

	InsertStylist(ctx context.Context, st models.Stylist) error
	GetStylist(ctx context.Context, id string) (models.Stylist, error)
	ListStylists(ctx context.Context) ([]models.Stylist, error)
	SaveBreaks(ctx context.Context, stylistID string, breaks []models.Break) error
	AddHoliday(ctx context.Context, stylistID string, h models.Holiday) error
	RemoveHoliday(ctx context.Context, stylistID, date string) error
	SetStylistAvailability(ctx context.Context, stylistID string, available bool) error

	InsertClient(ctx context.Context, c models.Client) error
	GetClient(ctx context.Context, id string) (models.Client, error)
	FindClientByPhone(ctx context.Context, phone string) (models.Client, error)
	GetService(ctx context.Context, id string) (models.Service, error)
}

// Locker serializes conflict-checked writes.
type Locker interface {
	Acquire(ctx context.Context, key string) (func(), error)
}

// Service implements the booking operations.
type Service struct {
	store    Store
	locker   Locker
	notifier notifications.Notifier
	settings scheduling.Settings
	logger   *zap.Logger
	now      func() time.Time
}

// NewService wires the booking service. notifier may be nil.
func NewService(store Store, locker Locker, notifier notifications.Notifier, settings scheduling.Settings, logger *zap.Logger) *Service {
	if settings.Location == nil {
		settings.Location = scheduling.DefaultSettings().Location
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		store:    store,
		locker:   locker,
		notifier: notifier,
		settings: settings,
		logger:   logger,
		now:      time.Now,
	}
}

func validationError(msg string) error {
	return fmt.Errorf("%w: %s", ErrValidation, msg)
}

func lockKey(stylistID string, day time.Time, loc *time.Location) string {
	return fmt.Sprintf("stylist:%s:%s", stylistID, day.In(loc).Format(models.HolidayLayout))
}

// lockStylists takes the day lock of every stylist in a fixed order and
// returns a func releasing all of them. Updates and moves lock only the
// target stylists and day: the slots an appointment leaves behind are only
// freed, and freeing time cannot create a conflict for anyone else.
func (s *Service) lockStylists(ctx context.Context, stylistIDs []string, day time.Time) (func(), error) {
	keys := make([]string, 0, len(stylistIDs))
	for _, id := range stylistIDs {
		keys = append(keys, lockKey(id, day, s.settings.Location))
	}
	sort.Strings(keys)

	releases := make([]func(), 0, len(keys))
	releaseAll := func() {
		for i := len(releases) - 1; i >= 0; i-- {
			releases[i]()
		}
	}
	for _, key := range keys {
		release, err := s.locker.Acquire(ctx, key)
		if err != nil {
			releaseAll()
			return nil, fmt.Errorf("lock %s: %w", key, err)
		}
		releases = append(releases, release)
	}
	return releaseAll, nil
}

func (s *Service) dayBounds(t time.Time) (time.Time, time.Time) {
	start := scheduling.StartOfDay(t, s.settings.Location)
	return start, start.AddDate(0, 0, 1)
}

func (s *Service) loadStylist(ctx context.Context, id string) (models.Stylist, error) {
	st, err := s.store.GetStylist(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return st, fmt.Errorf("%w: %s", ErrStylistNotFound, id)
	}
	return st, err
}

func (s *Service) loadAppointment(ctx context.Context, id string) (models.Appointment, error) {
	a, err := s.store.GetAppointment(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return a, fmt.Errorf("%w: %s", ErrAppointmentNotFound, id)
	}
	return a, err
}

// notify sends one message per client on the appointment. Failures are logged
// and never undo the write.
func (s *Service) notify(ctx context.Context, kind models.NotificationKind, appt models.Appointment, previous *time.Time) {
	if s.notifier == nil {
		return
	}
	for _, clientID := range appt.Clients() {
		target := appt
		target.ClientID = clientID
		target.ClientName = ""

		notice, err := notifications.BuildNotice(ctx, s.store, target)
		if err != nil {
			s.logger.Warn("could not build appointment notice", zap.String("appointment_id", appt.ID), zap.Error(err))
			continue
		}
		notice.PreviousStart = previous
		notice.Reason = appt.Reason

		if err := s.notifier.NotifyAppointment(ctx, kind, notice); err != nil {
			s.logger.Warn("appointment notice not delivered",
				zap.String("appointment_id", appt.ID),
				zap.String("client_id", clientID),
				zap.String("kind", string(kind)),
				zap.Error(err))
		}
	}
}

func uniqueIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
