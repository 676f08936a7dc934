package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mamadbah2/salonpos/internal/domain/models"
	"github.com/mamadbah2/salonpos/internal/repository"
	"github.com/mamadbah2/salonpos/internal/scheduling"
)

// bookingPlan is a validated appointment request.
type bookingPlan struct {
	start      time.Time
	end        time.Time
	entries    []models.ClientEntry
	stylistIDs []string
	serviceIDs []string
	notes      string
}

func (s *Service) plan(req models.AppointmentRequest) (bookingPlan, error) {
	if len(req.Entries) == 0 {
		return bookingPlan{}, validationError("At least one client is required")
	}
	if req.StartTime.IsZero() || req.EndTime.IsZero() {
		return bookingPlan{}, validationError("Start and end time are required")
	}

	var stylists, services []string
	for _, e := range req.Entries {
		switch {
		case strings.TrimSpace(e.ClientName) == "":
			return bookingPlan{}, validationError("Client name is required")
		case e.IsNewClient() && strings.TrimSpace(e.Phone) == "":
			return bookingPlan{}, validationError("Phone number is required for new clients")
		case len(e.ServiceIDs) == 0:
			return bookingPlan{}, validationError("Please select at least one service")
		case len(e.StylistIDs) == 0:
			return bookingPlan{}, validationError("Please select at least one stylist")
		}
		stylists = append(stylists, e.StylistIDs...)
		services = append(services, e.ServiceIDs...)
	}

	start, end := req.StartTime, req.EndTime
	if end.Before(start) {
		// Overnight booking: the end wall-clock time belongs to the next day.
		end = end.AddDate(0, 0, 1)
	}
	if !end.After(start) {
		return bookingPlan{}, validationError("End time must be after start time")
	}

	return bookingPlan{
		start:      start,
		end:        end,
		entries:    req.Entries,
		stylistIDs: uniqueIDs(stylists),
		serviceIDs: uniqueIDs(services),
		notes:      strings.TrimSpace(req.Notes),
	}, nil
}

// checkStylists verifies every stylist can take [start, end). Callers hold
// the stylists' day locks.
func (s *Service) checkStylists(ctx context.Context, stylistIDs []string, start, end time.Time, skipID string) error {
	from, to := s.dayBounds(start)
	loc := s.settings.Location

	for _, id := range stylistIDs {
		st, err := s.loadStylist(ctx, id)
		if err != nil {
			return err
		}
		if scheduling.OnHoliday(s.settings, st, start) {
			return fmt.Errorf("%w: %s", ErrStylistUnavailable, st.Name)
		}

		appts, err := s.store.ListStylistAppointments(ctx, id, from, to)
		if err != nil {
			return fmt.Errorf("list appointments for stylist %s: %w", id, err)
		}
		if booked, ok := scheduling.SlotBooked(s.settings, id, start, skipID, appts); ok {
			return fmt.Errorf("%w: %s is booked from %s to %s", ErrSlotBooked, st.Name,
				booked.StartTime.In(loc).Format("15:04"), booked.EndTime.In(loc).Format("15:04"))
		}
		if c, ok := scheduling.BreakConflict(s.settings, st.Breaks, start, end); ok {
			return fmt.Errorf("%w: %s is on a break from %s to %s", ErrBreakConflict, st.Name,
				c.Interval.Start.Format("15:04"), c.Interval.End.Format("15:04"))
		}
	}
	return nil
}

// resolveClients returns the client id and display name of every entry,
// creating clients for new entries. A new entry whose phone is already on
// file reuses that client.
func (s *Service) resolveClients(ctx context.Context, entries []models.ClientEntry) ([]string, []string, error) {
	ids := make([]string, 0, len(entries))
	names := make([]string, 0, len(entries))

	for _, e := range entries {
		name := strings.TrimSpace(e.ClientName)
		if !e.IsNewClient() {
			if _, err := s.store.GetClient(ctx, e.ClientID); err != nil {
				if errors.Is(err, repository.ErrNotFound) {
					return nil, nil, validationError(fmt.Sprintf("unknown client %s", e.ClientID))
				}
				return nil, nil, err
			}
			ids = append(ids, e.ClientID)
			names = append(names, name)
			continue
		}

		phone := strings.TrimSpace(e.Phone)
		existing, err := s.store.FindClientByPhone(ctx, phone)
		switch {
		case err == nil:
			ids = append(ids, existing.ID)
			names = append(names, name)
			continue
		case !errors.Is(err, repository.ErrNotFound):
			return nil, nil, fmt.Errorf("find client by phone: %w", err)
		}

		c := models.Client{
			ID:        uuid.NewString(),
			FullName:  name,
			Phone:     phone,
			Email:     strings.TrimSpace(e.Email),
			CreatedAt: s.now(),
		}
		if err := s.store.InsertClient(ctx, c); err != nil {
			return nil, nil, fmt.Errorf("create client %s: %w", name, err)
		}
		s.logger.Info("client created from booking", zap.String("client_id", c.ID))
		ids = append(ids, c.ID)
		names = append(names, name)
	}
	return ids, names, nil
}

// CreateAppointment books a new appointment and confirms it with the clients.
func (s *Service) CreateAppointment(ctx context.Context, req models.AppointmentRequest) (models.Appointment, error) {
	p, err := s.plan(req)
	if err != nil {
		return models.Appointment{}, err
	}

	appt, err := s.createLocked(ctx, p)
	if err != nil {
		return models.Appointment{}, err
	}

	s.logger.Info("appointment booked",
		zap.String("appointment_id", appt.ID),
		zap.Strings("stylist_ids", appt.StylistIDs),
		zap.Time("start", appt.StartTime))
	s.notify(ctx, models.NotifyConfirmation, appt, nil)
	return appt, nil
}

func (s *Service) createLocked(ctx context.Context, p bookingPlan) (models.Appointment, error) {
	release, err := s.lockStylists(ctx, p.stylistIDs, p.start)
	if err != nil {
		return models.Appointment{}, err
	}
	defer release()

	if err := s.checkStylists(ctx, p.stylistIDs, p.start, p.end, ""); err != nil {
		return models.Appointment{}, err
	}

	clientIDs, names, err := s.resolveClients(ctx, p.entries)
	if err != nil {
		return models.Appointment{}, err
	}

	now := s.now()
	appt := models.Appointment{
		ID:         uuid.NewString(),
		ClientID:   clientIDs[0],
		StylistID:  p.stylistIDs[0],
		ServiceID:  p.serviceIDs[0],
		ClientIDs:  uniqueIDs(clientIDs),
		StylistIDs: p.stylistIDs,
		ServiceIDs: p.serviceIDs,
		ClientName: strings.Join(names, ", "),
		StartTime:  p.start,
		EndTime:    p.end,
		Status:     models.AppointmentScheduled,
		Notes:      p.notes,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.store.InsertAppointment(ctx, appt); err != nil {
		return models.Appointment{}, fmt.Errorf("insert appointment: %w", err)
	}
	return appt, nil
}

// UpdateAppointment replaces the clients, services, stylists and times of a
// scheduled appointment.
func (s *Service) UpdateAppointment(ctx context.Context, id string, req models.AppointmentRequest) (models.Appointment, error) {
	p, err := s.plan(req)
	if err != nil {
		return models.Appointment{}, err
	}

	before, after, err := s.updateLocked(ctx, id, p)
	if err != nil {
		return models.Appointment{}, err
	}

	s.logger.Info("appointment updated", zap.String("appointment_id", id))
	if !after.StartTime.Equal(before.StartTime) {
		prev := before.StartTime
		s.notify(ctx, models.NotifyRescheduled, after, &prev)
	}
	return after, nil
}

func (s *Service) updateLocked(ctx context.Context, id string, p bookingPlan) (models.Appointment, models.Appointment, error) {
	release, err := s.lockStylists(ctx, p.stylistIDs, p.start)
	if err != nil {
		return models.Appointment{}, models.Appointment{}, err
	}
	defer release()

	current, err := s.loadAppointment(ctx, id)
	if err != nil {
		return current, current, err
	}
	if current.Status != models.AppointmentScheduled {
		return current, current, fmt.Errorf("%w: %s appointments cannot be edited", ErrInvalidTransition, current.Status)
	}

	if err := s.checkStylists(ctx, p.stylistIDs, p.start, p.end, id); err != nil {
		return current, current, err
	}

	clientIDs, names, err := s.resolveClients(ctx, p.entries)
	if err != nil {
		return current, current, err
	}

	updated := current
	updated.ClientID = clientIDs[0]
	updated.StylistID = p.stylistIDs[0]
	updated.ServiceID = p.serviceIDs[0]
	updated.ClientIDs = uniqueIDs(clientIDs)
	updated.StylistIDs = p.stylistIDs
	updated.ServiceIDs = p.serviceIDs
	updated.ClientName = strings.Join(names, ", ")
	updated.StartTime = p.start
	updated.EndTime = p.end
	updated.Notes = p.notes
	updated.UpdatedAt = s.now()

	if err := s.store.UpdateAppointment(ctx, updated); err != nil {
		return current, current, fmt.Errorf("update appointment: %w", err)
	}
	return current, updated, nil
}

// MoveAppointment drops an appointment onto a new stylist column and start
// time, keeping its duration.
func (s *Service) MoveAppointment(ctx context.Context, id string, req models.MoveRequest) (models.Appointment, error) {
	if req.StylistID == "" || req.StartTime.IsZero() {
		return models.Appointment{}, validationError("stylist and start time are required")
	}

	current, err := s.loadAppointment(ctx, id)
	if err != nil {
		return models.Appointment{}, err
	}
	if current.Status != models.AppointmentScheduled {
		return models.Appointment{}, fmt.Errorf("%w: %s appointments cannot be moved", ErrInvalidTransition, current.Status)
	}

	iv := scheduling.Reschedule(current, req.StartTime)
	stylists := replaceStylist(current, req.StylistID)

	moved, err := s.moveLocked(ctx, id, stylists, iv)
	if err != nil {
		return models.Appointment{}, err
	}

	s.logger.Info("appointment moved",
		zap.String("appointment_id", id),
		zap.String("stylist_id", req.StylistID),
		zap.Time("start", iv.Start))
	if !iv.Start.Equal(current.StartTime) {
		prev := current.StartTime
		s.notify(ctx, models.NotifyRescheduled, moved, &prev)
	}
	return moved, nil
}

func (s *Service) moveLocked(ctx context.Context, id string, stylists []string, iv scheduling.Interval) (models.Appointment, error) {
	release, err := s.lockStylists(ctx, stylists, iv.Start)
	if err != nil {
		return models.Appointment{}, err
	}
	defer release()

	current, err := s.loadAppointment(ctx, id)
	if err != nil {
		return current, err
	}
	if current.Status != models.AppointmentScheduled {
		return current, fmt.Errorf("%w: %s appointments cannot be moved", ErrInvalidTransition, current.Status)
	}
	if err := s.checkStylists(ctx, stylists, iv.Start, iv.End, id); err != nil {
		return current, err
	}

	current.StylistID = stylists[0]
	current.StylistIDs = stylists
	current.StartTime = iv.Start
	current.EndTime = iv.End
	current.UpdatedAt = s.now()
	if err := s.store.UpdateAppointment(ctx, current); err != nil {
		return current, fmt.Errorf("update appointment: %w", err)
	}
	return current, nil
}

// replaceStylist swaps the primary stylist for target, keeping any other
// stylists on the booking.
func replaceStylist(appt models.Appointment, target string) []string {
	ids := appt.StylistIDs
	if len(ids) == 0 {
		ids = []string{appt.StylistID}
	}
	out := []string{target}
	for _, id := range ids {
		if id != appt.StylistID {
			out = append(out, id)
		}
	}
	return uniqueIDs(out)
}

// CancelAppointment cancels a scheduled appointment and tells the clients why.
func (s *Service) CancelAppointment(ctx context.Context, id, reason string) (models.Appointment, error) {
	appt, err := s.transition(ctx, id, models.AppointmentCancelled, func(a *models.Appointment) {
		a.Reason = strings.TrimSpace(reason)
	})
	if err != nil {
		return appt, err
	}
	s.logger.Info("appointment cancelled", zap.String("appointment_id", id), zap.String("reason", appt.Reason))
	s.notify(ctx, models.NotifyCancelled, appt, nil)
	return appt, nil
}

// CompleteAppointment marks a scheduled appointment as done.
func (s *Service) CompleteAppointment(ctx context.Context, id string) (models.Appointment, error) {
	appt, err := s.transition(ctx, id, models.AppointmentCompleted, nil)
	if err == nil {
		s.logger.Info("appointment completed", zap.String("appointment_id", id))
	}
	return appt, err
}

func (s *Service) transition(ctx context.Context, id string, next models.AppointmentStatus, mutate func(*models.Appointment)) (models.Appointment, error) {
	appt, err := s.loadAppointment(ctx, id)
	if err != nil {
		return appt, err
	}
	if !appt.Status.CanTransitionTo(next) {
		return appt, fmt.Errorf("%w: %s to %s", ErrInvalidTransition, appt.Status, next)
	}

	appt.Status = next
	appt.UpdatedAt = s.now()
	if mutate != nil {
		mutate(&appt)
	}
	if err := s.store.UpdateAppointment(ctx, appt); err != nil {
		return appt, fmt.Errorf("update appointment: %w", err)
	}
	return appt, nil
}

// GetAppointment loads one appointment.
func (s *Service) GetAppointment(ctx context.Context, id string) (models.Appointment, error) {
	return s.loadAppointment(ctx, id)
}

// ListAppointments returns the appointments starting on day.
func (s *Service) ListAppointments(ctx context.Context, day time.Time) ([]models.Appointment, error) {
	from, to := s.dayBounds(day)
	return s.store.ListAppointments(ctx, from, to)
}
