package booking

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mamadbah2/salonpos/internal/domain/models"
	"github.com/mamadbah2/salonpos/internal/scheduling"
)

// CreateStylist adds a bookable stylist.
func (s *Service) CreateStylist(ctx context.Context, name, phone string) (models.Stylist, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Stylist{}, validationError("Stylist name is required")
	}
	st := models.Stylist{
		ID:        uuid.NewString(),
		Name:      name,
		Phone:     strings.TrimSpace(phone),
		Available: true,
		Breaks:    []models.Break{},
		Holidays:  []models.Holiday{},
	}
	if err := s.store.InsertStylist(ctx, st); err != nil {
		return models.Stylist{}, fmt.Errorf("insert stylist: %w", err)
	}
	return st, nil
}

// ListStylists returns every stylist.
func (s *Service) ListStylists(ctx context.Context) ([]models.Stylist, error) {
	return s.store.ListStylists(ctx)
}

func validateBreak(req models.BreakRequest) error {
	if req.StartTime.IsZero() || req.EndTime.IsZero() {
		return validationError("Start and end time are required")
	}
	if !req.EndTime.After(req.StartTime) {
		return validationError("End time must be after start time")
	}
	return nil
}

// AddBreak blocks time in a stylist's day. The break may not overlap the
// stylist's other breaks or live appointments.
func (s *Service) AddBreak(ctx context.Context, stylistID string, req models.BreakRequest) (models.Break, error) {
	if err := validateBreak(req); err != nil {
		return models.Break{}, err
	}

	b := models.Break{
		ID:        uuid.NewString(),
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Reason:    strings.TrimSpace(req.Reason),
	}
	err := s.withBreaks(ctx, stylistID, req.StartTime, b.ID, func(breaks []models.Break) ([]models.Break, error) {
		return append(breaks, b), nil
	})
	if err != nil {
		return models.Break{}, err
	}

	s.logger.Info("break added", zap.String("stylist_id", stylistID), zap.String("break_id", b.ID))
	return b, nil
}

// UpdateBreak moves or edits an existing break.
func (s *Service) UpdateBreak(ctx context.Context, stylistID, breakID string, req models.BreakRequest) (models.Break, error) {
	if err := validateBreak(req); err != nil {
		return models.Break{}, err
	}

	var updated models.Break
	err := s.withBreaks(ctx, stylistID, req.StartTime, breakID, func(breaks []models.Break) ([]models.Break, error) {
		for i := range breaks {
			if breaks[i].ID == breakID {
				breaks[i].StartTime = req.StartTime
				breaks[i].EndTime = req.EndTime
				breaks[i].Reason = strings.TrimSpace(req.Reason)
				updated = breaks[i]
				return breaks, nil
			}
		}
		return nil, fmt.Errorf("%w: %s", ErrBreakNotFound, breakID)
	})
	if err != nil {
		return models.Break{}, err
	}

	s.logger.Info("break updated", zap.String("stylist_id", stylistID), zap.String("break_id", breakID))
	return updated, nil
}

// withBreaks checks the proposed break placement under the stylist's day lock
// and persists the list returned by edit. skipID is the id of the break being
// placed, so an edit is not compared with itself.
func (s *Service) withBreaks(ctx context.Context, stylistID string, start time.Time, skipID string, edit func([]models.Break) ([]models.Break, error)) error {
	release, err := s.lockStylists(ctx, []string{stylistID}, start)
	if err != nil {
		return err
	}
	defer release()

	st, err := s.loadStylist(ctx, stylistID)
	if err != nil {
		return err
	}

	breaks := append([]models.Break(nil), st.Breaks...)
	breaks, err = edit(breaks)
	if err != nil {
		return err
	}

	var proposed models.Break
	for _, b := range breaks {
		if b.ID == skipID {
			proposed = b
		}
	}

	from, to := s.dayBounds(start)
	appts, err := s.store.ListStylistAppointments(ctx, stylistID, from, to)
	if err != nil {
		return fmt.Errorf("list appointments for stylist %s: %w", stylistID, err)
	}

	iv := scheduling.Interval{Start: proposed.StartTime, End: proposed.EndTime}
	if c, ok := scheduling.BreakPlacementConflict(s.settings, stylistID, iv, skipID, breaks, appts); ok {
		what := "another break"
		if c.Kind == scheduling.ConflictAppointment {
			what = "an appointment"
		}
		return fmt.Errorf("%w: break overlaps %s from %s to %s", ErrBreakConflict, what,
			c.Interval.Start.Format("15:04"), c.Interval.End.Format("15:04"))
	}

	if err := s.store.SaveBreaks(ctx, stylistID, breaks); err != nil {
		return fmt.Errorf("save breaks: %w", err)
	}
	return nil
}

// DeleteBreak removes a break.
func (s *Service) DeleteBreak(ctx context.Context, stylistID, breakID string) error {
	st, err := s.loadStylist(ctx, stylistID)
	if err != nil {
		return err
	}

	kept := make([]models.Break, 0, len(st.Breaks))
	found := false
	for _, b := range st.Breaks {
		if b.ID == breakID {
			found = true
			continue
		}
		kept = append(kept, b)
	}
	if !found {
		return fmt.Errorf("%w: %s", ErrBreakNotFound, breakID)
	}

	if err := s.store.SaveBreaks(ctx, stylistID, kept); err != nil {
		return fmt.Errorf("save breaks: %w", err)
	}
	s.logger.Info("break deleted", zap.String("stylist_id", stylistID), zap.String("break_id", breakID))
	return nil
}

// SetHoliday marks a full day off. Existing appointments on that day are
// left in place and reported in the log.
func (s *Service) SetHoliday(ctx context.Context, stylistID string, req models.HolidayRequest) error {
	day, err := time.ParseInLocation(models.HolidayLayout, strings.TrimSpace(req.Date), s.settings.Location)
	if err != nil {
		return validationError("date must be formatted as YYYY-MM-DD")
	}
	if _, err := s.loadStylist(ctx, stylistID); err != nil {
		return err
	}

	h := models.Holiday{Date: day.Format(models.HolidayLayout), Reason: strings.TrimSpace(req.Reason)}
	if err := s.store.AddHoliday(ctx, stylistID, h); err != nil {
		return fmt.Errorf("add holiday: %w", err)
	}

	from, to := s.dayBounds(day)
	appts, err := s.store.ListStylistAppointments(ctx, stylistID, from, to)
	if err == nil {
		live := 0
		for _, a := range appts {
			if a.Status == models.AppointmentScheduled {
				live++
			}
		}
		if live > 0 {
			s.logger.Warn("holiday set over booked appointments",
				zap.String("stylist_id", stylistID),
				zap.String("date", h.Date),
				zap.Int("appointments", live))
		}
	}
	return nil
}

// RemoveHoliday clears a day off.
func (s *Service) RemoveHoliday(ctx context.Context, stylistID, date string) error {
	if _, err := time.Parse(models.HolidayLayout, date); err != nil {
		return validationError("date must be formatted as YYYY-MM-DD")
	}
	if _, err := s.loadStylist(ctx, stylistID); err != nil {
		return err
	}
	return s.store.RemoveHoliday(ctx, stylistID, date)
}

// SetAvailability toggles whether the stylist can be booked at all.
func (s *Service) SetAvailability(ctx context.Context, stylistID string, available bool) error {
	if _, err := s.loadStylist(ctx, stylistID); err != nil {
		return err
	}
	return s.store.SetStylistAvailability(ctx, stylistID, available)
}
