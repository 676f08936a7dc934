package scheduling

import (
	"time"

	"github.com/mamadbah2/salonpos/internal/domain/models"
)

// ConflictKind tells which calendar item blocked a placement.
type ConflictKind string

const (
	ConflictBreak       ConflictKind = "break"
	ConflictAppointment ConflictKind = "appointment"
)

// Conflict identifies the item that overlaps a requested interval.
type Conflict struct {
	Kind     ConflictKind
	ID       string
	Interval Interval
}

// breaksOnDay keeps the breaks whose start falls on the grid's date and
// returns them normalized to it.
func (g Grid) breaksOnDay(breaks []models.Break) []Interval {
	out := make([]Interval, 0, len(breaks))
	for _, b := range breaks {
		if !SameDay(b.StartTime, g.day, g.settings.Location) {
			continue
		}
		out = append(out, g.NormalizeInterval(b.StartTime, b.EndTime))
	}
	return out
}

// IsBreakTime reports whether the window starting at hour:minute on the
// viewed date overlaps one of the breaks. The window is BreakWindowMinutes
// long, which is wider than a single slot.
func (g Grid) IsBreakTime(breaks []models.Break, hour, minute int) bool {
	start := g.At(hour, minute)
	window := Interval{Start: start, End: start.Add(g.breakWindow())}
	for _, b := range g.breaksOnDay(breaks) {
		if window.Overlaps(b) {
			return true
		}
	}
	return false
}

// BreakConflict checks an appointment interval against the breaks that fall
// on the appointment's own date.
func BreakConflict(settings Settings, breaks []models.Break, start, end time.Time) (Conflict, bool) {
	g := NewGrid(start, settings)
	appt := g.NormalizeInterval(start, end)
	for _, b := range breaks {
		if !SameDay(b.StartTime, g.day, g.settings.Location) {
			continue
		}
		iv := g.NormalizeInterval(b.StartTime, b.EndTime)
		if appt.Overlaps(iv) {
			return Conflict{Kind: ConflictBreak, ID: b.ID, Interval: iv}, true
		}
	}
	return Conflict{}, false
}

// BreakPlacementConflict checks a proposed break against the stylist's other
// breaks and live appointments on the same date. skipBreakID excludes the
// break being edited.
func BreakPlacementConflict(settings Settings, stylistID string, proposed Interval, skipBreakID string, breaks []models.Break, appts []models.Appointment) (Conflict, bool) {
	g := NewGrid(proposed.Start, settings)
	candidate := g.NormalizeInterval(proposed.Start, proposed.End)

	for _, b := range breaks {
		if b.ID == skipBreakID || !SameDay(b.StartTime, g.day, g.settings.Location) {
			continue
		}
		iv := g.NormalizeInterval(b.StartTime, b.EndTime)
		if candidate.Overlaps(iv) {
			return Conflict{Kind: ConflictBreak, ID: b.ID, Interval: iv}, true
		}
	}

	for _, a := range appts {
		if a.Status == models.AppointmentCancelled || !a.InvolvesStylist(stylistID) {
			continue
		}
		if !SameDay(a.StartTime, g.day, g.settings.Location) {
			continue
		}
		iv := g.NormalizeInterval(a.StartTime, a.EndTime)
		if candidate.Overlaps(iv) {
			return Conflict{Kind: ConflictAppointment, ID: a.ID, Interval: iv}, true
		}
	}
	return Conflict{}, false
}

// SlotBooked reports whether slot falls inside a live appointment of the
// stylist. skipID excludes the appointment being edited.
func SlotBooked(settings Settings, stylistID string, slot time.Time, skipID string, appts []models.Appointment) (models.Appointment, bool) {
	g := NewGrid(slot, settings)
	at := g.Normalize(slot)
	for _, a := range appts {
		if a.ID == skipID || a.Status == models.AppointmentCancelled || !a.InvolvesStylist(stylistID) {
			continue
		}
		if !SameDay(a.StartTime, g.day, g.settings.Location) {
			continue
		}
		if g.NormalizeInterval(a.StartTime, a.EndTime).Contains(at) {
			return a, true
		}
	}
	return models.Appointment{}, false
}

// Reschedule returns the interval an appointment occupies after being dropped
// at newStart. The original duration is kept.
func Reschedule(appt models.Appointment, newStart time.Time) Interval {
	return Interval{Start: newStart, End: newStart.Add(appt.EndTime.Sub(appt.StartTime))}
}

// OnHoliday reports whether the stylist cannot be booked on day.
func OnHoliday(settings Settings, stylist models.Stylist, day time.Time) bool {
	if !stylist.Available {
		return true
	}
	loc := settings.Location
	if loc == nil {
		loc = DefaultSettings().Location
	}
	key := day.In(loc).Format(models.HolidayLayout)
	for _, h := range stylist.Holidays {
		if h.Date == key {
			return true
		}
	}
	return false
}
