package scheduling

import (
	"time"
)

// Settings describes the salon day grid.
type Settings struct {
	Location            *time.Location
	BusinessStartHour   int
	BusinessEndHour     int
	SlotMinutes         int
	SlotHeight          float64
	HeaderOffsetMinutes int
	BreakWindowMinutes  int
}

// DefaultSettings returns the 08:00-22:00 grid with 15 minute slots of 30px.
func DefaultSettings() Settings {
	loc, err := time.LoadLocation("Asia/Kolkata")
	if err != nil {
		loc = time.FixedZone("IST", 5*3600+1800)
	}
	return Settings{
		Location:            loc,
		BusinessStartHour:   8,
		BusinessEndHour:     22,
		SlotMinutes:         15,
		SlotHeight:          30,
		HeaderOffsetMinutes: 30,
		BreakWindowMinutes:  30,
	}
}

// Grid is the day view for one calendar date.
type Grid struct {
	settings Settings
	day      time.Time
}

// NewGrid builds the grid for the date of day. Zero-valued settings fall back
// to the defaults.
func NewGrid(day time.Time, settings Settings) Grid {
	def := DefaultSettings()
	if settings.Location == nil {
		settings.Location = def.Location
	}
	if settings.SlotMinutes <= 0 {
		settings.SlotMinutes = def.SlotMinutes
	}
	if settings.SlotHeight <= 0 {
		settings.SlotHeight = def.SlotHeight
	}
	if settings.BusinessEndHour <= settings.BusinessStartHour {
		settings.BusinessStartHour = def.BusinessStartHour
		settings.BusinessEndHour = def.BusinessEndHour
	}
	if settings.BreakWindowMinutes <= 0 {
		settings.BreakWindowMinutes = def.BreakWindowMinutes
	}
	return Grid{settings: settings, day: StartOfDay(day, settings.Location)}
}

// Day returns midnight of the viewed date.
func (g Grid) Day() time.Time { return g.day }

// Location returns the salon time zone.
func (g Grid) Location() *time.Location { return g.settings.Location }

// Normalize moves t onto the viewed date, keeping its wall-clock hour and minute.
func (g Grid) Normalize(t time.Time) time.Time {
	local := t.In(g.settings.Location)
	return time.Date(g.day.Year(), g.day.Month(), g.day.Day(), local.Hour(), local.Minute(), 0, 0, g.settings.Location)
}

// NormalizeInterval normalizes both ends and rolls the end to the next day
// when it would otherwise precede the start.
func (g Grid) NormalizeInterval(start, end time.Time) Interval {
	s, e := g.Normalize(start), g.Normalize(end)
	if e.Before(s) {
		e = e.AddDate(0, 0, 1)
	}
	return Interval{Start: s, End: e}
}

// At returns hour:minute on the viewed date.
func (g Grid) At(hour, minute int) time.Time {
	return time.Date(g.day.Year(), g.day.Month(), g.day.Day(), hour, minute, 0, 0, g.settings.Location)
}

// Slots lists every slot start within business hours.
func (g Grid) Slots() []time.Time {
	step := time.Duration(g.settings.SlotMinutes) * time.Minute
	open := g.At(g.settings.BusinessStartHour, 0)
	closing := g.At(g.settings.BusinessEndHour, 0)

	slots := make([]time.Time, 0, int(closing.Sub(open)/step))
	for t := open; t.Before(closing); t = t.Add(step) {
		slots = append(slots, t)
	}
	return slots
}

// Position returns the top offset in pixels of an appointment starting at start.
// The header row occupies HeaderOffsetMinutes worth of grid above 08:00.
func (g Grid) Position(start time.Time) float64 {
	n := g.Normalize(start)
	minutes := (n.Hour()-g.settings.BusinessStartHour)*60 + n.Minute() + g.settings.HeaderOffsetMinutes
	return float64(minutes) / float64(g.settings.SlotMinutes) * g.settings.SlotHeight
}

// Height returns the pixel height of an appointment. Very short bookings are
// drawn at least half a slot tall.
func (g Grid) Height(start, end time.Time) float64 {
	iv := g.NormalizeInterval(start, end)
	height := iv.Duration().Minutes() / float64(g.settings.SlotMinutes) * g.settings.SlotHeight
	if floor := g.settings.SlotHeight / 2; height < floor {
		return floor
	}
	return height
}

func (g Grid) breakWindow() time.Duration {
	return time.Duration(g.settings.BreakWindowMinutes) * time.Minute
}
