package booking

import (
	"context"
	"fmt"
	"time"

	"github.com/mamadbah2/salonpos/internal/domain/models"
	"github.com/mamadbah2/salonpos/internal/scheduling"
)

// DayView is the calendar grid for one date.
type DayView struct {
	Date     string          `json:"date"`
	Slots    []time.Time     `json:"slots"`
	Stylists []StylistColumn `json:"stylists"`
}

// StylistColumn is one stylist's column on the grid.
type StylistColumn struct {
	StylistID    string              `json:"stylist_id"`
	Name         string              `json:"name"`
	OnHoliday    bool                `json:"on_holiday"`
	Slots        []SlotState         `json:"slots"`
	Appointments []PlacedAppointment `json:"appointments"`
	Breaks       []PlacedBreak       `json:"breaks"`
}

// SlotState flags one slot for a stylist.
type SlotState struct {
	Start  time.Time `json:"start"`
	Break  bool      `json:"break"`
	Booked bool      `json:"booked"`
}

// PlacedAppointment is an appointment with its pixel geometry.
type PlacedAppointment struct {
	models.Appointment
	Top    float64 `json:"top"`
	Height float64 `json:"height"`
}

// PlacedBreak is a break with its pixel geometry.
type PlacedBreak struct {
	models.Break
	Top    float64 `json:"top"`
	Height float64 `json:"height"`
}

// DayView lays out every stylist's appointments and breaks for day.
func (s *Service) DayView(ctx context.Context, day time.Time) (DayView, error) {
	grid := scheduling.NewGrid(day, s.settings)
	from, to := s.dayBounds(day)

	stylists, err := s.store.ListStylists(ctx)
	if err != nil {
		return DayView{}, fmt.Errorf("list stylists: %w", err)
	}
	appts, err := s.store.ListAppointments(ctx, from, to)
	if err != nil {
		return DayView{}, fmt.Errorf("list appointments: %w", err)
	}

	slots := grid.Slots()
	view := DayView{
		Date:     grid.Day().Format(models.HolidayLayout),
		Slots:    slots,
		Stylists: make([]StylistColumn, 0, len(stylists)),
	}

	for _, st := range stylists {
		col := StylistColumn{
			StylistID:    st.ID,
			Name:         st.Name,
			OnHoliday:    scheduling.OnHoliday(s.settings, st, grid.Day()),
			Slots:        make([]SlotState, 0, len(slots)),
			Appointments: []PlacedAppointment{},
			Breaks:       []PlacedBreak{},
		}

		for _, slot := range slots {
			_, booked := scheduling.SlotBooked(s.settings, st.ID, slot, "", appts)
			col.Slots = append(col.Slots, SlotState{
				Start:  slot,
				Break:  grid.IsBreakTime(st.Breaks, slot.Hour(), slot.Minute()),
				Booked: booked,
			})
		}

		for _, a := range appts {
			if a.Status == models.AppointmentCancelled || !a.InvolvesStylist(st.ID) {
				continue
			}
			col.Appointments = append(col.Appointments, PlacedAppointment{
				Appointment: a,
				Top:         grid.Position(a.StartTime),
				Height:      grid.Height(a.StartTime, a.EndTime),
			})
		}

		for _, b := range st.Breaks {
			if !scheduling.SameDay(b.StartTime, grid.Day(), grid.Location()) {
				continue
			}
			col.Breaks = append(col.Breaks, PlacedBreak{
				Break:  b,
				Top:    grid.Position(b.StartTime),
				Height: grid.Height(b.StartTime, b.EndTime),
			})
		}

		view.Stylists = append(view.Stylists, col)
	}
	return view, nil
}
